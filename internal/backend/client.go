/**
* Name: 			client.go
* Description: 		RushWash REST 백엔드 HTTP 클라이언트
* Workflow: 		요청 생성, Bearer 토큰 첨부, {success, data, error} 응답 해석
 */

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

// 백엔드 공통 응답 형식
type Envelope[T any] struct {
	Success bool       `json:"success"`
	Data    T          `json:"data"`
	Error   *ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// success=false 응답 또는 4xx/5xx 응답
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("backend error %d (status %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
}

// err 체인에서 백엔드가 준 메시지를 꺼내고, 없으면 fallback
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// 업로드할 파일 한 개
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	// 업로드 본문을 감싸는 훅 (CLI 진행률 표시 등)
	WrapUpload func(body io.Reader, size int64) io.Reader
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// JSON 요청/응답
func call[T any](ctx context.Context, c *Client, method, path, token string, payload any) (T, error) {
	var zero T
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return zero, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		return zero, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return send[T](c, req)
}

// multipart 요청 (parts: 폼 필드명 → 파일, jsonParts: 폼 필드명 → JSON 값)
func upload[T any](ctx context.Context, c *Client, method, path, token string, parts map[string]File, jsonParts map[string]any) (T, error) {
	var zero T
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	for field, v := range jsonParts {
		raw, err := json.Marshal(v)
		if err != nil {
			return zero, err
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, field))
		h.Set("Content-Type", "application/json")
		w, err := mw.CreatePart(h)
		if err != nil {
			return zero, err
		}
		if _, err := w.Write(raw); err != nil {
			return zero, err
		}
	}

	for field, f := range parts {
		// 선택 파일(수정 시 이미지 없음)은 생략
		if len(f.Data) == 0 {
			continue
		}
		contentType := f.ContentType
		if contentType == "" {
			contentType = http.DetectContentType(f.Data)
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, f.Name))
		h.Set("Content-Type", contentType)
		w, err := mw.CreatePart(h)
		if err != nil {
			return zero, err
		}
		if _, err := w.Write(f.Data); err != nil {
			return zero, err
		}
	}
	if err := mw.Close(); err != nil {
		return zero, err
	}

	size := int64(buf.Len())
	var body io.Reader = buf
	if c.WrapUpload != nil {
		body = c.WrapUpload(body, size)
	}

	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		return zero, err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return send[T](c, req)
}

func send[T any](c *Client, req *http.Request) (T, error) {
	var zero T
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("backend.send(): %s %s failed: %v", req.Method, req.URL.Path, err)
		return zero, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, err
	}
	return decodeEnvelope[T](resp.StatusCode, raw)
}

func decodeEnvelope[T any](status int, raw []byte) (T, error) {
	var zero T
	var env Envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		if status >= 400 {
			return zero, &APIError{Status: status, Message: strings.TrimSpace(string(raw))}
		}
		return zero, fmt.Errorf("backend: malformed response (status %d): %w", status, err)
	}

	if !env.Success || status >= 400 {
		apiErr := &APIError{Status: status}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return zero, apiErr
	}
	return env.Data, nil
}
