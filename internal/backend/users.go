package backend

import (
	"context"
	"net/http"

	"RushWash_Web/internal/models"
)

func (c *Client) Signup(ctx context.Context, req models.SignupRequest) error {
	_, err := call[any](ctx, c, http.MethodPost, "/users/signup", "", req)
	return err
}

func (c *Client) SignIn(ctx context.Context, req models.SignInRequest) (*models.SignInResponse, error) {
	res, err := call[models.SignInResponse](ctx, c, http.MethodPost, "/users/sign-in", "", req)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// 서버 측 세션 정리 요청. 실패해도 호출자는 로컬 상태를 지워야 함
func (c *Client) SignOut(ctx context.Context, token string) error {
	_, err := call[any](ctx, c, http.MethodPost, "/users/sign-out", token, nil)
	return err
}

// 이메일/전화번호 중복 확인. 중복이면 APIError
func (c *Client) DuplicateCheck(ctx context.Context, req models.DuplicateCheckRequest) error {
	_, err := call[any](ctx, c, http.MethodPost, "/users/duplicate-check", "", req)
	return err
}

func (c *Client) FindEmail(ctx context.Context, phoneNumber string) (string, error) {
	res, err := call[models.EmailFindResponse](ctx, c, http.MethodPost, "/users/email", "",
		models.EmailFindRequest{PhoneNumber: phoneNumber})
	if err != nil {
		return "", err
	}
	return res.Email, nil
}

func (c *Client) SendVerifyCode(ctx context.Context, req models.VerifyCodeSendRequest) (*models.VerifyCodeSendResponse, error) {
	res, err := call[models.VerifyCodeSendResponse](ctx, c, http.MethodPost, "/users/verify-code", "", req)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) CheckVerifyCode(ctx context.Context, req models.VerifyCodeCheckRequest) error {
	_, err := call[any](ctx, c, http.MethodPost, "/users/verify-code/check", "", req)
	return err
}

func (c *Client) ResetPassword(ctx context.Context, req models.PasswordResetRequest) error {
	_, err := call[any](ctx, c, http.MethodPatch, "/users/password", "", req)
	return err
}
