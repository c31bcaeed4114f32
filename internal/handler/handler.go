/**
* Name: 			handler.go
* Description: 		Gin HTTP 핸들러 공통 (의존성, 응답 형식, 백엔드 오류 변환)
* Workflow: 		핸들러 생성 → 라우트 등록 (router.go)
 */

package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"RushWash_Web/internal/admin"
	"RushWash_Web/internal/analysis"
	"RushWash_Web/internal/backend"
	"RushWash_Web/internal/intake"
	"RushWash_Web/internal/nearby"
	"RushWash_Web/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type SuccessResponse struct {
	Message string `json:"message" example:"처리되었습니다."`
}

type ErrorResponse struct {
	Error string `json:"error" example:"에러 원인 및 설명"`
}

// 음성 키워드 인식 (nil이면 비활성)
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, format string) (string, error)
}

type Deps struct {
	API      *backend.Client
	Store    *storage.Store
	Pages    *intake.Registry
	Analysis *analysis.Service
	Consoles *admin.Registry
	Metrics  *admin.Metrics
	Finder   *nearby.Finder

	// nil이면 음성 기능 비활성
	TTS analysis.Synthesizer
	STT Transcriber

	SessionTTL time.Duration
}

type Handler struct {
	Deps

	// 회원가입 폼별 중복 확인을 통과한 이메일
	signupChecks *cache.Cache
	// 인증번호 확인을 마친 이메일 (비밀번호 재설정 허용)
	verifiedEmails *cache.Cache
	// 진행 중인 로그아웃 (세션 ID)
	signingOut sync.Map
}

func New(d Deps) *Handler {
	return &Handler{
		Deps:           d,
		signupChecks:   cache.New(30*time.Minute, time.Hour),
		verifiedEmails: cache.New(10*time.Minute, 20*time.Minute),
	}
}

// 백엔드 오류를 응답으로 변환
// 백엔드가 4xx면 그 상태 그대로, success:false(2xx)는 400, 나머지는 502
func backendError(c *gin.Context, err error, fallback string) {
	status := http.StatusBadGateway
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status < http.StatusBadRequest:
			status = http.StatusBadRequest
		case apiErr.Status < http.StatusInternalServerError:
			status = apiErr.Status
		}
	} else {
		log.Printf("%s: [ERROR] backend request failed: %v", c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": backend.MessageOf(err, fallback)})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
