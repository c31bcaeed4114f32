/**
* Name: 			user_handler.go
* Description: 		회원가입, 로그인/로그아웃, 이메일 찾기, 비밀번호 재설정
* Workflow: 		이메일 중복 확인 → 회원가입, 로그인 시 세션 생성(쿠키), 인증번호 확인 → 비밀번호 변경
 */

package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"RushWash_Web/internal/middleware"
	"RushWash_Web/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const signupCookie = "rushwash_signup"

// 회원가입 폼 요청 바디
type SignupForm struct {
	Name            string `json:"name" example:"홍길동"`
	Email           string `json:"email" example:"hong@example.com"`
	PhoneNumber     string `json:"phoneNumber" example:"01012345678"`
	Password        string `json:"password" example:"password123"`
	ConfirmPassword string `json:"confirmPassword" example:"password123"`
	AgreeTerms      bool   `json:"agreeTerms" example:"true"`
}

type DuplicateCheckForm struct {
	Email       string `json:"email" example:"hong@example.com"`
	PhoneNumber string `json:"phoneNumber" example:"010-1234-5678"`
}

type PasswordResetForm struct {
	Email           string `json:"email" example:"hong@example.com"`
	Password        string `json:"password" example:"newpassword1"`
	ConfirmPassword string `json:"confirmPassword" example:"newpassword1"`
}

type SignInResult struct {
	User    models.User `json:"user"`
	IsAdmin bool        `json:"isAdmin"`
}

type EmailResponse struct {
	Email string `json:"email" example:"hong@example.com"`
}

// 회원가입 폼 식별 쿠키 (없으면 발급)
func signupFormID(c *gin.Context) string {
	if id, err := c.Cookie(signupCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(signupCookie, id, int((30 * time.Minute).Seconds()), "/", "", c.Request.TLS != nil, true)
	return id
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CheckDuplicate godoc
// @Summary      이메일 중복 확인
// @Description  회원가입 전에 반드시 통과해야 합니다. 이메일을 바꾸면 다시 확인해야 합니다.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        request body handler.DuplicateCheckForm true "이메일/전화번호"
// @Success      200 {object} handler.SuccessResponse
// @Failure      400 {object} handler.ErrorResponse
// @Failure      409 {object} handler.ErrorResponse "이미 사용 중인 이메일"
// @Router       /api/users/duplicate-check [post]
func (h *Handler) CheckDuplicate(c *gin.Context) {
	var form DuplicateCheckForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	formID := signupFormID(c)
	h.signupChecks.Delete(formID)

	if strings.TrimSpace(form.Email) == "" {
		badRequest(c, "이메일을 입력해주세요.")
		return
	}

	err := h.API.DuplicateCheck(c.Request.Context(), models.DuplicateCheckRequest{
		Email:       strings.TrimSpace(form.Email),
		PhoneNumber: models.FormatPhone(form.PhoneNumber),
	})
	if err != nil {
		backendError(c, err, "이미 사용 중인 이메일입니다.")
		return
	}
	h.signupChecks.SetDefault(formID, normalizeEmail(form.Email))
	c.JSON(http.StatusOK, gin.H{"message": "사용 가능한 이메일입니다."})
}

// Signup godoc
// @Summary      회원가입 (Signup)
// @Description  이메일 중복 확인 → 비밀번호 확인 → 약관 동의 순으로 검사한 뒤 백엔드에 가입을 요청합니다.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        request body handler.SignupForm true "회원가입 요청 정보"
// @Success      200 {object} handler.SuccessResponse
// @Failure      400 {object} handler.ErrorResponse
// @Router       /api/users/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var form SignupForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	// 중복 확인한 이메일과 다르면 확인이 풀린 것
	formID := signupFormID(c)
	checked, ok := h.signupChecks.Get(formID)
	if !ok || checked.(string) != normalizeEmail(form.Email) {
		h.signupChecks.Delete(formID)
		badRequest(c, "이메일 중복 확인을 먼저 해주세요.")
		return
	}
	if form.Password != form.ConfirmPassword {
		badRequest(c, "비밀번호와 비밀번호 확인이 일치하지 않습니다.")
		return
	}
	if !form.AgreeTerms {
		badRequest(c, "서비스 이용약관 및 개인정보 처리방침에 동의해주세요.")
		return
	}
	if strings.TrimSpace(form.Name) == "" || strings.TrimSpace(form.Password) == "" {
		badRequest(c, "이름과 비밀번호를 입력해주세요.")
		return
	}

	err := h.API.Signup(c.Request.Context(), models.SignupRequest{
		Name:        strings.TrimSpace(form.Name),
		Email:       strings.TrimSpace(form.Email),
		PhoneNumber: models.FormatPhone(form.PhoneNumber),
		Password:    form.Password,
	})
	if err != nil {
		backendError(c, err, "회원가입 중 오류가 발생했습니다.")
		return
	}
	h.signupChecks.Delete(formID)
	c.JSON(http.StatusOK, gin.H{"message": "회원가입이 완료되었습니다. 로그인 페이지로 이동합니다."})
}

// SignIn godoc
// @Summary      로그인
// @Description  백엔드에서 받은 토큰과 사용자 정보를 세션에 저장하고 세션 쿠키를 발급합니다.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        request body models.SignInRequest true "로그인 정보"
// @Success      200 {object} handler.SignInResult
// @Failure      400 {object} handler.ErrorResponse
// @Failure      401 {object} handler.ErrorResponse
// @Router       /api/users/sign-in [post]
func (h *Handler) SignIn(isAdmin func(string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SignInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			badRequest(c, "이메일과 비밀번호를 입력해주세요.")
			return
		}

		res, err := h.API.SignIn(c.Request.Context(), req)
		if err != nil {
			backendError(c, err, "로그인에 실패했습니다.")
			return
		}

		// 다른 계정으로 다시 로그인하면 이전 세션은 정리
		if old := middleware.CurrentSession(c); old != nil {
			h.dropSession(c.Request.Context(), old.ID)
		}

		sess, err := h.Store.CreateSession(c.Request.Context(), res.AccessToken, res.RefreshToken, res.User)
		if err != nil {
			log.Printf("SignIn(): [ERROR] failed to create session: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}
		middleware.SetSessionCookie(c, sess.ID, h.SessionTTL)
		c.JSON(http.StatusOK, SignInResult{User: res.User, IsAdmin: isAdmin(res.User.Email)})
	}
}

// SignOut godoc
// @Summary      로그아웃
// @Description  백엔드 로그아웃 결과와 관계없이 세션과 분석 페이지 상태를 모두 지웁니다.
// @Tags         User
// @Produce      json
// @Success      200 {object} handler.SuccessResponse
// @Router       /api/users/sign-out [post]
func (h *Handler) SignOut(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		middleware.ClearSessionCookie(c)
		c.JSON(http.StatusOK, gin.H{"message": "로그아웃되었습니다."})
		return
	}

	// 같은 세션의 중복 로그아웃 요청은 백엔드에 다시 보내지 않음
	if _, busy := h.signingOut.LoadOrStore(sess.ID, struct{}{}); busy {
		c.JSON(http.StatusAccepted, gin.H{"message": "로그아웃 중입니다."})
		return
	}
	defer h.signingOut.Delete(sess.ID)

	if err := h.API.SignOut(c.Request.Context(), sess.AccessToken); err != nil {
		log.Printf("SignOut(): [ERROR] backend sign-out failed, clearing local session anyway: %v", err)
	}
	h.dropSession(c.Request.Context(), sess.ID)
	middleware.ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "로그아웃되었습니다."})
}

func (h *Handler) dropSession(ctx context.Context, id string) {
	if err := h.Store.DeleteSession(ctx, id); err != nil {
		log.Printf("dropSession(): [ERROR] %v", err)
	}
	h.Pages.Drop(id)
	if h.Consoles != nil {
		h.Consoles.Drop(id)
	}
}

// Me godoc
// @Summary      현재 로그인 사용자
// @Tags         User
// @Produce      json
// @Success      200 {object} handler.SignInResult
// @Failure      401 {object} handler.ErrorResponse
// @Router       /api/users/me [get]
func (h *Handler) Me(isAdmin func(string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.CurrentSession(c)
		c.JSON(http.StatusOK, SignInResult{User: sess.User, IsAdmin: isAdmin(sess.User.Email)})
	}
}

// FindEmail godoc
// @Summary      이메일 찾기
// @Description  가입할 때 입력한 전화번호로 이메일을 찾습니다.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        request body models.EmailFindRequest true "전화번호"
// @Success      200 {object} handler.EmailResponse
// @Failure      400 {object} handler.ErrorResponse
// @Failure      404 {object} handler.ErrorResponse
// @Router       /api/users/email [post]
func (h *Handler) FindEmail(c *gin.Context) {
	var req models.EmailFindRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.PhoneNumber) == "" {
		badRequest(c, "전화번호를 입력해주세요.")
		return
	}
	email, err := h.API.FindEmail(c.Request.Context(), models.FormatPhone(req.PhoneNumber))
	if err != nil {
		backendError(c, err, "사용자 정보를 찾을 수 없습니다.")
		return
	}
	c.JSON(http.StatusOK, EmailResponse{Email: email})
}

// SendVerifyCode godoc
// @Summary      비밀번호 재설정 인증번호 전송
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        request body models.VerifyCodeSendRequest true "이름/이메일"
// @Success      200 {object} handler.SuccessResponse
// @Failure      400 {object} handler.ErrorResponse
// @Router       /api/users/verify-code [post]
func (h *Handler) SendVerifyCode(c *gin.Context) {
	var req models.VerifyCodeSendRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Name) == "" {
		badRequest(c, "이름과 이메일을 입력해주세요.")
		return
	}
	h.verifiedEmails.Delete(normalizeEmail(req.Email))

	if _, err := h.API.SendVerifyCode(c.Request.Context(), req); err != nil {
		backendError(c, err, "인증번호 전송에 실패했습니다.")
		return
	}
	// 인증번호는 화면에 돌려주지 않음
	c.JSON(http.StatusOK, gin.H{"message": "인증번호가 전송되었습니다."})
}

// CheckVerifyCode godoc
// @Summary      인증번호 확인
// @Description  확인에 성공한 이메일만 비밀번호를 재설정할 수 있습니다.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        request body models.VerifyCodeCheckRequest true "이메일/인증번호"
// @Success      200 {object} handler.SuccessResponse
// @Failure      400 {object} handler.ErrorResponse
// @Router       /api/users/verify-code/check [post]
func (h *Handler) CheckVerifyCode(c *gin.Context) {
	var req models.VerifyCodeCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		badRequest(c, "이메일과 인증번호를 입력해주세요.")
		return
	}
	if err := h.API.CheckVerifyCode(c.Request.Context(), req); err != nil {
		backendError(c, err, "인증번호가 일치하지 않습니다.")
		return
	}
	h.verifiedEmails.SetDefault(normalizeEmail(req.Email), true)
	c.JSON(http.StatusOK, gin.H{"message": "인증이 완료되었습니다. 비밀번호 재설정 페이지로 이동합니다."})
}

// ResetPassword godoc
// @Summary      비밀번호 재설정
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        request body handler.PasswordResetForm true "이메일/새 비밀번호"
// @Success      200 {object} handler.SuccessResponse
// @Failure      400 {object} handler.ErrorResponse
// @Failure      403 {object} handler.ErrorResponse "인증번호 확인 전"
// @Router       /api/users/password [patch]
func (h *Handler) ResetPassword(c *gin.Context) {
	var form PasswordResetForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	if strings.TrimSpace(form.Email) == "" || form.Password == "" || form.ConfirmPassword == "" {
		badRequest(c, "모든 필드를 입력해주세요")
		return
	}
	if form.Password != form.ConfirmPassword {
		badRequest(c, "비밀번호가 일치하지 않습니다")
		return
	}
	email := normalizeEmail(form.Email)
	if _, ok := h.verifiedEmails.Get(email); !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "인증번호 확인을 먼저 해주세요."})
		return
	}

	err := h.API.ResetPassword(c.Request.Context(), models.PasswordResetRequest{
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
	})
	if err != nil {
		backendError(c, err, "비밀번호 변경에 실패했습니다.")
		return
	}
	h.verifiedEmails.Delete(email)
	c.JSON(http.StatusOK, gin.H{"message": "비밀번호가 성공적으로 변경되었습니다."})
}
