package models

// 백엔드 사용자 모델
type User struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`

	// 백엔드가 내려주지 않으면 nil (미인증으로 취급)
	Verified *bool `json:"isVerified,omitempty"`
}

// 회원가입 요청 바디
type SignupRequest struct {
	Name        string `json:"name" example:"홍길동"`
	Email       string `json:"email" example:"hong@example.com"`
	PhoneNumber string `json:"phoneNumber" example:"010-1234-5678"`
	Password    string `json:"password" example:"password123"`
}

type SignInRequest struct {
	Email    string `json:"email" example:"hong@example.com"`
	Password string `json:"password" example:"password123"`
}

// 로그인 성공 시 백엔드가 돌려주는 토큰 쌍과 사용자 정보
type SignInResponse struct {
	RefreshToken string `json:"refreshToken"`
	AccessToken  string `json:"accessToken"`
	User         User   `json:"user"`
}

type DuplicateCheckRequest struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

type EmailFindRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type EmailFindResponse struct {
	Email string `json:"email"`
}

type VerifyCodeSendRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type VerifyCodeSendResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	VerifyCode int    `json:"verifyCode"`
}

type VerifyCodeCheckRequest struct {
	Email      string `json:"email"`
	VerifyCode int    `json:"verifyCode"`
}

type PasswordResetRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// 관리자 사용자 수정 요청
type AdminUserUpdateRequest struct {
	UserID      int    `json:"userId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// 숫자만 남겨 010-1234-5678 형식으로 맞춤
func FormatPhone(v string) string {
	var digits []rune
	for _, r := range v {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	n := string(digits)
	switch {
	case len(n) <= 3:
		return n
	case len(n) <= 7:
		return n[:3] + "-" + n[3:]
	case len(n) > 11:
		n = n[:11]
	}
	return n[:3] + "-" + n[3:7] + "-" + n[7:]
}
