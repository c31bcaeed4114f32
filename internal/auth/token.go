/* 백엔드가 발급한 액세스 토큰의 클레임 조회 (서명 검증은 백엔드 몫) */

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrNoToken = errors.New("auth: empty token")

// 백엔드 JWT 페이로드 (userId, email, iat, exp)
type Claims struct {
	UserID int    `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// 서명 검증 없이 클레임만 읽음. 화면 분기(로그인 여부, 관리자 메뉴)에만 사용
func ParseClaims(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrNoToken
	}
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// exp 클레임이 지났는지 확인 (exp가 없으면 만료되지 않은 것으로 봄)
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !now.Before(c.ExpiresAt.Time)
}

// 토큰이 있고 만료되지 않았으면 로그인 상태
func LoggedIn(tokenString string, now time.Time) bool {
	claims, err := ParseClaims(tokenString)
	if err != nil {
		return false
	}
	return !claims.Expired(now)
}
