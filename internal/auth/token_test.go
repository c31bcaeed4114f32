package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// 테스트용 토큰 (키는 아무 값이나 상관없음)
func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-service-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestParseClaimsIgnoresSignature(t *testing.T) {
	now := time.Now()
	tok := sign(t, jwt.MapClaims{
		"userId": 12,
		"email":  "admin@rushwash.kr",
		"iat":    now.Unix(),
		"exp":    now.Add(time.Hour).Unix(),
	})

	claims, err := ParseClaims(tok)
	if err != nil {
		t.Fatalf("ParseClaims: %v", err)
	}
	if claims.UserID != 12 || claims.Email != "admin@rushwash.kr" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Expired(now) {
		t.Error("token should not be expired yet")
	}
}

func TestLoggedIn(t *testing.T) {
	now := time.Now()
	for name, tc := range map[string]struct {
		token string
		want  bool
	}{
		"empty":     {"", false},
		"garbage":   {"not-a-jwt", false},
		"valid":     {sign(t, jwt.MapClaims{"email": "a@b.c", "exp": now.Add(time.Minute).Unix()}), true},
		"expired":   {sign(t, jwt.MapClaims{"email": "a@b.c", "exp": now.Add(-time.Minute).Unix()}), false},
		"no expiry": {sign(t, jwt.MapClaims{"email": "a@b.c"}), true},
	} {
		t.Run(name, func(t *testing.T) {
			if got := LoggedIn(tc.token, now); got != tc.want {
				t.Errorf("LoggedIn = %v, want %v", got, tc.want)
			}
		})
	}
}
