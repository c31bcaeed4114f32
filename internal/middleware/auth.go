package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"RushWash_Web/internal/auth"
	"RushWash_Web/internal/models"
	"RushWash_Web/internal/storage"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "rushwash_session"
	sessionKey    = "session"
	claimsKey     = "claims"
)

type SessionStore interface {
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// 쿠키의 세션을 읽어 컨텍스트에 넣음. 세션이 없어도 요청은 계속 진행
// 액세스 토큰이 만료됐으면 로그아웃된 것으로 보고 세션을 지움
func LoadSession(store SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || id == "" {
			c.Next()
			return
		}

		sess, err := store.GetSession(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, storage.ErrSessionNotFound) {
				log.Printf("LoadSession(): [ERROR] failed to load session: %v", err)
			}
			ClearSessionCookie(c)
			c.Next()
			return
		}

		claims, err := auth.ParseClaims(sess.AccessToken)
		if err != nil || claims.Expired(time.Now()) {
			if err := store.DeleteSession(c.Request.Context(), id); err != nil {
				log.Printf("LoadSession(): [ERROR] failed to drop expired session: %v", err)
			}
			ClearSessionCookie(c)
			c.Next()
			return
		}

		c.Set(sessionKey, sess)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// 로그인 필요 라우트
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "로그인이 필요합니다."})
			return
		}
		c.Next()
	}
}

// 관리자 콘솔 라우트. isAdmin은 토큰 이메일로 판정
func AdminOnly(isAdmin func(email string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "로그인이 필요합니다."})
			return
		}
		if !isAdmin(claims.Email) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "관리자만 접근할 수 있습니다."})
			return
		}
		c.Next()
	}
}

func CurrentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*models.Session)
	return sess
}

func CurrentClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// 세션 액세스 토큰 (없으면 빈 문자열)
func AccessToken(c *gin.Context) string {
	if sess := CurrentSession(c); sess != nil {
		return sess.AccessToken
	}
	return ""
}

func SetSessionCookie(c *gin.Context, id string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, int(ttl.Seconds()), "/", "", c.Request.TLS != nil, true)
}

func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", c.Request.TLS != nil, true)
}
