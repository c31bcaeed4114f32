package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const secureOriginKey = "secureOrigin"

// 요청 출처가 카메라를 쓸 수 있는 보안 컨텍스트인지 판정해 컨텍스트에 기록
// (https 이거나 호스트가 localhost)
func SecureOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		if p := c.GetHeader("X-Forwarded-Proto"); p != "" {
			scheme = strings.ToLower(strings.TrimSpace(strings.Split(p, ",")[0]))
		}
		c.Set(secureOriginKey, IsSecureOrigin(scheme, c.Request.Host))
		c.Next()
	}
}

func IsSecureOrigin(scheme, host string) bool {
	if strings.EqualFold(scheme, "https") {
		return true
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.EqualFold(host, "localhost")
}

func SecureOriginFrom(c *gin.Context) bool {
	return c.GetBool(secureOriginKey)
}
