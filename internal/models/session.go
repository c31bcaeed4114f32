package models

import "time"

// 브라우저 세션별 로그인 상태 (토큰 쌍 + 사용자 정보)
type Session struct {
	ID           string
	AccessToken  string
	RefreshToken string
	User         User
	CreatedAt    time.Time
	ExpiresAt    time.Time
}
