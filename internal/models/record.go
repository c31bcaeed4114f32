package models

import "time"

// 세션에 저장된 분석 결과 (결과 페이지 조회용)
type Record struct {
	ID        string         `json:"id"`
	SessionID string         `json:"-"`
	Result    AnalysisResult `json:"result"`
	CreatedAt time.Time      `json:"created_at"`
}
