package models

import "strings"

type AnalysisType string

const (
	AnalysisStain         AnalysisType = "STAIN"
	AnalysisLabel         AnalysisType = "LABEL"
	AnalysisLabelAndStain AnalysisType = "LABEL_AND_STAIN"
)

// 분석 유형 한글 표시명 ("both" 별칭 포함)
func (t AnalysisType) Label() string {
	switch strings.ToLower(string(t)) {
	case "stain":
		return "얼룩"
	case "label":
		return "라벨"
	case "label_and_stain", "both":
		return "얼룩과 라벨"
	default:
		return string(t)
	}
}

// 사용자 분석 내역 목록 항목
type WashingListItem struct {
	WashingHistoryID int          `json:"washingHistoryId"`
	AnalysisType     AnalysisType `json:"analysisType"`
	Analysis         string       `json:"analysis"`
	Estimation       *bool        `json:"estimation"`
	CreatedAt        Timestamp    `json:"createdAt"`
}

// 사용자 분석 내역 상세
type WashingDetail struct {
	ID            int          `json:"id"`
	StainImageURL string       `json:"stainImageUrl"`
	LabelImageURL string       `json:"labelImageUrl"`
	AnalysisType  AnalysisType `json:"analysisType"`
	StainCategory string       `json:"stainCategory"`
	Analysis      string       `json:"analysis"`
	Estimation    bool         `json:"estimation"`
	CreatedAt     Timestamp    `json:"createdAt"`
}

type WashingEstimationRequest struct {
	Estimation bool `json:"estimation"`
}

// 관리자 분석 내역 목록 항목 (이미지 URL 필드는 백엔드가 snake_case로 내려줌)
type AdminWashing struct {
	WashingHistoryID int          `json:"washingHistoryId"`
	UserID           int          `json:"userId"`
	AnalysisType     AnalysisType `json:"analysisType"`
	StainImageURL    string       `json:"stain_image_url"`
	LabelImageURL    string       `json:"label_image_url"`
	StainCategory    string       `json:"stainCategory"`
	Analysis         string       `json:"analysis"`
	Estimation       *bool        `json:"estimation"`
	CreatedAt        Timestamp    `json:"createdAt"`
}

type IDsRequest struct {
	IDs []int `json:"ids"`
}
