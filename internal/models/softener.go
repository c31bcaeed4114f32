package models

import (
	"errors"
	"strings"
)

type FabricSoftener struct {
	ID            int       `json:"id"`
	ScentCategory string    `json:"scentCategory"`
	Brand         string    `json:"brand"`
	ProductName   string    `json:"productName"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	CreatedAt     Timestamp `json:"createdAt"`
	UpdatedAt     Timestamp `json:"updatedAt"`
}

// 관리자 섬유유연제 등록/수정 요청 (multipart의 request 파트)
type FabricSoftenerRequest struct {
	FabricSoftenerID int    `json:"fabricSoftenerId,omitempty"`
	ScentCategory    string `json:"scentCategory"`
	Brand            string `json:"brand"`
	ProductName      string `json:"productName"`
}

// 향기 카테고리
type ScentCategory int

const (
	ScentRefreshing ScentCategory = iota + 1
	ScentFloral
	ScentFruity
	ScentWoody
	ScentPowdery
	ScentCitrus
)

var ErrUnknownScent = errors.New("향기 카테고리를 찾을 수 없습니다.")

var scentNames = map[ScentCategory]string{
	ScentRefreshing: "REFRESHING",
	ScentFloral:     "FLORAL",
	ScentFruity:     "FRUITY",
	ScentWoody:      "WOODY",
	ScentPowdery:    "POWDERY",
	ScentCitrus:     "CITRUS",
}

var scentLabels = map[ScentCategory]string{
	ScentRefreshing: "상쾌한",
	ScentFloral:     "플로럴",
	ScentFruity:     "과일",
	ScentWoody:      "우디",
	ScentPowdery:    "파우더",
	ScentCitrus:     "시트러스",
}

func (s ScentCategory) String() string {
	if n, ok := scentNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}

// 한글 표시명
func (s ScentCategory) Label() string {
	return scentLabels[s]
}

// 대소문자 구분 없이 카테고리 이름 또는 숫자 ID를 해석
func ParseScent(v string) (ScentCategory, error) {
	v = strings.TrimSpace(v)
	for id, name := range scentNames {
		if strings.EqualFold(name, v) {
			return id, nil
		}
	}
	if len(v) == 1 && v[0] >= '1' && v[0] <= '6' {
		return ScentCategory(v[0] - '0'), nil
	}
	return 0, ErrUnknownScent
}

// 백엔드 코드값을 한글 표시명으로, 모르는 값은 그대로
func ScentLabel(code string) string {
	if s, err := ParseScent(code); err == nil {
		return s.Label()
	}
	return code
}

func AllScents() []ScentCategory {
	return []ScentCategory{ScentRefreshing, ScentFloral, ScentFruity, ScentWoody, ScentPowdery, ScentCitrus}
}
