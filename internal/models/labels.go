package models

import (
	"strings"
	"unicode"
)

// 얼룩 분류 코드 → 한글명
var stainNames = map[string]string{
	"blood":    "혈액",
	"coffee":   "커피",
	"earth":    "흙/먼지",
	"ink":      "잉크",
	"kimchi":   "김치",
	"lipstick": "립스틱",
	"mustard":  "머스타드",
	"oil":      "기름",
	"wine":     "와인",
}

// 세탁기호 분류 코드 → 한글명
var symbolNames = map[string]string{
	// 세탁 온도
	"30C": "30℃ 세탁",
	"40C": "40℃ 세탁",
	"50C": "50℃ 세탁",
	"60C": "60℃ 세탁",
	"70C": "70℃ 세탁",
	"95C": "95℃ 세탁",

	// 금지
	"DN_bleach":     "표백 금지",
	"DN_dry":        "건조 금지",
	"DN_dry_clean":  "드라이클리닝 금지",
	"DN_iron":       "다림질 금지",
	"DN_steam":      "스팀 금지",
	"DN_tumble_dry": "회전건조 금지",
	"DN_wash":       "세탁 금지",
	"DN_wet_clean":  "습식청소 금지",
	"DN_wring":      "비틀어 짜기 금지",

	// 표백
	"bleach":              "표백 가능",
	"chlorine_bleach":     "염소계 표백제 가능",
	"non_chlorine_bleach": "무염소 표백제만 가능",

	// 자연건조
	"drip_dry":          "자연건조",
	"drip_dry_in_shade": "그늘에서 자연건조",
	"dry_flat":          "평평하게 건조",
	"dry_flat_in_shade": "그늘에서 평평하게 건조",
	"line_dry":          "줄에 걸어서 건조",
	"line_dry_in_shade": "그늘에서 줄걸이 건조",
	"natural_dry":       "자연건조",
	"shade_dry":         "그늘 건조",

	// 드라이클리닝
	"dry_clean":                                      "드라이클리닝",
	"dry_clean_any_solvent_except_trichloroethylene": "특정 용제 제외 드라이클리닝",
	"dry_clean_petrol_only":                          "석유계 용제만 드라이클리닝",

	"hand_wash":    "손세탁",
	"machine_wash": "기계세탁",

	// 다림질
	"iron":        "다림질 가능",
	"iron_high":   "고온 다림질",
	"iron_medium": "중온 다림질",
	"iron_low":    "저온 다림질",
	"steam":       "스팀 가능",

	// 회전건조
	"tumble_dry_normal":  "회전건조 보통",
	"tumble_dry_low":     "회전건조 저온",
	"tumble_dry_medium":  "회전건조 중온",
	"tumble_dry_high":    "회전건조 고온",
	"tumble_dry_no_heat": "회전건조 무열",

	"wet_clean": "습식청소",
	"wring":     "비틀어 짜기",
}

// 모르는 코드는 그대로 반환
func StainName(code string) string {
	if n, ok := stainNames[strings.ToLower(code)]; ok {
		return n
	}
	return code
}

func SymbolName(code string) string {
	if n, ok := symbolNames[code]; ok {
		return n
	}
	return code
}

// camelCase 키 → snake_case 키 (관리자 테이블 정렬 항목)
func SnakeCase(key string) string {
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
