package admin

import (
	"cmp"
	"strings"

	"RushWash_Web/internal/models"
)

// 관리자 분석 내역 행 (사용자 이름/이메일을 붙임)
type WashingRow struct {
	models.AdminWashing
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

type UserFilter struct {
	Search string `form:"search"`
	// all, verified, unverified
	Status string `form:"status"`
}

func (f UserFilter) Match(u models.User) bool {
	if f.Search != "" &&
		!strings.Contains(u.Name, f.Search) &&
		!strings.Contains(u.Email, f.Search) &&
		!strings.Contains(u.PhoneNumber, f.Search) {
		return false
	}
	verified := u.Verified != nil && *u.Verified
	switch f.Status {
	case "verified":
		return verified
	case "unverified":
		return !verified
	}
	return true
}

type SoftenerFilter struct {
	Search string `form:"search"`
	Scent  string `form:"scent"`
}

func (f SoftenerFilter) Match(s models.FabricSoftener) bool {
	if q := strings.ToLower(f.Search); q != "" &&
		!strings.Contains(strings.ToLower(s.ProductName), q) &&
		!strings.Contains(strings.ToLower(s.Brand), q) {
		return false
	}
	if f.Scent != "" {
		want, err := models.ParseScent(f.Scent)
		if err != nil {
			return false
		}
		got, err := models.ParseScent(s.ScentCategory)
		if err != nil || got != want {
			return false
		}
	}
	return true
}

type WashingFilter struct {
	Search       string `form:"search"`
	AnalysisType string `form:"analysisType"`
	UserID       int    `form:"userId"`
	// yyyy-mm-dd, 양끝 포함
	From string `form:"from"`
	To   string `form:"to"`
}

func (f WashingFilter) Match(w WashingRow) bool {
	if q := strings.ToLower(f.Search); q != "" &&
		!strings.Contains(strings.ToLower(w.UserName), q) &&
		!strings.Contains(strings.ToLower(w.Analysis), q) {
		return false
	}
	if f.AnalysisType != "" && !strings.EqualFold(string(w.AnalysisType), f.AnalysisType) {
		return false
	}
	if f.UserID != 0 && w.UserID != f.UserID {
		return false
	}
	day := w.CreatedAt.Date()
	if f.From != "" && day < f.From {
		return false
	}
	if f.To != "" && day > f.To {
		return false
	}
	return true
}

func compareTime(a, b models.Timestamp) int {
	return a.Compare(b.Time)
}

func boolRank(b *bool) int {
	switch {
	case b == nil:
		return 0
	case !*b:
		return 1
	default:
		return 2
	}
}

var userCompare = map[string]func(a, b models.User) int{
	"id":           func(a, b models.User) int { return cmp.Compare(a.ID, b.ID) },
	"name":         func(a, b models.User) int { return strings.Compare(a.Name, b.Name) },
	"email":        func(a, b models.User) int { return strings.Compare(a.Email, b.Email) },
	"phone_number": func(a, b models.User) int { return strings.Compare(a.PhoneNumber, b.PhoneNumber) },
	"created_at":   func(a, b models.User) int { return compareTime(a.CreatedAt, b.CreatedAt) },
	"updated_at":   func(a, b models.User) int { return compareTime(a.UpdatedAt, b.UpdatedAt) },
}

var softenerCompare = map[string]func(a, b models.FabricSoftener) int{
	"id":             func(a, b models.FabricSoftener) int { return cmp.Compare(a.ID, b.ID) },
	"brand":          func(a, b models.FabricSoftener) int { return strings.Compare(a.Brand, b.Brand) },
	"product_name":   func(a, b models.FabricSoftener) int { return strings.Compare(a.ProductName, b.ProductName) },
	"scent_category": func(a, b models.FabricSoftener) int { return strings.Compare(a.ScentCategory, b.ScentCategory) },
	"created_at":     func(a, b models.FabricSoftener) int { return compareTime(a.CreatedAt, b.CreatedAt) },
}

var washingCompare = map[string]func(a, b WashingRow) int{
	"id":            func(a, b WashingRow) int { return cmp.Compare(a.WashingHistoryID, b.WashingHistoryID) },
	"user":          func(a, b WashingRow) int { return strings.Compare(a.UserName, b.UserName) },
	"analysis_type": func(a, b WashingRow) int { return strings.Compare(string(a.AnalysisType), string(b.AnalysisType)) },
	"estimation":    func(a, b WashingRow) int { return cmp.Compare(boolRank(a.Estimation), boolRank(b.Estimation)) },
	"created_at":    func(a, b WashingRow) int { return compareTime(a.CreatedAt, b.CreatedAt) },
}
