package admin

import (
	"sort"

	"RushWash_Web/internal/models"
)

const recentSoftenerCount = 3

type DashboardView struct {
	TotalUsers      int              `json:"totalUsers"`
	TotalSofteners  int              `json:"totalSofteners"`
	TotalHistories  int              `json:"totalHistories"`
	RecentHistories []RecentHistory  `json:"recentHistories"`
	RecentSofteners []RecentSoftener `json:"recentSofteners"`
	Categories      []ScentShare     `json:"softenerCategories"`
}

type RecentHistory struct {
	ID           int    `json:"id"`
	UserEmail    string `json:"userEmail"`
	AnalysisType string `json:"analysisType"`
	CreatedAt    string `json:"createdAt"`
	Estimation   *bool  `json:"estimation"`
}

type RecentSoftener struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Brand         string `json:"brand"`
	ScentCategory string `json:"scentCategory"`
	CreatedAt     string `json:"createdAt"`
}

type ScentShare struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
}

// 대시보드 원본 응답을 화면용으로 가공
func ReshapeDashboard(d *models.Dashboard) DashboardView {
	view := DashboardView{
		TotalUsers:      d.UserCount,
		TotalSofteners:  d.FabricSoftenerCount,
		TotalHistories:  d.WashingHistoryCount,
		RecentHistories: make([]RecentHistory, 0, len(d.WashingHistory)),
		RecentSofteners: []RecentSoftener{},
		Categories:      make([]ScentShare, 0, len(d.ScentCount)),
	}

	for _, w := range d.WashingHistory {
		view.RecentHistories = append(view.RecentHistories, RecentHistory{
			ID:           w.WashingHistoryID,
			UserEmail:    w.UserEmail,
			AnalysisType: w.AnalysisType.Label(),
			CreatedAt:    w.CreatedAt.Date(),
			Estimation:   w.Estimation,
		})
	}

	softeners := append([]models.FabricSoftener(nil), d.FabricSoftenerList...)
	sort.SliceStable(softeners, func(i, j int) bool {
		return softeners[i].CreatedAt.After(softeners[j].CreatedAt.Time)
	})
	if len(softeners) > recentSoftenerCount {
		softeners = softeners[:recentSoftenerCount]
	}
	for _, s := range softeners {
		r := RecentSoftener{
			ID:            s.ID,
			Name:          s.ProductName,
			Brand:         s.Brand,
			ScentCategory: models.ScentLabel(s.ScentCategory),
			CreatedAt:     s.CreatedAt.Date(),
		}
		if r.Name == "" {
			r.Name = "이름 없음"
		}
		if r.Brand == "" {
			r.Brand = "브랜드 없음"
		}
		view.RecentSofteners = append(view.RecentSofteners, r)
	}

	for category, count := range d.ScentCount {
		view.Categories = append(view.Categories, ScentShare{
			Category: category,
			Label:    models.ScentLabel(category),
			Count:    count,
		})
	}
	// 개수가 같으면 카테고리 이름 순
	sort.Slice(view.Categories, func(i, j int) bool {
		a, b := view.Categories[i], view.Categories[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})
	return view
}
