package models

// 관리자 대시보드 원본 응답
type Dashboard struct {
	UserCount           int                `json:"userCount"`
	FabricSoftenerCount int                `json:"fabricSoftenerCount"`
	WashingHistoryCount int                `json:"washingHistoryCount"`
	WashingHistory      []DashboardWashing `json:"washingHistory"`
	ScentCount          map[string]int     `json:"scentCount"`
	FabricSoftenerList  []FabricSoftener   `json:"fabricSoftenerList"`
}

type DashboardWashing struct {
	WashingHistoryID int          `json:"washingHistoryId"`
	UserEmail        string       `json:"userEmail"`
	AnalysisType     AnalysisType `json:"analysisType"`
	Estimation       *bool        `json:"estimation"`
	CreatedAt        Timestamp    `json:"createdAt"`
}
