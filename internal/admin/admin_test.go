package admin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"RushWash_Web/internal/backend"
	"RushWash_Web/internal/models"
)

func ts(s string) models.Timestamp {
	t, err := models.ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return t
}

func boolPtr(b bool) *bool { return &b }

type fakeBackend struct {
	users     []models.User
	softeners []models.FabricSoftener
	washings  []models.AdminWashing
	dashboard *models.Dashboard

	fetches    map[string]int
	batchErr   error
	deleteErr  map[int]error
	deleted    []int
	updateUser *models.User
	updateErr  error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{fetches: map[string]int{}, deleteErr: map[int]error{}}
}

func (f *fakeBackend) AdminUsers(context.Context, string) ([]models.User, error) {
	f.fetches["users"]++
	return append([]models.User(nil), f.users...), nil
}

func (f *fakeBackend) AdminUpdateUser(_ context.Context, _ string, req models.AdminUserUpdateRequest) (*models.User, error) {
	return f.updateUser, f.updateErr
}

func (f *fakeBackend) AdminFabricSofteners(context.Context, string) ([]models.FabricSoftener, error) {
	f.fetches["softeners"]++
	return append([]models.FabricSoftener(nil), f.softeners...), nil
}

func (f *fakeBackend) AdminCreateFabricSoftener(_ context.Context, _ string, req models.FabricSoftenerRequest, _ backend.File) (*models.FabricSoftener, error) {
	f.softeners = append(f.softeners, models.FabricSoftener{ID: 99, Brand: req.Brand, ProductName: req.ProductName})
	return nil, nil
}

func (f *fakeBackend) AdminUpdateFabricSoftener(context.Context, string, models.FabricSoftenerRequest, backend.File) (*models.FabricSoftener, error) {
	return nil, errors.New("boom")
}

func (f *fakeBackend) AdminWashings(context.Context, string) ([]models.AdminWashing, error) {
	f.fetches["washings"]++
	return append([]models.AdminWashing(nil), f.washings...), nil
}

func (f *fakeBackend) AdminGoodWashings(context.Context, string) ([]models.AdminWashing, error) {
	var out []models.AdminWashing
	for _, w := range f.washings {
		if w.Estimation != nil && *w.Estimation {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeBackend) AdminDelete(_ context.Context, _ string, _ backend.Resource, id int) error {
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) AdminBatchDelete(_ context.Context, _ string, _ backend.Resource, ids []int) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	f.deleted = append(f.deleted, ids...)
	return nil
}

func (f *fakeBackend) AdminDashboard(context.Context, string) (*models.Dashboard, error) {
	return f.dashboard, nil
}

func manyUsers(n int) []models.User {
	users := make([]models.User, n)
	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.Local)
	for i := range users {
		users[i] = models.User{
			ID:        i + 1,
			Name:      string(rune('가' + i)),
			Email:     "user" + string(rune('a'+i)) + "@example.com",
			CreatedAt: models.Timestamp{Time: base.Add(time.Duration(i) * time.Hour)},
		}
	}
	return users
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		rows, page      int
		wantPage, pages int
		wantLen         int
	}{
		{0, 1, 1, 1, 0},
		{10, 1, 1, 1, 10},
		{11, 2, 2, 2, 1},
		{25, 9, 3, 3, 5},
		{25, 0, 1, 3, 10},
	}
	for _, tt := range tests {
		p := Paginate(make([]int, tt.rows), tt.page)
		if p.Page != tt.wantPage || p.TotalPages != tt.pages || len(p.Rows) != tt.wantLen || p.Total != tt.rows {
			t.Errorf("Paginate(%d rows, page %d) = page %d/%d len %d", tt.rows, tt.page, p.Page, p.TotalPages, len(p.Rows))
		}
	}
}

func TestUsersDefaultSortAndToggle(t *testing.T) {
	api := newFakeBackend()
	api.users = manyUsers(12)
	c := NewConsole(api, "tok")
	if err := c.Users.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	p := c.Users.Query(nil, 1)
	if p.Rows[0].ID != 12 || p.TotalPages != 2 || len(p.Rows) != 10 {
		t.Errorf("default page = first %d pages %d len %d", p.Rows[0].ID, p.TotalPages, len(p.Rows))
	}

	// 같은 필드 → 방향 전환
	s, _ := c.Users.ToggleSort("created_at")
	if s.Direction != Asc {
		t.Errorf("toggle same field = %+v", s)
	}
	// 새 필드 → desc부터
	s, _ = c.Users.ToggleSort("name")
	if s != (Sort{Field: "name", Direction: Desc}) {
		t.Errorf("toggle new field = %+v", s)
	}
	if _, err := c.Users.ToggleSort("password"); err == nil {
		t.Error("unknown field should fail")
	}

	// Load는 한 번만 조회
	_ = c.Users.Load(context.Background())
	if api.fetches["users"] != 1 {
		t.Errorf("fetches = %d", api.fetches["users"])
	}
}

func TestUserStatusFilter(t *testing.T) {
	users := []models.User{
		{ID: 1, Name: "김철수", Verified: boolPtr(true)},
		{ID: 2, Name: "이영희", Verified: boolPtr(false)},
		{ID: 3, Name: "박민수"},
	}
	count := func(f UserFilter) int {
		n := 0
		for _, u := range users {
			if f.Match(u) {
				n++
			}
		}
		return n
	}
	if got := count(UserFilter{Status: "verified"}); got != 1 {
		t.Errorf("verified = %d", got)
	}
	// 값이 없으면 미인증
	if got := count(UserFilter{Status: "unverified"}); got != 2 {
		t.Errorf("unverified = %d", got)
	}
	if got := count(UserFilter{Search: "영희"}); got != 1 {
		t.Errorf("search = %d", got)
	}
}

func TestWashingsJoinAndFilter(t *testing.T) {
	api := newFakeBackend()
	api.users = []models.User{{ID: 7, Name: "Hong", Email: "hong@example.com"}}
	api.washings = []models.AdminWashing{
		{WashingHistoryID: 1, UserID: 7, AnalysisType: models.AnalysisStain, Analysis: "Coffee", CreatedAt: ts("2025-05-01T10:00:00")},
		{WashingHistoryID: 2, UserID: 7, AnalysisType: models.AnalysisLabel, Analysis: "30C", CreatedAt: ts("2025-05-03T10:00:00")},
		{WashingHistoryID: 3, UserID: 8, AnalysisType: models.AnalysisStain, Analysis: "wine", CreatedAt: ts("2025-05-05T23:59:00")},
	}
	c := NewConsole(api, "tok")
	if err := c.Washings.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	row, _ := c.Washings.Get(1)
	if row.UserName != "Hong" || row.UserEmail != "hong@example.com" {
		t.Errorf("joined row = %+v", row)
	}

	ids := func(f WashingFilter) []int {
		var out []int
		for _, r := range c.Washings.Query(f.Match, 1).Rows {
			out = append(out, r.WashingHistoryID)
		}
		return out
	}
	if got := ids(WashingFilter{Search: "hong"}); !reflect.DeepEqual(got, []int{2, 1}) {
		t.Errorf("search hong = %v", got)
	}
	if got := ids(WashingFilter{Search: "COFFEE"}); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("search coffee = %v", got)
	}
	if got := ids(WashingFilter{AnalysisType: "stain"}); !reflect.DeepEqual(got, []int{3, 1}) {
		t.Errorf("type = %v", got)
	}
	if got := ids(WashingFilter{From: "2025-05-03", To: "2025-05-05"}); !reflect.DeepEqual(got, []int{3, 2}) {
		t.Errorf("range = %v", got)
	}
	if got := ids(WashingFilter{UserID: 8}); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("user = %v", got)
	}

	// 분석 내역은 새 필드를 asc로 시작
	if s, _ := c.Washings.ToggleSort("id"); s.Direction != Asc {
		t.Errorf("washings new field = %+v", s)
	}
}

func TestSoftenerFilter(t *testing.T) {
	s := models.FabricSoftener{Brand: "Downy", ProductName: "Fresh Linen", ScentCategory: "FLORAL"}
	tests := []struct {
		f    SoftenerFilter
		want bool
	}{
		{SoftenerFilter{Search: "downy"}, true},
		{SoftenerFilter{Search: "LINEN"}, true},
		{SoftenerFilter{Search: "피죤"}, false},
		{SoftenerFilter{Scent: "floral"}, true},
		{SoftenerFilter{Scent: "2"}, true},
		{SoftenerFilter{Scent: "WOODY"}, false},
	}
	for _, tt := range tests {
		if got := tt.f.Match(s); got != tt.want {
			t.Errorf("%+v.Match = %v", tt.f, got)
		}
	}
}

func TestBulkDeleteBatch(t *testing.T) {
	api := newFakeBackend()
	api.users = manyUsers(5)
	c := NewConsole(api, "tok")
	_ = c.Users.Load(context.Background())

	res, err := c.BulkDelete(context.Background(), backend.ResourceUsers, []int{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Batched || res.Succeeded != 2 || res.Failed != 0 {
		t.Errorf("res = %+v", res)
	}
	if c.Users.Len() != 3 {
		t.Errorf("len = %d", c.Users.Len())
	}
}

func TestBulkDeleteFallsBackToSequential(t *testing.T) {
	api := newFakeBackend()
	api.users = manyUsers(5)
	api.batchErr = &backend.APIError{Status: 404}
	api.deleteErr[3] = errors.New("in use")
	c := NewConsole(api, "tok")
	_ = c.Users.Load(context.Background())

	res, err := c.BulkDelete(context.Background(), backend.ResourceUsers, []int{1, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if res.Batched || res.Succeeded != 2 || res.Failed != 1 || !reflect.DeepEqual(res.FailedIDs, []int{3}) {
		t.Errorf("res = %+v", res)
	}
	if !reflect.DeepEqual(api.deleted, []int{1, 4}) {
		t.Errorf("deleted = %v", api.deleted)
	}
	// 실패가 있으면 전체 재조회
	if api.fetches["users"] != 2 {
		t.Errorf("fetches = %d", api.fetches["users"])
	}
}

func TestUpdateFallsBackToRefresh(t *testing.T) {
	api := newFakeBackend()
	api.users = manyUsers(2)
	c := NewConsole(api, "tok")
	_ = c.Users.Load(context.Background())

	// 응답에 행이 있으면 바로 반영
	api.updateUser = &models.User{ID: 1, Name: "바뀜", PhoneNumber: "010-0000-0000"}
	u, err := c.UpdateUser(context.Background(), models.AdminUserUpdateRequest{UserID: 1, PhoneNumber: "01000000000"})
	if err != nil || u.Name != "바뀜" {
		t.Fatalf("u = %+v, err = %v", u, err)
	}
	if row, _ := c.Users.Get(1); row.Name != "바뀜" {
		t.Errorf("row = %+v", row)
	}
	if api.fetches["users"] != 1 {
		t.Errorf("fetches = %d", api.fetches["users"])
	}

	// 행이 없으면 재조회
	api.updateUser = nil
	if _, err := c.UpdateUser(context.Background(), models.AdminUserUpdateRequest{UserID: 2}); err != nil {
		t.Fatal(err)
	}
	if api.fetches["users"] != 2 {
		t.Errorf("fetches = %d", api.fetches["users"])
	}

	// 등록은 행을 돌려주지 않으므로 재조회로 반영
	if _, err := c.CreateSoftener(context.Background(), models.FabricSoftenerRequest{Brand: "Downy"}, backend.File{}); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Softeners.Get(99); !ok {
		t.Error("created softener should be visible after refresh")
	}

	// 실패해도 재조회
	if _, err := c.UpdateSoftener(context.Background(), models.FabricSoftenerRequest{}, backend.File{}); err == nil {
		t.Error("update should fail")
	}
	if api.fetches["softeners"] != 2 {
		t.Errorf("softener fetches = %d", api.fetches["softeners"])
	}
}

func TestReshapeDashboard(t *testing.T) {
	d := &models.Dashboard{
		UserCount:           3,
		FabricSoftenerCount: 4,
		WashingHistoryCount: 2,
		WashingHistory: []models.DashboardWashing{
			{WashingHistoryID: 1, UserEmail: "a@example.com", AnalysisType: models.AnalysisLabelAndStain, CreatedAt: ts("2025-05-02T08:00:00")},
		},
		ScentCount: map[string]int{"FLORAL": 1, "WOODY": 3, "CITRUS": 2},
		FabricSoftenerList: []models.FabricSoftener{
			{ID: 1, CreatedAt: ts("2025-01-01T00:00:00")},
			{ID: 2, ProductName: "B", Brand: "X", CreatedAt: ts("2025-03-01T00:00:00")},
			{ID: 3, ProductName: "C", Brand: "Y", CreatedAt: ts("2025-04-01T00:00:00")},
			{ID: 4, ProductName: "D", Brand: "Z", CreatedAt: ts("2025-02-01T00:00:00")},
		},
	}
	v := ReshapeDashboard(d)
	if v.TotalUsers != 3 || v.TotalSofteners != 4 || v.TotalHistories != 2 {
		t.Errorf("totals = %+v", v)
	}
	if h := v.RecentHistories[0]; h.AnalysisType != "얼룩과 라벨" || h.CreatedAt != "2025-05-02" {
		t.Errorf("history = %+v", h)
	}
	var ids []int
	for _, s := range v.RecentSofteners {
		ids = append(ids, s.ID)
	}
	if !reflect.DeepEqual(ids, []int{3, 2, 4}) {
		t.Errorf("recent softeners = %v", ids)
	}
	var cats []string
	for _, c := range v.Categories {
		cats = append(cats, c.Category)
	}
	if !reflect.DeepEqual(cats, []string{"WOODY", "CITRUS", "FLORAL"}) {
		t.Errorf("categories = %v", cats)
	}
}

const stainJSON = `{
  "model_version": "v2.1",
  "model_type": "efficientnet_b0",
  "metrics": {
    "per_class": {"coffee": {"top1_acc": 0.9234, "top3_acc": 0.99, "samples": 120, "miss": 9}},
    "overall": {"accuracy": 0.91, "precision": 0.9, "recall": 0.885, "top3_acc": 0.98, "samples": 1000, "miss": 90,
      "inference_time": {"avg_per_image_s": 0.0123, "total_s": 12.3}}
  }
}`

const symbolJSON = `{
  "metrics": {"mAP50": 0.87, "mAP50-95": 0.61, "precision": 0.8, "recall": 0.75,
    "per_class": {"DN_bleach": 0.9, "30C": 0.8}, "inference_time_ms": 25}
}`

func writeReport(t *testing.T, dir, kind, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, kind), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, kind, performanceFile), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestMetricsCards(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "stain", stainJSON)
	writeReport(t, dir, "symbol", symbolJSON)

	cards, err := NewMetrics(dir).Cards()
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 2 {
		t.Fatalf("cards = %d", len(cards))
	}
	stain, symbol := cards[0], cards[1]
	if stain.Name != "StainClassifier" || stain.Version != "v2.1" || stain.Performance.Accuracy != 91 ||
		stain.Performance.PredictionCount != 1000 || stain.Performance.AvgResponseTime != 0.0123 {
		t.Errorf("stain = %+v", stain)
	}
	if c := stain.Categories[0]; c.Category != "커피" || c.Accuracy != 92.3 || c.Samples != 120 {
		t.Errorf("stain category = %+v", c)
	}
	if symbol.Performance.Accuracy != 87 || symbol.Performance.MAP5095 != 61 ||
		symbol.Performance.PredictionCount != 200 || symbol.Performance.AvgResponseTime != 0.025 {
		t.Errorf("symbol = %+v", symbol.Performance)
	}
	if symbol.Categories[0].Code != "30C" || symbol.Categories[1].Category != "표백 금지" {
		t.Errorf("symbol categories = %+v", symbol.Categories)
	}
}

func TestMetricsMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "stain", stainJSON)

	cards, err := NewMetrics(dir).Cards()
	if !errors.Is(err, ErrMetricsUnavailable) || len(cards) != 1 {
		t.Errorf("cards = %d, err = %v", len(cards), err)
	}
}

func TestMetricsReloadOnChange(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "stain", stainJSON)
	writeReport(t, dir, "symbol", `{"per_class": {"30C": 0.5}, "accuracy": 0.5}`)

	m := NewMetrics(dir)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := m.Watch(ctx); err != nil {
		t.Fatal(err)
	}

	writeReport(t, dir, "symbol", symbolJSON)
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		cards, _ := m.Cards()
		if len(cards) == 2 && cards[1].Performance.Accuracy == 87 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("symbol card was not reloaded")
}
