/**
* Name: 			console.go
* Description: 		관리자 콘솔 (사용자/섬유유연제/분석 내역 테이블과 CRUD)
* Workflow: 		REST 호출 후 로컬 테이블을 바로 갱신, 응답에 행이 없거나 실패하면 전체 재조회
 */

package admin

import (
	"context"
	"fmt"
	"log"
	"time"

	"RushWash_Web/internal/backend"
	"RushWash_Web/internal/models"

	"github.com/patrickmn/go-cache"
)

type Backend interface {
	AdminUsers(ctx context.Context, token string) ([]models.User, error)
	AdminUpdateUser(ctx context.Context, token string, req models.AdminUserUpdateRequest) (*models.User, error)
	AdminFabricSofteners(ctx context.Context, token string) ([]models.FabricSoftener, error)
	AdminCreateFabricSoftener(ctx context.Context, token string, req models.FabricSoftenerRequest, image backend.File) (*models.FabricSoftener, error)
	AdminUpdateFabricSoftener(ctx context.Context, token string, req models.FabricSoftenerRequest, image backend.File) (*models.FabricSoftener, error)
	AdminWashings(ctx context.Context, token string) ([]models.AdminWashing, error)
	AdminGoodWashings(ctx context.Context, token string) ([]models.AdminWashing, error)
	AdminDelete(ctx context.Context, token string, res backend.Resource, id int) error
	AdminBatchDelete(ctx context.Context, token string, res backend.Resource, ids []int) error
	AdminDashboard(ctx context.Context, token string) (*models.Dashboard, error)
}

// 일괄 삭제 결과
type BulkResult struct {
	Succeeded int   `json:"succeeded"`
	Failed    int   `json:"failed"`
	FailedIDs []int `json:"failedIds,omitempty"`
	// 일괄 삭제 API 한 번으로 처리되었는지
	Batched bool `json:"batched"`
}

// 삭제 가능한 테이블
type rowSet interface {
	Remove(ids ...int)
	Refresh(ctx context.Context) error
}

type Console struct {
	api   Backend
	token string

	Users     *Table[models.User]
	Softeners *Table[models.FabricSoftener]
	Washings  *Table[WashingRow]
}

func NewConsole(api Backend, token string) *Console {
	c := &Console{api: api, token: token}

	c.Users = NewTable(TableSpec[models.User]{
		ID: func(u models.User) int { return u.ID },
		Fetch: func(ctx context.Context) ([]models.User, error) {
			return c.api.AdminUsers(ctx, c.token)
		},
		Compare:           userCompare,
		DefaultSort:       Sort{Field: "created_at", Direction: Desc},
		NewFieldDirection: Desc,
	})

	c.Softeners = NewTable(TableSpec[models.FabricSoftener]{
		ID: func(s models.FabricSoftener) int { return s.ID },
		Fetch: func(ctx context.Context) ([]models.FabricSoftener, error) {
			return c.api.AdminFabricSofteners(ctx, c.token)
		},
		Compare:           softenerCompare,
		DefaultSort:       Sort{Field: "created_at", Direction: Desc},
		NewFieldDirection: Desc,
	})

	c.Washings = NewTable(TableSpec[WashingRow]{
		ID: func(w WashingRow) int { return w.WashingHistoryID },
		Fetch: func(ctx context.Context) ([]WashingRow, error) {
			list, err := c.api.AdminWashings(ctx, c.token)
			if err != nil {
				return nil, err
			}
			return c.joinUsers(ctx, list), nil
		},
		Compare:           washingCompare,
		DefaultSort:       Sort{Field: "created_at", Direction: Desc},
		NewFieldDirection: Asc,
	})
	return c
}

func (c *Console) Token() string {
	return c.token
}

// 분석 내역에 사용자 이름/이메일을 붙임 (사용자 목록을 못 가져오면 빈 값)
func (c *Console) joinUsers(ctx context.Context, list []models.AdminWashing) []WashingRow {
	if err := c.Users.Load(ctx); err != nil {
		log.Printf("Console.joinUsers(): [ERROR] failed to load users: %v", err)
	}
	rows := make([]WashingRow, 0, len(list))
	for _, w := range list {
		row := WashingRow{AdminWashing: w}
		if u, ok := c.Users.Get(w.UserID); ok {
			row.UserName = u.Name
			row.UserEmail = u.Email
		}
		rows = append(rows, row)
	}
	return rows
}

func (c *Console) table(res backend.Resource) (rowSet, error) {
	switch res {
	case backend.ResourceUsers:
		return c.Users, nil
	case backend.ResourceFabricSofteners:
		return c.Softeners, nil
	case backend.ResourceWashings:
		return c.Washings, nil
	}
	return nil, fmt.Errorf("알 수 없는 관리 항목입니다: %s", res)
}

// 재조회 실패는 로그만 남김
func (c *Console) refresh(ctx context.Context, t rowSet) {
	if err := t.Refresh(ctx); err != nil {
		log.Printf("Console.refresh(): [ERROR] %v", err)
	}
}

func (c *Console) UpdateUser(ctx context.Context, req models.AdminUserUpdateRequest) (*models.User, error) {
	req.PhoneNumber = models.FormatPhone(req.PhoneNumber)
	u, err := c.api.AdminUpdateUser(ctx, c.token, req)
	if err != nil {
		c.refresh(ctx, c.Users)
		return nil, err
	}
	if u == nil || u.ID == 0 {
		c.refresh(ctx, c.Users)
		if row, ok := c.Users.Get(req.UserID); ok {
			return &row, nil
		}
		return nil, nil
	}
	c.Users.Upsert(*u)
	return u, nil
}

func (c *Console) CreateSoftener(ctx context.Context, req models.FabricSoftenerRequest, image backend.File) (*models.FabricSoftener, error) {
	s, err := c.api.AdminCreateFabricSoftener(ctx, c.token, req, image)
	return c.applySoftener(ctx, s, err)
}

func (c *Console) UpdateSoftener(ctx context.Context, req models.FabricSoftenerRequest, image backend.File) (*models.FabricSoftener, error) {
	s, err := c.api.AdminUpdateFabricSoftener(ctx, c.token, req, image)
	return c.applySoftener(ctx, s, err)
}

func (c *Console) applySoftener(ctx context.Context, s *models.FabricSoftener, err error) (*models.FabricSoftener, error) {
	if err != nil || s == nil || s.ID == 0 {
		c.refresh(ctx, c.Softeners)
		return s, err
	}
	c.Softeners.Upsert(*s)
	return s, nil
}

func (c *Console) Delete(ctx context.Context, res backend.Resource, id int) error {
	t, err := c.table(res)
	if err != nil {
		return err
	}
	if err := c.api.AdminDelete(ctx, c.token, res, id); err != nil {
		c.refresh(ctx, t)
		return err
	}
	t.Remove(id)
	return nil
}

// 일괄 삭제 API를 먼저 시도하고, 실패하면 한 건씩 삭제
func (c *Console) BulkDelete(ctx context.Context, res backend.Resource, ids []int) (BulkResult, error) {
	t, err := c.table(res)
	if err != nil {
		return BulkResult{}, err
	}
	if len(ids) == 0 {
		return BulkResult{}, nil
	}

	batchErr := c.api.AdminBatchDelete(ctx, c.token, res, ids)
	if batchErr == nil {
		t.Remove(ids...)
		return BulkResult{Succeeded: len(ids), Batched: true}, nil
	}
	log.Printf("Console.BulkDelete(): batch delete of %s failed, deleting one by one: %v", res, batchErr)

	var out BulkResult
	for _, id := range ids {
		if err := c.api.AdminDelete(ctx, c.token, res, id); err != nil {
			log.Printf("Console.BulkDelete(): [ERROR] failed to delete %s %d: %v", res, id, err)
			out.Failed++
			out.FailedIDs = append(out.FailedIDs, id)
			continue
		}
		out.Succeeded++
		t.Remove(id)
	}
	if out.Failed > 0 {
		c.refresh(ctx, t)
	}
	return out, nil
}

// 만족 평가를 받은 분석 내역
func (c *Console) GoodWashings(ctx context.Context) ([]WashingRow, error) {
	list, err := c.api.AdminGoodWashings(ctx, c.token)
	if err != nil {
		return nil, err
	}
	return c.joinUsers(ctx, list), nil
}

func (c *Console) Dashboard(ctx context.Context) (*DashboardView, error) {
	d, err := c.api.AdminDashboard(ctx, c.token)
	if err != nil {
		return nil, err
	}
	view := ReshapeDashboard(d)
	return &view, nil
}

// 관리자 세션별 콘솔 (유휴 시간이 지나면 버림)
type Registry struct {
	api      Backend
	consoles *cache.Cache
	idle     time.Duration
}

func NewRegistry(api Backend, idle time.Duration) *Registry {
	return &Registry{api: api, consoles: cache.New(idle, idle), idle: idle}
}

// 토큰이 바뀌면(재로그인) 새 콘솔
func (r *Registry) Console(sessionID, token string) *Console {
	if v, ok := r.consoles.Get(sessionID); ok {
		if c := v.(*Console); c.token == token {
			r.consoles.Set(sessionID, c, r.idle)
			return c
		}
	}
	c := NewConsole(r.api, token)
	r.consoles.Set(sessionID, c, r.idle)
	return c
}

func (r *Registry) Drop(sessionID string) {
	r.consoles.Delete(sessionID)
}
