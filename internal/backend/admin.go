/**
* Name: 			admin.go
* Description: 		관리자 콘솔용 백엔드 엔드포인트
* Workflow: 		목록 조회, 수정, 단건/일괄 삭제, 대시보드
 */

package backend

import (
	"context"
	"net/http"

	"RushWash_Web/internal/models"
)

// 관리자 테이블 리소스 (URL 경로 조각)
type Resource string

const (
	ResourceUsers           Resource = "users"
	ResourceFabricSofteners Resource = "fabric-softeners"
	ResourceWashings        Resource = "washings"
)

// 단건 삭제 요청 바디의 ID 필드명
func (r Resource) idField() string {
	switch r {
	case ResourceUsers:
		return "userId"
	case ResourceFabricSofteners:
		return "fabricSoftenerId"
	default:
		return "washingHistoryId"
	}
}

func (c *Client) AdminUsers(ctx context.Context, token string) ([]models.User, error) {
	return call[[]models.User](ctx, c, http.MethodGet, "/admin/users", token, nil)
}

// 수정된 행을 돌려주지 않으면 nil
func (c *Client) AdminUpdateUser(ctx context.Context, token string, req models.AdminUserUpdateRequest) (*models.User, error) {
	return call[*models.User](ctx, c, http.MethodPatch, "/admin/users", token, req)
}

func (c *Client) AdminFabricSofteners(ctx context.Context, token string) ([]models.FabricSoftener, error) {
	return call[[]models.FabricSoftener](ctx, c, http.MethodGet, "/admin/fabric-softeners", token, nil)
}

// 섬유유연제 등록 (request JSON 파트 + file 이미지 파트)
func (c *Client) AdminCreateFabricSoftener(ctx context.Context, token string, req models.FabricSoftenerRequest, image File) (*models.FabricSoftener, error) {
	return upload[*models.FabricSoftener](ctx, c, http.MethodPost, "/admin/fabric-softeners", token,
		map[string]File{"file": image}, map[string]any{"request": req})
}

func (c *Client) AdminUpdateFabricSoftener(ctx context.Context, token string, req models.FabricSoftenerRequest, image File) (*models.FabricSoftener, error) {
	return upload[*models.FabricSoftener](ctx, c, http.MethodPatch, "/admin/fabric-softeners", token,
		map[string]File{"file": image}, map[string]any{"request": req})
}

func (c *Client) AdminWashings(ctx context.Context, token string) ([]models.AdminWashing, error) {
	return call[[]models.AdminWashing](ctx, c, http.MethodGet, "/admin/washings", token, nil)
}

// 만족 평가를 받은 분석 내역만 조회
func (c *Client) AdminGoodWashings(ctx context.Context, token string) ([]models.AdminWashing, error) {
	return call[[]models.AdminWashing](ctx, c, http.MethodGet, "/admin/washings/good", token, nil)
}

func (c *Client) AdminDelete(ctx context.Context, token string, res Resource, id int) error {
	_, err := call[any](ctx, c, http.MethodDelete, "/admin/"+string(res), token,
		map[string]int{res.idField(): id})
	return err
}

// 일괄 삭제. 백엔드가 지원하지 않으면 APIError (호출자가 단건 삭제로 대체)
func (c *Client) AdminBatchDelete(ctx context.Context, token string, res Resource, ids []int) error {
	_, err := call[any](ctx, c, http.MethodDelete, "/admin/"+string(res)+"/batch", token,
		models.IDsRequest{IDs: ids})
	return err
}

func (c *Client) AdminDashboard(ctx context.Context, token string) (*models.Dashboard, error) {
	res, err := call[models.Dashboard](ctx, c, http.MethodGet, "/api/admin/dashboard", token, nil)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
