package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"RushWash_Web/internal/models"
)

func (c *Client) Washings(ctx context.Context, token string) ([]models.WashingListItem, error) {
	return call[[]models.WashingListItem](ctx, c, http.MethodGet, "/washings", token, nil)
}

func (c *Client) Washing(ctx context.Context, token string, id int) (*models.WashingDetail, error) {
	res, err := call[models.WashingDetail](ctx, c, http.MethodGet, fmt.Sprintf("/washings/%d", id), token, nil)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// 분석 결과 만족도 평가
func (c *Client) EstimateWashing(ctx context.Context, token string, id int, estimation bool) error {
	_, err := call[any](ctx, c, http.MethodPatch, fmt.Sprintf("/washings/%d", id), token,
		models.WashingEstimationRequest{Estimation: estimation})
	return err
}

// 향기 카테고리별 섬유유연제 추천
func (c *Client) FabricSoftenersByScent(ctx context.Context, token string, scent models.ScentCategory) ([]models.FabricSoftener, error) {
	return call[[]models.FabricSoftener](ctx, c, http.MethodGet,
		"/fabric-softeners/"+url.PathEscape(scent.String()), token, nil)
}
