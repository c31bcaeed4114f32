package backend

import (
	"context"
	"net/http"

	"RushWash_Web/internal/models"
)

func (c *Client) AnalyzeStain(ctx context.Context, token string, file File) (*models.StainAnalysis, error) {
	res, err := upload[models.StainAnalysis](ctx, c, http.MethodPost, "/analysis/stain", token,
		map[string]File{"file": file}, nil)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) AnalyzeLabel(ctx context.Context, token string, file File) (*models.LabelAnalysis, error) {
	res, err := upload[models.LabelAnalysis](ctx, c, http.MethodPost, "/analysis/label", token,
		map[string]File{"file": file}, nil)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) AnalyzeStainLabel(ctx context.Context, token string, stain, label File) (*models.StainLabelAnalysis, error) {
	res, err := upload[models.StainLabelAnalysis](ctx, c, http.MethodPost, "/analysis/stain-label", token,
		map[string]File{"stainFile": stain, "labelFile": label}, nil)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
