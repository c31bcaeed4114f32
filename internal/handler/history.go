package handler

import (
	"net/http"
	"strconv"

	"RushWash_Web/internal/middleware"
	"RushWash_Web/internal/models"

	"github.com/gin-gonic/gin"
)

// 분석 내역 목록 항목 (표시용 필드 포함)
type HistoryItem struct {
	models.WashingListItem
	TypeLabel string `json:"typeLabel" example:"얼룩"`
	Date      string `json:"date" example:"2025-05-01"`
}

type HistoryResponse struct {
	History []HistoryItem `json:"history"`
}

type ScentOption struct {
	Code  string `json:"code" example:"FLORAL"`
	ID    int    `json:"id" example:"2"`
	Label string `json:"label" example:"플로럴"`
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

// GetHistory godoc
// @Summary      사용자 분석 내역 조회
// @Description  로그인한 사용자의 과거 분석 내역 목록을 반환합니다.
// @Tags         History
// @Produce      json
// @Success      200      {object}  handler.HistoryResponse
// @Failure      401      {object}  handler.ErrorResponse "로그인 필요"
// @Failure      502      {object}  handler.ErrorResponse "백엔드 오류"
// @Router       /api/washings [get]
func (h *Handler) GetHistory(c *gin.Context) {
	list, err := h.API.Washings(c.Request.Context(), middleware.AccessToken(c))
	if err != nil {
		backendError(c, err, "분석 내역을 불러오는데 실패했습니다.")
		return
	}
	items := make([]HistoryItem, 0, len(list))
	for _, w := range list {
		items = append(items, HistoryItem{
			WashingListItem: w,
			TypeLabel:       w.AnalysisType.Label(),
			Date:            w.CreatedAt.Date(),
		})
	}
	c.JSON(http.StatusOK, HistoryResponse{History: items})
}

// GetHistoryDetail godoc
// @Summary      분석 내역 상세
// @Tags         History
// @Produce      json
// @Param        id   path      int  true  "분석 내역 ID"
// @Success      200  {object}  models.WashingDetail
// @Failure      400  {object}  handler.ErrorResponse
// @Failure      404  {object}  handler.ErrorResponse
// @Router       /api/washings/{id} [get]
func (h *Handler) GetHistoryDetail(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	detail, err := h.API.Washing(c.Request.Context(), middleware.AccessToken(c), id)
	if err != nil {
		backendError(c, err, "분석 내역을 불러오는데 실패했습니다.")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// EstimateHistory godoc
// @Summary      분석 결과 만족도 평가
// @Description  분석 결과에 좋아요(true)/싫어요(false)를 남깁니다.
// @Tags         History
// @Accept       json
// @Produce      json
// @Param        id       path  int                              true  "분석 내역 ID"
// @Param        request  body  models.WashingEstimationRequest  true  "평가"
// @Success      200  {object}  handler.SuccessResponse
// @Failure      400  {object}  handler.ErrorResponse
// @Router       /api/washings/{id}/estimation [patch]
func (h *Handler) EstimateHistory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.WashingEstimationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	if err := h.API.EstimateWashing(c.Request.Context(), middleware.AccessToken(c), id, req.Estimation); err != nil {
		backendError(c, err, "평가를 저장하지 못했습니다.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "평가가 저장되었습니다."})
}

// ListScents godoc
// @Summary      향기 카테고리 목록
// @Tags         FabricSoftener
// @Produce      json
// @Success      200  {array}  handler.ScentOption
// @Router       /api/scents [get]
func (h *Handler) ListScents(c *gin.Context) {
	out := make([]ScentOption, 0, 6)
	for _, s := range models.AllScents() {
		out = append(out, ScentOption{Code: s.String(), ID: int(s), Label: s.Label()})
	}
	c.JSON(http.StatusOK, out)
}

// GetSoftenersByScent godoc
// @Summary      향기별 섬유유연제 추천
// @Tags         FabricSoftener
// @Produce      json
// @Param        scent  path  string  true  "향기 카테고리 (FLORAL 또는 2)"
// @Success      200  {array}   models.FabricSoftener
// @Failure      400  {object}  handler.ErrorResponse
// @Router       /api/fabric-softeners/{scent} [get]
func (h *Handler) GetSoftenersByScent(c *gin.Context) {
	scent, err := models.ParseScent(c.Param("scent"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	list, err := h.API.FabricSoftenersByScent(c.Request.Context(), middleware.AccessToken(c), scent)
	if err != nil {
		backendError(c, err, "섬유유연제를 불러오는데 실패했습니다.")
		return
	}
	if list == nil {
		list = []models.FabricSoftener{}
	}
	c.JSON(http.StatusOK, list)
}
