package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"RushWash_Web/internal/admin"
	"RushWash_Web/internal/backend"
	"RushWash_Web/internal/middleware"
	"RushWash_Web/internal/models"

	"github.com/gin-gonic/gin"
)

type SortRequest struct {
	Field string `json:"field" binding:"required" example:"created_at"`
}

type ModelsResponse struct {
	Models []admin.ModelCard `json:"models"`
	// 일부 모델 지표를 읽지 못했을 때의 안내
	Error string `json:"error,omitempty"`
}

func (h *Handler) console(c *gin.Context) *admin.Console {
	sess := middleware.CurrentSession(c)
	return h.Consoles.Console(sess.ID, sess.AccessToken)
}

func pathResource(c *gin.Context) (backend.Resource, bool) {
	switch res := backend.Resource(c.Param("resource")); res {
	case backend.ResourceUsers, backend.ResourceFabricSofteners, backend.ResourceWashings:
		return res, true
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "알 수 없는 관리 항목입니다."})
	return "", false
}

func queryPage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 1
	}
	return page
}

// 첫 조회 또는 refresh=true 이면 백엔드에서 다시 가져옴
func loadTable[T any](c *gin.Context, t *admin.Table[T]) bool {
	var err error
	if c.Query("refresh") == "true" {
		err = t.Refresh(c.Request.Context())
	} else {
		err = t.Load(c.Request.Context())
	}
	if err != nil {
		backendError(c, err, "목록을 불러오는데 실패했습니다.")
		return false
	}
	return true
}

// ListAdminUsers godoc
// @Summary      관리자 사용자 목록
// @Description  검색어(이름/이메일/전화번호)와 인증 상태로 거른 뒤 현재 정렬로 10건씩 반환합니다.
// @Tags         Admin
// @Produce      json
// @Param        page     query  int     false  "페이지 (1부터)"
// @Param        search   query  string  false  "검색어"
// @Param        status   query  string  false  "all, verified, unverified"
// @Param        refresh  query  bool    false  "백엔드에서 다시 조회"
// @Success      200  {object}  admin.Page[models.User]
// @Failure      403  {object}  handler.ErrorResponse "관리자 아님"
// @Router       /api/admin/users [get]
func (h *Handler) ListAdminUsers(c *gin.Context) {
	con := h.console(c)
	var f admin.UserFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		badRequest(c, "Invalid query")
		return
	}
	if !loadTable(c, con.Users) {
		return
	}
	c.JSON(http.StatusOK, con.Users.Query(f.Match, queryPage(c)))
}

// ListAdminSofteners godoc
// @Summary      관리자 섬유유연제 목록
// @Tags         Admin
// @Produce      json
// @Param        page     query  int     false  "페이지 (1부터)"
// @Param        search   query  string  false  "제품명/브랜드 검색어"
// @Param        scent    query  string  false  "향기 카테고리"
// @Param        refresh  query  bool    false  "백엔드에서 다시 조회"
// @Success      200  {object}  admin.Page[models.FabricSoftener]
// @Router       /api/admin/fabric-softeners [get]
func (h *Handler) ListAdminSofteners(c *gin.Context) {
	con := h.console(c)
	var f admin.SoftenerFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		badRequest(c, "Invalid query")
		return
	}
	if !loadTable(c, con.Softeners) {
		return
	}
	c.JSON(http.StatusOK, con.Softeners.Query(f.Match, queryPage(c)))
}

// ListAdminWashings godoc
// @Summary      관리자 분석 내역 목록
// @Description  사용자 이름이 붙은 분석 내역을 유형/사용자/기간으로 거릅니다.
// @Tags         Admin
// @Produce      json
// @Param        page          query  int     false  "페이지 (1부터)"
// @Param        search        query  string  false  "사용자 이름/분석 내용 검색어"
// @Param        analysisType  query  string  false  "STAIN, LABEL, LABEL_AND_STAIN"
// @Param        userId        query  int     false  "사용자 ID"
// @Param        from          query  string  false  "시작일 (yyyy-mm-dd)"
// @Param        to            query  string  false  "종료일 (yyyy-mm-dd)"
// @Param        refresh       query  bool    false  "백엔드에서 다시 조회"
// @Success      200  {object}  admin.Page[admin.WashingRow]
// @Router       /api/admin/washings [get]
func (h *Handler) ListAdminWashings(c *gin.Context) {
	con := h.console(c)
	var f admin.WashingFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		badRequest(c, "Invalid query")
		return
	}
	if !loadTable(c, con.Washings) {
		return
	}
	c.JSON(http.StatusOK, con.Washings.Query(f.Match, queryPage(c)))
}

// ListGoodWashings godoc
// @Summary      만족 평가된 분석 내역
// @Tags         Admin
// @Produce      json
// @Success      200  {array}  admin.WashingRow
// @Router       /api/admin/washings/good [get]
func (h *Handler) ListGoodWashings(c *gin.Context) {
	rows, err := h.console(c).GoodWashings(c.Request.Context())
	if err != nil {
		backendError(c, err, "분석 내역을 불러오는데 실패했습니다.")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ToggleAdminSort godoc
// @Summary      관리자 목록 정렬 변경
// @Description  같은 항목이면 방향을 뒤집고, 다른 항목이면 그 항목의 기본 방향으로 정렬합니다.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        resource  path  string              true  "users, fabric-softeners, washings"
// @Param        request   body  handler.SortRequest  true  "정렬 항목"
// @Success      200  {object}  admin.Sort
// @Failure      400  {object}  handler.ErrorResponse
// @Router       /api/admin/{resource}/sort [post]
func (h *Handler) ToggleAdminSort(c *gin.Context) {
	res, ok := pathResource(c)
	if !ok {
		return
	}
	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	// 화면 필드명(createdAt)도 허용
	field := models.SnakeCase(req.Field)
	con := h.console(c)
	var (
		sort admin.Sort
		err  error
	)
	switch res {
	case backend.ResourceUsers:
		sort, err = con.Users.ToggleSort(field)
	case backend.ResourceFabricSofteners:
		sort, err = con.Softeners.ToggleSort(field)
	case backend.ResourceWashings:
		sort, err = con.Washings.ToggleSort(field)
	}
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, sort)
}

// UpdateAdminUser godoc
// @Summary      사용자 정보 수정
// @Description  전화번호는 010-1234-5678 형식으로 맞춰 저장합니다.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id       path  int                            true  "사용자 ID"
// @Param        request  body  models.AdminUserUpdateRequest  true  "수정 내용"
// @Success      200  {object}  models.User
// @Failure      400  {object}  handler.ErrorResponse
// @Router       /api/admin/users/{id} [patch]
func (h *Handler) UpdateAdminUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.AdminUserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	req.UserID = id
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		badRequest(c, "이름과 이메일을 입력해주세요.")
		return
	}
	u, err := h.console(c).UpdateUser(c.Request.Context(), req)
	if err != nil {
		backendError(c, err, "사용자 정보를 수정하지 못했습니다.")
		return
	}
	if u == nil {
		c.JSON(http.StatusOK, gin.H{"message": "수정되었습니다."})
		return
	}
	c.JSON(http.StatusOK, u)
}

// multipart의 request(JSON) 파트와 선택 이미지 파트
func softenerForm(c *gin.Context, requireImage bool) (models.FabricSoftenerRequest, backend.File, bool) {
	var req models.FabricSoftenerRequest
	if err := json.Unmarshal([]byte(c.PostForm("request")), &req); err != nil {
		badRequest(c, "Invalid request")
		return req, backend.File{}, false
	}
	if strings.TrimSpace(req.Brand) == "" || strings.TrimSpace(req.ProductName) == "" {
		badRequest(c, "브랜드와 제품명을 입력해주세요.")
		return req, backend.File{}, false
	}
	scent, err := models.ParseScent(req.ScentCategory)
	if err != nil {
		badRequest(c, err.Error())
		return req, backend.File{}, false
	}
	req.ScentCategory = scent.String()

	if _, err := c.FormFile("file"); err != nil {
		if requireImage {
			badRequest(c, "이미지 파일을 선택해주세요.")
			return req, backend.File{}, false
		}
		return req, backend.File{}, true
	}
	image, ok := formFile(c, "file")
	return req, image, ok
}

// CreateAdminSoftener godoc
// @Summary      섬유유연제 등록
// @Tags         Admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        request  formData  string  true  "FabricSoftenerRequest JSON"
// @Param        file     formData  file    true  "제품 이미지"
// @Success      201  {object}  models.FabricSoftener
// @Failure      400  {object}  handler.ErrorResponse
// @Router       /api/admin/fabric-softeners [post]
func (h *Handler) CreateAdminSoftener(c *gin.Context) {
	req, image, ok := softenerForm(c, true)
	if !ok {
		return
	}
	req.FabricSoftenerID = 0
	s, err := h.console(c).CreateSoftener(c.Request.Context(), req, image)
	if err != nil {
		backendError(c, err, "섬유유연제를 등록하지 못했습니다.")
		return
	}
	if s == nil {
		c.JSON(http.StatusCreated, gin.H{"message": "등록되었습니다."})
		return
	}
	c.JSON(http.StatusCreated, s)
}

// UpdateAdminSoftener godoc
// @Summary      섬유유연제 수정
// @Description  이미지를 보내지 않으면 기존 이미지를 유지합니다.
// @Tags         Admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        id       path      int     true   "섬유유연제 ID"
// @Param        request  formData  string  true   "FabricSoftenerRequest JSON"
// @Param        file     formData  file    false  "제품 이미지"
// @Success      200  {object}  models.FabricSoftener
// @Failure      400  {object}  handler.ErrorResponse
// @Router       /api/admin/fabric-softeners/{id} [patch]
func (h *Handler) UpdateAdminSoftener(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, image, ok := softenerForm(c, false)
	if !ok {
		return
	}
	req.FabricSoftenerID = id
	s, err := h.console(c).UpdateSoftener(c.Request.Context(), req, image)
	if err != nil {
		backendError(c, err, "섬유유연제를 수정하지 못했습니다.")
		return
	}
	if s == nil {
		c.JSON(http.StatusOK, gin.H{"message": "수정되었습니다."})
		return
	}
	c.JSON(http.StatusOK, s)
}

// DeleteAdminResource godoc
// @Summary      관리 항목 삭제
// @Tags         Admin
// @Produce      json
// @Param        resource  path  string  true  "users, fabric-softeners, washings"
// @Param        id        path  int     true  "ID"
// @Success      200  {object}  handler.SuccessResponse
// @Failure      404  {object}  handler.ErrorResponse
// @Router       /api/admin/{resource}/{id} [delete]
func (h *Handler) DeleteAdminResource(c *gin.Context) {
	res, ok := pathResource(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.console(c).Delete(c.Request.Context(), res, id); err != nil {
		backendError(c, err, "삭제하지 못했습니다.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "삭제되었습니다."})
}

// BulkDeleteAdminResource godoc
// @Summary      관리 항목 일괄 삭제
// @Description  일괄 삭제 API가 실패하면 한 건씩 삭제하고 성공/실패 건수를 반환합니다.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        resource  path  string             true  "users, fabric-softeners, washings"
// @Param        request   body  models.IDsRequest  true  "삭제할 ID 목록"
// @Success      200  {object}  admin.BulkResult
// @Failure      400  {object}  handler.ErrorResponse
// @Router       /api/admin/{resource}/bulk-delete [post]
func (h *Handler) BulkDeleteAdminResource(c *gin.Context) {
	res, ok := pathResource(c)
	if !ok {
		return
	}
	var req models.IDsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		badRequest(c, "삭제할 항목을 선택해주세요.")
		return
	}
	out, err := h.console(c).BulkDelete(c.Request.Context(), res, req.IDs)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetAdminDashboard godoc
// @Summary      관리자 대시보드
// @Description  전체 건수, 최근 분석/섬유유연제, 향기 카테고리 분포를 반환합니다.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  admin.DashboardView
// @Router       /api/admin/dashboard [get]
func (h *Handler) GetAdminDashboard(c *gin.Context) {
	view, err := h.console(c).Dashboard(c.Request.Context())
	if err != nil {
		backendError(c, err, "대시보드를 불러오는데 실패했습니다.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetModelMetrics godoc
// @Summary      AI 모델 성능
// @Description  얼룩/라벨 모델의 평가 지표 파일을 읽어 카드 형태로 반환합니다.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  handler.ModelsResponse
// @Router       /api/admin/models [get]
func (h *Handler) GetModelMetrics(c *gin.Context) {
	cards, err := h.Metrics.Cards()
	resp := ModelsResponse{Models: cards}
	if err != nil {
		if !errors.Is(err, admin.ErrMetricsUnavailable) {
			log.Printf("GetModelMetrics(): [ERROR] %v", err)
		}
		resp.Error = "모델 성능 정보를 불러오는데 실패했습니다."
	}
	if resp.Models == nil {
		resp.Models = []admin.ModelCard{}
	}
	c.JSON(http.StatusOK, resp)
}
