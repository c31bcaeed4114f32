/**
* Name: 			analysis_handler.go
* Description: 		분석 페이지 (이미지 선택/업로드/촬영, 분석 실행, 결과 조회, 음성 안내)
* Workflow: 		옵션 선택 → 파일 업로드 또는 카메라 촬영 → 분석 실행 → 결과 ID로 결과 화면 조회
 */

package handler

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"RushWash_Web/internal/analysis"
	"RushWash_Web/internal/backend"
	"RushWash_Web/internal/capture"
	"RushWash_Web/internal/intake"
	"RushWash_Web/internal/middleware"
	"RushWash_Web/internal/models"
	"RushWash_Web/internal/speech"
	"RushWash_Web/internal/storage"

	"github.com/gin-gonic/gin"
)

// 업로드 이미지 최대 크기
const maxImageSize = 10 << 20

type OptionRequest struct {
	Option string `json:"option" example:"사진 보관함"`
}

type AnalysisStarted struct {
	ResultID string `json:"resultId" example:"4f1c2b7e-..."`
}

// 경로의 분석 유형 (stain, label, both)
func pathAnalysisType(c *gin.Context) (models.AnalysisType, bool) {
	switch strings.ToLower(c.Param("type")) {
	case "stain":
		return models.AnalysisStain, true
	case "label":
		return models.AnalysisLabel, true
	case "both", "label_and_stain":
		return models.AnalysisLabelAndStain, true
	}
	badRequest(c, "Invalid analysis type")
	return "", false
}

// 경로의 분석 페이지에서 이미지 슬롯 선택기
func (h *Handler) pageSelector(c *gin.Context) (*intake.Selector, bool) {
	t, ok := pathAnalysisType(c)
	if !ok {
		return nil, false
	}
	slot, err := intake.ParseSlot(c.Param("slot"))
	if err != nil {
		badRequest(c, err.Error())
		return nil, false
	}
	sel, err := h.Pages.Page(middleware.CurrentSession(c).ID, t).Selector(slot)
	if err != nil {
		badRequest(c, err.Error())
		return nil, false
	}
	return sel, true
}

// GetAnalysisPage godoc
// @Summary      분석 페이지 상태
// @Description  이미지 슬롯별 선택 옵션, 이미지 유무, 카메라 상태와 분석 진행 여부를 반환합니다.
// @Tags         Analysis
// @Produce      json
// @Param        type  path  string  true  "분석 유형 (stain, label, both)"
// @Success      200  {object}  intake.PageState
// @Failure      400  {object}  handler.ErrorResponse
// @Router       /api/analysis/{type} [get]
func (h *Handler) GetAnalysisPage(c *gin.Context) {
	t, ok := pathAnalysisType(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Pages.Page(middleware.CurrentSession(c).ID, t).State())
}

// LeaveAnalysisPage godoc
// @Summary      분석 페이지 이탈
// @Description  켜져 있는 카메라를 정지하고 페이지 상태를 버립니다.
// @Tags         Analysis
// @Param        type  path  string  true  "분석 유형 (stain, label, both)"
// @Success      204
// @Router       /api/analysis/{type} [delete]
func (h *Handler) LeaveAnalysisPage(c *gin.Context) {
	t, ok := pathAnalysisType(c)
	if !ok {
		return
	}
	h.Pages.Leave(middleware.CurrentSession(c).ID, t)
	c.Status(http.StatusNoContent)
}

// SelectOption godoc
// @Summary      이미지 업로드 형식 선택
// @Description  "사진 보관함", "파일 선택", "사진 찍기" 중 하나를 고릅니다. 옵션을 바꾸면 이미지와 카메라가 초기화됩니다.
// @Description  HTTP(보안 컨텍스트가 아닌) 환경에서 "사진 찍기"를 고르면 400과 안내 문구를 반환하고 기본 옵션으로 돌아갑니다.
// @Tags         Analysis
// @Accept       json
// @Produce      json
// @Param        type     path  string                  true  "분석 유형 (stain, label, both)"
// @Param        slot     path  string                  true  "이미지 슬롯 (stain, label)"
// @Param        request  body  handler.OptionRequest   true  "선택 옵션"
// @Success      200  {object}  intake.State
// @Failure      400  {object}  handler.ErrorResponse
// @Router       /api/analysis/{type}/{slot}/option [put]
func (h *Handler) SelectOption(c *gin.Context) {
	sel, ok := h.pageSelector(c)
	if !ok {
		return
	}
	var req OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	opt, err := intake.ParseOption(req.Option)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := sel.Select(c.Request.Context(), opt, middleware.SecureOriginFrom(c)); err != nil {
		status := http.StatusBadRequest
		msg := err.Error()
		if !errors.Is(err, intake.ErrInsecureOrigin) {
			// 서버 카메라 획득 실패는 상태의 cameraError로도 보임
			status = http.StatusServiceUnavailable
			msg = capture.Message(err)
		}
		c.JSON(status, gin.H{"error": msg, "state": sel.State()})
		return
	}
	c.JSON(http.StatusOK, sel.State())
}

// UploadImage godoc
// @Summary      이미지 파일 업로드
// @Description  "사진 보관함"/"파일 선택"으로 고른 이미지를 저장합니다. 분석은 하지 않습니다.
// @Tags         Analysis
// @Accept       multipart/form-data
// @Produce      json
// @Param        type  path      string  true  "분석 유형 (stain, label, both)"
// @Param        slot  path      string  true  "이미지 슬롯 (stain, label)"
// @Param        file  formData  file    true  "이미지 파일"
// @Success      200  {object}  intake.State
// @Failure      400  {object}  handler.ErrorResponse
// @Router       /api/analysis/{type}/{slot}/image [post]
func (h *Handler) UploadImage(c *gin.Context) {
	sel, ok := h.pageSelector(c)
	if !ok {
		return
	}
	f, ok := formFile(c, "file")
	if !ok {
		return
	}
	sel.SetImage(f)
	c.JSON(http.StatusOK, sel.State())
}

// 멀티파트 파일 읽기 (최대 maxImageSize)
func formFile(c *gin.Context, field string) (backend.File, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		badRequest(c, "이미지 파일을 선택해주세요.")
		return backend.File{}, false
	}
	if fh.Size > maxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "이미지 파일이 너무 큽니다."})
		return backend.File{}, false
	}
	src, err := fh.Open()
	if err != nil {
		badRequest(c, "이미지 파일을 읽을 수 없습니다.")
		return backend.File{}, false
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, maxImageSize))
	if err != nil {
		badRequest(c, "이미지 파일을 읽을 수 없습니다.")
		return backend.File{}, false
	}
	return backend.File{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data}, true
}

// CaptureImage godoc
// @Summary      카메라 촬영
// @Description  현재 카메라 프레임을 JPEG(품질 0.8)로 저장하고 카메라를 정지합니다.
// @Tags         Analysis
// @Produce      json
// @Param        type  path  string  true  "분석 유형 (stain, label, both)"
// @Param        slot  path  string  true  "이미지 슬롯 (stain, label)"
// @Success      200  {object}  intake.State
// @Failure      409  {object}  handler.ErrorResponse "카메라가 준비되지 않음"
// @Router       /api/analysis/{type}/{slot}/capture [post]
func (h *Handler) CaptureImage(c *gin.Context) {
	sel, ok := h.pageSelector(c)
	if !ok {
		return
	}
	if _, err := sel.Capture(c.Request.Context()); err != nil {
		log.Printf("CaptureImage(): [ERROR] %v", err)
		msg := capture.Message(err)
		if errors.Is(err, intake.ErrNotCameraMode) {
			msg = err.Error()
		}
		c.JSON(http.StatusConflict, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, sel.State())
}

// RunAnalysis godoc
// @Summary      분석 실행
// @Description  페이지에 준비된 이미지로 백엔드 분석을 요청하고, 결과를 저장해 결과 ID를 반환합니다.
// @Description  실패하면 페이지의 이미지 선택이 초기화됩니다.
// @Tags         Analysis
// @Produce      json
// @Param        type  path  string  true  "분석 유형 (stain, label, both)"
// @Success      200  {object}  handler.AnalysisStarted
// @Failure      400  {object}  handler.ErrorResponse "이미지 누락"
// @Failure      409  {object}  handler.ErrorResponse "분석 진행 중"
// @Failure      429  {object}  handler.ErrorResponse "요청 제한"
// @Failure      502  {object}  handler.ErrorResponse "분석 실패"
// @Router       /api/analysis/{type}/run [post]
func (h *Handler) RunAnalysis(c *gin.Context) {
	t, ok := pathAnalysisType(c)
	if !ok {
		return
	}
	sess := middleware.CurrentSession(c)
	page := h.Pages.Page(sess.ID, t)

	rec, err := h.Analysis.Run(c.Request.Context(), sess.ID, sess.AccessToken, page)
	if err != nil {
		var missing *intake.MissingImageError
		var failure *analysis.Failure
		switch {
		case errors.As(err, &missing):
			badRequest(c, missing.Error())
		case errors.Is(err, intake.ErrBusy):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.As(err, &failure):
			c.JSON(http.StatusBadGateway, gin.H{"error": failure.Message})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, AnalysisStarted{ResultID: rec.ID})
}

// ListResults godoc
// @Summary      최근 분석 결과 목록 (현재 세션)
// @Tags         Analysis
// @Produce      json
// @Success      200  {array}  models.Record
// @Router       /api/results [get]
func (h *Handler) ListResults(c *gin.Context) {
	recs, err := h.Store.ListRecords(c.Request.Context(), middleware.CurrentSession(c).ID)
	if err != nil {
		log.Printf("ListResults(): [ERROR] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch results"})
		return
	}
	if recs == nil {
		recs = []models.Record{}
	}
	c.JSON(http.StatusOK, recs)
}

// GetResult godoc
// @Summary      분석 결과 조회
// @Description  분석 실행이 돌려준 결과 ID로 결과 화면 데이터를 조회합니다. 다른 세션의 결과나 만료된 결과는 404입니다.
// @Tags         Analysis
// @Produce      json
// @Param        id  path  string  true  "결과 ID"
// @Success      200  {object}  models.Record
// @Failure      404  {object}  handler.ErrorResponse
// @Router       /api/results/{id} [get]
func (h *Handler) GetResult(c *gin.Context) {
	rec, ok := h.sessionRecord(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) sessionRecord(c *gin.Context) (*models.Record, bool) {
	rec, err := h.Store.GetRecord(c.Request.Context(), middleware.CurrentSession(c).ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "분석 결과를 찾을 수 없습니다."})
		} else {
			log.Printf("sessionRecord(): [ERROR] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch result"})
		}
		return nil, false
	}
	return rec, true
}

// NarrateResult godoc
// @Summary      분석 결과 음성 안내
// @Description  결과 화면 내용을 한국어 음성(MP3)으로 읽어줍니다.
// @Tags         Analysis
// @Produce      audio/mpeg
// @Param        id  path  string  true  "결과 ID"
// @Success      200  {file}    file  "MP3 오디오"
// @Failure      404  {object}  handler.ErrorResponse
// @Failure      503  {object}  handler.ErrorResponse "음성 기능 비활성"
// @Router       /api/results/{id}/narration [get]
func (h *Handler) NarrateResult(c *gin.Context) {
	if h.TTS == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": speech.ErrDisabled.Error()})
		return
	}
	rec, ok := h.sessionRecord(c)
	if !ok {
		return
	}
	audio, err := analysis.Narrate(c.Request.Context(), h.TTS, rec.Result)
	if err != nil {
		if errors.Is(err, analysis.ErrNothingToNarrate) {
			c.JSON(http.StatusNotFound, gin.H{"error": "읽어줄 분석 결과가 없습니다."})
			return
		}
		log.Printf("NarrateResult(): [ERROR] %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "음성 안내를 만들지 못했습니다."})
		return
	}
	c.Data(http.StatusOK, "audio/mpeg", audio)
}
