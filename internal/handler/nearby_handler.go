package handler

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"RushWash_Web/internal/nearby"
	"RushWash_Web/internal/speech"

	"github.com/gin-gonic/gin"
)

const maxVoiceSize = 1 << 20

type VoiceSearchResult struct {
	nearby.Result
	Keyword string `json:"keyword" example:"강남"`
}

// 좌표 쿼리 (둘 다 있어야 유효)
func queryCoordinate(c *gin.Context) (lat, lng *float64) {
	la, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	ln, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		return nil, nil
	}
	return &la, &ln
}

// SearchLaundries godoc
// @Summary      주변 세탁소 검색
// @Description  좌표 기준 반경 2km 세탁소를 거리순으로 반환합니다. 좌표가 없으면 서울시청 기준입니다.
// @Description  검색에 실패하면 error 문구와 함께 예시 목록(mock=true)을 반환합니다.
// @Tags         Nearby
// @Produce      json
// @Param        lat      query  number  false  "위도"
// @Param        lng      query  number  false  "경도"
// @Param        keyword  query  string  false  "추가 검색어 (반경 5km)"
// @Success      200  {object}  nearby.Result
// @Router       /api/laundries [get]
func (h *Handler) SearchLaundries(c *gin.Context) {
	lat, lng := queryCoordinate(c)
	res := h.Finder.Search(c.Request.Context(), nearby.Query{Lat: lat, Lng: lng, Keyword: c.Query("keyword")})
	c.JSON(http.StatusOK, res)
}

// SearchLaundriesByVoice godoc
// @Summary      음성으로 세탁소 검색
// @Description  짧은 음성(webm/opus 또는 wav)을 한국어로 인식해 검색어로 사용합니다.
// @Tags         Nearby
// @Accept       multipart/form-data
// @Produce      json
// @Param        audio  formData  file    true   "음성 파일"
// @Param        lat    query     number  false  "위도"
// @Param        lng    query     number  false  "경도"
// @Success      200  {object}  handler.VoiceSearchResult
// @Failure      400  {object}  handler.ErrorResponse
// @Failure      422  {object}  handler.ErrorResponse "인식된 음성 없음"
// @Failure      503  {object}  handler.ErrorResponse "음성 기능 비활성"
// @Router       /api/laundries/voice [post]
func (h *Handler) SearchLaundriesByVoice(c *gin.Context) {
	if h.STT == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": speech.ErrDisabled.Error()})
		return
	}
	fh, err := c.FormFile("audio")
	if err != nil {
		badRequest(c, "음성 파일이 필요합니다.")
		return
	}
	if fh.Size > maxVoiceSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "음성이 너무 깁니다."})
		return
	}
	src, err := fh.Open()
	if err != nil {
		badRequest(c, "음성 파일을 읽을 수 없습니다.")
		return
	}
	defer src.Close()
	audio, err := io.ReadAll(io.LimitReader(src, maxVoiceSize))
	if err != nil {
		badRequest(c, "음성 파일을 읽을 수 없습니다.")
		return
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
	if format == "" {
		format = "webm"
	}
	keyword, err := h.STT.Transcribe(c.Request.Context(), audio, format)
	if err != nil {
		if errors.Is(err, speech.ErrNoSpeech) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "음성을 인식하지 못했습니다. 다시 말씀해주세요."})
			return
		}
		log.Printf("SearchLaundriesByVoice(): [ERROR] %v", err)
		badRequest(c, "음성을 처리하지 못했습니다.")
		return
	}

	lat, lng := queryCoordinate(c)
	res := h.Finder.Search(c.Request.Context(), nearby.Query{Lat: lat, Lng: lng, Keyword: keyword})
	c.JSON(http.StatusOK, VoiceSearchResult{Result: res, Keyword: keyword})
}
