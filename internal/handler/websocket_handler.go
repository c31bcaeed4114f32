package handler

import (
	"errors"
	"log"
	"net/http"

	"RushWash_Web/internal/capture"
	"RushWash_Web/internal/intake"
	"RushWash_Web/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Upgrade HTTP connection to WebSocket
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleCamera godoc
// @Summary      카메라 프레임 WebSocket 연결
// @Description  "사진 찍기" 옵션을 고른 슬롯에 브라우저 카메라를 연결합니다.
// @Description  <br>
// @Description  **참고: 이것은 표준 HTTP API가 아닙니다.**
// @Description  클라이언트는 `ws://` 또는 `wss://` 스킴으로 연결하고, 세션 쿠키로 인증합니다.
// @Description  서버는 `{"type":"constraints",...}`를 보내고, 브라우저는 getUserMedia 결과를 `{"type":"ready"}` 또는 `{"type":"error","name":"NotAllowedError"}`로 알린 뒤 JPEG 프레임을 바이너리 메시지로 보냅니다.
// @Description  촬영하거나 옵션을 바꾸면 서버가 `{"type":"stop"}`을 보내고 연결을 닫습니다.
// @Tags         WebSocket (Camera)
// @Param        type  query     string  true  "분석 유형 (stain, label, both)"
// @Param        slot  query     string  true  "이미지 슬롯 (stain, label)"
// @Success      101   {string}  string  "101 Switching Protocols"
// @Failure      400   {object}  handler.ErrorResponse "잘못된 파라미터 또는 카메라 모드 아님"
// @Failure      401   {object}  handler.ErrorResponse "로그인 필요"
// @Router       /ws/camera [get]
func (h *Handler) HandleCamera(c *gin.Context) {
	c.AddParam("type", c.Query("type"))
	c.AddParam("slot", c.Query("slot"))
	sel, ok := h.pageSelector(c)
	if !ok {
		return
	}
	if !middleware.SecureOriginFrom(c) {
		badRequest(c, intake.ErrInsecureOrigin.Error())
		return
	}
	if sel.State().Option != intake.OptionCamera {
		badRequest(c, intake.ErrNotCameraMode.Error())
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("HandleCamera(): [ERROR] failed to upgrade to WebSocket: %v", err)
		return
	}
	device := capture.NewSocketDevice(conn)
	sessionID := middleware.CurrentSession(c).ID
	log.Printf("HandleCamera(): camera socket connected (session %s, slot %s)", sessionID, c.Query("slot"))

	// 요청 컨텍스트는 업그레이드 뒤에도 연결이 끝날 때까지 살아 있음
	if err := sel.AttachCamera(c.Request.Context(), device); err != nil {
		if !errors.Is(err, intake.ErrNotCameraMode) {
			log.Printf("HandleCamera(): [ERROR] camera not acquired: %v", err)
		}
		device.Stop()
		return
	}

	<-device.Done()
	sel.ReleaseEnded()
	log.Printf("HandleCamera(): camera socket closed (session %s)", sessionID)
}
