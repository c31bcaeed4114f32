package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// 브라우저와 주고받는 제어 메시지
// 서버 → 브라우저: {"type":"constraints", ...}, {"type":"stop"}
// 브라우저 → 서버: {"type":"ready"}, {"type":"error","name":"NotAllowedError"}, 바이너리 프레임(JPEG/PNG)
type controlMessage struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	Constraints
}

type socketEvent struct {
	ready bool
	err   error
}

// 브라우저가 getUserMedia로 얻은 프레임을 웹소켓으로 밀어주는 장치 (소켓 하나가 트랙 하나)
type SocketDevice struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	events chan socketEvent
	done   chan struct{}

	mu       sync.Mutex
	latest   []byte
	stopOnce sync.Once
}

// 연결을 받아 읽기 루프 시작
func NewSocketDevice(conn *websocket.Conn) *SocketDevice {
	d := &SocketDevice{
		conn:   conn,
		events: make(chan socketEvent, 1),
		done:   make(chan struct{}),
	}
	go d.readLoop()
	return d
}

func (d *SocketDevice) readLoop() {
	defer close(d.done)
	for {
		msgType, data, err := d.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("SocketDevice.readLoop(): read error: %v", err)
			}
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			d.mu.Lock()
			d.latest = data
			d.mu.Unlock()
		case websocket.TextMessage:
			var msg controlMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				log.Printf("SocketDevice.readLoop(): invalid control message: %v", err)
				continue
			}
			switch msg.Type {
			case "ready":
				d.emit(socketEvent{ready: true})
			case "error":
				d.emit(socketEvent{err: FromErrorName(msg.Name)})
			}
		}
	}
}

func (d *SocketDevice) emit(ev socketEvent) {
	select {
	case d.events <- ev:
	default:
	}
}

func (d *SocketDevice) send(msg controlMessage) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	return d.conn.WriteJSON(msg)
}

// 브라우저에 조건을 보내고 ready/error 응답을 기다림
func (d *SocketDevice) Open(ctx context.Context, c Constraints) (Stream, error) {
	if err := d.send(controlMessage{Type: "constraints", Constraints: c}); err != nil {
		return nil, err
	}
	select {
	case ev := <-d.events:
		if ev.err != nil {
			return nil, ev.err
		}
		return d, nil
	case <-d.done:
		return nil, ErrNotReady
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *SocketDevice) Tracks() []Track {
	return []Track{d}
}

func (d *SocketDevice) Frame(ctx context.Context) (image.Image, error) {
	d.mu.Lock()
	frame := d.latest
	d.mu.Unlock()
	if frame == nil {
		return nil, ErrNotReady
	}
	img, _, err := image.Decode(bytes.NewReader(frame))
	return img, err
}

// 브라우저에 정지를 알리고 소켓을 닫음
func (d *SocketDevice) Stop() {
	d.stopOnce.Do(func() {
		if err := d.send(controlMessage{Type: "stop"}); err != nil {
			log.Printf("SocketDevice.Stop(): failed to notify client: %v", err)
		}
		d.writeMu.Lock()
		d.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "camera stopped"))
		d.writeMu.Unlock()
		d.conn.Close()
	})
}

// 읽기 루프 종료 대기 (브라우저 연결 끊김 포함)
func (d *SocketDevice) Done() <-chan struct{} {
	return d.done
}
