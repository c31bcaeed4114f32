/**
* Name: 			capture.go
* Description: 		카메라 획득, 스냅샷, 해제 공통 처리
* Workflow: 		후면 카메라(1280x720) 시도 → 실패 시 기본 카메라 → 프레임 캡처(JPEG) → 모든 트랙 정지
 */

package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"
	"sync"

	"RushWash_Web/internal/backend"
)

const (
	SnapshotName    = "camera-photo.jpg"
	SnapshotType    = "image/jpeg"
	SnapshotQuality = 80
)

// 카메라 요청 조건 (빈 값이면 기본 카메라)
type Constraints struct {
	FacingMode string `json:"facingMode,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
}

var (
	Preferred = Constraints{FacingMode: "environment", Width: 1280, Height: 720}
	Fallback  = Constraints{}
)

var (
	ErrPermissionDenied = errors.New("camera permission denied")
	ErrNotFound         = errors.New("camera not found")
	ErrUnsupported      = errors.New("camera not supported")
	ErrNotReady         = errors.New("camera not ready")
)

// 사용자에게 보여줄 카메라 오류 메시지
func Message(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "카메라 권한이 거부되었습니다. 브라우저 설정에서 카메라 권한을 허용해주세요."
	case errors.Is(err, ErrNotFound):
		return "카메라를 찾을 수 없습니다."
	case errors.Is(err, ErrUnsupported):
		return "이 브라우저는 카메라 기능을 지원하지 않습니다."
	case errors.Is(err, ErrNotReady):
		return "카메라가 준비되지 않았습니다."
	default:
		return "카메라에 접근할 수 없습니다."
	}
}

// 브라우저 getUserMedia 오류 이름 → 오류
func FromErrorName(name string) error {
	switch name {
	case "NotAllowedError", "PermissionDeniedError", "SecurityError":
		return ErrPermissionDenied
	case "NotFoundError", "DevicesNotFoundError", "OverconstrainedError":
		return ErrNotFound
	case "NotSupportedError", "TypeError":
		return ErrUnsupported
	default:
		return errors.New("camera error: " + name)
	}
}

type Track interface {
	Stop()
}

// 열린 카메라 스트림
type Stream interface {
	Tracks() []Track
	// 현재 프레임. 아직 프레임이 없으면 ErrNotReady
	Frame(ctx context.Context) (image.Image, error)
}

type Device interface {
	Open(ctx context.Context, c Constraints) (Stream, error)
}

// 후면 카메라를 먼저 시도하고 실패하면 기본 카메라로 재시도
func Acquire(ctx context.Context, dev Device) (*Session, error) {
	stream, err := dev.Open(ctx, Preferred)
	if err != nil {
		log.Printf("capture.Acquire(): preferred camera failed, falling back: %v", err)
		stream, err = dev.Open(ctx, Fallback)
		if err != nil {
			return nil, err
		}
	}
	return &Session{stream: stream}, nil
}

// 획득한 카메라. Stop은 여러 번 호출해도 안전
type Session struct {
	mu      sync.Mutex
	stream  Stream
	stopped bool
}

func NewSession(stream Stream) *Session {
	return &Session{stream: stream}
}

// 연결이 끊기면 닫히는 스트림 (브라우저 소켓)
type ender interface {
	Done() <-chan struct{}
}

func ended(stream Stream) bool {
	e, ok := stream.(ender)
	if !ok {
		return false
	}
	select {
	case <-e.Done():
		return true
	default:
		return false
	}
}

// 현재 프레임을 JPEG 파일로 인코딩
func (s *Session) Snapshot(ctx context.Context) (backend.File, error) {
	s.mu.Lock()
	stream, stopped := s.stream, s.stopped
	s.mu.Unlock()
	if stream == nil || stopped || ended(stream) {
		return backend.File{}, ErrNotReady
	}

	frame, err := stream.Frame(ctx)
	if err != nil {
		return backend.File{}, err
	}
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, frame, &jpeg.Options{Quality: SnapshotQuality}); err != nil {
		return backend.File{}, err
	}
	return backend.File{Name: SnapshotName, ContentType: SnapshotType, Data: buf.Bytes()}, nil
}

// 모든 트랙 정지
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.stream == nil {
		s.stopped = true
		return
	}
	for _, t := range s.stream.Tracks() {
		t.Stop()
	}
	s.stopped = true
}

// 정지했거나 스트림 연결이 끊겼으면 false
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stream != nil && !s.stopped && !ended(s.stream)
}
