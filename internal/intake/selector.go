/**
* Name: 			selector.go
* Description: 		분석 페이지의 이미지 업로드 형식 선택 상태
* Workflow: 		옵션 선택 → 파일 업로드 또는 카메라 촬영 → 분석 시작/종료 → 실패 시 초기화
 */

package intake

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"RushWash_Web/internal/backend"
	"RushWash_Web/internal/capture"
)

type Option string

const (
	OptionDefault Option = "이미지 업로드 형식 선택"
	OptionGallery Option = "사진 보관함"
	OptionFile    Option = "파일 선택"
	OptionCamera  Option = "사진 찍기"
)

func ParseOption(v string) (Option, error) {
	switch o := Option(v); o {
	case OptionDefault, OptionGallery, OptionFile, OptionCamera:
		return o, nil
	}
	return "", fmt.Errorf("unknown upload option %q", v)
}

func (o Option) isFile() bool {
	return o == OptionGallery || o == OptionFile
}

// 이미지 슬롯 (얼룩/라벨)
type Slot string

const (
	SlotStain Slot = "stain"
	SlotLabel Slot = "label"
)

func ParseSlot(v string) (Slot, error) {
	switch s := Slot(v); s {
	case SlotStain, SlotLabel:
		return s, nil
	}
	return "", fmt.Errorf("unknown image slot %q", v)
}

var (
	ErrInsecureOrigin = errors.New("HTTP 환경에서는 직접 카메라 촬영이 불가능합니다.\n\"사진 보관함\"을 선택하여 촬영된 사진을 업로드해주세요.")
	ErrNotCameraMode  = errors.New("카메라 촬영 모드가 아닙니다.")
	ErrBusy           = errors.New("이미 분석이 진행 중입니다.")
)

// 분석 요청 시 이미지가 없는 슬롯
type MissingImageError struct {
	Slot Slot
}

func (e *MissingImageError) Error() string {
	if e.Slot == SlotLabel {
		return "라벨 이미지를 업로드해주세요."
	}
	return "얼룩 이미지를 업로드해주세요."
}

// 화면 표시용 상태
type State struct {
	Slot         Slot   `json:"slot"`
	Option       Option `json:"option"`
	HasImage     bool   `json:"hasImage"`
	ImageName    string `json:"imageName,omitempty"`
	CameraActive bool   `json:"cameraActive"`
	CameraError  string `json:"cameraError,omitempty"`
}

// 이미지 한 장을 고르는 선택기
type Selector struct {
	slot Slot

	// 서버 로컬 카메라. nil이면 브라우저가 소켓으로 붙음
	device capture.Device

	mu        sync.Mutex
	option    Option
	image     *backend.File
	camera    *capture.Session
	cameraErr string
}

func NewSelector(slot Slot, device capture.Device) *Selector {
	return &Selector{slot: slot, device: device, option: OptionDefault}
}

// 옵션 변경. 카메라가 켜져 있으면 먼저 정지
// secure가 false면 카메라 선택을 거부하고 기본 옵션으로 되돌림
func (s *Selector) Select(ctx context.Context, opt Option, secure bool) error {
	s.mu.Lock()
	s.stopCameraLocked()
	s.cameraErr = ""
	s.option = opt

	switch {
	case opt.isFile(), opt == OptionDefault:
		s.image = nil
		s.mu.Unlock()
		return nil
	case opt == OptionCamera && !secure:
		s.option = OptionDefault
		s.mu.Unlock()
		return ErrInsecureOrigin
	}

	// 카메라 시작 시 기존 이미지 초기화
	s.image = nil
	device := s.device
	s.mu.Unlock()

	if device == nil {
		return nil
	}
	return s.AttachCamera(ctx, device)
}

// 카메라 획득. 획득하는 동안 옵션이 바뀌었으면 바로 정지
func (s *Selector) AttachCamera(ctx context.Context, device capture.Device) error {
	s.mu.Lock()
	if s.option != OptionCamera {
		s.mu.Unlock()
		return ErrNotCameraMode
	}
	s.mu.Unlock()

	cam, err := capture.Acquire(ctx, device)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		log.Printf("Selector.AttachCamera(): [ERROR] %s camera failed: %v", s.slot, err)
		s.cameraErr = capture.Message(err)
		return err
	}
	if s.option != OptionCamera {
		cam.Stop()
		return ErrNotCameraMode
	}
	s.stopCameraLocked()
	s.camera = cam
	return nil
}

// 업로드된 파일 저장. 기본 옵션 상태에서 올리면 파일 선택으로 바꿈
func (s *Selector) SetImage(f backend.File) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCameraLocked()
	if !s.option.isFile() {
		s.option = OptionFile
	}
	s.image = &f
}

// 현재 프레임을 촬영해 이미지로 저장하고 카메라 정지
func (s *Selector) Capture(ctx context.Context) (backend.File, error) {
	s.mu.Lock()
	s.releaseEndedLocked()
	cam := s.camera
	s.mu.Unlock()
	if cam == nil {
		return backend.File{}, capture.ErrNotReady
	}

	f, err := cam.Snapshot(ctx)
	if err != nil {
		return backend.File{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// 촬영 중에 옵션이 바뀌었거나 다른 카메라가 붙었으면 버림
	if s.camera != cam || s.option != OptionCamera {
		return backend.File{}, ErrNotCameraMode
	}
	s.image = &f
	s.stopCameraLocked()
	return f, nil
}

// 연결이 끊긴 카메라 정리 (브라우저 소켓 종료)
func (s *Selector) ReleaseEnded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseEndedLocked()
}

func (s *Selector) Image() (backend.File, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.image == nil {
		return backend.File{}, false
	}
	return *s.image, true
}

// 기본 옵션으로 되돌리고 이미지/카메라 모두 정리
func (s *Selector) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCameraLocked()
	s.option = OptionDefault
	s.image = nil
	s.cameraErr = ""
}

// 페이지를 떠날 때 카메라 정지
func (s *Selector) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCameraLocked()
}

func (s *Selector) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseEndedLocked()
	st := State{
		Slot:         s.slot,
		Option:       s.option,
		HasImage:     s.image != nil,
		CameraActive: s.camera != nil,
		CameraError:  s.cameraErr,
	}
	if s.image != nil {
		st.ImageName = s.image.Name
	}
	return st
}

func (s *Selector) releaseEndedLocked() {
	if s.camera != nil && !s.camera.Active() {
		s.stopCameraLocked()
	}
}

func (s *Selector) stopCameraLocked() {
	if s.camera != nil {
		s.camera.Stop()
		s.camera = nil
	}
}
