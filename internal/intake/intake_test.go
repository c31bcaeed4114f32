package intake

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"RushWash_Web/internal/backend"
	"RushWash_Web/internal/capture"
	"RushWash_Web/internal/models"
)

type stubTrack struct{ stopped int }

func (t *stubTrack) Stop() { t.stopped++ }

type stubStream struct {
	track   *stubTrack
	done    chan struct{}
	onFrame func()
}

func (s *stubStream) Tracks() []capture.Track { return []capture.Track{s.track} }

func (s *stubStream) Frame(context.Context) (image.Image, error) {
	if s.onFrame != nil {
		s.onFrame()
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

// nil이면 끊기지 않는 스트림
func (s *stubStream) Done() <-chan struct{} { return s.done }

type stubDevice struct {
	opens   int
	err     error
	tracks  []*stubTrack
	done    chan struct{}
	onFrame func()
}

func (d *stubDevice) Open(context.Context, capture.Constraints) (capture.Stream, error) {
	d.opens++
	if d.err != nil {
		return nil, d.err
	}
	t := &stubTrack{}
	d.tracks = append(d.tracks, t)
	return &stubStream{track: t, done: d.done, onFrame: d.onFrame}, nil
}

var photo = backend.File{Name: "shirt.png", ContentType: "image/png", Data: []byte("png")}

func TestSelectFileOptionClearsImage(t *testing.T) {
	s := NewSelector(SlotStain, nil)
	s.SetImage(photo)
	if err := s.Select(context.Background(), OptionGallery, true); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Image(); ok {
		t.Error("image should be cleared")
	}
	if st := s.State(); st.Option != OptionGallery {
		t.Errorf("option = %q", st.Option)
	}
}

func TestSetImageSwitchesDefaultToFile(t *testing.T) {
	s := NewSelector(SlotStain, nil)
	s.SetImage(photo)
	st := s.State()
	if st.Option != OptionFile || !st.HasImage || st.ImageName != "shirt.png" {
		t.Errorf("state = %+v", st)
	}
}

func TestCameraRefusedOnInsecureOrigin(t *testing.T) {
	dev := &stubDevice{}
	s := NewSelector(SlotStain, dev)
	err := s.Select(context.Background(), OptionCamera, false)
	if !errors.Is(err, ErrInsecureOrigin) {
		t.Fatalf("err = %v", err)
	}
	if dev.opens != 0 {
		t.Error("camera must not be requested")
	}
	if st := s.State(); st.Option != OptionDefault {
		t.Errorf("option = %q, want default", st.Option)
	}
}

func TestOptionChangeStopsCamera(t *testing.T) {
	dev := &stubDevice{}
	s := NewSelector(SlotLabel, dev)
	if err := s.Select(context.Background(), OptionCamera, true); err != nil {
		t.Fatal(err)
	}
	if !s.State().CameraActive {
		t.Fatal("camera should be active")
	}
	if err := s.Select(context.Background(), OptionFile, true); err != nil {
		t.Fatal(err)
	}
	if dev.tracks[0].stopped != 1 {
		t.Errorf("track stopped %d times", dev.tracks[0].stopped)
	}
	if s.State().CameraActive {
		t.Error("camera still active")
	}
}

func TestCaptureStoresSnapshotAndStopsCamera(t *testing.T) {
	dev := &stubDevice{}
	s := NewSelector(SlotStain, dev)
	if err := s.Select(context.Background(), OptionCamera, true); err != nil {
		t.Fatal(err)
	}
	f, err := s.Capture(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if f.Name != capture.SnapshotName {
		t.Errorf("name = %q", f.Name)
	}
	if got, ok := s.Image(); !ok || got.Name != capture.SnapshotName {
		t.Error("snapshot not stored")
	}
	if dev.tracks[0].stopped != 1 {
		t.Error("camera not stopped after capture")
	}
	if _, err := s.Capture(context.Background()); !errors.Is(err, capture.ErrNotReady) {
		t.Errorf("second capture: %v", err)
	}
}

func TestCameraFailureRecordsMessage(t *testing.T) {
	dev := &stubDevice{err: capture.ErrPermissionDenied}
	s := NewSelector(SlotStain, dev)
	if err := s.Select(context.Background(), OptionCamera, true); !errors.Is(err, capture.ErrPermissionDenied) {
		t.Fatalf("err = %v", err)
	}
	if dev.opens != 2 {
		t.Errorf("opens = %d, want preferred + fallback", dev.opens)
	}
	if st := s.State(); st.CameraError == "" || st.CameraActive {
		t.Errorf("state = %+v", st)
	}
}

func TestAttachCameraRequiresCameraOption(t *testing.T) {
	s := NewSelector(SlotStain, nil)
	if err := s.AttachCamera(context.Background(), &stubDevice{}); !errors.Is(err, ErrNotCameraMode) {
		t.Errorf("err = %v", err)
	}
}

func TestPageBeginRequiresEveryImage(t *testing.T) {
	p := NewPage(models.AnalysisLabelAndStain, nil)
	stain, _ := p.Selector(SlotStain)
	stain.SetImage(photo)

	_, err := p.Begin()
	var missing *MissingImageError
	if !errors.As(err, &missing) || missing.Slot != SlotLabel {
		t.Fatalf("err = %v", err)
	}
	if err.Error() != "라벨 이미지를 업로드해주세요." {
		t.Errorf("message = %q", err.Error())
	}
	if p.Loading() {
		t.Error("page must not be loading after a rejected submit")
	}
}

func TestPageRejectsSecondSubmit(t *testing.T) {
	p := NewPage(models.AnalysisStain, nil)
	s, _ := p.Selector(SlotStain)
	s.SetImage(photo)

	files, err := p.Begin()
	if err != nil {
		t.Fatal(err)
	}
	if files[SlotStain].Name != "shirt.png" {
		t.Errorf("files = %+v", files)
	}
	if _, err := p.Begin(); !errors.Is(err, ErrBusy) {
		t.Errorf("second Begin: %v", err)
	}

	p.Finish(true)
	if p.Loading() {
		t.Error("still loading")
	}
	st := s.State()
	if st.Option != OptionDefault || st.HasImage {
		t.Errorf("failed analysis must reset selector, got %+v", st)
	}
}

func TestPageWithoutLabelSlot(t *testing.T) {
	p := NewPage(models.AnalysisStain, nil)
	if _, err := p.Selector(SlotLabel); err == nil {
		t.Error("stain page has no label selector")
	}
}

func TestRegistryDropStopsCameras(t *testing.T) {
	dev := &stubDevice{}
	r := NewRegistry(dev, time.Minute)
	p := r.Page("sess", models.AnalysisStain)
	if p != r.Page("sess", models.AnalysisStain) {
		t.Fatal("same page expected")
	}
	s, _ := p.Selector(SlotStain)
	if err := s.Select(context.Background(), OptionCamera, true); err != nil {
		t.Fatal(err)
	}

	r.Drop("sess")
	if dev.tracks[0].stopped != 1 {
		t.Error("camera not stopped on drop")
	}
	if r.Page("sess", models.AnalysisStain) == p {
		t.Error("dropped page returned again")
	}
}

func TestRegistryExpiresIdlePage(t *testing.T) {
	r := NewRegistry(nil, 50*time.Millisecond)
	p := r.Page("sess", models.AnalysisStain)
	s, _ := p.Selector(SlotStain)
	s.SetImage(photo)

	time.Sleep(200 * time.Millisecond)
	if r.Page("sess", models.AnalysisStain) == p {
		t.Error("idle page should have expired with its image")
	}
}

func TestDisconnectedCameraIsReleased(t *testing.T) {
	dev := &stubDevice{done: make(chan struct{})}
	s := NewSelector(SlotStain, dev)
	if err := s.Select(context.Background(), OptionCamera, true); err != nil {
		t.Fatal(err)
	}
	if !s.State().CameraActive {
		t.Fatal("camera should be active")
	}

	close(dev.done)
	if s.State().CameraActive {
		t.Error("camera still reported active after disconnect")
	}
	if dev.tracks[0].stopped != 1 {
		t.Errorf("track stopped %d times", dev.tracks[0].stopped)
	}
	if _, err := s.Capture(context.Background()); !errors.Is(err, capture.ErrNotReady) {
		t.Errorf("capture after disconnect: %v", err)
	}
	if _, ok := s.Image(); ok {
		t.Error("no image should be stored from a dropped camera")
	}
}

func TestCaptureDiscardedWhenOptionChanges(t *testing.T) {
	dev := &stubDevice{}
	s := NewSelector(SlotStain, dev)
	// 프레임을 읽는 사이에 사용자가 파일 선택으로 바꿈
	dev.onFrame = func() {
		if err := s.Select(context.Background(), OptionFile, true); err != nil {
			t.Error(err)
		}
	}
	if err := s.Select(context.Background(), OptionCamera, true); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Capture(context.Background()); !errors.Is(err, ErrNotCameraMode) {
		t.Fatalf("err = %v", err)
	}
	st := s.State()
	if st.HasImage || st.Option != OptionFile {
		t.Errorf("state = %+v", st)
	}
	if dev.tracks[0].stopped != 1 {
		t.Errorf("track stopped %d times", dev.tracks[0].stopped)
	}
}
