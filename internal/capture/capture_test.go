package capture

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type fakeTrack struct{ stops int }

func (t *fakeTrack) Stop() { t.stops++ }

type fakeStream struct {
	tracks []*fakeTrack
	frame  image.Image
}

func (s *fakeStream) Tracks() []Track {
	out := make([]Track, len(s.tracks))
	for i, t := range s.tracks {
		out[i] = t
	}
	return out
}

func (s *fakeStream) Frame(context.Context) (image.Image, error) {
	if s.frame == nil {
		return nil, ErrNotReady
	}
	return s.frame, nil
}

// 브라우저 소켓처럼 끊길 수 있는 스트림
type closingStream struct {
	*fakeStream
	done chan struct{}
}

func (s *closingStream) Done() <-chan struct{} { return s.done }

type fakeDevice struct {
	fail   map[Constraints]error
	opened []Constraints
	stream *fakeStream
}

func (d *fakeDevice) Open(_ context.Context, c Constraints) (Stream, error) {
	d.opened = append(d.opened, c)
	if err := d.fail[c]; err != nil {
		return nil, err
	}
	return d.stream, nil
}

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	return img
}

func TestAcquirePrefersRearCamera(t *testing.T) {
	dev := &fakeDevice{stream: &fakeStream{}}
	if _, err := Acquire(context.Background(), dev); err != nil {
		t.Fatal(err)
	}
	if len(dev.opened) != 1 || dev.opened[0] != Preferred {
		t.Errorf("opened = %+v", dev.opened)
	}
}

func TestAcquireFallsBackToDefaultCamera(t *testing.T) {
	dev := &fakeDevice{
		stream: &fakeStream{},
		fail:   map[Constraints]error{Preferred: ErrNotFound},
	}
	if _, err := Acquire(context.Background(), dev); err != nil {
		t.Fatal(err)
	}
	if len(dev.opened) != 2 || dev.opened[1] != Fallback {
		t.Errorf("opened = %+v", dev.opened)
	}
}

func TestAcquireReportsFallbackError(t *testing.T) {
	dev := &fakeDevice{fail: map[Constraints]error{Preferred: ErrNotFound, Fallback: ErrPermissionDenied}}
	_, err := Acquire(context.Background(), dev)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v", err)
	}
	if !strings.HasPrefix(Message(err), "카메라 권한이 거부되었습니다.") {
		t.Errorf("message = %q", Message(err))
	}
}

func TestMessage(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want string
	}{
		{ErrNotFound, "카메라를 찾을 수 없습니다."},
		{ErrUnsupported, "이 브라우저는 카메라 기능을 지원하지 않습니다."},
		{ErrNotReady, "카메라가 준비되지 않았습니다."},
		{errors.New("boom"), "카메라에 접근할 수 없습니다."},
		{FromErrorName("NotAllowedError"), "카메라 권한이 거부되었습니다. 브라우저 설정에서 카메라 권한을 허용해주세요."},
		{FromErrorName("AbortError"), "카메라에 접근할 수 없습니다."},
	} {
		if got := Message(tc.err); got != tc.want {
			t.Errorf("Message(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestSnapshotEncodesJPEG(t *testing.T) {
	s := NewSession(&fakeStream{frame: solid(32, 16)})
	f, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if f.Name != "camera-photo.jpg" || f.ContentType != "image/jpeg" {
		t.Errorf("file = %s (%s)", f.Name, f.ContentType)
	}
	img, err := jpeg.Decode(bytes.NewReader(f.Data))
	if err != nil {
		t.Fatalf("not a jpeg: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Errorf("bounds = %v", b)
	}
}

func TestSnapshotBeforeReady(t *testing.T) {
	s := NewSession(&fakeStream{})
	if _, err := s.Snapshot(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Errorf("err = %v", err)
	}
}

func TestStopStopsEveryTrackOnce(t *testing.T) {
	a, b := &fakeTrack{}, &fakeTrack{}
	s := NewSession(&fakeStream{tracks: []*fakeTrack{a, b}, frame: solid(2, 2)})
	s.Stop()
	s.Stop()
	if a.stops != 1 || b.stops != 1 {
		t.Errorf("stops = %d, %d", a.stops, b.stops)
	}
	if s.Active() {
		t.Error("session still active")
	}
	if _, err := s.Snapshot(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Errorf("snapshot after stop: %v", err)
	}
}

func TestSplitJPEG(t *testing.T) {
	frame1 := []byte{0xFF, 0xD8, 1, 2, 3, 0xFF, 0xD9}
	frame2 := []byte{0xFF, 0xD8, 4, 0xFF, 0xD9}
	stream := append(append([]byte{9, 9}, frame1...), frame2...)

	sc := bufio.NewScanner(bytes.NewReader(stream))
	sc.Split(splitJPEG)
	var got [][]byte
	for sc.Scan() {
		got = append(got, append([]byte(nil), sc.Bytes()...))
	}
	if len(got) != 2 || !bytes.Equal(got[0], frame1) || !bytes.Equal(got[1], frame2) {
		t.Errorf("frames = %v", got)
	}
}

func TestClassifyFFmpegError(t *testing.T) {
	if err := classifyFFmpegError("/dev/video0: No such file or directory"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v", err)
	}
	if err := classifyFFmpegError("/dev/video0: Permission denied"); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("got %v", err)
	}
}

// 브라우저 역할을 하는 클라이언트와 SocketDevice 연결
func TestSocketDevice(t *testing.T) {
	devices := make(chan *SocketDevice, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		devices <- NewSocketDevice(conn)
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()
	dev := <-devices

	// 브라우저: 후면 카메라 거절 → 기본 카메라 허용 → 프레임 전송
	go func() {
		for {
			var msg controlMessage
			if err := client.ReadJSON(&msg); err != nil {
				return
			}
			switch {
			case msg.Type == "constraints" && msg.FacingMode == "environment":
				client.WriteJSON(controlMessage{Type: "error", Name: "OverconstrainedError"})
			case msg.Type == "constraints":
				buf := &bytes.Buffer{}
				jpeg.Encode(buf, solid(8, 8), nil)
				client.WriteMessage(websocket.BinaryMessage, buf.Bytes())
				client.WriteJSON(controlMessage{Type: "ready"})
			case msg.Type == "stop":
				return
			}
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sess, err := Acquire(ctx, dev)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	f, err := sess.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(f.Data) == 0 {
		t.Error("empty snapshot")
	}

	sess.Stop()
	select {
	case <-dev.Done():
	case <-ctx.Done():
		t.Fatal("socket not closed after Stop")
	}
}

func TestSessionInactiveAfterStreamEnds(t *testing.T) {
	stream := &closingStream{
		fakeStream: &fakeStream{tracks: []*fakeTrack{{}}, frame: solid(8, 8)},
		done:       make(chan struct{}),
	}
	s := NewSession(stream)
	if !s.Active() {
		t.Fatal("session should be active")
	}
	if _, err := s.Snapshot(context.Background()); err != nil {
		t.Fatalf("snapshot before disconnect: %v", err)
	}

	close(stream.done)
	if s.Active() {
		t.Error("session still active after the stream ended")
	}
	if _, err := s.Snapshot(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Errorf("snapshot after disconnect: %v", err)
	}
}
