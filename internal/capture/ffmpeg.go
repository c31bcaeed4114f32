package capture

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// ffmpeg 프로세스로 로컬 카메라 프레임을 읽는 장치
// 실행 중인 ffmpeg 프로세스 하나가 트랙 하나
type FFmpegDevice struct {
	Binary string // 기본 "ffmpeg"
	Format string // v4l2, avfoundation, dshow
	Input  string // /dev/video0, "0", video="..."

	// 첫 프레임 대기 시간
	StartTimeout time.Duration
}

func (d *FFmpegDevice) args(c Constraints) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-f", d.Format}
	if c.Width > 0 && c.Height > 0 {
		args = append(args, "-video_size", fmt.Sprintf("%dx%d", c.Width, c.Height))
	}
	// 로컬 장치에는 전/후면 구분이 없어 FacingMode는 무시
	args = append(args,
		"-i", d.Input,
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-q:v", "3",
		"-",
	)
	return args
}

func (d *FFmpegDevice) Open(ctx context.Context, c Constraints) (Stream, error) {
	bin := d.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return nil, ErrUnsupported
	}

	cmd := exec.Command(bin, d.args(c)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr := &lockedBuffer{}
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("FFmpegDevice.Open(): failed to start ffmpeg: %w", err)
	}
	log.Printf("FFmpegDevice.Open(): started ffmpeg pid=%d input=%s %dx%d", cmd.Process.Pid, d.Input, c.Width, c.Height)

	s := &ffmpegStream{
		cmd:   cmd,
		ready: make(chan struct{}),
		done:  make(chan struct{}),
	}
	go func() {
		s.readFrames(stdout)
		s.exitErr = cmd.Wait()
		close(s.done)
	}()

	timeout := d.StartTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.ready:
		return s, nil
	case <-s.done:
		return nil, classifyFFmpegError(stderr.String())
	case <-timer.C:
		s.Stop()
		return nil, ErrNotReady
	case <-ctx.Done():
		s.Stop()
		return nil, ctx.Err()
	}
}

// ffmpeg stderr 내용으로 원인 분류
func classifyFFmpegError(stderr string) error {
	msg := strings.ToLower(stderr)
	switch {
	case strings.Contains(msg, "permission denied"), strings.Contains(msg, "not authorized"):
		return ErrPermissionDenied
	case strings.Contains(msg, "no such file"), strings.Contains(msg, "no such device"),
		strings.Contains(msg, "could not find"), strings.Contains(msg, "i/o error"):
		return ErrNotFound
	default:
		return fmt.Errorf("ffmpeg exited: %s", strings.TrimSpace(stderr))
	}
}

type ffmpegStream struct {
	cmd     *exec.Cmd
	ready   chan struct{}
	done    chan struct{}
	exitErr error

	mu        sync.Mutex
	latest    []byte
	readyOnce sync.Once
	stopOnce  sync.Once
}

func (s *ffmpegStream) readFrames(r io.Reader) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 256*1024), 8*1024*1024)
	sc.Split(splitJPEG)
	for sc.Scan() {
		frame := append([]byte(nil), sc.Bytes()...)
		s.mu.Lock()
		s.latest = frame
		s.mu.Unlock()
		s.readyOnce.Do(func() { close(s.ready) })
	}
	if err := sc.Err(); err != nil {
		log.Printf("ffmpegStream.readFrames(): [ERROR] %v", err)
		io.Copy(io.Discard, r)
	}
}

func (s *ffmpegStream) Tracks() []Track {
	return []Track{s}
}

func (s *ffmpegStream) Frame(ctx context.Context) (image.Image, error) {
	s.mu.Lock()
	frame := s.latest
	s.mu.Unlock()
	if frame == nil {
		return nil, ErrNotReady
	}
	img, _, err := image.Decode(bytes.NewReader(frame))
	return img, err
}

// ffmpeg 프로세스 종료
func (s *ffmpegStream) Stop() {
	s.stopOnce.Do(func() {
		if s.cmd.Process != nil {
			if err := s.cmd.Process.Kill(); err != nil {
				log.Printf("ffmpegStream.Stop(): failed to kill ffmpeg: %v", err)
			}
		}
		<-s.done
		log.Printf("ffmpegStream.Stop(): ffmpeg stopped")
	})
}

// MJPEG 파이프에서 SOI(FFD8) ~ EOI(FFD9) 구간을 한 프레임으로 자름
func splitJPEG(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := bytes.Index(data, []byte{0xFF, 0xD8})
	if start < 0 {
		if atEOF {
			return len(data), nil, nil
		}
		// 마지막 바이트가 0xFF일 수 있으므로 남겨둠
		if len(data) > 1 {
			return len(data) - 1, nil, nil
		}
		return 0, nil, nil
	}
	end := bytes.Index(data[start+2:], []byte{0xFF, 0xD9})
	if end < 0 {
		if atEOF {
			return len(data), nil, nil
		}
		return start, nil, nil
	}
	stop := start + 2 + end + 2
	return stop, data[start:stop], nil
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
