/**
* Name: 			config.go
* Description: 		서버 실행 설정 로드
* Workflow: 		.env 로드, 환경 변수 읽기, 기본값 적용
 */

package config

import (
	"encoding/hex"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// 외부 REST 백엔드
	BackendURL     string
	BackendTimeout time.Duration

	ListenAddr  string
	DBPath      string
	// 세션 쿠키를 보낼 프론트엔드 출처
	CORSOrigins []string

	// 세션 토큰 암호화 키 (32바이트)
	SessionKey  [32]byte
	SessionTTL  time.Duration
	ResultTTL   time.Duration
	// 업로드 이미지를 들고 있는 분석 페이지의 유휴 만료
	PageIdleTTL time.Duration

	// 관리자 콘솔 접근 허용 이메일
	AdminEmails []string

	KakaoRESTKey       string
	GoogleCredentials  string
	ModelMetricsDir    string
	AnalysisRatePerMin int

	// 서버 로컬 카메라 (ffmpeg). 비어 있으면 브라우저 카메라(WebSocket)만 사용
	CameraFormat string
	CameraInput  string
}

var ErrInvalidSessionKey = errors.New("SESSION_KEY must be 64 hex characters")

// .env 파일이 있으면 먼저 로드하고, 환경 변수에서 설정을 읽음
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("config.Load(): .env file not found, using process environment")
	}

	cfg := &Config{
		BackendURL:         getenv("BACKEND_URL", "http://localhost:8080"),
		BackendTimeout:     getDuration("BACKEND_TIMEOUT", 30*time.Second),
		ListenAddr:         getenv("LISTEN_ADDR", ":3000"),
		DBPath:             getenv("DB_PATH", "./rushwash_web.db"),
		CORSOrigins:        splitList(os.Getenv("CORS_ORIGINS")),
		SessionTTL:         getDuration("SESSION_TTL", 7*24*time.Hour),
		ResultTTL:          getDuration("RESULT_TTL", time.Hour),
		PageIdleTTL:        getDuration("PAGE_IDLE_TTL", 15*time.Minute),
		AdminEmails:        splitList(os.Getenv("ADMIN_EMAILS")),
		KakaoRESTKey:       os.Getenv("KAKAO_REST_KEY"),
		GoogleCredentials:  os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		ModelMetricsDir:    getenv("MODEL_METRICS_DIR", "./data/models"),
		AnalysisRatePerMin: getInt("ANALYSIS_RATE_PER_MIN", 20),
		CameraFormat:       getenv("CAMERA_FORMAT", "v4l2"),
		CameraInput:        os.Getenv("CAMERA_INPUT"),
	}

	key := os.Getenv("SESSION_KEY")
	if key == "" {
		// 개발용 기본 키 (운영 환경에서는 반드시 설정)
		log.Println("Warning: SESSION_KEY environment variable is not set. Using default key.")
		copy(cfg.SessionKey[:], []byte("rushwash-default-session-key-32b"))
	} else {
		raw, err := hex.DecodeString(key)
		if err != nil || len(raw) != 32 {
			return nil, ErrInvalidSessionKey
		}
		copy(cfg.SessionKey[:], raw)
	}

	if cfg.KakaoRESTKey == "" {
		log.Println("Warning: KAKAO_REST_KEY is not set. Nearby search will serve sample shops.")
	}
	return cfg, nil
}

// 관리자 이메일 여부 (대소문자 무시)
func (c *Config) IsAdmin(email string) bool {
	for _, e := range c.AdminEmails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config.getDuration(): invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("config.getInt(): invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
