package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "RushWash_Web/docs"
	"RushWash_Web/internal/admin"
	"RushWash_Web/internal/analysis"
	"RushWash_Web/internal/backend"
	"RushWash_Web/internal/capture"
	"RushWash_Web/internal/config"
	"RushWash_Web/internal/handler"
	"RushWash_Web/internal/intake"
	"RushWash_Web/internal/nearby"
	"RushWash_Web/internal/speech"
	"RushWash_Web/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title        RushWash Web API
// @version      1.0
// @description  세탁 얼룩/라벨 분석 웹 서버 API
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main(): failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(storage.Options{
		Path:       cfg.DBPath,
		Key:        cfg.SessionKey,
		SessionTTL: cfg.SessionTTL,
		ResultTTL:  cfg.ResultTTL,
	})
	if err != nil {
		log.Fatalf("main(): %v", err)
	}
	defer store.Close()
	go purgeExpired(ctx, store, 10*time.Minute)

	api := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)

	var device capture.Device
	if cfg.CameraInput != "" {
		device = &capture.FFmpegDevice{Format: cfg.CameraFormat, Input: cfg.CameraInput, StartTimeout: 5 * time.Second}
		log.Printf("main(): server camera enabled (%s %s)", cfg.CameraFormat, cfg.CameraInput)
	}

	metrics := admin.NewMetrics(cfg.ModelMetricsDir)
	if err := metrics.Watch(ctx); err != nil {
		log.Printf("main(): [ERROR] model metrics watch disabled: %v", err)
	}

	deps := handler.Deps{
		API:        api,
		Store:      store,
		Pages:      intake.NewRegistry(device, cfg.PageIdleTTL),
		Analysis:   analysis.NewService(api, store),
		Consoles:   admin.NewRegistry(api, time.Hour),
		Metrics:    metrics,
		Finder:     nearby.NewFinder(nearby.DefaultBaseURL, cfg.KakaoRESTKey, 5*time.Minute),
		SessionTTL: cfg.SessionTTL,
	}

	// 음성 기능은 인증 정보가 있을 때만
	if tts, err := speech.NewTTSClient(ctx, cfg.GoogleCredentials); err == nil {
		defer tts.Close()
		deps.TTS = tts
	} else if !errors.Is(err, speech.ErrDisabled) {
		log.Printf("main(): [ERROR] narration disabled: %v", err)
	}
	if stt, err := speech.NewSTTClient(ctx, cfg.GoogleCredentials); err == nil {
		defer stt.Close()
		deps.STT = stt
	} else if !errors.Is(err, speech.ErrDisabled) {
		log.Printf("main(): [ERROR] voice search disabled: %v", err)
	}

	router := gin.Default()
	handler.New(deps).Routes(router, handler.RouterOptions{
		IsAdmin:            cfg.IsAdmin,
		AnalysisRatePerMin: cfg.AnalysisRatePerMin,
		AllowOrigins:       cfg.CORSOrigins,
	})

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: router}
	go func() {
		<-ctx.Done()
		log.Println("main(): shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("main(): [ERROR] shutdown: %v", err)
		}
	}()

	log.Printf("main(): listening on %s (backend %s)", cfg.ListenAddr, api.BaseURL())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("main(): %v", err)
	}
}

// 만료된 세션/분석 결과 정리
func purgeExpired(ctx context.Context, store *storage.Store, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				log.Printf("purgeExpired(): [ERROR] %v", err)
				continue
			}
			if n > 0 {
				log.Printf("purgeExpired(): removed %d expired rows", n)
			}
		}
	}
}
