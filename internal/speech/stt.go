/**
* Name: 			stt.go
* Description: 		음성 검색어 인식
* Workflow: 		STT 클라이언트 생성, 짧은 녹음 전송, 인식 문장 수신
 */

package speech

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
)

var ErrNoSpeech = errors.New("speech: nothing recognized")

type STTClient struct {
	client *speech.Client
}

func NewSTTClient(ctx context.Context, credentialsFile string) (*STTClient, error) {
	if credentialsFile == "" {
		return nil, ErrDisabled
	}
	client, err := speech.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		log.Printf("NewSTTClient(): failed to create speech client: %v", err)
		return nil, err
	}
	return &STTClient{client: client}, nil
}

// 녹음 형식별 인식 설정 (브라우저 MediaRecorder는 webm/opus)
func recognitionConfig(format string) (*speechpb.RecognitionConfig, error) {
	cfg := &speechpb.RecognitionConfig{
		AudioChannelCount: 1,
		LanguageCode:      "ko-KR",
	}
	switch strings.ToLower(format) {
	case "webm", "audio/webm", "opus":
		cfg.Encoding = speechpb.RecognitionConfig_WEBM_OPUS
		cfg.SampleRateHertz = 48000
	case "wav", "audio/wav", "linear16", "pcm":
		cfg.Encoding = speechpb.RecognitionConfig_LINEAR16
		cfg.SampleRateHertz = 16000
	default:
		return nil, fmt.Errorf("speech: unsupported audio format %q", format)
	}
	return cfg, nil
}

// 짧은 음성을 텍스트로 변환 (가장 확률 높은 후보만 이어 붙임)
func (s *STTClient) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	cfg, err := recognitionConfig(format)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: cfg,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		log.Printf("Transcribe(): Recognize failed: %v", err)
		return "", err
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, strings.TrimSpace(result.Alternatives[0].Transcript))
		}
	}
	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		return "", ErrNoSpeech
	}
	log.Printf("Transcribe(): final result: %s", text)
	return text, nil
}

func (s *STTClient) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
