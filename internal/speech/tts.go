/**
* Name: 			tts.go
* Description: 		분석 결과 안내 음성 합성
* Workflow: 		TTS 클라이언트 생성, 안내 문장 전송, MP3 오디오 수신
 */

package speech

import (
	"context"
	"errors"
	"fmt"
	"log"

	"google.golang.org/api/option"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
)

var ErrDisabled = errors.New("speech: google credentials not configured")

// TTS 연결 정보
type TTSClient struct {
	client *texttospeech.Client
}

// TTS 클라이언트 초기화 (credentialsFile이 비어 있으면 ErrDisabled)
func NewTTSClient(ctx context.Context, credentialsFile string) (*TTSClient, error) {
	if credentialsFile == "" {
		return nil, ErrDisabled
	}
	client, err := texttospeech.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("NewTTSClient(): failed to create TTS client: %w", err)
	}
	return &TTSClient{client: client}, nil
}

// 안내 문장을 MP3로 변환
func (t *TTSClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	log.Printf("Synthesize(): Converting text to audio (%d chars)", len([]rune(text)))
	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: "ko-KR",
			Name:         "ko-KR-Wavenet-A",
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	}

	resp, err := t.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		log.Printf("Synthesize(): SynthesizeSpeech failed: %v", err)
		return nil, err
	}
	log.Printf("Synthesize(): SynthesizeSpeech succeeded, audio size: %d bytes", len(resp.AudioContent))
	return resp.AudioContent, nil
}

// TTS 클라이언트 종료
func (t *TTSClient) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}
