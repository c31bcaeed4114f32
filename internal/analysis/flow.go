/**
* Name: 			flow.go
* Description: 		이미지 업로드 → 분류 요청 → 결과 가공/저장
* Workflow: 		페이지 분석 시작, 백엔드 multipart 요청, 결과 저장 후 결과 ID 반환, 실패 시 선택기 초기화
 */

package analysis

import (
	"context"
	"errors"
	"log"
	"net/http"

	"RushWash_Web/internal/backend"
	"RushWash_Web/internal/intake"
	"RushWash_Web/internal/models"
)

const (
	defaultFailMessage = "분석에 실패했습니다."
	serverFailMessage  = "서버 오류로 분석에 실패했습니다."
)

type Classifier interface {
	AnalyzeStain(ctx context.Context, token string, file backend.File) (*models.StainAnalysis, error)
	AnalyzeLabel(ctx context.Context, token string, file backend.File) (*models.LabelAnalysis, error)
	AnalyzeStainLabel(ctx context.Context, token string, stain, label backend.File) (*models.StainLabelAnalysis, error)
}

type ResultStore interface {
	CreateRecord(ctx context.Context, sessionID string, result models.AnalysisResult) (*models.Record, error)
}

// 분석 실패 (사용자에게 Message를 보여줌)
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

type Service struct {
	classifier Classifier
	results    ResultStore
}

func NewService(classifier Classifier, results ResultStore) *Service {
	return &Service{classifier: classifier, results: results}
}

// 페이지의 이미지로 분석 실행
// 이미지 누락/중복 요청은 요청 없이 intake 오류를 그대로 반환
func (s *Service) Run(ctx context.Context, sessionID, token string, page *intake.Page) (*models.Record, error) {
	files, err := page.Begin()
	if err != nil {
		return nil, err
	}

	result, err := s.classify(ctx, token, page.Type(), files)
	if err != nil {
		page.Finish(true)
		f := &Failure{Message: failureMessage(err), Err: err}
		log.Printf("analysis.Run(): [ERROR] %s analysis failed: %v", page.Type(), err)
		return nil, f
	}

	rec, err := s.results.CreateRecord(ctx, sessionID, result)
	if err != nil {
		page.Finish(true)
		return nil, &Failure{Message: serverFailMessage, Err: err}
	}
	page.Finish(false)
	return rec, nil
}

func (s *Service) classify(ctx context.Context, token string, t models.AnalysisType, files map[intake.Slot]backend.File) (models.AnalysisResult, error) {
	switch t {
	case models.AnalysisStain:
		res, err := s.classifier.AnalyzeStain(ctx, token, files[intake.SlotStain])
		if err != nil {
			return models.AnalysisResult{}, err
		}
		return ReshapeStain(res), nil
	case models.AnalysisLabel:
		res, err := s.classifier.AnalyzeLabel(ctx, token, files[intake.SlotLabel])
		if err != nil {
			return models.AnalysisResult{}, err
		}
		return ReshapeLabel(res), nil
	default:
		res, err := s.classifier.AnalyzeStainLabel(ctx, token, files[intake.SlotStain], files[intake.SlotLabel])
		if err != nil {
			return models.AnalysisResult{}, err
		}
		return ReshapeStainLabel(res), nil
	}
}

// success:false 응답은 백엔드 메시지(없으면 기본 문구), 그 외 전송/서버 오류는 서버 오류 문구
func failureMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status < http.StatusBadRequest {
			return backend.MessageOf(err, defaultFailMessage)
		}
		return backend.MessageOf(err, serverFailMessage)
	}
	return serverFailMessage
}
