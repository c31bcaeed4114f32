/**
* Name: 			metrics.go
* Description: 		AI 모델 성능 카드 (performance.json 파일 기반)
* Workflow: 		stain/symbol 성능 파일 로드 → 카드 가공, 파일이 바뀌면 다시 로드
 */

package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"RushWash_Web/internal/models"

	"github.com/fsnotify/fsnotify"
)

const performanceFile = "performance.json"

var ErrMetricsUnavailable = errors.New("모델 성능 데이터를 불러올 수 없습니다.")

type modelKind string

const (
	stainModel  modelKind = "stain"
	symbolModel modelKind = "symbol"
)

type ModelCard struct {
	Key         string             `json:"key"`
	Name        string             `json:"name"`
	Version     string             `json:"version"`
	Type        string             `json:"type,omitempty"`
	WeightsPath string             `json:"weightsPath,omitempty"`
	LastUpdated string             `json:"lastUpdated"`
	Status      string             `json:"status"`
	Description string             `json:"description"`
	Performance ModelPerformance   `json:"performance"`
	Categories  []CategoryAccuracy `json:"categories"`
}

// 퍼센트 값은 소수 첫째 자리까지
type ModelPerformance struct {
	Accuracy        float64 `json:"accuracy"`
	Precision       float64 `json:"precision"`
	Recall          float64 `json:"recall"`
	Top3Accuracy    float64 `json:"top3Accuracy,omitempty"`
	MAP50           float64 `json:"mAP50,omitempty"`
	MAP5095         float64 `json:"mAP50-95,omitempty"`
	PredictionCount int     `json:"predictionCount"`
	Miss            int     `json:"miss,omitempty"`
	// 이미지 한 장당 평균 응답 시간(초)
	AvgResponseTime float64 `json:"avgResponseTime"`
}

type CategoryAccuracy struct {
	Code     string  `json:"code"`
	Category string  `json:"category"`
	Accuracy float64 `json:"accuracy"`
	Top3     float64 `json:"top3,omitempty"`
	Samples  int     `json:"samples,omitempty"`
	Miss     int     `json:"miss,omitempty"`
}

type timing struct {
	AvgPerImageS float64 `json:"avg_per_image_s"`
	TotalS       float64 `json:"total_s"`
}

type stainClass struct {
	Top1Acc float64 `json:"top1_acc"`
	Top3Acc float64 `json:"top3_acc"`
	Samples int     `json:"samples"`
	Miss    int     `json:"miss"`
}

type stainOverall struct {
	Accuracy      float64 `json:"accuracy"`
	Precision     float64 `json:"precision"`
	Recall        float64 `json:"recall"`
	Top1Acc       float64 `json:"top1_acc"`
	Top3Acc       float64 `json:"top3_acc"`
	Samples       int     `json:"samples"`
	Miss          int     `json:"miss"`
	InferenceTime *timing `json:"inference_time"`
	ResponseTime  *timing `json:"response_time"`
}

type stainMetrics struct {
	PerClass map[string]stainClass `json:"per_class"`
	Overall  *stainOverall         `json:"overall"`
}

// 평가 스크립트 버전에 따라 지표가 최상위 또는 metrics 아래에 있음
type stainReport struct {
	stainMetrics
	ModelVersion string        `json:"model_version"`
	ModelType    string        `json:"model_type"`
	WeightsPath  string        `json:"weights_path"`
	Metrics      *stainMetrics `json:"metrics"`
}

type symbolMetrics struct {
	Accuracy        float64            `json:"accuracy"`
	MAP50           float64            `json:"mAP50"`
	MAP5095         float64            `json:"mAP50-95"`
	Precision       float64            `json:"precision"`
	Recall          float64            `json:"recall"`
	PerClass        map[string]float64 `json:"per_class"`
	InferenceTimeMs float64            `json:"inference_time_ms"`
}

type symbolReport struct {
	symbolMetrics
	ModelVersion string         `json:"model_version"`
	ModelType    string         `json:"model_type"`
	WeightsPath  string         `json:"weights_path"`
	Metrics      *symbolMetrics `json:"metrics"`
}

func percent(v float64) float64 {
	return math.Round(v*1000) / 10
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func parseStainReport(raw []byte) (ModelCard, error) {
	var r stainReport
	if err := json.Unmarshal(raw, &r); err != nil {
		return ModelCard{}, err
	}
	m := r.stainMetrics
	if r.Metrics != nil {
		m = *r.Metrics
	}
	if m.PerClass == nil || m.Overall == nil {
		return ModelCard{}, fmt.Errorf("stain report: per_class/overall missing")
	}

	o := m.Overall
	accuracy := o.Accuracy
	if accuracy == 0 {
		accuracy = o.Top1Acc
	}
	t := o.InferenceTime
	if t == nil {
		t = o.ResponseTime
	}
	card := ModelCard{
		Key:         "stain_model",
		Name:        "StainClassifier",
		Version:     orDefault(r.ModelVersion, "v1.0"),
		Type:        r.ModelType,
		WeightsPath: r.WeightsPath,
		Status:      "active",
		Description: "얼룩 분류 및 세탁 방법 추천 모델",
		Performance: ModelPerformance{
			Accuracy:        percent(accuracy),
			Precision:       percent(o.Precision),
			Recall:          percent(o.Recall),
			Top3Accuracy:    percent(o.Top3Acc),
			PredictionCount: o.Samples,
			Miss:            o.Miss,
		},
	}
	if t != nil {
		card.Performance.AvgResponseTime = t.AvgPerImageS
	}
	for code, c := range m.PerClass {
		card.Categories = append(card.Categories, CategoryAccuracy{
			Code:     code,
			Category: models.StainName(code),
			Accuracy: percent(c.Top1Acc),
			Top3:     percent(c.Top3Acc),
			Samples:  c.Samples,
			Miss:     c.Miss,
		})
	}
	sortCategories(card.Categories)
	return card, nil
}

func parseSymbolReport(raw []byte) (ModelCard, error) {
	var r symbolReport
	if err := json.Unmarshal(raw, &r); err != nil {
		return ModelCard{}, err
	}
	m := r.symbolMetrics
	if r.Metrics != nil {
		m = *r.Metrics
	}
	if m.PerClass == nil {
		return ModelCard{}, fmt.Errorf("symbol report: per_class missing")
	}

	// 검출 모델은 accuracy 대신 mAP50
	accuracy := m.Accuracy
	if accuracy == 0 {
		accuracy = m.MAP50
	}
	card := ModelCard{
		Key:         "fabric_model",
		Name:        "SymbolClassifier",
		Version:     orDefault(r.ModelVersion, "v1.0"),
		Type:        r.ModelType,
		WeightsPath: r.WeightsPath,
		Status:      "active",
		Description: "세탁기호 분석 및 취급 방법 추천 모델",
		Performance: ModelPerformance{
			Accuracy:  percent(accuracy),
			Precision: percent(m.Precision),
			Recall:    percent(m.Recall),
			MAP50:     percent(m.MAP50),
			MAP5095:   percent(m.MAP5095),
			// 표본 수가 없어 클래스당 100장으로 추정
			PredictionCount: len(m.PerClass) * 100,
			AvgResponseTime: m.InferenceTimeMs / 1000,
		},
	}
	for code, acc := range m.PerClass {
		card.Categories = append(card.Categories, CategoryAccuracy{
			Code:     code,
			Category: models.SymbolName(code),
			Accuracy: percent(acc),
		})
	}
	sortCategories(card.Categories)
	return card, nil
}

func sortCategories(c []CategoryAccuracy) {
	sort.Slice(c, func(i, j int) bool { return c[i].Code < c[j].Code })
}

// 성능 파일 디렉토리 (<dir>/stain/performance.json, <dir>/symbol/performance.json)
type Metrics struct {
	dir string

	mu    sync.RWMutex
	cards map[modelKind]ModelCard
	errs  map[modelKind]error
}

func NewMetrics(dir string) *Metrics {
	m := &Metrics{
		dir:   dir,
		cards: map[modelKind]ModelCard{},
		errs:  map[modelKind]error{},
	}
	m.load(stainModel)
	m.load(symbolModel)
	return m
}

func (m *Metrics) path(kind modelKind) string {
	return filepath.Join(m.dir, string(kind), performanceFile)
}

func (m *Metrics) load(kind modelKind) {
	p := m.path(kind)
	card, err := func() (ModelCard, error) {
		raw, err := os.ReadFile(p)
		if err != nil {
			return ModelCard{}, err
		}
		var card ModelCard
		if kind == stainModel {
			card, err = parseStainReport(raw)
		} else {
			card, err = parseSymbolReport(raw)
		}
		if err != nil {
			return ModelCard{}, err
		}
		if info, err := os.Stat(p); err == nil {
			card.LastUpdated = info.ModTime().Format("2006-01-02")
		}
		return card, nil
	}()

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		log.Printf("Metrics.load(): [ERROR] %s: %v", p, err)
		m.errs[kind] = err
		delete(m.cards, kind)
		return
	}
	delete(m.errs, kind)
	m.cards[kind] = card
}

// 얼룩 → 세탁기호 순. 하나라도 못 읽었으면 ErrMetricsUnavailable과 함께 읽은 카드만 반환
func (m *Metrics) Cards() ([]ModelCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ModelCard
	for _, kind := range []modelKind{stainModel, symbolModel} {
		if c, ok := m.cards[kind]; ok {
			out = append(out, c)
		}
	}
	if len(m.errs) > 0 {
		return out, ErrMetricsUnavailable
	}
	return out, nil
}

// 성능 파일이 바뀌면 다시 로드 (ctx가 끝날 때까지)
// 파일을 새로 쓰는 경우(rename)도 잡도록 디렉토리를 감시
func (m *Metrics) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, kind := range []modelKind{stainModel, symbolModel} {
		if err := w.Add(filepath.Dir(m.path(kind))); err != nil {
			w.Close()
			return err
		}
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != performanceFile {
					continue
				}
				kind := modelKind(filepath.Base(filepath.Dir(event.Name)))
				log.Printf("Metrics.Watch(): %s (%s)", event.Name, event.Op.String())
				m.load(kind)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("Metrics.Watch(): [ERROR] %v", err)
			}
		}
	}()
	return nil
}
