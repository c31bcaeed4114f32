package intake

import (
	"fmt"
	"log"
	"sync"
	"time"

	"RushWash_Web/internal/backend"
	"RushWash_Web/internal/capture"
	"RushWash_Web/internal/models"

	"github.com/patrickmn/go-cache"
)

// 분석 페이지 하나 (얼룩 / 라벨 / 얼룩+라벨)
type Page struct {
	analysisType models.AnalysisType
	slots        []Slot
	selectors    map[Slot]*Selector

	mu      sync.Mutex
	loading bool
}

func SlotsFor(t models.AnalysisType) []Slot {
	switch t {
	case models.AnalysisStain:
		return []Slot{SlotStain}
	case models.AnalysisLabel:
		return []Slot{SlotLabel}
	default:
		return []Slot{SlotStain, SlotLabel}
	}
}

func NewPage(t models.AnalysisType, device capture.Device) *Page {
	p := &Page{analysisType: t, slots: SlotsFor(t), selectors: map[Slot]*Selector{}}
	for _, slot := range p.slots {
		p.selectors[slot] = NewSelector(slot, device)
	}
	return p
}

func (p *Page) Type() models.AnalysisType {
	return p.analysisType
}

func (p *Page) Selector(slot Slot) (*Selector, error) {
	s, ok := p.selectors[slot]
	if !ok {
		return nil, fmt.Errorf("%s 분석에는 %s 이미지가 없습니다", p.analysisType, slot)
	}
	return s, nil
}

// 분석 시작. 진행 중이면 ErrBusy, 이미지가 빠진 슬롯이 있으면 MissingImageError
func (p *Page) Begin() (map[Slot]backend.File, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loading {
		return nil, ErrBusy
	}

	files := make(map[Slot]backend.File, len(p.slots))
	for _, slot := range p.slots {
		f, ok := p.selectors[slot].Image()
		if !ok {
			return nil, &MissingImageError{Slot: slot}
		}
		files[slot] = f
	}
	p.loading = true
	return files, nil
}

// 분석 종료. 실패했으면 모든 선택기를 초기화
func (p *Page) Finish(failed bool) {
	p.mu.Lock()
	p.loading = false
	p.mu.Unlock()

	if failed {
		for _, s := range p.selectors {
			s.Reset()
		}
	}
}

func (p *Page) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

type PageState struct {
	AnalysisType models.AnalysisType `json:"analysisType"`
	Loading      bool                `json:"loading"`
	Selectors    []State             `json:"selectors"`
}

func (p *Page) State() PageState {
	st := PageState{AnalysisType: p.analysisType, Loading: p.Loading()}
	for _, slot := range p.slots {
		st.Selectors = append(st.Selectors, p.selectors[slot].State())
	}
	return st
}

// 페이지 이탈. 켜진 카메라를 모두 정지
func (p *Page) Close() {
	for _, s := range p.selectors {
		s.Close()
	}
}

// 브라우저 세션별 분석 페이지 보관소. 오래 쓰지 않은 페이지는 카메라를 끄고 제거
type Registry struct {
	pages  *cache.Cache
	device capture.Device
	idle   time.Duration
	mu     sync.Mutex
}

func NewRegistry(device capture.Device, idle time.Duration) *Registry {
	c := cache.New(idle, idle/2)
	c.OnEvicted(func(key string, v interface{}) {
		if p, ok := v.(*Page); ok {
			log.Printf("Registry: closing idle page %s", key)
			p.Close()
		}
	})
	return &Registry{pages: c, device: device, idle: idle}
}

func pageKey(sessionID string, t models.AnalysisType) string {
	return sessionID + "/" + string(t)
}

// 세션의 분석 페이지 (없으면 생성). 조회할 때마다 만료 시간 연장
func (r *Registry) Page(sessionID string, t models.AnalysisType) *Page {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pageKey(sessionID, t)
	if v, ok := r.pages.Get(key); ok {
		p := v.(*Page)
		r.pages.Set(key, p, cache.DefaultExpiration)
		return p
	}
	p := NewPage(t, r.device)
	r.pages.Set(key, p, cache.DefaultExpiration)
	return p
}

// 세션의 모든 페이지 닫기 (로그아웃)
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range []models.AnalysisType{models.AnalysisStain, models.AnalysisLabel, models.AnalysisLabelAndStain} {
		r.pages.Delete(pageKey(sessionID, t))
	}
}

// 특정 페이지 닫기 (페이지 이탈)
func (r *Registry) Leave(sessionID string, t models.AnalysisType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages.Delete(pageKey(sessionID, t))
}
