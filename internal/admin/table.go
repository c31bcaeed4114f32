/**
* Name: 			table.go
* Description: 		관리자 목록 테이블 (전체 조회 후 메모리에서 필터/정렬/페이지 분할)
* Workflow: 		전체 목록 조회 → 필터 → 정렬 → 10건 단위 페이지
 */

package admin

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

const PageSize = 10

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

type Page[T any] struct {
	Rows       []T  `json:"rows"`
	Page       int  `json:"page"`
	TotalPages int  `json:"totalPages"`
	Total      int  `json:"total"`
	Sort       Sort `json:"sort"`
}

// 페이지 수는 최소 1, 요청 페이지는 범위 안으로 맞춤
func Paginate[T any](rows []T, page int) Page[T] {
	pages := (len(rows) + PageSize - 1) / PageSize
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * PageSize
	end := start + PageSize
	if end > len(rows) {
		end = len(rows)
	}
	out := make([]T, 0, end-start)
	out = append(out, rows[start:end]...)
	return Page[T]{Rows: out, Page: page, TotalPages: pages, Total: len(rows)}
}

type TableSpec[T any] struct {
	ID    func(T) int
	Fetch func(ctx context.Context) ([]T, error)

	// 정렬 가능한 필드별 비교 함수 (음수: a < b)
	Compare     map[string]func(a, b T) int
	DefaultSort Sort
	// 다른 필드를 처음 누를 때의 방향
	NewFieldDirection Direction
}

type Table[T any] struct {
	spec TableSpec[T]

	mu     sync.Mutex
	rows   []T
	loaded bool
	sort   Sort
}

func NewTable[T any](spec TableSpec[T]) *Table[T] {
	return &Table[T]{spec: spec, sort: spec.DefaultSort}
}

// 처음 한 번만 조회
func (t *Table[T]) Load(ctx context.Context) error {
	t.mu.Lock()
	loaded := t.loaded
	t.mu.Unlock()
	if loaded {
		return nil
	}
	return t.Refresh(ctx)
}

// 전체 목록 다시 조회
func (t *Table[T]) Refresh(ctx context.Context) error {
	rows, err := t.spec.Fetch(ctx)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = rows
	t.loaded = true
	return nil
}

// 같은 필드면 방향을 뒤집고, 다른 필드면 기본 방향으로 시작
func (t *Table[T]) ToggleSort(field string) (Sort, error) {
	if _, ok := t.spec.Compare[field]; !ok {
		return Sort{}, fmt.Errorf("정렬할 수 없는 항목입니다: %s", field)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sort.Field == field {
		if t.sort.Direction == Asc {
			t.sort.Direction = Desc
		} else {
			t.sort.Direction = Asc
		}
	} else {
		t.sort = Sort{Field: field, Direction: t.spec.NewFieldDirection}
	}
	return t.sort, nil
}

func (t *Table[T]) Sort() Sort {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sort
}

// 필터 → 정렬 → 페이지
func (t *Table[T]) Query(match func(T) bool, page int) Page[T] {
	t.mu.Lock()
	filtered := make([]T, 0, len(t.rows))
	for _, r := range t.rows {
		if match == nil || match(r) {
			filtered = append(filtered, r)
		}
	}
	s := t.sort
	t.mu.Unlock()

	if cmp, ok := t.spec.Compare[s.Field]; ok {
		sort.SliceStable(filtered, func(i, j int) bool {
			if s.Direction == Desc {
				return cmp(filtered[j], filtered[i]) < 0
			}
			return cmp(filtered[i], filtered[j]) < 0
		})
	}
	p := Paginate(filtered, page)
	p.Sort = s
	return p
}

func (t *Table[T]) Get(id int) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.rows {
		if t.spec.ID(r) == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// 같은 ID가 있으면 교체, 없으면 추가
func (t *Table[T]) Upsert(row T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.spec.ID(row)
	for i, r := range t.rows {
		if t.spec.ID(r) == id {
			t.rows[i] = row
			return
		}
	}
	t.rows = append(t.rows, row)
}

func (t *Table[T]) Remove(ids ...int) {
	drop := make(map[int]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.rows[:0]
	for _, r := range t.rows {
		if !drop[t.spec.ID(r)] {
			kept = append(kept, r)
		}
	}
	t.rows = kept
}

func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}
