package nearby

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func ptr(f float64) *float64 { return &f }

const kakaoBody = `{
  "documents": [
    {"id": "11", "place_name": "크린토피아 시청점", "distance": "820", "road_address_name": "", "address_name": "서울 중구 태평로1가 31", "x": "126.9779", "y": "37.5663", "phone": "02-000-0000"},
    {"id": "12", "place_name": "명품세탁", "distance": "140", "road_address_name": "서울 중구 세종대로 110", "address_name": "서울 중구 태평로1가", "x": "126.978", "y": "37.566"}
  ],
  "meta": {"total_count": 2}
}`

func newKakao(t *testing.T, status int, body string, hits *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		if got := r.Header.Get("Authorization"); got != "KakaoAK test-key" {
			t.Errorf("authorization = %q", got)
		}
		if r.URL.Path != "/v2/local/search/keyword.json" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("sort") != "distance" {
			t.Errorf("sort = %q", q.Get("sort"))
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchMapsDocuments(t *testing.T) {
	hits := 0
	srv := newKakao(t, http.StatusOK, kakaoBody, &hits)
	f := NewFinder(srv.URL, "test-key", time.Minute)

	res := f.Search(context.Background(), Query{Lat: ptr(37.5661), Lng: ptr(126.9781)})
	if res.Error != "" || res.Mock {
		t.Fatalf("res = %+v", res)
	}
	if len(res.Shops) != 2 {
		t.Fatalf("shops = %+v", res.Shops)
	}
	if s := res.Shops[0]; s.Address != "서울 중구 태평로1가 31" || s.Distance != 820 || s.Lat != 37.5663 {
		t.Errorf("lot address fallback: %+v", s)
	}
	if s := res.Shops[1]; s.Address != "서울 중구 세종대로 110" {
		t.Errorf("road address first: %+v", s)
	}
	if res.ClosestID != "12" {
		t.Errorf("closest = %q", res.ClosestID)
	}

	// 같은 좌표 근처는 캐시
	f.Search(context.Background(), Query{Lat: ptr(37.56612), Lng: ptr(126.97812)})
	if hits != 1 {
		t.Errorf("hits = %d", hits)
	}
}

func TestSearchWithoutLocationUsesCityHall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("y") != "37.5665" || q.Get("x") != "126.978" || q.Get("radius") != "2000" || q.Get("query") != "세탁소" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(kakaoBody))
	}))
	defer srv.Close()

	res := NewFinder(srv.URL, "k", time.Minute).Search(context.Background(), Query{})
	if res.Center != (Coordinate{DefaultLat, DefaultLng}) || res.Error == "" || len(res.Shops) != 2 {
		t.Errorf("res = %+v", res)
	}
}

func TestSearchFailureFallsBackToMock(t *testing.T) {
	hits := 0
	srv := newKakao(t, http.StatusUnauthorized, `{"errorType":"AccessDeniedError"}`, &hits)
	res := NewFinder(srv.URL, "test-key", time.Minute).Search(context.Background(), Query{Lat: ptr(37.5), Lng: ptr(127.0)})
	if !res.Mock || res.Error != "주변 세탁소를 검색하는데 실패했습니다." || len(res.Shops) != 5 {
		t.Errorf("res = %+v", res)
	}
	if res.ClosestID != "1" {
		t.Errorf("closest = %q", res.ClosestID)
	}
}

func TestSearchKeywordWithoutResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("query") != "강남 세탁소" || q.Get("radius") != "5000" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"documents": []}`))
	}))
	defer srv.Close()

	res := NewFinder(srv.URL, "k", time.Minute).Search(context.Background(), Query{Lat: ptr(37.5), Lng: ptr(127.0), Keyword: " 강남 "})
	if res.Mock || res.Error != "검색 결과가 없습니다." || len(res.Shops) != 0 {
		t.Errorf("res = %+v", res)
	}
}

func TestFormatDistance(t *testing.T) {
	for in, want := range map[int]string{0: "0m", 413: "413m", 999: "999m", 1000: "1.0km", 1250: "1.2km", 2049: "2.0km"} {
		if got := FormatDistance(in); got != want {
			t.Errorf("FormatDistance(%d) = %q, want %q", in, got, want)
		}
	}
}
