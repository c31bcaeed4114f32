/**
* Name: 			nearby.go
* Description: 		주변 세탁소 검색 (Kakao Local 키워드 검색 REST API)
* Workflow: 		좌표(없으면 서울시청) 기준 거리순 검색 → 결과 캐시, 실패 시 목업 목록과 오류 문구
 */

package nearby

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultBaseURL = "https://dapi.kakao.com"
	DefaultKeyword = "세탁소"

	DefaultLat = 37.5665
	DefaultLng = 126.978

	nearbyRadius = 2000
	// 검색어를 직접 입력하면 더 넓게
	searchRadius = 5000
)

const (
	msgNoLocation   = "위치 정보를 가져오는데 실패했습니다. 위치 권한을 허용해주세요."
	msgSearchFailed = "주변 세탁소를 검색하는데 실패했습니다."
	msgNoResult     = "검색 결과가 없습니다."
)

type Shop struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Distance int     `json:"distance"`
	Address  string  `json:"address"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Phone    string  `json:"phone,omitempty"`
	PlaceURL string  `json:"placeUrl,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
}

// 사람이 읽는 거리 (413m, 1.2km)
func (s Shop) DistanceText() string {
	return FormatDistance(s.Distance)
}

type Query struct {
	Lat *float64
	Lng *float64
	// 비어 있으면 "세탁소"
	Keyword string
}

type Result struct {
	Center    Coordinate `json:"center"`
	Shops     []Shop     `json:"shops"`
	ClosestID string     `json:"closestId,omitempty"`
	// 목업 목록인지
	Mock  bool   `json:"mock"`
	Error string `json:"error,omitempty"`
}

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type kakaoDocument struct {
	ID              string `json:"id"`
	PlaceName       string `json:"place_name"`
	Distance        string `json:"distance"`
	RoadAddressName string `json:"road_address_name"`
	AddressName     string `json:"address_name"`
	X               string `json:"x"`
	Y               string `json:"y"`
	Phone           string `json:"phone"`
	PlaceURL        string `json:"place_url"`
}

type kakaoResponse struct {
	Documents []kakaoDocument `json:"documents"`
}

type Finder struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	results    *cache.Cache
}

func NewFinder(baseURL, apiKey string, ttl time.Duration) *Finder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Finder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		results:    cache.New(ttl, 2*ttl),
	}
}

// 검색 실패는 오류로 돌려주지 않고 Result.Error와 목업 목록으로 표시
func (f *Finder) Search(ctx context.Context, q Query) Result {
	var res Result
	if q.Lat == nil || q.Lng == nil {
		res.Center = Coordinate{DefaultLat, DefaultLng}
		res.Error = msgNoLocation
	} else {
		res.Center = Coordinate{*q.Lat, *q.Lng}
	}

	keyword, radius := DefaultKeyword, nearbyRadius
	custom := strings.TrimSpace(q.Keyword) != ""
	if custom {
		keyword, radius = strings.TrimSpace(q.Keyword)+" "+DefaultKeyword, searchRadius
	}

	shops, err := f.search(ctx, keyword, res.Center, radius)
	switch {
	case err != nil && custom:
		log.Printf("Finder.Search(): [ERROR] %q: %v", keyword, err)
		res.Error = msgNoResult
		res.Shops = []Shop{}
		return res
	case err != nil:
		log.Printf("Finder.Search(): [ERROR] %q: %v", keyword, err)
		res.Error = msgSearchFailed
		res.Shops = MockShops()
		res.Mock = true
	case len(shops) == 0 && custom:
		res.Error = msgNoResult
		res.Shops = []Shop{}
		return res
	default:
		res.Shops = shops
	}
	res.ClosestID = Closest(res.Shops)
	return res
}

func cacheKey(keyword string, c Coordinate, radius int) string {
	// 약 100m 단위로 묶음
	return fmt.Sprintf("%s|%.3f|%.3f|%d", keyword, c.Lat, c.Lng, radius)
}

func (f *Finder) search(ctx context.Context, keyword string, c Coordinate, radius int) ([]Shop, error) {
	key := cacheKey(keyword, c, radius)
	if v, ok := f.results.Get(key); ok {
		return v.([]Shop), nil
	}
	if f.apiKey == "" {
		return nil, fmt.Errorf("kakao api key is not configured")
	}

	params := url.Values{}
	params.Set("query", keyword)
	params.Set("x", strconv.FormatFloat(c.Lng, 'f', -1, 64))
	params.Set("y", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	params.Set("radius", strconv.Itoa(radius))
	params.Set("sort", "distance")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/v2/local/search/keyword.json?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "KakaoAK "+f.apiKey)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("kakao search: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var kr kakaoResponse
	if err := json.NewDecoder(resp.Body).Decode(&kr); err != nil {
		return nil, err
	}
	shops := make([]Shop, 0, len(kr.Documents))
	for _, d := range kr.Documents {
		shops = append(shops, toShop(d))
	}
	f.results.SetDefault(key, shops)
	return shops, nil
}

// 도로명 주소 우선
func toShop(d kakaoDocument) Shop {
	s := Shop{
		ID:       d.ID,
		Name:     d.PlaceName,
		Address:  d.RoadAddressName,
		Phone:    d.Phone,
		PlaceURL: d.PlaceURL,
	}
	if s.Address == "" {
		s.Address = d.AddressName
	}
	s.Distance, _ = strconv.Atoi(d.Distance)
	s.Lat, _ = strconv.ParseFloat(d.Y, 64)
	s.Lng, _ = strconv.ParseFloat(d.X, 64)
	return s
}

// 가장 가까운 세탁소 ID (ID가 없으면 이름)
func Closest(shops []Shop) string {
	best := -1
	for i, s := range shops {
		if best < 0 || s.Distance < shops[best].Distance {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	if shops[best].ID != "" {
		return shops[best].ID
	}
	return shops[best].Name
}

func FormatDistance(meters int) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", meters)
	}
	return fmt.Sprintf("%.1fkm", float64(meters)/1000)
}

// 검색 실패 시 보여줄 목록
func MockShops() []Shop {
	return []Shop{
		{ID: "1", Name: "더런드리 가양점", Rating: 3.0, Distance: 413, Address: "서울시 강서구 가양동"},
		{ID: "2", Name: "크린토피아 가양강변점", Rating: 3.0, Distance: 593, Address: "서울시 강서구 가양동"},
		{ID: "3", Name: "깨끗한나라 가양점", Rating: 3.0, Distance: 613, Address: "서울시 강서구 가양동"},
		{ID: "4", Name: "세탁명가 가양점", Rating: 4.0, Distance: 750, Address: "서울시 강서구 가양동"},
		{ID: "5", Name: "스피드세탁 방화점", Rating: 4.5, Distance: 890, Address: "서울시 강서구 방화동"},
	}
}
