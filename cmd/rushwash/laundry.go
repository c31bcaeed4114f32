package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"RushWash_Web/internal/analysis"
	"RushWash_Web/internal/backend"
	"RushWash_Web/internal/models"
	"RushWash_Web/internal/nearby"

	pb "github.com/cheggaaa/pb/v3"
	"github.com/google/subcommands"
)

func readImage(path string) (backend.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return backend.File{}, err
	}
	return backend.File{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Data:        data,
	}, nil
}

// 업로드 진행률 표시
func withProgress(api *backend.Client, out io.Writer) func() {
	var bar *pb.ProgressBar
	api.WrapUpload = func(body io.Reader, size int64) io.Reader {
		bar = pb.New64(size)
		bar.Set(pb.Bytes, true)
		bar.SetWriter(out)
		bar.Start()
		return bar.NewProxyReader(body)
	}
	return func() {
		if bar != nil {
			bar.Finish()
		}
	}
}

type analyzeCmd struct {
	g         *globalFlags
	kind      string
	stainPath string
	labelPath string
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "얼룩/라벨 사진을 분석하고 세탁 방법 출력" }
func (*analyzeCmd) Usage() string {
	return `analyze -type stain|label|both [-stain <파일>] [-label <파일>]:
  both는 얼룩 사진과 라벨 사진이 모두 필요합니다.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "type", "stain", "분석 유형 (stain, label, both)")
	f.StringVar(&c.stainPath, "stain", "", "얼룩 사진 경로")
	f.StringVar(&c.labelPath, "label", "", "라벨 사진 경로")
}

func (c *analyzeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, api, err := c.g.session()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	needStain := c.kind == "stain" || c.kind == "both"
	needLabel := c.kind == "label" || c.kind == "both"
	if !needStain && !needLabel {
		log.Print(c.Usage())
		return subcommands.ExitUsageError
	}
	if (needStain && c.stainPath == "") || (needLabel && c.labelPath == "") {
		log.Println("이미지를 선택해주세요.")
		return subcommands.ExitUsageError
	}

	var stain, label backend.File
	if needStain {
		if stain, err = readImage(c.stainPath); err != nil {
			return fail(err, "얼룩 사진을 읽지 못했습니다")
		}
	}
	if needLabel {
		if label, err = readImage(c.labelPath); err != nil {
			return fail(err, "라벨 사진을 읽지 못했습니다")
		}
	}

	finish := withProgress(api, os.Stderr)
	var result models.AnalysisResult
	switch {
	case needStain && needLabel:
		var res *models.StainLabelAnalysis
		res, err = api.AnalyzeStainLabel(ctx, p.AccessToken, stain, label)
		if err == nil {
			result = analysis.ReshapeStainLabel(res)
		}
	case needStain:
		var res *models.StainAnalysis
		res, err = api.AnalyzeStain(ctx, p.AccessToken, stain)
		if err == nil {
			result = analysis.ReshapeStain(res)
		}
	default:
		var res *models.LabelAnalysis
		res, err = api.AnalyzeLabel(ctx, p.AccessToken, label)
		if err == nil {
			result = analysis.ReshapeLabel(res)
		}
	}
	finish()
	if err != nil {
		return fail(err, "분석에 실패했습니다")
	}

	fmt.Println(analysis.NarrationText(result))
	return subcommands.ExitSuccess
}

type historyCmd struct {
	g *globalFlags
}

func (*historyCmd) Name() string             { return "history" }
func (*historyCmd) Synopsis() string         { return "내 분석 내역 목록" }
func (*historyCmd) Usage() string            { return "history\n" }
func (*historyCmd) SetFlags(_ *flag.FlagSet) {}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, api, err := c.g.session()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	list, err := api.Washings(ctx, p.AccessToken)
	if err != nil {
		return fail(err, "분석 내역을 불러오는데 실패했습니다")
	}
	if len(list) == 0 {
		fmt.Println("분석 내역이 없습니다.")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\t날짜\t유형\t평가\t분석")
	for _, h := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", h.WashingHistoryID, h.CreatedAt.Date(), h.AnalysisType.Label(), estimationMark(h.Estimation), h.Analysis)
	}
	w.Flush()
	return subcommands.ExitSuccess
}

func estimationMark(e *bool) string {
	switch {
	case e == nil:
		return "-"
	case *e:
		return "좋아요"
	}
	return "싫어요"
}

type shopsCmd struct {
	kakao   string
	lat     float64
	lng     float64
	keyword string
}

func (*shopsCmd) Name() string     { return "shops" }
func (*shopsCmd) Synopsis() string { return "주변 세탁소 검색" }
func (*shopsCmd) Usage() string {
	return `shops [-lat <위도> -lng <경도>] [-keyword <검색어>]:
  좌표를 생략하면 서울시청 기준으로 찾습니다. KAKAO_REST_KEY 환경 변수를 사용합니다.
`
}

func (c *shopsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kakao, "kakao-key", os.Getenv("KAKAO_REST_KEY"), "카카오 REST API 키")
	f.Float64Var(&c.lat, "lat", 0, "위도")
	f.Float64Var(&c.lng, "lng", 0, "경도")
	f.StringVar(&c.keyword, "keyword", "", "추가 검색어")
}

func (c *shopsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	q := nearby.Query{Keyword: c.keyword}
	if c.lat != 0 || c.lng != 0 {
		q.Lat, q.Lng = &c.lat, &c.lng
	}
	res := nearby.NewFinder(nearby.DefaultBaseURL, c.kakao, time.Minute).Search(ctx, q)
	if res.Error != "" {
		log.Println(res.Error)
	}
	if len(res.Shops) == 0 {
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\t이름\t거리\t주소\t전화")
	for _, s := range res.Shops {
		mark := ""
		if s.ID == res.ClosestID {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", mark, s.Name, s.DistanceText(), s.Address, s.Phone)
	}
	w.Flush()
	if res.Mock {
		fmt.Println("(예시 목록입니다)")
	}
	return subcommands.ExitSuccess
}
