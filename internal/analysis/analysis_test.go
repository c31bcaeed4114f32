package analysis

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"RushWash_Web/internal/backend"
	"RushWash_Web/internal/intake"
	"RushWash_Web/internal/models"
)

func TestReshapeStain(t *testing.T) {
	var res models.StainAnalysis
	res.DetectedStain.Top3 = []models.StainScore{
		{Class: "coffee", Confidence: 0.8},
		{Class: "wine", Confidence: 0.1},
		{Class: "coffee", Confidence: 0.05},
	}
	res.WashingInstructions = []models.StainInstruction{
		{Class: "coffee", Instruction: "찬물로 헹구세요"},
		{Class: "coffee", Instruction: "주방세제를 사용하세요"},
		{Class: "ink", Instruction: "알코올로 닦으세요"},
	}

	out := ReshapeStain(&res)
	if !reflect.DeepEqual(out.Types, []string{"coffee", "wine"}) {
		t.Errorf("types = %v", out.Types)
	}
	if got := out.InstructionsMap["coffee"]; len(got) != 2 || got[1].Description != "주방세제를 사용하세요" || got[0].Title != "coffee" {
		t.Errorf("coffee = %+v", got)
	}
	if got, ok := out.InstructionsMap["wine"]; !ok || len(got) != 0 {
		t.Errorf("wine = %+v (present %v)", got, ok)
	}
	if _, ok := out.InstructionsMap["ink"]; ok {
		t.Error("ink was not detected")
	}
}

func TestReshapeLabelPadsMissingExplanations(t *testing.T) {
	out := ReshapeLabel(&models.LabelAnalysis{
		DetectedLabels:   []string{"30C", "DN_bleach", "iron_low"},
		LabelExplanation: []string{"30도 이하 세탁"},
	})
	want := []models.Method{
		{Title: "30C", Description: "30도 이하 세탁"},
		{Title: "DN_bleach", Description: ""},
		{Title: "iron_low", Description: ""},
	}
	if !reflect.DeepEqual(out.Methods, want) {
		t.Errorf("methods = %+v", out.Methods)
	}
	if out.Type != "라벨 분석 결과" {
		t.Errorf("type = %q", out.Type)
	}
}

func TestReshapeStainLabel(t *testing.T) {
	var res models.StainLabelAnalysis
	res.Top1Stain = "oil"
	res.WashingInstruction = "베이킹소다를 뿌리세요"
	res.DetectedLabels = []string{"hand_wash"}
	res.LabelExplanation = []string{"손세탁"}
	res.OutputImagePaths.Stain = "/out/stain.jpg"
	res.LLMGeneratedGuide = "미지근한 물로 손세탁하세요."

	out := ReshapeStainLabel(&res)
	if out.AnalysisType != models.AnalysisLabelAndStain || out.Types[0] != "oil" {
		t.Errorf("out = %+v", out)
	}
	if out.InstructionsMap["oil"][0].Description != "베이킹소다를 뿌리세요" {
		t.Errorf("instructions = %+v", out.InstructionsMap)
	}
	if out.ImagePaths["stain"] != "/out/stain.jpg" {
		t.Errorf("paths = %v", out.ImagePaths)
	}
	if _, ok := out.ImagePaths["label"]; ok {
		t.Error("empty label path should be omitted")
	}
	if out.Guide == "" || len(out.Methods) != 1 {
		t.Errorf("out = %+v", out)
	}
}

type stubClassifier struct {
	calls int
	err   error
}

func (s *stubClassifier) AnalyzeStain(ctx context.Context, token string, f backend.File) (*models.StainAnalysis, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	var res models.StainAnalysis
	res.DetectedStain.Top3 = []models.StainScore{{Class: "kimchi"}}
	return &res, nil
}

func (s *stubClassifier) AnalyzeLabel(ctx context.Context, token string, f backend.File) (*models.LabelAnalysis, error) {
	s.calls++
	return &models.LabelAnalysis{}, s.err
}

func (s *stubClassifier) AnalyzeStainLabel(ctx context.Context, token string, a, b backend.File) (*models.StainLabelAnalysis, error) {
	s.calls++
	return &models.StainLabelAnalysis{}, s.err
}

type memResults struct {
	records []models.Record
}

func (m *memResults) CreateRecord(_ context.Context, sessionID string, r models.AnalysisResult) (*models.Record, error) {
	rec := models.Record{ID: "rec-1", SessionID: sessionID, Result: r}
	m.records = append(m.records, rec)
	return &rec, nil
}

func stainPage(withImage bool) *intake.Page {
	p := intake.NewPage(models.AnalysisStain, nil)
	if withImage {
		s, _ := p.Selector(intake.SlotStain)
		s.SetImage(backend.File{Name: "a.jpg", Data: []byte{1}})
	}
	return p
}

func TestRunStoresResult(t *testing.T) {
	cls, store := &stubClassifier{}, &memResults{}
	svc := NewService(cls, store)

	rec, err := svc.Run(context.Background(), "sess", "tok", stainPage(true))
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != "rec-1" || rec.Result.Types[0] != "kimchi" {
		t.Errorf("rec = %+v", rec)
	}
	if len(store.records) != 1 {
		t.Errorf("records = %d", len(store.records))
	}
}

func TestRunWithoutImageSendsNothing(t *testing.T) {
	cls := &stubClassifier{}
	svc := NewService(cls, &memResults{})

	_, err := svc.Run(context.Background(), "sess", "tok", stainPage(false))
	var missing *intake.MissingImageError
	if !errors.As(err, &missing) || err.Error() != "얼룩 이미지를 업로드해주세요." {
		t.Fatalf("err = %v", err)
	}
	if cls.calls != 0 {
		t.Error("no request expected")
	}
}

func TestRunFailureResetsSelector(t *testing.T) {
	for name, tc := range map[string]struct {
		err  error
		want string
	}{
		"success false with message": {&backend.APIError{Status: 200, Message: "이미지를 인식할 수 없습니다."}, "이미지를 인식할 수 없습니다."},
		"success false no message":   {&backend.APIError{Status: 200}, "분석에 실패했습니다."},
		"server error":               {&backend.APIError{Status: 500}, "서버 오류로 분석에 실패했습니다."},
		"transport":                  {errors.New("connection refused"), "서버 오류로 분석에 실패했습니다."},
	} {
		t.Run(name, func(t *testing.T) {
			svc := NewService(&stubClassifier{err: tc.err}, &memResults{})
			page := stainPage(true)

			_, err := svc.Run(context.Background(), "sess", "tok", page)
			var f *Failure
			if !errors.As(err, &f) || f.Message != tc.want {
				t.Fatalf("err = %v", err)
			}
			st := page.State()
			if st.Loading || st.Selectors[0].Option != intake.OptionDefault || st.Selectors[0].HasImage {
				t.Errorf("state after failure = %+v", st)
			}
		})
	}
}

type recordingTTS struct{ text string }

func (r *recordingTTS) Synthesize(_ context.Context, text string) ([]byte, error) {
	r.text = text
	return []byte("mp3"), nil
}

func TestNarrate(t *testing.T) {
	tts := &recordingTTS{}
	r := models.AnalysisResult{
		Types:           []string{"coffee"},
		InstructionsMap: map[string][]models.Method{"coffee": {{Title: "coffee", Description: "찬물로 헹구세요."}}},
		Methods:         []models.Method{{Title: "DN_bleach", Description: "표백하지 마세요."}},
	}
	audio, err := Narrate(context.Background(), tts, r)
	if err != nil || string(audio) != "mp3" {
		t.Fatalf("audio = %q, err = %v", audio, err)
	}
	for _, want := range []string{"감지된 얼룩은 커피입니다.", "찬물로 헹구세요.", "표백 금지, 표백하지 마세요."} {
		if !strings.Contains(tts.text, want) {
			t.Errorf("narration %q missing %q", tts.text, want)
		}
	}

	if _, err := Narrate(context.Background(), tts, models.AnalysisResult{}); !errors.Is(err, ErrNothingToNarrate) {
		t.Errorf("empty: %v", err)
	}
}
