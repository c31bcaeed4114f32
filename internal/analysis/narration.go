package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"RushWash_Web/internal/models"
)

var ErrNothingToNarrate = errors.New("narration: empty result")

type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// 결과 화면 내용을 읽어줄 안내 문장
func NarrationText(r models.AnalysisResult) string {
	var b strings.Builder

	for _, stain := range r.Types {
		fmt.Fprintf(&b, "감지된 얼룩은 %s입니다. ", models.StainName(stain))
		for _, m := range r.InstructionsMap[stain] {
			if m.Description != "" {
				b.WriteString(strings.TrimSpace(m.Description))
				b.WriteString(" ")
			}
		}
	}

	if len(r.Methods) > 0 {
		b.WriteString("세탁 기호 안내입니다. ")
		for _, m := range r.Methods {
			name := models.SymbolName(m.Title)
			if m.Description != "" {
				fmt.Fprintf(&b, "%s, %s. ", name, strings.TrimRight(strings.TrimSpace(m.Description), "."))
			} else {
				fmt.Fprintf(&b, "%s. ", name)
			}
		}
	}

	if r.Guide != "" {
		b.WriteString(strings.TrimSpace(r.Guide))
	}
	return strings.TrimSpace(b.String())
}

// 결과 안내 음성(MP3)
func Narrate(ctx context.Context, tts Synthesizer, r models.AnalysisResult) ([]byte, error) {
	text := NarrationText(r)
	if text == "" {
		return nil, ErrNothingToNarrate
	}
	return tts.Synthesize(ctx, text)
}
