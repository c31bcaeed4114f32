package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseScent(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    ScentCategory
		wantErr bool
	}{
		{in: "FLORAL", want: ScentFloral},
		{in: "citrus", want: ScentCitrus},
		{in: " 1 ", want: ScentRefreshing},
		{in: "6", want: ScentCitrus},
		{in: "7", wantErr: true},
		{in: "", wantErr: true},
		{in: "MINT", wantErr: true},
	} {
		got, err := ParseScent(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrUnknownScent) {
				t.Errorf("ParseScent(%q) err = %v, want ErrUnknownScent", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseScent(%q) = %v, %v, want %v", tc.in, got, err, tc.want)
		}
	}

	if ScentLabel("WOODY") != "우디" || ScentLabel("MINT") != "MINT" {
		t.Errorf("ScentLabel mapping broken")
	}
	if ScentCategory(0).String() != "UNKNOWN" {
		t.Errorf("zero scent = %s", ScentCategory(0))
	}
}

func TestTimestampLayouts(t *testing.T) {
	for _, in := range []string{
		`"2025-05-01T10:11:12"`,
		`"2025-05-01T10:11:12.123456"`,
		`"2025-05-01 10:11:12"`,
		`"2025-05-01"`,
	} {
		var ts Timestamp
		if err := json.Unmarshal([]byte(in), &ts); err != nil {
			t.Errorf("%s: %v", in, err)
			continue
		}
		if ts.Date() != "2025-05-01" {
			t.Errorf("%s: Date() = %s", in, ts.Date())
		}
	}

	var empty struct {
		At Timestamp `json:"at"`
	}
	if err := json.Unmarshal([]byte(`{"at":null}`), &empty); err != nil || empty.At.Date() != "-" {
		t.Errorf("null timestamp = %v, %v", empty.At, err)
	}
	raw, _ := json.Marshal(empty)
	if string(raw) != `{"at":null}` {
		t.Errorf("marshal zero = %s", raw)
	}

	var bad Timestamp
	if err := json.Unmarshal([]byte(`"01/05/2025"`), &bad); err == nil {
		t.Error("expected error for unsupported layout")
	}
}

func TestFormatPhone(t *testing.T) {
	for in, want := range map[string]string{
		"01012345678":     "010-1234-5678",
		"010 1234 5678":   "010-1234-5678",
		"010-123-4567":    "010-1234-567",
		"010-12345678":    "010-1234-5678",
		"0101234-5678":    "010-1234-5678",
		"010-1234-5678":   "010-1234-5678",
		"0101234":         "010-1234",
		"010":             "010",
		"010123456789999": "010-1234-5678",
		"":                "",
	} {
		if got := FormatPhone(in); got != want {
			t.Errorf("FormatPhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSnakeCase(t *testing.T) {
	for in, want := range map[string]string{
		"washingHistoryId": "washing_history_id",
		"stain_image_url":  "stain_image_url",
		"createdAt":        "created_at",
		"id":               "id",
	} {
		if got := SnakeCase(in); got != want {
			t.Errorf("SnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAnalysisTypeLabel(t *testing.T) {
	for in, want := range map[AnalysisType]string{
		AnalysisStain:         "얼룩",
		AnalysisLabel:         "라벨",
		AnalysisLabelAndStain: "얼룩과 라벨",
		"both":  "얼룩과 라벨",
		"OTHER": "OTHER",
	} {
		if got := in.Label(); got != want {
			t.Errorf("%s.Label() = %q, want %q", in, got, want)
		}
	}
	if StainName("Coffee") != "커피" || SymbolName("DN_wash") != "세탁 금지" || SymbolName("x") != "x" {
		t.Error("label lookup broken")
	}
}
