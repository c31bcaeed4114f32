package models

// 얼룩 분석 응답
type StainAnalysis struct {
	DetectedStain struct {
		Top3 []StainScore `json:"top3"`
	} `json:"detected_stain"`
	WashingInstructions []StainInstruction `json:"washing_instructions"`
}

type StainScore struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

type StainInstruction struct {
	Class       string `json:"class"`
	Instruction string `json:"instruction"`
}

// 라벨 분석 응답
type LabelAnalysis struct {
	DetectedLabels   []string `json:"detected_labels"`
	LabelExplanation []string `json:"label_explanation"`
}

// 얼룩+라벨 분석 응답
type StainLabelAnalysis struct {
	Top1Stain          string   `json:"top1_stain"`
	WashingInstruction string   `json:"washing_instruction"`
	DetectedLabels     []string `json:"detected_labels"`
	LabelExplanation   []string `json:"label_explanation"`
	OutputImagePaths   struct {
		Stain string `json:"stain"`
		Label string `json:"label"`
	} `json:"output_image_paths"`
	LLMGeneratedGuide string `json:"llm_generated_guide"`
}

// 결과 화면에 표시할 세탁 방법 한 줄
type Method struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// 결과 화면용으로 가공한 분석 결과
type AnalysisResult struct {
	AnalysisType    AnalysisType        `json:"analysisType"`
	Types           []string            `json:"types,omitempty"`
	InstructionsMap map[string][]Method `json:"instructionsMap,omitempty"`
	Type            string              `json:"type,omitempty"`
	Methods         []Method            `json:"methods,omitempty"`
	Guide           string              `json:"guide,omitempty"`
	ImagePaths      map[string]string   `json:"imagePaths,omitempty"`
}
