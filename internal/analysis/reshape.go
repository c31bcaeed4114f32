package analysis

import "RushWash_Web/internal/models"

const labelResultTitle = "라벨 분석 결과"

// 얼룩 분석 응답 → 결과 화면 (top3 순서의 중복 없는 얼룩 종류, 얼룩별 세탁 방법)
func ReshapeStain(res *models.StainAnalysis) models.AnalysisResult {
	out := models.AnalysisResult{
		AnalysisType:    models.AnalysisStain,
		Types:           []string{},
		InstructionsMap: map[string][]models.Method{},
	}

	seen := map[string]bool{}
	for _, s := range res.DetectedStain.Top3 {
		if seen[s.Class] {
			continue
		}
		seen[s.Class] = true
		out.Types = append(out.Types, s.Class)
	}

	for _, stain := range out.Types {
		methods := []models.Method{}
		for _, w := range res.WashingInstructions {
			if w.Class == stain {
				methods = append(methods, models.Method{Title: stain, Description: w.Instruction})
			}
		}
		out.InstructionsMap[stain] = methods
	}
	return out
}

// 라벨 분석 응답 → 결과 화면 (기호와 설명을 순서대로 짝지음, 설명이 모자라면 빈 문자열)
func ReshapeLabel(res *models.LabelAnalysis) models.AnalysisResult {
	return models.AnalysisResult{
		AnalysisType: models.AnalysisLabel,
		Type:         labelResultTitle,
		Methods:      labelMethods(res.DetectedLabels, res.LabelExplanation),
	}
}

func ReshapeStainLabel(res *models.StainLabelAnalysis) models.AnalysisResult {
	out := models.AnalysisResult{
		AnalysisType:    models.AnalysisLabelAndStain,
		Types:           []string{},
		InstructionsMap: map[string][]models.Method{},
		Type:            labelResultTitle,
		Methods:         labelMethods(res.DetectedLabels, res.LabelExplanation),
		Guide:           res.LLMGeneratedGuide,
	}
	if res.Top1Stain != "" {
		out.Types = append(out.Types, res.Top1Stain)
		out.InstructionsMap[res.Top1Stain] = []models.Method{
			{Title: res.Top1Stain, Description: res.WashingInstruction},
		}
	}

	paths := map[string]string{}
	if p := res.OutputImagePaths.Stain; p != "" {
		paths["stain"] = p
	}
	if p := res.OutputImagePaths.Label; p != "" {
		paths["label"] = p
	}
	if len(paths) > 0 {
		out.ImagePaths = paths
	}
	return out
}

func labelMethods(labels, explanations []string) []models.Method {
	methods := make([]models.Method, 0, len(labels))
	for i, label := range labels {
		desc := ""
		if i < len(explanations) {
			desc = explanations[i]
		}
		methods = append(methods, models.Method{Title: label, Description: desc})
	}
	return methods
}
