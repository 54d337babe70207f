package gpthandler

import (
	"strings"
)

type RecommendationCategory string

const (
	RecommendationHire     RecommendationCategory = "hire"
	RecommendationConsider RecommendationCategory = "consider"
	RecommendationReject   RecommendationCategory = "reject"
)

var recommendationKeywords = map[RecommendationCategory][]string{
	RecommendationHire:     {"нанять", "hire"},
	RecommendationConsider: {"рассмотреть", "consider"},
	RecommendationReject:   {"отклонить", "reject"},
}

// RecommendationCategoryOf решение, которое встречается в тексте рекомендации первым
func RecommendationCategoryOf(recommendation string) (RecommendationCategory, bool) {
	text := strings.ToLower(recommendation)
	var (
		found    RecommendationCategory
		foundPos = -1
	)
	for category, keywords := range recommendationKeywords {
		for _, keyword := range keywords {
			pos := strings.Index(text, keyword)
			if pos < 0 {
				continue
			}
			if foundPos < 0 || pos < foundPos {
				found = category
				foundPos = pos
			}
		}
	}
	return found, foundPos >= 0
}

func (c RecommendationCategory) Title() string {
	switch c {
	case RecommendationHire:
		return "Нанять"
	case RecommendationConsider:
		return "Рассмотреть"
	case RecommendationReject:
		return "Отклонить"
	}
	return ""
}
