package gpthandler

import (
	dbmodels "hr-quiz-backend/models/db"
)

const (
	FallbackScore          = 5
	FallbackSummary        = "Автоматический анализ недоступен: не удалось получить ответ ИИ. Требуется ручная проверка ответов кандидата."
	FallbackRecommendation = "Рассмотреть: требуется ручная проверка (needs manual review), AI-анализ недоступен"
)

var fallbackQuestions = []string{
	"Какой релевантный опыт вы имеете для этой позиции?",
	"Опишите сложный проект, над которым вы недавно работали.",
	"Как вы следите за последними тенденциями в отрасли?",
	"Каковы ваши главные профессиональные сильные стороны?",
	"Как вы справляетесь со сжатыми сроками и давлением?",
	"Опишите ваш подход к решению проблем.",
	"Каковы ваши карьерные цели на ближайшие 3-5 лет?",
	"Почему вас интересует эта должность?",
}

// QuestionsFallback типовой опросник, используется без изменений
func QuestionsFallback() []string {
	result := make([]string, len(fallbackQuestions))
	copy(result, fallbackQuestions)
	return result
}

// AnalysisFallback полный результат анализа на случай недоступности ИИ
func AnalysisFallback(skillNames []string) dbmodels.AnalysisResult {
	skills := make(map[string]int, len(skillNames))
	for _, name := range skillNames {
		skills[name] = FallbackScore
	}
	return dbmodels.AnalysisResult{
		Summary:        FallbackSummary,
		Skills:         skills,
		Fit:            FallbackScore,
		Recommendation: FallbackRecommendation,
	}
}
