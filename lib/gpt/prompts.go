package gpthandler

import (
	"fmt"
	dbmodels "hr-quiz-backend/models/db"
	"strings"
)

const (
	MinQuestions = 8
	MaxQuestions = 12
)

const (
	// NoAnswerMarker кандидат не прислал ответ на вопрос
	NoAnswerMarker = "[Ответ не предоставлен]"

	// EmptyAnswerMarker кандидат прислал пустой ответ
	EmptyAnswerMarker = "[Кандидат отправил пустой ответ]"
)

type Prompt struct {
	Type      dbmodels.AiReqestType
	VacancyID string
	System    string
	User      string
}

// QAPair вопрос анкеты и ответ кандидата, подготовленный для промта
type QAPair struct {
	QuestionID string
	Question   string
	Answer     string
}

const questionsSysPromt = "Ты — HR-специалист, который составляет опросник для кандидатов на вакансию. Пиши только на русском языке."

const questionsTemplate = `ВАЖНО: ВСЕ ВОПРОСЫ ДОЛЖНЫ БЫТЬ НА РУССКОМ ЯЗЫКЕ.

Название должности: %s
Описание должности: %s
Необходимые навыки: %s
Требования: %s
Контекст компании: %s

Создай от %d до %d релевантных вопросов для оценки кандидатов на эту должность.
ВСЕ ВОПРОСЫ ДОЛЖНЫ БЫТЬ ТОЛЬКО НА РУССКОМ ЯЗЫКЕ.

Верни ТОЛЬКО JSON-объект в формате: {"questions": ["Вопрос 1", "Вопрос 2", ...]}`

const analysisSysPromt = "Ты — HR-специалист, который анализирует ответы кандидата на вопросы анкеты. Пиши только на русском языке."

const analysisTemplate = `ВАЖНО: ВЕСЬ ОТВЕТ ДОЛЖЕН БЫТЬ НА РУССКОМ ЯЗЫКЕ.

Название должности: %s
Описание должности: %s
Необходимые навыки: %s
Требования к должности: %s

Вопросы и ответы:
%s

Отметка %q означает, что кандидат не ответил на вопрос, отметка %q означает, что кандидат отправил пустой ответ.

Проанализируй ответы кандидата и дай структурированную оценку.
В поле skills используй в качестве ключей только навыки из списка выше, без изменений.
Оценки навыков и fit — целые числа от 1 до 10.
Поле recommendation начни с одного из решений: Нанять, Рассмотреть или Отклонить, затем дай краткое обоснование.

Верни ТОЛЬКО JSON-объект в формате:
{
  "summary": "Краткое резюме общего профиля кандидата",
  "skills": {"навык1": 7, "навык2": 5},
  "fit": 6,
  "recommendation": "Рассмотреть: краткое обоснование"
}`

func BuildQuestionsPrompt(vacancy dbmodels.Vacancy) Prompt {
	return Prompt{
		Type:      dbmodels.AiQuestionsType,
		VacancyID: vacancy.ID,
		System:    questionsSysPromt,
		User: fmt.Sprintf(questionsTemplate,
			vacancy.Title,
			vacancy.Description,
			skillsLine(vacancy.SkillNames()),
			vacancy.Requirements,
			vacancy.Context,
			MinQuestions, MaxQuestions),
	}
}

func BuildAnalysisPrompt(vacancy dbmodels.Vacancy, pairs []QAPair) Prompt {
	qa := make([]string, 0, len(pairs))
	for k, pair := range pairs {
		answer := pair.Answer
		if answer == "" {
			answer = NoAnswerMarker
		}
		qa = append(qa, fmt.Sprintf("В%d: %s\nО%d: %s", k+1, pair.Question, k+1, answer))
	}
	return Prompt{
		Type:      dbmodels.AiAnalyzeAnswersType,
		VacancyID: vacancy.ID,
		System:    analysisSysPromt,
		User: fmt.Sprintf(analysisTemplate,
			vacancy.Title,
			vacancy.Description,
			skillsLine(vacancy.SkillNames()),
			vacancy.Requirements,
			strings.Join(qa, "\n\n"),
			NoAnswerMarker, EmptyAnswerMarker),
	}
}

// BuildQAPairs пары вопрос/ответ по всем вопросам вакансии в порядке анкеты.
// Для отсутствующего ответа подставляется NoAnswerMarker, для пустого EmptyAnswerMarker.
func BuildQAPairs(questions []dbmodels.Question, answers map[string]string) []QAPair {
	pairs := make([]QAPair, 0, len(questions))
	for _, question := range questions {
		answer, ok := answers[question.ID]
		switch {
		case !ok:
			answer = NoAnswerMarker
		case strings.TrimSpace(answer) == "":
			answer = EmptyAnswerMarker
		}
		pairs = append(pairs, QAPair{
			QuestionID: question.ID,
			Question:   question.Text,
			Answer:     answer,
		})
	}
	return pairs
}

func skillsLine(skills []string) string {
	if len(skills) == 0 {
		return "не указаны"
	}
	return strings.Join(skills, ", ")
}
