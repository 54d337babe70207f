package gpthandler

import (
	"context"
	"math"
	"strings"
	"time"

	ailogstore "hr-quiz-backend/lib/gpt/store"
	dbmodels "hr-quiz-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"
)

// CompletionRequest один запрос к генеративной модели
type CompletionRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	JSONOutput  bool // требовать от сервиса ответ строго json-объектом
}

// Completer клиент конкретного сервиса генерации текста
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Name() dbmodels.AiName
	Model() string
}

type Provider interface {
	GenerateQuestions(ctx context.Context, vacancy dbmodels.Vacancy) ([]string, error)
	AnalyzeAnswers(ctx context.Context, vacancy dbmodels.Vacancy, pairs []QAPair) (*dbmodels.AnalysisResult, error)
}

type Options struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// NewHandler шлюз к модели. Ретраев нет: один вызов - один запрос к сервису.
func NewHandler(client Completer, aiLogStore ailogstore.Provider, opts Options) Provider {
	return impl{
		client:     client,
		aiLogStore: aiLogStore,
		opts:       opts,
	}
}

type impl struct {
	client     Completer
	aiLogStore ailogstore.Provider
	opts       Options
}

type questionsResponse struct {
	Questions []string `json:"questions"`
}

type analysisResponse struct {
	Summary        string             `json:"summary"`
	Skills         map[string]float64 `json:"skills"`
	Fit            float64            `json:"fit"`
	Recommendation string             `json:"recommendation"`
}

func (i impl) GenerateQuestions(ctx context.Context, vacancy dbmodels.Vacancy) ([]string, error) {
	resp := questionsResponse{}
	if err := i.invoke(ctx, BuildQuestionsPrompt(vacancy), questionsSchema, &resp); err != nil {
		return nil, err
	}
	questions := make([]string, 0, len(resp.Questions))
	for _, text := range resp.Questions {
		questions = append(questions, strings.TrimSpace(text))
	}
	return questions, nil
}

func (i impl) AnalyzeAnswers(ctx context.Context, vacancy dbmodels.Vacancy, pairs []QAPair) (*dbmodels.AnalysisResult, error) {
	resp := analysisResponse{}
	if err := i.invoke(ctx, BuildAnalysisPrompt(vacancy, pairs), analysisSchema, &resp); err != nil {
		return nil, err
	}
	result, err := resp.toResult(vacancy.SkillNames())
	if err != nil {
		i.getLogger().
			WithField("vacancy_id", vacancy.ID).
			WithError(err).
			Warn("ответ ИИ с анализом кандидата не прошел проверку")
		return nil, err
	}
	return result, nil
}

func (i impl) invoke(ctx context.Context, prompt Prompt, schema *gojsonschema.Schema, out interface{}) error {
	callCtx := ctx
	if i.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, i.opts.Timeout)
		defer cancel()
	}
	now := time.Now()
	answer, err := i.client.Complete(callCtx, CompletionRequest{
		System:      prompt.System,
		User:        prompt.User,
		Temperature: i.opts.Temperature,
		MaxTokens:   i.opts.MaxTokens,
		JSONOutput:  true,
	})
	duration := time.Since(now)

	var mErr *ModelError
	if err != nil {
		mErr = classifyTransportError(err)
	} else {
		mErr = decodeJSONObject(answer, schema, out)
	}

	outcome := "ok"
	if mErr != nil {
		outcome = string(mErr.Kind)
	}
	i.saveLog(prompt, answer, outcome, duration)

	logger := i.getLogger().
		WithField("vacancy_id", prompt.VacancyID).
		WithField("request_type", prompt.Type).
		WithField("answer_duration_sec", duration.Seconds())
	if mErr != nil {
		logger.
			WithField("model_error", mErr.Kind).
			WithError(mErr).
			Warn("ошибка вызова ИИ")
		return mErr
	}
	logger.Info("получен ответ ИИ")
	return nil
}

func (i impl) saveLog(prompt Prompt, answer, outcome string, duration time.Duration) {
	if i.aiLogStore == nil {
		return
	}
	rec := dbmodels.AiLog{
		SysPromt:   prompt.System,
		UserPromt:  prompt.User,
		Answer:     answer,
		VacancyID:  prompt.VacancyID,
		ReqestType: prompt.Type,
		AiName:     i.client.Name(),
		Outcome:    outcome,
		DurationMs: duration.Milliseconds(),
	}
	if _, err := i.aiLogStore.Save(rec); err != nil {
		i.getLogger().
			WithField("vacancy_id", prompt.VacancyID).
			WithError(err).
			Error("ошибка сохранения журнала запросов к ИИ")
	}
}

func (i impl) getLogger() *log.Entry {
	return log.
		WithField("ai", i.client.Name()).
		WithField("model", i.client.Model())
}

// toResult приводит ответ к результату анализа: ключи навыков только из навыков вакансии,
// рекомендация содержит одно из решений.
func (r analysisResponse) toResult(vacancySkills []string) (*dbmodels.AnalysisResult, error) {
	canonical := make(map[string]string, len(vacancySkills))
	for _, name := range vacancySkills {
		canonical[normalizeSkill(name)] = name
	}
	skills := make(map[string]int, len(vacancySkills))
	for name, score := range r.Skills {
		vacancySkill, ok := canonical[normalizeSkill(name)]
		if !ok {
			continue
		}
		skills[vacancySkill] = int(math.Round(score))
	}
	if len(vacancySkills) != 0 && len(skills) == 0 {
		return nil, newModelError(ModelErrorSchemaMismatch, nil, "в ответе ИИ нет оценок по навыкам вакансии")
	}
	if _, ok := RecommendationCategoryOf(r.Recommendation); !ok {
		return nil, newModelError(ModelErrorSchemaMismatch,
			errors.Errorf("recommendation: %v", r.Recommendation),
			"в рекомендации ИИ не указано решение")
	}
	return &dbmodels.AnalysisResult{
		Summary:        strings.TrimSpace(r.Summary),
		Skills:         skills,
		Fit:            int(math.Round(r.Fit)),
		Recommendation: strings.TrimSpace(r.Recommendation),
	}, nil
}

func normalizeSkill(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
