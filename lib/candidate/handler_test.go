package candidatehandler

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	candidatestore "hr-quiz-backend/lib/candidate/store"
	xlsexport "hr-quiz-backend/lib/export/xls"
	gpthandler "hr-quiz-backend/lib/gpt"
	apperrors "hr-quiz-backend/lib/utils/app-errors"
	candidateapimodels "hr-quiz-backend/models/api/candidate"
	dbmodels "hr-quiz-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type vacancyStoreMock struct {
	vacancies map[string]dbmodels.Vacancy
}

func (m *vacancyStoreMock) Create(rec dbmodels.Vacancy) (string, error) {
	return "", errors.New("not implemented")
}

func (m *vacancyStoreMock) GetByID(id string) (*dbmodels.Vacancy, error) {
	rec, ok := m.vacancies[id]
	if !ok {
		return nil, nil
	}
	rec.Questions = nil
	return &rec, nil
}

func (m *vacancyStoreMock) GetWithQuestions(id string) (*dbmodels.Vacancy, error) {
	rec, ok := m.vacancies[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *vacancyStoreMock) List() ([]dbmodels.VacancyExt, error) {
	return nil, nil
}

func (m *vacancyStoreMock) Count() (int64, error) {
	return int64(len(m.vacancies)), nil
}

func (m *vacancyStoreMock) Update(id string, updMap map[string]interface{}) error {
	return nil
}

func (m *vacancyStoreMock) Delete(id string) error {
	return nil
}

type candidateStoreMock struct {
	mu         sync.Mutex
	seq        int
	candidates map[string]dbmodels.Candidate
	writes     map[string]int // сколько раз анализ кандидата был записан
	updateErr  error
	vacancies  *vacancyStoreMock
}

func newCandidateStoreMock() *candidateStoreMock {
	return &candidateStoreMock{
		candidates: map[string]dbmodels.Candidate{},
		writes:     map[string]int{},
	}
}

func (m *candidateStoreMock) Create(rec dbmodels.Candidate) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	rec.ID = fmt.Sprintf("cand-%d", m.seq)
	m.candidates[rec.ID] = rec
	return rec.ID, nil
}

func (m *candidateStoreMock) UpdateAnalysis(id string, analysis dbmodels.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	rec, ok := m.candidates[id]
	if !ok {
		return errors.New("record not found")
	}
	if !rec.Analysis.IsPending() {
		return candidatestore.ErrAlreadyAnalyzed
	}
	rec.Analysis = analysis
	m.candidates[id] = rec
	m.writes[id]++
	return nil
}

func (m *candidateStoreMock) GetByID(id string) (*dbmodels.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.candidates[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *candidateStoreMock) ListByVacancyID(vacancyID string) ([]dbmodels.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := []dbmodels.Candidate{}
	for _, rec := range m.candidates {
		if rec.VacancyID == vacancyID {
			list = append(list, rec)
		}
	}
	return list, nil
}

func (m *candidateStoreMock) DeleteByVacancyID(vacancyID string) error {
	return nil
}

func (m *candidateStoreMock) ListPending(createdBefore time.Time, limit int) ([]dbmodels.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := []dbmodels.Candidate{}
	for _, rec := range m.candidates {
		if rec.Analysis.IsPending() && rec.CreatedAt.Before(createdBefore) {
			if rec.Vacancy == nil && m.vacancies != nil {
				rec.Vacancy, _ = m.vacancies.GetWithQuestions(rec.VacancyID)
			}
			list = append(list, rec)
		}
	}
	return list, nil
}

type gptMock struct {
	result   *dbmodels.AnalysisResult
	err      error
	pairs    []gpthandler.QAPair
	onInvoke func()
}

func (m *gptMock) GenerateQuestions(ctx context.Context, vacancy dbmodels.Vacancy) ([]string, error) {
	return nil, errors.New("not implemented")
}

func (m *gptMock) AnalyzeAnswers(ctx context.Context, vacancy dbmodels.Vacancy, pairs []gpthandler.QAPair) (*dbmodels.AnalysisResult, error) {
	m.pairs = pairs
	if m.onInvoke != nil {
		m.onInvoke()
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mailerMock struct {
	sent []string
	err  error
}

func (m *mailerMock) SendEMail(to, subject, message string) error {
	m.sent = append(m.sent, to+"|"+subject)
	return m.err
}

const testVacancyID = "vac-1"

func testVacancies() *vacancyStoreMock {
	return &vacancyStoreMock{
		vacancies: map[string]dbmodels.Vacancy{
			testVacancyID: {
				BaseModel:   dbmodels.BaseModel{ID: testVacancyID},
				Title:       "Frontend Developer",
				Description: "UI",
				Skills:      []string{"React", "CSS"},
				Questions: []dbmodels.Question{
					{BaseModel: dbmodels.BaseModel{ID: "q1"}, VacancyID: testVacancyID, Text: "Опыт с React?", Order: 1},
					{BaseModel: dbmodels.BaseModel{ID: "q2"}, VacancyID: testVacancyID, Text: "Опыт с CSS?", Order: 2},
					{BaseModel: dbmodels.BaseModel{ID: "q3"}, VacancyID: testVacancyID, Text: "Почему мы?", Order: 3},
				},
			},
		},
	}
}

func newTestHandler(gpt gpthandler.Provider, candidates *candidateStoreMock, mailer *mailerMock) Provider {
	cfg := Config{}
	if mailer != nil {
		cfg.HRNotifyEmail = "hr@example.com"
		return NewHandler(testVacancies(), candidates, gpt, mailer, xlsexport.NewHandler(), cfg)
	}
	return NewHandler(testVacancies(), candidates, gpt, nil, xlsexport.NewHandler(), cfg)
}

func validRequest() candidateapimodels.SubmitRequest {
	return candidateapimodels.SubmitRequest{
		Identity: candidateapimodels.Identity{
			Name:  "Иван Петров",
			Email: "ivan@example.com",
		},
		Answers: map[string]string{
			"q1": "3 года",
			"q2": "   ",
		},
	}
}

func TestSubmit(t *testing.T) {
	t.Run("успешный анализ", func(t *testing.T) {
		candidates := newCandidateStoreMock()
		mailer := &mailerMock{}
		gpt := &gptMock{result: &dbmodels.AnalysisResult{
			Summary:        "ok",
			Skills:         map[string]int{"React": 8, "CSS": 6},
			Fit:            7,
			Recommendation: "Hire",
		}}
		handler := newTestHandler(gpt, candidates, mailer)

		resp, err := handler.Submit(context.Background(), testVacancyID, validRequest())
		require.NoError(t, err)
		require.False(t, resp.Degraded)
		require.Equal(t, dbmodels.AnalysisCompleted, resp.Analysis.Status)
		require.Equal(t, 7, resp.Analysis.Fit)
		require.Contains(t, resp.Analysis.Recommendation, "Hire")

		stored, err := candidates.GetByID(resp.CandidateID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		require.Equal(t, resp.Analysis, stored.Analysis)
		require.Equal(t, "Иван Петров", stored.Name)
		require.Len(t, mailer.sent, 1)
	})
	t.Run("таймаут ИИ дает резервный анализ", func(t *testing.T) {
		candidates := newCandidateStoreMock()
		gpt := &gptMock{err: &gpthandler.ModelError{Kind: gpthandler.ModelErrorTimeout, Message: "таймаут"}}
		handler := newTestHandler(gpt, candidates, nil)

		resp, err := handler.Submit(context.Background(), testVacancyID, validRequest())
		require.NoError(t, err)
		require.True(t, resp.Degraded)
		require.Equal(t, dbmodels.AnalysisFallback, resp.Analysis.Status)
		require.Equal(t, map[string]int{"React": 5, "CSS": 5}, resp.Analysis.Skills)
		require.Equal(t, 5, resp.Analysis.Fit)
		require.Contains(t, resp.Analysis.Recommendation, "needs manual review")

		stored, err := candidates.GetByID(resp.CandidateID)
		require.NoError(t, err)
		require.Equal(t, dbmodels.AnalysisFallback, stored.Analysis.Status)
	})
	t.Run("кандидат сохранен до анализа", func(t *testing.T) {
		candidates := newCandidateStoreMock()
		gpt := &gptMock{result: &dbmodels.AnalysisResult{Skills: map[string]int{"React": 8}, Fit: 7, Recommendation: "Нанять"}}
		gpt.onInvoke = func() {
			list, err := candidates.ListByVacancyID(testVacancyID)
			require.NoError(t, err)
			require.Len(t, list, 1)
			require.True(t, list[0].Analysis.IsPending())
		}
		handler := newTestHandler(gpt, candidates, nil)

		_, err := handler.Submit(context.Background(), testVacancyID, validRequest())
		require.NoError(t, err)
	})
	t.Run("пропущенные и пустые ответы различаются", func(t *testing.T) {
		gpt := &gptMock{result: &dbmodels.AnalysisResult{Skills: map[string]int{"React": 8}, Fit: 7, Recommendation: "Нанять"}}
		handler := newTestHandler(gpt, newCandidateStoreMock(), nil)

		_, err := handler.Submit(context.Background(), testVacancyID, validRequest())
		require.NoError(t, err)
		require.Len(t, gpt.pairs, 3)
		require.Equal(t, "3 года", gpt.pairs[0].Answer)
		require.Equal(t, gpthandler.EmptyAnswerMarker, gpt.pairs[1].Answer)
		require.Equal(t, gpthandler.NoAnswerMarker, gpt.pairs[2].Answer)
	})
	t.Run("ответ на чужой вопрос", func(t *testing.T) {
		candidates := newCandidateStoreMock()
		handler := newTestHandler(&gptMock{}, candidates, nil)
		req := validRequest()
		req.Answers["foreign"] = "ответ"

		_, err := handler.Submit(context.Background(), testVacancyID, req)
		require.True(t, apperrors.IsValidation(err))
		require.Empty(t, candidates.candidates)
	})
	t.Run("некорректная почта", func(t *testing.T) {
		handler := newTestHandler(&gptMock{}, newCandidateStoreMock(), nil)
		req := validRequest()
		req.Email = "ivan"

		_, err := handler.Submit(context.Background(), testVacancyID, req)
		require.True(t, apperrors.IsValidation(err))
	})
	t.Run("вакансия не найдена", func(t *testing.T) {
		handler := newTestHandler(&gptMock{}, newCandidateStoreMock(), nil)
		_, err := handler.Submit(context.Background(), "unknown", validRequest())
		require.True(t, apperrors.IsNotFound(err))
	})
	t.Run("ошибка почты не мешает отправке", func(t *testing.T) {
		mailer := &mailerMock{err: errors.New("smtp недоступен")}
		gpt := &gptMock{result: &dbmodels.AnalysisResult{Skills: map[string]int{"React": 8}, Fit: 7, Recommendation: "Нанять"}}
		handler := newTestHandler(gpt, newCandidateStoreMock(), mailer)

		resp, err := handler.Submit(context.Background(), testVacancyID, validRequest())
		require.NoError(t, err)
		require.NotEmpty(t, resp.CandidateID)
		require.Len(t, mailer.sent, 1)
	})
}

func TestSubmitAnalysisWrittenOnce(t *testing.T) {
	t.Run("повтор во время анализа не перезаписывает результат", func(t *testing.T) {
		candidates := newCandidateStoreMock()
		candidates.vacancies = testVacancies()
		workerResult := &dbmodels.AnalysisResult{Summary: "повтор", Skills: map[string]int{"React": 4}, Fit: 4, Recommendation: "Отклонить"}
		submitResult := &dbmodels.AnalysisResult{Summary: "отправка", Skills: map[string]int{"React": 9}, Fit: 9, Recommendation: "Нанять"}
		gpt := &gptMock{}
		handler := newTestHandler(gpt, candidates, nil)

		calls := 0
		processed := 0
		gpt.onInvoke = func() {
			calls++
			if calls > 1 {
				return
			}
			gpt.result = workerResult
			var err error
			processed, err = handler.RetryPending(context.Background(), time.Nanosecond)
			require.NoError(t, err)
			gpt.result = submitResult
		}

		resp, err := handler.Submit(context.Background(), testVacancyID, validRequest())
		require.NoError(t, err)
		require.Equal(t, 1, processed)
		require.Equal(t, 4, resp.Analysis.Fit)
		require.Equal(t, "повтор", resp.Analysis.Summary)

		stored, err := candidates.GetByID(resp.CandidateID)
		require.NoError(t, err)
		require.Equal(t, resp.Analysis, stored.Analysis)
		require.Equal(t, 1, candidates.writes[resp.CandidateID])
	})
	t.Run("повтор пропускает уже проанализированного кандидата", func(t *testing.T) {
		candidates := newCandidateStoreMock()
		candidates.vacancies = testVacancies()
		id, err := candidates.Create(dbmodels.Candidate{
			VacancyID: testVacancyID,
			Name:      "Иван",
			Analysis:  dbmodels.PendingAnalysis(),
		})
		require.NoError(t, err)
		submitted := dbmodels.Analysis{
			Status:         dbmodels.AnalysisCompleted,
			AnalysisResult: dbmodels.AnalysisResult{Skills: map[string]int{"React": 9}, Fit: 9, Recommendation: "Нанять"},
		}
		gpt := &gptMock{result: &dbmodels.AnalysisResult{Skills: map[string]int{"React": 2}, Fit: 2, Recommendation: "Отклонить"}}
		gpt.onInvoke = func() {
			// отправка успела записать анализ, пока шел повтор
			require.NoError(t, candidates.UpdateAnalysis(id, submitted))
		}
		handler := newTestHandler(gpt, candidates, nil)

		processed, err := handler.RetryPending(context.Background(), time.Nanosecond)
		require.NoError(t, err)
		require.Equal(t, 0, processed)

		stored, err := candidates.GetByID(id)
		require.NoError(t, err)
		require.Equal(t, submitted, stored.Analysis)
		require.Equal(t, 1, candidates.writes[id])
	})
	t.Run("ошибка записи анализа", func(t *testing.T) {
		candidates := newCandidateStoreMock()
		candidates.updateErr = errors.New("connection reset")
		gpt := &gptMock{result: &dbmodels.AnalysisResult{Skills: map[string]int{"React": 8}, Fit: 7, Recommendation: "Нанять"}}
		mailer := &mailerMock{}
		handler := newTestHandler(gpt, candidates, mailer)

		resp, err := handler.Submit(context.Background(), testVacancyID, validRequest())
		require.Nil(t, resp)
		require.True(t, apperrors.IsPersistence(err))
		require.Empty(t, mailer.sent)

		list, err := candidates.ListByVacancyID(testVacancyID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.True(t, list[0].Analysis.IsPending())

		candidates.vacancies = testVacancies()
		processed, err := handler.RetryPending(context.Background(), time.Nanosecond)
		require.NoError(t, err)
		require.Equal(t, 0, processed)
	})
}

func TestCandidateQueries(t *testing.T) {
	candidates := newCandidateStoreMock()
	gpt := &gptMock{result: &dbmodels.AnalysisResult{Skills: map[string]int{"React": 8}, Fit: 7, Recommendation: "Нанять"}}
	handler := newTestHandler(gpt, candidates, nil)
	resp, err := handler.Submit(context.Background(), testVacancyID, validRequest())
	require.NoError(t, err)

	t.Run("опросник для кандидата", func(t *testing.T) {
		quiz, err := handler.GetQuiz(testVacancyID)
		require.NoError(t, err)
		require.Equal(t, "Frontend Developer", quiz.Title)
		require.Len(t, quiz.Questions, 3)
		require.Equal(t, "q1", quiz.Questions[0].ID)

		_, err = handler.GetQuiz("unknown")
		require.True(t, apperrors.IsNotFound(err))
	})
	t.Run("получение по ид", func(t *testing.T) {
		view, err := handler.GetByID(resp.CandidateID)
		require.NoError(t, err)
		require.Equal(t, "ivan@example.com", view.Email)

		_, err = handler.GetByID("unknown")
		require.True(t, apperrors.IsNotFound(err))
	})
	t.Run("список по вакансии", func(t *testing.T) {
		list, err := handler.ListByVacancy(testVacancyID)
		require.NoError(t, err)
		require.Len(t, list, 1)

		_, err = handler.ListByVacancy("unknown")
		require.True(t, apperrors.IsNotFound(err))
	})
	t.Run("выгрузка в xlsx", func(t *testing.T) {
		buf, fileName, err := handler.ExportXLSX(testVacancyID)
		require.NoError(t, err)
		require.Equal(t, "candidates_vac-1.xlsx", fileName)
		require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
	})
}

func TestBuildNotifyMessage(t *testing.T) {
	msg := buildNotifyMessage(
		dbmodels.Vacancy{Title: "Frontend Developer"},
		candidateapimodels.Identity{Name: "Иван", Email: "ivan@example.com"},
		candidateapimodels.SubmitResponse{
			Degraded: true,
			Analysis: dbmodels.Analysis{AnalysisResult: dbmodels.AnalysisResult{Fit: 5, Recommendation: "Рассмотреть"}},
		})
	require.Contains(t, msg, "Кандидат: Иван <ivan@example.com>")
	require.Contains(t, msg, "Соответствие вакансии: 5/10")
	require.Contains(t, msg, "требуется ручная проверка")
	require.NotContains(t, msg, "Телефон")
}

func TestRetryPending(t *testing.T) {
	candidates := newCandidateStoreMock()
	vacancy, err := testVacancies().GetWithQuestions(testVacancyID)
	require.NoError(t, err)
	staleID, err := candidates.Create(dbmodels.Candidate{
		BaseModel: dbmodels.BaseModel{CreatedAt: time.Now().Add(-time.Hour)},
		VacancyID: testVacancyID,
		Vacancy:   vacancy,
		Name:      "Иван",
		Answers:   dbmodels.CandidateAnswers{"q1": "3 года"},
		Analysis:  dbmodels.PendingAnalysis(),
	})
	require.NoError(t, err)
	freshID, err := candidates.Create(dbmodels.Candidate{
		BaseModel: dbmodels.BaseModel{CreatedAt: time.Now()},
		VacancyID: testVacancyID,
		Vacancy:   vacancy,
		Name:      "Анна",
		Analysis:  dbmodels.PendingAnalysis(),
	})
	require.NoError(t, err)

	gpt := &gptMock{err: &gpthandler.ModelError{Kind: gpthandler.ModelErrorUnavailable, Message: "недоступен"}}
	handler := newTestHandler(gpt, candidates, nil)

	processed, err := handler.RetryPending(context.Background(), 10*time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, processed)

	stale, err := candidates.GetByID(staleID)
	require.NoError(t, err)
	require.Equal(t, dbmodels.AnalysisFallback, stale.Analysis.Status)
	require.Equal(t, 5, stale.Analysis.Fit)

	fresh, err := candidates.GetByID(freshID)
	require.NoError(t, err)
	require.True(t, fresh.Analysis.IsPending())
}
