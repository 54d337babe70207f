package questionnairehandler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	gpthandler "hr-quiz-backend/lib/gpt"
	apperrors "hr-quiz-backend/lib/utils/app-errors"
	"hr-quiz-backend/lib/utils/lock"
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
	return &rec, nil
}

func (m *vacancyStoreMock) GetWithQuestions(id string) (*dbmodels.Vacancy, error) {
	return m.GetByID(id)
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

type questionStoreMock struct {
	mu         sync.Mutex
	seq        int
	questions  map[string]dbmodels.Question
	replaceErr error // ошибка вставки нового набора внутри транзакции
}

func newQuestionStoreMock() *questionStoreMock {
	return &questionStoreMock{questions: map[string]dbmodels.Question{}}
}

func (m *questionStoreMock) Create(rec dbmodels.Question) (*dbmodels.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	rec.ID = fmt.Sprintf("q-%d", m.seq)
	m.questions[rec.ID] = rec
	return &rec, nil
}

func (m *questionStoreMock) BulkCreate(vacancyID string, texts []string) ([]dbmodels.Question, error) {
	list := make([]dbmodels.Question, 0, len(texts))
	for k, text := range texts {
		rec, _ := m.Create(dbmodels.Question{VacancyID: vacancyID, Text: text, Order: k + 1})
		list = append(list, *rec)
	}
	return list, nil
}

func (m *questionStoreMock) GetByID(id string) (*dbmodels.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.questions[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *questionStoreMock) ListByVacancyID(vacancyID string) ([]dbmodels.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := []dbmodels.Question{}
	for _, rec := range m.questions {
		if rec.VacancyID == vacancyID {
			list = append(list, rec)
		}
	}
	sort.Slice(list, func(a, b int) bool { return list[a].Order < list[b].Order })
	return list, nil
}

func (m *questionStoreMock) NextOrder(vacancyID string) (int, error) {
	list, _ := m.ListByVacancyID(vacancyID)
	if len(list) == 0 {
		return 1, nil
	}
	return list[len(list)-1].Order + 1, nil
}

func (m *questionStoreMock) UpdateText(id, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.questions[id]
	rec.Text = text
	m.questions[id] = rec
	return nil
}

func (m *questionStoreMock) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.questions, id)
	return nil
}

func (m *questionStoreMock) DeleteByVacancyID(vacancyID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, rec := range m.questions {
		if rec.VacancyID == vacancyID {
			delete(m.questions, id)
		}
	}
	return nil
}

func (m *questionStoreMock) Replace(vacancyID string, texts []string) ([]dbmodels.Question, error) {
	m.mu.Lock()
	snapshot := make(map[string]dbmodels.Question, len(m.questions))
	for id, rec := range m.questions {
		snapshot[id] = rec
	}
	m.mu.Unlock()

	if err := m.DeleteByVacancyID(vacancyID); err != nil {
		return nil, err
	}
	if m.replaceErr != nil {
		// откат транзакции
		m.mu.Lock()
		m.questions = snapshot
		m.mu.Unlock()
		return nil, m.replaceErr
	}
	return m.BulkCreate(vacancyID, texts)
}

type gptMock struct {
	questions []string
	err       error
	started   chan struct{}
	release   chan struct{}
}

func (m *gptMock) GenerateQuestions(ctx context.Context, vacancy dbmodels.Vacancy) ([]string, error) {
	if m.started != nil {
		close(m.started)
		<-m.release
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.questions, nil
}

func (m *gptMock) AnalyzeAnswers(ctx context.Context, vacancy dbmodels.Vacancy, pairs []gpthandler.QAPair) (*dbmodels.AnalysisResult, error) {
	return nil, errors.New("not implemented")
}

const testVacancyID = "vac-1"

func newTestHandler(gpt gpthandler.Provider, questions *questionStoreMock, lockWait time.Duration) Provider {
	vacancies := &vacancyStoreMock{
		vacancies: map[string]dbmodels.Vacancy{
			testVacancyID: {
				BaseModel:   dbmodels.BaseModel{ID: testVacancyID},
				Title:       "Frontend Developer",
				Description: "UI",
				Skills:      []string{"React", "CSS"},
			},
		},
	}
	return NewHandler(vacancies, questions, gpt, lock.New(), lockWait)
}

func generatedQuestions(n int) []string {
	result := make([]string, 0, n)
	for k := 1; k <= n; k++ {
		result = append(result, fmt.Sprintf("Вопрос %d?", k))
	}
	return result
}

func questionTexts(list []dbmodels.Question) []string {
	result := make([]string, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.Text)
	}
	return result
}

func TestRegenerate(t *testing.T) {
	t.Run("новый набор полностью заменяет старый", func(t *testing.T) {
		questions := newQuestionStoreMock()
		old, err := questions.BulkCreate(testVacancyID, []string{"старый 1", "старый 2"})
		require.NoError(t, err)
		handler := newTestHandler(&gptMock{questions: generatedQuestions(10)}, questions, time.Second)

		list, err := handler.Regenerate(context.Background(), testVacancyID)
		require.NoError(t, err)
		require.Len(t, list, 10)
		for _, rec := range old {
			found, err := questions.GetByID(rec.ID)
			require.NoError(t, err)
			require.Nil(t, found)
		}

		stored, err := questions.ListByVacancyID(testVacancyID)
		require.NoError(t, err)
		require.Equal(t, generatedQuestions(10), questionTexts(stored))
		for k, rec := range stored {
			require.Equal(t, k+1, rec.Order)
		}
	})
	t.Run("ошибка ИИ не меняет опросник", func(t *testing.T) {
		questions := newQuestionStoreMock()
		_, err := questions.BulkCreate(testVacancyID, []string{"старый 1", "старый 2"})
		require.NoError(t, err)
		before, err := questions.ListByVacancyID(testVacancyID)
		require.NoError(t, err)
		modelErr := &gpthandler.ModelError{Kind: gpthandler.ModelErrorMalformedJSON, Message: "ответ ИИ не json"}
		handler := newTestHandler(&gptMock{err: modelErr}, questions, time.Second)

		_, err = handler.Regenerate(context.Background(), testVacancyID)
		require.Error(t, err)
		require.True(t, gpthandler.IsModelError(err, gpthandler.ModelErrorMalformedJSON))

		after, err := questions.ListByVacancyID(testVacancyID)
		require.NoError(t, err)
		require.Equal(t, before, after)
	})
	t.Run("ошибка сохранения не оставляет вакансию без вопросов", func(t *testing.T) {
		questions := newQuestionStoreMock()
		_, err := questions.BulkCreate(testVacancyID, []string{"старый 1", "старый 2"})
		require.NoError(t, err)
		before, err := questions.ListByVacancyID(testVacancyID)
		require.NoError(t, err)
		questions.replaceErr = errors.New("connection reset")
		handler := newTestHandler(&gptMock{questions: generatedQuestions(9)}, questions, time.Second)

		list, err := handler.Regenerate(context.Background(), testVacancyID)
		require.Nil(t, list)
		require.True(t, apperrors.IsPersistence(err))

		after, err := questions.ListByVacancyID(testVacancyID)
		require.NoError(t, err)
		require.Len(t, after, 2)
		require.Equal(t, before, after)

		_, err = handler.ResetToDefault(context.Background(), testVacancyID)
		require.True(t, apperrors.IsPersistence(err))
		after, err = questions.ListByVacancyID(testVacancyID)
		require.NoError(t, err)
		require.Equal(t, before, after)
	})
	t.Run("вакансия не найдена", func(t *testing.T) {
		handler := newTestHandler(&gptMock{questions: generatedQuestions(8)}, newQuestionStoreMock(), time.Second)
		_, err := handler.Regenerate(context.Background(), "unknown")
		require.True(t, apperrors.IsNotFound(err))
	})
	t.Run("параллельная генерация получает конфликт", func(t *testing.T) {
		gpt := &gptMock{
			questions: generatedQuestions(8),
			started:   make(chan struct{}),
			release:   make(chan struct{}),
		}
		handler := newTestHandler(gpt, newQuestionStoreMock(), 100*time.Millisecond)

		done := make(chan error, 1)
		go func() {
			_, err := handler.Regenerate(context.Background(), testVacancyID)
			done <- err
		}()
		<-gpt.started

		_, err := handler.Regenerate(context.Background(), testVacancyID)
		require.True(t, apperrors.IsConflict(err))

		close(gpt.release)
		require.NoError(t, <-done)
	})
}

func TestResetToDefault(t *testing.T) {
	questions := newQuestionStoreMock()
	handler := newTestHandler(&gptMock{err: errors.New("не должен вызываться")}, questions, time.Second)

	list, err := handler.ResetToDefault(context.Background(), testVacancyID)
	require.NoError(t, err)
	require.Equal(t, gpthandler.QuestionsFallback(), questionTexts(list))
}

func TestQuestionCRUD(t *testing.T) {
	questions := newQuestionStoreMock()
	handler := newTestHandler(&gptMock{}, questions, time.Second)

	t.Run("пустой текст", func(t *testing.T) {
		_, err := handler.AddQuestion(testVacancyID, "   ")
		require.True(t, apperrors.IsValidation(err))
	})
	t.Run("добавление в конец", func(t *testing.T) {
		first, err := handler.AddQuestion(testVacancyID, " Первый? ")
		require.NoError(t, err)
		require.Equal(t, "Первый?", first.Text)
		second, err := handler.AddQuestion(testVacancyID, "Второй?")
		require.NoError(t, err)
		require.Equal(t, first.Order+1, second.Order)
	})
	t.Run("изменение и удаление", func(t *testing.T) {
		list, err := handler.ListQuestions(testVacancyID)
		require.NoError(t, err)
		require.Len(t, list, 2)

		updated, err := handler.UpdateQuestion(list[0].ID, "Новый текст?")
		require.NoError(t, err)
		require.Equal(t, "Новый текст?", updated.Text)

		require.NoError(t, handler.DeleteQuestion(list[1].ID))
		require.True(t, apperrors.IsNotFound(handler.DeleteQuestion(list[1].ID)))

		list, err = handler.ListQuestions(testVacancyID)
		require.NoError(t, err)
		require.Equal(t, []string{"Новый текст?"}, questionTexts(list))
	})
	t.Run("вакансия не найдена", func(t *testing.T) {
		_, err := handler.ListQuestions("unknown")
		require.True(t, apperrors.IsNotFound(err))
	})
}
