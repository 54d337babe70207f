package questionnairehandler

import (
	"context"
	"strings"
	"time"

	gpthandler "hr-quiz-backend/lib/gpt"
	questionstore "hr-quiz-backend/lib/questionnaire/store"
	apperrors "hr-quiz-backend/lib/utils/app-errors"
	"hr-quiz-backend/lib/utils/lock"
	vacancystore "hr-quiz-backend/lib/vacancy/store"
	dbmodels "hr-quiz-backend/models/db"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// Regenerate заменяет опросник вакансии новым набором от ИИ.
	// При ошибке ИИ опросник не меняется, ошибка возвращается как есть.
	Regenerate(ctx context.Context, vacancyID string) ([]dbmodels.Question, error)
	// ResetToDefault заменяет опросник вакансии типовым набором вопросов
	ResetToDefault(ctx context.Context, vacancyID string) ([]dbmodels.Question, error)
	ListQuestions(vacancyID string) ([]dbmodels.Question, error)
	AddQuestion(vacancyID, text string) (*dbmodels.Question, error)
	UpdateQuestion(questionID, text string) (*dbmodels.Question, error)
	DeleteQuestion(questionID string) error
}

func NewHandler(vacancyStore vacancystore.Provider, questionStore questionstore.Provider,
	gpt gpthandler.Provider, locker *lock.KeyLock, lockWait time.Duration) Provider {
	return impl{
		vacancyStore:  vacancyStore,
		questionStore: questionStore,
		gpt:           gpt,
		locker:        locker,
		lockWait:      lockWait,
	}
}

type impl struct {
	vacancyStore  vacancystore.Provider
	questionStore questionstore.Provider
	gpt           gpthandler.Provider
	locker        *lock.KeyLock
	lockWait      time.Duration
}

func (i impl) Regenerate(ctx context.Context, vacancyID string) ([]dbmodels.Question, error) {
	return i.replaceLocked(ctx, vacancyID, func(vacancy dbmodels.Vacancy) ([]string, error) {
		return i.gpt.GenerateQuestions(ctx, vacancy)
	})
}

func (i impl) ResetToDefault(ctx context.Context, vacancyID string) ([]dbmodels.Question, error) {
	return i.replaceLocked(ctx, vacancyID, func(dbmodels.Vacancy) ([]string, error) {
		return gpthandler.QuestionsFallback(), nil
	})
}

// replaceLocked одна замена опросника вакансии в один момент времени
func (i impl) replaceLocked(ctx context.Context, vacancyID string, source func(vacancy dbmodels.Vacancy) ([]string, error)) ([]dbmodels.Question, error) {
	logger := i.getLogger(vacancyID)
	var result []dbmodels.Question
	success, err := i.locker.WithDelay(ctx, lockKey(vacancyID), i.lockWait, func() error {
		vacancy, err := i.getVacancy(vacancyID)
		if err != nil {
			return err
		}
		texts, err := source(*vacancy)
		if err != nil {
			return err
		}
		result, err = i.questionStore.Replace(vacancyID, texts)
		if err != nil {
			return apperrors.Persistence(err, "ошибка сохранения опросника")
		}
		return nil
	})
	if err != nil {
		logger.WithError(err).Warn("опросник вакансии не обновлен")
		return nil, err
	}
	if !success {
		return nil, apperrors.Conflict("опросник вакансии уже обновляется, повторите попытку позже")
	}
	logger.
		WithField("question_count", len(result)).
		Info("опросник вакансии обновлен")
	return result, nil
}

func (i impl) ListQuestions(vacancyID string) ([]dbmodels.Question, error) {
	if _, err := i.getVacancy(vacancyID); err != nil {
		return nil, err
	}
	list, err := i.questionStore.ListByVacancyID(vacancyID)
	if err != nil {
		return nil, apperrors.Persistence(err, "ошибка получения вопросов вакансии")
	}
	return list, nil
}

func (i impl) AddQuestion(vacancyID, text string) (*dbmodels.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.Validation("не указан текст вопроса")
	}
	if _, err := i.getVacancy(vacancyID); err != nil {
		return nil, err
	}
	order, err := i.questionStore.NextOrder(vacancyID)
	if err != nil {
		return nil, apperrors.Persistence(err, "ошибка получения порядка вопросов")
	}
	rec, err := i.questionStore.Create(dbmodels.Question{
		VacancyID: vacancyID,
		Text:      text,
		Order:     order,
	})
	if err != nil {
		return nil, apperrors.Persistence(err, "ошибка добавления вопроса")
	}
	i.getLogger(vacancyID).
		WithField("question_id", rec.ID).
		Info("добавлен вопрос")
	return rec, nil
}

func (i impl) UpdateQuestion(questionID, text string) (*dbmodels.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.Validation("не указан текст вопроса")
	}
	rec, err := i.getQuestion(questionID)
	if err != nil {
		return nil, err
	}
	if err = i.questionStore.UpdateText(questionID, text); err != nil {
		return nil, apperrors.Persistence(err, "ошибка обновления вопроса")
	}
	rec.Text = text
	return rec, nil
}

func (i impl) DeleteQuestion(questionID string) error {
	rec, err := i.getQuestion(questionID)
	if err != nil {
		return err
	}
	if err = i.questionStore.Delete(questionID); err != nil {
		return apperrors.Persistence(err, "ошибка удаления вопроса")
	}
	i.getLogger(rec.VacancyID).
		WithField("question_id", questionID).
		Info("удален вопрос")
	return nil
}

func (i impl) getVacancy(vacancyID string) (*dbmodels.Vacancy, error) {
	vacancy, err := i.vacancyStore.GetByID(vacancyID)
	if err != nil {
		return nil, apperrors.Persistence(err, "ошибка получения вакансии")
	}
	if vacancy == nil {
		return nil, apperrors.NotFound("вакансия не найдена")
	}
	return vacancy, nil
}

func (i impl) getQuestion(questionID string) (*dbmodels.Question, error) {
	rec, err := i.questionStore.GetByID(questionID)
	if err != nil {
		return nil, apperrors.Persistence(err, "ошибка получения вопроса")
	}
	if rec == nil {
		return nil, apperrors.NotFound("вопрос не найден")
	}
	return rec, nil
}

func (i impl) getLogger(vacancyID string) *log.Entry {
	return log.WithField("vacancy_id", vacancyID)
}

func lockKey(vacancyID string) string {
	return "questionnaire:" + vacancyID
}
