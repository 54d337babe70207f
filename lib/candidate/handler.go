package candidatehandler

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	candidatestore "hr-quiz-backend/lib/candidate/store"
	xlsexport "hr-quiz-backend/lib/export/xls"
	gpthandler "hr-quiz-backend/lib/gpt"
	"hr-quiz-backend/lib/smtp"
	apperrors "hr-quiz-backend/lib/utils/app-errors"
	vacancystore "hr-quiz-backend/lib/vacancy/store"
	candidateapimodels "hr-quiz-backend/models/api/candidate"
	dbmodels "hr-quiz-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// GetQuiz опросник вакансии для кандидата
	GetQuiz(vacancyID string) (*candidateapimodels.PublicQuiz, error)
	// Submit сохраняет ответы кандидата и выполняет их анализ.
	// Ошибка ИИ не прерывает отправку: кандидат получает резервный результат анализа.
	Submit(ctx context.Context, vacancyID string, data candidateapimodels.SubmitRequest) (*candidateapimodels.SubmitResponse, error)
	GetByID(id string) (*candidateapimodels.CandidateView, error)
	ListByVacancy(vacancyID string) ([]candidateapimodels.CandidateView, error)
	ExportXLSX(vacancyID string) (buf *bytes.Buffer, fileName string, err error)
	RetryPending(ctx context.Context, olderThan time.Duration) (processed int, err error)
}

const retryPendingLimit = 50

type Config struct {
	HRNotifyEmail string // куда отправлять уведомление о новом кандидате, пусто - не отправлять
}

func NewHandler(vacancyStore vacancystore.Provider, candidateStore candidatestore.Provider,
	gpt gpthandler.Provider, mailer smtp.Provider, exporter xlsexport.Provider, cfg Config) Provider {
	return impl{
		vacancyStore:   vacancyStore,
		candidateStore: candidateStore,
		gpt:            gpt,
		mailer:         mailer,
		exporter:       exporter,
		cfg:            cfg,
	}
}

type impl struct {
	vacancyStore   vacancystore.Provider
	candidateStore candidatestore.Provider
	gpt            gpthandler.Provider
	mailer         smtp.Provider
	exporter       xlsexport.Provider
	cfg            Config
}

func (i impl) GetQuiz(vacancyID string) (*candidateapimodels.PublicQuiz, error) {
	vacancy, err := i.vacancyStore.GetWithQuestions(vacancyID)
	if err != nil {
		return nil, apperrors.Persistence(err, "ошибка получения вакансии")
	}
	if vacancy == nil {
		return nil, apperrors.NotFound("вакансия не найдена")
	}
	quiz := candidateapimodels.PublicQuizConvert(*vacancy)
	return &quiz, nil
}

func (i impl) Submit(ctx context.Context, vacancyID string, data candidateapimodels.SubmitRequest) (*candidateapimodels.SubmitResponse, error) {
	identity := data.Identity.Normalize()
	if err := identity.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	vacancy, err := i.vacancyStore.GetWithQuestions(vacancyID)
	if err != nil {
		return nil, apperrors.Persistence(err, "ошибка получения вакансии")
	}
	if vacancy == nil {
		return nil, apperrors.NotFound("вакансия не найдена")
	}
	if err = checkAnswers(vacancy.Questions, data.Answers); err != nil {
		return nil, err
	}

	candidateID, err := i.candidateStore.Create(dbmodels.Candidate{
		VacancyID: vacancyID,
		Name:      identity.Name,
		Email:     identity.Email,
		Phone:     identity.Phone,
		Answers:   dbmodels.CandidateAnswers(data.Answers),
		Analysis:  dbmodels.PendingAnalysis(),
	})
	if err != nil {
		return nil, apperrors.Persistence(err, "ошибка сохранения ответов кандидата")
	}
	logger := i.getLogger(vacancyID, candidateID)
	logger.Info("сохранены ответы кандидата")

	result := candidateapimodels.SubmitResponse{
		CandidateID: candidateID,
	}
	result.Analysis = i.analyze(ctx, *vacancy, data.Answers, logger)
	err = i.candidateStore.UpdateAnalysis(candidateID, result.Analysis)
	switch {
	case errors.Is(err, candidatestore.ErrAlreadyAnalyzed):
		// анализ успел записать фоновый повтор, возвращаем сохраненный
		stored, err := i.candidateStore.GetByID(candidateID)
		if err != nil {
			return nil, apperrors.Persistence(err, "ошибка получения анализа кандидата")
		}
		if stored == nil {
			return nil, apperrors.NotFound("кандидат не найден")
		}
		logger.Info("анализ кандидата уже сохранен, используется сохраненный")
		result.Analysis = stored.Analysis
	case err != nil:
		return nil, apperrors.Persistence(err, "ошибка сохранения анализа кандидата")
	}
	result.Degraded = result.Analysis.Status == dbmodels.AnalysisFallback
	logger.
		WithField("fit", result.Analysis.Fit).
		WithField("degraded", result.Degraded).
		Info("анализ кандидата сохранен")

	i.notifyHR(*vacancy, identity, result)
	return &result, nil
}

// RetryPending повторяет анализ кандидатов, оставшихся в статусе pending дольше olderThan
func (i impl) RetryPending(ctx context.Context, olderThan time.Duration) (processed int, err error) {
	list, err := i.candidateStore.ListPending(time.Now().Add(-olderThan), retryPendingLimit)
	if err != nil {
		return 0, apperrors.Persistence(err, "ошибка получения кандидатов без анализа")
	}
	for _, rec := range list {
		if ctx.Err() != nil {
			break
		}
		logger := i.getLogger(rec.VacancyID, rec.ID)
		if rec.Vacancy == nil {
			logger.Warn("у кандидата не найдена вакансия")
			continue
		}
		analysis := i.analyze(ctx, *rec.Vacancy, rec.Answers, logger)
		err = i.candidateStore.UpdateAnalysis(rec.ID, analysis)
		if errors.Is(err, candidatestore.ErrAlreadyAnalyzed) {
			logger.Info("анализ кандидата уже сохранен, повтор не нужен")
			continue
		}
		if err != nil {
			logger.WithError(err).Error("ошибка сохранения анализа кандидата")
			continue
		}
		processed++
	}
	return processed, nil
}

// analyze при ошибке ИИ возвращает резервный анализ, вид ошибки только логируется
func (i impl) analyze(ctx context.Context, vacancy dbmodels.Vacancy, answers map[string]string, logger *log.Entry) dbmodels.Analysis {
	pairs := gpthandler.BuildQAPairs(vacancy.Questions, answers)
	analysis, err := i.gpt.AnalyzeAnswers(ctx, vacancy, pairs)
	if err == nil {
		return dbmodels.Analysis{
			Status:         dbmodels.AnalysisCompleted,
			AnalysisResult: *analysis,
		}
	}
	kind := gpthandler.ModelErrorUnavailable
	if mErr, ok := gpthandler.AsModelError(err); ok {
		kind = mErr.Kind
	}
	logger.
		WithField("model_error", kind).
		WithError(err).
		Warn("анализ кандидата выполнен без ИИ")
	return dbmodels.Analysis{
		Status:         dbmodels.AnalysisFallback,
		AnalysisResult: gpthandler.AnalysisFallback(vacancy.SkillNames()),
	}
}

func (i impl) GetByID(id string) (*candidateapimodels.CandidateView, error) {
	rec, err := i.candidateStore.GetByID(id)
	if err != nil {
		return nil, apperrors.Persistence(err, "ошибка получения кандидата")
	}
	if rec == nil {
		return nil, apperrors.NotFound("кандидат не найден")
	}
	view := candidateapimodels.CandidateConvert(*rec)
	return &view, nil
}

func (i impl) ListByVacancy(vacancyID string) ([]candidateapimodels.CandidateView, error) {
	if _, err := i.getVacancy(vacancyID); err != nil {
		return nil, err
	}
	list, err := i.candidateStore.ListByVacancyID(vacancyID)
	if err != nil {
		return nil, apperrors.Persistence(err, "ошибка получения списка кандидатов")
	}
	return candidateapimodels.CandidateListConvert(list), nil
}

func (i impl) ExportXLSX(vacancyID string) (buf *bytes.Buffer, fileName string, err error) {
	vacancy, err := i.getVacancy(vacancyID)
	if err != nil {
		return nil, "", err
	}
	list, err := i.candidateStore.ListByVacancyID(vacancyID)
	if err != nil {
		return nil, "", apperrors.Persistence(err, "ошибка получения списка кандидатов")
	}
	buf, err = i.exporter.ExportCandidateList(*vacancy, list)
	if err != nil {
		return nil, "", err
	}
	return buf, fmt.Sprintf("candidates_%v.xlsx", vacancyID), nil
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

// notifyHR ошибки отправки только логируются
func (i impl) notifyHR(vacancy dbmodels.Vacancy, identity candidateapimodels.Identity, result candidateapimodels.SubmitResponse) {
	if i.mailer == nil || i.cfg.HRNotifyEmail == "" {
		return
	}
	subject := fmt.Sprintf("Новый кандидат на вакансию %q", vacancy.Title)
	err := i.mailer.SendEMail(i.cfg.HRNotifyEmail, subject, buildNotifyMessage(vacancy, identity, result))
	if err != nil {
		i.getLogger(vacancy.ID, result.CandidateID).
			WithError(err).
			Warn("не удалось отправить уведомление HR")
	}
}

func buildNotifyMessage(vacancy dbmodels.Vacancy, identity candidateapimodels.Identity, result candidateapimodels.SubmitResponse) string {
	lines := []string{
		fmt.Sprintf("Вакансия: %v", vacancy.Title),
		fmt.Sprintf("Кандидат: %v <%v>", identity.Name, identity.Email),
	}
	if identity.Phone != "" {
		lines = append(lines, fmt.Sprintf("Телефон: %v", identity.Phone))
	}
	lines = append(lines,
		fmt.Sprintf("Соответствие вакансии: %v/10", result.Analysis.Fit),
		fmt.Sprintf("Рекомендация: %v", result.Analysis.Recommendation),
	)
	if result.Degraded {
		lines = append(lines, "Анализ выполнен без ИИ, требуется ручная проверка ответов.")
	}
	return strings.Join(lines, "\n")
}

// checkAnswers ответы принимаются только на вопросы этой вакансии
func checkAnswers(questions []dbmodels.Question, answers map[string]string) error {
	known := make(map[string]bool, len(questions))
	for _, question := range questions {
		known[question.ID] = true
	}
	for questionID := range answers {
		if !known[questionID] {
			return apperrors.Validationf("вопрос %v не относится к вакансии", questionID)
		}
	}
	return nil
}

func (i impl) getLogger(vacancyID, candidateID string) *log.Entry {
	return log.
		WithField("vacancy_id", vacancyID).
		WithField("candidate_id", candidateID)
}
