package initializers

import (
	"context"
	"time"

	"hr-quiz-backend/config"
	"hr-quiz-backend/db"
	"hr-quiz-backend/fiberlog"
	authhandler "hr-quiz-backend/lib/auth"
	candidatehandler "hr-quiz-backend/lib/candidate"
	candidatestore "hr-quiz-backend/lib/candidate/store"
	candidateworker "hr-quiz-backend/lib/candidate/worker"
	xlsexport "hr-quiz-backend/lib/export/xls"
	ailogstore "hr-quiz-backend/lib/gpt/store"
	questionnairehandler "hr-quiz-backend/lib/questionnaire"
	questionstore "hr-quiz-backend/lib/questionnaire/store"
	"hr-quiz-backend/lib/utils/lock"
	vacancyhandler "hr-quiz-backend/lib/vacancy"
	vacancystore "hr-quiz-backend/lib/vacancy/store"
)

var LoggerConfig *fiberlog.Config

// Services обработчики, которые подключаются к роутерам
type Services struct {
	Auth          authhandler.Provider
	Vacancies     vacancyhandler.Provider
	Questionnaire questionnairehandler.Provider
	Candidates    candidatehandler.Provider
	AiLogs        ailogstore.Provider
}

func InitAllServices(ctx context.Context) *Services {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	mailer := InitSmtp()
	gpt := InitGpt(ctx)

	vacancyStore := vacancystore.NewInstance(db.DB)
	services := &Services{
		Auth: authhandler.NewHandler(authhandler.Account{
			Name:     config.Conf.Auth.HRName,
			Email:    config.Conf.Auth.HREmail,
			Password: config.Conf.Auth.HRPassword,
		}),
		Vacancies: vacancyhandler.NewHandler(vacancyStore),
		Questionnaire: questionnairehandler.NewHandler(vacancyStore, questionstore.NewInstance(db.DB), gpt,
			lock.New(), time.Duration(config.Conf.AI.RegenLockWaitSec)*time.Second),
		Candidates: candidatehandler.NewHandler(vacancyStore, candidatestore.NewInstance(db.DB), gpt, mailer,
			xlsexport.NewHandler(), candidatehandler.Config{HRNotifyEmail: config.Conf.Smtp.HRNotify}),
		AiLogs: ailogstore.NewInstance(db.DB),
	}
	go initWorkers(ctx, services)
	return services
}

func initWorkers(ctx context.Context, services *Services) {
	// Задача повторного анализа кандидатов, оставшихся без результата после сбоя
	candidateworker.StartWorker(ctx, services.Candidates, time.Duration(config.Conf.AI.PendingStaleMin)*time.Minute)
}
