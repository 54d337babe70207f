package candidateworker

import (
	"context"
	"time"

	candidatehandler "hr-quiz-backend/lib/candidate"
	baseworker "hr-quiz-backend/lib/utils/base-worker"
)

// StartWorker периодически дозапускает анализ кандидатов, зависших в статусе pending
func StartWorker(ctx context.Context, candidates candidatehandler.Provider, staleAfter time.Duration) {
	i := &impl{
		BaseImpl:   *baseworker.NewInstance("PendingAnalysisWorker", 30*time.Second, 5*time.Minute),
		candidates: candidates,
		staleAfter: staleAfter,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	candidates candidatehandler.Provider
	staleAfter time.Duration
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	processed, err := i.candidates.RetryPending(ctx, i.staleAfter)
	if err != nil {
		logger.WithError(err).Error("Ошибка повторного анализа кандидатов")
		return
	}
	if processed > 0 {
		logger.Infof("Выполнен повторный анализ кандидатов: %v", processed)
	}
}
