package initializers

import (
	"context"
	"time"

	"hr-quiz-backend/config"
	"hr-quiz-backend/db"
	gpthandler "hr-quiz-backend/lib/gpt"
	geminiclient "hr-quiz-backend/lib/gpt/gemini-client"
	ailogstore "hr-quiz-backend/lib/gpt/store"
	yagptclient "hr-quiz-backend/lib/gpt/yagpt-client"
	dbmodels "hr-quiz-backend/models/db"

	log "github.com/sirupsen/logrus"
)

func InitGpt(ctx context.Context) gpthandler.Provider {
	client := initCompleter(ctx)
	log.
		WithField("ai", client.Name()).
		WithField("model", client.Model()).
		Info("Подключен ИИ")
	return gpthandler.NewHandler(client, ailogstore.NewInstance(db.DB), gpthandler.Options{
		Temperature: config.Conf.AI.Temperature,
		MaxTokens:   config.Conf.AI.MaxTokens,
		Timeout:     time.Duration(config.Conf.AI.TimeoutSec) * time.Second,
	})
}

func initCompleter(ctx context.Context) gpthandler.Completer {
	switch dbmodels.AiName(config.Conf.AI.Provider) {
	case dbmodels.AiGeminiType:
		client, err := geminiclient.NewClient(ctx, config.Conf.AI.Gemini.APIKey, config.Conf.AI.Gemini.Model)
		if err != nil {
			panic(err.Error())
		}
		return client
	case dbmodels.AiYaGptType, "":
		return yagptclient.NewClient(config.Conf.AI.YandexGPT.IAMToken, config.Conf.AI.YandexGPT.CatalogID, config.Conf.AI.YandexGPT.Model)
	}
	panic("неизвестный провайдер ИИ: " + config.Conf.AI.Provider)
}
