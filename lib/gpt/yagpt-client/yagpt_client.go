package yagptclient

import (
	"context"
	"fmt"
	gpthandler "hr-quiz-backend/lib/gpt"
	dbmodels "hr-quiz-backend/models/db"

	"github.com/pkg/errors"
	yandexgptclient "github.com/sheeiavellie/go-yandexgpt"
)

const jsonOutputInstruction = "Отвечай строго одним JSON-объектом без пояснений и без разметки markdown."

type impl struct {
	client    *yandexgptclient.YandexGPTClient
	catalogID string
	model     string
}

func NewClient(token, catalog, model string) gpthandler.Completer {
	return impl{
		client:    yandexgptclient.NewYandexGPTClientWithIAMToken(token),
		catalogID: catalog,
		model:     model,
	}
}

func (i impl) Name() dbmodels.AiName {
	return dbmodels.AiYaGptType
}

func (i impl) Model() string {
	if i.model == "" {
		return "yandexgpt-lite"
	}
	return i.model
}

func (i impl) Complete(ctx context.Context, req gpthandler.CompletionRequest) (string, error) {
	if i.catalogID == "" {
		return "", errors.New("не указан каталог YandexGPT")
	}
	sysPromt := req.System
	if req.JSONOutput {
		sysPromt = sysPromt + "\n" + jsonOutputInstruction
	}
	options := yandexgptclient.YandexGPTCompletionOptions{
		Stream: false,
	}
	setNumber(&options.Temperature, req.Temperature)
	setNumber(&options.MaxTokens, req.MaxTokens)

	request := yandexgptclient.YandexGPTRequest{
		ModelURI:          i.modelURI(),
		CompletionOptions: options,
		Messages: []yandexgptclient.YandexGPTMessage{
			{
				Role: yandexgptclient.YandexGPTMessageRoleSystem,
				Text: sysPromt,
			},
			{
				Role: yandexgptclient.YandexGPTMessageRoleUser,
				Text: req.User,
			},
		},
	}

	response, err := i.client.CreateRequest(ctx, request)
	if err != nil {
		return "", errors.Wrap(err, "Ошибка при отправке запроса на генерацию в API YandexGPT")
	}
	if len(response.Result.Alternatives) == 0 {
		return "", nil
	}
	return response.Result.Alternatives[0].Message.Text, nil
}

func (i impl) modelURI() string {
	if i.model == "" {
		return yandexgptclient.MakeModelURI(i.catalogID, yandexgptclient.YandexGPTModelLite)
	}
	return fmt.Sprintf("gpt://%s/%s", i.catalogID, i.model)
}

// setNumber числовые поля опций в клиенте объявлены конкретными типами (float32/int и тп)
func setNumber[T ~float32 | ~float64 | ~int | ~int32 | ~int64, V float64 | int](dst *T, value V) {
	*dst = T(value)
}
