package geminiclient

import (
	"context"
	"strings"

	gpthandler "hr-quiz-backend/lib/gpt"
	dbmodels "hr-quiz-backend/models/db"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

type impl struct {
	client    *genai.Client
	modelName string
}

// NewClient клиент Gemini API
func NewClient(ctx context.Context, apiKey, model string) (gpthandler.Completer, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("не указан ключ Gemini API")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка создания клиента Gemini")
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	return &impl{client: client, modelName: model}, nil
}

func (i *impl) Name() dbmodels.AiName {
	return dbmodels.AiGeminiType
}

func (i *impl) Model() string {
	return i.modelName
}

func (i *impl) Complete(ctx context.Context, req gpthandler.CompletionRequest) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if strings.TrimSpace(req.System) != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.JSONOutput {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := i.client.Models.GenerateContent(ctx, i.modelName, genai.Text(req.User), cfg)
	if err != nil {
		return "", errors.Wrap(err, "ошибка запроса генерации в Gemini API")
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return "", nil
	}
	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		builder.WriteString(part.Text)
	}
	return strings.TrimSpace(builder.String()), nil
}
