package controllers

import (
	"strings"

	"hr-quiz-backend/fiberlog"
	gpthandler "hr-quiz-backend/lib/gpt"
	apperrors "hr-quiz-backend/lib/utils/app-errors"
	authutils "hr-quiz-backend/lib/utils/auth-utils"
	apimodels "hr-quiz-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		c.GetLogger(ctx).WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetIDByKey(ctx, "id")
}

// GetIDByKey ид из пути запроса, ожидается uuid
func (c *BaseAPIController) GetIDByKey(ctx *fiber.Ctx, key string) (string, error) {
	id := strings.TrimSpace(ctx.Params(key))
	if id == "" {
		return "", errors.Errorf("не указан параметр %v", key)
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.Errorf("параметр %v имеет неверный формат", key)
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	logger := log.
		WithField("request_id", fiberlog.RequestID(ctx)).
		WithField("path", ctx.Path())
	if email := authutils.GetUserEmail(ctx); email != "" {
		logger = logger.WithField("user", email)
	}
	return logger
}

// SendError ответ по виду ошибки: ошибки клиента отдаются с их текстом, остальные с msg
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	if mErr, ok := gpthandler.AsModelError(err); ok {
		logger.
			WithField("model_error", mErr.Kind).
			WithError(err).
			Warn(msg)
		status := fiber.StatusBadGateway
		if mErr.Kind == gpthandler.ModelErrorTimeout {
			status = fiber.StatusGatewayTimeout
		}
		return ctx.Status(status).JSON(apimodels.NewError(msg + ": " + mErr.Message))
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind() {
		case apperrors.KindValidation:
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(appErr.Message()))
		case apperrors.KindNotFound:
			return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(appErr.Message()))
		case apperrors.KindConflict:
			logger.WithError(err).Warn(msg)
			return ctx.Status(fiber.StatusConflict).JSON(apimodels.NewError(appErr.Message()))
		case apperrors.KindUnauthorized:
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(appErr.Message()))
		}
	}
	logger.WithError(err).Error(msg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(msg))
}
