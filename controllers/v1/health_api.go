package apiv1

import (
	"context"
	"time"

	"hr-quiz-backend/controllers"
	apimodels "hr-quiz-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

// Pinger проверка доступности хранилища
type Pinger func(ctx context.Context) error

type healthApiController struct {
	controllers.BaseAPIController
	ping Pinger
}

func InitHealthApiRouters(app fiber.Router, ping Pinger) {
	controller := healthApiController{ping: ping}
	app.Get("health", controller.health)
}

// @Summary Проверка состояния сервиса
// @Tags Сервис
// @Description Проверка состояния сервиса
// @Success 200 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @router /api/v1/health [get]
func (c *healthApiController) health(ctx *fiber.Ctx) error {
	pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 3*time.Second)
	defer cancel()
	if err := c.ping(pingCtx); err != nil {
		c.GetLogger(ctx).WithError(err).Error("база данных недоступна")
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError("база данных недоступна"))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(fiber.Map{"db": "ok"}))
}
