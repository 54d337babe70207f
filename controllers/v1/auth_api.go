package apiv1

import (
	"hr-quiz-backend/controllers"
	authhandler "hr-quiz-backend/lib/auth"
	authutils "hr-quiz-backend/lib/utils/auth-utils"
	"hr-quiz-backend/middleware"
	apimodels "hr-quiz-backend/models/api"
	authapimodels "hr-quiz-backend/models/api/auth"

	"github.com/gofiber/fiber/v2"
)

type authApiController struct {
	controllers.BaseAPIController
	auth authhandler.Provider
}

func InitAuthApiRouters(app fiber.Router, auth authhandler.Provider) {
	controller := authApiController{auth: auth}
	app.Route("auth", func(router fiber.Router) {
		router.Post("login", controller.login)
		router.Get("me", middleware.AuthorizationRequired(), controller.me)
	})
}

// @Summary Аутентификация HR
// @Tags Аутентификация
// @Description Аутентификация HR
// @Param	body				body		authapimodels.LoginRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.JWTResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/login [post]
func (c *authApiController) login(ctx *fiber.Ctx) error {
	var payload authapimodels.LoginRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := c.auth.Login(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка входа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Текущий пользователь
// @Tags Аутентификация
// @Description Текущий пользователь
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=authapimodels.UserView}
// @Failure 401 {object} apimodels.Response
// @router /api/v1/auth/me [get]
func (c *authApiController) me(ctx *fiber.Ctx) error {
	claims := authutils.GetClaims(ctx)
	user := authapimodels.UserView{}
	user.ID, _ = claims["sub"].(string)
	user.Name, _ = claims["name"].(string)
	user.Email, _ = claims["email"].(string)
	user.Role, _ = claims["role"].(string)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(user))
}
