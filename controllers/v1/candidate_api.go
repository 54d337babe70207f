package apiv1

import (
	"hr-quiz-backend/controllers"
	candidatehandler "hr-quiz-backend/lib/candidate"
	"hr-quiz-backend/middleware"
	apimodels "hr-quiz-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type candidateApiController struct {
	controllers.BaseAPIController
	candidates candidatehandler.Provider
}

func InitCandidateApiRouters(app fiber.Router, candidates candidatehandler.Provider) {
	controller := candidateApiController{candidates: candidates}
	app.Route("candidates", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired(), middleware.HRRoleRequired())
		router.Get(":id", controller.get)
	})
}

// @Summary Получение по ИД
// @Tags Кандидат
// @Description Кандидат с ответами на вопросы и результатом анализа
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=candidateapimodels.CandidateView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidates/{id} [get]
func (c *candidateApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := c.candidates.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
