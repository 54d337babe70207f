package publicapi

import (
	"hr-quiz-backend/controllers"
	candidatehandler "hr-quiz-backend/lib/candidate"
	"hr-quiz-backend/middleware"
	apimodels "hr-quiz-backend/models/api"
	candidateapimodels "hr-quiz-backend/models/api/candidate"

	"github.com/gofiber/fiber/v2"
)

type publicQuizApiController struct {
	controllers.BaseAPIController
	candidates candidatehandler.Provider
}

func InitPublicQuizApiRouters(app fiber.Router, candidates candidatehandler.Provider, bodyLimit int64) {
	controller := publicQuizApiController{candidates: candidates}
	app.Route("public/quiz", func(router fiber.Router) {
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.getQuiz)
			idRoute.Post("", middleware.WithBodyLimit(bodyLimit), controller.submit)
		})
	})
}

// @Summary Получение опросника
// @Tags Опросник кандидата
// @Description Название, описание вакансии и вопросы опросника
// @Param   id          		path    string  true         "vacancy ID"
// @Success 200 {object} apimodels.Response{data=candidateapimodels.PublicQuiz}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/public/quiz/{id} [get]
func (c *publicQuizApiController) getQuiz(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := c.candidates.GetQuiz(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("vacancy_id", id), err, "Ошибка получения опросника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Отправка ответов
// @Tags Опросник кандидата
// @Description Сохраняет ответы кандидата и возвращает результат анализа.
// @Description Если ИИ недоступен, возвращается резервный анализ с признаком degraded.
// @Param   id          		path    string  true         "vacancy ID"
// @Param	body body	 candidateapimodels.SubmitRequest	true	"request body"
// @Success 201 {object} apimodels.Response{data=candidateapimodels.SubmitResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 413 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/public/quiz/{id} [post]
func (c *publicQuizApiController) submit(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload candidateapimodels.SubmitRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := c.candidates.Submit(ctx.UserContext(), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("vacancy_id", id), err, "Ошибка отправки ответов")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(resp))
}
