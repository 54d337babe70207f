package apiv1

import (
	"hr-quiz-backend/controllers"
	candidatehandler "hr-quiz-backend/lib/candidate"
	ailogstore "hr-quiz-backend/lib/gpt/store"
	questionnairehandler "hr-quiz-backend/lib/questionnaire"
	vacancyhandler "hr-quiz-backend/lib/vacancy"
	"hr-quiz-backend/middleware"
	apimodels "hr-quiz-backend/models/api"
	gptmodels "hr-quiz-backend/models/api/gpt"
	vacancyapimodels "hr-quiz-backend/models/api/vacancy"

	"github.com/gofiber/fiber/v2"
)

const aiLogListLimit = 50

type vacancyApiController struct {
	controllers.BaseAPIController
	vacancies     vacancyhandler.Provider
	questionnaire questionnairehandler.Provider
	candidates    candidatehandler.Provider
	aiLogs        ailogstore.Provider
}

func InitVacancyApiRouters(app fiber.Router, vacancies vacancyhandler.Provider, questionnaire questionnairehandler.Provider,
	candidates candidatehandler.Provider, aiLogs ailogstore.Provider) {
	controller := vacancyApiController{
		vacancies:     vacancies,
		questionnaire: questionnaire,
		candidates:    candidates,
		aiLogs:        aiLogs,
	}
	app.Route("vacancies", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired(), middleware.HRRoleRequired())

		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Route("questions/:id", func(questionRoute fiber.Router) {
			questionRoute.Put("", controller.updateQuestion)
			questionRoute.Delete("", controller.deleteQuestion)
		})
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Post("generate-quiz", controller.generateQuiz)
			idRoute.Post("default-quiz", controller.defaultQuiz)
			idRoute.Get("questions", controller.questionList)
			idRoute.Post("questions", controller.addQuestion)
			idRoute.Get("candidates", controller.candidateList)
			idRoute.Get("candidates/export", controller.candidateExport)
			idRoute.Get("ai-logs", controller.aiLogList)
		})
	})
}

// @Summary Список вакансий
// @Tags Вакансия
// @Description Список вакансий с количеством вопросов и кандидатов
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]vacancyapimodels.VacancyListItem}
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/vacancies [get]
func (c *vacancyApiController) list(ctx *fiber.Ctx) error {
	list, rowCount, err := c.vacancies.List()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка вакансий")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Создание
// @Tags Вакансия
// @Description Создание
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 vacancyapimodels.VacancyData	true	"request body"
// @Success 201 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/vacancies [post]
func (c *vacancyApiController) create(ctx *fiber.Ctx) error {
	var payload vacancyapimodels.VacancyData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := c.vacancies.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания вакансии")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(id))
}

// @Summary Получение по ИД
// @Tags Вакансия
// @Description Вакансия вместе с опросником
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=vacancyapimodels.VacancyView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/vacancies/{id} [get]
func (c *vacancyApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	item, err := c.vacancies.GetByID(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения вакансии")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(item))
}

// @Summary Обновление
// @Tags Вакансия
// @Description Обновление
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 vacancyapimodels.VacancyData	true	"request body"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/vacancies/{id} [put]
func (c *vacancyApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload vacancyapimodels.VacancyData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = c.vacancies.Update(id, payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения вакансии")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление
// @Tags Вакансия
// @Description Удаление вакансии вместе с опросником и кандидатами
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/vacancies/{id} [delete]
func (c *vacancyApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = c.vacancies.Delete(id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления вакансии")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Сгенерировать опросник
// @Tags Опросник
// @Description Заменяет опросник вакансии вопросами, сгенерированными ИИ. При ошибке ИИ опросник не меняется.
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "vacancy ID"
// @Success 200 {object} apimodels.Response{data=[]vacancyapimodels.QuestionView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @Failure 504 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/vacancies/{id}/generate-quiz [post]
func (c *vacancyApiController) generateQuiz(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := c.questionnaire.Regenerate(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка генерации опросника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(vacancyapimodels.QuestionsConvert(list)))
}

// @Summary Типовой опросник
// @Tags Опросник
// @Description Заменяет опросник вакансии типовым набором вопросов
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "vacancy ID"
// @Success 200 {object} apimodels.Response{data=[]vacancyapimodels.QuestionView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/vacancies/{id}/default-quiz [post]
func (c *vacancyApiController) defaultQuiz(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := c.questionnaire.ResetToDefault(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка установки типового опросника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(vacancyapimodels.QuestionsConvert(list)))
}

// @Summary Вопросы вакансии
// @Tags Опросник
// @Description Вопросы вакансии в порядке опросника
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "vacancy ID"
// @Success 200 {object} apimodels.Response{data=[]vacancyapimodels.QuestionView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/vacancies/{id}/questions [get]
func (c *vacancyApiController) questionList(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := c.questionnaire.ListQuestions(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения вопросов вакансии")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(vacancyapimodels.QuestionsConvert(list)))
}

// @Summary Добавить вопрос
// @Tags Опросник
// @Description Добавляет вопрос в конец опросника
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "vacancy ID"
// @Param	body body	 vacancyapimodels.QuestionData	true	"request body"
// @Success 201 {object} apimodels.Response{data=vacancyapimodels.QuestionView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/vacancies/{id}/questions [post]
func (c *vacancyApiController) addQuestion(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload vacancyapimodels.QuestionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := c.questionnaire.AddQuestion(id, payload.Text)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка добавления вопроса")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewResponse(vacancyapimodels.QuestionConvert(*rec)))
}

// @Summary Изменить вопрос
// @Tags Опросник
// @Description Изменить текст вопроса
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "question ID"
// @Param	body body	 vacancyapimodels.QuestionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=vacancyapimodels.QuestionView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/vacancies/questions/{id} [put]
func (c *vacancyApiController) updateQuestion(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload vacancyapimodels.QuestionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := c.questionnaire.UpdateQuestion(id, payload.Text)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения вопроса")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(vacancyapimodels.QuestionConvert(*rec)))
}

// @Summary Удалить вопрос
// @Tags Опросник
// @Description Удалить вопрос
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "question ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/vacancies/questions/{id} [delete]
func (c *vacancyApiController) deleteQuestion(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = c.questionnaire.DeleteQuestion(id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления вопроса")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Кандидаты вакансии
// @Tags Кандидат
// @Description Кандидаты вакансии с результатами анализа, новые первыми
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "vacancy ID"
// @Success 200 {object} apimodels.Response{data=[]candidateapimodels.CandidateView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/vacancies/{id}/candidates [get]
func (c *vacancyApiController) candidateList(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := c.candidates.ListByVacancy(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка кандидатов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, int64(len(list))))
}

// @Summary Выгрузка кандидатов в Excel
// @Tags Кандидат
// @Description Выгрузка кандидатов вакансии в xlsx
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "vacancy ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/vacancies/{id}/candidates/export [get]
func (c *vacancyApiController) candidateExport(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	buf, fileName, err := c.candidates.ExportXLSX(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки кандидатов")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, "attachment; filename="+fileName)
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

// @Summary Журнал запросов к ИИ
// @Tags Опросник
// @Description Последние запросы к ИИ по вакансии
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "vacancy ID"
// @Success 200 {object} apimodels.Response{data=[]gptmodels.AiLogView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/vacancies/{id}/ai-logs [get]
func (c *vacancyApiController) aiLogList(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := c.aiLogs.ListByVacancyID(id, aiLogListLimit)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения журнала запросов к ИИ")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(gptmodels.AiLogConvert(list)))
}
