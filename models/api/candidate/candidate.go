package candidateapimodels

import (
	"strings"
	"time"

	dbmodels "hr-quiz-backend/models/db"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Identity struct {
	Name  string `json:"name" validate:"required,max=255"`        // ФИО кандидата
	Email string `json:"email" validate:"required,email,max=255"` // Почта
	Phone string `json:"phone" validate:"omitempty,max=255"`      // Телефон, необязательно
}

func (r Identity) Normalize() Identity {
	return Identity{
		Name:  strings.TrimSpace(r.Name),
		Email: strings.TrimSpace(r.Email),
		Phone: strings.TrimSpace(r.Phone),
	}
}

func (r Identity) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}
	return identityFieldError(fieldErrors[0])
}

func identityFieldError(fe validator.FieldError) error {
	switch fe.Field() {
	case "Name":
		if fe.Tag() == "required" {
			return errors.New("не указано имя кандидата")
		}
		return errors.New("имя кандидата слишком длинное")
	case "Email":
		if fe.Tag() == "required" {
			return errors.New("не указана почта кандидата")
		}
		return errors.New("почта имеет неправильный формат")
	case "Phone":
		return errors.New("телефон кандидата слишком длинный")
	}
	return errors.Errorf("поле %v заполнено некорректно", fe.Field())
}

type SubmitRequest struct {
	Identity
	Answers map[string]string `json:"answers"` // ид вопроса -> ответ
}

type SubmitResponse struct {
	CandidateID string            `json:"candidate_id"`
	Analysis    dbmodels.Analysis `json:"analysis"`
	Degraded    bool              `json:"degraded"` // анализ выполнен без ИИ
}

type AnswerView struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

type CandidateView struct {
	ID           string            `json:"id"`
	VacancyID    string            `json:"vacancy_id"`
	VacancyTitle string            `json:"vacancy_title,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	Analysis     dbmodels.Analysis `json:"analysis"`
	Answers      []AnswerView      `json:"answers,omitempty"`
}

// CandidateConvert ответы раскладываются по вопросам вакансии, если они загружены
func CandidateConvert(rec dbmodels.Candidate) CandidateView {
	result := CandidateView{
		ID:        rec.ID,
		VacancyID: rec.VacancyID,
		CreatedAt: rec.CreatedAt,
		Name:      rec.Name,
		Email:     rec.Email,
		Phone:     rec.Phone,
		Analysis:  rec.Analysis,
	}
	if rec.Vacancy == nil {
		return result
	}
	result.VacancyTitle = rec.Vacancy.Title
	result.Answers = make([]AnswerView, 0, len(rec.Vacancy.Questions))
	for _, question := range rec.Vacancy.Questions {
		result.Answers = append(result.Answers, AnswerView{
			QuestionID: question.ID,
			Question:   question.Text,
			Answer:     rec.Answers[question.ID],
		})
	}
	return result
}

func CandidateListConvert(list []dbmodels.Candidate) []CandidateView {
	result := make([]CandidateView, 0, len(list))
	for _, rec := range list {
		result = append(result, CandidateConvert(rec))
	}
	return result
}

type PublicQuestion struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// PublicQuiz опросник для кандидата, без служебных данных вакансии
type PublicQuiz struct {
	VacancyID   string           `json:"vacancy_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Questions   []PublicQuestion `json:"questions"`
}

func PublicQuizConvert(rec dbmodels.Vacancy) PublicQuiz {
	result := PublicQuiz{
		VacancyID:   rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Questions:   make([]PublicQuestion, 0, len(rec.Questions)),
	}
	for _, question := range rec.Questions {
		result.Questions = append(result.Questions, PublicQuestion{
			ID:    question.ID,
			Text:  question.Text,
			Order: question.Order,
		})
	}
	return result
}
