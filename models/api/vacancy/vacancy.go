package vacancyapimodels

import (
	dbmodels "hr-quiz-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type VacancyData struct {
	Title        string   `json:"title"`        // Название вакансии
	Description  string   `json:"description"`  // Описание
	Skills       []string `json:"skills"`       // Ключевые навыки
	Requirements string   `json:"requirements"` // Требования
	Context      string   `json:"context"`      // Доп. контекст для генерации вопросов
}

func (v VacancyData) Validate() error {
	if strings.TrimSpace(v.Title) == "" {
		return errors.New("не указано название вакансии")
	}
	if strings.TrimSpace(v.Description) == "" {
		return errors.New("не указано описание вакансии")
	}
	if len(v.Title) > 255 {
		return errors.New("название вакансии слишком длинное")
	}
	return nil
}

// NormalizedSkills убирает пустые навыки и дубли без учета регистра
func (v VacancyData) NormalizedSkills() []string {
	result := make([]string, 0, len(v.Skills))
	seen := make(map[string]bool, len(v.Skills))
	for _, skill := range v.Skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, skill)
	}
	return result
}

func (v VacancyData) ToDB() dbmodels.Vacancy {
	return dbmodels.Vacancy{
		Title:        strings.TrimSpace(v.Title),
		Description:  strings.TrimSpace(v.Description),
		Skills:       v.NormalizedSkills(),
		Requirements: strings.TrimSpace(v.Requirements),
		Context:      strings.TrimSpace(v.Context),
	}
}

type VacancyView struct {
	ID           string         `json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Skills       []string       `json:"skills"`
	Requirements string         `json:"requirements"`
	Context      string         `json:"context"`
	Questions    []QuestionView `json:"questions,omitempty"`
}

type VacancyListItem struct {
	VacancyView
	QuestionCount  int64 `json:"question_count"`
	CandidateCount int64 `json:"candidate_count"`
}

type QuestionData struct {
	Text string `json:"text"` // Текст вопроса
}

func (q QuestionData) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return errors.New("не указан текст вопроса")
	}
	return nil
}

type QuestionView struct {
	ID        string `json:"id"`
	VacancyID string `json:"vacancy_id"`
	Text      string `json:"text"`
	Order     int    `json:"order"`
}

func VacancyConvert(rec dbmodels.Vacancy) VacancyView {
	skills := rec.SkillNames()
	if skills == nil {
		skills = []string{}
	}
	result := VacancyView{
		ID:           rec.ID,
		CreatedAt:    rec.CreatedAt,
		Title:        rec.Title,
		Description:  rec.Description,
		Skills:       skills,
		Requirements: rec.Requirements,
		Context:      rec.Context,
	}
	if len(rec.Questions) > 0 {
		result.Questions = QuestionsConvert(rec.Questions)
	}
	return result
}

func VacancyListConvert(list []dbmodels.VacancyExt) []VacancyListItem {
	result := make([]VacancyListItem, 0, len(list))
	for _, rec := range list {
		result = append(result, VacancyListItem{
			VacancyView:    VacancyConvert(rec.Vacancy),
			QuestionCount:  rec.QuestionCount,
			CandidateCount: rec.CandidateCount,
		})
	}
	return result
}

func QuestionConvert(rec dbmodels.Question) QuestionView {
	return QuestionView{
		ID:        rec.ID,
		VacancyID: rec.VacancyID,
		Text:      rec.Text,
		Order:     rec.Order,
	}
}

func QuestionsConvert(list []dbmodels.Question) []QuestionView {
	result := make([]QuestionView, 0, len(list))
	for _, rec := range list {
		result = append(result, QuestionConvert(rec))
	}
	return result
}
