package dbmodels

import (
	"github.com/lib/pq"
)

type Vacancy struct {
	BaseModel
	Title        string         `gorm:"type:varchar(255)" json:"title"`
	Description  string         `json:"description"`
	Skills       pq.StringArray `gorm:"type:text[]" json:"skills"`
	Requirements string         `json:"requirements"`
	Context      string         `json:"context"`
	Questions    []Question     `gorm:"foreignKey:VacancyID" json:"questions,omitempty"`
}

// VacancyExt вакансия для списка, со счетчиками
type VacancyExt struct {
	Vacancy
	QuestionCount  int64 `json:"question_count"`
	CandidateCount int64 `json:"candidate_count"`
}

func (v Vacancy) SkillNames() []string {
	return []string(v.Skills)
}
