package dbmodels

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

type Candidate struct {
	BaseModel
	VacancyID string           `gorm:"type:varchar(36);index;<-:create" json:"vacancy_id"`
	Vacancy   *Vacancy         `gorm:"foreignKey:VacancyID" json:"vacancy,omitempty"`
	Name      string           `gorm:"type:varchar(255)" json:"name"`
	Email     string           `gorm:"type:varchar(255)" json:"email"`
	Phone     string           `gorm:"type:varchar(255)" json:"phone"`
	Answers   CandidateAnswers `gorm:"type:jsonb" json:"answers"`
	Analysis  Analysis         `gorm:"type:jsonb" json:"analysis"`
}

// CandidateAnswers ответы кандидата: ид вопроса -> текст ответа
type CandidateAnswers map[string]string

func (j CandidateAnswers) Value() (driver.Value, error) {
	if j == nil {
		j = CandidateAnswers{}
	}
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *CandidateAnswers) Scan(value interface{}) error {
	data, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, j)
}

type AnalysisStatus string

const (
	AnalysisPending   AnalysisStatus = "pending"   // кандидат сохранен, анализ еще не записан
	AnalysisCompleted AnalysisStatus = "completed" // анализ выполнен моделью
	AnalysisFallback  AnalysisStatus = "fallback"  // модель недоступна, записан анализ по умолчанию
)

// Analysis результат анализа ответов кандидата.
// Status всегда заполнен, для pending остальные поля пустые.
type Analysis struct {
	Status AnalysisStatus `json:"status"`
	AnalysisResult
}

type AnalysisResult struct {
	Summary        string         `json:"summary"`
	Skills         map[string]int `json:"skills"`
	Fit            int            `json:"fit"`
	Recommendation string         `json:"recommendation"`
}

func PendingAnalysis() Analysis {
	return Analysis{Status: AnalysisPending}
}

func (j Analysis) IsPending() bool {
	return j.Status == AnalysisPending || j.Status == ""
}

func (j Analysis) Value() (driver.Value, error) {
	if j.Status == "" {
		j.Status = AnalysisPending
	}
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *Analysis) Scan(value interface{}) error {
	data, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(data, j); err != nil {
		return err
	}
	if j.Status == "" {
		j.Status = AnalysisPending
	}
	return nil
}

func jsonbBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case nil:
		return []byte("{}"), nil
	}
	return nil, errors.Errorf("неподдерживаемый тип значения jsonb: %T", value)
}
