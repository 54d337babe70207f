package candidatestore

import (
	"time"

	dbmodels "hr-quiz-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrAlreadyAnalyzed анализ кандидата уже записан, повторная запись не выполняется
var ErrAlreadyAnalyzed = errors.New("анализ кандидата уже сохранен")

type Provider interface {
	Create(rec dbmodels.Candidate) (id string, err error)
	// UpdateAnalysis записывает анализ только кандидату в статусе pending.
	// Для уже проанализированного кандидата возвращает ErrAlreadyAnalyzed.
	UpdateAnalysis(id string, analysis dbmodels.Analysis) error
	GetByID(id string) (*dbmodels.Candidate, error)
	ListByVacancyID(vacancyID string) ([]dbmodels.Candidate, error)
	DeleteByVacancyID(vacancyID string) error
	// ListPending кандидаты без завершенного анализа, созданные раньше createdBefore
	ListPending(createdBefore time.Time, limit int) ([]dbmodels.Candidate, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Candidate) (id string, err error) {
	err = i.db.
		Omit("Vacancy").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) UpdateAnalysis(id string, analysis dbmodels.Analysis) error {
	tx := i.db.
		Model(&dbmodels.Candidate{}).
		Where("id = ? AND analysis->>'status' = ?", id, dbmodels.AnalysisPending).
		Update("analysis", analysis)
	if err := tx.Error; err != nil {
		return err
	}
	if tx.RowsAffected != 0 {
		return nil
	}
	var count int64
	err := i.db.
		Model(&dbmodels.Candidate{}).
		Where("id = ?", id).
		Count(&count).
		Error
	if err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrAlreadyAnalyzed
}

func (i impl) GetByID(id string) (*dbmodels.Candidate, error) {
	rec := dbmodels.Candidate{}
	err := i.db.
		Where("id = ?", id).
		Preload("Vacancy").
		Preload("Vacancy.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, created_at asc")
		}).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListByVacancyID(vacancyID string) ([]dbmodels.Candidate, error) {
	list := []dbmodels.Candidate{}
	err := i.db.
		Where("vacancy_id = ?", vacancyID).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) DeleteByVacancyID(vacancyID string) error {
	return i.db.
		Where("vacancy_id = ?", vacancyID).
		Delete(&dbmodels.Candidate{}).
		Error
}

func (i impl) ListPending(createdBefore time.Time, limit int) ([]dbmodels.Candidate, error) {
	list := []dbmodels.Candidate{}
	err := i.db.
		Where("analysis->>'status' = ?", dbmodels.AnalysisPending).
		Where("created_at < ?", createdBefore).
		Preload("Vacancy").
		Preload("Vacancy.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, created_at asc")
		}).
		Order("created_at asc").
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
