package vacancystore

import (
	dbmodels "hr-quiz-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Vacancy) (id string, err error)
	GetByID(id string) (rec *dbmodels.Vacancy, err error)
	GetWithQuestions(id string) (rec *dbmodels.Vacancy, err error)
	List() (list []dbmodels.VacancyExt, err error)
	Count() (count int64, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Vacancy) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Vacancy, error) {
	rec := dbmodels.Vacancy{}
	err := i.db.
		Model(&dbmodels.Vacancy{}).
		Where("id = ?", id).
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

func (i impl) GetWithQuestions(id string) (*dbmodels.Vacancy, error) {
	rec := dbmodels.Vacancy{}
	err := i.db.
		Model(&dbmodels.Vacancy{}).
		Where("id = ?", id).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
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

func (i impl) List() (list []dbmodels.VacancyExt, err error) {
	list = []dbmodels.VacancyExt{}
	err = i.db.
		Model(&dbmodels.Vacancy{}).
		Select("vacancies.*, " +
			"(select count(*) from questions q where q.vacancy_id = vacancies.id) as question_count, " +
			"(select count(*) from candidates c where c.vacancy_id = vacancies.id) as candidate_count").
		Order("vacancies.created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Count() (count int64, err error) {
	err = i.db.
		Model(&dbmodels.Vacancy{}).
		Count(&count).
		Error
	return count, err
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.Vacancy{}).
		Where("id = ?", id).
		Updates(updMap)
	if err := tx.Error; err != nil {
		return err
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete удаляет вакансию вместе с вопросами и кандидатами
func (i impl) Delete(id string) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vacancy_id = ?", id).Delete(&dbmodels.Question{}).Error; err != nil {
			return errors.Wrap(err, "ошибка удаления вопросов вакансии")
		}
		if err := tx.Where("vacancy_id = ?", id).Delete(&dbmodels.Candidate{}).Error; err != nil {
			return errors.Wrap(err, "ошибка удаления кандидатов вакансии")
		}
		rec := dbmodels.Vacancy{
			BaseModel: dbmodels.BaseModel{ID: id},
		}
		result := tx.Delete(&rec)
		if err := result.Error; err != nil {
			return err
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
