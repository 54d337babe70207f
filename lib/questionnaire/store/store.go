package questionstore

import (
	dbmodels "hr-quiz-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Question) (*dbmodels.Question, error)
	BulkCreate(vacancyID string, texts []string) ([]dbmodels.Question, error)
	GetByID(id string) (*dbmodels.Question, error)
	ListByVacancyID(vacancyID string) ([]dbmodels.Question, error)
	NextOrder(vacancyID string) (int, error)
	UpdateText(id, text string) error
	Delete(id string) error
	DeleteByVacancyID(vacancyID string) error
	// Replace заменяет весь набор вопросов вакансии в одной транзакции
	Replace(vacancyID string, texts []string) ([]dbmodels.Question, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Question) (*dbmodels.Question, error) {
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) BulkCreate(vacancyID string, texts []string) ([]dbmodels.Question, error) {
	if len(texts) == 0 {
		return []dbmodels.Question{}, nil
	}
	list := make([]dbmodels.Question, 0, len(texts))
	for k, text := range texts {
		list = append(list, dbmodels.Question{
			VacancyID: vacancyID,
			Text:      text,
			Order:     k + 1,
		})
	}
	err := i.db.
		Create(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) GetByID(id string) (*dbmodels.Question, error) {
	rec := dbmodels.Question{}
	err := i.db.
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

func (i impl) ListByVacancyID(vacancyID string) ([]dbmodels.Question, error) {
	list := []dbmodels.Question{}
	err := i.db.
		Where("vacancy_id = ?", vacancyID).
		Order("sort_order asc, created_at asc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) NextOrder(vacancyID string) (int, error) {
	var maxOrder int
	err := i.db.
		Model(&dbmodels.Question{}).
		Where("vacancy_id = ?", vacancyID).
		Select("coalesce(max(sort_order), 0)").
		Scan(&maxOrder).
		Error
	if err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}

func (i impl) UpdateText(id, text string) error {
	tx := i.db.
		Model(&dbmodels.Question{}).
		Where("id = ?", id).
		Update("text", text)
	if err := tx.Error; err != nil {
		return err
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (i impl) Delete(id string) error {
	rec := dbmodels.Question{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	tx := i.db.Delete(&rec)
	if err := tx.Error; err != nil {
		return err
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (i impl) DeleteByVacancyID(vacancyID string) error {
	err := i.db.
		Where("vacancy_id = ?", vacancyID).
		Delete(&dbmodels.Question{}).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) Replace(vacancyID string, texts []string) ([]dbmodels.Question, error) {
	var list []dbmodels.Question
	err := i.db.Transaction(func(tx *gorm.DB) error {
		txStore := NewInstance(tx)
		if err := txStore.DeleteByVacancyID(vacancyID); err != nil {
			return errors.Wrap(err, "ошибка удаления текущих вопросов")
		}
		created, err := txStore.BulkCreate(vacancyID, texts)
		if err != nil {
			return errors.Wrap(err, "ошибка добавления новых вопросов")
		}
		list = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}
