package vacancyhandler

import (
	apperrors "hr-quiz-backend/lib/utils/app-errors"
	vacancystore "hr-quiz-backend/lib/vacancy/store"
	vacancyapimodels "hr-quiz-backend/models/api/vacancy"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(data vacancyapimodels.VacancyData) (id string, err error)
	GetByID(id string) (item vacancyapimodels.VacancyView, err error)
	Update(id string, data vacancyapimodels.VacancyData) error
	Delete(id string) error
	List() (list []vacancyapimodels.VacancyListItem, rowCount int64, err error)
}

func NewHandler(store vacancystore.Provider) Provider {
	return impl{
		store: store,
	}
}

type impl struct {
	store vacancystore.Provider
}

func (i impl) Create(data vacancyapimodels.VacancyData) (id string, err error) {
	if err = data.Validate(); err != nil {
		return "", apperrors.Validation(err.Error())
	}
	id, err = i.store.Create(data.ToDB())
	if err != nil {
		return "", apperrors.Persistence(err, "ошибка создания вакансии")
	}
	i.getLogger(id).Info("Создана вакансия")
	return id, nil
}

func (i impl) GetByID(id string) (item vacancyapimodels.VacancyView, err error) {
	rec, err := i.store.GetWithQuestions(id)
	if err != nil {
		return vacancyapimodels.VacancyView{}, apperrors.Persistence(err, "ошибка получения вакансии")
	}
	if rec == nil {
		return vacancyapimodels.VacancyView{}, apperrors.NotFound("вакансия не найдена")
	}
	return vacancyapimodels.VacancyConvert(*rec), nil
}

func (i impl) Update(id string, data vacancyapimodels.VacancyData) error {
	if err := data.Validate(); err != nil {
		return apperrors.Validation(err.Error())
	}
	rec := data.ToDB()
	updMap := map[string]interface{}{
		"Title":        rec.Title,
		"Description":  rec.Description,
		"Skills":       pq.StringArray(rec.Skills),
		"Requirements": rec.Requirements,
		"Context":      rec.Context,
	}
	err := i.store.Update(id, updMap)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("вакансия не найдена")
		}
		return apperrors.Persistence(err, "ошибка обновления вакансии")
	}
	i.getLogger(id).Info("Обновлена вакансия")
	return nil
}

func (i impl) Delete(id string) error {
	err := i.store.Delete(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("вакансия не найдена")
		}
		return apperrors.Persistence(err, "ошибка удаления вакансии")
	}
	i.getLogger(id).Info("Удалена вакансия")
	return nil
}

func (i impl) List() (list []vacancyapimodels.VacancyListItem, rowCount int64, err error) {
	rowCount, err = i.store.Count()
	if err != nil {
		return nil, 0, apperrors.Persistence(err, "ошибка получения количества вакансий")
	}
	recs, err := i.store.List()
	if err != nil {
		return nil, 0, apperrors.Persistence(err, "ошибка получения списка вакансий")
	}
	return vacancyapimodels.VacancyListConvert(recs), rowCount, nil
}

func (i impl) getLogger(vacancyID string) *log.Entry {
	return log.WithField("vacancy_id", vacancyID)
}
