package db

import (
	questionstore "hr-quiz-backend/lib/questionnaire/store"
	vacancystore "hr-quiz-backend/lib/vacancy/store"
	dbmodels "hr-quiz-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var demoQuestions = []string{
	"What is your experience with React and TypeScript?",
	"Can you describe a challenging project you worked on recently?",
	"How do you approach component design and reusability?",
	"What is your experience with state management libraries?",
	"How do you handle responsive design?",
	"How do you test your code?",
	"How do you keep up with the latest frontend technologies?",
	"What is your experience with CSS frameworks and methodologies?",
}

func InitPreload(seedDemo bool) {
	if seedDemo {
		addDemoVacancy()
	}
}

// addDemoVacancy только для пустой базы
func addDemoVacancy() {
	err := DB.Transaction(func(tx *gorm.DB) error {
		vacancyStore := vacancystore.NewInstance(tx)
		count, err := vacancyStore.Count()
		if err != nil {
			return err
		}
		if count != 0 {
			return nil
		}
		id, err := vacancyStore.Create(dbmodels.Vacancy{
			Title:        "Senior Frontend Developer",
			Description:  "We are looking for a Senior Frontend Developer to join our team.",
			Skills:       []string{"React", "TypeScript", "CSS", "JavaScript"},
			Requirements: "At least 3 years of experience with React. Strong knowledge of TypeScript.",
			Context:      "Our team is building a modern web application for the healthcare industry.",
		})
		if err != nil {
			return errors.Wrap(err, "ошибка создания вакансии")
		}
		if _, err = questionstore.NewInstance(tx).BulkCreate(id, demoQuestions); err != nil {
			return errors.Wrap(err, "ошибка создания вопросов")
		}
		log.WithField("vacancy_id", id).Info("добавлена демо-вакансия")
		return nil
	})
	if err != nil {
		log.WithError(err).Error("ошибка добавления демо-вакансии")
	}
}
