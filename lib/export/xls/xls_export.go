package xlsexport

import (
	"bytes"

	gpthandler "hr-quiz-backend/lib/gpt"
	dbmodels "hr-quiz-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportCandidateList(vacancy dbmodels.Vacancy, list []dbmodels.Candidate) (*bytes.Buffer, error)
}

func NewHandler() Provider {
	return impl{}
}

type impl struct{}

var candidateHeaders = []string{"ФИО", "Email", "Телефон", "Дата прохождения", "Статус анализа", "Соответствие", "Решение", "Рекомендация"}

const summaryHeader = "Резюме анализа"

func (i impl) ExportCandidateList(vacancy dbmodels.Vacancy, list []dbmodels.Candidate) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	skills := vacancy.SkillNames()
	headers := make([]string, 0, len(candidateHeaders)+len(skills)+1)
	headers = append(headers, candidateHeaders...)
	headers = append(headers, skills...)
	headers = append(headers, summaryHeader)

	w := newSheetWriter(f, sheet)
	if err := w.writeHeader(headers); err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	for _, item := range list {
		if err := w.writeRow(candidateRow(item, skills)); err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	if err := w.styleData(len(headers)); err != nil {
		return nil, errors.Wrap(err, "ошибка оформления таблицы в xlsx")
	}
	f.SetSheetName(sheet, "Кандидаты")
	return f.WriteToBuffer()
}

func candidateRow(item dbmodels.Candidate, skills []string) []interface{} {
	values := []interface{}{
		item.Name,
		item.Email,
		item.Phone,
		item.CreatedAt.Format("02.01.2006 15:04"),
		analysisStatusTitle(item.Analysis.Status),
	}
	if item.Analysis.IsPending() {
		values = append(values, "", "", "")
	} else {
		decision := ""
		if category, ok := gpthandler.RecommendationCategoryOf(item.Analysis.Recommendation); ok {
			decision = category.Title()
		}
		values = append(values, item.Analysis.Fit, decision, item.Analysis.Recommendation)
	}
	for _, skill := range skills {
		score, ok := item.Analysis.Skills[skill]
		if !ok {
			values = append(values, "")
			continue
		}
		values = append(values, score)
	}
	return append(values, item.Analysis.Summary)
}

func analysisStatusTitle(status dbmodels.AnalysisStatus) string {
	switch status {
	case dbmodels.AnalysisCompleted:
		return "Выполнен"
	case dbmodels.AnalysisFallback:
		return "Требуется ручная проверка"
	default:
		return "В обработке"
	}
}
