package gptmodels

import (
	"time"

	dbmodels "hr-quiz-backend/models/db"
)

type AiLogView struct {
	ID          string                `json:"id"`
	CreatedAt   time.Time             `json:"created_at"`
	RequestType dbmodels.AiReqestType `json:"request_type"`
	AiName      dbmodels.AiName       `json:"ai_name"`
	Outcome     string                `json:"outcome"` // ok или вид ошибки вызова
	DurationMs  int64                 `json:"duration_ms"`
	SysPromt    string                `json:"sys_promt"`
	UserPromt   string                `json:"user_promt"`
	Answer      string                `json:"answer"`
}

func AiLogConvert(list []dbmodels.AiLog) []AiLogView {
	result := make([]AiLogView, 0, len(list))
	for _, rec := range list {
		result = append(result, AiLogView{
			ID:          rec.ID,
			CreatedAt:   rec.CreatedAt,
			RequestType: rec.ReqestType,
			AiName:      rec.AiName,
			Outcome:     rec.Outcome,
			DurationMs:  rec.DurationMs,
			SysPromt:    rec.SysPromt,
			UserPromt:   rec.UserPromt,
			Answer:      rec.Answer,
		})
	}
	return result
}
