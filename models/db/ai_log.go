package dbmodels

type AiLog struct {
	BaseModel
	SysPromt   string       `comment:"System промт"`
	UserPromt  string       `comment:"User промт"`
	Answer     string       `comment:"Ответ ИИ"`
	VacancyID  string       `gorm:"type:varchar(36);index" comment:"Идентификатор вакансии"`
	ReqestType AiReqestType `gorm:"type:varchar(255)" comment:"Тип запроса к ИИ"`
	AiName     AiName       `gorm:"type:varchar(255)" comment:"Название ИИ"`
	Outcome    string       `gorm:"type:varchar(255)" comment:"Результат вызова: ok или вид ошибки"`
	DurationMs int64        `comment:"Длительность запроса"`
}

type AiName string

const (
	AiYaGptType  AiName = "yandexgpt"
	AiGeminiType AiName = "gemini"
)

type AiReqestType string

const (
	AiQuestionsType      AiReqestType = "Questions"
	AiAnalyzeAnswersType AiReqestType = "AnalyzeAnswers"
)
