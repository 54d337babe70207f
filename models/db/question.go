package dbmodels

type Question struct {
	BaseModel
	VacancyID string `gorm:"type:varchar(36);index;<-:create" json:"vacancy_id"` // вакансия задается только при создании
	Text      string `json:"text"`
	Order     int    `gorm:"column:sort_order" json:"order"` // порядок отображения в анкете
}
