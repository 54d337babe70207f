package initializers

import (
	"hr-quiz-backend/config"
	"hr-quiz-backend/lib/smtp"
)

func InitSmtp() smtp.Provider {
	return smtp.Connect(config.Conf.Smtp.User, config.Conf.Smtp.Password,
		config.Conf.Smtp.Host, config.Conf.Smtp.Port, *config.Conf.Smtp.TLSEnabled)
}
