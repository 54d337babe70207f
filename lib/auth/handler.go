package authhandler

import (
	"crypto/subtle"
	"strings"

	apperrors "hr-quiz-backend/lib/utils/app-errors"
	authutils "hr-quiz-backend/lib/utils/auth-utils"
	authapimodels "hr-quiz-backend/models/api/auth"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Login(data authapimodels.LoginRequest) (response authapimodels.JWTResponse, err error)
}

// Account учетная запись HR из конфигурации
type Account struct {
	Name     string
	Email    string
	Password string
}

func NewHandler(account Account) Provider {
	return impl{
		account: account,
	}
}

type impl struct {
	account Account
}

func (i impl) Login(data authapimodels.LoginRequest) (response authapimodels.JWTResponse, err error) {
	if err = data.Validate(); err != nil {
		return authapimodels.JWTResponse{}, apperrors.Validation(err.Error())
	}
	email := strings.ToLower(strings.TrimSpace(data.Email))
	logger := log.WithField("email", email)
	emailOk := subtle.ConstantTimeCompare([]byte(email), []byte(strings.ToLower(i.account.Email))) == 1
	passwordOk := subtle.ConstantTimeCompare([]byte(data.Password), []byte(i.account.Password)) == 1
	if !emailOk || !passwordOk {
		logger.Debug("пользователь не прошел проверку пароля")
		return authapimodels.JWTResponse{}, apperrors.Unauthorized("неверная почта или пароль")
	}
	user := authapimodels.UserView{
		ID:    email,
		Name:  i.account.Name,
		Email: email,
		Role:  authutils.RoleHR,
	}
	token, err := authutils.GetToken(user.ID, user.Name, user.Email)
	if err != nil {
		logger.WithError(err).Error("ошибка генерации JWT")
		return authapimodels.JWTResponse{}, err
	}
	logger.Info("выполнен вход")
	return authapimodels.JWTResponse{
		Token: token,
		User:  user,
	}, nil
}
