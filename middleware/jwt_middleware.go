package middleware

import (
	"hr-quiz-backend/config"
	authutils "hr-quiz-backend/lib/utils/auth-utils"
	apimodels "hr-quiz-backend/models/api"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func AuthorizationRequired() fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(config.Conf.Auth.JWTSecret),
		},
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("требуется авторизация"))
		},
	})
}

// HRRoleRequired пропускает только токены с ролью HR, ставится после AuthorizationRequired
func HRRoleRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		role, _ := authutils.GetClaims(ctx)["role"].(string)
		if role != authutils.RoleHR {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
		}
		return ctx.Next()
	}
}
