package middleware

import (
	"fmt"
	"strconv"

	apimodels "hr-quiz-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

// WithBodyLimit ограничивает размер тела запроса по заголовку Content-Length и фактическому телу
func WithBodyLimit(limit int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		size := int64(len(c.Body()))
		if contentLength := c.Get(fiber.HeaderContentLength); contentLength != "" {
			if declared, err := strconv.ParseInt(contentLength, 10, 64); err == nil && declared > size {
				size = declared
			}
		}
		if size > limit {
			return c.Status(fiber.StatusRequestEntityTooLarge).
				JSON(apimodels.NewError(fmt.Sprintf("размер запроса превышает допустимый: %d байт", limit)))
		}
		return c.Next()
	}
}
