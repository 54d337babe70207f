package fiberlog

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Config struct {
	// Logger если не задан, пишет стандартный логгер logrus
	Logger *logrus.Logger
	Tags   []string
	// Skip запросы, для которых запись в лог не нужна (проверки доступности и т.п.)
	Skip   func(c *fiber.Ctx) bool
}

var ConfigDefault = Config{
	Tags: []string{
		TagRequestID,
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
	},
}
