package gpthandler

import (
	"context"
	"net"

	"github.com/pkg/errors"
)

type ModelErrorKind string

const (
	ModelErrorTimeout        ModelErrorKind = "timeout"
	ModelErrorEmptyResponse  ModelErrorKind = "empty_response"
	ModelErrorMalformedJSON  ModelErrorKind = "malformed_json"
	ModelErrorSchemaMismatch ModelErrorKind = "schema_mismatch"
	ModelErrorUnavailable    ModelErrorKind = "unavailable" // сервис ответил ошибкой или недоступен
)

// ModelError ошибка вызова модели. Любой сбой вызова приводится к одному из видов.
type ModelError struct {
	Kind    ModelErrorKind
	Message string
	Err     error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

func newModelError(kind ModelErrorKind, err error, message string) *ModelError {
	return &ModelError{Kind: kind, Message: message, Err: err}
}

func AsModelError(err error) (*ModelError, bool) {
	var mErr *ModelError
	if errors.As(err, &mErr) {
		return mErr, true
	}
	return nil, false
}

func IsModelError(err error, kind ModelErrorKind) bool {
	mErr, ok := AsModelError(err)
	return ok && mErr.Kind == kind
}

func classifyTransportError(err error) *ModelError {
	if errors.Is(err, context.DeadlineExceeded) {
		return newModelError(ModelErrorTimeout, err, "превышено время ожидания ответа ИИ")
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newModelError(ModelErrorTimeout, err, "превышено время ожидания ответа ИИ")
	}
	return newModelError(ModelErrorUnavailable, err, "ошибка при отправке запроса в ИИ")
}
