// Package apperrors типизированные ошибки бизнес-логики.
// Контроллеры по виду ошибки выбирают http статус ответа.
package apperrors

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindNotFound    Kind = "not_found"
	KindValidation  Kind = "validation"
	KindPersistence Kind = "persistence"
	KindConflict    Kind = "conflict"

	KindUnauthorized Kind = "unauthorized"
)

type Error struct {
	kind    Kind
	message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Cause() error {
	return e.cause
}

func (e *Error) Kind() Kind {
	return e.kind
}

// Message текст ошибки без причины, для ответа клиенту
func (e *Error) Message() string {
	return e.message
}

func NotFound(message string) error {
	return &Error{kind: KindNotFound, message: message}
}

func Validation(message string) error {
	return &Error{kind: KindValidation, message: message}
}

func Validationf(format string, args ...interface{}) error {
	return &Error{kind: KindValidation, message: fmt.Sprintf(format, args...)}
}

func Conflict(message string) error {
	return &Error{kind: KindConflict, message: message}
}

func Unauthorized(message string) error {
	return &Error{kind: KindUnauthorized, message: message}
}

// Persistence ошибка хранилища, всегда прерывает текущую операцию
func Persistence(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{kind: KindPersistence, message: message, cause: err}
}

func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind, true
	}
	return "", false
}

func IsNotFound(err error) bool {
	return is(err, KindNotFound)
}

func IsValidation(err error) bool {
	return is(err, KindValidation)
}

func IsPersistence(err error) bool {
	return is(err, KindPersistence)
}

func IsConflict(err error) bool {
	return is(err, KindConflict)
}

func IsUnauthorized(err error) bool {
	return is(err, KindUnauthorized)
}

func is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
