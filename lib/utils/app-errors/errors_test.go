package apperrors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestKinds(t *testing.T) {
	t.Run("вид ошибки сохраняется при оборачивании", func(t *testing.T) {
		err := errors.Wrap(NotFound("вакансия не найдена"), "контекст")
		require.True(t, IsNotFound(err))
		require.False(t, IsValidation(err))
		kind, ok := KindOf(err)
		require.True(t, ok)
		require.Equal(t, KindNotFound, kind)
	})
	t.Run("обычная ошибка без вида", func(t *testing.T) {
		_, ok := KindOf(errors.New("ошибка"))
		require.False(t, ok)
		require.False(t, IsConflict(nil))
	})
	t.Run("ошибка хранилища хранит причину", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Persistence(cause, "ошибка получения вакансии")
		require.True(t, IsPersistence(err))
		require.ErrorIs(t, err, cause)
		require.Equal(t, "ошибка получения вакансии: connection refused", err.Error())

		var appErr *Error
		require.True(t, errors.As(err, &appErr))
		require.Equal(t, "ошибка получения вакансии", appErr.Message())
	})
	t.Run("ошибка хранилища без причины", func(t *testing.T) {
		require.NoError(t, Persistence(nil, "ошибка"))
	})
	t.Run("форматированная ошибка валидации", func(t *testing.T) {
		err := Validationf("вопрос %v не относится к вакансии", "q1")
		require.True(t, IsValidation(err))
		require.EqualError(t, err, "вопрос q1 не относится к вакансии")
	})
	t.Run("остальные виды", func(t *testing.T) {
		require.True(t, IsConflict(Conflict("занято")))
		require.True(t, IsUnauthorized(Unauthorized("неверный пароль")))
	})
}
