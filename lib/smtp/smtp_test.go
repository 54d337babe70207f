package smtp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSendEMailWithoutConfig(t *testing.T) {
	client := Connect("", "", "", "", false)
	require.NoError(t, client.SendEMail("hr@example.com", "тема", "текст"))
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("robot@example.com", "hr@example.com", "Новый кандидат", "Иван прошел опрос")
	require.True(t, strings.HasPrefix(msg, "From: robot@example.com\r\nTo: hr@example.com\r\n"))
	require.Contains(t, msg, "Subject: HR Quiz - Новый кандидат\r\n")
	require.Contains(t, msg, "charset=\"UTF-8\"")
	require.True(t, strings.HasSuffix(msg, "Иван прошел опрос\r\n"))
}
