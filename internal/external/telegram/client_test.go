package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quantum-leap/backend/pkg/logger"
)

func TestSend(t *testing.T) {
	var got sendMessageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(logger.Nop(), "test-token", "12345", WithBaseURL(server.URL))
	err := client.Send(context.Background(), "<b>hello</b>")
	require.NoError(t, err)

	assert.Equal(t, "12345", got.ChatID)
	assert.Equal(t, "<b>hello</b>", got.Text)
	assert.Equal(t, "HTML", got.ParseMode)
	assert.True(t, got.DisableWebPagePreview)
}

func TestSend_NotConfigured(t *testing.T) {
	client := NewClient(logger.Nop(), "", "")
	err := client.Send(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)

	client = NewClient(logger.Nop(), "token-only", "")
	assert.ErrorIs(t, client.Send(context.Background(), "hello"), ErrNotConfigured)
}

func TestSend_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer server.Close()

	client := NewClient(logger.Nop(), "test-token", "99999", WithBaseURL(server.URL))
	err := client.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
