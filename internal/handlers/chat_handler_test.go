package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"omnisnt_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessageEndpoint(t *testing.T) {
	env := newHandlerTestEnv(t)
	token := env.createUser(t, "alice@example.com", models.UserRoleUser)

	w := env.doJSON(http.MethodPost, "/api/v1/chat/messages", token, map[string]string{
		"message":  "hello",
		"language": "en",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Reply    string `json:"reply"`
		ThreadID string `json:"thread_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "model reply", resp.Reply)
	assert.NotEmpty(t, resp.ThreadID)
}

func TestSendMessageEndpointRequiresAuth(t *testing.T) {
	env := newHandlerTestEnv(t)

	w := env.doJSON(http.MethodPost, "/api/v1/chat/messages", "", map[string]string{
		"message":  "hello",
		"language": "en",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSendMessageEndpointBadLanguage(t *testing.T) {
	env := newHandlerTestEnv(t)
	token := env.createUser(t, "alice@example.com", models.UserRoleUser)

	w := env.doJSON(http.MethodPost, "/api/v1/chat/messages", token, map[string]string{
		"message":  "hello",
		"language": "fr",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	env := newHandlerTestEnv(t)
	token := env.createUser(t, "alice@example.com", models.UserRoleUser)

	w := env.doJSON(http.MethodPost, "/api/v1/chat/messages", token, map[string]string{
		"message":  "first question",
		"language": "en",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.doJSON(http.MethodGet, "/api/v1/chat/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		History []struct {
			UserInput  string `json:"user_input"`
			AIResponse string `json:"ai_response"`
		} `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.History, 1)
	assert.Equal(t, "first question", resp.History[0].UserInput)
	assert.Equal(t, "model reply", resp.History[0].AIResponse)
}

func TestVoiceEndpoint(t *testing.T) {
	env := newHandlerTestEnv(t)
	token := env.createUser(t, "alice@example.com", models.UserRoleUser)

	w := env.doMultipart(t, "/api/v1/chat/voice", token, "file", "voice.wav", []byte("audio"))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "spoken words", resp.Text)
}

func TestVoiceEndpointMissingFile(t *testing.T) {
	env := newHandlerTestEnv(t)
	token := env.createUser(t, "alice@example.com", models.UserRoleUser)

	w := env.doJSON(http.MethodPost, "/api/v1/chat/voice", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
