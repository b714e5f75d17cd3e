package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "voice.wav", header.Filename)

		audio, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "fake audio bytes", string(audio))

		json.NewEncoder(w).Encode(map[string]string{"text": "hello from audio"})
	}))
	defer server.Close()

	client := NewWhisperClient("test-key", server.URL)

	text, err := client.Transcribe(context.Background(), "voice.wav", strings.NewReader("fake audio bytes"))
	require.NoError(t, err)
	assert.Equal(t, "hello from audio", text)
}

func TestTranscribeBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewWhisperClient("test-key", server.URL)

	_, err := client.Transcribe(context.Background(), "voice.wav", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestTranscribeMissingKey(t *testing.T) {
	client := NewWhisperClient("", "http://unused")

	_, err := client.Transcribe(context.Background(), "voice.wav", strings.NewReader("x"))
	assert.Error(t, err)
}
