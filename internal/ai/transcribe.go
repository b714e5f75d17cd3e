package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Transcriber turns an uploaded audio recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context, fileName string, audio io.Reader) (string, error)
}

// WhisperClient calls an OpenAI-compatible /audio/transcriptions endpoint.
type WhisperClient struct {
	apiKey   string
	endpoint string
	model    string
	client   *http.Client
}

func NewWhisperClient(apiKey, endpoint string) *WhisperClient {
	return &WhisperClient{
		apiKey:   apiKey,
		endpoint: endpoint,
		model:    "whisper-1",
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (w *WhisperClient) Transcribe(ctx context.Context, fileName string, audio io.Reader) (string, error) {
	if w.apiKey == "" {
		return "", fmt.Errorf("transcription api key is not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", err
	}
	if err := writer.WriteField("model", w.model); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+w.apiKey)

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription api: unexpected status %d", resp.StatusCode)
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("transcription response parse: %w", err)
	}
	return parsed.Text, nil
}
