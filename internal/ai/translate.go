package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Translator converts text between languages. Used to accept Hindi input
// and return Hindi replies while the model itself works in English.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// GoogleTranslator calls the unauthenticated translate_a/single endpoint.
type GoogleTranslator struct {
	endpoint string
	client   *http.Client
}

func NewGoogleTranslator(endpoint string) *GoogleTranslator {
	return &GoogleTranslator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *GoogleTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", sourceLang)
	params.Set("tl", targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate api: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return parseTranslateResponse(data)
}

// parseTranslateResponse unpacks the endpoint's nested-array payload:
// [[["translated","original",...],...],...]. Segment texts are joined in
// order.
func parseTranslateResponse(data []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil || len(payload) == 0 {
		return "", fmt.Errorf("translate response parse failed")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("translate response parse failed")
	}

	var sb strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		var text string
		if err := json.Unmarshal(segment[0], &text); err != nil {
			continue
		}
		sb.WriteString(text)
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("translate response contained no text")
	}
	return sb.String(), nil
}
