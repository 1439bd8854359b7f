package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"aroha-api/internal/config"
)

// TextGenerator is the external text-generation call: one prompt in,
// one text payload out. Implemented by GeminiClient; faked in tests.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiClient calls the Gemini generateContent API over plain HTTP.
type GeminiClient struct {
	config *config.AIConfig
	client *http.Client
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(cfg *config.AIConfig) *GeminiClient {
	return &GeminiClient{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// Generate sends the prompt and returns the first candidate's text.
// Failures are typed: anything that prevented a usable HTTP exchange
// is a transport failure, a response body that can't be interpreted is
// a parse failure.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.config.IsEnabled() {
		return "", newTransportError(errors.New("GEMINI_API_KEY not configured"))
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"temperature":      0.7,
			"maxOutputTokens":  8000,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", newTransportError(err)
	}

	url := fmt.Sprintf("%s?key=%s", c.config.Endpoint(), c.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", newTransportError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", newTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newTransportError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", newTransportError(fmt.Errorf("gemini returned status %d", resp.StatusCode))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", newParseError(err)
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", newParseError(errors.New("empty response from Gemini"))
}
