// Package ai calls the external model API for curriculum summaries and
// podcast audio. Calls are single request/response with one client timeout
// and no retry; failures surface to the caller unchanged.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Summarize asks the model for a study summary of the given curriculum
// document URLs and returns the summary text.
func (c *Client) Summarize(ctx context.Context, urls []string) (string, error) {
	prompt := "Summarize the study material at the following URLs into concise revision notes:\n" +
		strings.Join(urls, "\n")

	body, err := json.Marshal(chatRequest{
		Model: "gpt-4o-mini",
		Messages: []chatMessage{
			{Role: "system", Content: "You summarize study materials for students."},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal summary request: %w", err)
	}

	resp, err := c.post(ctx, "/chat/completions", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summary request failed: status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode summary response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("summary response had no choices")
	}
	return out.Choices[0].Message.Content, nil
}

type speechRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
	Voice string `json:"voice"`
}

// SynthesizeAudio turns summary text into spoken audio and returns the raw
// audio bytes, which the caller uploads to blob storage.
func (c *Client) SynthesizeAudio(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(speechRequest{
		Model: "tts-1",
		Input: text,
		Voice: "alloy",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal speech request: %w", err)
	}

	resp, err := c.post(ctx, "/audio/speech", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech request failed: status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}
	return audio, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call model api: %w", err)
	}
	return resp, nil
}
