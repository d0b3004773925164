// SPDX-License-Identifier: GPL-3.0-only

// Package tutor wraps the LLM provider behind small, purpose-named calls.
// Responses are opaque text; no attempt is made to parse model output
// beyond the completion envelope.
package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"lingua-server/commons"
)

func NewClient(c TutorConfig) (*Client, error) {
	if c.baseURL == "" {
		c.baseURL = commons.GetEnv("LLM_API_URL", "https://api.openai.com")
	}
	if c.apiKey == "" {
		c.apiKey = commons.GetEnv("LLM_API_KEY")
	}
	if c.model == "" {
		c.model = commons.GetEnv("LLM_MODEL", "gpt-4o-mini")
	}

	parsedURL, err := url.Parse(c.baseURL)
	if err != nil {
		commons.Logger.Error("Failed to parse LLM API base URL:", err)
		return nil, err
	}
	return &Client{
		BaseURL:    parsedURL,
		APIKey:     c.apiKey,
		Model:      c.model,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (c *Client) complete(ctx context.Context, messages []ChatMessage) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{Model: c.Model, Messages: messages})
	if err != nil {
		return "", err
	}
	rel := &url.URL{Path: "/v1/chat/completions"}
	u := c.BaseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		commons.Logger.Errorf("LLM API request failed: %s", resp.Status)
		return "", fmt.Errorf("LLM API: %s", resp.Status)
	}

	var decoded chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("LLM API returned no choices")
	}
	return decoded.Choices[0].Message.Content, nil
}

// Chat continues a tutoring conversation in the user's learning language.
func (c *Client) Chat(ctx context.Context, learningLanguage string, history []ChatMessage) (string, error) {
	system := ChatMessage{
		Role:    "system",
		Content: fmt.Sprintf("You are a friendly language tutor. Converse with the learner in %s, gently correcting mistakes.", learningLanguage),
	}
	return c.complete(ctx, append([]ChatMessage{system}, history...))
}

// AssessCEFR estimates the CEFR complexity level (A1-C2) of a text.
func (c *Client) AssessCEFR(ctx context.Context, text string) (string, error) {
	return c.complete(ctx, []ChatMessage{
		{Role: "system", Content: "Assess the CEFR level (A1, A2, B1, B2, C1 or C2) of the user's text and explain briefly."},
		{Role: "user", Content: text},
	})
}

// AnalyzeVerb explains a verb's tense, mood and usage in a sentence.
func (c *Client) AnalyzeVerb(ctx context.Context, sentence, language string) (string, error) {
	return c.complete(ctx, []ChatMessage{
		{Role: "system", Content: fmt.Sprintf("Identify the verbs in the %s sentence and explain their tense, mood and usage.", language)},
		{Role: "user", Content: sentence},
	})
}

// ConjugateVerb returns conjugation tables for a verb.
func (c *Client) ConjugateVerb(ctx context.Context, verb, language string) (string, error) {
	return c.complete(ctx, []ChatMessage{
		{Role: "system", Content: fmt.Sprintf("Conjugate the %s verb given by the user in the common tenses.", language)},
		{Role: "user", Content: verb},
	})
}
