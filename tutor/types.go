// SPDX-License-Identifier: GPL-3.0-only

package tutor

import (
	"net/http"
	"net/url"
)

type TutorConfig struct {
	baseURL string
	apiKey  string
	model   string
}

type Client struct {
	BaseURL    *url.URL
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// ChatMessage is one turn of a tutoring conversation, OpenAI wire shape.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}
