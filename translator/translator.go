// SPDX-License-Identifier: GPL-3.0-only

// Package translator wraps the external translation provider's HTTP API.
// The provider is an opaque collaborator; this client only forwards
// requests and decodes structured responses.
package translator

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

func NewClient(c TranslatorConfig) (*Client, error) {
	if c.baseURL == "" {
		c.baseURL = commons.GetEnv("TRANSLATOR_API_URL", "http://localhost:5000")
	}
	if c.apiKey == "" {
		c.apiKey = commons.GetEnv("TRANSLATOR_API_KEY")
	}

	parsedURL, err := url.Parse(c.baseURL)
	if err != nil {
		commons.Logger.Error("Failed to parse translator API base URL:", err)
		return nil, err
	}
	return &Client{
		BaseURL:    parsedURL,
		APIKey:     c.apiKey,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	rel := &url.URL{Path: path}
	u := c.BaseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		commons.Logger.Errorf("Translator API %s failed: %s", path, resp.Status)
		return fmt.Errorf("translator API %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Translate translates text between two languages. An empty source
// language asks the provider to auto-detect.
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) (*Translation, error) {
	payload := map[string]string{
		"q":      text,
		"source": sourceLang,
		"target": targetLang,
	}
	if sourceLang == "" {
		payload["source"] = "auto"
	}

	var decoded struct {
		TranslatedText   string `json:"translatedText"`
		DetectedLanguage struct {
			Language string `json:"language"`
		} `json:"detectedLanguage"`
	}
	if err := c.post(ctx, "/translate", payload, &decoded); err != nil {
		return nil, err
	}

	source := sourceLang
	if source == "" {
		source = decoded.DetectedLanguage.Language
	}
	return &Translation{
		Text:           decoded.TranslatedText,
		SourceLanguage: source,
		TargetLanguage: targetLang,
	}, nil
}

// Detect identifies the language of a text snippet.
func (c *Client) Detect(ctx context.Context, text string) (*Detection, error) {
	var decoded []struct {
		Language   string  `json:"language"`
		Confidence float64 `json:"confidence"`
	}
	if err := c.post(ctx, "/detect", map[string]string{"q": text}, &decoded); err != nil {
		return nil, err
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("translator API returned no detection candidates")
	}
	return &Detection{
		Language:   decoded[0].Language,
		Confidence: decoded[0].Confidence,
	}, nil
}
