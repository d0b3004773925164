// SPDX-License-Identifier: GPL-3.0-only

package translator

import (
	"net/http"
	"net/url"
)

type TranslatorConfig struct {
	baseURL string
	apiKey  string
}

type Client struct {
	BaseURL    *url.URL
	APIKey     string
	HTTPClient *http.Client
}

type Translation struct {
	Text           string
	SourceLanguage string
	TargetLanguage string
}

type Detection struct {
	Language   string
	Confidence float64
}
