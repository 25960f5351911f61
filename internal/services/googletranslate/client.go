package googletranslate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://translation.googleapis.com/language/translate/v2"
	defaultHTTPTimeout = 30 * time.Second
)

// Client wraps the Cloud Translation v2 REST API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the default endpoint (useful for tests and compatible services).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimSpace(base); base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithTimeout overrides the HTTP timeout when positive.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient constructs a translation API client.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("google translate: http %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether retrying later may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

type translateRequest struct {
	Q      []string `json:"q"`
	Target string   `json:"target"`
	Source string   `json:"source,omitempty"`
	Format string   `json:"format"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage"`
		} `json:"translations"`
	} `json:"data"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Translate translates text into target (an ISO 639-1 code). An empty source
// lets the service detect the input language.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	text = strings.TrimSpace(text)
	target = strings.TrimSpace(target)
	if text == "" {
		return "", errors.New("google translate: text required")
	}
	if target == "" {
		return "", errors.New("google translate: target language required")
	}
	if c.apiKey == "" {
		return "", errors.New("google translate: api key required")
	}

	encoded, err := json.Marshal(translateRequest{
		Q:      []string{text},
		Target: target,
		Source: strings.TrimSpace(source),
		Format: "text",
	})
	if err != nil {
		return "", fmt.Errorf("google translate: encode request: %w", err)
	}
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("google translate: build url: %w", err)
	}
	query := endpoint.Query()
	query.Set("key", c.apiKey)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("google translate: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("google translate: request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("google translate: read body: %w", err)
	}

	var payload translateResponse
	decodeErr := json.Unmarshal(body, &payload)
	if resp.StatusCode >= http.StatusMultipleChoices {
		message := strings.TrimSpace(string(body))
		if decodeErr == nil && payload.Error != nil && payload.Error.Message != "" {
			message = payload.Error.Message
		}
		return "", &StatusError{StatusCode: resp.StatusCode, Message: message}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("google translate: decode response: %w", decodeErr)
	}
	if payload.Error != nil {
		return "", &StatusError{StatusCode: payload.Error.Code, Message: payload.Error.Message}
	}
	if len(payload.Data.Translations) == 0 {
		return "", errors.New("google translate: empty translations")
	}
	translated := strings.TrimSpace(payload.Data.Translations[0].TranslatedText)
	if translated == "" {
		return "", errors.New("google translate: empty translated text")
	}
	return translated, nil
}
