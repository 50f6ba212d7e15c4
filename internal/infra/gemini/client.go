// Package gemini talks to the Generative Language REST API and turns its
// answers into validated advisory results.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"
)

// ErrMissingAPIKey is returned before any request when no key is configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not configured")

// errNoJSON is returned when a response carries no JSON span.
var errNoJSON = errors.New("response contains no JSON")

// FallbackModels is used when the model listing fails.
var FallbackModels = []string{"gemini-pro", "gemini-1.5-flash"}

const generateMethod = "generateContent"

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Message string
	Model   string
	Code    int
}

func (e *StatusError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("model %s: status %d: %s", e.Model, e.Code, e.Message)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

// IsQuota reports whether err is a 429 from the API.
func IsQuota(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusTooManyRequests
}

// skippable reports whether the next model should be tried after err.
func skippable(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && (se.Code == http.StatusTooManyRequests || se.Code == http.StatusNotFound)
}

// Config configures a Client.
type Config struct {
	HTTPClient *http.Client
	APIKey     string
	BaseURL    string
	Models     []string // preference order, matched as substrings
	Timeout    time.Duration
}

// Client is a minimal Generative Language API client.
// The model list is fetched once and cached for the life of the client.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	preference []string
	models     []string
	mu         sync.Mutex
}

// NewClient creates a Client. A missing key is reported per call, not here,
// so the rest of the application works without one.
func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: hc,
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		preference: cfg.Models,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type modelList struct {
	Models []struct {
		Name                       string   `json:"name"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
}

type apiError struct {
	Error *struct {
		Message string `json:"message"`
		Status  string `json:"status"`
		Code    int    `json:"code"`
	} `json:"error"`
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Models returns the usable models in preference order. A listing failure
// yields FallbackModels and is retried on the next call.
func (c *Client) Models(ctx context.Context) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.models != nil {
		return c.models
	}

	models, err := c.listModels(ctx)
	if err != nil || len(models) == 0 {
		return slices.Clone(FallbackModels)
	}
	c.models = sortByPreference(models, c.preference)
	return c.models
}

func (c *Client) listModels(ctx context.Context) ([]string, error) {
	endpoint := c.baseURL + "/models?pageSize=1000&key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	body, err := c.do(req, "")
	if err != nil {
		return nil, err
	}

	var list modelList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode model list: %w", err)
	}
	var names []string
	for _, m := range list.Models {
		if slices.Contains(m.SupportedGenerationMethods, generateMethod) {
			names = append(names, strings.TrimPrefix(m.Name, "models/"))
		}
	}
	if len(names) == 0 {
		return nil, errors.New("no models support generateContent")
	}
	return names, nil
}

// sortByPreference orders names by the first preference entry each contains.
// Names matching nothing keep their relative order after every match.
func sortByPreference(names, preference []string) []string {
	rank := func(name string) int {
		for i, p := range preference {
			if strings.Contains(name, p) {
				return i
			}
		}
		return len(preference)
	}
	out := slices.Clone(names)
	slices.SortStableFunc(out, func(a, b string) int { return rank(a) - rank(b) })
	return out
}

// Generate sends prompt to each model in turn until one answers. Only 429
// and 404 move on to the next model; any other failure stops the walk.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrMissingAPIKey
	}

	var lastErr error
	for _, model := range c.Models(ctx) {
		text, err := c.generate(ctx, model, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !skippable(err) {
			break
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no models available")
	}
	return "", lastErr
}

// GenerateJSON is Generate followed by JSON extraction into out.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, out any) error {
	text, err := c.Generate(ctx, prompt)
	if err != nil {
		return err
	}
	span, ok := ExtractJSON(text)
	if !ok {
		return errNoJSON
	}
	if err := json.Unmarshal([]byte(span), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) generate(ctx context.Context, model, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/models/%s:%s?key=%s", c.baseURL, url.PathEscape(model), generateMethod, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req, model)
	if err != nil {
		return "", err
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("model %s returned no text", model)
	}
	return sb.String(), nil
}

func (c *Client) do(req *http.Request, model string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		var ae apiError
		if json.Unmarshal(body, &ae) == nil && ae.Error != nil && ae.Error.Message != "" {
			msg = ae.Error.Message
		}
		return nil, &StatusError{Code: resp.StatusCode, Message: msg, Model: model}
	}
	return body, nil
}

// ExtractJSON returns the JSON value embedded in text: the span from the first
// '[' or '{' (whichever comes first) to the last matching closer.
func ExtractJSON(text string) (string, bool) {
	start := strings.IndexAny(text, "[{")
	if start < 0 {
		return "", false
	}
	closer := "]"
	if text[start] == '{' {
		closer = "}"
	}
	end := strings.LastIndex(text, closer)
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}
