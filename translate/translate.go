// Package translate builds the request handed to the translation service
// for a resolved target language. It does not perform network I/O; the
// request is an OpenAI-compatible chat completion (OpenRouter by default).
package translate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/minios-linux/cliptr/config"
	"github.com/minios-linux/cliptr/language"
)

// DefaultMaxTokens caps the length of the translation.
const DefaultMaxTokens = 1024

// ErrEmptyText is returned for blank input.
var ErrEmptyText = errors.New("nothing to translate")

// ---------------------------------------------------------------------------
// System prompt
// ---------------------------------------------------------------------------

// SystemPrompt returns the instruction for translating into target.
func SystemPrompt(target language.Language) string {
	return fmt.Sprintf("You are a helpful assistant that translates text into %s. "+
		"Provide only the translation text and nothing else.", target.Name())
}

// ---------------------------------------------------------------------------
// Request
// ---------------------------------------------------------------------------

// Request is everything the translation client needs for one call.
type Request struct {
	Text         string            `json:"text"`
	Target       language.Language `json:"target"`
	APIKey       string            `json:"-"`
	Endpoint     string            `json:"endpoint"`
	Model        string            `json:"model"`
	SystemPrompt string            `json:"system_prompt"`
	MaxTokens    int               `json:"max_tokens"`
}

// NewRequest builds the request for translating text into target using the
// endpoint settings from cfg.
func NewRequest(text string, target language.Language, cfg *config.Config, apiKey string) (*Request, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if !target.Valid() {
		return nil, fmt.Errorf("building request: %w", language.ErrUnknown)
	}
	return &Request{
		Text:         text,
		Target:       target,
		APIKey:       apiKey,
		Endpoint:     strings.TrimRight(cfg.APIURL, "/"),
		Model:        cfg.ModelVersion,
		SystemPrompt: SystemPrompt(target),
		MaxTokens:    DefaultMaxTokens,
	}, nil
}

// URL returns the chat completions endpoint.
func (r *Request) URL() string {
	return r.Endpoint + "/chat/completions"
}

// Headers returns the HTTP headers for the call. The key is omitted when
// empty (local services).
func (r *Request) Headers() map[string]string {
	h := map[string]string{"Content-Type": "application/json"}
	if r.APIKey != "" {
		h["Authorization"] = "Bearer " + r.APIKey
	}
	return h
}

// Body returns the chat completion payload.
func (r *Request) Body() ([]byte, error) {
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	req := struct {
		Model     string `json:"model"`
		Messages  []msg  `json:"messages"`
		MaxTokens int    `json:"max_tokens"`
		Stream    bool   `json:"stream"`
	}{
		Model: r.Model,
		Messages: []msg{
			{Role: "system", Content: r.SystemPrompt},
			{Role: "user", Content: r.Text},
		},
		MaxTokens: r.MaxTokens,
		Stream:    false,
	}
	return json.Marshal(req)
}

// ParseResponse extracts the translation from a chat completion response.
func ParseResponse(data []byte) (string, error) {
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("API error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response: no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
