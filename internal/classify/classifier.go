// Package classify assigns a theme to comment text using a hosted
// language model.
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/civicmap/civicmap/internal/comment"
)

const (
	defaultAPIURL = "https://api.openai.com/v1/chat/completions"
	defaultModel  = "gpt-4o-mini"

	// maxCompletionTokens bounds the reply; a theme label is a single word.
	maxCompletionTokens = 10
)

// ErrUnavailable indicates the model could not be reached or rejected the
// request. It is distinct from a malformed reply, which falls back to
// ThemeOther instead of failing.
var ErrUnavailable = errors.New("classification service unavailable")

// systemPrompt is the fixed instruction sent with every comment.
var systemPrompt = "You are a classifier for a civic issue reporting map. " +
	"Classify the resident's comment into exactly one of these themes: " +
	themeList() + ". " +
	"Reply with the theme name only, nothing else."

func themeList() string {
	labels := make([]string, len(comment.Themes))
	for i, t := range comment.Themes {
		labels[i] = string(t)
	}
	return strings.Join(labels, ", ")
}

// Classifier calls a hosted language model to assign a theme.
type Classifier struct {
	httpClient *http.Client
	apiKey     string
	model      string

	// Overridable URL for testing.
	apiURL string
}

// NewClassifier creates a classifier with the given model API key.
func NewClassifier(apiKey string) (*Classifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("model API key is required")
	}
	return &Classifier{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     apiKey,
		model:      defaultModel,
		apiURL:     defaultAPIURL,
	}, nil
}

// chatMessage is a message in the chat-completions wire format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the request body for the chat-completions API.
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

// chatResponse is the response body from the chat-completions API.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Classify sends the comment text to the model and maps the reply onto the
// theme enumeration. A reply that does not match any canonical label yields
// ThemeOther. A transport, auth, or HTTP failure yields ErrUnavailable.
func (c *Classifier) Classify(ctx context.Context, text string) (comment.Theme, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		MaxTokens: maxCompletionTokens,
	})
	if err != nil {
		return comment.ThemeOther, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewReader(body))
	if err != nil {
		return comment.ThemeOther, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return comment.ThemeOther, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("closing model response body", "error", closeErr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return comment.ThemeOther, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return comment.ThemeOther, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return comment.ThemeOther, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	// Concatenate every returned segment, then match. Model creativity never
	// surfaces as an invalid theme: no match means ThemeOther.
	var reply strings.Builder
	for _, choice := range parsed.Choices {
		reply.WriteString(choice.Message.Content)
	}
	theme, _ := comment.ParseTheme(reply.String())
	return theme, nil
}
