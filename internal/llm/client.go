// Package llm provides the model client abstraction used by the
// analysis pipeline, with a Gemini implementation.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// FragmentFunc receives ordered text fragments as the model produces
// them. Fragments concatenated in callback order equal the final text.
type FragmentFunc func(text string)

// Client is an abstraction over LLM providers.
type Client interface {
	// GenerateJSON streams a JSON response for the prompt. onFragment
	// may be nil; when set it is invoked once per streamed chunk. The
	// returned string is the complete response with any markdown code
	// fences stripped.
	GenerateJSON(ctx context.Context, prompt string, onFragment FragmentFunc) (string, error)
	// Close releases any resources held by the client.
	Close() error
}

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed client for the given model.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model name is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// GenerateJSON streams a JSON response, forwarding each chunk to
// onFragment and returning the assembled text.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, onFragment FragmentFunc) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.1) // Low temperature for consistent output
	model.ResponseMIMEType = "application/json"

	iter := model.GenerateContentStream(ctx, genai.Text(prompt))

	var sb strings.Builder
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
		}

		chunk, err := extractText(resp)
		if err != nil {
			// Empty chunks happen mid-stream; skip rather than fail.
			continue
		}
		if chunk != "" {
			sb.WriteString(chunk)
			if onFragment != nil {
				onFragment(chunk)
			}
		}
	}

	text := cleanResponse(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrMalformedOutput)
	}
	return text, nil
}

// cleanResponse strips the markdown fence a model sometimes wraps
// around its output despite the JSON response MIME type. Anything
// without a leading fence passes through untouched.
func cleanResponse(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// The opening fence may carry a language tag such as "json".
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		tag := strings.TrimSpace(text[:nl])
		if tag != "" && len(tag) <= 16 && !strings.ContainsAny(tag, " {[") {
			text = text[nl+1:]
		}
	}
	if end := strings.LastIndex(text, "```"); end >= 0 {
		text = text[:end]
	}
	return strings.TrimSpace(text)
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractText joins the text parts of one streamed response chunk.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
