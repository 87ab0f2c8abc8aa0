// Package gemini implements a secondary completion provider on the Google
// Gemini SDK, behind the same gateway.Completer contract as the primary
// provider.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/hikinghacker/resume-improvement-api/internal/gateway"
)

// Client generates completions through the Gemini SDK.
type Client struct {
	client *genai.Client
	model  string
}

// New constructs a Gemini-backed completer.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &gateway.ConfigurationError{Missing: "GEMINI_API_KEY"}
	}
	if strings.TrimSpace(model) == "" {
		return nil, &gateway.ConfigurationError{Missing: "completion model"}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Complete generates one completion and returns the joined text parts.
// SDK errors are mapped onto the gateway error taxonomy by their HTTP code.
func (c *Client) Complete(ctx context.Context, req gateway.Request) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemPrompt)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", classifyGenerateError(ctx, err)
	}
	return extractText(resp)
}

// Close releases the underlying SDK client.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func classifyGenerateError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if classified := gateway.ClassifyStatus(apiErr.Code, apiErr.Header, apiErr.Message); classified != nil {
			return classified
		}
	}
	// Transport-level failures without a status are transient.
	return &gateway.TransientError{Cause: err}
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("completion response has no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("completion response has no content")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("completion response has no text parts")
	}
	return strings.Join(parts, ""), nil
}

var _ gateway.Completer = (*Client)(nil)
