package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/hikinghacker/resume-improvement-api/internal/gateway"
)

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), "", "gemini-2.0-flash")
	var confErr *gateway.ConfigurationError
	require.ErrorAs(t, err, &confErr)
	assert.Equal(t, "GEMINI_API_KEY", confErr.Missing)
}

func TestNewRequiresModel(t *testing.T) {
	_, err := New(context.Background(), "key", "  ")
	var confErr *gateway.ConfigurationError
	assert.ErrorAs(t, err, &confErr)
}

func TestClassifyGenerateError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want any
	}{
		{
			name: "rate limited",
			err:  &googleapi.Error{Code: http.StatusTooManyRequests},
			want: new(*gateway.TransientError),
		},
		{
			name: "server error",
			err:  &googleapi.Error{Code: http.StatusBadGateway},
			want: new(*gateway.TransientError),
		},
		{
			name: "invalid request",
			err:  &googleapi.Error{Code: http.StatusBadRequest, Message: "bad prompt"},
			want: new(*gateway.ClientError),
		},
		{
			name: "plain transport failure",
			err:  errors.New("connection reset"),
			want: new(*gateway.TransientError),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyGenerateError(context.Background(), tc.err)
			assert.True(t, errors.As(got, tc.want), "got %T", got)
		})
	}
}

func TestClassifyGenerateErrorPassesContextErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := classifyGenerateError(ctx, errors.New("aborted"))
	assert.ErrorIs(t, got, context.Canceled)
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []genai.Part{genai.Text("hello "), genai.Text("world")},
				},
			},
		},
	}

	got, err := extractText(resp)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestExtractTextEmptyResponses(t *testing.T) {
	_, err := extractText(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = extractText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
	})
	assert.Error(t, err)
}
