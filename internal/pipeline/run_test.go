package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikinghacker/resume-improvement-api/internal/extractor"
	"github.com/hikinghacker/resume-improvement-api/internal/gateway"
)

type stubSubmitter struct {
	mu      sync.Mutex
	calls   int
	lastReq gateway.Request
	respond func(req gateway.Request) (string, error)
}

func (s *stubSubmitter) Submit(_ context.Context, req gateway.Request) (string, error) {
	s.mu.Lock()
	s.calls++
	s.lastReq = req
	s.mu.Unlock()
	return s.respond(req)
}

func (s *stubSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestRunHappyPath(t *testing.T) {
	stub := &stubSubmitter{
		respond: func(gateway.Request) (string, error) {
			return `{"bullet_points":[{"company":"Acme","position":"Eng","achievements":["Did X"]}]}`, nil
		},
	}
	p := New(stub, DefaultOptions())

	result, err := p.Run(context.Background(), Inputs{ResumeText: "Eng at Acme\n- did x"})
	require.NoError(t, err)

	assert.Equal(t, extractor.OutcomeStructuredJSON, result.Outcome)
	require.Len(t, result.Dataset.BulletPoints, 1)
	assert.Equal(t, []string{
		"POSITION: Eng at Acme",
		"• Did X",
	}, result.Flattened)
	assert.NotEqual(t, "", result.RunID.String())

	// The submitted request carries the resume text and the system prompt.
	assert.Contains(t, stub.lastReq.Prompt, "Eng at Acme\n- did x")
	assert.Contains(t, stub.lastReq.SystemPrompt, "bullet_points")
	assert.Equal(t, DefaultOptions().MaxTokens, stub.lastReq.MaxTokens)
}

func TestRunEmptyDatasetIsNotAnError(t *testing.T) {
	stub := &stubSubmitter{
		respond: func(gateway.Request) (string, error) {
			return `{"bullet_points":[]}`, nil
		},
	}
	p := New(stub, Options{})

	result, err := p.Run(context.Background(), Inputs{ResumeText: "text"})
	require.NoError(t, err)
	assert.True(t, result.Dataset.IsEmpty())
	assert.Equal(t, extractor.OutcomeStructuredJSON, result.Outcome)
	assert.Empty(t, result.Flattened)
}

func TestRunWrapsSubmitErrors(t *testing.T) {
	stub := &stubSubmitter{
		respond: func(gateway.Request) (string, error) {
			return "", &gateway.TransientError{StatusCode: 429, Exhausted: true, Attempts: 4}
		},
	}
	p := New(stub, Options{})

	_, err := p.Run(context.Background(), Inputs{ResumeText: "text"})
	require.Error(t, err)

	var stage *StageError
	require.ErrorAs(t, err, &stage)
	assert.Equal(t, "submit", stage.Stage)

	var transient *gateway.TransientError
	require.ErrorAs(t, err, &transient)
	assert.True(t, transient.Exhausted)
}

func TestRunWrapsRefusal(t *testing.T) {
	stub := &stubSubmitter{
		respond: func(gateway.Request) (string, error) {
			return "I cannot reproduce copyrighted material.", nil
		},
	}
	p := New(stub, Options{})

	_, err := p.Run(context.Background(), Inputs{ResumeText: "text"})
	require.Error(t, err)

	var stage *StageError
	require.ErrorAs(t, err, &stage)
	assert.Equal(t, "extract", stage.Stage)

	var refusal *extractor.RefusalError
	assert.ErrorAs(t, err, &refusal)
}

func TestRunBatchKeepsOrder(t *testing.T) {
	stub := &stubSubmitter{
		respond: func(req gateway.Request) (string, error) {
			// Echo a marker from the prompt back as the company name.
			for _, marker := range []string{"alpha", "beta", "gamma"} {
				if strings.Contains(req.Prompt, marker) {
					return fmt.Sprintf(`{"bullet_points":[{"company":%q,"achievements":["Did X"]}]}`, marker), nil
				}
			}
			return "", errors.New("unexpected prompt")
		},
	}
	p := New(stub, Options{BatchLimit: 2})

	results, err := p.RunBatch(context.Background(), []Inputs{
		{ResumeText: "alpha"},
		{ResumeText: "beta"},
		{ResumeText: "gamma"},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "alpha", results[0].Dataset.BulletPoints[0].Company)
	assert.Equal(t, "beta", results[1].Dataset.BulletPoints[0].Company)
	assert.Equal(t, "gamma", results[2].Dataset.BulletPoints[0].Company)
	assert.Equal(t, 3, stub.callCount())
}

func TestRunBatchSurfacesFirstError(t *testing.T) {
	stub := &stubSubmitter{
		respond: func(req gateway.Request) (string, error) {
			if strings.Contains(req.Prompt, "bad") {
				return "", &gateway.ClientError{StatusCode: 401}
			}
			return `{"bullet_points":[]}`, nil
		},
	}
	p := New(stub, Options{BatchLimit: 1})

	_, err := p.RunBatch(context.Background(), []Inputs{
		{ResumeText: "good"},
		{ResumeText: "bad"},
	})
	require.Error(t, err)

	var client *gateway.ClientError
	assert.ErrorAs(t, err, &client)
}
