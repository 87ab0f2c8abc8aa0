// Package pipeline orchestrates a resume improvement round trip: prompt
// assembly, the completion call through the gateway, and tiered extraction
// of the structured result.
package pipeline

import (
	"context"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hikinghacker/resume-improvement-api/internal/extractor"
	"github.com/hikinghacker/resume-improvement-api/internal/gateway"
	"github.com/hikinghacker/resume-improvement-api/internal/prompts"
	"github.com/hikinghacker/resume-improvement-api/internal/records"
)

// Submitter is the slice of the gateway the pipeline depends on.
type Submitter interface {
	Submit(ctx context.Context, req gateway.Request) (string, error)
}

// Options holds the completion parameters applied to every run.
type Options struct {
	MaxTokens   int
	Temperature float64
	// BatchLimit bounds how many batch improvements run concurrently.
	BatchLimit int
	Verbose    bool
}

// DefaultOptions mirror the knobs the improvement prompt was tuned with.
func DefaultOptions() Options {
	return Options{
		MaxTokens:   4096,
		Temperature: 0.7,
		BatchLimit:  4,
	}
}

// Inputs carries one resume (or resume section) to improve.
type Inputs struct {
	ResumeText string
}

// Result is the outcome of one improvement run.
type Result struct {
	RunID     uuid.UUID
	Dataset   *records.ResumeDataset
	Outcome   extractor.Outcome
	Flattened []string
	// Raw is the unprocessed model output, kept for verbose inspection.
	Raw string
}

// Pipeline wires the gateway and prompt templates together.
type Pipeline struct {
	submitter    Submitter
	opts         Options
	system       string
	userTemplate string
}

// New returns a Pipeline using the given submitter. The embedded prompt
// templates are loaded here; a missing template is a build defect and
// panics rather than failing every run.
func New(submitter Submitter, opts Options) *Pipeline {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultOptions().MaxTokens
	}
	if opts.BatchLimit <= 0 {
		opts.BatchLimit = DefaultOptions().BatchLimit
	}
	return &Pipeline{
		submitter:    submitter,
		opts:         opts,
		system:       prompts.MustGet("improvement.json", "system"),
		userTemplate: prompts.MustGet("improvement.json", "user"),
	}
}

// Run improves a single resume text and extracts the structured dataset.
func (p *Pipeline) Run(ctx context.Context, in Inputs) (*Result, error) {
	runID := uuid.New()

	prompt := prompts.Format(p.userTemplate, map[string]string{
		"ResumeText": in.ResumeText,
	})

	if p.opts.Verbose {
		log.Printf("pipeline: run %s submitting %d bytes of resume text", runID, len(in.ResumeText))
	}

	raw, err := p.submitter.Submit(ctx, gateway.Request{
		Prompt:       prompt,
		SystemPrompt: p.system,
		MaxTokens:    p.opts.MaxTokens,
		Temperature:  p.opts.Temperature,
	})
	if err != nil {
		return nil, &StageError{Stage: "submit", RunID: runID.String(), Cause: err}
	}

	dataset, outcome, err := extractor.Extract(raw)
	if err != nil {
		return nil, &StageError{Stage: "extract", RunID: runID.String(), Cause: err}
	}

	// An empty dataset is a valid terminal state, distinct from a failed
	// extraction, but worth surfacing in the logs.
	if dataset.IsEmpty() {
		log.Printf("pipeline: run %s produced an empty dataset via %s", runID, outcome)
	}

	if p.opts.Verbose {
		log.Printf("pipeline: run %s extracted %d records via %s", runID, len(dataset.BulletPoints), outcome)
	}

	return &Result{
		RunID:     runID,
		Dataset:   dataset,
		Outcome:   outcome,
		Flattened: records.Flatten(dataset),
		Raw:       raw,
	}, nil
}

// RunBatch improves several resume sections concurrently. Every call goes
// through the same submitter, so identical sections share one completion
// call and the rate limit applies across the batch. Results keep the input
// order; the first failure cancels the remaining runs.
func (p *Pipeline) RunBatch(ctx context.Context, inputs []Inputs) ([]*Result, error) {
	results := make([]*Result, len(inputs))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(p.opts.BatchLimit)
	for i, in := range inputs {
		group.Go(func() error {
			result, err := p.Run(ctx, in)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
