// Package extractor recovers structured job/achievement records from raw
// model output through a tiered fallback chain.
package extractor

import "fmt"

// RefusalError signals that the model declined to process the content
// (copyright/IP disclaimers). It is a distinct signal rather than a parse
// failure: the caller decides whether to retry with a different prompt or
// accept a degraded result. The extractor never substitutes fabricated data.
type RefusalError struct {
	Phrase string
}

func (e *RefusalError) Error() string {
	return fmt.Sprintf("model declined to process content (matched %q)", e.Phrase)
}

// FailedError signals that no tier could recover anything usable.
type FailedError struct {
	Reason string
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}
