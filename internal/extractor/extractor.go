package extractor

import (
	"strings"

	"github.com/hikinghacker/resume-improvement-api/internal/records"
)

// Outcome identifies which tier of the fallback chain produced a result.
// Callers may inspect it for diagnostics; the dataset shape is identical
// regardless of tier.
type Outcome string

const (
	// OutcomeStructuredJSON means the response parsed strictly on the
	// first attempt.
	OutcomeStructuredJSON Outcome = "structured_json"
	// OutcomeCleanedJSON means the response parsed after textual repairs.
	OutcomeCleanedJSON Outcome = "cleaned_json"
	// OutcomeHeuristicLines means structure was recovered line by line.
	OutcomeHeuristicLines Outcome = "heuristic_lines"
	// OutcomeLastResortLines means raw lines were taken verbatim.
	OutcomeLastResortLines Outcome = "last_resort_lines"
	// OutcomeRefusal means the model declined to process the content.
	OutcomeRefusal Outcome = "refusal"
	// OutcomeFailed means nothing usable could be recovered.
	OutcomeFailed Outcome = "failed"
)

// maxLastResortLines bounds how many raw lines the final tier keeps.
const maxLastResortLines = 5

// refusalPhrases mark responses where the model declined to reproduce
// content. Matching is case-insensitive.
var refusalPhrases = []string{
	"cannot reproduce",
	"can't reproduce",
	"unable to reproduce",
	"copyrighted material",
	"copyright concerns",
	"copyright restrictions",
	"intellectual property",
}

// Extract recovers a dataset from raw model output. Tiers are attempted in
// order until one yields a usable result; the returned dataset is already
// normalized. The error is non-nil only for the Refusal and Failed
// outcomes — messy input degrades through tiers, it never errors.
func Extract(raw string) (*records.ResumeDataset, Outcome, error) {
	if phrase, refused := detectRefusal(raw); refused {
		return nil, OutcomeRefusal, &RefusalError{Phrase: phrase}
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, OutcomeFailed, &FailedError{Reason: "empty response"}
	}

	// A located candidate that defeats both parses still falls through to
	// the line heuristics: its punctuation lines are dropped there, and any
	// readable lines around the broken JSON remain recoverable.
	if candidate, found := locateJSON(trimmed); found {
		if dataset, ok := parseStrict(candidate); ok {
			return records.Normalize(dataset), OutcomeStructuredJSON, nil
		}
		if dataset, ok := parseCleaned(candidate); ok {
			return records.Normalize(dataset), OutcomeCleanedJSON, nil
		}
	}

	if dataset, ok := extractHeuristicLines(trimmed); ok {
		return records.Normalize(dataset), OutcomeHeuristicLines, nil
	}

	if dataset, ok := extractLastResortLines(trimmed); ok {
		return records.Normalize(dataset), OutcomeLastResortLines, nil
	}

	return nil, OutcomeFailed, &FailedError{Reason: "no tier recovered usable content"}
}

// detectRefusal reports whether the raw text contains a phrase indicating
// the model declined to reproduce the content.
func detectRefusal(raw string) (string, bool) {
	lowered := strings.ToLower(raw)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lowered, phrase) {
			return phrase, true
		}
	}
	return "", false
}

// extractLastResortLines takes the first non-empty lines of the raw text
// verbatim as a flat achievement list under a single synthetic job record.
func extractLastResortLines(raw string) (*records.ResumeDataset, bool) {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxLastResortLines {
			break
		}
	}
	if len(lines) == 0 {
		return nil, false
	}

	return &records.ResumeDataset{
		BulletPoints: []records.JobRecord{
			{
				Company:      defaultCompany,
				Position:     defaultPosition,
				Achievements: lines,
			},
		},
	}, true
}
