package extractor

import (
	_ "embed"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/hikinghacker/resume-improvement-api/internal/records"
)

//go:embed bullet_points.schema.json
var bulletPointsSchema string

// payload mirrors the wire shape the model is asked to produce.
type payload struct {
	// BulletPoints must be present for a JSON tier to accept the result.
	BulletPoints []records.JobRecord `json:"bullet_points"`
}

// locateJSON returns the first substring bounded by '{' and the last '}'.
func locateJSON(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	if start < 0 {
		return "", false
	}
	end := strings.LastIndex(raw, "}")
	if end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// parseStrict attempts a strict parse of the candidate and accepts it only
// when it exposes a bullet_points array conforming to the embedded schema.
func parseStrict(candidate string) (*records.ResumeDataset, bool) {
	var parsed payload
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, false
	}
	if parsed.BulletPoints == nil {
		return nil, false
	}
	if !conformsToSchema(candidate) {
		return nil, false
	}
	return &records.ResumeDataset{BulletPoints: parsed.BulletPoints}, true
}

// parseCleaned applies the fixed repair sequence and retries the parse
// exactly once.
func parseCleaned(candidate string) (*records.ResumeDataset, bool) {
	repaired := collapseWhitespace(candidate)
	repaired = escapeStrayBackslashes(repaired)
	repaired = stripQuoteBraceArtifacts(repaired)

	var parsed payload
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return nil, false
	}
	if parsed.BulletPoints == nil {
		return nil, false
	}
	return &records.ResumeDataset{BulletPoints: parsed.BulletPoints}, true
}

// conformsToSchema validates a candidate document against the embedded
// bullet_points schema. Validation errors are treated as a plain rejection
// so the next tier can run.
func conformsToSchema(candidate string) bool {
	schemaLoader := gojsonschema.NewStringLoader(bulletPointsSchema)
	documentLoader := gojsonschema.NewStringLoader(candidate)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return false
	}
	return result.Valid()
}

// --- Textual repairs ---
//
// Each repair is deliberately independent so it can be tested on its own.

var embeddedWhitespace = regexp.MustCompile(`[\r\n\t]+`)

// collapseWhitespace folds embedded newlines and tabs into single spaces.
// Raw control characters inside JSON strings are invalid anyway, so this
// only ever turns broken documents into parseable ones.
func collapseWhitespace(s string) string {
	return embeddedWhitespace.ReplaceAllString(s, " ")
}

// strayBackslash matches a backslash not starting a valid JSON escape.
var strayBackslash = regexp.MustCompile(`\\([^"\\/bfnrtu])`)

// escapeStrayBackslashes doubles backslashes that do not begin a valid
// JSON escape sequence.
func escapeStrayBackslashes(s string) string {
	return strayBackslash.ReplaceAllString(s, `\\$1`)
}

var (
	// A quote directly after a closer and directly before another closer,
	// comma, or end of input cannot be part of valid JSON.
	trailingQuoteArtifact = regexp.MustCompile(`([}\]])"(\s*[}\],]|\s*$)`)
	// A quote directly before an opener, preceded by an opener, comma, or
	// start of input, is equally spurious.
	leadingQuoteArtifact = regexp.MustCompile(`(^\s*|[{\[,]\s*)"([{\[])`)
)

// stripQuoteBraceArtifacts removes spurious quotes that abut braces or
// brackets without a separator.
func stripQuoteBraceArtifacts(s string) string {
	s = trailingQuoteArtifact.ReplaceAllString(s, `$1$2`)
	s = leadingQuoteArtifact.ReplaceAllString(s, `$1$2`)
	return s
}
