package records

import (
	"fmt"
	"regexp"
	"strings"
)

// bulletMarkerPattern matches leading bullet markers: symbol bullets and
// numeric list prefixes like "1." or "2)". The group repeats so stacked
// markers ("• - Did X") strip in a single pass.
var bulletMarkerPattern = regexp.MustCompile(`^(?:\s*(?:[•\-*‣◦]+|\d+[.)]))+\s*`)

// StripBulletMarker removes a leading bullet marker and surrounding
// whitespace from an achievement line.
func StripBulletMarker(s string) string {
	return strings.TrimSpace(bulletMarkerPattern.ReplaceAllString(s, ""))
}

// Normalize returns a cleaned copy of the dataset. Every job record in the
// result has non-nil achievements, trimmed company/position/time_period
// fields, and achievements with leading bullet markers stripped. The input
// is never mutated, so callers can safely reuse it across retries.
//
// Normalize is idempotent: Normalize(Normalize(d)) equals Normalize(d).
func Normalize(d *ResumeDataset) *ResumeDataset {
	if d == nil {
		return &ResumeDataset{BulletPoints: []JobRecord{}}
	}

	jobs := make([]JobRecord, 0, len(d.BulletPoints))
	for _, job := range d.BulletPoints {
		cleaned := JobRecord{
			Company:      strings.TrimSpace(job.Company),
			Position:     strings.TrimSpace(job.Position),
			TimePeriod:   strings.TrimSpace(job.TimePeriod),
			Achievements: make([]string, 0, len(job.Achievements)),
		}
		for _, achievement := range job.Achievements {
			stripped := StripBulletMarker(achievement)
			if stripped == "" {
				continue
			}
			cleaned.Achievements = append(cleaned.Achievements, stripped)
		}
		jobs = append(jobs, cleaned)
	}

	return &ResumeDataset{BulletPoints: jobs}
}

// Flatten projects the dataset into the legacy flat representation consumed
// by callers that expect a simple ordered sequence of strings:
//
//	POSITION: <position> at <company> (<time_period>)
//	• <achievement>
//
// The projection is pure; it never modifies the dataset.
func Flatten(d *ResumeDataset) []string {
	if d == nil {
		return []string{}
	}

	lines := make([]string, 0, len(d.BulletPoints)*4)
	for _, job := range d.BulletPoints {
		header := fmt.Sprintf("POSITION: %s at %s", job.Position, job.Company)
		if job.TimePeriod != "" {
			header = fmt.Sprintf("%s (%s)", header, job.TimePeriod)
		}
		lines = append(lines, header)
		for _, achievement := range job.Achievements {
			lines = append(lines, "• "+achievement)
		}
	}
	return lines
}
