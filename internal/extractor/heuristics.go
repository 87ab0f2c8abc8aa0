package extractor

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/hikinghacker/resume-improvement-api/internal/records"
)

// Defaults applied when a position header cannot be fully parsed.
const (
	defaultPosition = "Unknown Position"
	defaultCompany  = "Unknown Company"
)

// lineKind classifies a single line of raw text.
type lineKind int

const (
	lineUnknown lineKind = iota
	lineJSONNoise
	lineSectionHeader
	linePositionHeader
	lineAchievement
	lineSkills
	lineTimeframe
)

// classifiedLine pairs a raw line with its kind and, for position headers,
// the parsed fields.
type classifiedLine struct {
	kind lineKind
	text string
	position
}

// position holds fields parsed from a position-header line.
type position struct {
	company    string
	role       string
	timePeriod string
}

// classifyLine applies the heuristic rules in priority order.
func classifyLine(line string) classifiedLine {
	switch {
	case isJSONNoise(line):
		return classifiedLine{kind: lineJSONNoise, text: line}
	case isSectionHeader(line):
		return classifiedLine{kind: lineSectionHeader, text: line}
	case isPositionHeader(line):
		return classifiedLine{kind: linePositionHeader, text: line, position: parsePositionHeader(line)}
	case isAchievementLine(line):
		return classifiedLine{kind: lineAchievement, text: line}
	case isSkillsLine(line):
		return classifiedLine{kind: lineSkills, text: line}
	case isTimeframeLine(line):
		return classifiedLine{kind: lineTimeframe, text: line}
	default:
		return classifiedLine{kind: lineUnknown, text: line}
	}
}

// --- Rule predicates ---
//
// Each rule is an independent function so it can be tested on its own.

// jsonNoiseChars are the characters a pure JSON-punctuation line consists of.
const jsonNoiseChars = "{}[]\",:"

// isJSONNoise reports whether a line is pure JSON punctuation.
func isJSONNoise(line string) bool {
	seen := false
	for _, r := range line {
		if unicode.IsSpace(r) {
			continue
		}
		if !strings.ContainsRune(jsonNoiseChars, r) {
			return false
		}
		seen = true
	}
	return seen
}

// isSectionHeader reports whether a line is an all-caps section header
// longer than three characters.
func isSectionHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) <= 3 {
		return false
	}
	hasLetter := false
	for _, r := range trimmed {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// isPositionHeader reports whether a line looks like a position/company
// header: it contains a pipe or " at " and is not itself a bullet.
func isPositionHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	if hasBulletPrefix(trimmed) {
		return false
	}
	return strings.Contains(trimmed, "|") || strings.Contains(trimmed, " at ")
}

var numericBulletPrefix = regexp.MustCompile(`^\d+[.)]\s`)

// hasBulletPrefix reports whether a line starts with a bullet marker.
func hasBulletPrefix(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "•") ||
		strings.HasPrefix(trimmed, "-") ||
		strings.HasPrefix(trimmed, "*") {
		return true
	}
	return numericBulletPrefix.MatchString(trimmed)
}

// isAchievementLine reports whether a line is a bulleted achievement.
func isAchievementLine(line string) bool {
	return hasBulletPrefix(line)
}

// maxSkillsLineLen bounds how long a comma-separated skills line can be.
const maxSkillsLineLen = 120

// isSkillsLine reports whether a line looks like a comma-separated skills
// list: contains commas, no sentence punctuation, and is short.
func isSkillsLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > maxSkillsLineLen {
		return false
	}
	return strings.Contains(trimmed, ",") && !strings.Contains(trimmed, ".")
}

// timeframePattern matches year ranges like "2020 - 2022" or "2019-present".
var timeframePattern = regexp.MustCompile(`(?i)\b(19|20)\d{2}\s*[-–]\s*((19|20)\d{2}|present)\b`)

// isTimeframeLine reports whether a line consists of a year-range pattern.
func isTimeframeLine(line string) bool {
	return timeframePattern.MatchString(strings.TrimSpace(line))
}

// positionAtPattern parses "<position> at <company> (<time_period>)".
var positionAtPattern = regexp.MustCompile(`^(.*?)\s+at\s+(.*?)(?:\s*\((.*?)\))?\s*$`)

// parsePositionHeader extracts position/company/time period from a header
// line, applying defaults for anything unparseable.
func parsePositionHeader(line string) position {
	trimmed := strings.TrimSpace(line)

	if strings.Contains(trimmed, "|") {
		parts := strings.Split(trimmed, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		parsed := position{role: defaultPosition, company: defaultCompany}
		if len(parts) > 0 && parts[0] != "" {
			parsed.role = parts[0]
		}
		if len(parts) > 1 && parts[1] != "" {
			parsed.company = parts[1]
		}
		for _, part := range parts[2:] {
			if timeframePattern.MatchString(part) {
				parsed.timePeriod = part
				break
			}
		}
		return parsed
	}

	if match := positionAtPattern.FindStringSubmatch(trimmed); match != nil {
		parsed := position{
			role:       strings.TrimSpace(match[1]),
			company:    strings.TrimSpace(match[2]),
			timePeriod: strings.TrimSpace(match[3]),
		}
		if parsed.role == "" {
			parsed.role = defaultPosition
		}
		if parsed.company == "" {
			parsed.company = defaultCompany
		}
		return parsed
	}

	return position{role: defaultPosition, company: defaultCompany}
}

// extractHeuristicLines rebuilds job records line by line. It succeeds when
// at least one bulleted achievement was captured.
func extractHeuristicLines(raw string) (*records.ResumeDataset, bool) {
	var (
		jobs           []records.JobRecord
		currentIdx     = -1
		skillsIdx      = -1
		currentSection string
		achievements   int
	)

	ensureCurrent := func() {
		if currentIdx < 0 {
			jobs = append(jobs, records.JobRecord{
				Company:  defaultCompany,
				Position: defaultPosition,
			})
			currentIdx = len(jobs) - 1
		}
	}

	for _, rawLine := range strings.Split(raw, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		classified := classifyLine(line)
		switch classified.kind {
		case lineJSONNoise, lineUnknown:
			// Dropped.
		case lineSectionHeader:
			currentSection = line
		case linePositionHeader:
			jobs = append(jobs, records.JobRecord{
				Company:    classified.company,
				Position:   classified.role,
				TimePeriod: classified.timePeriod,
			})
			currentIdx = len(jobs) - 1
		case lineAchievement:
			ensureCurrent()
			jobs[currentIdx].Achievements = append(jobs[currentIdx].Achievements, line)
			achievements++
		case lineSkills:
			if skillsIdx < 0 {
				label := sectionLabel(currentSection)
				jobs = append(jobs, records.JobRecord{Position: label})
				skillsIdx = len(jobs) - 1
			}
			jobs[skillsIdx].Achievements = append(jobs[skillsIdx].Achievements, line)
		case lineTimeframe:
			if currentIdx >= 0 && jobs[currentIdx].TimePeriod == "" {
				jobs[currentIdx].TimePeriod = line
			}
		}
	}

	if achievements == 0 {
		return nil, false
	}
	return &records.ResumeDataset{BulletPoints: jobs}, true
}

// sectionLabel turns an all-caps section header into a record label,
// falling back to "Skills" when no header was seen.
func sectionLabel(header string) string {
	trimmed := strings.TrimSpace(header)
	if trimmed == "" {
		return "Skills"
	}
	words := strings.Fields(strings.ToLower(trimmed))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
