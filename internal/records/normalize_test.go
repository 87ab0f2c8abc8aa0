package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripBulletMarker(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Round bullet", "• Did X", "Did X"},
		{"Dash bullet", "- Did X", "Did X"},
		{"Asterisk bullet", "* Did X", "Did X"},
		{"Numeric dot prefix", "1. Did X", "Did X"},
		{"Numeric paren prefix", "2) Did X", "Did X"},
		{"Doubled marker", "•• Did X", "Did X"},
		{"Stacked markers with whitespace", "• - Did X", "Did X"},
		{"Numeric then symbol marker", "1. • Did X", "Did X"},
		{"No marker", "Did X", "Did X"},
		{"Leading whitespace", "   • Did X  ", "Did X"},
		{"Year range untouched", "2020 - 2022 led migrations", "2020 - 2022 led migrations"},
		{"Empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripBulletMarker(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	input := &ResumeDataset{
		BulletPoints: []JobRecord{
			{
				Company:      "  Acme  ",
				Position:     "Eng",
				TimePeriod:   "2020-2022 ",
				Achievements: []string{"• Did X", "Did Y", "  ", "- Did Z"},
			},
			{
				Position: "Analyst",
				// Achievements intentionally nil
			},
		},
	}

	result := Normalize(input)
	require.Len(t, result.BulletPoints, 2)

	first := result.BulletPoints[0]
	assert.Equal(t, "Acme", first.Company)
	assert.Equal(t, "2020-2022", first.TimePeriod)
	assert.Equal(t, []string{"Did X", "Did Y", "Did Z"}, first.Achievements)

	second := result.BulletPoints[1]
	assert.Equal(t, "", second.Company)
	assert.NotNil(t, second.Achievements, "achievements must never be nil after normalization")
	assert.Empty(t, second.Achievements)

	// Input must not be mutated.
	assert.Equal(t, "  Acme  ", input.BulletPoints[0].Company)
	assert.Equal(t, "• Did X", input.BulletPoints[0].Achievements[0])
}

func TestNormalizeIdempotent(t *testing.T) {
	input := &ResumeDataset{
		BulletPoints: []JobRecord{
			{Company: "Acme ", Position: " Eng", Achievements: []string{"• Did X", "2. Did Y", "• - Did Z"}},
		},
	}

	once := Normalize(input)
	twice := Normalize(once)
	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"Did X", "Did Y", "Did Z"}, once.BulletPoints[0].Achievements)
}

func TestNormalizeNil(t *testing.T) {
	result := Normalize(nil)
	require.NotNil(t, result)
	assert.Empty(t, result.BulletPoints)
}

func TestFlatten(t *testing.T) {
	dataset := &ResumeDataset{
		BulletPoints: []JobRecord{
			{
				Company:      "Acme",
				Position:     "Eng",
				TimePeriod:   "2020-2022",
				Achievements: []string{"Did X", "Did Y"},
			},
			{
				Company:      "Globex",
				Position:     "Analyst",
				Achievements: []string{"Did Z"},
			},
		},
	}

	flat := Flatten(dataset)
	expected := []string{
		"POSITION: Eng at Acme (2020-2022)",
		"• Did X",
		"• Did Y",
		"POSITION: Analyst at Globex",
		"• Did Z",
	}
	assert.Equal(t, expected, flat)
}

func TestDatasetEmptiness(t *testing.T) {
	var nilDataset *ResumeDataset
	assert.True(t, nilDataset.IsEmpty())

	empty := &ResumeDataset{BulletPoints: []JobRecord{{Company: "Acme"}}}
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, 0, empty.AchievementCount())

	populated := &ResumeDataset{
		BulletPoints: []JobRecord{{Achievements: []string{"Did X", "Did Y"}}},
	}
	assert.False(t, populated.IsEmpty())
	assert.Equal(t, 2, populated.AchievementCount())
}
