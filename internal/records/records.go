// Package records provides the structured job/achievement data model shared
// across the extraction pipeline.
package records

// JobRecord represents a single position with its achievement bullet points.
type JobRecord struct {
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	TimePeriod   string   `json:"time_period"`
	Achievements []string `json:"achievements"`
}

// ResumeDataset is the normalized collection of job records produced by the
// extraction pipeline.
type ResumeDataset struct {
	BulletPoints []JobRecord `json:"bullet_points"`
}

// IsEmpty reports whether the dataset carries no achievements at all.
// An explicitly empty dataset is a valid terminal state, distinct from a
// failed extraction.
func (d *ResumeDataset) IsEmpty() bool {
	if d == nil {
		return true
	}
	for _, job := range d.BulletPoints {
		if len(job.Achievements) > 0 {
			return false
		}
	}
	return true
}

// AchievementCount returns the total number of achievements across all jobs.
func (d *ResumeDataset) AchievementCount() int {
	if d == nil {
		return 0
	}
	count := 0
	for _, job := range d.BulletPoints {
		count += len(job.Achievements)
	}
	return count
}
