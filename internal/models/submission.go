package models

import "time"

const (
	// ScoreMin and ScoreMax bound each rubric criterion.
	ScoreMin = 1
	ScoreMax = 10

	// MaxNameLength limits the participant name accepted on the entry form.
	MaxNameLength = 70

	// TimestampLayout is the wall-clock format persisted with every entry.
	TimestampLayout = "2006-01-02 15:04:05"
)

// Submission is one persisted contest entry. Field order defines the column
// order of the backing CSV file and must not be rearranged.
type Submission struct {
	Timestamp      string `csv:"timestamp" json:"timestamp"`
	Name           string `csv:"name" json:"name"`
	Prompt         string `csv:"prompt" json:"prompt"`
	Image          string `csv:"image" json:"image"`
	Creativity     int    `csv:"creativity" json:"creativity"`
	ThemeRelevance int    `csv:"theme_relevance" json:"theme_relevance"`
	VisionQuality  int    `csv:"vision_quality" json:"vision_quality"`
	TotalScore     int    `csv:"total_score" json:"total_score"`
	Feedback       string `csv:"feedback" json:"feedback"`
}

// Time parses the persisted timestamp using the local clock's zone. The zero
// time is returned for unparseable values so callers can still sort.
func (s Submission) Time() time.Time {
	t, err := time.ParseInLocation(TimestampLayout, s.Timestamp, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
