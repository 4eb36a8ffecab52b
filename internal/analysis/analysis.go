// Package analysis classifies confession text into a structured record:
// mood, topic tags, virality, expected engagement, writing quality, crisis
// level and writing suggestions.
package analysis

import "context"

// Mood is the dominant emotional tone detected in a confession.
type Mood string

const (
	MoodHappy      Mood = "happy"
	MoodSad        Mood = "sad"
	MoodAnxious    Mood = "anxious"
	MoodAngry      Mood = "angry"
	MoodExcited    Mood = "excited"
	MoodFrustrated Mood = "frustrated"
	MoodHopeful    Mood = "hopeful"
	MoodNeutral    Mood = "neutral"
)

var moods = map[Mood]bool{
	MoodHappy: true, MoodSad: true, MoodAnxious: true, MoodAngry: true,
	MoodExcited: true, MoodFrustrated: true, MoodHopeful: true, MoodNeutral: true,
}

// ParseMood returns the mood named by s, or MoodNeutral when s is unknown.
func ParseMood(s string) Mood {
	if m, ok := LookupMood(s); ok {
		return m
	}
	return MoodNeutral
}

// LookupMood reports whether s names a known mood.
func LookupMood(s string) (Mood, bool) {
	m := Mood(s)
	return m, moods[m]
}

// EngagementPrediction buckets the viral score.
type EngagementPrediction string

const (
	EngagementHigh   EngagementPrediction = "high"
	EngagementMedium EngagementPrediction = "medium"
	EngagementLow    EngagementPrediction = "low"
)

// CrisisLevel is the heuristic severity of self-harm language in a text.
type CrisisLevel string

const (
	CrisisNone   CrisisLevel = "none"
	CrisisMedium CrisisLevel = "medium"
	CrisisHigh   CrisisLevel = "high"
	// CrisisCritical is never produced by the keyword classifier; model-backed
	// analyzers and the routing policy understand it.
	CrisisCritical CrisisLevel = "critical"
)

// Rank orders crisis levels from none (0) to critical (3).
func (l CrisisLevel) Rank() int {
	switch l {
	case CrisisMedium:
		return 1
	case CrisisHigh:
		return 2
	case CrisisCritical:
		return 3
	default:
		return 0
	}
}

// ParseCrisisLevel maps s onto a known level; unknown values are CrisisNone.
func ParseCrisisLevel(s string) CrisisLevel {
	switch l := CrisisLevel(s); l {
	case CrisisMedium, CrisisHigh, CrisisCritical:
		return l
	default:
		return CrisisNone
	}
}

// ContentAnalysis is the structured result of classifying a confession.
type ContentAnalysis struct {
	Mood                 Mood                 `json:"mood"`
	Tags                 []string             `json:"tags"`
	ViralScore           float64              `json:"viral_score"`
	EngagementPrediction EngagementPrediction `json:"engagement_prediction"`
	ContentQuality       int                  `json:"content_quality"`
	CrisisLevel          CrisisLevel          `json:"crisis_level"`
	Suggestions          []string             `json:"suggestions"`
}

// Analyzer produces a ContentAnalysis for a text. A nil analysis with a nil
// error means the text was too short to analyze.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*ContentAnalysis, error)
}
