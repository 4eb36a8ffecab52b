package analysis

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"
)

// MinAnalysisLength is the shortest text (in characters) worth analyzing.
const MinAnalysisLength = 10

// MaxTags caps the number of topic tags attached to an analysis.
const MaxTags = 3

const (
	SuggestMoreDetail  = "Consider adding more detail to increase engagement"
	SuggestPunctuation = "Add emotion with punctuation to make it more engaging"
	SuggestLonger      = "Longer confessions tend to get more responses"
)

// TagVocabulary is the fixed topic vocabulary, in scan order.
var TagVocabulary = []string{"life", "love", "work", "family", "friends", "health", "money", "school", "relationship"}

type moodGroup struct {
	mood     Mood
	keywords []string
}

// First matching group wins.
var moodGroups = []moodGroup{
	{MoodHappy, []string{"happy", "joy", "excited"}},
	{MoodSad, []string{"sad", "cry", "depressed"}},
	{MoodAnxious, []string{"anxious", "worried", "nervous"}},
	{MoodAngry, []string{"angry", "mad", "furious"}},
	{MoodHopeful, []string{"hope", "optimistic", "positive"}},
	{MoodFrustrated, []string{"frustrated", "annoyed"}},
}

var emotionalWords = []string{"amazing", "terrible", "incredible", "shocking", "unbelievable"}

var (
	crisisPhrases  = []string{"suicide", "kill myself", "end it all", "can't go on", "self harm"}
	warningPhrases = []string{"depressed", "hopeless", "worthless", "alone", "empty"}
)

// HeuristicAnalyzer is the keyword-based Analyzer. It never returns an error.
type HeuristicAnalyzer struct{}

// NewHeuristicAnalyzer returns the keyword-based analyzer.
func NewHeuristicAnalyzer() *HeuristicAnalyzer {
	return &HeuristicAnalyzer{}
}

func (HeuristicAnalyzer) Analyze(_ context.Context, text string) (*ContentAnalysis, error) {
	return Analyze(text), nil
}

var _ Analyzer = (*HeuristicAnalyzer)(nil)

// Analyze classifies text, returning nil when it is shorter than
// MinAnalysisLength.
func Analyze(text string) *ContentAnalysis {
	if utf8.RuneCountInString(text) < MinAnalysisLength {
		return nil
	}
	a := Classify(text)
	return &a
}

// Classify runs every heuristic over text. It is a pure function of its input.
func Classify(text string) ContentAnalysis {
	score := ViralScore(text)
	return ContentAnalysis{
		Mood:                 DetectMood(text),
		Tags:                 ExtractTags(text),
		ViralScore:           score,
		EngagementPrediction: PredictEngagement(score),
		ContentQuality:       ContentQuality(text),
		CrisisLevel:          DetectCrisis(text),
		Suggestions:          Suggestions(text),
	}
}

// DetectMood returns the mood of the first keyword group found in text.
func DetectMood(text string) Mood {
	lower := strings.ToLower(text)
	for _, g := range moodGroups {
		if containsAny(lower, g.keywords) {
			return g.mood
		}
	}
	return MoodNeutral
}

// ExtractTags returns up to MaxTags vocabulary words contained in text.
func ExtractTags(text string) []string {
	lower := strings.ToLower(text)
	tags := make([]string, 0, MaxTags)
	for _, tag := range TagVocabulary {
		if strings.Contains(lower, tag) {
			tags = append(tags, tag)
			if len(tags) == MaxTags {
				break
			}
		}
	}
	return tags
}

// ViralScore estimates shareability in [0,1].
func ViralScore(text string) float64 {
	score := 0.0
	n := utf8.RuneCountInString(text)
	if n > 100 && n < 200 {
		score += 0.3
	}

	lower := strings.ToLower(text)
	for _, w := range emotionalWords {
		if strings.Contains(lower, w) {
			score += 0.2
		}
	}

	if strings.Contains(text, "?") {
		score += 0.1
	}
	// Personal pronouns are matched case-sensitively.
	if strings.Contains(text, "I ") || strings.Contains(text, "my ") {
		score += 0.2
	}

	return math.Min(score, 1)
}

// PredictEngagement thresholds a viral score.
func PredictEngagement(score float64) EngagementPrediction {
	switch {
	case score > 0.7:
		return EngagementHigh
	case score > 0.4:
		return EngagementMedium
	default:
		return EngagementLow
	}
}

// DetectCrisis scans for crisis phrases first; they take precedence over
// warning phrases.
func DetectCrisis(text string) CrisisLevel {
	lower := strings.ToLower(text)
	if containsAny(lower, crisisPhrases) {
		return CrisisHigh
	}
	if containsAny(lower, warningPhrases) {
		return CrisisMedium
	}
	return CrisisNone
}

// ContentQuality scores length, punctuation and word count in [0,100].
func ContentQuality(text string) int {
	score := 0
	n := utf8.RuneCountInString(text)
	if n > 50 {
		score += 25
	}
	if n > 100 {
		score += 25
	}
	if strings.ContainsAny(text, ".!?") {
		score += 25
	}
	if len(strings.Fields(text)) > 10 {
		score += 25
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Suggestions lists writing tips for text, in a fixed order.
func Suggestions(text string) []string {
	out := []string{}
	if utf8.RuneCountInString(text) < 50 {
		out = append(out, SuggestMoreDetail)
	}
	if !strings.ContainsAny(text, "?!") {
		out = append(out, SuggestPunctuation)
	}
	if len(strings.Fields(text)) < 5 {
		out = append(out, SuggestLonger)
	}
	return out
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
