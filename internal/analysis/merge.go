package analysis

import (
	"math"
	"strings"
)

// Merge folds a model-produced analysis into the heuristic one. The crisis
// level never drops below the heuristic level, tags are restricted to the
// vocabulary and scores are clamped to their ranges.
func Merge(base, refined *ContentAnalysis) *ContentAnalysis {
	if refined == nil {
		return base
	}
	if base == nil {
		base = &ContentAnalysis{Mood: MoodNeutral, CrisisLevel: CrisisNone, EngagementPrediction: EngagementLow}
	}

	out := *base
	// A missing or unrecognized model mood keeps the keyword mood.
	if m, ok := LookupMood(string(refined.Mood)); ok {
		out.Mood = m
	}
	if tags := normalizeTags(refined.Tags); len(tags) > 0 {
		out.Tags = tags
	}
	if refined.ViralScore > 0 {
		out.ViralScore = math.Max(0, math.Min(refined.ViralScore, 1))
		out.EngagementPrediction = PredictEngagement(out.ViralScore)
	}
	if refined.ContentQuality > 0 {
		out.ContentQuality = min(refined.ContentQuality, 100)
	}
	if lvl := ParseCrisisLevel(string(refined.CrisisLevel)); lvl.Rank() > out.CrisisLevel.Rank() {
		out.CrisisLevel = lvl
	}
	if len(refined.Suggestions) > 0 {
		out.Suggestions = refined.Suggestions
		if len(out.Suggestions) > 3 {
			out.Suggestions = out.Suggestions[:3]
		}
	}
	return &out
}

// normalizeTags keeps known vocabulary words, in vocabulary order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		seen[strings.ToLower(strings.TrimSpace(t))] = true
	}
	out := make([]string, 0, MaxTags)
	for _, v := range TagVocabulary {
		if seen[v] {
			out = append(out, v)
			if len(out) == MaxTags {
				break
			}
		}
	}
	return out
}
