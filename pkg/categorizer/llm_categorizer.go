package categorizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"hush/internal/analysis"

	log "github.com/sirupsen/logrus"
)

// LLMAnalyzer implements analysis.Analyzer on top of a Completer. Its
// output is raw model opinion; callers combine it with the keyword result
// using analysis.Merge.
type LLMAnalyzer struct {
	completer      Completer
	promptTemplate string
}

// NewLLMAnalyzer returns an analyzer using prompt, or DefaultPrompt when
// prompt is empty.
func NewLLMAnalyzer(completer Completer, prompt string) *LLMAnalyzer {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultPrompt
	}
	return &LLMAnalyzer{completer: completer, promptTemplate: prompt}
}

// Name reports the provider behind the analyzer.
func (a *LLMAnalyzer) Name() string {
	if a.completer == nil {
		return "none"
	}
	return a.completer.Name()
}

func (a *LLMAnalyzer) buildPrompt(text string) string {
	moods := []string{"happy", "sad", "anxious", "angry", "excited", "frustrated", "hopeful", "neutral"}
	r := strings.NewReplacer(
		"{{MOODS}}", quoteJoin(moods),
		"{{TAGS}}", quoteJoin(analysis.TagVocabulary),
		"{{TEXT}}", text,
	)
	return r.Replace(a.promptTemplate)
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = `"` + s + `"`
	}
	return strings.Join(quoted, ", ")
}

type modelReply struct {
	Mood           string   `json:"mood"`
	Tags           []string `json:"tags"`
	ViralScore     float64  `json:"viral_score"`
	ContentQuality int      `json:"content_quality"`
	CrisisLevel    string   `json:"crisis_level"`
	Suggestions    []string `json:"suggestions"`
}

// Analyze asks the model for an analysis of text. Texts shorter than
// analysis.MinAnalysisLength are not sent and yield nil.
func (a *LLMAnalyzer) Analyze(ctx context.Context, text string) (*analysis.ContentAnalysis, error) {
	if utf8.RuneCountInString(text) < analysis.MinAnalysisLength {
		return nil, nil
	}
	if a.completer == nil {
		return nil, fmt.Errorf("LLM analyzer is not initialized with a completion client")
	}

	content, err := a.completer.Complete(ctx, a.buildPrompt(text))
	if err != nil {
		return nil, err
	}
	content = stripCodeFence(content)

	var parsed modelReply
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response as JSON: %w\nResponse content: %s", err, content)
	}
	log.WithFields(log.Fields{"provider": a.Name(), "mood": parsed.Mood, "crisis_level": parsed.CrisisLevel}).Debug("Model analysis received")

	// Mood stays empty when the model omits it or names an unknown one.
	mood, ok := analysis.LookupMood(strings.ToLower(strings.TrimSpace(parsed.Mood)))
	if !ok {
		mood = ""
	}
	return &analysis.ContentAnalysis{
		Mood:           mood,
		Tags:           parsed.Tags,
		ViralScore:     parsed.ViralScore,
		ContentQuality: parsed.ContentQuality,
		CrisisLevel:    analysis.ParseCrisisLevel(strings.ToLower(strings.TrimSpace(parsed.CrisisLevel))),
		Suggestions:    parsed.Suggestions,
	}, nil
}

// stripCodeFence removes a surrounding markdown code fence, which some
// models add despite being asked for bare JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var _ analysis.Analyzer = (*LLMAnalyzer)(nil)
