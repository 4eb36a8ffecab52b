// Package categorizer produces confession analyses with a language model.
// It is used by the background worker to refine the keyword analysis
// recorded at submission time.
package categorizer

import "context"

// Completer sends a prompt to a model and returns the raw text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// DefaultPrompt asks the model for a JSON analysis. {{TEXT}}, {{MOODS}} and
// {{TAGS}} are substituted before sending.
const DefaultPrompt = `You review anonymous confessions for an encrypted confession board.
Analyze the confession below and reply with one JSON object and nothing else:
{
  "mood": one of [{{MOODS}}],
  "tags": up to 3 of [{{TAGS}}],
  "viral_score": number between 0 and 1,
  "content_quality": integer between 0 and 100,
  "crisis_level": one of ["none", "medium", "high", "critical"],
  "suggestions": up to 3 short writing suggestions
}
Use "critical" only for explicit, imminent self-harm intent.

Confession:
{{TEXT}}`
