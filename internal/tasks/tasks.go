package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// TypeAnalysisRefine re-analyzes a stored confession with a language model.
	TypeAnalysisRefine = "analysis:refine"

	QueueAnalysis = "analysis"
)

// AnalysisRefinePayload is the payload of TypeAnalysisRefine.
type AnalysisRefinePayload struct {
	ConfessionID uuid.UUID `json:"confession_id"`
}

func NewAnalysisRefineTask(confessionID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(AnalysisRefinePayload{ConfessionID: confessionID})
	if err != nil {
		return nil, fmt.Errorf("marshal refine payload: %w", err)
	}
	return asynq.NewTask(TypeAnalysisRefine, payload), nil
}

// ParseAnalysisRefinePayload decodes a refine task payload.
func ParseAnalysisRefinePayload(b []byte) (AnalysisRefinePayload, error) {
	var p AnalysisRefinePayload
	if err := json.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("unmarshal refine payload: %w", err)
	}
	if p.ConfessionID == uuid.Nil {
		return p, fmt.Errorf("refine payload missing confession_id")
	}
	return p, nil
}
