package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hush/internal/analysis"
	"hush/internal/metrics"
	"hush/internal/models"
	"hush/internal/store"
	"hush/internal/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
)

// ConfessionFetcher loads a confession by id.
type ConfessionFetcher interface {
	GetConfession(ctx context.Context, id uuid.UUID) (*models.Confession, error)
}

// AnalysisUpdater stores a refined analysis.
type AnalysisUpdater interface {
	UpdateConfessionAnalysis(ctx context.Context, id uuid.UUID, upd store.AnalysisUpdate) error
}

// NamedAnalyzer is an Analyzer that reports its provider.
type NamedAnalyzer interface {
	analysis.Analyzer
	Name() string
}

type RefineDeps struct {
	Fetcher  ConfessionFetcher
	Updater  AnalysisUpdater
	Refiner  NamedAnalyzer
	JobStore store.JobStore // optional
}

// HandleAnalysisRefineJob returns the handler for tasks.TypeAnalysisRefine.
// The refined analysis is merged onto the keyword analysis, so a model can
// raise but never lower the crisis level.
func HandleAnalysisRefineJob(deps RefineDeps) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		payload, err := tasks.ParseAnalysisRefinePayload(t.Payload())
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		taskID, _ := asynq.GetTaskID(ctx)
		logger := log.WithFields(log.Fields{"task_id": taskID, "confession_id": payload.ConfessionID})
		setStatus(ctx, deps.JobStore, taskID, models.JobStatusRunning)

		c, err := deps.Fetcher.GetConfession(ctx, payload.ConfessionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				logger.Warn("Confession no longer exists; skipping refinement")
				setStatus(ctx, deps.JobStore, taskID, models.JobStatusSkipped)
				return fmt.Errorf("confession %s not found: %w", payload.ConfessionID, asynq.SkipRetry)
			}
			setStatus(ctx, deps.JobStore, taskID, models.JobStatusFailed)
			return fmt.Errorf("failed to load confession %s: %w", payload.ConfessionID, err)
		}

		refined, err := deps.Refiner.Analyze(ctx, c.Content)
		if err != nil {
			metrics.Refinements.WithLabelValues(deps.Refiner.Name(), "error").Inc()
			setStatus(ctx, deps.JobStore, taskID, models.JobStatusFailed)
			return fmt.Errorf("refine analysis of confession %s: %w", payload.ConfessionID, err)
		}
		if refined == nil {
			logger.Debug("Confession too short to refine")
			setStatus(ctx, deps.JobStore, taskID, models.JobStatusSkipped)
			return nil
		}

		merged := analysis.Merge(baseAnalysis(c), refined)
		raw, err := json.Marshal(merged)
		if err != nil {
			setStatus(ctx, deps.JobStore, taskID, models.JobStatusFailed)
			return fmt.Errorf("encode refined analysis: %w", err)
		}
		upd := store.AnalysisUpdate{
			Mood:        string(merged.Mood),
			Tags:        merged.Tags,
			CrisisLevel: string(merged.CrisisLevel),
			Analysis:    raw,
		}
		if err := deps.Updater.UpdateConfessionAnalysis(ctx, c.ID, upd); err != nil {
			setStatus(ctx, deps.JobStore, taskID, models.JobStatusFailed)
			return fmt.Errorf("store refined analysis: %w", err)
		}

		metrics.Refinements.WithLabelValues(deps.Refiner.Name(), "success").Inc()
		setStatus(ctx, deps.JobStore, taskID, models.JobStatusCompleted)
		logger.WithFields(log.Fields{"mood": merged.Mood, "crisis_level": merged.CrisisLevel}).Info("Analysis refined")
		return nil
	}
}

// baseAnalysis is the stored analysis, or a fresh keyword analysis when the
// stored one is missing or unreadable.
func baseAnalysis(c *models.Confession) *analysis.ContentAnalysis {
	if len(c.Analysis) > 0 {
		var ca analysis.ContentAnalysis
		if err := json.Unmarshal(c.Analysis, &ca); err == nil {
			return &ca
		}
	}
	return analysis.Analyze(c.Content)
}

func setStatus(ctx context.Context, js store.JobStore, taskID, status string) {
	if js == nil || taskID == "" {
		return
	}
	if err := js.UpdateJobStatus(ctx, taskID, status); err != nil && !errors.Is(err, store.ErrNotFound) {
		log.WithError(err).WithField("task_id", taskID).Warn("Failed to update job status")
	}
}

// RegisterHandlers registers every task handler on mux.
func RegisterHandlers(mux *asynq.ServeMux, deps RefineDeps) {
	log.Infof("Registering handler for %s", tasks.TypeAnalysisRefine)
	mux.HandleFunc(tasks.TypeAnalysisRefine, HandleAnalysisRefineJob(deps))
}
