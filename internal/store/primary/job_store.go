package primary

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hush/internal/models"
	"hush/internal/store"

	log "github.com/sirupsen/logrus"
)

// --- Job Store Implementation ---

// RecordJobEnqueue inserts a background_jobs row. Recording the same job
// twice is not an error.
func (s *StoreImpl) RecordJobEnqueue(ctx context.Context, params store.JobRecordParams) error {
	query := s.q(`
		INSERT INTO background_jobs (job_id, task_type, payload, queue, status, related_entity_type, related_entity_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (job_id) DO NOTHING`)

	payload := "{}"
	if len(params.Payload) > 0 {
		payload = string(params.Payload)
	}
	var relatedType, relatedID sql.NullString
	if params.RelatedEntityType != "" {
		relatedType = sql.NullString{String: params.RelatedEntityType, Valid: true}
	}
	if params.RelatedEntityID != "" {
		relatedID = sql.NullString{String: params.RelatedEntityID, Valid: true}
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, query,
		params.JobID, params.TaskType, payload, params.Queue, params.Status, relatedType, relatedID, now, now)
	if err != nil {
		return fmt.Errorf("failed to record job enqueue event for job %s: %w", params.JobID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Debugf("Job %s already recorded, skipping insertion", params.JobID)
	}
	return nil
}

// UpdateJobStatus updates the status of a job given its Asynq task ID.
func (s *StoreImpl) UpdateJobStatus(ctx context.Context, jobID, status string) error {
	query := s.q(`UPDATE background_jobs SET status = ?, updated_at = ? WHERE job_id = ?`)
	res, err := s.db.ExecContext(ctx, query, status, time.Now().UTC(), jobID)
	if err != nil {
		return fmt.Errorf("failed to update job status for job %s: %w", jobID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *StoreImpl) ListJobs(ctx context.Context, limit, offset int) ([]*models.BackgroundJob, error) {
	if limit <= 0 {
		limit = 50
	}
	query := s.q(`SELECT id, job_id, task_type, payload, queue, status, related_entity_type, related_entity_id, created_at, updated_at
		FROM background_jobs ORDER BY id DESC LIMIT ? OFFSET ?`)
	out := []*models.BackgroundJob{}
	if err := s.db.SelectContext(ctx, &out, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return out, nil
}

var (
	_ store.ConfessionStore = (*StoreImpl)(nil)
	_ store.VoteStore       = (*StoreImpl)(nil)
	_ store.JobStore        = (*StoreImpl)(nil)
)
