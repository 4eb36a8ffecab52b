package store

import (
	"context"

	"hush/internal/models"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx/types"
)

// --- Job Client ---

type JobClient interface {
	// Enqueue records the task against the related entity once queued.
	Enqueue(ctx context.Context, task *asynq.Task, relatedEntityType, relatedEntityID string, opts ...asynq.Option) (*asynq.TaskInfo, error)
	EnqueueRefineJob(ctx context.Context, confessionID uuid.UUID) error
	Close() error
}

// --- Confession Store ---

// AnalysisUpdate replaces the stored analysis of a confession.
type AnalysisUpdate struct {
	Mood        string
	Tags        []string
	CrisisLevel string
	Analysis    types.JSONText
}

type ConfessionStore interface {
	CreateConfession(ctx context.Context, c *models.Confession) error
	GetConfession(ctx context.Context, id uuid.UUID) (*models.Confession, error)
	GetConfessionByTxID(ctx context.Context, txID string) (*models.Confession, error)
	// ListPublicConfessions returns public confessions, newest first.
	ListPublicConfessions(ctx context.Context, limit, offset int) ([]*models.Confession, error)
	// ListTrendingConfessions returns public confessions ordered by upvotes.
	ListTrendingConfessions(ctx context.Context, limit int) ([]*models.Confession, error)
	UpdateConfessionAnalysis(ctx context.Context, id uuid.UUID, upd AnalysisUpdate) error
	SetArchiveKey(ctx context.Context, id uuid.UUID, key string) error

	Ping(ctx context.Context) error
}

// --- Vote Store ---

type VoteStore interface {
	// RecordVote stores the vote and bumps the confession's counters in one
	// transaction. A second vote by the same user returns ErrDuplicate.
	RecordVote(ctx context.Context, v *models.Vote) error
	CountVotes(ctx context.Context, confessionID uuid.UUID) (upvotes, downvotes int, err error)
}

// --- Job Store ---

// JobRecordParams holds parameters for recording a job event.
type JobRecordParams struct {
	JobID             string
	TaskType          string
	Payload           []byte
	Queue             string
	Status            string
	RelatedEntityType string
	RelatedEntityID   string
}

type JobStore interface {
	RecordJobEnqueue(ctx context.Context, params JobRecordParams) error
	UpdateJobStatus(ctx context.Context, jobID, status string) error
	ListJobs(ctx context.Context, limit, offset int) ([]*models.BackgroundJob, error)
}
