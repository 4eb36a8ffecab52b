package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

// Confession is a stored record of an uploaded confession.
type Confession struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	TxID        string         `db:"tx_id" json:"tx_id"`
	Content     string         `db:"content" json:"content"`
	IsPublic    bool           `db:"is_public" json:"is_public"`
	Author      string         `db:"author" json:"author"`
	Mood        string         `db:"mood" json:"mood"`
	Tags        StringList     `db:"tags" json:"tags"`
	CrisisLevel string         `db:"crisis_level" json:"crisis_level"`
	Analysis    types.JSONText `db:"analysis" json:"analysis,omitempty"`
	GatewayURL  string         `db:"gateway_url" json:"gateway_url"`
	Verified    bool           `db:"verified" json:"verified"`
	Upvotes     int            `db:"upvotes" json:"upvotes"`
	Downvotes   int            `db:"downvotes" json:"downvotes"`
	ArchiveKey  *string        `db:"archive_key" json:"archive_key,omitempty"`
	Timestamp   int64          `db:"timestamp_ms" json:"timestamp"` // unix milliseconds
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// Vote is one user's vote on a confession.
type Vote struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ConfessionID uuid.UUID `db:"confession_id" json:"confession_id"`
	UserID       string    `db:"user_id" json:"user_id"`
	VoteType     string    `db:"vote_type" json:"vote_type"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// BackgroundJob mirrors the background_jobs table.
type BackgroundJob struct {
	ID                int64          `db:"id"`
	JobID             string         `db:"job_id"` // Asynq task ID
	TaskType          string         `db:"task_type"`
	Payload           types.JSONText `db:"payload"`
	Queue             string         `db:"queue"`
	Status            string         `db:"status"`
	RelatedEntityType *string        `db:"related_entity_type"`
	RelatedEntityID   *string        `db:"related_entity_id"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}
