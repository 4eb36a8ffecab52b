package primary

import (
	"context"
	"fmt"
	"time"

	"hush/internal/models"
	"hush/internal/store"

	"github.com/google/uuid"
)

// --- Votes ---

func (s *StoreImpl) RecordVote(ctx context.Context, v *models.Vote) error {
	counter := "downvotes"
	if v.VoteType == models.VoteUp {
		counter = "upvotes"
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin vote transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO votes (id, confession_id, user_id, vote_type, created_at)
		VALUES (?, ?, ?, ?, ?)`),
		v.ID, v.ConfessionID, v.UserID, v.VoteType, v.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s already voted on %s: %w", v.UserID, v.ConfessionID, store.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return store.ErrNotFound
		}
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE confessions SET `+counter+` = `+counter+` + 1, updated_at = ? WHERE id = ?`),
		v.CreatedAt, v.ConfessionID)
	if err != nil {
		return fmt.Errorf("failed to update vote counters: %w", err)
	}
	if err := requireAffected(res, v.ConfessionID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vote: %w", err)
	}
	return nil
}

func (s *StoreImpl) CountVotes(ctx context.Context, confessionID uuid.UUID) (int, int, error) {
	query := s.q(`SELECT
		COALESCE(SUM(CASE WHEN vote_type = 'upvote' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN vote_type = 'downvote' THEN 1 ELSE 0 END), 0)
		FROM votes WHERE confession_id = ?`)
	var up, down int
	if err := s.db.QueryRowxContext(ctx, query, confessionID).Scan(&up, &down); err != nil {
		return 0, 0, fmt.Errorf("failed to count votes for %s: %w", confessionID, err)
	}
	return up, down, nil
}
