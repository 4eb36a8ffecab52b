package primary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hush/internal/models"
	"hush/internal/store"

	"github.com/google/uuid"
)

const confessionColumns = `id, tx_id, content, is_public, author, mood, tags, crisis_level, analysis,
	gateway_url, verified, upvotes, downvotes, archive_key, timestamp_ms, created_at, updated_at`

// --- Confession Management ---

func (s *StoreImpl) CreateConfession(ctx context.Context, c *models.Confession) error {
	query := s.q(`
		INSERT INTO confessions (` + confessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	now := time.Now().UTC()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Author == "" {
		c.Author = models.DefaultAuthor
	}
	if c.Tags == nil {
		c.Tags = models.StringList{}
	}
	if c.Timestamp == 0 {
		c.Timestamp = now.UnixMilli()
	}
	c.CreatedAt, c.UpdatedAt = now, now

	var analysis any
	if len(c.Analysis) > 0 {
		analysis = c.Analysis.String()
	}

	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.TxID, c.Content, c.IsPublic, c.Author, c.Mood, c.Tags, c.CrisisLevel, analysis,
		c.GatewayURL, c.Verified, c.Upvotes, c.Downvotes, c.ArchiveKey, c.Timestamp, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("confession with tx id %s already exists: %w", c.TxID, store.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert confession: %w", err)
	}
	return nil
}

func (s *StoreImpl) GetConfession(ctx context.Context, id uuid.UUID) (*models.Confession, error) {
	query := s.q(`SELECT ` + confessionColumns + ` FROM confessions WHERE id = ?`)
	c := &models.Confession{}
	if err := s.db.GetContext(ctx, c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get confession %s: %w", id, err)
	}
	return c, nil
}

func (s *StoreImpl) GetConfessionByTxID(ctx context.Context, txID string) (*models.Confession, error) {
	query := s.q(`SELECT ` + confessionColumns + ` FROM confessions WHERE tx_id = ?`)
	c := &models.Confession{}
	if err := s.db.GetContext(ctx, c, query, txID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get confession by tx id '%s': %w", txID, err)
	}
	return c, nil
}

func (s *StoreImpl) ListPublicConfessions(ctx context.Context, limit, offset int) ([]*models.Confession, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := s.q(`SELECT ` + confessionColumns + ` FROM confessions
		WHERE is_public = ?
		ORDER BY timestamp_ms DESC, created_at DESC
		LIMIT ? OFFSET ?`)

	out := []*models.Confession{}
	if err := s.db.SelectContext(ctx, &out, query, true, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list public confessions: %w", err)
	}
	return out, nil
}

func (s *StoreImpl) ListTrendingConfessions(ctx context.Context, limit int) ([]*models.Confession, error) {
	if limit <= 0 {
		limit = 20
	}
	query := s.q(`SELECT ` + confessionColumns + ` FROM confessions
		WHERE is_public = ?
		ORDER BY upvotes DESC, timestamp_ms DESC
		LIMIT ?`)

	out := []*models.Confession{}
	if err := s.db.SelectContext(ctx, &out, query, true, limit); err != nil {
		return nil, fmt.Errorf("failed to list trending confessions: %w", err)
	}
	return out, nil
}

func (s *StoreImpl) UpdateConfessionAnalysis(ctx context.Context, id uuid.UUID, upd store.AnalysisUpdate) error {
	query := s.q(`UPDATE confessions
		SET mood = ?, tags = ?, crisis_level = ?, analysis = ?, updated_at = ?
		WHERE id = ?`)

	var analysis any
	if len(upd.Analysis) > 0 {
		analysis = upd.Analysis.String()
	}
	res, err := s.db.ExecContext(ctx, query,
		upd.Mood, models.StringList(upd.Tags), upd.CrisisLevel, analysis, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update analysis for confession %s: %w", id, err)
	}
	return requireAffected(res, id)
}

func (s *StoreImpl) SetArchiveKey(ctx context.Context, id uuid.UUID, key string) error {
	query := s.q(`UPDATE confessions SET archive_key = ?, updated_at = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query, key, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set archive key for confession %s: %w", id, err)
	}
	return requireAffected(res, id)
}

func requireAffected(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for confession %s: %w", id, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
