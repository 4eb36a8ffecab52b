package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"hush/internal/analysis"
	"hush/internal/crisis"
	"hush/internal/irys"
	"hush/internal/metrics"
	"hush/internal/models"
	"hush/internal/storage"
	"hush/internal/store"
	"hush/internal/uploader"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	MaxConfessionLength = 280

	DefaultPublicLimit   = 50
	DefaultTrendingLimit = 20

	msgEmptyContent   = "Confession content cannot be empty"
	msgContentTooLong = "Confession must be 280 characters or less"
	msgInvalidVote    = "Invalid vote type"
	msgPosted         = "Confession posted successfully!"
)

// Uploader stores a JSON payload on the durable network.
type Uploader interface {
	Upload(ctx context.Context, data any, tags []irys.Tag) (*uploader.Receipt, error)
}

type ConfessionServiceDeps struct {
	Confessions store.ConfessionStore
	Votes       store.VoteStore
	Jobs        store.JobClient // optional
	Uploader    Uploader
	Analyzer    analysis.Analyzer // defaults to the heuristic analyzer
	Archive     storage.Archive   // optional
	Now         func() time.Time
}

type ConfessionService struct {
	confessions store.ConfessionStore
	votes       store.VoteStore
	jobs        store.JobClient
	uploader    Uploader
	analyzer    analysis.Analyzer
	archive     storage.Archive
	now         func() time.Time
}

func NewConfessionService(deps ConfessionServiceDeps) *ConfessionService {
	s := &ConfessionService{
		confessions: deps.Confessions,
		votes:       deps.Votes,
		jobs:        deps.Jobs,
		uploader:    deps.Uploader,
		analyzer:    deps.Analyzer,
		archive:     deps.Archive,
		now:         deps.Now,
	}
	if s.analyzer == nil {
		s.analyzer = analysis.NewHeuristicAnalyzer()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// CreateParams is a new confession as submitted by its author.
type CreateParams struct {
	Content  string
	IsPublic bool
	Author   string
	// Mood and Tags override the analyzer's output when set.
	Mood string
	Tags []string
	// ConfirmedCrisis is set once the author has seen the support
	// resources and chose to continue.
	ConfirmedCrisis bool
}

type CreateResult struct {
	ID         uuid.UUID                 `json:"id"`
	TxID       string                    `json:"tx_id"`
	GatewayURL string                    `json:"gateway_url"`
	ShareURL   string                    `json:"share_url"`
	Verified   bool                      `json:"verified"`
	Message    string                    `json:"message"`
	Analysis   *analysis.ContentAnalysis `json:"analysis,omitempty"`
	Support    *crisis.Decision          `json:"support,omitempty"`
}

// confessionPayload is the document stored on the network.
type confessionPayload struct {
	Content   string   `json:"content"`
	IsPublic  bool     `json:"is_public"`
	Timestamp string   `json:"timestamp"`
	Author    string   `json:"author"`
	Mood      string   `json:"mood,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// Create validates, screens, uploads and stores a confession.
func (s *ConfessionService) Create(ctx context.Context, p CreateParams) (*CreateResult, error) {
	if strings.TrimSpace(p.Content) == "" {
		return nil, &ValidationError{Message: msgEmptyContent}
	}
	if utf8.RuneCountInString(p.Content) > MaxConfessionLength {
		return nil, &ValidationError{Message: msgContentTooLong}
	}
	author := strings.TrimSpace(p.Author)
	if author == "" {
		author = models.DefaultAuthor
	}

	ca, err := s.analyzer.Analyze(ctx, p.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze confession: %w", err)
	}
	decision := crisis.RouteAnalysis(ca)
	if decision.MustBlock || decision.Advisory {
		metrics.CrisisDetections.WithLabelValues(string(decision.Level)).Inc()
	}
	if !decision.Proceed(p.ConfirmedCrisis) {
		log.WithField("level", decision.Level).Info("Submission held for crisis support")
		return nil, &CrisisBlockedError{Decision: decision}
	}

	mood, tags := p.Mood, p.Tags
	if ca != nil {
		if mood == "" {
			mood = string(ca.Mood)
		}
		if len(tags) == 0 {
			tags = ca.Tags
		}
	}
	if mood != "" {
		mood = string(analysis.ParseMood(mood))
	}

	now := s.now()
	payload := confessionPayload{
		Content:   p.Content,
		IsPublic:  p.IsPublic,
		Timestamp: now.UTC().Format(time.RFC3339Nano),
		Author:    author,
		Mood:      mood,
		Tags:      tags,
	}

	receipt, err := s.uploader.Upload(ctx, payload, uploadTags(p.IsPublic, mood, tags))
	if err != nil {
		outcome := string(uploader.KindOf(err))
		if outcome == "" {
			outcome = string(uploader.KindUpload)
		}
		metrics.Uploads.WithLabelValues(outcome).Inc()
		return nil, fmt.Errorf("failed to upload to Irys: %w", err)
	}
	metrics.Uploads.WithLabelValues("success").Inc()

	c := &models.Confession{
		ID:          uuid.New(),
		TxID:        receipt.TxID,
		Content:     p.Content,
		IsPublic:    p.IsPublic,
		Author:      author,
		Mood:        mood,
		Tags:        models.StringList(tags),
		CrisisLevel: string(decision.Level),
		GatewayURL:  receipt.GatewayURL,
		Verified:    receipt.Verified,
		Timestamp:   now.UnixMilli(),
	}
	if ca != nil {
		if raw, err := json.Marshal(ca); err == nil {
			c.Analysis = raw
		}
	}
	if err := s.confessions.CreateConfession(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save confession %s: %w", receipt.TxID, err)
	}

	s.archivePayload(ctx, c, payload)
	s.enqueueRefine(ctx, c.ID)

	res := &CreateResult{
		ID:         c.ID,
		TxID:       c.TxID,
		GatewayURL: c.GatewayURL,
		ShareURL:   ShareURL(c.TxID, c.IsPublic, c.Author),
		Verified:   c.Verified,
		Message:    msgPosted,
		Analysis:   ca,
	}
	if decision.Advisory || decision.MustBlock {
		d := decision
		res.Support = &d
	}
	return res, nil
}

func uploadTags(isPublic bool, mood string, tags []string) []irys.Tag {
	out := []irys.Tag{
		{Name: "Type", Value: "confession"},
		{Name: "Public", Value: strconv.FormatBool(isPublic)},
	}
	if mood != "" {
		out = append(out, irys.Tag{Name: "Mood", Value: mood})
	}
	for _, t := range tags {
		out = append(out, irys.Tag{Name: "Topic", Value: t})
	}
	return out
}

// ShareURL is the client route for a confession. Private confessions carry
// the author as a fragment.
func ShareURL(txID string, isPublic bool, author string) string {
	u := "/#/c/" + txID
	if !isPublic {
		u += "#" + author
	}
	return u
}

func (s *ConfessionService) archivePayload(ctx context.Context, c *models.Confession, payload confessionPayload) {
	if s.archive == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Warn("Failed to encode archive payload")
		return
	}
	key := storage.ConfessionKey(c.TxID)
	if err := s.archive.Put(ctx, key, data, uploader.ContentType); err != nil {
		log.WithError(err).WithField("tx_id", c.TxID).Warn("Failed to archive confession")
		return
	}
	if err := s.confessions.SetArchiveKey(ctx, c.ID, key); err != nil {
		log.WithError(err).WithField("tx_id", c.TxID).Warn("Failed to record archive key")
		return
	}
	c.ArchiveKey = &key
}

func (s *ConfessionService) enqueueRefine(ctx context.Context, id uuid.UUID) {
	if s.jobs == nil {
		return
	}
	if err := s.jobs.EnqueueRefineJob(ctx, id); err != nil {
		log.WithError(err).WithField("confession_id", id).Warn("Failed to enqueue analysis refinement")
	}
}

// Get returns the confession stored under a transaction ID.
func (s *ConfessionService) Get(ctx context.Context, txID string) (*models.Confession, error) {
	c, err := s.confessions.GetConfessionByTxID(ctx, txID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("confession %s: %w", txID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load confession %s: %w", txID, err)
	}
	return c, nil
}

// ListPublic returns public confessions, newest first.
func (s *ConfessionService) ListPublic(ctx context.Context, limit, offset int) ([]*models.Confession, error) {
	if limit <= 0 {
		limit = DefaultPublicLimit
	}
	if offset < 0 {
		offset = 0
	}
	list, err := s.confessions.ListPublicConfessions(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list public confessions: %w", err)
	}
	return list, nil
}

// Trending returns the most upvoted public confessions.
func (s *ConfessionService) Trending(ctx context.Context, limit int) ([]*models.Confession, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	list, err := s.confessions.ListTrendingConfessions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list trending confessions: %w", err)
	}
	return list, nil
}

// VoteTally is the recounted vote totals of a confession.
type VoteTally struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}

// Vote records one vote per user per confession and returns the new totals.
func (s *ConfessionService) Vote(ctx context.Context, txID, voteType, user string) (*VoteTally, error) {
	if voteType != models.VoteUp && voteType != models.VoteDown {
		return nil, &ValidationError{Message: msgInvalidVote}
	}
	if strings.TrimSpace(user) == "" {
		user = models.DefaultAuthor
	}
	c, err := s.Get(ctx, txID)
	if err != nil {
		return nil, err
	}
	err = s.votes.RecordVote(ctx, &models.Vote{
		ID:           uuid.New(),
		ConfessionID: c.ID,
		UserID:       user,
		VoteType:     voteType,
	})
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return nil, models.ErrAlreadyVoted
	case errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("confession %s: %w", txID, models.ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("failed to record vote: %w", err)
	}
	log.WithFields(log.Fields{"tx_id": txID, "vote": voteType}).Debug("Vote recorded")

	up, down, err := s.votes.CountVotes(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	return &VoteTally{Upvotes: up, Downvotes: down}, nil
}

// Analyze runs the analyzer and crisis routing without submitting anything.
func (s *ConfessionService) Analyze(ctx context.Context, text string) (*analysis.ContentAnalysis, crisis.Decision, error) {
	ca, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, crisis.Decision{}, fmt.Errorf("failed to analyze text: %w", err)
	}
	return ca, crisis.RouteAnalysis(ca), nil
}
