package models

// Job status constants
const (
	JobStatusEnqueued  = "enqueued"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
	JobStatusSkipped   = "skipped"
)

// Vote types
const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)

// DefaultAuthor is recorded when a confession is posted without an author.
const DefaultAuthor = "anonymous"
