package store

import (
	"context"
	"fmt"

	"hush/internal/models"
	"hush/internal/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
)

// AsynqJobClient enqueues tasks on Redis and records them in the JobStore.
type AsynqJobClient struct {
	client   *asynq.Client
	jobStore JobStore
	queue    string
}

// NewAsynqJobClient connects to Redis. js may not be nil.
func NewAsynqJobClient(opt asynq.RedisClientOpt, queue string, js JobStore) (*AsynqJobClient, error) {
	if js == nil {
		return nil, fmt.Errorf("JobStore cannot be nil for AsynqJobClient")
	}
	if queue == "" {
		queue = tasks.QueueAnalysis
	}
	return &AsynqJobClient{client: asynq.NewClient(opt), jobStore: js, queue: queue}, nil
}

func (jc *AsynqJobClient) Close() error {
	return jc.client.Close()
}

// Enqueue enqueues a task and records the event. A failure to record is
// logged but does not fail the call because the task is already queued.
func (jc *AsynqJobClient) Enqueue(ctx context.Context, task *asynq.Task, relatedEntityType, relatedEntityID string, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if jc.client == nil {
		return nil, fmt.Errorf("AsynqJobClient internal client is not initialized")
	}
	log.Debugf("Enqueuing task type '%s'", task.Type())
	info, err := jc.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		log.WithError(err).Errorf("Failed to enqueue task type '%s'", task.Type())
		return nil, err
	}
	log.WithFields(log.Fields{"task_id": info.ID, "queue": info.Queue}).Debugf("Enqueued task type '%s'", task.Type())

	params := JobRecordParams{
		JobID:             info.ID,
		TaskType:          task.Type(),
		Payload:           task.Payload(),
		Queue:             info.Queue,
		Status:            models.JobStatusEnqueued,
		RelatedEntityType: relatedEntityType,
		RelatedEntityID:   relatedEntityID,
	}
	if err := jc.jobStore.RecordJobEnqueue(ctx, params); err != nil {
		log.WithError(err).Errorf("Failed to record job enqueue event for task %s", info.ID)
	}
	return info, nil
}

// EnqueueRefineJob queues model-backed re-analysis of a confession.
func (jc *AsynqJobClient) EnqueueRefineJob(ctx context.Context, confessionID uuid.UUID) error {
	task, err := tasks.NewAnalysisRefineTask(confessionID)
	if err != nil {
		return err
	}
	if _, err := jc.Enqueue(ctx, task, "confession", confessionID.String(), asynq.Queue(jc.queue), asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("enqueue refine job for confession %s: %w", confessionID, err)
	}
	return nil
}

var _ JobClient = (*AsynqJobClient)(nil)
