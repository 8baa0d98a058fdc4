package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/rosterdocs/internal/config"
	"github.com/stemsi/rosterdocs/internal/model"
)

// RemarkRunner executes one remark job.
type RemarkRunner interface {
	Run(ctx context.Context, job model.RemarkJob) error
}

// JobQueue is the part of the Redis client the worker uses.
type JobQueue interface {
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// RemarkWorker consumes remark_jobs_queue one job at a time. Jobs are not
// retried; a failed run is reported through the import's remark status.
type RemarkWorker struct {
	queue  JobQueue
	runner RemarkRunner
	key    string
	log    zerolog.Logger
}

// NewRemarkWorker creates a new RemarkWorker.
func NewRemarkWorker(queue JobQueue, runner RemarkRunner, log zerolog.Logger) *RemarkWorker {
	return &RemarkWorker{
		queue:  queue,
		runner: runner,
		key:    config.WorkerKey.RemarkJobsQueue,
		log:    log.With().Str("component", "remark_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *RemarkWorker) Start(ctx context.Context) {
	w.log.Info().Str("queue", w.key).Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *RemarkWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.queue.BLPop(ctx, time.Second, w.key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
			time.Sleep(time.Second)
		}
		return
	}
	if len(result) < 2 {
		return
	}

	var job model.RemarkJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error, dropping job")
		return
	}

	log := w.log.With().Str("import_id", job.ImportID.String()).Int("group", job.GroupIndex).Logger()
	log.Info().Dur("waited", time.Since(job.RequestedAt)).Msg("Remark job picked up")

	err = w.runner.Run(ctx, job)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		// Put the job back at the head so it runs first after restart.
		if perr := w.queue.LPush(context.Background(), w.key, result[1]).Err(); perr != nil {
			log.Error().Err(perr).Msg("Failed to requeue interrupted job")
			return
		}
		log.Info().Msg("Interrupted job requeued")
	default:
		log.Error().Err(err).Msg("Remark job failed")
	}
}
