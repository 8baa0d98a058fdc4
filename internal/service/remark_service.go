package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/rosterdocs/internal/model"
	"github.com/stemsi/rosterdocs/internal/remark"
	ws "github.com/stemsi/rosterdocs/internal/websocket"
)

// RemarkQueue hands remark jobs to the background worker. Reserve takes the
// import's run key and fails with ErrRemarksRunning while another run holds it;
// Push makes a reserved job visible to the worker.
type RemarkQueue interface {
	Reserve(ctx context.Context, job model.RemarkJob) error
	Push(ctx context.Context, job model.RemarkJob) error
	Release(ctx context.Context, importID uuid.UUID) error
}

// EventPublisher fans remark events out to live subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, ev ws.RemarkEvent) error
}

// RemarkService queues and runs remark generation for an import's active group.
type RemarkService struct {
	store  ImportStore
	writer *remark.Writer
	queue  RemarkQueue
	events EventPublisher
	log    zerolog.Logger
}

// NewRemarkService creates a RemarkService. A nil writer disables remark
// generation; requests then fail with ErrRemarksUnavailable.
func NewRemarkService(store ImportStore, writer *remark.Writer, queue RemarkQueue, events EventPublisher, log zerolog.Logger) *RemarkService {
	return &RemarkService{
		store:  store,
		writer: writer,
		queue:  queue,
		events: events,
		log:    log.With().Str("component", "remark_service").Logger(),
	}
}

// Available reports whether a remark model is configured.
func (s *RemarkService) Available() bool {
	return s.writer != nil
}

// Request queues a remark run for the active group of an import.
func (s *RemarkService) Request(ctx context.Context, id uuid.UUID, performance string) (*model.RemarkJob, error) {
	if s.writer == nil {
		return nil, ErrRemarksUnavailable
	}

	imp, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, importErr(err)
	}
	if imp.ActiveGroup() == nil {
		return nil, ErrGroupOutOfRange
	}
	if performance == "" {
		performance = remark.DefaultPerformance
	}

	job := &model.RemarkJob{
		ImportID:    id,
		GroupIndex:  imp.CurrentGroupIndex,
		Performance: performance,
		RequestedAt: time.Now().UTC(),
	}
	if err := s.queue.Reserve(ctx, *job); err != nil {
		return nil, err
	}
	// The status is only written while the run key is held, so the worker's
	// own transitions always land after it.
	if err := s.store.SetRemarkStatus(ctx, id, model.RemarkQueued); err != nil {
		s.release(id)
		return nil, importErr(err)
	}
	s.publish(ctx, ws.RemarkEvent{
		Event:      ws.EventRemarkQueued,
		ImportID:   id.String(),
		GroupIndex: job.GroupIndex,
		Total:      len(s.writer.Targets(imp.ActiveGroup())),
	})

	if err := s.queue.Push(ctx, *job); err != nil {
		s.abandon(*job, imp.RemarkStatus, err)
		return nil, err
	}
	s.log.Info().
		Str("import_id", id.String()).
		Int("group", job.GroupIndex).
		Str("performance", performance).
		Msg("Remark run queued")
	return job, nil
}

// Run executes one queued job. When ctx is cancelled mid-run the import is put
// back to queued, the run key is kept and ctx.Err() is returned so the caller
// can requeue the job.
func (s *RemarkService) Run(ctx context.Context, job model.RemarkJob) error {
	log := s.log.With().Str("import_id", job.ImportID.String()).Int("group", job.GroupIndex).Logger()

	imp, err := s.store.GetByID(ctx, job.ImportID)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.release(job.ImportID)
		if errors.Is(importErr(err), ErrImportNotFound) {
			log.Info().Msg("Import cleared before its remark run, skipping")
			return nil
		}
		return fmt.Errorf("load import: %w", err)
	}

	if s.writer == nil {
		return s.fail(job, ErrRemarksUnavailable)
	}
	if job.GroupIndex < 0 || job.GroupIndex >= len(imp.Groups) {
		return s.fail(job, ErrGroupOutOfRange)
	}
	g := &imp.Groups[job.GroupIndex]

	if err := s.store.SetRemarkStatus(ctx, job.ImportID, model.RemarkRunning); err != nil {
		return s.fail(job, err)
	}

	remarks, err := s.writer.ForGroup(ctx, g, job.Performance, func(p remark.Progress) {
		s.publish(ctx, ws.RemarkEvent{
			Event:      ws.EventRemarkProgress,
			ImportID:   job.ImportID.String(),
			GroupIndex: job.GroupIndex,
			StudentID:  p.StudentID,
			Remark:     p.Remark,
			Done:       p.Done,
			Total:      p.Total,
		})
	})
	if err != nil {
		if ctx.Err() != nil {
			s.statusAfterCancel(job.ImportID)
			log.Warn().Int("written", len(remarks)).Msg("Remark run interrupted")
			return err
		}
		return s.fail(job, err)
	}

	if err := s.store.ReplaceRemarks(ctx, job.ImportID, job.GroupIndex, remarks); err != nil {
		return s.fail(job, fmt.Errorf("store remarks: %w", err))
	}
	if err := s.store.SetRemarkStatus(ctx, job.ImportID, model.RemarkDone); err != nil {
		log.Error().Err(err).Msg("Failed to mark remark run done")
	}

	s.publish(ctx, ws.RemarkEvent{
		Event:      ws.EventRemarksDone,
		ImportID:   job.ImportID.String(),
		GroupIndex: job.GroupIndex,
		Done:       len(remarks),
		Total:      len(remarks),
	})
	s.release(job.ImportID)
	log.Info().Int("remarks", len(remarks)).Msg("Remark run finished")
	return nil
}

func (s *RemarkService) fail(job model.RemarkJob, cause error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.SetRemarkStatus(ctx, job.ImportID, model.RemarkFailed); err != nil {
		s.log.Error().Err(err).Str("import_id", job.ImportID.String()).Msg("Failed to mark remark run failed")
	}
	s.publish(ctx, ws.RemarkEvent{
		Event:      ws.EventRemarksFailed,
		ImportID:   job.ImportID.String(),
		GroupIndex: job.GroupIndex,
		Error:      cause.Error(),
	})
	s.release(job.ImportID)
	s.log.Error().Err(cause).Str("import_id", job.ImportID.String()).Msg("Remark run failed")
	return cause
}

// abandon undoes a reservation whose job never reached the queue.
func (s *RemarkService) abandon(job model.RemarkJob, previous model.RemarkStatus, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.SetRemarkStatus(ctx, job.ImportID, previous); err != nil {
		s.log.Error().Err(err).Str("import_id", job.ImportID.String()).Msg("Failed to restore remark status")
	}
	s.publish(ctx, ws.RemarkEvent{
		Event:      ws.EventRemarksFailed,
		ImportID:   job.ImportID.String(),
		GroupIndex: job.GroupIndex,
		Error:      cause.Error(),
	})
	s.release(job.ImportID)
}

func (s *RemarkService) statusAfterCancel(id uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.SetRemarkStatus(ctx, id, model.RemarkQueued); err != nil {
		s.log.Error().Err(err).Str("import_id", id.String()).Msg("Failed to reset interrupted remark run")
	}
}

func (s *RemarkService) release(id uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.queue.Release(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("import_id", id.String()).Msg("Failed to release remark run key")
	}
}

func (s *RemarkService) publish(ctx context.Context, ev ws.RemarkEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("event", string(ev.Event)).Msg("Failed to publish remark event")
	}
}
