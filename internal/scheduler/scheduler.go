// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the background jobs of the builder: firing
// scheduled publishes and pruning old event-log entries.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// eventRetention is how long event-log entries are kept.
const eventRetention = 90 * 24 * time.Hour

// BundleService is the serialized facade over the landing bundle. The
// scheduler never touches the bundle directly so editor requests and
// scheduled publishes cannot interleave.
type BundleService interface {
	// PublishDueSchedule publishes the draft if a scheduled publish is
	// due at now. Returns true when a publish happened.
	PublishDueSchedule(ctx context.Context, now time.Time) (bool, error)
}

// EventPruner deletes event-log entries older than a cutoff.
type EventPruner interface {
	PruneEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler owns the cron runner.
type Scheduler struct {
	bundles BundleService
	events  EventPruner
	cron    *cron.Cron
	logger  *slog.Logger
}

// New creates a scheduler instance.
func New(bundles BundleService, events EventPruner, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		bundles: bundles,
		events:  events,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start registers the jobs and starts the cron runner: the schedule
// check every minute and the event-log prune nightly.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("* * * * *", s.checkSchedule); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 3 * * *", s.pruneEvents); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for running jobs and stops the cron runner.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) checkSchedule() {
	published, err := s.bundles.PublishDueSchedule(context.Background(), time.Now())
	if err != nil {
		s.logger.Error("scheduled publish failed", "error", err)
		return
	}
	if published {
		s.logger.Info("scheduled publish fired")
	}
}

func (s *Scheduler) pruneEvents() {
	cutoff := time.Now().Add(-eventRetention)
	pruned, err := s.events.PruneEventsBefore(context.Background(), cutoff)
	if err != nil {
		s.logger.Error("event prune failed", "error", err)
		return
	}
	if pruned > 0 {
		s.logger.Info("pruned old events", "count", pruned)
	}
}

// ScheduleDue reports whether a scheduled publish time has arrived.
func ScheduleDue(scheduledAt *time.Time, now time.Time) bool {
	return scheduledAt != nil && !scheduledAt.After(now)
}
