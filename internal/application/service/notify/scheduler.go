// Package notify runs the daily reminder job: once per day at a configured
// local time it scans tomorrow's entries across all owners and pushes one
// reminder per entry.
package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ksumarshmallow/calbot/internal/logger"
	"github.com/ksumarshmallow/calbot/internal/types"
	"github.com/ksumarshmallow/calbot/internal/types/interfaces"
)

// Scheduler fires the tomorrow-reminder scan on a fixed daily schedule
type Scheduler struct {
	repo      interfaces.EntryRepository
	messenger interfaces.Messenger
	cron      *cron.Cron
	spec      string
	now       func() time.Time
}

// NewScheduler creates a scheduler firing daily at the given local "HH:MM"
func NewScheduler(repo interfaces.EntryRepository, messenger interfaces.Messenger, at string) (*Scheduler, error) {
	spec, err := cronSpec(at)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		repo:      repo,
		messenger: messenger,
		cron:      cron.New(),
		spec:      spec,
		now:       time.Now,
	}, nil
}

// cronSpec converts "HH:MM" into a standard daily cron expression
func cronSpec(at string) (string, error) {
	hhmm := strings.SplitN(at, ":", 2)
	if len(hhmm) != 2 {
		return "", fmt.Errorf("invalid notify time %q, expected HH:MM", at)
	}
	hour, err := strconv.Atoi(hhmm[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid notify hour in %q", at)
	}
	minute, err := strconv.Atoi(hhmm[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid notify minute in %q", at)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

// Start registers the daily job and starts the cron runner
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}
	s.cron.Start()
	logger.Infof(ctx, "reminder job scheduled: %s", s.spec)
	return nil
}

// Stop halts the cron runner and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce performs one reminder scan. A delivery failure for one recipient
// is logged and does not block the remaining recipients.
func (s *Scheduler) RunOnce(ctx context.Context) {
	tomorrow := s.now().AddDate(0, 0, 1).Format(types.DateLayout)

	entries, err := s.repo.ListByDate(ctx, tomorrow)
	if err != nil {
		logger.Errorf(ctx, "reminder scan failed for %s: %v", tomorrow, err)
		return
	}
	if len(entries) == 0 {
		logger.Infof(ctx, "no reminders for %s", tomorrow)
		return
	}

	sent := 0
	for _, entry := range entries {
		if err := s.messenger.Send(ctx, entry.OwnerID, reminderText(entry)); err != nil {
			logger.Errorf(ctx, "failed to deliver reminder to %s: %v", entry.OwnerID, err)
			continue
		}
		sent++
	}
	logger.Infof(ctx, "reminders for %s: %d sent, %d total", tomorrow, sent, len(entries))
}

func reminderText(entry *types.Entry) string {
	if entry.Time != "" {
		return fmt.Sprintf("🔔 Напоминание! Завтра в %s: %s", entry.Time, entry.Name)
	}
	return fmt.Sprintf("🔔 Напоминание! Завтра: %s", entry.Name)
}
