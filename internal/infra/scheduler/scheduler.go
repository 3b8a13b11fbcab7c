// internal/infra/scheduler/scheduler.go
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"compliance_notification_service/internal/app"
	"compliance_notification_service/internal/domain/alert"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderJob is the slice of the reminder service the scheduler needs.
type ReminderJob interface {
	Run(ctx context.Context) (*app.Summary, error)
}

// ReminderScheduler runs the compliance-expiration job on an internal cron
// schedule, in addition to the HTTP trigger used by the hosted platform's
// scheduler. Both paths share the same ReminderService.
type ReminderScheduler struct {
	cronEngine *cron.Cron
	job        ReminderJob
	notifier   alert.Notifier
	logger     *logrus.Logger
	cronSpec   string
}

func NewReminderScheduler(job ReminderJob, notifier alert.Notifier, logger *logrus.Logger, cronSpec string) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine: cron.New(cron.WithLocation(time.UTC)), // Windowing is UTC; keep the trigger there too.
		job:        job,
		notifier:   notifier,
		logger:     logger,
		cronSpec:   cronSpec,
	}
}

func (s *ReminderScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron trigger fired for compliance expiration reminders")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		summary, err := s.job.Run(ctx)
		if err != nil {
			s.logger.Errorf("Scheduled reminder run aborted: %v", err)
			s.notify(fmt.Sprintf("Compliance reminder run FAILED: %v", err))
			return
		}
		s.notify(formatSummary(summary))
	})
	if err != nil {
		return fmt.Errorf("could not register reminder cron job (spec %q): %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	s.logger.Infof("Reminder scheduler started (spec %q)", s.cronSpec)
	return nil
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // Waits for a running job to finish.
	<-ctx.Done()
	s.logger.Info("Reminder scheduler stopped.")
}

func (s *ReminderScheduler) notify(text string) {
	if err := s.notifier.Notify(text); err != nil {
		s.logger.Warnf("Failed to deliver ops notification: %v", err)
	}
}

func formatSummary(summary *app.Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Compliance reminder run finished in %dms\n", summary.DurationMs)
	fmt.Fprintf(&sb, "30-day reminders: %d\n7-day reminders: %d\nAgencies notified: %d\n",
		summary.Sent30DayReminders, summary.Sent7DayReminders, summary.TotalAgenciesNotified)
	if len(summary.Errors) > 0 {
		fmt.Fprintf(&sb, "Errors (%d):\n", len(summary.Errors))
		for _, e := range summary.Errors {
			fmt.Fprintf(&sb, "  - %s\n", e)
		}
	}
	return sb.String()
}
