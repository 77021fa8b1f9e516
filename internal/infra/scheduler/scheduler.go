package scheduler

import (
	"context"
	"time"

	"password_notifier/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// runTimeout bounds one scheduled pass; a directory of any realistic
// size finishes well inside this.
const runTimeout = 30 * time.Minute

// NotifyScheduler runs the notification pass on a cron schedule when the
// notifier operates in daemon mode.
type NotifyScheduler struct {
	cronEngine *cron.Cron
	service    *app.NotifyService
	reporter   app.Reporter // may be nil
	logger     *logrus.Logger
	cronSpec   string
}

func NewNotifyScheduler(service *app.NotifyService, reporter app.Reporter, logger *logrus.Logger, cronSpec string) *NotifyScheduler {
	return &NotifyScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		service:    service,
		reporter:   reporter,
		logger:     logger,
		cronSpec:   cronSpec,
	}
}

func (s *NotifyScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for password expiry check.")
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		summary, err := s.service.Run(ctx)
		if err != nil {
			s.logger.Errorf("Scheduled notification run failed: %v", err)
			return
		}
		if s.reporter != nil {
			if err := s.reporter.ReportRun(ctx, summary); err != nil {
				s.logger.Errorf("Failed to deliver run report: %v", err)
			}
		}
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.Infof("Scheduler started with spec %q.", s.cronSpec)
	return nil
}

func (s *NotifyScheduler) Stop() {
	s.logger.Info("Stopping scheduler...")
	ctx := s.cronEngine.Stop() // waits for running jobs
	<-ctx.Done()
	s.logger.Info("Scheduler stopped.")
}
