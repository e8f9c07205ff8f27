package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"labor-odds/internal/errors"
)

// ReloadFunc refreshes whatever the scheduler keeps current.
type ReloadFunc func(ctx context.Context) error

// RefreshScheduler reruns a reload on a cron spec. The forecast window
// starts "today", so the served dataset is refreshed at least daily.
type RefreshScheduler struct {
	cronEngine *cron.Cron
	reload     ReloadFunc
	spec       string
	timeout    time.Duration
	logger     *logrus.Logger
}

func NewRefreshScheduler(spec string, reload ReloadFunc, logger *logrus.Logger) *RefreshScheduler {
	return &RefreshScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		reload:     reload,
		spec:       spec,
		timeout:    time.Minute,
		logger:     logger,
	}
}

func (s *RefreshScheduler) Start() error {
	if _, err := s.cronEngine.AddFunc(s.spec, s.RunNow); err != nil {
		return errors.WithSecondaryError(errors.Wrapf(errors.ErrInvalidConfig, "refresh cron spec %q", s.spec), err)
	}
	s.cronEngine.Start()
	s.logger.WithField("spec", s.spec).Info("Refresh scheduler started")
	return nil
}

// RunNow performs one reload, logging rather than returning failures.
func (s *RefreshScheduler) RunNow() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.reload(ctx); err != nil {
		s.logger.WithError(err).Error("Dataset refresh failed; keeping previous dataset")
		return
	}
	s.logger.Info("Dataset refreshed")
}

func (s *RefreshScheduler) Stop() {
	ctx := s.cronEngine.Stop() // waits for a running reload
	<-ctx.Done()
	s.logger.Info("Refresh scheduler stopped")
}
