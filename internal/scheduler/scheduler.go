package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DigestRunner sends the monthly forecast digests
type DigestRunner interface {
	SendMonthlyDigests(ctx context.Context) (int, error)
}

// Scheduler runs the digest job on a cron schedule
type Scheduler struct {
	cron    *cron.Cron
	runner  DigestRunner
	log     *logrus.Logger
	timeout time.Duration
}

// New registers the digest job under a standard 5-field cron spec
func New(runner DigestRunner, spec string, loc *time.Location, log *logrus.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	logger := cron.PrintfLogger(log)
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		runner:  runner,
		log:     log,
		timeout: 30 * time.Minute,
	}
	if _, err := s.cron.AddFunc(spec, s.runDigest); err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	sent, err := s.runner.SendMonthlyDigests(ctx)
	if err != nil {
		s.log.Errorf("Digest job failed after %d digests: %v", sent, err)
		return
	}
	s.log.WithField("duration", time.Since(start).String()).Infof("Digest job finished, %d sent", sent)
}

// Start runs the scheduler in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Digest scheduler started")
}

// Stop waits for a running job to finish or ctx to expire
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("Digest scheduler stop timed out")
	}
}
