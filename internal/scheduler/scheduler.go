package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"casabook/server/internal/payouts"
)

// Scheduler runs the owner payout scan periodically: once at startup,
// then on a fixed interval. Runs are serialized so an external trigger
// through the API never overlaps a scheduled one.
type Scheduler struct {
	processor *payouts.Processor
	logger    *logrus.Logger
	interval  time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	jobMutex  sync.Mutex
}

func NewScheduler(processor *payouts.Processor, interval time.Duration, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		processor: processor,
		logger:    logger,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the scheduled payout scans.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	s.logger.Info("Running startup payout scan")
	s.runScan()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runScan()
		}
	}
}

func (s *Scheduler) runScan() {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := s.processor.Run(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled payout scan failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"transferred": report.Transferred,
		"failed":      len(report.Failures),
	}).Info("Scheduled payout scan completed")
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}
