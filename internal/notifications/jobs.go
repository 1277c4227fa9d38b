package notifications

import (
	"context"
	"log/slog"
	"time"

	"ticketera/pkg/logger"
)

// Scheduler periodically dispatches due scheduled notifications
type Scheduler struct {
	service   Service
	interval  time.Duration
	batchSize int
	done      chan struct{}
	log       *logger.Logger
}

func NewScheduler(service Service, interval time.Duration, batchSize int) *Scheduler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Scheduler{
		service:   service,
		interval:  interval,
		batchSize: batchSize,
		done:      make(chan struct{}),
		log:       logger.GetDefault().WithComponent("notification-scheduler"),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	go s.run(ctx)
	s.log.Info("scheduler started", slog.Duration("interval", s.interval))
}

func (s *Scheduler) Stop() {
	close(s.done)
}

func (s *Scheduler) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-s.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	n, err := s.service.DispatchDue(ctx, s.batchSize)
	if err != nil {
		s.log.Error("error dispatching scheduled notifications", slog.Any("error", err))
		return
	}
	if n > 0 {
		s.log.Info("dispatched scheduled notifications", slog.Int("count", n))
	}
}
