package market

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher periodically warms the series cache.
type Refresher struct {
	cron    *cron.Cron
	service *Service
	timeout time.Duration
	logger  *zap.Logger
}

// NewRefresher schedules Service.Refresh on a cron spec such as "@every 15m".
func NewRefresher(service *Service, schedule string, timeout time.Duration, logger *zap.Logger) (*Refresher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Refresher{
		cron:    cron.New(),
		service: service,
		timeout: timeout,
		logger:  logger,
	}
	if _, err := r.cron.AddFunc(schedule, r.run); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return r, nil
}

func (r *Refresher) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	errs := r.service.Refresh(ctx)
	r.logger.Info("refreshed market data",
		zap.String("op", "market.Refresher"),
		zap.Int("errors", len(errs)),
	)
}

// Start runs the schedule in the background.
func (r *Refresher) Start() {
	r.cron.Start()
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}
