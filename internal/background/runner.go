package background

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"rental-service/internal/services"
)

// Runner schedules the tenancy expiry sweep. Tenancies whose end date has
// passed are closed, their flats returned to the vacant pool and the
// building vacancy counters restored.
type Runner struct {
	cron       *cron.Cron
	tenancySvc *services.TenancyService
	log        *logrus.Logger
}

// NewRunner creates a runner with the given cron schedule
func NewRunner(schedule string, tenancySvc *services.TenancyService, log *logrus.Logger) (*Runner, error) {
	r := &Runner{
		cron:       cron.New(),
		tenancySvc: tenancySvc,
		log:        log,
	}

	if _, err := r.cron.AddFunc(schedule, r.sweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Start begins the schedule
func (r *Runner) Start() {
	r.cron.Start()
	r.log.Info("tenancy expiry sweep scheduled")
}

// Stop halts the schedule and waits for a running sweep to finish
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *Runner) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ended, err := r.tenancySvc.SweepExpired(ctx)
	if err != nil {
		r.log.WithError(err).Warn("tenancy expiry sweep failed")
		return
	}
	if ended > 0 {
		r.log.WithField("ended", ended).Info("tenancy expiry sweep completed")
	}
}
