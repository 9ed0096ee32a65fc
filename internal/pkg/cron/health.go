package cron

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/health"
)

// HealthJobs keeps the readiness monitor fresh
type HealthJobs struct {
	monitor *health.Monitor
}

func NewHealthJobs(monitor *health.Monitor) *HealthJobs {
	return &HealthJobs{monitor: monitor}
}

// RegisterJobs registers the store check. A run never outlives its interval.
func (j *HealthJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJobWithTimeout("store_ping", interval, interval, j.PingStore)
}

func (j *HealthJobs) PingStore(ctx context.Context) error {
	return j.monitor.Check(ctx)
}
