package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderentry/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// DefaultActiveOrdersSchedule runs at second zero of every minute.
const DefaultActiveOrdersSchedule = "0 * * * * *"

// ActiveOrdersCounter is satisfied by both the postgres and the in-memory
// count handlers.
type ActiveOrdersCounter interface {
	Handle(ctx context.Context, query queries.CountActiveOrdersQuery) (int64, error)
}

// ActiveOrdersGauge receives the refreshed count.
type ActiveOrdersGauge interface {
	SetActiveOrders(count int64)
}

// Clock supplies the asOf of each refresh.
type Clock interface {
	Now() time.Time
}

// ActiveOrdersJob refreshes the active-orders gauge on a cron schedule.
type ActiveOrdersJob struct {
	counter  ActiveOrdersCounter
	gauge    ActiveOrdersGauge
	clock    Clock
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewActiveOrdersJob creates a stopped job. An empty schedule means
// DefaultActiveOrdersSchedule; the cron parser accepts a seconds field.
func NewActiveOrdersJob(
	counter ActiveOrdersCounter,
	gauge ActiveOrdersGauge,
	clock Clock,
	schedule string,
	logger *slog.Logger,
) *ActiveOrdersJob {
	if schedule == "" {
		schedule = DefaultActiveOrdersSchedule
	}
	return &ActiveOrdersJob{
		counter:  counter,
		gauge:    gauge,
		clock:    clock,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "active_orders_job"),
	}
}

// Start registers the refresh on the schedule. An invalid cron expression is
// returned as is.
func (j *ActiveOrdersJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if err := j.Refresh(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Active orders refresh failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Active orders job started", "schedule", j.schedule)
	return nil
}

// Refresh counts active orders now and updates the gauge. The gauge keeps
// its previous value when counting fails.
func (j *ActiveOrdersJob) Refresh(ctx context.Context) error {
	query, err := queries.NewCountActiveOrdersQuery(j.clock.Now())
	if err != nil {
		return err
	}

	count, err := j.counter.Handle(ctx, query)
	if err != nil {
		return err
	}

	j.gauge.SetActiveOrders(count)
	return nil
}

// Stop waits for a running refresh to finish.
func (j *ActiveOrdersJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Active orders job stopped")
}
