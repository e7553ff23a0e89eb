package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/execboard/internal/dashboard"
	"github.com/odyssey-erp/execboard/internal/finapi"
	"github.com/odyssey-erp/execboard/internal/format"
	jobmetrics "github.com/odyssey-erp/execboard/internal/jobs"
	"github.com/odyssey-erp/execboard/internal/period"
	"github.com/odyssey-erp/execboard/internal/tenants"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

const scopeTimeout = 20 * time.Second

// WarmupFetcher is the analytics surface a warmup run touches.
type WarmupFetcher interface {
	dashboard.Fetcher
	FetchTenantDirectory(ctx context.Context) ([]tenants.DirectoryEntry, error)
}

// DashboardWarmupJob fetches every resource for every tenant entity so the
// last-known-good store stays fresh.
type DashboardWarmupJob struct {
	Fetcher WarmupFetcher
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(fetcher WarmupFetcher, logger *slog.Logger, metrics *jobmetrics.Metrics) *DashboardWarmupJob {
	return &DashboardWarmupJob{
		Fetcher: fetcher,
		Logger:  logger,
		Metrics: metrics,
		clock:   period.Now,
	}
}

type warmupScope struct {
	tenantID   int64
	tenantName string
	entityID   int64
	currency   string
}

func (s warmupScope) entityIDs() string {
	if s.entityID <= 0 {
		return ""
	}
	return strconv.FormatInt(s.entityID, 10)
}

// Handle processes dashboard warmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Fetcher == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload WarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	p := period.Default()
	if payload.PeriodID != "" {
		found, ok := period.Lookup(payload.PeriodID)
		if !ok {
			return fmt.Errorf("dashboard warmup: unknown period %q: %w", payload.PeriodID, asynq.SkipRetry)
		}
		p = found
	}

	tracker := j.metrics().Track(TaskDashboardWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("period", p.ID))
	logger.Info("starting dashboard warmup")

	directory, err := j.Fetcher.FetchTenantDirectory(ctx)
	if err != nil {
		resultErr = err
		logger.Error("load tenant directory", slog.Any("error", err))
		return resultErr
	}
	scopes := warmupScopes(directory)
	if len(scopes) == 0 {
		logger.Info("no tenants discovered for warmup")
		return resultErr
	}

	start := j.now()
	for _, scope := range scopes {
		if err := j.warmScope(ctx, scope, p, start); err != nil {
			resultErr = err
			logger.Error("warm scope",
				slog.Int64("tenant_id", scope.tenantID),
				slog.Int64("entity_id", scope.entityID),
				slog.Any("error", err))
			return resultErr
		}
	}

	logger.Info("completed dashboard warmup", slog.Int("scopes", len(scopes)), slog.Duration("duration", j.now().Sub(start)))
	return resultErr
}

func warmupScopes(directory []tenants.DirectoryEntry) []warmupScope {
	scopes := make([]warmupScope, 0, len(directory))
	for _, entry := range directory {
		if len(entry.Entities) == 0 {
			scopes = append(scopes, warmupScope{tenantID: entry.TenantID, tenantName: entry.TenantName})
			continue
		}
		for _, e := range entry.Entities {
			scopes = append(scopes, warmupScope{
				tenantID:   entry.TenantID,
				tenantName: entry.TenantName,
				entityID:   e.EntityID,
				currency:   e.BaseCurrency,
			})
		}
	}
	return scopes
}

func (j *DashboardWarmupJob) warmScope(ctx context.Context, scope warmupScope, p period.Period, now time.Time) error {
	scopeCtx, cancel := context.WithTimeout(finapi.WithTenant(ctx, scope.tenantID), scopeTimeout)
	defer cancel()

	window := period.ResolveWidgetWindow(p, now)
	entities := scope.entityIDs()
	req := finapi.NewWidgetRequest(entities, window, scope.currency)
	asOf := window.To
	if asOf == "" {
		asOf = format.Date(now)
	}

	g, gctx := errgroup.WithContext(scopeCtx)
	g.Go(func() error {
		_, err := j.Fetcher.FetchARWidget(gctx, req)
		return j.warmed("ar-widget", err)
	})
	g.Go(func() error {
		_, err := j.Fetcher.FetchAPWidget(gctx, req)
		return j.warmed("ap-widget", err)
	})
	g.Go(func() error {
		_, err := j.Fetcher.FetchCashOutlook(gctx, entities, scope.currency)
		return j.warmed("cash-13w", err)
	})
	g.Go(func() error {
		_, err := j.Fetcher.FetchBoardOverview(gctx, entities, asOf, scope.currency)
		return j.warmed("board-overview", err)
	})
	g.Go(func() error {
		_, err := j.Fetcher.FetchHeadlines(gctx, scope.tenantName, scope.entityID)
		return j.warmed("headlines", err)
	})
	return g.Wait()
}

func (j *DashboardWarmupJob) warmed(resource string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", resource, err)
	}
	j.metrics().AddWarmed(resource, 1)
	return nil
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDashboardWarmup))
	}
	return slog.Default().With(slog.String("job", TaskDashboardWarmup))
}

func (j *DashboardWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *DashboardWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return period.Now()
}
