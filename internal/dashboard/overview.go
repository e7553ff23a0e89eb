package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/execboard/internal/finapi"
	"github.com/odyssey-erp/execboard/internal/format"
	"github.com/odyssey-erp/execboard/internal/period"
)

// Fetcher is the analytics API surface the overview consumes.
type Fetcher interface {
	FetchARWidget(ctx context.Context, req finapi.WidgetRequest) (finapi.ARWidgetResponse, error)
	FetchAPWidget(ctx context.Context, req finapi.WidgetRequest) (finapi.APWidgetResponse, error)
	FetchCashOutlook(ctx context.Context, entityIDs, reportCcy string) (finapi.CashOutlookResponse, error)
	FetchHeadlines(ctx context.Context, tenant string, entityID int64) (finapi.HeadlinesResponse, error)
	FetchBoardOverview(ctx context.Context, entityIDs, asOf, reportCcy string) (finapi.BoardOverviewResponse, error)
}

// Fallback error messages per resource.
const (
	msgARFailed        = "Unable to load Accounts Receivable widget"
	msgAPFailed        = "Unable to load Accounts Payable widget"
	msgCashFailed      = "Unable to load cash outlook"
	msgHeadlinesFailed = "Unable to load headlines"
	msgBoardFailed     = "Unable to load board overview"
)

// Snapshot is the full overview view model.
type Snapshot struct {
	Generation    uint64          `json:"generation"`
	Filters       Filters         `json:"filters"`
	EntitySummary string          `json:"entitySummary"`
	Sections      []SectionConfig `json:"sections"`
	ARStatus      string          `json:"arStatus"`
	APStatus      string          `json:"apStatus"`
	BoardLoading  bool            `json:"boardLoading"`
	BoardError    string          `json:"boardError,omitempty"`
	CashOutlook   CashOutlookView `json:"cashOutlook"`
	Headlines     HeadlinesView   `json:"headlines"`
	UnreadAlerts  int             `json:"unreadAlerts"`
	AlertsPreview []Alert         `json:"alertsPreview"`
}

const alertsPreviewSize = 3

// Overview refetches every resource when the filters change and keeps the
// widget states of the latest generation.
type Overview struct {
	state   *State
	fetcher Fetcher
	logger  *slog.Logger
	now     func() time.Time

	unsubscribe func()

	mu        sync.Mutex
	gen       uint64
	revision  uint64
	cancel    context.CancelFunc
	settled   chan struct{}
	ar        WidgetState[finapi.ARWidgetResponse]
	ap        WidgetState[finapi.APWidgetResponse]
	cash      WidgetState[finapi.CashOutlookResponse]
	headlines WidgetState[finapi.HeadlinesResponse]
	board     WidgetState[finapi.BoardOverviewResponse]
}

// NewOverview subscribes to state and runs the first refresh.
func NewOverview(state *State, fetcher Fetcher, logger *slog.Logger) *Overview {
	if logger == nil {
		logger = slog.Default()
	}
	settled := make(chan struct{})
	close(settled)
	board := finapi.MockBoardOverview()
	cash := finapi.MockCashOutlook()
	headlines := finapi.MockHeadlines()
	o := &Overview{
		state:     state,
		fetcher:   fetcher,
		logger:    logger,
		now:       period.Now,
		settled:   settled,
		cash:      Idle(&cash),
		headlines: Idle(&headlines),
		board:     Idle(&board),
	}
	o.unsubscribe = state.Subscribe(o.Refresh)
	o.Refresh(state.Filters())
	return o
}

// Close stops listening and cancels in-flight fetches.
func (o *Overview) Close() {
	o.unsubscribe()
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

type refreshPlan struct {
	gen       uint64
	tenant    int64
	tenantKey string
	entityID  int64
	widget    finapi.WidgetRequest
	entities  string
	asOf      string
	reportCcy string
}

// Refresh supersedes any in-flight generation and fetches every resource for
// filters. Results of superseded generations are dropped, and so are filters
// older than the last revision applied.
func (o *Overview) Refresh(filters Filters) {
	plan := o.plan(filters)

	o.mu.Lock()
	if o.gen > 0 && filters.Revision <= o.revision {
		o.mu.Unlock()
		o.logger.Debug("dashboard: stale filters dropped",
			slog.Uint64("revision", filters.Revision), slog.Uint64("applied", o.revision))
		return
	}
	o.revision = filters.Revision
	o.gen++
	plan.gen = o.gen
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	settled := make(chan struct{})
	o.settled = settled

	if filters.Tenant == nil {
		cash := finapi.MockCashOutlook()
		headlines := finapi.MockHeadlines()
		board := finapi.MockBoardOverview()
		o.ar = Idle[finapi.ARWidgetResponse](nil)
		o.ap = Idle[finapi.APWidgetResponse](nil)
		o.cash = Idle(&cash)
		o.headlines = Idle(&headlines)
		o.board = Idle(&board)
		close(settled)
		o.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(finapi.WithTenant(context.Background(), plan.tenant))
	o.cancel = cancel
	o.ar = o.ar.Begin()
	o.ap = o.ap.Begin()
	o.cash = o.cash.Begin()
	o.headlines = o.headlines.Begin()
	o.board = o.board.Begin()
	o.mu.Unlock()

	go o.run(ctx, plan, settled)
}

func (o *Overview) plan(filters Filters) refreshPlan {
	window := period.ResolveWidgetWindow(filters.Period, o.now())
	p := refreshPlan{entities: filters.EntityIDsCSV()}
	if filters.Tenant != nil {
		p.tenant = filters.Tenant.ID
		p.tenantKey = filters.Tenant.Name
	}
	if primary, ok := filters.PrimaryEntity(); ok {
		p.reportCcy = primary.BaseCurrency
		p.entityID = primary.DirectoryEntityID
	}
	p.widget = finapi.NewWidgetRequest(p.entities, window, p.reportCcy)
	p.asOf = window.To
	if p.asOf == "" {
		p.asOf = format.Date(o.now())
	}
	return p
}

func (o *Overview) run(ctx context.Context, p refreshPlan, settled chan struct{}) {
	defer close(settled)

	var g errgroup.Group
	g.Go(func() error {
		data, err := o.fetcher.FetchARWidget(ctx, p.widget)
		o.commit(ctx, p.gen, "ar-widget", err, func() {
			if err != nil {
				o.ar = o.ar.Fail(errorMessage(err, msgARFailed), nil)
				return
			}
			o.ar = o.ar.Succeed(data)
		})
		return nil
	})
	g.Go(func() error {
		data, err := o.fetcher.FetchAPWidget(ctx, p.widget)
		o.commit(ctx, p.gen, "ap-widget", err, func() {
			if err != nil {
				o.ap = o.ap.Fail(errorMessage(err, msgAPFailed), nil)
				return
			}
			o.ap = o.ap.Succeed(data)
		})
		return nil
	})
	g.Go(func() error {
		data, err := o.fetcher.FetchCashOutlook(ctx, p.entities, p.reportCcy)
		o.commit(ctx, p.gen, "cash-13w", err, func() {
			if err != nil {
				o.cash = o.cash.Fail(errorMessage(err, msgCashFailed), o.cash.Data)
				return
			}
			o.cash = o.cash.Succeed(data)
		})
		return nil
	})
	g.Go(func() error {
		data, err := o.fetcher.FetchHeadlines(ctx, p.tenantKey, p.entityID)
		o.commit(ctx, p.gen, "headlines", err, func() {
			if err != nil {
				o.headlines = o.headlines.Fail(errorMessage(err, msgHeadlinesFailed), o.headlines.Data)
				return
			}
			o.headlines = o.headlines.Succeed(data)
		})
		return nil
	})
	g.Go(func() error {
		data, err := o.fetcher.FetchBoardOverview(ctx, p.entities, p.asOf, p.reportCcy)
		o.commit(ctx, p.gen, "board-overview", err, func() {
			if err != nil {
				retained := o.board.Data
				if retained == nil {
					mock := finapi.MockBoardOverview()
					retained = &mock
				}
				o.board = o.board.Fail(errorMessage(err, msgBoardFailed), retained)
				return
			}
			o.board = o.board.Succeed(data)
		})
		return nil
	})
	_ = g.Wait()
}

// commit applies a result only when its generation is still current and its
// context was not cancelled.
func (o *Overview) commit(ctx context.Context, gen uint64, resource string, err error, apply func()) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen {
		return
	}
	if err != nil {
		o.logger.Warn("dashboard: widget fetch failed",
			slog.String("resource", resource), slog.Uint64("generation", gen), slog.Any("error", err))
	}
	apply()
}

func errorMessage(err error, fallback string) string {
	var apiErr *finapi.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}

// Wait blocks until the latest generation has settled.
func (o *Overview) Wait(ctx context.Context) error {
	for {
		o.mu.Lock()
		settled := o.settled
		o.mu.Unlock()

		select {
		case <-settled:
		case <-ctx.Done():
			return ctx.Err()
		}

		o.mu.Lock()
		current := o.settled == settled
		o.mu.Unlock()
		if current {
			return nil
		}
	}
}

// Snapshot renders the current view model.
func (o *Overview) Snapshot() Snapshot {
	o.mu.Lock()
	gen := o.gen
	ar, ap := o.ar, o.ap
	cash, headlines, board := o.cash, o.headlines, o.board
	o.mu.Unlock()

	filters := o.state.Filters()
	primaryCcy := ""
	if primary, ok := filters.PrimaryEntity(); ok {
		primaryCcy = primary.BaseCurrency
	}
	alerts := o.state.Alerts()
	if len(alerts) > alertsPreviewSize {
		alerts = alerts[:alertsPreviewSize]
	}

	return Snapshot{
		Generation:    gen,
		Filters:       filters,
		EntitySummary: o.state.EntitySummary(),
		Sections:      buildSections(ar, ap, board),
		ARStatus:      StatusLabel(ar.Loading, ar.Error),
		APStatus:      StatusLabel(ap.Loading, ap.Error),
		BoardLoading:  board.Loading,
		BoardError:    board.Error,
		CashOutlook:   BuildCashOutlookView(cash, primaryCcy),
		Headlines:     BuildHeadlinesView(headlines),
		UnreadAlerts:  o.state.UnreadAlerts(),
		AlertsPreview: alerts,
	}
}

// Section renders one section by id.
func (o *Overview) Section(id string) (SectionConfig, bool) {
	o.mu.Lock()
	ar, ap, board := o.ar, o.ap, o.board
	o.mu.Unlock()
	for _, s := range buildSections(ar, ap, board) {
		if s.ID == id {
			return s, true
		}
	}
	return SectionConfig{}, false
}

func buildSections(
	ar WidgetState[finapi.ARWidgetResponse],
	ap WidgetState[finapi.APWidgetResponse],
	board WidgetState[finapi.BoardOverviewResponse],
) []SectionConfig {
	sections := BuildBoardSections(BaseSections(), board.Data)
	for i, s := range sections {
		switch s.ID {
		case SectionAR:
			sections[i] = BuildARSection(s, ar)
		case SectionAP:
			sections[i] = BuildAPSection(s, ap)
		}
	}
	return sections
}
