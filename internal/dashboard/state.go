package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/odyssey-erp/execboard/internal/period"
	"github.com/odyssey-erp/execboard/internal/tenants"
)

// AllEntities is the entity selection sentinel meaning every entity.
const AllEntities = ""

var (
	ErrUnknownPeriod = errors.New("dashboard: unknown period")
	ErrUnknownTenant = errors.New("dashboard: unknown tenant")
	ErrUnknownAlert  = errors.New("dashboard: unknown alert")
)

// Filters are the global dashboard filters. Revision increases with every
// change, so listeners can order snapshots delivered out of sequence.
type Filters struct {
	Tenant    *tenants.Summary `json:"tenant,omitempty"`
	EntityIDs []string         `json:"entityIds"`
	Period    period.Period    `json:"period"`
	Revision  uint64           `json:"revision"`

	primary *Entity
}

func (f Filters) clone() Filters {
	out := f
	if f.Tenant != nil {
		t := *f.Tenant
		out.Tenant = &t
	}
	if f.primary != nil {
		e := *f.primary
		out.primary = &e
	}
	out.EntityIDs = append([]string{}, f.EntityIDs...)
	return out
}

// PrimaryEntity is the first selected entity as of this snapshot.
func (f Filters) PrimaryEntity() (Entity, bool) {
	if f.primary == nil {
		return Entity{}, false
	}
	return *f.primary, true
}

// EntityIDsCSV joins the selected ids for upstream queries. The all-entities
// sentinel and an empty selection both yield "".
func (f Filters) EntityIDsCSV() string {
	for _, id := range f.EntityIDs {
		if id == AllEntities {
			return ""
		}
	}
	return strings.Join(f.EntityIDs, ",")
}

// DirectoryLoader fetches the tenant directory.
type DirectoryLoader interface {
	FetchTenantDirectory(ctx context.Context) ([]tenants.DirectoryEntry, error)
}

// Listener observes filter changes.
type Listener func(Filters)

// State is the shared dashboard state. Listeners run synchronously after
// every filter change, outside the lock, and may observe snapshots of
// concurrent changes in any order.
type State struct {
	loader DirectoryLoader
	logger *slog.Logger

	mu        sync.RWMutex
	filters   Filters
	directory []tenants.DirectoryEntry
	search    string
	alerts    []Alert
	listeners map[uint64]Listener
	nextID    uint64
}

// NewState builds the state with default filters and the seeded alert feed.
func NewState(loader DirectoryLoader, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.Default()
	}
	return &State{
		loader:    loader,
		logger:    logger,
		filters:   Filters{EntityIDs: []string{}, Period: period.Default()},
		alerts:    SeedAlerts(time.Now()),
		listeners: make(map[uint64]Listener),
	}
}

// Subscribe registers fn and returns a function that removes it.
func (s *State) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// update applies mutate under the lock and notifies listeners when it
// reports a change.
func (s *State) update(mutate func() bool) {
	s.mu.Lock()
	if !mutate() {
		s.mu.Unlock()
		return
	}
	s.filters.Revision++
	snapshot := s.snapshotLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Filters returns a copy of the current filters.
func (s *State) Filters() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Filters {
	out := s.filters.clone()
	out.primary = nil
	if selected := s.selectedEntitiesLocked(); len(selected) > 0 {
		out.primary = &selected[0]
	}
	return out
}

// Directory returns the loaded tenant directory.
func (s *State) Directory() []tenants.DirectoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]tenants.DirectoryEntry(nil), s.directory...)
}

// LoadTenantDirectory fetches the directory and selects its first tenant and
// that tenant's first entity.
func (s *State) LoadTenantDirectory(ctx context.Context) error {
	if s.loader == nil {
		return nil
	}
	entries, err := s.loader.FetchTenantDirectory(ctx)
	if err != nil {
		s.logger.Error("dashboard: load tenant directory", slog.Any("error", err))
		return fmt.Errorf("dashboard: load tenant directory: %w", err)
	}
	s.update(func() bool {
		s.directory = entries
		if len(entries) > 0 {
			s.selectTenantLocked(entries[0])
		}
		return true
	})
	return nil
}

// SetPeriod selects a period from the catalog.
func (s *State) SetPeriod(id string) error {
	p, ok := period.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPeriod, id)
	}
	s.update(func() bool {
		s.filters.Period = p
		return true
	})
	return nil
}

// SetTenant selects a tenant from the directory and resets the entity
// selection to its first entity, or to all entities when it has none.
func (s *State) SetTenant(tenantID int64) error {
	var err error
	s.update(func() bool {
		for _, entry := range s.directory {
			if entry.TenantID == tenantID {
				s.selectTenantLocked(entry)
				return true
			}
		}
		err = fmt.Errorf("%w: %d", ErrUnknownTenant, tenantID)
		return false
	})
	return err
}

func (s *State) selectTenantLocked(entry tenants.DirectoryEntry) {
	s.filters.Tenant = &tenants.Summary{ID: entry.TenantID, Name: entry.TenantName}
	if len(entry.Entities) > 0 {
		s.filters.EntityIDs = []string{strconv.FormatInt(entry.Entities[0].EntityID, 10)}
		return
	}
	s.filters.EntityIDs = []string{AllEntities}
}

// SetEntitySelections replaces the entity selection. Duplicates and ids that
// are not options of the active tenant are dropped; the all-entities sentinel
// collapses the selection to itself.
func (s *State) SetEntitySelections(ids []string) {
	s.update(func() bool {
		s.filters.EntityIDs = s.normalizeSelectionLocked(ids)
		return true
	})
}

func (s *State) normalizeSelectionLocked(ids []string) []string {
	if len(ids) == 0 {
		return []string{}
	}
	known := make(map[string]bool)
	for _, opt := range s.entityOptionsLocked() {
		known[opt.ID] = true
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == AllEntities {
			return []string{AllEntities}
		}
		if seen[id] || !known[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// EntityOptions lists the entities of the active tenant.
func (s *State) EntityOptions() []Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entityOptionsLocked()
}

func (s *State) entityOptionsLocked() []Entity {
	if s.filters.Tenant == nil {
		return []Entity{}
	}
	for _, entry := range s.directory {
		if entry.TenantID != s.filters.Tenant.ID {
			continue
		}
		out := make([]Entity, 0, len(entry.Entities))
		for _, e := range entry.Entities {
			out = append(out, Entity{
				ID:                strconv.FormatInt(e.EntityID, 10),
				Name:              e.Name,
				Type:              EntitySubsidiary,
				DirectoryEntityID: e.EntityID,
				TenantID:          entry.TenantID,
				CountryCode:       e.CountryCode,
				BaseCurrency:      e.BaseCurrency,
			})
		}
		return out
	}
	return []Entity{}
}

// SelectedEntities resolves the selected ids against the entity options.
func (s *State) SelectedEntities() []Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedEntitiesLocked()
}

func (s *State) selectedEntitiesLocked() []Entity {
	lookup := make(map[string]Entity)
	for _, opt := range s.entityOptionsLocked() {
		lookup[opt.ID] = opt
	}
	out := []Entity{}
	for _, id := range s.filters.EntityIDs {
		if id == AllEntities {
			continue
		}
		if e, ok := lookup[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// PrimaryEntity is the first selected entity.
func (s *State) PrimaryEntity() (Entity, bool) {
	return s.Filters().PrimaryEntity()
}

// EntitySummary describes the entity selection for the filter bar.
func (s *State) EntitySummary() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entityOptionsLocked()) == 0 {
		return "No entities"
	}
	if len(s.filters.EntityIDs) == 0 {
		return "Select entities"
	}
	for _, id := range s.filters.EntityIDs {
		if id == AllEntities {
			return "All Entities"
		}
	}
	selected := s.selectedEntitiesLocked()
	switch {
	case len(selected) == 0:
		return "Select entities"
	case len(selected) <= 2:
		names := make([]string, len(selected))
		for i, e := range selected {
			names[i] = e.Name
		}
		return strings.Join(names, ", ")
	default:
		return fmt.Sprintf("%d entities", len(selected))
	}
}

// SetSearchQuery stores the section search query.
func (s *State) SetSearchQuery(q string) {
	s.mu.Lock()
	s.search = q
	s.mu.Unlock()
}

// SearchQuery returns the stored search query.
func (s *State) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.search
}

// SearchResults filters the section catalog by the stored query.
func (s *State) SearchResults() []SectionConfig {
	return SearchSections(s.SearchQuery())
}

// SearchSections matches section names by case-insensitive substring. A blank
// query matches nothing.
func SearchSections(query string) []SectionConfig {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []SectionConfig{}
	if q == "" {
		return out
	}
	for _, section := range BaseSections() {
		if strings.Contains(strings.ToLower(section.Name), q) {
			out = append(out, section)
		}
	}
	return out
}

// Alerts returns the alert feed.
func (s *State) Alerts() []Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Alert(nil), s.alerts...)
}

// UnreadAlerts counts alerts not yet read.
func (s *State) UnreadAlerts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.alerts {
		if !a.IsRead {
			n++
		}
	}
	return n
}

// MarkAlertRead flags an alert as read.
func (s *State) MarkAlertRead(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID == id {
			s.alerts[i].IsRead = true
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownAlert, id)
}
