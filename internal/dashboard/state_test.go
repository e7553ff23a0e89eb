package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/execboard/internal/period"
	"github.com/odyssey-erp/execboard/internal/tenants"
)

type fakeLoader struct {
	entries []tenants.DirectoryEntry
	err     error
	calls   int
}

func (f *fakeLoader) FetchTenantDirectory(context.Context) ([]tenants.DirectoryEntry, error) {
	f.calls++
	return f.entries, f.err
}

func testDirectory() []tenants.DirectoryEntry {
	return []tenants.DirectoryEntry{
		{
			TenantID:   1,
			TenantName: "Alpha",
			Entities: []tenants.Entity{
				{Name: "Alpha GmbH", EntityID: 4, CountryCode: "DE", BaseCurrency: "EUR"},
				{Name: "Alpha Ltd", EntityID: 7, CountryCode: "GB", BaseCurrency: "GBP"},
				{Name: "Alpha Inc", EntityID: 9, CountryCode: "US", BaseCurrency: "USD"},
			},
		},
		{TenantID: 2, TenantName: "Omega"},
	}
}

func loadedState(t *testing.T) *State {
	t.Helper()
	s := NewState(&fakeLoader{entries: testDirectory()}, nil)
	require.NoError(t, s.LoadTenantDirectory(context.Background()))
	return s
}

func TestNewStateDefaults(t *testing.T) {
	s := NewState(nil, nil)
	f := s.Filters()
	require.Nil(t, f.Tenant)
	require.Empty(t, f.EntityIDs)
	require.Equal(t, period.Default(), f.Period)
	require.Equal(t, "No entities", s.EntitySummary())
	require.Len(t, s.Alerts(), 6)
	require.Equal(t, 3, s.UnreadAlerts())
	require.NoError(t, s.LoadTenantDirectory(context.Background()))
}

func TestLoadTenantDirectorySelectsFirstTenant(t *testing.T) {
	s := loadedState(t)
	f := s.Filters()
	require.Equal(t, &tenants.Summary{ID: 1, Name: "Alpha"}, f.Tenant)
	require.Equal(t, []string{"4"}, f.EntityIDs)
	require.Len(t, s.Directory(), 2)

	primary, ok := s.PrimaryEntity()
	require.True(t, ok)
	require.Equal(t, "EUR", primary.BaseCurrency)
	require.Equal(t, int64(4), primary.DirectoryEntityID)
	require.Equal(t, int64(1), primary.TenantID)
}

func TestLoadTenantDirectoryError(t *testing.T) {
	loader := &fakeLoader{err: errors.New("upstream down")}
	s := NewState(loader, nil)
	err := s.LoadTenantDirectory(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "upstream down")
	require.Nil(t, s.Filters().Tenant)
}

func TestLoadEmptyDirectoryKeepsNoTenant(t *testing.T) {
	s := NewState(&fakeLoader{entries: []tenants.DirectoryEntry{}}, nil)
	require.NoError(t, s.LoadTenantDirectory(context.Background()))
	require.Nil(t, s.Filters().Tenant)
	require.Empty(t, s.EntityOptions())
}

func TestSetTenant(t *testing.T) {
	s := loadedState(t)

	require.NoError(t, s.SetTenant(2))
	f := s.Filters()
	require.Equal(t, "Omega", f.Tenant.Name)
	require.Equal(t, []string{AllEntities}, f.EntityIDs)
	require.Empty(t, s.EntityOptions())
	_, ok := s.PrimaryEntity()
	require.False(t, ok)

	err := s.SetTenant(42)
	require.ErrorIs(t, err, ErrUnknownTenant)
	require.Equal(t, "Omega", s.Filters().Tenant.Name)
}

func TestSetPeriod(t *testing.T) {
	s := NewState(nil, nil)
	catalog := period.Catalog()
	target := catalog[len(catalog)-1]

	require.NoError(t, s.SetPeriod(target.ID))
	require.Equal(t, target, s.Filters().Period)

	require.ErrorIs(t, s.SetPeriod("nope"), ErrUnknownPeriod)
	require.Equal(t, target, s.Filters().Period)
}

func TestSetEntitySelections(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, []string{}},
		{"sentinel wins", []string{"4", AllEntities, "7"}, []string{AllEntities}},
		{"dedupe", []string{"7", "4", "7"}, []string{"7", "4"}},
		{"drop unknown", []string{"4", "99", " 9 "}, []string{"4", "9"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := loadedState(t)
			s.SetEntitySelections(tc.in)
			require.Equal(t, tc.want, s.Filters().EntityIDs)
		})
	}
}

func TestEntitySummary(t *testing.T) {
	s := loadedState(t)
	require.Equal(t, "Alpha GmbH", s.EntitySummary())

	s.SetEntitySelections([]string{"4", "7"})
	require.Equal(t, "Alpha GmbH, Alpha Ltd", s.EntitySummary())

	s.SetEntitySelections([]string{"4", "7", "9"})
	require.Equal(t, "3 entities", s.EntitySummary())

	s.SetEntitySelections([]string{AllEntities})
	require.Equal(t, "All Entities", s.EntitySummary())
	require.Empty(t, s.SelectedEntities())

	s.SetEntitySelections(nil)
	require.Equal(t, "Select entities", s.EntitySummary())
}

func TestEntityIDsCSV(t *testing.T) {
	require.Equal(t, "4,7", Filters{EntityIDs: []string{"4", "7"}}.EntityIDsCSV())
	require.Equal(t, "", Filters{EntityIDs: []string{AllEntities}}.EntityIDsCSV())
	require.Equal(t, "", Filters{}.EntityIDsCSV())
}

func TestFiltersAreCopies(t *testing.T) {
	s := loadedState(t)
	f := s.Filters()
	f.EntityIDs[0] = "mutated"
	f.Tenant.Name = "mutated"

	again := s.Filters()
	require.Equal(t, "4", again.EntityIDs[0])
	require.Equal(t, "Alpha", again.Tenant.Name)
}

func TestSubscribeNotifiesUntilUnsubscribed(t *testing.T) {
	s := loadedState(t)
	var seen []Filters
	unsubscribe := s.Subscribe(func(f Filters) { seen = append(seen, f) })

	s.SetEntitySelections([]string{"7"})
	require.Len(t, seen, 1)
	require.Equal(t, []string{"7"}, seen[0].EntityIDs)

	require.Error(t, s.SetTenant(99))
	require.Len(t, seen, 1, "failed updates do not notify")

	unsubscribe()
	unsubscribe()
	s.SetEntitySelections([]string{"4"})
	require.Len(t, seen, 1)
}

func TestListenerMayReadState(t *testing.T) {
	s := loadedState(t)
	var summary string
	s.Subscribe(func(Filters) { summary = s.EntitySummary() })
	s.SetEntitySelections([]string{"9"})
	require.Equal(t, "Alpha Inc", summary)
}

func TestSearchSections(t *testing.T) {
	s := NewState(nil, nil)
	require.Empty(t, s.SearchResults())

	s.SetSearchQuery("  ACCOUNTS ")
	require.Equal(t, "  ACCOUNTS ", s.SearchQuery())
	results := s.SearchResults()
	require.Len(t, results, 2)
	require.Equal(t, SectionAR, results[0].ID)
	require.Equal(t, SectionAP, results[1].ID)

	require.Len(t, SearchSections("risk"), 1)
	require.Empty(t, SearchSections("payroll"))
	require.Empty(t, SearchSections("   "))
}

func TestMarkAlertRead(t *testing.T) {
	s := NewState(nil, nil)
	require.Equal(t, 3, s.UnreadAlerts())

	require.NoError(t, s.MarkAlertRead("1"))
	require.Equal(t, 2, s.UnreadAlerts())
	require.True(t, s.Alerts()[0].IsRead)

	require.NoError(t, s.MarkAlertRead("1"))
	require.Equal(t, 2, s.UnreadAlerts())

	require.ErrorIs(t, s.MarkAlertRead("missing"), ErrUnknownAlert)
}

func TestFiltersRevisionAndPrimary(t *testing.T) {
	s := loadedState(t)
	first := s.Filters()
	primary, ok := first.PrimaryEntity()
	require.True(t, ok)
	require.Equal(t, "4", primary.ID)

	s.SetEntitySelections([]string{"7", "4"})
	second := s.Filters()
	require.Greater(t, second.Revision, first.Revision)
	primary, _ = second.PrimaryEntity()
	require.Equal(t, "GBP", primary.BaseCurrency)

	require.Error(t, s.SetTenant(99))
	require.Equal(t, second.Revision, s.Filters().Revision)

	var seen []uint64
	s.Subscribe(func(f Filters) { seen = append(seen, f.Revision) })
	require.NoError(t, s.SetPeriod("current-year"))
	require.NoError(t, s.SetTenant(2))
	require.Equal(t, []uint64{second.Revision + 1, second.Revision + 2}, seen)

	_, ok = s.Filters().PrimaryEntity()
	require.False(t, ok)
}
