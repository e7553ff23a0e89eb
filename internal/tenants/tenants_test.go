package tenants

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/execboard/internal/platform/db"
	"github.com/odyssey-erp/execboard/internal/platform/httpx"
)

type fakeRow struct {
	raw []byte
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.raw
	return nil
}

type fakePool struct {
	row    fakeRow
	sql    string
	closed int
}

func (p *fakePool) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	p.sql = sql
	return p.row
}

func (p *fakePool) Close() { p.closed++ }

func connectorFor(p *fakePool) Connector {
	return func(context.Context) (Pool, error) { return p, nil }
}

const directoryJSON = `[{"tenant_id":1,"tenant_name":"Alpha","entities":[{"name":"Alpha","entity_id":4,"country_code":"DE","base_currency":"EUR"}]},{"tenant_id":2,"tenant_name":"Omega","entities":null}]`

func TestRepositoryDirectory(t *testing.T) {
	pool := &fakePool{row: fakeRow{raw: []byte(directoryJSON)}}
	entries, err := NewRepository(pool).Directory(context.Background())
	require.NoError(t, err)
	require.Equal(t, directoryQuery, pool.sql)
	require.Len(t, entries, 2)
	require.Equal(t, "EUR", entries[0].Entities[0].BaseCurrency)
	require.NotNil(t, entries[1].Entities)
	require.Empty(t, entries[1].Entities)
}

func TestRepositoryNonArrayYieldsEmpty(t *testing.T) {
	for _, raw := range []string{"", "null", `{"data":[]}`, `"text"`, "  "} {
		pool := &fakePool{row: fakeRow{raw: []byte(raw)}}
		entries, err := NewRepository(pool).Directory(context.Background())
		require.NoError(t, err, raw)
		require.NotNil(t, entries, raw)
		require.Empty(t, entries, raw)
	}

	pool := &fakePool{row: fakeRow{err: pgx.ErrNoRows}}
	entries, err := NewRepository(pool).Directory(context.Background())
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRepositoryMalformedArray(t *testing.T) {
	pool := &fakePool{row: fakeRow{raw: []byte(`[{"tenant_id":"x"}]`)}}
	_, err := NewRepository(pool).Directory(context.Background())
	require.Error(t, err)
}

func TestServiceClosesPoolOnEveryOutcome(t *testing.T) {
	ok := &fakePool{row: fakeRow{raw: []byte(directoryJSON)}}
	_, err := NewService(connectorFor(ok)).Directory(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, ok.closed)

	failing := &fakePool{row: fakeRow{err: errors.New("function fhl2.api_tenant_directory_json() does not exist")}}
	_, err = NewService(connectorFor(failing)).Directory(context.Background())
	var queryErr *db.QueryError
	require.ErrorAs(t, err, &queryErr)
	require.Equal(t, 1, failing.closed)
}

func TestServiceClassifiesConnectFailure(t *testing.T) {
	svc := NewService(func(context.Context) (Pool, error) { return nil, syscall.ECONNREFUSED })
	_, err := svc.Directory(context.Background())
	var connErr *db.ConnectionError
	require.ErrorAs(t, err, &connErr)

	_, err = NewService(nil).Directory(context.Background())
	require.ErrorIs(t, err, ErrNotConfigured)
	require.False(t, NewService(nil).Configured())
}

func serve(t *testing.T, svc *Service) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	NewHandler(nil, svc).MountRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tenant-directory", nil))
	return rec
}

func TestHandlerDirectory(t *testing.T) {
	rec := serve(t, NewService(connectorFor(&fakePool{row: fakeRow{raw: []byte(directoryJSON)}})))
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []DirectoryEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)

	rec = serve(t, NewService(connectorFor(&fakePool{row: fakeRow{raw: []byte(`{}`)}})))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandlerErrors(t *testing.T) {
	cases := []struct {
		name   string
		svc    *Service
		status int
	}{
		{"not configured", NewService(nil), http.StatusServiceUnavailable},
		{"unreachable", NewService(func(context.Context) (Pool, error) { return nil, syscall.ECONNREFUSED }), http.StatusServiceUnavailable},
		{"query", NewService(connectorFor(&fakePool{row: fakeRow{err: errors.New("boom")}})), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, tc.svc)
			require.Equal(t, tc.status, rec.Code)
			var problem httpx.ProblemDetail
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			require.Equal(t, tc.status, problem.Status)
		})
	}
}
