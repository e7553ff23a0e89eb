package tenants

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const directoryQuery = `SELECT fhl2.api_tenant_directory_json() AS api_tenant_directory_json`

// Querier is the subset of pgxpool.Pool the repository needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository reads the tenant directory from the analytics database.
type Repository struct {
	db Querier
}

// NewRepository constructs a Repository over q.
func NewRepository(q Querier) *Repository {
	return &Repository{db: q}
}

// Directory runs the directory function. A missing row, a NULL result and any
// non-array document all yield an empty directory.
func (r *Repository) Directory(ctx context.Context) ([]DirectoryEntry, error) {
	var raw []byte
	if err := r.db.QueryRow(ctx, directoryQuery).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []DirectoryEntry{}, nil
		}
		return nil, err
	}
	return decodeDirectory(raw)
}

func decodeDirectory(raw []byte) ([]DirectoryEntry, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []DirectoryEntry{}, nil
	}
	var entries []DirectoryEntry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("tenants: decode directory: %w", err)
	}
	for i := range entries {
		if entries[i].Entities == nil {
			entries[i].Entities = []Entity{}
		}
	}
	return entries, nil
}
