package tenants

import (
	"context"
	"fmt"

	"github.com/odyssey-erp/execboard/internal/platform/db"
)

// Pool is a closable Querier.
type Pool interface {
	Querier
	Close()
}

// Connector opens a pool for one request.
type Connector func(ctx context.Context) (Pool, error)

// PostgresConnector dials cfg with the platform pool settings.
func PostgresConnector(cfg db.Config) Connector {
	return func(ctx context.Context) (Pool, error) {
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return pool, nil
	}
}

// Service serves the tenant directory straight from the database.
type Service struct {
	connect Connector
}

// NewService constructs a Service. A nil connector leaves it unconfigured.
func NewService(connect Connector) *Service {
	return &Service{connect: connect}
}

// Configured reports whether a database connector is set.
func (s *Service) Configured() bool {
	return s != nil && s.connect != nil
}

// Directory opens a pool, reads the directory and always closes the pool.
// Errors are classified into db.ConnectionError or db.QueryError.
func (s *Service) Directory(ctx context.Context) ([]DirectoryEntry, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	pool, err := s.connect(ctx)
	if err != nil {
		return nil, db.Classify(fmt.Errorf("tenants: connect: %w", err))
	}
	defer pool.Close()

	entries, err := NewRepository(pool).Directory(ctx)
	if err != nil {
		return nil, db.Classify(fmt.Errorf("tenants: directory: %w", err))
	}
	return entries, nil
}
