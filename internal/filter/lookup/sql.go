package lookup

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DefaultQueries select each lookup list from the fleet database.
var DefaultQueries = map[Kind]string{
	Groups:   `SELECT id, name FROM vehicle_groups ORDER BY name`,
	Vehicles: `SELECT id, name FROM vehicles ORDER BY name`,
	Contacts: `SELECT id, first_name, last_name FROM contacts ORDER BY first_name, last_name`,
	Vendors:  `SELECT id, name FROM vendors ORDER BY name`,
	Forms:    `SELECT id, name FROM inspection_templates WHERE is_active = TRUE ORDER BY name`,
}

// SQLSource reads lookups straight from a database.
type SQLSource struct {
	db      *sqlx.DB
	queries map[Kind]string
}

// NewSQLSource wraps db. A nil queries map uses DefaultQueries.
func NewSQLSource(db *sqlx.DB, queries map[Kind]string) *SQLSource {
	if queries == nil {
		queries = DefaultQueries
	}
	return &SQLSource{db: db, queries: queries}
}

// OpenSQLSource connects with driver ("sqlite" or "postgres") and dsn.
func OpenSQLSource(ctx context.Context, driver, dsn string) (*SQLSource, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting lookup database: %w", err)
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}
	return NewSQLSource(db, nil), nil
}

// Close releases the database handle.
func (s *SQLSource) Close() error { return s.db.Close() }

// Fetch runs the query registered for kind.
func (s *SQLSource) Fetch(ctx context.Context, kind Kind) ([]Entity, error) {
	q, ok := s.queries[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	var list []Entity
	if err := s.db.SelectContext(ctx, &list, q); err != nil {
		return nil, fmt.Errorf("querying %s: %w", kind, err)
	}
	return list, nil
}
