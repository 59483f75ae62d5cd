package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/okved-cli/internal/okved"
)

// Querier is the subset of pgxpool.Pool used by PostgresLoader.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresLoader reads code/name rows from a Postgres table.
type PostgresLoader struct {
	pool    Querier
	table   string
	closeFn func()
}

// NewPostgresLoader connects to Postgres and returns a loader for table,
// which may be schema-qualified ("ref.okved").
func NewPostgresLoader(ctx context.Context, connString, table string) (*PostgresLoader, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "source: postgres: parse config")
	}
	cfg.MaxConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "source: postgres: connect")
	}
	return &PostgresLoader{pool: pool, table: table, closeFn: pool.Close}, nil
}

// selectRowsSQL builds the query shared by the database loaders. Ordering by
// code puts every parent before its children.
func selectRowsSQL(table string) string {
	ident := pgx.Identifier(strings.Split(table, ".")).Sanitize()
	return fmt.Sprintf(`SELECT code, COALESCE(name, '') FROM %s WHERE code IS NOT NULL ORDER BY code`, ident)
}

// Load reads all rows ordered by code. Tables carry no insertion order, so
// the order of AllSections and FullList follows the database collation of
// the code column.
func (l *PostgresLoader) Load(ctx context.Context) ([]okved.Row, error) {
	rows, err := l.pool.Query(ctx, selectRowsSQL(l.table))
	if err != nil {
		return nil, eris.Wrapf(err, "source: postgres: query %s", l.table)
	}
	defer rows.Close()

	var out []okved.Row
	for rows.Next() {
		var code, name string
		if err := rows.Scan(&code, &name); err != nil {
			return nil, eris.Wrap(err, "source: postgres: scan row")
		}
		if code = NormalizeCode(code); code == "" {
			continue
		}
		out = append(out, okved.Row{Code: code, Name: strings.TrimSpace(name)})
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "source: postgres: iterate rows")
	}
	return out, nil
}

// Close releases the connection pool.
func (l *PostgresLoader) Close() error {
	if l.closeFn != nil {
		l.closeFn()
	}
	return nil
}
