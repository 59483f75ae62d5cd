package source

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/okved-cli/internal/okved"
)

// SQLiteLoader reads code/name rows from a SQLite table.
type SQLiteLoader struct {
	db    *sql.DB
	table string
}

// NewSQLiteLoader opens the database at dsn.
func NewSQLiteLoader(dsn, table string) (*SQLiteLoader, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "source: sqlite: open")
	}
	db.SetMaxOpenConns(1)
	return &SQLiteLoader{db: db, table: table}, nil
}

// Load reads all rows ordered by code under SQLite's binary collation, not
// in insertion order.
func (l *SQLiteLoader) Load(ctx context.Context) ([]okved.Row, error) {
	rows, err := l.db.QueryContext(ctx, selectRowsSQL(l.table))
	if err != nil {
		return nil, eris.Wrapf(err, "source: sqlite: query %s", l.table)
	}
	defer rows.Close()

	var out []okved.Row
	for rows.Next() {
		var code, name string
		if err := rows.Scan(&code, &name); err != nil {
			return nil, eris.Wrap(err, "source: sqlite: scan row")
		}
		if code = NormalizeCode(code); code == "" {
			continue
		}
		out = append(out, okved.Row{Code: code, Name: strings.TrimSpace(name)})
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "source: sqlite: iterate rows")
	}
	return out, nil
}

// Close closes the database.
func (l *SQLiteLoader) Close() error {
	return l.db.Close()
}
