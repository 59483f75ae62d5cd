package source

import (
	"context"
	"os"
	"path"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/okved-cli/internal/config"
	"github.com/sells-group/okved-cli/internal/okved"
)

// Loader produces the ordered code/name rows for the classifier.
type Loader interface {
	Load(ctx context.Context) ([]okved.Row, error)
	Close() error
}

// Kinds of source recognised by Open.
const (
	KindCSV      = "csv"
	KindXLSX     = "xlsx"
	KindPostgres = "postgres"
	KindSQLite   = "sqlite"
)

// DetectKind infers the source kind from the file extension of p, ignoring
// any URL query string. Unknown extensions default to csv.
func DetectKind(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 && IsRemote(p) {
		p = p[:i]
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".xlsx", ".xlsm":
		return KindXLSX
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	default:
		return KindCSV
	}
}

// IsPostgresURL reports whether s is a postgres:// or postgresql:// URL.
func IsPostgresURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

// Open returns the loader described by cfg.
func Open(ctx context.Context, cfg config.SourceConfig) (Loader, error) {
	kind := cfg.Kind
	if kind == "" {
		if IsPostgresURL(cfg.DatabaseURL) {
			kind = KindPostgres
		} else {
			kind = DetectKind(cfg.Path)
		}
	}

	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	opener := NewOpener(timeout, cfg.MaxRetries)

	zap.L().Debug("source: opening",
		zap.String("kind", kind),
		zap.String("path", cfg.Path),
		zap.String("table", cfg.Table),
	)

	switch kind {
	case KindCSV:
		var delim rune
		if r := []rune(cfg.Delimiter); len(r) > 0 {
			delim = r[0]
		}
		return &CSVLoader{
			Path:   cfg.Path,
			Opener: opener,
			Options: CSVOptions{
				Delimiter:  delim,
				Charset:    cfg.Charset,
				LazyQuotes: true,
			},
		}, nil
	case KindXLSX:
		return &XLSXLoader{
			Path:    cfg.Path,
			Opener:  opener,
			Options: XLSXOptions{SheetIndex: cfg.SheetIndex, SheetName: cfg.Sheet},
		}, nil
	case KindPostgres:
		l, err := NewPostgresLoader(ctx, cfg.DatabaseURL, cfg.Table)
		if err != nil {
			return nil, err
		}
		return l, nil
	case KindSQLite:
		dsn := cfg.Path
		if dsn == "" {
			dsn = cfg.DatabaseURL
		}
		l, err := NewSQLiteLoader(dsn, cfg.Table)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, eris.Errorf("source: unknown kind %q", kind)
	}
}

// CSVLoader reads a local or remote CSV file.
type CSVLoader struct {
	Path    string
	Opener  *Opener
	Options CSVOptions
}

// Load reads and parses the file.
func (l *CSVLoader) Load(ctx context.Context) ([]okved.Row, error) {
	rc, err := l.Opener.Open(ctx, l.Path)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck

	rows, err := ReadCSV(ctx, rc, l.Options)
	if err != nil {
		return nil, eris.Wrapf(err, "source: load %s", l.Path)
	}
	return rows, nil
}

// Close is a no-op; files are closed by Load.
func (l *CSVLoader) Close() error { return nil }

// XLSXLoader reads one sheet of a local or remote workbook.
type XLSXLoader struct {
	Path    string
	Opener  *Opener
	Options XLSXOptions
}

// Load reads and parses the workbook. Remote workbooks are downloaded to a
// temporary file first.
func (l *XLSXLoader) Load(ctx context.Context) ([]okved.Row, error) {
	p := l.Path
	if IsRemote(p) {
		tmp, err := l.Opener.Fetch(ctx, p, "okved-*.xlsx")
		if err != nil {
			return nil, err
		}
		defer os.Remove(tmp) //nolint:errcheck
		p = tmp
	}

	rows, err := ReadXLSX(p, l.Options)
	if err != nil {
		return nil, eris.Wrapf(err, "source: load %s", l.Path)
	}
	return rows, nil
}

// Close is a no-op.
func (l *XLSXLoader) Close() error { return nil }
