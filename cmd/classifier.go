package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/okved-cli/internal/okved"
	"github.com/sells-group/okved-cli/internal/source"
)

// loadClassifier validates cfg for mode, reads the configured source and
// builds the classifier.
func loadClassifier(ctx context.Context, mode string) (*okved.Classifier, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	loader, err := source.Open(ctx, cfg.Source)
	if err != nil {
		return nil, err
	}
	defer loader.Close() //nolint:errcheck

	rows, err := loader.Load(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "load okved rows")
	}

	c := okved.New(rows, okved.WithOrderIndependent(cfg.Classifier.OrderIndependent))

	stats := c.Stats()
	zap.L().Info("classifier loaded",
		zap.String("source", sourceLabel()),
		zap.Int("rows", stats.Rows),
		zap.Int("main_sections", stats.Mains),
		zap.Int("sections", stats.Sections),
		zap.Int("subsections", stats.Subsections),
		zap.Int("orphans", stats.Orphans),
	)
	return c, nil
}

func sourceLabel() string {
	if cfg.Source.Kind == source.KindPostgres {
		return "postgres:" + cfg.Source.Table
	}
	return cfg.Source.Path
}
