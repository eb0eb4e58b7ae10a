package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pable/go-quiz-metrics/internal/model"
	"github.com/pable/go-quiz-metrics/internal/parser"
	"github.com/pable/go-quiz-metrics/internal/storage"
	"github.com/pable/go-quiz-metrics/internal/workbook"
	"github.com/pable/go-quiz-metrics/pkg/logger"
)

// openDB opens the configured database, creating its directory first.
func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// loadSource reads a workbook from a file or URL, logging and counting the
// build diagnostics.
func loadSource(ctx context.Context, source string) (model.Dataset, workbook.Info, error) {
	log := logger.Named("load")
	start := time.Now()
	ds, info, err := workbook.Load(ctx, source,
		workbook.WithTimeout(cfg.HTTPTimeout),
		workbook.WithObserver(parser.Multi(logger.Observer(log), metricsManager.Observer())),
	)
	metricsManager.RecordLoad(time.Since(start), err)
	if err != nil {
		return model.Dataset{}, workbook.Info{}, err
	}
	log.Debug(ctx, "workbook loaded",
		logger.String("source", source),
		logger.String("hash", info.Hash),
		logger.Int("summaries", len(ds.Summaries)),
		logger.Int("events", len(ds.Events)),
	)
	return ds, info, nil
}

// isSource reports whether ref names a workbook rather than a stored hash.
func isSource(ref string) bool {
	if workbook.IsURL(ref) {
		return true
	}
	st, err := os.Stat(ref)
	return err == nil && !st.IsDir()
}

// resolveRef turns a command's <ref> argument into a Dataset. A file path or
// URL is loaded on the fly (rec is nil); anything else is a stored hash prefix.
func resolveRef(ctx context.Context, ref string) (model.Dataset, *model.ImportSummary, error) {
	if isSource(ref) {
		ds, _, err := loadSource(ctx, ref)
		return ds, nil, err
	}

	db, err := openDB()
	if err != nil {
		return model.Dataset{}, nil, err
	}
	defer db.Close()

	rec, err := db.GetImportByPrefix(ref)
	if err != nil {
		return model.Dataset{}, nil, fmt.Errorf("query import: %w", err)
	}
	if rec == nil {
		return model.Dataset{}, nil, fmt.Errorf("no import found with hash prefix %q (and no such file)", ref)
	}
	ds, err := db.LoadDataset(rec.Hash)
	if err != nil {
		return model.Dataset{}, nil, fmt.Errorf("load dataset: %w", err)
	}
	return ds, rec, nil
}
