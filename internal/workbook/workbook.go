// Package workbook loads a quiz export (XLSX, optionally compressed, from a
// file or URL) and hands its two sheets to the parser.
package workbook

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/pable/go-quiz-metrics/internal/model"
	"github.com/pable/go-quiz-metrics/internal/parser"
)

// DataLoadError is the single failure type of Load. No Dataset accompanies it.
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// Info describes what Load found.
type Info struct {
	Source       string
	Hash         string // sha256 of the decompressed workbook bytes
	SummarySheet string // "" when absent
	EventSheet   string // "" when absent
}

type options struct {
	client   *http.Client
	observer parser.Observer
}

// Option configures Load.
type Option func(*options)

// WithHTTPClient sets the client used for URL sources.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.client = c
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.client = &http.Client{Timeout: d}
		}
	}
}

// WithObserver forwards build diagnostics to obs.
func WithObserver(obs parser.Observer) Option {
	return func(o *options) { o.observer = obs }
}

// Load fetches source, decodes both sheets and builds the Dataset. A missing
// sheet yields an empty half of the Dataset, not an error.
func Load(ctx context.Context, source string, opts ...Option) (model.Dataset, Info, error) {
	o := options{client: &http.Client{Timeout: 30 * time.Second}}
	for _, opt := range opts {
		opt(&o)
	}

	data, err := readSource(ctx, o.client, source)
	if err != nil {
		return model.Dataset{}, Info{}, &DataLoadError{Source: source, Err: err}
	}
	ds, info, err := LoadBytes(data, o.observer)
	if err != nil {
		return model.Dataset{}, Info{}, &DataLoadError{Source: source, Err: err}
	}
	info.Source = source
	return ds, info, nil
}

// LoadBytes decodes an uncompressed XLSX document already in memory.
func LoadBytes(data []byte, obs parser.Observer) (model.Dataset, Info, error) {
	d, err := decode(data)
	if err != nil {
		return model.Dataset{}, Info{}, err
	}
	sum := sha256.Sum256(data)
	info := Info{
		Hash:         hex.EncodeToString(sum[:]),
		SummarySheet: d.summarySheet,
		EventSheet:   d.eventSheet,
	}
	ds := parser.Build(d.summaryRows, d.eventRows, parser.WithObserver(obs))
	return ds, info, nil
}
