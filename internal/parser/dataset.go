package parser

import (
	"sort"

	"github.com/pable/go-quiz-metrics/internal/model"
)

type options struct {
	observer Observer
}

// Option configures Build.
type Option func(*options)

// WithObserver routes build diagnostics to o.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		if o != nil {
			opts.observer = o
		}
	}
}

// Build normalizes both sheets into one Dataset. Either input may be nil. The
// result depends only on the rows; observers see diagnostics but cannot
// change the outcome.
func Build(summaryRows, eventRows []Row, opts ...Option) model.Dataset {
	o := options{observer: nopObserver{}}
	for _, opt := range opts {
		opt(&o)
	}

	ds := model.Dataset{
		Summaries: NormalizeSummaries(summaryRows),
		Events:    NormalizeEvents(eventRows),
	}

	o.observer.Observe(Diagnostic{
		Kind:    KindSheetNormalized,
		Sheet:   SheetSummary,
		Records: len(ds.Summaries),
		Headers: firstRowHeaders(summaryRows),
	})
	o.observer.Observe(Diagnostic{
		Kind:    KindSheetNormalized,
		Sheet:   SheetEvents,
		Records: len(ds.Events),
		Headers: firstRowHeaders(eventRows),
	})

	reportJoin(ds, o.observer)
	reportOrderSuspects(ds.Events, o.observer)
	return ds
}

func firstRowHeaders(rows []Row) []string {
	if len(rows) == 0 {
		return nil
	}
	headers := make([]string, 0, len(rows[0]))
	for h := range rows[0] {
		headers = append(headers, h)
	}
	sort.Strings(headers)
	return headers
}

// reportJoin compares player identities across the sheets. Mismatches are
// tolerated; they are only reported.
func reportJoin(ds model.Dataset, obs Observer) {
	if len(ds.Summaries) == 0 || len(ds.Events) == 0 {
		return
	}
	inSummary := make(map[string]struct{}, len(ds.Summaries))
	for _, s := range ds.Summaries {
		inSummary[s.Player] = struct{}{}
	}
	inEvents := make(map[string]struct{})
	for _, e := range ds.Events {
		inEvents[e.Player] = struct{}{}
	}

	d := Diagnostic{Kind: KindPlayerJoin}
	for p := range inSummary {
		if _, ok := inEvents[p]; ok {
			d.Matched++
		} else {
			d.SummaryOnly = append(d.SummaryOnly, p)
		}
	}
	for p := range inEvents {
		if _, ok := inSummary[p]; !ok {
			d.EventsOnly = append(d.EventsOnly, p)
		}
	}
	sort.Strings(d.SummaryOnly)
	sort.Strings(d.EventsOnly)
	obs.Observe(d)
}

// reportOrderSuspects flags events whose running total drops below the
// player's previous event.
func reportOrderSuspects(events []model.AnswerEvent, obs Observer) {
	last := make(map[string]float64)
	for _, e := range events {
		prev, seen := last[e.Player]
		if seen && e.RunningTotalScore < prev {
			obs.Observe(Diagnostic{
				Kind:          KindOrderSuspect,
				Sheet:         SheetEvents,
				Player:        e.Player,
				Row:           e.Row,
				PreviousTotal: prev,
				Total:         e.RunningTotalScore,
			})
		}
		last[e.Player] = e.RunningTotalScore
	}
}
