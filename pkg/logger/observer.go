package logger

import (
	"context"

	"github.com/pable/go-quiz-metrics/internal/parser"
)

// Observer returns a parser.Observer that logs build diagnostics through l.
// Sheet summaries log at debug; anything pointing at suspect data logs at warn.
func Observer(l Logger) parser.Observer {
	return parser.ObserverFunc(func(d parser.Diagnostic) {
		ctx := context.Background()
		switch d.Kind {
		case parser.KindSheetNormalized:
			l.Debug(ctx, "sheet normalized",
				String("sheet", d.Sheet),
				Int("records", d.Records),
				Strings("headers", d.Headers),
			)
		case parser.KindPlayerJoin:
			fields := []Field{
				Int("matched", d.Matched),
				Strings("summary_only", d.SummaryOnly),
				Strings("events_only", d.EventsOnly),
			}
			if len(d.SummaryOnly) > 0 || len(d.EventsOnly) > 0 {
				l.Warn(ctx, "players differ between sheets", fields...)
				return
			}
			l.Debug(ctx, "players joined", fields...)
		case parser.KindOrderSuspect:
			l.Warn(ctx, "running total decreased; event order may not be chronological",
				String("player", d.Player),
				Int("row", d.Row),
				Float64("previous_total", d.PreviousTotal),
				Float64("total", d.Total),
			)
		}
	})
}
