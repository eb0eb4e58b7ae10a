package parser

// Kind identifies a diagnostic emitted while building a dataset.
type Kind string

const (
	// KindSheetNormalized reports how many records a sheet produced and the
	// headers its first row carried.
	KindSheetNormalized Kind = "sheet_normalized"
	// KindPlayerJoin reports how the player identities of the two sheets line up.
	KindPlayerJoin Kind = "player_join"
	// KindOrderSuspect flags an event whose running total is below the
	// previous event of the same player, which contradicts row order being
	// attempt order.
	KindOrderSuspect Kind = "order_suspect"
)

// Sheet names used in diagnostics.
const (
	SheetSummary = "summary"
	SheetEvents  = "events"
)

// Diagnostic is one structured observation. Only the fields relevant to Kind
// are set.
type Diagnostic struct {
	Kind    Kind
	Sheet   string
	Records int
	Headers []string

	Matched     int
	SummaryOnly []string
	EventsOnly  []string

	Player        string
	Row           int
	PreviousTotal float64
	Total         float64
}

// Observer receives diagnostics. Implementations must not retain or mutate
// the slices in a Diagnostic beyond the call.
type Observer interface {
	Observe(d Diagnostic)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(d Diagnostic)

// Observe calls f(d).
func (f ObserverFunc) Observe(d Diagnostic) { f(d) }

type nopObserver struct{}

func (nopObserver) Observe(Diagnostic) {}

type multiObserver []Observer

func (m multiObserver) Observe(d Diagnostic) {
	for _, o := range m {
		o.Observe(d)
	}
}

// Multi fans a diagnostic out to every non-nil observer.
func Multi(observers ...Observer) Observer {
	var out multiObserver
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return nopObserver{}
	}
	return out
}
