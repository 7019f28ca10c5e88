package extract

import (
	"context"
	"sort"
	"sync"

	"lifeconnect/domain/core"
	"lifeconnect/domain/series"
	"lifeconnect/ports"

	"golang.org/x/sync/errgroup"
)

// Config bounds which extracted series survive into pairing.
type Config struct {
	// MinObservedDays drops sparse series (continuous health metrics) whose
	// non-missing day count is below the pairing minimum.
	MinObservedDays int
	// MinActiveDays drops dense count/presence series whose signal almost
	// never fires; a topic mentioned twice in 90 days is noise, not a series.
	MinActiveDays int
}

// Extraction is the output of one extractor run.
type Extraction struct {
	// Series maps each surviving (domain, metric) key to its daily series.
	Series map[series.Key]series.Series
	// DomainsAnalyzed lists domains that produced at least one surviving series.
	DomainsAnalyzed []string
	// DomainsSkipped lists domains whose upstream read failed; the run
	// continues without them.
	DomainsSkipped []string
	// ReadFailures carries the wrapped upstream errors behind DomainsSkipped.
	ReadFailures []error
}

// Extractor turns a user's heterogeneous raw records into uniform per-day
// series, one per (domain, metric) pair.
type Extractor struct {
	source ports.ObservationSource
	cfg    Config
}

// NewExtractor creates a domain extractor over an observation source.
func NewExtractor(source ports.ObservationSource, cfg Config) *Extractor {
	return &Extractor{source: source, cfg: cfg}
}

// Extract reads all domains concurrently and assembles the series map.
// A failing domain read skips that domain; only the context erroring aborts.
func (e *Extractor) Extract(ctx context.Context, userID core.UserID, window core.Window) (*Extraction, error) {
	var (
		mu       sync.Mutex
		samples  []ports.HealthSample
		visits   []ports.LocationVisit
		events   []ports.CalendarEvent
		entries  []ports.VoiceEntry
		skipped  []string
		failures []error
	)

	// Domains are independent until pairing, so their reads run concurrently.
	// Read failures are collected, not propagated: errgroup only carries
	// context cancellation out of this block.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := e.source.HealthSamples(gctx, userID, window)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			skipped = append(skipped, string(series.DomainHealth))
			failures = append(failures, core.NewDomainReadError(string(series.DomainHealth), err))
			return nil
		}
		samples = s
		return nil
	})
	g.Go(func() error {
		v, err := e.source.LocationVisits(gctx, userID, window)
		cal, calErr := e.source.CalendarEvents(gctx, userID, window)
		mu.Lock()
		defer mu.Unlock()
		if err != nil || calErr != nil {
			// Presence series blend both sources; a half-read window would
			// understate activity, so either failure skips the domain.
			skipped = append(skipped, string(series.DomainEvent))
			if err != nil {
				failures = append(failures, core.NewDomainReadError(string(series.DomainEvent), err))
			}
			if calErr != nil {
				failures = append(failures, core.NewDomainReadError(string(series.DomainEvent), calErr))
			}
			return nil
		}
		visits = v
		events = cal
		return nil
	})
	g.Go(func() error {
		v, err := e.source.VoiceEntries(gctx, userID, window)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			// Voice entries feed both topic and emotion domains.
			skipped = append(skipped, string(series.DomainTopic), string(series.DomainEmotion))
			failures = append(failures, core.NewDomainReadError("voice", err))
			return nil
		}
		entries = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all := make(map[series.Key]series.Series)
	merge(all, healthSeries(samples))
	merge(all, eventSeries(visits, events, window))
	merge(all, topicSeries(entries))
	merge(all, emotionSeries(entries))

	surviving := make(map[series.Key]series.Series, len(all))
	domains := make(map[string]bool)
	for key, s := range all {
		if !e.survives(s) {
			continue
		}
		surviving[key] = s
		domains[string(key.Domain)] = true
	}

	return &Extraction{
		Series:          surviving,
		DomainsAnalyzed: sortedKeys(domains),
		DomainsSkipped:  sortedStrings(skipped),
		ReadFailures:    failures,
	}, nil
}

// survives applies the per-kind sufficiency floors from Config.
func (e *Extractor) survives(s series.Series) bool {
	switch s.Kind {
	case series.KindContinuous:
		return s.Len() >= e.cfg.MinObservedDays
	default:
		// Dense series always span the window; the floor applies to days the
		// signal actually fired.
		return s.Len() >= e.cfg.MinObservedDays && s.ActiveDays() >= e.cfg.MinActiveDays
	}
}

func merge(dst, src map[series.Key]series.Series) {
	for k, v := range src {
		dst[k] = v
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return sortedStrings(out)
}

func sortedStrings(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
