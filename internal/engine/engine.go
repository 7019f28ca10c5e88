// Package engine implements the Life Connections analysis pipeline: extract
// per-day domain series for one user, enumerate candidate pairs, test each
// pair for association, control for known confounders, optionally scan time
// lags, then rank and persist the surviving findings as a full replacement
// batch.
package engine

import (
	"context"
	"math"
	"time"

	"lifeconnect/adapters/stats"
	"lifeconnect/domain/connection"
	"lifeconnect/domain/core"
	"lifeconnect/domain/series"
	"lifeconnect/internal"
	"lifeconnect/internal/config"
	"lifeconnect/internal/describe"
	"lifeconnect/internal/extract"
	"lifeconnect/ports"
)

// AnalysisRequest parameterizes one engine invocation. Zero-valued fields
// fall back to the engine's configured defaults.
type AnalysisRequest struct {
	UserID         core.UserID `json:"userId"`
	LookbackDays   int         `json:"lookbackDays"`
	MinSampleSize  int         `json:"minSampleSize"`
	MaxPValue      float64     `json:"maxPValue"`
	MinEffectSize  float64     `json:"minEffectSize"`
	IncludeTimeLag *bool       `json:"includeTimeLag,omitempty"`
	MaxTimeLagDays int         `json:"maxTimeLagDays"`
	MaxResults     int         `json:"maxResults"`
}

// AnalysisResult summarizes one run.
type AnalysisResult struct {
	RunID            core.RunID                  `json:"runId"`
	Success          bool                        `json:"success"`
	PairsAnalyzed    int                         `json:"pairsAnalyzed"`
	SignificantPairs int                         `json:"significantPairs"`
	Connections      []connection.LifeConnection `json:"connections"`
	DomainsAnalyzed  []string                    `json:"domainsAnalyzed"`
	DomainsSkipped   []string                    `json:"domainsSkipped,omitempty"`
}

// Analyzer runs the full pipeline for one user per invocation. Stateless
// between invocations except for the written output; safe to re-invoke.
type Analyzer struct {
	source ports.ObservationSource
	users  ports.UserRepository
	repo   ports.ConnectionRepository
	cfg    config.EngineConfig
	logger *internal.Logger
	// now is swapped in tests for deterministic detection timestamps.
	now func() time.Time
	// confirmedConfounders are pre-identified high-strength domain keys for
	// this deployment that act as extra drivers in confounder control.
	confirmedConfounders []series.Key
}

// NewAnalyzer wires an analyzer over its collaborators.
func NewAnalyzer(source ports.ObservationSource, users ports.UserRepository, repo ports.ConnectionRepository, cfg config.EngineConfig, logger *internal.Logger) *Analyzer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Analyzer{
		source: source,
		users:  users,
		repo:   repo,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// WithConfirmedConfounders registers domain keys treated as known broad
// drivers during confounder control.
func (a *Analyzer) WithConfirmedConfounders(keys ...series.Key) *Analyzer {
	a.confirmedConfounders = append(a.confirmedConfounders, keys...)
	return a
}

// WithClock overrides the detection timestamp source.
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// Analyze executes one full pipeline run. Invocation-level failures (unknown
// user, no usable domains) return the run summary alongside a sentinel from
// domain/core, so callers can tell "ran but found nothing usable" apart from
// "crashed" with core.IsNotFoundError and core.IsInsufficientDataError.
// No partial batch is ever written: the writer commits only a complete,
// fully-ranked list.
func (a *Analyzer) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	req = a.withDefaults(req)
	runID := core.RunID(core.NewID())

	if req.UserID == "" {
		return &AnalysisResult{RunID: runID}, core.ErrUserNotFound
	}
	if a.users != nil {
		exists, err := a.users.Exists(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		if !exists {
			a.logger.Warn("run %s: analysis requested for unknown user %s", runID, req.UserID)
			return &AnalysisResult{RunID: runID}, core.NewNotFoundError("user", req.UserID.String())
		}
	}

	window := core.NewLookbackWindow(a.now(), req.LookbackDays)

	extractor := extract.NewExtractor(a.source, extract.Config{
		MinObservedDays: req.MinSampleSize,
		MinActiveDays:   a.cfg.MinActiveDays,
	})
	extraction, err := extractor.Extract(ctx, req.UserID, window)
	if err != nil {
		return nil, err
	}

	result := &AnalysisResult{
		RunID:           runID,
		DomainsAnalyzed: extraction.DomainsAnalyzed,
		DomainsSkipped:  extraction.DomainsSkipped,
	}
	for _, readErr := range extraction.ReadFailures {
		a.logger.Warn("run %s: %v", runID, readErr)
	}
	if len(extraction.Series) == 0 {
		a.logger.Info("run %s: user %s has no usable domains in %d-day window", runID, req.UserID, req.LookbackDays)
		return result, core.ErrNoUsableDomains
	}

	findings := a.testPairs(extraction.Series, req, result)

	significant := make([]*finding, 0, len(findings))
	for _, f := range findings {
		if passesThresholds(f, req.MinSampleSize, req.MaxPValue, req.MinEffectSize) {
			significant = append(significant, f)
		}
	}
	result.SignificantPairs = len(significant)

	if *req.IncludeTimeLag {
		for _, f := range significant {
			scanLags(f, req.MaxTimeLagDays, req.MinSampleSize, req.MaxPValue, req.MinEffectSize)
		}
	}

	rankFindings(significant)
	if len(significant) > req.MaxResults {
		significant = significant[:req.MaxResults]
	}

	batch := a.toConnections(req.UserID, significant)

	// The caller's deadline elapsing mid-run must not leave a partial batch.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := a.repo.ReplaceForUser(ctx, req.UserID, batch); err != nil {
		return nil, err
	}

	result.Success = true
	result.Connections = batch
	a.logger.Info("run %s: user %s, %d pairs analyzed, %d significant, %d connections written",
		runID, req.UserID, result.PairsAnalyzed, result.SignificantPairs, len(batch))
	return result, nil
}

// testPairs runs correlation and confounder control over every candidate
// pair, sequentially and in deterministic order.
func (a *Analyzer) testPairs(byKey map[series.Key]series.Series, req AnalysisRequest, result *AnalysisResult) []*finding {
	var confirmed []series.Series
	for _, key := range a.confirmedConfounders {
		if s, ok := byKey[key]; ok {
			confirmed = append(confirmed, s)
		}
	}
	controller := newConfounderController(a.cfg.ConfounderGate, a.cfg.SurvivalFraction, confirmed)

	var findings []*finding
	for _, pair := range enumeratePairs(byKey) {
		aligned := series.Align(pair[0], pair[1])
		if aligned.N() < req.MinSampleSize {
			continue
		}
		res, err := stats.Correlate(aligned)
		if err != nil {
			// Degenerate pairs drop silently per the error taxonomy.
			continue
		}
		result.PairsAnalyzed++

		f := &finding{a: pair[0], b: pair[1], aligned: aligned, result: res}
		controller.apply(f)
		findings = append(findings, f)
	}
	return findings
}

// toConnections converts ranked findings into the persisted record shape.
func (a *Analyzer) toConnections(userID core.UserID, findings []*finding) []connection.LifeConnection {
	detectedAt := core.NewTimestamp(a.now().UTC())
	expiresAt := core.NewTimestamp(detectedAt.Time().Add(a.cfg.ExpiryHorizon))

	batch := make([]connection.LifeConnection, 0, len(findings))
	for _, f := range findings {
		endpointA := connection.Endpoint{Type: f.a.Key.Domain, Metric: f.a.Key.Metric}
		endpointB := connection.Endpoint{Type: f.b.Key.Domain, Metric: f.b.Key.Metric}
		direction := connection.DirectionOf(f.result.Coefficient)
		strength := connection.StrengthOf(math.Abs(f.result.EffectSize))

		metrics := connection.Metrics{
			Coefficient:               f.result.Coefficient,
			SampleSize:                f.result.SampleSize,
			EffectSize:                f.result.EffectSize,
			PValue:                    f.result.PValue,
			SurvivesConfounderControl: f.survives,
		}
		if f.controlled {
			partial := f.partial
			metrics.PartialCoefficient = &partial
			metrics.ConfounderNote = f.confounderNote
		}
		if f.lagScanned {
			lag := f.bestLag
			coef := f.lagCoefficient
			metrics.TimeLagDays = &lag
			metrics.LagCoefficient = &coef
		}

		texts := describe.ForConnection(endpointA, endpointB, direction, strength, f.bestLag)

		batch = append(batch, connection.LifeConnection{
			ID:             core.ConnectionID(core.NewID()),
			UserID:         userID,
			DomainA:        endpointA,
			DomainB:        endpointB,
			Direction:      direction,
			Strength:       strength,
			Metrics:        metrics,
			Title:          texts.Title,
			Description:    texts.Description,
			Recommendation: texts.Recommendation,
			DetectedAt:     detectedAt,
			ExpiresAt:      expiresAt,
			Dismissed:      false,
			Rating:         nil,
		})
	}
	return batch
}

// withDefaults fills zero-valued request fields from the engine config.
func (a *Analyzer) withDefaults(req AnalysisRequest) AnalysisRequest {
	if req.LookbackDays <= 0 {
		req.LookbackDays = a.cfg.LookbackDays
	}
	if req.MinSampleSize <= 0 {
		req.MinSampleSize = a.cfg.MinSampleSize
	}
	if req.MaxPValue <= 0 {
		req.MaxPValue = a.cfg.MaxPValue
	}
	if req.MinEffectSize <= 0 {
		req.MinEffectSize = a.cfg.MinEffectSize
	}
	if req.MaxTimeLagDays <= 0 {
		req.MaxTimeLagDays = a.cfg.MaxTimeLagDays
	}
	if req.MaxResults <= 0 {
		req.MaxResults = a.cfg.MaxResults
	}
	if req.IncludeTimeLag == nil {
		v := a.cfg.IncludeTimeLag
		req.IncludeTimeLag = &v
	}
	return req
}
