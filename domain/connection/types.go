package connection

import (
	"lifeconnect/domain/core"
	"lifeconnect/domain/series"
)

// Direction labels the sign of a detected association.
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
)

// Strength buckets the magnitude of the effect size.
type Strength string

const (
	StrengthWeak     Strength = "weak"
	StrengthModerate Strength = "moderate"
	StrengthStrong   Strength = "strong"
)

// Endpoint names one leg of a connection.
type Endpoint struct {
	Type   series.DomainType `json:"type" db:"-"`
	Metric string            `json:"metric" db:"-"`
}

// Metrics carries the statistical evidence behind a connection.
type Metrics struct {
	Coefficient               float64  `json:"coefficient"`
	SampleSize                int      `json:"sampleSize"`
	EffectSize                float64  `json:"effectSize"`
	PValue                    float64  `json:"pValue"`
	SurvivesConfounderControl bool     `json:"survivesConfounderControl"`
	PartialCoefficient        *float64 `json:"partialCoefficient,omitempty"`
	ConfounderNote            string   `json:"confounderNote,omitempty"`
	TimeLagDays               *int     `json:"timeLagDays,omitempty"`
	LagCoefficient            *float64 `json:"lagCoefficient,omitempty"`
}

// LifeConnection is one persisted finding: a statistically and practically
// significant association between two domain metrics for one user. Records
// are immutable once written by the engine; only user interaction mutates the
// feedback fields, and the next run supersedes the whole batch.
type LifeConnection struct {
	ID             core.ConnectionID `json:"id"`
	UserID         core.UserID       `json:"userId"`
	DomainA        Endpoint          `json:"domainA"`
	DomainB        Endpoint          `json:"domainB"`
	Direction      Direction         `json:"direction"`
	Strength       Strength          `json:"strength"`
	Metrics        Metrics           `json:"metrics"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Recommendation string            `json:"recommendation"`
	DetectedAt     core.Timestamp    `json:"detectedAt"`
	ExpiresAt      core.Timestamp    `json:"expiresAt"`
	Dismissed      bool              `json:"dismissed"`
	Rating         *int              `json:"rating,omitempty"`
}

// DirectionOf maps a coefficient sign to its direction label.
func DirectionOf(coefficient float64) Direction {
	if coefficient < 0 {
		return DirectionNegative
	}
	return DirectionPositive
}

// StrengthOf buckets an absolute effect size using Cohen's conventional
// cut points (0.5 moderate, 0.8 strong).
func StrengthOf(absEffectSize float64) Strength {
	switch {
	case absEffectSize >= 0.8:
		return StrengthStrong
	case absEffectSize >= 0.5:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// ListFilter narrows a consumer read over a user's connection batch.
type ListFilter struct {
	Strength  *Strength
	Direction *Direction
	Dismissed *bool
	Domain    *series.DomainType
}

// Cursor is an opaque pagination position: connections sort by
// (detected_at DESC, id) and the cursor points past the last returned row.
type Cursor struct {
	DetectedAt core.Timestamp
	ID         core.ConnectionID
}
