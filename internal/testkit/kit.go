// Package testkit provides in-memory adapters and synthetic per-domain data
// generators for exercising the analysis pipeline without a database.
package testkit

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"lifeconnect/domain/connection"
	"lifeconnect/domain/core"
	"lifeconnect/ports"
)

// InMemorySource is an ObservationSource backed by slices. Domains can be
// independently forced into a failure state to exercise skip behavior.
type InMemorySource struct {
	mu      sync.RWMutex
	health  []ports.HealthSample
	visits  []ports.LocationVisit
	events  []ports.CalendarEvent
	entries []ports.VoiceEntry

	FailHealth   error
	FailLocation error
	FailCalendar error
	FailVoice    error
}

// NewInMemorySource creates an empty in-memory observation source.
func NewInMemorySource() *InMemorySource {
	return &InMemorySource{}
}

// AddHealthSamples appends raw health samples.
func (s *InMemorySource) AddHealthSamples(samples ...ports.HealthSample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.health = append(s.health, samples...)
}

// AddLocationVisits appends raw location visits.
func (s *InMemorySource) AddLocationVisits(visits ...ports.LocationVisit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visits = append(s.visits, visits...)
}

// AddCalendarEvents appends raw calendar events.
func (s *InMemorySource) AddCalendarEvents(events ...ports.CalendarEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
}

// AddVoiceEntries appends raw voice/diary entries.
func (s *InMemorySource) AddVoiceEntries(entries ...ports.VoiceEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
}

// HealthSamples implements ports.ObservationSource.
func (s *InMemorySource) HealthSamples(_ context.Context, userID core.UserID, window core.Window) ([]ports.HealthSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailHealth != nil {
		return nil, s.FailHealth
	}
	var out []ports.HealthSample
	for _, h := range s.health {
		if h.UserID == userID && window.Contains(core.DayOf(h.RecordedAt)) {
			out = append(out, h)
		}
	}
	return out, nil
}

// LocationVisits implements ports.ObservationSource.
func (s *InMemorySource) LocationVisits(_ context.Context, userID core.UserID, window core.Window) ([]ports.LocationVisit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailLocation != nil {
		return nil, s.FailLocation
	}
	var out []ports.LocationVisit
	for _, v := range s.visits {
		if v.UserID == userID && window.Contains(core.DayOf(v.ArrivedAt)) {
			out = append(out, v)
		}
	}
	return out, nil
}

// CalendarEvents implements ports.ObservationSource.
func (s *InMemorySource) CalendarEvents(_ context.Context, userID core.UserID, window core.Window) ([]ports.CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailCalendar != nil {
		return nil, s.FailCalendar
	}
	var out []ports.CalendarEvent
	for _, e := range s.events {
		if e.UserID == userID && window.Contains(core.DayOf(e.StartsAt)) {
			out = append(out, e)
		}
	}
	return out, nil
}

// VoiceEntries implements ports.ObservationSource.
func (s *InMemorySource) VoiceEntries(_ context.Context, userID core.UserID, window core.Window) ([]ports.VoiceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailVoice != nil {
		return nil, s.FailVoice
	}
	var out []ports.VoiceEntry
	for _, e := range s.entries {
		if e.UserID == userID && window.Contains(core.DayOf(e.CreatedAt)) {
			out = append(out, e)
		}
	}
	return out, nil
}

// InMemoryConnections is a ConnectionRepository holding batches per user.
type InMemoryConnections struct {
	mu     sync.RWMutex
	byUser map[core.UserID][]connection.LifeConnection
	writes int
}

// NewInMemoryConnections creates an empty in-memory connection store.
func NewInMemoryConnections() *InMemoryConnections {
	return &InMemoryConnections{byUser: make(map[core.UserID][]connection.LifeConnection)}
}

// ReplaceForUser implements ports.ConnectionRepository with full-supersede
// semantics.
func (r *InMemoryConnections) ReplaceForUser(_ context.Context, userID core.UserID, batch []connection.LifeConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[userID] = append([]connection.LifeConnection(nil), batch...)
	r.writes++
	return nil
}

// ListForUser implements ports.ConnectionRepository.
func (r *InMemoryConnections) ListForUser(_ context.Context, userID core.UserID, filter connection.ListFilter, cursor *connection.Cursor, limit int) ([]connection.LifeConnection, *connection.Cursor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := append([]connection.LifeConnection(nil), r.byUser[userID]...)
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].DetectedAt.Equal(all[j].DetectedAt) {
			return all[i].DetectedAt.After(all[j].DetectedAt)
		}
		return all[i].ID < all[j].ID
	})

	var page []connection.LifeConnection
	past := cursor == nil
	for _, c := range all {
		if !past {
			if c.DetectedAt.Equal(cursor.DetectedAt) && c.ID == cursor.ID {
				past = true
			}
			continue
		}
		if !matches(c, filter) {
			continue
		}
		page = append(page, c)
		if limit > 0 && len(page) == limit {
			break
		}
	}

	var next *connection.Cursor
	if limit > 0 && len(page) == limit {
		last := page[len(page)-1]
		next = &connection.Cursor{DetectedAt: last.DetectedAt, ID: last.ID}
	}
	return page, next, nil
}

// SetDismissed implements ports.ConnectionRepository.
func (r *InMemoryConnections) SetDismissed(_ context.Context, userID core.UserID, id core.ConnectionID, dismissed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch := r.byUser[userID]
	for i := range batch {
		if batch[i].ID == id {
			batch[i].Dismissed = dismissed
			return nil
		}
	}
	return fmt.Errorf("%w: id %s", core.ErrConnectionNotFound, id)
}

// SetRating implements ports.ConnectionRepository.
func (r *InMemoryConnections) SetRating(_ context.Context, userID core.UserID, id core.ConnectionID, rating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch := r.byUser[userID]
	for i := range batch {
		if batch[i].ID == id {
			v := rating
			batch[i].Rating = &v
			return nil
		}
	}
	return fmt.Errorf("%w: id %s", core.ErrConnectionNotFound, id)
}

// Writes returns how many batch replacements have happened.
func (r *InMemoryConnections) Writes() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.writes
}

func matches(c connection.LifeConnection, f connection.ListFilter) bool {
	if f.Strength != nil && c.Strength != *f.Strength {
		return false
	}
	if f.Direction != nil && c.Direction != *f.Direction {
		return false
	}
	if f.Dismissed != nil && c.Dismissed != *f.Dismissed {
		return false
	}
	if f.Domain != nil && c.DomainA.Type != *f.Domain && c.DomainB.Type != *f.Domain {
		return false
	}
	return true
}

// StaticUsers is a UserRepository over a fixed allowlist.
type StaticUsers map[core.UserID]bool

// Exists implements ports.UserRepository.
func (u StaticUsers) Exists(_ context.Context, userID core.UserID) (bool, error) {
	return u[userID], nil
}
