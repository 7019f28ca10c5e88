package testkit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"lifeconnect/domain/connection"
	"lifeconnect/domain/core"
	"lifeconnect/domain/series"
)

func connAt(i int, detectedAt time.Time, strength connection.Strength) connection.LifeConnection {
	return connection.LifeConnection{
		ID:         core.ConnectionID(fmt.Sprintf("00000000-0000-0000-0000-%012d", i)),
		UserID:     core.UserID("user-1"),
		DomainA:    connection.Endpoint{Type: series.DomainHealth, Metric: fmt.Sprintf("metric_%d", i)},
		DomainB:    connection.Endpoint{Type: series.DomainEvent, Metric: "meeting"},
		Direction:  connection.DirectionNegative,
		Strength:   strength,
		DetectedAt: core.NewTimestamp(detectedAt),
	}
}

func TestInMemoryConnections_ListOrderingAndPagination(t *testing.T) {
	repo := NewInMemoryConnections()
	user := core.UserID("user-1")
	base := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	batch := []connection.LifeConnection{
		connAt(1, base.Add(2*time.Hour), connection.StrengthStrong),
		connAt(2, base.Add(1*time.Hour), connection.StrengthWeak),
		connAt(3, base.Add(3*time.Hour), connection.StrengthModerate),
	}
	if err := repo.ReplaceForUser(context.Background(), user, batch); err != nil {
		t.Fatalf("ReplaceForUser failed: %v", err)
	}

	// Newest first.
	all, _, err := repo.ListForUser(context.Background(), user, connection.ListFilter{}, nil, 0)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 connections, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].DetectedAt.After(all[i-1].DetectedAt) {
			t.Fatal("Connections should sort newest first")
		}
	}

	// Page through with limit 2.
	page1, cursor, err := repo.ListForUser(context.Background(), user, connection.ListFilter{}, nil, 2)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(page1) != 2 || cursor == nil {
		t.Fatalf("Expected a full first page with a cursor, got %d, %v", len(page1), cursor)
	}
	page2, _, err := repo.ListForUser(context.Background(), user, connection.ListFilter{}, cursor, 2)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(page2) != 1 {
		t.Fatalf("Expected 1 remaining connection, got %d", len(page2))
	}
	if page2[0].ID == page1[0].ID || page2[0].ID == page1[1].ID {
		t.Error("Pages should not overlap")
	}
}

func TestInMemoryConnections_FilterAndSupersede(t *testing.T) {
	repo := NewInMemoryConnections()
	user := core.UserID("user-1")
	base := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	repo.ReplaceForUser(context.Background(), user, []connection.LifeConnection{
		connAt(1, base, connection.StrengthStrong),
		connAt(2, base, connection.StrengthWeak),
	})

	strong := connection.StrengthStrong
	got, _, err := repo.ListForUser(context.Background(), user, connection.ListFilter{Strength: &strong}, nil, 0)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(got) != 1 || got[0].Strength != connection.StrengthStrong {
		t.Errorf("Strength filter should keep only strong connections, got %d", len(got))
	}

	// A new batch fully replaces the old one.
	repo.ReplaceForUser(context.Background(), user, []connection.LifeConnection{
		connAt(3, base.Add(time.Hour), connection.StrengthModerate),
	})
	all, _, _ := repo.ListForUser(context.Background(), user, connection.ListFilter{}, nil, 0)
	if len(all) != 1 {
		t.Errorf("Supersede should leave only the new batch, got %d", len(all))
	}
	if repo.Writes() != 2 {
		t.Errorf("Expected 2 writes, got %d", repo.Writes())
	}
}

func TestInMemoryConnections_Feedback(t *testing.T) {
	repo := NewInMemoryConnections()
	user := core.UserID("user-1")
	base := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	stored := connAt(1, base, connection.StrengthStrong)

	repo.ReplaceForUser(context.Background(), user, []connection.LifeConnection{stored})

	if err := repo.SetDismissed(context.Background(), user, stored.ID, true); err != nil {
		t.Fatalf("SetDismissed failed: %v", err)
	}
	if err := repo.SetRating(context.Background(), user, stored.ID, 4); err != nil {
		t.Fatalf("SetRating failed: %v", err)
	}

	all, _, _ := repo.ListForUser(context.Background(), user, connection.ListFilter{}, nil, 0)
	if len(all) != 1 || !all[0].Dismissed {
		t.Error("SetDismissed should persist")
	}
	if all[0].Rating == nil || *all[0].Rating != 4 {
		t.Error("SetRating should persist")
	}

	missing := core.ConnectionID("00000000-0000-0000-0000-000000000404")
	if err := repo.SetDismissed(context.Background(), user, missing, true); !core.IsNotFoundError(err) {
		t.Errorf("Dismissing a missing connection should wrap the not-found sentinel, got %v", err)
	}
	if err := repo.SetRating(context.Background(), user, missing, 3); !core.IsNotFoundError(err) {
		t.Errorf("Rating a missing connection should wrap the not-found sentinel, got %v", err)
	}
}
