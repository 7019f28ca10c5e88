package ui

import (
	"net/http/httptest"
	"testing"
	"time"

	"lifeconnect/domain/connection"
	"lifeconnect/domain/core"
	"lifeconnect/domain/series"

	"github.com/gin-gonic/gin"
)

func TestCursorRoundTrip(t *testing.T) {
	cur := &connection.Cursor{
		DetectedAt: core.NewTimestamp(time.Date(2025, 6, 15, 12, 30, 45, 123456789, time.UTC)),
		ID:         core.ConnectionID("3d6f0e8a-1b2c-4d5e-8f90-a1b2c3d4e5f6"),
	}

	token := encodeCursor(cur)
	decoded, err := decodeCursor(token)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !decoded.DetectedAt.Equal(cur.DetectedAt) {
		t.Errorf("DetectedAt mismatch: %v vs %v", decoded.DetectedAt, cur.DetectedAt)
	}
	if decoded.ID != cur.ID {
		t.Errorf("ID mismatch: %s vs %s", decoded.ID, cur.ID)
	}
}

func TestDecodeCursor_EmptyAndInvalid(t *testing.T) {
	cur, err := decodeCursor("")
	if err != nil || cur != nil {
		t.Errorf("Empty token should decode to nil cursor, got %v, %v", cur, err)
	}
	if _, err := decodeCursor("not-base64!!"); err == nil {
		t.Error("Garbage token should fail to decode")
	}
	if _, err := decodeCursor("bm8tc2VwYXJhdG9y"); err == nil {
		t.Error("Token without separator should fail to decode")
	}
}

func filterContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/users/u/connections?"+query, nil)
	return c
}

func TestParseListFilter(t *testing.T) {
	c := filterContext(t, "strength=strong&direction=negative&dismissed=false&domain=health")
	filter, err := parseListFilter(c)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if filter.Strength == nil || *filter.Strength != connection.StrengthStrong {
		t.Error("Strength filter not parsed")
	}
	if filter.Direction == nil || *filter.Direction != connection.DirectionNegative {
		t.Error("Direction filter not parsed")
	}
	if filter.Dismissed == nil || *filter.Dismissed != false {
		t.Error("Dismissed filter not parsed")
	}
	if filter.Domain == nil || *filter.Domain != series.DomainHealth {
		t.Error("Domain filter not parsed")
	}

	empty, err := parseListFilter(filterContext(t, ""))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if empty.Strength != nil || empty.Direction != nil || empty.Dismissed != nil || empty.Domain != nil {
		t.Error("No query params should yield an empty filter")
	}
}

func TestParseListFilter_RejectsUnknownValues(t *testing.T) {
	for _, q := range []string{
		"strength=colossal",
		"direction=sideways",
		"dismissed=perhaps",
		"domain=astrology",
	} {
		if _, err := parseListFilter(filterContext(t, q)); err == nil {
			t.Errorf("Query %q should be rejected", q)
		}
	}
}
