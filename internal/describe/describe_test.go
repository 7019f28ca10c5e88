package describe

import (
	"strings"
	"testing"

	"lifeconnect/domain/connection"
	"lifeconnect/domain/series"
)

func TestMetricLabel(t *testing.T) {
	cases := []struct {
		endpoint connection.Endpoint
		want     string
	}{
		{connection.Endpoint{Type: series.DomainHealth, Metric: "sleep_hours"}, "Sleep Hours"},
		{connection.Endpoint{Type: series.DomainHealth, Metric: "step_count"}, "Step Count"},
		{connection.Endpoint{Type: series.DomainEvent, Metric: "meeting"}, "Meeting Days"},
		{connection.Endpoint{Type: series.DomainEvent, Metric: "gym"}, "Gym Days"},
		{connection.Endpoint{Type: series.DomainTopic, Metric: "work"}, "Work Topics"},
		{connection.Endpoint{Type: series.DomainEmotion, Metric: "stressed"}, "Feeling Stressed"},
	}
	for _, tc := range cases {
		if got := MetricLabel(tc.endpoint); got != tc.want {
			t.Errorf("MetricLabel(%s:%s) = %q, want %q", tc.endpoint.Type, tc.endpoint.Metric, got, tc.want)
		}
	}
}

func TestForConnection_NegativeAssociation(t *testing.T) {
	a := connection.Endpoint{Type: series.DomainEvent, Metric: "meeting"}
	b := connection.Endpoint{Type: series.DomainHealth, Metric: "sleep_hours"}

	texts := ForConnection(a, b, connection.DirectionNegative, connection.StrengthStrong, 0)

	if texts.Title != "Meeting Days and Sleep Hours" {
		t.Errorf("Unexpected title: %q", texts.Title)
	}
	if !strings.Contains(texts.Description, "lower") {
		t.Errorf("Negative association should read as lower: %q", texts.Description)
	}
	if !strings.Contains(texts.Description, "strong") {
		t.Errorf("Description should name the strength: %q", texts.Description)
	}
	if !strings.Contains(texts.Recommendation, "reduce") {
		t.Errorf("Negative associations should suggest reducing the driver: %q", texts.Recommendation)
	}
}

func TestForConnection_LaggedAssociation(t *testing.T) {
	a := connection.Endpoint{Type: series.DomainEvent, Metric: "deadline"}
	b := connection.Endpoint{Type: series.DomainHealth, Metric: "sleep_hours"}

	texts := ForConnection(a, b, connection.DirectionNegative, connection.StrengthModerate, 2)
	if !strings.Contains(texts.Description, "2 days later") {
		t.Errorf("Lagged description should mention the delay: %q", texts.Description)
	}

	single := ForConnection(a, b, connection.DirectionNegative, connection.StrengthModerate, 1)
	if !strings.Contains(single.Description, "1 day later") {
		t.Errorf("One-day lag should be singular: %q", single.Description)
	}
}

func TestForConnection_PositiveAssociation(t *testing.T) {
	a := connection.Endpoint{Type: series.DomainEvent, Metric: "gym"}
	b := connection.Endpoint{Type: series.DomainEmotion, Metric: "happy"}

	texts := ForConnection(a, b, connection.DirectionPositive, connection.StrengthModerate, 0)

	if !strings.Contains(texts.Description, "higher") {
		t.Errorf("Positive association should read as higher: %q", texts.Description)
	}
	if !strings.Contains(texts.Recommendation, "Keeping up") {
		t.Errorf("Positive associations should encourage the driver: %q", texts.Recommendation)
	}
}
