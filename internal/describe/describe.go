// Package describe turns a ranked statistical finding into the
// human-readable title, description, and recommendation carried on a
// persisted connection. Template-based; no language model involved.
package describe

import (
	"fmt"
	"strings"

	"lifeconnect/domain/connection"
	"lifeconnect/domain/series"
)

// Texts is the generated copy for one connection.
type Texts struct {
	Title          string
	Description    string
	Recommendation string
}

// ForConnection renders copy for a finding between two endpoints.
func ForConnection(a, b connection.Endpoint, direction connection.Direction, strength connection.Strength, lagDays int) Texts {
	nameA := MetricLabel(a)
	nameB := MetricLabel(b)

	return Texts{
		Title:          fmt.Sprintf("%s and %s", nameA, nameB),
		Description:    description(nameA, nameB, direction, strength, lagDays),
		Recommendation: recommendation(nameA, nameB, direction),
	}
}

// MetricLabel humanizes a metric identifier: "sleep_hours" -> "Sleep Hours",
// event categories get a "Days" suffix ("meeting" -> "Meeting Days").
func MetricLabel(e connection.Endpoint) string {
	label := titleCase(e.Metric)
	switch e.Type {
	case series.DomainEvent:
		return label + " Days"
	case series.DomainTopic:
		return label + " Topics"
	case series.DomainEmotion:
		return "Feeling " + label
	default:
		return label
	}
}

func description(nameA, nameB string, direction connection.Direction, strength connection.Strength, lagDays int) string {
	tendency := "higher"
	if direction == connection.DirectionNegative {
		tendency = "lower"
	}

	when := fmt.Sprintf("On days with more %s", nameA)
	then := fmt.Sprintf("your %s tends to be %s", nameB, tendency)
	if lagDays > 0 {
		plural := "s"
		if lagDays == 1 {
			plural = ""
		}
		then = fmt.Sprintf("your %s %d day%s later tends to be %s", nameB, lagDays, plural, tendency)
	}

	return fmt.Sprintf("%s, %s (a %s association).", when, then, strength)
}

func recommendation(nameA, nameB string, direction connection.Direction) string {
	if direction == connection.DirectionNegative {
		return fmt.Sprintf("If you want more %s, it may help to reduce %s.", nameB, nameA)
	}
	return fmt.Sprintf("Keeping up %s may support your %s.", nameA, nameB)
}

func titleCase(metric string) string {
	words := strings.FieldsFunc(metric, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
