package markers

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// TimelinePoint is one chart sample. Only markers whose value parses as a
// number produce a point; compound values like "120/80" are skipped.
type TimelinePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Trend compares the two most recent numeric values of a timeline.
type Trend struct {
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"`
}

// Timeline is every observation of one marker name for one user.
// Markers are newest first; Chart is oldest first for plotting.
type Timeline struct {
	Name         string          `json:"name"`
	Unit         string          `json:"unit,omitempty"`
	ReferenceMin string          `json:"referenceMin,omitempty"`
	ReferenceMax string          `json:"referenceMax,omitempty"`
	Markers      []Marker        `json:"markers"`
	Chart        []TimelinePoint `json:"chart"`
	Latest       string          `json:"latest,omitempty"`
	Trend        *Trend          `json:"trend,omitempty"`
}

// BuildTimelines groups markers by exact name. Every input marker lands in
// exactly one timeline. Names keep first-seen order of the newest-first input.
func BuildTimelines(all []Marker) []Timeline {
	byName := make(map[string][]Marker)
	var order []string
	for _, marker := range all {
		if _, seen := byName[marker.Name]; !seen {
			order = append(order, marker.Name)
		}
		byName[marker.Name] = append(byName[marker.Name], marker)
	}

	out := make([]Timeline, 0, len(order))
	for _, name := range order {
		out = append(out, buildTimeline(name, byName[name]))
	}
	return out
}

func buildTimeline(name string, group []Marker) Timeline {
	sort.SliceStable(group, func(i, j int) bool {
		return group[i].CreatedAt.After(group[j].CreatedAt)
	})

	timeline := Timeline{
		Name:         name,
		Unit:         group[0].Unit,
		ReferenceMin: group[0].ReferenceMin,
		ReferenceMax: group[0].ReferenceMax,
		Markers:      group,
		Latest:       group[0].Value,
	}

	// Oldest first for charting.
	for i := len(group) - 1; i >= 0; i-- {
		value, ok := numericValue(group[i].Value)
		if !ok {
			continue
		}
		timeline.Chart = append(timeline.Chart, TimelinePoint{
			Date:  group[i].CreatedAt.UTC().Format("2006-01-02"),
			Value: value,
		})
	}

	timeline.Trend = computeTrend(group)
	return timeline
}

// computeTrend takes the two most recent numeric values. Fewer than two
// numeric observations means no trend.
func computeTrend(newestFirst []Marker) *Trend {
	var values []float64
	for _, marker := range newestFirst {
		if value, ok := numericValue(marker.Value); ok {
			values = append(values, value)
			if len(values) == 2 {
				break
			}
		}
	}
	if len(values) < 2 {
		return nil
	}

	delta := math.Round((values[0]-values[1])*100) / 100
	direction := "flat"
	switch {
	case delta > 0:
		direction = "up"
	case delta < 0:
		direction = "down"
	}
	return &Trend{Delta: delta, Direction: direction}
}

func numericValue(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}
