package markers

import "sort"

// markerDefault carries the unit, category and reference range applied to a
// manually entered marker.
type markerDefault struct {
	Unit     string
	Category string
	Min      string
	Max      string
}

// markerDefaults is the catalog of markers available for manual entry.
// Document-derived markers are not limited to this list.
var markerDefaults = map[string]markerDefault{
	"Blood Pressure":     {Unit: "mmHg", Category: "Cardiovascular", Min: "90/60", Max: "120/80"},
	"Resting Heart Rate": {Unit: "bpm", Category: "Cardiovascular", Min: "40", Max: "70"},
	"Body Weight":        {Unit: "kg", Category: "Body Composition"},
}

// ManualMarkerNames lists the catalog keys, for surfacing in clients.
func ManualMarkerNames() []string {
	names := make([]string, 0, len(markerDefaults))
	for name := range markerDefaults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
