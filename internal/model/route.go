package model

import "strings"

// Route is the classified intent of a user query. It selects which retrieval
// strategy runs before generation.
type Route string

const (
	RouteSummary    Route = "SUMMARY"
	RouteTrend      Route = "TREND"
	RouteFactLookup Route = "FACT_LOOKUP"
	RouteGeneral    Route = "GENERAL"
)

// routeScanOrder is longest-label-first so "FACT_LOOKUP" wins over a stray
// "GENERAL" appearing later in the same response.
var routeScanOrder = []Route{RouteFactLookup, RouteSummary, RouteTrend, RouteGeneral}

// ParseRoute finds a route label anywhere in raw LLM output. Classifier
// models occasionally wrap the label in prose, so this scans rather than
// comparing exactly. Unrecognized output falls back to GENERAL, the only
// route that touches no data.
func ParseRoute(raw string) Route {
	upper := strings.ToUpper(raw)
	for _, r := range routeScanOrder {
		if strings.Contains(upper, string(r)) {
			return r
		}
	}
	return RouteGeneral
}
