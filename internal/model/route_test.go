package model

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestParseRoute(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Route
	}{
		{name: "bare label", input: "SUMMARY", want: RouteSummary},
		{name: "label with whitespace", input: "  TREND\n", want: RouteTrend},
		{name: "label wrapped in prose", input: "The intent is FACT_LOOKUP.", want: RouteFactLookup},
		{name: "lowercase label", input: "fact_lookup", want: RouteFactLookup},
		{name: "general", input: "GENERAL", want: RouteGeneral},
		{name: "fact lookup beats trailing general", input: "FACT_LOOKUP (not GENERAL)", want: RouteFactLookup},
		{name: "empty output", input: "", want: RouteGeneral},
		{name: "hallucinated category", input: "WEATHER_FORECAST", want: RouteGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRoute(tt.input))
		})
	}
}

func TestParseRoute_Idempotent(t *testing.T) {
	input := "TREND"
	assert.Equal(t, ParseRoute(input), ParseRoute(input))
}

func TestChunkHash(t *testing.T) {
	h1 := ChunkHash("inflation rose to 4%", SourceBBC)
	h2 := ChunkHash("inflation rose to 4%", SourceBBC)
	assert.Equal(t, h1, h2)

	assert.NotEqual(t, h1, ChunkHash("inflation rose to 4%", SourceSky))
	assert.NotEqual(t, h1, ChunkHash("inflation fell to 2%", SourceBBC))
}
