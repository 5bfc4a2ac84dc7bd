package tagger

import (
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestEntities_EmptyText(t *testing.T) {
	tg := New()

	entities, err := tg.Entities("")
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(entities))
}

func TestEntities_FindsNames(t *testing.T) {
	tg := New()

	text := "Andrew Bailey said the Bank of England would hold rates steady. " +
		"Rachel Reeves responded from London."

	entities, err := tg.Entities(text)
	assert.Equal(t, nil, err)
	assert.NotEqual(t, 0, len(entities))

	joined := strings.Join(entities, "|")
	assert.Equal(t, true, strings.Contains(joined, "Bailey") || strings.Contains(joined, "Reeves") || strings.Contains(joined, "London"))
}

func TestEntities_Deduplicates(t *testing.T) {
	tg := New()

	text := "Andrew Bailey spoke. Andrew Bailey spoke again. Andrew Bailey spoke a third time."

	entities, err := tg.Entities(text)
	assert.Equal(t, nil, err)

	seen := make(map[string]int)
	for _, e := range entities {
		seen[e]++
	}
	for name, count := range seen {
		if count > 1 {
			t.Errorf("entity %q returned %d times", name, count)
		}
	}
}

func TestEntities_SortedOutput(t *testing.T) {
	tg := New()

	text := "Nationwide reported that Barclays and HSBC both raised mortgage rates in Manchester and Birmingham."

	entities, err := tg.Entities(text)
	assert.Equal(t, nil, err)

	for i := 1; i < len(entities); i++ {
		if entities[i-1] > entities[i] {
			t.Errorf("entities not sorted: %q before %q", entities[i-1], entities[i])
		}
	}
}
