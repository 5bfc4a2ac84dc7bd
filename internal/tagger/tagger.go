// Package tagger extracts named entities from article text with a
// pretrained NLP model.
package tagger

import (
	"sort"

	prose "github.com/jdkato/prose/v2"
)

// Only the head of long articles is tagged; entities relevant to retrieval
// almost always appear early.
const maxTaggedChars = 10000

var keptLabels = map[string]bool{
	"PERSON": true,
	"ORG":    true,
	"GPE":    true,
}

// Tagger is built once at process start and shared. It holds the loaded
// model and is safe for concurrent use; nothing mutates after construction.
type Tagger struct {
	model *prose.Model
}

func New() *Tagger {
	return &Tagger{model: prose.ModelFromData("en-v2.0.0")}
}

// Entities returns the distinct people, organisations and places named in
// text, sorted. A text with no recognisable entities returns nil.
func (t *Tagger) Entities(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	if len(text) > maxTaggedChars {
		text = text[:maxTaggedChars]
	}

	doc, err := prose.NewDocument(text,
		prose.UsingModel(t.model),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var entities []string
	for _, ent := range doc.Entities() {
		if !keptLabels[ent.Label] || seen[ent.Text] {
			continue
		}
		seen[ent.Text] = true
		entities = append(entities, ent.Text)
	}

	sort.Strings(entities)
	return entities, nil
}
