// Package analyzer walks a parsed document and reports its shape.
package analyzer

import (
	"encoding/json"

	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/parser"
)

// Analyzer collects document statistics.
type Analyzer struct{}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Stats parses text and summarizes it. Bytes is the UTF-8 length of text as given.
func (a *Analyzer) Stats(text string) (models.Stats, error) {
	ir, err := parser.ParseString(text)
	if err != nil {
		return models.Stats{}, err
	}
	stats := a.Analyze(ir)
	stats.Bytes = len(text)
	return stats, nil
}

// Analyze counts keys, objects and arrays at every depth of an already parsed
// document. Depth is 0 for a scalar root and grows by one per container level.
func (a *Analyzer) Analyze(ir models.IntermediateRepresentation) models.Stats {
	var stats models.Stats
	stats.Depth = a.walk(ir.Root, &stats)
	stats.RootKind = KindOf(ir.Root)
	return stats
}

func (a *Analyzer) walk(v models.JSONValue, stats *models.Stats) int {
	deepest := 0
	switch val := v.(type) {
	case *models.JSONObject:
		stats.Objects++
		stats.Keys += val.Len()
		for _, key := range val.Keys() {
			child, _ := val.Get(key)
			deepest = max(deepest, a.walk(child, stats))
		}
	case models.JSONArray:
		stats.Arrays++
		for _, item := range val {
			deepest = max(deepest, a.walk(item, stats))
		}
	default:
		return 0
	}
	return deepest + 1
}

// KindOf names the JSON type of v.
func KindOf(v models.JSONValue) models.Kind {
	switch v.(type) {
	case nil:
		return models.KindNull
	case bool:
		return models.KindBool
	case json.Number:
		return models.KindNumber
	case string:
		return models.KindString
	case *models.JSONObject:
		return models.KindObject
	case models.JSONArray:
		return models.KindArray
	default:
		return models.KindNull
	}
}
