package results

import (
	"encoding/json"
	"math"
)

// Document is a decoded k6 summary export.
type Document = map[string]interface{}

// Lookup resolves one key of a metric object under a single export shape.
type Lookup func(metric map[string]interface{}, key string) (float64, bool)

func nestedLookup(wrapper string) Lookup {
	return func(metric map[string]interface{}, key string) (float64, bool) {
		inner, ok := metric[wrapper].(map[string]interface{})
		if !ok {
			return 0, false
		}
		return number(inner[key])
	}
}

func flatLookup(metric map[string]interface{}, key string) (float64, bool) {
	return number(metric[key])
}

// DefaultLookups is the resolution order across k6 export shapes: the
// "values" wrapper of current versions, the flat layout, then the older
// "trend" wrapper.
var DefaultLookups = []Lookup{
	nestedLookup("values"),
	flatLookup,
	nestedLookup("trend"),
}

func object(parent map[string]interface{}, key string) map[string]interface{} {
	if parent == nil {
		return nil
	}
	m, _ := parent[key].(map[string]interface{})
	return m
}

func number(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		var err error
		if f, err = n.Float64(); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
