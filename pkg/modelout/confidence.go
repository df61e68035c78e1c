package modelout

// DefaultConfidence is assigned when the model omits a confidence value
// and to deterministically backfilled items.
const DefaultConfidence = 0.5

// NormalizeConfidence maps a model-supplied confidence onto [0, 1].
// A missing value defaults to DefaultConfidence. Values in (1, 100] are
// interpreted as percentages and divided by 100 before clamping.
func NormalizeConfidence(value *float64) float64 {
	if value == nil {
		return DefaultConfidence
	}

	normalized := *value
	if normalized > 1 && normalized <= 100 {
		normalized = normalized / 100.0
	}
	if normalized < 0 {
		normalized = 0
	} else if normalized > 1 {
		normalized = 1
	}
	return normalized
}
