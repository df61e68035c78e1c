package modelout

import (
	"encoding/json"
	"strconv"
)

// Item is one entry of a normalized ranked list.
type Item struct {
	ID         string  `json:"id"`
	Confidence float64 `json:"confidence"`
}

// ParseItems normalizes a ranked-list response against the candidate ids
// that were offered to the model. The result contains only offered ids,
// deduplicated in first-seen order, backfilled from candidate order when
// the model returned too few, and capped at min(target, len(candidateIDs)).
// Total: any input yields a well-formed list.
func ParseItems(raw string, candidateIDs []string, target int) []Item {
	limit := target
	if len(candidateIDs) < limit {
		limit = len(candidateIDs)
	}
	if limit <= 0 {
		return []Item{}
	}

	allowed := make(map[string]bool, len(candidateIDs))
	for _, id := range candidateIDs {
		allowed[id] = true
	}

	items := make([]Item, 0, limit)
	seen := make(map[string]bool, limit)
	for _, element := range extractElements(StripFences(raw)) {
		id, confidence := parseElement(element)
		if id == "" || !allowed[id] || seen[id] {
			continue
		}
		seen[id] = true
		items = append(items, Item{ID: id, Confidence: confidence})
		if len(items) == limit {
			return items
		}
	}

	// Backfill from candidate order so callers always receive a full list.
	for _, id := range candidateIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		items = append(items, Item{ID: id, Confidence: DefaultConfidence})
		if len(items) == limit {
			break
		}
	}

	return items
}

// extractElements locates the ranked array in the model output. Rules are
// tried in order: a top-level JSON array, then an object's "items" key,
// then an object's "ids" key. Anything else yields no elements.
func extractElements(cleaned string) []json.RawMessage {
	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &elements); err == nil {
		return elements
	}

	var wrapper struct {
		Items []json.RawMessage `json:"items"`
		IDs   []json.RawMessage `json:"ids"`
	}
	if err := json.Unmarshal([]byte(cleaned), &wrapper); err != nil {
		return nil
	}
	if wrapper.Items != nil {
		return wrapper.Items
	}
	return wrapper.IDs
}

// parseElement accepts either an {id, confidence} object or a bare scalar
// id (string or number).
func parseElement(element json.RawMessage) (string, float64) {
	var object struct {
		ID         json.RawMessage `json:"id"`
		Confidence *float64        `json:"confidence"`
	}
	if err := json.Unmarshal(element, &object); err == nil && len(object.ID) > 0 {
		return scalarID(object.ID), NormalizeConfidence(object.Confidence)
	}

	var asString string
	if err := json.Unmarshal(element, &asString); err == nil {
		return asString, DefaultConfidence
	}

	var asNumber float64
	if err := json.Unmarshal(element, &asNumber); err == nil {
		return strconv.FormatFloat(asNumber, 'f', -1, 64), DefaultConfidence
	}

	return "", 0
}
