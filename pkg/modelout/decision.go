package modelout

import (
	"encoding/json"
	"strconv"
	"strings"
)

// maxHighlights bounds the short reason strings carried on a decision.
const maxHighlights = 3

// Decision is the normalized outcome of one single-winner rerank call.
// BestPetID is empty when the model named no candidate (or only ids
// outside the offered set); callers fall back to the first candidate.
type Decision struct {
	BestPetID   string   `json:"bestPetId"`
	Explanation string   `json:"explanation"`
	Confidence  float64  `json:"confidence"`
	Highlights  []string `json:"highlights"`
}

// ParseDecision normalizes a single-winner rerank response against the
// candidate ids that were offered to the model. Total: any input yields a
// well-formed Decision. A hallucinated id is discarded, never substituted.
func ParseDecision(raw string, candidateIDs []string) Decision {
	cleaned := StripFences(raw)

	var payload struct {
		BestPetID   json.RawMessage `json:"bestPetId"`
		Explanation string          `json:"explanation"`
		Confidence  *float64        `json:"confidence"`
		Highlights  []string        `json:"highlights"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		// Unparseable output becomes the explanation of a fallback
		// decision; the caller supplies the winner.
		return Decision{
			Explanation: raw,
			Confidence:  DefaultConfidence,
			Highlights:  []string{},
		}
	}

	decision := Decision{
		BestPetID:   scalarID(payload.BestPetID),
		Explanation: payload.Explanation,
		Confidence:  NormalizeConfidence(payload.Confidence),
		Highlights:  cleanHighlights(payload.Highlights),
	}

	if decision.Explanation == "" {
		decision.Explanation = raw
	}

	if decision.BestPetID != "" && !containsID(candidateIDs, decision.BestPetID) {
		decision.BestPetID = ""
	}

	return decision
}

// scalarID accepts a JSON string or number and renders it as an id.
func scalarID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return strings.TrimSpace(asString)
	}

	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return strconv.FormatFloat(asNumber, 'f', -1, 64)
	}

	return ""
}

func cleanHighlights(highlights []string) []string {
	cleaned := make([]string, 0, maxHighlights)
	for _, highlight := range highlights {
		trimmed := strings.TrimSpace(highlight)
		if trimmed == "" {
			continue
		}
		cleaned = append(cleaned, trimmed)
		if len(cleaned) == maxHighlights {
			break
		}
	}
	return cleaned
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
