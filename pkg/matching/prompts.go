package matching

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/homeward-labs/homeward/pkg/catalog"
)

const profileSystemPrompt = `You are a user preference summarizer for a pet adoption system.
Given the user's latest chat message and their current profile summary,
produce a NEW concise preference summary optimized for matching.
Focus on lifestyle, energy level, temperament preferences, constraints,
and ideal home environment. Keep it under 120 words.`

const speciesSystemPrompt = `You detect preferred species from user messages.
If the user explicitly mentions a preference for cats or dogs,
respond with exactly one of: CAT or DOG.
If no preference is mentioned, respond with NONE.`

const rerankSystemPrompt = `Act as a matchmaker. Pick the best one and explain why.
Return ONLY valid JSON (no markdown).
Format: {
    "bestPetId": "<id>",
    "explanation": "...",
    "confidence": 0.0-1.0,
    "highlights": ["short reason", "short reason", "short reason"]
}`

func buildProfileUserPrompt(currentSummary, message string) string {
	return fmt.Sprintf("CurrentPreferenceSummary: %s\nNewUserMessage: %s\n", currentSummary, message)
}

func buildRerankUserPrompt(preferenceSummary string, candidates []*catalog.Pet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "UserPreferenceSummary: %s\nCandidatePets:\n", preferenceSummary)
	for _, pet := range candidates {
		b.WriteString(formatPetForPrompt(pet))
	}
	return b.String()
}

func formatPetForPrompt(pet *catalog.Pet) string {
	return fmt.Sprintf(
		"- PetId: %s\n  Name: %s\n  Species: %s\n  Status: %s\n  RawDescription: %s\n  StructuredTags: %s\n",
		pet.ID, pet.Name, pet.Species, pet.Status, pet.RawDescription, tagsJSON(pet.StructuredTags))
}

func tagsJSON(tags map[string]any) string {
	if len(tags) == 0 {
		return "{}"
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}
