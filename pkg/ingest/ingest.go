// Package ingest turns a raw shelter description into a catalog entry:
// structured tags, a personality profile written for matching, and the
// profile's embedding.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/homeward-labs/homeward/pkg/catalog"
	"github.com/homeward-labs/homeward/pkg/embeddings"
	"github.com/homeward-labs/homeward/pkg/llm"
	"github.com/homeward-labs/homeward/pkg/modelout"
)

// ErrInvalidSpecies is returned before any external call when the species
// token is not one of the supported values.
var ErrInvalidSpecies = errors.New("species must be CAT or DOG")

const tagsSystemPrompt = `You are a data extraction assistant for a pet adoption system.
Extract structured tags from the provided pet description.
Return ONLY valid JSON (no markdown, no code fences).
Required keys (use null if unknown):
{
  "activityLevel": "low|medium|high",
  "friendliness": "shy|neutral|friendly",
  "goodWithKids": true|false|null,
  "goodWithCats": true|false|null,
  "goodWithDogs": true|false|null,
  "trainingLevel": "untrained|basic|advanced",
  "healthNotes": "string or null",
  "age": "string or null",
  "size": "small|medium|large|giant",
  "energyNotes": "string or null"
}
If the description contains special needs, include them in healthNotes.`

const profileSystemPrompt = `You are an adoption matching assistant.
Write a concise "Personality Profile" (3-6 sentences) optimized for matching.
Use warm, neutral language. Mention temperament, energy, social behavior,
and ideal home environment. Do NOT include JSON or bullet points.`

// Ingestor processes new pets into the catalog.
type Ingestor struct {
	chat     llm.Chat
	embedder embeddings.Embedder
	pets     catalog.Store
	logger   *zap.Logger
}

// NewIngestor creates an ingestor over the given collaborators.
func NewIngestor(chat llm.Chat, embedder embeddings.Embedder, pets catalog.Store, logger *zap.Logger) *Ingestor {
	return &Ingestor{
		chat:     chat,
		embedder: embedder,
		pets:     pets,
		logger:   logger,
	}
}

// ProcessNewPet extracts tags, writes a personality profile, embeds it,
// and saves the pet OPEN. Tag extraction tolerates malformed model output
// by wrapping the raw text; chat and embedding failures propagate.
func (i *Ingestor) ProcessNewPet(ctx context.Context, name, rawDescription, speciesToken string) (*catalog.Pet, error) {
	species, ok := catalog.ParseSpecies(strings.ToUpper(strings.TrimSpace(speciesToken)))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSpecies, speciesToken)
	}

	tagsRaw, err := i.chat.Complete(ctx, tagsSystemPrompt, buildTagsUserPrompt(name, rawDescription, species))
	if err != nil {
		return nil, fmt.Errorf("extracting tags: %w", err)
	}
	tags := parseTagsOrWrap(tagsRaw)

	profile, err := i.chat.Complete(ctx, profileSystemPrompt, buildProfileUserPrompt(name, rawDescription, species, tagsRaw))
	if err != nil {
		return nil, fmt.Errorf("writing personality profile: %w", err)
	}

	vector, err := i.embedder.Embed(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("embedding personality profile: %w", err)
	}

	pet := &catalog.Pet{
		Name:              name,
		Species:           species,
		Status:            catalog.StatusOpen,
		RawDescription:    rawDescription,
		StructuredTags:    tags,
		PersonalityVector: vector,
	}

	saved, err := i.pets.Save(ctx, pet)
	if err != nil {
		return nil, fmt.Errorf("saving ingested pet: %w", err)
	}

	i.logger.Info("pet ingested",
		zap.String("pet_id", saved.ID),
		zap.String("species", string(saved.Species)),
		zap.Int("vector_dim", len(saved.PersonalityVector)))

	return saved, nil
}

// parseTagsOrWrap parses the tag JSON; malformed output is kept under a
// single "raw" key rather than discarded.
func parseTagsOrWrap(raw string) map[string]any {
	cleaned := modelout.StripFences(raw)

	var tags map[string]any
	if err := json.Unmarshal([]byte(cleaned), &tags); err != nil || tags == nil {
		return map[string]any{"raw": cleaned}
	}
	return tags
}

func buildTagsUserPrompt(name, rawDescription string, species catalog.Species) string {
	return fmt.Sprintf("Name: %s\nSpecies: %s\nDescription: %s\n", name, species, rawDescription)
}

func buildProfileUserPrompt(name, rawDescription string, species catalog.Species, tagsJSON string) string {
	return fmt.Sprintf("Name: %s\nSpecies: %s\nDescription: %s\nStructuredTags: %s\n", name, species, rawDescription, tagsJSON)
}
