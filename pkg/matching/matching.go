// Package matching implements profile refresh and the one-best
// recommendation flow: summarize the adopter's preferences, embed them,
// retrieve nearby open pets, and let the chat model pick a winner.
package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/homeward-labs/homeward/pkg/adopter"
	"github.com/homeward-labs/homeward/pkg/catalog"
	"github.com/homeward-labs/homeward/pkg/embeddings"
	"github.com/homeward-labs/homeward/pkg/llm"
	"github.com/homeward-labs/homeward/pkg/modelout"
)

// ErrEmptyMessage is returned before any external call when the inbound
// chat message is blank.
var ErrEmptyMessage = errors.New("chat message must not be empty")

// NoMatchExplanation is the terminal explanation when retrieval finds no
// eligible pets. No model call is spent in that case.
const NoMatchExplanation = "No suitable pets found."

// DefaultCandidateLimit bounds one rerank prompt when no limit is configured.
const DefaultCandidateLimit = 5

// MatchResult is the outcome of one recommendation. BestPet is nil only
// when Candidates is empty.
type MatchResult struct {
	BestPet     *catalog.Pet   `json:"bestPet"`
	Explanation string         `json:"explanation"`
	Confidence  float64        `json:"confidence"`
	Highlights  []string       `json:"highlights"`
	Candidates  []*catalog.Pet `json:"candidates"`
}

// Config holds the matcher's tunables.
type Config struct {
	// CandidateLimit caps how many pets are retrieved and offered to the
	// rerank call.
	CandidateLimit int
}

// Matcher orchestrates the one-best recommendation flow.
type Matcher struct {
	chat     llm.Chat
	embedder embeddings.Embedder
	pets     catalog.Store
	users    adopter.Store
	logger   *zap.Logger

	candidateLimit int
}

// NewMatcher creates a matcher over the given collaborators.
func NewMatcher(chat llm.Chat, embedder embeddings.Embedder, pets catalog.Store, users adopter.Store, logger *zap.Logger, cfg Config) *Matcher {
	limit := cfg.CandidateLimit
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}
	return &Matcher{
		chat:           chat,
		embedder:       embedder,
		pets:           pets,
		users:          users,
		logger:         logger,
		candidateLimit: limit,
	}
}

// Recommend refreshes the user's preference profile from the message and
// returns the best matching open pet. Upstream chat/embedding failures
// propagate; malformed model output is always recovered.
func (m *Matcher) Recommend(ctx context.Context, userID, message string) (*MatchResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	user, err := m.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user, err = m.RefreshProfile(ctx, user, message)
	if err != nil {
		return nil, err
	}

	species, err := m.DetectSpecies(ctx, message)
	if err != nil {
		return nil, err
	}

	candidates, err := m.retrieve(ctx, species, user.PreferenceVector)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		m.logger.Info("no eligible pets for recommendation", zap.String("user_id", userID))
		return &MatchResult{
			Explanation: NoMatchExplanation,
			Candidates:  []*catalog.Pet{},
		}, nil
	}

	raw, err := m.chat.Complete(ctx, rerankSystemPrompt, buildRerankUserPrompt(user.PreferenceSummary, candidates))
	if err != nil {
		return nil, fmt.Errorf("rerank call: %w", err)
	}

	decision := modelout.ParseDecision(raw, petIDs(candidates))

	best := candidates[0]
	for _, pet := range candidates {
		if pet.ID == decision.BestPetID {
			best = pet
			break
		}
	}

	m.logger.Debug("recommendation decided",
		zap.String("user_id", userID),
		zap.String("best_pet_id", best.ID),
		zap.Float64("confidence", decision.Confidence),
		zap.Int("candidates", len(candidates)))

	return &MatchResult{
		BestPet:     best,
		Explanation: decision.Explanation,
		Confidence:  decision.Confidence,
		Highlights:  decision.Highlights,
		Candidates:  candidates,
	}, nil
}

// RefreshProfile summarizes the user's preferences from the new message,
// embeds the summary, and persists both onto the user. The order is fixed:
// summarize, then embed, then save; only a saved profile may feed retrieval.
// There is no quality gate on the summary.
func (m *Matcher) RefreshProfile(ctx context.Context, user *adopter.User, message string) (*adopter.User, error) {
	summary, err := m.chat.Complete(ctx, profileSystemPrompt, buildProfileUserPrompt(user.PreferenceSummary, message))
	if err != nil {
		return nil, fmt.Errorf("summarizing preferences: %w", err)
	}

	vector, err := m.embedder.Embed(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("embedding preference summary: %w", err)
	}

	user.PreferenceSummary = summary
	user.PreferenceVector = vector

	saved, err := m.users.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("persisting refreshed profile: %w", err)
	}

	return saved, nil
}

// DetectSpecies infers a species filter from the message: a keyword scan
// first, then a single-word chat classification only when keywords are
// silent. Any classification answer other than the two valid species
// tokens means no filter.
func (m *Matcher) DetectSpecies(ctx context.Context, message string) (*catalog.Species, error) {
	if species := catalog.KeywordSpecies(message); species != nil {
		return species, nil
	}

	answer, err := m.chat.Complete(ctx, speciesSystemPrompt, message)
	if err != nil {
		return nil, fmt.Errorf("classifying species preference: %w", err)
	}

	if species, ok := catalog.ParseSpecies(strings.ToUpper(strings.TrimSpace(answer))); ok {
		return &species, nil
	}
	return nil, nil
}

// retrieve runs the vector search, or the non-vector fallback listing when
// the profile has no embedding.
func (m *Matcher) retrieve(ctx context.Context, species *catalog.Species, query []float32) ([]*catalog.Pet, error) {
	if len(query) == 0 {
		m.logger.Warn("preference vector empty, using non-vector fallback")
		open, err := m.pets.FindByStatus(ctx, catalog.StatusOpen)
		if err != nil {
			return nil, err
		}
		filtered := make([]*catalog.Pet, 0, m.candidateLimit)
		for _, pet := range open {
			if species != nil && pet.Species != *species {
				continue
			}
			filtered = append(filtered, pet)
			if len(filtered) == m.candidateLimit {
				break
			}
		}
		return filtered, nil
	}

	return m.pets.SearchNearest(ctx, species, query, m.candidateLimit)
}

func petIDs(pets []*catalog.Pet) []string {
	ids := make([]string, len(pets))
	for i, pet := range pets {
		ids[i] = pet.ID
	}
	return ids
}
