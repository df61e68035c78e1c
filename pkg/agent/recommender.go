package agent

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/homeward-labs/homeward/pkg/catalog"
	"github.com/homeward-labs/homeward/pkg/embeddings"
	"github.com/homeward-labs/homeward/pkg/llm"
	"github.com/homeward-labs/homeward/pkg/modelout"
)

// Defaults for the top-N recommender.
const (
	DefaultRecommendLimit = 50
	topItems              = 3
)

// EvaluationSummary is the profile produced by a completed interview.
type EvaluationSummary struct {
	Profile string `json:"profile"`
}

// RecommendRequest carries everything a client may know about the
// adopter. Search text is derived from the first non-empty of: the
// evaluation profile, the question/answer pairs, the raw conversation.
// Pets is an optional client-provided card list used as the candidate
// fallback when no vector search can run.
type RecommendRequest struct {
	QuestionAnswers []QuestionAnswer   `json:"questionAnswers"`
	Messages        []Message          `json:"messages"`
	Evaluation      *EvaluationSummary `json:"evaluation"`
	Pets            []catalog.Card     `json:"pets"`
}

// Recommendation is a well-formed ranked list. It is never an error
// surface: empty candidates, a failed embedding, or a failed chat call all
// produce a valid (possibly backfilled or empty) item list, since "no
// recommendation" is a business outcome the client must render.
type Recommendation struct {
	Items       []modelout.Item `json:"items"`
	RawResponse string          `json:"rawResponse"`
	Prompt      string          `json:"prompt"`
}

// RecommenderConfig holds the recommender tunables.
type RecommenderConfig struct {
	// CandidateLimit caps the vector search result.
	CandidateLimit int
}

// Recommender produces top-N pet recommendations for the guided flow.
type Recommender struct {
	chat     llm.Chat
	embedder embeddings.Embedder
	pets     catalog.Store
	logger   *zap.Logger

	candidateLimit int
}

// NewRecommender creates a recommender over the given collaborators.
func NewRecommender(chat llm.Chat, embedder embeddings.Embedder, pets catalog.Store, logger *zap.Logger, cfg RecommenderConfig) *Recommender {
	limit := cfg.CandidateLimit
	if limit <= 0 {
		limit = DefaultRecommendLimit
	}
	return &Recommender{
		chat:           chat,
		embedder:       embedder,
		pets:           pets,
		logger:         logger,
		candidateLimit: limit,
	}
}

// Recommend resolves candidates and asks the chat model for the best
// three. Store failures propagate; model and embedding failures do not.
func (r *Recommender) Recommend(ctx context.Context, req RecommendRequest) (*Recommendation, error) {
	cards, err := r.resolveCandidates(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(cards) == 0 {
		return &Recommendation{Items: []modelout.Item{}}, nil
	}

	prompt := buildRecommendationPrompt(req, cards)
	allowed := cardIDs(cards)

	raw, err := r.chat.Complete(ctx, recommendSystemPrompt, prompt)
	if err != nil {
		// A failed rerank still yields a ranked list: backfill from
		// candidate order.
		r.logger.Warn("recommend rerank failed, backfilling", zap.Error(err))
		return &Recommendation{
			Items:  modelout.ParseItems("", allowed, topItems),
			Prompt: prompt,
		}, nil
	}

	return &Recommendation{
		Items:       modelout.ParseItems(raw, allowed, topItems),
		RawResponse: raw,
		Prompt:      prompt,
	}, nil
}

// resolveCandidates derives search text, embeds it, and runs the vector
// search; without usable text or embedding it falls back to the client's
// own card list, capped at the configured limit.
func (r *Recommender) resolveCandidates(ctx context.Context, req RecommendRequest) ([]catalog.Card, error) {
	text, source := searchText(req)
	if text == "" {
		r.logger.Debug("recommend without search text, using provided cards")
		return limitCards(req.Pets, r.candidateLimit), nil
	}

	vector, err := r.embedder.Embed(ctx, text)
	if err != nil {
		r.logger.Warn("recommend embedding failed, using provided cards", zap.Error(err))
		return limitCards(req.Pets, r.candidateLimit), nil
	}
	if len(vector) == 0 {
		r.logger.Warn("recommend embedding empty, using provided cards", zap.String("source", source))
		return limitCards(req.Pets, r.candidateLimit), nil
	}

	species := catalog.KeywordSpecies(text)
	candidates, err := r.pets.SearchNearest(ctx, species, vector, r.candidateLimit)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("recommend candidates resolved",
		zap.String("search_source", source),
		zap.Int("count", len(candidates)))

	return catalog.Cards(candidates), nil
}

// searchText picks the basis for the vector search: evaluation profile
// first, then answered questions, then the raw conversation.
func searchText(req RecommendRequest) (string, string) {
	if req.Evaluation != nil {
		if profile := strings.TrimSpace(req.Evaluation.Profile); profile != "" {
			return profile, "evaluation.profile"
		}
	}
	if qa := formatQuestionAnswers(req.QuestionAnswers); qa != noAnswers {
		return qa, "questionAnswers"
	}
	if conversation := formatMessages(req.Messages); conversation != noConversation {
		return conversation, "messages"
	}
	return "", "none"
}

func limitCards(cards []catalog.Card, limit int) []catalog.Card {
	cleaned := make([]catalog.Card, 0, len(cards))
	for _, card := range cards {
		if card.ID == "" {
			continue
		}
		cleaned = append(cleaned, card)
		if len(cleaned) == limit {
			break
		}
	}
	return cleaned
}

func cardIDs(cards []catalog.Card) []string {
	ids := make([]string, len(cards))
	for i, card := range cards {
		ids[i] = card.ID
	}
	return ids
}
