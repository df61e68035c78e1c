package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/homeward-labs/homeward/pkg/adopter"
	"github.com/homeward-labs/homeward/pkg/agent"
	"github.com/homeward-labs/homeward/pkg/catalog"
	"github.com/homeward-labs/homeward/pkg/llm"
	"github.com/homeward-labs/homeward/pkg/matching"
)

// Matchmaker produces the one-best recommendation for a chat message.
type Matchmaker interface {
	Recommend(ctx context.Context, userID, message string) (*matching.MatchResult, error)
}

// Interviewer drives both interview variants.
type Interviewer interface {
	Evaluate(ctx context.Context, messages []agent.Message) (*agent.Evaluation, error)
	EvaluateCoverage(ctx context.Context, messages []agent.Message) (*agent.Evaluation, error)
}

// Recommender produces the top-N ranked item list.
type Recommender interface {
	Recommend(ctx context.Context, req agent.RecommendRequest) (*agent.Recommendation, error)
}

// Ingestor turns a raw description into a catalog entry.
type Ingestor interface {
	ProcessNewPet(ctx context.Context, name, rawDescription, species string) (*catalog.Pet, error)
}

// Streamer starts a streaming chat completion.
type Streamer interface {
	Stream(ctx context.Context, userPrompt string) (*llm.Subscription, error)
}

// Server is the HTTP server for the adoption matching service.
type Server struct {
	config Config
	logger *zap.Logger
	app    *fiber.App

	matcher     Matchmaker
	interviewer Interviewer
	recommender Recommender
	ingestor    Ingestor
	streamer    Streamer
	pets        catalog.Store
	users       adopter.Store
}

// NewServer creates a new API server. The stores are injected so they can
// be shared with the seeding path.
func NewServer(config Config, matcher Matchmaker, interviewer Interviewer, recommender Recommender, ingestor Ingestor, streamer Streamer, pets catalog.Store, users adopter.Store, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:      config,
		logger:      logger,
		app:         app,
		matcher:     matcher,
		interviewer: interviewer,
		recommender: recommender,
		ingestor:    ingestor,
		streamer:    streamer,
		pets:        pets,
		users:       users,
	}

	app.Get("/ping", s.handlePing)

	app.Post("/api/chat", s.handleChat)
	app.Post("/api/chat/stream", s.handleChatStream)

	app.Post("/api/agent/evaluate", s.handleAgentEvaluate)
	app.Post("/api/agent/recommend", s.handleAgentRecommend)

	app.Get("/api/pets", s.handleListPets)
	app.Get("/api/pets/:id", s.handleGetPet)
	app.Post("/api/pets", s.handleCreatePet)

	app.Get("/api/users/:id", s.handleGetUser)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
