package api

import (
	"bufio"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/homeward-labs/homeward/pkg/adopter"
	"github.com/homeward-labs/homeward/pkg/agent"
	"github.com/homeward-labs/homeward/pkg/catalog"
	"github.com/homeward-labs/homeward/pkg/embeddings"
	"github.com/homeward-labs/homeward/pkg/ingest"
	"github.com/homeward-labs/homeward/pkg/llm"
	"github.com/homeward-labs/homeward/pkg/matching"
)

// ErrorResponse is the error body every handler returns.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ChatRequest is the body of the one-best match and streaming endpoints.
type ChatRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// EvaluateRequest is the body of the interview endpoint. Mode selects the
// interview variant: empty or "batch" for the fixed-count interview,
// "coverage" for the dimension-coverage interview.
type EvaluateRequest struct {
	Messages []agent.Message `json:"messages"`
	Mode     string          `json:"mode"`
}

// CreatePetRequest is the body of the pet ingestion endpoint.
type CreatePetRequest struct {
	Name           string `json:"name"`
	RawDescription string `json:"rawDescription"`
	Species        string `json:"species"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleChat runs the one-best recommendation flow for a chat message.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	result, err := s.matcher.Recommend(c.Context(), req.UserID, req.Message)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(result)
}

// handleChatStream streams a free-form chat completion as SSE. Each event
// carries one JSON chunk; the final event has done=true. The stream is
// capped by the configured wall-clock timeout, after which it is closed
// without error.
func (s *Server) handleChatStream(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "message is required"})
	}

	sub, err := s.streamer.Stream(c.Context(), req.Message)
	if err != nil {
		return s.fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	timeout := s.config.streamTimeout()
	logger := s.logger

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer sub.Close()

		timer := time.NewTimer(timeout)
		defer timer.Stop()

		for {
			select {
			case chunk, ok := <-sub.Chunks():
				if !ok {
					return
				}
				if err := writeChunk(w, chunk); err != nil {
					// Client went away; dispose upstream and stop.
					return
				}
				if chunk.Done {
					return
				}
			case <-timer.C:
				logger.Warn("chat stream timed out", zap.Duration("timeout", timeout))
				return
			}
		}
	})

	return nil
}

func writeChunk(w *bufio.Writer, chunk llm.Chunk) error {
	payload, err := json.Marshal(chunk)
	if err != nil {
		return err
	}
	if _, err := w.WriteString("data: " + string(payload) + "\n\n"); err != nil {
		return err
	}
	return w.Flush()
}

// handleAgentEvaluate runs one turn of the interview.
func (s *Server) handleAgentEvaluate(c *fiber.Ctx) error {
	var req EvaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	var (
		evaluation *agent.Evaluation
		err        error
	)
	switch req.Mode {
	case "", "batch":
		evaluation, err = s.interviewer.Evaluate(c.Context(), req.Messages)
	case "coverage":
		evaluation, err = s.interviewer.EvaluateCoverage(c.Context(), req.Messages)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "unknown interview mode: " + req.Mode})
	}
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(evaluation)
}

// handleAgentRecommend returns the top-N ranked pets. This path never
// produces a model-failure error: an empty or backfilled list is a valid
// business outcome.
func (s *Server) handleAgentRecommend(c *fiber.Ctx) error {
	var req agent.RecommendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	recommendation, err := s.recommender.Recommend(c.Context(), req)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(recommendation)
}

// handleListPets lists pets by lifecycle status, defaulting to OPEN.
func (s *Server) handleListPets(c *fiber.Ctx) error {
	status := catalog.Status(strings.ToUpper(c.Query("status", string(catalog.StatusOpen))))

	pets, err := s.pets.FindByStatus(c.Context(), status)
	if err != nil {
		return s.fail(c, err)
	}
	if pets == nil {
		pets = []*catalog.Pet{}
	}

	return c.JSON(pets)
}

// handleGetPet returns a single pet by id.
func (s *Server) handleGetPet(c *fiber.Ctx) error {
	pet, err := s.pets.FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(pet)
}

// handleCreatePet ingests a new pet from its raw description.
func (s *Server) handleCreatePet(c *fiber.Ctx) error {
	var req CreatePetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "name is required"})
	}

	pet, err := s.ingestor.ProcessNewPet(c.Context(), req.Name, req.RawDescription, req.Species)
	if err != nil {
		return s.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(pet)
}

// handleGetUser returns a single adopter by id.
func (s *Server) handleGetUser(c *fiber.Ctx) error {
	user, err := s.users.FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(user)
}

// fail maps a domain error onto its HTTP status: not-found 404,
// validation 400, upstream model/embedding failures 502, the rest 500.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	var petNotFound catalog.NotFoundError
	var userNotFound adopter.NotFoundError

	status := fiber.StatusInternalServerError
	switch {
	case errors.As(err, &petNotFound), errors.As(err, &userNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, matching.ErrEmptyMessage), errors.Is(err, ingest.ErrInvalidSpecies):
		status = fiber.StatusBadRequest
	case errors.Is(err, llm.ErrUpstream), errors.Is(err, embeddings.ErrEmbedding):
		status = fiber.StatusBadGateway
	}

	if status == fiber.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	} else {
		s.logger.Debug("request rejected", zap.String("path", c.Path()), zap.Int("status", status), zap.Error(err))
	}

	return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
}
