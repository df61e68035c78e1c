package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/homeward-labs/homeward/pkg/adopter"
	adopterstore "github.com/homeward-labs/homeward/pkg/adopter/inmemory"
	"github.com/homeward-labs/homeward/pkg/agent"
	"github.com/homeward-labs/homeward/pkg/catalog"
	catalogstore "github.com/homeward-labs/homeward/pkg/catalog/inmemory"
	"github.com/homeward-labs/homeward/pkg/ingest"
	"github.com/homeward-labs/homeward/pkg/matching"
	testutils "github.com/homeward-labs/homeward/pkg/utils/test"
)

var _ = Describe("Server", func() {
	var (
		ctx    context.Context
		chat   *testutils.MockChat
		stream *testutils.MockStreamingChat
		pets   *catalogstore.Store
		users  *adopterstore.Store
		server *Server
		userID string
	)

	BeforeEach(func() {
		ctx = context.Background()
		chat = testutils.NewMockChat()
		stream = &testutils.MockStreamingChat{}
		embedder := testutils.NewMockEmbedder()
		pets = catalogstore.NewStore()
		users = adopterstore.NewStore()
		logger := zap.NewNop()

		matcher := matching.NewMatcher(chat, embedder, pets, users, logger, matching.Config{CandidateLimit: 5})
		interviewer := agent.NewInterviewer(chat, logger, agent.InterviewerConfig{})
		recommender := agent.NewRecommender(chat, embedder, pets, logger, agent.RecommenderConfig{})
		ingestor := ingest.NewIngestor(chat, embedder, pets, logger)

		server = NewServer(Config{ListenAddr: ":0"}, matcher, interviewer, recommender, ingestor, stream, pets, users, logger)

		stored, err := users.Save(ctx, &adopter.User{Name: "Jamie"})
		Expect(err).NotTo(HaveOccurred())
		userID = stored.ID
	})

	request := func(method, path string, body any) *http.Response {
		var reader io.Reader
		if body != nil {
			encoded, err := json.Marshal(body)
			Expect(err).NotTo(HaveOccurred())
			reader = bytes.NewReader(encoded)
		}
		req, err := http.NewRequest(method, path, reader)
		Expect(err).NotTo(HaveOccurred())
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := server.app.Test(req, -1)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	decode := func(resp *http.Response, out any) {
		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(body, out)).To(Succeed())
	}

	Describe("GET /ping", func() {
		It("returns pong", func() {
			resp := request(http.MethodGet, "/ping", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
		})
	})

	Describe("POST /api/chat", func() {
		It("returns a match result", func() {
			pet, err := pets.Save(ctx, &catalog.Pet{Name: "Mochi", Species: catalog.SpeciesCat, Status: catalog.StatusOpen, PersonalityVector: []float32{0.1, 0.2, 0.3}})
			Expect(err).NotTo(HaveOccurred())

			chat.Responses = []string{
				"Wants a quiet cat.",
				`{"bestPetId": "` + pet.ID + `", "explanation": "calm", "confidence": 0.9}`,
			}

			resp := request(http.MethodPost, "/api/chat", ChatRequest{UserID: userID, Message: "a quiet cat"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var result matching.MatchResult
			decode(resp, &result)
			Expect(result.BestPet.ID).To(Equal(pet.ID))
			Expect(result.Confidence).To(Equal(0.9))
		})

		It("maps an empty message to 400", func() {
			resp := request(http.MethodPost, "/api/chat", ChatRequest{UserID: userID, Message: "  "})
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("maps an unknown user to 404", func() {
			resp := request(http.MethodPost, "/api/chat", ChatRequest{UserID: "missing", Message: "a cat"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})

		It("maps upstream chat failures to 502", func() {
			chat.Err = testutils.ErrMockUpstream

			resp := request(http.MethodPost, "/api/chat", ChatRequest{UserID: userID, Message: "a cat"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadGateway))
		})
	})

	Describe("POST /api/chat/stream", func() {
		It("streams chunks and a final done event", func() {
			stream.Chunks = []string{"Hel", "lo"}

			resp := request(http.MethodPost, "/api/chat/stream", ChatRequest{Message: "hi"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("text/event-stream"))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())

			events := strings.Split(strings.TrimSpace(string(body)), "\n\n")
			Expect(events).To(HaveLen(3))
			Expect(events[0]).To(Equal(`data: {"content":"Hel","done":false}`))
			Expect(events[1]).To(Equal(`data: {"content":"lo","done":false}`))
			Expect(events[2]).To(Equal(`data: {"content":"","done":true}`))
		})

		It("rejects a blank message", func() {
			resp := request(http.MethodPost, "/api/chat/stream", ChatRequest{Message: " "})
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Describe("POST /api/agent/evaluate", func() {
		It("runs the batch interview by default", func() {
			chat.Response = `{"endverification":false,"nextQuestions":["Q1","Q2","Q3","Q4","Q5"]}`

			resp := request(http.MethodPost, "/api/agent/evaluate", EvaluateRequest{
				Messages: []agent.Message{{Role: "user", Content: "hi"}},
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var evaluation agent.Evaluation
			decode(resp, &evaluation)
			Expect(evaluation.Complete).To(BeFalse())
			Expect(evaluation.NextQuestions).To(HaveLen(5))
		})

		It("runs the coverage interview on request", func() {
			chat.Response = `{"nextQuestions":["One?","Two?"]}`

			resp := request(http.MethodPost, "/api/agent/evaluate", EvaluateRequest{Mode: "coverage"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var evaluation agent.Evaluation
			decode(resp, &evaluation)
			Expect(evaluation.NextQuestions).To(HaveLen(1))
		})

		It("rejects an unknown mode", func() {
			resp := request(http.MethodPost, "/api/agent/evaluate", EvaluateRequest{Mode: "psychic"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Describe("POST /api/agent/recommend", func() {
		It("returns a well-formed list even when the model fails", func() {
			chat.Err = testutils.ErrMockUpstream

			resp := request(http.MethodPost, "/api/agent/recommend", agent.RecommendRequest{
				Pets: []catalog.Card{{ID: "p1"}, {ID: "p2"}},
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var recommendation agent.Recommendation
			decode(resp, &recommendation)
			Expect(recommendation.Items).To(HaveLen(2))
		})
	})

	Describe("pets", func() {
		It("lists open pets by default", func() {
			_, err := pets.Save(ctx, &catalog.Pet{ID: "a", Status: catalog.StatusOpen})
			Expect(err).NotTo(HaveOccurred())
			_, err = pets.Save(ctx, &catalog.Pet{ID: "b", Status: catalog.StatusAdopted})
			Expect(err).NotTo(HaveOccurred())

			resp := request(http.MethodGet, "/api/pets", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var listed []catalog.Pet
			decode(resp, &listed)
			Expect(listed).To(HaveLen(1))
			Expect(listed[0].ID).To(Equal("a"))
		})

		It("gets a pet by id and 404s on a miss", func() {
			_, err := pets.Save(ctx, &catalog.Pet{ID: "a", Name: "Mochi", Status: catalog.StatusOpen})
			Expect(err).NotTo(HaveOccurred())

			resp := request(http.MethodGet, "/api/pets/a", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			resp = request(http.MethodGet, "/api/pets/missing", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})

		It("ingests a new pet", func() {
			chat.Responses = []string{`{"activityLevel":"low"}`, "A calm companion."}

			resp := request(http.MethodPost, "/api/pets", CreatePetRequest{
				Name:           "Mochi",
				RawDescription: "a sleepy tabby",
				Species:        "CAT",
			})
			Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))

			var pet catalog.Pet
			decode(resp, &pet)
			Expect(pet.ID).NotTo(BeEmpty())
			Expect(pet.Status).To(Equal(catalog.StatusOpen))
		})

		It("maps an invalid species to 400", func() {
			resp := request(http.MethodPost, "/api/pets", CreatePetRequest{Name: "X", Species: "HAMSTER"})
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Describe("GET /api/users/:id", func() {
		It("returns the user and 404s on a miss", func() {
			resp := request(http.MethodGet, "/api/users/"+userID, nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			resp = request(http.MethodGet, "/api/users/missing", nil)
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})
	})
})
