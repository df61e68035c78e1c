package matching_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/homeward-labs/homeward/pkg/adopter"
	adopterstore "github.com/homeward-labs/homeward/pkg/adopter/inmemory"
	"github.com/homeward-labs/homeward/pkg/catalog"
	catalogstore "github.com/homeward-labs/homeward/pkg/catalog/inmemory"
	"github.com/homeward-labs/homeward/pkg/matching"
	testutils "github.com/homeward-labs/homeward/pkg/utils/test"
)

var _ = Describe("Matcher", func() {
	var (
		ctx      context.Context
		chat     *testutils.MockChat
		embedder *testutils.MockEmbedder
		pets     *catalogstore.Store
		users    *adopterstore.Store
		matcher  *matching.Matcher
		userID   string
	)

	BeforeEach(func() {
		ctx = context.Background()
		chat = testutils.NewMockChat()
		embedder = testutils.NewMockEmbedder()
		pets = catalogstore.NewStore()
		users = adopterstore.NewStore()
		matcher = matching.NewMatcher(chat, embedder, pets, users, zap.NewNop(), matching.Config{CandidateLimit: 5})

		stored, err := users.Save(ctx, &adopter.User{Name: "Jamie"})
		Expect(err).NotTo(HaveOccurred())
		userID = stored.ID
	})

	addPet := func(pet catalog.Pet) *catalog.Pet {
		stored, err := pets.Save(ctx, &pet)
		Expect(err).NotTo(HaveOccurred())
		return stored
	}

	It("rejects an empty message before any external call", func() {
		_, err := matcher.Recommend(ctx, userID, "   ")
		Expect(err).To(MatchError(matching.ErrEmptyMessage))
		Expect(chat.Prompts).To(BeEmpty())
		Expect(embedder.Calls).To(BeEmpty())
	})

	It("propagates user not found", func() {
		_, err := matcher.Recommend(ctx, "missing", "a quiet cat please")
		Expect(err).To(BeAssignableToTypeOf(adopter.NotFoundError{}))
		Expect(chat.Prompts).To(BeEmpty())
	})

	It("returns a terminal no-match without a rerank call when retrieval is empty", func() {
		chat.Responses = []string{"Wants a quiet cat."}

		result, err := matcher.Recommend(ctx, userID, "I want a quiet cat for my apartment")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.BestPet).To(BeNil())
		Expect(result.Explanation).To(Equal(matching.NoMatchExplanation))
		Expect(result.Candidates).To(BeEmpty())

		// one profile summary call only: species came from keywords and
		// the empty candidate set short-circuits the rerank
		Expect(chat.Prompts).To(HaveLen(1))
	})

	Context("with open cats and dogs in the catalog", func() {
		var calm, wild, rex *catalog.Pet

		BeforeEach(func() {
			calm = addPet(catalog.Pet{Name: "Calm", Species: catalog.SpeciesCat, Status: catalog.StatusOpen, PersonalityVector: []float32{0.1, 0.2, 0.3}})
			wild = addPet(catalog.Pet{Name: "Wild", Species: catalog.SpeciesCat, Status: catalog.StatusOpen, PersonalityVector: []float32{0.9, -0.4, 0}})
			rex = addPet(catalog.Pet{Name: "Rex", Species: catalog.SpeciesDog, Status: catalog.StatusOpen, PersonalityVector: []float32{0.1, 0.2, 0.3}})
		})

		It("detects species by keyword without a classification call", func() {
			chat.Responses = []string{
				"Wants a quiet cat.",
				`{"bestPetId": "` + calm.ID + `", "explanation": "calm fits", "confidence": 0.9}`,
			}

			result, err := matcher.Recommend(ctx, userID, "I want a quiet cat for my apartment")
			Expect(err).NotTo(HaveOccurred())

			// profile + rerank only
			Expect(chat.Prompts).To(HaveLen(2))
			for _, pet := range result.Candidates {
				Expect(pet.Species).To(Equal(catalog.SpeciesCat))
			}
			Expect(result.BestPet.ID).To(Equal(calm.ID))
			Expect(result.Explanation).To(Equal("calm fits"))
			Expect(result.Confidence).To(Equal(0.9))
		})

		It("falls back to a classification call when keywords are silent", func() {
			chat.Responses = []string{
				"Wants a calm companion.",
				"DOG",
				`{"bestPetId": "` + rex.ID + `", "explanation": "loyal"}`,
			}

			result, err := matcher.Recommend(ctx, userID, "I want a loyal companion for hikes")
			Expect(err).NotTo(HaveOccurred())
			Expect(chat.Prompts).To(HaveLen(3))
			Expect(result.BestPet.ID).To(Equal(rex.ID))
			for _, pet := range result.Candidates {
				Expect(pet.Species).To(Equal(catalog.SpeciesDog))
			}
		})

		It("treats a non-species classification answer as no filter", func() {
			chat.Responses = []string{
				"Wants a calm companion.",
				"NONE",
				`{"bestPetId": "` + calm.ID + `"}`,
			}

			result, err := matcher.Recommend(ctx, userID, "something calm please")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Candidates).To(HaveLen(3))
		})

		It("falls back to the first candidate when the model names an unknown pet", func() {
			chat.Responses = []string{
				"Wants a quiet cat.",
				`{"bestPetId": "7", "explanation": "made up"}`,
			}
			embedder.Embeddings["Wants a quiet cat."] = []float32{0.1, 0.2, 0.3}

			result, err := matcher.Recommend(ctx, userID, "quiet cat")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.BestPet.ID).To(Equal(result.Candidates[0].ID))
			Expect(result.BestPet.ID).To(Equal(calm.ID))
		})

		It("falls back to the first candidate on unparseable rerank output", func() {
			chat.Responses = []string{
				"Wants a quiet cat.",
				"the fluffy one, definitely",
			}

			result, err := matcher.Recommend(ctx, userID, "quiet cat")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.BestPet).NotTo(BeNil())
			Expect(result.Explanation).To(Equal("the fluffy one, definitely"))
			Expect(result.Confidence).To(Equal(0.5))
		})

		It("persists the refreshed profile before retrieval", func() {
			chat.Responses = []string{
				"Wants a quiet cat.",
				`{"bestPetId": "` + calm.ID + `"}`,
			}
			embedder.Embeddings["Wants a quiet cat."] = []float32{0.4, 0.5, 0.6}

			_, err := matcher.Recommend(ctx, userID, "quiet cat")
			Expect(err).NotTo(HaveOccurred())

			user, err := users.FindByID(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.PreferenceSummary).To(Equal("Wants a quiet cat."))
			Expect(user.PreferenceVector).To(Equal([]float32{0.4, 0.5, 0.6}))
		})

		It("propagates embedding failures", func() {
			chat.Responses = []string{"boom summary"}
			embedder.FailOn = "boom summary"

			_, err := matcher.Recommend(ctx, userID, "quiet cat")
			Expect(err).To(HaveOccurred())
		})

		It("uses the non-vector fallback when the embedding comes back empty", func() {
			chat.Responses = []string{
				"Wants a quiet cat.",
				`{"bestPetId": "` + wild.ID + `"}`,
			}
			embedder.Embeddings["Wants a quiet cat."] = []float32{}

			result, err := matcher.Recommend(ctx, userID, "quiet cat")
			Expect(err).NotTo(HaveOccurred())

			// store order, cats only
			Expect(result.Candidates).To(HaveLen(2))
			Expect(result.Candidates[0].ID).To(Equal(calm.ID))
			Expect(result.Candidates[1].ID).To(Equal(wild.ID))
			Expect(result.BestPet.ID).To(Equal(wild.ID))
		})

		It("propagates chat failures from the profile refresh", func() {
			chat.Err = testutils.ErrMockUpstream

			_, err := matcher.Recommend(ctx, userID, "quiet cat")
			Expect(err).To(MatchError(testutils.ErrMockUpstream))
		})
	})
})

