package seed_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	adopterstore "github.com/homeward-labs/homeward/pkg/adopter/inmemory"
	"github.com/homeward-labs/homeward/pkg/catalog"
	catalogstore "github.com/homeward-labs/homeward/pkg/catalog/inmemory"
	"github.com/homeward-labs/homeward/pkg/seed"
	testutils "github.com/homeward-labs/homeward/pkg/utils/test"
)

var _ = Describe("Demo", func() {
	var (
		ctx   context.Context
		pets  *catalogstore.Store
		users *adopterstore.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		pets = catalogstore.NewStore()
		users = adopterstore.NewStore()
	})

	It("seeds open pets of both species and the demo adopter", func() {
		count, err := seed.Demo(ctx, pets, users, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(BeNumerically(">", 0))

		open, err := pets.FindByStatus(ctx, catalog.StatusOpen)
		Expect(err).NotTo(HaveOccurred())
		Expect(open).To(HaveLen(count))

		species := map[catalog.Species]bool{}
		for _, pet := range open {
			species[pet.Species] = true
			Expect(pet.PersonalityVector).To(BeEmpty())
		}
		Expect(species).To(HaveKey(catalog.SpeciesCat))
		Expect(species).To(HaveKey(catalog.SpeciesDog))

		user, err := users.FindByID(ctx, seed.DemoUserID)
		Expect(err).NotTo(HaveOccurred())
		Expect(user.Name).NotTo(BeEmpty())
	})

	It("embeds descriptions when an embedder is configured", func() {
		embedder := testutils.NewMockEmbedder()

		count, err := seed.Demo(ctx, pets, users, embedder)
		Expect(err).NotTo(HaveOccurred())
		Expect(embedder.Calls).To(HaveLen(count))

		open, err := pets.FindByStatus(ctx, catalog.StatusOpen)
		Expect(err).NotTo(HaveOccurred())
		for _, pet := range open {
			Expect(pet.PersonalityVector).NotTo(BeEmpty())
		}
	})

	It("is idempotent over fixed ids", func() {
		_, err := seed.Demo(ctx, pets, users, nil)
		Expect(err).NotTo(HaveOccurred())
		count, err := seed.Demo(ctx, pets, users, nil)
		Expect(err).NotTo(HaveOccurred())

		open, err := pets.FindByStatus(ctx, catalog.StatusOpen)
		Expect(err).NotTo(HaveOccurred())
		Expect(open).To(HaveLen(count))
	})
})
