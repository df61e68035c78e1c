// Package seed fills a catalog store with a small demo population of
// adoptable pets plus one demo adopter, for local development and demos.
package seed

import (
	"context"
	"fmt"

	"github.com/homeward-labs/homeward/pkg/adopter"
	"github.com/homeward-labs/homeward/pkg/catalog"
	"github.com/homeward-labs/homeward/pkg/embeddings"
)

// DemoUserID is the adopter every demo client logs in as.
const DemoUserID = "demo-user"

// Demo inserts the demo pets and the demo adopter. When embedder is
// non-nil each pet's personality profile is embedded so vector search
// works out of the box; otherwise vectors stay unset and the non-vector
// fallback path serves. Returns the number of pets seeded.
func Demo(ctx context.Context, pets catalog.Store, users adopter.Store, embedder embeddings.Embedder) (int, error) {
	for _, pet := range demoPets() {
		if embedder != nil {
			vector, err := embedder.Embed(ctx, pet.RawDescription)
			if err != nil {
				return 0, fmt.Errorf("embedding demo pet %s: %w", pet.Name, err)
			}
			pet.PersonalityVector = vector
		}
		if _, err := pets.Save(ctx, pet); err != nil {
			return 0, fmt.Errorf("seeding pet %s: %w", pet.Name, err)
		}
	}

	if _, err := users.Save(ctx, &adopter.User{
		ID:    DemoUserID,
		Name:  "Demo Adopter",
		Email: "demo@example.com",
	}); err != nil {
		return 0, fmt.Errorf("seeding demo user: %w", err)
	}

	return len(demoPets()), nil
}

func demoPets() []*catalog.Pet {
	return []*catalog.Pet{
		{
			ID:             "seed-mochi",
			Name:           "Mochi",
			Species:        catalog.SpeciesCat,
			Status:         catalog.StatusOpen,
			RawDescription: "A gentle three-year-old tabby who naps in sunbeams and greets visitors with slow blinks. Happiest in a calm flat with a warm lap on offer.",
			StructuredTags: map[string]any{
				"activityLevel": "low", "friendliness": "friendly",
				"goodWithKids": true, "size": "small",
			},
			Breed: "Tabby", Age: "3y", Energy: "Low", Trait: "Calm lap cat",
			Distance: "1.2 km", Icon: "🐱", Tone: "peach",
		},
		{
			ID:             "seed-pixel",
			Name:           "Pixel",
			Species:        catalog.SpeciesCat,
			Status:         catalog.StatusOpen,
			RawDescription: "A curious young cat who patrols shelves and chirps at birds through the window. Needs climbing space and daily play.",
			StructuredTags: map[string]any{
				"activityLevel": "high", "friendliness": "neutral",
				"goodWithCats": true, "size": "small",
			},
			Breed: "Domestic shorthair", Age: "1y", Energy: "High", Trait: "Curious climber",
			Distance: "3.4 km", Icon: "🐈", Tone: "mint",
		},
		{
			ID:             "seed-waffle",
			Name:           "Waffle",
			Species:        catalog.SpeciesDog,
			Status:         catalog.StatusOpen,
			RawDescription: "A goofy corgi mix who lives for fetch and belly rubs. Knows sit and stay, still working on not herding the vacuum.",
			StructuredTags: map[string]any{
				"activityLevel": "high", "friendliness": "friendly",
				"goodWithKids": true, "trainingLevel": "basic", "size": "medium",
			},
			Breed: "Corgi mix", Age: "2y", Energy: "High", Trait: "Playful herder",
			Distance: "2.1 km", Icon: "🐶", Tone: "honey",
		},
		{
			ID:             "seed-biscuit",
			Name:           "Biscuit",
			Species:        catalog.SpeciesDog,
			Status:         catalog.StatusOpen,
			RawDescription: "A senior beagle with soulful eyes and a dignified walking pace. Prefers short strolls, long naps, and a quiet household.",
			StructuredTags: map[string]any{
				"activityLevel": "low", "friendliness": "friendly",
				"goodWithDogs": true, "healthNotes": "mild arthritis", "size": "medium",
			},
			Breed: "Beagle", Age: "9y", Energy: "Low", Trait: "Gentle senior",
			Distance: "5.0 km", Icon: "🦴", Tone: "sky",
		},
		{
			ID:             "seed-nori",
			Name:           "Nori",
			Species:        catalog.SpeciesCat,
			Status:         catalog.StatusOpen,
			RawDescription: "A shy black cat who warms up slowly and then never leaves your side. Best as the only pet in a patient, quiet home.",
			StructuredTags: map[string]any{
				"activityLevel": "medium", "friendliness": "shy",
				"goodWithCats": false, "size": "small",
			},
			Breed: "Bombay", Age: "4y", Energy: "Medium", Trait: "Slow-burn shadow",
			Distance: "0.8 km", Icon: "🐾", Tone: "lilac",
		},
		{
			ID:             "seed-tango",
			Name:           "Tango",
			Species:        catalog.SpeciesDog,
			Status:         catalog.StatusOpen,
			RawDescription: "An athletic young shepherd who needs a running partner and a job to do. Quick to learn, bored by idle weekends.",
			StructuredTags: map[string]any{
				"activityLevel": "high", "friendliness": "neutral",
				"trainingLevel": "advanced", "size": "large",
			},
			Breed: "Shepherd mix", Age: "2y", Energy: "Very high", Trait: "Working athlete",
			Distance: "7.3 km", Icon: "🐕", Tone: "moss",
		},
	}
}
