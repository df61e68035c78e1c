// Package catalog holds the pet catalog: the Pet record, its lifecycle,
// and the Store interface including the hybrid (attribute filter +
// vector similarity) candidate search.
package catalog

import "strings"

// Species enumerates the supported pet species.
type Species string

const (
	SpeciesCat Species = "CAT"
	SpeciesDog Species = "DOG"
)

// ParseSpecies maps a token onto a Species. Only the two valid species
// tokens are accepted; anything else reports ok=false.
func ParseSpecies(token string) (Species, bool) {
	switch Species(token) {
	case SpeciesCat:
		return SpeciesCat, true
	case SpeciesDog:
		return SpeciesDog, true
	default:
		return "", false
	}
}

var (
	catKeywords = []string{"cat", "kitten", "feline", "猫"}
	dogKeywords = []string{"dog", "puppy", "canine", "狗"}
)

// KeywordSpecies scans free text for species keywords, including the
// local-language terms, without any model call. Cat keywords win when
// both appear. Returns nil when the text is silent.
func KeywordSpecies(text string) *Species {
	lower := strings.ToLower(text)
	for _, keyword := range catKeywords {
		if strings.Contains(lower, keyword) {
			species := SpeciesCat
			return &species
		}
	}
	for _, keyword := range dogKeywords {
		if strings.Contains(lower, keyword) {
			species := SpeciesDog
			return &species
		}
	}
	return nil
}

// Status enumerates the pet lifecycle states. Only OPEN pets are eligible
// for matching.
type Status string

const (
	StatusOpen    Status = "OPEN"
	StatusMatched Status = "MATCHED"
	StatusAdopted Status = "ADOPTED"
)

// Pet is one catalog entry. PersonalityVector is either empty (unset) or
// exactly the configured embedding dimension; it is never partially
// populated.
type Pet struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Species        Species        `json:"species"`
	Status         Status         `json:"status"`
	RawDescription string         `json:"rawDescription,omitempty"`
	StructuredTags map[string]any `json:"structuredTags,omitempty"`

	PersonalityVector []float32 `json:"-"`

	OwnerID string `json:"ownerId,omitempty"`

	// Display attributes surfaced on pet cards.
	Breed    string `json:"breed,omitempty"`
	Age      string `json:"age,omitempty"`
	Energy   string `json:"energy,omitempty"`
	Trait    string `json:"trait,omitempty"`
	Distance string `json:"distance,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Tone     string `json:"tone,omitempty"`
}

// Card is the compact projection of a Pet used in agent prompts and
// client-facing lists.
type Card struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Breed    string `json:"breed,omitempty"`
	Age      string `json:"age,omitempty"`
	Energy   string `json:"energy,omitempty"`
	Trait    string `json:"trait,omitempty"`
	Distance string `json:"distance,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Tone     string `json:"tone,omitempty"`
}

// Card returns the card projection of the pet.
func (p *Pet) Card() Card {
	return Card{
		ID:       p.ID,
		Name:     p.Name,
		Breed:    p.Breed,
		Age:      p.Age,
		Energy:   p.Energy,
		Trait:    p.Trait,
		Distance: p.Distance,
		Icon:     p.Icon,
		Tone:     p.Tone,
	}
}

// Cards converts a pet list into its card projections, skipping entries
// without an ID.
func Cards(pets []*Pet) []Card {
	cards := make([]Card, 0, len(pets))
	for _, pet := range pets {
		if pet == nil || pet.ID == "" {
			continue
		}
		cards = append(cards, pet.Card())
	}
	return cards
}
