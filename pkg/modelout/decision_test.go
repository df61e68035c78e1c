package modelout_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/homeward-labs/homeward/pkg/modelout"
)

var _ = Describe("ParseDecision", func() {
	candidates := []string{"pet-1", "pet-2", "pet-3"}

	It("parses a well-formed decision", func() {
		raw := `{"bestPetId": "pet-2", "explanation": "calm and apartment-sized", "confidence": 0.9, "highlights": ["calm", "small"]}`
		decision := modelout.ParseDecision(raw, candidates)
		Expect(decision.BestPetID).To(Equal("pet-2"))
		Expect(decision.Explanation).To(Equal("calm and apartment-sized"))
		Expect(decision.Confidence).To(Equal(0.9))
		Expect(decision.Highlights).To(Equal([]string{"calm", "small"}))
	})

	It("strips a markdown fence before parsing", func() {
		raw := "```json\n{\"bestPetId\": \"pet-1\", \"explanation\": \"x\"}\n```"
		decision := modelout.ParseDecision(raw, candidates)
		Expect(decision.BestPetID).To(Equal("pet-1"))
	})

	It("accepts a numeric bestPetId", func() {
		decision := modelout.ParseDecision(`{"bestPetId": 3, "explanation": "x"}`, []string{"3", "4"})
		Expect(decision.BestPetID).To(Equal("3"))
	})

	It("discards an id the model invented", func() {
		decision := modelout.ParseDecision(`{"bestPetId": "7", "explanation": "x"}`, candidates)
		Expect(decision.BestPetID).To(BeEmpty())
	})

	It("turns unparseable output into a fallback decision", func() {
		decision := modelout.ParseDecision("I think the tabby is best!", candidates)
		Expect(decision.BestPetID).To(BeEmpty())
		Expect(decision.Explanation).To(Equal("I think the tabby is best!"))
		Expect(decision.Confidence).To(Equal(0.5))
		Expect(decision.Highlights).To(BeEmpty())
	})

	It("defaults a missing confidence and explanation", func() {
		raw := `{"bestPetId": "pet-1"}`
		decision := modelout.ParseDecision(raw, candidates)
		Expect(decision.Confidence).To(Equal(0.5))
		Expect(decision.Explanation).To(Equal(raw))
	})

	It("interprets a percentage confidence", func() {
		decision := modelout.ParseDecision(`{"bestPetId": "pet-1", "confidence": 85}`, candidates)
		Expect(decision.Confidence).To(Equal(0.85))
	})

	It("caps highlights at three and drops blanks", func() {
		raw := `{"bestPetId": "pet-1", "highlights": ["a", "  ", "b", "c", "d"]}`
		decision := modelout.ParseDecision(raw, candidates)
		Expect(decision.Highlights).To(Equal([]string{"a", "b", "c"}))
	})

	It("never panics on empty input", func() {
		decision := modelout.ParseDecision("", nil)
		Expect(decision.BestPetID).To(BeEmpty())
		Expect(decision.Confidence).To(Equal(0.5))
	})
})
