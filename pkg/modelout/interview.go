package modelout

import (
	"encoding/json"
	"regexp"
	"strings"
)

// InterviewSignal is the normalized outcome of one interview turn: either
// the interview is complete and Profile carries the synthesized summary,
// or Questions carries the next batch to ask.
type InterviewSignal struct {
	Complete  bool     `json:"complete"`
	Profile   string   `json:"profile,omitempty"`
	Questions []string `json:"questions,omitempty"`
}

// listMarker matches a leading ordinal or bullet on a question line.
var listMarker = regexp.MustCompile(`^(\d+\.|[-*])\s*`)

// ParseInterview normalizes an interview-turn response. Completion is
// signaled only by an explicit "endverification": true in parseable JSON;
// malformed output never completes an interview. Profile and question
// fields are read under their several tolerated key spellings, and plain
// prose is salvaged line by line as questions. At most maxQuestions
// questions are returned. Total: any input yields a well-formed signal.
func ParseInterview(raw string, maxQuestions int) InterviewSignal {
	cleaned := StripFences(raw)

	var payload struct {
		EndVerification bool `json:"endverification"`

		Profile          string `json:"profile"`
		PsychProfile     string `json:"psychProfile"`
		PsychologicalPro string `json:"psychologicalProfile"`

		NextQuestions []string        `json:"nextQuestions"`
		Questions     []string        `json:"questions"`
		NextQuestion  string          `json:"nextQuestion"`
		Question      string          `json:"question"`
		FollowUp      string          `json:"followUp"`
		Next          json.RawMessage `json:"next"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return InterviewSignal{Questions: salvageQuestions(cleaned, maxQuestions)}
	}

	if payload.EndVerification {
		profile := firstNonEmpty(payload.Profile, payload.PsychProfile, payload.PsychologicalPro)
		if profile == "" {
			profile = "No profile summary provided."
		}
		return InterviewSignal{Complete: true, Profile: profile}
	}

	questions := make([]string, 0, maxQuestions)
	appendQuestion := func(question string) {
		question = strings.TrimSpace(question)
		if question != "" && len(questions) < maxQuestions {
			questions = append(questions, question)
		}
	}

	switch {
	case len(payload.NextQuestions) > 0:
		for _, question := range payload.NextQuestions {
			appendQuestion(question)
		}
	case len(payload.Questions) > 0:
		for _, question := range payload.Questions {
			appendQuestion(question)
		}
	default:
		appendQuestion(firstNonEmpty(payload.NextQuestion, payload.Question, payload.FollowUp))
		if len(questions) == 0 {
			for _, question := range nextQuestions(payload.Next) {
				appendQuestion(question)
			}
		}
	}

	if len(questions) == 0 {
		questions = salvageQuestions(cleaned, maxQuestions)
	}
	return InterviewSignal{Questions: questions}
}

// nextQuestions reads the "next" key, which models emit as either a
// single question string or an array of them.
func nextQuestions(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}
	var several []string
	if err := json.Unmarshal(raw, &several); err == nil {
		return several
	}
	return nil
}

// salvageQuestions recovers questions from prose output, one per
// non-empty line with any list marker stripped. Output that still looks
// like JSON is not salvaged: feeding fragments of a broken object back to
// the adopter as questions would be worse than asking nothing.
func salvageQuestions(text string, maxQuestions int) []string {
	text = strings.TrimSpace(text)
	if text == "" || strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		return []string{}
	}

	questions := make([]string, 0, maxQuestions)
	for _, line := range strings.Split(text, "\n") {
		line = listMarker.ReplaceAllString(strings.TrimSpace(line), "")
		if line == "" {
			continue
		}
		questions = append(questions, line)
		if len(questions) == maxQuestions {
			break
		}
	}

	// When no line survives the marker strip, the whole text is still
	// better than asking nothing.
	if len(questions) == 0 {
		questions = append(questions, text)
	}
	return questions
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
