package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/homeward-labs/homeward/pkg/catalog"
)

const evaluationSystemPromptFormat = `You are a warm, playful pet adoption interviewer and profiler. Talk like a
friend, not a form: supportive, lightly humorous, an emoji here and there,
never lecturing.

You must ask exactly %[1]d total questions to build a detailed adopter profile.
Each call receives the conversation so far. Count how many of the %[1]d
questions have already been asked and answered based on the conversation.

If fewer than %[1]d answers are collected, return ONLY valid JSON:
{"endverification":false,"nextQuestions":["..."]}

If all %[1]d answers are collected, return ONLY valid JSON:
{"endverification":true,"profile":"~150 word summary"}

Always return exactly %[2]d new questions at a time until complete.
Questions must be open-ended and not repeated.
Include scenario-based questions to uncover deeper emotional needs,
for example, ask them to imagine a weekend day with a pet.
Do NOT ask about adopt vs rehome, and do NOT ask about names or contact info.`

func evaluationSystemPrompt(targetAnswers, batchSize int) string {
	return fmt.Sprintf(evaluationSystemPromptFormat, targetAnswers, batchSize)
}

const coverageSystemPrompt = `You are a warm, playful pet adoption interviewer and profiler.
You must judge whether the conversation so far covers all four of these
dimensions of the adopter: lifestyle, home environment, experience with
pets, and expectations of a companion.

If any dimension is not yet covered, return ONLY valid JSON with exactly
one open-ended question targeting an uncovered dimension:
{"endverification":false,"nextQuestions":["Q"]}

Only when every dimension is covered, return ONLY valid JSON:
{"endverification":true,"profile":"~150 word summary"}

Never return more than one question. Questions must not be repeated.`

const recommendSystemPrompt = `You are a pet adoption match assistant.
Given the evaluation summary and a list of pet cards, pick the best 3 pet ids.
Return ONLY valid JSON: {"items":[{"id":"1","confidence":0.82},{"id":"2","confidence":0.71},{"id":"3","confidence":0.63}]}.
Confidence must be between 0 and 1.
Use only ids that exist in the provided list, ordered from best to third.`

const (
	noConversation = "No conversation yet."
	noAnswers      = "No answers provided."
)

func buildEvaluationPrompt(messages []Message) string {
	return fmt.Sprintf("Conversation so far:\n%s\n", formatMessages(messages))
}

func buildRecommendationPrompt(req RecommendRequest, cards []catalog.Card) string {
	cardsJSON := toJSON(cards)
	if req.Evaluation != nil {
		return fmt.Sprintf("Evaluation Summary:\n%s\n\nConversation:\n%s\n\nPet Cards:\n%s\n",
			toJSON(req.Evaluation), formatMessages(req.Messages), cardsJSON)
	}
	return fmt.Sprintf("User Q&A:\n%s\n\nPet Cards:\n%s\n",
		formatQuestionAnswers(req.QuestionAnswers), cardsJSON)
}

// formatMessages renders the conversation one line per message. Unknown
// roles are labelled assistant.
func formatMessages(messages []Message) string {
	var lines []string
	for _, message := range messages {
		content := strings.TrimSpace(message.Content)
		if content == "" {
			continue
		}
		label := "assistant"
		if strings.EqualFold(strings.TrimSpace(message.Role), "user") {
			label = "user"
		}
		lines = append(lines, label+": "+content)
	}
	if len(lines) == 0 {
		return noConversation
	}
	return strings.Join(lines, "\n")
}

func formatQuestionAnswers(pairs []QuestionAnswer) string {
	var lines []string
	for _, pair := range pairs {
		question := strings.TrimSpace(pair.Question)
		answer := strings.TrimSpace(pair.Answer)
		if question == "" || answer == "" {
			continue
		}
		lines = append(lines, "Q: "+question+"\nA: "+answer)
	}
	if len(lines) == 0 {
		return noAnswers
	}
	return strings.Join(lines, "\n")
}

func toJSON(value any) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(encoded)
}
