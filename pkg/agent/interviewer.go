// Package agent implements the stateless interview flow and the top-N
// recommender behind the guided-adoption surface. No interview state is
// stored server side: every call recomputes progress from the full
// conversation history, so client and server can never drift.
package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/homeward-labs/homeward/pkg/llm"
	"github.com/homeward-labs/homeward/pkg/modelout"
	"github.com/homeward-labs/homeward/pkg/utils"
)

// Defaults for the fixed-count interview variant.
const (
	DefaultTargetAnswers = 15
	DefaultBatchSize     = 5
)

// Message is one turn of the interview conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// QuestionAnswer is one answered interview question.
type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Evaluation is the outcome of one interview turn. Complete carries the
// synthesized profile; otherwise NextQuestions holds the next batch.
// Prompt and RawResponse are echoed for client-side debugging, as the
// guided flow renders them in a developer panel.
type Evaluation struct {
	Complete      bool     `json:"endverification"`
	Profile       string   `json:"profile,omitempty"`
	NextQuestions []string `json:"nextQuestions"`
	Prompt        string   `json:"prompt,omitempty"`
	RawResponse   string   `json:"rawResponse,omitempty"`
}

// InterviewerConfig holds the interview tunables.
type InterviewerConfig struct {
	// TargetAnswers is the fixed question count of the batch variant.
	TargetAnswers int
	// BatchSize caps how many questions one turn may emit.
	BatchSize int
}

// Interviewer drives the interview from conversation history alone.
type Interviewer struct {
	chat   llm.Chat
	logger *zap.Logger

	targetAnswers int
	batchSize     int
}

// NewInterviewer creates an interviewer over the chat model.
func NewInterviewer(chat llm.Chat, logger *zap.Logger, cfg InterviewerConfig) *Interviewer {
	target := cfg.TargetAnswers
	if target <= 0 {
		target = DefaultTargetAnswers
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	return &Interviewer{
		chat:          chat,
		logger:        logger,
		targetAnswers: target,
		batchSize:     batch,
	}
}

// Evaluate runs one turn of the fixed-count interview: the model counts
// answered questions from the history and either emits the next batch or
// signals completion with a profile. Malformed model output never
// completes the interview; it degrades to free-text questions.
func (i *Interviewer) Evaluate(ctx context.Context, messages []Message) (*Evaluation, error) {
	return i.evaluate(ctx, evaluationSystemPrompt(i.targetAnswers, i.batchSize), messages, i.batchSize)
}

// EvaluateCoverage runs one turn of the coverage-based interview: four
// adopter dimensions must each be covered before the model may signal
// completion, and at most one question is emitted per turn.
func (i *Interviewer) EvaluateCoverage(ctx context.Context, messages []Message) (*Evaluation, error) {
	return i.evaluate(ctx, coverageSystemPrompt, messages, 1)
}

func (i *Interviewer) evaluate(ctx context.Context, systemPrompt string, messages []Message, maxQuestions int) (*Evaluation, error) {
	prompt := buildEvaluationPrompt(messages)

	raw, err := i.chat.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("interview turn: %w", err)
	}

	signal := modelout.ParseInterview(raw, maxQuestions)
	if signal.Complete {
		i.logger.Info("interview complete", zap.Int("history_len", len(messages)))
	} else if len(signal.Questions) == 0 {
		i.logger.Warn("interview turn produced no questions", zap.String("raw", utils.Truncate(raw, 200)))
	}

	questions := signal.Questions
	if questions == nil {
		questions = []string{}
	}

	return &Evaluation{
		Complete:      signal.Complete,
		Profile:       signal.Profile,
		NextQuestions: questions,
		Prompt:        prompt,
		RawResponse:   raw,
	}, nil
}
