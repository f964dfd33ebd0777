package generation

import (
	"context"
	"errors"
	"strings"
	"time"

	"genstudio/internal/conversations"
	"genstudio/internal/history"
	"genstudio/internal/instructions"
	"genstudio/internal/metrics"
	"genstudio/internal/prompts"

	"github.com/sirupsen/logrus"
)

// HistoryWindow is how many prior turns are sent as context.
const HistoryWindow = 5

type Generator interface {
	GenerateText(ctx context.Context, credential string, messages []Message, params Params) (string, error)
}

type InstructionsSource interface {
	Load(ctx context.Context) (instructions.Instructions, error)
}

type ConversationStore interface {
	RecentTurns(ctx context.Context, userID string, limit int) ([]conversations.Turn, error)
	AppendTurn(ctx context.Context, userID, userMessage, aiResponse string) (conversations.Turn, error)
}

type ResultWriter interface {
	Record(ctx context.Context, userID string, r history.Result) error
}

type Service struct {
	generator     Generator
	instructions  InstructionsSource
	conversations ConversationStore
	results       ResultWriter
	metrics       *metrics.Metrics
	now           func() time.Time
}

// NewService wires the orchestrator. conversations, results and m may be nil.
func NewService(g Generator, ins InstructionsSource, convs ConversationStore, results ResultWriter, m *metrics.Metrics) *Service {
	return &Service{
		generator:     g,
		instructions:  ins,
		conversations: convs,
		results:       results,
		metrics:       m,
		now:           time.Now,
	}
}

type run struct {
	userID string
	state  State
}

func (r *run) transition(to State) {
	logrus.WithFields(logrus.Fields{
		"user_id": r.userID,
		"from":    r.state,
		"to":      to,
	}).Debug("Generation state changed")
	r.state = to
}

// SystemPrompt returns the combined instructions, or DefaultPersona when
// none are stored or the lookup fails.
func (s *Service) SystemPrompt(ctx context.Context) string {
	if s.instructions == nil {
		return instructions.DefaultPersona
	}
	ins, err := s.instructions.Load(ctx)
	if err != nil {
		if !errors.Is(err, instructions.ErrNotFound) {
			logrus.Warnf("Failed to load system instructions, using default persona: %v", err)
		}
		return instructions.DefaultPersona
	}
	return ins.Combine()
}

func (s *Service) recentTurns(ctx context.Context, userID string) []conversations.Turn {
	if userID == "" || s.conversations == nil {
		return nil
	}
	turns, err := s.conversations.RecentTurns(ctx, userID, HistoryWindow)
	if err != nil {
		logrus.Warnf("Failed to load conversation history for user %s: %v", userID, err)
		return nil
	}
	return turns
}

// GenerateText runs one text generation for sess. Input problems are
// rejected before any I/O. Persistence failures after a successful call are
// logged and do not affect the returned outcome.
func (s *Service) GenerateText(ctx context.Context, sess Session, req Request) (Outcome, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		s.metrics.ObserveGeneration(string(history.TypeText), metrics.OutcomeRejected, 0)
		return Outcome{}, ErrEmptyPrompt
	}
	if sess.Credential == "" {
		s.metrics.ObserveGeneration(string(history.TypeText), metrics.OutcomeRejected, 0)
		return Outcome{}, ErrMissingCredential
	}

	r := &run{userID: sess.UserID, state: StateIdle}
	r.transition(StateComposingContext)

	system := s.SystemPrompt(ctx)
	turns := s.recentTurns(ctx, sess.UserID)
	prompt := prompts.Enhance(req.Prompt, req.Length, req.Tone)
	messages := BuildMessages(system, turns, prompt)

	r.transition(StateAwaitingResponse)
	started := s.now()
	text, err := s.generator.GenerateText(ctx, sess.Credential, messages, DefaultParams)
	if err == nil && text == "" {
		err = ErrNoText
	}
	elapsed := s.now().Sub(started)
	if err != nil {
		r.transition(StateFailed)
		s.metrics.ObserveGeneration(string(history.TypeText), metrics.OutcomeFailed, elapsed)
		logrus.Errorf("Text generation failed for user %q: %v", sess.UserID, err)
		return Outcome{}, err
	}

	r.transition(StateSucceeded)
	s.metrics.ObserveGeneration(string(history.TypeText), metrics.OutcomeSuccess, elapsed)

	s.persist(ctx, sess.UserID, req.Prompt, text)
	return Outcome{Text: text, Prompt: prompt}, nil
}

func (s *Service) persist(ctx context.Context, userID, prompt, text string) {
	if userID == "" {
		return
	}

	if s.results != nil {
		err := s.results.Record(ctx, userID, history.Result{
			Type:       history.TypeText,
			Prompt:     prompt,
			Result:     text,
			OccurredAt: s.now(),
		})
		if err != nil {
			logrus.Warnf("Generation for user %s succeeded but was not fully saved: %v", userID, err)
		}
	}

	if s.conversations != nil {
		if _, err := s.conversations.AppendTurn(ctx, userID, prompt, text); err != nil {
			s.metrics.PersistenceFailed("conversations")
			logrus.Warnf("Failed to log conversation turn for user %s: %v", userID, err)
		}
	}
}
