package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lifin-backend/internal/assets"
	"lifin-backend/internal/models"
)

const (
	typingText    = "Mengetik..."
	fallbackReply = "Maaf, ada sedikit gangguan. Coba lagi ya!"
	errorReply    = "Oops! Ada yang salah. Coba lagi nanti ya."
	quickLabel    = "Pertanyaan Kilat"

	defaultSubmitDelay = 600 * time.Millisecond
)

// ErrBusy is returned when a turn is already in flight. The session
// serializes turns; views should disable their input while Submitting.
var ErrBusy = errors.New("chat: a turn is already in flight")

// Completer issues one completion round-trip through the chat proxy.
type Completer interface {
	Complete(ctx context.Context, req models.CompletionRequest) (string, error)
}

// Config wires one chat surface. All fields except Topic and SubmitDelay are
// required; construction fails fast with a descriptive error when one is
// missing rather than silently no-op-ing later.
type Config struct {
	Proxy   Completer
	View    View
	Library *assets.Library

	// Topic selects the quick-question list by lesson title. Empty (or an
	// unknown title) falls back to the union of every topic.
	Topic string

	// SubmitDelay is the cosmetic pause between the user bubble appearing and
	// the request going out, so replies never look instantaneous. Zero uses
	// the default; a negative value disables the pause.
	SubmitDelay time.Duration
}

// Session drives one conversational surface end to end: input capture,
// optimistic rendering, proxy invocation, response and error rendering,
// retry. All state lives on the session object; nothing is module-global, so
// lifetime and reset follow the session's own lifetime.
type Session struct {
	proxy   Completer
	view    View
	library *assets.Library
	topic   string
	delay   time.Duration

	mu     sync.Mutex
	busy   bool
	failed map[uuid.UUID]string // error node ID -> original message for retry
}

func NewSession(cfg Config) (*Session, error) {
	if cfg.Proxy == nil {
		return nil, errors.New("chat: config is missing a proxy client")
	}
	if cfg.View == nil {
		return nil, errors.New("chat: config is missing a view")
	}
	if cfg.Library == nil {
		return nil, errors.New("chat: config is missing an asset library")
	}

	delay := cfg.SubmitDelay
	if delay == 0 {
		delay = defaultSubmitDelay
	}
	if delay < 0 {
		delay = 0
	}

	return &Session{
		proxy:   cfg.Proxy,
		view:    cfg.View,
		library: cfg.Library,
		topic:   cfg.Topic,
		delay:   delay,
		failed:  make(map[uuid.UUID]string),
	}, nil
}

// Submit handles one user-typed message: append the user bubble, clear the
// input, pause briefly, then run the send pipeline. A blank message is a
// no-op. Submit returns ErrBusy when another turn is still in flight.
func (s *Session) Submit(ctx context.Context, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil
	}

	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	s.view.AppendMessage(RenderMessage(message, SenderUser))
	s.view.ClearInput()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			// Page navigation discards the pending continuation.
			return ctx.Err()
		}
	}

	s.send(ctx, message)
	return nil
}

// Retry re-runs the send pipeline for a failed turn: the error node is
// removed and the identical original message goes out again. No backoff, no
// mutation of the message.
func (s *Session) Retry(ctx context.Context, nodeID uuid.UUID) error {
	s.mu.Lock()
	message, ok := s.failed[nodeID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("chat: no retryable turn for node %s", nodeID)
	}
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	delete(s.failed, nodeID)
	s.mu.Unlock()
	defer s.release()

	s.view.RemoveMessage(nodeID)
	s.send(ctx, message)
	return nil
}

// RenderQuickQuestions shows the quick-question affordance, or clears the
// slot when no questions exist for this surface.
func (s *Session) RenderQuickQuestions() {
	if len(s.questions()) == 0 {
		log.Printf("chat: no quick questions available for topic %q", s.topic)
		s.view.ClearQuickQuestions()
		return
	}
	s.view.ShowQuickQuestion(quickLabel)
}

// AskQuickQuestion submits a uniformly random entry from the active
// quick-question list.
func (s *Session) AskQuickQuestion(ctx context.Context) error {
	questions := s.questions()
	if len(questions) == 0 {
		return nil
	}
	return s.Submit(ctx, questions[rand.IntN(len(questions))])
}

// send runs one proxy round-trip. Exactly one typing placeholder is inserted
// before the call and exactly one is removed afterwards, on both the success
// and the failure path.
func (s *Session) send(ctx context.Context, message string) {
	typing := RenderMessage(typingText, SenderAssistant)
	typing.Typing = true
	s.view.AppendMessage(typing)

	// Every turn is independent: the fixed system prompt plus the current
	// user message, no accumulated history.
	reply, err := s.proxy.Complete(ctx, models.CompletionRequest{
		Messages: []models.ChatMessage{
			{Role: "system", Content: s.library.SystemPrompt()},
			{Role: "user", Content: message},
		},
		Temperature: 0.7,
		MaxTokens:   1024,
		Stream:      false,
	})

	s.view.RemoveMessage(typing.ID)

	if err != nil {
		log.Printf("chat: send failed: %v", err)
		node := RenderMessage(errorReply, SenderError)
		node.CanRetry = true

		s.mu.Lock()
		s.failed[node.ID] = message
		s.mu.Unlock()

		s.view.AppendMessage(node)
		return
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = fallbackReply
	}
	s.view.AppendMessage(RenderMessage(reply, SenderAssistant))
}

// questions resolves the active quick-question list: the configured topic's
// list when the bank knows it, otherwise the flattened union of all topics in
// stable order.
func (s *Session) questions() []string {
	bank, err := s.library.QuickQuestions()
	if err != nil {
		log.Printf("chat: could not load quick questions: %v", err)
		return nil
	}

	if s.topic != "" {
		if qs, ok := bank[s.topic]; ok {
			return qs
		}
	}

	topics := make([]string, 0, len(bank))
	for topic := range bank {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	var all []string
	for _, topic := range topics {
		all = append(all, bank[topic]...)
	}
	return all
}

func (s *Session) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

func (s *Session) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}
