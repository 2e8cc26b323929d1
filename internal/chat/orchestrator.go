package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lennai/lennai/internal/content"
	"github.com/lennai/lennai/internal/store"
)

// DefaultHistoryWindow is the number of prior messages sent as context.
const DefaultHistoryWindow = 5

// Generator produces tutor replies. *content.LLMGateway satisfies it.
type Generator interface {
	GenerateTutorReply(ctx context.Context, question string, history []content.TurnSummary) (*content.StructuredContent, error)
}

// Turn is the outcome of one Send.
type Turn struct {
	// User is the user message the reply answers.
	User Message

	// Reply is the tutor message or the error placeholder.
	Reply Message

	// Retried is true when User was reused from a failed turn.
	Retried bool

	// Err is the generation failure behind a placeholder reply.
	Err error

	// Warnings holds non-fatal persistence failures.
	Warnings []error

	// Discarded is true when the session was reset while the reply was
	// being generated. Nothing was appended.
	Discarded bool
}

// Orchestrator owns the active chat session of one user.
type Orchestrator struct {
	mu       sync.Mutex
	gen      Generator
	sessions store.SessionRepo
	userID   string
	window   int
	now      func() time.Time

	state *State
	epoch int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithHistoryWindow sets how many prior messages are sent as context.
func WithHistoryWindow(n int) Option {
	return func(o *Orchestrator) { o.window = n }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator creates an orchestrator with no active session.
func NewOrchestrator(gen Generator, sessions store.SessionRepo, userID string, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gen:      gen,
		sessions: sessions,
		userID:   userID,
		window:   DefaultHistoryWindow,
		now:      time.Now,
		state:    NewState(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Send runs one turn. It returns an error only when the turn could not
// start: ErrBusy, ErrEmptyMessage, or a *PersistenceError if the session
// could not be created. A failed reply is reported in Turn.Err with the
// placeholder in Turn.Reply.
func (o *Orchestrator) Send(ctx context.Context, text string) (*Turn, error) {
	o.mu.Lock()
	if o.state.InFlight {
		o.mu.Unlock()
		return nil, ErrBusy
	}
	epoch := o.epoch

	if o.state.Phase() == PhaseNoSession && SessionTitle(text) != "" {
		// Hold the in-flight flag while the session is created. Restore or
		// NewSession may swap o.state meanwhile; only this state's flag is
		// released.
		st := o.state
		st.InFlight = true
		o.mu.Unlock()

		title := SessionTitle(text)
		sess, err := o.sessions.CreateSession(ctx, o.userID, title)

		o.mu.Lock()
		st.InFlight = false
		if err != nil {
			o.mu.Unlock()
			perr := &PersistenceError{Op: "create session", Err: err}
			slog.Warn("chat session not created", "user_id", o.userID, "error", err)
			return nil, perr
		}
		if o.epoch != epoch {
			o.mu.Unlock()
			return &Turn{Discarded: true}, nil
		}
		o.state.SessionID = sess.ID
		o.state.Title = sess.Title
	}

	retried, err := BeginTurn(o.state, text, Message{ID: uuid.NewString(), CreatedAt: o.now()})
	if err != nil {
		o.mu.Unlock()
		return nil, err
	}
	userMsg, _ := PendingMessage(o.state)
	history := HistoryWindow(o.state, o.window)
	sessionID := o.state.SessionID
	o.mu.Unlock()

	turn := &Turn{User: userMsg, Retried: retried}

	if !retried {
		_, err := o.sessions.AppendMessage(ctx, store.NewChatMessage{
			SessionID: sessionID,
			UserID:    o.userID,
			Sender:    store.SenderUser,
			Content:   userMsg.Content,
		})
		if err != nil {
			turn.Warnings = append(turn.Warnings, o.persistenceWarning("append user message", sessionID, err))
		}
	}

	reply, genErr := o.gen.GenerateTutorReply(ctx, userMsg.Content, history)

	var metadata json.RawMessage
	if genErr == nil {
		metadata, err = json.Marshal(reply)
		if err != nil {
			genErr = &content.GenerationError{Op: content.OpTutorReply, Err: fmt.Errorf("encode reply: %w", err)}
		}
	}

	o.mu.Lock()
	if o.epoch != epoch {
		o.mu.Unlock()
		turn.Discarded = true
		return turn, nil
	}
	next := Message{ID: uuid.NewString(), CreatedAt: o.now()}
	if genErr != nil {
		turn.Reply = FailTurn(o.state, next)
		turn.Err = genErr
		o.mu.Unlock()
		slog.Warn("tutor reply failed", "session_id", sessionID, "error", genErr)
		return turn, nil
	}
	turn.Reply = CompleteTurn(o.state, reply, metadata, next)
	o.mu.Unlock()

	_, err = o.sessions.AppendMessage(ctx, store.NewChatMessage{
		SessionID: sessionID,
		UserID:    o.userID,
		Sender:    store.SenderTutor,
		Content:   turn.Reply.Content,
		Metadata:  metadata,
	})
	if err != nil {
		turn.Warnings = append(turn.Warnings, o.persistenceWarning("append tutor message", sessionID, err))
	}
	return turn, nil
}

func (o *Orchestrator) persistenceWarning(op, sessionID string, err error) error {
	slog.Warn("chat history not persisted", "op", op, "session_id", sessionID, "error", err)
	return &PersistenceError{Op: op, SessionID: sessionID, Err: err}
}

// Restore replaces the local state with a stored session. Every tutor
// message starts on the overview. On failure the current state is kept.
func (o *Orchestrator) Restore(ctx context.Context, sessionID string) error {
	msgs, err := o.sessions.GetHistory(ctx, sessionID)
	if err != nil {
		slog.Warn("chat session not restored", "session_id", sessionID, "error", err)
		return &PersistenceError{Op: "load history", SessionID: sessionID, Err: err}
	}

	title := ""
	sessions, err := o.sessions.ListSessions(ctx, o.userID)
	if err == nil {
		if i := slices.IndexFunc(sessions, func(s store.ChatSession) bool { return s.ID == sessionID }); i >= 0 {
			title = sessions[i].Title
		}
	}

	state := RestoreState(sessionID, title, msgs)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.epoch++
	o.state = state
	return nil
}

// RestoreState rebuilds local state from stored messages, oldest first.
// A tutor message whose metadata is missing or does not decode is marked
// Failed and shown like the error placeholder; its raw bytes are kept.
func RestoreState(sessionID, title string, msgs []store.ChatMessage) *State {
	s := NewState()
	s.SessionID = sessionID
	s.Title = title
	for _, m := range msgs {
		msg := Message{
			ID:        m.ID,
			Role:      RoleUser,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
		if m.Sender == store.SenderTutor {
			msg.Role = RoleTutor
			msg.Metadata = m.Metadata
			if len(m.Metadata) > 0 {
				var payload content.StructuredContent
				if err := json.Unmarshal(m.Metadata, &payload); err == nil {
					msg.Payload = &payload
				} else {
					slog.Warn("stored tutor reply unreadable", "session_id", sessionID, "message_id", m.ID, "error", err)
				}
			}
			if msg.Payload == nil {
				msg.Failed = true
			}
			s.Views[msg.ID] = ViewOverview
		}
		s.Messages = append(s.Messages, msg)
	}
	return s
}

// NewSession returns to PhaseNoSession. A reply still in flight is
// discarded when it arrives.
func (o *Orchestrator) NewSession() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.epoch++
	o.state = NewState()
}

// ListSessions returns the user's stored sessions, newest first.
func (o *Orchestrator) ListSessions(ctx context.Context) ([]store.ChatSession, error) {
	sessions, err := o.sessions.ListSessions(ctx, o.userID)
	if err != nil {
		return nil, &PersistenceError{Op: "list sessions", Err: err}
	}
	return sessions, nil
}

// SetView selects how a tutor message is shown.
func (o *Orchestrator) SetView(messageID string, v View) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return SetView(o.state, messageID, v)
}

// View returns the selected view of a message.
func (o *Orchestrator) View(messageID string) View {
	o.mu.Lock()
	defer o.mu.Unlock()
	return ViewOf(o.state, messageID)
}

// Messages returns a copy of the displayed conversation.
func (o *Orchestrator) Messages() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.state.Messages)
}

// SessionID returns the active session id, or "" before the first send.
func (o *Orchestrator) SessionID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.SessionID
}

// Title returns the active session title.
func (o *Orchestrator) Title() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Title
}

// Busy reports whether a reply is being generated.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.InFlight
}

// IsGenerationError reports whether err came from the content gateway.
func IsGenerationError(err error) bool {
	var genErr *content.GenerationError
	return errors.As(err, &genErr)
}
