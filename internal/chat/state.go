package chat

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/lennai/lennai/internal/content"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleTutor Role = "tutor"
)

// View selects how a tutor message is presented. It is never persisted.
type View string

const (
	ViewOverview   View = "overview"
	ViewSlides     View = "slides"
	ViewFlashcards View = "flashcards"
	ViewQuiz       View = "quiz"
)

// Views lists every view in tab order.
var Views = []View{ViewOverview, ViewSlides, ViewFlashcards, ViewQuiz}

// ParseView returns the view named s, or false if there is none.
func ParseView(s string) (View, bool) {
	for _, v := range Views {
		if string(v) == strings.ToLower(strings.TrimSpace(s)) {
			return v, true
		}
	}
	return "", false
}

// ErrorPlaceholder is the text shown in place of a failed tutor reply.
const ErrorPlaceholder = "I encountered a protocol error. Please try again or re-initialize the session."

// TitleLength is the maximum number of characters in a session title.
const TitleLength = 40

// Message is one displayed conversation entry.
type Message struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time

	// Payload is the structured reply. Set only on successful tutor
	// messages.
	Payload *content.StructuredContent

	// Metadata is the persisted payload exactly as stored, including
	// fields this version does not know about.
	Metadata json.RawMessage

	// Failed marks the error placeholder for a failed reply.
	Failed bool
}

// Phase is the session lifecycle phase.
type Phase int

const (
	PhaseNoSession Phase = iota // No session yet; the next send creates one
	PhaseActive                 // Session id is sticky until reset
)

// State is the local conversation state of one chat view.
type State struct {
	// SessionID is the store id of the active session. Empty in
	// PhaseNoSession.
	SessionID string

	// Title is the session title.
	Title string

	// Messages is the displayed conversation, oldest first.
	Messages []Message

	// Views holds the selected view per tutor message id.
	Views map[string]View

	// InFlight is true while a tutor reply is being generated.
	InFlight bool

	// pending is the index in Messages of the user message being answered.
	pending int
}

// NewState returns an empty state with no active session.
func NewState() *State {
	return &State{Views: make(map[string]View), pending: -1}
}

// Phase reports the lifecycle phase.
func (s *State) Phase() Phase {
	if s.SessionID == "" {
		return PhaseNoSession
	}
	return PhaseActive
}

// SessionTitle derives a session title from the first message.
func SessionTitle(text string) string {
	text = strings.TrimSpace(text)
	r := []rune(text)
	if len(r) > TitleLength {
		return string(r[:TitleLength])
	}
	return text
}

// BeginTurn starts a turn for text. If the previous turn failed on the
// same text the failed placeholder is dropped and the earlier user message
// is reused; retry reports that case. Otherwise the user message is
// appended.
func BeginTurn(s *State, text string, msg Message) (retry bool, err error) {
	if s.InFlight {
		return false, ErrBusy
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return false, ErrEmptyMessage
	}

	if idx := retryIndex(s, text); idx >= 0 {
		s.Messages = s.Messages[:len(s.Messages)-1]
		s.pending = idx
		s.InFlight = true
		return true, nil
	}

	msg.Role = RoleUser
	msg.Content = text
	msg.Payload = nil
	msg.Metadata = nil
	s.Messages = append(s.Messages, msg)
	s.pending = len(s.Messages) - 1
	s.InFlight = true
	return false, nil
}

// retryIndex returns the index of the user message to reuse when the last
// turn failed on the same text, or -1.
func retryIndex(s *State, text string) int {
	n := len(s.Messages)
	if n < 2 {
		return -1
	}
	last, prev := s.Messages[n-1], s.Messages[n-2]
	if last.Role == RoleTutor && last.Failed && prev.Role == RoleUser && prev.Content == text {
		return n - 2
	}
	return -1
}

// HistoryWindow returns up to n turns that precede the pending user
// message. Failed placeholders are skipped.
func HistoryWindow(s *State, n int) []content.TurnSummary {
	end := len(s.Messages)
	if s.pending >= 0 {
		end = s.pending
	}

	var turns []content.TurnSummary
	for _, m := range s.Messages[:end] {
		if m.Failed {
			continue
		}
		role := content.RoleStudent
		if m.Role == RoleTutor {
			role = content.RoleTutor
		}
		turns = append(turns, content.TurnSummary{Role: role, Content: m.Content})
	}
	if n >= 0 && len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	return turns
}

// CompleteTurn appends the tutor reply for the pending turn and selects
// the overview for it.
func CompleteTurn(s *State, reply *content.StructuredContent, metadata json.RawMessage, msg Message) Message {
	msg.Role = RoleTutor
	msg.Content = reply.SimpleExplanation
	msg.Payload = reply
	msg.Metadata = metadata
	msg.Failed = false
	s.Messages = append(s.Messages, msg)
	s.Views[msg.ID] = ViewOverview
	s.InFlight = false
	s.pending = -1
	return msg
}

// FailTurn appends the error placeholder for the pending turn.
func FailTurn(s *State, msg Message) Message {
	msg.Role = RoleTutor
	msg.Content = ErrorPlaceholder
	msg.Payload = nil
	msg.Metadata = nil
	msg.Failed = true
	s.Messages = append(s.Messages, msg)
	s.InFlight = false
	s.pending = -1
	return msg
}

// AbortTurn releases the in-flight flag without appending anything.
func AbortTurn(s *State) {
	s.InFlight = false
	s.pending = -1
}

// PendingMessage returns the user message being answered.
func PendingMessage(s *State) (Message, bool) {
	if s.pending < 0 || s.pending >= len(s.Messages) {
		return Message{}, false
	}
	return s.Messages[s.pending], true
}

// SetView selects the view for a tutor message.
func SetView(s *State, messageID string, v View) error {
	for _, m := range s.Messages {
		if m.ID == messageID {
			if m.Role != RoleTutor || m.Payload == nil {
				return ErrNoPayload
			}
			s.Views[messageID] = v
			return nil
		}
	}
	return ErrUnknownMessage
}

// ViewOf returns the selected view for a message, defaulting to overview.
func ViewOf(s *State, messageID string) View {
	if v, ok := s.Views[messageID]; ok {
		return v
	}
	return ViewOverview
}
