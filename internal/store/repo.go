package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Sender roles for persisted chat messages.
const (
	SenderUser  = "user"
	SenderTutor = "tutor"
)

// ChatSession is a persisted conversation thread owned by one user.
type ChatSession struct {
	ID        string
	UserID    string
	Title     string
	Subject   string
	CreatedAt time.Time
}

// ChatMessage is one persisted turn half. Metadata is an opaque JSON bag;
// the store never interprets it.
type ChatMessage struct {
	ID        string
	SessionID string
	UserID    string
	Sender    string
	Content   string
	Metadata  json.RawMessage
	Sequence  int64
	CreatedAt time.Time
}

// NewChatMessage carries the fields supplied when appending a message.
type NewChatMessage struct {
	SessionID string
	UserID    string
	Sender    string
	Content   string
	Metadata  json.RawMessage
}

// SessionRepo persists chat sessions and their append-only message logs.
type SessionRepo interface {
	// CreateSession stores a new session and returns it with its id.
	CreateSession(ctx context.Context, userID, title string) (*ChatSession, error)

	// ListSessions returns the user's sessions, newest first.
	ListSessions(ctx context.Context, userID string) ([]ChatSession, error)

	// AppendMessage appends a message to a session.
	AppendMessage(ctx context.Context, msg NewChatMessage) (*ChatMessage, error)

	// GetHistory returns every message of a session, oldest first.
	GetHistory(ctx context.Context, sessionID string) ([]ChatMessage, error)
}

// User is a locally registered account with its profile fields.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	School       string
	Course       string
	CreatedAt    time.Time
}

// AuthState is the locally cached signed-in identity.
type AuthState struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
	UpdatedAt    time.Time
}

// UserRepo stores local accounts and the active sign-in.
type UserRepo interface {
	CreateUser(ctx context.Context, u User) error
	UserByEmail(ctx context.Context, email string) (*User, error)
	UserByID(ctx context.Context, id string) (*User, error)

	// SaveAuthState replaces the cached sign-in.
	SaveAuthState(ctx context.Context, st AuthState) error

	// LoadAuthState returns the cached sign-in, or nil if signed out.
	LoadAuthState(ctx context.Context) (*AuthState, error)

	ClearAuthState(ctx context.Context) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStat aggregates LLM usage for one purpose or model.
type LLMUsageStat struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMEventFilter narrows an LLM event query. Zero values match everything.
type LLMEventFilter struct {
	Purpose    string
	FailedOnly bool
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts, filter LLMEventFilter) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one event by id, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStat, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsageStat, error)
}

// RewardEventData records the outcome of one finished game.
type RewardEventData struct {
	UserID string
	Game   string
	Won    bool
	Score  int
	Total  int
	Points int
}

// RewardEventRecord is a stored reward event.
type RewardEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	RewardEventData
}

// RewardRepo persists game outcomes.
type RewardRepo interface {
	AppendRewardEvent(ctx context.Context, data RewardEventData) error

	// QueryRewardEvents returns the user's events newest first.
	QueryRewardEvents(ctx context.Context, userID string, opts QueryOpts) ([]RewardEventRecord, error)
}
