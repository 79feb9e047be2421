package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the single source of truth for where in the support flow a
// conversation currently is. Every step handler leaves the state at exactly
// one of these values.
type Status string

const (
	StatusInitialized      Status = "initialized"       // session bootstrap only
	StatusSearching        Status = "searching"         // new issue, retrieval pending
	StatusSmallTalking     Status = "small_talking"     // chit-chat detected
	StatusClarifying       Status = "clarifying"        // ambiguous issue, needs follow-up
	StatusPlanning         Status = "planning"          // retrieval done, plan pending
	StatusResponding       Status = "responding"        // plan/step ready to present
	StatusWaitingUser      Status = "waiting_user"      // outward message sent, suspended
	StatusEvaluating       Status = "evaluating"        // resuming, re-judging last step
	StatusResolved         Status = "resolved"          // issue concluded successfully
	StatusEscalated        Status = "escalated"         // issue requires a ticket
	StatusConfirmingTicket Status = "confirming_ticket" // awaiting yes/no for ticket
	StatusEvaluatingTicket Status = "evaluating_ticket" // resuming into yes/no judgment
	StatusTicketCreated    Status = "ticket_created"    // ticket persisted
	StatusCancelled        Status = "cancelled"         // user declined the ticket
)

// Suspended reports whether the engine halts a turn at this status and
// returns control to the caller.
func (s Status) Suspended() bool {
	switch s {
	case StatusSmallTalking, StatusWaitingUser, StatusConfirmingTicket,
		StatusCancelled, StatusTicketCreated, StatusResolved:
		return true
	}
	return false
}

// Intent is the classified purpose of the latest user utterance.
type Intent string

const (
	IntentSmallTalk            Intent = "small_talk"
	IntentTechnicalSupport     Intent = "technical_support"
	IntentContinueConversation Intent = "continue_conversation"
	IntentVagueProblem         Intent = "vague_problem"
)

// Role identifies a conversation participant.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Message is one entry of the conversation history.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// SolutionStep is one remediation step of the current plan.
type SolutionStep struct {
	Index          int    `json:"index"`
	Action         string `json:"action"`
	Description    string `json:"description"`
	ExpectedResult string `json:"expected_result"`
	Completed      bool   `json:"completed"`
}

// RetrievedDocument is one FAQ document returned by knowledge retrieval.
// Score is an ascending distance: lower means more similar.
type RetrievedDocument struct {
	ID           string   `json:"id"`
	Category     string   `json:"category"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Tags         []string `json:"tags"`
	Score        float64  `json:"score"`
	Source       string   `json:"source"`
	HelpfulCount int      `json:"helpful_count"`
}

// DefaultMaxSteps is the planning constraint applied when none is configured.
const DefaultMaxSteps = 3

// ConversationState is the single mutable record threaded through every step
// of a turn. It is exclusively owned by the in-flight turn; the caller must
// serialize turns per session (one outstanding RunTurn per SessionID).
type ConversationState struct {
	// Conversation history, append-only within a turn, never truncated here.
	Messages     []Message `json:"messages"`
	CurrentQuery string    `json:"current_query"`

	// Retrieval results for the current issue.
	RetrievedDocs  []RetrievedDocument `json:"retrieved_docs"`
	RelevanceScore float64             `json:"relevance_score"`

	// Stepwise remediation plan.
	SolutionSteps []SolutionStep `json:"solution_steps"`
	CurrentStep   int            `json:"current_step"`
	MaxSteps      int            `json:"max_steps"`

	Status Status `json:"status"`

	// Escalation bookkeeping. TicketConfirmed is tri-state: nil means the
	// user has not answered the ticket prompt yet.
	Attempts             int    `json:"attempts"`
	UnresolvedReason     string `json:"unresolved_reason,omitempty"`
	TicketID             string `json:"ticket_id,omitempty"`
	TicketConfirmed      *bool  `json:"ticket_confirmed,omitempty"`
	TicketAdditionalInfo string `json:"ticket_additional_info,omitempty"`

	Intent           Intent  `json:"intent,omitempty"`
	IntentConfidence float64 `json:"intent_confidence,omitempty"`

	// Session identity, assigned once at session creation, never reset.
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	StartedAt time.Time `json:"started_at"`
}

// NewConversationState creates the state for a fresh session. An empty userID
// falls back to "anonymous".
func NewConversationState(userID string) *ConversationState {
	if userID == "" {
		userID = "anonymous"
	}
	return &ConversationState{
		Messages:      []Message{},
		RetrievedDocs: []RetrievedDocument{},
		SolutionSteps: []SolutionStep{},
		MaxSteps:      DefaultMaxSteps,
		Status:        StatusInitialized,
		UserID:        userID,
		SessionID:     uuid.NewString(),
		StartedAt:     time.Now(),
	}
}

// AppendUser appends a user message to the history.
func (s *ConversationState) AppendUser(text string) {
	s.Messages = append(s.Messages, Message{Role: RoleUser, Text: text})
}

// AppendAgent appends an outward agent message to the history.
func (s *ConversationState) AppendAgent(text string) {
	s.Messages = append(s.Messages, Message{Role: RoleAgent, Text: text})
}

// LastUserText returns the most recent user utterance, or "" when the user
// has not spoken yet.
func (s *ConversationState) LastUserText() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Text
		}
	}
	return ""
}

// StepAt returns the solution step under the cursor, or nil when the cursor
// has moved past the plan.
func (s *ConversationState) StepAt() *SolutionStep {
	if s.CurrentStep < 0 || s.CurrentStep >= len(s.SolutionSteps) {
		return nil
	}
	return &s.SolutionSteps[s.CurrentStep]
}

// StepsExhausted reports whether every planned step has been presented.
func (s *ConversationState) StepsExhausted() bool {
	return s.CurrentStep >= len(s.SolutionSteps)
}

// MidIssue reports whether a prior issue is still in flight, meaning the
// next turn should resume into evaluation instead of classification.
func (s *ConversationState) MidIssue() bool {
	return len(s.SolutionSteps) > 0 && s.Status == StatusWaitingUser
}

// Clone returns a deep copy of the state. The engine works on a clone so a
// failed turn leaves the caller's copy untouched.
func (s *ConversationState) Clone() *ConversationState {
	c := *s

	c.Messages = append([]Message{}, s.Messages...)
	c.RetrievedDocs = make([]RetrievedDocument, len(s.RetrievedDocs))
	for i, doc := range s.RetrievedDocs {
		doc.Tags = append([]string{}, doc.Tags...)
		c.RetrievedDocs[i] = doc
	}
	c.SolutionSteps = append([]SolutionStep{}, s.SolutionSteps...)
	if s.TicketConfirmed != nil {
		v := *s.TicketConfirmed
		c.TicketConfirmed = &v
	}
	return &c
}

// ResetIssue clears every issue-scoped field back to its zero value while
// preserving session identity and the full message history. It is pure,
// total and idempotent; the handlers that conclude an issue (resolution,
// ticket creation completion, escalation cancellation) call it exactly once.
// Status is deliberately left untouched so the concluding status survives
// into the returned state.
func (s *ConversationState) ResetIssue() {
	s.SolutionSteps = []SolutionStep{}
	s.CurrentStep = 0
	s.RetrievedDocs = []RetrievedDocument{}
	s.RelevanceScore = 0
	s.UnresolvedReason = ""
	s.TicketID = ""
	s.TicketConfirmed = nil
	s.TicketAdditionalInfo = ""
	s.Attempts = 0
	s.Intent = ""
	s.IntentConfidence = 0
	s.CurrentQuery = ""
}
