package model

import "time"

// TicketStatus tracks a ticket through the Q&A board lifecycle.
type TicketStatus string

const (
	TicketOpen     TicketStatus = "open"
	TicketAnswered TicketStatus = "answered"
	TicketClosed   TicketStatus = "closed"
)

// TicketMessage is one history entry snapshotted into a ticket.
type TicketMessage struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Ticket is the record persisted to the ticket store when an issue is
// escalated past the chatbot.
type Ticket struct {
	TicketID           string          `json:"ticket_id"`
	UserID             string          `json:"user_id"`
	SessionID          string          `json:"session_id"`
	Title              string          `json:"title"`
	Summary            string          `json:"summary"`
	AdditionalInfo     string          `json:"additional_info,omitempty"`
	AttemptedSolutions []string        `json:"attempted_solutions"`
	History            []TicketMessage `json:"conversation_history"`
	Category           string          `json:"category"`
	Status             TicketStatus    `json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
	AnsweredAt         *time.Time      `json:"answered_at,omitempty"`
	Answer             string          `json:"answer,omitempty"`
}

// TicketSummary is the structured summarization result used to title a ticket.
type TicketSummary struct {
	Title              string   `json:"title"`
	Summary            string   `json:"summary"`
	AttemptedSolutions []string `json:"attempted_solutions"`
}
