package model

import "context"

// ClassifyContext tells the inference service which decision a Classify call
// is asking for.
type ClassifyContext string

const (
	// ClassifyIntent asks for one of the Intent labels.
	ClassifyIntent ClassifyContext = "intent"
	// ClassifyConfirmation asks for a yes/no/unclear label on the ticket prompt.
	ClassifyConfirmation ClassifyContext = "ticket_confirmation"
)

// Confirmation labels returned by ClassifyConfirmation calls.
const (
	ConfirmYes     = "yes"
	ConfirmNo      = "no"
	ConfirmUnclear = "unclear"
)

// Classification is the structured result of a Classify call.
type Classification struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// JudgeDecision is the outcome of re-judging the current remediation step
// against the user's latest reply.
type JudgeDecision string

const (
	JudgeResolved JudgeDecision = "resolved"
	JudgeContinue JudgeDecision = "continue"
	JudgeEscalate JudgeDecision = "escalate"
	JudgeWaiting  JudgeDecision = "waiting"
)

// Judgment is the structured result of a Judge call.
type Judgment struct {
	Decision JudgeDecision `json:"decision"`
	Reason   string        `json:"reason"`
}

// Inference is the opaque language inference collaborator. Implementations
// return structured results or an inference-kind error; step handlers never
// let those errors escape a turn, substituting per-handler defaults instead.
type Inference interface {
	Classify(ctx context.Context, text string, classifyCtx ClassifyContext) (Classification, error)
	Plan(ctx context.Context, query string, docs []RetrievedDocument) ([]SolutionStep, error)
	Judge(ctx context.Context, step *SolutionStep, lastUserText string) (Judgment, error)
	Summarize(ctx context.Context, messages []Message) (TicketSummary, error)
	Generate(ctx context.Context, promptContext string) (string, error)
}

// KnowledgeBase is the semantic document retrieval collaborator. Results are
// ordered by ascending distance (lower score = more similar).
type KnowledgeBase interface {
	Search(ctx context.Context, query string, k int) ([]RetrievedDocument, error)
}

// TicketStore persists escalated tickets. Create failures are fatal to the
// turn and surface to the caller.
type TicketStore interface {
	Create(ctx context.Context, ticket *Ticket) (string, error)
}

// Notifier delivers best-effort out-of-band notifications. Failures must
// never block lifecycle reset or the confirmation shown to the user.
type Notifier interface {
	Notify(ctx context.Context, userID, ticketID string) error
}

// SessionRepository persists conversation state between turns, keyed by
// session id.
type SessionRepository interface {
	Save(ctx context.Context, state *ConversationState) error
	Load(ctx context.Context, sessionID string) (*ConversationState, error)
	Delete(ctx context.Context, sessionID string) error
}
