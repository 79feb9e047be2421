package nodes

import (
	"context"
	"time"

	"github.com/cloudwego/eino/compose"

	"github.com/supportflow-core-poc/server/internal/support/model"
	logx "github.com/supportflow-core-poc/server/pkg/logger"
)

const defaultTicketCategory = "기타"

// NewCreateTicketNode creates the node that persists the escalated issue as
// a ticket. Summarization failure degrades to a generic title; a ticket
// store failure is fatal to the turn and leaves the status untouched so the
// caller can retry.
func NewCreateTicketNode(inf model.Inference, store model.TicketStore) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, state *model.ConversationState) (*model.ConversationState, error) {
		summary, err := inf.Summarize(ctx, state.Messages)
		if err != nil {
			logx.Warn().Err(err).
				Str("session_id", state.SessionID).
				Msg("ticket summarization failed, using generic summary")
			summary = model.TicketSummary{
				Title:              "고객 문의",
				Summary:            state.CurrentQuery,
				AttemptedSolutions: []string{},
			}
		}

		category := defaultTicketCategory
		if len(state.RetrievedDocs) > 0 && state.RetrievedDocs[0].Category != "" {
			category = state.RetrievedDocs[0].Category
		}

		now := time.Now()
		history := make([]model.TicketMessage, 0, len(state.Messages))
		for _, msg := range state.Messages {
			history = append(history, model.TicketMessage{
				Role:      msg.Role,
				Text:      msg.Text,
				Timestamp: now,
			})
		}

		ticket := &model.Ticket{
			UserID:             state.UserID,
			SessionID:          state.SessionID,
			Title:              summary.Title,
			Summary:            summary.Summary,
			AdditionalInfo:     state.TicketAdditionalInfo,
			AttemptedSolutions: summary.AttemptedSolutions,
			History:            history,
			Category:           category,
			Status:             model.TicketOpen,
			CreatedAt:          now,
		}

		ticketID, err := store.Create(ctx, ticket)
		if err != nil {
			logx.Error().Err(err).
				Str("session_id", state.SessionID).
				Msg("ticket persistence failed")
			return nil, err
		}

		state.TicketID = ticketID
		state.Status = model.StatusTicketCreated
		state.AppendAgent(ticketCreatedText(ticketID, summary.Title, summary.Summary))

		logx.Info().
			Str("session_id", state.SessionID).
			Str("ticket_id", ticketID).
			Msg("ticket registered")
		return state, nil
	})
}

// NewSendNotificationNode creates the node that fires the best-effort
// notification and then concludes the issue. Notifier failures are logged
// and swallowed; the lifecycle reset always runs.
func NewSendNotificationNode(notifier model.Notifier) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, state *model.ConversationState) (*model.ConversationState, error) {
		if err := notifier.Notify(ctx, state.UserID, state.TicketID); err != nil {
			logx.Warn().Err(err).
				Str("session_id", state.SessionID).
				Str("ticket_id", state.TicketID).
				Msg("notification failed")
		}

		state.ResetIssue()
		return state, nil
	})
}
