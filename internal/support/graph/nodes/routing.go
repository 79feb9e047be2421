package nodes

import (
	"context"

	"github.com/cloudwego/eino/compose"

	"github.com/supportflow-core-poc/server/internal/support/model"
	logx "github.com/supportflow-core-poc/server/pkg/logger"
)

// Routing conditions are pure decision functions over the conversation
// state. They perform no side effects and no external calls; every value
// they can return is declared in the graph builder's branch target maps.

// NewAfterInitializeCondition routes a fresh turn to classification and a
// resumed turn back into the evaluator matching its suspension point.
func NewAfterInitializeCondition() func(context.Context, *model.ConversationState) (string, error) {
	return func(ctx context.Context, state *model.ConversationState) (string, error) {
		switch state.Status {
		case model.StatusEvaluatingTicket:
			return NodeEvaluateTicketConfirmation, nil
		case model.StatusEvaluating:
			return NodeEvaluateStatus, nil
		default:
			return NodeClassifyIntent, nil
		}
	}
}

// NewAfterClassifyCondition routes on the classified intent.
func NewAfterClassifyCondition() func(context.Context, *model.ConversationState) (string, error) {
	return func(ctx context.Context, state *model.ConversationState) (string, error) {
		switch state.Intent {
		case model.IntentSmallTalk:
			return NodeHandleSmallTalk, nil
		case model.IntentVagueProblem:
			return NodeAskSymptoms, nil
		case model.IntentContinueConversation:
			return NodeEvaluateStatus, nil
		default:
			return NodeSearchKnowledge, nil
		}
	}
}

// NewAfterPlanCondition skips straight to ticket confirmation when planning
// concluded the issue is unresolvable.
func NewAfterPlanCondition() func(context.Context, *model.ConversationState) (string, error) {
	return func(ctx context.Context, state *model.ConversationState) (string, error) {
		if state.Status == model.StatusEscalated {
			return NodeConfirmTicket, nil
		}
		return NodeRespondStep, nil
	}
}

// NewAfterEvaluateCondition decides between continuing the plan, concluding
// the issue and escalating. Escalation triggers when the evaluator said so,
// when the plan or the step budget is exhausted, or when the attempt guard
// trips.
func NewAfterEvaluateCondition(maxAttempts int) func(context.Context, *model.ConversationState) (string, error) {
	return func(ctx context.Context, state *model.ConversationState) (string, error) {
		switch state.Status {
		case model.StatusResolved, model.StatusWaitingUser:
			return compose.END, nil
		case model.StatusEscalated:
			return NodeConfirmTicket, nil
		case model.StatusSearching:
			// The evaluator found no plan in flight; start the issue over
			// from retrieval.
			return NodeSearchKnowledge, nil
		}

		if state.StepsExhausted() || (state.MaxSteps > 0 && state.CurrentStep >= state.MaxSteps) {
			logx.Debug().
				Str("session_id", state.SessionID).
				Int("current_step", state.CurrentStep).
				Msg("plan exhausted, moving to ticket confirmation")
			return NodeConfirmTicket, nil
		}
		if maxAttempts > 0 && state.Attempts >= maxAttempts {
			logx.Warn().
				Str("session_id", state.SessionID).
				Int("attempts", state.Attempts).
				Msg("attempt guard tripped, moving to ticket confirmation")
			return NodeConfirmTicket, nil
		}
		return NodeRespondStep, nil
	}
}

// NewAfterRespondCondition suspends after presenting a step and hands an
// exhausted plan over to ticket confirmation.
func NewAfterRespondCondition() func(context.Context, *model.ConversationState) (string, error) {
	return func(ctx context.Context, state *model.ConversationState) (string, error) {
		if state.Status == model.StatusEscalated {
			return NodeConfirmTicket, nil
		}
		return compose.END, nil
	}
}

// NewAfterTicketConfirmationCondition creates the ticket when the user
// agreed and suspends otherwise (decline and unclear both end the turn; the
// evaluator already appended the matching message).
func NewAfterTicketConfirmationCondition() func(context.Context, *model.ConversationState) (string, error) {
	return func(ctx context.Context, state *model.ConversationState) (string, error) {
		if state.TicketConfirmed != nil && *state.TicketConfirmed {
			return NodeCreateTicket, nil
		}
		return compose.END, nil
	}
}
