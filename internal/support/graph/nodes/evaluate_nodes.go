package nodes

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino/compose"

	"github.com/supportflow-core-poc/server/internal/support/model"
	logx "github.com/supportflow-core-poc/server/pkg/logger"
)

// NewEvaluateStatusNode creates the node that re-judges the current step
// against the user's latest reply. Explicit resolve/escalate keywords are
// checked before the judge call; a judge failure defaults to advancing to
// the next step.
func NewEvaluateStatusNode(inf model.Inference, kw Keywords) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, state *model.ConversationState) (*model.ConversationState, error) {
		lastUser := state.LastUserText()

		if model.ContainsKeyword(lastUser, kw.Resolved) {
			resolve(state)
			return state, nil
		}
		if model.ContainsKeyword(lastUser, kw.Escalate) {
			state.Status = model.StatusEscalated
			state.UnresolvedReason = "사용자가 직접 문의 등록 요청"
			return state, nil
		}

		// Without a plan in flight there is no step to judge; re-enter
		// retrieval with the current query instead.
		if len(state.SolutionSteps) == 0 {
			state.Status = model.StatusSearching
			return state, nil
		}

		judgment, err := inf.Judge(ctx, state.StepAt(), lastUser)
		if err != nil {
			logx.Warn().Err(err).
				Str("session_id", state.SessionID).
				Msg("status judgment failed, advancing to next step")
			advance(state)
			return state, nil
		}

		logx.Debug().
			Str("session_id", state.SessionID).
			Str("decision", string(judgment.Decision)).
			Str("reason", judgment.Reason).
			Msg("step judged")

		switch judgment.Decision {
		case model.JudgeResolved:
			resolve(state)
		case model.JudgeEscalate:
			state.Status = model.StatusEscalated
			reason := judgment.Reason
			if reason == "" {
				reason = "사용자 요청"
			}
			state.UnresolvedReason = reason
		case model.JudgeWaiting:
			// The user has not tried the step yet; stay on it and wait.
			state.AppendAgent(stillWaitingText)
			state.Status = model.StatusWaitingUser
		default: // continue
			advance(state)
		}
		return state, nil
	})
}

// resolve concludes the issue successfully: thank-you message, resolved
// status, issue-scoped fields cleared.
func resolve(state *model.ConversationState) {
	state.AppendAgent(resolvedText)
	state.Status = model.StatusResolved
	state.ResetIssue()
}

// advance marks the current step completed and moves the cursor forward.
// The cursor never moves backwards within an issue and never past the end
// of the plan.
func advance(state *model.ConversationState) {
	if step := state.StepAt(); step != nil {
		step.Completed = true
		state.CurrentStep++
	}
	state.Status = model.StatusResponding
}

// NewConfirmTicketNode creates the node that asks the user whether to
// register a ticket. Summarization failure falls back to the raw query.
func NewConfirmTicketNode(inf model.Inference) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, state *model.ConversationState) (*model.ConversationState, error) {
		summary := state.CurrentQuery
		if summary == "" {
			summary = "문의 내용"
		}
		if ts, err := inf.Summarize(ctx, state.Messages); err != nil {
			logx.Warn().Err(err).
				Str("session_id", state.SessionID).
				Msg("ticket summary failed, using raw query")
		} else if strings.TrimSpace(ts.Summary) != "" {
			summary = ts.Summary
		}

		state.AppendAgent(confirmTicketText(summary, state.CurrentStep))
		state.Status = model.StatusConfirmingTicket
		return state, nil
	})
}

// additionalInfoMinRunes is the reply length past which a confirmation is
// treated as also carrying extra context for the ticket.
const additionalInfoMinRunes = 12

// NewEvaluateTicketConfirmationNode creates the node that reads the user's
// yes/no on the ticket prompt. Keyword fast paths run first; the classifier
// is the fallback, and its failure re-prompts instead of guessing.
func NewEvaluateTicketConfirmationNode(inf model.Inference, kw Keywords) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, state *model.ConversationState) (*model.ConversationState, error) {
		lastUser := strings.TrimSpace(state.LastUserText())

		switch {
		case model.ContainsKeyword(lastUser, kw.ConfirmYes):
			confirmYes(state, lastUser)
		case model.ContainsKeyword(lastUser, kw.ConfirmNo):
			confirmNo(state)
		default:
			cls, err := inf.Classify(ctx, lastUser, model.ClassifyConfirmation)
			if err != nil {
				logx.Warn().Err(err).
					Str("session_id", state.SessionID).
					Msg("confirmation classification failed, re-prompting")
				confirmUnclear(state)
				return state, nil
			}
			switch cls.Label {
			case model.ConfirmYes:
				confirmYes(state, lastUser)
			case model.ConfirmNo:
				confirmNo(state)
			default:
				confirmUnclear(state)
			}
		}
		return state, nil
	})
}

func confirmYes(state *model.ConversationState, lastUser string) {
	yes := true
	state.TicketConfirmed = &yes
	state.Status = model.StatusEscalated
	// A long affirmative reply usually carries extra context worth
	// attaching to the ticket.
	if utf8.RuneCountInString(lastUser) >= additionalInfoMinRunes {
		state.TicketAdditionalInfo = lastUser
	}
}

func confirmNo(state *model.ConversationState) {
	no := false
	state.TicketConfirmed = &no
	state.AppendAgent(cancelledText)
	state.Status = model.StatusCancelled
	state.ResetIssue()
}

func confirmUnclear(state *model.ConversationState) {
	state.TicketConfirmed = nil
	state.AppendAgent(reconfirmText)
	state.Status = model.StatusConfirmingTicket
}
