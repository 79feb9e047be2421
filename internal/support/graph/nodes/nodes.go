package nodes

import (
	"context"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"

	"github.com/supportflow-core-poc/server/internal/support/model"
	logx "github.com/supportflow-core-poc/server/pkg/logger"
)

// NewInitializeNode creates the session bootstrap node. It derives the
// current query from the newest user message, decides whether this turn is a
// resumption, and moves the status to the matching intra-turn value so the
// routing condition after it stays a pure read.
func NewInitializeNode(cfg model.ConversationConfig) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, state *model.ConversationState) (*model.ConversationState, error) {
		// Defensive bootstrap for callers that hand in a zero state instead
		// of using model.NewConversationState.
		if state.SessionID == "" {
			state.SessionID = uuid.NewString()
			state.StartedAt = time.Now()
			state.Status = model.StatusInitialized
		}
		if state.UserID == "" {
			state.UserID = "anonymous"
		}
		// The configured step limit is authoritative over whatever a
		// persisted state carries.
		if cfg.MaxSteps > 0 {
			state.MaxSteps = cfg.MaxSteps
		} else if state.MaxSteps <= 0 {
			state.MaxSteps = model.DefaultMaxSteps
		}
		if state.Messages == nil {
			state.Messages = []model.Message{}
		}
		if state.SolutionSteps == nil {
			state.SolutionSteps = []model.SolutionStep{}
		}
		if state.RetrievedDocs == nil {
			state.RetrievedDocs = []model.RetrievedDocument{}
		}

		state.CurrentQuery = state.LastUserText()

		// Resumption beats classification: a pending ticket prompt re-enters
		// the confirmation evaluator, a mid-flight plan re-enters evaluation.
		// Only genuinely new input counts as an attempt.
		switch {
		case state.Status == model.StatusConfirmingTicket:
			state.Status = model.StatusEvaluatingTicket
		case state.MidIssue():
			state.Status = model.StatusEvaluating
		default:
			state.Attempts++
			state.Status = model.StatusSearching
		}

		logx.Debug().
			Str("session_id", state.SessionID).
			Str("status", string(state.Status)).
			Int("attempts", state.Attempts).
			Msg("turn initialized")
		return state, nil
	})
}

// NewClassifyIntentNode creates the intent classification node. Inference
// failures default to technical_support so the conversation keeps moving.
func NewClassifyIntentNode(inf model.Inference) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, state *model.ConversationState) (*model.ConversationState, error) {
		cls, err := inf.Classify(ctx, state.CurrentQuery, model.ClassifyIntent)
		if err != nil {
			logx.Warn().Err(err).
				Str("session_id", state.SessionID).
				Msg("intent classification failed, defaulting to technical_support")
			state.Intent = model.IntentTechnicalSupport
			state.IntentConfidence = 0
			state.Status = model.StatusSearching
			return state, nil
		}

		intent := model.Intent(cls.Label)
		switch intent {
		case model.IntentSmallTalk:
			state.Status = model.StatusSmallTalking
		case model.IntentVagueProblem:
			state.Status = model.StatusClarifying
		case model.IntentContinueConversation:
			state.Status = model.StatusEvaluating
		case model.IntentTechnicalSupport:
			state.Status = model.StatusSearching
		default:
			intent = model.IntentTechnicalSupport
			state.Status = model.StatusSearching
		}
		state.Intent = intent
		state.IntentConfidence = cls.Confidence

		logx.Debug().
			Str("session_id", state.SessionID).
			Str("intent", string(intent)).
			Float64("confidence", cls.Confidence).
			Str("reason", cls.Reason).
			Msg("intent classified")
		return state, nil
	})
}

// NewHandleSmallTalkNode creates the small-talk reply node. The generator
// phrases the reply; on failure a generic greeting is surfaced.
func NewHandleSmallTalkNode(inf model.Inference) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, state *model.ConversationState) (*model.ConversationState, error) {
		text, err := inf.Generate(ctx,
			"사용자의 인사에 응답하세요. 사용자 입력: "+state.CurrentQuery+
				"\n짧게 인사하고, 로그인/메신저/파일/계정 문제를 도와드릴 수 있다고 안내한 뒤 어떤 문제가 있는지 물어보세요.")
		if err != nil {
			logx.Warn().Err(err).
				Str("session_id", state.SessionID).
				Msg("small talk generation failed, using fallback greeting")
			text = smallTalkFallbackText
		}

		state.AppendAgent(text)
		state.Status = model.StatusWaitingUser
		return state, nil
	})
}

// NewAskSymptomsNode creates the clarification node for vague problem
// reports. The question is deterministic; no inference call is made.
func NewAskSymptomsNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, state *model.ConversationState) (*model.ConversationState, error) {
		state.AppendAgent(clarifyText(state.CurrentQuery))
		state.Status = model.StatusWaitingUser
		return state, nil
	})
}
