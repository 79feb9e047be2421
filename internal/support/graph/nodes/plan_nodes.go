package nodes

import (
	"context"

	"github.com/cloudwego/eino/compose"

	"github.com/supportflow-core-poc/server/internal/support/model"
	logx "github.com/supportflow-core-poc/server/pkg/logger"
)

// NewSearchKnowledgeNode creates the retrieval node. Retrieval failure
// degrades to zero documents so planning can still produce a "no
// information" step.
func NewSearchKnowledgeNode(kb model.KnowledgeBase, cfg model.RetrievalConfig) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, state *model.ConversationState) (*model.ConversationState, error) {
		docs, err := kb.Search(ctx, state.CurrentQuery, cfg.TopK)
		if err != nil {
			logx.Warn().Err(err).
				Str("session_id", state.SessionID).
				Msg("knowledge search failed, continuing with zero documents")
			docs = nil
		}

		// Best raw distance before thresholding; 1.0 means nothing found.
		if len(docs) > 0 {
			state.RelevanceScore = docs[0].Score
		} else {
			state.RelevanceScore = 1.0
		}

		kept := make([]model.RetrievedDocument, 0, len(docs))
		for _, doc := range docs {
			if doc.Score <= cfg.ScoreThreshold {
				kept = append(kept, doc)
			}
		}
		state.RetrievedDocs = kept
		state.Status = model.StatusPlanning

		logx.Debug().
			Str("session_id", state.SessionID).
			Int("documents", len(kept)).
			Float64("relevance_score", state.RelevanceScore).
			Msg("knowledge search done")
		return state, nil
	})
}

// NewPlanResponseNode creates the planning node. Zero retrieved documents
// conclude the issue as unresolvable; a plan parse failure falls back to a
// single step built from the top document.
func NewPlanResponseNode(inf model.Inference) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, state *model.ConversationState) (*model.ConversationState, error) {
		if len(state.RetrievedDocs) == 0 {
			state.SolutionSteps = []model.SolutionStep{{
				Index:          1,
				Action:         noInformationAction,
				Description:    "죄송합니다. 해당 질문과 관련된 FAQ를 찾을 수 없습니다.",
				ExpectedResult: "고객센터에 문의해주세요.",
			}}
			state.CurrentStep = 0
			state.UnresolvedReason = "관련 문서를 찾을 수 없음"
			state.Status = model.StatusEscalated
			return state, nil
		}

		steps, err := inf.Plan(ctx, state.CurrentQuery, state.RetrievedDocs)
		if err != nil {
			logx.Warn().Err(err).
				Str("session_id", state.SessionID).
				Msg("plan generation failed, falling back to top document")
			top := state.RetrievedDocs[0]
			desc := top.Content
			if len([]rune(desc)) > 200 {
				desc = string([]rune(desc)[:200]) + "..."
			}
			steps = []model.SolutionStep{{
				Index:          1,
				Action:         top.Title,
				Description:    desc,
				ExpectedResult: "문제가 해결되어야 합니다",
			}}
		}

		if state.MaxSteps > 0 && len(steps) > state.MaxSteps {
			steps = steps[:state.MaxSteps]
		}
		for i := range steps {
			steps[i].Index = i + 1
			steps[i].Completed = false
		}

		state.SolutionSteps = steps
		state.CurrentStep = 0
		state.Status = model.StatusResponding

		logx.Debug().
			Str("session_id", state.SessionID).
			Int("steps", len(steps)).
			Msg("solution plan ready")
		return state, nil
	})
}

// NewRespondStepNode creates the step presentation node. The deterministic
// step text is the source of truth; the generator only rephrases it and any
// failure falls back to the deterministic text. An exhausted plan switches
// to the escalation prompt without an inference call.
func NewRespondStepNode(inf model.Inference) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, state *model.ConversationState) (*model.ConversationState, error) {
		step := state.StepAt()
		if step == nil {
			// Exhausted plan: escalate so the routing after this node hands
			// the issue to ticket confirmation.
			state.UnresolvedReason = "모든 단계를 시도했으나 해결되지 않음"
			state.Status = model.StatusEscalated
			return state, nil
		}

		base := stepText(step, len(state.SolutionSteps))
		text, err := inf.Generate(ctx,
			"다음 안내문을 의미를 바꾸지 말고 자연스럽게 다듬으세요. 단계 번호와 질문은 유지하세요.\n\n"+base)
		if err != nil {
			logx.Debug().Err(err).
				Str("session_id", state.SessionID).
				Msg("step phrasing failed, using deterministic text")
			text = base
		}

		state.AppendAgent(text)
		state.Status = model.StatusWaitingUser
		return state, nil
	})
}
