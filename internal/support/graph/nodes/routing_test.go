package nodes

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/compose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supportflow-core-poc/server/internal/support/model"
)

func route(t *testing.T, cond func(context.Context, *model.ConversationState) (string, error), state *model.ConversationState) string {
	t.Helper()
	target, err := cond(context.Background(), state)
	require.NoError(t, err)
	return target
}

func TestAfterInitializeCondition(t *testing.T) {
	cond := NewAfterInitializeCondition()

	state := model.NewConversationState("u")
	state.Status = model.StatusEvaluatingTicket
	assert.Equal(t, NodeEvaluateTicketConfirmation, route(t, cond, state))

	state.Status = model.StatusEvaluating
	assert.Equal(t, NodeEvaluateStatus, route(t, cond, state))

	state.Status = model.StatusSearching
	assert.Equal(t, NodeClassifyIntent, route(t, cond, state))
}

func TestAfterClassifyCondition(t *testing.T) {
	cond := NewAfterClassifyCondition()
	state := model.NewConversationState("u")

	cases := map[model.Intent]string{
		model.IntentSmallTalk:            NodeHandleSmallTalk,
		model.IntentVagueProblem:         NodeAskSymptoms,
		model.IntentContinueConversation: NodeEvaluateStatus,
		model.IntentTechnicalSupport:     NodeSearchKnowledge,
		model.Intent("unknown"):          NodeSearchKnowledge,
	}
	for intent, want := range cases {
		state.Intent = intent
		assert.Equal(t, want, route(t, cond, state), "intent %s", intent)
	}
}

func TestAfterPlanCondition(t *testing.T) {
	cond := NewAfterPlanCondition()
	state := model.NewConversationState("u")

	state.Status = model.StatusResponding
	assert.Equal(t, NodeRespondStep, route(t, cond, state))

	state.Status = model.StatusEscalated
	assert.Equal(t, NodeConfirmTicket, route(t, cond, state))
}

func TestAfterEvaluateCondition(t *testing.T) {
	cond := NewAfterEvaluateCondition(10)

	state := model.NewConversationState("u")
	state.SolutionSteps = []model.SolutionStep{{Index: 1}, {Index: 2}, {Index: 3}}

	state.Status = model.StatusResolved
	assert.Equal(t, compose.END, route(t, cond, state))

	state.Status = model.StatusWaitingUser
	assert.Equal(t, compose.END, route(t, cond, state))

	state.Status = model.StatusEscalated
	assert.Equal(t, NodeConfirmTicket, route(t, cond, state))

	state.Status = model.StatusResponding
	state.CurrentStep = 1
	assert.Equal(t, NodeRespondStep, route(t, cond, state))

	// plan exhausted
	state.CurrentStep = 3
	assert.Equal(t, NodeConfirmTicket, route(t, cond, state))

	// step budget exhausted even when a longer plan remains
	state.SolutionSteps = append(state.SolutionSteps, model.SolutionStep{Index: 4})
	assert.Equal(t, NodeConfirmTicket, route(t, cond, state))

	// attempt guard
	state.CurrentStep = 1
	state.Attempts = 10
	assert.Equal(t, NodeConfirmTicket, route(t, cond, state))

	// evaluation without a plan re-enters retrieval
	state.Attempts = 1
	state.Status = model.StatusSearching
	assert.Equal(t, NodeSearchKnowledge, route(t, cond, state))
}

func TestAfterRespondCondition(t *testing.T) {
	cond := NewAfterRespondCondition()
	state := model.NewConversationState("u")

	state.Status = model.StatusWaitingUser
	assert.Equal(t, compose.END, route(t, cond, state))

	state.Status = model.StatusEscalated
	assert.Equal(t, NodeConfirmTicket, route(t, cond, state))
}

func TestAfterTicketConfirmationCondition(t *testing.T) {
	cond := NewAfterTicketConfirmationCondition()
	state := model.NewConversationState("u")

	assert.Equal(t, compose.END, route(t, cond, state), "undecided suspends")

	no := false
	state.TicketConfirmed = &no
	assert.Equal(t, compose.END, route(t, cond, state))

	yes := true
	state.TicketConfirmed = &yes
	assert.Equal(t, NodeCreateTicket, route(t, cond, state))
}
