package nodes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/supportflow-core-poc/server/internal/support/model"
)

func TestAdvanceStopsAtPlanEnd(t *testing.T) {
	state := model.NewConversationState("u")
	state.SolutionSteps = []model.SolutionStep{{Index: 1}, {Index: 2}}

	advance(state)
	assert.Equal(t, 1, state.CurrentStep)
	assert.True(t, state.SolutionSteps[0].Completed)
	assert.Equal(t, model.StatusResponding, state.Status)

	advance(state)
	assert.Equal(t, 2, state.CurrentStep)

	// past the last step the cursor stays put
	advance(state)
	assert.Equal(t, 2, state.CurrentStep)
}

func TestAdvanceWithoutPlan(t *testing.T) {
	state := model.NewConversationState("u")

	advance(state)

	assert.Zero(t, state.CurrentStep)
	assert.Equal(t, model.StatusResponding, state.Status)
}
