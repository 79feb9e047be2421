package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMidIssueState() *ConversationState {
	yes := true
	s := NewConversationState("user-1")
	s.AppendUser("로그인이 안돼요")
	s.AppendAgent("1단계를 시도해보세요")
	s.CurrentQuery = "로그인이 안돼요"
	s.RetrievedDocs = []RetrievedDocument{
		{ID: "FAQ-001", Title: "로그인 문제", Tags: []string{"로그인", "계정"}, Score: 0.2},
	}
	s.RelevanceScore = 0.2
	s.SolutionSteps = []SolutionStep{
		{Index: 1, Action: "Caps Lock 확인", Completed: true},
		{Index: 2, Action: "비밀번호 재설정"},
	}
	s.CurrentStep = 1
	s.Status = StatusWaitingUser
	s.Attempts = 2
	s.UnresolvedReason = "모든 단계 실패"
	s.TicketID = "abc123"
	s.TicketConfirmed = &yes
	s.TicketAdditionalInfo = "크롬에서만 발생"
	s.Intent = IntentTechnicalSupport
	s.IntentConfidence = 0.93
	return s
}

func TestNewConversationState(t *testing.T) {
	s := NewConversationState("")

	assert.Equal(t, "anonymous", s.UserID)
	assert.NotEmpty(t, s.SessionID)
	assert.False(t, s.StartedAt.IsZero())
	assert.Equal(t, StatusInitialized, s.Status)
	assert.Equal(t, DefaultMaxSteps, s.MaxSteps)
	assert.Empty(t, s.Messages)
	assert.Empty(t, s.SolutionSteps)

	other := NewConversationState("user-1")
	assert.Equal(t, "user-1", other.UserID)
	assert.NotEqual(t, s.SessionID, other.SessionID)
}

func TestStatusSuspended(t *testing.T) {
	suspended := []Status{
		StatusSmallTalking, StatusWaitingUser, StatusConfirmingTicket,
		StatusCancelled, StatusTicketCreated, StatusResolved,
	}
	for _, st := range suspended {
		assert.True(t, st.Suspended(), "status %s must suspend", st)
	}

	transient := []Status{
		StatusInitialized, StatusSearching, StatusClarifying, StatusPlanning,
		StatusResponding, StatusEvaluating, StatusEscalated, StatusEvaluatingTicket,
	}
	for _, st := range transient {
		assert.False(t, st.Suspended(), "status %s must not suspend", st)
	}
}

func TestLastUserText(t *testing.T) {
	s := NewConversationState("user-1")
	assert.Equal(t, "", s.LastUserText())

	s.AppendUser("첫 메시지")
	s.AppendAgent("답변")
	s.AppendUser("두번째 메시지")
	s.AppendAgent("또 답변")
	assert.Equal(t, "두번째 메시지", s.LastUserText())
}

func TestStepCursor(t *testing.T) {
	s := NewConversationState("user-1")
	assert.Nil(t, s.StepAt())
	assert.True(t, s.StepsExhausted())

	s.SolutionSteps = []SolutionStep{
		{Index: 1, Action: "a"},
		{Index: 2, Action: "b"},
	}
	require.NotNil(t, s.StepAt())
	assert.Equal(t, 1, s.StepAt().Index)
	assert.False(t, s.StepsExhausted())

	s.CurrentStep = 1
	assert.Equal(t, 2, s.StepAt().Index)

	s.CurrentStep = 2
	assert.Nil(t, s.StepAt())
	assert.True(t, s.StepsExhausted())

	s.CurrentStep = -1
	assert.Nil(t, s.StepAt())
}

func TestMidIssue(t *testing.T) {
	s := NewConversationState("user-1")
	assert.False(t, s.MidIssue())

	s.SolutionSteps = []SolutionStep{{Index: 1, Action: "a"}}
	assert.False(t, s.MidIssue(), "needs waiting_user status")

	s.Status = StatusWaitingUser
	assert.True(t, s.MidIssue())

	s.SolutionSteps = nil
	assert.False(t, s.MidIssue(), "needs a plan in flight")
}

func TestCloneIsDeep(t *testing.T) {
	s := sampleMidIssueState()
	c := s.Clone()

	require.Equal(t, s, c)

	c.AppendUser("새 메시지")
	c.SolutionSteps[0].Completed = false
	c.RetrievedDocs[0].Tags[0] = "변경됨"
	*c.TicketConfirmed = false

	assert.Len(t, s.Messages, 2)
	assert.True(t, s.SolutionSteps[0].Completed)
	assert.Equal(t, "로그인", s.RetrievedDocs[0].Tags[0])
	assert.True(t, *s.TicketConfirmed)
}

func TestResetIssue(t *testing.T) {
	s := sampleMidIssueState()
	messages := len(s.Messages)
	sessionID := s.SessionID
	startedAt := s.StartedAt

	s.Status = StatusResolved
	s.ResetIssue()

	// Issue-scoped fields are back at zero.
	assert.Empty(t, s.SolutionSteps)
	assert.Zero(t, s.CurrentStep)
	assert.Empty(t, s.RetrievedDocs)
	assert.Zero(t, s.RelevanceScore)
	assert.Empty(t, s.UnresolvedReason)
	assert.Empty(t, s.TicketID)
	assert.Nil(t, s.TicketConfirmed)
	assert.Empty(t, s.TicketAdditionalInfo)
	assert.Zero(t, s.Attempts)
	assert.Empty(t, s.Intent)
	assert.Zero(t, s.IntentConfidence)
	assert.Empty(t, s.CurrentQuery)

	// Session identity, history and the concluding status survive.
	assert.Len(t, s.Messages, messages)
	assert.Equal(t, "user-1", s.UserID)
	assert.Equal(t, sessionID, s.SessionID)
	assert.Equal(t, startedAt, s.StartedAt)
	assert.Equal(t, StatusResolved, s.Status)
}

func TestResetIssueIdempotent(t *testing.T) {
	s := sampleMidIssueState()
	s.ResetIssue()
	once := s.Clone()
	s.ResetIssue()
	assert.Equal(t, once, s)
}
