package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supportflow-core-poc/server/internal/support/model"
)

func TestRenderClassifySystem(t *testing.T) {
	ctx := context.Background()

	intent, err := RenderClassifySystem(ctx, model.ClassifyIntent)
	require.NoError(t, err)
	assert.Contains(t, intent, "small_talk")
	assert.Contains(t, intent, "technical_support")
	assert.Contains(t, intent, "vague_problem")

	confirm, err := RenderClassifySystem(ctx, model.ClassifyConfirmation)
	require.NoError(t, err)
	assert.Contains(t, confirm, "yes")
	assert.Contains(t, confirm, "unclear")

	_, err = RenderClassifySystem(ctx, model.ClassifyContext("bogus"))
	assert.Error(t, err)
}

func TestRenderPlanSystem(t *testing.T) {
	ctx := context.Background()

	sys, err := RenderPlanSystem(ctx, []model.RetrievedDocument{
		{Title: "로그인이 안될 때", Category: "로그인", Content: "Caps Lock을 확인하세요", Score: 0.2},
	}, 3)
	require.NoError(t, err)

	assert.Contains(t, sys, "[문서 1]")
	assert.Contains(t, sys, "로그인이 안될 때")
	assert.Contains(t, sys, "3")
	assert.NotContains(t, sys, "{docs_context}")
	assert.NotContains(t, sys, "{max_steps}")
	// JSON braces in the template must survive token replacement
	assert.Contains(t, sys, `"steps"`)
}

func TestRenderPlanSystemHonorsMaxSteps(t *testing.T) {
	sys, err := RenderPlanSystem(context.Background(), []model.RetrievedDocument{
		{Title: "t", Content: "c"},
	}, 5)
	require.NoError(t, err)
	assert.Contains(t, sys, "최대 5단계")
}

func TestRenderPlanSystemTruncatesLongContent(t *testing.T) {
	long := strings.Repeat("가", 600)
	sys, err := RenderPlanSystem(context.Background(), []model.RetrievedDocument{
		{Title: "t", Content: long},
	}, 3)
	require.NoError(t, err)
	assert.NotContains(t, sys, long)
	assert.Contains(t, sys, strings.Repeat("가", 500)+"...")
}

func TestRenderPlanSystemWithoutDocs(t *testing.T) {
	sys, err := RenderPlanSystem(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Contains(t, sys, "검색된 문서 없음")
}

func TestRenderJudgeAndSummarize(t *testing.T) {
	ctx := context.Background()

	judge, err := RenderJudgeSystem(ctx)
	require.NoError(t, err)
	for _, decision := range []string{"resolved", "continue", "escalate", "waiting"} {
		assert.Contains(t, judge, decision)
	}

	summarize, err := RenderSummarizeSystem(ctx)
	require.NoError(t, err)
	assert.Contains(t, summarize, "title")
	assert.Contains(t, summarize, "attempted_solutions")
}
