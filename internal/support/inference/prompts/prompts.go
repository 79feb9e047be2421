package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/supportflow-core-poc/server/internal/support/model"
)

//go:embed template/intent_prompt.txt
var intentSystemPrompt string

//go:embed template/confirm_prompt.txt
var confirmSystemPrompt string

//go:embed template/plan_prompt.txt
var planSystemPrompt string

//go:embed template/judge_prompt.txt
var judgeSystemPrompt string

//go:embed template/summarize_prompt.txt
var summarizeSystemPrompt string

// RenderClassifySystem returns the system prompt for a classification call.
// The classify context selects between intent and ticket-confirmation labels.
func RenderClassifySystem(ctx context.Context, classifyCtx model.ClassifyContext) (string, error) {
	switch classifyCtx {
	case model.ClassifyIntent:
		return render(ctx, intentSystemPrompt)
	case model.ClassifyConfirmation:
		return render(ctx, confirmSystemPrompt)
	default:
		return "", fmt.Errorf("unknown classify context %q", classifyCtx)
	}
}

// RenderPlanSystem renders the plan prompt with the retrieved documents
// formatted into the docs_context token.
func RenderPlanSystem(ctx context.Context, docs []model.RetrievedDocument, maxSteps int) (string, error) {
	if maxSteps <= 0 {
		maxSteps = model.DefaultMaxSteps
	}

	// Replace known tokens only so JSON braces in the template survive.
	content := strings.NewReplacer(
		"{docs_context}", formatDocsContext(docs),
		"{max_steps}", strconv.Itoa(maxSteps),
	).Replace(planSystemPrompt)

	return render(ctx, content)
}

// RenderJudgeSystem returns the system prompt for a step judgment call.
func RenderJudgeSystem(ctx context.Context) (string, error) {
	return render(ctx, judgeSystemPrompt)
}

// RenderSummarizeSystem returns the system prompt for ticket summarization.
func RenderSummarizeSystem(ctx context.Context) (string, error) {
	return render(ctx, summarizeSystemPrompt)
}

// render wraps the raw content through the Eino prompt component using a
// messages placeholder, which keeps prompt callbacks working while leaving
// the content byte-for-byte intact.
func render(ctx context.Context, content string) (string, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("prompt render: empty result")
	}
	return msgs[0].Content, nil
}

const docContentLimit = 500

func formatDocsContext(docs []model.RetrievedDocument) string {
	if len(docs) == 0 {
		return "(검색된 문서 없음)"
	}

	var b strings.Builder
	for i, doc := range docs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		content := doc.Content
		if len([]rune(content)) > docContentLimit {
			content = string([]rune(content)[:docContentLimit]) + "..."
		}
		fmt.Fprintf(&b, "[문서 %d] (관련도: %.3f)\n제목: %s\n카테고리: %s\n내용:\n%s",
			i+1, doc.Score, doc.Title, doc.Category, content)
	}
	return b.String()
}
