package inference

import (
	"context"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"

	errx "github.com/supportflow-core-poc/server/internal/core/error"
	"github.com/supportflow-core-poc/server/internal/support/inference/parsers"
	"github.com/supportflow-core-poc/server/internal/support/inference/prompts"
	"github.com/supportflow-core-poc/server/internal/support/model"
	logx "github.com/supportflow-core-poc/server/pkg/logger"
)

const generateSystemPrompt = "당신은 친절한 고객지원 챗봇입니다. 주어진 내용을 자연스러운 한국어 안내문으로 작성하세요. 안내문만 출력하세요."

// Service implements model.Inference on top of the Gemini chat models.
// Every method returns structured results or an inference-kind AppError;
// the step handlers decide what default to substitute on failure.
type Service struct {
	models   *ChatModels
	maxSteps int
}

// NewService wires the chat models with the configured plan step limit.
func NewService(models *ChatModels, maxSteps int) *Service {
	if maxSteps <= 0 {
		maxSteps = model.DefaultMaxSteps
	}
	return &Service{models: models, maxSteps: maxSteps}
}

func (s *Service) Classify(ctx context.Context, text string, classifyCtx model.ClassifyContext) (model.Classification, error) {
	sys, err := prompts.RenderClassifySystem(ctx, classifyCtx)
	if err != nil {
		return model.Classification{}, errx.Inference(err, "classify prompt")
	}

	out, err := s.generate(ctx, s.models.Classifier, s.models.ClassifierModelName, sys, text)
	if err != nil {
		return model.Classification{}, errx.Inference(err, "classify call")
	}

	parsed, err := parsers.ParseClassification(out)
	if err != nil {
		return model.Classification{}, errx.Inference(err, "classify output")
	}
	return *parsed, nil
}

func (s *Service) Plan(ctx context.Context, query string, docs []model.RetrievedDocument) ([]model.SolutionStep, error) {
	sys, err := prompts.RenderPlanSystem(ctx, docs, s.maxSteps)
	if err != nil {
		return nil, errx.Inference(err, "plan prompt")
	}

	out, err := s.generate(ctx, s.models.Generator, s.models.GeneratorModelName, sys, "사용자 문제: "+query)
	if err != nil {
		return nil, errx.Inference(err, "plan call")
	}

	steps, err := parsers.ParsePlan(out, s.maxSteps)
	if err != nil {
		return nil, errx.Inference(err, "plan output")
	}
	return steps, nil
}

func (s *Service) Judge(ctx context.Context, step *model.SolutionStep, lastUserText string) (model.Judgment, error) {
	sys, err := prompts.RenderJudgeSystem(ctx)
	if err != nil {
		return model.Judgment{}, errx.Inference(err, "judge prompt")
	}

	var b strings.Builder
	b.WriteString("현재 단계: ")
	if step != nil {
		b.WriteString(step.Action)
		b.WriteString(" - ")
		b.WriteString(step.Description)
	} else {
		b.WriteString("N/A")
	}
	b.WriteString("\n사용자 응답: ")
	b.WriteString(lastUserText)

	out, err := s.generate(ctx, s.models.Classifier, s.models.ClassifierModelName, sys, b.String())
	if err != nil {
		return model.Judgment{}, errx.Inference(err, "judge call")
	}

	parsed, err := parsers.ParseJudgment(out)
	if err != nil {
		return model.Judgment{}, errx.Inference(err, "judge output")
	}
	return *parsed, nil
}

func (s *Service) Summarize(ctx context.Context, messages []model.Message) (model.TicketSummary, error) {
	sys, err := prompts.RenderSummarizeSystem(ctx)
	if err != nil {
		return model.TicketSummary{}, errx.Inference(err, "summarize prompt")
	}

	var b strings.Builder
	b.WriteString("대화 내용:\n")
	for _, msg := range messages {
		if msg.Role == model.RoleUser {
			b.WriteString("사용자: ")
		} else {
			b.WriteString("Agent: ")
		}
		b.WriteString(msg.Text)
		b.WriteString("\n")
	}

	out, err := s.generate(ctx, s.models.Generator, s.models.GeneratorModelName, sys, b.String())
	if err != nil {
		return model.TicketSummary{}, errx.Inference(err, "summarize call")
	}

	parsed, err := parsers.ParseSummary(out)
	if err != nil {
		return model.TicketSummary{}, errx.Inference(err, "summarize output")
	}
	return *parsed, nil
}

func (s *Service) Generate(ctx context.Context, promptContext string) (string, error) {
	out, err := s.generate(ctx, s.models.Generator, s.models.GeneratorModelName, generateSystemPrompt, promptContext)
	if err != nil {
		return "", errx.Inference(err, "generate call")
	}
	if strings.TrimSpace(out) == "" {
		return "", errx.Inference(nil, "generate output empty")
	}
	return strings.TrimSpace(out), nil
}

func (s *Service) generate(ctx context.Context, cm *gemini.ChatModel, modelName, system, user string) (string, error) {
	msgs := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}

	out, err := cm.Generate(ctx, msgs)
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", errx.Inference(nil, "nil model output")
	}

	s.logUsage(modelName, out)
	return out.Content, nil
}

// logUsage reports token usage and USD cost for a model call when the
// provider returned usage metadata.
func (s *Service) logUsage(modelName string, out *schema.Message) {
	if out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	usage := out.ResponseMeta.Usage
	inC, outC, totalC := model.ComputeCost(usage, model.ResolvePricing(modelName))
	logx.Debug().
		Str("model", modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}

var _ model.Inference = (*Service)(nil)
