package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	errx "github.com/supportflow-core-poc/server/internal/core/error"
	"github.com/supportflow-core-poc/server/internal/support/graph/nodes"
	"github.com/supportflow-core-poc/server/internal/support/graph/observers"
	"github.com/supportflow-core-poc/server/internal/support/inference"
	"github.com/supportflow-core-poc/server/internal/support/model"
	logx "github.com/supportflow-core-poc/server/pkg/logger"
)

// Engine executes one conversation turn: it consumes exactly one new user
// message and walks the step graph until the next suspension point. The
// caller persists the returned state and must serialize turns per session.
type Engine interface {
	RunTurn(ctx context.Context, state *model.ConversationState, userText string) (*model.ConversationState, string, error)
}

// Config holds everything needed to compose the full support graph
// end-to-end. This is a convenience layer over GraphConfig that also
// constructs the Gemini-backed inference service.
type Config struct {
	APIKey          string
	BaseURL         string
	ClassifierModel model.ClassifierModelConfig
	GeneratorModel  model.GeneratorModelConfig
	Conversation    model.ConversationConfig
	Retrieval       model.RetrievalConfig
	KnowledgeBase   model.KnowledgeBase
	TicketStore     model.TicketStore
	Notifier        model.Notifier
}

// GraphConfig holds the injected collaborators and limits needed to build
// the graph. No collaborator is process-global; everything is passed in
// here once at construction time.
type GraphConfig struct {
	Inference     model.Inference
	KnowledgeBase model.KnowledgeBase
	TicketStore   model.TicketStore
	Notifier      model.Notifier
	Conversation  model.ConversationConfig
	Retrieval     model.RetrievalConfig
}

// GraphBuilder handles the construction of the support conversation graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[*model.ConversationState, *model.ConversationState]
}

type engine struct {
	runnable compose.Runnable[*model.ConversationState, *model.ConversationState]
}

const apologyText = "죄송합니다. 일시적인 오류가 발생했습니다.\n잠시 후 같은 내용으로 다시 말씀해주시면 이어서 도와드리겠습니다."

// RunTurn appends the user message and invokes the compiled graph on a copy
// of the state, so a failed turn never leaks partial mutation back to the
// caller. Persistence failures propagate; any other failure is recovered
// into a generic apology with the status left unchanged so the turn can be
// retried.
func (e *engine) RunTurn(ctx context.Context, state *model.ConversationState, userText string) (*model.ConversationState, string, error) {
	if state == nil {
		return nil, "", fmt.Errorf("nil conversation state")
	}

	work := state.Clone()
	work.AppendUser(userText)
	agentStart := len(work.Messages)

	out, err := e.runnable.Invoke(ctx, work, compose.WithCallbacks(observers.NewTurnCallbacks()))
	if err != nil {
		if errx.IsKind(err, errx.KindPersistence) {
			return nil, "", err
		}
		logx.Error().Err(err).
			Str("session_id", state.SessionID).
			Msg("turn failed, surfacing apology")
		recovered := state.Clone()
		recovered.AppendUser(userText)
		recovered.AppendAgent(apologyText)
		return recovered, apologyText, nil
	}
	if out == nil {
		return nil, "", fmt.Errorf("graph returned nil state")
	}
	if !out.Status.Suspended() {
		logx.Warn().
			Str("session_id", out.SessionID).
			Str("status", string(out.Status)).
			Msg("turn ended outside the suspension set")
	}

	return out, outwardMessage(out, agentStart), nil
}

// outwardMessage joins the agent messages appended during this turn.
func outwardMessage(state *model.ConversationState, from int) string {
	outward := ""
	for _, msg := range state.Messages[min(from, len(state.Messages)):] {
		if msg.Role != model.RoleAgent {
			continue
		}
		if outward != "" {
			outward += "\n\n"
		}
		outward += msg.Text
	}
	return outward
}

// BuildSupportEngine composes the inference service, builds the graph and
// returns a ready Engine.
func BuildSupportEngine(ctx context.Context, cfg Config) (Engine, error) {
	if cfg.KnowledgeBase == nil {
		return nil, errx.Configuration(nil, "knowledge base is nil")
	}
	if cfg.TicketStore == nil {
		return nil, errx.Configuration(nil, "ticket store is nil")
	}
	if cfg.Notifier == nil {
		return nil, errx.Configuration(nil, "notifier is nil")
	}

	models, err := inference.NewChatModels(ctx, inference.ChatModelConfig{
		APIKey:        cfg.APIKey,
		BaseURL:       cfg.BaseURL,
		ClassifierCfg: &cfg.ClassifierModel,
		GeneratorCfg:  &cfg.GeneratorModel,
	})
	if err != nil {
		return nil, err
	}

	return BuildEngine(ctx, &GraphConfig{
		Inference:     inference.NewService(models, cfg.Conversation.MaxSteps),
		KnowledgeBase: cfg.KnowledgeBase,
		TicketStore:   cfg.TicketStore,
		Notifier:      cfg.Notifier,
		Conversation:  cfg.Conversation,
		Retrieval:     cfg.Retrieval,
	})
}

// BuildEngine constructs and compiles the support graph around the given
// collaborators.
func BuildEngine(ctx context.Context, config *GraphConfig) (Engine, error) {
	if config == nil {
		return nil, errx.Configuration(nil, "graph config is nil")
	}
	if config.Inference == nil {
		return nil, errx.Configuration(nil, "inference service is nil")
	}
	if config.KnowledgeBase == nil || config.TicketStore == nil || config.Notifier == nil {
		return nil, errx.Configuration(nil, "collaborators are not fully initialized")
	}

	builder := &GraphBuilder{
		config: config,
		graph:  compose.NewGraph[*model.ConversationState, *model.ConversationState](),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	runnable, err := builder.compile(ctx)
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("support graph built successfully")
	return &engine{runnable: runnable}, nil
}

// addNodes adds all step handler nodes to the graph
func (b *GraphBuilder) addNodes() {
	kw := nodes.NewKeywords(b.config.Conversation)

	b.graph.AddLambdaNode(nodes.NodeInitialize, nodes.NewInitializeNode(b.config.Conversation))
	b.graph.AddLambdaNode(nodes.NodeClassifyIntent, nodes.NewClassifyIntentNode(b.config.Inference))
	b.graph.AddLambdaNode(nodes.NodeHandleSmallTalk, nodes.NewHandleSmallTalkNode(b.config.Inference))
	b.graph.AddLambdaNode(nodes.NodeAskSymptoms, nodes.NewAskSymptomsNode())
	b.graph.AddLambdaNode(nodes.NodeSearchKnowledge, nodes.NewSearchKnowledgeNode(b.config.KnowledgeBase, b.config.Retrieval))
	b.graph.AddLambdaNode(nodes.NodePlanResponse, nodes.NewPlanResponseNode(b.config.Inference))
	b.graph.AddLambdaNode(nodes.NodeRespondStep, nodes.NewRespondStepNode(b.config.Inference))
	b.graph.AddLambdaNode(nodes.NodeEvaluateStatus, nodes.NewEvaluateStatusNode(b.config.Inference, kw))
	b.graph.AddLambdaNode(nodes.NodeConfirmTicket, nodes.NewConfirmTicketNode(b.config.Inference))
	b.graph.AddLambdaNode(nodes.NodeEvaluateTicketConfirmation, nodes.NewEvaluateTicketConfirmationNode(b.config.Inference, kw))
	b.graph.AddLambdaNode(nodes.NodeCreateTicket, nodes.NewCreateTicketNode(b.config.Inference, b.config.TicketStore))
	b.graph.AddLambdaNode(nodes.NodeSendNotification, nodes.NewSendNotificationNode(b.config.Notifier))
}

// addEdges creates the unconditional flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeInitialize},
		{nodes.NodeHandleSmallTalk, compose.END},
		{nodes.NodeAskSymptoms, compose.END},
		{nodes.NodeSearchKnowledge, nodes.NodePlanResponse},
		{nodes.NodeConfirmTicket, compose.END},
		{nodes.NodeCreateTicket, nodes.NodeSendNotification},
		{nodes.NodeSendNotification, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates the conditional routing branches. Target maps are
// exhaustive over each routing function's codomain, so a decision that maps
// to an undeclared step fails at build time, not mid-conversation.
func (b *GraphBuilder) addBranches() error {
	initializeBranch := compose.NewGraphBranch(
		nodes.NewAfterInitializeCondition(),
		map[string]bool{
			nodes.NodeEvaluateTicketConfirmation: true,
			nodes.NodeEvaluateStatus:             true,
			nodes.NodeClassifyIntent:             true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeInitialize, initializeBranch); err != nil {
		return fmt.Errorf("error adding initialize branch: %w", err)
	}

	classifyBranch := compose.NewGraphBranch(
		nodes.NewAfterClassifyCondition(),
		map[string]bool{
			nodes.NodeHandleSmallTalk: true,
			nodes.NodeAskSymptoms:     true,
			nodes.NodeEvaluateStatus:  true,
			nodes.NodeSearchKnowledge: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeClassifyIntent, classifyBranch); err != nil {
		return fmt.Errorf("error adding classify branch: %w", err)
	}

	planBranch := compose.NewGraphBranch(
		nodes.NewAfterPlanCondition(),
		map[string]bool{
			nodes.NodeConfirmTicket: true,
			nodes.NodeRespondStep:   true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodePlanResponse, planBranch); err != nil {
		return fmt.Errorf("error adding plan branch: %w", err)
	}

	evaluateBranch := compose.NewGraphBranch(
		nodes.NewAfterEvaluateCondition(b.config.Conversation.MaxAttempts),
		map[string]bool{
			nodes.NodeRespondStep:     true,
			nodes.NodeConfirmTicket:   true,
			nodes.NodeSearchKnowledge: true,
			compose.END:               true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeEvaluateStatus, evaluateBranch); err != nil {
		return fmt.Errorf("error adding evaluate branch: %w", err)
	}

	respondBranch := compose.NewGraphBranch(
		nodes.NewAfterRespondCondition(),
		map[string]bool{
			nodes.NodeConfirmTicket: true,
			compose.END:             true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeRespondStep, respondBranch); err != nil {
		return fmt.Errorf("error adding respond branch: %w", err)
	}

	confirmationBranch := compose.NewGraphBranch(
		nodes.NewAfterTicketConfirmationCondition(),
		map[string]bool{
			nodes.NodeCreateTicket: true,
			compose.END:            true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeEvaluateTicketConfirmation, confirmationBranch); err != nil {
		return fmt.Errorf("error adding ticket confirmation branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[*model.ConversationState, *model.ConversationState], error) {
	// The longest legal walk is bounded (initialize through ticket
	// creation); the limit only guards against wiring mistakes.
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(20))
	if err != nil {
		logx.Error().Err(err).Msg("error compiling support graph")
		return nil, fmt.Errorf("error compiling support graph: %w", err)
	}

	return runnable, nil
}
