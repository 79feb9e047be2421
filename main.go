package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"

	"github.com/supportflow-core-poc/server/internal/core"
	"github.com/supportflow-core-poc/server/internal/support/graph"
	"github.com/supportflow-core-poc/server/internal/support/model"
	"github.com/supportflow-core-poc/server/internal/support/notify"
	"github.com/supportflow-core-poc/server/internal/support/repo"
	"github.com/supportflow-core-poc/server/internal/support/retrieval"
	logx "github.com/supportflow-core-poc/server/pkg/logger"
	pkgredis "github.com/supportflow-core-poc/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the support chatbot,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Orchestration configs
	Classifier   model.ClassifierModelConfig
	Generator    model.GeneratorModelConfig
	Conversation model.ConversationConfig
	Retrieval    model.RetrievalConfig

	UserID    string `envconfig:"USER_ID" default:"anonymous"`
	SessionID string `envconfig:"SESSION_ID"`
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	rdb, err := cfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	ttl, err := time.ParseDuration(cfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", cfg.Conversation.TTL, err)
	}

	kb := retrieval.NewRedisKnowledgeBase(rdb)
	if err := kb.Seed(ctx, demoFAQ()); err != nil {
		log.Fatalf("Failed to seed FAQ documents: %v", err)
	}

	engine, err := graph.BuildSupportEngine(ctx, graph.Config{
		APIKey:          cfg.APIKey,
		BaseURL:         cfg.BaseURL,
		ClassifierModel: cfg.Classifier,
		GeneratorModel:  cfg.Generator,
		Conversation:    cfg.Conversation,
		Retrieval:       cfg.Retrieval,
		KnowledgeBase:   kb,
		TicketStore:     repo.NewRedisTicketStore(rdb),
		Notifier:        notify.NewLogNotifier(),
	})
	if err != nil {
		log.Fatalf("Failed to build support engine: %v", err)
	}

	sessions := repo.NewRedisSessionRepository(rdb, ttl)
	state := loadOrCreateSession(ctx, sessions, cfg.SessionID, cfg.UserID)

	fmt.Println("고객지원 챗봇입니다. 무엇을 도와드릴까요? (종료: exit)")
	fmt.Printf("session: %s\n\n", state.SessionID)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		updated, outward, err := engine.RunTurn(ctx, state, input)
		if err != nil {
			log.Printf("turn failed: %v", err)
			continue
		}
		state = updated

		if err := sessions.Save(ctx, state); err != nil {
			log.Printf("failed to persist session: %v", err)
		}

		if outward != "" {
			fmt.Printf("\n%s\n\n", outward)
		}
	}

	fmt.Println("\n이용해주셔서 감사합니다.")
}

func loadOrCreateSession(ctx context.Context, sessions *repo.RedisSessionRepository, sessionID, userID string) *model.ConversationState {
	if sessionID != "" {
		state, err := sessions.Load(ctx, sessionID)
		if err == nil {
			logx.Info().Str("session_id", sessionID).Msg("resumed existing session")
			return state
		}
		if !errors.Is(err, redis.Nil) {
			log.Printf("failed to load session %s, starting fresh: %v", sessionID, err)
		}
	}
	return model.NewConversationState(userID)
}

// demoFAQ provides a minimal knowledge base for local runs.
func demoFAQ() []retrieval.Document {
	return []retrieval.Document{
		{
			ID:       "FAQ-001",
			Category: "로그인",
			Title:    "로그인이 안될 때 확인 사항",
			Content: "증상: 아이디와 비밀번호를 입력해도 로그인이 되지 않습니다.\n" +
				"원인: Caps Lock, 만료된 비밀번호, 계정 잠금이 주요 원인입니다.\n" +
				"조치: 1) Caps Lock 상태를 확인하세요. 2) 비밀번호 재설정을 시도하세요. 3) 5회 이상 실패 시 10분 후 다시 시도하세요.",
			Tags:   []string{"로그인", "비밀번호", "계정"},
			Source: "faq",
		},
		{
			ID:       "FAQ-002",
			Category: "메신저",
			Title:    "메시지가 안 보내질 때",
			Content: "증상: 메시지 전송 버튼을 눌러도 전송되지 않습니다.\n" +
				"원인: 네트워크 불안정 또는 오래된 앱 버전.\n" +
				"조치: 1) 네트워크 연결을 확인하세요. 2) 앱을 최신 버전으로 업데이트하세요. 3) 앱을 재시작하세요.",
			Tags:   []string{"메신저", "메시지", "전송"},
			Source: "faq",
		},
		{
			ID:       "FAQ-003",
			Category: "파일",
			Title:    "파일 업로드 오류 해결",
			Content: "증상: 파일 업로드 중 오류가 발생합니다.\n" +
				"원인: 파일 크기 제한(100MB) 초과 또는 지원하지 않는 형식.\n" +
				"조치: 1) 파일 크기를 확인하세요. 2) 지원 형식(pdf, docx, png, jpg)인지 확인하세요. 3) 브라우저 캐시를 삭제 후 재시도하세요.",
			Tags:   []string{"파일", "업로드", "오류"},
			Source: "faq",
		},
	}
}
