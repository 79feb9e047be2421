package model

import "strings"

// ================ Config ================

// ClassifierModelConfig configures the model used for classification and
// judgment calls (low temperature, short outputs).
type ClassifierModelConfig struct {
	Model       string  `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"CLASSIFIER_MAX_TOKENS" default:"1024"`
	Temperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" default:"0"`
}

// GeneratorModelConfig configures the model used for planning, phrasing and
// summarization calls.
type GeneratorModelConfig struct {
	Model       string  `envconfig:"GENERATOR_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"GENERATOR_MAX_TOKENS" default:"2048"`
	Temperature float32 `envconfig:"GENERATOR_TEMPERATURE" default:"0.4"`
}

// ConversationConfig carries the orchestration limits and the keyword fast
// paths checked before any inference call. Keyword lists are comma separated.
type ConversationConfig struct {
	TTL         string `envconfig:"CONVERSATION_TTL" default:"24h"`
	MaxSteps    int    `envconfig:"CONVERSATION_MAX_STEPS" default:"3"`
	MaxAttempts int    `envconfig:"CONVERSATION_MAX_ATTEMPTS" default:"10"`

	ResolvedKeywords   string `envconfig:"CONVERSATION_RESOLVED_KEYWORDS" default:"해결,됐어요,됐습니다,감사,고마워"`
	EscalateKeywords   string `envconfig:"CONVERSATION_ESCALATE_KEYWORDS" default:"등록,문의,티켓,상담원"`
	ConfirmYesKeywords string `envconfig:"CONVERSATION_CONFIRM_YES_KEYWORDS" default:"네,yes,등록,예,응,ㅇㅇ,ok,okay"`
	ConfirmNoKeywords  string `envconfig:"CONVERSATION_CONFIRM_NO_KEYWORDS" default:"아니,no,취소,ㄴㄴ"`
}

// RetrievalConfig configures knowledge retrieval.
type RetrievalConfig struct {
	TopK           int     `envconfig:"RETRIEVAL_TOP_K" default:"3"`
	ScoreThreshold float64 `envconfig:"RETRIEVAL_SCORE_THRESHOLD" default:"0.9"`
}

// SplitKeywords turns a comma separated keyword list into trimmed,
// lowercased entries, dropping empties.
func SplitKeywords(list string) []string {
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ContainsKeyword reports whether text contains any of the keywords.
// Matching is case-insensitive substring search, which is what the keyword
// fast paths need for short Korean replies.
func ContainsKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
