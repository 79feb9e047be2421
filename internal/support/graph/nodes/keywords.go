package nodes

import "github.com/supportflow-core-poc/server/internal/support/model"

// Keywords holds the precompiled fast-path keyword sets. They are checked
// before any inference call so unambiguous replies never pay model latency.
type Keywords struct {
	Resolved   []string
	Escalate   []string
	ConfirmYes []string
	ConfirmNo  []string
}

func NewKeywords(cfg model.ConversationConfig) Keywords {
	return Keywords{
		Resolved:   model.SplitKeywords(cfg.ResolvedKeywords),
		Escalate:   model.SplitKeywords(cfg.EscalateKeywords),
		ConfirmYes: model.SplitKeywords(cfg.ConfirmYesKeywords),
		ConfirmNo:  model.SplitKeywords(cfg.ConfirmNoKeywords),
	}
}
