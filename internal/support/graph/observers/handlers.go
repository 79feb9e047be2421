package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"

	logx "github.com/supportflow-core-poc/server/pkg/logger"
)

// NewTurnCallbacks builds a generic callbacks handler that logs every graph
// component the engine walks during a turn. All step handlers are lambda
// nodes, so a generic handler covers the whole graph.
func NewTurnCallbacks() einocb.Handler {
	return einocb.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *einocb.RunInfo, input einocb.CallbackInput) context.Context {
			if info != nil {
				logx.Debug().
					Str("node", info.Name).
					Str("component", string(info.Component)).
					Msg("step start")
			}
			return ctx
		}).
		OnEndFn(func(ctx context.Context, info *einocb.RunInfo, output einocb.CallbackOutput) context.Context {
			if info != nil {
				logx.Debug().
					Str("node", info.Name).
					Msg("step end")
			}
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			if info != nil {
				logx.Error().
					Err(err).
					Str("node", info.Name).
					Msg("step error")
			}
			return ctx
		}).
		Build()
}
