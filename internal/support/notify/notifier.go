package notify

import (
	"context"

	"github.com/supportflow-core-poc/server/internal/support/model"
	logx "github.com/supportflow-core-poc/server/pkg/logger"
)

// LogNotifier emits ticket notifications to the structured log. It stands in
// for the mail/push delivery channel, which is outside this core.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, userID, ticketID string) error {
	logx.Info().
		Str("user_id", userID).
		Str("ticket_id", ticketID).
		Msg("문의가 등록되었습니다 - 답변이 등록되면 알림을 보내드립니다")
	return nil
}

var _ model.Notifier = (*LogNotifier)(nil)
