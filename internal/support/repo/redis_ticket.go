package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	errx "github.com/supportflow-core-poc/server/internal/core/error"
	"github.com/supportflow-core-poc/server/internal/support/model"
	logx "github.com/supportflow-core-poc/server/pkg/logger"
)

const ticketIndexKey = "tickets:index"

// RedisTicketStore persists escalated tickets on the Q&A board backing
// store. Tickets never expire.
type RedisTicketStore struct {
	rdb redis.Cmdable
}

func NewRedisTicketStore(rdb redis.Cmdable) *RedisTicketStore {
	return &RedisTicketStore{rdb: rdb}
}

func (r *RedisTicketStore) ticketKey(ticketID string) string {
	return fmt.Sprintf("ticket:%s", ticketID)
}

// Create persists the ticket and returns its id, assigning a short id when
// the ticket does not carry one yet.
func (r *RedisTicketStore) Create(ctx context.Context, ticket *model.Ticket) (string, error) {
	if ticket == nil {
		return "", errx.Persistence(nil, "nil ticket")
	}
	if ticket.TicketID == "" {
		ticket.TicketID = strings.Split(uuid.NewString(), "-")[0]
	}

	b, err := json.Marshal(ticket)
	if err != nil {
		logx.Error().Err(err).Str("ticket_id", ticket.TicketID).Msg("failed to marshal ticket")
		return "", errx.Persistence(err, "marshal ticket")
	}

	key := r.ticketKey(ticket.TicketID)
	if err := r.rdb.Set(ctx, key, b, 0).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to persist ticket")
		return "", errx.WrapRedis(err)
	}
	if err := r.rdb.RPush(ctx, ticketIndexKey, ticket.TicketID).Err(); err != nil {
		logx.Error().Err(err).Str("key", ticketIndexKey).Msg("failed to index ticket")
		return "", errx.WrapRedis(err)
	}

	logx.Info().
		Str("ticket_id", ticket.TicketID).
		Str("session_id", ticket.SessionID).
		Str("category", ticket.Category).
		Msg("ticket created")
	return ticket.TicketID, nil
}

// Get loads a persisted ticket by id.
func (r *RedisTicketStore) Get(ctx context.Context, ticketID string) (*model.Ticket, error) {
	raw, err := r.rdb.Get(ctx, r.ticketKey(ticketID)).Result()
	if err != nil {
		return nil, errx.WrapRedis(err)
	}
	var ticket model.Ticket
	if err := json.Unmarshal([]byte(raw), &ticket); err != nil {
		return nil, fmt.Errorf("unmarshal ticket %s: %w", ticketID, err)
	}
	return &ticket, nil
}

var _ model.TicketStore = (*RedisTicketStore)(nil)
