package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/supportflow-core-poc/server/internal/core/error"
	"github.com/supportflow-core-poc/server/internal/support/model"
	"github.com/supportflow-core-poc/server/internal/support/repo"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestSessionRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	sessions := repo.NewRedisSessionRepository(client, time.Hour)

	state := model.NewConversationState("user-1")
	state.AppendUser("로그인이 안돼요")
	state.AppendAgent("1단계를 시도해보세요")
	state.SolutionSteps = []model.SolutionStep{{Index: 1, Action: "Caps Lock 확인"}}
	state.Status = model.StatusWaitingUser
	state.Attempts = 1

	require.NoError(t, sessions.Save(ctx, state))

	loaded, err := sessions.Load(ctx, state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, state.SessionID, loaded.SessionID)
	assert.Equal(t, state.Messages, loaded.Messages)
	assert.Equal(t, state.SolutionSteps, loaded.SolutionSteps)
	assert.Equal(t, model.StatusWaitingUser, loaded.Status)
	assert.Equal(t, 1, loaded.Attempts)

	// TTL is attached so idle sessions expire
	ttl := mr.TTL("session:" + state.SessionID + ":state")
	assert.Equal(t, time.Hour, ttl)
}

func TestSessionRepositoryLoadMissing(t *testing.T) {
	_, client := newTestClient(t)
	sessions := repo.NewRedisSessionRepository(client, time.Hour)

	_, err := sessions.Load(context.Background(), "no-such-session")
	require.Error(t, err)
	assert.True(t, errx.IsKind(err, errx.KindPersistence))
}

func TestSessionRepositorySaveWithoutID(t *testing.T) {
	_, client := newTestClient(t)
	sessions := repo.NewRedisSessionRepository(client, time.Hour)

	err := sessions.Save(context.Background(), &model.ConversationState{})
	require.Error(t, err)
	assert.True(t, errx.IsKind(err, errx.KindPersistence))
}

func TestSessionRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	_, client := newTestClient(t)
	sessions := repo.NewRedisSessionRepository(client, time.Hour)

	state := model.NewConversationState("user-1")
	require.NoError(t, sessions.Save(ctx, state))
	require.NoError(t, sessions.Delete(ctx, state.SessionID))

	_, err := sessions.Load(ctx, state.SessionID)
	assert.Error(t, err)
}
