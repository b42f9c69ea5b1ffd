package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"quizcast/internal/domain"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*ResultStore, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewResultStore(client, ttl), mr, client
}

func TestPublishCounts(t *testing.T) {
	ctx := context.Background()
	store, mr, _ := newTestStore(t, time.Minute)

	require.NoError(t, store.PublishCounts(ctx, domain.Counts{Connected: 3, Finished: 1}))

	assert.Equal(t, "3", mr.HGet(countsKey, "connected"))
	assert.Equal(t, "1", mr.HGet(countsKey, "finished"))
	assert.Equal(t, time.Minute, mr.TTL(countsKey))

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Counts{Connected: 3, Finished: 1}, counts)
}

func TestPublishRankingStoresAndNotifies(t *testing.T) {
	ctx := context.Background()
	store, _, client := newTestStore(t, 0)

	sub := client.Subscribe(ctx, EventsChannel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	ranking := []domain.RankingEntry{{Name: "Ana", Score: 3}, {Name: "Bruno", Score: 1}}
	require.NoError(t, store.PublishRanking(ctx, ranking))

	got, err := store.LastRanking(ctx)
	require.NoError(t, err)
	assert.Equal(t, ranking, got)

	select {
	case msg := <-sub.Channel():
		var ev struct {
			Type    string                `json:"type"`
			Payload []domain.RankingEntry `json:"payload"`
		}
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		assert.Equal(t, "updateScores", ev.Type)
		assert.Equal(t, ranking, ev.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("expected ranking notification")
	}
}

func TestLastRankingEmpty(t *testing.T) {
	store, _, _ := newTestStore(t, time.Minute)

	got, err := store.LastRanking(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}
