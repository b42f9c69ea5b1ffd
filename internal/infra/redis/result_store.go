package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quizcast/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	countsKey  = "quizcast:counts"
	rankingKey = "quizcast:ranking"
	// EventsChannel carries every published counts and ranking update.
	EventsChannel = "quizcast:events"
)

type event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ResultStore mirrors counts and the final ranking into Redis so external
// dashboards can read or subscribe to them. It is write-only from the quiz's
// point of view; the session never reads state back.
//
//	HSET    quizcast:counts connected <n> finished <n>
//	SET     quizcast:ranking <json>
//	PUBLISH quizcast:events {"type": ..., "payload": ...}
type ResultStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultStore(client *redis.Client, ttl time.Duration) *ResultStore {
	return &ResultStore{client: client, ttl: ttl}
}

func (s *ResultStore) PublishCounts(ctx context.Context, counts domain.Counts) error {
	msg, err := json.Marshal(event{Type: "counts", Payload: counts})
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, countsKey, "connected", counts.Connected, "finished", counts.Finished)
	if s.ttl > 0 {
		pipe.Expire(ctx, countsKey, s.ttl)
	}
	pipe.Publish(ctx, EventsChannel, msg)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish counts: %w", err)
	}
	return nil
}

func (s *ResultStore) PublishRanking(ctx context.Context, ranking []domain.RankingEntry) error {
	if ranking == nil {
		ranking = []domain.RankingEntry{}
	}
	data, err := json.Marshal(ranking)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(event{Type: "updateScores", Payload: ranking})
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, rankingKey, data, s.ttl)
	pipe.Publish(ctx, EventsChannel, msg)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish ranking: %w", err)
	}
	return nil
}

// LastRanking returns the most recently published ranking, or nil if none.
func (s *ResultStore) LastRanking(ctx context.Context) ([]domain.RankingEntry, error) {
	data, err := s.client.Get(ctx, rankingKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ranking []domain.RankingEntry
	if err := json.Unmarshal(data, &ranking); err != nil {
		return nil, fmt.Errorf("decode ranking: %w", err)
	}
	return ranking, nil
}

// Counts returns the last published counts.
func (s *ResultStore) Counts(ctx context.Context) (domain.Counts, error) {
	var out struct {
		Connected int `redis:"connected"`
		Finished  int `redis:"finished"`
	}
	if err := s.client.HGetAll(ctx, countsKey).Scan(&out); err != nil {
		return domain.Counts{}, err
	}
	return domain.Counts{Connected: out.Connected, Finished: out.Finished}, nil
}
