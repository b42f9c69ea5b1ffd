package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"quizcast/internal/config"
	"quizcast/internal/domain"
	redisresults "quizcast/internal/infra/redis"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

type resultsOutput struct {
	Counts  domain.Counts         `json:"counts"`
	Ranking []domain.RankingEntry `json:"ranking"`
}

// NewResultsCmd prints the counts and final ranking mirrored in Redis.
func NewResultsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "results",
		Short: "Print the last published counts and ranking from Redis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envOr("QUIZCAST_CONFIG", *configPath), configFlagChanged(cmd), cmd.Flags())
			if err != nil {
				return err
			}
			return printResults(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
}

func printResults(ctx context.Context, cfg config.Config, w io.Writer) error {
	if cfg.Redis.Addr == "" {
		return fmt.Errorf("redis addr not configured")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	store := redisresults.NewResultStore(client, cfg.Redis.TTL)
	counts, err := store.Counts(ctx)
	if err != nil {
		return fmt.Errorf("read counts: %w", err)
	}
	ranking, err := store.LastRanking(ctx)
	if err != nil {
		return fmt.Errorf("read ranking: %w", err)
	}
	if ranking == nil {
		ranking = []domain.RankingEntry{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resultsOutput{Counts: counts, Ranking: ranking})
}
