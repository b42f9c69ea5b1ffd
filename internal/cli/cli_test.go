package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quizcast/internal/config"
	"quizcast/internal/domain"
	"quizcast/internal/infra/file"
	"quizcast/internal/infra/memory"
	"quizcast/internal/infra/postgres"
	redisresults "quizcast/internal/infra/redis"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "quizcast v"+releaseVersion+"\n", out.String())
}

func TestStartRejectsInvalidConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"start", "--config", filepath.Join(t.TempDir(), "none.yaml"), "--scoring", "fastest"})
	assert.Error(t, cmd.Execute(), "explicit config path must exist")

	cmd = newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"start", "--scoring", "streak"})
	assert.ErrorContains(t, cmd.Execute(), "invalid scoring policy")
}

func TestMigrateRequiresPostgres(t *testing.T) {
	t.Setenv("QUIZCAST_POSTGRES_URL", "")
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"migrate"})
	assert.ErrorContains(t, cmd.Execute(), "postgres url not configured")
}

func TestQuestionLoaderSelection(t *testing.T) {
	var cfg config.Config
	assert.IsType(t, &memory.StaticQuestionLoader{}, questionLoader(cfg, nil))

	path := filepath.Join(t.TempDir(), "q.yaml")
	require.NoError(t, os.WriteFile(path, []byte("questions: []\n"), 0o600))
	cfg.Quiz.QuestionsFile = path
	assert.IsType(t, &file.QuestionLoader{}, questionLoader(cfg, nil))

	assert.IsType(t, &postgres.QuestionLoader{}, questionLoader(cfg, &pgxpool.Pool{}))

	_, err := file.NewQuestionLoader(path).LoadQuestions(context.Background())
	require.NoError(t, err)
}

func TestResultsCommandReadsRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := redisresults.NewResultStore(client, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.PublishCounts(ctx, domain.Counts{Connected: 2, Finished: 2}))
	require.NoError(t, store.PublishRanking(ctx, []domain.RankingEntry{{Name: "Ana", Score: 3}, {Name: "Bruno", Score: 1}}))

	t.Setenv("QUIZCAST_REDIS_ADDR", mr.Addr())
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"results"})
	require.NoError(t, cmd.Execute())

	var got resultsOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, domain.Counts{Connected: 2, Finished: 2}, got.Counts)
	assert.Equal(t, []domain.RankingEntry{{Name: "Ana", Score: 3}, {Name: "Bruno", Score: 1}}, got.Ranking)
}

func TestResultsCommandRequiresRedis(t *testing.T) {
	t.Setenv("QUIZCAST_REDIS_ADDR", "")
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"results"})
	assert.ErrorContains(t, cmd.Execute(), "redis addr not configured")
}
