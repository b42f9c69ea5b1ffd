package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quizcast/internal/app"
	"quizcast/internal/config"
	"quizcast/internal/infra/file"
	"quizcast/internal/infra/memory"
	pgloader "quizcast/internal/infra/postgres"
	redisresults "quizcast/internal/infra/redis"
	"quizcast/internal/logging"
	"quizcast/internal/metrics"
	"quizcast/internal/netinfo"
	transport "quizcast/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envOr("QUIZCAST_CONFIG", *configPath), configFlagChanged(cmd), cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringP("bind", "b", "0.0.0.0", "address to bind to (env: QUIZCAST_SERVER_BIND)")
	fs.IntP("port", "p", 3000, "port to listen on (env: QUIZCAST_SERVER_PORT)")
	fs.String("public-url", "", "origin announced to the presenter, detected from the LAN address if empty (env: QUIZCAST_SERVER_PUBLIC_URL)")
	fs.String("scoring", "fastest", "scoring policy: fastest or threshold (env: QUIZCAST_QUIZ_SCORING)")
	fs.String("questions", "", "path to a YAML question file (env: QUIZCAST_QUIZ_QUESTIONS_FILE)")
	fs.String("log-level", "info", "log level (env: QUIZCAST_LOG_LEVEL)")
	return cmd
}

func runServer(parent context.Context, cfg config.Config) error {
	logger := logging.New("quizcast", cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger, false); err != nil {
			return err
		}
		p, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer p.Close()
		pool = p
	}

	questions, err := app.LoadQuestionSet(ctx, questionLoader(cfg, pool))
	if err != nil {
		return err
	}

	policy, err := app.NewScoringPolicy(cfg.Quiz.Scoring, cfg.Quiz.BonusPoints, cfg.Quiz.BonusThreshold)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	origin := netinfo.Origin(cfg.Server.PublicURL, cfg.Server.Bind, cfg.Server.Port)
	hub := transport.NewHub(logger)

	opts := []app.Option{app.WithLogger(logger), app.WithMetrics(m)}
	if cfg.Quiz.PresenterInfo {
		opts = append(opts, app.WithServerInfo(origin))
	}
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, results will be published when it recovers")
		}
		opts = append(opts, app.WithResultSink(redisresults.NewResultStore(client, cfg.Redis.TTL)))
	}

	service := app.NewQuizService(app.NewSession(questions, policy), hub, opts...)
	wsHandler := transport.NewWSHandler(service, hub, logger, m)
	router := transport.NewRouter(service, wsHandler, transport.RouterConfig{
		Version:  releaseVersion,
		Origin:   origin,
		Gatherer: reg,
		Logger:   logger,
	})

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Bind, strconv.Itoa(cfg.Server.Port)),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       10 * time.Minute,
	}

	logger.Info().
		Str("addr", server.Addr).
		Str("scoring", policy.Name()).
		Int("questions", questions.Len()).
		Msg("starting quiz server")
	logger.Info().Msgf("participants join at %s, presenter at %s/presenter", origin, origin)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// questionLoader picks the question source: Postgres, then a YAML file,
// then the built-in set.
func questionLoader(cfg config.Config, pool *pgxpool.Pool) app.QuestionLoader {
	switch {
	case pool != nil:
		return pgloader.NewQuestionLoader(pool)
	case cfg.Quiz.QuestionsFile != "":
		return file.NewQuestionLoader(cfg.Quiz.QuestionsFile)
	default:
		return memory.NewStaticQuestionLoader(memory.SampleQuestions())
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

