package cli

import (
	"context"
	"fmt"

	"quizcast/internal/app"
	"quizcast/internal/config"
	"quizcast/internal/infra/postgres"
	"quizcast/internal/logging"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewMigrateCmd applies database migrations and optionally seeds questions.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envOr("QUIZCAST_CONFIG", *configPath), configFlagChanged(cmd), cmd.Flags())
			if err != nil {
				return err
			}
			logger := logging.New("quizcast", cfg.Log.Level, cfg.Log.Format)
			return runMigrationsWithConfig(cmd.Context(), cfg, logger, seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "upsert the configured question file (or the built-in set) into the questions table")
	cmd.Flags().String("questions", "", "path to a YAML question file used by --seed (env: QUIZCAST_QUIZ_QUESTIONS_FILE)")
	return cmd
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config, logger zerolog.Logger, seed bool) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	db := postgres.OpenDB(cfg.Postgres.URL)
	defer db.Close()

	group, err := postgres.Migrate(ctx, db)
	if err != nil {
		return err
	}
	if group.IsZero() {
		logger.Info().Msg("no new migrations")
	} else {
		logger.Info().Str("group", group.String()).Msg("migrations applied")
	}

	if !seed {
		return nil
	}
	questions, err := app.LoadQuestionSet(ctx, questionLoader(cfg, nil))
	if err != nil {
		return err
	}
	n, err := postgres.SeedQuestions(ctx, db, questions.All())
	if err != nil {
		return err
	}
	logger.Info().Int("questions", n).Msg("questions seeded")
	return nil
}
