package cli

import (
	"context"
	"log"

	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/infra/postgres"
	infraredis "trivia-quiz-service/internal/infra/redis"
	"trivia-quiz-service/internal/seed"

	"github.com/spf13/cobra"
)

// NewSeedCmd loads the sample question bank into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Migrate and load the sample categories and questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	db, err := openBunDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrateDB(ctx, db); err != nil {
		return err
	}
	categories, questions := seed.Categories(), seed.Questions()
	if err := postgres.Seed(ctx, db, categories, questions); err != nil {
		return err
	}
	log.Printf("seeded %d categories and %d questions", len(categories), len(questions))

	// Drop cached question sets so running servers pick up the new bank.
	if client := newRedisClient(cfg); client != nil {
		defer client.Close()
		ids := make([]int64, 0, len(categories))
		for _, c := range categories {
			ids = append(ids, c.ID)
		}
		if err := infraredis.InvalidateQuestions(ctx, client, ids...); err != nil {
			log.Printf("invalidate cached questions failed: %v", err)
		}
	}
	return nil
}
