package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/infra/memory"
	"trivia-quiz-service/internal/infra/postgres"
	"trivia-quiz-service/internal/infra/rabbitmq"
	infraredis "trivia-quiz-service/internal/infra/redis"
	"trivia-quiz-service/internal/seed"
	transport "trivia-quiz-service/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const defaultQueue = "game-events"

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	deps, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	service, err := buildService(cfg, deps)
	if err != nil {
		return err
	}

	if cfg.Auth.JWTSecret == "" {
		log.Printf("auth.jwtSecret not set, every player is anonymous")
	}
	auth := transport.NewAuthenticator(cfg.Auth.JWTSecret)
	wsHandler := transport.NewWSHandler(service, auth)
	wsHandler.SetTickInterval(config.TTLDuration(cfg.Server.TickInterval, time.Second))
	router := transport.NewRouter(service, auth, wsHandler, transport.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(stop)

		select {
		case <-stop:
			log.Println("shutting down server...")
		case <-gctx.Done():
			log.Println("context canceled, shutting down server...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		// Hijacked websocket connections are not tracked by Shutdown.
		wsHandler.Close()
		service.Wait()
		return err
	})
	return g.Wait()
}

// backends holds the optional external connections.
type backends struct {
	pool      *pgxpool.Pool
	redis     *redis.Client
	publisher *rabbitmq.Publisher
}

func connect(ctx context.Context, cfg config.Config) (*backends, error) {
	deps := &backends{redis: newRedisClient(cfg)}

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.pool = pool
	}

	if cfg.RabbitMQ.URL != "" {
		queue := cfg.RabbitMQ.Queue
		if queue == "" {
			queue = defaultQueue
		}
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, queue)
		if err != nil {
			log.Printf("rabbitmq unavailable, game events disabled: %v", err)
		} else {
			deps.publisher = publisher
		}
	}
	return deps, nil
}

func (b *backends) Close() {
	if b.publisher != nil {
		if err := b.publisher.Close(); err != nil {
			log.Printf("close rabbitmq failed: %v", err)
		}
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

// buildService picks Postgres or the bundled sample bank for storage and
// Redis or process memory for caching and result hand-off.
func buildService(cfg config.Config, deps *backends) (*app.QuizService, error) {
	var bank app.QuestionBank
	var games app.GameRepository
	if deps.pool != nil {
		bank = postgres.NewQuestionBank(deps.pool)
		games = postgres.NewGameRepository(deps.pool)
	} else {
		static, err := memory.NewStaticQuestionBank(seed.Categories(), seed.Questions())
		if err != nil {
			return nil, err
		}
		bank = static
		games = memory.NewGameRepository(static)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	resultsTTL := config.TTLDuration(cfg.Results.TTL, 30*time.Minute)

	var results app.ResultStore
	if deps.redis != nil {
		bank = infraredis.NewQuestionCache(deps.redis, bank, quizTTL)
		results = infraredis.NewResultStore(deps.redis, resultsTTL)
	} else {
		bank = memory.NewCachedQuestionBank(bank, quizTTL)
		results = memory.NewResultStore(resultsTTL)
	}

	var publisher app.EventPublisher
	if deps.publisher != nil {
		publisher = deps.publisher
	}

	service := app.NewQuizService(bank, games, results, publisher)
	service.SetQuestionLimit(cfg.Quiz.QuestionLimit)
	service.SetSubmitTimeout(config.TTLDuration(cfg.Quiz.SubmitTimeout, 5*time.Second))
	return service, nil
}

func newRedisClient(cfg config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
