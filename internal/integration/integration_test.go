package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/infra/postgres"
	pgmigrations "trivia-quiz-service/internal/infra/postgres/migrations"
	infraredis "trivia-quiz-service/internal/infra/redis"
	"trivia-quiz-service/internal/seed"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestPlayAndPersistEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedBank(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	bank := infraredis.NewQuestionCache(redisClient, postgres.NewQuestionBank(pool), 5*time.Minute)
	games := postgres.NewGameRepository(pool)
	results := infraredis.NewResultStore(redisClient, 5*time.Minute)
	service := app.NewQuizService(bank, games, results, nil)

	subs, err := service.ListSubCategories(ctx, seed.SportsID)
	if err != nil {
		t.Fatalf("sub categories: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 soccer categories, got %+v", subs)
	}

	alice := domain.Player{ID: "u1", Name: "Alice", Email: "alice@example.com"}
	g, err := service.NewGame(ctx, alice, seed.GeneralID, 3)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	s := g.Session()
	for {
		q, _ := s.Current()
		if _, err := s.SubmitAnswer(q.CorrectAnswer); err != nil {
			t.Fatalf("submit: %v", err)
		}
		if _, err := g.Explanation(ctx, q.ID); err != nil {
			t.Fatalf("explanation: %v", err)
		}
		step, err := s.Advance()
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if step.Completed {
			break
		}
	}
	service.Wait()

	result, err := service.TakeResult(ctx, g.ResultToken())
	if err != nil {
		t.Fatalf("take result: %v", err)
	}
	if result.Score != 160+210+210 || result.MaxCombo != 3 {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, err := service.TakeResult(ctx, g.ResultToken()); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected single read, got %v", err)
	}

	bob := domain.Player{ID: "u2", Name: "Bob"}
	if _, err := service.SubmitGame(ctx, bob, domain.GameSubmission{
		CategoryID: seed.MoviesID, Score: 900, MaxCombo: 3, CorrectAnswers: 3, TotalQuestions: 3,
	}); err != nil {
		t.Fatalf("submit bob: %v", err)
	}

	lb, err := service.GlobalLeaderboard(ctx, 0)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(lb) != 2 || lb[0].UserName != "Bob" || lb[1].CategoryName != "일반 상식" {
		t.Fatalf("unexpected leaderboard %+v", lb)
	}

	if err := service.AddFriend(ctx, alice, bob.ID); err != nil {
		t.Fatalf("add friend: %v", err)
	}
	if err := service.AddFriend(ctx, alice, bob.ID); err != nil {
		t.Fatalf("add friend twice: %v", err)
	}
	friendsLB, err := service.FriendsLeaderboard(ctx, alice, 10)
	if err != nil || len(friendsLB) != 1 || friendsLB[0].UserID != bob.ID {
		t.Fatalf("unexpected friends leaderboard %+v %v", friendsLB, err)
	}

	stats, err := service.Stats(ctx, alice)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalGames != 1 || stats.MaxScore != 580 || stats.Accuracy != 100 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	history, err := service.History(ctx, alice, 0)
	if err != nil || len(history) != 1 {
		t.Fatalf("unexpected history %+v %v", history, err)
	}
}

func TestPostgresBankSkipsInvalidRows(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	seedBank(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	var nestedID, badQuestionID int64
	if err := pool.QueryRow(ctx,
		`INSERT INTO categories (name, parent_id) VALUES ('프리미어리그', $1) RETURNING id`,
		seed.OverseasSoccerID).Scan(&nestedID); err != nil {
		t.Fatalf("insert nested category: %v", err)
	}
	if err := pool.QueryRow(ctx,
		`INSERT INTO questions (category_id, question, correct_answer, wrong_answer1, wrong_answer2, wrong_answer3)
		 VALUES ($1, '중복 보기', '서울', '부산', '부산', '대구') RETURNING id`,
		seed.GeneralID).Scan(&badQuestionID); err != nil {
		t.Fatalf("insert bad question: %v", err)
	}

	bank := postgres.NewQuestionBank(pool)
	categories, err := bank.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(categories) != len(seed.Categories()) {
		t.Fatalf("expected nested row to be skipped, got %d categories", len(categories))
	}
	if _, err := bank.Category(ctx, nestedID); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected nested category to be hidden, got %v", err)
	}

	qs, err := bank.Questions(ctx, seed.GeneralID)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	for _, q := range qs {
		if q.ID == badQuestionID {
			t.Fatalf("expected question %d to be skipped", badQuestionID)
		}
	}
	if _, err := bank.Question(ctx, badQuestionID); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected bad question to be hidden, got %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedBank(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := postgres.Seed(ctx, db, seed.Categories(), seed.Questions()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// Seeding twice must be harmless.
	if err := postgres.Seed(ctx, db, seed.Categories(), seed.Questions()); err != nil {
		t.Fatalf("reseed: %v", err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
