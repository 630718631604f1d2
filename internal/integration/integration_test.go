package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"archetype-quiz-service/internal/app"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/infra/memory"
	"archetype-quiz-service/internal/infra/postgres"
	pgmigrations "archetype-quiz-service/internal/infra/postgres/migrations"
	infraredis "archetype-quiz-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestSuiteProgressOnPostgres(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	migrateUp(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	store := memory.NewCachedStore(postgres.NewStore(pool), time.Minute)
	svc := app.New(store, app.Options{})
	profile, err := svc.Profiles.Create(ctx)
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if _, err := svc.Unlocks.Activate(ctx, profile.ID); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if _, err := svc.Tracker.Enroll(ctx, profile.ID, domain.SuiteBrain); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	out, err := svc.Training.CompleteSuite(ctx, profile.ID, domain.SuiteBrain, []domain.ChallengeResult{{Label: "Color Conflict", Points: 400}})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out.Experience != 420 || out.Progress.SessionsCompleted != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}

	// a fresh service over the same database sees the persisted record
	reopened := app.New(postgres.NewStore(pool), app.Options{})
	prog, err := reopened.Tracker.Progress(ctx, profile.ID, domain.SuiteBrain)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if !prog.Enrolled || prog.SessionsCompleted != 1 || len(prog.DaysCompleted) != 1 {
		t.Fatalf("expected persisted progress, got %+v", prog)
	}
}

func TestRedisStoreAndPlayRegistry(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()
	client, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer client.Close()

	svc := app.New(infraredis.NewStore(client, time.Hour), app.Options{})
	profile, err := svc.Profiles.Create(ctx)
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if _, err := svc.Assessment.Submit(ctx, profile.ID, domain.QuizSubmission{Selections: []int{3, 3, 3, 3, 3, 3, 0, 0, 0, 0, 1}}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	code, err := svc.Assessment.Archetype(ctx, profile.ID)
	if err != nil || code != domain.ArchetypeExplorer {
		t.Fatalf("expected D, got %s, %v", code, err)
	}

	registry := infraredis.NewPlayRegistry(client, time.Minute)
	if err := registry.Acquire(ctx, profile.ID, "s1"); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := registry.Acquire(ctx, profile.ID, "s2"); !errors.Is(err, domain.ErrPlayInProgress) {
		t.Fatalf("expected in progress, got %v", err)
	}
	registry.Release(ctx, profile.ID, "s1")
	if _, ok := registry.Active(ctx, profile.ID); ok {
		t.Fatalf("expected slot released")
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "archetype", "POSTGRES_PASSWORD": "archetypepass", "POSTGRES_DB": "archetype"},
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
	dsn := fmt.Sprintf("postgres://archetype:archetypepass@%s:%s/archetype?sslmode=disable", host, port.Port())
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

func migrateUp(t *testing.T, ctx context.Context, dsn string) {
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
