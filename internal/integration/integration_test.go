package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"quiz-builder/internal/app"
	"quiz-builder/internal/domain"
	"quiz-builder/internal/editor"
	"quiz-builder/internal/infra/memory"
	pgstore "quiz-builder/internal/infra/postgres"
	pgmigrations "quiz-builder/internal/infra/postgres/migrations"
	infraredis "quiz-builder/internal/infra/redis"
	"quiz-builder/internal/persist"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap/zaptest"
)

func TestEditAndPersistEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateDB(t, ctx, pgURL)

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

	log := zaptest.NewLogger(t)
	pgRepo := pgstore.NewDocumentRepository(pool)
	docs := memory.NewCachedRepository(pgRepo, time.Minute)
	saver := persist.NewSaver(docs, 10*time.Millisecond, persist.WithLogger(log))
	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute, log)
	workspace := app.NewWorkspace(sessions, docs, app.WithCommitSink(saver), app.WithLogger(log))

	doc, err := workspace.Create(ctx, "Spring launch")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := workspace.Open(ctx, doc.ID, "e1"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if n, _ := redisClient.Exists(ctx, "quiz:session:"+doc.ID).Result(); n != 1 {
		t.Fatalf("expected session marker in redis")
	}

	var id string
	if _, applied, err := workspace.Apply(ctx, doc.ID, "e1", "addElement", func(s *editor.DocumentStore) (ok bool) {
		id, ok = s.AddElement(domain.ElementButton, domain.SectionBody, "")
		return ok
	}); err != nil || !applied {
		t.Fatalf("apply: applied=%v err=%v", applied, err)
	}
	if err := saver.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	stored, err := pgRepo.Load(ctx, doc.ID)
	if err != nil {
		t.Fatalf("load from postgres: %v", err)
	}
	if _, ok := stored.Find(id); !ok {
		t.Fatalf("edit was not persisted")
	}

	workspace.Leave(ctx, doc.ID, "e1")
	if n, _ := redisClient.Exists(ctx, "quiz:session:"+doc.ID).Result(); n != 0 {
		t.Fatalf("expected session marker removed")
	}
	if err := workspace.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := saver.Close(ctx); err != nil {
		t.Fatalf("close saver: %v", err)
	}
}

func TestRepositoriesAgree(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()
	migrateDB(t, ctx, pgURL)

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

	repos := map[string]app.DocumentRepository{
		"postgres": pgstore.NewDocumentRepository(pool),
		"redis":    infraredis.NewDocumentRepository(redisClient),
	}
	base := time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)
	for name, repo := range repos {
		t.Run(name, func(t *testing.T) {
			older := domain.NewQuiz("a", "Older", nil, base)
			newer := domain.NewQuiz("b", "Newer", nil, base.Add(time.Hour))
			for _, d := range []domain.Quiz{older, newer} {
				if err := repo.Save(ctx, d); err != nil {
					t.Fatalf("save: %v", err)
				}
			}
			list, err := repo.List(ctx)
			if err != nil || len(list) != 2 || list[0].ID != "b" {
				t.Fatalf("unexpected list %+v err=%v", list, err)
			}
			got, err := repo.Load(ctx, "a")
			if err != nil || !domain.Equal(&got, &older) {
				t.Fatalf("round trip mismatch err=%v", err)
			}
			if err := repo.Delete(ctx, "a"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := repo.Load(ctx, "a"); !errors.Is(err, domain.ErrDocumentNotFound) {
				t.Fatalf("expected not found, got %v", err)
			}
		})
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

func migrateDB(t *testing.T, ctx context.Context, dsn string) {
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
