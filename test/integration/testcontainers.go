package integration

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/issuehub/issuehub/pkg/config"
	"github.com/issuehub/issuehub/pkg/server"
	"github.com/issuehub/issuehub/pkg/server/endpoints"
)

// TestContext holds the resources shared by the whole feature suite: one
// postgres container and one in-process server.
type TestContext struct {
	DB          *gorm.DB
	Container   testcontainers.Container
	Server      *server.Server
	ServerURL   string
	DatabaseURL string
	HTTPClient  *http.Client
}

const serverPort = "18080"

// NewTestContext starts a PostgreSQL testcontainer, migrates it, and runs the
// server in-process against it.
func NewTestContext(ctx context.Context) (*TestContext, error) {
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("issuehub_test"),
		tcpostgres.WithUsername("issuehub"),
		tcpostgres.WithPassword("issuehub"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	connStr := fmt.Sprintf("postgres://issuehub:issuehub@%s:%s/issuehub_test?sslmode=disable", host, port.Port())

	if err := runMigrations(connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s, err := startInlineServer(db)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to start server: %w", err)
	}

	serverURL := fmt.Sprintf("http://127.0.0.1:%s", serverPort)
	if err := waitForServer(serverURL, 30*time.Second); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return &TestContext{
		DB:          db,
		Container:   pgContainer,
		Server:      s,
		ServerURL:   serverURL,
		DatabaseURL: connStr,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func startInlineServer(db *gorm.DB) (*server.Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.BindAddress = "127.0.0.1"
	cfg.Port = serverPort
	cfg.TokenSecret = "integration-test-secret"
	// Generous limits so ordinary scenarios never trip the limiter; the
	// rate-limiting scenario uses its own throwaway users.
	cfg.WriteRateCapacity = 1000
	cfg.AuthRateCapacity = 1000

	s, err := server.NewServer(cfg, db)
	if err != nil {
		return nil, err
	}
	endpoints.RegisterAll(s)

	go func() {
		if err := s.Start(); err != nil {
			log.Printf("server stopped: %v", err)
		}
	}()
	return s, nil
}

func runMigrations(dbURL string) error {
	migrationsDir, err := filepath.Abs(filepath.Join("..", "..", "db", "migrations"))
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+migrationsDir, dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// waitForServer polls the server until it responds or times out. Any HTTP
// response counts; readiness is about the listener, not the status code.
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/api/auth/login")
		if err == nil {
			_ = resp.Body.Close()
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}
