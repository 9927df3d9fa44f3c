package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/log0ymxm/parse-click-data/internal/adapter/postgres"
	"github.com/log0ymxm/parse-click-data/internal/adapter/postgres/testhelper"
	"github.com/log0ymxm/parse-click-data/internal/config"
	"github.com/log0ymxm/parse-click-data/internal/domain"
)

func TestNewPool_EmptyDSN(t *testing.T) {
	t.Parallel()

	_, err := postgres.NewPool(context.Background(), config.DatabaseConfig{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewPool_InvalidDSN(t *testing.T) {
	t.Parallel()

	_, err := postgres.NewPool(context.Background(), config.DatabaseConfig{DSN: "postgres://%zz", MaxConns: 1})
	if err == nil {
		t.Fatal("expected error for unparsable DSN")
	}
}

func TestNewPool_AppliesSettings(t *testing.T) {
	testhelper.SetupTestDB(t)

	pool, err := postgres.NewPool(context.Background(), config.DatabaseConfig{
		DSN:             testhelper.DSN(),
		MaxConns:        3,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: time.Minute,
	})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer pool.Close()

	if got := pool.Config().MaxConns; got != 3 {
		t.Errorf("MaxConns = %d, want 3", got)
	}

	var name string
	if err := pool.QueryRow(context.Background(), `SELECT current_setting('application_name')`).Scan(&name); err != nil {
		t.Fatalf("query application_name: %v", err)
	}
	if name != "parse-click-data" {
		t.Errorf("application_name = %q, want parse-click-data", name)
	}
}
