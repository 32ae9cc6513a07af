// Package repomanager vends repositories for the configured store and owns
// its connection, migrations and transactions.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/controlpanel/internal/dbx"
	"github.com/dmitrijs2005/controlpanel/internal/server/repositories/health"
	"github.com/dmitrijs2005/controlpanel/internal/server/repositories/layouts"
	"github.com/dmitrijs2005/controlpanel/internal/server/repositories/users"
)

// MemoryDSNPrefix selects the in-process store instead of Postgres.
const MemoryDSNPrefix = "memory://"

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// DB is the non-transactional handle to pass to the repository factories.
	DB() dbx.DBTX
	// WithTx runs fn in one transaction; repositories built from tx share it.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Ping(ctx context.Context) error
	Users(db dbx.DBTX) users.Repository
	Layouts(db dbx.DBTX) layouts.Repository
	Health(db dbx.DBTX) health.Repository
	Close() error
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// Open connects to dsn. A memory:// DSN gives a fresh in-memory store; any
// other value is handed to the pgx driver and pinged.
func Open(ctx context.Context, dsn string) (RepositoryManager, error) {
	if strings.HasPrefix(dsn, MemoryDSNPrefix) {
		return NewMemoryRepositoryManager(), nil
	}

	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return NewPostgresRepositoryManager(db), nil
}
