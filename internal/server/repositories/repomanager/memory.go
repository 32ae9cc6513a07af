package repomanager

import (
	"context"

	"github.com/dmitrijs2005/controlpanel/internal/dbx"
	"github.com/dmitrijs2005/controlpanel/internal/server/repositories/health"
	"github.com/dmitrijs2005/controlpanel/internal/server/repositories/layouts"
	"github.com/dmitrijs2005/controlpanel/internal/server/repositories/users"
)

// MemoryRepositoryManager hands out process-local repositories. The DBTX
// arguments are ignored and WithTx gives no rollback.
type MemoryRepositoryManager struct {
	users   *users.MemoryRepository
	layouts *layouts.MemoryRepository
	health  *health.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:   users.NewMemoryRepository(),
		layouts: layouts.NewMemoryRepository(),
		health:  health.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *MemoryRepositoryManager) DB() dbx.DBTX                        { return nil }
func (m *MemoryRepositoryManager) Ping(context.Context) error          { return nil }
func (m *MemoryRepositoryManager) Close() error                        { return nil }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return fn(ctx, nil)
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository     { return m.users }
func (m *MemoryRepositoryManager) Layouts(dbx.DBTX) layouts.Repository { return m.layouts }
func (m *MemoryRepositoryManager) Health(dbx.DBTX) health.Repository   { return m.health }
