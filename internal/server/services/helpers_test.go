package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/controlpanel/internal/dbx"
	"github.com/dmitrijs2005/controlpanel/internal/logging"
	"github.com/dmitrijs2005/controlpanel/internal/server/auth"
	"github.com/dmitrijs2005/controlpanel/internal/server/models"
	"github.com/dmitrijs2005/controlpanel/internal/server/repositories/health"
	"github.com/dmitrijs2005/controlpanel/internal/server/repositories/layouts"
	"github.com/dmitrijs2005/controlpanel/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/controlpanel/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var errDB = errors.New("db down")

func newCodec(t *testing.T, now func() time.Time) *auth.TokenCodec {
	t.Helper()
	opts := []auth.Option{}
	if now != nil {
		opts = append(opts, auth.WithClock(now))
	}
	c, err := auth.NewTokenCodec([]byte("test-secret"), "HS256", time.Hour, opts...)
	require.NoError(t, err)
	return c
}

func newAuthService(t *testing.T, m repomanager.RepositoryManager) *AuthService {
	t.Helper()
	return NewAuthService(m, auth.NewHasher(bcrypt.MinCost), newCodec(t, nil), auth.DefaultPolicy(), logging.Discard())
}

// fakeRepoManager wraps the in-memory manager and lets tests swap single
// repositories or make transactions fail.
type fakeRepoManager struct {
	*repomanager.MemoryRepositoryManager
	users   users.Repository
	layouts layouts.Repository
	health  health.Repository
	txErr   error
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{MemoryRepositoryManager: repomanager.NewMemoryRepositoryManager()}
}

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository {
	if m.users != nil {
		return m.users
	}
	return m.MemoryRepositoryManager.Users(db)
}

func (m *fakeRepoManager) Layouts(db dbx.DBTX) layouts.Repository {
	if m.layouts != nil {
		return m.layouts
	}
	return m.MemoryRepositoryManager.Layouts(db)
}

func (m *fakeRepoManager) Health(db dbx.DBTX) health.Repository {
	if m.health != nil {
		return m.health
	}
	return m.MemoryRepositoryManager.Health(db)
}

func (m *fakeRepoManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if m.txErr != nil {
		return m.txErr
	}
	return fn(ctx, nil)
}

type fakeUsersRepo struct {
	createErr error
	getErr    error
	got       *models.Account
}

func (f *fakeUsersRepo) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	a.ID = 1
	return a, nil
}

func (f *fakeUsersRepo) GetByEmail(context.Context, string) (*models.Account, error) {
	return f.got, f.getErr
}

func (f *fakeUsersRepo) GetByID(context.Context, int64) (*models.Account, error) {
	return f.got, f.getErr
}

type fakeLayoutsRepo struct{ err error }

func (f *fakeLayoutsRepo) GetOrCreate(context.Context, int64, []models.Widget) (*models.WidgetLayout, error) {
	return nil, f.err
}

func (f *fakeLayoutsRepo) Upsert(context.Context, int64, []models.Widget) (*models.WidgetLayout, error) {
	return nil, f.err
}

type fakeHealthRepo struct {
	getErr error
	err    error
}

func (f *fakeHealthRepo) Get(context.Context, int64) (*models.HealthSummary, error) {
	return nil, f.getErr
}

func (f *fakeHealthRepo) GetOrCreate(context.Context, *models.HealthSummary) (*models.HealthSummary, error) {
	return nil, f.err
}

func (f *fakeHealthRepo) Upsert(context.Context, *models.HealthSummary) (*models.HealthSummary, error) {
	return nil, f.err
}
