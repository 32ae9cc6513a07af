package health

import (
	"context"

	"github.com/dmitrijs2005/controlpanel/internal/server/models"
)

// Repository stores one health summary per account.
type Repository interface {
	// Get returns common.ErrorNotFound when the account has no summary.
	Get(ctx context.Context, userID int64) (*models.HealthSummary, error)
	// GetOrCreate returns the stored summary for seed.UserID, inserting seed
	// when there is none.
	GetOrCreate(ctx context.Context, seed *models.HealthSummary) (*models.HealthSummary, error)
	// Upsert overwrites every metric of the summary for s.UserID.
	Upsert(ctx context.Context, s *models.HealthSummary) (*models.HealthSummary, error)
}
