package layouts

import (
	"context"

	"github.com/dmitrijs2005/controlpanel/internal/server/models"
)

// Repository stores one widget layout per account.
type Repository interface {
	// GetOrCreate returns the stored layout, inserting defaults first when
	// the account has none.
	GetOrCreate(ctx context.Context, userID int64, defaults []models.Widget) (*models.WidgetLayout, error)
	// Upsert replaces the account's layout.
	Upsert(ctx context.Context, userID int64, widgets []models.Widget) (*models.WidgetLayout, error)
}
