package users

import (
	"context"

	"github.com/dmitrijs2005/controlpanel/internal/server/models"
)

// Repository stores accounts. Create fails with common.ErrorAlreadyExists
// when the email is taken; lookups fail with common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
}
