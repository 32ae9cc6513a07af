package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/controlpanel/internal/common"
	"github.com/dmitrijs2005/controlpanel/internal/server/models"
	"github.com/dmitrijs2005/controlpanel/internal/server/repositories/repomanager"
)

type WidgetService struct {
	repomanager repomanager.RepositoryManager
}

func NewWidgetService(m repomanager.RepositoryManager) *WidgetService {
	return &WidgetService{repomanager: m}
}

// GetLayout returns the account's layout, storing the default one first if
// the account has none yet.
func (s *WidgetService) GetLayout(ctx context.Context, userID int64) (*models.WidgetLayout, error) {
	l, err := s.repomanager.Layouts(s.repomanager.DB()).GetOrCreate(ctx, userID, models.DefaultWidgets())
	if err != nil {
		return nil, fmt.Errorf("error loading layout: %w", err)
	}
	return l, nil
}

// SaveLayout replaces the layout. Every widget must carry a non-empty string "type".
func (s *WidgetService) SaveLayout(ctx context.Context, userID int64, widgets []models.Widget) (*models.WidgetLayout, error) {
	if widgets == nil {
		return nil, common.NewValidationError(common.CodeInvalidRequest, "widgets is required")
	}
	var violations []string
	for i, w := range widgets {
		if t, ok := w["type"].(string); !ok || t == "" {
			violations = append(violations, fmt.Sprintf("widgets[%d]: type is required", i))
		}
	}
	if len(violations) > 0 {
		return nil, common.NewValidationError(common.CodeInvalidRequest, violations...)
	}

	l, err := s.repomanager.Layouts(s.repomanager.DB()).Upsert(ctx, userID, widgets)
	if err != nil {
		return nil, fmt.Errorf("error saving layout: %w", err)
	}
	return l, nil
}
