package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/controlpanel/internal/common"
	"github.com/dmitrijs2005/controlpanel/internal/logging"
	"github.com/dmitrijs2005/controlpanel/internal/server/fitness"
	"github.com/dmitrijs2005/controlpanel/internal/server/models"
	"github.com/dmitrijs2005/controlpanel/internal/server/repositories/repomanager"
)

type HealthService struct {
	repomanager repomanager.RepositoryManager
	provider    fitness.Provider
	logger      logging.Logger
}

func NewHealthService(m repomanager.RepositoryManager, p fitness.Provider, l logging.Logger) *HealthService {
	return &HealthService{repomanager: m, provider: p, logger: l.With("module", "health")}
}

// GetSummary returns the stored summary. The first call for an account
// seeds it from the fitness provider.
func (s *HealthService) GetSummary(ctx context.Context, userID int64) (*models.HealthSummary, error) {
	repo := s.repomanager.Health(s.repomanager.DB())

	summary, err := repo.Get(ctx, userID)
	if err == nil {
		return summary, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error loading health summary: %w", err)
	}

	snap, err := s.provider.FetchSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching fitness data: %w", err)
	}

	logging.From(ctx, s.logger).Debug(ctx, "seeding health summary", "account_id", userID)
	summary, err = repo.GetOrCreate(ctx, fromSnapshot(userID, snap))
	if err != nil {
		return nil, fmt.Errorf("error loading health summary: %w", err)
	}
	return summary, nil
}

// SaveSummary overwrites the account's summary with in. Metrics may be
// omitted but not negative.
func (s *HealthService) SaveSummary(ctx context.Context, userID int64, in *models.HealthSummary) (*models.HealthSummary, error) {
	var violations []string
	for name, v := range map[string]*int{
		"resting_hr":          in.RestingHR,
		"average_sleep_hours": in.AverageSleepHours,
		"training_load":       in.TrainingLoad,
	} {
		if v != nil && *v < 0 {
			violations = append(violations, name+" must not be negative")
		}
	}
	if len(violations) > 0 {
		slices.Sort(violations)
		return nil, common.NewValidationError(common.CodeInvalidRequest, violations...)
	}

	in.UserID = userID
	summary, err := s.repomanager.Health(s.repomanager.DB()).Upsert(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("error saving health summary: %w", err)
	}
	return summary, nil
}

func fromSnapshot(userID int64, snap fitness.Snapshot) *models.HealthSummary {
	return &models.HealthSummary{
		UserID:            userID,
		RestingHR:         &snap.RestingHR,
		AverageSleepHours: &snap.AverageSleepHours,
		TrainingLoad:      &snap.TrainingLoad,
		Notes:             &snap.Notes,
		LastSyncAt:        &snap.FetchedAt,
	}
}
