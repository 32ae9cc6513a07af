package health

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/controlpanel/internal/common"
	"github.com/dmitrijs2005/controlpanel/internal/server/models"
)

type MemoryRepository struct {
	mu   sync.Mutex
	rows map[int64]models.HealthSummary
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[int64]models.HealthSummary)}
}

func (r *MemoryRepository) Get(_ context.Context, userID int64) (*models.HealthSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.rows[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(s), nil
}

func (r *MemoryRepository) GetOrCreate(_ context.Context, seed *models.HealthSummary) (*models.HealthSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.rows[seed.UserID]
	if !ok {
		s = *clone(*seed)
		s.CreatedAt = time.Now().UTC()
		r.rows[s.UserID] = s
	}
	return clone(s), nil
}

func (r *MemoryRepository) Upsert(_ context.Context, in *models.HealthSummary) (*models.HealthSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := *clone(*in)
	if prev, ok := r.rows[s.UserID]; ok {
		s.CreatedAt = prev.CreatedAt
	} else {
		s.CreatedAt = time.Now().UTC()
	}
	r.rows[s.UserID] = s
	return clone(s), nil
}

// clone copies s including the values behind its pointer fields.
func clone(s models.HealthSummary) *models.HealthSummary {
	s.RestingHR = clonePtr(s.RestingHR)
	s.AverageSleepHours = clonePtr(s.AverageSleepHours)
	s.TrainingLoad = clonePtr(s.TrainingLoad)
	s.Notes = clonePtr(s.Notes)
	s.LastSyncAt = clonePtr(s.LastSyncAt)
	return &s
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
