package layouts

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/controlpanel/internal/server/models"
)

type MemoryRepository struct {
	mu   sync.Mutex
	rows map[int64]models.WidgetLayout
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[int64]models.WidgetLayout)}
}

func (r *MemoryRepository) GetOrCreate(_ context.Context, userID int64, defaults []models.Widget) (*models.WidgetLayout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.rows[userID]
	if !ok {
		l = r.put(userID, defaults)
	}
	return copyLayout(l), nil
}

func (r *MemoryRepository) Upsert(_ context.Context, userID int64, widgets []models.Widget) (*models.WidgetLayout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return copyLayout(r.put(userID, widgets)), nil
}

func (r *MemoryRepository) put(userID int64, widgets []models.Widget) models.WidgetLayout {
	if widgets == nil {
		widgets = []models.Widget{}
	}
	l := models.WidgetLayout{UserID: userID, Widgets: cloneWidgets(widgets), UpdatedAt: time.Now().UTC()}
	r.rows[userID] = l
	return l
}

func copyLayout(l models.WidgetLayout) *models.WidgetLayout {
	l.Widgets = cloneWidgets(l.Widgets)
	return &l
}

// cloneWidgets copies widgets down to nested JSON objects and arrays so the
// stored layout shares nothing with callers.
func cloneWidgets(widgets []models.Widget) []models.Widget {
	out := make([]models.Widget, len(widgets))
	for i, w := range widgets {
		if w != nil {
			out[i] = cloneValue(map[string]any(w)).(map[string]any)
		}
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		m := maps.Clone(v)
		for k, e := range m {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := slices.Clone(v)
		for i, e := range s {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return v
	}
}
