package layouts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/controlpanel/internal/dbx"
	"github.com/dmitrijs2005/controlpanel/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetOrCreate relies on the unique index on user_id: the insert is a no-op
// when a row exists and the select then returns it. A row committed by a
// concurrent insert is invisible to the statement's snapshot, so an empty
// result is retried with a fresh select.
func (r *PostgresRepository) GetOrCreate(ctx context.Context, userID int64, defaults []models.Widget) (*models.WidgetLayout, error) {
	payload, err := encodeWidgets(defaults)
	if err != nil {
		return nil, err
	}

	query :=
		`WITH ins AS (
			INSERT INTO widget_layouts (user_id, widgets)
			VALUES ($1, $2)
			ON CONFLICT (user_id) DO NOTHING
			RETURNING user_id, widgets, updated_at
		)
		SELECT user_id, widgets, updated_at FROM ins
		UNION ALL
		SELECT user_id, widgets, updated_at FROM widget_layouts WHERE user_id = $1
		LIMIT 1`

	l, err := scanLayout(r.db.QueryRowContext(ctx, query, userID, payload))
	if errors.Is(err, sql.ErrNoRows) {
		return r.get(ctx, userID)
	}
	return l, err
}

func (r *PostgresRepository) get(ctx context.Context, userID int64) (*models.WidgetLayout, error) {
	query := `SELECT user_id, widgets, updated_at FROM widget_layouts WHERE user_id = $1`

	return scanLayout(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresRepository) Upsert(ctx context.Context, userID int64, widgets []models.Widget) (*models.WidgetLayout, error) {
	payload, err := encodeWidgets(widgets)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO widget_layouts (user_id, widgets)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE
		 SET widgets = EXCLUDED.widgets, updated_at = now()
		 RETURNING user_id, widgets, updated_at`

	return scanLayout(r.db.QueryRowContext(ctx, query, userID, payload))
}

func encodeWidgets(widgets []models.Widget) (string, error) {
	if widgets == nil {
		widgets = []models.Widget{}
	}
	b, err := json.Marshal(widgets)
	if err != nil {
		return "", fmt.Errorf("encode widgets: %w", err)
	}
	return string(b), nil
}

func scanLayout(row *sql.Row) (*models.WidgetLayout, error) {
	var (
		l   models.WidgetLayout
		raw []byte
	)
	if err := row.Scan(&l.UserID, &raw, &l.UpdatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := json.Unmarshal(raw, &l.Widgets); err != nil {
		return nil, fmt.Errorf("decode widgets: %w", err)
	}
	if l.Widgets == nil {
		l.Widgets = []models.Widget{}
	}
	return &l, nil
}
