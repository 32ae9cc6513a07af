package health

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/controlpanel/internal/common"
	"github.com/dmitrijs2005/controlpanel/internal/dbx"
	"github.com/dmitrijs2005/controlpanel/internal/server/models"
)

const columns = `user_id, resting_hr, average_sleep_hours, training_load, notes, last_sync_at, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID int64) (*models.HealthSummary, error) {
	query := `SELECT ` + columns + ` FROM health_summaries WHERE user_id = $1`

	s, err := scanSummary(r.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	return s, err
}

// GetOrCreate inserts seed unless a summary exists and returns the stored row.
// The fallback to Get covers a concurrent insert committed after the
// statement's snapshot was taken.
func (r *PostgresRepository) GetOrCreate(ctx context.Context, seed *models.HealthSummary) (*models.HealthSummary, error) {
	query :=
		`WITH ins AS (
			INSERT INTO health_summaries (user_id, resting_hr, average_sleep_hours, training_load, notes, last_sync_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id) DO NOTHING
			RETURNING ` + columns + `
		)
		SELECT ` + columns + ` FROM ins
		UNION ALL
		SELECT ` + columns + ` FROM health_summaries WHERE user_id = $1
		LIMIT 1`

	s, err := scanSummary(r.db.QueryRowContext(ctx, query, args(seed)...))
	if errors.Is(err, sql.ErrNoRows) {
		return r.Get(ctx, seed.UserID)
	}
	return s, err
}

func (r *PostgresRepository) Upsert(ctx context.Context, s *models.HealthSummary) (*models.HealthSummary, error) {
	query :=
		`INSERT INTO health_summaries (user_id, resting_hr, average_sleep_hours, training_load, notes, last_sync_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE SET
			resting_hr = EXCLUDED.resting_hr,
			average_sleep_hours = EXCLUDED.average_sleep_hours,
			training_load = EXCLUDED.training_load,
			notes = EXCLUDED.notes,
			last_sync_at = EXCLUDED.last_sync_at
		 RETURNING ` + columns

	return scanSummary(r.db.QueryRowContext(ctx, query, args(s)...))
}

func args(s *models.HealthSummary) []any {
	return []any{s.UserID, nullInt(s.RestingHR), nullInt(s.AverageSleepHours), nullInt(s.TrainingLoad),
		nullString(s.Notes), nullTime(s)}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullTime(s *models.HealthSummary) sql.NullTime {
	if s.LastSyncAt == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *s.LastSyncAt, Valid: true}
}

func scanSummary(row *sql.Row) (*models.HealthSummary, error) {
	var (
		s                    models.HealthSummary
		resting, sleep, load sql.NullInt64
		notes                sql.NullString
		lastSync             sql.NullTime
	)
	err := row.Scan(&s.UserID, &resting, &sleep, &load, &notes, &lastSync, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	s.RestingHR = intPtr(resting)
	s.AverageSleepHours = intPtr(sleep)
	s.TrainingLoad = intPtr(load)
	if notes.Valid {
		s.Notes = &notes.String
	}
	if lastSync.Valid {
		s.LastSyncAt = &lastSync.Time
	}
	return &s, nil
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
