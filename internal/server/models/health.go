package models

import "time"

// HealthSummary holds the latest fitness metrics for one account.
// Nil fields are unknown rather than zero.
type HealthSummary struct {
	UserID            int64
	RestingHR         *int
	AverageSleepHours *int
	TrainingLoad      *int
	Notes             *string
	LastSyncAt        *time.Time
	CreatedAt         time.Time
}
