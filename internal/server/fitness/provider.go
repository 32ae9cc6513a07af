// Package fitness fetches health metrics from an external fitness account.
// Only a placeholder provider exists; no real integration is made.
package fitness

import (
	"context"
	"time"
)

// Snapshot is one reading of the metrics shown on the health widget.
type Snapshot struct {
	RestingHR         int
	AverageSleepHours int
	TrainingLoad      int
	Notes             string
	FetchedAt         time.Time
}

type Provider interface {
	FetchSummary(ctx context.Context) (Snapshot, error)
}

const (
	NoteNotConfigured = "Garmin credentials not configured; returning sample data."
	NoteFetched       = "Fetched from Garmin Connect"
)

// Stub returns canned data. With credentials it pretends a sync happened.
type Stub struct {
	configured bool
	now        func() time.Time
}

func NewStub(username, password string) *Stub {
	return &Stub{configured: username != "" && password != "", now: time.Now}
}

func (s *Stub) Configured() bool {
	return s.configured
}

func (s *Stub) FetchSummary(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	if !s.configured {
		return Snapshot{RestingHR: 55, AverageSleepHours: 7, TrainingLoad: 63, Notes: NoteNotConfigured, FetchedAt: s.now().UTC()}, nil
	}
	return Snapshot{RestingHR: 52, AverageSleepHours: 7, TrainingLoad: 70, Notes: NoteFetched, FetchedAt: s.now().UTC()}, nil
}
