package models

import (
	"time"

	"github.com/google/uuid"
)

type SyncTrigger string

const (
	TriggerManual    SyncTrigger = "manual"
	TriggerCron      SyncTrigger = "cron"
	TriggerScheduler SyncTrigger = "scheduler"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// SyncRun records one execution of the fetch→normalize→persist pipeline.
type SyncRun struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	Trigger        SyncTrigger `json:"triggered_by" db:"triggered_by"`
	StartedAt      time.Time   `json:"started_at" db:"started_at"`
	FinishedAt     *time.Time  `json:"finished_at" db:"finished_at"`
	Status         RunStatus   `json:"status" db:"status"`
	FetchedCount   int         `json:"fetched_count" db:"fetched_count"`
	DiscardedCount int         `json:"discarded_count" db:"discarded_count"`
	SavedCount     int         `json:"saved_count" db:"saved_count"`
	SkippedCount   int         `json:"skipped_count" db:"skipped_count"`
	ErrorMessage   *string     `json:"error_message" db:"error_message"`
}

// SyncSummary is the caller-facing outcome of one sync run. Err carries the
// underlying cause for callers that need to distinguish failure modes; it is
// never serialized.
type SyncSummary struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	SavedCount   int    `json:"savedCount"`
	SkippedCount int    `json:"skippedCount"`
	Err          error  `json:"-"`
}
