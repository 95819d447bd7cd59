package events

import "time"

const PayrollRunCompletedTopic = "hr.payroll.run.completed.v1"

type PayrollRunCompletedEvent struct {
	EventType      string    `json:"event_type"`
	PayrollRunID   string    `json:"payroll_run_id"`
	Month          int       `json:"month"`
	Year           int       `json:"year"`
	ProcessedCount int       `json:"processed_count"`
	SkippedCount   int       `json:"skipped_count"`
	FailedCount    int       `json:"failed_count"`
	OccurredAt     time.Time `json:"occurred_at"`
}
