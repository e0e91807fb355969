package models

import (
	"database/sql"
	"time"
)

// Analysis status values
const (
	AnalysisStatusProcessing = "processing"
	AnalysisStatusCompleted  = "completed"
	AnalysisStatusFailed     = "failed"
)

// AnalysisRecord represents one competitor-analysis request and its outcome.
// A record is created per request and never reused; re-running the same
// request produces a new record even when the competitor data was cached.
type AnalysisRecord struct {
	ID         string         `gorm:"type:uuid;primaryKey;column:id"`
	UserID     string         `gorm:"type:varchar(64);not null;index:analysis_records_user_idx;column:user_id"`
	CampaignID sql.NullString `gorm:"type:varchar(64);column:campaign_id"`

	Status string `gorm:"type:varchar(16);not null;default:'processing';column:status"`

	// Request input: competitor URLs plus collection/analysis options, as JSON
	RequestParams string `gorm:"type:jsonb;not null;column:request_params"`

	// Aggregated AI response plus per-competitor summaries, as JSON
	Result sql.NullString `gorm:"type:jsonb;column:result"`

	// Run metadata: model version, processing time, data-quality average,
	// platforms analyzed, total posts analyzed
	Metadata sql.NullString `gorm:"type:jsonb;column:metadata"`

	// Populated only on failure
	ErrorDetails sql.NullString `gorm:"type:text;column:error_details"`

	CreatedAt   time.Time    `gorm:"not null;column:created_at"`
	CompletedAt sql.NullTime `gorm:"column:completed_at"`
}

// TableName specifies the table name for AnalysisRecord
func (AnalysisRecord) TableName() string {
	return "analysis_records"
}
