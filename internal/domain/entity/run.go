package entity

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the outcome of a single explanation run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run represents one explanation of one sample text by one method
type Run struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Method       string    `json:"method" gorm:"type:varchar(50);not null;index"`
	SampleIndex  int       `json:"sample_index" gorm:"not null"`
	Text         string    `json:"text" gorm:"type:text;not null"`
	Status       RunStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	TopLabel     int       `json:"top_label" gorm:"default:0"`
	NumFeatures  int       `json:"num_features" gorm:"default:0"`
	ArtifactPath string    `json:"artifact_path" gorm:"type:text"`
	Error        string    `json:"error,omitempty" gorm:"type:text"`
	LatencyMs    int64     `json:"latency_ms" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (Run) TableName() string {
	return "explanation_runs"
}

// NewRun creates a new Run in the pending state
func NewRun(method string, sampleIndex int, text string) *Run {
	return &Run{
		ID:          uuid.New(),
		Method:      method,
		SampleIndex: sampleIndex,
		Text:        text,
		Status:      RunStatusPending,
	}
}

// SetResult marks the run completed with the persisted artifact
func (r *Run) SetResult(topLabel, numFeatures int, artifactPath string, latencyMs int64) {
	r.Status = RunStatusCompleted
	r.TopLabel = topLabel
	r.NumFeatures = numFeatures
	r.ArtifactPath = artifactPath
	r.LatencyMs = latencyMs
}

// SetFailure marks the run failed with the causing error
func (r *Run) SetFailure(err error, latencyMs int64) {
	r.Status = RunStatusFailed
	if err != nil {
		r.Error = err.Error()
	}
	r.LatencyMs = latencyMs
}

// IsCompleted returns true if the run produced an artifact
func (r *Run) IsCompleted() bool {
	return r.Status == RunStatusCompleted
}
