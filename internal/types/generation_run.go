package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// GenerationRun is the audit row written once per pipeline invocation.
// Pipelines are synchronous; nothing claims or replays these rows.
type GenerationRun struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Kind      string         `gorm:"column:kind;not null;index" json:"kind"` // structure|detail|tutorial|quiz
	Topic     string         `gorm:"column:topic;not null;index" json:"topic"`
	Status    string         `gorm:"column:status;not null;index" json:"status"` // succeeded|degraded|failed
	Attempts  int            `gorm:"column:attempts;not null;default:0" json:"attempts"`
	Degraded  bool           `gorm:"column:degraded;not null;default:false" json:"degraded"`
	Error     string         `gorm:"column:error" json:"error"`
	LatencyMS int            `gorm:"column:latency_ms;not null;default:0" json:"latency_ms"`
	Metadata  datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (GenerationRun) TableName() string { return "generation_run" }
