package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// KnowledgeDocument is one entry of the grounding corpus. Content is owned by
// an external editorial flow; this service reads it and maintains the cached
// embedding vector.
type KnowledgeDocument struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string         `gorm:"column:title;not null" json:"title"`
	Body       string         `gorm:"column:body;not null" json:"body"`
	Category   string         `gorm:"column:category;index" json:"category"`
	Difficulty string         `gorm:"column:difficulty" json:"difficulty"`
	Tags       datatypes.JSON `gorm:"column:tags;type:jsonb" json:"tags"`
	References datatypes.JSON `gorm:"column:references_json;type:jsonb" json:"references"`
	// Embedding caches the vector for Title+Category+Body+Tags so retrieval
	// stays in-memory vector math instead of one upstream call per document.
	Embedding datatypes.JSON `gorm:"column:embedding;type:jsonb" json:"-"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (KnowledgeDocument) TableName() string { return "knowledge_document" }
