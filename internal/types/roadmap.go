package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Roadmap struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Topic           string         `gorm:"column:topic;not null;index" json:"topic"`
	ExperienceLevel string         `gorm:"column:experience_level" json:"experience_level"`
	Title           string         `gorm:"column:title;not null" json:"title"`
	Degraded        bool           `gorm:"column:degraded;not null;default:false" json:"degraded"`
	Structure       datatypes.JSON `gorm:"column:structure;type:jsonb;not null" json:"structure"`
	CreatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Roadmap) TableName() string { return "roadmap" }

type SubtaskDetailRecord struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RoadmapTitle string         `gorm:"column:roadmap_title;not null;index" json:"roadmap_title"`
	SectionTitle string         `gorm:"column:section_title;not null" json:"section_title"`
	SubtaskTitle string         `gorm:"column:subtask_title;not null;index" json:"subtask_title"`
	Degraded     bool           `gorm:"column:degraded;not null;default:false" json:"degraded"`
	Detail       datatypes.JSON `gorm:"column:detail;type:jsonb;not null" json:"detail"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (SubtaskDetailRecord) TableName() string { return "subtask_detail" }

type QuizQuestionRecord struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	QuizTitle        string         `gorm:"column:quiz_title;not null;index" json:"quiz_title"`
	Index            int            `gorm:"column:index;not null" json:"index"`
	Question         string         `gorm:"column:question;not null" json:"question"`
	Options          datatypes.JSON `gorm:"column:options;type:jsonb;not null" json:"options"`
	CorrectIndex     int            `gorm:"column:correct_index;not null" json:"correct_index"`
	Difficulty       string         `gorm:"column:difficulty;not null" json:"difficulty"`
	TimeLimitSeconds int            `gorm:"column:time_limit_seconds;not null" json:"time_limit_seconds"`
	CreatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (QuizQuestionRecord) TableName() string { return "quiz_question" }
