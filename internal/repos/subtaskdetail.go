package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/pathwise/pathwise-backend/internal/pkg/logger"
	"github.com/pathwise/pathwise-backend/internal/types"
)

type SubtaskDetailRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.SubtaskDetailRecord) ([]*types.SubtaskDetailRecord, error)
	GetBySubtask(ctx context.Context, tx *gorm.DB, roadmapTitle, sectionTitle, subtaskTitle string) (*types.SubtaskDetailRecord, error)
}

type subtaskDetailRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubtaskDetailRepo(db *gorm.DB, baseLog *logger.Logger) SubtaskDetailRepo {
	return &subtaskDetailRepo{db: db, log: baseLog.With("repo", "SubtaskDetailRepo")}
}

func (r *subtaskDetailRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.SubtaskDetailRecord) ([]*types.SubtaskDetailRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(records) == 0 {
		return []*types.SubtaskDetailRecord{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *subtaskDetailRepo) GetBySubtask(ctx context.Context, tx *gorm.DB, roadmapTitle, sectionTitle, subtaskTitle string) (*types.SubtaskDetailRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SubtaskDetailRecord
	if err := transaction.WithContext(ctx).
		Where("roadmap_title = ? AND section_title = ? AND subtask_title = ?", roadmapTitle, sectionTitle, subtaskTitle).
		Order("created_at DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}
