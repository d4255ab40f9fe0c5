package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pathwise/pathwise-backend/internal/pkg/logger"
	"github.com/pathwise/pathwise-backend/internal/types"
)

type KnowledgeDocumentRepo interface {
	List(ctx context.Context, tx *gorm.DB) ([]*types.KnowledgeDocument, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.KnowledgeDocument, error)
	Upsert(ctx context.Context, tx *gorm.DB, docs []*types.KnowledgeDocument) error
	ListMissingEmbeddings(ctx context.Context, tx *gorm.DB) ([]*types.KnowledgeDocument, error)
	UpdateEmbedding(ctx context.Context, tx *gorm.DB, id uuid.UUID, embedding datatypes.JSON) error
}

type knowledgeDocumentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewKnowledgeDocumentRepo(db *gorm.DB, baseLog *logger.Logger) KnowledgeDocumentRepo {
	return &knowledgeDocumentRepo{db: db, log: baseLog.With("repo", "KnowledgeDocumentRepo")}
}

func (r *knowledgeDocumentRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.KnowledgeDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.KnowledgeDocument
	if err := transaction.WithContext(ctx).
		Order("category, title ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *knowledgeDocumentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.KnowledgeDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.KnowledgeDocument
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *knowledgeDocumentRepo) Upsert(ctx context.Context, tx *gorm.DB, docs []*types.KnowledgeDocument) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(docs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "body", "category", "difficulty", "tags", "references_json", "updated_at"}),
		}).
		Create(&docs).Error
}

func (r *knowledgeDocumentRepo) ListMissingEmbeddings(ctx context.Context, tx *gorm.DB) ([]*types.KnowledgeDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.KnowledgeDocument
	if err := transaction.WithContext(ctx).
		Where("embedding IS NULL OR embedding = ?", "null").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *knowledgeDocumentRepo) UpdateEmbedding(ctx context.Context, tx *gorm.DB, id uuid.UUID, embedding datatypes.JSON) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.KnowledgeDocument{}).
		Where("id = ?", id).
		Update("embedding", embedding).Error
}
