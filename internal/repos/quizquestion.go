package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pathwise/pathwise-backend/internal/pkg/logger"
	"github.com/pathwise/pathwise-backend/internal/types"
)

type QuizQuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, questions []*types.QuizQuestionRecord) ([]*types.QuizQuestionRecord, error)
	GetByQuizTitle(ctx context.Context, tx *gorm.DB, quizTitle string) ([]*types.QuizQuestionRecord, error)
}

type quizQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	return &quizQuestionRepo{db: db, log: baseLog.With("repo", "QuizQuestionRepo")}
}

func (r *quizQuestionRepo) Create(ctx context.Context, tx *gorm.DB, questions []*types.QuizQuestionRecord) ([]*types.QuizQuestionRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(questions) == 0 {
		return []*types.QuizQuestionRecord{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *quizQuestionRepo) GetByQuizTitle(ctx context.Context, tx *gorm.DB, quizTitle string) ([]*types.QuizQuestionRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuizQuestionRecord
	if err := transaction.WithContext(ctx).
		Where("quiz_title = ?", quizTitle).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "index"}}).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
