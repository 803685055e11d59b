package repository

import (
	"context"
	"encoding/json"

	"github.com/lshigami/studyhub-ai/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository interface {
	Upsert(ctx context.Context, question *model.BankQuestion) error
	// FindCandidates returns bank questions whose level is in levels and, when
	// tags is non-empty, that carry at least one of the tags.
	FindCandidates(ctx context.Context, levels, tags []string, limit int) ([]model.BankQuestion, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Upsert(ctx context.Context, question *model.BankQuestion) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "level", "tags", "skills", "text", "options", "answers", "explanation", "time_estimate", "updated_at"}),
		}).
		Create(question).Error
}

func (r *questionRepository) FindCandidates(ctx context.Context, levels, tags []string, limit int) ([]model.BankQuestion, error) {
	query := r.db.WithContext(ctx).Where("level IN ?", levels)

	if len(tags) > 0 {
		var anyTag *gorm.DB
		for _, tag := range tags {
			contains, err := json.Marshal([]string{tag})
			if err != nil {
				return nil, err
			}
			if anyTag == nil {
				anyTag = r.db.Where("tags::jsonb @> ?", string(contains))
			} else {
				anyTag = anyTag.Or("tags::jsonb @> ?", string(contains))
			}
		}
		query = query.Where(anyTag)
	}

	var questions []model.BankQuestion
	if err := query.Limit(limit).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}
