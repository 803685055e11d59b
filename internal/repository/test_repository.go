package repository

import (
	"context"

	"github.com/lshigami/studyhub-ai/internal/model"
	"gorm.io/gorm"
)

type CustomTestRepository interface {
	Create(ctx context.Context, test *model.CustomTest) error
	FindByID(ctx context.Context, id string) (*model.CustomTest, error)
}

type customTestRepository struct {
	db *gorm.DB
}

func NewCustomTestRepository(db *gorm.DB) CustomTestRepository {
	return &customTestRepository{db: db}
}

func (r *customTestRepository) Create(ctx context.Context, test *model.CustomTest) error {
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *customTestRepository) FindByID(ctx context.Context, id string) (*model.CustomTest, error) {
	var test model.CustomTest
	err := r.db.WithContext(ctx).First(&test, "id = ?", id).Error
	return &test, err
}
