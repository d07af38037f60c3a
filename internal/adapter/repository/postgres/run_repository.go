package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/hanman2016/fine-grained-sentiment/internal/domain/entity"
	"github.com/hanman2016/fine-grained-sentiment/internal/domain/repository"
)

type runRepository struct {
	db *gorm.DB
}

// NewRunRepository creates a new explanation run repository
func NewRunRepository(db *gorm.DB) repository.RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) Create(ctx context.Context, run *entity.Run) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *runRepository) GetByMethod(ctx context.Context, method string, limit, offset int) ([]*entity.Run, int64, error) {
	var runs []*entity.Run
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.Run{}).Where("method = ?", method).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("method = ?", method).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&runs).Error
	if err != nil {
		return nil, 0, err
	}

	return runs, total, nil
}

func (r *runRepository) List(ctx context.Context, limit, offset int) ([]*entity.Run, int64, error) {
	var runs []*entity.Run
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.Run{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&runs).Error
	if err != nil {
		return nil, 0, err
	}

	return runs, total, nil
}
