package repository

import (
	"context"

	"github.com/hanman2016/fine-grained-sentiment/internal/domain/entity"
)

// RunRepository defines the interface for explanation run records
type RunRepository interface {
	// Create stores a new run record
	Create(ctx context.Context, run *entity.Run) error

	// GetByMethod retrieves all runs for a method, newest first
	GetByMethod(ctx context.Context, method string, limit, offset int) ([]*entity.Run, int64, error)

	// List retrieves runs with pagination, newest first
	List(ctx context.Context, limit, offset int) ([]*entity.Run, int64, error)
}
