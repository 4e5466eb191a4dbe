package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ybalashov/bimvault/internal/domain"
	"github.com/ybalashov/bimvault/internal/infra/database/models"
)

// CollisionRepository backs the idle IFC clash surface. No analysis ever
// writes rows; reads return whatever is there (in practice, nothing).
type CollisionRepository struct {
	db *gorm.DB
}

func NewCollisionRepository(db *gorm.DB) *CollisionRepository {
	return &CollisionRepository{db: db}
}

func (r *CollisionRepository) ListByFile(ctx context.Context, fileID uint) ([]domain.IfcCollision, error) {
	var records []models.IfcCollision
	err := r.db.WithContext(ctx).
		Where("file_id = ?", fileID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	collisions := make([]domain.IfcCollision, 0, len(records))
	for _, record := range records {
		collisions = append(collisions, domain.IfcCollision{
			ID:          record.ID,
			FileID:      record.FileID,
			ElementA:    record.ElementA,
			ElementB:    record.ElementB,
			Description: record.Description,
		})
	}
	return collisions, nil
}

func (r *CollisionRepository) DeleteByFile(ctx context.Context, fileID uint) error {
	return r.db.WithContext(ctx).
		Where("file_id = ?", fileID).
		Delete(&models.IfcCollision{}).Error
}
