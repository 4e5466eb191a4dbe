package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ybalashov/bimvault/internal/domain"
	"github.com/ybalashov/bimvault/internal/infra/database/models"
)

type AccessRepository struct {
	db *gorm.DB
}

func NewAccessRepository(db *gorm.DB) *AccessRepository {
	return &AccessRepository{db: db}
}

func (r *AccessRepository) Get(ctx context.Context, projectID, userID uint) (domain.ProjectAccess, error) {
	var record models.ProjectAccess
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ProjectAccess{}, domain.NotFoundError{Resource: "project access"}
		}
		return domain.ProjectAccess{}, err
	}
	return accessToDomain(record), nil
}

// Upsert keeps at most one grant per (project, user) pair: an existing row
// gets its level and GrantedAt refreshed instead of a second row appearing.
func (r *AccessRepository) Upsert(ctx context.Context, access domain.ProjectAccess) error {
	record := models.ProjectAccess{
		ProjectID:   access.ProjectID,
		UserID:      access.UserID,
		AccessLevel: string(access.AccessLevel),
		GrantedAt:   time.Now().UTC(),
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"access_level": record.AccessLevel,
			"granted_at":   record.GrantedAt,
		}),
	}).Create(&record).Error
}

func (r *AccessRepository) Delete(ctx context.Context, projectID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectAccess{}).Error
}

func (r *AccessRepository) ListByProject(ctx context.Context, projectID uint) ([]domain.ProjectAccess, error) {
	var records []models.ProjectAccess
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("granted_at").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	accesses := make([]domain.ProjectAccess, 0, len(records))
	for _, record := range records {
		accesses = append(accesses, accessToDomain(record))
	}
	return accesses, nil
}

func accessToDomain(m models.ProjectAccess) domain.ProjectAccess {
	access := domain.ProjectAccess{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		UserID:      m.UserID,
		AccessLevel: domain.AccessLevel(m.AccessLevel),
		GrantedAt:   m.GrantedAt,
	}
	if m.User.ID != 0 {
		user := userToDomain(m.User)
		access.User = &user
	}
	return access
}
