package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ybalashov/bimvault/internal/domain"
	"github.com/ybalashov/bimvault/internal/infra/database/models"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create persists the project and seeds the creator's explicit Admin grant
// in the same transaction. The creator's rights never depend on that row,
// but the ledger listing should show the creator like any other member.
func (r *ProjectRepository) Create(ctx context.Context, project domain.Project) (domain.Project, error) {
	record := models.Project{
		CreatorID:    project.CreatorID,
		Title:        project.Title,
		LastModified: time.Now().UTC(),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Create(&models.ProjectAccess{
			ProjectID:   record.ID,
			UserID:      record.CreatorID,
			AccessLevel: string(domain.AccessAdmin),
			GrantedAt:   time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return domain.Project{}, err
	}

	return projectToDomain(record), nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uint) (domain.Project, error) {
	var record models.Project
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Project{}, domain.NotFoundError{Resource: "project"}
		}
		return domain.Project{}, err
	}
	return projectToDomain(record), nil
}

func (r *ProjectRepository) UpdateTitle(ctx context.Context, id uint, title string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":         title,
			"last_modified": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "project"}
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "project"}
	}
	return nil
}

// ListByUser returns projects the user created or holds a grant on.
func (r *ProjectRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Project, error) {
	var records []models.Project
	err := r.db.WithContext(ctx).
		Distinct("projects.*").
		Joins("LEFT JOIN project_accesses ON project_accesses.project_id = projects.id").
		Where("projects.creator_id = ? OR project_accesses.user_id = ?", userID, userID).
		Order("projects.id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	projects := make([]domain.Project, 0, len(records))
	for _, record := range records {
		projects = append(projects, projectToDomain(record))
	}
	return projects, nil
}

func (r *ProjectRepository) ListAll(ctx context.Context, offset, limit int) ([]domain.Project, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var records []models.Project
	err = r.db.WithContext(ctx).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	projects := make([]domain.Project, 0, len(records))
	for _, record := range records {
		projects = append(projects, projectToDomain(record))
	}
	return projects, total, nil
}

func projectToDomain(m models.Project) domain.Project {
	return domain.Project{
		ID:           m.ID,
		CreatorID:    m.CreatorID,
		Title:        m.Title,
		CreatedAt:    m.CreatedAt,
		LastModified: m.LastModified,
	}
}
