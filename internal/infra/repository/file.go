package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ybalashov/bimvault/internal/domain"
	"github.com/ybalashov/bimvault/internal/infra/database/models"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

// AddFiles persists a batch of uploads in one transaction so a partial
// upload never leaves half the batch behind.
func (r *FileRepository) AddFiles(ctx context.Context, projectID uint, files []domain.ProjectFile) ([]domain.ProjectFile, error) {
	records := make([]models.ProjectFile, 0, len(files))
	now := time.Now().UTC()
	for _, f := range files {
		records = append(records, models.ProjectFile{
			ProjectID:    projectID,
			FileName:     f.FileName,
			FileData:     f.FileData,
			ContentType:  f.ContentType,
			LastModified: now,
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range records {
			if err := tx.Create(&records[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	saved := make([]domain.ProjectFile, 0, len(records))
	for _, record := range records {
		saved = append(saved, fileToDomain(record))
	}
	return saved, nil
}

func (r *FileRepository) GetByID(ctx context.Context, id uint) (domain.ProjectFile, error) {
	var record models.ProjectFile
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ProjectFile{}, domain.NotFoundError{Resource: "file"}
		}
		return domain.ProjectFile{}, err
	}
	return fileToDomain(record), nil
}

// UpdateContent overwrites the blob and content type. FileName, ProjectID
// and the row identity stay untouched.
func (r *FileRepository) UpdateContent(ctx context.Context, id uint, data []byte, contentType string) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProjectFile{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"file_data":     data,
			"content_type":  contentType,
			"last_modified": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "file"}
	}
	return nil
}

// UpdateName changes only the stored name. The blob stays untouched.
func (r *FileRepository) UpdateName(ctx context.Context, id uint, name string) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProjectFile{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"file_name":     name,
			"last_modified": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "file"}
	}
	return nil
}

func (r *FileRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.ProjectFile{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "file"}
	}
	return nil
}

// ListByProject returns full rows including blobs, for archive assembly.
func (r *FileRepository) ListByProject(ctx context.Context, projectID uint) ([]domain.ProjectFile, error) {
	var records []models.ProjectFile
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	files := make([]domain.ProjectFile, 0, len(records))
	for _, record := range records {
		files = append(files, fileToDomain(record))
	}
	return files, nil
}

// ListInfoByProject skips the blob column for listings.
func (r *FileRepository) ListInfoByProject(ctx context.Context, projectID uint) ([]domain.FileInfo, error) {
	var records []models.ProjectFile
	err := r.db.WithContext(ctx).
		Select("id", "file_name", "created_at", "last_modified").
		Where("project_id = ?", projectID).
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	infos := make([]domain.FileInfo, 0, len(records))
	for _, record := range records {
		infos = append(infos, domain.FileInfo{
			ID:           record.ID,
			FileName:     record.FileName,
			CreatedAt:    record.CreatedAt,
			LastModified: record.LastModified,
		})
	}
	return infos, nil
}

func fileToDomain(m models.ProjectFile) domain.ProjectFile {
	return domain.ProjectFile{
		ID:           m.ID,
		ProjectID:    m.ProjectID,
		FileName:     m.FileName,
		FileData:     m.FileData,
		ContentType:  m.ContentType,
		CreatedAt:    m.CreatedAt,
		LastModified: m.LastModified,
	}
}
