package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ybalashov/bimvault/internal/domain"
	"github.com/ybalashov/bimvault/internal/infra/database/models"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	record := models.Comment{
		FileID:       comment.FileID,
		UserID:       comment.UserID,
		Text:         comment.Text,
		ElementName:  comment.ElementName,
		ElementID:    comment.ElementID,
		LastModified: time.Now().UTC(),
	}

	err := r.db.WithContext(ctx).Create(&record).Error
	if err != nil {
		return domain.Comment{}, err
	}
	return commentToDomain(record), nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id uint) (domain.Comment, error) {
	var record models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Comment{}, domain.NotFoundError{Resource: "comment"}
		}
		return domain.Comment{}, err
	}
	return commentToDomain(record), nil
}

func (r *CommentRepository) ListByFile(ctx context.Context, fileID uint) ([]domain.Comment, error) {
	var records []models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("file_id = ?", fileID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, 0, len(records))
	for _, record := range records {
		comments = append(comments, commentToDomain(record))
	}
	return comments, nil
}

// Update replaces the mutable fields wholesale and bumps LastModified.
func (r *CommentRepository) Update(ctx context.Context, comment domain.Comment) error {
	result := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", comment.ID).
		Updates(map[string]any{
			"text":          comment.Text,
			"element_name":  comment.ElementName,
			"element_id":    comment.ElementID,
			"last_modified": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "comment"}
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "comment"}
	}
	return nil
}

func commentToDomain(m models.Comment) domain.Comment {
	comment := domain.Comment{
		ID:           m.ID,
		FileID:       m.FileID,
		UserID:       m.UserID,
		Text:         m.Text,
		ElementName:  m.ElementName,
		ElementID:    m.ElementID,
		CreatedAt:    m.CreatedAt,
		LastModified: m.LastModified,
	}
	if m.User.ID != 0 {
		user := userToDomain(m.User)
		comment.User = &user
	}
	return comment
}
