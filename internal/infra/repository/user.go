package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ybalashov/bimvault/internal/domain"
	"github.com/ybalashov/bimvault/internal/infra/database/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	record := models.User{
		Login:           user.Login,
		DisplayName:     user.DisplayName,
		Surname:         user.Surname,
		Email:           user.Email,
		PasswordHash:    user.PasswordHash,
		CompanyName:     user.CompanyName,
		CompanyPosition: user.CompanyPosition,
	}

	err := r.db.WithContext(ctx).Create(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.User{}, domain.ConflictError{Message: "user already exists"}
		}
		return domain.User{}, err
	}

	return userToDomain(record), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (domain.User, error) {
	var record models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.NotFoundError{Resource: "user"}
		}
		return domain.User{}, err
	}
	return userToDomain(record), nil
}

// GetByIdentifier matches the identifier against login or email, the way
// the login flow has always resolved accounts.
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	var record models.User
	err := r.db.WithContext(ctx).
		Where("login = ? OR email = ?", identifier, identifier).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.NotFoundError{Resource: "user"}
		}
		return domain.User{}, err
	}
	return userToDomain(record), nil
}

func (r *UserRepository) ExistsByLoginOrEmail(ctx context.Context, login, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("login = ? OR email = ?", login, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var records []models.User
	err = r.db.WithContext(ctx).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	users := make([]domain.User, 0, len(records))
	for _, record := range records {
		users = append(users, userToDomain(record))
	}
	return users, total, nil
}

func userToDomain(m models.User) domain.User {
	return domain.User{
		ID:              m.ID,
		Login:           m.Login,
		DisplayName:     m.DisplayName,
		Surname:         m.Surname,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		CompanyName:     m.CompanyName,
		CompanyPosition: m.CompanyPosition,
	}
}
