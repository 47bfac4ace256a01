package repository

import (
	"github.com/mkrajewski/task-manager-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// AddToken persists a newly issued session token
func (r *GormUserRepository) AddToken(token *models.AuthToken) error {
	return r.db.Create(token).Error
}

// RemoveToken deletes a single session token. Removing a token that is not
// stored is not an error; the token set simply stays unchanged.
func (r *GormUserRepository) RemoveToken(userID uint64, token string) error {
	return r.db.Where("user_id = ? AND token = ?", userID, token).
		Delete(&models.AuthToken{}).Error
}

// HasToken reports whether the token is currently stored for the user
func (r *GormUserRepository) HasToken(userID uint64, token string) (bool, error) {
	var count int64
	err := r.db.Model(&models.AuthToken{}).
		Where("user_id = ? AND token = ?", userID, token).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
