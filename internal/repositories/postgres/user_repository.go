package postgres

import (
	"fmt"

	"gradpolls/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user; the unique indexes on username and email reject
// duplicates inside the insert itself, so concurrent registrations cannot
// race past a pre-check.
func (r *UserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) SearchByUsername(query string) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Where("username LIKE ?", "%"+query+"%").
		Order("username").
		Limit(20).
		Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// SetPrivacy flips the privacy flag only. Existing follow edges and pending
// requests are left untouched.
func (r *UserRepository) SetPrivacy(userID uint, private bool) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_private", private).Error
}

func (r *UserRepository) CountPolls(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Poll{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
