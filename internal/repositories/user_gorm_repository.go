package repositories

import (
	"fmt"

	"matchmate/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrUserNotFound is returned when a lookup matches no user row.
var ErrUserNotFound = gorm.ErrRecordNotFound

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a new user. Unique-index violations are returned wrapped
// so callers can detect them with errors.Is(err, gorm.ErrDuplicatedKey).
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Save persists changes to an existing user.
func (r *GORMUserRepository) Save(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to save user %s: %w", user.ID, err)
	}
	return nil
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with ID %s: %w", id, ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their (normalized) email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByUsername retrieves a user by their username.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with username %s: %w", username, ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// FindExisting returns the first user holding any of the three unique
// identifiers, or nil when the identifiers are all free.
func (r *GORMUserRepository) FindExisting(email, phoneNumber, username string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ? OR phone_number = ? OR username = ?",
		email, phoneNumber, username).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	return &user, nil
}

// FindByGenders retrieves all users whose gender is in the given set,
// excluding the given user ID.
func (r *GORMUserRepository) FindByGenders(genders []string, excludeID string) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("gender IN ?", genders).
		Where("id <> ?", excludeID).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find users by gender: %w", err)
	}
	return users, nil
}

// FindAllExcept retrieves every user except the one with the given ID.
func (r *GORMUserRepository) FindAllExcept(excludeID string) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("id <> ?", excludeID).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Delete removes a user by ID. It is a hard delete; related love
// requests, gifts and reports are left in place.
func (r *GORMUserRepository) Delete(id string) error {
	res := r.db.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s: %w", id, ErrUserNotFound)
	}
	return nil
}
