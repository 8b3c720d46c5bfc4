package repositories

import "matchmate/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	Save(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	// FindExisting returns the first user matching any of the three
	// identifiers, or nil when none match. Used as the combined
	// pre-insert uniqueness lookup on signup.
	FindExisting(email, phoneNumber, username string) (*models.User, error)
	FindByGenders(genders []string, excludeID string) ([]models.User, error)
	FindAllExcept(excludeID string) ([]models.User, error)
	Delete(id string) error
}
