package repositories

import (
	"fmt"

	"matchmate/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMGiftRepository is a GORM implementation of GiftRepository.
type GORMGiftRepository struct {
	db *gorm.DB
}

// NewGORMGiftRepository creates a new instance of GORMGiftRepository.
func NewGORMGiftRepository(db *gorm.DB) *GORMGiftRepository {
	return &GORMGiftRepository{
		db: db,
	}
}

// Create inserts a new gift.
func (r *GORMGiftRepository) Create(gift *models.Gift) error {
	if gift.ID == "" {
		gift.ID = uuid.New().String()
	}
	if err := r.db.Create(gift).Error; err != nil {
		return fmt.Errorf("failed to create gift: %w", err)
	}
	return nil
}
