package repositories

import (
	"fmt"

	"matchmate/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMLoveRequestRepository is a GORM implementation of LoveRequestRepository.
type GORMLoveRequestRepository struct {
	db *gorm.DB
}

// NewGORMLoveRequestRepository creates a new instance of GORMLoveRequestRepository.
func NewGORMLoveRequestRepository(db *gorm.DB) *GORMLoveRequestRepository {
	return &GORMLoveRequestRepository{
		db: db,
	}
}

// Create inserts a new love request. The composite unique index on
// (sender_id, receiver_id) rejects concurrent duplicates; the violation
// is returned wrapped for errors.Is(err, gorm.ErrDuplicatedKey).
func (r *GORMLoveRequestRepository) Create(request *models.LoveRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	if err := r.db.Create(request).Error; err != nil {
		return fmt.Errorf("failed to create love request: %w", err)
	}
	return nil
}

// Exists reports whether a love request for the ordered pair is recorded.
func (r *GORMLoveRequestRepository) Exists(senderID, receiverID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.LoveRequest{}).
		Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existing love request: %w", err)
	}
	return count > 0, nil
}
