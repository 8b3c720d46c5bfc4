package repositories

import "matchmate/internal/models"

// LoveRequestRepository defines the interface for love-request data access.
type LoveRequestRepository interface {
	Create(request *models.LoveRequest) error
	// Exists reports whether a request for the exact ordered
	// (sender, receiver) pair has already been recorded.
	Exists(senderID, receiverID string) (bool, error)
}
