package repositories

import "matchmate/internal/models"

// GiftRepository defines the interface for gift data access. Gifts are
// append-only in this API; there is no read or delete path.
type GiftRepository interface {
	Create(gift *models.Gift) error
}
