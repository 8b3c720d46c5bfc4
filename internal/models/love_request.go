package models

import "time"

// LoveRequest is a directed expression of interest from one user to
// another. The composite unique index on (sender_id, receiver_id) means a
// pair can exist at most once per direction; the reverse direction is a
// separate, independently allowed record.
type LoveRequest struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SenderID   string    `json:"senderId" gorm:"uniqueIndex:idx_love_request_pair;type:varchar(36)"`
	ReceiverID string    `json:"receiverId" gorm:"uniqueIndex:idx_love_request_pair;type:varchar(36)"`
	CreatedAt  time.Time `json:"createdAt"`
}
