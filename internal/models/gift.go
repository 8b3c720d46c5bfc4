package models

import "time"

// Gift is a directed token sent between users. Unlike love requests,
// gifts have no duplicate prevention; repeats are allowed.
type Gift struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SenderID   string    `json:"senderId" gorm:"type:varchar(36)"`
	ReceiverID string    `json:"receiverId" gorm:"type:varchar(36)"`
	GiftType   string    `json:"giftType" gorm:"type:varchar(100)" validate:"required"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
