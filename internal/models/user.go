package models

import "time"

// Valid values for the User.Gender and User.InterestedIn fields.
var (
	ValidGenders      = []string{"male", "female", "other"}
	ValidInterestedIn = []string{"male", "female", "both"}
)

// User represents a registered member profile.
//
// Username, Email and PhoneNumber each carry a unique index; the indexes
// are the backstop for the check-then-insert race on signup. The password
// hash is never serialized.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	FirstName    string    `json:"firstName" gorm:"type:varchar(100)" validate:"required"`
	LastName     string    `json:"lastName" gorm:"type:varchar(100)" validate:"required"`
	Username     string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password     string    `json:"-" gorm:"type:varchar(255)"`
	PhoneNumber  string    `json:"phoneNumber" gorm:"uniqueIndex;type:varchar(20)" validate:"required"`
	Gender       string    `json:"gender" gorm:"type:varchar(10)" validate:"required,oneof=male female other"`
	InterestedIn string    `json:"interestedIn" gorm:"type:varchar(10)" validate:"required,oneof=male female both"`
	Hobbies      []string  `json:"hobbies" gorm:"serializer:json"`
	IsVerified   bool      `json:"isVerified" gorm:"default:false"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasAnyHobby reports whether the user shares at least one hobby with the
// given set.
func (u *User) HasAnyHobby(hobbies []string) bool {
	for _, want := range hobbies {
		for _, have := range u.Hobbies {
			if have == want {
				return true
			}
		}
	}
	return false
}
