package models

import "time"

// Report statuses. A report is created as pending; reviewed/resolved
// transitions are administrative and not exposed by any handler.
const (
	ReportStatusPending  = "pending"
	ReportStatusReviewed = "reviewed"
	ReportStatusResolved = "resolved"
)

// Report is a moderation record flagging one user's behavior, raised by
// another user. Reporter and reported ids are weak references; deleting
// an account does not remove its reports.
type Report struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ReporterID     string    `json:"reporterId" gorm:"type:varchar(36)"`
	ReportedUserID string    `json:"reportedUserId" gorm:"type:varchar(36)"`
	Reason         string    `json:"reason" validate:"required"`
	Details        string    `json:"details,omitempty"`
	Status         string    `json:"status" gorm:"type:varchar(10);default:pending"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
