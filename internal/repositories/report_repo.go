package repositories

import "matchmate/internal/models"

// ReportRepository defines the interface for moderation-report data
// access. Status transitions are administrative and have no handler, so
// only creation is exposed.
type ReportRepository interface {
	Create(report *models.Report) error
}
