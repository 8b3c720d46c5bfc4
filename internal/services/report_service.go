package services

import (
	"encoding/json"
	"errors"
	"log"
	"strings"

	"matchmate/internal/models"
	"matchmate/internal/repositories"
)

// ReportService handles moderation reports.
type ReportService struct {
	userRepo   repositories.UserRepository
	reportRepo repositories.ReportRepository
	events     EventPublisher
}

// NewReportService creates a new ReportService.
func NewReportService(userRepo repositories.UserRepository, reportRepo repositories.ReportRepository, events EventPublisher) *ReportService {
	return &ReportService{
		userRepo:   userRepo,
		reportRepo: reportRepo,
		events:     events,
	}
}

// ReportUser files a moderation report against another account. The
// report starts in the pending status; review transitions are handled
// out of band.
func (s *ReportService) ReportUser(reporterID, reportedUserID, reason, details string) (*models.Report, error) {
	if reportedUserID == "" {
		return nil, NewValidationError("Reported user ID is required.")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, NewValidationError("Reason for reporting is required.")
	}

	if _, err := s.userRepo.GetByID(reportedUserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if reporterID == reportedUserID {
		return nil, NewValidationError("You cannot report yourself.")
	}

	report := &models.Report{
		ReporterID:     reporterID,
		ReportedUserID: reportedUserID,
		Reason:         strings.TrimSpace(reason),
		Details:        strings.TrimSpace(details),
		Status:         models.ReportStatusPending,
	}
	if err := s.reportRepo.Create(report); err != nil {
		return nil, err
	}

	if s.events != nil {
		body, err := json.Marshal(map[string]interface{}{
			"reportID":       report.ID,
			"reporterID":     reporterID,
			"reportedUserID": reportedUserID,
			"reason":         report.Reason,
		})
		if err != nil {
			log.Printf("Failed to marshal report.created event: %v", err)
		} else if err := s.events.Publish("report.created", body); err != nil {
			log.Printf("Warning: Failed to publish report.created event: %v", err)
		}
	}
	return report, nil
}
