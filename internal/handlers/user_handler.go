package handlers

import (
	"fmt"
	"log"
	"strings"

	"matchmate/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for profile discovery, account
// details, account deletion and moderation reports. All routes require a
// valid bearer token.
type UserHandler struct {
	userService   *services.UserService
	reportService *services.ReportService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, reportService *services.ReportService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		reportService: reportService,
	}
}

// RegisterRoutes registers the protected user routes behind the given
// auth middleware.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/users", auth, h.HandleGetUsersByInterest)
	router.Get("/users-by-hobbies", auth, h.HandleGetUsersByHobbies)
	router.Get("/user/:id?", auth, h.HandleGetUserDetails)
	router.Delete("/user/delete", auth, h.HandleDeleteAccount)
	router.Post("/report", auth, h.HandleReportUser)
}

// HandleGetUsersByInterest filters profiles by the interestedIn query
// parameter (male, female or both), excluding the caller.
func (h *UserHandler) HandleGetUsersByInterest(c *fiber.Ctx) error {
	interestedIn := strings.ToLower(strings.TrimSpace(c.Query("interestedIn")))

	users, err := h.userService.GetUsersByInterest(callerID(c), interestedIn)
	if err != nil {
		return respondServiceError(c, err, "User not found.", "An error occurred while fetching users.")
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Users interested in %s found.", interestedIn),
		"users":   users,
	})
}

// HandleGetUsersByHobbies filters profiles by hobby overlap. The hobbies
// query parameter may repeat or hold a comma-joined list. No matches is
// a 404, not an empty success list.
func (h *UserHandler) HandleGetUsersByHobbies(c *fiber.Ctx) error {
	var hobbies []string
	for _, raw := range c.Context().QueryArgs().PeekMulti("hobbies") {
		for _, hobby := range strings.Split(string(raw), ",") {
			if trimmed := strings.TrimSpace(hobby); trimmed != "" {
				hobbies = append(hobbies, trimmed)
			}
		}
	}

	users, err := h.userService.GetUsersByHobbies(callerID(c), hobbies)
	if err != nil {
		return respondServiceError(c, err, "No users found with the specified hobbies.", "An error occurred while fetching users.")
	}

	return c.JSON(fiber.Map{
		"message": "Users fetched successfully.",
		"data":    users,
	})
}

// HandleGetUserDetails fetches a single profile, defaulting to the
// caller's own when no path id is given.
func (h *UserHandler) HandleGetUserDetails(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		id = callerID(c)
	}

	user, err := h.userService.GetUserDetails(id)
	if err != nil {
		return respondServiceError(c, err, "User not found.", "An error occurred while fetching user details.")
	}

	return c.JSON(fiber.Map{
		"message": "User details fetched successfully.",
		"data":    user,
	})
}

// HandleDeleteAccount hard-deletes the caller's own account.
func (h *UserHandler) HandleDeleteAccount(c *fiber.Ctx) error {
	if err := h.userService.DeleteAccount(callerID(c)); err != nil {
		return respondServiceError(c, err, "User not found.", "An error occurred while deleting the account.")
	}

	return c.JSON(fiber.Map{
		"message": "Account deleted successfully.",
	})
}

// ReportRequest represents the request body for filing a report.
type ReportRequest struct {
	ReportedUserID string `json:"reportedUserId"`
	Reason         string `json:"reason"`
	Details        string `json:"details"`
}

// HandleReportUser files a moderation report against another profile.
func (h *UserHandler) HandleReportUser(c *fiber.Ctx) error {
	var req ReportRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing report request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if _, err := h.reportService.ReportUser(callerID(c), req.ReportedUserID, req.Reason, req.Details); err != nil {
		return respondServiceError(c, err, "User to be reported not found.", "An error occurred while reporting the profile.")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Profile reported successfully. Our team will review the report.",
	})
}
