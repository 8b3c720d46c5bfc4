package handlers

import (
	"fmt"
	"log"

	"matchmate/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// MatchHandler handles HTTP requests for love requests and gifts. All
// routes require a valid bearer token.
type MatchHandler struct {
	matchService *services.MatchService
	validate     *validator.Validate
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(matchService *services.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the protected match routes behind the given
// auth middleware.
func (h *MatchHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/love-request/send", auth, h.HandleSendLoveRequest)
	router.Post("/send-gift", auth, h.HandleSendGift)
}

// LoveRequestRequest represents the request body for sending a love
// request.
type LoveRequestRequest struct {
	ReceiverUsername string `json:"receiverUsername" validate:"required"`
}

// HandleSendLoveRequest sends a love request to the user behind the
// given username.
func (h *MatchHandler) HandleSendLoveRequest(c *fiber.Ctx) error {
	var req LoveRequestRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing love request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Receiver username is required.",
		})
	}

	if err := h.matchService.SendLoveRequest(callerID(c), req.ReceiverUsername); err != nil {
		return respondServiceError(c, err, "User not found.", "An error occurred while sending the love request.")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Love request sent successfully.",
	})
}

// GiftRequest represents the request body for sending a gift.
type GiftRequest struct {
	ReceiverUsername string `json:"receiverUsername" validate:"required"`
	GiftType         string `json:"giftType" validate:"required"`
	Message          string `json:"message"`
}

// HandleSendGift sends a gift to the user behind the given username.
func (h *MatchHandler) HandleSendGift(c *fiber.Ctx) error {
	var req GiftRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing gift request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Receiver username and gift type are required.",
		})
	}

	gift, err := h.matchService.SendGift(callerID(c), req.ReceiverUsername, req.GiftType, req.Message)
	if err != nil {
		return respondServiceError(c, err, "Receiver not found.", "An error occurred while sending the gift.")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": fmt.Sprintf("Gift sent successfully to %s", req.ReceiverUsername),
		"gift":    gift,
	})
}
