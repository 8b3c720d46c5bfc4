package services

import (
	"encoding/json"
	"errors"
	"log"
	"strings"

	"matchmate/internal/models"
	"matchmate/internal/repositories"

	"gorm.io/gorm"
)

// EventPublisher publishes a domain event to the message broker. The
// concrete implementation is pkg/rabbitmq; services tolerate a nil
// publisher so the broker stays optional.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// MatchService handles love requests and gifts between users.
type MatchService struct {
	userRepo repositories.UserRepository
	loveRepo repositories.LoveRequestRepository
	giftRepo repositories.GiftRepository
	events   EventPublisher
}

// NewMatchService creates a new MatchService.
func NewMatchService(userRepo repositories.UserRepository, loveRepo repositories.LoveRequestRepository, giftRepo repositories.GiftRepository, events EventPublisher) *MatchService {
	return &MatchService{
		userRepo: userRepo,
		loveRepo: loveRepo,
		giftRepo: giftRepo,
		events:   events,
	}
}

// publishEvent marshals and publishes a domain event. Broker trouble is
// logged and never fails the request.
func (s *MatchService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.events.Publish(routingKey, body); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", routingKey, err)
	}
}

// SendLoveRequest records a directed expression of interest. The ordered
// (sender, receiver) pair must not already exist; the reverse direction
// is a separate pair and independently allowed.
func (s *MatchService) SendLoveRequest(senderID, receiverUsername string) error {
	receiver, err := s.userRepo.GetByUsername(strings.TrimSpace(receiverUsername))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}

	if receiver.ID == senderID {
		return NewValidationError("You cannot send a love request to yourself.")
	}

	exists, err := s.loveRepo.Exists(senderID, receiver.ID)
	if err != nil {
		return err
	}
	if exists {
		return NewConflictError("Love request already sent.")
	}

	request := &models.LoveRequest{
		SenderID:   senderID,
		ReceiverID: receiver.ID,
	}
	if err := s.loveRepo.Create(request); err != nil {
		// The composite unique index catches the race between the
		// existence check and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return NewConflictError("Love request already sent.")
		}
		return err
	}

	s.publishEvent("love_request.sent", map[string]interface{}{
		"requestID":  request.ID,
		"senderID":   senderID,
		"receiverID": receiver.ID,
	})
	return nil
}

// SendGift records a gift between users. Gifts carry no duplicate
// prevention; sending the same gift twice creates two records.
func (s *MatchService) SendGift(senderID, receiverUsername, giftType, message string) (*models.Gift, error) {
	receiver, err := s.userRepo.GetByUsername(strings.TrimSpace(receiverUsername))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if receiver.ID == senderID {
		return nil, NewValidationError("You cannot send a gift to yourself.")
	}

	gift := &models.Gift{
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		GiftType:   giftType,
		Message:    message,
	}
	if err := s.giftRepo.Create(gift); err != nil {
		return nil, err
	}

	s.publishEvent("gift.sent", map[string]interface{}{
		"giftID":     gift.ID,
		"senderID":   senderID,
		"receiverID": receiver.ID,
		"giftType":   giftType,
	})
	return gift, nil
}
