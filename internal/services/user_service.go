package services

import (
	"errors"

	"matchmate/internal/models"
	"matchmate/internal/repositories"
)

// UserService handles business logic for profile discovery and account
// removal.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetUsersByInterest returns all users whose gender matches the caller's
// filter ("both" widens to male and female), excluding the caller.
func (s *UserService) GetUsersByInterest(callerID, interestedIn string) ([]models.User, error) {
	if !contains(models.ValidInterestedIn, interestedIn) {
		return nil, NewValidationError("Invalid filter. Choose 'male', 'female', or 'both'.")
	}

	if _, err := s.userRepo.GetByID(callerID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	genders := []string{interestedIn}
	if interestedIn == "both" {
		genders = []string{"male", "female"}
	}
	return s.userRepo.FindByGenders(genders, callerID)
}

// GetUsersByHobbies returns all users sharing at least one hobby with
// the requested set, excluding the caller. An empty result is reported
// as ErrNotFound rather than an empty success list.
func (s *UserService) GetUsersByHobbies(callerID string, hobbies []string) ([]models.User, error) {
	if len(hobbies) == 0 {
		return nil, NewValidationError("Please provide at least one hobby to search.")
	}

	// Hobbies live in a JSON-serialized column, so the set intersection
	// happens here instead of in SQL; that keeps the query portable
	// across the sqlite and postgres drivers.
	candidates, err := s.userRepo.FindAllExcept(callerID)
	if err != nil {
		return nil, err
	}

	matched := make([]models.User, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.HasAnyHobby(hobbies) {
			matched = append(matched, candidate)
		}
	}
	if len(matched) == 0 {
		return nil, ErrNotFound
	}
	return matched, nil
}

// GetUserDetails fetches a single profile by ID.
func (s *UserService) GetUserDetails(id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// DeleteAccount hard-deletes the account. Love requests, gifts and
// reports referencing the account are left dangling; nothing cascades.
func (s *UserService) DeleteAccount(id string) error {
	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
