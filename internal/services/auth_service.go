package services

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"matchmate/internal/models"
	"matchmate/internal/repositories"
	"matchmate/pkg/mailer"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Signup input format rules. The password rule from the product spec
// (at least 6 characters, one uppercase, one special character, no two
// consecutive special characters) is split into separate expressions
// because RE2 has no lookahead.
var (
	namePattern        = regexp.MustCompile(`^[A-Za-z]+( [A-Za-z]+)*$`)
	usernamePattern    = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)
	usernameDoubleSep  = regexp.MustCompile(`[_.]{2}`)
	emailPattern       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneNumberPattern = regexp.MustCompile(`^[0-9]{11}$`)
	upperPattern       = regexp.MustCompile(`[A-Z]`)
	specialPattern     = regexp.MustCompile(`[^a-zA-Z0-9]`)
	doubleSpecial      = regexp.MustCompile(`[^a-zA-Z0-9]{2}`)
)

// TokenClaims is the identity embedded in every signed token.
type TokenClaims struct {
	ID       string
	Email    string
	Username string
}

// SignUpRequest carries the raw signup form fields.
type SignUpRequest struct {
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Username        string   `json:"username"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"confirmPassword"`
	PhoneNumber     string   `json:"phoneNumber"`
	Gender          string   `json:"gender"`
	InterestedIn    string   `json:"interestedIn"`
	Hobbies         []string `json:"hobbies"`
}

// AuthService handles credentials, signed tokens and the account
// lifecycle: signup, email verification, resend and login.
type AuthService struct {
	userRepo   repositories.UserRepository
	mail       mailer.Mailer
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which a signed token is valid
	baseURL    string        // Public base URL used to build verification links
}

// NewAuthService creates a new AuthService. The JWT secret is immutable
// configuration loaded at process start.
func NewAuthService(userRepo repositories.UserRepository, mail mailer.Mailer, jwtSecret, baseURL string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		mail:       mail,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Verification and session tokens valid for 24 hours
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// IssueToken produces a signed HS256 token embedding the identity claims
// with the service's standard 24h expiry.
func (s *AuthService) IssueToken(claims TokenClaims) (string, error) {
	mapClaims := jwt.MapClaims{
		"id":    claims.ID,
		"email": claims.Email,
		"exp":   time.Now().Add(s.tokenDurat).Unix(),
		"iat":   time.Now().Unix(),
	}
	if claims.Username != "" {
		mapClaims["username"] = claims.Username
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken parses and checks a signed token. The outcome is
// three-way: claims with a nil error for a valid token, ErrTokenExpired
// for a correctly signed but stale one, and ErrTokenInvalid for anything
// tampered or malformed.
func (s *AuthService) VerifyToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	out := &TokenClaims{}
	if id, ok := claims["id"].(string); ok {
		out.ID = id
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if username, ok := claims["username"].(string); ok {
		out.Username = username
	}
	return out, nil
}

// HashPassword hashes a plaintext password with bcrypt at the default
// cost (10 rounds).
func (s *AuthService) HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func (s *AuthService) CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// validateSignUp runs the ordered signup validation pipeline: required
// fields first, then normalization, then format rules. The first failing
// check wins. The request is normalized in place.
func validateSignUp(req *SignUpRequest) *ValidationError {
	if strings.TrimSpace(req.FirstName) == "" {
		return NewValidationError("First name is required.")
	}
	if strings.TrimSpace(req.LastName) == "" {
		return NewValidationError("Last name is required.")
	}
	if strings.TrimSpace(req.Username) == "" {
		return NewValidationError("Username is required.")
	}
	if strings.TrimSpace(req.Email) == "" {
		return NewValidationError("Email is required.")
	}
	if req.Password == "" {
		return NewValidationError("Password is required.")
	}
	if req.ConfirmPassword == "" {
		return NewValidationError("Confirm password is required.")
	}
	if strings.TrimSpace(req.PhoneNumber) == "" {
		return NewValidationError("Phone number is required.")
	}
	if strings.TrimSpace(req.Gender) == "" {
		return NewValidationError("Gender is required.")
	}
	if strings.TrimSpace(req.InterestedIn) == "" {
		return NewValidationError("InterestedIn field is required.")
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.Gender = strings.ToLower(strings.TrimSpace(req.Gender))
	req.InterestedIn = strings.ToLower(strings.TrimSpace(req.InterestedIn))

	if !namePattern.MatchString(req.FirstName) {
		return NewValidationError("Invalid first name format.")
	}
	if !namePattern.MatchString(req.LastName) {
		return NewValidationError("Invalid last name format.")
	}
	if !usernamePattern.MatchString(req.Username) || usernameDoubleSep.MatchString(req.Username) {
		return NewValidationError("Invalid username format.")
	}
	if !emailPattern.MatchString(req.Email) {
		return NewValidationError("Invalid email format.")
	}
	if !validPassword(req.Password) {
		return NewValidationError("Password must be at least 6 characters, contain an uppercase letter, one special character, and no consecutive special characters.")
	}
	if req.Password != req.ConfirmPassword {
		return NewValidationError("Passwords do not match.")
	}
	if !phoneNumberPattern.MatchString(req.PhoneNumber) {
		return NewValidationError("Phone number must be exactly 11 digits.")
	}
	if !contains(models.ValidGenders, req.Gender) {
		return NewValidationError("Invalid gender value.")
	}
	if !contains(models.ValidInterestedIn, req.InterestedIn) {
		return NewValidationError("Invalid interestedIn value.")
	}
	return nil
}

func validPassword(password string) bool {
	return len(password) >= 6 &&
		upperPattern.MatchString(password) &&
		specialPattern.MatchString(password) &&
		!doubleSpecial.MatchString(password)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// SignUp validates the form, enforces the uniqueness triple, persists an
// unverified account and dispatches the verification email. The account
// survives a mail delivery failure; recovery is the resend endpoint.
func (s *AuthService) SignUp(req SignUpRequest) (*models.User, error) {
	if vErr := validateSignUp(&req); vErr != nil {
		return nil, vErr
	}

	existing, err := s.userRepo.FindExisting(req.Email, req.PhoneNumber, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch {
		case existing.Email == req.Email:
			return nil, NewConflictError("Email already in use.")
		case existing.PhoneNumber == req.PhoneNumber:
			return nil, NewConflictError("Phone number already in use.")
		case existing.Username == req.Username:
			return nil, NewConflictError("Username already in use.")
		}
	}

	hashed, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		Password:     hashed,
		PhoneNumber:  req.PhoneNumber,
		Gender:       req.Gender,
		InterestedIn: req.InterestedIn,
		Hobbies:      req.Hobbies,
		IsVerified:   false,
	}
	if err := s.userRepo.Create(user); err != nil {
		// Two signups racing past the pre-check both reach the insert;
		// the unique index rejects the loser and we report it the same
		// way the pre-check would have.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewConflictError("Email, phone number, or username already in use.")
		}
		return nil, err
	}

	if err := s.sendVerificationMail(user, mailer.SubjectVerify, mailer.WelcomeEmail); err != nil {
		return nil, err
	}
	return user, nil
}

// sendVerificationMail issues a fresh 24h token, builds the verification
// link and dispatches it with the given template.
func (s *AuthService) sendVerificationMail(user *models.User, subject string, template func(firstName, verifyLink string) string) error {
	token, err := s.IssueToken(TokenClaims{ID: user.ID, Email: user.Email})
	if err != nil {
		return err
	}
	verifyLink := fmt.Sprintf("%s/api/v1/verify/%s/%s", s.baseURL, user.ID, token)
	if err := s.mail.Send(user.Email, subject, template(user.FirstName, verifyLink)); err != nil {
		return fmt.Errorf("failed to send verification email to %s: %w", user.Email, err)
	}
	return nil
}

// VerifyEmail checks a verification link. Verifying an already-verified
// account is an idempotent success (alreadyVerified true, no mutation).
// An expired token triggers a fresh mail and ErrLinkExpired — a recovery
// path, not a hard failure. A tampered token is rejected outright.
func (s *AuthService) VerifyEmail(accountID, token string) (user *models.User, alreadyVerified bool, err error) {
	user, err = s.userRepo.GetByID(accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}

	if user.IsVerified {
		return user, true, nil
	}

	if _, err := s.VerifyToken(token); err != nil {
		if errors.Is(err, ErrTokenExpired) {
			if sendErr := s.sendVerificationMail(user, mailer.SubjectExpired, mailer.ExpiredLinkEmail); sendErr != nil {
				return nil, false, sendErr
			}
			return nil, false, ErrLinkExpired
		}
		return nil, false, NewValidationError("Invalid token. Authentication failed.")
	}

	user.IsVerified = true
	if err := s.userRepo.Save(user); err != nil {
		return nil, false, err
	}
	return user, false, nil
}

// ResendVerification issues a fresh verification mail for the account
// behind the given email. Already-verified accounts are not blocked from
// requesting a resend; the extra mail is harmless.
func (s *AuthService) ResendVerification(email string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.sendVerificationMail(user, mailer.SubjectReverify, mailer.ReverifyEmail)
}

// LogIn authenticates by email and password and issues a 24h session
// token. Unverified accounts are rejected with ErrNotVerified before the
// password is even checked; a wrong password yields the deliberately
// generic ErrBadCredentials.
func (s *AuthService) LogIn(email, password string) (*models.User, string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	if !user.IsVerified {
		return nil, "", ErrNotVerified
	}

	if !s.CheckPassword(password, user.Password) {
		return nil, "", ErrBadCredentials
	}

	token, err := s.IssueToken(TokenClaims{ID: user.ID, Email: user.Email, Username: user.Username})
	if err != nil {
		log.Printf("Failed to issue session token for user %s: %v", user.ID, err)
		return nil, "", err
	}
	return user, token, nil
}
