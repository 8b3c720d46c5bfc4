package handlers

import (
	"errors"
	"fmt"
	"log"

	"matchmate/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for the account lifecycle: signup,
// login, email verification and verification resend.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	redirectURL string // Login page the verification success page redirects to
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, redirectURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		redirectURL: redirectURL,
	}
}

// RegisterRoutes registers the public account routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/signup", h.HandleSignUp)
	router.Post("/login", h.HandleLogin)
	router.Get("/verify/:id/:token", h.HandleVerifyEmail)
	router.Post("/newemail", h.HandleResendVerification)
}

// HandleSignUp creates a new unverified account and dispatches the
// verification email. Field validation and the uniqueness triple are
// enforced by the service with field-specific messages.
func (h *AuthHandler) HandleSignUp(c *fiber.Ctx) error {
	var req services.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing signup request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	user, err := h.authService.SignUp(req)
	if err != nil {
		return respondServiceError(c, err, "User not found.", "An error occurred during sign-up.")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created successfully. Please check your email to verify your account.",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates a user and issues a session token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": fmt.Sprintf("%s is required.", validationErrors[0].Field()),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Validation failed"})
	}

	user, token, err := h.authService.LogIn(req.Email, req.Password)
	if err != nil {
		return respondServiceError(c, err, "User not found.", "An error occurred during login.")
	}

	return c.JSON(fiber.Map{
		"message": "Login successful.",
		"user":    user,
		"token":   token,
	})
}

// HandleVerifyEmail verifies an email via the signed link. The success
// path renders an HTML page with a countdown redirect to the login page;
// every other outcome is JSON.
func (h *AuthHandler) HandleVerifyEmail(c *fiber.Ctx) error {
	id := c.Params("id")
	token := c.Params("token")

	user, alreadyVerified, err := h.authService.VerifyEmail(id, token)
	if err != nil {
		if errors.Is(err, services.ErrLinkExpired) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "This link has expired. A new verification link has been sent to your email.",
			})
		}
		return respondServiceError(c, err, "User not found.", "An error occurred during verification.")
	}

	if alreadyVerified {
		return c.JSON(fiber.Map{
			"message": "Your account has already been verified.",
		})
	}

	c.Type("html")
	return c.SendString(verificationSuccessPage(user.FirstName, h.redirectURL))
}

// ResendRequest represents the request body for a verification resend.
type ResendRequest struct {
	Email string `json:"email" validate:"required"`
}

// HandleResendVerification sends a fresh verification mail for the
// given email.
func (h *AuthHandler) HandleResendVerification(c *fiber.Ctx) error {
	var req ResendRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing resend request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Email is required",
		})
	}

	if err := h.authService.ResendVerification(req.Email); err != nil {
		return respondServiceError(c, err, "User not found", "An error occurred while sending the email.")
	}

	return c.JSON(fiber.Map{
		"message": "A new verification email has been sent. Please check your inbox",
	})
}

// verificationSuccessPage builds the HTML shown after a successful email
// verification, counting down before redirecting to the login page.
func verificationSuccessPage(firstName, redirectURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Email Verified - MatchMate</title>
    <style>
        body { font-family: 'Arial', sans-serif; background-color: #ffe6e6; text-align: center; padding: 50px; }
        .container { background: white; padding: 20px; border-radius: 10px; box-shadow: 0 0 10px rgba(0, 0, 0, 0.1); display: inline-block; }
        h2 { color: #e63946; }
        p { font-size: 16px; color: #333; }
        a { display: inline-block; padding: 12px 24px; background-color: #e63946; color: white; text-decoration: none; border-radius: 8px; margin-top: 20px; font-size: 16px; }
    </style>
</head>
<body>
    <div class="container">
        <h2>Welcome to MatchMate, %s!</h2>
        <p>Your email has been verified. You're now ready to explore meaningful connections.</p>
        <p>You will be redirected to the login page in <span id="countdown">10</span> seconds.</p>
        <a href="%s">Go to Login</a>
    </div>

    <script>
        let countdown = 10;
        const countdownElement = document.getElementById('countdown');
        setInterval(() => {
            if (countdown > 0) {
                countdown--;
                countdownElement.textContent = countdown;
            } else {
                window.location.href = "%s";
            }
        }, 1000);
    </script>
</body>
</html>`, firstName, redirectURL, redirectURL)
}
