package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"matchmate/internal/handlers"
	"matchmate/internal/middleware"
	"matchmate/internal/models"
	"matchmate/internal/repositories"
	"matchmate/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// recordingMailer captures outbound mail instead of dialing a relay.
type recordingMailer struct {
	mu    sync.Mutex
	sends int
}

func (m *recordingMailer) Send(to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends++
	return nil
}

var dbCounter int64

// setupApp builds a Fiber app on a private in-memory SQLite database
// with all handlers and services wired, a recording mailer and no
// message broker.
func setupApp() (*fiber.App, *services.AuthService, *recordingMailer, error) {
	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	err = db.AutoMigrate(&models.User{}, &models.LoveRequest{}, &models.Gift{}, &models.Report{})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	loveRepo := repositories.NewGORMLoveRequestRepository(db)
	giftRepo := repositories.NewGORMGiftRepository(db)
	reportRepo := repositories.NewGORMReportRepository(db)

	mail := &recordingMailer{}
	authService := services.NewAuthService(userRepo, mail, jwtSecret, "http://localhost:8080")
	userService := services.NewUserService(userRepo)
	matchService := services.NewMatchService(userRepo, loveRepo, giftRepo, nil)
	reportService := services.NewReportService(userRepo, reportRepo, nil)

	authHandler := handlers.NewAuthHandler(authService, "http://localhost:8080/#/login")
	userHandler := handlers.NewUserHandler(userService, reportService)
	matchHandler := handlers.NewMatchHandler(matchService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	authRequired := middleware.AuthRequired(authService)

	authHandler.RegisterRoutes(apiV1)
	userHandler.RegisterRoutes(apiV1, authRequired)
	matchHandler.RegisterRoutes(apiV1, authRequired)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	return app, authService, mail, nil
}

func postJSON(t *testing.T, app *fiber.App, path, token string, body interface{}) *http.Response {
	t.Helper()
	jsonBody, err := json.Marshal(body)
	assert.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func getWithToken(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func signupForm(n int, gender, interestedIn string, hobbies ...string) map[string]interface{} {
	return map[string]interface{}{
		"firstName":       "Test",
		"lastName":        "User",
		"username":        fmt.Sprintf("test_user%d", n),
		"email":           fmt.Sprintf("test%d@example.com", n),
		"password":        "Abc!def",
		"confirmPassword": "Abc!def",
		"phoneNumber":     fmt.Sprintf("080123456%02d", n),
		"gender":          gender,
		"interestedIn":    interestedIn,
		"hobbies":         hobbies,
	}
}

// signUpVerified drives a user through signup and email verification and
// returns the account id plus a session token from login.
func signUpVerified(t *testing.T, app *fiber.App, authService *services.AuthService, n int, gender, interestedIn string, hobbies ...string) (id, token string) {
	t.Helper()

	resp := postJSON(t, app, "/api/v1/signup", "", signupForm(n, gender, interestedIn, hobbies...))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	user := body["user"].(map[string]interface{})
	id = user["id"].(string)

	verifyToken, err := authService.IssueToken(services.TokenClaims{ID: id, Email: user["email"].(string)})
	assert.NoError(t, err)
	resp = getWithToken(t, app, "/api/v1/verify/"+id+"/"+verifyToken, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, app, "/api/v1/login", "", map[string]string{
		"email":    fmt.Sprintf("test%d@example.com", n),
		"password": "Abc!def",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	token = body["token"].(string)
	return id, token
}

func TestSignupVerifyLoginFlow(t *testing.T) {
	app, authService, mail, err := setupApp()
	assert.NoError(t, err)

	// Signup creates an unverified account and sends the verification
	// mail. The response never carries the password.
	resp := postJSON(t, app, "/api/v1/signup", "", signupForm(1, "female", "male", "hiking"))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.NotContains(t, strings.ToLower(string(raw)), "password")
	var created struct {
		User models.User `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(raw, &created))
	assert.False(t, created.User.IsVerified)
	assert.Equal(t, 1, mail.sends)

	// The same email with different casing collides.
	dup := signupForm(2, "female", "male")
	dup["email"] = "TEST1@example.com"
	resp = postJSON(t, app, "/api/v1/signup", "", dup)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email already in use.", decodeBody(t, resp)["message"])

	// Same phone number collides too.
	dup = signupForm(3, "female", "male")
	dup["phoneNumber"] = "08012345601"
	resp = postJSON(t, app, "/api/v1/signup", "", dup)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Phone number already in use.", decodeBody(t, resp)["message"])

	// Login is forbidden until the email is verified.
	resp = postJSON(t, app, "/api/v1/login", "", map[string]string{"email": "test1@example.com", "password": "Abc!def"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Please verify your email to log in.", decodeBody(t, resp)["message"])

	// A valid verification link yields the HTML success page.
	verifyToken, err := authService.IssueToken(services.TokenClaims{ID: created.User.ID, Email: created.User.Email})
	assert.NoError(t, err)
	resp = getWithToken(t, app, "/api/v1/verify/"+created.User.ID+"/"+verifyToken, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(page), "countdown")

	// Verifying again is an idempotent JSON success.
	resp = getWithToken(t, app, "/api/v1/verify/"+created.User.ID+"/"+verifyToken, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Your account has already been verified.", decodeBody(t, resp)["message"])

	// A tampered token against an unverified account is a hard 400.
	resp = postJSON(t, app, "/api/v1/signup", "", signupForm(4, "male", "female"))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	other := decodeBody(t, resp)["user"].(map[string]interface{})
	resp = getWithToken(t, app, "/api/v1/verify/"+other["id"].(string)+"/bogus.token.value", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid token. Authentication failed.", decodeBody(t, resp)["message"])

	// An expired token triggers the recovery path: a fresh mail and a
	// 400 pointing at the inbox.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    other["id"],
		"email": other["email"],
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, _ := expired.SignedString([]byte("test_jwt_secret"))
	mailsBefore := mail.sends
	resp = getWithToken(t, app, "/api/v1/verify/"+other["id"].(string)+"/"+expiredString, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "This link has expired. A new verification link has been sent to your email.", decodeBody(t, resp)["message"])
	assert.Equal(t, mailsBefore+1, mail.sends)

	// Login succeeds after verification and returns a token plus the
	// sanitized profile.
	resp = postJSON(t, app, "/api/v1/login", "", map[string]string{"email": "TEST1@example.com", "password": "Abc!def"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	loginBody := decodeBody(t, resp)
	assert.NotEmpty(t, loginBody["token"])
	assert.Equal(t, "Login successful.", loginBody["message"])

	// Wrong password is a deliberately generic 400.
	resp = postJSON(t, app, "/api/v1/login", "", map[string]string{"email": "test1@example.com", "password": "Wrong!pw"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Incorrect email or password.", decodeBody(t, resp)["message"])

	// Unknown email is 404, distinct from bad credentials.
	resp = postJSON(t, app, "/api/v1/login", "", map[string]string{"email": "ghost@example.com", "password": "Abc!def"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Resend works even for the already-verified account.
	resp = postJSON(t, app, "/api/v1/newemail", "", map[string]string{"email": "test1@example.com"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestAuthMiddleware(t *testing.T) {
	app, _, _, err := setupApp()
	assert.NoError(t, err)

	// No token.
	resp := getWithToken(t, app, "/api/v1/users?interestedIn=male", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Tampered token.
	resp = getWithToken(t, app, "/api/v1/users?interestedIn=male", "garbage.token.here")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid token. Authentication failed.", decodeBody(t, resp)["message"])

	// Expired token.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "user-123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, _ := expired.SignedString([]byte("test_jwt_secret"))
	resp = getWithToken(t, app, "/api/v1/users?interestedIn=male", expiredString)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token expired. Please login again.", decodeBody(t, resp)["message"])

	// Health stays public.
	resp = getWithToken(t, app, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestDiscoveryEndpoints(t *testing.T) {
	app, authService, _, err := setupApp()
	assert.NoError(t, err)

	aliceID, aliceToken := signUpVerified(t, app, authService, 10, "female", "male", "hiking", "chess")
	_, _ = signUpVerified(t, app, authService, 11, "male", "female", "chess")
	_, _ = signUpVerified(t, app, authService, 12, "female", "both", "painting")

	// Interest filter excludes the caller and strips passwords.
	resp := getWithToken(t, app, "/api/v1/users?interestedIn=both", aliceToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.NotContains(t, strings.ToLower(string(raw)), "password")
	var interestBody struct {
		Users []models.User `json:"users"`
	}
	assert.NoError(t, json.Unmarshal(raw, &interestBody))
	assert.Len(t, interestBody.Users, 2)
	for _, u := range interestBody.Users {
		assert.NotEqual(t, aliceID, u.ID)
	}

	resp = getWithToken(t, app, "/api/v1/users?interestedIn=male", aliceToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = getWithToken(t, app, "/api/v1/users?interestedIn=aliens", aliceToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Hobby overlap, comma-joined.
	resp = getWithToken(t, app, "/api/v1/users-by-hobbies?hobbies=chess,swimming", aliceToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var hobbyBody struct {
		Data []models.User `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&hobbyBody))
	resp.Body.Close()
	assert.Len(t, hobbyBody.Data, 1)

	// No overlap is a 404, not an empty success.
	resp = getWithToken(t, app, "/api/v1/users-by-hobbies?hobbies=skydiving", aliceToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No users found with the specified hobbies.", decodeBody(t, resp)["message"])

	// Missing hobbies parameter.
	resp = getWithToken(t, app, "/api/v1/users-by-hobbies", aliceToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// User details default to the caller.
	resp = getWithToken(t, app, "/api/v1/user", aliceToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	detailsBody := decodeBody(t, resp)
	assert.Equal(t, aliceID, detailsBody["data"].(map[string]interface{})["id"])

	resp = getWithToken(t, app, "/api/v1/user/no-such-id", aliceToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestLoveRequestAndGiftEndpoints(t *testing.T) {
	app, authService, _, err := setupApp()
	assert.NoError(t, err)

	_, aliceToken := signUpVerified(t, app, authService, 20, "female", "male")
	_, bobToken := signUpVerified(t, app, authService, 21, "male", "female")

	// First request goes through.
	resp := postJSON(t, app, "/api/v1/love-request/send", aliceToken, map[string]string{"receiverUsername": "test_user21"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// An identical second request is a duplicate.
	resp = postJSON(t, app, "/api/v1/love-request/send", aliceToken, map[string]string{"receiverUsername": "test_user21"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Love request already sent.", decodeBody(t, resp)["message"])

	// The reverse direction is an independent pair.
	resp = postJSON(t, app, "/api/v1/love-request/send", bobToken, map[string]string{"receiverUsername": "test_user20"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Self-target and unknown receiver.
	resp = postJSON(t, app, "/api/v1/love-request/send", aliceToken, map[string]string{"receiverUsername": "test_user20"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "You cannot send a love request to yourself.", decodeBody(t, resp)["message"])

	resp = postJSON(t, app, "/api/v1/love-request/send", aliceToken, map[string]string{"receiverUsername": "ghost"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, app, "/api/v1/love-request/send", aliceToken, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Receiver username is required.", decodeBody(t, resp)["message"])

	// Gifts allow repeats.
	gift := map[string]string{"receiverUsername": "test_user21", "giftType": "roses", "message": "for you"}
	resp = postJSON(t, app, "/api/v1/send-gift", aliceToken, gift)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	giftBody := decodeBody(t, resp)
	assert.Equal(t, "roses", giftBody["gift"].(map[string]interface{})["giftType"])

	resp = postJSON(t, app, "/api/v1/send-gift", aliceToken, gift)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Gift requires a type.
	resp = postJSON(t, app, "/api/v1/send-gift", aliceToken, map[string]string{"receiverUsername": "test_user21"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Receiver username and gift type are required.", decodeBody(t, resp)["message"])

	resp = postJSON(t, app, "/api/v1/send-gift", aliceToken, map[string]string{"receiverUsername": "test_user20", "giftType": "roses"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "You cannot send a gift to yourself.", decodeBody(t, resp)["message"])
}

func TestReportAndDeleteEndpoints(t *testing.T) {
	app, authService, _, err := setupApp()
	assert.NoError(t, err)

	aliceID, aliceToken := signUpVerified(t, app, authService, 30, "female", "male")
	bobID, _ := signUpVerified(t, app, authService, 31, "male", "female")

	resp := postJSON(t, app, "/api/v1/report", aliceToken, map[string]string{
		"reportedUserId": bobID,
		"reason":         "harassment",
		"details":        "sent abusive messages",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Profile reported successfully. Our team will review the report.", decodeBody(t, resp)["message"])

	resp = postJSON(t, app, "/api/v1/report", aliceToken, map[string]string{"reportedUserId": bobID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Reason for reporting is required.", decodeBody(t, resp)["message"])

	resp = postJSON(t, app, "/api/v1/report", aliceToken, map[string]string{"reportedUserId": aliceID, "reason": "spam"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "You cannot report yourself.", decodeBody(t, resp)["message"])

	resp = postJSON(t, app, "/api/v1/report", aliceToken, map[string]string{"reportedUserId": "ghost", "reason": "spam"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User to be reported not found.", decodeBody(t, resp)["message"])

	// Hard delete; a second attempt with the still-valid token is 404.
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/user/delete", nil)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	delResp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, delResp.StatusCode)
	assert.Equal(t, "Account deleted successfully.", decodeBody(t, delResp)["message"])

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/user/delete", nil)
	req.Header.Set("Authorization", "Bearer "+aliceToken)
	delResp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, delResp.StatusCode)
	delResp.Body.Close()
}
