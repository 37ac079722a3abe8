package handlers

import (
	"errors"
	"strings"
	"time"

	"twoknow/config"
	"twoknow/database"
	"twoknow/middleware"
	"twoknow/models"
	"twoknow/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// HandleRegister creates an account and signs the user in.
// POST /auth/register
func HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	zap.L().Info("registration attempt", zap.String("email", req.Email))

	switch {
	case utils.IsBlank(req.Email):
		return detail(c, fiber.StatusBadRequest, "Email is required")
	case utils.IsBlank(req.Username):
		return detail(c, fiber.StatusBadRequest, "Username is required")
	case len(req.Password) < minPasswordLength:
		return detail(c, fiber.StatusBadRequest, "Password must be at least 6 characters")
	case !utils.IsValidEmail(req.Email):
		return detail(c, fiber.StatusBadRequest, "Invalid email format")
	}

	ctx := c.UserContext()
	email := utils.NormalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)

	if _, err := database.Users.FindByEmail(ctx, email); err == nil {
		return detail(c, fiber.StatusBadRequest, "Email already registered")
	} else if !errors.Is(err, database.ErrUserNotFound) {
		return internal(c, "registration lookup failed", err, "Registration failed. Please try again.")
	}
	if _, err := database.Users.FindByUsername(ctx, username); err == nil {
		return detail(c, fiber.StatusBadRequest, "Username already taken")
	} else if !errors.Is(err, database.ErrUserNotFound) {
		return internal(c, "registration lookup failed", err, "Registration failed. Please try again.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return internal(c, "hashing password failed", err, "Could not process password")
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hashedPassword),
		FullName:     strings.TrimSpace(req.FullName),
	}
	if err := database.Users.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateUser) {
			return detail(c, fiber.StatusBadRequest, "Email already registered")
		}
		return internal(c, "creating user failed", err, "Registration failed. Please try again.")
	}

	token, err := createJWT(user.ID, user.Email)
	if err != nil {
		return internal(c, "signing token failed", err, "Could not sign token")
	}

	zap.L().Info("user registered", zap.String("email", user.Email), zap.Int64("user_id", user.ID))
	return c.JSON(models.AuthResponse{AccessToken: token, TokenType: "bearer", User: user.Profile()})
}

// HandleLogin authenticates a user and returns a JWT token.
// POST /auth/login
func HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if utils.IsBlank(req.Email) || req.Password == "" {
		return detail(c, fiber.StatusBadRequest, "Email and password are required")
	}

	ctx := c.UserContext()
	user, err := database.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			zap.L().Info("login for unknown user", zap.String("email", req.Email))
			return invalidCredentials(c)
		}
		return internal(c, "login lookup failed", err, "Login failed. Please try again.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		zap.L().Info("login with wrong password", zap.String("email", req.Email))
		return invalidCredentials(c)
	}

	now := time.Now().UTC()
	if err := database.Users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return internal(c, "updating last login failed", err, "Login failed. Please try again.")
	}
	user.LastLogin = &now

	token, err := createJWT(user.ID, user.Email)
	if err != nil {
		return internal(c, "signing token failed", err, "Could not sign token")
	}

	return c.JSON(models.AuthResponse{AccessToken: token, TokenType: "bearer", User: user.Profile()})
}

// HandleGetProfile returns the authenticated user's profile.
// GET /auth/profile
func HandleGetProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(user.Profile())
}

// HandleUpdateProfile updates the mutable profile fields.
// PUT /auth/profile
func HandleUpdateProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	if req.FullName != nil {
		if err := database.Users.UpdateFullName(c.UserContext(), user.ID, strings.TrimSpace(*req.FullName)); err != nil {
			return internal(c, "updating profile failed", err, "Failed to update profile")
		}
		user.FullName = strings.TrimSpace(*req.FullName)
	}

	return c.JSON(fiber.Map{"message": "Profile updated successfully", "user": user.Profile()})
}

// HandleChangePassword replaces the password after verifying the current one.
// POST /auth/change-password
func HandleChangePassword(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return detail(c, fiber.StatusBadRequest, "Current password and new password are required")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return detail(c, fiber.StatusBadRequest, "Current password is incorrect")
	}
	if len(req.NewPassword) < minPasswordLength {
		return detail(c, fiber.StatusBadRequest, "Password must be at least 6 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return internal(c, "hashing password failed", err, "Could not process password")
	}
	if err := database.Users.UpdatePassword(c.UserContext(), user.ID, string(hashed)); err != nil {
		return internal(c, "updating password failed", err, "Failed to change password")
	}

	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

// HandleLogout acknowledges a logout. Tokens are discarded client side.
// POST /auth/logout
func HandleLogout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
		"note":    "Token invalidation should be handled on the client side",
	})
}

// HandleGetStats returns account statistics for the authenticated user.
// GET /auth/stats
func HandleGetStats(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(models.UserStats{
		UserID:         user.ID,
		Email:          user.Email,
		AccountCreated: utils.TimePtr(user.CreatedAt),
		LastLogin:      user.LastLogin,
		MemberForDays:  utils.DaysSince(user.CreatedAt, time.Now()),
		IsActive:       true,
	})
}

// --- Helper Functions ---

func createJWT(userID int64, email string) (string, error) {
	now := time.Now()
	claims := models.JwtClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(config.AppConfig.JWTExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// currentUser loads the user behind the request's token. Errors are
// *fiber.Error values rendered by the app error handler.
func currentUser(c *fiber.Ctx) (*models.User, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}
	user, err := database.Users.FindByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		zap.L().Error("loading current user failed", zap.Int64("user_id", id), zap.Error(err))
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Database error")
	}
	return user, nil
}

func invalidCredentials(c *fiber.Ctx) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return detail(c, fiber.StatusUnauthorized, "Invalid email or password")
}

func detail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"detail": msg})
}

func internal(c *fiber.Ctx, logMsg string, err error, msg string) error {
	zap.L().Error(logMsg, zap.String("path", c.Path()), zap.Error(err))
	return detail(c, fiber.StatusInternalServerError, msg)
}
