package handlers

import (
	"accounts-backend/config"
	"accounts-backend/internal/auth"
	"accounts-backend/internal/middleware"
	"accounts-backend/internal/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type AuthHandler struct {
	authService *auth.AuthService
	tokens      *auth.TokenService
	config      *config.Config
}

func NewAuthHandler(authService *auth.AuthService, tokens *auth.TokenService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
		config:      cfg,
	}
}

// Register creates a new account. Validation violations are collected and
// returned as one list so the client can display the complete set.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input auth.RegisterInput

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	account, err := h.authService.Register(input)
	if err != nil {
		var violations auth.ValidationErrors
		if errors.As(err, &violations) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": []string(violations),
			})
		}
		log.Error().Err(err).Msg("Registration failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create account",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created successfully! Please login.",
		"account": AccountSummary(account),
	})
}

// LoginRequest represents the login form fields
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies credentials and sets the token cookies. Unknown usernames
// and wrong passwords produce the identical response; a store failure is a
// 500, never a credential error.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input LoginRequest

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	result, err := h.authService.Login(input.Username, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid username or password.",
			})
		case errors.Is(err, auth.ErrAccountDisabled):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Your account has been deactivated.",
			})
		default:
			log.Error().Err(err).Msg("Login failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Login is temporarily unavailable",
			})
		}
	}

	utils.SetAuthCookies(c, result.Tokens.AccessToken, result.Tokens.RefreshToken, h.config)

	return c.JSON(fiber.Map{
		"message": "Welcome back, " + result.Account.FullName + "!",
		"account": AccountSummary(result.Account),
	})
}

// Logout blacklists the refresh token carried in the cookie and clears both
// cookies. Revocation is idempotent; an already-revoked or missing token
// still logs the client out.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if refreshToken := c.Cookies(utils.RefreshTokenCookie); refreshToken != "" {
		if _, err := h.tokens.RevokeToken(refreshToken); err != nil {
			log.Error().Err(err).Msg("Failed to revoke refresh token on logout")
		}
	}

	utils.ClearAuthCookies(c, h.config)

	return c.JSON(fiber.Map{
		"message": "You have been logged out successfully.",
	})
}

// ChangePasswordRequest represents the change-password form fields
type ChangePasswordRequest struct {
	OldPassword        string `json:"oldPassword"`
	NewPassword        string `json:"newPassword"`
	NewPasswordConfirm string `json:"newPasswordConfirm"`
}

// ChangePassword updates the password and revokes every refresh token the
// account holds, logging the user out everywhere.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	if sess.Account == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	var input ChangePasswordRequest
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	err := h.authService.ChangePassword(sess.Account, input.OldPassword, input.NewPassword, input.NewPasswordConfirm)
	if err != nil {
		var violations auth.ValidationErrors
		if errors.As(err, &violations) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": []string(violations),
			})
		}
		log.Error().Err(err).Msg("Password change failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to change password",
		})
	}

	// All sessions are revoked, this one included
	sess.RotateAccessToken = false
	utils.ClearAuthCookies(c, h.config)

	return c.JSON(fiber.Map{
		"message": "Password changed successfully. Please login again.",
	})
}
