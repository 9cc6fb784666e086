package handlers

import (
	"accounts-backend/internal/middleware"
	"accounts-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AccountHandler struct{}

func NewAccountHandler() *AccountHandler {
	return &AccountHandler{}
}

// Dashboard returns the signed-in account's summary. Requests authenticated
// via the refresh token get a rotated access cookie on this response.
func (h *AccountHandler) Dashboard(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	if sess.Account == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	return c.JSON(fiber.Map{
		"account": AccountSummary(sess.Account),
	})
}

// Profile returns the full profile of the signed-in account
func (h *AccountHandler) Profile(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	if sess.Account == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	return c.JSON(fiber.Map{
		"account": AccountProfile(sess.Account),
	})
}

// ProfileResponse is the full profile view of an account
type ProfileResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Salutation  string `json:"salutation"`
	FullName    string `json:"fullName"`
	DateOfBirth string `json:"dateOfBirth"`
	Age         int    `json:"age"`
	Gender      string `json:"gender"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address"`
	Location    string `json:"location"`
	CreatedAt   string `json:"createdAt"`
	LastLogin   string `json:"lastLogin,omitempty"`
}

func AccountProfile(a *models.Account) ProfileResponse {
	resp := ProfileResponse{
		ID:          a.ID,
		Username:    a.Username,
		DisplayName: a.DisplayName(),
		Salutation:  string(a.Salutation),
		FullName:    a.FullName,
		DateOfBirth: a.DateOfBirth.Format("2006-01-02"),
		Age:         a.Age(),
		Gender:      string(a.Gender),
		Phone:       a.Phone,
		Address:     a.Address,
		Location:    a.Location,
		CreatedAt:   a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if a.LastLogin != nil {
		resp.LastLogin = a.LastLogin.Format("2006-01-02 15:04:05")
	}
	return resp
}
