package auth

import "accounts-backend/internal/models"

// Session is the per-request authentication decision produced by the
// middleware gate and consumed by handlers and the response path. It is an
// explicit typed value; nothing is attached to the request by mutation.
type Session struct {
	Authenticated bool
	Account       *models.Account
	// RotateAccessToken is set when the request was authenticated via the
	// refresh token; the response path must mint and set a fresh access
	// cookie.
	RotateAccessToken bool
}
