package handlers

import "accounts-backend/internal/models"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// AccountResponse is the summary view of an account returned by the auth
// endpoints
type AccountResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	IsActive    bool   `json:"isActive"`
}

func AccountSummary(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Username:    a.Username,
		DisplayName: a.DisplayName(),
		IsActive:    a.IsActive,
	}
}
