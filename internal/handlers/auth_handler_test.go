package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"accounts-backend/config"
	"accounts-backend/internal/auth"
	"accounts-backend/internal/middleware"
	"accounts-backend/internal/models"
	"accounts-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handlerFixture struct {
	app    *fiber.App
	tokens *auth.TokenService
}

func newHandlerFixture(t *testing.T, accounts ...*models.Account) *handlerFixture {
	t.Helper()

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key",
			AccessTokenTTL:  3600,
			RefreshTokenTTL: 604800,
			PublicPaths:     []string{"/", "/login", "/register", "/auth/login", "/auth/register", "/static/"},
		},
	}

	accountStore := auth.NewMemoryAccountStore()
	for _, a := range accounts {
		require.NoError(t, accountStore.CreateAccount(a))
	}
	tokenStore := auth.NewMemoryTokenStore()

	tokens := auth.NewTokenService(cfg, accountStore, tokenStore)
	authService := auth.NewAuthService(accountStore, tokens, auth.NewDefaultPasswordPolicy())

	app := fiber.New()
	app.Use(middleware.Authenticate(cfg, tokens))

	authHandler := NewAuthHandler(authService, tokens, cfg)
	app.Post("/auth/register", authHandler.Register)
	app.Post("/auth/login", authHandler.Login)
	app.Post("/auth/logout", authHandler.Logout)
	app.Post("/auth/change-password", authHandler.ChangePassword)

	accountHandler := NewAccountHandler()
	app.Get("/dashboard", accountHandler.Dashboard)
	app.Get("/profile", accountHandler.Profile)

	return &handlerFixture{app: app, tokens: tokens}
}

func seedAccount(t *testing.T, username string) *models.Account {
	t.Helper()

	account := &models.Account{
		ID:          uuid.New().String(),
		Username:    username,
		Salutation:  models.SalutationMr,
		FullName:    "John Doe",
		DateOfBirth: time.Date(1990, 1, 31, 0, 0, 0, 0, time.UTC),
		Gender:      models.GenderMale,
		Phone:       "+12025550101",
		Address:     "1 Main Street",
		Location:    "Springfield",
		IsActive:    true,
	}
	require.NoError(t, account.SetPassword("Str0ng-pass-99"))
	return account
}

func (f *handlerFixture) postJSON(t *testing.T, path string, payload interface{}, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestLoginSetsTokenCookies(t *testing.T) {
	f := newHandlerFixture(t, seedAccount(t, "jdoe"))

	resp := f.postJSON(t, "/auth/login", LoginRequest{Username: "jdoe", Password: "Str0ng-pass-99"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	access := cookieByName(resp, utils.AccessTokenCookie)
	require.NotNil(t, access)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, 3600, access.MaxAge)

	refresh := cookieByName(resp, utils.RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.True(t, refresh.HttpOnly)
	assert.Equal(t, 604800, refresh.MaxAge)

	got, err := f.tokens.VerifyAccessToken(access.Value)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", got.Username)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newHandlerFixture(t, seedAccount(t, "jdoe"))

	unknown := f.postJSON(t, "/auth/login", LoginRequest{Username: "nobody", Password: "Str0ng-pass-99"})
	wrongPass := f.postJSON(t, "/auth/login", LoginRequest{Username: "jdoe", Password: "wrong"})

	assert.Equal(t, fiber.StatusUnauthorized, unknown.StatusCode)
	assert.Equal(t, fiber.StatusUnauthorized, wrongPass.StatusCode)

	unknownBody := decodeBody(t, unknown)
	wrongPassBody := decodeBody(t, wrongPass)
	assert.Equal(t, unknownBody["error"], wrongPassBody["error"])
}

func TestLoginDisabledAccountDistinct(t *testing.T) {
	account := seedAccount(t, "jdoe")
	account.IsActive = false
	f := newHandlerFixture(t, account)

	resp := f.postJSON(t, "/auth/login", LoginRequest{Username: "jdoe", Password: "Str0ng-pass-99"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Your account has been deactivated.", body["error"])
}

func TestRegisterReportsAllViolations(t *testing.T) {
	f := newHandlerFixture(t, seedAccount(t, "jdoe"))

	resp := f.postJSON(t, "/auth/register", auth.RegisterInput{
		Salutation:      "Mr",
		FullName:        "Jane Doe",
		DateOfBirth:     "1992-06-15",
		Gender:          "F",
		Username:        "JDOE",
		Address:         "2 Side Street",
		Location:        "Springfield",
		Password:        "Str0ng-pass-99",
		PasswordConfirm: "different",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	errs, ok := body["errors"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "an account with this username already exists")
	assert.Contains(t, errs, "Passwords do not match.")
}

func TestRegisterThenLogin(t *testing.T) {
	f := newHandlerFixture(t)

	resp := f.postJSON(t, "/auth/register", auth.RegisterInput{
		Salutation:      "Miss",
		FullName:        "Jane Doe",
		DateOfBirth:     "1992-06-15",
		Gender:          "F",
		Username:        "jane",
		Address:         "2 Side Street",
		Location:        "Springfield",
		Password:        "Str0ng-pass-99",
		PasswordConfirm: "Str0ng-pass-99",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	login := f.postJSON(t, "/auth/login", LoginRequest{Username: "jane", Password: "Str0ng-pass-99"})
	assert.Equal(t, fiber.StatusOK, login.StatusCode)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	f := newHandlerFixture(t, seedAccount(t, "jdoe"))

	login := f.postJSON(t, "/auth/login", LoginRequest{Username: "jdoe", Password: "Str0ng-pass-99"})
	require.Equal(t, fiber.StatusOK, login.StatusCode)

	access := cookieByName(login, utils.AccessTokenCookie)
	refresh := cookieByName(login, utils.RefreshTokenCookie)
	require.NotNil(t, access)
	require.NotNil(t, refresh)

	logout := f.postJSON(t, "/auth/logout", fiber.Map{},
		&http.Cookie{Name: utils.AccessTokenCookie, Value: access.Value},
		&http.Cookie{Name: utils.RefreshTokenCookie, Value: refresh.Value},
	)
	require.Equal(t, fiber.StatusOK, logout.StatusCode)

	// Both cookies are expired on the response
	cleared := cookieByName(logout, utils.RefreshTokenCookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	// The refresh token can no longer reach protected pages
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: utils.RefreshTokenCookie, Value: refresh.Value})
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
}

func TestChangePasswordLogsOutEverywhere(t *testing.T) {
	f := newHandlerFixture(t, seedAccount(t, "jdoe"))

	login := f.postJSON(t, "/auth/login", LoginRequest{Username: "jdoe", Password: "Str0ng-pass-99"})
	require.Equal(t, fiber.StatusOK, login.StatusCode)

	access := cookieByName(login, utils.AccessTokenCookie)
	refresh := cookieByName(login, utils.RefreshTokenCookie)

	resp := f.postJSON(t, "/auth/change-password", ChangePasswordRequest{
		OldPassword:        "Str0ng-pass-99",
		NewPassword:        "An0ther-pass-77",
		NewPasswordConfirm: "An0ther-pass-77",
	}, &http.Cookie{Name: utils.AccessTokenCookie, Value: access.Value})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The surviving refresh token is revoked
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: utils.RefreshTokenCookie, Value: refresh.Value})
	after, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, after.StatusCode)
}
