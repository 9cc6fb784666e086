package utils

import (
	"accounts-backend/config"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// SetAuthCookies writes both token cookies on the response. HttpOnly and
// SameSite=Lax always; Secure follows config (true whenever served over TLS).
func SetAuthCookies(c *fiber.Ctx, accessToken, refreshToken string, cfg *config.Config) {
	SetAccessCookie(c, accessToken, cfg)

	c.Cookie(&fiber.Cookie{
		Name:     RefreshTokenCookie,
		Value:    refreshToken,
		MaxAge:   cfg.Auth.RefreshTokenTTL,
		Expires:  time.Now().Add(cfg.Auth.RefreshTTL()),
		HTTPOnly: true,
		Secure:   cfg.Auth.SecureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// SetAccessCookie writes only the access token cookie; used on the response
// path when the gate flagged a silent rotation.
func SetAccessCookie(c *fiber.Ctx, accessToken string, cfg *config.Config) {
	c.Cookie(&fiber.Cookie{
		Name:     AccessTokenCookie,
		Value:    accessToken,
		MaxAge:   cfg.Auth.AccessTokenTTL,
		Expires:  time.Now().Add(cfg.Auth.AccessTTL()),
		HTTPOnly: true,
		Secure:   cfg.Auth.SecureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// ClearAuthCookies expires both token cookies (logout)
func ClearAuthCookies(c *fiber.Ctx, cfg *config.Config) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			MaxAge:   -1,
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			Secure:   cfg.Auth.SecureCookies,
			SameSite: fiber.CookieSameSiteLaxMode,
			Path:     "/",
		})
	}
}
