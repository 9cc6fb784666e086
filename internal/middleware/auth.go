package middleware

import (
	"accounts-backend/config"
	"accounts-backend/internal/auth"
	"accounts-backend/internal/utils"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const sessionKey = "session"

// Authenticate is the per-request authentication gate. It reads the token
// cookies, decides whether the request is authenticated and attaches an
// auth.Session to the request context. Requests for non-public paths without
// a valid token are redirected to the login page before any handler runs.
//
// When the access token failed but the refresh token verified, the session
// is flagged for rotation and a fresh access cookie is set on the response
// after the handler chain returns.
func Authenticate(cfg *config.Config, tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := &auth.Session{}
		c.Locals(sessionKey, sess)

		isPublic := pathIsPublic(c.Path(), cfg.Auth.PublicPaths)

		if accessToken := c.Cookies(utils.AccessTokenCookie); accessToken != "" {
			if account, err := tokens.VerifyAccessToken(accessToken); err == nil {
				sess.Authenticated = true
				sess.Account = account
			}
		}

		// Public paths skip the refresh fallback: a valid access token
		// above is only an identity convenience there.
		if !isPublic && !sess.Authenticated {
			if refreshToken := c.Cookies(utils.RefreshTokenCookie); refreshToken != "" {
				if account, err := tokens.VerifyRefreshToken(refreshToken); err == nil {
					sess.Authenticated = true
					sess.Account = account
					sess.RotateAccessToken = true
				}
			}
		}

		if !isPublic && !sess.Authenticated {
			return c.Redirect("/login", fiber.StatusFound)
		}

		err := c.Next()

		if sess.RotateAccessToken && sess.Account != nil {
			accessToken, issueErr := tokens.IssueAccessToken(sess.Account)
			if issueErr != nil {
				log.Error().Err(issueErr).
					Str("account_id", sess.Account.ID).
					Msg("Failed to rotate access token")
			} else {
				utils.SetAccessCookie(c, accessToken, cfg)
			}
		}

		return err
	}
}

// SessionFromCtx returns the authentication decision attached by
// Authenticate. Handlers behind the gate can rely on it being present.
func SessionFromCtx(c *fiber.Ctx) *auth.Session {
	if sess, ok := c.Locals(sessionKey).(*auth.Session); ok {
		return sess
	}
	return &auth.Session{}
}

// pathIsPublic matches the path against the allow-list. Entries with a
// trailing slash are prefixes; anything else must match exactly, so that
// "/" does not make every path public.
func pathIsPublic(path string, publicPaths []string) bool {
	for _, p := range publicPaths {
		if strings.HasSuffix(p, "/") && p != "/" {
			if strings.HasPrefix(path, p) {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}
