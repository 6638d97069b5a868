package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/itz-mohit-014/tts-software/internal/auth/service"
	"github.com/itz-mohit-014/tts-software/internal/auth/token"
	autherror "github.com/itz-mohit-014/tts-software/internal/errors"
	"github.com/itz-mohit-014/tts-software/pkg/constant"
)

// Locals keys the gate populates for downstream handlers.
const (
	ClaimsKey = "claims"
	UserIDKey = "user_id"
	EmailKey  = "email"
)

var staticPrefixes = []string{"/_next", "/favicon"}

var staticSuffixes = []string{
	".html", ".js", ".css", ".jpg", ".jpeg", ".png", ".svg", ".woff", ".ttf",
}

// TokenVerifier is the codec subset the gate needs.
type TokenVerifier interface {
	Verify(tokenString string) (*service.JWTCustomClaims, error)
}

// JWTGuard authenticates every request outside the exempt list. It fails
// closed: a missing header, a revoked token, and a verification failure all
// produce 401. On success the decoded claims land in the request locals.
type JWTGuard struct {
	verifier  TokenVerifier
	blacklist *token.Blacklist
	exempt    []string
}

func NewJWTGuard(verifier TokenVerifier, blacklist *token.Blacklist, exemptPaths []string) *JWTGuard {
	exempt := make([]string, 0, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt = append(exempt, normalizePath(p))
	}

	return &JWTGuard{
		verifier:  verifier,
		blacklist: blacklist,
		exempt:    exempt,
	}
}

func (g *JWTGuard) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		path := normalizePath(c.Path())
		if g.isExempt(path) || isStaticAsset(path) {
			return c.Next()
		}

		raw, err := ExtractBearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return unauthorized(c, err)
		}

		if g.blacklist.IsRevoked(raw) {
			return unauthorized(c, autherror.ErrTokenRevoked)
		}

		claims, err := g.verifier.Verify(raw)
		if err != nil {
			return unauthorized(c, autherror.ErrInvalidToken)
		}

		c.Locals(ClaimsKey, claims)
		c.Locals(UserIDKey, claims.UserID)
		c.Locals(EmailKey, claims.Email)

		return c.Next()
	}
}

// ExtractBearerToken pulls the raw token out of an Authorization header value.
func ExtractBearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], constant.BearerScheme) || parts[1] == "" {
		return "", autherror.ErrMissingToken
	}
	return parts[1], nil
}

func (g *JWTGuard) isExempt(path string) bool {
	for _, p := range g.exempt {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func isStaticAsset(path string) bool {
	for _, p := range staticPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	if strings.Contains(path, "/static/") {
		return true
	}
	for _, ext := range staticSuffixes {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func normalizePath(path string) string {
	path = strings.ToLower(path)
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

func unauthorized(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
}
