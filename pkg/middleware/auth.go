package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/domain"
	"github.com/amirasaad/cinema/pkg/service/auth"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/golang-jwt/jwt/v5"
)

// tokenKey is where jwtware stores the verified *jwt.Token.
const tokenKey = "user"

type identityKey struct{}

// IdentityResolver turns verified tokens into identities.
type IdentityResolver interface {
	VerifyToken(raw string) (*auth.Claims, error)
	ParseClaims(token *jwt.Token) (*auth.Claims, error)
	ResolveIdentity(ctx context.Context, claims *auth.Claims) (auth.Identity, error)
}

// JwtProtected verifies the HS256 bearer token and stores it for Authenticated.
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.Secret)},
		ContextKey:   tokenKey,
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		return fail(c, fiber.StatusUnauthorized, "Missing or malformed JWT")
	}
	return fail(c, fiber.StatusUnauthorized, "Invalid or expired JWT")
}

// Authenticated resolves the verified token to a stored user. Unknown users
// and revoked tokens are refused with 401.
func Authenticated(resolver IdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals(tokenKey).(*jwt.Token)
		if !ok {
			return fail(c, fiber.StatusUnauthorized, "Missing or malformed JWT")
		}
		claims, err := resolver.ParseClaims(token)
		if err != nil {
			return fail(c, fiber.StatusUnauthorized, "Invalid or expired JWT")
		}
		id, err := resolver.ResolveIdentity(c.UserContext(), claims)
		if err != nil {
			return identityError(c, err)
		}
		c.Locals(identityKey{}, id)
		return c.Next()
	}
}

// OptionalIdentity attaches an identity when a valid bearer token is sent
// and otherwise lets the request through anonymously.
func OptionalIdentity(resolver IdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearer(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Next()
		}
		claims, err := resolver.VerifyToken(raw)
		if err != nil {
			return c.Next()
		}
		id, err := resolver.ResolveIdentity(c.UserContext(), claims)
		if err != nil {
			log.Debugf("optional identity ignored: %v", err)
			return c.Next()
		}
		c.Locals(identityKey{}, id)
		return c.Next()
	}
}

// RequireAdmin refuses callers without the admin flag. It must run after
// Authenticated.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return fail(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		if !id.IsAdmin {
			return fail(c, fiber.StatusForbidden, "Admin capability required")
		}
		return c.Next()
	}
}

// WithIdentity adapts a handler that needs the authenticated caller.
func WithIdentity(fn func(c *fiber.Ctx, id auth.Identity) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return fail(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		return fn(c, id)
	}
}

// WithOptionalIdentity adapts a handler that serves anonymous callers too.
// id is nil for anonymous requests.
func WithOptionalIdentity(fn func(c *fiber.Ctx, id *auth.Identity) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := CurrentIdentity(c); ok {
			return fn(c, &id)
		}
		return fn(c, nil)
	}
}

// CurrentIdentity returns the identity attached by Authenticated or
// OptionalIdentity.
func CurrentIdentity(c *fiber.Ctx) (auth.Identity, bool) {
	id, ok := c.Locals(identityKey{}).(auth.Identity)
	return id, ok
}

func identityError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrUpstreamFailure):
		log.Errorf("identity resolution failed: %v", err)
		return fail(c, fiber.StatusBadGateway, "Identity store unavailable")
	}
	log.Errorf("identity resolution failed: %v", err)
	return fail(c, fiber.StatusInternalServerError, "Internal Server Error")
}

func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"status": "failed", "message": message})
}
