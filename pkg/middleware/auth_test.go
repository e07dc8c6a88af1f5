package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amirasaad/cinema/infra/cache"
	"github.com/amirasaad/cinema/internal/fixtures"
	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/dto"
	"github.com/amirasaad/cinema/pkg/service/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jwtCfg = &config.Jwt{Secret: "middleware-secret"}

type harness struct {
	app   *fiber.App
	svc   *auth.Service
	uow   *fixtures.UnitOfWork
	calls int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{uow: fixtures.NewUnitOfWork()}
	h.svc = auth.New(h.uow, jwtCfg, cache.NewMemoryTokenDenylist(), fixtures.Logger())
	h.app = fiber.New()

	whoami := WithIdentity(func(c *fiber.Ctx, id auth.Identity) error {
		h.calls++
		return c.JSON(fiber.Map{"email": id.Email, "admin": id.IsAdmin})
	})
	h.app.Get("/me", JwtProtected(jwtCfg), Authenticated(h.svc), whoami)
	h.app.Get("/admin", JwtProtected(jwtCfg), Authenticated(h.svc), RequireAdmin(), whoami)
	h.app.Get("/maybe", OptionalIdentity(h.svc), WithOptionalIdentity(func(c *fiber.Ctx, id *auth.Identity) error {
		if id == nil {
			return c.SendString("anonymous")
		}
		return c.SendString(id.Email)
	}))
	return h
}

func (h *harness) token(t *testing.T, u *dto.UserRead) string {
	t.Helper()
	tok, err := h.svc.IssueToken(context.Background(), u)
	require.NoError(t, err)
	return tok
}

func (h *harness) do(t *testing.T, path, token string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req)
	require.NoError(t, err)
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp, body
}

func TestJwtProtected_MissingToken(t *testing.T) {
	h := newHarness(t)
	resp, body := h.do(t, "/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "failed", body["status"])
	assert.Equal(t, "Missing or malformed JWT", body["message"])
	assert.Zero(t, h.calls)
}

func TestJwtProtected_InvalidToken(t *testing.T) {
	h := newHarness(t)
	other := auth.New(h.uow, &config.Jwt{Secret: "other"}, nil, fixtures.Logger())
	u := fixtures.SeedUser(t, h.uow, "bob@example.com", false)
	forged, err := other.IssueToken(context.Background(), u)
	require.NoError(t, err)

	resp, body := h.do(t, "/me", forged)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid or expired JWT", body["message"])
	assert.Zero(t, h.calls)
}

func TestAuthenticated_ResolvesIdentity(t *testing.T) {
	h := newHarness(t)
	u := fixtures.SeedUser(t, h.uow, "bob@example.com", false)

	resp, body := h.do(t, "/me", h.token(t, u))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "bob@example.com", body["email"])
	assert.Equal(t, 1, h.calls)
}

func TestAuthenticated_UnknownUser(t *testing.T) {
	h := newHarness(t)
	ghost := &dto.UserRead{Email: "ghost@example.com"}

	resp, body := h.do(t, "/me", h.token(t, ghost))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "failed", body["status"])
	assert.Zero(t, h.calls)
}

func TestAuthenticated_RevokedToken(t *testing.T) {
	h := newHarness(t)
	u := fixtures.SeedUser(t, h.uow, "bob@example.com", false)
	tok := h.token(t, u)
	claims, err := h.svc.VerifyToken(tok)
	require.NoError(t, err)
	id, err := h.svc.ResolveIdentity(context.Background(), claims)
	require.NoError(t, err)
	require.NoError(t, h.svc.Logout(context.Background(), id))

	resp, body := h.do(t, "/me", tok)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "token has been revoked", body["message"])
}

func TestRequireAdmin(t *testing.T) {
	h := newHarness(t)
	member := fixtures.SeedUser(t, h.uow, "member@example.com", false)
	admin := fixtures.SeedUser(t, h.uow, "admin@example.com", true)

	resp, body := h.do(t, "/admin", h.token(t, member))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Admin capability required", body["message"])

	resp, body = h.do(t, "/admin", h.token(t, admin))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["admin"])
}

func TestOptionalIdentity(t *testing.T) {
	h := newHarness(t)
	u := fixtures.SeedUser(t, h.uow, "bob@example.com", false)

	testCases := []struct {
		desc  string
		token string
		want  string
	}{
		{"no token", "", "anonymous"},
		{"garbage token", "garbage", "anonymous"},
		{"valid token", h.token(t, u), "bob@example.com"},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/maybe", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			resp, err := h.app.Test(req)
			require.NoError(t, err)
			buf := make([]byte, 64)
			n, _ := resp.Body.Read(buf)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, tc.want, string(buf[:n]))
		})
	}
}

func TestWithIdentity_WithoutAuthentication(t *testing.T) {
	app := fiber.New()
	app.Get("/", WithIdentity(func(c *fiber.Ctx, _ auth.Identity) error {
		return c.SendStatus(fiber.StatusOK)
	}))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJwtError_Invalid(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error { return jwtError(c, errors.New("token is expired")) })
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestBearer(t *testing.T) {
	tok, ok := bearer("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)
	_, ok = bearer("Basic abc")
	assert.False(t, ok)
	_, ok = bearer("Bearer ")
	assert.False(t, ok)
}
