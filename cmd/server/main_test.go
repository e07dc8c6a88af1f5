package main_test

import (
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/amirasaad/cinema/webapi/testutils"
	"github.com/stretchr/testify/suite"
)

// TestMain runs before any tests and applies globally for all tests in the package.
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	log.SetOutput(io.Discard)

	exitVal := m.Run()
	os.Exit(exitVal)
}

type MainTestSuite struct {
	testutils.AppTestSuite
}

func TestMainTestSuite(t *testing.T) {
	suite.Run(t, new(MainTestSuite))
}

func (s *MainTestSuite) TestRootRoute() {
	resp := s.MakeRequest(http.MethodGet, "/", "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Equal("Cinema API is running!", string(body))
}

func (s *MainTestSuite) TestProtectedRoute_Unauthorized() {
	resp := s.MakeRequest(http.MethodGet, "/api/v1/transac", "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *MainTestSuite) TestNotFoundRoute() {
	resp := s.MakeRequest(http.MethodGet, "/doesnotexist", "", "")
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal("failed", s.Decode(resp).Status)
}

func (s *MainTestSuite) TestLoginRoute_BadRequest() {
	resp := s.MakeRequest(http.MethodPost, "/api/v1/login", "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *MainTestSuite) TestMetricsRoute() {
	resp := s.MakeRequest(http.MethodGet, "/metrics", "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *MainTestSuite) TestDebugRoutes() {
	resp := s.MakeRequest(http.MethodGet, "/debug/routes", "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *MainTestSuite) TestRateLimit() {
	s.Cfg = testutils.NewTestConfig()
	s.Cfg.RateLimit.MaxRequests = 2
	defer func() { s.Cfg = nil }()
	s.SetupTest()

	for range 2 {
		resp := s.MakeRequest(http.MethodGet, "/", "", "")
		s.Equal(http.StatusOK, resp.StatusCode)
		resp.Body.Close() //nolint: errcheck
	}
	resp := s.MakeRequest(http.MethodGet, "/", "", "")
	s.Equal(http.StatusTooManyRequests, resp.StatusCode)
	s.Equal("Too Many Requests", s.Decode(resp).Message)
}

func (s *MainTestSuite) rootFrom(forwardedFor string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", forwardedFor)
	resp, err := s.Fiber.Test(req, -1)
	s.Require().NoError(err)
	resp.Body.Close() //nolint: errcheck
	return resp.StatusCode
}

func (s *MainTestSuite) TestRateLimit_IgnoresForwardedForFromUntrustedPeer() {
	s.Cfg = testutils.NewTestConfig()
	s.Cfg.RateLimit.MaxRequests = 2
	defer func() { s.Cfg = nil }()
	s.SetupTest()

	s.Equal(http.StatusOK, s.rootFrom("203.0.113.1"))
	s.Equal(http.StatusOK, s.rootFrom("203.0.113.2"))
	s.Equal(http.StatusTooManyRequests, s.rootFrom("203.0.113.3"))
}

func (s *MainTestSuite) TestRateLimit_KeysOnClientBehindTrustedProxy() {
	s.Cfg = testutils.NewTestConfig()
	s.Cfg.RateLimit.MaxRequests = 1
	s.Cfg.Server.ProxyHeader = "X-Forwarded-For"
	s.Cfg.Server.TrustedProxies = []string{"0.0.0.0/0"}
	defer func() { s.Cfg = nil }()
	s.SetupTest()

	s.Equal(http.StatusOK, s.rootFrom("203.0.113.1, 10.0.0.1"))
	s.Equal(http.StatusOK, s.rootFrom("203.0.113.2"))
	s.Equal(http.StatusTooManyRequests, s.rootFrom("203.0.113.1"))
}
