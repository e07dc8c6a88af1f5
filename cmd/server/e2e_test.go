package main_test

import (
	"net/http"
	"testing"

	"github.com/amirasaad/cinema/webapi/testutils"
	"github.com/stretchr/testify/suite"
)

type PostgresTestSuite struct {
	testutils.E2ETestSuite
}

func TestPostgresTestSuite(t *testing.T) {
	suite.Run(t, new(PostgresTestSuite))
}

func (s *PostgresTestSuite) TestRegisterThenCheckAuth() {
	token := s.Register("e2e@example.com")

	resp := s.MakeRequest(http.MethodGet, "/api/v1/check-auth", "", token)
	s.Equal(http.StatusOK, resp.StatusCode)
	u, ok := s.Data(resp)["user"].(map[string]any)
	s.Require().True(ok)
	s.Equal("e2e@example.com", u["email"])

	resp = s.MakeRequest(http.MethodPost, "/api/v1/register",
		`{"email":"e2e@example.com","password":"password123","fullname":"Again"}`, "")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close() //nolint: errcheck
}

func (s *PostgresTestSuite) TestEmptyCatalog() {
	resp := s.MakeRequest(http.MethodGet, "/api/v1/film", "", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	films, ok := s.Data(resp)["film"].([]any)
	s.Require().True(ok)
	s.Empty(films)
}

func (s *PostgresTestSuite) TestLogoutRevokes() {
	token := s.Register("bye@example.com")

	resp := s.MakeRequest(http.MethodPost, "/api/v1/logout", "", token)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close() //nolint: errcheck

	resp = s.MakeRequest(http.MethodGet, "/api/v1/user", "", token)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close() //nolint: errcheck
}
