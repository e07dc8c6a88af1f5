// Package testutils builds the full HTTP application for handler tests.
package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/amirasaad/cinema/infra"
	infra_cache "github.com/amirasaad/cinema/infra/cache"
	infra_eventbus "github.com/amirasaad/cinema/infra/eventbus"
	"github.com/amirasaad/cinema/infra/provider/mockmedia"
	"github.com/amirasaad/cinema/internal/fixtures"
	"github.com/amirasaad/cinema/pkg/app"
	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/dto"
	"github.com/amirasaad/cinema/pkg/repository"
	"github.com/amirasaad/cinema/webapi"
	"github.com/amirasaad/cinema/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PNG is the smallest payload accepted as a PNG upload.
var PNG = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

// File is one multipart file part.
type File struct {
	Name string
	Data []byte
}

// NewTestConfig returns a configuration with every section set.
func NewTestConfig() *config.App {
	return &config.App{
		Env:    "test",
		Server: &config.Server{Scheme: "http", Host: "localhost", Port: 3000},
		Log:    &config.Log{Format: "text"},
		DB:     &config.DB{},
		Auth: &config.Auth{Jwt: &config.Jwt{
			Secret: "test-secret",
			Expiry: time.Hour,
		}},
		Redis:     &config.Redis{},
		RateLimit: &config.RateLimit{MaxRequests: 100000, Window: time.Minute},
		Media: &config.Media{
			Driver:        "mock",
			RootFolder:    "cinema-online",
			PublicBaseURL: "http://cdn.local/",
			Timeout:       time.Second,
		},
		Upload: &config.Upload{
			MaxSize:           1 << 20,
			AllowedExtensions: []string{"jpg", "jpeg", "png"},
		},
		Kafka:       &config.Kafka{},
		Otel:        &config.Otel{},
		Transaction: &config.Transaction{},
		Cors:        &config.Cors{AllowOrigins: "*"},
	}
}

// AppTestSuite serves the whole API from the in-memory fixtures.
// Every test starts from an empty store.
type AppTestSuite struct {
	suite.Suite
	Cfg   *config.App
	Store *fixtures.UnitOfWork
	Media *mockmedia.Provider
	Bus   *infra_eventbus.MemoryEventBus
	App   *app.App
	Fiber *fiber.App

	uow repository.UnitOfWork
}

func (s *AppTestSuite) SetupSuite() {
	log.SetOutput(io.Discard)
}

// SetupTest builds a fresh application.
func (s *AppTestSuite) SetupTest() {
	if s.Cfg == nil {
		s.Cfg = NewTestConfig()
	}
	s.Store = fixtures.NewUnitOfWork()
	uow := s.uow
	if uow == nil {
		uow = s.Store
	}
	s.Media = mockmedia.New()
	logger := fixtures.Logger()
	s.Bus = infra_eventbus.NewWithMemory(logger)
	s.App = app.New(&app.Deps{
		Uow:      uow,
		Media:    s.Media,
		EventBus: s.Bus,
		Denylist: infra_cache.NewMemoryTokenDenylist(),
		Logger:   logger,
	}, s.Cfg)
	s.Fiber = webapi.SetupApp(s.App)
}

// SeedUser stores a user with fixtures.DefaultPassword.
func (s *AppTestSuite) SeedUser(email string, isAdmin bool) *dto.UserRead {
	return fixtures.SeedUser(s.T(), s.Store, email, isAdmin)
}

// SeedFilm stores a film.
func (s *AppTestSuite) SeedFilm(title string) *dto.FilmRead {
	return fixtures.SeedFilm(s.T(), s.Store, title)
}

// Token issues a bearer token for u.
func (s *AppTestSuite) Token(u *dto.UserRead) string {
	token, err := s.App.AuthService.IssueToken(context.Background(), u)
	s.Require().NoError(err)
	return token
}

// MakeRequest is a helper for making HTTP requests in tests
func (s *AppTestSuite) MakeRequest(method, path, body, token string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	return s.do(req, token)
}

// MakeMultipartRequest sends fields and files as multipart form data.
func (s *AppTestSuite) MakeMultipartRequest(
	method, path string,
	fields map[string]string,
	files map[string]File,
	token string,
) *http.Response {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		s.Require().NoError(w.WriteField(k, v))
	}
	for field, f := range files {
		part, err := w.CreateFormFile(field, f.Name)
		s.Require().NoError(err)
		_, err = part.Write(f.Data)
		s.Require().NoError(err)
	}
	s.Require().NoError(w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return s.do(req, token)
}

func (s *AppTestSuite) do(req *http.Request, token string) *http.Response {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.Fiber.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

// Decode reads the envelope and closes the body.
func (s *AppTestSuite) Decode(resp *http.Response) common.Response {
	defer resp.Body.Close() //nolint:errcheck
	var out common.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// Data returns the success payload as a map.
func (s *AppTestSuite) Data(resp *http.Response) map[string]any {
	out := s.Decode(resp)
	data, ok := out.Data.(map[string]any)
	s.Require().True(ok, "data should be an object, got %#v", out.Data)
	return data
}

// E2ETestSuite runs the API against a real Postgres database using
// Testcontainers. It only runs when RUN_E2E is set.
type E2ETestSuite struct {
	AppTestSuite
	pgContainer *tcpostgres.PostgresContainer
	db          *gorm.DB
}

// SetupSuite initializes the test suite with a real Postgres database
func (s *E2ETestSuite) SetupSuite() {
	if !isTruthy(os.Getenv("RUN_E2E")) {
		s.T().Skip("set RUN_E2E=1 to run tests against Postgres")
	}
	s.AppTestSuite.SetupSuite()
	ctx := context.Background()

	pg, err := tcpostgres.Run(
		ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.pgContainer = pg

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	s.Require().NoError(err)
	s.Require().NoError(infra.RunMigrations(s.db, fixtures.Logger()))

	s.Cfg = NewTestConfig()
	s.Cfg.DB.Url = dsn
	s.uow = infra.NewUoW(s.db)
}

// SetupTest empties the tables and builds a fresh application.
func (s *E2ETestSuite) SetupTest() {
	s.Require().NoError(s.db.Exec("TRUNCATE transactions, films, users CASCADE").Error)
	s.AppTestSuite.SetupTest()
}

// TearDownSuite cleans up the test suite resources
func (s *E2ETestSuite) TearDownSuite() {
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(context.Background())
	}
}

// Register creates a user through the API and returns its token.
func (s *E2ETestSuite) Register(email string) string {
	body := `{"email":"` + email + `","password":"password123","fullname":"E2E User"}`
	resp := s.MakeRequest(http.MethodPost, "/api/v1/register", body, "")
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	u, ok := s.Data(resp)["user"].(map[string]any)
	s.Require().True(ok)
	token, _ := u["token"].(string)
	s.Require().NotEmpty(token)
	return token
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	}
	return false
}
