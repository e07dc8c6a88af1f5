package film_test

import (
	"strings"
	"testing"

	"github.com/amirasaad/cinema/internal/fixtures"
	"github.com/amirasaad/cinema/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type FilmTestSuite struct {
	testutils.AppTestSuite
}

func TestFilmTestSuite(t *testing.T) {
	suite.Run(t, new(FilmTestSuite))
}

func filmFields() map[string]string {
	return map[string]string{
		"title":    "Dune",
		"category": "Sci-Fi",
		"price":    "45000",
		"link":     "https://example.com/dune",
		"desc":     "Spice and sand",
	}
}

func images() map[string]testutils.File {
	return map[string]testutils.File{
		"thumbnail": {Name: "thumb.png", Data: testutils.PNG},
		"poster":    {Name: "poster.png", Data: testutils.PNG},
	}
}

func (s *FilmTestSuite) TestList() {
	s.SeedFilm("first")
	s.SeedFilm("second")

	resp := s.MakeRequest(fiber.MethodGet, "/api/v1/film", "", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	films, ok := s.Data(resp)["film"].([]any)
	s.Require().True(ok)
	s.Require().Len(films, 2)
	newest, _ := films[0].(map[string]any)
	s.Equal("second", newest["title"])
	s.True(strings.HasPrefix(newest["thumbnail"].(string), "http://cdn.local/"))
}

func (s *FilmTestSuite) TestList_Empty() {
	resp := s.MakeRequest(fiber.MethodGet, "/api/v1/film", "", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	films, ok := s.Data(resp)["film"].([]any)
	s.Require().True(ok)
	s.Empty(films)
}

func (s *FilmTestSuite) TestDetail_Anonymous() {
	f := s.SeedFilm("dune")

	resp := s.MakeRequest(fiber.MethodGet, "/api/v1/detail-film/"+f.ID.String(), "", "")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	data := s.Data(resp)
	s.Equal("-", data["status"])
	got, _ := data["film"].(map[string]any)
	s.Equal(f.ID.String(), got["id"])
}

func (s *FilmTestSuite) TestDetail_WithPurchaseStatus() {
	f := s.SeedFilm("dune")
	u := s.SeedUser("alice@example.com", false)
	fixtures.SeedTransaction(s.T(), s.Store, u.ID, f.ID, "Approved")

	resp := s.MakeRequest(fiber.MethodGet, "/api/v1/detail-film/"+f.ID.String(), "", s.Token(u))
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.Equal("Approved", s.Data(resp)["status"])

	// A bad token is ignored rather than refused.
	resp = s.MakeRequest(fiber.MethodGet, "/api/v1/detail-film/"+f.ID.String(), "", "garbage")
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.Equal("-", s.Data(resp)["status"])
}

func (s *FilmTestSuite) TestDetail_NotFound() {
	resp := s.MakeRequest(fiber.MethodGet, "/api/v1/detail-film/"+uuid.NewString(), "", "")
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	resp = s.MakeRequest(fiber.MethodGet, "/api/v1/detail-film/42", "", "")
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck
}

func (s *FilmTestSuite) TestMyList() {
	u := s.SeedUser("alice@example.com", false)
	approved := s.SeedFilm("approved")
	pending := s.SeedFilm("pending")
	fixtures.SeedTransaction(s.T(), s.Store, u.ID, approved.ID, "Approved")
	fixtures.SeedTransaction(s.T(), s.Store, u.ID, pending.ID, "Pending")

	resp := s.MakeRequest(fiber.MethodGet, "/api/v1/my-film", "", s.Token(u))
	s.Equal(fiber.StatusOK, resp.StatusCode)
	list, ok := s.Data(resp)["mylist"].([]any)
	s.Require().True(ok)
	s.Require().Len(list, 1)
	tx, _ := list[0].(map[string]any)
	film, _ := tx["film"].(map[string]any)
	s.Equal("approved", film["title"])
}

func (s *FilmTestSuite) TestMyList_Unauthorized() {
	resp := s.MakeRequest(fiber.MethodGet, "/api/v1/my-film", "", "")
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck
}

func (s *FilmTestSuite) TestCreate() {
	admin := s.SeedUser("admin@example.com", true)

	resp := s.MakeMultipartRequest(fiber.MethodPost, "/api/v1/film", filmFields(), images(), s.Token(admin))
	s.Equal(fiber.StatusCreated, resp.StatusCode)
	got, ok := s.Data(resp)["film"].(map[string]any)
	s.Require().True(ok)
	s.Equal("Dune", got["title"])
	s.Equal(float64(45000), got["price"])
	s.Equal("Spice and sand", got["desc"])
	s.True(strings.HasPrefix(got["thumbnail"].(string), "http://cdn.local/cinema-online/film/"))
	s.Equal(2, s.Media.Len())
}

func (s *FilmTestSuite) TestCreate_Refused() {
	user := s.SeedUser("alice@example.com", false)

	resp := s.MakeMultipartRequest(fiber.MethodPost, "/api/v1/film", filmFields(), images(), "")
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	resp = s.MakeMultipartRequest(fiber.MethodPost, "/api/v1/film", filmFields(), images(), s.Token(user))
	s.Equal(fiber.StatusForbidden, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	s.Zero(s.Media.Len())
}

func (s *FilmTestSuite) TestCreate_Validation() {
	token := s.Token(s.SeedUser("admin@example.com", true))

	noThumb := images()
	delete(noThumb, "thumbnail")
	resp := s.MakeMultipartRequest(fiber.MethodPost, "/api/v1/film", filmFields(), noThumb, token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	s.Equal("thumbnail is required", s.Decode(resp).Message)

	fields := filmFields()
	fields["price"] = "-1"
	resp = s.MakeMultipartRequest(fiber.MethodPost, "/api/v1/film", fields, images(), token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	errs, _ := s.Decode(resp).Errors.(map[string]any)
	s.Contains(errs, "price")

	fields = filmFields()
	delete(fields, "title")
	resp = s.MakeMultipartRequest(fiber.MethodPost, "/api/v1/film", fields, images(), token)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	errs, _ = s.Decode(resp).Errors.(map[string]any)
	s.Contains(errs, "title")

	s.Zero(s.Media.Len())
}

func (s *FilmTestSuite) TestUpdate_KeepsImagesWhenNoneSent() {
	token := s.Token(s.SeedUser("admin@example.com", true))
	f := s.SeedFilm("dune")

	fields := filmFields()
	fields["title"] = "Dune: Part Two"
	resp := s.MakeMultipartRequest(fiber.MethodPatch, "/api/v1/film/"+f.ID.String(), fields, nil, token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	got, _ := s.Data(resp)["film"].(map[string]any)
	s.Equal("Dune: Part Two", got["title"])
	s.Equal("http://cdn.local/"+f.Thumbnail, got["thumbnail"])
	s.Empty(s.Media.Destroyed())
}

func (s *FilmTestSuite) TestUpdate_ReplacesThumbnail() {
	token := s.Token(s.SeedUser("admin@example.com", true))
	f := s.SeedFilm("dune")

	resp := s.MakeMultipartRequest(fiber.MethodPatch, "/api/v1/film/"+f.ID.String(), filmFields(),
		map[string]testutils.File{"thumbnail": {Name: "new.png", Data: testutils.PNG}}, token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	got, _ := s.Data(resp)["film"].(map[string]any)
	s.NotEqual("http://cdn.local/"+f.Thumbnail, got["thumbnail"])
	s.Contains(s.Media.Destroyed(), f.ThumbnailID)
}

func (s *FilmTestSuite) TestUpdate_NotFound() {
	token := s.Token(s.SeedUser("admin@example.com", true))

	resp := s.MakeMultipartRequest(fiber.MethodPatch, "/api/v1/film/"+uuid.NewString(), filmFields(), nil, token)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck
}

func (s *FilmTestSuite) TestDelete_BothRoutes() {
	token := s.Token(s.SeedUser("admin@example.com", true))
	viaGet := s.SeedFilm("via-get")
	viaDelete := s.SeedFilm("via-delete")

	resp := s.MakeRequest(fiber.MethodGet, "/api/v1/film-delete/"+viaGet.ID.String(), "", token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	resp = s.MakeRequest(fiber.MethodDelete, "/api/v1/film/"+viaDelete.ID.String(), "", token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	resp = s.MakeRequest(fiber.MethodGet, "/api/v1/film", "", "")
	films, _ := s.Data(resp)["film"].([]any)
	s.Empty(films)

	resp = s.MakeRequest(fiber.MethodDelete, "/api/v1/film/"+viaDelete.ID.String(), "", token)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck
}

func (s *FilmTestSuite) TestDelete_RemovesPurchases() {
	token := s.Token(s.SeedUser("admin@example.com", true))
	u := s.SeedUser("alice@example.com", false)
	f := s.SeedFilm("dune")
	fixtures.SeedTransaction(s.T(), s.Store, u.ID, f.ID, "Approved")

	resp := s.MakeRequest(fiber.MethodDelete, "/api/v1/film/"+f.ID.String(), "", token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck
	s.Zero(s.Store.TransactionCount())
}

func (s *FilmTestSuite) TestDelete_Forbidden() {
	f := s.SeedFilm("dune")
	token := s.Token(s.SeedUser("alice@example.com", false))

	resp := s.MakeRequest(fiber.MethodDelete, "/api/v1/film/"+f.ID.String(), "", token)
	s.Equal(fiber.StatusForbidden, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck
}
