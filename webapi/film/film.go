package film

import (
	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/domain"
	"github.com/amirasaad/cinema/pkg/middleware"
	authsvc "github.com/amirasaad/cinema/pkg/service/auth"
	filmsvc "github.com/amirasaad/cinema/pkg/service/film"
	txsvc "github.com/amirasaad/cinema/pkg/service/transaction"
	"github.com/amirasaad/cinema/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func Routes(
	r fiber.Router,
	filmSvc *filmsvc.Service,
	txSvc *txsvc.Service,
	authSvc *authsvc.Service,
	cfg *config.App,
) {
	jwt := middleware.JwtProtected(cfg.Auth.Jwt)
	authn := middleware.Authenticated(authSvc)
	admin := middleware.RequireAdmin()

	r.Get("/film", List(filmSvc))
	r.Get("/detail-film/:id", middleware.OptionalIdentity(authSvc), Detail(filmSvc))
	r.Get("/my-film", jwt, authn, MyList(txSvc))
	r.Post("/film", jwt, authn, admin, Create(filmSvc, cfg.Upload))
	r.Patch("/film/:id", jwt, authn, admin, Update(filmSvc, cfg.Upload))
	r.Get("/film-delete/:id", jwt, authn, admin, Delete(filmSvc))
	r.Delete("/film/:id", jwt, authn, admin, Delete(filmSvc))
}

// List returns the catalog, newest first.
// @Summary List films
// @Tags films
// @Produce json
// @Success 200 {object} common.Response
// @Router /film [get]
func List(filmSvc *filmsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		films, err := filmSvc.List(c.UserContext())
		if err != nil {
			return common.HandleError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", FilmData{Film: films})
	}
}

// Detail returns one film. With a valid bearer token the caller's purchase
// status is included, otherwise it is "-".
// @Summary Film detail
// @Tags films
// @Produce json
// @Param id path string true "Film ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 404 {object} common.Response
// @Router /detail-film/{id} [get]
func Detail(filmSvc *filmsvc.Service) fiber.Handler {
	return middleware.WithOptionalIdentity(func(c *fiber.Ctx, viewer *authsvc.Identity) error {
		id, err := pathID(c)
		if err != nil {
			return common.HandleError(c, err)
		}
		viewerID := uuid.Nil
		if viewer != nil {
			viewerID = viewer.UserID
		}
		d, err := filmSvc.Get(c.UserContext(), id, viewerID)
		if err != nil {
			return common.HandleError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", DetailData{Status: d.Status, Film: d.FilmRead})
	})
}

// MyList returns the caller's approved purchases with their films.
// @Summary My film list
// @Tags films
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.Response
// @Router /my-film [get]
// @Security BearerAuth
func MyList(txSvc *txsvc.Service) fiber.Handler {
	return middleware.WithIdentity(func(c *fiber.Ctx, id authsvc.Identity) error {
		list, err := txSvc.MyList(c.UserContext(), id.UserID)
		if err != nil {
			return common.HandleError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", MyListData{MyList: list})
	})
}

// Create adds a film to the catalog.
// @Summary Create film
// @Tags films
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param category formData string true "Category"
// @Param price formData integer true "Price in the smallest currency unit"
// @Param link formData string true "Streaming link"
// @Param desc formData string true "Description"
// @Param thumbnail formData file true "Thumbnail (jpg, jpeg or png)"
// @Param poster formData file false "Poster (jpg, jpeg or png)"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Failure 403 {object} common.Response
// @Failure 502 {object} common.Response
// @Router /film [post]
// @Security BearerAuth
func Create(filmSvc *filmsvc.Service, uploadCfg *config.Upload) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[FilmInput](c)
		if input == nil {
			return err
		}
		img, err := images(c, true, uploadCfg)
		if err != nil {
			return common.HandleError(c, err)
		}
		f, err := filmSvc.Create(c.UserContext(), input.details(), img)
		if err != nil {
			return common.HandleError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Film created", FilmData{Film: f})
	}
}

// Update edits a film. New images replace the stored ones.
// @Summary Update film
// @Tags films
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Film ID"
// @Param title formData string true "Title"
// @Param category formData string true "Category"
// @Param price formData integer true "Price in the smallest currency unit"
// @Param link formData string true "Streaming link"
// @Param desc formData string true "Description"
// @Param thumbnail formData file false "Thumbnail (jpg, jpeg or png)"
// @Param poster formData file false "Poster (jpg, jpeg or png)"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Failure 403 {object} common.Response
// @Failure 404 {object} common.Response
// @Failure 502 {object} common.Response
// @Router /film/{id} [patch]
// @Security BearerAuth
func Update(filmSvc *filmsvc.Service, uploadCfg *config.Upload) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return common.HandleError(c, err)
		}
		input, err := common.BindAndValidate[FilmInput](c)
		if input == nil {
			return err
		}
		img, err := images(c, false, uploadCfg)
		if err != nil {
			return common.HandleError(c, err)
		}
		f, err := filmSvc.Update(c.UserContext(), id, input.details(), img)
		if err != nil {
			return common.HandleError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Film updated", FilmData{Film: f})
	}
}

// Delete removes a film and, best-effort, its images.
// @Summary Delete film
// @Tags films
// @Produce json
// @Param id path string true "Film ID"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.Response
// @Failure 403 {object} common.Response
// @Failure 404 {object} common.Response
// @Router /film-delete/{id} [get]
// @Router /film/{id} [delete]
// @Security BearerAuth
func Delete(filmSvc *filmsvc.Service) fiber.Handler {
	return middleware.WithIdentity(func(c *fiber.Ctx, actor authsvc.Identity) error {
		id, err := pathID(c)
		if err != nil {
			return common.HandleError(c, err)
		}
		if err := filmSvc.Delete(c.UserContext(), actor.UserID, id); err != nil {
			return common.HandleError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Film deleted", fiber.Map{"id": id})
	})
}

func images(c *fiber.Ctx, thumbnailRequired bool, cfg *config.Upload) (filmsvc.Images, error) {
	thumb, err := common.FormImage(c, "thumbnail", thumbnailRequired, cfg)
	if err != nil {
		return filmsvc.Images{}, err
	}
	poster, err := common.FormImage(c, "poster", false, cfg)
	if err != nil {
		return filmsvc.Images{}, err
	}
	return filmsvc.Images{Thumbnail: thumb, Poster: poster}, nil
}

func pathID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, domain.Validationf("id must be a valid id")
	}
	return id, nil
}
