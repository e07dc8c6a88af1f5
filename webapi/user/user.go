package user

import (
	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/domain"
	"github.com/amirasaad/cinema/pkg/middleware"
	authsvc "github.com/amirasaad/cinema/pkg/service/auth"
	usersvc "github.com/amirasaad/cinema/pkg/service/user"
	"github.com/amirasaad/cinema/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func Routes(r fiber.Router, userSvc *usersvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	jwt := middleware.JwtProtected(cfg.Auth.Jwt)
	authn := middleware.Authenticated(authSvc)
	r.Get("/user", jwt, authn, Show(userSvc))
	r.Patch("/user/:id", jwt, authn, Update(userSvc, cfg.Upload))
}

// Show returns the caller's profile.
// @Summary Current user profile
// @Tags users
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.Response
// @Router /user [get]
// @Security BearerAuth
func Show(userSvc *usersvc.Service) fiber.Handler {
	return middleware.WithIdentity(func(c *fiber.Ctx, id authsvc.Identity) error {
		u, err := userSvc.Get(c.UserContext(), id.UserID)
		if err != nil {
			return common.HandleError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", UserData{User: u})
	})
}

// Update edits a profile. Only the owner or an admin may do so.
// @Summary Update user profile
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "User ID"
// @Param fullname formData string false "Full name"
// @Param phone formData string false "Phone number"
// @Param image formData file false "Profile image (jpg, jpeg or png)"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Failure 403 {object} common.Response
// @Failure 404 {object} common.Response
// @Failure 502 {object} common.Response
// @Router /user/{id} [patch]
// @Security BearerAuth
func Update(userSvc *usersvc.Service, uploadCfg *config.Upload) fiber.Handler {
	return middleware.WithIdentity(func(c *fiber.Ctx, actor authsvc.Identity) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.HandleError(c, domain.Validationf("user id must be a valid id"))
		}
		input, err := common.BindAndValidate[UpdateProfileInput](c)
		if input == nil {
			return err
		}
		img, err := common.FormImage(c, "image", false, uploadCfg)
		if err != nil {
			return common.HandleError(c, err)
		}
		u, err := userSvc.UpdateProfile(c.UserContext(), actor, id, usersvc.ProfileUpdate{
			Fullname: input.Fullname,
			Phone:    input.Phone,
			Image:    img,
		})
		if err != nil {
			return common.HandleError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Profile updated", UserData{User: u})
	})
}
