package auth

import (
	"errors"

	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/domain"
	"github.com/amirasaad/cinema/pkg/middleware"
	authsvc "github.com/amirasaad/cinema/pkg/service/auth"
	usersvc "github.com/amirasaad/cinema/pkg/service/user"
	"github.com/amirasaad/cinema/webapi/common"
	"github.com/gofiber/fiber/v2"
)

func Routes(r fiber.Router, authSvc *authsvc.Service, userSvc *usersvc.Service, cfg *config.App) {
	r.Post("/register", Register(userSvc, authSvc))
	r.Post("/login", Login(authSvc))
	r.Post("/logout",
		middleware.JwtProtected(cfg.Auth.Jwt),
		middleware.Authenticated(authSvc),
		Logout(authSvc),
	)
	r.Get("/check-auth",
		middleware.JwtProtected(cfg.Auth.Jwt),
		middleware.Authenticated(authSvc),
		CheckAuth(userSvc),
	)
}

// Register creates an account and logs it in.
// @Summary Register
// @Description Create an account with email, password and full name
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterInput true "Account data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 429 {object} common.Response
// @Failure 500 {object} common.Response
// @Router /register [post]
func Register(userSvc *usersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterInput](c)
		if input == nil {
			return err
		}
		u, err := userSvc.Register(c.UserContext(), input.Email, input.Password, input.Fullname)
		if err != nil {
			// A taken email is reported like any other rejected input.
			if errors.Is(err, domain.ErrAlreadyExists) {
				return common.HandleErrorWithStatus(c, err, fiber.StatusBadRequest)
			}
			return common.HandleError(c, err)
		}
		token, err := authSvc.IssueToken(c.UserContext(), u)
		if err != nil {
			return common.HandleError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "User registered", withToken(u, token))
	}
}

// Login handles user authentication and returns a JWT token.
// @Summary User login
// @Description Authenticate user with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginInput true "Login credentials"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 429 {object} common.Response
// @Failure 500 {object} common.Response
// @Router /login [post]
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err
		}
		u, err := authSvc.Login(c.UserContext(), input.Email, input.Password)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return common.HandleErrorWithStatus(c, err, fiber.StatusBadRequest)
			}
			return common.HandleError(c, err)
		}
		token, err := authSvc.IssueToken(c.UserContext(), u)
		if err != nil {
			return common.HandleError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Success login", withToken(u, token))
	}
}

// Logout revokes the bearer token of the request.
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.Response
// @Failure 502 {object} common.Response
// @Router /logout [post]
// @Security BearerAuth
func Logout(authSvc *authsvc.Service) fiber.Handler {
	return middleware.WithIdentity(func(c *fiber.Ctx, id authsvc.Identity) error {
		if err := authSvc.Logout(c.UserContext(), id); err != nil {
			return common.HandleError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Logged out", nil)
	})
}

// CheckAuth returns the profile behind the bearer token.
// @Summary Check authentication
// @Tags auth
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.Response
// @Router /check-auth [get]
// @Security BearerAuth
func CheckAuth(userSvc *usersvc.Service) fiber.Handler {
	return middleware.WithIdentity(func(c *fiber.Ctx, id authsvc.Identity) error {
		u, err := userSvc.Get(c.UserContext(), id.UserID)
		if err != nil {
			return common.HandleError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", UserData{User: u})
	})
}
