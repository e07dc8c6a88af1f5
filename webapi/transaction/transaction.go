package transaction

import (
	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/domain"
	"github.com/amirasaad/cinema/pkg/domain/transaction"
	"github.com/amirasaad/cinema/pkg/middleware"
	authsvc "github.com/amirasaad/cinema/pkg/service/auth"
	txsvc "github.com/amirasaad/cinema/pkg/service/transaction"
	"github.com/amirasaad/cinema/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func Routes(r fiber.Router, txSvc *txsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	jwt := middleware.JwtProtected(cfg.Auth.Jwt)
	authn := middleware.Authenticated(authSvc)
	admin := middleware.RequireAdmin()

	r.Post("/transac", jwt, authn, Submit(txSvc, cfg.Upload))
	r.Get("/transac", jwt, authn, History(txSvc))
	r.Get("/incoming-transac", jwt, authn, admin, Incoming(txSvc))
	r.Patch("/approve/:id", jwt, authn, admin, Transition(txSvc, transaction.StatusApproved))
	r.Patch("/reject/:id", jwt, authn, admin, Transition(txSvc, transaction.StatusRejected))
	r.Patch("/pending/:id", jwt, authn, admin, Transition(txSvc, transaction.StatusPending))
}

// Submit records a purchase with its bank transfer proof.
// @Summary Submit purchase
// @Description Record a Pending purchase of a film. One purchase per film and user.
// @Tags transactions
// @Accept multipart/form-data
// @Produce json
// @Param idFilm formData string true "Film ID"
// @Param accountNum formData string true "Bank account number"
// @Param image formData file true "Proof of transfer (jpg, jpeg or png)"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Failure 404 {object} common.Response
// @Failure 409 {object} common.Response
// @Failure 502 {object} common.Response
// @Router /transac [post]
// @Security BearerAuth
func Submit(txSvc *txsvc.Service, uploadCfg *config.Upload) fiber.Handler {
	return middleware.WithIdentity(func(c *fiber.Ctx, id authsvc.Identity) error {
		input, err := common.BindAndValidate[SubmitInput](c)
		if input == nil {
			return err
		}
		proof, err := common.FormImage(c, "image", true, uploadCfg)
		if err != nil {
			return common.HandleError(c, err)
		}
		tx, err := txSvc.Submit(c.UserContext(), id.UserID, txsvc.SubmitRequest{
			FilmID:        input.FilmID,
			AccountNumber: input.AccountNumber,
		}, proof)
		if err != nil {
			return common.HandleError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Purchase submitted", TransactionData{Transaction: tx})
	})
}

// History returns the caller's purchases, newest first.
// @Summary Purchase history
// @Tags transactions
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.Response
// @Router /transac [get]
// @Security BearerAuth
func History(txSvc *txsvc.Service) fiber.Handler {
	return middleware.WithIdentity(func(c *fiber.Ctx, id authsvc.Identity) error {
		txs, err := txSvc.History(c.UserContext(), id.UserID)
		if err != nil {
			return common.HandleError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", TransactionData{Transaction: txs})
	})
}

// Incoming returns every purchase for review, newest first.
// @Summary Incoming purchases
// @Tags transactions
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.Response
// @Failure 403 {object} common.Response
// @Router /incoming-transac [get]
// @Security BearerAuth
func Incoming(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		txs, err := txSvc.ListIncoming(c.UserContext())
		if err != nil {
			return common.HandleError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "", TransactionData{Transaction: txs})
	}
}

// Transition moves a purchase to target. Repeating the current status
// succeeds.
// @Summary Review purchase
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Failure 403 {object} common.Response
// @Failure 404 {object} common.Response
// @Router /approve/{id} [patch]
// @Router /reject/{id} [patch]
// @Router /pending/{id} [patch]
// @Security BearerAuth
func Transition(txSvc *txsvc.Service, target transaction.Status) fiber.Handler {
	return middleware.WithIdentity(func(c *fiber.Ctx, actor authsvc.Identity) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.HandleError(c, domain.Validationf("id must be a valid id"))
		}
		tx, err := txSvc.Transition(c.UserContext(), actor.UserID, id, target)
		if err != nil {
			return common.HandleError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction "+string(target), TransactionData{Transaction: tx})
	})
}
