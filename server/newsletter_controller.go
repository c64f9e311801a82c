package server

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	bunrepo "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	blogapi "github.com/healthsoc/blogapi"
)

type newsletterController struct {
	*Server
}

func newNewsletterController(s *Server) *newsletterController {
	return &newsletterController{Server: s}
}

func (ctrl *newsletterController) register(g fiber.Router) {
	g.Post("/subscribe", ctrl.Subscribe)
	g.Post("/unsubscribe", ctrl.Unsubscribe)
	g.Get("/verify/:code", ctrl.VerifyEmail)

	g.Get("/subscribers", ctrl.Subscribers)
	g.Delete("/subscribers/:id", ctrl.DeleteSubscriber)
}

type SubscribeRequest struct {
	Email string `json:"email"`
}

func (r SubscribeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
	)
}

// Subscribe creates an unverified entry and mails a verification link. A
// lapsed subscriber is reactivated instead of duplicated; the email column
// is unique.
func (ctrl *newsletterController) Subscribe(c *fiber.Ctx) error {
	payload := new(SubscribeRequest)
	if err := c.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed subscribe payload")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	ctx := c.UserContext()
	subs := ctrl.repo.Subscribers()

	existing, err := subs.GetByEmail(ctx, payload.Email)
	if err != nil && !bunrepo.IsRecordNotFound(err) {
		return err
	}

	if existing != nil {
		if existing.Active && existing.Verified {
			return errors.New("email is already subscribed", errors.CategoryConflict).
				WithTextCode("newsletter_already_subscribed")
		}

		existing.Active = true
		if _, err := subs.Update(ctx, existing, bunrepo.UpdateByID(existing.ID.String())); err != nil {
			return err
		}

		if !existing.Verified {
			if err := ctrl.mail.SendVerification(existing.Email, existing.VerificationCode); err != nil {
				ctrl.logger.Error("verification mail failed: %v", err)
			}
		}

		return c.JSON(fiber.Map{"status": "subscription renewed"})
	}

	now := time.Now()
	record := &blogapi.NewsletterSubscriber{
		ID:               uuid.New(),
		Email:            payload.Email,
		Active:           true,
		Verified:         false,
		VerificationCode: uuid.NewString(),
		SubscribedAt:     &now,
	}

	if _, err := subs.Create(ctx, record); err != nil {
		return err
	}

	if err := ctrl.mail.SendVerification(record.Email, record.VerificationCode); err != nil {
		// the subscription stands; the cleanup job reaps it if the
		// mail never lands and the user never verifies
		ctrl.logger.Error("verification mail failed: %v", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "verification email sent",
	})
}

func (ctrl *newsletterController) VerifyEmail(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing verification code")
	}

	ctx := c.UserContext()
	record, err := ctrl.repo.Subscribers().GetByCode(ctx, code)
	if err != nil {
		return err
	}

	if !record.Verified {
		if err := ctrl.repo.Subscribers().MarkVerified(ctx, record.ID); err != nil {
			return err
		}

		if err := ctrl.mail.SendWelcome(record.Email); err != nil {
			ctrl.logger.Error("welcome mail failed: %v", err)
		}
	}

	return c.JSON(fiber.Map{"status": "subscription verified"})
}

func (ctrl *newsletterController) Unsubscribe(c *fiber.Ctx) error {
	payload := new(SubscribeRequest)
	if err := c.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed unsubscribe payload")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	if err := ctrl.repo.Subscribers().Unsubscribe(c.UserContext(), payload.Email); err != nil {
		return err
	}

	// same answer whether or not the address was on the list
	return c.JSON(fiber.Map{"status": "unsubscribed"})
}

func (ctrl *newsletterController) Subscribers(c *fiber.Ctx) error {
	records, err := ctrl.repo.Subscribers().All(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (ctrl *newsletterController) DeleteSubscriber(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := ctrl.repo.Subscribers().DeleteByID(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
