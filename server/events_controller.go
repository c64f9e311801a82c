package server

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	bunrepo "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	blogapi "github.com/healthsoc/blogapi"
)

type eventsController struct {
	*Server
}

func newEventsController(s *Server) *eventsController {
	return &eventsController{Server: s}
}

func (ctrl *eventsController) register(g fiber.Router) {
	g.Get("/", ctrl.List)
	g.Get("/upcoming", ctrl.Upcoming)

	admin := g.Group("/admin")
	admin.Post("/", ctrl.Create)
	admin.Put("/:id", ctrl.Update)
	admin.Delete("/:id", ctrl.Delete)

	g.Get("/:id", ctrl.Show)
}

type EventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	EventDate   time.Time `json:"event_date"`
	Location    string    `json:"location"`
}

func (r EventRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Title,
			validation.Required,
			validation.Length(1, 300),
		),
		validation.Field(
			&r.EventDate,
			validation.Required,
		),
	)
}

func (r EventRequest) record(id uuid.UUID) *blogapi.Event {
	return &blogapi.Event{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		EventDate:   r.EventDate,
		Location:    r.Location,
	}
}

func (ctrl *eventsController) List(c *fiber.Ctx) error {
	records, err := ctrl.repo.Events().All(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (ctrl *eventsController) Upcoming(c *fiber.Ctx) error {
	records, err := ctrl.repo.Events().Upcoming(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (ctrl *eventsController) Show(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	record, err := ctrl.repo.Events().GetByUUID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(record)
}

func (ctrl *eventsController) Create(c *fiber.Ctx) error {
	payload := new(EventRequest)
	if err := c.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed event payload")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	created, err := ctrl.repo.Events().Create(c.UserContext(), payload.record(uuid.New()))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (ctrl *eventsController) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	payload := new(EventRequest)
	if err := c.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed event payload")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	updated, err := ctrl.repo.Events().Update(c.UserContext(), payload.record(id),
		bunrepo.UpdateByID(id.String()))
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

func (ctrl *eventsController) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := ctrl.repo.Events().DeleteByID(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
