package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	bunrepo "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	blogapi "github.com/healthsoc/blogapi"
)

type membersController struct {
	*Server
}

func newMembersController(s *Server) *membersController {
	return &membersController{Server: s}
}

func (ctrl *membersController) register(g fiber.Router) {
	g.Get("/", ctrl.List)

	admin := g.Group("/admin")
	admin.Get("/", ctrl.AdminList)
	admin.Post("/", ctrl.Create)
	admin.Put("/:id", ctrl.Update)
	admin.Delete("/:id", ctrl.Delete)
}

type MemberRequest struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Bio      string `json:"bio"`
	ImageURL string `json:"image_url"`
	Active   bool   `json:"is_active"`
}

func (r MemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Name,
			validation.Required,
			validation.Length(1, 200),
		),
		validation.Field(
			&r.Position,
			validation.Required,
		),
	)
}

func (r MemberRequest) record(id uuid.UUID) *blogapi.Member {
	return &blogapi.Member{
		ID:       id,
		Name:     r.Name,
		Position: r.Position,
		Bio:      r.Bio,
		ImageURL: r.ImageURL,
		Active:   r.Active,
	}
}

// List is the public roster: active members only
func (ctrl *membersController) List(c *fiber.Ctx) error {
	records, err := ctrl.repo.Members().Active(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (ctrl *membersController) AdminList(c *fiber.Ctx) error {
	records, err := ctrl.repo.Members().All(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (ctrl *membersController) Create(c *fiber.Ctx) error {
	payload := new(MemberRequest)
	if err := c.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed member payload")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	created, err := ctrl.repo.Members().Create(c.UserContext(), payload.record(uuid.New()))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (ctrl *membersController) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	payload := new(MemberRequest)
	if err := c.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed member payload")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	updated, err := ctrl.repo.Members().Update(c.UserContext(), payload.record(id),
		bunrepo.UpdateByID(id.String()))
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

func (ctrl *membersController) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := ctrl.repo.Members().DeleteByID(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
