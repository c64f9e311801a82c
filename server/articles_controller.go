package server

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	bunrepo "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	blogapi "github.com/healthsoc/blogapi"
	"github.com/healthsoc/blogapi/repository"
)

type articlesController struct {
	*Server
}

func newArticlesController(s *Server) *articlesController {
	return &articlesController{Server: s}
}

func (ctrl *articlesController) register(g fiber.Router) {
	g.Get("/published", ctrl.Published)
	g.Get("/featured", ctrl.Featured)

	admin := g.Group("/admin")
	admin.Get("/", ctrl.AdminList)
	admin.Post("/", ctrl.Create)
	admin.Get("/:id", ctrl.AdminShow)
	admin.Put("/:id", ctrl.Update)
	admin.Delete("/:id", ctrl.Delete)

	// keep the wildcard last so it cannot shadow the named routes
	g.Get("/:id", ctrl.Show)
}

// ArticleRequest is the admin create/update payload
type ArticleRequest struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Content   string `json:"content"`
	ImageURL  string `json:"image_url"`
	Published bool   `json:"is_published"`
	Featured  bool   `json:"is_featured"`
}

func (r ArticleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Title,
			validation.Required,
			validation.Length(1, 300),
		),
		validation.Field(
			&r.Content,
			validation.Required,
		),
	)
}

func (ctrl *articlesController) Published(c *fiber.Ctx) error {
	records, err := ctrl.repo.Articles().Published(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (ctrl *articlesController) Featured(c *fiber.Ctx) error {
	records, err := ctrl.repo.Articles().Featured(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (ctrl *articlesController) Show(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	record, err := ctrl.repo.Articles().GetPublishedByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(record)
}

func (ctrl *articlesController) AdminList(c *fiber.Ctx) error {
	records, err := ctrl.repo.Articles().All(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (ctrl *articlesController) AdminShow(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	record, err := ctrl.repo.Articles().GetByID(c.UserContext(), id.String())
	if err != nil {
		return err
	}
	return c.JSON(record)
}

func (ctrl *articlesController) Create(c *fiber.Ctx) error {
	payload := new(ArticleRequest)
	if err := c.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed article payload")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	record := repository.PrepareArticle(&blogapi.Article{
		Title:     payload.Title,
		Summary:   payload.Summary,
		Content:   payload.Content,
		ImageURL:  payload.ImageURL,
		Published: payload.Published,
		Featured:  payload.Featured,
	})

	created, err := ctrl.repo.Articles().Create(c.UserContext(), record)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (ctrl *articlesController) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	payload := new(ArticleRequest)
	if err := c.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed article payload")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	record := &blogapi.Article{
		ID:        id,
		Title:     payload.Title,
		Summary:   payload.Summary,
		Content:   payload.Content,
		ImageURL:  payload.ImageURL,
		Published: payload.Published,
		Featured:  payload.Featured,
	}
	if record.Published && record.PublishedAt == nil {
		now := time.Now()
		record.PublishedAt = &now
	}

	updated, err := ctrl.repo.Articles().Update(c.UserContext(), record,
		bunrepo.UpdateByID(id.String()))
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

func (ctrl *articlesController) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := ctrl.repo.Articles().DeleteByID(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}
