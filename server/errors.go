package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-repository-bun"
)

// errorHandler is the app-wide fiber error handler. Rich errors carry their
// own category; everything else is classified here before it leaves the
// process. Internal detail never reaches the response body.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	if ve, ok := err.(validation.Errors); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": ve,
		})
	}

	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
		})
	}

	if repository.IsRecordNotFound(err) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "record not found",
		})
	}

	var rich *errors.Error
	if !errors.As(err, &rich) {
		s.logger.Error("unhandled error path=%s: %v", c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	status := categoryStatus(rich.Category)
	if status >= fiber.StatusInternalServerError {
		s.logger.Error("request failed path=%s category=%s detail=%s",
			c.Path(), string(rich.Category), print.MaybePrettyJSON(rich.Metadata))
		return c.Status(status).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	body := fiber.Map{"error": rich.Message}
	if rich.TextCode != "" {
		body["code"] = rich.TextCode
	}
	return c.Status(status).JSON(body)
}

func categoryStatus(category errors.Category) int {
	switch category {
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryConflict:
		return fiber.StatusConflict
	case errors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// notFound is the JSON 404 for unrouted paths
func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "resource not found",
	})
}
