package server

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"

	"github.com/healthsoc/blogapi/auth"
	"github.com/healthsoc/blogapi/middleware/authware"
)

type authController struct {
	*Server
}

func newAuthController(s *Server) *authController {
	return &authController{Server: s}
}

func (ctrl *authController) register(g fiber.Router) {
	g.Post("/login", ctrl.Login)
	g.Get("/verify", ctrl.Verify)
	g.Post("/refresh", ctrl.Refresh)
	g.Post("/logout", ctrl.Logout)
}

// LoginRequest carries admin credentials. Identifier is email or username.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Identifier,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

type RefreshRequest struct {
	Token string `json:"token"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
	)
}

func (ctrl *authController) Login(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed login payload")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	token, err := ctrl.auther.Login(c.Context(), payload.Identifier, payload.Password)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderAuthorization, ctrl.cfg.GetAuthScheme()+" "+token)
	return c.JSON(fiber.Map{"token": token})
}

// Verify answers "is this session still good". The gate already ran the full
// pipeline, so reaching here means yes; echo back the claims.
func (ctrl *authController) Verify(c *fiber.Ctx) error {
	claims := authware.ClaimsFromCtx(c, ctrl.cfg.GetContextKey())
	if claims == nil {
		return auth.ErrAuthRequired
	}

	role, _ := claims.Role()

	return c.JSON(fiber.Map{
		"subject":    claims.Subject(),
		"role":       role,
		"expires_at": claims.Expires(),
	})
}

// Refresh exchanges a still-valid token for a fresh one. The old token is
// revoked as part of the exchange, so at most one live token descends from
// it; once expired, only a full login mints a new session.
func (ctrl *authController) Refresh(c *fiber.Ctx) error {
	raw := ctrl.bearerToken(c)

	if raw == "" {
		payload := new(RefreshRequest)
		if err := c.BodyParser(payload); err == nil {
			raw = payload.Token
		}
	}

	if raw == "" {
		return auth.ErrAuthRequired
	}

	token, err := ctrl.auther.Refresh(c.Context(), raw)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderAuthorization, ctrl.cfg.GetAuthScheme()+" "+token)
	return c.JSON(fiber.Map{"token": token})
}

// Logout revokes the presented token. Repeated logouts of the same token
// succeed; revocation is idempotent.
func (ctrl *authController) Logout(c *fiber.Ctx) error {
	raw := ctrl.bearerToken(c)
	if raw == "" {
		return auth.ErrAuthRequired
	}

	if err := ctrl.auther.Logout(raw); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "logged out"})
}

func (ctrl *authController) bearerToken(c *fiber.Ctx) string {
	scheme := ctrl.cfg.GetAuthScheme()
	value := c.Get(fiber.HeaderAuthorization)
	if len(value) > len(scheme)+1 && strings.EqualFold(value[:len(scheme)], scheme) {
		return strings.TrimSpace(value[len(scheme):])
	}
	return ""
}
