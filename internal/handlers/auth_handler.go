package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUp registers an identity and issues a confirmation code. Repeating
// the call for the same (email, username) pair re-issues the code.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	resp, err := h.authService.SignUp(&req)
	if err != nil {
		// Identity conflicts are part of this endpoint's validation
		// contract and answer 400, unlike conflicts elsewhere.
		if errors.Is(err, services.ErrConflict) {
			return badRequest(c, err.Error())
		}
		return respondServiceError(c, err)
	}
	return c.JSON(resp)
}

// Token exchanges a confirmation code for a bearer token.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	resp, err := h.authService.IssueToken(&req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(resp)
}
