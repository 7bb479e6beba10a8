package middleware

import (
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// AdminRequired gates a route to admin-equivalent actors. Must run after
// JWTProtected and LoadActor. The verdict comes from the access engine so
// there is exactly one admin policy in the codebase.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := Actor(c)
		if actor == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if err := access.Authorize(actor, access.ActionManageUsers, nil); err != nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		return c.Next()
	}
}
