package handlers

import (
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/pagination"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	p := pagination.FromCtx(c)
	users, total, err := h.userService.List(middleware.Actor(c), c.Query("search"), p)
	if err != nil {
		return respondServiceError(c, err)
	}
	results := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		results = append(results, userResponse(&users[i]))
	}
	return c.JSON(pagination.NewEnvelope(listBaseURL(c), p, total, results))
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}
	user, err := h.userService.Create(middleware.Actor(c), &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(userResponse(user))
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	user, err := h.userService.GetByUsername(middleware.Actor(c), c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(userResponse(user))
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}
	user, err := h.userService.Update(middleware.Actor(c), c.Params("username"), &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(userResponse(user))
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.userService.Delete(middleware.Actor(c), c.Params("username")); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me returns the calling user's own profile.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	actor := middleware.Actor(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	return c.JSON(userResponse(actor))
}

// UpdateMe patches the calling user's profile. Role changes by non-admins
// are silently ignored.
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}
	user, err := h.userService.UpdateSelf(middleware.Actor(c), &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(userResponse(user))
}

func userResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Bio:       user.Bio,
		Role:      user.Role.String(),
	}
}
