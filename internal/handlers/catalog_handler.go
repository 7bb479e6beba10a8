package handlers

import (
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/pagination"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves categories and genres. Both are the same shape:
// public list with name search, admin-only create and delete-by-slug.
type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	p := pagination.FromCtx(c)
	categories, total, err := h.catalogService.ListCategories(c.Query("search"), p)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(pagination.NewEnvelope(listBaseURL(c), p, total, categories))
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.SlugRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}
	category, err := h.catalogService.CreateCategory(middleware.Actor(c), &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteCategory(middleware.Actor(c), c.Params("slug")); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CatalogHandler) ListGenres(c *fiber.Ctx) error {
	p := pagination.FromCtx(c)
	genres, total, err := h.catalogService.ListGenres(c.Query("search"), p)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(pagination.NewEnvelope(listBaseURL(c), p, total, genres))
}

func (h *CatalogHandler) CreateGenre(c *fiber.Ctx) error {
	var req dto.SlugRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}
	genre, err := h.catalogService.CreateGenre(middleware.Actor(c), &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(genre)
}

func (h *CatalogHandler) DeleteGenre(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteGenre(middleware.Actor(c), c.Params("slug")); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
