package handlers

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/pagination"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type TitleHandler struct {
	catalogService *services.CatalogService
}

func NewTitleHandler(catalogService *services.CatalogService) *TitleHandler {
	return &TitleHandler{catalogService: catalogService}
}

func (h *TitleHandler) List(c *fiber.Ctx) error {
	filter := dto.TitleFilter{
		Name:     c.Query("name"),
		Genre:    c.Query("genre"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "year must be an integer")
		}
		filter.Year = &year
	}

	p := pagination.FromCtx(c)
	titles, total, err := h.catalogService.ListTitles(filter, p)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(pagination.NewEnvelope(listBaseURL(c), p, total, titles))
}

func (h *TitleHandler) Get(c *fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return respondNotFound(c, "title")
	}
	title, err := h.catalogService.GetTitle(id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(title)
}

func (h *TitleHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTitleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}
	title, err := h.catalogService.CreateTitle(middleware.Actor(c), &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(title)
}

func (h *TitleHandler) Update(c *fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return respondNotFound(c, "title")
	}
	var req dto.UpdateTitleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}
	title, err := h.catalogService.UpdateTitle(middleware.Actor(c), id, &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(title)
}

func (h *TitleHandler) Delete(c *fiber.Ctx) error {
	id, ok := uuidParam(c, "id")
	if !ok {
		return respondNotFound(c, "title")
	}
	if err := h.catalogService.DeleteTitle(middleware.Actor(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
