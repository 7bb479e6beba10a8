package handlers

import (
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/pagination"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) List(c *fiber.Ctx) error {
	titleID, ok := uuidParam(c, "title_id")
	if !ok {
		return respondNotFound(c, "title")
	}
	p := pagination.FromCtx(c)
	reviews, total, err := h.reviewService.List(titleID, p)
	if err != nil {
		return respondServiceError(c, err)
	}
	results := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		results = append(results, reviewResponse(&reviews[i]))
	}
	return c.JSON(pagination.NewEnvelope(listBaseURL(c), p, total, results))
}

func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	titleID, ok := uuidParam(c, "title_id")
	if !ok {
		return respondNotFound(c, "title")
	}
	reviewID, ok := uuidParam(c, "id")
	if !ok {
		return respondNotFound(c, "review")
	}
	review, err := h.reviewService.Get(titleID, reviewID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(reviewResponse(review))
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	titleID, ok := uuidParam(c, "title_id")
	if !ok {
		return respondNotFound(c, "title")
	}
	var req dto.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}
	review, err := h.reviewService.Create(middleware.Actor(c), titleID, &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reviewResponse(review))
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	titleID, ok := uuidParam(c, "title_id")
	if !ok {
		return respondNotFound(c, "title")
	}
	reviewID, ok := uuidParam(c, "id")
	if !ok {
		return respondNotFound(c, "review")
	}
	var req dto.UpdateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}
	review, err := h.reviewService.Update(middleware.Actor(c), titleID, reviewID, &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(reviewResponse(review))
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	titleID, ok := uuidParam(c, "title_id")
	if !ok {
		return respondNotFound(c, "title")
	}
	reviewID, ok := uuidParam(c, "id")
	if !ok {
		return respondNotFound(c, "review")
	}
	if err := h.reviewService.Delete(middleware.Actor(c), titleID, reviewID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func reviewResponse(review *models.Review) dto.ReviewResponse {
	resp := dto.ReviewResponse{
		ID:      review.ID,
		Text:    review.Text,
		Score:   review.Score,
		PubDate: review.PubDate,
	}
	if review.Author != nil {
		resp.Author = review.Author.Username
	}
	return resp
}
