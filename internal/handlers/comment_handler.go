package handlers

import (
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/pagination"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) List(c *fiber.Ctx) error {
	titleID, ok := uuidParam(c, "title_id")
	if !ok {
		return respondNotFound(c, "title")
	}
	reviewID, ok := uuidParam(c, "review_id")
	if !ok {
		return respondNotFound(c, "review")
	}
	p := pagination.FromCtx(c)
	comments, total, err := h.commentService.List(titleID, reviewID, p)
	if err != nil {
		return respondServiceError(c, err)
	}
	results := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		results = append(results, commentResponse(&comments[i]))
	}
	return c.JSON(pagination.NewEnvelope(listBaseURL(c), p, total, results))
}

func (h *CommentHandler) Get(c *fiber.Ctx) error {
	titleID, ok := uuidParam(c, "title_id")
	if !ok {
		return respondNotFound(c, "title")
	}
	reviewID, ok := uuidParam(c, "review_id")
	if !ok {
		return respondNotFound(c, "review")
	}
	commentID, ok := uuidParam(c, "id")
	if !ok {
		return respondNotFound(c, "comment")
	}
	comment, err := h.commentService.Get(titleID, reviewID, commentID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(commentResponse(comment))
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	titleID, ok := uuidParam(c, "title_id")
	if !ok {
		return respondNotFound(c, "title")
	}
	reviewID, ok := uuidParam(c, "review_id")
	if !ok {
		return respondNotFound(c, "review")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}
	comment, err := h.commentService.Create(middleware.Actor(c), titleID, reviewID, &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(commentResponse(comment))
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	titleID, ok := uuidParam(c, "title_id")
	if !ok {
		return respondNotFound(c, "title")
	}
	reviewID, ok := uuidParam(c, "review_id")
	if !ok {
		return respondNotFound(c, "review")
	}
	commentID, ok := uuidParam(c, "id")
	if !ok {
		return respondNotFound(c, "comment")
	}
	var req dto.UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	comment, err := h.commentService.Update(middleware.Actor(c), titleID, reviewID, commentID, &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(commentResponse(comment))
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	titleID, ok := uuidParam(c, "title_id")
	if !ok {
		return respondNotFound(c, "title")
	}
	reviewID, ok := uuidParam(c, "review_id")
	if !ok {
		return respondNotFound(c, "review")
	}
	commentID, ok := uuidParam(c, "id")
	if !ok {
		return respondNotFound(c, "comment")
	}
	if err := h.commentService.Delete(middleware.Actor(c), titleID, reviewID, commentID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func commentResponse(comment *models.Comment) dto.CommentResponse {
	resp := dto.CommentResponse{
		ID:      comment.ID,
		Text:    comment.Text,
		PubDate: comment.PubDate,
	}
	if comment.Author != nil {
		resp.Author = comment.Author.Username
	}
	return resp
}
