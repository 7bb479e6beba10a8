package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	User    *handlers.UserHandler
	Catalog *handlers.CatalogHandler
	Title   *handlers.TitleHandler
	Review  *handlers.ReviewHandler
	Comment *handlers.CommentHandler
	Health  *handlers.HealthHandler
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers) {
	api := app.Group("/api/v1")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth — public, with a stricter rate limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signup", h.Auth.SignUp)
	auth.Post("/token", h.Auth.Token)

	// JWT middleware is applied per write route so public reads on the
	// same paths stay anonymous.
	jwt := middleware.JWTProtected(cfg)
	actor := middleware.LoadActor(db)
	admin := middleware.AdminRequired()

	// Catalog: reads public, writes authenticated (admin enforced by the
	// access engine inside the services).
	api.Get("/categories", h.Catalog.ListCategories)
	api.Post("/categories", jwt, actor, h.Catalog.CreateCategory)
	api.Delete("/categories/:slug", jwt, actor, h.Catalog.DeleteCategory)

	api.Get("/genres", h.Catalog.ListGenres)
	api.Post("/genres", jwt, actor, h.Catalog.CreateGenre)
	api.Delete("/genres/:slug", jwt, actor, h.Catalog.DeleteGenre)

	api.Get("/titles", h.Title.List)
	api.Post("/titles", jwt, actor, h.Title.Create)
	api.Get("/titles/:id", h.Title.Get)
	api.Patch("/titles/:id", jwt, actor, h.Title.Update)
	api.Delete("/titles/:id", jwt, actor, h.Title.Delete)

	// Reviews nested under titles
	api.Get("/titles/:title_id/reviews", h.Review.List)
	api.Post("/titles/:title_id/reviews", jwt, actor, h.Review.Create)
	api.Get("/titles/:title_id/reviews/:id", h.Review.Get)
	api.Patch("/titles/:title_id/reviews/:id", jwt, actor, h.Review.Update)
	api.Delete("/titles/:title_id/reviews/:id", jwt, actor, h.Review.Delete)

	// Comments nested under reviews
	api.Get("/titles/:title_id/reviews/:review_id/comments", h.Comment.List)
	api.Post("/titles/:title_id/reviews/:review_id/comments", jwt, actor, h.Comment.Create)
	api.Get("/titles/:title_id/reviews/:review_id/comments/:id", h.Comment.Get)
	api.Patch("/titles/:title_id/reviews/:review_id/comments/:id", jwt, actor, h.Comment.Update)
	api.Delete("/titles/:title_id/reviews/:review_id/comments/:id", jwt, actor, h.Comment.Delete)

	// Self-service profile; registered before /users/:username so "me"
	// never matches as a username.
	api.Get("/users/me", jwt, actor, h.User.Me)
	api.Patch("/users/me", jwt, actor, h.User.UpdateMe)

	// User administration
	api.Get("/users", jwt, actor, admin, h.User.List)
	api.Post("/users", jwt, actor, admin, h.User.Create)
	api.Get("/users/:username", jwt, actor, admin, h.User.Get)
	api.Patch("/users/:username", jwt, actor, admin, h.User.Update)
	api.Delete("/users/:username", jwt, actor, admin, h.User.Delete)
}
