package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cfc-helpdesk/helpdesk-service/internal/api/http/handlers"
	"github.com/cfc-helpdesk/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Comments       *handlers.CommentsHandler
	Categories     *handlers.CategoriesHandler
	Articles       *handlers.ArticlesHandler
	SLAs           *handlers.SLAsHandler
	Profiles       *handlers.ProfilesHandler
	Dashboard      *handlers.DashboardHandler
	Directory      *handlers.DirectoryHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	// Published knowledge base is readable without a token.
	app.Get("/articles", cfg.Articles.List)
	app.Get("/articles/:slug", cfg.Articles.GetBySlug)
	app.Get("/categories", cfg.Categories.List)
	app.Get("/categories/:id", cfg.Categories.Get)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	tickets := protected.Group("/tickets")
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", cfg.Tickets.Delete)
	tickets.Get("/:id/history", cfg.Tickets.History)
	tickets.Post("/:id/comments", cfg.Comments.Add)
	tickets.Get("/:id/comments", cfg.Comments.List)
	tickets.Post("/:id/attachments", cfg.Tickets.AddAttachment)
	tickets.Get("/:id/attachments", cfg.Tickets.ListAttachments)

	staffOnly := auth.RequireStaff()
	tickets.Delete("/:id/attachments/:attachmentID", staffOnly, cfg.Tickets.DeleteAttachment)
	tickets.Post("/:id/status", staffOnly, cfg.Tickets.ChangeStatus)
	tickets.Post("/:id/assign", staffOnly, cfg.Tickets.Assign)
	tickets.Post("/:id/auto-assign", staffOnly, cfg.Tickets.AutoAssign)
	tickets.Post("/:id/unassign", staffOnly, cfg.Tickets.Unassign)

	protected.Patch("/comments/:id", cfg.Comments.Edit)

	protected.Get("/agents/available", staffOnly, cfg.Profiles.ListAvailable)
	protected.Get("/agents/:id/profile", staffOnly, cfg.Profiles.Get)
	protected.Patch("/agents/:id/profile", staffOnly, cfg.Profiles.Update)

	protected.Get("/dashboard/stats", staffOnly, cfg.Dashboard.Stats)

	protected.Post("/articles", staffOnly, cfg.Articles.Create)
	protected.Put("/articles/:id", staffOnly, cfg.Articles.Update)
	protected.Post("/articles/:id/publish", staffOnly, cfg.Articles.Publish)
	protected.Post("/articles/:id/archive", staffOnly, cfg.Articles.Archive)

	adminOnly := auth.RequireAdmin()
	protected.Delete("/articles/:id", adminOnly, cfg.Articles.Delete)
	protected.Post("/categories", adminOnly, cfg.Categories.Create)
	protected.Put("/categories/:id", adminOnly, cfg.Categories.Update)
	protected.Delete("/categories/:id", adminOnly, cfg.Categories.Delete)
	protected.Post("/slas", adminOnly, cfg.SLAs.Create)
	protected.Get("/slas", staffOnly, cfg.SLAs.List)
	protected.Post("/admin/directory/sync", adminOnly, cfg.Directory.Sync)
}
