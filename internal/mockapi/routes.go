package mockapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-client/internal/mockapi/auth"
	"github.com/spec-kit/helpdesk-client/internal/mockapi/handlers"
)

type routeConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Entries        *handlers.EntriesHandler
	Tags           *handlers.TagsHandler
	Mailbox        *handlers.MailboxHandler
	AuthMiddleware *auth.AuthMiddleware
}

// registerRoutes wires HTTP routes under /api. Groups carrying the auth
// middleware use their own prefix so the public /auth routes stay open.
func registerRoutes(app *fiber.App, cfg routeConfig) {
	requireAuth := cfg.AuthMiddleware.Handle
	staff := auth.RequireRole(auth.RoleAdmin, auth.RoleAgent)

	api := app.Group("/api")
	api.Get("/health", cfg.Health.Live)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/logout-all", requireAuth, cfg.Auth.LogoutAll)
	authGroup.Get("/me", requireAuth, cfg.Auth.Me)

	users := api.Group("/users", requireAuth)
	users.Get("", cfg.Users.ListUsers)

	tickets := api.Group("/tickets", requireAuth)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Post("/search", cfg.Tickets.SearchTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/tags", cfg.Tickets.AddTags)
	tickets.Delete("/:id/tags/:tagId", cfg.Tickets.RemoveTag)
	tickets.Post("/:id/entries", cfg.Entries.CreateEntry)

	entries := api.Group("/entries", requireAuth)
	entries.Get("/:id", cfg.Entries.GetEntry)
	entries.Put("/:id", cfg.Entries.UpdateEntry)
	entries.Delete("/:id", cfg.Entries.DeleteEntry)
	entries.Post("/:id/tags", cfg.Entries.AddTags)
	entries.Delete("/:id/tags/:tagId", cfg.Entries.RemoveTag)

	tags := api.Group("/tags", requireAuth)
	tags.Get("", cfg.Tags.ListTags)
	tags.Get("/:id", cfg.Tags.GetTag)
	tags.Post("", staff, cfg.Tags.CreateTag)
	tags.Put("/:id", staff, cfg.Tags.UpdateTag)
	tags.Delete("/:id", staff, cfg.Tags.DeleteTag)

	ews := api.Group("/plugins/ews", requireAuth)
	ews.Get("/health", cfg.Mailbox.Health)
	ews.Get("/emails", cfg.Mailbox.ListEmails)
	ews.Get("/email", cfg.Mailbox.GetEmailDetail)
}
