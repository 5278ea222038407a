package engine

import "github.com/gofiber/fiber/v2"

// RegisterAdminRoutes registers the dynamic per-entity CRUD routes. The
// static "new" segment is registered before ":id" so it wins route matching.
func RegisterAdminRoutes(app *fiber.App, h *Handler) {
	admin := app.Group("/admin")
	admin.Get("/:entity", h.List)
	admin.Get("/:entity/new", h.CreateForm)
	admin.Post("/:entity/new", h.Create)
	admin.Get("/:entity/:id", h.Show)
	admin.Get("/:entity/:id/edit", h.EditForm)
	admin.Post("/:entity/:id/edit", h.Update)
	admin.Post("/:entity/:id/delete", h.Delete)
}
