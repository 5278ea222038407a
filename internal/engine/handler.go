// Package engine turns an HTTP request plus an entity configuration into a
// validated mutation or a rendered view. The pipeline is the error boundary:
// everything below it is caught and converted into a redirect or a render
// payload; nothing propagates to the HTTP layer as an unhandled fault.
package engine

import (
	"context"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"backoffice/internal/api"
	"backoffice/internal/auth"
	"backoffice/internal/metadata"
	"backoffice/internal/render"
	"backoffice/internal/service"
)

const defaultPageSize = 20

// Handler derives the CRUD operation handlers for every registered entity.
type Handler struct {
	registry   *metadata.Registry
	cookieName string
}

func NewHandler(reg *metadata.Registry, cookieName string) *Handler {
	if cookieName == "" {
		cookieName = auth.DefaultCookieName
	}
	return &Handler{registry: reg, cookieName: cookieName}
}

// List handles GET /admin/:entity.
func (h *Handler) List(c *fiber.Ctx) error {
	e, token, err := h.admit(c)
	if err != nil || e == nil {
		return err
	}
	if !e.CanView {
		return fiber.ErrNotFound
	}

	params := service.ListParams{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", defaultPageSize),
	}

	adapter := e.Service.Bind(token)
	result, err := adapter.List(c.Context(), params)
	if err != nil {
		if api.IsUnauthorized(err) {
			return h.toLogin(c)
		}
		log.Printf("%s list error: %v", e.Name, err)
		empty := &service.ListResult{
			Items:      []service.Record{},
			Pagination: service.Pagination{Page: params.Page, PageSize: params.PageSize},
		}
		return h.html(c, render.ListPage(e, empty, h.failMessage(err, "Failed to load %s", e.PluralName), h.nav()))
	}

	return h.html(c, render.ListPage(e, result, "", h.nav()))
}

// Show handles GET /admin/:entity/:id.
func (h *Handler) Show(c *fiber.Ctx) error {
	e, token, err := h.admit(c)
	if err != nil || e == nil {
		return err
	}
	if !e.CanView {
		return fiber.ErrNotFound
	}

	record, err := h.fetch(c.Context(), e, token, c.Params("id"))
	if err != nil {
		log.Printf("%s show error: %v", e.Name, err)
		return h.html(c, render.ShowPage(e, nil, h.failMessage(err, "Failed to load %s", e.SingularName), h.nav()))
	}
	if record == nil {
		// An empty lookup result is "not found", not a fault.
		return h.html(c, render.ShowPage(e, nil, e.SingularName+" not found", h.nav()))
	}

	return h.html(c, render.ShowPage(e, record, "", h.nav()))
}

// CreateForm handles GET /admin/:entity/new.
func (h *Handler) CreateForm(c *fiber.Ctx) error {
	e, _, err := h.admit(c)
	if err != nil || e == nil {
		return err
	}
	if !e.CanCreate {
		return h.toList(c, e)
	}

	return h.html(c, render.FormPage(e, nil, nil, false, "", h.nav()))
}

// Create handles POST /admin/:entity/new.
func (h *Handler) Create(c *fiber.Ctx) error {
	e, token, err := h.admit(c)
	if err != nil || e == nil {
		return err
	}
	if !e.CanCreate {
		return h.toList(c, e)
	}

	values, errs := e.DecodeForm(formSource(c), false)

	// Auto-populate the ownership field when the credential carries an
	// identity. Decoding is best-effort: a malformed token just skips this.
	if e.OwnerField != "" && e.GetField(e.OwnerField) != nil {
		if identity, ok := auth.DecodeIdentity(token); ok {
			values[e.OwnerField] = identity
		}
	}

	errs = e.ValidateRecord(values, errs, false)
	if len(errs) > 0 {
		// Decoded values ride along so nothing the user typed is lost.
		return h.html(c, render.FormPage(e, values, errs, false, "", h.nav()))
	}

	adapter := e.Service.Bind(token)
	record, err := adapter.Create(c.Context(), values)
	if err != nil {
		log.Printf("%s create error: %v", e.Name, err)
		return h.html(c, render.FormPage(e, values, nil, false, h.failMessage(err, "Failed to create %s", e.SingularName), h.nav()))
	}

	if param := e.RouteParam(record); param != "" {
		return c.Redirect("/admin/"+e.Name+"/"+param, fiber.StatusSeeOther)
	}
	return h.toList(c, e)
}

// EditForm handles GET /admin/:entity/:id/edit.
func (h *Handler) EditForm(c *fiber.Ctx) error {
	e, token, err := h.admit(c)
	if err != nil || e == nil {
		return err
	}
	if !e.CanEdit {
		return h.toList(c, e)
	}

	record, err := h.fetch(c.Context(), e, token, c.Params("id"))
	if err != nil {
		log.Printf("%s edit error: %v", e.Name, err)
		return h.html(c, render.FormPage(e, nil, nil, true, h.failMessage(err, "Failed to load %s", e.SingularName), h.nav()))
	}
	if record == nil {
		return h.html(c, render.FormPage(e, nil, nil, true, e.SingularName+" not found", h.nav()))
	}

	return h.html(c, render.FormPage(e, record, nil, true, "", h.nav()))
}

// Update handles POST /admin/:entity/:id/edit.
func (h *Handler) Update(c *fiber.Ctx) error {
	e, token, err := h.admit(c)
	if err != nil || e == nil {
		return err
	}
	if !e.CanEdit {
		return h.toList(c, e)
	}

	rawID := c.Params("id")
	id, err := e.ResolveID(rawID)
	if err != nil {
		return h.html(c, render.FormPage(e, nil, nil, true, e.SingularName+" not found", h.nav()))
	}

	values, errs := e.DecodeForm(formSource(c), true)
	errs = e.ValidateRecord(values, errs, true)

	adapter := e.Service.Bind(token)

	if len(errs) > 0 {
		// Re-fetch so fields outside the form keep their current values, and
		// overlay the submitted edits so they aren't lost.
		record, fetchErr := service.Get(c.Context(), adapter, id)
		if fetchErr != nil {
			log.Printf("%s update refetch error: %v", e.Name, fetchErr)
		}
		return h.html(c, render.FormPage(e, overlay(record, values, e.IDField), errs, true, "", h.nav()))
	}

	if _, err := adapter.Update(c.Context(), id, values); err != nil {
		log.Printf("%s update error: %v", e.Name, err)
		record, fetchErr := service.Get(c.Context(), adapter, id)
		if fetchErr != nil {
			log.Printf("%s update refetch error: %v", e.Name, fetchErr)
		}
		return h.html(c, render.FormPage(e, overlay(record, nil, e.IDField), nil, true, h.failMessage(err, "Failed to update %s", e.SingularName), h.nav()))
	}

	return c.Redirect("/admin/"+e.Name+"/"+rawID, fiber.StatusSeeOther)
}

// Delete handles POST /admin/:entity/:id/delete. Deletion is fire-and-forget:
// whatever happens, the caller lands back on the list page and failures are
// only observable in the logs.
func (h *Handler) Delete(c *fiber.Ctx) error {
	e, token, err := h.admit(c)
	if err != nil || e == nil {
		return err
	}
	if !e.CanDelete {
		return h.toList(c, e)
	}

	id, err := e.ResolveID(c.Params("id"))
	if err != nil {
		log.Printf("%s delete error: %v", e.Name, err)
		return h.toList(c, e)
	}

	adapter := e.Service.Bind(token)

	if e.IsSystemRecord != nil {
		record, fetchErr := service.Get(c.Context(), adapter, id)
		if fetchErr != nil {
			log.Printf("%s delete fetch error: %v", e.Name, fetchErr)
			return h.toList(c, e)
		}
		if record != nil && e.IsSystemRecord(record) {
			log.Printf("%s delete skipped: %s is a system record", e.Name, id)
			return h.toList(c, e)
		}
	}

	if err := adapter.Delete(c.Context(), id); err != nil {
		log.Printf("%s delete error: %v", e.Name, err)
	}
	return h.toList(c, e)
}

// admit resolves the entity and runs the authentication gate. It returns a
// nil entity when the request was already answered (unknown entity or login
// redirect).
func (h *Handler) admit(c *fiber.Ctx) (*metadata.Entity, string, error) {
	name := c.Params("entity")
	e := h.registry.GetEntity(name)
	if e == nil {
		return nil, "", fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Unknown entity: %s", name))
	}

	token := c.Cookies(h.cookieName)
	if token == "" {
		return nil, "", h.toLogin(c)
	}
	return e, token, nil
}

func (h *Handler) fetch(ctx context.Context, e *metadata.Entity, token, rawID string) (service.Record, error) {
	id, err := e.ResolveID(rawID)
	if err != nil {
		return nil, nil // unparsable id behaves as not found
	}
	return service.Get(ctx, e.Service.Bind(token), id)
}

func (h *Handler) toLogin(c *fiber.Ctx) error {
	return c.Redirect(auth.LoginPath, fiber.StatusSeeOther)
}

func (h *Handler) toList(c *fiber.Ctx, e *metadata.Entity) error {
	return c.Redirect("/admin/"+e.Name, fiber.StatusSeeOther)
}

func (h *Handler) html(c *fiber.Ctx, body string) error {
	c.Set("Content-Type", fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(body)
}

func (h *Handler) nav() []render.NavLink {
	entities := h.registry.AllEntities()
	nav := make([]render.NavLink, 0, len(entities))
	for _, e := range entities {
		if !e.CanView {
			continue
		}
		nav = append(nav, render.NavLink{Href: "/admin/" + e.Name, Label: e.PluralName})
	}
	return nav
}

// failMessage prefers the remote error's own message, falling back to a
// generic one.
func (h *Handler) failMessage(err error, format string, arg string) string {
	if apiErr, ok := err.(*api.Error); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return fmt.Sprintf(format, arg)
}

// formSource adapts the request's form data to the decode contract: raw value
// plus whether the control was present at all.
func formSource(c *fiber.Ctx) metadata.FormSource {
	args := c.Request().PostArgs()
	return func(name string) (string, bool) {
		if !args.Has(name) {
			return "", false
		}
		return string(args.Peek(name)), true
	}
}

// overlay merges submitted values over the current record, keeping fields
// outside the form intact. The id field always comes from the record.
func overlay(record service.Record, values map[string]any, idField string) map[string]any {
	if record == nil {
		return values
	}
	merged := make(map[string]any, len(record)+len(values))
	for k, v := range record {
		merged[k] = v
	}
	for k, v := range values {
		if k == idField {
			continue
		}
		merged[k] = v
	}
	return merged
}
