package render

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"backoffice/internal/metadata"
	"backoffice/internal/service"
)

// Table renders the read-only list table: one display cell per listed field,
// plus a per-row actions column honoring the entity's permission flags.
func Table(e *metadata.Entity, items []service.Record) string {
	var b strings.Builder
	b.WriteString("<table class=\"data-table\">\n<thead>\n<tr>\n")
	for _, f := range e.ListFields() {
		fmt.Fprintf(&b, "<th>%s</th>\n", html.EscapeString(f.Label))
	}
	b.WriteString("<th>Actions</th>\n</tr>\n</thead>\n<tbody>\n")

	if len(items) == 0 {
		cols := len(e.ListFields()) + 1
		fmt.Fprintf(&b, "<tr><td colspan=\"%d\" class=\"empty\">No %s found</td></tr>\n",
			cols, html.EscapeString(strings.ToLower(e.PluralName)))
	}

	for _, record := range items {
		b.WriteString("<tr>\n")
		for _, f := range e.ListFields() {
			fmt.Fprintf(&b, "<td>%s</td>\n", DisplayValue(&f, record[f.Name]))
		}
		b.WriteString("<td class=\"row-actions\">")
		b.WriteString(rowActions(e, record))
		b.WriteString("</td>\n</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n")
	return b.String()
}

// ListPage renders the paginated list view for an entity.
func ListPage(e *metadata.Entity, result *service.ListResult, errMsg string, nav []NavLink) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(e.PluralName))
	if e.CanCreate {
		fmt.Fprintf(&b, "<a href=\"/admin/%s/new\" class=\"btn btn-primary\">Create New %s</a>\n",
			html.EscapeString(e.Name), html.EscapeString(e.SingularName))
	}
	b.WriteString(alert(errMsg))

	items := []service.Record{}
	if result != nil {
		items = result.Items
	}
	b.WriteString(Table(e, items))
	if result != nil {
		b.WriteString(Paginator(result.Pagination, "/admin/"+e.Name))
	}
	return Page(e.PluralName, b.String(), nav)
}

// ShowPage renders the detail view: a definition list of the entity's
// show-visible fields.
func ShowPage(e *metadata.Entity, record service.Record, errMsg string, nav []NavLink) string {
	var b strings.Builder

	title := e.SingularName
	if record != nil && e.DisplayField != "" {
		if v, ok := record[e.DisplayField].(string); ok && v != "" {
			title = v
		}
	}
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(title))
	if record != nil && e.DescriptionField != "" {
		if v, ok := record[e.DescriptionField].(string); ok && v != "" {
			fmt.Fprintf(&b, "<p class=\"subtitle\">%s</p>\n", html.EscapeString(v))
		}
	}
	b.WriteString(alert(errMsg))

	if record != nil {
		b.WriteString("<dl class=\"record-detail\">\n")
		for _, f := range e.ShowFields() {
			fmt.Fprintf(&b, "<dt>%s</dt>\n<dd>%s</dd>\n",
				html.EscapeString(f.Label), DisplayValue(&f, record[f.Name]))
		}
		b.WriteString("</dl>\n")
		b.WriteString(rowActions(e, record))
	}

	fmt.Fprintf(&b, "<a href=\"/admin/%s\" class=\"btn btn-ghost\">Back to %s</a>\n",
		html.EscapeString(e.Name), html.EscapeString(e.PluralName))
	return Page(title, b.String(), nav)
}

// DisplayValue produces one display cell for a field value: the descriptor's
// Format transform when present, else a type-appropriate default. The result
// is HTML-safe.
func DisplayValue(f *metadata.Field, value any) string {
	if f.Format != nil {
		return html.EscapeString(f.Format(value))
	}
	if value == nil {
		return "<span class=\"empty\">—</span>"
	}

	switch f.Type {
	case metadata.TypeBoolean:
		if b, ok := value.(bool); ok && b {
			return "Yes"
		}
		return "No"
	case metadata.TypeStatus:
		s := fmt.Sprintf("%v", value)
		return fmt.Sprintf("<span class=\"badge badge-%s\">%s</span>",
			html.EscapeString(s), html.EscapeString(s))
	case metadata.TypeJSON:
		if s, ok := value.(string); ok {
			return html.EscapeString(s)
		}
		compact, err := json.Marshal(value)
		if err != nil {
			return ""
		}
		return html.EscapeString(string(compact))
	case metadata.TypeDate:
		return html.EscapeString(truncate(fmt.Sprintf("%v", value), 10))
	case metadata.TypeDateTime:
		s := truncate(fmt.Sprintf("%v", value), 16)
		return html.EscapeString(strings.Replace(s, "T", " ", 1))
	default:
		return html.EscapeString(fmt.Sprintf("%v", value))
	}
}

func rowActions(e *metadata.Entity, record service.Record) string {
	param := e.RouteParam(record)
	if param == "" {
		return ""
	}
	base := "/admin/" + e.Name + "/" + param

	var b strings.Builder
	fmt.Fprintf(&b, "<a href=\"%s\" class=\"btn btn-sm\">View</a>\n", html.EscapeString(base))
	if e.CanEdit {
		fmt.Fprintf(&b, "<a href=\"%s/edit\" class=\"btn btn-sm\">Edit</a>\n", html.EscapeString(base))
	}
	if e.CanDelete && (e.IsSystemRecord == nil || !e.IsSystemRecord(record)) {
		fmt.Fprintf(&b, "<form method=\"POST\" action=\"%s/delete\" class=\"inline\"><button type=\"submit\" class=\"btn btn-sm btn-danger\">Delete</button></form>\n",
			html.EscapeString(base))
	}
	return b.String()
}
