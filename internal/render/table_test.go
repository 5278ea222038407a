package render

import (
	"strings"
	"testing"

	"backoffice/internal/metadata"
	"backoffice/internal/service"
)

func TestDisplayValueDefaults(t *testing.T) {
	cases := []struct {
		name  string
		field metadata.Field
		value any
		want  string
	}{
		{"nil renders dash", metadata.Field{Type: metadata.TypeString}, nil, "<span class=\"empty\">—</span>"},
		{"boolean true", metadata.Field{Type: metadata.TypeBoolean}, true, "Yes"},
		{"boolean false", metadata.Field{Type: metadata.TypeBoolean}, false, "No"},
		{"status badge", metadata.Field{Type: metadata.TypeStatus}, "draft", "<span class=\"badge badge-draft\">draft</span>"},
		{"date truncated", metadata.Field{Type: metadata.TypeDate}, "2026-03-01T10:00:00Z", "2026-03-01"},
		{"datetime readable", metadata.Field{Type: metadata.TypeDateTime}, "2026-03-01T10:00:00Z", "2026-03-01 10:00"},
		{"json compacted", metadata.Field{Type: metadata.TypeJSON}, map[string]any{"a": float64(1)}, "{&#34;a&#34;:1}"},
		{"unparseable json shown raw", metadata.Field{Type: metadata.TypeJSON}, "{broken", "{broken"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DisplayValue(&tc.field, tc.value); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDisplayValueFormatHookWins(t *testing.T) {
	f := metadata.Field{
		Type:   metadata.TypeBoolean,
		Format: func(v any) string { return "custom" },
	}
	if got := DisplayValue(&f, true); got != "custom" {
		t.Fatalf("format hook must override the default, got %q", got)
	}
}

func TestDisplayValueEscapes(t *testing.T) {
	f := metadata.Field{Type: metadata.TypeString}
	got := DisplayValue(&f, "<img src=x>")
	if strings.Contains(got, "<img") {
		t.Fatal("display values must be HTML-escaped")
	}
}

func TestTableEmptyMessage(t *testing.T) {
	out := Table(gadgetEntity(), nil)
	if !strings.Contains(out, "No gadgets found") {
		t.Fatal("expected lowercased empty message")
	}
}

func TestTableRendersRowsAndActions(t *testing.T) {
	e := gadgetEntity()
	out := Table(e, []service.Record{
		{"id": float64(3), "name": "Sprocket", "active": true},
	})
	if !strings.Contains(out, "Sprocket") {
		t.Fatal("expected row value in table")
	}
	if !strings.Contains(out, "/admin/gadgets/3/edit") {
		t.Fatal("expected edit action link")
	}
	if !strings.Contains(out, "/admin/gadgets/3/delete") {
		t.Fatal("expected delete form action")
	}
}

func TestRowActionsHonorPermissionsAndSystemRecords(t *testing.T) {
	e := gadgetEntity()
	e.CanEdit = false
	e.IsSystemRecord = func(record map[string]any) bool {
		system, _ := record["isSystem"].(bool)
		return system
	}

	out := Table(e, []service.Record{
		{"id": float64(1), "name": "core", "isSystem": true},
	})
	if strings.Contains(out, "/edit") {
		t.Fatal("edit action must be gated by CanEdit")
	}
	if strings.Contains(out, "/delete") {
		t.Fatal("system records must not show a delete action")
	}
	if !strings.Contains(out, ">View<") {
		t.Fatal("view action must remain available")
	}
}

func TestListPageShowsCreateButtonPerPermission(t *testing.T) {
	e := gadgetEntity()
	out := ListPage(e, nil, "", nil)
	if !strings.Contains(out, "Create New Gadget") {
		t.Fatal("expected create button")
	}

	e.CanCreate = false
	out = ListPage(e, nil, "", nil)
	if strings.Contains(out, "Create New Gadget") {
		t.Fatal("create button must be gated by CanCreate")
	}
}

func TestShowPageUsesDisplayField(t *testing.T) {
	e := gadgetEntity()
	e.DisplayField = "name"
	out := ShowPage(e, service.Record{"id": float64(1), "name": "Flux Capacitor"}, "", nil)
	if !strings.Contains(out, "<h1>Flux Capacitor</h1>") {
		t.Fatal("expected display field as page title")
	}
}

func TestPaginator(t *testing.T) {
	if out := Paginator(service.Pagination{Page: 1, TotalPages: 1}, "/admin/gadgets"); out != "" {
		t.Fatalf("single page needs no paginator, got %q", out)
	}

	out := Paginator(service.Pagination{Page: 2, PageSize: 20, Total: 90, TotalPages: 5}, "/admin/gadgets")
	if !strings.Contains(out, "page=1") || !strings.Contains(out, "page=3") {
		t.Fatal("expected previous and next links")
	}
}
