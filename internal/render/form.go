package render

import (
	"fmt"
	"html"
	"strings"

	"backoffice/internal/metadata"
)

// Form renders the editable form for an entity: one widget per form-eligible
// field, dispatched solely by field type through the same table the decode
// path uses. The id field is readonly in edit mode and carries no name, so
// it never reaches the outgoing payload.
func Form(e *metadata.Entity, values map[string]any, errs map[string]string, isEdit bool) string {
	var b strings.Builder
	b.WriteString("<form method=\"POST\" class=\"entity-form\">\n")

	for _, f := range e.FormFields() {
		if isEdit && f.Name == e.IDField {
			b.WriteString(readonlyIDField(e, &f, values[f.Name]))
			continue
		}
		b.WriteString(formField(&f, values[f.Name], errs[f.Name]))
	}

	b.WriteString("<div class=\"form-actions\">\n")
	fmt.Fprintf(&b, "<a href=\"/admin/%s\" class=\"btn btn-ghost\">Cancel</a>\n", html.EscapeString(e.Name))
	label := "Create " + e.SingularName
	if isEdit {
		label = "Save Changes"
	}
	fmt.Fprintf(&b, "<button type=\"submit\" class=\"btn btn-primary\">%s</button>\n", html.EscapeString(label))
	b.WriteString("</div>\n</form>\n")
	return b.String()
}

// FormPage wraps a form in the page shell with its title and an optional
// page-level error.
func FormPage(e *metadata.Entity, values map[string]any, errs map[string]string, isEdit bool, pageErr string, nav []NavLink) string {
	title := "Create " + e.SingularName
	if isEdit {
		title = "Edit " + e.SingularName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(title))
	b.WriteString(alert(pageErr))
	b.WriteString(Form(e, values, errs, isEdit))
	return Page(title, b.String(), nav)
}

func readonlyIDField(e *metadata.Entity, f *metadata.Field, value any) string {
	var b strings.Builder
	b.WriteString("<div class=\"form-control\">\n")
	fmt.Fprintf(&b, "<label class=\"label\">%s</label>\n", html.EscapeString(f.Label))
	fmt.Fprintf(&b, "<input type=\"text\" value=\"%s\" disabled class=\"input input-disabled\">\n",
		html.EscapeString(metadata.EncodeValue(f.Type, value)))
	hint := "ID cannot be changed"
	if f.Name != "id" {
		hint = "Key cannot be changed"
	}
	fmt.Fprintf(&b, "<span class=\"help-text\">%s</span>\n", hint)
	b.WriteString("</div>\n")
	return b.String()
}

func formField(f *metadata.Field, value any, errMsg string) string {
	var b strings.Builder
	b.WriteString("<div class=\"form-control\">\n")

	widget := metadata.Widget(f.Type)
	if widget != metadata.WidgetCheckbox {
		b.WriteString(fieldLabel(f))
	}

	switch widget {
	case metadata.WidgetTextarea, metadata.WidgetJSONEditor:
		b.WriteString(textareaControl(f, value, errMsg))
	case metadata.WidgetCheckbox:
		b.WriteString(checkboxControl(f, value))
	case metadata.WidgetSelect:
		b.WriteString(selectControl(f, value, errMsg))
	case metadata.WidgetNumber:
		b.WriteString(inputControl(f, "number", metadata.EncodeValue(f.Type, value), errMsg))
	case metadata.WidgetEmail:
		b.WriteString(inputControl(f, "email", metadata.EncodeValue(f.Type, value), errMsg))
	case metadata.WidgetDate:
		b.WriteString(inputControl(f, "date", truncate(metadata.EncodeValue(f.Type, value), 10), errMsg))
	case metadata.WidgetDateTime:
		b.WriteString(inputControl(f, "datetime-local", truncate(metadata.EncodeValue(f.Type, value), 16), errMsg))
	default:
		// Plain text input, including status fields in forms.
		b.WriteString(inputControl(f, "text", metadata.EncodeValue(f.Type, value), errMsg))
	}

	b.WriteString(fieldFooter(f, errMsg))
	b.WriteString("</div>\n")
	return b.String()
}

func fieldLabel(f *metadata.Field) string {
	var b strings.Builder
	b.WriteString("<label class=\"label\">")
	b.WriteString(html.EscapeString(f.Label))
	if f.Required {
		b.WriteString("<span class=\"required-marker\">*</span>")
	}
	b.WriteString("</label>\n")
	return b.String()
}

// fieldFooter surfaces the field error beneath its widget when present, else
// the help text.
func fieldFooter(f *metadata.Field, errMsg string) string {
	if errMsg != "" {
		return "<span class=\"field-error\">" + html.EscapeString(errMsg) + "</span>\n"
	}
	if f.HelpText != "" {
		return "<span class=\"help-text\">" + html.EscapeString(f.HelpText) + "</span>\n"
	}
	return ""
}

func inputControl(f *metadata.Field, inputType, value, errMsg string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<input type=%q name=%q", inputType, f.Name)
	if value != "" {
		fmt.Fprintf(&b, " value=\"%s\"", html.EscapeString(value))
	}
	if f.Placeholder != "" {
		fmt.Fprintf(&b, " placeholder=\"%s\"", html.EscapeString(f.Placeholder))
	}
	if f.Required {
		b.WriteString(" required")
	}
	b.WriteString(" class=\"input")
	if errMsg != "" {
		b.WriteString(" input-error")
	}
	b.WriteString("\">\n")
	return b.String()
}

func textareaControl(f *metadata.Field, value any, errMsg string) string {
	rows := f.Rows
	if rows == 0 {
		rows = 4
		if f.Type == metadata.TypeJSON {
			rows = 6
		}
	}
	placeholder := f.Placeholder
	if placeholder == "" && f.Type == metadata.TypeJSON {
		placeholder = "Enter valid JSON"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<textarea name=%q rows=\"%d\"", f.Name, rows)
	if placeholder != "" {
		fmt.Fprintf(&b, " placeholder=\"%s\"", html.EscapeString(placeholder))
	}
	if f.Required {
		b.WriteString(" required")
	}
	b.WriteString(" class=\"textarea")
	if errMsg != "" {
		b.WriteString(" textarea-error")
	}
	b.WriteString("\">")
	b.WriteString(html.EscapeString(metadata.EncodeValue(f.Type, value)))
	b.WriteString("</textarea>\n")
	return b.String()
}

func checkboxControl(f *metadata.Field, value any) string {
	var b strings.Builder
	b.WriteString("<label class=\"label checkbox-label\">")
	fmt.Fprintf(&b, "<input type=\"checkbox\" name=%q class=\"checkbox\"", f.Name)
	if checked, ok := value.(bool); ok && checked {
		b.WriteString(" checked")
	}
	b.WriteString(">")
	b.WriteString(html.EscapeString(f.Label))
	if f.Required {
		b.WriteString("<span class=\"required-marker\">*</span>")
	}
	b.WriteString("</label>\n")
	return b.String()
}

func selectControl(f *metadata.Field, value any, errMsg string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<select name=%q", f.Name)
	if f.Required {
		b.WriteString(" required")
	}
	b.WriteString(" class=\"select")
	if errMsg != "" {
		b.WriteString(" select-error")
	}
	b.WriteString("\">\n")

	// The empty "unselected" option only exists for optional fields.
	if !f.Required {
		b.WriteString("<option value=\"\">-- Select --</option>\n")
	}
	for _, opt := range f.Options {
		fmt.Fprintf(&b, "<option value=\"%s\"", html.EscapeString(fmt.Sprintf("%v", opt.Value)))
		// Selection compares the stored value by identity; option values are
		// never coerced, so numeric options need numeric current values.
		if value == opt.Value {
			b.WriteString(" selected")
		}
		fmt.Fprintf(&b, ">%s</option>\n", html.EscapeString(opt.Label))
	}
	b.WriteString("</select>\n")
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
