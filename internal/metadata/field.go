package metadata

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr/vm"
)

// FieldType is the closed set of declared field types. Every type maps to one
// decode rule and one widget through typeRules; the handler pipeline and the
// renderers share that table so the two can't drift apart.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeNumber   FieldType = "number"
	TypeBoolean  FieldType = "boolean"
	TypeDate     FieldType = "date"
	TypeDateTime FieldType = "datetime"
	TypeText     FieldType = "text"
	TypeEmail    FieldType = "email"
	TypeSelect   FieldType = "select"
	TypeJSON     FieldType = "json"
	TypeStatus   FieldType = "status"
)

// Widget identifiers produced by the type dispatch table.
const (
	WidgetInput      = "input"
	WidgetNumber     = "number"
	WidgetCheckbox   = "checkbox"
	WidgetDate       = "date"
	WidgetDateTime   = "datetime"
	WidgetTextarea   = "textarea"
	WidgetEmail      = "email"
	WidgetSelect     = "select"
	WidgetJSONEditor = "json-editor"
	WidgetBadge      = "badge"
)

// Option is one entry of a select field, in declaration order. Value keeps its
// declared Go type; the renderer compares it against the current value by
// identity, never through string coercion.
type Option struct {
	Value any
	Label string
}

// Field describes one field of an entity: its type, display flags, and
// validation contract.
type Field struct {
	Name  string
	Label string
	Type  FieldType

	Required   bool
	Sortable   bool
	Searchable bool

	// Visibility per view. Pointers so the zero value means "visible",
	// matching the optional showIn* flags that default to true.
	ShowInList *bool
	ShowInShow *bool
	ShowInForm *bool

	Options []Option

	Placeholder string
	HelpText    string
	Rows        int

	// Validate is an optional hook returning an error message, or "" when the
	// value is acceptable. Only invoked for non-empty values.
	Validate func(value any) string

	// Rule is an optional expr-lang expression evaluated against
	// {value, record}. It evaluates to true when the value is violated.
	// Compiled by Entity.Check; fields are shared read-only across requests
	// after that, so evaluation never writes back.
	Rule        string
	RuleMessage string
	compiled    *vm.Program

	// Format transforms a value for display in tables and show views.
	Format func(value any) string
}

// InList reports whether the field appears in the list view.
func (f *Field) InList() bool { return f.ShowInList == nil || *f.ShowInList }

// InShow reports whether the field appears in the show view.
func (f *Field) InShow() bool { return f.ShowInShow == nil || *f.ShowInShow }

// InForm reports whether the field appears in create/edit forms.
func (f *Field) InForm() bool { return f.ShowInForm == nil || *f.ShowInForm }

// Hidden is a convenience for config literals: a *bool that is false.
func Hidden() *bool {
	v := false
	return &v
}

type typeRule struct {
	decode func(raw string, present bool) (any, error)
	widget string
}

var typeRules = map[FieldType]typeRule{
	TypeString:   {decodeRaw, WidgetInput},
	TypeNumber:   {decodeNumber, WidgetNumber},
	TypeBoolean:  {decodeBoolean, WidgetCheckbox},
	TypeDate:     {decodeRaw, WidgetDate},
	TypeDateTime: {decodeRaw, WidgetDateTime},
	TypeText:     {decodeRaw, WidgetTextarea},
	TypeEmail:    {decodeRaw, WidgetEmail},
	TypeSelect:   {decodeRaw, WidgetSelect},
	TypeJSON:     {decodeJSON, WidgetJSONEditor},
	TypeStatus:   {decodeRaw, WidgetBadge},
}

// ruleFor resolves the dispatch entry for a type. Unknown tags fall back to
// the plain string rule.
func ruleFor(t FieldType) typeRule {
	if r, ok := typeRules[t]; ok {
		return r
	}
	return typeRules[TypeString]
}

// Widget returns the rendering widget for a field type.
func Widget(t FieldType) string {
	return ruleFor(t).widget
}

// DecodeValue coerces a raw form value according to the field type. present
// is false when the control was absent from the form data entirely, which
// matters for checkboxes: an unchecked box is absent and must decode to
// false, not to a missing value.
//
// The only decode rule that can fail is number: non-numeric input returns an
// error so the pipeline can collect it alongside validation failures.
func DecodeValue(t FieldType, raw string, present bool) (any, error) {
	return ruleFor(t).decode(raw, present)
}

func decodeRaw(raw string, _ bool) (any, error) {
	return raw, nil
}

func decodeBoolean(raw string, present bool) (any, error) {
	return present && raw == "on", nil
}

func decodeNumber(raw string, present bool) (any, error) {
	if !present || raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("must be a number")
	}
	return n, nil
}

func decodeJSON(raw string, present bool) (any, error) {
	if !present || raw == "" {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		// Keep the raw string so the failure surfaces as a required or
		// custom-validation error instead of aborting the request.
		return raw, nil
	}
	return v, nil
}

// EncodeValue renders a coerced value back into its form representation. It
// is the inverse of DecodeValue for every type except json, where only
// structural equality survives the round trip.
func EncodeValue(t FieldType, value any) string {
	if value == nil {
		return ""
	}
	switch t {
	case TypeBoolean:
		if b, ok := value.(bool); ok && b {
			return "on"
		}
		return ""
	case TypeJSON:
		if s, ok := value.(string); ok {
			return s
		}
		out, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return ""
		}
		return string(out)
	default:
		return fmt.Sprintf("%v", value)
	}
}
