package metadata

import (
	"fmt"
	"strconv"

	"backoffice/internal/service"
)

// IDKind selects how a route identifier is resolved for an entity: numeric
// ids go through GetByID, string keys through GetByKey. Declared once on the
// configuration and resolved once when routing, never inferred per call.
type IDKind int

const (
	IDNumeric IDKind = iota
	IDKey
)

// Entity is the declarative configuration driving all CRUD behavior for one
// resource type. Constructed once at process start from static data and
// shared read-only across requests; the per-request credential is bound
// through Service.Bind, never by mutating the configuration.
type Entity struct {
	Name         string // url slug segment
	SingularName string
	PluralName   string

	IDField string
	IDKind  IDKind

	Fields []Field

	// Service constructs a request-scoped adapter bound to the caller's
	// credential.
	Service service.Factory

	CanCreate bool
	CanEdit   bool
	CanDelete bool
	CanView   bool

	// DisplayField titles show pages and list rows; DescriptionField is the
	// optional subtitle.
	DisplayField     string
	DescriptionField string

	// OwnerField, when set, names the field auto-populated with the caller's
	// identity on create.
	OwnerField string

	// GetRouteParam overrides how the show-page identifier is extracted from
	// a record.
	GetRouteParam func(record map[string]any) string

	// IsSystemRecord guards deletion of records the system depends on.
	IsSystemRecord func(record map[string]any) bool
}

// GetField returns a pointer to the field with the given name, or nil.
func (e *Entity) GetField(name string) *Field {
	for i := range e.Fields {
		if e.Fields[i].Name == name {
			return &e.Fields[i]
		}
	}
	return nil
}

// FormFields returns the fields shown in create/edit forms.
func (e *Entity) FormFields() []Field {
	var fields []Field
	for _, f := range e.Fields {
		if f.InForm() {
			fields = append(fields, f)
		}
	}
	return fields
}

// ListFields returns the fields shown as list-view columns.
func (e *Entity) ListFields() []Field {
	var fields []Field
	for _, f := range e.Fields {
		if f.InList() {
			fields = append(fields, f)
		}
	}
	return fields
}

// ShowFields returns the fields shown on the detail view.
func (e *Entity) ShowFields() []Field {
	var fields []Field
	for _, f := range e.Fields {
		if f.InShow() {
			fields = append(fields, f)
		}
	}
	return fields
}

// ResolveID parses a route identifier according to the entity's declared id
// strategy.
func (e *Entity) ResolveID(raw string) (service.ID, error) {
	if e.IDKind == IDKey {
		return service.KeyID(raw), nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s id %q", e.Name, raw)
	}
	return service.NumericID(n), nil
}

// RouteParam extracts the show-page identifier from a record: the
// GetRouteParam override when supplied, else the id field's value. Returns ""
// when no identifier can be determined.
func (e *Entity) RouteParam(record map[string]any) string {
	if record == nil {
		return ""
	}
	if e.GetRouteParam != nil {
		return e.GetRouteParam(record)
	}
	switch v := record[e.IDField].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Check validates the configuration invariants: the id field must exist
// exactly once, field names must be unique, and every rule must compile. It
// also compiles the rules in place; after Check the configuration is
// read-only and safe to share across requests.
func (e *Entity) Check() error {
	if e.Name == "" {
		return fmt.Errorf("entity name is required")
	}
	if e.Service == nil {
		return fmt.Errorf("entity %s: service factory is required", e.Name)
	}
	seen := make(map[string]bool, len(e.Fields))
	idCount := 0
	for i := range e.Fields {
		f := &e.Fields[i]
		if seen[f.Name] {
			return fmt.Errorf("entity %s: duplicate field %s", e.Name, f.Name)
		}
		seen[f.Name] = true
		if f.Name == e.IDField {
			idCount++
		}
		if f.Rule != "" {
			prog, err := CompileRule(f.Rule)
			if err != nil {
				return fmt.Errorf("entity %s: field %s: %w", e.Name, f.Name, err)
			}
			f.compiled = prog
		}
	}
	if idCount != 1 {
		return fmt.Errorf("entity %s: expected exactly one field named %s, found %d", e.Name, e.IDField, idCount)
	}
	return nil
}
