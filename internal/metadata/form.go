package metadata

import "fmt"

// FormSource yields raw form values by control name. present is false when
// the control was absent from the submitted data.
type FormSource func(name string) (raw string, present bool)

// DecodeForm coerces every form-eligible field through the type dispatch
// table. In edit mode the id field is never decoded; it is rendered readonly
// and excluded from the outgoing payload. Coercion failures land in errs
// under the field name, alongside whatever validation produces later.
func (e *Entity) DecodeForm(src FormSource, isEdit bool) (values map[string]any, errs map[string]string) {
	values = make(map[string]any)
	errs = make(map[string]string)

	for _, f := range e.Fields {
		if !f.InForm() {
			continue
		}
		if isEdit && f.Name == e.IDField {
			continue
		}
		raw, present := src(f.Name)
		v, err := DecodeValue(f.Type, raw, present)
		if err != nil {
			errs[f.Name] = fmt.Sprintf("%s %s", f.Label, err)
			continue
		}
		values[f.Name] = v
	}
	return values, errs
}

// ValidateRecord runs required-field checks, expr rules, and Validate hooks
// over decoded values, collecting every failure rather than stopping at the
// first. The returned map merges into the coercion errors from DecodeForm.
// In edit mode the id field is exempt, matching DecodeForm: it was never
// decoded, so a required id would otherwise fail every edit.
func (e *Entity) ValidateRecord(values map[string]any, errs map[string]string, isEdit bool) map[string]string {
	if errs == nil {
		errs = make(map[string]string)
	}

	for i := range e.Fields {
		f := &e.Fields[i]
		if !f.InForm() {
			continue
		}
		if isEdit && f.Name == e.IDField {
			continue
		}
		if _, taken := errs[f.Name]; taken {
			continue
		}

		v := values[f.Name]
		if f.Required && isEmpty(v) {
			errs[f.Name] = fmt.Sprintf("%s is required", f.Label)
			continue
		}
		if isEmpty(v) {
			continue
		}

		if msg := f.EvaluateRule(v, values); msg != "" {
			errs[f.Name] = msg
			continue
		}
		if f.Validate != nil {
			if msg := f.Validate(v); msg != "" {
				errs[f.Name] = msg
			}
		}
	}
	return errs
}

// isEmpty mirrors the required-field emptiness check: nil, empty string, and
// false all count as missing (a required checkbox must be checked).
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	default:
		return false
	}
}
