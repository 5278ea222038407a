package metadata

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// CompileRule compiles a field rule expression. Rules evaluate against
// {value, record} and return true when the value is violated.
func CompileRule(expression string) (*vm.Program, error) {
	prog, err := expr.Compile(expression, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile rule: %w", err)
	}
	return prog, nil
}

// EvaluateRule evaluates a field's rule against its decoded value and the
// whole decoded record. Returns the error message when violated, "" when the
// rule passes. Reads the program compiled by Entity.Check and never writes to
// the field: configurations are shared across concurrent requests. A field
// used outside a checked entity compiles per call.
func (f *Field) EvaluateRule(value any, record map[string]any) string {
	if f.Rule == "" {
		return ""
	}

	prog := f.compiled
	if prog == nil {
		var err error
		prog, err = CompileRule(f.Rule)
		if err != nil {
			return fmt.Sprintf("rule compile error: %v", err)
		}
	}

	env := map[string]any{
		"value":  value,
		"record": record,
	}

	result, err := expr.Run(prog, env)
	if err != nil {
		return fmt.Sprintf("rule evaluation error: %v", err)
	}

	violated, ok := result.(bool)
	if !ok || !violated {
		return ""
	}

	if f.RuleMessage != "" {
		return f.RuleMessage
	}
	return fmt.Sprintf("%s is invalid", f.Label)
}
