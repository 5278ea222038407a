package metadata

import (
	"strings"
	"sync"
	"testing"
)

func TestEvaluateRulePasses(t *testing.T) {
	f := &Field{
		Name: "slug", Label: "Slug", Type: TypeString,
		Rule: `not (value matches "^[a-z-]+$")`,
	}
	if msg := f.EvaluateRule("hello-world", nil); msg != "" {
		t.Fatalf("expected rule to pass, got %q", msg)
	}
}

func TestEvaluateRuleViolation(t *testing.T) {
	f := &Field{
		Name: "slug", Label: "Slug", Type: TypeString,
		Rule:        `not (value matches "^[a-z-]+$")`,
		RuleMessage: "Slug must be lowercase",
	}
	if msg := f.EvaluateRule("Hello World", nil); msg != "Slug must be lowercase" {
		t.Fatalf("expected custom message, got %q", msg)
	}
}

func TestEvaluateRuleDefaultMessage(t *testing.T) {
	f := &Field{
		Name: "count", Label: "Count", Type: TypeNumber,
		Rule: `value < 0`,
	}
	msg := f.EvaluateRule(int64(-3), nil)
	if !strings.Contains(msg, "Count") {
		t.Fatalf("expected label in default message, got %q", msg)
	}
	if msg := f.EvaluateRule(int64(3), nil); msg != "" {
		t.Fatalf("expected pass, got %q", msg)
	}
}

func TestEvaluateRuleSeesRecord(t *testing.T) {
	f := &Field{
		Name: "max", Label: "Max", Type: TypeNumber,
		Rule:        `value < record.min`,
		RuleMessage: "Max must not be below min",
	}
	record := map[string]any{"min": int64(10), "max": int64(5)}
	if msg := f.EvaluateRule(int64(5), record); msg == "" {
		t.Fatal("expected violation when max < min")
	}
}

func TestEvaluateRuleCompileError(t *testing.T) {
	f := &Field{Name: "x", Label: "X", Type: TypeString, Rule: `((`}
	if msg := f.EvaluateRule("v", nil); !strings.Contains(msg, "compile") {
		t.Fatalf("expected compile error message, got %q", msg)
	}
}

func TestCheckCompilesRules(t *testing.T) {
	e := testEntity()
	e.GetField("name").Rule = `not (value matches "^[a-z-]+$")`
	if err := e.Check(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.GetField("name").compiled == nil {
		t.Fatal("expected the rule compiled during Check")
	}

	bad := testEntity()
	bad.GetField("name").Rule = `((`
	if err := bad.Check(); err == nil {
		t.Fatal("expected an unparsable rule to fail Check")
	}
}

// Configurations are shared across requests; evaluation must not mutate the
// field after Check.
func TestEvaluateRuleConcurrent(t *testing.T) {
	e := testEntity()
	e.GetField("name").Rule = `not (value matches "^[a-z-]+$")`
	if err := e.Check(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f := e.GetField("name")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if msg := f.EvaluateRule("hello-world", nil); msg != "" {
					t.Errorf("unexpected violation: %q", msg)
					return
				}
			}
		}()
	}
	wg.Wait()
}
