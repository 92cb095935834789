// Where: internal/infra/naming/naming_test.go
// What: Tests for name qualification and exclusion patterns.
// Why: A wrong name targets the wrong function in the account.
package naming

import "testing"

func TestTemplateQualifierDefaultIsIdentity(t *testing.T) {
	q, err := NewTemplateQualifier("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := q.Qualify("orders")
	if err != nil || got != "orders" {
		t.Fatalf("unexpected result: %q, %v", got, err)
	}
}

func TestTemplateQualifierUsesVarsAndSprig(t *testing.T) {
	q, err := NewTemplateQualifier(`{{ .Service }}-{{ .Stage | lower }}-{{ .Name }}`, map[string]string{
		"Service": "shop",
		"Stage":   "PROD",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := q.Qualify("orders")
	if err != nil {
		t.Fatalf("qualify: %v", err)
	}
	if got != "shop-prod-orders" {
		t.Fatalf("unexpected name: %s", got)
	}
}

func TestTemplateQualifierMissingVarFails(t *testing.T) {
	q, err := NewTemplateQualifier(`{{ .Stage }}-{{ .Name }}`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := q.Qualify("orders"); err == nil {
		t.Fatalf("expected missing key error")
	}
}

func TestTemplateQualifierRejectsEmptyOutput(t *testing.T) {
	q, err := NewTemplateQualifier(`{{ "" }}`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := q.Qualify("orders"); err == nil {
		t.Fatalf("expected empty name error")
	}
}

func TestTemplateQualifierParseError(t *testing.T) {
	if _, err := NewTemplateQualifier(`{{ .Name`, nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestNewExcluder(t *testing.T) {
	exclude, err := NewExcluder([]string{"*-warmup-plugin*", " ", "*warmer*"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cases := map[string]bool{
		"shop-prod-warmup-plugin-default": true,
		"lambdaWarmer":                    false,
		"lambda-warmer":                   true,
		"orders":                          false,
	}
	for name, want := range cases {
		if got := exclude(name); got != want {
			t.Fatalf("%s: expected %v, got %v", name, want, got)
		}
	}
}

func TestNewExcluderEmpty(t *testing.T) {
	exclude, err := NewExcluder(nil)
	if err != nil || exclude != nil {
		t.Fatalf("expected nil predicate, got %v", err)
	}
}

func TestNewExcluderInvalidPattern(t *testing.T) {
	if _, err := NewExcluder([]string{"[unterminated"}); err == nil {
		t.Fatalf("expected compile error")
	}
}
