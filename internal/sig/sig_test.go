package sig

import (
	"regexp"
	"testing"
)

var hexKey = regexp.MustCompile(`^[0-9a-f]{64}$`)

func mustDeriver(t *testing.T, funcID string, paramNames []string, isMethod bool) *Deriver {
	t.Helper()
	d, err := New(funcID, paramNames, isMethod)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func mustDerive(t *testing.T, d *Deriver, args []any, named map[string]any) string {
	t.Helper()
	k, err := d.Derive(args, named)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	return k
}

func TestDeriveDeterministic(t *testing.T) {
	args := []any{1, "x", []int{1, 2, 3}, map[string]int{"a": 1, "b": 2}}

	d1 := mustDeriver(t, "pkg.fn", nil, false)
	d2 := mustDeriver(t, "pkg.fn", nil, false)

	k1 := mustDerive(t, d1, args, nil)
	k2 := mustDerive(t, d1, args, nil)
	k3 := mustDerive(t, d2, args, nil)
	if k1 != k2 || k1 != k3 {
		t.Fatalf("equal signatures must derive equal keys: %q %q %q", k1, k2, k3)
	}
	if !hexKey.MatchString(k1) {
		t.Fatalf("key must be 64 hex chars, got %q", k1)
	}
}

func TestDeriveDiscriminates(t *testing.T) {
	d := mustDeriver(t, "pkg.fn", nil, false)
	other := mustDeriver(t, "pkg.other", nil, false)

	base := mustDerive(t, d, []any{1, 2}, nil)

	if k := mustDerive(t, d, []any{2, 1}, nil); k == base {
		t.Fatalf("argument order must matter")
	}
	if k := mustDerive(t, d, []any{1}, nil); k == base {
		t.Fatalf("arity must matter")
	}
	if k := mustDerive(t, other, []any{1, 2}, nil); k == base {
		t.Fatalf("funcID must matter")
	}
	if k := mustDerive(t, d, []any{1, 2}, map[string]any{"x": 1}); k == base {
		t.Fatalf("named args must matter")
	}
}

func TestDeriveNamedOrderInsensitive(t *testing.T) {
	d := mustDeriver(t, "pkg.fn", nil, false)
	k1 := mustDerive(t, d, nil, map[string]any{"a": 1, "b": 2})
	k2 := mustDerive(t, d, nil, map[string]any{"b": 2, "a": 1})
	if k1 != k2 {
		t.Fatalf("named args are a set; insertion order must not matter")
	}
}

func TestDeriveBinding(t *testing.T) {
	d := mustDeriver(t, "pkg.fn", []string{"a", "b"}, false)

	positional := mustDerive(t, d, []any{1, 2}, nil)
	mixed := mustDerive(t, d, []any{1}, map[string]any{"b": 2})
	named := mustDerive(t, d, nil, map[string]any{"a": 1, "b": 2})
	if positional != mixed || positional != named {
		t.Fatalf("bound spellings of the same call must collide: %q %q %q", positional, mixed, named)
	}

	if _, err := d.Derive([]any{1, 2, 3}, nil); err == nil {
		t.Fatalf("more positionals than parameters must fail")
	}
	if _, err := d.Derive([]any{1}, map[string]any{"a": 1}); err == nil {
		t.Fatalf("duplicate binding must fail")
	}
}

func TestDeriveMethodReceiverExcluded(t *testing.T) {
	m := mustDeriver(t, "pkg.T.fn", nil, true)
	k1 := mustDerive(t, m, []any{"receiver-one", 5}, nil)
	k2 := mustDerive(t, m, []any{"receiver-two", 5}, nil)
	if k1 != k2 {
		t.Fatalf("receiver must be excluded from key material")
	}

	plain := mustDeriver(t, "pkg.T.fn", nil, false)
	k3 := mustDerive(t, plain, []any{"receiver-one", 5}, nil)
	if k3 == k1 {
		t.Fatalf("non-method derivation must include the first argument")
	}
}

func TestDeriveUnhashable(t *testing.T) {
	d := mustDeriver(t, "pkg.fn", nil, false)
	if _, err := d.Derive([]any{make(chan int)}, nil); err == nil {
		t.Fatalf("channel argument must fail derivation")
	}
	if _, err := d.Derive(nil, map[string]any{"f": func() {}}); err == nil {
		t.Fatalf("function argument must fail derivation")
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New("", nil, false); err == nil {
		t.Fatalf("empty funcID must fail")
	}
}
