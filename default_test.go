package gcguard

import (
	"errors"
	"strings"
	"testing"
)

// useDefault installs p as the default for the duration of the test,
// bypassing the busy check.
func useDefault(t *testing.T, p Protector) {
	t.Helper()
	defaultMu.Lock()
	prev := current
	current = p
	defaultMu.Unlock()
	t.Cleanup(func() {
		defaultMu.Lock()
		current = prev
		defaultMu.Unlock()
	})
}

func TestDefaultStartsAsStandard(t *testing.T) {
	if _, ok := NewStandard().(*FastProtector); !ok {
		t.Fatalf("standard protector is %T, want *FastProtector", NewStandard())
	}
	if Default() == nil {
		t.Fatal("Default returned nil")
	}
}

func TestSetDefault(t *testing.T) {
	useDefault(t, NewFast())

	p := NewRaising()
	if err := SetDefault(p); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if Default() != Protector(p) {
		t.Error("Default did not return the installed protector")
	}
}

func TestSetDefaultBusy(t *testing.T) {
	fast := NewFast()
	useDefault(t, NewFast())
	if err := SetDefault(fast); err != nil {
		t.Fatalf("SetDefault(fast): %v", err)
	}

	x := &payload{}
	Default().Protect(x)
	if n := Default().ActiveProtections(); n != 1 {
		t.Fatalf("ActiveProtections = %d, want 1", n)
	}

	other := NewRaising()
	err := SetDefault(other)
	if !errors.Is(err, ErrProtectorBusy) {
		t.Fatalf("expected ErrProtectorBusy, got %v", err)
	}
	if !strings.Contains(err.Error(), "FastProtector has 1") {
		t.Errorf("error should describe the occupant: %v", err)
	}
	if Default() != Protector(fast) {
		t.Fatal("failed SetDefault replaced the default")
	}

	if _, err := Default().Unprotect(x); err != nil {
		t.Fatalf("Unprotect: %v", err)
	}
	if err := SetDefault(other); err != nil {
		t.Fatalf("SetDefault after unprotect: %v", err)
	}
	if Default() != Protector(other) {
		t.Error("Default did not switch")
	}
}

func TestSetDefaultSameInstanceWhileBusy(t *testing.T) {
	p := NewRaising()
	useDefault(t, p)

	obj := &payload{}
	p.Protect(obj)
	defer p.Unprotect(obj)

	if err := SetDefault(p); err != nil {
		t.Fatalf("reinstalling the current default: %v", err)
	}
}

func TestSetDefaultInvalid(t *testing.T) {
	useDefault(t, NewFast())

	var nilFast *FastProtector
	tests := []struct {
		name string
		p    Protector
	}{
		{"nil interface", nil},
		{"typed nil", nilFast},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := SetDefault(tt.p); !errors.Is(err, ErrInvalidProtector) {
				t.Fatalf("expected ErrInvalidProtector, got %v", err)
			}
		})
	}
}

func TestSetDefaultNonComparableProtector(t *testing.T) {
	useDefault(t, NewFast())

	if err := SetDefault(sliceProtector{}); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if err := SetDefault(sliceProtector{}); err != nil {
		t.Fatalf("SetDefault over idle non-comparable protector: %v", err)
	}
}

type sliceProtector struct{ seen []any }

func (sliceProtector) Protect(obj any) any            { return obj }
func (sliceProtector) Unprotect(obj any) (any, error) { return obj, nil }
func (sliceProtector) ActiveProtections() int64       { return 0 }

func TestGenericHelpers(t *testing.T) {
	p := NewRaising()
	useDefault(t, p)

	obj := &payload{}
	if got := Protect(obj); got != obj {
		t.Error("Protect did not return its argument")
	}
	if n := p.ProtectionCount(obj); n != 1 {
		t.Fatalf("ProtectionCount = %d, want 1", n)
	}

	got, err := Unprotect(obj)
	if err != nil {
		t.Fatalf("Unprotect: %v", err)
	}
	if got != obj {
		t.Error("Unprotect did not return its argument")
	}

	if _, err := Unprotect(obj); !errors.Is(err, ErrNotProtected) {
		t.Fatalf("expected ErrNotProtected, got %v", err)
	}

	var none *payload
	if got := Protect(none); got != nil {
		t.Error("Protect(nil) should return nil")
	}
	if p.ActiveProtections() != 0 {
		t.Errorf("ActiveProtections = %d, want 0", p.ActiveProtections())
	}
}
