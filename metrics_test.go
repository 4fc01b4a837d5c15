package gcguard

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorAccounting(t *testing.T) {
	p := NewLogging(slog.New(slog.NewTextHandler(io.Discard, nil)))
	a, b := &payload{}, &payload{}
	p.Protect(a)
	p.Protect(a)
	p.Protect(b)
	p.Unprotect(&payload{})

	c := NewCollector(func() Protector { return p })

	expected := `
# HELP gcguard_active_protections Outstanding protections held by the protector
# TYPE gcguard_active_protections gauge
gcguard_active_protections{protector="LoggingProtector"} 3
# HELP gcguard_protected_objects Distinct objects currently protected by the protector
# TYPE gcguard_protected_objects gauge
gcguard_protected_objects{protector="LoggingProtector"} 2
# HELP gcguard_unprotect_failures_total Unprotect calls on objects that were not protected
# TYPE gcguard_unprotect_failures_total counter
gcguard_unprotect_failures_total{protector="LoggingProtector"} 1
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected)); err != nil {
		t.Fatal(err)
	}
}

func TestCollectorFast(t *testing.T) {
	p := NewFast()
	p.Protect(&payload{})

	c := NewCollector(func() Protector { return p })
	if n := testutil.CollectAndCount(c); n != 1 {
		t.Fatalf("collected %d metrics, want 1", n)
	}

	expected := `
# HELP gcguard_active_protections Outstanding protections held by the protector
# TYPE gcguard_active_protections gauge
gcguard_active_protections{protector="FastProtector"} 1
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected), "gcguard_active_protections"); err != nil {
		t.Fatal(err)
	}
}

func TestCollectorFollowsDefault(t *testing.T) {
	useDefault(t, NewFast())
	c := NewCollector(nil)

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := SetDefault(NewRaising()); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if n := testutil.CollectAndCount(c, "gcguard_protected_objects"); n != 1 {
		t.Fatalf("expected protected_objects after switching to an accounting default, got %d", n)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) != 3 {
		t.Errorf("gathered %d families, want 3", len(families))
	}
}
