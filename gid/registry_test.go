package gid_test

import (
	"testing"

	"github.com/eak1mov/go-libtmx/gid"
	"github.com/google/go-cmp/cmp"
)

func TestRegisterIdempotent(t *testing.T) {
	reg := gid.NewRegistry()

	first := reg.Register(42, gid.Flags{FlipH: true})
	second := reg.Register(42, gid.Flags{FlipH: true})
	if first != second {
		t.Errorf("Register returned %v then %v for the same pair", first, second)
	}
	if got, want := reg.Count(), 1; got != want {
		t.Errorf("Count() = %v, want = %v", got, want)
	}
}

func TestRegisterZeroAbsorbing(t *testing.T) {
	reg := gid.NewRegistry()

	for _, flags := range []gid.Flags{{}, {FlipH: true}, {FlipV: true, FlipD: true}} {
		if got := reg.Register(0, flags); got != 0 {
			t.Errorf("Register(0, %+v) = %v, want = 0", flags, got)
		}
	}
	if got, want := reg.Count(), 0; got != want {
		t.Errorf("Count() = %v, want = %v", got, want)
	}
}

func TestRegisterDistinctPairs(t *testing.T) {
	reg := gid.NewRegistry()

	seen := make(map[gid.Local]bool)
	for raw := gid.Raw(1); raw <= 100; raw++ {
		for _, flags := range []gid.Flags{{}, {FlipH: true}, {FlipD: true}} {
			local := reg.Register(raw, flags)
			if seen[local] {
				t.Fatalf("Register(%v, %+v) reused local %v", raw, flags, local)
			}
			seen[local] = true
		}
	}
	if got, want := reg.Count(), 300; got != want {
		t.Errorf("Count() = %v, want = %v", got, want)
	}
}

func TestRegisterRawRoundTrip(t *testing.T) {
	reg := gid.NewRegistry()

	values := []uint32{
		1,
		50,
		51 | gid.FlippedHorizontally,
		51 | gid.FlippedHorizontally | gid.FlippedDiagonally,
		7 | gid.FlippedVertically,
	}
	for _, value := range values {
		local := reg.RegisterRaw(value)
		raw, flags, ok := reg.EntryOf(local)
		if !ok {
			t.Fatalf("EntryOf(%v) not found", local)
		}
		wantRaw, wantFlags := gid.Decode(value)
		if raw != wantRaw || flags != wantFlags {
			t.Errorf("EntryOf(RegisterRaw(%#x)) = (%v, %+v), want = (%v, %+v)",
				value, raw, flags, wantRaw, wantFlags)
		}
	}
}

func TestLocalsOfMultimap(t *testing.T) {
	reg := gid.NewRegistry()

	plain := reg.Register(7, gid.EmptyFlags)
	flipped := reg.Register(7, gid.Flags{FlipH: true})

	want := []gid.Entry{
		{Local: plain, Flags: gid.EmptyFlags},
		{Local: flipped, Flags: gid.Flags{FlipH: true}},
	}
	if diff := cmp.Diff(want, reg.LocalsOf(7)); diff != "" {
		t.Errorf("LocalsOf(7) mismatch (-want+got):\n%v", diff)
	}

	if got := reg.LocalsOf(8); got != nil {
		t.Errorf("LocalsOf(8) = %v, want = nil", got)
	}
}

func TestRawOf(t *testing.T) {
	reg := gid.NewRegistry()

	local := reg.Register(99, gid.EmptyFlags)
	raw, ok := reg.RawOf(local)
	if !ok || raw != 99 {
		t.Errorf("RawOf(%v) = (%v, %v), want = (99, true)", local, raw, ok)
	}
	if _, ok := reg.RawOf(local + 1); ok {
		t.Errorf("RawOf(%v) found an entry for an unallocated local", local+1)
	}
}
