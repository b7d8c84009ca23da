package gid_test

import (
	"testing"

	"github.com/eak1mov/go-libtmx/gid"
	"github.com/google/go-cmp/cmp"
)

func TestDecodeFlagFree(t *testing.T) {
	for _, value := range []uint32{0, 1, 42, 0x1FFFFFFF} {
		raw, flags := gid.Decode(value)
		if got, want := raw, gid.Raw(value); got != want {
			t.Errorf("Decode(%#x) raw = %v, want = %v", value, got, want)
		}
		if flags != gid.EmptyFlags {
			t.Errorf("Decode(%#x) flags = %+v, want empty", value, flags)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	allFlags := []gid.Flags{
		{},
		{FlipH: true},
		{FlipV: true},
		{FlipD: true},
		{FlipH: true, FlipV: true},
		{FlipH: true, FlipD: true},
		{FlipV: true, FlipD: true},
		{FlipH: true, FlipV: true, FlipD: true},
	}
	for _, raw := range []gid.Raw{1, 7, 100500, gid.MaxRaw} {
		for _, flags := range allFlags {
			gotRaw, gotFlags := gid.Decode(gid.Encode(raw, flags))
			if gotRaw != raw || gotFlags != flags {
				t.Errorf("Decode(Encode(%v, %+v)) = (%v, %+v)", raw, flags, gotRaw, gotFlags)
			}
		}
	}
}

func TestRotationClass(t *testing.T) {
	cases := []struct {
		Flags gid.Flags
		Want  int
	}{
		{gid.Flags{}, 0},
		{gid.Flags{FlipH: true}, 0},
		{gid.Flags{FlipV: true}, 0},
		{gid.Flags{FlipH: true, FlipV: true}, 180},
		{gid.Flags{FlipD: true}, 90},
		{gid.Flags{FlipH: true, FlipD: true}, 90},
		{gid.Flags{FlipV: true, FlipD: true}, 270},
		{gid.Flags{FlipH: true, FlipV: true, FlipD: true}, 270},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.Want, tc.Flags.RotationClass()); diff != "" {
			t.Errorf("RotationClass(%+v) mismatch (-want+got):\n%v", tc.Flags, diff)
		}
	}
}
