package tmx_test

import (
	"errors"
	"testing"

	"github.com/eak1mov/go-libtmx/gid"
	"github.com/eak1mov/go-libtmx/internal"
	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestGIDAtBounds(t *testing.T) {
	m := loadBasic(t, tmx.LoadOptions{})

	local, err := m.GIDAt(0, 0, 0)
	if err != nil {
		t.Fatalf("GIDAt failed: %v", err)
	}
	if local == 0 {
		t.Error("GIDAt(0, 0, 0) = 0, want nonzero")
	}

	// Cell (3, 0) holds raw 0: empty, no error.
	local, err = m.GIDAt(3, 0, 0)
	if err != nil {
		t.Fatalf("GIDAt failed: %v", err)
	}
	if local != 0 {
		t.Errorf("GIDAt(3, 0, 0) = %v, want 0", local)
	}

	cases := []struct{ X, Y, Layer int }{
		{4, 0, 0}, {0, 3, 0}, {-1, 0, 0}, {0, 0, 99}, {0, 0, -1},
	}
	for _, tc := range cases {
		_, err := m.GIDAt(tc.X, tc.Y, tc.Layer)
		var oob *tmx.OutOfBoundsError
		if !errors.As(err, &oob) {
			t.Errorf("GIDAt(%v, %v, %v) error = %v, want OutOfBoundsError", tc.X, tc.Y, tc.Layer, err)
		}
	}
}

func TestGIDAtNonTileLayer(t *testing.T) {
	m := loadBasic(t, tmx.LoadOptions{})

	// Flat index 1 is the group, 3 the image layer, 4 an object group.
	for _, index := range []int{1, 3, 4} {
		_, err := m.GIDAt(0, 0, index)
		if !errors.Is(err, tmx.ErrNotTileLayer) {
			t.Errorf("GIDAt(0, 0, %v) error = %v, want ErrNotTileLayer", index, err)
		}
	}
}

func TestLayerByName(t *testing.T) {
	m := loadBasic(t, tmx.LoadOptions{})

	layer, err := m.LayerByName("detail")
	if err != nil {
		t.Fatalf("LayerByName failed: %v", err)
	}
	if _, ok := layer.(*tmx.TileLayer); !ok {
		t.Errorf("LayerByName(detail) = %T, want *TileLayer", layer)
	}

	if _, err := m.LayerByName("nope"); !errors.Is(err, tmx.ErrLayerNotFound) {
		t.Errorf("LayerByName(nope) error = %v, want ErrLayerNotFound", err)
	}
}

func TestTilesetForLocalUnknown(t *testing.T) {
	m := loadBasic(t, tmx.LoadOptions{})

	if _, err := m.TilesetForLocal(gid.Local(9999)); !errors.Is(err, tmx.ErrUnknownGID) {
		t.Errorf("TilesetForLocal error = %v, want ErrUnknownGID", err)
	}
}

func TestTileLocations(t *testing.T) {
	m := loadBasic(t, tmx.LoadOptions{})

	// Raw 2 occurs plain at (2, 1) and flipped at (2, 0) on the ground layer,
	// and plain at (1, 1) on the nested detail layer (flat index 2). Querying
	// through any of its locals must find all orientations.
	local, err := m.GIDAt(2, 0, 0)
	if err != nil {
		t.Fatalf("GIDAt failed: %v", err)
	}
	got, err := m.TileLocations(local)
	if err != nil {
		t.Fatalf("TileLocations failed: %v", err)
	}

	want := []tmx.Location{
		{X: 2, Y: 0, Layer: 0},
		{X: 2, Y: 1, Layer: 0},
		{X: 1, Y: 1, Layer: 2},
	}
	unordered := cmpopts.SortSlices(func(a, b tmx.Location) bool {
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	if diff := cmp.Diff(want, got, unordered); diff != "" {
		t.Errorf("TileLocations mismatch (-want+got):\n%v", diff)
	}
}

func TestTileLocationsHilbertOrder(t *testing.T) {
	path := internal.WriteFixture(t, t.TempDir(), "uniform.tmx", internal.UniformMapTMX)
	m, err := tmx.Load(path, tmx.LoadOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	local, err := m.GIDAt(0, 0, 0)
	if err != nil {
		t.Fatalf("GIDAt failed: %v", err)
	}
	got, err := m.TileLocations(local)
	if err != nil {
		t.Fatalf("TileLocations failed: %v", err)
	}
	if len(got) != 16 {
		t.Fatalf("got %v locations, want 16", len(got))
	}

	// A Hilbert walk over a full grid starts at the origin and each step
	// moves to a grid-adjacent cell. Row-major order breaks adjacency at
	// every row wrap, so a regression to scan order fails here.
	if (got[0] != tmx.Location{X: 0, Y: 0, Layer: 0}) {
		t.Errorf("first location = %+v, want origin", got[0])
	}
	seen := make(map[tmx.Location]bool)
	for i, loc := range got {
		if seen[loc] {
			t.Fatalf("location %+v repeated", loc)
		}
		seen[loc] = true
		if i == 0 {
			continue
		}
		prev := got[i-1]
		if abs(loc.X-prev.X)+abs(loc.Y-prev.Y) != 1 {
			t.Errorf("step %v: %+v -> %+v is not grid-adjacent", i, prev, loc)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestTileLocationsUnknownLocal(t *testing.T) {
	m := loadBasic(t, tmx.LoadOptions{})

	if _, err := m.TileLocations(gid.Local(9999)); !errors.Is(err, tmx.ErrUnknownGID) {
		t.Errorf("TileLocations error = %v, want ErrUnknownGID", err)
	}
}

func TestVisibleTileLayers(t *testing.T) {
	m := loadBasic(t, tmx.LoadOptions{})

	var names []string
	for tl := range m.VisibleTileLayers() {
		names = append(names, tl.Name)
	}
	if diff := cmp.Diff([]string{"ground", "detail"}, names); diff != "" {
		t.Errorf("VisibleTileLayers mismatch (-want+got):\n%v", diff)
	}
}

func TestVisibleObjectGroupsSkipsInvisible(t *testing.T) {
	m := loadBasic(t, tmx.LoadOptions{})

	var names []string
	for g := range m.VisibleObjectGroups() {
		names = append(names, g.Name)
	}
	if diff := cmp.Diff([]string{"markers"}, names); diff != "" {
		t.Errorf("VisibleObjectGroups mismatch (-want+got):\n%v", diff)
	}
}

func TestObjectsIteratesAllGroups(t *testing.T) {
	m := loadBasic(t, tmx.LoadOptions{})

	var ids []int
	for o := range m.Objects() {
		ids = append(ids, o.ID)
	}
	// Includes the invisible decals group: document order, not visibility.
	if diff := cmp.Diff([]int{1, 2, 3}, ids); diff != "" {
		t.Errorf("Objects mismatch (-want+got):\n%v", diff)
	}
}
