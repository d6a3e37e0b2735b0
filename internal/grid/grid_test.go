package grid

import (
	"testing"

	"tilegrid/internal/collision"
)

func testGround() [][]Ground {
	return [][]Ground{
		{"s", "s", "s", "s"},
		{"s", "g", "w", "s"},
		{"s", "p", "x", "s"},
	}
}

func TestDimensionsOf(t *testing.T) {
	if d := DimensionsOf(testGround()); d.Rows != 3 || d.Cols != 4 {
		t.Errorf("DimensionsOf = %+v; want 3x4", d)
	}
	if d := DimensionsOf(nil); d.Rows != 0 || d.Cols != 0 {
		t.Errorf("DimensionsOf(nil) = %+v; want 0x0", d)
	}
}

func TestInBounds(t *testing.T) {
	g := New(testGround())
	cases := []struct {
		p    Position
		want bool
	}{
		{Position{0, 0}, true},
		{Position{2, 3}, true},
		{Position{-1, 0}, false},
		{Position{0, -1}, false},
		{Position{3, 0}, false},
		{Position{0, 4}, false},
	}
	for _, c := range cases {
		if got := g.InBounds(c.p); got != c.want {
			t.Errorf("InBounds(%+v) = %v; want %v", c.p, got, c.want)
		}
	}
}

func TestIsWalkable(t *testing.T) {
	g := New(testGround())
	cases := []struct {
		name string
		p    Position
		want bool
	}{
		{"grass", Position{1, 1}, true},
		{"water blocks", Position{1, 2}, false},
		{"unknown ground is walkable", Position{2, 2}, true},
		{"out of bounds", Position{5, 5}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.IsWalkable(tc.p); got != tc.want {
				t.Errorf("IsWalkable(%+v) = %v; want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestRaggedRowsArePadded(t *testing.T) {
	g := New([][]Ground{{"g", "g", "g"}, {"g"}})
	if g.IsWalkable(Position{1, 2}) {
		t.Fatal("padding cell should block")
	}
	if !g.IsWalkable(Position{1, 0}) {
		t.Fatal("defined cell should stay walkable")
	}
}

func TestTileColor(t *testing.T) {
	if c := MakeTile(GroundGrass).Color(); c != "#90EE90" {
		t.Errorf("grass colour = %s", c)
	}
	if c := MakeTile("?").Color(); c != DefaultColor {
		t.Errorf("unknown colour = %s; want %s", c, DefaultColor)
	}
}

func TestBlockingCells(t *testing.T) {
	got := New(testGround()).BlockingCells()
	if len(got) != 1 || got[0] != (Position{1, 2}) {
		t.Fatalf("BlockingCells = %v; want [{1 2}]", got)
	}
}

func TestToWorldCentresGrid(t *testing.T) {
	dims := Dimensions{Rows: 7, Cols: 7}
	centre := ToWorld(Position{3, 3}, dims, DefaultWorld)
	if centre != (collision.Vec3{X: 0, Y: 0.5, Z: 0}) {
		t.Fatalf("centre cell = %+v; want origin", centre)
	}
	corner := ToWorld(Position{0, 6}, dims, DefaultWorld)
	if corner.X != 3 || corner.Z != -3 {
		t.Fatalf("corner = %+v; want x=3 z=-3", corner)
	}
}

func TestToGridInvertsToWorld(t *testing.T) {
	dims := Dimensions{Rows: 4, Cols: 6}
	cfg := WorldConfig{TileSize: 2, HeightOffset: 1, OriginX: 10, OriginZ: -5}
	for r := 0; r < dims.Rows; r++ {
		for c := 0; c < dims.Cols; c++ {
			p := Position{r, c}
			if got := ToGrid(ToWorld(p, dims, cfg), dims, cfg); got != p {
				t.Errorf("round trip %+v -> %+v", p, got)
			}
		}
	}
}

func TestToGridRoundsToNearestCell(t *testing.T) {
	dims := Dimensions{Rows: 3, Cols: 3}
	v := collision.Vec3{X: 0.4, Z: -0.6}
	if got := ToGrid(v, dims, DefaultWorld); got != (Position{0, 1}) {
		t.Fatalf("ToGrid = %+v; want {0 1}", got)
	}
}
