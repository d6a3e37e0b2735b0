package grid

// Ground identifies the surface of a cell. Level files use one character
// per cell.
type Ground string

const (
	GroundStone Ground = "s"
	GroundGrass Ground = "g"
	GroundPath  Ground = "p"
	GroundDirt  Ground = "d"
	GroundWater Ground = "w"
)

// DefaultColor is used for ground types with no entry in Colors.
const DefaultColor = "#CCCCCC"

// Colors maps ground types to their hex colour.
var Colors = map[Ground]string{
	GroundGrass: "#90EE90",
	GroundStone: "#808080",
	GroundDirt:  "#8B4513",
	GroundPath:  "#DDA0DD",
	GroundWater: "#4169E1",
}

// Names maps ground types to a readable name for logs and the feed.
var Names = map[Ground]string{
	GroundGrass: "grass",
	GroundStone: "stone",
	GroundDirt:  "dirt",
	GroundPath:  "path",
	GroundWater: "water",
}

// Tile holds the ground and passability of one cell.
type Tile struct {
	Ground   Ground
	Blocking bool
}

// Color returns the tile's hex colour.
func (t Tile) Color() string {
	if c, ok := Colors[t.Ground]; ok {
		return c
	}
	return DefaultColor
}

// IsBlocking reports whether g stops movement. Only water blocks; unknown
// ground is walkable.
func IsBlocking(g Ground) bool {
	return g == GroundWater
}

// MakeTile returns the tile for ground g.
func MakeTile(g Ground) Tile {
	return Tile{Ground: g, Blocking: IsBlocking(g)}
}
