package render

import (
	"tilegrid/internal/grid"

	"github.com/gdamore/tcell/v2"
)

// groundRunes gives each ground type a fill character so the map reads on
// terminals without colour.
var groundRunes = map[grid.Ground]rune{
	grid.GroundStone: '▒',
	grid.GroundGrass: '░',
	grid.GroundPath:  ' ',
	grid.GroundDirt:  '·',
	grid.GroundWater: '≈',
}

// tileStyle returns the style and fill rune for t.
func tileStyle(t *grid.Tile) (tcell.Style, rune) {
	bg := tcell.GetColor(t.Color())
	style := tcell.StyleDefault.Background(bg).Foreground(tcell.ColorBlack)
	if t.Ground == grid.GroundWater {
		style = style.Foreground(tcell.ColorWhite)
	}
	r, ok := groundRunes[t.Ground]
	if !ok {
		r = ' '
	}
	return style, r
}
