// Package render draws a level onto a tcell screen in isometric projection.
package render

import (
	"sort"

	"tilegrid/internal/component"
	"tilegrid/internal/grid"
	"tilegrid/internal/store"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// HUDRows is the number of screen rows reserved for the HUD.
const HUDRows = 5

// Renderer draws the game world onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	camera *Camera
}

// NewRenderer creates a Renderer for the given screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	r := &Renderer{screen: screen, camera: NewCamera(0, 0)}
	r.Resize()
	return r
}

// Resize recomputes the viewport after the screen size changed.
func (r *Renderer) Resize() {
	w, h := r.screen.Size()
	viewH := h - HUDRows
	if viewH < 0 {
		viewH = 0
	}
	r.camera.ViewWidth = w
	r.camera.ViewHeight = viewH
}

// Camera returns the renderer's camera.
func (r *Renderer) Camera() *Camera { return r.camera }

// sprite is anything drawn above the ground in depth order.
type sprite struct {
	row, col float64
	order    int
	rend     component.Renderable
}

func (s sprite) depth() float64 { return s.row + s.col }

// DrawFrame clears the screen and draws the current level of s with the
// camera following the player's visual position. It does not call Show.
func (r *Renderer) DrawFrame(s *store.Store) {
	r.screen.Clear()
	g := s.Grid()
	dims := g.Dimensions()

	prow, pcol := grid.ToGridF(s.PlayerVisualPosition(), dims, grid.DefaultWorld)
	r.camera.Center(prow, pcol)

	r.drawGround(g)

	w := s.World()
	var sprites []sprite
	for _, id := range w.Query(component.CRenderable, component.CGridPos) {
		if id != s.PlayerID() && !s.Active(id) {
			continue
		}
		rend := w.Get(id, component.CRenderable).(component.Renderable)
		var row, col float64
		if id == s.PlayerID() {
			row, col = prow, pcol
		} else {
			pos := w.Get(id, component.CGridPos).(component.GridPos)
			row, col = float64(pos.Row), float64(pos.Col)
		}
		sprites = append(sprites, sprite{row: row, col: col, order: rend.RenderOrder, rend: rend})
	}
	sort.SliceStable(sprites, func(i, j int) bool {
		if sprites[i].depth() != sprites[j].depth() {
			return sprites[i].depth() < sprites[j].depth()
		}
		return sprites[i].order < sprites[j].order
	})

	for _, sp := range sprites {
		sx, sy, onScreen := r.camera.WorldToScreen(sp.row, sp.col)
		if !onScreen {
			continue
		}
		bg := tcell.ColorBlack
		cell := grid.Position{Row: int(sp.row + 0.5), Col: int(sp.col + 0.5)}
		if g.InBounds(cell) {
			bg = tcell.GetColor(g.At(cell).Color())
		}
		style := tcell.StyleDefault.Foreground(sp.rend.FGColor).Background(bg)
		r.putGlyph(sx+1, sy, sp.rend.Glyph, style)
	}
}

// drawGround paints every tile back to front: cells with a smaller
// row+col are further away and drawn first.
func (r *Renderer) drawGround(g *grid.Grid) {
	cells := make([]grid.Position, 0, g.Rows*g.Cols)
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			cells = append(cells, grid.Position{Row: row, Col: col})
		}
	}
	sort.SliceStable(cells, func(i, j int) bool {
		return cells[i].Row+cells[i].Col < cells[j].Row+cells[j].Col
	})

	for _, p := range cells {
		sx, sy, onScreen := r.camera.WorldToScreen(float64(p.Row), float64(p.Col))
		if !onScreen {
			continue
		}
		style, fill := tileStyle(g.At(p))
		for dx := 0; dx < TileWidth; dx++ {
			x := sx + dx
			if x < 0 || x >= r.camera.ViewWidth {
				continue
			}
			r.screen.SetContent(x, sy, fill, nil, style)
		}
	}
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen position (x, y).
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	mainc := runes[0]
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, mainc, combc, style)
	if runewidth.StringWidth(glyph) == 2 {
		// Fill the second column to avoid rendering artifacts.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}
