package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Controls is the help line shown under the status line.
const Controls = "WASD/arrows: move   R: restart   Q/Esc: quit"

// HUD is the information shown below the map.
type HUD struct {
	Player    string
	Level     string
	Health    int
	MaxHealth int
	Score     int
	Mode      string
	Messages  []string
	Dead      bool
}

// StatusLine formats the first HUD line.
func (h HUD) StatusLine() string {
	line := ""
	if h.Player != "" {
		line = fmt.Sprintf("[%s]  ", h.Player)
	}
	line += fmt.Sprintf("%s   HP: %d/%d   Score: %d", h.Level, h.Health, h.MaxHealth, h.Score)
	if h.Mode != "" {
		line += fmt.Sprintf("   Mode: %s", h.Mode)
	}
	return line
}

// DrawHUD renders the status bar and message log at the bottom of the
// screen, the defeat banner when h.Dead is set, and shows the frame.
func (r *Renderer) DrawHUD(h HUD) {
	_, screenH := r.screen.Size()
	hudY := screenH - HUDRows

	r.drawHLine(hudY, tcell.ColorGray)

	hpColor := tcell.ColorWhite
	switch {
	case h.MaxHealth > 0 && h.Health*4 <= h.MaxHealth:
		hpColor = tcell.ColorRed
	case h.MaxHealth > 0 && h.Health*2 <= h.MaxHealth:
		hpColor = tcell.ColorYellow
	}
	r.drawText(0, hudY+1, h.StatusLine(), tcell.StyleDefault.Foreground(hpColor))
	r.drawText(0, hudY+2, Controls, tcell.StyleDefault.Foreground(tcell.ColorGray))

	// Message log (last 2 messages).
	start := len(h.Messages) - 2
	if start < 0 {
		start = 0
	}
	for i, msg := range h.Messages[start:] {
		r.drawText(0, hudY+3+i, msg, tcell.StyleDefault.Foreground(tcell.ColorLightYellow))
	}

	if h.Dead {
		r.drawBanner("YOU WERE DEFEATED", "[R] Try Again   [Q] Quit")
	}

	r.screen.Show()
}

func (r *Renderer) drawBanner(title, hint string) {
	w, _ := r.screen.Size()
	y := r.camera.ViewHeight/2 - 1
	if y < 0 {
		y = 0
	}
	red := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	gray := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	r.drawText((w-runewidth.StringWidth(title))/2, y, title, red)
	r.drawText((w-runewidth.StringWidth(hint))/2, y+2, hint, gray)
}

func (r *Renderer) drawHLine(y int, color tcell.Color) {
	w, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(color)
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, style)
	}
}

func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	col := x
	for _, ch := range text {
		r.screen.SetContent(col, y, ch, nil, style)
		col += runewidth.RuneWidth(ch)
	}
}
