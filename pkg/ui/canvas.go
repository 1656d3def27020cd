package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// continuation marks the second cell of a wide rune.
const continuation rune = -1

type cell struct {
	r     rune
	style int
}

// Canvas is a fixed-size grid of styled terminal cells. Style 0 is unstyled.
// Drawing outside the grid is silently clipped.
type Canvas struct {
	w, h   int
	cells  []cell
	styles []lipgloss.Style
	index  map[string]int
}

// NewCanvas returns a blank w×h canvas.
func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 0), max(h, 0)
	c := &Canvas{
		w:      w,
		h:      h,
		cells:  make([]cell, w*h),
		styles: []lipgloss.Style{lipgloss.NewStyle()},
		index:  map[string]int{},
	}
	for i := range c.cells {
		c.cells[i].r = ' '
	}
	return c
}

func (c *Canvas) Width() int  { return c.w }
func (c *Canvas) Height() int { return c.h }

// Style registers s under key and returns its handle. Registering the same
// key twice returns the first handle.
func (c *Canvas) Style(key string, s lipgloss.Style) int {
	if id, ok := c.index[key]; ok {
		return id
	}
	c.styles = append(c.styles, s)
	id := len(c.styles) - 1
	c.index[key] = id
	return id
}

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.w && y < c.h
}

// At returns the rune at (x, y), or 0 outside the grid.
func (c *Canvas) At(x, y int) rune {
	if !c.inside(x, y) {
		return 0
	}
	return c.cells[y*c.w+x].r
}

// Set writes r at (x, y).
func (c *Canvas) Set(x, y int, r rune, style int) {
	if !c.inside(x, y) {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, style: style}
}

// setIfEmpty writes r only over blank cells, so decoration never hides
// points or labels drawn earlier.
func (c *Canvas) setIfEmpty(x, y int, r rune, style int) {
	if c.At(x, y) == ' ' {
		c.Set(x, y, r, style)
	}
}

// Text writes s on row y. With end anchoring the text finishes at x,
// otherwise it starts there.
func (c *Canvas) Text(x, y int, s string, style int, alignEnd bool) {
	if alignEnd {
		x -= runewidth.StringWidth(s) - 1
	}
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		c.Set(x, y, r, style)
		if rw == 2 {
			c.Set(x+1, y, continuation, style)
		}
		x += rw
	}
}

// Line draws a Bresenham line of r from (x0, y0) to (x1, y1) over blank
// cells only.
func (c *Canvas) Line(x0, y0, x1, y1 int, r rune, style int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.setIfEmpty(x0, y0, r, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Ellipse traces an ellipse with radii rx, ry around (cx, cy) over blank
// cells only.
func (c *Canvas) Ellipse(cx, cy, rx, ry float64, r rune, style int) {
	steps := int(math.Ceil(2 * math.Pi * math.Max(rx, ry)))
	steps = max(steps, 16)
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c.setIfEmpty(round(cx+rx*math.Cos(a)), round(cy+ry*math.Sin(a)), r, style)
	}
}

// Render returns the canvas with styles applied, one line per row.
func (c *Canvas) Render() string {
	return c.render(true)
}

// String returns the canvas without styling.
func (c *Canvas) String() string {
	return c.render(false)
}

func (c *Canvas) render(styled bool) string {
	var sb strings.Builder
	var run strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		cur := -1
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if styled && cur > 0 {
				sb.WriteString(c.styles[cur].Render(run.String()))
			} else {
				sb.WriteString(run.String())
			}
			run.Reset()
		}
		for x := 0; x < c.w; x++ {
			cl := c.cells[y*c.w+x]
			if cl.r == continuation {
				if x > 0 && runewidth.RuneWidth(c.cells[y*c.w+x-1].r) == 2 {
					continue
				}
				cl.r = ' '
			}
			if cl.style != cur {
				flush()
				cur = cl.style
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return sb.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func round(v float64) int {
	return int(math.Round(v))
}
