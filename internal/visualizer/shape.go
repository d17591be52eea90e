package visualizer

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/olivier-w/flashlight/internal/monitor"
	"github.com/olivier-w/flashlight/internal/torch"
)

// maxSides bounds the vertex count; every vertex pair is joined, so the
// line count grows quadratically.
const maxSides = 40

// Shape draws a polygon with every vertex joined to every other. Its side
// count follows the snapshot's Sides and its size follows the volume, both
// eased by springs.
type Shape struct {
	springs springField // 0: sides, 1: scale
	output  string
}

// NewShape creates the polygon visualizer.
func NewShape(fps int) *Shape {
	return &Shape{springs: newSpringField(fps, 2, 3.0, 1.0)}
}

func (s *Shape) Name() string { return "shape" }

func (s *Shape) Update(snap monitor.Snapshot, width, height int) {
	cols := max(width-2, 2)
	rows := max(height, 1)

	sides := clampFloat(s.springs.step(0, float64(snap.Sides)), 0, maxSides)
	loud := clamp01(float64(snap.Volume-torch.MinThreshold) / -torch.MinThreshold)
	scale := clamp01(s.springs.step(1, 0.55+0.45*loud))

	c := newBrailleCanvas(cols, rows)
	w, h := float64(c.dotCols()), float64(c.dotRows())
	radius := (min(w, h)/2 - 1) * scale
	pts := polygonVertices(sides, w/2, h/2, radius)
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			c.line(pts[i], pts[j])
		}
	}
	if len(pts) == 1 {
		c.set(int(pts[0].x), int(pts[0].y))
	}

	s.output = c.render(snap.Color.RGB)
}

func (s *Shape) View() string {
	return s.output
}

type point struct {
	x, y float64
}

// polygonVertices spaces vertices 360/sides degrees apart around (cx, cy).
// A fractional side count adds one more vertex, so the shape grows a side
// smoothly as the count rises.
func polygonVertices(sides, cx, cy, radius float64) []point {
	if sides <= 0 || radius <= 0 {
		return nil
	}
	n := int(sides)
	if sides != math.Trunc(sides) {
		n++
	}
	pts := make([]point, n)
	for i := range pts {
		angle := float64(i) * 2 * math.Pi / sides
		pts[i] = point{x: cx + math.Cos(angle)*radius, y: cy + math.Sin(angle)*radius}
	}
	return pts
}

func clampFloat(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// brailleCanvas is a dot grid two dots wide and four tall per cell.
type brailleCanvas struct {
	cols, rows int
	cells      []uint8
}

func newBrailleCanvas(cols, rows int) *brailleCanvas {
	return &brailleCanvas{cols: cols, rows: rows, cells: make([]uint8, cols*rows)}
}

func (c *brailleCanvas) dotCols() int { return c.cols * 2 }
func (c *brailleCanvas) dotRows() int { return c.rows * 4 }

func (c *brailleCanvas) set(x, y int) {
	if x < 0 || y < 0 || x >= c.dotCols() || y >= c.dotRows() {
		return
	}
	c.cells[(y/4)*c.cols+x/2] |= 1 << brailleBits[x%2][y%4]
}

func (c *brailleCanvas) line(a, b point) {
	dx, dy := b.x-a.x, b.y-a.y
	steps := int(math.Ceil(max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		c.set(int(math.Round(a.x)), int(math.Round(a.y)))
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.set(int(math.Round(a.x+dx*t)), int(math.Round(a.y+dy*t)))
	}
}

func (c *brailleCanvas) render(fg colorful.Color) string {
	var out strings.Builder
	color := newANSIState()
	for row := range c.rows {
		if row > 0 {
			out.WriteByte('\n')
		}
		color.set(&out, fg)
		for col := range c.cols {
			out.WriteRune(rune(0x2800 + int(c.cells[row*c.cols+col])))
		}
		color.reset(&out)
	}
	return out.String()
}
