package visualizer

import (
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/olivier-w/flashlight/internal/hue"
	"github.com/olivier-w/flashlight/internal/monitor"
	"github.com/olivier-w/flashlight/internal/spectral"
	"github.com/olivier-w/flashlight/internal/torch"
)

func TestMain(m *testing.M) {
	// Plain output keeps rune assertions independent of the terminal.
	profileOnce.Do(func() { profile = termenv.Ascii })
	os.Exit(m.Run())
}

func snapshot(bars spectral.Bars, volume float32) monitor.Snapshot {
	return monitor.Snapshot{
		Bars:      bars,
		Hue:       hue.Initial,
		Color:     hue.DisplayColor(hue.Initial),
		Volume:    volume,
		Threshold: torch.DefaultThreshold,
		Torch:     torch.Intensity(volume, torch.DefaultThreshold, false),
		Sides:     monitor.PolygonSides(bars),
	}
}

func settle(v Visualizer, s monitor.Snapshot, width, height, frames int) string {
	for range frames {
		v.Update(s, width, height)
	}
	return v.View()
}

func TestModesHaveDistinctNames(t *testing.T) {
	seen := map[string]bool{}
	for _, v := range Modes(30) {
		if seen[v.Name()] {
			t.Fatalf("duplicate visualizer name %q", v.Name())
		}
		seen[v.Name()] = true
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 visualizers, got %d", len(seen))
	}
}

func TestEveryModeFillsTheRequestedArea(t *testing.T) {
	s := snapshot(spectral.Bars{120, 90, 60, 40, 30, 20, 10, 5, 0}, -20)
	for _, v := range Modes(30) {
		out := settle(v, s, 40, 8, 5)
		lines := strings.Split(out, "\n")
		if len(lines) > 8 {
			t.Fatalf("%s: %d lines for height 8", v.Name(), len(lines))
		}
		for i, line := range lines {
			if w := lipgloss.Width(line); w > 40 {
				t.Fatalf("%s: line %d is %d cells wide, limit 40", v.Name(), i, w)
			}
		}
	}
}

func TestBarsFollowBandEnergy(t *testing.T) {
	b := NewBars(30)
	s := snapshot(spectral.Bars{fullScale, 0, 0, 0, 0, 0, 0, 0, 0}, -20)
	out := settle(b, s, 38, 4, 120)

	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(lines))
	}
	bottom := []rune(lines[3])
	if bottom[0] != '█' {
		t.Fatalf("expected full block at the base of bar 0, got %q", string(bottom[0]))
	}
	if strings.ContainsRune(string(bottom[5:]), '█') {
		t.Fatalf("silent bars should stay empty, bottom row %q", lines[3])
	}
}

func TestBarsSilenceIsBlank(t *testing.T) {
	out := settle(NewBars(30), snapshot(spectral.Bars{}, spectral.DecibelFloor), 38, 3, 10)
	if strings.Trim(out, " \n") != "" {
		t.Fatalf("expected blank output for silence, got %q", out)
	}
}

func TestBarRune(t *testing.T) {
	tests := []struct {
		level, row float64
		want       rune
	}{
		{3, 0, '█'},
		{3, 2, '█'},
		{0.5, 0, '▄'},
		{0, 0, ' '},
		{1, 1, ' '},
	}
	for _, tt := range tests {
		if got := barRune(tt.level, tt.row); got != tt.want {
			t.Fatalf("barRune(%v, %v) = %q, want %q", tt.level, tt.row, got, tt.want)
		}
	}
}

func TestPolygonVertices(t *testing.T) {
	if pts := polygonVertices(0, 10, 10, 5); pts != nil {
		t.Fatalf("expected no vertices for zero sides, got %v", pts)
	}
	if pts := polygonVertices(4, 10, 10, 5); len(pts) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(pts))
	}
	pts := polygonVertices(4.5, 10, 10, 5)
	if len(pts) != 5 {
		t.Fatalf("expected a fractional count to add a vertex, got %d", len(pts))
	}
	if pts[0].x != 15 || pts[0].y != 10 {
		t.Fatalf("first vertex = %+v, want (15, 10)", pts[0])
	}
}

func TestShapeDrawsOnlyWithEnergy(t *testing.T) {
	loud := snapshot(spectral.Bars{50, 50, 50, 50, 50, 50, 50, 50, 50}, -10)
	out := settle(NewShape(30), loud, 22, 6, 90)
	if !strings.ContainsFunc(out, func(r rune) bool { return r > 0x2800 && r <= 0x28FF }) {
		t.Fatalf("expected braille dots for a 9-sided shape, got %q", out)
	}

	quiet := settle(NewShape(30), snapshot(spectral.Bars{}, spectral.DecibelFloor), 22, 6, 90)
	if strings.ContainsFunc(quiet, func(r rune) bool { return r > 0x2800 && r <= 0x28FF }) {
		t.Fatalf("expected an empty canvas for silence, got %q", quiet)
	}
}

func TestBrailleCanvasLine(t *testing.T) {
	c := newBrailleCanvas(2, 1)
	c.line(point{0, 0}, point{3, 0})
	if got := c.render(hue.DisplayColor(hue.Initial).RGB); got != "⠉⠉" {
		t.Fatalf("top row line rendered %q, want %q", got, "⠉⠉")
	}
}

func TestWaterfallScrollsNewestFirst(t *testing.T) {
	w := NewWaterfall(30)
	loud := snapshot(spectral.Bars{fullScale, fullScale, fullScale, fullScale, fullScale, fullScale, fullScale, fullScale, fullScale}, -10)
	settle(w, loud, 20, 3, 60)
	out := settle(w, snapshot(spectral.Bars{}, spectral.DecibelFloor), 20, 3, 1)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(lines))
	}
	if !strings.ContainsAny(lines[2], "%@") {
		t.Fatalf("expected older loud rows to keep their level, got %q", lines[2])
	}
}

func TestLevelPosition(t *testing.T) {
	tests := []struct {
		db   float32
		want float64
	}{
		{spectral.DecibelFloor, 0},
		{torch.MinThreshold, 0},
		{-30, 0.5},
		{0, 1},
	}
	for _, tt := range tests {
		if got := levelPosition(tt.db); got != tt.want {
			t.Fatalf("levelPosition(%v) = %v, want %v", tt.db, got, tt.want)
		}
	}
}

func TestLevelShowsTorchState(t *testing.T) {
	out := settle(NewLevel(), snapshot(spectral.Bars{}, -15), 40, 5, 20)
	if !strings.Contains(out, "torch 50%") || !strings.Contains(out, "-15.0 dB") {
		t.Fatalf("expected torch and volume caption, got %q", out)
	}
	if !strings.Contains(out, "┃") {
		t.Fatalf("expected threshold marker, got %q", out)
	}

	off := settle(NewLevel(), snapshot(spectral.Bars{}, -45), 40, 5, 1)
	if !strings.Contains(off, "torch off") {
		t.Fatalf("expected torch off caption, got %q", off)
	}
}
