package xwfill

import (
	"fmt"
	"strings"
)

const (
	blockedGlyph = '█'
	emptyGlyph   = ' '
)

// Grid is a 2D grid of runes.
//
// It represents a puzzle's cells with an assignment's letters laid onto
// them: blocked cells render as a block glyph, unassigned open cells as a
// space.
type Grid struct {
	grid [][]rune
}

// Render lays the words of an assignment onto the puzzle's cells. The
// assignment may be partial; it does not have to be consistent.
func (p *Puzzle) Render(a Assignment) Grid {
	g := make([][]rune, p.height)
	for y := range g {
		g[y] = make([]rune, p.width)
		for x := range g[y] {
			if p.open[y][x] {
				g[y][x] = emptyGlyph
			} else {
				g[y][x] = blockedGlyph
			}
		}
	}
	for v, word := range a {
		for k, r := range word {
			row, col := v.Cell(k)
			g[row][col] = r
		}
	}
	return Grid{grid: g}
}

func (g Grid) Width() int {
	return len(g.grid[0])
}

func (g Grid) Height() int {
	return len(g.grid)
}

func (g Grid) Get(x, y int) rune {
	return g.grid[y][x]
}

func (g Grid) Repr() string {
	lines := make([]string, g.Height())
	for y := range g.Height() {
		lines[y] = string(g.grid[y])
	}
	return strings.Join(lines, "\n")
}

func (g Grid) DebugString() string {
	return fmt.Sprintf("Grid{width: %d, height: %d, grid: %v}", g.Width(), g.Height(), g.grid)
}
