package xwfill

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Direction is an enum representing the orientation of a slot in the grid,
// either 'Across' or 'Down'.
type Direction int

const (
	Across Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Across {
		return "across"
	}
	return "down"
}

// Variable is a single fillable slot: a maximal run of open cells of length
// at least two. It is a value type; two variables are equal iff all four
// fields match, which makes it usable as a map key.
type Variable struct {
	Row    int
	Col    int
	Dir    Direction
	Length int
}

func (v Variable) String() string {
	return fmt.Sprintf("%d,%d-%s/%d", v.Row, v.Col, v.Dir, v.Length)
}

// Cell returns the grid coordinates of the i-th letter of the slot.
func (v Variable) Cell(i int) (row, col int) {
	if v.Dir == Across {
		return v.Row, v.Col + i
	}
	return v.Row + i, v.Col
}

// less imposes the fixed tie-break order used everywhere ordering matters:
// row, then column, then orientation, then length.
func (v Variable) less(o Variable) bool {
	if v.Row != o.Row {
		return v.Row < o.Row
	}
	if v.Col != o.Col {
		return v.Col < o.Col
	}
	if v.Dir != o.Dir {
		return v.Dir < o.Dir
	}
	return v.Length < o.Length
}

// overlap records that the character at index A of the first variable of a
// canonically ordered pair must equal the character at index B of the second.
type overlap struct {
	A, B int
}

// ErrStructure indicates the structure input cannot describe a puzzle.
var ErrStructure = errors.New("invalid structure")

// openCell is the rune marking a fillable cell in structure input. Any other
// rune is a blocked cell.
const openCell = '_'

// Puzzle holds the static geometry of a grid: its cells, its variables and
// the overlap relation between crossing variables. It is immutable once
// constructed.
type Puzzle struct {
	height, width int
	open          [][]bool

	vars      []Variable
	overlaps  map[[2]Variable]overlap
	neighbors map[Variable][]Variable
}

// Parse builds a Puzzle from a rectangular structure grid, one row per line.
// '_' marks a fillable cell, anything else is blocked.
func Parse(structure string) (*Puzzle, error) {
	lines := strings.Split(strings.TrimRight(structure, "\n"), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return nil, fmt.Errorf("%w: empty grid", ErrStructure)
	}

	open := make([][]bool, len(lines))
	width := len([]rune(strings.TrimRight(lines[0], "\r")))
	for y, line := range lines {
		row := []rune(strings.TrimRight(line, "\r"))
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has width %d, want %d", ErrStructure, y, len(row), width)
		}
		open[y] = make([]bool, width)
		for x, r := range row {
			open[y][x] = r == openCell
		}
	}

	p := &Puzzle{
		height:    len(open),
		width:     width,
		open:      open,
		overlaps:  make(map[[2]Variable]overlap),
		neighbors: make(map[Variable][]Variable),
	}
	p.scanVariables()
	if len(p.vars) == 0 {
		return nil, fmt.Errorf("%w: no fillable slots", ErrStructure)
	}
	p.buildOverlaps()
	return p, nil
}

// scanVariables finds every maximal horizontal and vertical run of open
// cells with length >= 2.
func (p *Puzzle) scanVariables() {
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; {
			if !p.open[y][x] {
				x++
				continue
			}
			run := 0
			for x+run < p.width && p.open[y][x+run] {
				run++
			}
			if run >= 2 {
				p.vars = append(p.vars, Variable{Row: y, Col: x, Dir: Across, Length: run})
			}
			x += run
		}
	}
	for x := 0; x < p.width; x++ {
		for y := 0; y < p.height; {
			if !p.open[y][x] {
				y++
				continue
			}
			run := 0
			for y+run < p.height && p.open[y+run][x] {
				run++
			}
			if run >= 2 {
				p.vars = append(p.vars, Variable{Row: y, Col: x, Dir: Down, Length: run})
			}
			y += run
		}
	}
	sort.Slice(p.vars, func(i, j int) bool { return p.vars[i].less(p.vars[j]) })
}

// buildOverlaps derives the symmetric overlap table from cells shared by an
// across run and a down run. Overlaps are stored once, keyed by the
// canonically ordered pair.
func (p *Puzzle) buildOverlaps() {
	for _, a := range p.vars {
		if a.Dir != Across {
			continue
		}
		for _, d := range p.vars {
			if d.Dir != Down {
				continue
			}
			if a.Row < d.Row || a.Row >= d.Row+d.Length {
				continue
			}
			if d.Col < a.Col || d.Col >= a.Col+a.Length {
				continue
			}
			ia := d.Col - a.Col
			ib := a.Row - d.Row
			x, y := a, d
			ox, oy := ia, ib
			if y.less(x) {
				x, y = y, x
				ox, oy = oy, ox
			}
			p.overlaps[[2]Variable{x, y}] = overlap{A: ox, B: oy}
			p.neighbors[a] = append(p.neighbors[a], d)
			p.neighbors[d] = append(p.neighbors[d], a)
		}
	}
	for _, ns := range p.neighbors {
		sort.Slice(ns, func(i, j int) bool { return ns[i].less(ns[j]) })
	}
}

func (p *Puzzle) Height() int { return p.height }
func (p *Puzzle) Width() int  { return p.width }

// Open reports whether the cell at (row, col) is fillable.
func (p *Puzzle) Open(row, col int) bool {
	return p.open[row][col]
}

// Variables returns all slots in the fixed deterministic order.
func (p *Puzzle) Variables() []Variable {
	return p.vars
}

// Neighbors returns the slots crossing v, in the fixed deterministic order.
func (p *Puzzle) Neighbors(v Variable) []Variable {
	return p.neighbors[v]
}

// Overlap returns the indices (ix, iy) such that the ix-th character of x's
// word must equal the iy-th character of y's word, if x and y cross.
func (p *Puzzle) Overlap(x, y Variable) (ix, iy int, ok bool) {
	if y.less(x) {
		iy, ix, ok = p.Overlap(y, x)
		return ix, iy, ok
	}
	ov, ok := p.overlaps[[2]Variable{x, y}]
	if !ok {
		return 0, 0, false
	}
	return ov.A, ov.B, true
}

// arcs returns every ordered pair (x, y) of crossing variables, the initial
// worklist for full arc consistency.
func (p *Puzzle) arcs() [][2]Variable {
	var out [][2]Variable
	for _, x := range p.vars {
		for _, y := range p.neighbors[x] {
			out = append(out, [2]Variable{x, y})
		}
	}
	return out
}

// arcsInto returns the arcs (n, v) for every neighbor n of v, the seed
// worklist when re-propagating after v is assigned.
func (p *Puzzle) arcsInto(v Variable) [][2]Variable {
	ns := p.neighbors[v]
	out := make([][2]Variable, 0, len(ns))
	for _, n := range ns {
		out = append(out, [2]Variable{n, v})
	}
	return out
}
