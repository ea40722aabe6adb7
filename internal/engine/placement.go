package engine

import (
	"github.com/piwi3910/packga/internal/model"
)

// Score is the fitness of a permutation: total benefit of the items that
// could be placed and the number of cells left free.
type Score struct {
	Benefit int
	Wasted  int
}

// Less orders scores lexicographically by (Benefit, Wasted).
func (s Score) Less(o Score) bool {
	if s.Benefit != o.Benefit {
		return s.Benefit < o.Benefit
	}
	return s.Wasted < o.Wasted
}

// Placement is an item placed at a grid position. Row and Col address the
// item's top-left cell.
type Placement struct {
	Item  model.Item
	Index int
	Row   int
	Col   int
}

// Layout is the decoded result of running the placement heuristic.
type Layout struct {
	Placements []Placement
	Skipped    []int // item indices that found no room
	Score      Score
}

// grid is the occupancy scratch space for one placement pass.
type grid struct {
	width, height int
	cells         []bool
}

func newGrid(c model.Container) *grid {
	return &grid{
		width:  c.Width,
		height: c.Height,
		cells:  make([]bool, c.Width*c.Height),
	}
}

// fits reports whether an item of size w x h can sit with its top-left
// corner at (row, col) without leaving the grid or covering a used cell.
func (g *grid) fits(w, h, row, col int) bool {
	if row+h > g.height || col+w > g.width {
		return false
	}
	for r := row; r < row+h; r++ {
		line := g.cells[r*g.width : r*g.width+g.width]
		for c := col; c < col+w; c++ {
			if line[c] {
				return false
			}
		}
	}
	return true
}

// firstFree scans cells in row-major order and returns the first position
// where the item fits.
func (g *grid) firstFree(w, h int) (row, col int, ok bool) {
	if w > g.width || h > g.height {
		return 0, 0, false
	}
	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			if g.fits(w, h, r, c) {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

func (g *grid) fill(w, h, row, col int) {
	for r := row; r < row+h; r++ {
		line := g.cells[r*g.width : r*g.width+g.width]
		for c := col; c < col+w; c++ {
			line[c] = true
		}
	}
}

func (g *grid) free() int {
	n := 0
	for _, used := range g.cells {
		if !used {
			n++
		}
	}
	return n
}

// Place runs the greedy first-fit heuristic: items are tried in permutation
// order, each at the first free row-major position that can hold it.
// Items that do not fit are skipped and later items are still tried.
func Place(container model.Container, items []model.Item, perm model.Permutation) Layout {
	g := newGrid(container)
	layout := Layout{}

	for _, idx := range perm {
		item := items[idx]
		row, col, ok := g.firstFree(item.Width, item.Height)
		if !ok {
			layout.Skipped = append(layout.Skipped, idx)
			continue
		}
		g.fill(item.Width, item.Height, row, col)
		layout.Score.Benefit += item.Benefit
		layout.Placements = append(layout.Placements, Placement{
			Item:  item,
			Index: idx,
			Row:   row,
			Col:   col,
		})
	}

	layout.Score.Wasted = g.free()
	return layout
}

// Evaluate scores a permutation. It is deterministic and has no side effects.
func Evaluate(container model.Container, items []model.Item, perm model.Permutation) Score {
	return Place(container, items, perm).Score
}
