// File: internal/sim/grid.go
package sim

// Position is a cell coordinate on the grid.
type Position struct {
	X int
	Y int
}

// mooreOffsets enumerates the 8-cell Moore neighborhood in a canonical order.
// Neighbor iteration must be stable so that a seeded run replays identically.
var mooreOffsets = [8]Position{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Grid is a toroidal width x height lattice. Each cell holds zero or more
// agents in insertion order. Coordinates passed to any method are wrapped,
// never rejected. The grid is not safe for concurrent use; the engine is
// single-threaded.
type Grid struct {
	width  int
	height int
	cells  [][]*Agent // index = y*width + x
}

// NewGrid creates an empty toroidal grid with the given dimensions.
func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([][]*Agent, width*height),
	}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Wrap maps an arbitrary coordinate onto the torus.
func (g *Grid) Wrap(pos Position) Position {
	x := pos.X % g.width
	if x < 0 {
		x += g.width
	}
	y := pos.Y % g.height
	if y < 0 {
		y += g.height
	}
	return Position{X: x, Y: y}
}

func (g *Grid) index(pos Position) int {
	return pos.Y*g.width + pos.X
}

// Place inserts an agent at the wrapped position and mirrors the position
// onto the agent. An agent already resident elsewhere is relocated instead.
func (g *Grid) Place(a *Agent, pos Position) {
	if a.resident {
		g.Move(a, pos)
		return
	}
	wrapped := g.Wrap(pos)
	idx := g.index(wrapped)
	g.cells[idx] = append(g.cells[idx], a)
	a.Pos = wrapped
	a.resident = true
}

// Move relocates a resident agent to the wrapped position. Calling Move on an
// agent that was never placed is a no-op.
func (g *Grid) Move(a *Agent, pos Position) {
	if !a.resident {
		return
	}
	g.removeFromCell(a)
	wrapped := g.Wrap(pos)
	idx := g.index(wrapped)
	g.cells[idx] = append(g.cells[idx], a)
	a.Pos = wrapped
}

// Remove takes a resident agent off the grid entirely.
func (g *Grid) Remove(a *Agent) {
	if !a.resident {
		return
	}
	g.removeFromCell(a)
	a.resident = false
}

// removeFromCell deletes the agent from its current cell, preserving the
// insertion order of the remaining occupants.
func (g *Grid) removeFromCell(a *Agent) {
	idx := g.index(a.Pos)
	cell := g.cells[idx]
	for i, occ := range cell {
		if occ == a {
			g.cells[idx] = append(cell[:i], cell[i+1:]...)
			return
		}
	}
}

// CellContents returns the agents occupying the wrapped position, in
// insertion order. The returned slice is the grid's own storage; callers
// must not mutate it.
func (g *Grid) CellContents(pos Position) []*Agent {
	return g.cells[g.index(g.Wrap(pos))]
}

// NeighborPositions returns the wrapped Moore-neighborhood coordinates of
// the given position in canonical order. The center cell is never included,
// so a relocation drawn from this set always changes the cell. On grids
// narrower than 3 cells wrapping folds candidates together; duplicates are
// dropped so each neighboring cell appears exactly once.
func (g *Grid) NeighborPositions(pos Position) []Position {
	wrapped := g.Wrap(pos)
	out := make([]Position, 0, len(mooreOffsets))
	for _, off := range mooreOffsets {
		np := g.Wrap(Position{X: wrapped.X + off.X, Y: wrapped.Y + off.Y})
		if np == wrapped || contains(out, np) {
			continue
		}
		out = append(out, np)
	}
	return out
}

func contains(positions []Position, pos Position) bool {
	for _, p := range positions {
		if p == pos {
			return true
		}
	}
	return false
}

// Neighbors returns the agents occupying the Moore neighborhood of the
// wrapped position. The center cell's occupants are appended last when
// includeCenter is set. Iteration order is canonical cell order, insertion
// order within a cell.
func (g *Grid) Neighbors(pos Position, includeCenter bool) []*Agent {
	var out []*Agent
	for _, np := range g.NeighborPositions(pos) {
		out = append(out, g.cells[g.index(np)]...)
	}
	if includeCenter {
		out = append(out, g.CellContents(pos)...)
	}
	return out
}
