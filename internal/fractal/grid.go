package fractal

// Grid is a row-major raster of iteration counts.
type Grid struct {
	width, height int
	cells         []uint16
}

func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]uint16, width*height),
	}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Row returns row y as a sub-slice of the grid. Rows never alias each other.
func (g *Grid) Row(y int) []uint16 {
	start := y * g.width
	return g.cells[start : start+g.width : start+g.width]
}

func (g *Grid) At(x, y int) uint16 { return g.cells[y*g.width+x] }

// Cells exposes the backing slice in row-major order.
func (g *Grid) Cells() []uint16 { return g.cells }

func (g *Grid) Clone() *Grid {
	c := NewGrid(g.width, g.height)
	copy(c.cells, g.cells)
	return c
}

// Equal reports whether both grids have the same shape and contents.
func (g *Grid) Equal(other *Grid) bool {
	if g.width != other.width || g.height != other.height {
		return false
	}
	for i, v := range g.cells {
		if other.cells[i] != v {
			return false
		}
	}
	return true
}

// Sum is the total of all cells.
func (g *Grid) Sum() uint64 {
	var sum uint64
	for _, v := range g.cells {
		sum += uint64(v)
	}
	return sum
}

// Max returns the largest cell value.
func (g *Grid) Max() uint16 {
	var m uint16
	for _, v := range g.cells {
		if v > m {
			m = v
		}
	}
	return m
}

// Count returns how many cells hold exactly v.
func (g *Grid) Count(v uint16) int {
	n := 0
	for _, c := range g.cells {
		if c == v {
			n++
		}
	}
	return n
}
