package fractal

import "testing"

func TestGridRowsDisjoint(t *testing.T) {
	g := NewGrid(4, 3)
	for y := 0; y < 3; y++ {
		row := g.Row(y)
		for x := range row {
			row[x] = uint16(y*10 + x)
		}
	}

	if g.At(3, 2) != 23 {
		t.Errorf("expected 23, got %d", g.At(3, 2))
	}

	row := g.Row(0)
	if cap(row) != 4 {
		t.Errorf("row capacity should end at the row boundary, got %d", cap(row))
	}
	_ = append(row, 99)
	if g.At(0, 1) != 10 {
		t.Error("append to a row must not overwrite the next row")
	}
}

func TestGridStats(t *testing.T) {
	g := NewGrid(2, 2)
	copy(g.Cells(), []uint16{1, 500, 3, 500})

	if g.Sum() != 1004 {
		t.Errorf("expected sum 1004, got %d", g.Sum())
	}
	if g.Max() != 500 {
		t.Errorf("expected max 500, got %d", g.Max())
	}
	if g.Count(500) != 2 {
		t.Errorf("expected 2 capped cells, got %d", g.Count(500))
	}
}

func TestGridCloneEqual(t *testing.T) {
	g := NewGrid(3, 3)
	g.Row(1)[1] = 7

	c := g.Clone()
	if !g.Equal(c) {
		t.Error("clone should be equal")
	}

	c.Row(0)[0] = 1
	if g.Equal(c) {
		t.Error("modified clone should differ")
	}
	if g.At(0, 0) != 0 {
		t.Error("clone must not share cells")
	}

	if g.Equal(NewGrid(9, 1)) {
		t.Error("different shapes should not be equal")
	}
}
