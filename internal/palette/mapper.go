package palette

// Mapper converts iteration counts into RGBA8 pixels.
type Mapper struct {
	gradient *Gradient
}

func NewMapper(g *Gradient) *Mapper {
	if g == nil {
		g = Cubehelix()
	}
	return &Mapper{gradient: g}
}

func (m *Mapper) Gradient() *Gradient { return m.gradient }

// Color returns the pixel for a single count.
func (m *Mapper) Color(count uint16, maxIteration int) RGBA8 {
	return m.gradient.At(float64(count) / float64(maxIteration))
}

// Map writes one pixel per cell into dst, row-major, 4 bytes per pixel.
// dst must hold at least 4*len(cells) bytes.
func (m *Mapper) Map(cells []uint16, maxIteration int, dst []byte) {
	for i, v := range cells {
		c := m.Color(v, maxIteration)
		copy(dst[i*4:i*4+4], c[:])
	}
}
