package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const halfBlock = "▀"

// HalfBlock renders an RGBA8 raster of srcW x srcH pixels as cols x rows
// terminal cells. Each cell shows two vertically stacked samples: the upper
// one as the foreground of "▀" and the lower one as the background.
// Sampling is nearest-neighbour.
func HalfBlock(buf []byte, srcW, srcH, cols, rows int) string {
	if cols <= 0 || rows <= 0 || len(buf) < srcW*srcH*4 {
		return ""
	}

	var b strings.Builder
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		top := (2 * r) * srcH / (2 * rows)
		bottom := (2*r + 1) * srcH / (2 * rows)
		for c := 0; c < cols; c++ {
			x := c * srcW / cols
			style := lipgloss.NewStyle().
				Foreground(pixelColor(buf, srcW, x, top)).
				Background(pixelColor(buf, srcW, x, bottom))
			b.WriteString(style.Render(halfBlock))
		}
	}
	return b.String()
}

func pixelColor(buf []byte, w, x, y int) lipgloss.Color {
	i := (y*w + x) * 4
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", buf[i], buf[i+1], buf[i+2]))
}
