package fractal

// Params controls the escape-time evaluation.
type Params struct {
	MaxIteration   int
	EscapeRadius   float64
	SamplesPerLine int
}

func DefaultParams() Params {
	return Params{MaxIteration: 500, EscapeRadius: 2.0, SamplesPerLine: 2}
}

// SamplesPerPixel is K², the number of jittered samples per pixel.
func (p Params) SamplesPerPixel() int {
	return p.SamplesPerLine * p.SamplesPerLine
}

// EscapeTime iterates z' = z² + c from z = (zx, zy) and returns the number
// of steps taken before |z|² reaches r2, capped at maxIteration.
func EscapeTime(zx, zy, cx, cy, r2 float64, maxIteration int) int {
	n := 0
	for zx*zx+zy*zy < r2 && n < maxIteration {
		zx, zy = zx*zx-zy*zy+cx, 2*zx*zy+cy
		n++
	}
	return n
}

// kernel is the per-frame evaluation state derived from a viewport
// snapshot. It is read-only once built and shared by every task.
type kernel struct {
	cx, cy     float64
	zoom       float64
	halfZoom   float64
	scale      float64
	offX, offY int
	r2         float64
	maxIter    int
	k          int
	n          int
}

func newKernel(v Viewport, width int, p Params) kernel {
	return kernel{
		cx:       v.CenterRe,
		cy:       v.CenterIm,
		zoom:     v.Zoom,
		halfZoom: v.Zoom / 2,
		scale:    float64(width) / (2 * v.Zoom),
		offX:     int(v.OffsetX),
		offY:     int(v.OffsetY),
		r2:       p.EscapeRadius * p.EscapeRadius,
		maxIter:  p.MaxIteration,
		k:        p.SamplesPerLine,
		n:        p.SamplesPerPixel(),
	}
}

// sample evaluates sub-pixel sample i of pixel (px, py). The jitter is
// ((i mod K)/K, (i div K)/K), so samples are deterministic.
func (k *kernel) sample(px, py, i int) int {
	jx := float64(i%k.k) / float64(k.k)
	jy := float64(i/k.k) / float64(k.k)

	zx := (float64(px+k.offX)+jx)/k.scale - k.zoom
	zy := (float64(py+k.offY)+jy)/k.scale - k.halfZoom

	return EscapeTime(zx, zy, k.cx, k.cy, k.r2, k.maxIter)
}

// pixel is the supersampled count: the truncated mean of all K² samples.
func (k *kernel) pixel(px, py int) uint16 {
	sum := 0
	for i := 0; i < k.n; i++ {
		sum += k.sample(px, py, i)
	}
	return uint16(sum / k.n)
}

// Sample evaluates a single jittered sample of pixel (px, py) for a raster
// of the given width.
func Sample(px, py, i int, v Viewport, width int, p Params) int {
	k := newKernel(v, width, p)
	return k.sample(px, py, i)
}

// Supersample returns the averaged count of pixel (px, py).
func Supersample(px, py int, v Viewport, width int, p Params) uint16 {
	k := newKernel(v, width, p)
	return k.pixel(px, py)
}
