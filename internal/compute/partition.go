package compute

import (
	"fmt"
	"strings"
)

// Region is a half-open rectangle [X0, X1) x [Y0, Y1) of a raster.
type Region struct {
	X0, Y0 int
	X1, Y1 int
}

func (r Region) Width() int  { return r.X1 - r.X0 }
func (r Region) Height() int { return r.Y1 - r.Y0 }
func (r Region) Pixels() int { return r.Width() * r.Height() }
func (r Region) Empty() bool { return r.X1 <= r.X0 || r.Y1 <= r.Y0 }

func (r Region) String() string {
	return fmt.Sprintf("[%d,%d)x[%d,%d)", r.X0, r.X1, r.Y0, r.Y1)
}

// Partition names a way of splitting a raster into disjoint regions.
type Partition string

const (
	Sequential Partition = "sequential"
	Rows       Partition = "rows"
	Bands      Partition = "bands"
	Tiles      Partition = "tiles"
)

const DefaultTileSize = 32

// Partitions lists every supported partition.
func Partitions() []Partition {
	return []Partition{Sequential, Rows, Bands, Tiles}
}

// ParsePartition resolves a partition name, case-insensitively.
func ParsePartition(name string) (Partition, error) {
	p := Partition(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Partitions() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPartition, name)
}

// Plan describes how a frame is split and how many workers run it.
type Plan struct {
	Partition Partition
	Workers   int
	TileSize  int
}

func DefaultPlan() Plan {
	return Plan{Partition: Bands, TileSize: DefaultTileSize}
}

// Regions splits a width x height raster according to the plan. The result
// covers every pixel exactly once.
func (p Plan) Regions(width, height int) ([]Region, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("compute: invalid raster %dx%d", width, height)
	}

	switch p.Partition {
	case Sequential:
		return []Region{{X1: width, Y1: height}}, nil
	case Rows:
		return splitRows(width, height), nil
	case Bands, "":
		workers := p.Workers
		if workers <= 0 {
			workers = NewPool(0).Workers()
		}
		return splitBands(width, height, workers), nil
	case Tiles:
		size := p.TileSize
		if size <= 0 {
			size = DefaultTileSize
		}
		return splitTiles(width, height, size), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPartition, p.Partition)
	}
}

func splitRows(width, height int) []Region {
	regions := make([]Region, height)
	for y := range regions {
		regions[y] = Region{X0: 0, Y0: y, X1: width, Y1: y + 1}
	}
	return regions
}

func splitBands(width, height, workers int) []Region {
	if workers > height {
		workers = height
	}
	chunkSize := (height + workers - 1) / workers

	regions := make([]Region, 0, workers)
	for start := 0; start < height; start += chunkSize {
		end := start + chunkSize
		if end > height {
			end = height
		}
		regions = append(regions, Region{X0: 0, Y0: start, X1: width, Y1: end})
	}
	return regions
}

func splitTiles(width, height, size int) []Region {
	cols := (width + size - 1) / size
	rows := (height + size - 1) / size

	regions := make([]Region, 0, cols*rows)
	for ty := 0; ty < rows; ty++ {
		for tx := 0; tx < cols; tx++ {
			regions = append(regions, Region{
				X0: tx * size,
				Y0: ty * size,
				X1: min(tx*size+size, width),
				Y1: min(ty*size+size, height),
			})
		}
	}
	return regions
}
