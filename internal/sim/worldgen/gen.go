package worldgen

import (
	"math/rand"

	"gridfall/internal/sim/grid"
	"gridfall/internal/sim/tile"
)

// Biome is a contiguous run of columns sharing a surface palette.
type Biome uint8

const (
	Forest Biome = iota
	Desert
)

func (b Biome) String() string {
	if b == Desert {
		return "DESERT"
	}
	return "FOREST"
}

// surfaceTile is the tile placed exactly at a column's surface height.
func (b Biome) surfaceTile() tile.Tile {
	if b == Desert {
		return tile.Sand
	}
	return tile.Grass
}

// subSurfaceTile fills the few rows directly under the surface.
func (b Biome) subSurfaceTile() tile.Tile {
	if b == Desert {
		return tile.Sand
	}
	return tile.Dirt
}

type Config struct {
	Width  int
	Height int

	// Surface random walk.
	SurfaceStartFrac float64 // starting height as a fraction of Height
	WalkChance       float64 // chance a column nudges the surface by one tile
	SurfaceMin       int     // clamp: highest allowed surface row
	SurfaceMaxMargin int     // clamp: lowest allowed surface row is Height-SurfaceMaxMargin

	// Biome runs.
	BiomeRunMin int
	BiomeRunMax int

	// Column layering depths (relative to surface).
	SubSurfaceRows int // biome sub-surface band
	DirtDepth      int // dirt/sand band ends here, stone below

	// Feature overlays.
	StonePatchPer1000Cols int // expected patch count per 1000 columns, scaled by width
	TreeChance            float64
	TrunkMin              int
	TrunkMax              int
}

func DefaultConfig() Config {
	return Config{
		Width:                 400,
		Height:                200,
		SurfaceStartFrac:      0.55,
		WalkChance:            0.55,
		SurfaceMin:            20,
		SurfaceMaxMargin:      15,
		BiomeRunMin:           20,
		BiomeRunMax:           50,
		SubSurfaceRows:        3,
		DirtDepth:             20,
		StonePatchPer1000Cols: 120,
		TreeChance:            0.08,
		TrunkMin:              3,
		TrunkMax:              6,
	}
}

// Generator produces an initial grid deterministically from a seed. Every
// placement, stone patches included, draws from the one seeded stream, so
// a seed fully reproduces a grid.
type Generator struct {
	cfg Config
}

func New(cfg Config) *Generator {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg = DefaultConfig()
	}
	return &Generator{cfg: cfg}
}

func (gn *Generator) Config() Config { return gn.cfg }

func (gn *Generator) Generate(seed int64) *grid.Grid {
	cfg := gn.cfg
	rng := rand.New(rand.NewSource(seed))
	g, _ := grid.New(cfg.Width, cfg.Height)

	heights := gn.surfaceHeights(rng)
	biomes := gn.biomeRuns(rng)

	for x := 0; x < cfg.Width; x++ {
		s := heights[x]
		b := biomes[x]
		for y := 0; y < cfg.Height; y++ {
			switch {
			case y < s:
				// air
			case y == s:
				g.Set(x, y, b.surfaceTile())
			case y <= s+cfg.SubSurfaceRows:
				g.Set(x, y, b.subSurfaceTile())
			case y <= s+cfg.DirtDepth:
				if b == Desert {
					g.Set(x, y, tile.Sand)
				} else {
					g.Set(x, y, tile.Dirt)
				}
			default:
				g.Set(x, y, tile.Stone)
			}
		}
	}

	gn.stonePatches(rng, g, heights)
	gn.trees(rng, g, heights, biomes)
	return g
}

// surfaceHeights derives one surface row per column via a bounded random
// walk: 0 or +-1 per column with a biased coin, clamped so the surface can
// never degenerate to the grid edges.
func (gn *Generator) surfaceHeights(rng *rand.Rand) []int {
	cfg := gn.cfg
	lo := cfg.SurfaceMin
	hi := cfg.Height - cfg.SurfaceMaxMargin
	h := int(cfg.SurfaceStartFrac * float64(cfg.Height))
	out := make([]int, cfg.Width)
	for x := 0; x < cfg.Width; x++ {
		if rng.Float64() < cfg.WalkChance {
			if rng.Intn(2) == 0 {
				h--
			} else {
				h++
			}
		}
		if h < lo {
			h = lo
		}
		if h > hi {
			h = hi
		}
		out[x] = h
	}
	return out
}

// biomeRuns partitions columns into alternating forest/desert runs with
// run lengths drawn uniformly from [BiomeRunMin, BiomeRunMax]. Boundaries
// are abrupt; there is no blending between biomes.
func (gn *Generator) biomeRuns(rng *rand.Rand) []Biome {
	cfg := gn.cfg
	out := make([]Biome, cfg.Width)
	b := Forest
	left := cfg.BiomeRunMin + rng.Intn(cfg.BiomeRunMax-cfg.BiomeRunMin+1)
	for x := 0; x < cfg.Width; x++ {
		if left == 0 {
			if b == Forest {
				b = Desert
			} else {
				b = Forest
			}
			left = cfg.BiomeRunMin + rng.Intn(cfg.BiomeRunMax-cfg.BiomeRunMin+1)
		}
		out[x] = b
		left--
	}
	return out
}

// stonePatches overlays irregular rectangular stone blobs below the
// surface. Writes clamp to grid bounds via Set's no-op policy.
func (gn *Generator) stonePatches(rng *rand.Rand, g *grid.Grid, heights []int) {
	cfg := gn.cfg
	n := cfg.Width * cfg.StonePatchPer1000Cols / 1000
	for i := 0; i < n; i++ {
		cx := rng.Intn(cfg.Width)
		depthBand := cfg.Height - heights[cx] - 4
		if depthBand <= 0 {
			continue
		}
		top := heights[cx] + 4 + rng.Intn(depthBand)
		pw := 2 + rng.Intn(5)
		ph := 2 + rng.Intn(4)
		for dy := 0; dy < ph; dy++ {
			for dx := 0; dx < pw; dx++ {
				x := cx + dx - pw/2
				y := top + dy
				if x >= 0 && x < cfg.Width && y > heights[x] {
					g.Set(x, y, tile.Stone)
				}
			}
		}
	}
}

// trees raises vertical wood trunks from forest surface columns.
func (gn *Generator) trees(rng *rand.Rand, g *grid.Grid, heights []int, biomes []Biome) {
	cfg := gn.cfg
	for x := 0; x < cfg.Width; x++ {
		if biomes[x] != Forest {
			continue
		}
		if rng.Float64() >= cfg.TreeChance {
			continue
		}
		trunk := cfg.TrunkMin + rng.Intn(cfg.TrunkMax-cfg.TrunkMin+1)
		for i := 1; i <= trunk; i++ {
			g.Set(x, heights[x]-i, tile.Wood)
		}
	}
}

// SurfaceY scans downward from y=0 in a column and returns the row of the
// first solid tile. The out-of-bounds-is-solid convention means a fully
// hollow column reports the grid height.
func SurfaceY(g *grid.Grid, x int) int {
	for y := 0; y < g.Height(); y++ {
		if g.Get(x, y).Solid() {
			return y
		}
	}
	return g.Height()
}
