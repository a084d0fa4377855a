package tile

import "fmt"

// Tile is a cell type occupying one grid cell. Tiles are values; the grid
// stores them densely with no per-cell identity.
type Tile uint8

const (
	Air Tile = iota
	Grass
	Dirt
	Stone
	Wood
	Sand
	Glass
	Torch
	Brick

	count
)

// Count is the number of tile variants, Air included.
const Count = int(count)

// TorchLightRadius is the falloff radius, in tile units, of a placed torch.
const TorchLightRadius = 8.0

func (t Tile) Valid() bool { return t < count }

// Solid reports whether the tile blocks movement. Air is the only
// non-solid variant.
func (t Tile) Solid() bool { return t != Air }

// LightRadius returns the emission radius in tile units, or 0 for tiles
// that emit no light.
func (t Tile) LightRadius() float64 {
	if t == Torch {
		return TorchLightRadius
	}
	return 0
}

func (t Tile) Name() string {
	switch t {
	case Air:
		return "AIR"
	case Grass:
		return "GRASS"
	case Dirt:
		return "DIRT"
	case Stone:
		return "STONE"
	case Wood:
		return "WOOD"
	case Sand:
		return "SAND"
	case Glass:
		return "GLASS"
	case Torch:
		return "TORCH"
	case Brick:
		return "BRICK"
	}
	return fmt.Sprintf("TILE_%d", uint8(t))
}

func Parse(name string) (Tile, bool) {
	for t := Air; t < count; t++ {
		if t.Name() == name {
			return t, true
		}
	}
	return Air, false
}
