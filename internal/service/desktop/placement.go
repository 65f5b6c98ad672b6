package desktop

import (
	"fmt"
	"math/rand/v2"

	models "webtop/internal/domain/models/desktop"
)

// PlacementPolicy chooses coordinates for icons created without explicit ones
type PlacementPolicy interface {
	NextFreeSlot(existing []models.Point) models.Point
}

// NewPlacementPolicy returns the policy named by strategy ("grid" or "random")
func NewPlacementPolicy(strategy string) (PlacementPolicy, error) {
	switch strategy {
	case "", "grid":
		return NewGridPlacement(), nil
	case "random":
		return NewRandomPlacement(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))), nil
	default:
		return nil, fmt.Errorf("unknown placement strategy %q", strategy)
	}
}

// GridPlacement scans a fixed grid column by column and returns the first
// cell with no icon within half a step of it
type GridPlacement struct {
	OriginX, OriginY int
	Step             int
	Rows             int
}

// NewGridPlacement returns a grid starting at (50,50) with 100px cells, 6 rows per column
func NewGridPlacement() *GridPlacement {
	return &GridPlacement{OriginX: 50, OriginY: 50, Step: 100, Rows: 6}
}

func (g *GridPlacement) NextFreeSlot(existing []models.Point) models.Point {
	half := g.Step / 2
	occupied := func(p models.Point) bool {
		for _, e := range existing {
			if abs(e.X-p.X) < half && abs(e.Y-p.Y) < half {
				return true
			}
		}
		return false
	}

	// One cell per existing icon plus one is always enough to find a gap
	cells := len(existing) + 1
	for i := 0; i < cells; i++ {
		p := models.Point{
			X: g.OriginX + (i/g.Rows)*g.Step,
			Y: g.OriginY + (i%g.Rows)*g.Step,
		}
		if !occupied(p) {
			return p
		}
	}

	return models.Point{X: g.OriginX + (cells/g.Rows)*g.Step, Y: g.OriginY + (cells%g.Rows)*g.Step}
}

// RandomPlacement scatters icons uniformly over a rectangle, ignoring existing icons
type RandomPlacement struct {
	rng        *rand.Rand
	MinX, MaxX int
	MinY, MaxY int
}

// NewRandomPlacement uses rng for coordinates in x∈[50,400], y∈[50,300]
func NewRandomPlacement(rng *rand.Rand) *RandomPlacement {
	return &RandomPlacement{rng: rng, MinX: 50, MaxX: 400, MinY: 50, MaxY: 300}
}

func (r *RandomPlacement) NextFreeSlot(_ []models.Point) models.Point {
	return models.Point{
		X: r.MinX + r.rng.IntN(r.MaxX-r.MinX+1),
		Y: r.MinY + r.rng.IntN(r.MaxY-r.MinY+1),
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// positions extracts the coordinates of icons
func positions(icons []models.Icon) []models.Point {
	points := make([]models.Point, len(icons))
	for i := range icons {
		points[i] = icons[i].Position()
	}
	return points
}
