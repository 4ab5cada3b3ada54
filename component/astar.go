package component

import (
	"math"

	"github.com/milk9111/reverie/common"
)

// GridCell addresses one cell of a NavGrid on the XZ plane.
type GridCell struct {
	X int
	Z int
}

const defaultMaxSearchNodes = 4096

// NavGrid is a walkable grid laid over the ground plane. Cell (0,0) starts
// at Origin and cells grow along +X and +Z.
type NavGrid struct {
	Origin   common.Vec3
	CellSize float64
	Width    int
	Depth    int
	MaxNodes int

	blocked []bool
}

func NewNavGrid(origin common.Vec3, cellSize float64, width, depth int) *NavGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	width = max(width, 0)
	depth = max(depth, 0)
	return &NavGrid{
		Origin:   origin,
		CellSize: cellSize,
		Width:    width,
		Depth:    depth,
		MaxNodes: defaultMaxSearchNodes,
		blocked:  make([]bool, width*depth),
	}
}

func (g *NavGrid) InBounds(c GridCell) bool {
	return g != nil && c.X >= 0 && c.Z >= 0 && c.X < g.Width && c.Z < g.Depth
}

func (g *NavGrid) SetBlocked(c GridCell, blocked bool) {
	if !g.InBounds(c) {
		return
	}
	g.blocked[c.Z*g.Width+c.X] = blocked
}

// Blocked reports true for blocked cells and anything outside the grid.
func (g *NavGrid) Blocked(c GridCell) bool {
	if !g.InBounds(c) {
		return true
	}
	return g.blocked[c.Z*g.Width+c.X]
}

// CellAt maps a world position to its cell. ok is false outside the grid.
func (g *NavGrid) CellAt(p common.Vec3) (GridCell, bool) {
	if g == nil {
		return GridCell{}, false
	}
	c := GridCell{
		X: int(math.Floor((p.X - g.Origin.X) / g.CellSize)),
		Z: int(math.Floor((p.Z - g.Origin.Z) / g.CellSize)),
	}
	return c, g.InBounds(c)
}

// ClampCell returns the in-bounds cell closest to p.
func (g *NavGrid) ClampCell(p common.Vec3) GridCell {
	c, _ := g.CellAt(p)
	c.X = max(0, min(c.X, g.Width-1))
	c.Z = max(0, min(c.Z, g.Depth-1))
	return c
}

// CellCenter returns the world center of c at the grid's height.
func (g *NavGrid) CellCenter(c GridCell) common.Vec3 {
	return common.V3(
		g.Origin.X+(float64(c.X)+0.5)*g.CellSize,
		g.Origin.Y,
		g.Origin.Z+(float64(c.Z)+0.5)*g.CellSize,
	)
}

// NearestWalkable finds the walkable cell center closest to p within
// maxRadius, searching outward ring by ring.
func (g *NavGrid) NearestWalkable(p common.Vec3, maxRadius float64) (common.Vec3, bool) {
	if g == nil || g.Width == 0 || g.Depth == 0 || maxRadius < 0 {
		return common.Vec3{}, false
	}
	center := g.ClampCell(p)
	rings := int(math.Ceil(maxRadius/g.CellSize)) + 1
	best := common.Vec3{}
	bestDist := math.Inf(1)
	for r := 0; r <= rings; r++ {
		for dz := -r; dz <= r; dz++ {
			for dx := -r; dx <= r; dx++ {
				if max(abs(dx), abs(dz)) != r {
					continue
				}
				c := GridCell{X: center.X + dx, Z: center.Z + dz}
				if g.Blocked(c) {
					continue
				}
				pos := g.CellCenter(c)
				d := pos.Horizontal().Dist(p.Horizontal())
				if d <= maxRadius && d < bestDist {
					best, bestDist = pos, d
				}
			}
		}
	}
	if math.IsInf(bestDist, 1) {
		return common.Vec3{}, false
	}
	return best, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// FindPath runs a 4-way A* search between two cells. It returns nil when
// the goal is blocked, unreachable, or the search exceeds MaxNodes.
func (g *NavGrid) FindPath(start, goal GridCell) []GridCell {
	if g == nil || g.Width <= 0 || g.Depth <= 0 {
		return nil
	}
	if !g.InBounds(start) || g.Blocked(goal) {
		return nil
	}
	if start == goal {
		return []GridCell{start}
	}
	maxNodes := g.MaxNodes
	if maxNodes <= 0 {
		maxNodes = defaultMaxSearchNodes
	}

	index := func(c GridCell) int { return c.Z*g.Width + c.X }
	startIdx := index(start)
	goalIdx := index(goal)

	open := []GridCell{start}
	inOpen := map[int]bool{startIdx: true}
	cameFrom := make(map[int]int, 128)
	gScore := map[int]float64{startIdx: 0}
	fScore := map[int]float64{startIdx: manhattan(start, goal)}

	for processed := 0; len(open) > 0 && processed < maxNodes; processed++ {
		bestIdx := 0
		bestScore := math.MaxFloat64
		for i, c := range open {
			if f := fScore[index(c)]; f < bestScore {
				bestScore = f
				bestIdx = i
			}
		}
		current := open[bestIdx]
		currentIdx := index(current)
		open = append(open[:bestIdx], open[bestIdx+1:]...)
		delete(inOpen, currentIdx)

		if currentIdx == goalIdx {
			return g.reconstruct(cameFrom, currentIdx, startIdx)
		}

		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			next := GridCell{X: current.X + d[0], Z: current.Z + d[1]}
			if g.Blocked(next) {
				continue
			}
			nextIdx := index(next)
			tentative := gScore[currentIdx] + 1
			if prev, seen := gScore[nextIdx]; seen && tentative >= prev {
				continue
			}
			cameFrom[nextIdx] = currentIdx
			gScore[nextIdx] = tentative
			fScore[nextIdx] = tentative + manhattan(next, goal)
			if !inOpen[nextIdx] {
				open = append(open, next)
				inOpen[nextIdx] = true
			}
		}
	}
	return nil
}

func (g *NavGrid) reconstruct(cameFrom map[int]int, currentIdx, startIdx int) []GridCell {
	path := make([]GridCell, 0, 32)
	for {
		path = append(path, GridCell{X: currentIdx % g.Width, Z: currentIdx / g.Width})
		if currentIdx == startIdx {
			break
		}
		prev, ok := cameFrom[currentIdx]
		if !ok {
			return nil
		}
		currentIdx = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func manhattan(a, b GridCell) float64 {
	return math.Abs(float64(a.X-b.X)) + math.Abs(float64(a.Z-b.Z))
}
