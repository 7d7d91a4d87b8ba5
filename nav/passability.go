package nav

// FootprintGrid precomputes, for a fixed footprint size, every header
// position a unit or building of that footprint may legally occupy — used
// both for building placement validation (spec.md §4.6's Placement phase)
// and as the WallChecker a flow field computes against for non-1x1 units.
type FootprintGrid struct {
	Width, Height          int
	FootprintW, FootprintH int
	Valid                  []bool
}

// NewFootprintGrid creates a passability grid for a mapW x mapH map and a
// footW x footH footprint, addressed by the footprint's top-left corner.
func NewFootprintGrid(mapW, mapH, footW, footH int) *FootprintGrid {
	return &FootprintGrid{
		Width: mapW, Height: mapH,
		FootprintW: footW, FootprintH: footH,
		Valid: make([]bool, mapW*mapH),
	}
}

func (p *FootprintGrid) Resize(width, height int) {
	size := width * height
	if cap(p.Valid) < size {
		p.Valid = make([]bool, size)
	} else {
		p.Valid = p.Valid[:size]
		for i := range p.Valid {
			p.Valid[i] = false
		}
	}
	p.Width, p.Height = width, height
}

// Compute rebuilds the full passability grid from isWall.
func (p *FootprintGrid) Compute(isWall WallChecker) {
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			p.Valid[y*p.Width+x] = p.canOccupy(x, y, isWall)
		}
	}
}

// ComputeROI rebuilds only the header positions within [minX,maxX] x
// [minY,maxY], clamped to the grid — used when a single building is
// placed or removed instead of paying for a full-map recompute.
func (p *FootprintGrid) ComputeROI(isWall WallChecker, minX, minY, maxX, maxY int) {
	minX, minY = clampInt(minX, 0, p.Width-1), clampInt(minY, 0, p.Height-1)
	maxX, maxY = clampInt(maxX, 0, p.Width-1), clampInt(maxY, 0, p.Height-1)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p.Valid[y*p.Width+x] = p.canOccupy(x, y, isWall)
		}
	}
}

func (p *FootprintGrid) canOccupy(topLeftX, topLeftY int, isWall WallChecker) bool {
	if topLeftX < 0 || topLeftY < 0 ||
		topLeftX+p.FootprintW > p.Width || topLeftY+p.FootprintH > p.Height {
		return false
	}
	for dy := 0; dy < p.FootprintH; dy++ {
		for dx := 0; dx < p.FootprintW; dx++ {
			if isWall(topLeftX+dx, topLeftY+dy) {
				return false
			}
		}
	}
	return true
}

// IsBlocked adapts IsValid to the WallChecker shape so a FootprintGrid can
// itself be the blocked-cell source for a FlowField over non-1x1 units.
func (p *FootprintGrid) IsBlocked(x, y int) bool { return !p.IsValid(x, y) }

func (p *FootprintGrid) IsValid(x, y int) bool {
	if x < 0 || y < 0 || x >= p.Width || y >= p.Height {
		return false
	}
	return p.Valid[y*p.Width+x]
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
