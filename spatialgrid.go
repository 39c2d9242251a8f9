package breach

import (
	"math"
	"sort"

	"github.com/akmonengine/breach/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// CellKey is the integer coordinate of a grid cell
type CellKey struct {
	X, Y, Z int
}

// Cell holds the indices of the boxes overlapping it
type Cell struct {
	bodyIndices []int
}

// Pair is a candidate pair of box indices, A < B
type Pair struct {
	A int
	B int
}

// SpatialGrid is a uniform hashed grid used as broad phase for one group of boxes.
// Its buffers are reused from one frame to the next.
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int

	aabbs  []actor.AABB
	seen   []int
	others []int
	pairs  []Pair
}

// NewSpatialGrid creates a grid of numCells hashed cells, rounded up to a power of two
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert registers a box index in every cell its AABB touches
func (sg *SpatialGrid) Insert(bodyIndex int, aabb actor.AABB) {
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := sg.hashCell(CellKey{x, y, z})
				sg.cells[cellIdx].bodyIndices = append(sg.cells[cellIdx].bodyIndices, bodyIndex)
			}
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].bodyIndices = sg.cells[i].bodyIndices[:0]
	}
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].bodyIndices) > 1 {
			sort.Ints(sg.cells[i].bodyIndices)
		}
	}
}

// Build clears the grid, inserts the boxes and returns the candidate pairs.
// The returned slice is owned by the grid and valid until the next call.
func (sg *SpatialGrid) Build(bodies []actor.Box) []Pair {
	sg.Clear()
	sg.aabbs = sg.aabbs[:0]
	for i, body := range bodies {
		aabb := body.ComputeAABB()
		sg.aabbs = append(sg.aabbs, aabb)
		sg.Insert(i, aabb)
	}
	sg.SortCells()

	return sg.FindPairs(sg.aabbs)
}

// FindPairs returns the pairs of overlapping AABBs sharing a cell, without
// duplicates, ordered by A then B: the order of an all-pairs scan.
func (sg *SpatialGrid) FindPairs(aabbs []actor.AABB) []Pair {
	sg.pairs = sg.pairs[:0]

	// seen[j] == i+1 marks j as already tested against i, no clearing needed
	if cap(sg.seen) < len(aabbs) {
		sg.seen = make([]int, len(aabbs))
	}
	sg.seen = sg.seen[:len(aabbs)]
	clear(sg.seen)

	for bodyIdx, aabbA := range aabbs {
		stamp := bodyIdx + 1
		sg.others = sg.others[:0]

		minCell := sg.worldToCell(aabbA.Min)
		maxCell := sg.worldToCell(aabbA.Max)
		for x := minCell.X; x <= maxCell.X; x++ {
			for y := minCell.Y; y <= maxCell.Y; y++ {
				for z := minCell.Z; z <= maxCell.Z; z++ {
					cellIdx := sg.hashCell(CellKey{x, y, z})

					for _, otherIdx := range sg.cells[cellIdx].bodyIndices {
						// Avoid duplicates (A,B) and (B,A)
						if otherIdx <= bodyIdx || otherIdx >= len(aabbs) || sg.seen[otherIdx] == stamp {
							continue
						}
						sg.seen[otherIdx] = stamp

						if aabbA.Overlaps(aabbs[otherIdx]) {
							sg.others = append(sg.others, otherIdx)
						}
					}
				}
			}
		}

		sort.Ints(sg.others)
		for _, otherIdx := range sg.others {
			sg.pairs = append(sg.pairs, Pair{A: bodyIdx, B: otherIdx})
		}
	}

	return sg.pairs
}

func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
