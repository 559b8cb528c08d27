package codec

import (
	"github.com/vancomm/minesweeper-codec/internal/mines"
)

// regionTracker answers, while cells are visited in row-major order, whether
// a cell lies in an open region: a zero cell whose connected zero area has
// been entered by an opened cell, or a cell bordering such an area. Opening
// any cell of a zero area would have opened all of those cells in play.
//
// Zero areas are precomputed with a union-find over the known mine field,
// so membership only changes when a visited cell activates an area.
type regionTracker struct {
	field   *mines.MineField
	parent  []int32
	members map[int32][]int
	marked  []bool
	next    int // first unvisited cell
	ahead   int // marked cells at or after next
}

func newRegionTracker(field *mines.MineField) *regionTracker {
	n := field.Len()
	t := &regionTracker{
		field:   field,
		parent:  make([]int32, n),
		members: make(map[int32][]int),
		marked:  make([]bool, n),
	}
	for i := range t.parent {
		t.parent[i] = int32(i)
	}
	for i := range n {
		if !field.IsZero(i) {
			continue
		}
		for _, j := range field.Neighbours(i) {
			if j > i && field.IsZero(j) {
				t.union(i, j)
			}
		}
	}
	for i := range n {
		if field.IsZero(i) {
			root := t.find(i)
			t.members[root] = append(t.members[root], i)
		}
	}
	return t
}

func (t *regionTracker) find(i int) int32 {
	root := int32(i)
	for t.parent[root] != root {
		root = t.parent[root]
	}
	for j := int32(i); j != root; {
		p := t.parent[j]
		t.parent[j] = root
		j = p
	}
	return root
}

func (t *regionTracker) union(i, j int) {
	ri, rj := t.find(i), t.find(j)
	if ri == rj {
		return
	}
	if ri < rj {
		t.parent[rj] = ri
	} else {
		t.parent[ri] = rj
	}
}

// inRegion reports whether cell i belongs to an open region given the
// cells visited so far.
func (t *regionTracker) inRegion(i int) bool {
	return t.marked[i]
}

// regionAhead is the number of unvisited cells already known to lie in an
// open region.
func (t *regionTracker) regionAhead() int {
	return t.ahead
}

func (t *regionTracker) mark(j int) {
	if t.marked[j] {
		return
	}
	t.marked[j] = true
	if j >= t.next {
		t.ahead++
	}
}

// visit records the state of the next cell in scan order.
func (t *regionTracker) visit(i int, s mines.OpenState) {
	if t.marked[i] {
		t.ahead--
	}
	t.next = i + 1
	if s != mines.Opened || !t.field.IsZero(i) {
		return
	}
	root := t.find(i)
	area, ok := t.members[root]
	if !ok {
		return // already active
	}
	delete(t.members, root)
	for _, j := range area {
		t.mark(j)
		for _, k := range t.field.Neighbours(j) {
			t.mark(k)
		}
	}
}
