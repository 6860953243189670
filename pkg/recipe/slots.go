package recipe

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"
)

// GridSize is the width and height of the crafting grid.
const GridSize = 3

// GridSlot returns the 1-based row-major grid slot for a 0-based cell.
func GridSlot(row, col int) int {
	return row*GridSize + col + 1
}

// PhysicalSlot maps a grid slot (1..9) to the physical inventory slot,
// skipping reserved slots 4 and 8.
func PhysicalSlot(grid int) int {
	slot := grid
	if slot > 3 {
		slot++
	}
	if slot > 7 {
		slot++
	}
	return slot
}

// PhysicalSlots lists every physical slot reachable from the grid.
var PhysicalSlots = []int{1, 2, 3, 5, 6, 7, 9, 10, 11}

// Placement maps physical slots to the ordered candidates accepted there.
type Placement map[int][]string

// Slots returns the occupied slots in ascending order.
func (p Placement) Slots() []int {
	slots := make([]int, 0, len(p))
	for s := range p {
		slots = append(slots, s)
	}
	slices.Sort(slots)
	return slots
}

// MarshalJSON encodes the placement as an object with slot keys in
// numeric order.
func (p Placement) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range p.Slots() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(s)))
		buf.WriteByte(':')
		vals, err := json.Marshal(p[s])
		if err != nil {
			return nil, err
		}
		buf.Write(vals)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
