package utils

import "fmt"

// PartitionMap divides NumItems consecutive items over NumParts parts. Part
// sizes differ by at most one, the first NumItems%NumParts parts carrying
// the extra item.
type PartitionMap struct {
	NumItems, NumParts int
	Ranges             [][2]int // [first, last+1) per part
}

func NewPartitionMap(numParts, numItems int) (pm *PartitionMap) {
	if numParts < 1 {
		panic(fmt.Sprintf("partition of %d items into %d parts", numItems, numParts))
	}
	pm = &PartitionMap{
		NumItems: numItems,
		NumParts: numParts,
		Ranges:   make([][2]int, numParts),
	}
	var (
		base  = numItems / numParts
		extra = numItems % numParts
		next  int
	)
	for p := range pm.Ranges {
		size := base
		if p < extra {
			size++
		}
		pm.Ranges[p] = [2]int{next, next + size}
		next += size
	}
	return
}

func (pm *PartitionMap) Range(part int) (lo, hi int) {
	return pm.Ranges[part][0], pm.Ranges[part][1]
}

func (pm *PartitionMap) Size(part int) int {
	return pm.Ranges[part][1] - pm.Ranges[part][0]
}
