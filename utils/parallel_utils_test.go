package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Part sizes differ by at most one and cover every item
		sizes := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for p := 0; p < pm.NumParts; p++ {
				histo[pm.Size(p)]++
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, sizes(2, 32))
		assert.Equal(t, map[int]int{1: 32}, sizes(32, 32))
		assert.Equal(t, map[int]int{8: 32}, sizes(256, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, sizes(287, 32))
		for n := 64; n < 2000; n++ {
			pm := NewPartitionMap(32, n)
			var lo, hi, total int = n, 0, 0
			for p := 0; p < 32; p++ {
				s := pm.Size(p)
				lo, hi = min(lo, s), max(hi, s)
				total += s
			}
			assert.LessOrEqual(t, hi-lo, 1)
			assert.Equal(t, n, total)
			assert.Equal(t, n, pm.Ranges[31][1])
		}
	}
	{ // Contiguous ranges in part order
		pm := NewPartitionMap(3, 10)
		assert.Equal(t, [][2]int{{0, 4}, {4, 7}, {7, 10}}, pm.Ranges)
		lo, hi := pm.Range(1)
		assert.Equal(t, 4, lo)
		assert.Equal(t, 7, hi)
	}
	assert.Panics(t, func() { NewPartitionMap(0, 4) })
}
