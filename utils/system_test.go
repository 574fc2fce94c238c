package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestHasNaN(t *testing.T) {
	assert.False(t, HasNaN(1.))
	assert.True(t, HasNaN(math.NaN()))
	assert.True(t, HasNaN([]float64{0, math.NaN()}))
	assert.False(t, HasNaN([][]float64{{0}, {1, 2}}))
	d := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	assert.False(t, HasNaN(d))
	d.Set(1, 0, math.NaN())
	assert.True(t, HasNaN(d))
	assert.False(t, HasNaN("not numeric"))
}

func TestMemFields(t *testing.T) {
	f := MemFields()
	assert.Contains(t, f, "allocMiB")
	assert.Contains(t, f, "numGC")
}
