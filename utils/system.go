package utils

import (
	"math"
	"runtime"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// MemFields returns heap statistics in MiB, for structured logging
func MemFields() logrus.Fields {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return logrus.Fields{
		"allocMiB":      bToMb(m.Alloc),
		"totalAllocMiB": bToMb(m.TotalAlloc),
		"sysMiB":        bToMb(m.Sys),
		"numGC":         m.NumGC,
	}
}

func HasNaN(A any) bool {
	switch v := A.(type) {
	case float64:
		return math.IsNaN(v)
	case []float64:
		for _, f := range v {
			if math.IsNaN(f) {
				return true
			}
		}
	case [][]float64:
		for _, row := range v {
			if HasNaN(row) {
				return true
			}
		}
	case mat.Matrix:
		r, c := v.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				if math.IsNaN(v.At(i, j)) {
					return true
				}
			}
		}
	}
	return false
}
