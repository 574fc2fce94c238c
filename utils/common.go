package utils

const (
	// NODETOL is the relative distance below which two points coincide
	NODETOL = 1.e-12
)
