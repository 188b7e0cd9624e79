package domain

// Geographic coordinates of a route (X stored as DOUBLE PRECISION, Y as REAL).
type Coordinates struct {
	X float64
	Y float32
}
