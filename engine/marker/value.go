package marker

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Kind is the closed set of value shapes a marker field can carry.
type Kind int

const (
	// KindScalar is a single number.
	KindScalar Kind = iota

	// KindVector is a fixed-length sequence of numbers, reshaped into the target field.
	KindVector

	// KindLabel is a text string, accepted only by the label field.
	KindLabel
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	case KindLabel:
		return "label"
	default:
		return "unknown"
	}
}

// Value is a tagged marker field value. Construct it with Scalar, Vector, Matrix or Label.
type Value struct {
	kind   Kind
	scalar float64
	vector []float64
	label  string
}

// Scalar returns a numeric value. Integer-typed fields truncate it.
//
// Parameters:
//   - v: the number
//
// Returns:
//   - Value: the scalar value
func Scalar(v float64) Value {
	return Value{kind: KindScalar, scalar: v}
}

// Vector returns a sequence value. The sequence is copied.
//
// Parameters:
//   - v: the numbers in row-major order
//
// Returns:
//   - Value: the vector value
func Vector(v ...float64) Value {
	return Value{kind: KindVector, vector: append([]float64(nil), v...)}
}

// Matrix returns a 9-element row-major vector value for the mat field.
//
// Parameters:
//   - m: the orientation matrix
//
// Returns:
//   - Value: the vector value
func Matrix(m mgl32.Mat3) Value {
	v := make([]float64, 0, 9)
	for r := range 3 {
		row := m.Row(r)
		v = append(v, float64(row[0]), float64(row[1]), float64(row[2]))
	}
	return Value{kind: KindVector, vector: v}
}

// Label returns a string value.
//
// Parameters:
//   - s: the label text
//
// Returns:
//   - Value: the label value
func Label(s string) Value {
	return Value{kind: KindLabel, label: s}
}

// Kind returns the value's tag.
func (v Value) Kind() Kind {
	return v.kind
}

// Float returns the scalar payload.
func (v Value) Float() float64 {
	return v.scalar
}

// Floats returns a copy of the vector payload.
func (v Value) Floats() []float64 {
	return append([]float64(nil), v.vector...)
}

// Text returns the label payload.
func (v Value) Text() string {
	return v.label
}
