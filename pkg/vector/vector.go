package vector

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/edp1096/blocklac/internal/check"
)

type Vector struct {
	val []float64
}

// New returns a zero vector of dimension n.
func New(n int) *Vector {
	return &Vector{val: make([]float64, n)}
}

// NewFrom copies values into a new vector.
func NewFrom(values []float64) *Vector {
	v := New(len(values))
	copy(v.val, values)
	return v
}

// Reinit changes the dimension to n. Memory is kept when it suffices and
// released when n is 0. Unless fast is set the vector is zeroed.
func (v *Vector) Reinit(n int, fast bool) {
	if n == 0 {
		v.val = nil
		return
	}
	if n > cap(v.val) {
		v.val = make([]float64, n)
		return
	}
	v.val = v.val[:n]
	if !fast {
		v.Clear()
	}
}

// ReinitLike resizes v to the dimension of other without copying its values.
func (v *Vector) ReinitLike(other *Vector, fast bool) { v.Reinit(other.Size(), fast) }

func (v *Vector) Size() int { return len(v.val) }

// Raw exposes the backing slice.
func (v *Vector) Raw() []float64 { return v.val }

// Clear zeroes all entries and keeps the dimension.
func (v *Vector) Clear() {
	for i := range v.val {
		v.val[i] = 0
	}
}

// Fill sets every entry to s.
func (v *Vector) Fill(s float64) {
	for i := range v.val {
		v.val[i] = s
	}
}

// CopyFrom resizes v to other and copies all entries.
func (v *Vector) CopyFrom(other *Vector) {
	v.Reinit(other.Size(), true)
	copy(v.val, other.val)
}

func (v *Vector) Clone() *Vector { return NewFrom(v.val) }

func (v *Vector) At(i int) float64 {
	v.checkIndex(i)
	return v.val[i]
}

func (v *Vector) SetAt(i int, value float64) {
	v.checkIndex(i)
	v.val[i] = value
}

func (v *Vector) AddAt(i int, value float64) {
	v.checkIndex(i)
	v.val[i] += value
}

// AllZero reports whether every entry is zero.
func (v *Vector) AllZero() bool {
	for _, x := range v.val {
		if x != 0 {
			return false
		}
	}
	return true
}

// Dot returns the scalar product with other.
func (v *Vector) Dot(other *Vector) float64 {
	v.checkSize(other)
	return floats.Dot(v.val, other.val)
}

// NormSqr returns the square of the l2 norm.
func (v *Vector) NormSqr() float64 { return floats.Dot(v.val, v.val) }

func (v *Vector) MeanValue() float64 {
	check.Assert(len(v.val) > 0, ErrEmptyVector, "mean value")
	return floats.Sum(v.val) / float64(len(v.val))
}

func (v *Vector) L1Norm() float64     { return floats.Norm(v.val, 1) }
func (v *Vector) L2Norm() float64     { return floats.Norm(v.val, 2) }
func (v *Vector) LinftyNorm() float64 { return floats.Norm(v.val, math.Inf(1)) }

// AddVector computes U += V.
func (v *Vector) AddVector(other *Vector) {
	v.checkSize(other)
	floats.Add(v.val, other.val)
}

// SubVector computes U -= V.
func (v *Vector) SubVector(other *Vector) {
	v.checkSize(other)
	floats.Sub(v.val, other.val)
}

// AddScalar adds s to every entry.
func (v *Vector) AddScalar(s float64) { floats.AddConst(s, v.val) }

// AddScaled computes U += a*V.
func (v *Vector) AddScaled(a float64, other *Vector) {
	v.checkSize(other)
	floats.AddScaled(v.val, a, other.val)
}

// AddScaled2 computes U += a*V + b*W.
func (v *Vector) AddScaled2(a float64, x *Vector, b float64, y *Vector) {
	v.AddScaled(a, x)
	v.AddScaled(b, y)
}

// Sadd computes U = s*U + V.
func (v *Vector) Sadd(s float64, other *Vector) {
	v.checkSize(other)
	floats.Scale(s, v.val)
	floats.Add(v.val, other.val)
}

// SaddScaled computes U = s*U + a*V.
func (v *Vector) SaddScaled(s, a float64, other *Vector) {
	v.checkSize(other)
	floats.Scale(s, v.val)
	floats.AddScaled(v.val, a, other.val)
}

// SaddScaled2 computes U = s*U + a*V + b*W.
func (v *Vector) SaddScaled2(s, a float64, x *Vector, b float64, y *Vector) {
	v.SaddScaled(s, a, x)
	v.AddScaled(b, y)
}

// SaddScaled3 computes U = s*U + a*V + b*W + c*X.
func (v *Vector) SaddScaled3(s, a float64, x *Vector, b float64, y *Vector, c float64, z *Vector) {
	v.SaddScaled2(s, a, x, b, y)
	v.AddScaled(c, z)
}

func (v *Vector) Scale(factor float64) { floats.Scale(factor, v.val) }

// Equ computes U = a*V.
func (v *Vector) Equ(a float64, other *Vector) {
	v.checkSize(other)
	floats.ScaleTo(v.val, a, other.val)
}

// Equ2 computes U = a*V + b*W.
func (v *Vector) Equ2(a float64, x *Vector, b float64, y *Vector) {
	v.Equ(a, x)
	v.AddScaled(b, y)
}

// Ratio sets U[i] = a[i] / b[i], resizing U to fit. Zero entries of b give
// undefined results.
func (v *Vector) Ratio(a, b *Vector) {
	a.checkSize(b)
	v.Reinit(a.Size(), true)
	floats.DivTo(v.val, a.val, b.val)
}

func (v *Vector) checkIndex(i int) {
	if i < 0 || i >= len(v.val) {
		check.Fail(ErrOutOfRange, "index %d, size %d", i, len(v.val))
	}
}

func (v *Vector) checkSize(other *Vector) {
	check.Assert(len(v.val) == len(other.val), ErrDimensionMismatch,
		"sizes %d and %d", len(v.val), len(other.val))
}
