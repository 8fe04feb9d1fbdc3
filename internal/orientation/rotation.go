// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// Matrix is a 3x3 rotation matrix in row-major order.
type Matrix [9]float64

// RotationMatrix builds the ZXY rotation (alpha, then beta, then gamma).
// No renormalization is performed.
func RotationMatrix(alpha, beta, gamma float64) Matrix {
	t := newTrig(alpha, beta, gamma, 1)

	return Matrix{
		t.cZ*t.cY - t.sZ*t.sX*t.sY, -t.cX * t.sZ, t.cY*t.sZ*t.sX + t.cZ*t.sY,
		t.cY*t.sZ + t.cZ*t.sX*t.sY, t.cZ * t.cX, t.sZ*t.sY - t.cZ*t.cY*t.sX,
		-t.cX * t.sY, t.sX, t.cX * t.cY,
	}
}

// RotationMatrixOf is RotationMatrix for a possibly incomplete reading.
func RotationMatrixOf(a Angles) Matrix {
	return RotationMatrix(a.Degrees())
}

// At returns the element at row i, column j (0-based).
func (m Matrix) At(i, j int) float64 {
	return m[i*3+j]
}

// Dense copies the matrix into a gonum dense matrix.
func (m Matrix) Dense() *mat.Dense {
	data := make([]float64, len(m))
	copy(data, m[:])
	return mat.NewDense(3, 3, data)
}

// Apply rotates v by the matrix.
func (m Matrix) Apply(v r3.Vector) r3.Vector {
	var out mat.VecDense
	out.MulVec(m.Dense(), mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
	return r3.Vector{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

// Quaternion is a unit quaternion (up to floating error).
type Quaternion struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// QuaternionFromAngles builds the ZXY quaternion matching RotationMatrix for
// the same inputs.
func QuaternionFromAngles(alpha, beta, gamma float64) Quaternion {
	t := newTrig(alpha, beta, gamma, 0.5)

	return Quaternion{
		W: t.cX*t.cY*t.cZ - t.sX*t.sY*t.sZ,
		X: t.sX*t.cY*t.cZ - t.cX*t.sY*t.sZ,
		Y: t.cX*t.sY*t.cZ + t.sX*t.cY*t.sZ,
		Z: t.cX*t.cY*t.sZ + t.sX*t.sY*t.cZ,
	}
}

// QuaternionOf is QuaternionFromAngles for a possibly incomplete reading.
func QuaternionOf(a Angles) Quaternion {
	return QuaternionFromAngles(a.Degrees())
}

// Number converts q to a gonum quaternion.
func (q Quaternion) Number() quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

// Rotate rotates v by q (q·v·q*).
func (q Quaternion) Rotate(v r3.Vector) r3.Vector {
	n := q.Number()
	p := quat.Mul(quat.Mul(n, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(n))
	return r3.Vector{X: p.Imag, Y: p.Jmag, Z: p.Kmag}
}

// Norm returns |q|.
func (q Quaternion) Norm() float64 {
	return quat.Abs(q.Number())
}
