package orientation

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const tol = 1e-6

// angleGrid walks a coarse grid over the valid ranges of the three angles.
func angleGrid(fn func(alpha, beta, gamma float64)) {
	for alpha := 0.0; alpha < 360; alpha += 23 {
		for beta := -180.0; beta <= 180; beta += 29 {
			for gamma := -90.0; gamma <= 90; gamma += 17 {
				fn(alpha, beta, gamma)
			}
		}
	}
}

func TestMatrixAndQuaternionAgree(t *testing.T) {
	probes := []r3.Vector{{X: 1}, {Y: 1}, {Z: 1}, {X: 0.3, Y: -1.2, Z: 2.5}}

	angleGrid(func(alpha, beta, gamma float64) {
		m := RotationMatrix(alpha, beta, gamma)
		q := QuaternionFromAngles(alpha, beta, gamma)

		for _, v := range probes {
			a := m.Apply(v)
			b := q.Rotate(v)
			if a.Sub(b).Norm() > tol {
				t.Fatalf("alpha=%v beta=%v gamma=%v v=%v: matrix=%v quaternion=%v", alpha, beta, gamma, v, a, b)
			}
		}
	})
}

func TestQuaternionIsUnit(t *testing.T) {
	angleGrid(func(alpha, beta, gamma float64) {
		q := QuaternionFromAngles(alpha, beta, gamma)
		if math.Abs(q.Norm()-1) > tol {
			t.Fatalf("alpha=%v beta=%v gamma=%v: |q|=%v", alpha, beta, gamma, q.Norm())
		}
	})
}

func TestRotationMatrixIsOrthonormal(t *testing.T) {
	angleGrid(func(alpha, beta, gamma float64) {
		d := RotationMatrix(alpha, beta, gamma).Dense()

		var mmT mat.Dense
		mmT.Mul(d, d.T())
		if !mat.EqualApprox(&mmT, eye3(), tol) {
			t.Fatalf("alpha=%v beta=%v gamma=%v: M·Mᵀ = %v", alpha, beta, gamma, mat.Formatted(&mmT))
		}
		if det := mat.Det(d); math.Abs(det-1) > tol {
			t.Fatalf("alpha=%v beta=%v gamma=%v: det=%v", alpha, beta, gamma, det)
		}
	})
}

func eye3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}

func TestRotationMatrixElements(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		m := RotationMatrix(0, 0, 0)
		assert.InDeltaSlice(t, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, m[:], tol)
	})

	t.Run("alpha only rotates about Z", func(t *testing.T) {
		m := RotationMatrix(90, 0, 0)
		assert.InDeltaSlice(t, []float64{0, -1, 0, 1, 0, 0, 0, 0, 1}, m[:], tol)
	})

	t.Run("beta only rotates about X", func(t *testing.T) {
		m := RotationMatrix(0, 90, 0)
		assert.InDelta(t, 1.0, m.At(2, 1), tol)  // m32 = sX
		assert.InDelta(t, -1.0, m.At(1, 2), tol) // m23 = -cZcYsX
		assert.InDelta(t, 1.0, m.At(0, 0), tol)
	})

	t.Run("gamma only rotates about Y", func(t *testing.T) {
		m := RotationMatrix(0, 0, 90)
		assert.InDelta(t, 1.0, m.At(0, 2), tol)  // m13 = cZsY
		assert.InDelta(t, -1.0, m.At(2, 0), tol) // m31 = -cXsY
		assert.InDelta(t, 1.0, m.At(1, 1), tol)
	})
}

func TestQuaternionIdentity(t *testing.T) {
	q := QuaternionFromAngles(0, 0, 0)
	assert.Equal(t, Quaternion{W: 1}, q)
}

func TestCompassHeadingRange(t *testing.T) {
	angleGrid(func(alpha, beta, gamma float64) {
		h := CompassHeading(alpha, beta, gamma)
		if !HeadingDefined(h) {
			return
		}
		if h < 0 || h >= 360 {
			t.Fatalf("alpha=%v beta=%v gamma=%v: heading=%v out of [0,360)", alpha, beta, gamma, h)
		}
	})
}

func TestCompassHeadingUndefinedWhenFlat(t *testing.T) {
	for _, alpha := range []float64{0, 45, 180, 359} {
		h := CompassHeading(alpha, 0, 0)
		assert.False(t, HeadingDefined(h), "alpha=%v", alpha)
		assert.True(t, math.IsNaN(MirrorHeading(h)))
	}
}

func TestMirrorHeadingRecoversAlphaWhenUpright(t *testing.T) {
	// Screen facing the user: beta=90, gamma=0.
	for _, alpha := range []float64{0, 1, 30, 90, 180, 270, 359} {
		h := CompassHeading(alpha, 90, 0)
		require.True(t, HeadingDefined(h))
		assert.False(t, math.Signbit(h), "alpha=%v gave a negative zero heading", alpha)
		assert.InDelta(t, math.Mod(360-alpha, 360), h, tol, "raw heading for alpha=%v", alpha)
		assert.InDelta(t, alpha, MirrorHeading(h), tol, "mirrored heading for alpha=%v", alpha)
	}
}

func TestAnglesDefaultToZero(t *testing.T) {
	partial := Angles{Beta: Deg(90)}
	alpha, beta, gamma := partial.Degrees()
	assert.Equal(t, 0.0, alpha)
	assert.Equal(t, 90.0, beta)
	assert.Equal(t, 0.0, gamma)

	assert.Equal(t, RotationMatrix(0, 90, 0), RotationMatrixOf(partial))
	assert.Equal(t, QuaternionFromAngles(0, 90, 0), QuaternionOf(partial))
	assert.InDelta(t, CompassHeading(0, 90, 0), CompassHeadingOf(partial), tol)
}

func TestAnglesFromGravity(t *testing.T) {
	t.Run("flat face up", func(t *testing.T) {
		a := AnglesFromGravity(0, 0, 9.81)
		require.NotNil(t, a.Beta)
		require.NotNil(t, a.Gamma)
		assert.Nil(t, a.Alpha)
		assert.InDelta(t, 0, *a.Beta, tol)
		assert.InDelta(t, 0, *a.Gamma, tol)
	})

	t.Run("upright facing user", func(t *testing.T) {
		a := AnglesFromGravity(0, 9.81, 0)
		assert.InDelta(t, 90, *a.Beta, tol)
	})

	t.Run("zero vector", func(t *testing.T) {
		assert.Equal(t, Angles{}, AnglesFromGravity(0, 0, 0))
	})
}
