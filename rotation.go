/*
 * rotation.go, part of gomotion.
 *
 * Copyright 2025 The gomotion authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package motion

//Rotation algebra for sampled orientations. Everything here works on 3x3
//rotation matrices stored row-major as 9 float64, the layout used for the
//rows of a TransformationSequence orientation array. Matrices act on column
//vectors, i.e. v' = R*v.
//
//Euler angles follow the intrinsic XYZ convention, in radians:
//R = Rx(a)*Ry(b)*Rz(c).

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const appzero float64 = 0.000000000001 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

//OrthoTol is the default tolerance when checking that a rotation submatrix
//is orthonormal with determinant +1.
const OrthoTol = 1e-6

//rot9Det returns the determinant of the row-major 3x3 matrix r.
func rot9Det(r []float64) float64 {
	return r[0]*(r[4]*r[8]-r[7]*r[5]) -
		r[3]*(r[1]*r[8]-r[7]*r[2]) +
		r[6]*(r[1]*r[5]-r[4]*r[2])
}

//rot9IsOrtho reports whether r is orthonormal with determinant close to +1,
//within tol.
func rot9IsOrtho(r []float64, tol float64) bool {
	//R*Rt must be the identity.
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			dot := r[3*i]*r[3*j] + r[3*i+1]*r[3*j+1] + r[3*i+2]*r[3*j+2]
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(dot-want) > tol {
				return false
			}
		}
	}
	return math.Abs(rot9Det(r)-1) <= tol
}

//rot9Mul puts a*b in out. out must not alias a or b.
func rot9Mul(out, a, b []float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[3*i+j] = a[3*i]*b[j] + a[3*i+1]*b[3+j] + a[3*i+2]*b[6+j]
		}
	}
}

//rot9RelT puts at^T*b in out, the relative rotation taking orientation a to
//orientation b, expressed in the body frame of a. out must not alias a or b.
func rot9RelT(out, a, b []float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			//row i of a^T is column i of a
			out[3*i+j] = a[i]*b[j] + a[3+i]*b[3+j] + a[6+i]*b[6+j]
		}
	}
}

//rot9Log puts in v the rotation vector (axis scaled by angle, radians) whose
//exponential is r. The sign of the axis is undefined for rotations of exactly
//pi, as both choices are correct.
func rot9Log(r []float64, v *[3]float64) {
	tr := r[0] + r[4] + r[8]
	c := (tr - 1) / 2
	//floating point can push the cosine slightly out of range
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	theta := math.Acos(c)
	if theta <= appzero {
		//first order approximation, good to O(theta^3)
		v[0] = (r[7] - r[5]) / 2
		v[1] = (r[2] - r[6]) / 2
		v[2] = (r[3] - r[1]) / 2
		return
	}
	if math.Pi-theta < 1e-6 {
		//Near pi the skew part vanishes and the axis must be recovered
		//from the symmetric part, B=(R+I)/2, whose diagonal holds the
		//squared axis components.
		bxx := (r[0] + 1) / 2
		byy := (r[4] + 1) / 2
		bzz := (r[8] + 1) / 2
		var ax, ay, az float64
		switch {
		case bxx >= byy && bxx >= bzz:
			ax = math.Sqrt(bxx)
			ay = (r[1] + r[3]) / (4 * ax)
			az = (r[2] + r[6]) / (4 * ax)
		case byy >= bzz:
			ay = math.Sqrt(byy)
			ax = (r[1] + r[3]) / (4 * ay)
			az = (r[5] + r[7]) / (4 * ay)
		default:
			az = math.Sqrt(bzz)
			ax = (r[2] + r[6]) / (4 * az)
			ay = (r[5] + r[7]) / (4 * az)
		}
		//keep the sign consistent with the (tiny) remaining skew part
		if (r[7]-r[5])*ax+(r[2]-r[6])*ay+(r[3]-r[1])*az < 0 {
			ax, ay, az = -ax, -ay, -az
		}
		n := math.Sqrt(ax*ax + ay*ay + az*az)
		v[0] = theta * ax / n
		v[1] = theta * ay / n
		v[2] = theta * az / n
		return
	}
	s := theta / (2 * math.Sin(theta))
	v[0] = (r[7] - r[5]) * s
	v[1] = (r[2] - r[6]) * s
	v[2] = (r[3] - r[1]) * s
}

//rot9ToQuat puts in q the unit quaternion (w,x,y,z) equivalent to r, using
//Shepperd's method for numerical stability.
func rot9ToQuat(r []float64, q *[4]float64) {
	tr := r[0] + r[4] + r[8]
	switch {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		q[0] = s / 4
		q[1] = (r[7] - r[5]) / s
		q[2] = (r[2] - r[6]) / s
		q[3] = (r[3] - r[1]) / s
	case r[0] > r[4] && r[0] > r[8]:
		s := math.Sqrt(1+r[0]-r[4]-r[8]) * 2
		q[0] = (r[7] - r[5]) / s
		q[1] = s / 4
		q[2] = (r[1] + r[3]) / s
		q[3] = (r[2] + r[6]) / s
	case r[4] > r[8]:
		s := math.Sqrt(1+r[4]-r[0]-r[8]) * 2
		q[0] = (r[2] - r[6]) / s
		q[1] = (r[1] + r[3]) / s
		q[2] = s / 4
		q[3] = (r[5] + r[7]) / s
	default:
		s := math.Sqrt(1+r[8]-r[0]-r[4]) * 2
		q[0] = (r[3] - r[1]) / s
		q[1] = (r[2] + r[6]) / s
		q[2] = (r[5] + r[7]) / s
		q[3] = s / 4
	}
}

//quatToRot9 puts in r the rotation matrix equivalent to the quaternion
//(w,x,y,z) in q. q does not need to be normalized.
func quatToRot9(q []float64, r []float64) {
	w, x, y, z := q[0], q[1], q[2], q[3]
	n := w*w + x*x + y*y + z*z
	s := 0.0
	if n > appzero {
		s = 2 / n
	}
	wx, wy, wz := s*w*x, s*w*y, s*w*z
	xx, xy, xz := s*x*x, s*x*y, s*x*z
	yy, yz, zz := s*y*y, s*y*z, s*z*z
	r[0] = 1 - (yy + zz)
	r[1] = xy - wz
	r[2] = xz + wy
	r[3] = xy + wz
	r[4] = 1 - (xx + zz)
	r[5] = yz - wx
	r[6] = xz - wy
	r[7] = yz + wx
	r[8] = 1 - (xx + yy)
}

//eulerToRot9 puts in r the rotation matrix for the intrinsic XYZ Euler
//angles a, b, c (radians).
func eulerToRot9(a, b, c float64, r []float64) {
	sa, ca := math.Sincos(a)
	sb, cb := math.Sincos(b)
	sc, cc := math.Sincos(c)
	r[0] = cb * cc
	r[1] = -cb * sc
	r[2] = sb
	r[3] = ca*sc + sa*sb*cc
	r[4] = ca*cc - sa*sb*sc
	r[5] = -sa * cb
	r[6] = sa*sc - ca*sb*cc
	r[7] = sa*cc + ca*sb*sc
	r[8] = ca * cb
}

//rot9ToEuler recovers the intrinsic XYZ Euler angles from r. In the
//gimbal-locked configurations (second angle of +-pi/2) the third angle is
//set to zero, as the decomposition is no longer unique.
func rot9ToEuler(r []float64) (a, b, c float64) {
	sb := r[2]
	if sb > 1 {
		sb = 1
	} else if sb < -1 {
		sb = -1
	}
	b = math.Asin(sb)
	if math.Abs(sb) < 1-appzero {
		a = math.Atan2(-r[5], r[8])
		c = math.Atan2(-r[1], r[0])
		return a, b, c
	}
	//gimbal lock: only a+c (or a-c) is determined
	c = 0
	if sb > 0 {
		a = math.Atan2(r[3], r[4])
	} else {
		a = -math.Atan2(r[3], r[4])
	}
	return a, b, c
}

//RotationLog returns the rotation vector (logarithm) of the 3x3 rotation
//matrix r.
func RotationLog(r *mat.Dense) ([3]float64, error) {
	var v [3]float64
	raw, err := rawRot(r)
	if err != nil {
		return v, errDecorate(err, "RotationLog")
	}
	if !rot9IsOrtho(raw, OrthoTol) {
		return v, &ValidationError{Reason: "rotation matrix is not orthonormal"}
	}
	rot9Log(raw, &v)
	return v, nil
}

//RotationToQuaternion returns the unit quaternion (w,x,y,z) equivalent to the
//3x3 rotation matrix r.
func RotationToQuaternion(r *mat.Dense) ([4]float64, error) {
	var q [4]float64
	raw, err := rawRot(r)
	if err != nil {
		return q, errDecorate(err, "RotationToQuaternion")
	}
	rot9ToQuat(raw, &q)
	return q, nil
}

//QuaternionToRotation returns the 3x3 rotation matrix equivalent to the
//quaternion (w,x,y,z) q.
func QuaternionToRotation(q [4]float64) *mat.Dense {
	r := make([]float64, 9)
	quatToRot9(q[:], r)
	return mat.NewDense(3, 3, r)
}

//EulerToRotation returns the rotation matrix for the intrinsic XYZ Euler
//angles a, b, c, in radians.
func EulerToRotation(a, b, c float64) *mat.Dense {
	r := make([]float64, 9)
	eulerToRot9(a, b, c, r)
	return mat.NewDense(3, 3, r)
}

//RotationToEuler returns the intrinsic XYZ Euler angles, in radians, for the
//3x3 rotation matrix r.
func RotationToEuler(r *mat.Dense) (a, b, c float64, err error) {
	raw, err := rawRot(r)
	if err != nil {
		return 0, 0, 0, errDecorate(err, "RotationToEuler")
	}
	a, b, c = rot9ToEuler(raw)
	return a, b, c, nil
}

//QuatToRotationRow writes into r, a row-major 3x3 matrix of length 9, the
//rotation equivalent to the quaternion (w,x,y,z) q. It exists so container
//loaders can normalize storage forms row by row without allocating.
func QuatToRotationRow(q []float64, r []float64) {
	quatToRot9(q, r)
}

//EulerToRotationRow writes into r, a row-major 3x3 matrix of length 9, the
//rotation for the intrinsic XYZ Euler angles a, b, c (radians).
func EulerToRotationRow(a, b, c float64, r []float64) {
	eulerToRot9(a, b, c, r)
}

//rawRot returns the backing slice of a 3x3 matrix, or a ValidationError if
//the shape is wrong.
func rawRot(r *mat.Dense) ([]float64, error) {
	rr, rc := r.Dims()
	if rr != 3 || rc != 3 {
		return nil, &ValidationError{Reason: "rotation matrices must be 3x3"}
	}
	raw := r.RawMatrix()
	if raw.Stride == 3 {
		return raw.Data, nil
	}
	out := make([]float64, 9)
	for i := 0; i < 3; i++ {
		copy(out[3*i:3*i+3], raw.Data[i*raw.Stride:i*raw.Stride+3])
	}
	return out, nil
}
