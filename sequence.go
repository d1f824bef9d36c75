/*
 * sequence.go, part of gomotion.
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

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// TransformationSequence is one named trajectory: an ordered sequence of N
// rigid-body poses sampled at a fixed rate. Orientations are kept as an Nx9
// array of row-major rotation matrices and positions as an Nx3 array of
// translations; both are read-only views once the sequence is built, they are
// never mutated in place. Derivatives loaded from a container live in a
// DerivativeSet; quantities computed on demand are cached in a separate set so
// stored (possibly upstream-filtered) data is never clobbered.
type TransformationSequence struct {
	name     string
	rate     float64 //Hz
	unit     string  //length unit of the translations, e.g. "mm"
	rot      *mat.Dense
	trans    *mat.Dense
	mu       sync.Mutex //guards matrices and computed, the only post-load writes
	matrices *mat.Dense //Nx16 flattened 4x4 poses, materialized lazily
	stored   *DerivativeSet
	computed *DerivativeSet
}

// NewSequence builds a TransformationSequence from an Nx9 array of row-major
// rotation matrices and an Nx3 array of translations. The arrays are adopted,
// not copied; the caller must not modify them afterwards. It returns a
// SchemaError for a non-positive rate or empty unit, and a ValidationError
// for mismatched shapes or a rotation submatrix that is not orthonormal
// within OrthoTol.
func NewSequence(name string, rate float64, unit string, rot, trans *mat.Dense) (*TransformationSequence, error) {
	if rate <= 0 {
		return nil, &SchemaError{Group: name, Field: "sample_rate", Reason: fmt.Sprintf("must be positive, got %v", rate)}
	}
	if unit == "" {
		return nil, &SchemaError{Group: name, Field: "unit", Reason: "missing"}
	}
	if rot == nil || trans == nil {
		return nil, &ValidationError{Group: name, Reason: "nil pose data"}
	}
	rr, rc := rot.Dims()
	tr, tc := trans.Dims()
	if rc != 9 || tc != 3 {
		return nil, &ValidationError{Group: name, Reason: fmt.Sprintf("pose arrays must be Nx9 and Nx3, got Nx%d and Nx%d", rc, tc)}
	}
	if rr != tr || rr < 1 {
		return nil, &ValidationError{Group: name, Reason: fmt.Sprintf("inconsistent or empty pose arrays (%d rotations, %d translations)", rr, tr)}
	}
	for i := 0; i < rr; i++ {
		if !rot9IsOrtho(rot.RawRowView(i), OrthoTol) {
			return nil, &ValidationError{Group: name, Reason: fmt.Sprintf("rotation at sample %d is not orthonormal", i)}
		}
	}
	return &TransformationSequence{
		name:     name,
		rate:     rate,
		unit:     unit,
		rot:      rot,
		trans:    trans,
		stored:   NewDerivativeSet(),
		computed: NewDerivativeSet(),
	}, nil
}

// Name returns the group name of the sequence.
func (s *TransformationSequence) Name() string { return s.name }

// SampleRate returns the sampling rate in Hz.
func (s *TransformationSequence) SampleRate() float64 { return s.rate }

// Unit returns the length unit of the translations.
func (s *TransformationSequence) Unit() string { return s.unit }

// Len returns the number of poses in the sequence.
func (s *TransformationSequence) Len() int {
	r, _ := s.trans.Dims()
	return r
}

// Duration returns the time spanned by the sequence, in seconds.
func (s *TransformationSequence) Duration() float64 {
	return float64(s.Len()) / s.rate
}

// Translations returns the Nx3 translation array. It is a view of the
// sequence's own storage, not a copy, and must be treated as read-only.
func (s *TransformationSequence) Translations() *mat.Dense { return s.trans }

// Rotations returns the Nx9 array of row-major rotation matrices. It is a
// view, not a copy, and must be treated as read-only.
func (s *TransformationSequence) Rotations() *mat.Dense { return s.rot }

// Translation returns the translation of sample i as a slice sharing the
// sequence's storage.
func (s *TransformationSequence) Translation(i int) []float64 {
	return s.trans.RawRowView(i)
}

// Rotation returns the 3x3 rotation matrix of sample i, sharing the
// sequence's storage.
func (s *TransformationSequence) Rotation(i int) *mat.Dense {
	return mat.NewDense(3, 3, s.rot.RawRowView(i))
}

// Matrix returns the full 4x4 rigid transformation of sample i as a fresh
// matrix.
func (s *TransformationSequence) Matrix(i int) *mat.Dense {
	m := mat.NewDense(4, 4, nil)
	r := s.rot.RawRowView(i)
	t := s.trans.RawRowView(i)
	for j := 0; j < 3; j++ {
		m.Set(j, 0, r[3*j])
		m.Set(j, 1, r[3*j+1])
		m.Set(j, 2, r[3*j+2])
		m.Set(j, 3, t[j])
	}
	m.Set(3, 3, 1)
	return m
}

// Matrices returns the Nx16 array of flattened (row-major) 4x4 pose matrices.
// The array is materialized on first call and cached; repeated calls return
// the same view. Safe for concurrent use.
func (s *TransformationSequence) Matrices() *mat.Dense {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.matrices != nil {
		return s.matrices
	}
	n := s.Len()
	m := mat.NewDense(n, 16, nil)
	for i := 0; i < n; i++ {
		row := m.RawRowView(i)
		r := s.rot.RawRowView(i)
		t := s.trans.RawRowView(i)
		for j := 0; j < 3; j++ {
			copy(row[4*j:4*j+3], r[3*j:3*j+3])
			row[4*j+3] = t[j]
		}
		row[15] = 1
	}
	s.matrices = m
	return m
}

// Quaternions returns the orientations as an Nx4 array of unit quaternions
// (w,x,y,z). The array is computed from the rotation matrices on every call.
func (s *TransformationSequence) Quaternions() *mat.Dense {
	n := s.Len()
	out := mat.NewDense(n, 4, nil)
	var q [4]float64
	for i := 0; i < n; i++ {
		rot9ToQuat(s.rot.RawRowView(i), &q)
		out.SetRow(i, q[:])
	}
	return out
}

// EulerAngles returns the orientations as an Nx3 array of intrinsic XYZ Euler
// angles, in radians. Computed from the rotation matrices on every call.
func (s *TransformationSequence) EulerAngles() *mat.Dense {
	n := s.Len()
	out := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		a, b, c := rot9ToEuler(s.rot.RawRowView(i))
		out.Set(i, 0, a)
		out.Set(i, 1, b)
		out.Set(i, 2, c)
	}
	return out
}

// Derivatives returns the derivative arrays loaded with the sequence from its
// container. The set is always present; it is empty if the container carried
// none.
func (s *TransformationSequence) Derivatives() *DerivativeSet { return s.stored }

// TranslationRange returns the per-axis minimum and maximum of the
// translations, in the sequence's unit.
func (s *TransformationSequence) TranslationRange() (min, max [3]float64) {
	n := s.Len()
	for j := 0; j < 3; j++ {
		min[j] = s.trans.At(0, j)
		max[j] = min[j]
	}
	for i := 1; i < n; i++ {
		for j := 0; j < 3; j++ {
			v := s.trans.At(i, j)
			if v < min[j] {
				min[j] = v
			}
			if v > max[j] {
				max[j] = v
			}
		}
	}
	return min, max
}
