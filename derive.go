/*
 * derive.go, part of gomotion.
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
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// DerivativeKind enumerates the kinematic derivatives the engine knows how to
// store and compute.
type DerivativeKind int

const (
	TranslationalVelocity DerivativeKind = iota
	TranslationalAcceleration
	AngularVelocity
	AngularAcceleration
	nDerivativeKinds //keep last
)

var derivativeNames = [nDerivativeKinds]string{
	"translational_velocity",
	"translational_acceleration",
	"angular_velocity",
	"angular_acceleration",
}

// String returns the canonical field name of the derivative kind.
func (k DerivativeKind) String() string {
	if k < 0 || k >= nDerivativeKinds {
		return "unknown"
	}
	return derivativeNames[k]
}

// derivativeAliases maps every accepted field name, canonical or legacy, to
// its kind. This table is the only place where alias resolution happens.
var derivativeAliases = map[string]DerivativeKind{
	"translational_velocity":     TranslationalVelocity,
	"velocity":                   TranslationalVelocity,
	"translational_acceleration": TranslationalAcceleration,
	"acceleration":               TranslationalAcceleration,
	"angular_velocity":           AngularVelocity,
	"rotational_velocity":        AngularVelocity,
	"angular_acceleration":       AngularAcceleration,
	"rotational_acceleration":    AngularAcceleration,
}

// KindFromName resolves a canonical or legacy derivative field name to its
// kind. ok is false for unrecognized names.
func KindFromName(name string) (k DerivativeKind, ok bool) {
	k, ok = derivativeAliases[name]
	return k, ok
}

// DerivativeSet maps derivative kinds to their arrays. Known kinds occupy
// fixed slots; unrecognized field names read from a container are retained
// verbatim, in order, but never interpreted. Lookups through Lookup resolve
// legacy aliases to the canonical slots, always returning the same array,
// never a copy.
type DerivativeSet struct {
	known [nDerivativeKinds]*mat.Dense
	extra map[string]*mat.Dense
	order []string //extra keys, in insertion order
}

// NewDerivativeSet returns an empty set.
func NewDerivativeSet() *DerivativeSet {
	return &DerivativeSet{extra: make(map[string]*mat.Dense)}
}

// Get returns the array for kind, or nil if absent.
func (d *DerivativeSet) Get(kind DerivativeKind) *mat.Dense {
	if kind < 0 || kind >= nDerivativeKinds {
		return nil
	}
	return d.known[kind]
}

// Has reports whether an array for kind is present.
func (d *DerivativeSet) Has(kind DerivativeKind) bool { return d.Get(kind) != nil }

// Set stores the array for kind, replacing any previous one.
func (d *DerivativeSet) Set(kind DerivativeKind, a *mat.Dense) {
	if kind < 0 || kind >= nDerivativeKinds {
		return
	}
	d.known[kind] = a
}

// SetNamed stores an array under a field name. Canonical and legacy names go
// to their canonical slot; anything else is retained as a pass-through entry.
func (d *DerivativeSet) SetNamed(name string, a *mat.Dense) {
	if kind, ok := derivativeAliases[name]; ok {
		d.known[kind] = a
		return
	}
	if _, ok := d.extra[name]; !ok {
		d.order = append(d.order, name)
	}
	d.extra[name] = a
}

// Lookup returns the array stored under a field name, resolving aliases and
// falling back to the pass-through entries. ok is false if nothing is stored
// under the name.
func (d *DerivativeSet) Lookup(name string) (a *mat.Dense, ok bool) {
	if kind, known := derivativeAliases[name]; known {
		a = d.known[kind]
		return a, a != nil
	}
	a, ok = d.extra[name]
	return a, ok
}

// ExtraNames returns the unrecognized pass-through field names, in the order
// they were stored.
func (d *DerivativeSet) ExtraNames() []string { return d.order }

// Empty reports whether the set holds no arrays at all.
func (d *DerivativeSet) Empty() bool {
	for _, a := range d.known {
		if a != nil {
			return false
		}
	}
	return len(d.extra) == 0
}

// Derive returns the requested derivative of the sequence. If preferStored is
// true and the container carried the field (under its canonical name or an
// alias), the stored array is returned unchanged, preserving parity with any
// upstream filtering. Otherwise it is computed from the poses and cached with
// the sequence, so repeated calls do not recompute. Sequences shorter than 2
// samples yield a zero-filled array of the full length rather than an error,
// keeping shapes aligned for downstream consumers. Safe for concurrent use on
// one sequence.
func Derive(s *TransformationSequence, kind DerivativeKind, preferStored bool) (*mat.Dense, error) {
	if kind < 0 || kind >= nDerivativeKinds {
		return nil, &UnsupportedDerivativeError{Name: strconv.Itoa(int(kind))}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.derive(kind, preferStored), nil
}

// derive resolves one in-range kind against the stored set, the compute cache
// and finally the poses. The caller must hold s.mu; second derivatives recurse
// here, not through Derive, so the lock is taken exactly once.
func (s *TransformationSequence) derive(kind DerivativeKind, preferStored bool) *mat.Dense {
	if preferStored {
		if a := s.stored.Get(kind); a != nil {
			return a
		}
	}
	if a := s.computed.Get(kind); a != nil {
		return a
	}
	var a *mat.Dense
	switch kind {
	case TranslationalVelocity:
		a = finiteDifference(s.trans, s.rate)
	case TranslationalAcceleration:
		a = finiteDifference(s.derive(TranslationalVelocity, preferStored), s.rate)
	case AngularVelocity:
		a = angularVelocity(s)
	case AngularAcceleration:
		a = finiteDifference(s.derive(AngularVelocity, preferStored), s.rate)
	}
	s.computed.Set(kind, a)
	return a
}

// DeriveNamed is Derive with the kind given as a canonical or legacy field
// name. Unrecognized names return an UnsupportedDerivativeError.
func DeriveNamed(s *TransformationSequence, name string, preferStored bool) (*mat.Dense, error) {
	kind, ok := KindFromName(name)
	if !ok {
		return nil, &UnsupportedDerivativeError{Name: name}
	}
	return Derive(s, kind, preferStored)
}

// finiteDifference differentiates each column of src over time. Interior
// samples use the second-order central stencil (x[i+1]-x[i-1])*rate/2; the
// first and last samples use the second-order one-sided stencils
// (-3x[0]+4x[1]-x[2])*rate/2 and its mirror, so accuracy is uniform along the
// whole sequence. The output keeps the input length. Two rows leave only the
// plain difference; fewer than 2 rows yield all zeros.
func finiteDifference(src *mat.Dense, rate float64) *mat.Dense {
	n, c := src.Dims()
	out := mat.NewDense(n, c, nil)
	if n < 2 {
		return out
	}
	if n == 2 {
		for j := 0; j < c; j++ {
			d := (src.At(1, j) - src.At(0, j)) * rate
			out.Set(0, j, d)
			out.Set(1, j, d)
		}
		return out
	}
	for j := 0; j < c; j++ {
		out.Set(0, j, (-3*src.At(0, j)+4*src.At(1, j)-src.At(2, j))*rate/2)
		out.Set(n-1, j, (3*src.At(n-1, j)-4*src.At(n-2, j)+src.At(n-3, j))*rate/2)
	}
	for i := 1; i < n-1; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, (src.At(i+1, j)-src.At(i-1, j))*rate/2)
		}
	}
	return out
}

// angularVelocity computes the body-frame angular velocity of the sequence:
// for each sample the logarithm of the relative rotation to the next
// orientation, R[i]^T*R[i+1], scaled by the sample rate. The last sample
// reuses the single-sided relative rotation from its predecessor; rotations
// are never averaged across a centered window since their composition does
// not commute.
func angularVelocity(s *TransformationSequence) *mat.Dense {
	n := s.Len()
	out := mat.NewDense(n, 3, nil)
	if n < 2 {
		return out
	}
	rel := make([]float64, 9)
	var v [3]float64
	for i := 0; i < n-1; i++ {
		rot9RelT(rel, s.rot.RawRowView(i), s.rot.RawRowView(i+1))
		rot9Log(rel, &v)
		out.Set(i, 0, v[0]*s.rate)
		out.Set(i, 1, v[1]*s.rate)
		out.Set(i, 2, v[2]*s.rate)
	}
	rot9RelT(rel, s.rot.RawRowView(n-2), s.rot.RawRowView(n-1))
	rot9Log(rel, &v)
	out.Set(n-1, 0, v[0]*s.rate)
	out.Set(n-1, 1, v[1]*s.rate)
	out.Set(n-1, 2, v[2]*s.rate)
	return out
}

// Norms returns the per-sample Euclidean norm of a vector-valued array, one
// value per row.
func Norms(a *mat.Dense) []float64 {
	n, c := a.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var acc float64
		for j := 0; j < c; j++ {
			v := a.At(i, j)
			acc += v * v
		}
		out[i] = math.Sqrt(acc)
	}
	return out
}
