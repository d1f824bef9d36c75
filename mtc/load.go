/*
 * load.go, part of gomotion.
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

package mtc

import (
	"fmt"
	"math"
	"strconv"

	motion "github.com/mocaplab/gomotion"
	"gonum.org/v1/gonum/mat"
)

//homogeneousTol is how far the bottom row of a stored 4x4 pose may stray
//from (0,0,0,1) before the dataset is considered malformed.
const homogeneousTol = 1e-6

// LoadTransformations opens a container and assembles the requested groups
// into TransformationSequences. A nil groupNames loads every group in
// container order; otherwise groups are loaded in the requested order and a
// name with no group behind it is a motion.NotFoundError. The returned slice
// carries the load order, since Go maps do not. With asMatrices the full 4x4
// pose matrices are materialized on each sequence at load time.
func LoadTransformations(name string, groupNames []string, asMatrices bool) (map[string]*motion.TransformationSequence, []string, error) {
	F, err := Open(name)
	if err != nil {
		return nil, nil, errDecorate(err, "LoadTransformations")
	}
	defer F.Close()
	if groupNames == nil {
		groupNames = F.GroupNames()
	}
	out := make(map[string]*motion.TransformationSequence, len(groupNames))
	order := make([]string, 0, len(groupNames))
	for _, gname := range groupNames {
		s, err := F.LoadGroup(gname, asMatrices)
		if err != nil {
			return nil, nil, errDecorate(err, "LoadTransformations")
		}
		out[gname] = s
		order = append(order, gname)
	}
	return out, order, nil
}

// LoadGroup assembles one group into a TransformationSequence: it validates
// the required attributes, normalizes the poses from their native storage
// form to rotation matrices plus translations, and eagerly loads any stored
// derivative datasets into the sequence's DerivativeSet (which is present,
// possibly empty, either way).
func (F *File) LoadGroup(name string, asMatrices bool) (*motion.TransformationSequence, error) {
	g, ok := F.byName[name]
	if !ok {
		return nil, &motion.NotFoundError{Name: name}
	}
	rate, unit, err := requiredAttrs(g)
	if err != nil {
		return nil, errDecorate(err, "LoadGroup")
	}
	data, err := F.readDataset(g.name, &g.pose)
	if err != nil {
		return nil, errDecorate(err, "LoadGroup")
	}
	rot, trans, err := poseToCanonical(g.name, g.pose.form, data)
	if err != nil {
		return nil, errDecorate(err, "LoadGroup")
	}
	s, err := motion.NewSequence(g.name, rate, unit, rot, trans)
	if err != nil {
		return nil, errDecorate(err, "LoadGroup")
	}
	n := s.Len()
	for _, d := range g.derivs {
		a, err := F.readDataset(g.name, &d.datasetEntry)
		if err != nil {
			return nil, errDecorate(err, "LoadGroup")
		}
		r, _ := a.Dims()
		if r != n {
			return nil, &motion.ValidationError{Group: g.name,
				Reason: fmt.Sprintf("derivative %q has %d samples, transformations have %d", d.name, r, n)}
		}
		s.Derivatives().SetNamed(d.name, a)
	}
	if asMatrices {
		s.Matrices()
	}
	return s, nil
}

// requiredAttrs validates the sample_rate and unit attributes of a group.
func requiredAttrs(g *groupEntry) (rate float64, unit string, err error) {
	rs, ok := g.attrs[AttrSampleRate]
	if !ok {
		return 0, "", &motion.SchemaError{Group: g.name, Field: AttrSampleRate, Reason: "missing"}
	}
	rate, perr := strconv.ParseFloat(rs, 64)
	if perr != nil {
		return 0, "", &motion.SchemaError{Group: g.name, Field: AttrSampleRate,
			Reason: fmt.Sprintf("not a number: %q", rs)}
	}
	if rate <= 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
		return 0, "", &motion.SchemaError{Group: g.name, Field: AttrSampleRate,
			Reason: fmt.Sprintf("must be positive, got %v", rate)}
	}
	unit, ok = g.attrs[AttrUnit]
	if !ok || unit == "" {
		return 0, "", &motion.SchemaError{Group: g.name, Field: AttrUnit, Reason: "missing"}
	}
	return rate, unit, nil
}

// poseToCanonical normalizes a transformations dataset from its native
// storage form into the canonical Nx9 rotation and Nx3 translation arrays.
// The reconstruction is numerically equivalent regardless of the stored form.
func poseToCanonical(group string, form PoseForm, data *mat.Dense) (*mat.Dense, *mat.Dense, error) {
	want := form.cols()
	if want < 0 {
		return nil, nil, &motion.ValidationError{Group: group,
			Reason: fmt.Sprintf("unknown pose storage form %d", uint8(form))}
	}
	n, c := data.Dims()
	if c != want {
		return nil, nil, &motion.ValidationError{Group: group,
			Reason: fmt.Sprintf("transformations stored as %s need %d columns, dataset has %d", form, want, c)}
	}
	rot := mat.NewDense(n, 9, nil)
	trans := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		row := data.RawRowView(i)
		r := rot.RawRowView(i)
		t := trans.RawRowView(i)
		switch form {
		case FormMatrix:
			for j := 0; j < 3; j++ {
				copy(r[3*j:3*j+3], row[4*j:4*j+3])
				t[j] = row[4*j+3]
			}
			if math.Abs(row[12]) > homogeneousTol || math.Abs(row[13]) > homogeneousTol ||
				math.Abs(row[14]) > homogeneousTol || math.Abs(row[15]-1) > homogeneousTol {
				return nil, nil, &motion.ValidationError{Group: group,
					Reason: fmt.Sprintf("pose %d is not a homogeneous transformation", i)}
			}
		case FormQuatTrans:
			motion.QuatToRotationRow(row[:4], r)
			copy(t, row[4:7])
		case FormEulerTrans:
			motion.EulerToRotationRow(row[0], row[1], row[2], r)
			copy(t, row[3:6])
		}
	}
	return rot, trans, nil
}
