/*
 * compare.go, part of gomotion.
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

import "gonum.org/v1/gonum/mat"

//Component names resolved against the transformation projections, tried
//before the derivative alias table.
const (
	ComponentTranslations    = "translations"
	ComponentRotationsEuler  = "rotations_euler"
	ComponentRotationsMatrix = "rotations_matrix"
)

// Comparison holds one named component aligned across several trajectory
// groups, ready for downstream consumption. Arrays are returned raw, one per
// group; groups with differing sample rates are NOT resampled or time-aligned
// here, the per-group rates are carried along so the caller can align without
// hidden accuracy loss.
type Comparison struct {
	Component string
	Order     []string //groups present in the result, in request order
	Arrays    map[string]*mat.Dense
	Rates     map[string]float64 //Hz, per group
	Units     map[string]string  //length unit, per group
	Missing   []string           //requested groups that lack the component, in request order
}

// Compare selects the named component from each of the requested groups. The
// component is resolved first against the transformation projections
// (translations, rotations_euler, rotations_matrix: the Nx9 flattened
// matrices), then against the canonical/alias derivative table; derivative
// components are taken from each group's stored DerivativeSet, so the result
// reflects exactly what the container carried. A group lacking the component
// is recorded under Missing and omitted, not fatal; only when no requested
// group has it does the call fail with a ComponentUnavailableError. A name in
// groupNames with no loaded group behind it is a NotFoundError, and a
// component name that is neither a projection nor a known derivative is an
// UnsupportedDerivativeError.
func Compare(groups map[string]*TransformationSequence, component string, groupNames []string) (*Comparison, error) {
	if len(groupNames) == 0 {
		return nil, &ValidationError{Reason: "no groups requested for comparison"}
	}
	if !componentKnown(component) {
		return nil, &UnsupportedDerivativeError{Name: component}
	}
	cmp := &Comparison{
		Component: component,
		Arrays:    make(map[string]*mat.Dense, len(groupNames)),
		Rates:     make(map[string]float64, len(groupNames)),
		Units:     make(map[string]string, len(groupNames)),
	}
	for _, name := range groupNames {
		s, ok := groups[name]
		if !ok {
			return nil, &NotFoundError{Name: name}
		}
		a := resolveComponent(s, component)
		if a == nil {
			cmp.Missing = append(cmp.Missing, name)
			continue
		}
		cmp.Order = append(cmp.Order, name)
		cmp.Arrays[name] = a
		cmp.Rates[name] = s.SampleRate()
		cmp.Units[name] = s.Unit()
	}
	if len(cmp.Order) == 0 {
		return nil, &ComponentUnavailableError{Component: component, Groups: groupNames}
	}
	return cmp, nil
}

func componentKnown(component string) bool {
	switch component {
	case ComponentTranslations, ComponentRotationsEuler, ComponentRotationsMatrix:
		return true
	}
	_, ok := KindFromName(component)
	return ok
}

// resolveComponent returns the component array for one sequence, or nil if
// the sequence does not carry it.
func resolveComponent(s *TransformationSequence, component string) *mat.Dense {
	switch component {
	case ComponentTranslations:
		return s.Translations()
	case ComponentRotationsEuler:
		return s.EulerAngles()
	case ComponentRotationsMatrix:
		return s.Rotations()
	}
	kind, ok := KindFromName(component)
	if !ok {
		return nil
	}
	return s.Derivatives().Get(kind)
}
