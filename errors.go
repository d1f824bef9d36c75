/*
 * errors.go, part of gomotion.
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
	"strings"
)

// Error is the interface for errors that all packages in this library implement.
// The Decorate method allows to add and retrieve info from the error, without
// changing its type or wrapping it around something else. The decoration slice
// should contain the names of the functions in the calling stack plus, for each
// function, any relevant information, or nothing. If passed an empty string,
// Decorate just returns the current slice without adding to it.
type Error interface {
	error
	Decorate(string) []string
}

// ContainerError is the interface for errors produced while reading or writing
// a trajectory container.
type ContainerError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

// errDecorate asserts that err implements Error and decorates it with the
// caller's name before returning it. Panics if used with anything else.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}

// NotFoundError is returned when an explicitly requested group (or the
// container file itself) does not exist.
type NotFoundError struct {
	Name string //the missing group or file
	deco []string
}

func (err *NotFoundError) Error() string {
	return fmt.Sprintf("motion: group or file %q not found", err.Name)
}

func (err *NotFoundError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// SchemaError is returned when a required group attribute is missing or
// invalid, such as an absent unit or a non-positive sample rate.
type SchemaError struct {
	Group  string
	Field  string
	Reason string
	deco   []string
}

func (err *SchemaError) Error() string {
	return fmt.Sprintf("motion: group %q, attribute %q: %s", err.Group, err.Field, err.Reason)
}

func (err *SchemaError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// ValidationError is returned for malformed data, such as a ragged dataset
// shape or a rotation submatrix that is not orthonormal within tolerance.
type ValidationError struct {
	Group  string
	Reason string
	deco   []string
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("motion: group %q: %s", err.Group, err.Reason)
}

func (err *ValidationError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// UnsupportedDerivativeError is returned when a derivative or component name
// is neither canonical nor a recognized legacy alias.
type UnsupportedDerivativeError struct {
	Name string
	deco []string
}

func (err *UnsupportedDerivativeError) Error() string {
	return fmt.Sprintf("motion: unsupported derivative or component %q", err.Name)
}

func (err *UnsupportedDerivativeError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// ComponentUnavailableError is returned by the comparator when the requested
// component is absent from every requested group.
type ComponentUnavailableError struct {
	Component string
	Groups    []string //the groups that were searched
	deco      []string
}

func (err *ComponentUnavailableError) Error() string {
	return fmt.Sprintf("motion: component %q not present in any of the requested groups (%s)",
		err.Component, strings.Join(err.Groups, ", "))
}

func (err *ComponentUnavailableError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}
