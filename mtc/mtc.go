/*
 * mtc.go, part of gomotion.
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

import "fmt"

const (
	magic   = "MTC1"
	version = 1
)

//Attribute keys the loader requires on every group.
const (
	AttrSampleRate = "sample_rate"
	AttrUnit       = "unit"
)

//TransformationsDataset is the name under which the pose dataset of a group
//is reported by the inspector. It is implicit on disk.
const TransformationsDataset = "transformations"

// PoseForm identifies the native storage form of a transformations dataset.
type PoseForm uint8

const (
	//FormMatrix stores each pose as a flattened row-major 4x4 matrix (16 columns).
	FormMatrix PoseForm = iota
	//FormQuatTrans stores each pose as quaternion w,x,y,z plus translation (7 columns).
	FormQuatTrans
	//FormEulerTrans stores each pose as intrinsic XYZ Euler angles plus translation (6 columns).
	FormEulerTrans
)

// String returns a human-readable name for the storage form.
func (f PoseForm) String() string {
	switch f {
	case FormMatrix:
		return "matrix4x4"
	case FormQuatTrans:
		return "quaternion+translation"
	case FormEulerTrans:
		return "euler+translation"
	}
	return fmt.Sprintf("unknown(%d)", uint8(f))
}

// cols returns the column count the form requires, or -1 for an unknown form.
func (f PoseForm) cols() int {
	switch f {
	case FormMatrix:
		return 16
	case FormQuatTrans:
		return 7
	case FormEulerTrans:
		return 6
	}
	return -1
}

//Errors

// Error is the general structure for MTC container errors. It fulfills
// motion.Error and motion.ContainerError.
type Error struct {
	message  string
	filename string //the file that has problems, or empty string if none
	deco     []string
	critical bool
}

func (err *Error) Error() string {
	return fmt.Sprintf("mtc file %s error: %s", err.filename, err.message)
}

// Decorate adds new information to the error, and returns the accumulated
// decoration slice.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file to which the failing container was associated.
func (err *Error) FileName() string { return err.filename }

// Format returns the format of the file (always "mtc") associated to the error.
func (err *Error) Format() string { return "mtc" }

// Critical returns true if the error is critical, false otherwise.
func (err *Error) Critical() bool { return err.critical }
