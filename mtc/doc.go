/*
 * doc.go, part of gomotion.
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

/*Package mtc reads and writes MTC (motion trajectory container) files, the
hierarchical binary format used to persist rigid-body pose trajectories.

A container holds an ordered sequence of named groups; the on-disk order is
the group order, a documented property callers may rely on. Each group carries
a flat set of string attributes (sample_rate and unit are required by the
loader, anything else is passed through), one "transformations" dataset with
the poses in one of three storage forms (flattened 4x4 matrices, quaternion
plus translation, or intrinsic XYZ Euler angles plus translation) and any
number of named derivative datasets.

All integers and floats are little-endian. Dataset payloads are
zstd-compressed blocks of float64 with the compressed size recorded up front,
so the structural inspector can walk a container without decompressing or
materializing any array.

Layout:

	file    := "MTC1" | uint32 version | uint32 ngroups | group...
	group   := str name | uint32 nattrs | (str key | str value)... |
	           uint8 form | dset | uint32 nderiv | (str name | dset)...
	dset    := uint32 rows | uint32 cols | uint64 csize | zstd payload
	str     := uint32 len | bytes
*/
package mtc
