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

/*Package motion is the main package of the gomotion library. It provides structures for
time-sampled rigid-body pose trajectories (6-DoF transformations) as recorded by
motion-capture pipelines, together with the kinematics needed to analyse them.



	**gomotion capabilities**


    Holds pose trajectories as sequences of rotation matrices plus translation
	vectors, with quaternion and Euler-angle projections of the orientations.

    Reads and writes MTC trajectory containers (see the mtc subpackage), a
	multi-group binary format where each named group carries its own sample
	rate, length unit and optional precomputed derivatives.

    Computes translational velocity and acceleration by sample-rate-aware
	finite differences that preserve the sequence length (one-sided stencils
	at the boundary frames).

    Computes angular velocity from the logarithm of the relative rotation
	between consecutive orientations, never by differencing matrix entries or
	Euler angles component-wise, which is not meaningful near gimbal-adjacent
	configurations. Angular acceleration differences the angular velocity.

    Resolves legacy derivative field names (velocity, rotational_velocity and
	friends) to their canonical counterparts through a single lookup table.

    Aligns a named component (translations, Euler rotations, rotation matrices
	or any derivative) across several trajectory groups for comparison,
	without resampling.

    Plotting of trajectories and comparisons lives in the motplot subpackage;
	this package only ever exposes data.



gomotion stores every array as a gonum mat.Dense. Within the library a "vector"
is understood to be a row of such a matrix, i.e. one sample in time. Rotation
matrices are stored row-major, nine values per sample.*/
package motion
