/*
 * read.go, part of gomotion.
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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/klauspost/compress/zstd"
	motion "github.com/mocaplab/gomotion"
	"gonum.org/v1/gonum/mat"
)

//maxStrLen bounds length-prefixed strings so a corrupt prefix cannot make us
//allocate gigabytes.
const maxStrLen = 1 << 20

// File is an open MTC container. Open scans the group directory up front,
// skipping over the compressed dataset payloads, so holding a File costs a
// few pointers per group; arrays are only materialized by explicit reads.
type File struct {
	f      *os.File
	name   string
	groups []*groupEntry
	byName map[string]*groupEntry
}

type groupEntry struct {
	name   string
	attrs  map[string]string
	attrKs []string //attribute keys in file order
	pose   datasetEntry
	derivs []namedDataset
}

type namedDataset struct {
	name string
	datasetEntry
}

type datasetEntry struct {
	form       PoseForm //only meaningful for the pose dataset
	rows, cols int
	offset     int64 //of the compressed payload
	csize      int64
}

// Open opens an MTC container for reading and scans its directory. A missing
// file is reported as a motion.NotFoundError; structural corruption as a
// critical container error.
func Open(name string) (*File, error) {
	fd, err := os.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &motion.NotFoundError{Name: name}
		}
		return nil, &Error{err.Error(), name, []string{"Open"}, true}
	}
	F := &File{f: fd, name: name, byName: make(map[string]*groupEntry)}
	if err := F.scan(); err != nil {
		fd.Close()
		return nil, err
	}
	return F, nil
}

// Close closes the underlying file. The File cannot be used afterwards.
func (F *File) Close() error {
	return F.f.Close()
}

// Name returns the path the container was opened from.
func (F *File) Name() string { return F.name }

// GroupNames returns the group names in container order. Group order is a
// stable, documented property of the format; "the first group" always means
// the first group written.
func (F *File) GroupNames() []string {
	names := make([]string, len(F.groups))
	for i, g := range F.groups {
		names[i] = g.name
	}
	return names
}

// scan reads the header and the directory of every group, seeking over the
// compressed payloads.
func (F *File) scan() error {
	head := make([]byte, 4)
	if _, err := io.ReadFull(F.f, head); err != nil {
		return &Error{"can't read magic number: " + err.Error(), F.name, []string{"scan"}, true}
	}
	if string(head) != magic {
		return &Error{fmt.Sprintf("bad magic number %q", head), F.name, []string{"scan"}, true}
	}
	var vers, ngroups uint32
	if err := binary.Read(F.f, binary.LittleEndian, &vers); err != nil {
		return &Error{"can't read version: " + err.Error(), F.name, []string{"scan"}, true}
	}
	if vers != version {
		return &Error{fmt.Sprintf("unsupported container version %d", vers), F.name, []string{"scan"}, true}
	}
	if err := binary.Read(F.f, binary.LittleEndian, &ngroups); err != nil {
		return &Error{"can't read group count: " + err.Error(), F.name, []string{"scan"}, true}
	}
	for i := uint32(0); i < ngroups; i++ {
		g, err := F.scanGroup()
		if err != nil {
			return err
		}
		F.groups = append(F.groups, g)
		F.byName[g.name] = g
	}
	return nil
}

func (F *File) scanGroup() (*groupEntry, error) {
	g := &groupEntry{attrs: make(map[string]string)}
	var err error
	if g.name, err = F.readString(); err != nil {
		return nil, errDecorate(err, "scanGroup")
	}
	var nattrs uint32
	if err := binary.Read(F.f, binary.LittleEndian, &nattrs); err != nil {
		return nil, &Error{"can't read attribute count: " + err.Error(), F.name, []string{"scanGroup"}, true}
	}
	for i := uint32(0); i < nattrs; i++ {
		k, err := F.readString()
		if err != nil {
			return nil, errDecorate(err, "scanGroup")
		}
		v, err := F.readString()
		if err != nil {
			return nil, errDecorate(err, "scanGroup")
		}
		g.attrs[k] = v
		g.attrKs = append(g.attrKs, k)
	}
	var form uint8
	if err := binary.Read(F.f, binary.LittleEndian, &form); err != nil {
		return nil, &Error{"can't read pose storage form: " + err.Error(), F.name, []string{"scanGroup"}, true}
	}
	g.pose.form = PoseForm(form)
	if err := F.scanDataset(&g.pose); err != nil {
		return nil, err
	}
	var nderiv uint32
	if err := binary.Read(F.f, binary.LittleEndian, &nderiv); err != nil {
		return nil, &Error{"can't read derivative count: " + err.Error(), F.name, []string{"scanGroup"}, true}
	}
	for i := uint32(0); i < nderiv; i++ {
		var d namedDataset
		if d.name, err = F.readString(); err != nil {
			return nil, errDecorate(err, "scanGroup")
		}
		if err := F.scanDataset(&d.datasetEntry); err != nil {
			return nil, err
		}
		g.derivs = append(g.derivs, d)
	}
	return g, nil
}

// scanDataset reads a dataset header and seeks past the payload without
// decompressing it.
func (F *File) scanDataset(d *datasetEntry) error {
	var rows, cols uint32
	var csize uint64
	if err := binary.Read(F.f, binary.LittleEndian, &rows); err != nil {
		return &Error{"can't read dataset shape: " + err.Error(), F.name, []string{"scanDataset"}, true}
	}
	if err := binary.Read(F.f, binary.LittleEndian, &cols); err != nil {
		return &Error{"can't read dataset shape: " + err.Error(), F.name, []string{"scanDataset"}, true}
	}
	if err := binary.Read(F.f, binary.LittleEndian, &csize); err != nil {
		return &Error{"can't read dataset payload size: " + err.Error(), F.name, []string{"scanDataset"}, true}
	}
	d.rows, d.cols = int(rows), int(cols)
	d.csize = int64(csize)
	off, err := F.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return &Error{err.Error(), F.name, []string{"scanDataset"}, true}
	}
	d.offset = off
	if _, err := F.f.Seek(d.csize, io.SeekCurrent); err != nil {
		return &Error{"can't seek past dataset payload: " + err.Error(), F.name, []string{"scanDataset"}, true}
	}
	return nil
}

func (F *File) readString() (string, error) {
	var l uint32
	if err := binary.Read(F.f, binary.LittleEndian, &l); err != nil {
		return "", &Error{"can't read string length: " + err.Error(), F.name, nil, true}
	}
	if l > maxStrLen {
		return "", &Error{fmt.Sprintf("unreasonable string length %d", l), F.name, nil, true}
	}
	b := make([]byte, l)
	if _, err := io.ReadFull(F.f, b); err != nil {
		return "", &Error{"can't read string: " + err.Error(), F.name, nil, true}
	}
	return string(b), nil
}

// readDataset materializes one dataset of the named group: it seeks to the
// payload, streams it through a zstd decoder and returns the rows x cols
// array. A dataset with no rows or no columns is malformed data, not a
// container failure.
func (F *File) readDataset(group string, d *datasetEntry) (*mat.Dense, error) {
	if d.rows < 1 || d.cols < 1 {
		return nil, &motion.ValidationError{Group: group,
			Reason: fmt.Sprintf("empty dataset (%dx%d)", d.rows, d.cols)}
	}
	if _, err := F.f.Seek(d.offset, io.SeekStart); err != nil {
		return nil, &Error{err.Error(), F.name, []string{"readDataset"}, true}
	}
	dec, err := zstd.NewReader(io.LimitReader(F.f, d.csize))
	if err != nil {
		return nil, &Error{"can't open zstd payload: " + err.Error(), F.name, []string{"readDataset"}, true}
	}
	defer dec.Close()
	data := make([]float64, d.rows*d.cols)
	if err := binary.Read(dec, binary.LittleEndian, data); err != nil {
		return nil, &Error{"truncated or corrupt dataset payload: " + err.Error(), F.name, []string{"readDataset"}, true}
	}
	return mat.NewDense(d.rows, d.cols, data), nil
}

//errDecorate is a helper that asserts that the error implements motion.Error
//and decorates it with the caller's name before returning it. Panics when
//used on anything else.
func errDecorate(err error, caller string) error {
	err2 := err.(motion.Error)
	err2.Decorate(caller)
	return err2
}
