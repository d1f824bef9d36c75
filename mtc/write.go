/*
 * write.go, part of gomotion.
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
	"bytes"
	"encoding/binary"
	"os"
	"sort"
	"strconv"

	"github.com/klauspost/compress/zstd"
	motion "github.com/mocaplab/gomotion"
	"gonum.org/v1/gonum/mat"
)

// Dataset is one array to be written to a container.
type Dataset struct {
	Form PoseForm //only meaningful for the pose dataset of a group
	Data *mat.Dense
}

// Writer writes an MTC container, one group at a time, in call order. It
// performs no semantic validation of shapes or attributes beyond what the
// format itself needs; the loader is where schema checks live, and a
// producing pipeline is expected to hand it consistent data.
type Writer struct {
	f       *os.File
	name    string
	ngroups uint32
	open    bool
}

// NewWriter creates an MTC container file, truncating any previous content.
func NewWriter(name string) (*Writer, error) {
	fd, err := os.Create(name)
	if err != nil {
		return nil, &Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	W := &Writer{f: fd, name: name, open: true}
	if _, err := fd.Write([]byte(magic)); err != nil {
		fd.Close()
		return nil, &Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	//the group count is patched in on Close
	if err := binary.Write(fd, binary.LittleEndian, [2]uint32{version, 0}); err != nil {
		fd.Close()
		return nil, &Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	return W, nil
}

// Close patches the group count into the header and closes the file. The
// Writer cannot be used after this call.
func (W *Writer) Close() error {
	if !W.open {
		return nil
	}
	W.open = false
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], W.ngroups)
	if _, err := W.f.WriteAt(buf[:], 8); err != nil {
		W.f.Close()
		return &Error{err.Error(), W.name, []string{"Close"}, true}
	}
	if err := W.f.Close(); err != nil {
		return &Error{err.Error(), W.name, []string{"Close"}, true}
	}
	return nil
}

// WriteGroup appends one group. Attributes are written in sorted key order so
// identical input produces identical files; group order is the call order.
// derivatives may be nil.
func (W *Writer) WriteGroup(name string, attrs map[string]string, pose Dataset, derivatives []NamedDataset) error {
	if !W.open {
		return &Error{"writer already closed", W.name, []string{"WriteGroup"}, true}
	}
	if err := W.writeString(name); err != nil {
		return err
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if err := binary.Write(W.f, binary.LittleEndian, uint32(len(keys))); err != nil {
		return &Error{err.Error(), W.name, []string{"WriteGroup"}, true}
	}
	for _, k := range keys {
		if err := W.writeString(k); err != nil {
			return err
		}
		if err := W.writeString(attrs[k]); err != nil {
			return err
		}
	}
	if err := binary.Write(W.f, binary.LittleEndian, uint8(pose.Form)); err != nil {
		return &Error{err.Error(), W.name, []string{"WriteGroup"}, true}
	}
	if err := W.writeDataset(pose.Data); err != nil {
		return err
	}
	if err := binary.Write(W.f, binary.LittleEndian, uint32(len(derivatives))); err != nil {
		return &Error{err.Error(), W.name, []string{"WriteGroup"}, true}
	}
	for _, d := range derivatives {
		if err := W.writeString(d.Name); err != nil {
			return err
		}
		if err := W.writeDataset(d.Data); err != nil {
			return err
		}
	}
	W.ngroups++
	return nil
}

// NamedDataset pairs a derivative field name with its array.
type NamedDataset struct {
	Name string
	Data *mat.Dense
}

// WriteSequence appends a whole TransformationSequence as one group, with its
// poses converted to the requested storage form and every stored derivative
// (canonical slots first, then pass-through entries) written after them.
func (W *Writer) WriteSequence(s *motion.TransformationSequence, form PoseForm) error {
	attrs := map[string]string{
		AttrSampleRate: strconv.FormatFloat(s.SampleRate(), 'g', -1, 64),
		AttrUnit:       s.Unit(),
	}
	var data *mat.Dense
	switch form {
	case FormMatrix:
		data = s.Matrices()
	case FormQuatTrans:
		data = joinCols(s.Quaternions(), s.Translations())
	case FormEulerTrans:
		data = joinCols(s.EulerAngles(), s.Translations())
	default:
		return &Error{"unknown pose storage form " + form.String(), W.name, []string{"WriteSequence"}, true}
	}
	var derivs []NamedDataset
	ds := s.Derivatives()
	for kind := motion.TranslationalVelocity; kind <= motion.AngularAcceleration; kind++ {
		if a := ds.Get(kind); a != nil {
			derivs = append(derivs, NamedDataset{kind.String(), a})
		}
	}
	for _, name := range ds.ExtraNames() {
		if a, ok := ds.Lookup(name); ok {
			derivs = append(derivs, NamedDataset{name, a})
		}
	}
	err := W.WriteGroup(s.Name(), attrs, Dataset{Form: form, Data: data}, derivs)
	if err != nil {
		return errDecorate(err, "WriteSequence")
	}
	return nil
}

// writeDataset writes the shape header followed by the zstd-compressed
// row-major float64 payload.
func (W *Writer) writeDataset(a *mat.Dense) error {
	r, c := a.Dims()
	var payload bytes.Buffer
	enc, err := zstd.NewWriter(&payload)
	if err != nil {
		return &Error{err.Error(), W.name, []string{"writeDataset"}, true}
	}
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, a)
		if err := binary.Write(enc, binary.LittleEndian, row); err != nil {
			enc.Close()
			return &Error{err.Error(), W.name, []string{"writeDataset"}, true}
		}
	}
	if err := enc.Close(); err != nil {
		return &Error{err.Error(), W.name, []string{"writeDataset"}, true}
	}
	head := [2]uint32{uint32(r), uint32(c)}
	if err := binary.Write(W.f, binary.LittleEndian, head); err != nil {
		return &Error{err.Error(), W.name, []string{"writeDataset"}, true}
	}
	if err := binary.Write(W.f, binary.LittleEndian, uint64(payload.Len())); err != nil {
		return &Error{err.Error(), W.name, []string{"writeDataset"}, true}
	}
	if _, err := W.f.Write(payload.Bytes()); err != nil {
		return &Error{err.Error(), W.name, []string{"writeDataset"}, true}
	}
	return nil
}

func (W *Writer) writeString(s string) error {
	if err := binary.Write(W.f, binary.LittleEndian, uint32(len(s))); err != nil {
		return &Error{err.Error(), W.name, []string{"writeString"}, true}
	}
	if _, err := W.f.Write([]byte(s)); err != nil {
		return &Error{err.Error(), W.name, []string{"writeString"}, true}
	}
	return nil
}

// joinCols returns a fresh array with the columns of a followed by the
// columns of b. Both must have the same number of rows.
func joinCols(a, b *mat.Dense) *mat.Dense {
	ar, ac := a.Dims()
	_, bc := b.Dims()
	out := mat.NewDense(ar, ac+bc, nil)
	for i := 0; i < ar; i++ {
		row := out.RawRowView(i)
		mat.Row(row[:ac], i, a)
		mat.Row(row[ac:], i, b)
	}
	return out
}
