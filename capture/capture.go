// Copyright (c) 2021 Siemens AG
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
//
// Author(s): Jonas Plum

// Package capture provides a read-only view over a set of memory dump
// segments. A capture is a directory of binary segment files that together
// represent the address space of a process at acquisition time. The package
// supports random access reads across segment boundaries and lazy pattern
// scanning.
package capture

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ManifestName is the optional per-capture manifest file. It pins explicit
// base offsets per segment file. Without a manifest segments are ordered by
// file name and laid out contiguously starting at offset zero.
const ManifestName = "capture.yaml"

// Segment describes a single dump segment inside a capture.
type Segment struct {
	ID         int
	Name       string
	BaseOffset uint64
	Size       uint64
}

// End returns the first offset past the segment.
func (s Segment) End() uint64 {
	return s.BaseOffset + s.Size
}

// Error is returned for capture level failures. It is fatal for the run that
// encounters it.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("capture %s: %s", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// OutOfRangeError is returned by ReadAt when the requested range crosses the
// capture bounds or a gap between non-adjacent segments.
type OutOfRangeError struct {
	Offset uint64
	Length int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("read of %d bytes at offset %#x is outside the capture", e.Length, e.Offset)
}

type manifest struct {
	Segments []struct {
		File       string `yaml:"file"`
		BaseOffset uint64 `yaml:"base_offset"`
	} `yaml:"segments"`
}

// The Capture is an ordered, immutable set of dump segments. All segment data
// is loaded once when the capture is opened and is never modified afterwards,
// so concurrent reads and scans need no synchronization.
type Capture struct {
	path     string
	segments []Segment
	data     [][]byte
}

// Open opens the capture directory at path on the OS filesystem.
func Open(path string) (*Capture, error) {
	return OpenFs(afero.NewOsFs(), path)
}

// OpenFs opens the capture directory at path on the given filesystem.
func OpenFs(fs afero.Fs, path string) (*Capture, error) {
	fi, err := fs.Stat(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	if !fi.IsDir() {
		return nil, &Error{Path: path, Err: errors.New("not a directory")}
	}

	names, offsets, err := segmentLayout(fs, path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	if len(names) == 0 {
		return nil, &Error{Path: path, Err: errors.New("capture contains no segments")}
	}

	c := &Capture{path: path}
	var next uint64
	for i, name := range names {
		b, err := afero.ReadFile(fs, path+"/"+name)
		if err != nil {
			return nil, &Error{Path: path, Err: errors.Wrap(err, "could not read segment")}
		}
		base := next
		if offsets != nil {
			base = offsets[name]
		}
		c.segments = append(c.segments, Segment{
			ID:         i,
			Name:       name,
			BaseOffset: base,
			Size:       uint64(len(b)),
		})
		c.data = append(c.data, b)
		next = base + uint64(len(b))
	}

	if c.Size() == 0 {
		return nil, &Error{Path: path, Err: errors.New("capture is empty")}
	}
	return c, nil
}

// segmentLayout lists the segment files and, if a manifest exists, their base
// offsets. A nil offset map means contiguous layout in name order.
func segmentLayout(fs afero.Fs, path string) ([]string, map[string]uint64, error) {
	infos, err := afero.ReadDir(fs, path)
	if err != nil {
		return nil, nil, err
	}

	manifestExists, err := afero.Exists(fs, path+"/"+ManifestName)
	if err != nil {
		return nil, nil, err
	}
	if manifestExists {
		b, err := afero.ReadFile(fs, path+"/"+ManifestName)
		if err != nil {
			return nil, nil, err
		}
		var m manifest
		if err := yaml.Unmarshal(b, &m); err != nil {
			return nil, nil, errors.Wrap(err, "could not parse "+ManifestName)
		}
		var names []string
		offsets := map[string]uint64{}
		for _, s := range m.Segments {
			names = append(names, s.File)
			offsets[s.File] = s.BaseOffset
		}
		sort.Slice(names, func(i, j int) bool { return offsets[names[i]] < offsets[names[j]] })
		for i := 1; i < len(names); i++ {
			if offsets[names[i]] < offsets[names[i-1]] {
				return nil, nil, fmt.Errorf("segments %s and %s overlap", names[i-1], names[i])
			}
		}
		return names, offsets, nil
	}

	var names []string
	for _, info := range infos {
		if info.IsDir() || info.Name() == ManifestName {
			continue
		}
		names = append(names, info.Name())
	}
	sort.Strings(names)
	return names, nil, nil
}

// Path returns the directory the capture was opened from.
func (c *Capture) Path() string { return c.path }

// Segments returns the ordered segment descriptors.
func (c *Capture) Segments() []Segment {
	segments := make([]Segment, len(c.segments))
	copy(segments, c.segments)
	return segments
}

// Size returns the first offset past the last segment.
func (c *Capture) Size() uint64 {
	if len(c.segments) == 0 {
		return 0
	}
	return c.segments[len(c.segments)-1].End()
}

// SegmentAt returns the segment containing the given offset.
func (c *Capture) SegmentAt(offset uint64) (Segment, bool) {
	i := sort.Search(len(c.segments), func(i int) bool {
		return c.segments[i].End() > offset
	})
	if i < len(c.segments) && c.segments[i].BaseOffset <= offset {
		return c.segments[i], true
	}
	return Segment{}, false
}

// SegmentBytes returns the raw bytes of a segment. Callers must not modify
// the returned slice.
func (c *Capture) SegmentBytes(id int) []byte {
	return c.data[id]
}

// ReadAt reads length bytes starting at offset. The read may span multiple
// segments as long as they are adjacent; crossing the capture bounds or a gap
// between segments fails with an OutOfRangeError.
func (c *Capture) ReadAt(offset uint64, length int) ([]byte, error) {
	if length < 0 {
		return nil, &OutOfRangeError{Offset: offset, Length: length}
	}
	out := make([]byte, 0, length)
	pos := offset
	for len(out) < length {
		seg, ok := c.SegmentAt(pos)
		if !ok {
			return nil, &OutOfRangeError{Offset: offset, Length: length}
		}
		local := pos - seg.BaseOffset
		chunk := c.data[seg.ID][local:]
		missing := length - len(out)
		if len(chunk) > missing {
			chunk = chunk[:missing]
		}
		out = append(out, chunk...)
		pos += uint64(len(chunk))
	}
	return out, nil
}

// Window reads up to max bytes starting at offset, clamped to what is
// contiguously available. Unlike ReadAt a short window is not an error.
func (c *Capture) Window(offset uint64, max int) []byte {
	out := make([]byte, 0, max)
	pos := offset
	for len(out) < max {
		seg, ok := c.SegmentAt(pos)
		if !ok {
			break
		}
		local := pos - seg.BaseOffset
		chunk := c.data[seg.ID][local:]
		missing := max - len(out)
		if len(chunk) > missing {
			chunk = chunk[:missing]
		}
		out = append(out, chunk...)
		pos += uint64(len(chunk))
	}
	return out
}
