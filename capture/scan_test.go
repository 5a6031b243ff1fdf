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

package capture

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, s *Scanner) []uint64 {
	t.Helper()
	var offsets []uint64
	for {
		off, ok := s.Next(context.Background())
		if !ok {
			break
		}
		offsets = append(offsets, off)
	}
	require.NoError(t, s.Err())
	return offsets
}

func TestScan(t *testing.T) {
	tests := []struct {
		name     string
		segments [][]byte
		pattern  string
		want     []uint64
	}{
		{"Single", [][]byte{[]byte("xxABxx")}, "AB", []uint64{2}},
		{"Multiple", [][]byte{[]byte("ABxABxxAB")}, "AB", []uint64{0, 3, 7}},
		{"Overlapping", [][]byte{[]byte("AAAA")}, "AA", []uint64{0, 1, 2}},
		{"NoMatch", [][]byte{[]byte("xxxx")}, "AB", nil},
		{"MultiSegment", [][]byte{[]byte("xxAB"), []byte("ABxx")}, "AB", []uint64{2, 4}},
		{"Straddling", [][]byte{[]byte("xxxA"), []byte("Bxxx")}, "AB", []uint64{3}},
		{"StraddlingLong", [][]byte{[]byte("xxABC"), []byte("DExxx")}, "ABCDE", []uint64{2}},
		{"StraddleAndInside", [][]byte{[]byte("ABxA"), []byte("Bxxx"), []byte("xABx")}, "AB", []uint64{0, 3, 9}},
		{"EmptyPattern", [][]byte{[]byte("xxxx")}, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCapture(t, tt.segments...)
			assert.Equal(t, tt.want, collect(t, c.Scan([]byte(tt.pattern))))
		})
	}
}

func TestScanIndependent(t *testing.T) {
	c := newTestCapture(t, []byte("ABxAB"))

	first := c.Scan([]byte("AB"))
	second := c.Scan([]byte("AB"))

	off, ok := first.Next(context.Background())
	require.True(t, ok)
	assert.Equal(t, uint64(0), off)

	// a second scanner starts from the beginning
	off, ok = second.Next(context.Background())
	require.True(t, ok)
	assert.Equal(t, uint64(0), off)

	off, ok = first.Next(context.Background())
	require.True(t, ok)
	assert.Equal(t, uint64(3), off)
}

func TestScanCancel(t *testing.T) {
	c := newTestCapture(t, []byte("ABxAB"))

	ctx, cancel := context.WithCancel(context.Background())
	s := c.Scan([]byte("AB"))

	_, ok := s.Next(ctx)
	require.True(t, ok)

	cancel()
	_, ok = s.Next(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, s.Err(), context.Canceled)
}
