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
	"bytes"
	"context"
)

const (
	modeSegment = iota
	modeBoundary
)

// A Scanner yields the offsets of all occurrences of one pattern in the
// capture in ascending order. Each call to Scan returns an independent
// Scanner, so concurrent scans share no mutable state. Matches that straddle
// two adjacent segments are found through an overlap window of pattern
// length minus one bytes.
type Scanner struct {
	c       *Capture
	pattern []byte
	mode    int
	seg     int
	local   int
	wpos    int
	err     error
}

// Scan returns a new Scanner for the given pattern. The scan is lazy: work
// happens in Next, one match at a time.
func (c *Capture) Scan(pattern []byte) *Scanner {
	return &Scanner{c: c, pattern: pattern}
}

// Next returns the offset of the next match. The second return value is
// false when the scan is exhausted or the context is cancelled; Err tells
// the two cases apart.
func (s *Scanner) Next(ctx context.Context) (uint64, bool) {
	if len(s.pattern) == 0 || s.err != nil {
		return 0, false
	}
	if err := ctx.Err(); err != nil {
		s.err = err
		return 0, false
	}

	for s.seg < len(s.c.segments) {
		seg := s.c.segments[s.seg]
		data := s.c.data[s.seg]

		if s.mode == modeSegment {
			if s.local < len(data) {
				if idx := bytes.Index(data[s.local:], s.pattern); idx >= 0 {
					off := seg.BaseOffset + uint64(s.local+idx)
					s.local += idx + 1
					return off, true
				}
			}
			s.mode = modeBoundary
			s.wpos = 0
		}

		if off, ok := s.nextBoundary(seg, data); ok {
			return off, true
		}

		s.seg++
		s.local = 0
		s.mode = modeSegment
	}
	return 0, false
}

// nextBoundary searches the overlap window between the current segment and
// the next adjacent one. Only matches that start in the current segment and
// end in the next are yielded; all others are covered by the per-segment
// search.
func (s *Scanner) nextBoundary(seg Segment, data []byte) (uint64, bool) {
	if len(s.pattern) < 2 || s.seg+1 >= len(s.c.segments) {
		return 0, false
	}
	next := s.c.segments[s.seg+1]
	if seg.End() != next.BaseOffset {
		return 0, false
	}

	k := len(s.pattern) - 1
	if k > len(data) {
		k = len(data)
	}
	head := k
	if head > len(s.c.data[s.seg+1]) {
		head = len(s.c.data[s.seg+1])
	}
	window := make([]byte, 0, k+head)
	window = append(window, data[len(data)-k:]...)
	window = append(window, s.c.data[s.seg+1][:head]...)

	for ; s.wpos+len(s.pattern) <= len(window); s.wpos++ {
		if s.wpos >= k { // starts in the next segment
			break
		}
		if s.wpos+len(s.pattern) <= k { // ends in the current segment
			continue
		}
		if bytes.HasPrefix(window[s.wpos:], s.pattern) {
			off := seg.End() - uint64(k) + uint64(s.wpos)
			s.wpos++
			return off, true
		}
	}
	return 0, false
}

// Err returns a non-nil error if the scan ended due to context cancellation.
func (s *Scanner) Err() error { return s.err }
