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

package imfinder

import (
	"context"
	"runtime"
	"sort"

	ahocorasick "github.com/BobuSumisu/aho-corasick"
	"golang.org/x/sync/errgroup"

	"github.com/forensicanalysis/imfinder/capture"
)

// PatternExtractor is a multi-pattern Extractor. All signatures of a platform
// are compiled into one Aho-Corasick automaton, so the capture is traversed
// once regardless of how many record kinds the platform knows. Segments are
// scanned concurrently; the emitted hit order is deterministic nevertheless
// because hits are sorted by offset before they are yielded.
type PatternExtractor struct {
	signatures []Signature
	trie       *ahocorasick.Trie
	maxLen     int
}

// NewPatternExtractor compiles the signature set into an extractor.
func NewPatternExtractor(signatures []Signature) *PatternExtractor {
	builder := ahocorasick.NewTrieBuilder()
	maxLen := 0
	for _, s := range signatures {
		builder.AddPattern(s.Pattern)
		if len(s.Pattern) > maxLen {
			maxLen = len(s.Pattern)
		}
	}
	return &PatternExtractor{
		signatures: signatures,
		trie:       builder.Build(),
		maxLen:     maxLen,
	}
}

// Extract scans all segments and emits the found hits ordered by offset.
// Cancellation is checked between emitted hits.
func (e *PatternExtractor) Extract(ctx context.Context, c *capture.Capture, emit func(Hit) error) error {
	segments := c.Segments()
	perSegment := make([][]Hit, len(segments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range segments {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			seg := segments[i]
			for _, m := range e.trie.Match(c.SegmentBytes(i)) {
				sig := e.signatures[m.Pattern()]
				perSegment[i] = append(perSegment[i], Hit{
					Offset:    seg.BaseOffset + uint64(m.Pos()),
					PatternID: sig.ID,
					Kind:      sig.Kind,
				})
			}
			perSegment[i] = append(perSegment[i], e.boundaryHits(c, segments, i)...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var hits []Hit
	for _, segmentHits := range perSegment {
		hits = append(hits, segmentHits...)
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Offset != hits[j].Offset {
			return hits[i].Offset < hits[j].Offset
		}
		return hits[i].PatternID < hits[j].PatternID
	})

	for _, hit := range hits {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(hit); err != nil {
			return err
		}
	}
	return nil
}

// boundaryHits finds signatures straddling the gapless boundary between
// segment i and i+1. Only matches starting in segment i and ending in i+1
// are returned, everything else is covered by the per-segment scans.
func (e *PatternExtractor) boundaryHits(c *capture.Capture, segments []capture.Segment, i int) []Hit {
	if e.maxLen < 2 || i+1 >= len(segments) {
		return nil
	}
	seg, next := segments[i], segments[i+1]
	if seg.End() != next.BaseOffset {
		return nil
	}

	k := e.maxLen - 1
	if k > int(seg.Size) {
		k = int(seg.Size)
	}
	head := k
	if head > int(next.Size) {
		head = int(next.Size)
	}
	window := make([]byte, 0, k+head)
	window = append(window, c.SegmentBytes(i)[seg.Size-uint64(k):]...)
	window = append(window, c.SegmentBytes(i+1)[:head]...)

	var hits []Hit
	for _, m := range e.trie.Match(window) {
		sig := e.signatures[m.Pattern()]
		start := int(m.Pos())
		if start >= k || start+len(sig.Pattern) <= k {
			continue
		}
		hits = append(hits, Hit{
			Offset:    seg.End() - uint64(k) + uint64(start),
			PatternID: sig.ID,
			Kind:      sig.Kind,
		})
	}
	return hits
}
