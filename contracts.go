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

	"github.com/forensicanalysis/imfinder/capture"
)

// A Signature is one byte pattern marking the start of a record of one kind.
type Signature struct {
	ID      int
	Kind    string
	Pattern []byte
}

// An Extractor scans a capture for the byte signatures of its platform and
// emits a Hit for every occurrence. An empty result is valid, not an error.
// Capture level failures are returned and abort the run. The emit callback
// is called in deterministic order; returning an error from it stops the
// extraction.
type Extractor interface {
	Extract(ctx context.Context, c *capture.Capture, emit func(Hit) error) error
}

// An Analyzer decodes the byte window following a Hit into a DecodedRecord.
// Analyze must be pure and deterministic: an identical window yields an
// identical record, independent of scan order. Length and offset fields read
// from memory must be validated against the window before use; a violation
// is reported as a *DecodeError and invalidates only that record.
type Analyzer interface {
	// WindowSize is the number of bytes the pipeline reads after a hit
	// offset and hands to Analyze. The window may be shorter near the
	// capture end.
	WindowSize() int
	Analyze(hit Hit, window []byte) (*DecodedRecord, error)
}

// An Organizer consumes the complete DecodedRecord set of one run, resolves
// references between entity kinds, deduplicates recovered copies of the same
// logical object and emits OrganizedData. Given an identical input set the
// output is identical regardless of discovery order.
type Organizer interface {
	Organize(records []*DecodedRecord) (*OrganizedData, error)
}

// A Factory constructs the final artifact objects from OrganizedData. All
// construction operations reject data that was not produced by the factory's
// own triad with a *PlatformMismatchError.
type Factory interface {
	Platform() string
	CreateAccounts(od *OrganizedData) ([]Artifact, error)
	CreateContacts(od *OrganizedData) ([]Artifact, error)
	CreateConversations(od *OrganizedData) ([]Artifact, error)
	CreateMessages(od *OrganizedData) ([]Artifact, error)
}

// A Platform binds one Extractor, Analyzer, Organizer and Factory to one
// platform identifier. The triad is registered atomically, so a registry can
// never hold a mismatched combination.
type Platform struct {
	Name      string
	Extractor Extractor
	Analyzer  Analyzer
	Organizer Organizer
	Factory   Factory
}
