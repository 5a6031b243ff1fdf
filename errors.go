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

import "fmt"

// UnsupportedPlatformError is returned when a platform identifier is not
// registered. It surfaces before any scanning starts.
type UnsupportedPlatformError struct {
	Platform string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("instant messaging platform %q is not supported", e.Platform)
}

// PlatformMismatchError is returned when a Factory is handed OrganizedData
// that was produced by another platform's triad.
type PlatformMismatchError struct {
	Want string
	Got  string
}

func (e *PlatformMismatchError) Error() string {
	return fmt.Sprintf("factory for platform %q cannot construct artifacts from %q data", e.Want, e.Got)
}

// DecodeError marks a single record as undecodable. It is record local:
// the record is dropped and counted, the run continues.
type DecodeError struct {
	Kind   string
	Offset uint64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode %s record at offset %#x: %s", e.Kind, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// OrganizeError describes a conflicting or unresolvable reference found while
// organizing. It is recovered through the platform's deterministic tie-break
// policy and only logged into the run summary.
type OrganizeError struct {
	Kind   string
	Entity string
	Reason string
}

func (e *OrganizeError) Error() string {
	return fmt.Sprintf("could not fully organize %s %q: %s", e.Kind, e.Entity, e.Reason)
}
