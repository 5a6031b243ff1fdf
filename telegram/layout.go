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

package telegram

import (
	"encoding/binary"
	"math"
	"unicode/utf16"

	"github.com/pkg/errors"
)

// Record layouts of the cached objects, relative to the hit offset. All
// integers are little-endian. Variable length text follows the QString
// convention: a uint32 length in UTF-16 code units, 0xFFFFFFFF for a null
// string, then the UTF-16LE code units.
//
//     account       sig(4) accountID(8) ownerID(8)
//     user          sig(4) userID(8) flags(4) name(q) username(q) phone(q) about(q)
//     conversation  sig(4) convID(8) ctype(4) flags(4) participants(4) title(q)
//     message       sig(4) msgID(8) convID(8) senderID(8) date(4) flags(4) text(q)
//     attachment    sig(4) attachmentID(8) msgID(8) atype(4) payload
//
// The attachment payload depends on atype: files carry size(8) name(q)
// path(q) url(q), locations carry latitude(8) longitude(8) title(q)
// description(q).

const (
	nullQString     = 0xFFFFFFFF
	maxQStringUnits = 2048

	userFlagContact = 1 << 0
	userFlagBlocked = 1 << 1
	userFlagBot     = 1 << 2

	convTypeIndividual = 1
	convTypeGroup      = 2
	convTypeChannel    = 3

	convFlagPublic    = 1 << 0
	convFlagMegagroup = 1 << 1

	msgFlagOutgoing = 1 << 0

	attachmentTypeFile     = 1
	attachmentTypeLocation = 2
)

var errTruncated = errors.New("record window truncated")

// A fieldReader walks the byte window of one record. Every read is bounds
// checked against the window; the first violation sticks and poisons all
// further reads.
type fieldReader struct {
	window []byte
	off    int
	err    error
}

func (r *fieldReader) uint32() uint32 {
	if r.err != nil {
		return 0
	}
	if r.off+4 > len(r.window) {
		r.err = errTruncated
		return 0
	}
	v := binary.LittleEndian.Uint32(r.window[r.off:])
	r.off += 4
	return v
}

func (r *fieldReader) int64() int64 {
	if r.err != nil {
		return 0
	}
	if r.off+8 > len(r.window) {
		r.err = errTruncated
		return 0
	}
	v := int64(binary.LittleEndian.Uint64(r.window[r.off:]))
	r.off += 8
	return v
}

func (r *fieldReader) float64() float64 {
	if r.err != nil {
		return 0
	}
	if r.off+8 > len(r.window) {
		r.err = errTruncated
		return 0
	}
	v := math.Float64frombits(binary.LittleEndian.Uint64(r.window[r.off:]))
	r.off += 8
	return v
}

// qstring reads a length prefixed UTF-16 string. A null string is reported
// through ok, an implausible or out of bounds length through the reader
// error.
func (r *fieldReader) qstring() (s string, ok bool) {
	n := r.uint32()
	if r.err != nil {
		return "", false
	}
	if n == nullQString {
		return "", false
	}
	if n > maxQStringUnits {
		r.err = errors.Errorf("string length %d exceeds limit", n)
		return "", false
	}
	if r.off+int(n)*2 > len(r.window) {
		r.err = errors.Errorf("string length %d points outside the record window", n)
		return "", false
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(r.window[r.off+i*2:])
	}
	r.off += int(n) * 2
	return string(utf16.Decode(units)), true
}
