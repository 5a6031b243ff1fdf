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

import "github.com/forensicanalysis/imfinder"

// Name is the platform identifier Telegram Desktop is registered under.
const Name = "telegram-desktop"

// Header tags of the cached objects, as written by the session cache
// serialization layer. The first three bytes select the cache format, the
// fourth byte the object kind.
var (
	sigAccount      = []byte{0xDA, 0x31, 0x7B, 0x41}
	sigUser         = []byte{0xDA, 0x31, 0x7B, 0x55}
	sigConversation = []byte{0xDA, 0x31, 0x7B, 0x43}
	sigMessage      = []byte{0xDA, 0x31, 0x7B, 0x4D}
	sigAttachment   = []byte{0xDA, 0x31, 0x7B, 0x46}
)

// Signatures returns the byte signatures scanned for in a capture.
func Signatures() []imfinder.Signature {
	return []imfinder.Signature{
		{ID: 1, Kind: imfinder.KindAccount, Pattern: sigAccount},
		{ID: 2, Kind: imfinder.KindContact, Pattern: sigUser},
		{ID: 3, Kind: imfinder.KindConversation, Pattern: sigConversation},
		{ID: 4, Kind: imfinder.KindMessage, Pattern: sigMessage},
		{ID: 5, Kind: imfinder.KindAttachment, Pattern: sigAttachment},
	}
}

// Platform returns the complete Telegram Desktop triad for registration.
func Platform() *imfinder.Platform {
	return &imfinder.Platform{
		Name:      Name,
		Extractor: imfinder.NewPatternExtractor(Signatures()),
		Analyzer:  &Analyzer{},
		Organizer: &Organizer{},
		Factory:   &Factory{},
	}
}
