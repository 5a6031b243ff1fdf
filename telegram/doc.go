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

// Package telegram recovers Telegram Desktop artifacts from memory captures.
//
// Telegram Desktop keeps its session cache in process memory. The package
// scans a capture for the header tags the cache serialization layer writes
// in front of account, user, conversation, message and attachment objects,
// decodes the records behind them (fixed little-endian fields followed by
// QString style length-prefixed UTF-16 text) and organizes the result into
// one account with its users and conversations.
//
// Deduplication policy
//
// Successive heap generations can hold several copies of the same logical
// object. The copy with the highest field completeness wins; on a tie a
// validated message date decides, most recent copy first; without one the
// copy at the lowest capture offset, which has been resident longest, wins.
// Fields only present in a losing copy are merged into the winner.
package telegram
