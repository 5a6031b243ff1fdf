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
	"testing"
	"time"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forensicanalysis/imfinder"
)

// Serialization helpers producing record windows like they appear in a dump.

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func i64le(v int64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(v))
	return b
}

func f64le(v float64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	return b
}

func qstr(s string) []byte {
	units := utf16.Encode([]rune(s))
	b := u32le(uint32(len(units)))
	for _, u := range units {
		b = append(b, byte(u), byte(u>>8))
	}
	return b
}

func nullStr() []byte {
	return u32le(nullQString)
}

func concat(parts ...[]byte) []byte {
	var b []byte
	for _, p := range parts {
		b = append(b, p...)
	}
	return b
}

const testDate = 1623758400 // 2021-06-15T12:00:00Z

func TestAnalyzeUser(t *testing.T) {
	a := &Analyzer{}
	hit := imfinder.Hit{Kind: imfinder.KindContact}

	t.Run("Full", func(t *testing.T) {
		window := concat(sigUser, i64le(42), u32le(userFlagContact|userFlagBot),
			qstr("Alice"), qstr("alice"), qstr("+4915123456789"), qstr("busy"))
		record, err := a.Analyze(hit, window)
		require.NoError(t, err)

		assert.Equal(t, imfinder.ConfidenceFull, record.Confidence)
		assert.Equal(t, int64(42), record.Fields["user_id"])
		assert.Equal(t, "Alice", record.Fields["name"])
		assert.Equal(t, "alice", record.Fields["username"])
		assert.Equal(t, "+4915123456789", record.Fields["phone_number"])
		assert.Equal(t, "busy", record.Fields["about"])
		assert.Equal(t, true, record.Fields["is_contact"])
		assert.Equal(t, false, record.Fields["is_blocked"])
		assert.Equal(t, true, record.Fields["is_bot"])
	})

	t.Run("MissingStringsReduceConfidence", func(t *testing.T) {
		window := concat(sigUser, i64le(42), u32le(0),
			qstr("Alice"), nullStr(), nullStr(), nullStr())
		record, err := a.Analyze(hit, window)
		require.NoError(t, err)

		assert.Equal(t, imfinder.ConfidenceReduced, record.Confidence)
		assert.Equal(t, "Alice", record.Fields["name"])
		assert.NotContains(t, record.Fields, "username")
	})

	t.Run("Unicode", func(t *testing.T) {
		window := concat(sigUser, i64le(42), u32le(0),
			qstr("Büro 🚀"), nullStr(), nullStr(), nullStr())
		record, err := a.Analyze(hit, window)
		require.NoError(t, err)
		assert.Equal(t, "Büro 🚀", record.Fields["name"])
	})
}

func TestAnalyzeAccount(t *testing.T) {
	a := &Analyzer{}
	hit := imfinder.Hit{Kind: imfinder.KindAccount}

	record, err := a.Analyze(hit, concat(sigAccount, i64le(1), i64le(10)))
	require.NoError(t, err)
	assert.Equal(t, imfinder.ConfidenceFull, record.Confidence)
	assert.Equal(t, int64(1), record.Fields["account_id"])
	assert.Equal(t, int64(10), record.Fields["owner_id"])

	record, err = a.Analyze(hit, concat(sigAccount, i64le(1), i64le(0)))
	require.NoError(t, err)
	assert.Equal(t, imfinder.ConfidenceReduced, record.Confidence)
	assert.NotContains(t, record.Fields, "owner_id")
}

func TestAnalyzeConversation(t *testing.T) {
	a := &Analyzer{}
	hit := imfinder.Hit{Kind: imfinder.KindConversation}

	tests := []struct {
		name       string
		ctype      uint32
		flags      uint32
		wantType   string
		wantFields []string
	}{
		{"Individual", convTypeIndividual, 0, "individual", nil},
		{"Group", convTypeGroup, convFlagMegagroup, "group", []string{"is_megagroup", "is_public", "participants_count"}},
		{"Channel", convTypeChannel, convFlagPublic, "channel", []string{"is_public", "subscribers_count"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := concat(sigConversation, i64le(100), u32le(tt.ctype), u32le(tt.flags),
				u32le(250), qstr("the title"))
			record, err := a.Analyze(hit, window)
			require.NoError(t, err)

			assert.Equal(t, imfinder.ConfidenceFull, record.Confidence)
			assert.Equal(t, tt.wantType, record.Fields["conversation_type"])
			assert.Equal(t, "the title", record.Fields["name"])
			for _, field := range tt.wantFields {
				assert.Contains(t, record.Fields, field)
			}
		})
	}

	t.Run("UnknownType", func(t *testing.T) {
		window := concat(sigConversation, i64le(100), u32le(99), u32le(0), u32le(0), qstr("x"))
		record, err := a.Analyze(hit, window)
		require.NoError(t, err)
		assert.Equal(t, imfinder.ConfidenceReduced, record.Confidence)
		assert.NotContains(t, record.Fields, "conversation_type")
	})
}

func TestAnalyzeMessage(t *testing.T) {
	a := &Analyzer{}
	hit := imfinder.Hit{Kind: imfinder.KindMessage}

	t.Run("Full", func(t *testing.T) {
		window := concat(sigMessage, i64le(1000), i64le(100), i64le(10),
			u32le(testDate), u32le(msgFlagOutgoing), qstr("hello"))
		record, err := a.Analyze(hit, window)
		require.NoError(t, err)

		assert.Equal(t, imfinder.ConfidenceFull, record.Confidence)
		assert.Equal(t, int64(1000), record.Fields["message_id"])
		assert.Equal(t, int64(100), record.Fields["conversation_id"])
		assert.Equal(t, int64(10), record.Fields["sender_id"])
		assert.Equal(t, true, record.Fields["outgoing"])
		assert.Equal(t, "hello", record.Fields["text"])
		assert.Equal(t, time.Unix(testDate, 0).UTC(), record.Fields["date"])
	})

	t.Run("ImplausibleDateIsDropped", func(t *testing.T) {
		window := concat(sigMessage, i64le(1000), i64le(100), i64le(10),
			u32le(1), u32le(0), qstr("hello"))
		record, err := a.Analyze(hit, window)
		require.NoError(t, err)

		assert.Equal(t, imfinder.ConfidenceReduced, record.Confidence)
		assert.NotContains(t, record.Fields, "date")
	})

	t.Run("MissingReferencesReduceConfidence", func(t *testing.T) {
		window := concat(sigMessage, i64le(1000), i64le(0), i64le(0),
			u32le(testDate), u32le(0), qstr("hello"))
		record, err := a.Analyze(hit, window)
		require.NoError(t, err)

		assert.Equal(t, imfinder.ConfidenceReduced, record.Confidence)
		assert.NotContains(t, record.Fields, "conversation_id")
		assert.NotContains(t, record.Fields, "sender_id")
	})
}

func TestAnalyzeAttachment(t *testing.T) {
	a := &Analyzer{}
	hit := imfinder.Hit{Kind: imfinder.KindAttachment}

	t.Run("File", func(t *testing.T) {
		window := concat(sigAttachment, i64le(5000), i64le(1000), u32le(attachmentTypeFile),
			i64le(2048), qstr("doc.pdf"), qstr("/downloads/doc.pdf"), qstr("https://example.com/doc.pdf"))
		record, err := a.Analyze(hit, window)
		require.NoError(t, err)

		assert.Equal(t, imfinder.ConfidenceFull, record.Confidence)
		assert.Equal(t, "file", record.Fields["attachment_type"])
		assert.Equal(t, "doc.pdf", record.Fields["filename"])
		assert.Equal(t, "/downloads/doc.pdf", record.Fields["filepath"])
		assert.Equal(t, int64(2048), record.Fields["size"])
	})

	t.Run("Location", func(t *testing.T) {
		window := concat(sigAttachment, i64le(5000), i64le(1000), u32le(attachmentTypeLocation),
			f64le(52.52), f64le(13.405), qstr("Berlin"), qstr("meeting point"))
		record, err := a.Analyze(hit, window)
		require.NoError(t, err)

		assert.Equal(t, imfinder.ConfidenceFull, record.Confidence)
		assert.Equal(t, "location", record.Fields["attachment_type"])
		assert.Equal(t, 52.52, record.Fields["latitude"])
		assert.Equal(t, 13.405, record.Fields["longitude"])
		assert.Equal(t, "Berlin", record.Fields["title"])
	})

	t.Run("UnknownType", func(t *testing.T) {
		window := concat(sigAttachment, i64le(5000), i64le(1000), u32le(99))
		_, err := a.Analyze(hit, window)
		var derr *imfinder.DecodeError
		require.ErrorAs(t, err, &derr)
	})
}

func TestAnalyzeCorrupt(t *testing.T) {
	a := &Analyzer{}

	tests := []struct {
		name   string
		hit    imfinder.Hit
		window []byte
	}{
		{"TruncatedWindow", imfinder.Hit{Kind: imfinder.KindMessage},
			concat(sigMessage, i64le(1000))},
		{"OversizedStringLength", imfinder.Hit{Kind: imfinder.KindContact},
			concat(sigUser, i64le(42), u32le(0), u32le(maxQStringUnits+1))},
		{"StringPastWindowEnd", imfinder.Hit{Kind: imfinder.KindContact},
			concat(sigUser, i64le(42), u32le(0), u32le(500))},
		{"ZeroID", imfinder.Hit{Kind: imfinder.KindMessage},
			concat(sigMessage, i64le(0), i64le(100), i64le(10), u32le(testDate), u32le(0), qstr("x"))},
		{"UnknownKind", imfinder.Hit{Kind: "sticker"}, make([]byte, 64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Analyze(tt.hit, tt.window)
			var derr *imfinder.DecodeError
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, tt.hit.Kind, derr.Kind)
		})
	}
}

func TestWindowSize(t *testing.T) {
	a := &Analyzer{}
	// the window must cover the largest record this analyzer decodes
	largest := concat(sigUser, i64le(1), u32le(0),
		qstr(string(make([]rune, maxQStringUnits))), qstr(string(make([]rune, maxQStringUnits))),
		qstr(string(make([]rune, maxQStringUnits))), qstr(string(make([]rune, maxQStringUnits))))
	assert.GreaterOrEqual(t, a.WindowSize(), len(largest))
}
