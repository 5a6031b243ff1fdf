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
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageRecord(id int64, offset uint64, fields map[string]interface{}) *DecodedRecord {
	all := map[string]interface{}{"message_id": id}
	for k, v := range fields {
		all[k] = v
	}
	return &DecodedRecord{
		Kind:       KindMessage,
		Fields:     all,
		Provenance: Provenance{Offset: offset},
	}
}

func TestValidTimestamp(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"Zero", time.Time{}, false},
		{"Epoch", time.Unix(0, 0), false},
		{"BeforeTelegram", time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"Plausible", time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC), true},
		{"FarFuture", time.Now().Add(100 * 24 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidTimestamp(tt.t))
		})
	}
}

func TestPreferComplete(t *testing.T) {
	date := time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC)

	sparse := messageRecord(1, 0x100, nil)
	full := messageRecord(1, 0x200, map[string]interface{}{"text": "hi", "date": date})
	older := messageRecord(1, 0x300, map[string]interface{}{"text": "old", "date": date.Add(-time.Hour)})
	newer := messageRecord(1, 0x400, map[string]interface{}{"text": "new", "date": date})
	broken := messageRecord(1, 0x500, map[string]interface{}{"text": "x", "date": time.Unix(0, 0)})
	brokenLater := messageRecord(1, 0x600, map[string]interface{}{"text": "y", "date": time.Unix(0, 0)})

	tb := PreferComplete("date")
	tests := []struct {
		name string
		a, b *DecodedRecord
		want *DecodedRecord
	}{
		{"CompletenessWins", sparse, full, full},
		{"CompletenessWinsReversed", full, sparse, full},
		{"NewerDateWins", older, newer, newer},
		{"NewerDateWinsReversed", newer, older, newer},
		{"InvalidDateFallsBackToOffset", broken, brokenLater, broken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, tt.want, tb(tt.a, tt.b))
		})
	}
}

func TestBuildEntities(t *testing.T) {
	date := time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC)
	records := []*DecodedRecord{
		messageRecord(7, 0x100, map[string]interface{}{"text": "hello", "date": date}),
		messageRecord(7, 0x900, map[string]interface{}{"text": "hello", "sender_id": int64(3)}),
		messageRecord(8, 0x500, map[string]interface{}{"text": "other"}),
	}

	entities := BuildEntities(records, KindMessage, "message_id", PreferComplete("date"))
	require.Len(t, entities, 2)

	merged := entities["7"]
	require.NotNil(t, merged)
	// the winner keeps its fields, the losing copy fills the gaps
	assert.Equal(t, "hello", merged.Fields["text"])
	assert.Equal(t, date, merged.Fields["date"])
	assert.Equal(t, int64(3), merged.Fields["sender_id"])
	assert.Len(t, merged.Sources, 2)
}

func TestBuildEntitiesDeterministic(t *testing.T) {
	date := time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC)
	records := []*DecodedRecord{
		messageRecord(7, 0x100, map[string]interface{}{"text": "a", "date": date}),
		messageRecord(7, 0x200, map[string]interface{}{"text": "b", "date": date.Add(time.Minute)}),
		messageRecord(7, 0x300, map[string]interface{}{"text": "c"}),
	}
	shuffled := []*DecodedRecord{records[2], records[0], records[1]}

	want := BuildEntities(records, KindMessage, "message_id", PreferComplete("date"))
	got := BuildEntities(shuffled, KindMessage, "message_id", PreferComplete("date"))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildEntities() is input order dependent (-want +got):\n%s", diff)
	}
}

func TestSortRecords(t *testing.T) {
	records := []*DecodedRecord{
		messageRecord(2, 0x200, nil),
		{Kind: KindContact, Fields: map[string]interface{}{"user_id": int64(1)}, Provenance: Provenance{Offset: 0x300}},
		messageRecord(1, 0x100, nil),
	}

	SortRecords(records)

	assert.Equal(t, KindContact, records[0].Kind)
	assert.Equal(t, uint64(0x100), records[1].Provenance.Offset)
	assert.Equal(t, uint64(0x200), records[2].Provenance.Offset)
}
