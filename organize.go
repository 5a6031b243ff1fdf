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
	"fmt"
	"sort"
	"time"

	"github.com/imdario/mergo"
)

// Timestamps outside this range are treated as decode garbage and never used
// for deduplication decisions.
var (
	timestampMin = time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC)
	timestampMax = time.Now().Add(48 * time.Hour)
)

// ValidTimestamp reports whether a recovered time value is plausible enough
// to participate in tie-breaks.
func ValidTimestamp(t time.Time) bool {
	return t.After(timestampMin) && t.Before(timestampMax)
}

// A TieBreak decides which of two recovered copies of the same logical object
// is authoritative. It must be deterministic.
type TieBreak func(a, b *DecodedRecord) *DecodedRecord

// PreferComplete is the default deduplication policy: the copy with the
// highest field completeness wins. On equal completeness a validated
// timestamp in timestampField decides (most recent copy wins); without one
// the lowest offset, earliest resident copy wins.
func PreferComplete(timestampField string) TieBreak {
	return func(a, b *DecodedRecord) *DecodedRecord {
		if a.Completeness() != b.Completeness() {
			if a.Completeness() > b.Completeness() {
				return a
			}
			return b
		}
		if timestampField != "" {
			ta, aok := fieldTime(a.Fields, timestampField)
			tb, bok := fieldTime(b.Fields, timestampField)
			if aok && bok && !ta.Equal(tb) {
				if ta.After(tb) {
					return a
				}
				return b
			}
		}
		if a.Provenance.Offset <= b.Provenance.Offset {
			return a
		}
		return b
	}
}

func fieldTime(fields map[string]interface{}, key string) (time.Time, bool) {
	t, ok := fields[key].(time.Time)
	if !ok || !ValidTimestamp(t) {
		return time.Time{}, false
	}
	return t, true
}

// BuildEntities groups records of one kind by their identifier field,
// deduplicates each group with the given tie-break and merges the fields of
// the losing copies into the winner, so a field only resident in an older
// heap generation is not lost. The result is deterministic for any input
// order.
func BuildEntities(records []*DecodedRecord, kind, idField string, tb TieBreak) map[string]*Entity {
	groups := map[string][]*DecodedRecord{}
	for _, r := range records {
		if r.Kind != kind {
			continue
		}
		id, ok := r.Fields[idField]
		if !ok {
			continue
		}
		key := fmt.Sprint(id)
		groups[key] = append(groups[key], r)
	}

	entities := make(map[string]*Entity, len(groups))
	for id, copies := range groups {
		sort.Slice(copies, func(i, j int) bool {
			return copies[i].Provenance.Offset < copies[j].Provenance.Offset
		})

		winner := copies[0]
		for _, c := range copies[1:] {
			winner = tb(winner, c)
		}

		fields := make(map[string]interface{}, len(winner.Fields))
		for k, v := range winner.Fields {
			fields[k] = v
		}
		var sources []Provenance
		for _, c := range copies {
			sources = append(sources, c.Provenance)
			if c != winner {
				// fills only fields the winner is missing
				_ = mergo.Merge(&fields, c.Fields)
			}
		}

		entities[id] = &Entity{
			ID:         id,
			Kind:       kind,
			Fields:     fields,
			Sources:    sources,
			Confidence: winner.Confidence,
		}
	}
	return entities
}

// SortRecords orders records by kind, offset and completeness. Organizers
// sort their input first so the output does not depend on discovery order.
func SortRecords(records []*DecodedRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Kind != records[j].Kind {
			return records[i].Kind < records[j].Kind
		}
		if records[i].Provenance.Offset != records[j].Provenance.Offset {
			return records[i].Provenance.Offset < records[j].Provenance.Offset
		}
		return records[i].Completeness() > records[j].Completeness()
	})
}
