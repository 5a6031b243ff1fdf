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

import "sort"

// Record kinds shared by all platforms.
const (
	KindAccount      = "account"
	KindContact      = "contact"
	KindConversation = "conversation"
	KindMessage      = "message"
	KindAttachment   = "attachment"
)

// A Hit is a located occurrence of a byte signature believed to mark the
// start of a record. Hits are transient, they only live between the scanning
// and the decoding stage of one run.
type Hit struct {
	Offset    uint64
	PatternID int
	Kind      string
}

// Confidence states how complete a decoded record is.
type Confidence int

const (
	// ConfidenceFull means all known fields of the record were decodable.
	ConfidenceFull Confidence = iota
	// ConfidenceReduced means optional fields were missing or corrupt.
	ConfidenceReduced
)

func (c Confidence) String() string {
	if c == ConfidenceReduced {
		return "reduced"
	}
	return "full"
}

// Provenance is the originating segment and offset of a decoded record,
// retained for investigative traceability.
type Provenance struct {
	SegmentID int
	Offset    uint64
}

// A DecodedRecord is the typed field mapping produced by interpreting the
// bytes following a Hit. It is immutable once produced.
type DecodedRecord struct {
	Kind       string
	Fields     map[string]interface{}
	Provenance Provenance
	Confidence Confidence
}

// Completeness returns the number of decoded fields. It is the primary
// criterion when deduplicating heap generation copies.
func (r *DecodedRecord) Completeness() int {
	return len(r.Fields)
}

// An Entity is one resolved logical object, merged from all recovered copies
// of it.
type Entity struct {
	ID         string
	Kind       string
	Fields     map[string]interface{}
	Sources    []Provenance
	Confidence Confidence
}

// OrganizedData is the deduplicated, linked view of all DecodedRecords of one
// run. It is stamped with the producing platform identifier, which factories
// verify before constructing artifacts. It is immutable once emitted by the
// Organizer.
type OrganizedData struct {
	Platform  string
	Entities  map[string]map[string]*Entity
	Conflicts []*OrganizeError
}

// Kind returns all entities of one kind ordered by entity id, so iteration
// over OrganizedData is deterministic.
func (od *OrganizedData) Kind(kind string) []*Entity {
	byID := od.Entities[kind]
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	entities := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		entities = append(entities, byID[id])
	}
	return entities
}

// Entity returns a single entity by kind and id.
func (od *OrganizedData) Entity(kind, id string) (*Entity, bool) {
	e, ok := od.Entities[kind][id]
	return e, ok
}
