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
	"time"

	"github.com/pkg/errors"

	"github.com/forensicanalysis/imfinder"
)

// Analyzer decodes Telegram Desktop records. Analyze is pure: it only looks
// at the hit and the byte window, so identical windows always produce
// identical records.
type Analyzer struct{}

// WindowSize covers the largest possible record: the fixed fields plus four
// maximum length strings.
func (a *Analyzer) WindowSize() int {
	return 44 + 4*(4+2*maxQStringUnits)
}

func (a *Analyzer) Analyze(hit imfinder.Hit, window []byte) (*imfinder.DecodedRecord, error) {
	r := &fieldReader{window: window, off: 4} // skip the signature
	var fields map[string]interface{}
	var reduced bool
	var err error

	switch hit.Kind {
	case imfinder.KindAccount:
		fields, reduced, err = decodeAccount(r)
	case imfinder.KindContact:
		fields, reduced, err = decodeUser(r)
	case imfinder.KindConversation:
		fields, reduced, err = decodeConversation(r)
	case imfinder.KindMessage:
		fields, reduced, err = decodeMessage(r)
	case imfinder.KindAttachment:
		fields, reduced, err = decodeAttachment(r)
	default:
		err = errors.Errorf("unknown record kind %q", hit.Kind)
	}
	if err != nil {
		return nil, &imfinder.DecodeError{Kind: hit.Kind, Offset: hit.Offset, Err: err}
	}

	confidence := imfinder.ConfidenceFull
	if reduced {
		confidence = imfinder.ConfidenceReduced
	}
	return &imfinder.DecodedRecord{
		Kind:       hit.Kind,
		Fields:     fields,
		Confidence: confidence,
	}, nil
}

func decodeAccount(r *fieldReader) (map[string]interface{}, bool, error) {
	accountID := r.int64()
	ownerID := r.int64()
	if r.err != nil {
		return nil, false, r.err
	}
	if accountID <= 0 {
		return nil, false, errors.New("account record without account id")
	}

	fields := map[string]interface{}{"account_id": accountID}
	reduced := false
	if ownerID > 0 {
		fields["owner_id"] = ownerID
	} else {
		reduced = true
	}
	return fields, reduced, nil
}

func decodeUser(r *fieldReader) (map[string]interface{}, bool, error) {
	userID := r.int64()
	flags := r.uint32()
	name, hasName := r.qstring()
	username, hasUsername := r.qstring()
	phone, hasPhone := r.qstring()
	about, hasAbout := r.qstring()
	if r.err != nil {
		return nil, false, r.err
	}
	if userID <= 0 {
		return nil, false, errors.New("user record without user id")
	}

	fields := map[string]interface{}{
		"user_id":    userID,
		"is_contact": flags&userFlagContact != 0,
		"is_blocked": flags&userFlagBlocked != 0,
		"is_bot":     flags&userFlagBot != 0,
	}
	if hasName {
		fields["name"] = name
	}
	if hasUsername {
		fields["username"] = username
	}
	if hasPhone {
		fields["phone_number"] = phone
	}
	if hasAbout {
		fields["about"] = about
	}
	return fields, !hasName || !hasUsername || !hasPhone || !hasAbout, nil
}

func decodeConversation(r *fieldReader) (map[string]interface{}, bool, error) {
	convID := r.int64()
	ctype := r.uint32()
	flags := r.uint32()
	participants := r.uint32()
	title, hasTitle := r.qstring()
	if r.err != nil {
		return nil, false, r.err
	}
	if convID <= 0 {
		return nil, false, errors.New("conversation record without conversation id")
	}

	fields := map[string]interface{}{"conversation_id": convID}
	reduced := !hasTitle
	switch ctype {
	case convTypeIndividual:
		fields["conversation_type"] = "individual"
	case convTypeGroup:
		fields["conversation_type"] = "group"
		fields["is_megagroup"] = flags&convFlagMegagroup != 0
		fields["is_public"] = flags&convFlagPublic != 0
		fields["participants_count"] = int(participants)
	case convTypeChannel:
		fields["conversation_type"] = "channel"
		fields["is_public"] = flags&convFlagPublic != 0
		fields["subscribers_count"] = int(participants)
	default:
		reduced = true
	}
	if hasTitle {
		fields["name"] = title
	}
	return fields, reduced, nil
}

func decodeMessage(r *fieldReader) (map[string]interface{}, bool, error) {
	msgID := r.int64()
	convID := r.int64()
	senderID := r.int64()
	date := r.uint32()
	flags := r.uint32()
	text, hasText := r.qstring()
	if r.err != nil {
		return nil, false, r.err
	}
	if msgID <= 0 {
		return nil, false, errors.New("message record without message id")
	}

	fields := map[string]interface{}{
		"message_id": msgID,
		"outgoing":   flags&msgFlagOutgoing != 0,
	}
	reduced := !hasText
	if hasText {
		fields["text"] = text
	}
	if convID > 0 {
		fields["conversation_id"] = convID
	} else {
		reduced = true
	}
	if senderID > 0 {
		fields["sender_id"] = senderID
	} else {
		reduced = true
	}
	if t := time.Unix(int64(date), 0).UTC(); date != 0 && imfinder.ValidTimestamp(t) {
		fields["date"] = t
	} else {
		reduced = true
	}
	return fields, reduced, nil
}

func decodeAttachment(r *fieldReader) (map[string]interface{}, bool, error) {
	attachmentID := r.int64()
	msgID := r.int64()
	atype := r.uint32()
	if r.err != nil {
		return nil, false, r.err
	}
	if attachmentID <= 0 {
		return nil, false, errors.New("attachment record without attachment id")
	}

	fields := map[string]interface{}{"attachment_id": attachmentID}
	reduced := false
	if msgID > 0 {
		fields["message_id"] = msgID
	} else {
		reduced = true
	}

	switch atype {
	case attachmentTypeFile:
		size := r.int64()
		name, hasName := r.qstring()
		path, hasPath := r.qstring()
		url, hasURL := r.qstring()
		if r.err != nil {
			return nil, false, r.err
		}
		fields["attachment_type"] = "file"
		if size > 0 {
			fields["size"] = size
		}
		if hasName {
			fields["filename"] = name
		}
		if hasPath {
			fields["filepath"] = path
		}
		if hasURL {
			fields["url"] = url
		}
		reduced = reduced || !hasName || !hasPath
	case attachmentTypeLocation:
		latitude := r.float64()
		longitude := r.float64()
		title, hasTitle := r.qstring()
		description, hasDescription := r.qstring()
		if r.err != nil {
			return nil, false, r.err
		}
		fields["attachment_type"] = "location"
		fields["latitude"] = latitude
		fields["longitude"] = longitude
		if hasTitle {
			fields["title"] = title
		}
		if hasDescription {
			fields["description"] = description
		}
		reduced = reduced || !hasTitle
	default:
		return nil, false, errors.Errorf("unknown attachment type %d", atype)
	}
	return fields, reduced, nil
}
