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
	"fmt"
	"sort"

	"github.com/forensicanalysis/imfinder"
)

// Organizer links and deduplicates the decoded records of one run. It is
// pure: the same record set organizes to the same OrganizedData regardless
// of discovery order.
//
// The tie-break between heap generation copies is the policy documented in
// the package comment: completeness, then validated message date, then
// lowest offset. Reference conflicts are broken deterministically (the
// winning copy's reference is kept) and recorded in the conflict list.
type Organizer struct{}

func (o *Organizer) Organize(records []*imfinder.DecodedRecord) (*imfinder.OrganizedData, error) {
	imfinder.SortRecords(records)

	od := &imfinder.OrganizedData{
		Platform: Name,
		Entities: map[string]map[string]*imfinder.Entity{
			imfinder.KindAccount:      imfinder.BuildEntities(records, imfinder.KindAccount, "account_id", imfinder.PreferComplete("")),
			imfinder.KindContact:      imfinder.BuildEntities(records, imfinder.KindContact, "user_id", imfinder.PreferComplete("")),
			imfinder.KindConversation: imfinder.BuildEntities(records, imfinder.KindConversation, "conversation_id", imfinder.PreferComplete("")),
			imfinder.KindMessage:      imfinder.BuildEntities(records, imfinder.KindMessage, "message_id", imfinder.PreferComplete("date")),
			imfinder.KindAttachment:   imfinder.BuildEntities(records, imfinder.KindAttachment, "attachment_id", imfinder.PreferComplete("")),
		},
	}

	od.Conflicts = append(od.Conflicts, ambiguousReferences(records, imfinder.KindMessage, "message_id", "conversation_id")...)
	od.Conflicts = append(od.Conflicts, ambiguousReferences(records, imfinder.KindAttachment, "attachment_id", "message_id")...)

	o.linkMessages(od)
	o.linkAttachments(od)
	o.linkAccount(od)
	return od, nil
}

// linkMessages places every message in its conversation. A message that
// references a conversation no conversation record was recovered for gets a
// stub conversation derived from the reference, like the original heap still
// implied it. Messages without any conversation reference are a conflict and
// stay unattached.
func (o *Organizer) linkMessages(od *imfinder.OrganizedData) {
	conversations := od.Entities[imfinder.KindConversation]
	for _, message := range od.Kind(imfinder.KindMessage) {
		convID, ok := message.Fields["conversation_id"]
		if !ok {
			od.Conflicts = append(od.Conflicts, &imfinder.OrganizeError{
				Kind:   imfinder.KindMessage,
				Entity: message.ID,
				Reason: "no conversation reference, message left unattached",
			})
			continue
		}
		key := fmt.Sprint(convID)
		conversation, ok := conversations[key]
		if !ok {
			conversation = &imfinder.Entity{
				ID:         key,
				Kind:       imfinder.KindConversation,
				Fields:     map[string]interface{}{"conversation_id": convID},
				Confidence: imfinder.ConfidenceReduced,
			}
			conversations[key] = conversation
		}
		conversation.Fields["message_ids"] = appendID(conversation.Fields["message_ids"], message.ID)
	}
}

// linkAttachments attaches attachment entities to their messages.
func (o *Organizer) linkAttachments(od *imfinder.OrganizedData) {
	messages := od.Entities[imfinder.KindMessage]
	for _, attachment := range od.Kind(imfinder.KindAttachment) {
		msgID, ok := attachment.Fields["message_id"]
		if !ok {
			od.Conflicts = append(od.Conflicts, &imfinder.OrganizeError{
				Kind:   imfinder.KindAttachment,
				Entity: attachment.ID,
				Reason: "no message reference, attachment left unattached",
			})
			continue
		}
		message, ok := messages[fmt.Sprint(msgID)]
		if !ok {
			od.Conflicts = append(od.Conflicts, &imfinder.OrganizeError{
				Kind:   imfinder.KindAttachment,
				Entity: attachment.ID,
				Reason: "referenced message was not recovered",
			})
			continue
		}
		message.Fields["attachment_ids"] = appendID(message.Fields["attachment_ids"], attachment.ID)
	}
}

// linkAccount binds contacts and conversations to the primary account. Only
// one account is supported; when several account objects are recovered the
// most complete one wins and the rest is recorded as a conflict.
func (o *Organizer) linkAccount(od *imfinder.OrganizedData) {
	accounts := od.Kind(imfinder.KindAccount)
	if len(accounts) == 0 {
		return
	}

	primary := accounts[0]
	for _, account := range accounts[1:] {
		if len(account.Fields) > len(primary.Fields) {
			primary = account
		}
	}
	if len(accounts) > 1 {
		od.Conflicts = append(od.Conflicts, &imfinder.OrganizeError{
			Kind:   imfinder.KindAccount,
			Entity: primary.ID,
			Reason: fmt.Sprintf("%d account objects recovered, keeping the most complete", len(accounts)),
		})
	}
	primary.Fields["primary"] = true

	for _, contact := range od.Kind(imfinder.KindContact) {
		primary.Fields["contact_ids"] = appendID(primary.Fields["contact_ids"], contact.ID)
	}
	for _, conversation := range od.Kind(imfinder.KindConversation) {
		primary.Fields["conversation_ids"] = appendID(primary.Fields["conversation_ids"], conversation.ID)
	}
}

// ambiguousReferences reports logical objects whose recovered copies
// disagree about a reference field. The dedup winner's reference is the one
// that is kept.
func ambiguousReferences(records []*imfinder.DecodedRecord, kind, idField, refField string) []*imfinder.OrganizeError {
	refs := map[string]map[string]bool{}
	for _, r := range records {
		if r.Kind != kind {
			continue
		}
		id, ok := r.Fields[idField]
		if !ok {
			continue
		}
		ref, ok := r.Fields[refField]
		if !ok {
			continue
		}
		key := fmt.Sprint(id)
		if refs[key] == nil {
			refs[key] = map[string]bool{}
		}
		refs[key][fmt.Sprint(ref)] = true
	}

	var ids []string
	for id, seen := range refs {
		if len(seen) > 1 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var conflicts []*imfinder.OrganizeError
	for _, id := range ids {
		conflicts = append(conflicts, &imfinder.OrganizeError{
			Kind:   kind,
			Entity: id,
			Reason: fmt.Sprintf("copies disagree about %s, keeping the preferred copy's value", refField),
		})
	}
	return conflicts
}

func appendID(existing interface{}, id string) []string {
	ids, _ := existing.([]string)
	for _, known := range ids {
		if known == id {
			return ids
		}
	}
	return append(ids, id)
}
