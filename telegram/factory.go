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
	"sort"

	"github.com/forensicanalysis/imfinder"
)

// Factory constructs Telegram Desktop artifacts from OrganizedData. Every
// construction operation verifies that the data was produced by this
// platform's own triad.
type Factory struct{}

func (f *Factory) Platform() string { return Name }

func (f *Factory) check(od *imfinder.OrganizedData) error {
	if od == nil || od.Platform != Name {
		got := ""
		if od != nil {
			got = od.Platform
		}
		return &imfinder.PlatformMismatchError{Want: Name, Got: got}
	}
	return nil
}

// CreateAccounts builds the primary account with its contacts and
// conversations attached.
func (f *Factory) CreateAccounts(od *imfinder.OrganizedData) ([]imfinder.Artifact, error) {
	if err := f.check(od); err != nil {
		return nil, err
	}

	var artifacts []imfinder.Artifact
	for _, entity := range od.Kind(imfinder.KindAccount) {
		if ok, _ := entity.Fields["primary"].(bool); !ok {
			continue
		}
		account := &Account{
			AccountID:  fieldInt64(entity.Fields, "account_id"),
			Confidence: entity.Confidence.String(),
		}
		if ownerID, ok := entity.Fields["owner_id"]; ok {
			if owner, ok := od.Entity(imfinder.KindContact, fmtID(ownerID)); ok {
				account.Owner = newUser(owner)
			}
		}
		for _, id := range fieldIDs(entity.Fields, "contact_ids") {
			if contact, ok := od.Entity(imfinder.KindContact, id); ok {
				account.Contacts = append(account.Contacts, newUser(contact))
			}
		}
		for _, id := range fieldIDs(entity.Fields, "conversation_ids") {
			if conversation, ok := od.Entity(imfinder.KindConversation, id); ok {
				account.Conversations = append(account.Conversations, f.newConversation(od, conversation))
			}
		}
		artifacts = append(artifacts, account)
	}
	return artifacts, nil
}

// CreateContacts builds one artifact per recovered user.
func (f *Factory) CreateContacts(od *imfinder.OrganizedData) ([]imfinder.Artifact, error) {
	if err := f.check(od); err != nil {
		return nil, err
	}

	var artifacts []imfinder.Artifact
	for _, entity := range od.Kind(imfinder.KindContact) {
		artifacts = append(artifacts, newUser(entity))
	}
	return artifacts, nil
}

// CreateConversations builds one artifact per conversation, messages
// included and ordered by date.
func (f *Factory) CreateConversations(od *imfinder.OrganizedData) ([]imfinder.Artifact, error) {
	if err := f.check(od); err != nil {
		return nil, err
	}

	var artifacts []imfinder.Artifact
	for _, entity := range od.Kind(imfinder.KindConversation) {
		artifacts = append(artifacts, f.newConversation(od, entity))
	}
	return artifacts, nil
}

// CreateMessages builds one flat artifact per recovered message, also for
// messages whose conversation could not be resolved.
func (f *Factory) CreateMessages(od *imfinder.OrganizedData) ([]imfinder.Artifact, error) {
	if err := f.check(od); err != nil {
		return nil, err
	}

	var artifacts []imfinder.Artifact
	for _, entity := range od.Kind(imfinder.KindMessage) {
		artifacts = append(artifacts, f.newMessage(od, entity))
	}
	return artifacts, nil
}

func newUser(entity *imfinder.Entity) *User {
	return &User{
		UserID:      fieldInt64(entity.Fields, "user_id"),
		Name:        fieldString(entity.Fields, "name"),
		Username:    fieldString(entity.Fields, "username"),
		PhoneNumber: fieldString(entity.Fields, "phone_number"),
		About:       fieldString(entity.Fields, "about"),
		IsContact:   fieldBool(entity.Fields, "is_contact"),
		IsBlocked:   fieldBool(entity.Fields, "is_blocked"),
		IsBot:       fieldBool(entity.Fields, "is_bot"),
		Confidence:  entity.Confidence.String(),
	}
}

func newAttachment(entity *imfinder.Entity) *Attachment {
	return &Attachment{
		AttachmentID: fieldInt64(entity.Fields, "attachment_id"),
		Type:         fieldString(entity.Fields, "attachment_type"),
		Filename:     fieldString(entity.Fields, "filename"),
		Filepath:     fieldString(entity.Fields, "filepath"),
		URL:          fieldString(entity.Fields, "url"),
		Size:         fieldInt64(entity.Fields, "size"),
		Latitude:     fieldFloat64(entity.Fields, "latitude"),
		Longitude:    fieldFloat64(entity.Fields, "longitude"),
		Title:        fieldString(entity.Fields, "title"),
		Description:  fieldString(entity.Fields, "description"),
		Confidence:   entity.Confidence.String(),
	}
}

func (f *Factory) newMessage(od *imfinder.OrganizedData, entity *imfinder.Entity) *Message {
	message := &Message{
		MessageID:      fieldInt64(entity.Fields, "message_id"),
		ConversationID: fieldInt64(entity.Fields, "conversation_id"),
		Text:           fieldString(entity.Fields, "text"),
		Date:           fieldTime(entity.Fields, "date"),
		Outgoing:       fieldBool(entity.Fields, "outgoing"),
		Confidence:     entity.Confidence.String(),
	}
	if senderID, ok := entity.Fields["sender_id"]; ok {
		if sender, ok := od.Entity(imfinder.KindContact, fmtID(senderID)); ok {
			message.Sender = newUser(sender)
		}
	}
	for _, id := range fieldIDs(entity.Fields, "attachment_ids") {
		if attachment, ok := od.Entity(imfinder.KindAttachment, id); ok {
			message.Attachments = append(message.Attachments, newAttachment(attachment))
		}
	}
	return message
}

func (f *Factory) newConversation(od *imfinder.OrganizedData, entity *imfinder.Entity) *Conversation {
	conversation := &Conversation{
		ConversationID:    fieldInt64(entity.Fields, "conversation_id"),
		Type:              fieldString(entity.Fields, "conversation_type"),
		Name:              fieldString(entity.Fields, "name"),
		IsPublic:          fieldBool(entity.Fields, "is_public"),
		IsMegagroup:       fieldBool(entity.Fields, "is_megagroup"),
		ParticipantsCount: fieldInt(entity.Fields, "participants_count"),
		SubscribersCount:  fieldInt(entity.Fields, "subscribers_count"),
		Confidence:        entity.Confidence.String(),
	}
	for _, id := range fieldIDs(entity.Fields, "message_ids") {
		if message, ok := od.Entity(imfinder.KindMessage, id); ok {
			conversation.Messages = append(conversation.Messages, f.newMessage(od, message))
		}
	}
	sort.SliceStable(conversation.Messages, func(i, j int) bool {
		a, b := conversation.Messages[i], conversation.Messages[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.MessageID < b.MessageID
	})
	return conversation
}
