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

	"github.com/forensicanalysis/imfinder"
)

// The concrete Telegram Desktop artifacts. They hold only data; their single
// behavior is the uniform report representation required by the Artifact
// interface.

// User is a Telegram Desktop user, recovered as a contact of the account.
type User struct {
	UserID      int64
	Name        string
	Username    string
	PhoneNumber string
	About       string
	IsContact   bool
	IsBlocked   bool
	IsBot       bool
	Confidence  string
}

func (u *User) Platform() string { return Name }
func (u *User) Kind() string     { return imfinder.KindContact }

func (u *User) ReportRecord() map[string]interface{} {
	return imfinder.ReportRecord(Name, u.Kind(), u)
}

// Attachment is a file or geographic location attached to a message.
type Attachment struct {
	AttachmentID int64
	Type         string `structs:"AttachmentType"`
	Filename     string
	Filepath     string
	URL          string
	Size         int64
	Latitude     float64
	Longitude    float64
	Title        string
	Description  string
	Confidence   string
}

func (a *Attachment) Platform() string { return Name }
func (a *Attachment) Kind() string     { return imfinder.KindAttachment }

func (a *Attachment) ReportRecord() map[string]interface{} {
	return imfinder.ReportRecord(Name, a.Kind(), a)
}

// Message is a single recovered message.
type Message struct {
	MessageID      int64
	ConversationID int64
	Text           string
	Date           time.Time `structs:"Date,omitnested"`
	Outgoing       bool
	Confidence     string
	Sender         *User         `structs:"-"`
	Attachments    []*Attachment `structs:"-"`
}

func (m *Message) Platform() string { return Name }
func (m *Message) Kind() string     { return imfinder.KindMessage }

func (m *Message) ReportRecord() map[string]interface{} {
	record := imfinder.ReportRecord(Name, m.Kind(), m)
	if m.Sender != nil {
		record["sender"] = m.Sender.ReportRecord()
	}
	if len(m.Attachments) > 0 {
		var attachments []map[string]interface{}
		for _, a := range m.Attachments {
			attachments = append(attachments, a.ReportRecord())
		}
		record["attachments"] = attachments
	}
	return record
}

// Conversation is an individual conversation, a group or a channel,
// including its recovered messages.
type Conversation struct {
	ConversationID    int64
	Type              string `structs:"ConversationType"`
	Name              string
	IsPublic          bool
	IsMegagroup       bool
	ParticipantsCount int
	SubscribersCount  int
	Confidence        string
	Messages          []*Message `structs:"-"`
}

func (c *Conversation) Platform() string { return Name }
func (c *Conversation) Kind() string     { return imfinder.KindConversation }

func (c *Conversation) ReportRecord() map[string]interface{} {
	record := imfinder.ReportRecord(Name, c.Kind(), c)
	if len(c.Messages) > 0 {
		var messages []map[string]interface{}
		for _, m := range c.Messages {
			messages = append(messages, m.ReportRecord())
		}
		record["messages"] = messages
	}
	return record
}

// Account is the account the capture belongs to, with its contacts and
// conversations.
type Account struct {
	AccountID     int64
	Confidence    string
	Owner         *User           `structs:"-"`
	Contacts      []*User         `structs:"-"`
	Conversations []*Conversation `structs:"-"`
}

func (a *Account) Platform() string { return Name }
func (a *Account) Kind() string     { return imfinder.KindAccount }

func (a *Account) ReportRecord() map[string]interface{} {
	record := imfinder.ReportRecord(Name, a.Kind(), a)
	if a.Owner != nil {
		record["owner"] = a.Owner.ReportRecord()
	}
	if len(a.Contacts) > 0 {
		var contacts []map[string]interface{}
		for _, c := range a.Contacts {
			contacts = append(contacts, c.ReportRecord())
		}
		record["contacts"] = contacts
	}
	if len(a.Conversations) > 0 {
		var conversations []map[string]interface{}
		for _, c := range a.Conversations {
			conversations = append(conversations, c.ReportRecord())
		}
		record["conversations"] = conversations
	}
	return record
}
