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

package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/qri-io/jsonschema"
	"github.com/tidwall/gjson"

	"github.com/forensicanalysis/imfinder"
)

// recordSchemas holds one JSON schema per artifact type. Records of
// unknown types pass validation, fields beyond the schema are allowed.
var recordSchemas = map[string]string{
	imfinder.KindAccount: `{
		"$schema": "https://json-schema.org/draft/2019-09/schema#",
		"type": "object",
		"required": ["id", "type", "platform", "account_id"],
		"properties": {
			"id": {"type": "string"},
			"type": {"const": "account"},
			"platform": {"type": "string"},
			"account_id": {"type": "integer"},
			"confidence": {"type": "string", "enum": ["full", "reduced"]},
			"owner": {"type": "object"},
			"contacts": {"type": "array", "items": {"type": "object"}},
			"conversations": {"type": "array", "items": {"type": "object"}}
		}
	}`,
	imfinder.KindContact: `{
		"$schema": "https://json-schema.org/draft/2019-09/schema#",
		"type": "object",
		"required": ["id", "type", "platform", "user_id"],
		"properties": {
			"id": {"type": "string"},
			"type": {"const": "contact"},
			"platform": {"type": "string"},
			"user_id": {"type": "integer"},
			"name": {"type": "string"},
			"username": {"type": "string"},
			"phone_number": {"type": "string"},
			"about": {"type": "string"},
			"is_contact": {"type": "boolean"},
			"is_blocked": {"type": "boolean"},
			"is_bot": {"type": "boolean"},
			"confidence": {"type": "string", "enum": ["full", "reduced"]}
		}
	}`,
	imfinder.KindConversation: `{
		"$schema": "https://json-schema.org/draft/2019-09/schema#",
		"type": "object",
		"required": ["id", "type", "platform", "conversation_id"],
		"properties": {
			"id": {"type": "string"},
			"type": {"const": "conversation"},
			"platform": {"type": "string"},
			"conversation_id": {"type": "integer"},
			"conversation_type": {"type": "string", "enum": ["individual", "group", "channel"]},
			"name": {"type": "string"},
			"is_public": {"type": "boolean"},
			"is_megagroup": {"type": "boolean"},
			"participants_count": {"type": "integer"},
			"subscribers_count": {"type": "integer"},
			"confidence": {"type": "string", "enum": ["full", "reduced"]},
			"messages": {"type": "array", "items": {"type": "object"}}
		}
	}`,
	imfinder.KindMessage: `{
		"$schema": "https://json-schema.org/draft/2019-09/schema#",
		"type": "object",
		"required": ["id", "type", "platform", "message_id"],
		"properties": {
			"id": {"type": "string"},
			"type": {"const": "message"},
			"platform": {"type": "string"},
			"message_id": {"type": "integer"},
			"conversation_id": {"type": "integer"},
			"text": {"type": "string"},
			"date": {"type": "string", "format": "date-time"},
			"outgoing": {"type": "boolean"},
			"confidence": {"type": "string", "enum": ["full", "reduced"]},
			"sender": {"type": "object"},
			"attachments": {"type": "array", "items": {"type": "object"}}
		}
	}`,
	imfinder.KindAttachment: `{
		"$schema": "https://json-schema.org/draft/2019-09/schema#",
		"type": "object",
		"required": ["id", "type", "platform", "attachment_id"],
		"properties": {
			"id": {"type": "string"},
			"type": {"const": "attachment"},
			"platform": {"type": "string"},
			"attachment_id": {"type": "integer"},
			"attachment_type": {"type": "string", "enum": ["file", "location"]},
			"filename": {"type": "string"},
			"filepath": {"type": "string"},
			"url": {"type": "string"},
			"size": {"type": "integer"},
			"latitude": {"type": "number"},
			"longitude": {"type": "number"},
			"title": {"type": "string"},
			"description": {"type": "string"},
			"confidence": {"type": "string", "enum": ["full", "reduced"]}
		}
	}`,
}

// A Validator checks report records against the per-type JSON schemas.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator parses the embedded record schemas.
func NewValidator() (*Validator, error) {
	schemas := map[string]*jsonschema.Schema{}
	for name, src := range recordSchemas {
		schema := &jsonschema.Schema{}
		if err := json.Unmarshal([]byte(src), schema); err != nil {
			return nil, fmt.Errorf("could not parse %s schema: %w", name, err)
		}
		schemas[name] = schema
	}
	return &Validator{schemas: schemas}, nil
}

// Validate returns the flaws of one JSON record. A record without flaws
// yields an empty slice; records of unknown types are not checked.
func (v *Validator) Validate(record []byte) (flaws []string, err error) {
	recordType := gjson.GetBytes(record, discriminator)
	if !recordType.Exists() {
		return []string{"record needs to have a type"}, nil
	}

	schema, ok := v.schemas[recordType.String()]
	if !ok {
		return nil, nil
	}

	keyErrors, err := schema.ValidateBytes(context.Background(), record)
	if err != nil {
		return nil, err
	}
	for _, keyError := range keyErrors {
		flaws = append(flaws, fmt.Sprintf("failed to validate record: %s", keyError))
	}
	return flaws, nil
}
