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
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/forensicanalysis/imfinder"
	"github.com/forensicanalysis/imfinder/telegram"
)

func testArtifacts() []imfinder.Artifact {
	return []imfinder.Artifact{
		&telegram.User{UserID: 10, Name: "Alice", Username: "alice", Confidence: "full"},
		&telegram.Message{
			MessageID:      1000,
			ConversationID: 100,
			Text:           "hello",
			Date:           time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC),
			Outgoing:       true,
			Confidence:     "full",
		},
	}
}

// brokenArtifact produces a record that fails schema validation.
type brokenArtifact struct{}

func (brokenArtifact) Platform() string { return telegram.Name }

func (brokenArtifact) Kind() string { return imfinder.KindContact }

func (brokenArtifact) ReportRecord() map[string]interface{} {
	return map[string]interface{}{
		"id":       "contact--00000000-0000-4000-8000-000000000000",
		"type":     imfinder.KindContact,
		"platform": telegram.Name,
		// user_id is required but missing
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONWriter(&buf, nil).Write(testArtifacts()))

	out := buf.String()
	require.True(t, gjson.Valid(out))
	records := gjson.Parse(out).Array()
	require.Len(t, records, 2)

	assert.Equal(t, "contact", records[0].Get("type").String())
	assert.Equal(t, telegram.Name, records[0].Get("platform").String())
	assert.Equal(t, "Alice", records[0].Get("name").String())
	assert.Equal(t, int64(10), records[0].Get("user_id").Int())

	assert.Equal(t, "message", records[1].Get("type").String())
	assert.Equal(t, "hello", records[1].Get("text").String())
	assert.True(t, records[1].Get("outgoing").Bool())
	assert.Contains(t, records[1].Get("id").String(), "message--")
}

func TestJSONWriterValidates(t *testing.T) {
	validator, err := NewValidator()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewJSONWriter(&buf, validator).Write(testArtifacts()))

	buf.Reset()
	err = NewJSONWriter(&buf, validator).Write([]imfinder.Artifact{brokenArtifact{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not be validated")
}

func TestValidator(t *testing.T) {
	validator, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name      string
		record    string
		wantFlaws bool
	}{
		{"ValidContact", `{"id": "contact--1", "type": "contact", "platform": "telegram-desktop", "user_id": 10}`, false},
		{"MissingID", `{"type": "contact", "platform": "telegram-desktop", "user_id": 10}`, true},
		{"WrongFieldType", `{"id": "contact--1", "type": "contact", "platform": "telegram-desktop", "user_id": "ten"}`, true},
		{"NoType", `{"id": "x--1"}`, true},
		{"UnknownTypePasses", `{"id": "y--1", "type": "sticker"}`, false},
		{"BadConfidence", `{"id": "contact--1", "type": "contact", "platform": "telegram-desktop", "user_id": 10, "confidence": "maybe"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flaws, err := validator.Validate([]byte(tt.record))
			require.NoError(t, err)
			if tt.wantFlaws {
				assert.NotEmpty(t, flaws)
			} else {
				assert.Empty(t, flaws)
			}
		})
	}
}

func Test_flatten(t *testing.T) {
	tests := []struct {
		name   string
		nested map[string]interface{}
		want   map[string]interface{}
	}{
		{"Flat", map[string]interface{}{"a": "b"}, map[string]interface{}{"a": "b"}},
		{"Nested", map[string]interface{}{"a": map[string]interface{}{"b": "c"}},
			map[string]interface{}{"a.b": "c"}},
		{"Slice", map[string]interface{}{"a": []interface{}{"x", "y"}},
			map[string]interface{}{"a.0": "x", "a.1": "y"}},
		{"Mixed", map[string]interface{}{"a": []interface{}{map[string]interface{}{"b": "c"}}},
			map[string]interface{}{"a.0.b": "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := flatten(tt.nested)
			require.NoError(t, err)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("flatten() = %v, want %v", got, tt.want)
			}
		})
	}
}
