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
	"github.com/fatih/structs"
	"github.com/google/uuid"
)

// An Artifact is a structured object representing one recovered instant
// messaging entity. Concrete per-platform variants are plain data structs;
// the only behavior they carry is a uniform, format neutral report
// representation. Artifacts never serialize themselves to bytes.
type Artifact interface {
	Platform() string
	Kind() string
	ReportRecord() map[string]interface{}
}

// ReportRecord converts a concrete artifact struct into its report
// representation: field names are snake cased, empty fields are elided and
// the record is tagged with type, platform and a fresh element id.
func ReportRecord(platform, kind string, artifact interface{}) map[string]interface{} {
	m := structs.Map(artifact)
	m = lower(m).(map[string]interface{})
	m["type"] = kind
	m["platform"] = platform
	if _, ok := m["id"]; !ok {
		m["id"] = kind + "--" + uuid.New().String()
	}
	return m
}
