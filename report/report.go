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

// Package report serializes recovered artifacts for investigators. The
// pipeline itself never serializes anything; it hands its artifact set to
// one of the writers in this package. Reports can be written as a single
// JSON document or as a sqlite database with one column view per artifact
// type.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/forensicanalysis/imfinder"
)

// discriminator is the record field holding the artifact type.
const discriminator = "type"

// A Writer consumes the artifact set of one run.
type Writer interface {
	Write(artifacts []imfinder.Artifact) error
}

// JSONWriter writes all artifacts as one JSON document.
type JSONWriter struct {
	w        io.Writer
	validate *Validator
}

// NewJSONWriter creates a JSONWriter. A nil validator disables record
// validation.
func NewJSONWriter(w io.Writer, validate *Validator) *JSONWriter {
	return &JSONWriter{w: w, validate: validate}
}

func (j *JSONWriter) Write(artifacts []imfinder.Artifact) error {
	records := make([]map[string]interface{}, 0, len(artifacts))
	for _, artifact := range artifacts {
		record := artifact.ReportRecord()
		if j.validate != nil {
			if err := validateRecord(j.validate, record); err != nil {
				return err
			}
		}
		records = append(records, record)
	}

	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not marshal report")
	}
	_, err = j.w.Write(b)
	return err
}

func validateRecord(v *Validator, record map[string]interface{}) error {
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	flaws, err := v.Validate(b)
	if err != nil {
		return err
	}
	if len(flaws) > 0 {
		return fmt.Errorf("record could not be validated [%s]", strings.Join(flaws, ","))
	}
	return nil
}
