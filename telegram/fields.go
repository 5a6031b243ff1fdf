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
	"time"
)

// Typed accessors into decoded field maps. A missing or differently typed
// field yields the zero value; required fields were already checked by the
// analyzer.

func fieldInt64(fields map[string]interface{}, key string) int64 {
	v, _ := fields[key].(int64)
	return v
}

func fieldInt(fields map[string]interface{}, key string) int {
	v, _ := fields[key].(int)
	return v
}

func fieldFloat64(fields map[string]interface{}, key string) float64 {
	v, _ := fields[key].(float64)
	return v
}

func fieldString(fields map[string]interface{}, key string) string {
	v, _ := fields[key].(string)
	return v
}

func fieldBool(fields map[string]interface{}, key string) bool {
	v, _ := fields[key].(bool)
	return v
}

func fieldTime(fields map[string]interface{}, key string) time.Time {
	v, _ := fields[key].(time.Time)
	return v
}

func fmtID(v interface{}) string {
	return fmt.Sprint(v)
}

func fieldIDs(fields map[string]interface{}, key string) []string {
	v, _ := fields[key].([]string)
	return v
}
