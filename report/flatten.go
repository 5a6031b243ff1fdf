// Copyright (c) 2019 Nguyễn Quốc Đính
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
// Author(s): Nguyễn Quốc Đính, Jonas Plum
//
// This code was adapted from
// https://github.com/nqd/flat/blob/master/flat.go

package report

import (
	"fmt"
	"reflect"
	"strconv"
)

// flatten returns a map one level deep regardless of how nested the record
// was. Nested keys are joined with ".", slice elements get their index as
// key.
func flatten(nested map[string]interface{}) (map[string]interface{}, error) {
	return flattenPrefixed("", nested)
}

func flattenPrefixed(prefix string, nested interface{}) (flatmap map[string]interface{}, err error) {
	flatmap = make(map[string]interface{})

	if nested == nil {
		return flatmap, nil
	}

	value := reflect.ValueOf(nested)

	switch value.Type().Kind() {
	case reflect.Map:
		for _, k := range value.MapKeys() {
			newKey := fmt.Sprint(k.Interface())
			if prefix != "" {
				newKey = prefix + "." + newKey
			}
			sub, err := flattenPrefixed(newKey, value.MapIndex(k).Interface())
			if err != nil {
				return nil, err
			}
			update(flatmap, sub)
		}
	case reflect.Slice:
		for i := 0; i < value.Len(); i++ {
			newKey := strconv.Itoa(i)
			if prefix != "" {
				newKey = prefix + "." + newKey
			}
			sub, err := flattenPrefixed(newKey, value.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			update(flatmap, sub)
		}
	default:
		flatmap[prefix] = nested
	}
	return flatmap, nil
}

func update(to map[string]interface{}, from map[string]interface{}) {
	for k, v := range from {
		to[k] = v
	}
}
