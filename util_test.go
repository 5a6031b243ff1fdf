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
	"reflect"
	"testing"
	"time"
)

func Test_lower(t *testing.T) {
	type args struct {
		f interface{}
	}
	tests := []struct {
		name string
		args args
		want interface{}
	}{
		{"Map", args{map[string]interface{}{"A": "B"}}, map[string]interface{}{"a": "B"}},
		{"CamelCase", args{map[string]interface{}{"PhoneNumber": "B"}}, map[string]interface{}{"phone_number": "B"}},
		{"List", args{[]interface{}{"A", "B"}}, []interface{}{"A", "B"}},
		{"DropEmpty", args{map[string]interface{}{"A": "B", "Empty": ""}}, map[string]interface{}{"a": "B"}},
		{"Nested", args{map[string]interface{}{"Outer": map[string]interface{}{"InnerKey": "v"}}},
			map[string]interface{}{"outer": map[string]interface{}{"inner_key": "v"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lower(tt.args.f); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("lower() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_isEmptyValue(t *testing.T) {
	var nilPointer *int
	type args struct {
		v reflect.Value
	}
	tests := []struct {
		name string
		args args
		want bool
	}{
		{"EmptyList", args{reflect.ValueOf([]string{})}, true},
		{"List", args{reflect.ValueOf([]string{"a"})}, false},
		{"EmptyString", args{reflect.ValueOf("")}, true},
		{"NilPointer", args{reflect.ValueOf(nilPointer)}, true},
		{"Int", args{reflect.ValueOf(0)}, false},
		{"ZeroTime", args{reflect.ValueOf(time.Time{})}, true},
		{"Time", args{reflect.ValueOf(time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC))}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEmptyValue(tt.args.v); got != tt.want {
				t.Errorf("isEmptyValue() = %v, want %v", got, tt.want)
			}
		})
	}
}
