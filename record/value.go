// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package record implements JSTP's relaxed-JSON record format: parsing
// wire text into a tagged-union Value and serializing it back.
package record

import "time"

// Kind identifies the concrete shape held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
	KindHole // the `undefined` sentinel
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindHole:
		return "undefined"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Value is the record format's value space. Zero value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  *Object
	t    time.Time
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Hole returns the `undefined` sentinel: an omitted object field, or an
// empty array slot.
func Hole() Value { return Value{kind: KindHole} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns an ordered sequence value.
func Array(vals ...Value) Value { return Value{kind: KindArray, arr: vals} }

// ObjectValue returns a mapping value backed by obj.
func ObjectValue(obj *Object) Value { return Value{kind: KindObject, obj: obj} }

// DateValue returns a date value.
func DateValue(t time.Time) Value { return Value{kind: KindDate, t: t} }

// Kind reports the value's concrete shape.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsHole reports whether v is the undefined sentinel.
func (v Value) IsHole() bool { return v.kind == KindHole }

// Bool returns v's boolean payload; ok is false if v is not a bool.
func (v Value) Bool() (b bool, ok bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Int returns v's integer payload; ok is false if v is not an int.
func (v Value) Int() (i int64, ok bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// Float returns v's numeric payload as a float64, widening ints.
func (v Value) Float() (f float64, ok bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// String returns v's string payload; ok is false if v is not a string.
func (v Value) String() (s string, ok bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Array returns v's element sequence; ok is false if v is not an array.
func (v Value) Array() (elems []Value, ok bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// Object returns v's backing Object; ok is false if v is not an object.
func (v Value) Object() (obj *Object, ok bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// Date returns v's date payload; ok is false if v is not a date.
func (v Value) Date() (t time.Time, ok bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	return v.t, true
}
