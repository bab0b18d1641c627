/*
   Copyright 2026 The MooseX-Extreme Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package constraint

import (
	"reflect"
)

// The builtin constraints cover the value shapes the engine commonly meets
// when classes are populated from Go literals or from decoded JSON/YAML
// documents: booleans, strings, integers and floats of every Go width,
// slices, maps, and function values.
//
// Numeric checks are width-agnostic: Int accepts any Go integer kind
// (signed or unsigned) as well as a float64 carrying an exactly integral
// value, because YAML and JSON decoders frequently hand back float64 for
// numbers that the author wrote as integers. Num accepts any integer or
// float kind.
var (
	// Any accepts every value, including nil. It is the constraint a
	// descriptor effectively carries when the author declares none.
	Any = New("Any", func(_ any) bool { return true })

	// Defined accepts every value except nil.
	Defined = New("Defined", func(v any) bool { return v != nil })

	// Bool accepts Go bool values.
	Bool = New("Bool", func(v any) bool {
		_, ok := v.(bool)
		return ok
	})

	// Str accepts Go string values.
	Str = New("Str", func(v any) bool {
		_, ok := v.(string)
		return ok
	})

	// NonEmptyStr accepts strings of length one or more.
	NonEmptyStr = New("NonEmptyStr", func(v any) bool {
		s, ok := v.(string)
		return ok && len(s) > 0
	})

	// Int accepts integer-valued numbers: any Go integer kind, or a
	// float64 whose value is exactly integral (the usual shape of a JSON
	// or YAML number).
	Int = New("Int", isInt)

	// PositiveInt accepts integers strictly greater than zero.
	PositiveInt = New("PositiveInt", func(v any) bool {
		n, ok := asInt64(v)
		return ok && n > 0
	})

	// NonNegativeInt accepts integers greater than or equal to zero.
	NonNegativeInt = New("NonNegativeInt", func(v any) bool {
		n, ok := asInt64(v)
		return ok && n >= 0
	})

	// Num accepts any integer or floating-point value.
	Num = New("Num", func(v any) bool {
		if isInt(v) {
			return true
		}
		switch v.(type) {
		case float32, float64:
			return true
		default:
			return false
		}
	})

	// ArrayRef accepts any slice or array value, echoing the reference
	// kind the original object system calls an array reference.
	ArrayRef = New("ArrayRef", func(v any) bool {
		if v == nil {
			return false
		}
		k := reflect.ValueOf(v).Kind()
		return k == reflect.Slice || k == reflect.Array
	})

	// HashRef accepts any map value.
	HashRef = New("HashRef", func(v any) bool {
		if v == nil {
			return false
		}
		return reflect.ValueOf(v).Kind() == reflect.Map
	})

	// CodeRef accepts any function value.
	CodeRef = New("CodeRef", func(v any) bool {
		if v == nil {
			return false
		}
		return reflect.ValueOf(v).Kind() == reflect.Func
	})
)

// isInt reports whether a value is integer-valued per the width-agnostic
// rule documented on Int.
func isInt(v any) bool {
	_, ok := asInt64(v)
	return ok
}

// asInt64 extracts an int64 from any Go integer kind, or from a float64
// (or float32) that carries an exactly integral value. The second return
// reports success. Unsigned values above math.MaxInt64 are rejected rather
// than wrapped.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return uintToInt64(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return uintToInt64(n)
	case float32:
		return floatToInt64(float64(n))
	case float64:
		return floatToInt64(n)
	default:
		return 0, false
	}
}

func uintToInt64(n uint64) (int64, bool) {
	if n > uint64(maxInt64) {
		return 0, false
	}
	return int64(n), true
}

func floatToInt64(f float64) (int64, bool) {
	n := int64(f)
	if float64(n) != f {
		return 0, false
	}
	return n, true
}

const maxInt64 = int64(^uint64(0) >> 1)
