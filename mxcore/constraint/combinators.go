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
	"strconv"
)

// ArrayOf returns a parameterized constraint accepting slice or array
// values whose every element satisfies the element constraint and whose
// length is at least minLen. A minLen of zero imposes no length
// requirement.
//
// The composed name is self-describing: ArrayOf(Int, 0) is named
// "ArrayOf[Int]" and ArrayOf(NonEmptyStr, 2) is named
// "ArrayOf[NonEmptyStr,2]". Both the container shape and every element are
// validated; a non-container value fails immediately.
//
// Element checks use the element constraint's Check only; element-level
// coercion is not performed, since the engine would have no way to write
// coerced elements back into an arbitrary container type.
func ArrayOf(elem Constraint, minLen int) Constraint {
	name := Describe("ArrayOf", elem.Name())
	if minLen > 0 {
		name = Describe("ArrayOf", elem.Name(), strconv.Itoa(minLen))
	}

	return New(name, func(v any) bool {
		if v == nil {
			return false
		}
		rv := reflect.ValueOf(v)
		if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
			return false
		}
		if rv.Len() < minLen {
			return false
		}
		for i := 0; i < rv.Len(); i++ {
			if !elem.Check(rv.Index(i).Interface()) {
				return false
			}
		}
		return true
	})
}

// MapOf returns a parameterized constraint accepting map values whose
// every stored value satisfies the value constraint. Key types are not
// constrained. The composed name is "MapOf[<value name>]".
func MapOf(value Constraint) Constraint {
	name := Describe("MapOf", value.Name())

	return New(name, func(v any) bool {
		if v == nil {
			return false
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Map {
			return false
		}
		iter := rv.MapRange()
		for iter.Next() {
			if !value.Check(iter.Value().Interface()) {
				return false
			}
		}
		return true
	})
}

// Maybe returns a constraint accepting nil in addition to everything the
// inner constraint accepts, mirroring the nullable form of the original
// type system. The composed name is "Maybe[<inner name>]". When the inner
// constraint declares a coercion it is preserved for non-nil values.
func Maybe(inner Constraint) Constraint {
	name := Describe("Maybe", inner.Name())
	check := func(v any) bool {
		return v == nil || inner.Check(v)
	}

	if co, ok := inner.(Coercer); ok {
		return NewCoercing(name, check, func(v any) (any, error) {
			if v == nil {
				return nil, nil
			}
			return co.Coerce(v)
		})
	}
	return New(name, check)
}

// Enum returns a constraint accepting exactly the given literal members,
// compared by deep structural equality, so members may be containers as
// well as scalars. The composed name lists scalar members
// ("Enum[draft,published]"); each member renders through RenderValue with
// string members left unquoted for readability. For non-string members
// the rendered name is diagnostic only and does not reparse to an
// equivalent constraint; only string-membered Enums round-trip through
// Parse.
//
// An Enum with no members accepts nothing; declaring one is almost
// certainly an authoring mistake, but it is a valid (vacuous) constraint
// rather than an error.
func Enum(members ...any) Constraint {
	names := make([]string, len(members))
	for i, m := range members {
		if s, ok := m.(string); ok {
			names[i] = s
			continue
		}
		names[i] = RenderValue(m)
	}

	return New(Describe("Enum", names...), func(v any) bool {
		for _, m := range members {
			if reflect.DeepEqual(v, m) {
				return true
			}
		}
		return false
	})
}
