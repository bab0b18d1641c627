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

package constraint_test

import (
	"testing"

	"github.com/tobyink/moosex-extreme/mxcore/constraint"
)

func TestArrayOf(t *testing.T) {
	tests := []struct {
		name   string
		c      constraint.Constraint
		value  any
		want   bool
		cname  string
	}{
		{
			name:  "empty_slice_no_min",
			c:     constraint.ArrayOf(constraint.Int, 0),
			value: []any{},
			want:  true,
			cname: "ArrayOf[Int]",
		},
		{
			name:  "all_elements_pass",
			c:     constraint.ArrayOf(constraint.Int, 0),
			value: []any{1, 2, 3},
			want:  true,
			cname: "ArrayOf[Int]",
		},
		{
			name:  "one_element_fails",
			c:     constraint.ArrayOf(constraint.Int, 0),
			value: []any{1, "2"},
			want:  false,
			cname: "ArrayOf[Int]",
		},
		{
			name:  "typed_slice",
			c:     constraint.ArrayOf(constraint.Int, 0),
			value: []int{1, 2},
			want:  true,
			cname: "ArrayOf[Int]",
		},
		{
			name:  "below_min_len",
			c:     constraint.ArrayOf(constraint.Str, 2),
			value: []any{"a"},
			want:  false,
			cname: "ArrayOf[Str,2]",
		},
		{
			name:  "at_min_len",
			c:     constraint.ArrayOf(constraint.Str, 2),
			value: []any{"a", "b"},
			want:  true,
			cname: "ArrayOf[Str,2]",
		},
		{
			name:  "not_a_container",
			c:     constraint.ArrayOf(constraint.Int, 0),
			value: "xs",
			want:  false,
			cname: "ArrayOf[Int]",
		},
		{
			name:  "nil",
			c:     constraint.ArrayOf(constraint.Int, 0),
			value: nil,
			want:  false,
			cname: "ArrayOf[Int]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Check(tt.value); got != tt.want {
				t.Errorf("Check(%#v) = %v, want %v", tt.value, got, tt.want)
			}
			if tt.c.Name() != tt.cname {
				t.Errorf("Name() = %q, want %q", tt.c.Name(), tt.cname)
			}
		})
	}
}

func TestMapOf(t *testing.T) {
	c := constraint.MapOf(constraint.Str)

	if c.Name() != "MapOf[Str]" {
		t.Errorf("Name() = %q, want %q", c.Name(), "MapOf[Str]")
	}
	if !c.Check(map[string]any{"a": "x"}) {
		t.Error("Check() rejected a conforming map")
	}
	if !c.Check(map[string]any{}) {
		t.Error("Check() rejected an empty map")
	}
	if c.Check(map[string]any{"a": 1}) {
		t.Error("Check() accepted a non-conforming value")
	}
	if c.Check([]string{"x"}) {
		t.Error("Check() accepted a slice")
	}
	if c.Check(nil) {
		t.Error("Check() accepted nil")
	}
}

func TestMaybe(t *testing.T) {
	c := constraint.Maybe(constraint.Int)

	if c.Name() != "Maybe[Int]" {
		t.Errorf("Name() = %q, want %q", c.Name(), "Maybe[Int]")
	}
	if !c.Check(nil) {
		t.Error("Check(nil) = false, want true")
	}
	if !c.Check(3) {
		t.Error("Check(3) = false, want true")
	}
	if c.Check("3") {
		t.Error(`Check("3") = true, want false`)
	}
}

func TestMaybe_PreservesCoercion(t *testing.T) {
	c := constraint.Maybe(constraint.SemVer)

	co, ok := c.(constraint.Coercer)
	if !ok {
		t.Fatal("Maybe over a coercing constraint lost the coercion")
	}

	got, err := co.Coerce("v1.2.3")
	if err != nil {
		t.Fatalf("Coerce() failed: %v", err)
	}
	if got != "1.2.3" {
		t.Errorf("Coerce() = %v, want %q", got, "1.2.3")
	}

	if got, err := co.Coerce(nil); err != nil || got != nil {
		t.Errorf("Coerce(nil) = %v, %v; want nil, nil", got, err)
	}
}

func TestMaybe_PlainInnerStaysPlain(t *testing.T) {
	if _, ok := constraint.Maybe(constraint.Int).(constraint.Coercer); ok {
		t.Error("Maybe over a plain constraint declares a coercion, want none")
	}
}

func TestEnum(t *testing.T) {
	c := constraint.Enum("draft", "published", "archived")

	if c.Name() != "Enum[draft,published,archived]" {
		t.Errorf("Name() = %q, want %q", c.Name(), "Enum[draft,published,archived]")
	}
	for _, v := range []any{"draft", "published", "archived"} {
		if !c.Check(v) {
			t.Errorf("Check(%v) = false, want true", v)
		}
	}
	for _, v := range []any{"deleted", "", nil, 1} {
		if c.Check(v) {
			t.Errorf("Check(%v) = true, want false", v)
		}
	}
}

func TestEnum_StructuralMembers(t *testing.T) {
	c := constraint.Enum([]any{1, 2}, map[string]any{"k": "v"})

	if !c.Check([]any{1, 2}) {
		t.Error("Check() rejected a deep-equal slice member")
	}
	if !c.Check(map[string]any{"k": "v"}) {
		t.Error("Check() rejected a deep-equal map member")
	}
	if c.Check([]any{2, 1}) {
		t.Error("Check() accepted a reordered slice")
	}
}

func TestEnum_NonStringMembersDoNotRoundTrip(t *testing.T) {
	c := constraint.Enum(1, 2)
	if !c.Check(1) || c.Check("1") {
		t.Fatal("Enum(1, 2) should accept the int member and reject its string rendering")
	}

	// The rendered name is diagnostic only: reparsing it yields an Enum of
	// the rendered strings, not the original int members.
	reparsed, err := constraint.Parse(c.Name())
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", c.Name(), err)
	}
	if reparsed.Check(1) {
		t.Error("reparsed constraint accepted an int member; the round-trip guarantee covers string members only")
	}
	if !reparsed.Check("1") {
		t.Error("reparsed constraint rejected the rendered string member")
	}
}

func TestEnum_Empty(t *testing.T) {
	c := constraint.Enum()
	if c.Check("anything") {
		t.Error("empty Enum accepted a value, want vacuous rejection")
	}
}
