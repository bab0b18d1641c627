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

// Package constraint implements named type constraints: composable
// predicates over values that the attribute engine applies when a value
// enters an instance slot, whether supplied by a constructor caller,
// written through a generated writer, or produced by a default or builder.
//
// A Constraint is a pure, total predicate with a name. The name appears in
// error messages ("value fails type constraint NonEmptyStr for attribute
// title"), so every constraint, including parameterized compositions such
// as ArrayOf(Int, 1), renders a self-describing name. Constraints MAY
// additionally implement Coercer; when they do, coercion runs before the
// check, and the coerced value (not the caller's original) is what the
// engine stores.
//
// Constraints are constructed once at class-definition time and shared
// read-only by every descriptor that references them; all of them are safe
// for concurrent use.
//
// The builtin constraints (Any, Defined, Bool, Str, NonEmptyStr, Int,
// PositiveInt, NonNegativeInt, Num, ArrayRef, HashRef, CodeRef, SemVer)
// live in builtin.go; parameterized compositions (ArrayOf, MapOf, Maybe,
// Enum) in combinators.go; and the textual form used by schema documents
// ("ArrayOf[NonEmptyStr,2]") in parse.go.
package constraint

import (
	"fmt"
	"strconv"
	"strings"
)

// Constraint is a named predicate over values.
//
// Check MUST be pure and total over the value domain it is applied to: it
// never panics for well-formed inputs, never mutates its argument, and
// always returns the same answer for the same value. Name MUST be constant
// for the life of the constraint and self-describing, since it is the only
// identification a violation message carries.
type Constraint interface {
	// Name returns the self-describing name of this constraint, used in
	// violation messages and schema documents.
	Name() string

	// Check reports whether the value satisfies this constraint. It MUST
	// be pure, total, and safe for concurrent use.
	Check(value any) bool
}

// Coercer is the optional companion interface for constraints that declare
// a coercion. When a constraint implements Coercer, the attribute engine
// calls Coerce before Check and stores the coerced result on success.
//
// Coerce either returns the (possibly transformed) value, or an error when
// the input is outside the coercion's domain. A failed coercion is reported
// as a constraint violation against the original value.
type Coercer interface {
	// Coerce transforms a value into the constraint's canonical form, or
	// fails when no such transformation exists.
	Coerce(value any) (any, error)
}

// Violation is the structured failure produced when a value is rejected by
// a type constraint. It carries the attribute the value was destined for
// (empty when the check was not attribute-bound), the constraint's name,
// and the rejected value.
//
// Violation is an error value, not a string: callers match it with
// errors.As and render it however their surface requires. The Error text
// includes a safely-truncated representation of the value so that
// multi-kilobyte or unprintable payloads never explode a log line.
type Violation struct {
	// Attribute is the name of the attribute whose slot rejected the
	// value, or "" for a free-standing check.
	Attribute string

	// Constraint is the Name of the violated constraint.
	Constraint string

	// Value is the rejected value, retained verbatim for programmatic
	// inspection. Rendering goes through RenderValue.
	Value any
}

// NewViolation constructs a Violation for a value rejected by c on behalf
// of the named attribute. The attribute MAY be empty for checks that are
// not attribute-bound.
func NewViolation(attribute string, c Constraint, value any) *Violation {
	return &Violation{Attribute: attribute, Constraint: c.Name(), Value: value}
}

// Error renders the violation for human consumption. The offending value is
// passed through RenderValue, so the text is bounded and printable no
// matter what was rejected.
func (v *Violation) Error() string {
	if v.Attribute == "" {
		return fmt.Sprintf("value %s fails type constraint %s", RenderValue(v.Value), v.Constraint)
	}
	return fmt.Sprintf("attribute %q: value %s fails type constraint %s", v.Attribute, RenderValue(v.Value), v.Constraint)
}

const (
	// RenderMaxRunes bounds the rendered length of an offending value in
	// violation messages. Values whose representation exceeds this length
	// are truncated with a "..." marker. The bound keeps violation text
	// usable in logs even when the rejected value is a large container.
	RenderMaxRunes = 64
)

// RenderValue produces a bounded, printable representation of an arbitrary
// value for use in violation messages.
//
// Strings are quoted with control characters escaped (strconv.Quote), nil
// renders as "<undef>", and everything else goes through fmt's %#v verb.
// The result is truncated to RenderMaxRunes runes, with "..." appended when
// truncation occurred. A closing quote lost to truncation is not restored;
// the marker makes the cut explicit.
func RenderValue(value any) string {
	var s string
	switch tv := value.(type) {
	case nil:
		return "<undef>"
	case string:
		s = strconv.Quote(tv)
	default:
		s = fmt.Sprintf("%#v", tv)
	}

	runes := []rune(s)
	if len(runes) <= RenderMaxRunes {
		return s
	}
	return string(runes[:RenderMaxRunes]) + "..."
}

// Apply runs a value through a constraint on behalf of an attribute:
// coercion first when the constraint declares one, then the check. On
// success it returns the value to store (the coerced form when coercion
// ran). On failure it returns a *Violation against the caller's original
// value.
//
// Apply is the single entry point the attribute engine uses for every slot
// assignment, so coercion-before-check ordering holds uniformly for
// constructor arguments, writer calls, and default or builder results.
func Apply(attribute string, c Constraint, value any) (any, error) {
	out := value
	if co, ok := c.(Coercer); ok {
		coerced, err := co.Coerce(value)
		if err != nil {
			return nil, NewViolation(attribute, c, value)
		}
		out = coerced
	}

	if !c.Check(out) {
		return nil, NewViolation(attribute, c, value)
	}
	return out, nil
}

// named is the workhorse implementation behind every builtin and composed
// constraint: a name plus a check function, with an optional coercion.
type named struct {
	name   string
	check  func(any) bool
	coerce func(any) (any, error)
}

func (n *named) Name() string { return n.name }

func (n *named) Check(value any) bool { return n.check(value) }

// Coerce implements Coercer. Constraints without a declared coercion are
// constructed via New and never reach this method through the Coercer
// interface; see hasCoercion.
func (n *named) Coerce(value any) (any, error) {
	if n.coerce == nil {
		return value, nil
	}
	return n.coerce(value)
}

// coercing wraps named so that only constraints with a declared coercion
// satisfy Coercer. A plain named deliberately does not.
type coercing struct{ *named }

// New creates a constraint from a name and a check function. The check MUST
// be pure and total. The resulting constraint declares no coercion.
func New(name string, check func(any) bool) Constraint {
	return &plain{named{name: name, check: check}}
}

// NewCoercing creates a constraint that declares a coercion. Coerce runs
// before Check whenever the engine applies the constraint.
func NewCoercing(name string, check func(any) bool, coerce func(any) (any, error)) Constraint {
	return &coercing{&named{name: name, check: check, coerce: coerce}}
}

// plain is a named constraint that hides the Coerce method so that a type
// assertion to Coercer fails for constraints with no declared coercion.
type plain struct{ n named }

func (p *plain) Name() string         { return p.n.name }
func (p *plain) Check(value any) bool { return p.n.check(value) }

// Describe returns the bracketed textual form of a parameterized
// constraint, e.g. Describe("ArrayOf", "Int", "2") -> "ArrayOf[Int,2]".
// Composed constraints use it to build self-describing names that parse.go
// can read back.
func Describe(base string, args ...string) string {
	if len(args) == 0 {
		return base
	}
	return base + "[" + strings.Join(args, ",") + "]"
}
