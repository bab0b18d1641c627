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
	"fmt"
	"strconv"
	"strings"
)

// builtins maps the canonical builtin constraint names to their shared
// instances. The table backs Lookup and Parse; it is populated once at
// package initialization and read-only thereafter.
var builtins = map[string]Constraint{
	"Any":            Any,
	"Defined":        Defined,
	"Bool":           Bool,
	"Str":            Str,
	"NonEmptyStr":    NonEmptyStr,
	"Int":            Int,
	"PositiveInt":    PositiveInt,
	"NonNegativeInt": NonNegativeInt,
	"Num":            Num,
	"ArrayRef":       ArrayRef,
	"HashRef":        HashRef,
	"CodeRef":        CodeRef,
	"SemVer":         SemVer,
}

// Lookup returns the builtin constraint with the given canonical name. The
// second return reports whether the name is known. Lookup does not handle
// parameterized forms; use Parse for those.
func Lookup(name string) (Constraint, bool) {
	c, ok := builtins[name]
	return c, ok
}

// Parse reads the textual form of a constraint as written in schema
// documents and re-produced by composed constraint names:
//
//	Int
//	Maybe[Str]
//	ArrayOf[NonEmptyStr]
//	ArrayOf[Int,2]
//	MapOf[ArrayOf[Int]]
//	Enum[draft,published,archived]
//
// Bare identifiers resolve through Lookup. The bracketed combinators are
// ArrayOf (element constraint plus optional minimum length), MapOf (value
// constraint), Maybe (inner constraint), and Enum (string members taken
// verbatim). Parse and the Name methods of composed constraints round-trip:
// Parse(c.Name()) yields a constraint equal in behavior to c, with one
// exception: an Enum carrying non-string members renders them into its
// name for diagnostics only, and reparsing that name yields an Enum of
// the rendered strings instead. Only string-membered Enums round-trip.
//
// Unknown names, malformed brackets, and arity mistakes produce descriptive
// errors; Parse never panics on malformed input.
func Parse(text string) (Constraint, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, fmt.Errorf("empty type constraint expression")
	}

	open := strings.IndexByte(s, '[')
	if open < 0 {
		c, ok := Lookup(s)
		if !ok {
			return nil, fmt.Errorf("unknown type constraint %q", s)
		}
		return c, nil
	}

	if !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("malformed type constraint %q: missing closing bracket", s)
	}

	base := s[:open]
	args, err := splitArgs(s[open+1 : len(s)-1])
	if err != nil {
		return nil, fmt.Errorf("malformed type constraint %q: %w", s, err)
	}

	switch base {
	case "Maybe":
		if len(args) != 1 {
			return nil, fmt.Errorf("Maybe takes exactly one argument, got %d in %q", len(args), s)
		}
		inner, err := Parse(args[0])
		if err != nil {
			return nil, err
		}
		return Maybe(inner), nil

	case "MapOf":
		if len(args) != 1 {
			return nil, fmt.Errorf("MapOf takes exactly one argument, got %d in %q", len(args), s)
		}
		value, err := Parse(args[0])
		if err != nil {
			return nil, err
		}
		return MapOf(value), nil

	case "ArrayOf":
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("ArrayOf takes one or two arguments, got %d in %q", len(args), s)
		}
		elem, err := Parse(args[0])
		if err != nil {
			return nil, err
		}
		minLen := 0
		if len(args) == 2 {
			minLen, err = strconv.Atoi(strings.TrimSpace(args[1]))
			if err != nil || minLen < 0 {
				return nil, fmt.Errorf("ArrayOf minimum length %q is not a non-negative integer", args[1])
			}
		}
		return ArrayOf(elem, minLen), nil

	case "Enum":
		members := make([]any, len(args))
		for i, a := range args {
			members[i] = strings.TrimSpace(a)
		}
		return Enum(members...), nil

	default:
		return nil, fmt.Errorf("unknown parameterized type constraint %q", base)
	}
}

// splitArgs splits a bracket body on top-level commas, respecting nested
// brackets so that "MapOf[ArrayOf[Int,2]]" keeps its inner argument list
// intact. An empty body or unbalanced nesting is an error.
func splitArgs(body string) ([]string, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("empty argument list")
	}

	var (
		args  []string
		depth int
		start int
	)
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced brackets")
			}
		case ',':
			if depth == 0 {
				args = append(args, body[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets")
	}
	args = append(args, body[start:])
	return args, nil
}
