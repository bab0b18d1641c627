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

package attr

import (
	"fmt"
	"regexp"
)

const (
	// identFmt defines the canonical regular expression pattern for legal
	// attribute and accessor identifiers: ASCII letters, digits, and
	// underscores, not starting with a digit, non-empty. A leading
	// underscore is legal and conventional for private attributes and
	// test-seam init-args.
	//
	// The pattern deliberately excludes Unicode letters: declared names
	// become accessor keys and schema-document keys, and a strict ASCII
	// identifier set keeps those portable across every surface the
	// metadata travels through.
	identFmt = `^[A-Za-z_][A-Za-z0-9_]*$`
)

// identRegexp is the compiled form of identFmt. It is safe for concurrent
// use and treated as a read-only process-wide singleton.
var identRegexp = regexp.MustCompile(identFmt)

// reservedIdentifiers are names the library claims for itself: the
// constructor, the lifecycle hooks, and the introspection surface of the
// original declaration system. An attribute or accessor taking one of
// these names would shadow machinery that callers rely on, so the naming
// validator rejects them at class-definition time.
var reservedIdentifiers = map[string]bool{
	"new":       true,
	"BUILD":     true,
	"BUILDARGS": true,
	"DEMOLISH":  true,
	"DOES":      true,
	"does":      true,
	"can":       true,
	"isa":       true,
	"meta":      true,
}

// IsLegalIdentifier reports whether a name is a syntactically legal,
// non-reserved identifier for an attribute, init-arg, accessor, or builder
// method.
//
// Legal identifiers are non-empty, consist of ASCII letters, digits, and
// underscores, do not start with a digit, and do not collide with the
// library's reserved identifiers (the constructor name "new", the
// lifecycle hooks, and the introspection methods).
//
// This check runs at class-definition time, never at instantiation time:
// a class carrying an illegal name is rejected before it can ever produce
// an instance.
func IsLegalIdentifier(name string) bool {
	if !identRegexp.MatchString(name) {
		return false
	}
	return !reservedIdentifiers[name]
}

// ValidateIdentifier checks a name with IsLegalIdentifier and, on failure,
// returns a descriptive error stating which rule was broken. The role
// parameter names what the identifier was for ("attribute name", "writer
// name", ...) so definition errors read naturally.
func ValidateIdentifier(role, name string) error {
	if name == "" {
		return fmt.Errorf("%s MUST NOT be empty", role)
	}
	if reservedIdentifiers[name] {
		return fmt.Errorf("%s %q collides with a reserved identifier", role, name)
	}
	if !identRegexp.MatchString(name) {
		return fmt.Errorf("%s %q is not a legal identifier (ASCII letters, digits, underscore; MUST NOT start with a digit)", role, name)
	}
	return nil
}
