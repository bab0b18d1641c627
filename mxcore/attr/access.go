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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tobyink/moosex-extreme/mxcore/model"
	"gopkg.in/yaml.v3"
)

// Access is an attribute's storage mode: whether the slot can be
// re-assigned after its first set.
//
// The zero value (AccessUnspecified) means the class author did not state
// a mode; normalization resolves it to AccessReadOnly, which is the
// library's safer default. Finalized registries therefore only ever hold
// read-only and read-write descriptors.
//
// This type implements the model.Model interface. Serialization uses the
// short string names "ro" and "rw" familiar from the original declaration
// surface.
type Access uint8

const (
	// AccessUnspecified represents an unstated storage mode. This is the
	// zero value; normalization resolves it to AccessReadOnly.
	AccessUnspecified Access = iota

	// AccessReadOnly marks a slot that is never re-assigned after its
	// first set. Writers are not generated for read-only attributes, and
	// clearers are only legal on them when the attribute is lazy.
	AccessReadOnly

	// AccessReadWrite marks a slot that accepts writes through a
	// generated writer, each write re-validated against the attribute's
	// type constraint.
	AccessReadWrite
)

const (
	// AccessUnspecifiedStr is the string representation of
	// AccessUnspecified.
	AccessUnspecifiedStr = "unspecified"

	// AccessReadOnlyStr is the string representation of AccessReadOnly.
	AccessReadOnlyStr = "ro"

	// AccessReadWriteStr is the string representation of AccessReadWrite.
	AccessReadWriteStr = "rw"
)

// ParseAccess parses a string into a validated Access value. Input is
// trimmed and lowercased; "readonly" and "readwrite" are accepted as
// compatibility spellings of the canonical "ro" and "rw".
func ParseAccess(s string) (Access, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))

	switch normalized {
	case AccessUnspecifiedStr:
		return AccessUnspecified, nil
	case AccessReadOnlyStr, "readonly":
		return AccessReadOnly, nil
	case AccessReadWriteStr, "readwrite":
		return AccessReadWrite, nil
	default:
		return AccessUnspecified, fmt.Errorf("unknown Access name %q (valid: %s, %s, %s)", s,
			AccessUnspecifiedStr, AccessReadOnlyStr, AccessReadWriteStr)
	}
}

// Compile-time assertion that Access implements model.Model.
var _ model.Model = (*Access)(nil)

// String returns the Access as its short lowercase name.
func (a Access) String() string {
	switch a {
	case AccessUnspecified:
		return AccessUnspecifiedStr
	case AccessReadOnly:
		return AccessReadOnlyStr
	case AccessReadWrite:
		return AccessReadWriteStr
	default:
		return fmt.Sprintf("Access(%d)", uint8(a))
	}
}

// Redacted returns the same representation as String; storage modes carry
// nothing sensitive.
func (a Access) Redacted() string {
	return a.String()
}

// TypeName returns "Access".
func (a Access) TypeName() string {
	return "Access"
}

// IsZero reports whether this Access is AccessUnspecified.
func (a Access) IsZero() bool {
	return a == AccessUnspecified
}

// Equal reports whether two Access values are the same mode.
func (a Access) Equal(other Access) bool {
	return a == other
}

// Validate checks that the Access is one of the defined constants.
func (a Access) Validate() error {
	switch a {
	case AccessUnspecified, AccessReadOnly, AccessReadWrite:
		return nil
	default:
		return fmt.Errorf("Access value %d is not a known mode (valid range: 0-%d)", uint8(a), uint8(AccessReadWrite))
	}
}

// MarshalJSON serializes the Access as its string name, validating first.
func (a Access) MarshalJSON() ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", a.TypeName(), err)
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON deserializes an Access from its JSON string name. On
// failure the receiver is left unmodified.
func (a *Access) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("cannot unmarshal JSON into %s: %w", a.TypeName(), err)
	}

	parsed, err := ParseAccess(str)
	if err != nil {
		return fmt.Errorf("unmarshaled %s is invalid: %w", a.TypeName(), err)
	}

	*a = parsed
	return nil
}

// MarshalYAML serializes the Access as its string name, validating first.
func (a Access) MarshalYAML() (interface{}, error) {
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", a.TypeName(), err)
	}
	return a.String(), nil
}

// UnmarshalYAML deserializes an Access from its YAML string name. On
// failure the receiver is left unmodified.
func (a *Access) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err != nil {
		return fmt.Errorf("cannot unmarshal YAML into %s: %w", a.TypeName(), err)
	}

	parsed, err := ParseAccess(str)
	if err != nil {
		return fmt.Errorf("unmarshaled %s is invalid: %w", a.TypeName(), err)
	}

	*a = parsed
	return nil
}
