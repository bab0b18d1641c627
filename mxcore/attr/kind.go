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

// Kind classifies an attribute by who supplies its value: the constructor
// caller (a param) or the class itself (a field).
//
// This type implements the model.Model interface, providing validation,
// serialization to JSON and YAML, safe logging, type identification, and
// zero-value detection. The zero value of Kind (KindUnspecified) is valid
// at the Go type level and means "kind not yet determined"; normalization
// rejects descriptors that reach it with an unspecified kind, so finalized
// registries only ever hold params and fields.
//
// The kind drives the constructor-facing posture of the attribute:
//   - KindParam: ordinarily supplied by the constructor caller; required
//     unless a default or builder (or an explicit required=false) says
//     otherwise.
//   - KindField: computed internally; never accepted from the constructor
//     caller (its init-arg is forced to none), and lazy whenever it
//     carries a default or builder.
//
// JSON and YAML serialization uses the string names ("param", "field")
// rather than numeric values for readability and forward compatibility.
type Kind uint8

const (
	// KindUnspecified represents an attribute whose kind has not been
	// determined. This is the zero value. It MAY appear in raw
	// declarations mid-assembly but MUST NOT survive normalization.
	KindUnspecified Kind = iota

	// KindParam represents an attribute whose value is ordinarily
	// supplied by the constructor caller.
	KindParam

	// KindField represents an attribute whose value is computed
	// internally and never accepted from the constructor caller.
	KindField
)

const (
	// KindUnspecifiedStr is the string representation of KindUnspecified.
	KindUnspecifiedStr = "unspecified"

	// KindParamStr is the string representation of KindParam.
	KindParamStr = "param"

	// KindFieldStr is the string representation of KindField.
	KindFieldStr = "field"
)

// ParseKind parses a string into a validated Kind value.
//
// The input is normalized (whitespace trimmed, lowercased) and matched
// against the known kind names "unspecified", "param", and "field". An
// unrecognized name yields KindUnspecified and an error.
func ParseKind(s string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))

	switch normalized {
	case KindUnspecifiedStr:
		return KindUnspecified, nil
	case KindParamStr:
		return KindParam, nil
	case KindFieldStr:
		return KindField, nil
	default:
		return KindUnspecified, fmt.Errorf("unknown Kind name %q (valid: %s, %s, %s)", s,
			KindUnspecifiedStr, KindParamStr, KindFieldStr)
	}
}

// Compile-time assertion that Kind implements model.Model.
var _ model.Model = (*Kind)(nil)

// String returns the Kind as a human-readable lowercase name. It
// implements fmt.Stringer and the model.Loggable contract.
func (k Kind) String() string {
	switch k {
	case KindUnspecified:
		return KindUnspecifiedStr
	case KindParam:
		return KindParamStr
	case KindField:
		return KindFieldStr
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Redacted returns a redacted form of the Kind for logging. Kind
// classifications carry nothing sensitive, so the redacted form is
// identical to String.
func (k Kind) Redacted() string {
	return k.String()
}

// TypeName returns "Kind", implementing the model.Identifiable contract.
func (k Kind) TypeName() string {
	return "Kind"
}

// IsZero reports whether this Kind is the zero value (KindUnspecified),
// implementing the model.ZeroCheckable contract.
func (k Kind) IsZero() bool {
	return k == KindUnspecified
}

// Equal reports whether two Kind values are the same classification.
func (k Kind) Equal(other Kind) bool {
	return k == other
}

// Validate checks that the Kind is one of the defined constants,
// implementing the model.Validatable contract. Values outside the defined
// range (for example, from corrupted serialized data) fail.
func (k Kind) Validate() error {
	switch k {
	case KindUnspecified, KindParam, KindField:
		return nil
	default:
		return fmt.Errorf("Kind value %d is not a known kind (valid range: 0-%d)", uint8(k), uint8(KindField))
	}
}

// MarshalJSON serializes the Kind as its string name, validating first so
// only well-formed values are written.
func (k Kind) MarshalJSON() ([]byte, error) {
	if err := k.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", k.TypeName(), err)
	}
	return json.Marshal(k.String())
}

// UnmarshalJSON deserializes a Kind from its JSON string name, applying
// the same normalization as ParseKind. On failure the receiver is left
// unmodified.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("cannot unmarshal JSON into %s: %w", k.TypeName(), err)
	}

	parsed, err := ParseKind(str)
	if err != nil {
		return fmt.Errorf("unmarshaled %s is invalid: %w", k.TypeName(), err)
	}

	*k = parsed
	return nil
}

// MarshalYAML serializes the Kind as its string name, validating first.
func (k Kind) MarshalYAML() (interface{}, error) {
	if err := k.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", k.TypeName(), err)
	}
	return k.String(), nil
}

// UnmarshalYAML deserializes a Kind from its YAML string name. On failure
// the receiver is left unmodified.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err != nil {
		return fmt.Errorf("cannot unmarshal YAML into %s: %w", k.TypeName(), err)
	}

	parsed, err := ParseKind(str)
	if err != nil {
		return fmt.Errorf("unmarshaled %s is invalid: %w", k.TypeName(), err)
	}

	*k = parsed
	return nil
}
