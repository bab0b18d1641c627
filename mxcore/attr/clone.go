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
	"reflect"
	"strings"

	"github.com/tobyink/moosex-extreme/mxcore/model"
	"gopkg.in/yaml.v3"
)

// ClonePolicy is the copy strategy applied to a reference-typed value at
// the moment it enters an instance slot, so that later mutation of the
// caller's original never bleeds into instance state. The policy applies
// uniformly whether the value arrived as a constructor argument or was
// produced by a default or builder.
//
// This type implements the model.Model interface. The zero value
// (CloneNone) is valid and means "store the value as given".
type ClonePolicy uint8

const (
	// CloneNone stores the value as given, sharing any underlying
	// references with the caller. This is the zero value and the default
	// policy.
	CloneNone ClonePolicy = iota

	// CloneShallow copies one level of container: a slice is copied into
	// a fresh slice, a map into a fresh map, but the elements themselves
	// are shared.
	CloneShallow

	// CloneDeep copies recursively, so the stored value shares no
	// containers at any depth with the original.
	CloneDeep

	// CloneCustom delegates copying to a caller-supplied CloneFunc
	// carried on the descriptor.
	CloneCustom
)

const (
	// CloneNoneStr is the string representation of CloneNone.
	CloneNoneStr = "none"

	// CloneShallowStr is the string representation of CloneShallow.
	CloneShallowStr = "shallow"

	// CloneDeepStr is the string representation of CloneDeep.
	CloneDeepStr = "deep"

	// CloneCustomStr is the string representation of CloneCustom.
	CloneCustomStr = "custom"
)

// CloneFunc is a caller-supplied copy strategy for CloneCustom. It
// receives the incoming value and returns the value to store. Errors abort
// the surrounding construction or write.
type CloneFunc func(value any) (any, error)

// ParseClonePolicy parses a string into a validated ClonePolicy value.
// Input is trimmed and lowercased.
func ParseClonePolicy(s string) (ClonePolicy, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))

	switch normalized {
	case CloneNoneStr:
		return CloneNone, nil
	case CloneShallowStr:
		return CloneShallow, nil
	case CloneDeepStr:
		return CloneDeep, nil
	case CloneCustomStr:
		return CloneCustom, nil
	default:
		return CloneNone, fmt.Errorf("unknown ClonePolicy name %q (valid: %s, %s, %s, %s)", s,
			CloneNoneStr, CloneShallowStr, CloneDeepStr, CloneCustomStr)
	}
}

// Compile-time assertion that ClonePolicy implements model.Model.
var _ model.Model = (*ClonePolicy)(nil)

// String returns the ClonePolicy as its lowercase name.
func (cp ClonePolicy) String() string {
	switch cp {
	case CloneNone:
		return CloneNoneStr
	case CloneShallow:
		return CloneShallowStr
	case CloneDeep:
		return CloneDeepStr
	case CloneCustom:
		return CloneCustomStr
	default:
		return fmt.Sprintf("ClonePolicy(%d)", uint8(cp))
	}
}

// Redacted returns the same representation as String.
func (cp ClonePolicy) Redacted() string {
	return cp.String()
}

// TypeName returns "ClonePolicy".
func (cp ClonePolicy) TypeName() string {
	return "ClonePolicy"
}

// IsZero reports whether this ClonePolicy is CloneNone.
func (cp ClonePolicy) IsZero() bool {
	return cp == CloneNone
}

// Equal reports whether two ClonePolicy values are the same strategy.
func (cp ClonePolicy) Equal(other ClonePolicy) bool {
	return cp == other
}

// Validate checks that the ClonePolicy is one of the defined constants.
func (cp ClonePolicy) Validate() error {
	switch cp {
	case CloneNone, CloneShallow, CloneDeep, CloneCustom:
		return nil
	default:
		return fmt.Errorf("ClonePolicy value %d is not a known policy (valid range: 0-%d)", uint8(cp), uint8(CloneCustom))
	}
}

// MarshalJSON serializes the ClonePolicy as its string name, validating
// first.
func (cp ClonePolicy) MarshalJSON() ([]byte, error) {
	if err := cp.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", cp.TypeName(), err)
	}
	return json.Marshal(cp.String())
}

// UnmarshalJSON deserializes a ClonePolicy from its JSON string name. On
// failure the receiver is left unmodified.
func (cp *ClonePolicy) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("cannot unmarshal JSON into %s: %w", cp.TypeName(), err)
	}

	parsed, err := ParseClonePolicy(str)
	if err != nil {
		return fmt.Errorf("unmarshaled %s is invalid: %w", cp.TypeName(), err)
	}

	*cp = parsed
	return nil
}

// MarshalYAML serializes the ClonePolicy as its string name, validating
// first.
func (cp ClonePolicy) MarshalYAML() (interface{}, error) {
	if err := cp.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", cp.TypeName(), err)
	}
	return cp.String(), nil
}

// UnmarshalYAML deserializes a ClonePolicy from its YAML string name. On
// failure the receiver is left unmodified.
func (cp *ClonePolicy) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err != nil {
		return fmt.Errorf("cannot unmarshal YAML into %s: %w", cp.TypeName(), err)
	}

	parsed, err := ParseClonePolicy(str)
	if err != nil {
		return fmt.Errorf("unmarshaled %s is invalid: %w", cp.TypeName(), err)
	}

	*cp = parsed
	return nil
}

// CloneValue applies a clone policy to a value about to enter an instance
// slot and returns the value to store.
//
// CloneNone returns the value unchanged. CloneShallow copies one container
// level for slices and maps and returns every other kind unchanged.
// CloneDeep copies slices and maps recursively. CloneCustom calls fn,
// which MUST be non-nil (normalization guarantees this for descriptors);
// a nil fn is reported as an error rather than a panic.
//
// Values that are not containers pass through every policy unchanged:
// scalars are copied by assignment anyway, and non-container reference
// kinds (channels, functions) have no meaningful structural copy.
func CloneValue(policy ClonePolicy, fn CloneFunc, value any) (any, error) {
	switch policy {
	case CloneNone:
		return value, nil
	case CloneShallow:
		return shallowCopy(value), nil
	case CloneDeep:
		return deepCopy(value), nil
	case CloneCustom:
		if fn == nil {
			return nil, fmt.Errorf("ClonePolicy %s requires a clone function, none was supplied", CloneCustomStr)
		}
		return fn(value)
	default:
		return nil, fmt.Errorf("cannot apply invalid ClonePolicy: %d", uint8(policy))
	}
}

// shallowCopy copies one level of a slice or map, sharing elements.
func shallowCopy(value any) any {
	if value == nil {
		return nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice:
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface()
	case reflect.Map:
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		return out.Interface()
	default:
		return value
	}
}

// deepCopy copies slices and maps recursively. Elements that are
// themselves slices or maps (directly or behind interface values) are
// copied in turn; pointers, structs, and scalars are shared or copied by
// assignment as their kind dictates.
func deepCopy(value any) any {
	if value == nil {
		return nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice:
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem := deepCopy(rv.Index(i).Interface())
			if elem == nil {
				continue
			}
			out.Index(i).Set(reflect.ValueOf(elem))
		}
		return out.Interface()
	case reflect.Map:
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			val := deepCopy(iter.Value().Interface())
			if val == nil {
				out.SetMapIndex(iter.Key(), reflect.Zero(rv.Type().Elem()))
				continue
			}
			out.SetMapIndex(iter.Key(), reflect.ValueOf(val))
		}
		return out.Interface()
	default:
		return value
	}
}
