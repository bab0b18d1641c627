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

package model

import (
	"encoding/json"
	"fmt"

	"dirpx.dev/rxmerr"
	"gopkg.in/yaml.v3"
)

// ValidateAll validates a slice of metadata values and returns every
// validation failure encountered, not just the first. Class definition is a
// batch process (a class declares many attributes at once), and reporting
// one bad descriptor per compile-fix-recompile cycle is hostile; this
// function exists so callers can surface the whole picture in one error.
//
// Each element's Validate method is invoked in order. Failures are wrapped
// with the element's position and TypeName so callers can identify exactly
// which value failed and why, then aggregated with rxmerr.Collector into a
// single combined error that can be inspected programmatically. If every
// element validates, ValidateAll returns nil. The entire slice is always
// processed even when early elements fail.
//
// Empty slices are valid and return nil. Nil pointers inside the slice are
// handled according to each element's own Validate behavior.
//
// Example usage for batch validation of normalized descriptors:
//
//	if err := model.ValidateAll(descriptors); err != nil {
//	    return fmt.Errorf("class %s: %w", className, err)
//	}
func ValidateAll[T Model](values []T) error {
	c := rxmerr.NewCollector()

	for i, v := range values {
		if err := v.Validate(); err != nil {
			c.Append(fmt.Errorf("value[%d] (%s): %w", i, v.TypeName(), err))
		}
	}

	return c.Err()
}

// FilterZero returns a new slice containing only the non-zero values of the
// input, as reported by each value's IsZero method. Schema tooling uses it
// to drop empty attribute entries before emitting a document, so that a
// round-tripped schema does not accumulate placeholder noise.
//
// The returned slice is always a fresh allocation and never shares backing
// storage with the input. An all-zero or empty input yields an empty,
// non-nil slice. FilterZero does not validate; it only checks zeroness.
func FilterZero[T Model](values []T) []T {
	result := make([]T, 0, len(values))

	for _, v := range values {
		if !v.IsZero() {
			result = append(result, v)
		}
	}

	return result
}

// MustValidate validates a metadata value and panics if validation fails.
// It exists for test fixtures and package initialization, where an invalid
// hard-coded descriptor is a programming error that SHOULD stop the world
// immediately rather than surface later as a confusing construction
// failure.
//
// On success the value is returned unchanged, allowing inline use:
//
//	desc := model.MustValidate(someDescriptor)
//
// Callers MUST NOT use MustValidate on any path that handles external
// input; schema documents and user declarations go through the error-
// returning APIs instead.
func MustValidate[T Model](v T) T {
	if err := v.Validate(); err != nil {
		panic(fmt.Sprintf("metadata validation failed for %s: %v", v.TypeName(), err))
	}
	return v
}

// SafeString returns a string representation of a metadata value that is
// safe for logging by default, or the full representation when explicitly
// requested via the unsafe parameter.
//
// With unsafe false (the production default) the value's Redacted method is
// used, keeping literal attribute defaults and other payloads out of the
// output. With unsafe true the String method is used and the output MAY
// contain sensitive payloads; callers MUST restrict that to controlled
// debugging contexts.
//
// Example:
//
//	log.Printf("registering %s", model.SafeString(desc, false))
func SafeString[T Model](v T, unsafe bool) string {
	if unsafe {
		return v.String()
	}
	return v.Redacted()
}

// ToJSON serializes a metadata value to JSON after validating it. Invalid
// metadata never reaches the encoder: if Validate fails, the validation
// error is returned wrapped with the value's TypeName and no marshaling is
// attempted. On success the value's own MarshalJSON applies.
//
// Example:
//
//	data, err := model.ToJSON(registry)
//	if err != nil {
//	    return err
//	}
func ToJSON[T Model](v T) ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", v.TypeName(), err)
	}
	return json.Marshal(v)
}

// ToYAML serializes a metadata value to YAML after validating it, with the
// same validate-before-marshal contract as ToJSON. The output is suitable
// for class schema files consumed by the schema package.
func ToYAML[T Model](v T) ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", v.TypeName(), err)
	}
	return yaml.Marshal(v)
}

// FromJSON parses JSON bytes into a metadata value and validates the
// result, so that malformed schema data is rejected at the boundary. If
// either unmarshaling or validation fails an error is returned and the
// destination's state is undefined; callers MUST NOT use it.
//
// Example:
//
//	var d attr.Descriptor
//	if err := model.FromJSON(data, &d); err != nil {
//	    return err
//	}
func FromJSON[T Model](data []byte, v *T) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("cannot unmarshal JSON: %w", err)
	}
	if err := (*v).Validate(); err != nil {
		return fmt.Errorf("unmarshaled value is invalid: %w", err)
	}
	return nil
}

// FromYAML parses YAML bytes into a metadata value and validates the
// result, with the same contract as FromJSON. This is the entry point the
// schema package builds on when loading class definitions from
// configuration files.
func FromYAML[T Model](data []byte, v *T) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("cannot unmarshal YAML: %w", err)
	}
	if err := (*v).Validate(); err != nil {
		return fmt.Errorf("unmarshaled value is invalid: %w", err)
	}
	return nil
}

// Clone creates a deep copy of a metadata value via a JSON round-trip. The
// round-trip guarantees that nested slices and maps are copied by value, so
// the clone shares no mutable references with the original. Types with
// function-valued fields (anonymous builders, custom clone functions) lose
// those fields under this generic Clone and SHOULD implement Cloneable with
// hand-written copy logic instead; Registry does exactly that.
//
// Callers MUST check the returned error before using the clone; on failure
// the returned value is the zero value and MUST NOT be used.
func Clone[T Model](v T) (T, error) {
	var zero T

	data, err := json.Marshal(v)
	if err != nil {
		return zero, fmt.Errorf("cannot clone %s: marshal failed: %w", v.TypeName(), err)
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, fmt.Errorf("cannot clone %s: unmarshal failed: %w", v.TypeName(), err)
	}

	return out, nil
}
