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

import "fmt"

// DefinitionError is the structured failure raised at class-definition
// time when an attribute declaration is invalid: an illegal or reserved
// name, a conflicting option combination (default and builder together), a
// field given a non-underscore init-arg, or a missing custom clone
// function.
//
// DefinitionError is an error value; callers match it with errors.As. It
// is always terminal: a declaration that produces one never yields a
// usable descriptor, so malformed classes never become instantiable.
type DefinitionError struct {
	// Attribute is the declared attribute name the error concerns. It may
	// itself be the illegal value (for example an empty string) when the
	// name is what failed.
	Attribute string

	// Reason describes the specific rule that was broken.
	Reason string

	// Cause is the underlying error when the rule was checked by a
	// collaborator (the naming validator, a constraint parser), or nil.
	Cause error
}

// NewDefinitionError constructs a DefinitionError for the named attribute.
func NewDefinitionError(attribute, reason string) *DefinitionError {
	return &DefinitionError{Attribute: attribute, Reason: reason}
}

// WrapDefinitionError constructs a DefinitionError carrying an underlying
// cause, preserved for errors.Is and errors.As chains.
func WrapDefinitionError(attribute string, cause error) *DefinitionError {
	return &DefinitionError{Attribute: attribute, Reason: cause.Error(), Cause: cause}
}

// Error renders the definition failure with the attribute name and the
// broken rule.
func (e *DefinitionError) Error() string {
	return fmt.Sprintf("invalid attribute definition for %q: %s", e.Attribute, e.Reason)
}

// Unwrap returns the underlying cause, or nil when the rule was checked
// directly.
func (e *DefinitionError) Unwrap() error {
	return e.Cause
}
