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

package object

import (
	"fmt"
	"strings"
)

// The construction-time and accessor-time failure taxonomy. All of these
// are terminal structured errors: construction is all-or-nothing, so no
// instance ever escapes a failure, and none of these are retried or
// swallowed internally. Callers match them with errors.As; the Error
// methods are a rendering convenience, not the identity.

// UnknownArgumentError is raised when strict argument checking finds
// constructor keys that match no declared init-arg. Every offending key is
// collected before failing, so one construction attempt reports the whole
// problem.
type UnknownArgumentError struct {
	// Class is the class being constructed.
	Class string

	// Keys are the unknown argument names, sorted for deterministic
	// messages.
	Keys []string
}

// Error lists every unknown key.
func (e *UnknownArgumentError) Error() string {
	return fmt.Sprintf("class %s: unknown constructor argument(s): %s", e.Class, strings.Join(e.Keys, ", "))
}

// MissingRequiredError is raised when a required attribute has neither a
// supplied constructor argument nor a default or builder.
type MissingRequiredError struct {
	// Class is the class being constructed.
	Class string

	// Attribute is the required attribute that was not supplied.
	Attribute string
}

// Error names the missing attribute.
func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("class %s: missing required attribute %q", e.Class, e.Attribute)
}

// ImmutableError is raised by an attempt to write or clear a slot that
// does not permit it: any write to a read-only attribute, or a clear of an
// attribute that is neither read-write nor lazy.
type ImmutableError struct {
	// Class is the instance's class.
	Class string

	// Attribute is the slot that refused the operation.
	Attribute string

	// Op is the refused operation, "write" or "clear".
	Op string
}

// Error names the refused operation and the attribute.
func (e *ImmutableError) Error() string {
	return fmt.Sprintf("class %s: cannot %s read-only attribute %q", e.Class, e.Op, e.Attribute)
}

// UnsetError is the absence signal: reading an optional attribute whose
// slot is unset and which has no default or builder to resolve. It is an
// expected condition, not a bug; predicates exist so callers can avoid
// it.
type UnsetError struct {
	// Class is the instance's class.
	Class string

	// Attribute is the unset attribute.
	Attribute string
}

// Error names the unset attribute.
func (e *UnsetError) Error() string {
	return fmt.Sprintf("class %s: attribute %q is unset", e.Class, e.Attribute)
}

// UnknownAttributeError is raised when an operation names an attribute the
// class does not declare, or an accessor name the class does not
// synthesize.
type UnknownAttributeError struct {
	// Class is the instance's class.
	Class string

	// Name is the unknown attribute or accessor name.
	Name string
}

// Error names the unknown attribute.
func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("class %s: no such attribute or accessor %q", e.Class, e.Name)
}

// ForwardReferenceError is raised when a default or builder reads an
// attribute that is still unset because it is declared later and has not
// been resolved yet. Declaration order governs evaluation order; a forward
// reference is an ordering bug in the class, and the engine fails loudly
// instead of handing back an absent value.
type ForwardReferenceError struct {
	// Class is the instance's class.
	Class string

	// Attribute is the attribute whose default or builder was running.
	Attribute string

	// Wanted is the later-declared attribute it tried to read.
	Wanted string
}

// Error names both ends of the bad reference.
func (e *ForwardReferenceError) Error() string {
	return fmt.Sprintf("class %s: default/builder of %q reads %q, which is declared later and still unset (declaration order governs evaluation order)",
		e.Class, e.Attribute, e.Wanted)
}

// BuilderCycleError is raised when lazy resolution re-enters an attribute
// already being resolved: the attribute's builder, directly or through
// other attributes, depends on itself.
type BuilderCycleError struct {
	// Class is the instance's class.
	Class string

	// Attribute is the attribute whose resolution formed the cycle.
	Attribute string
}

// Error names the cyclic attribute.
func (e *BuilderCycleError) Error() string {
	return fmt.Sprintf("class %s: builder cycle detected while resolving attribute %q", e.Class, e.Attribute)
}

// UnboundBuilderError is raised when an attribute declared with a named
// builder is resolved before any builder function was bound to that name.
// Named builders come from the class definition's builder table or the
// schema loader's builder set; a missing entry is a definition mistake
// surfaced at class-definition time, so reaching this error at runtime
// means a registry was assembled outside the definition surface.
type UnboundBuilderError struct {
	// Class is the instance's class.
	Class string

	// Attribute is the attribute lacking its builder.
	Attribute string

	// BuilderName is the unbound builder method name.
	BuilderName string
}

// Error names the unbound builder.
func (e *UnboundBuilderError) Error() string {
	return fmt.Sprintf("class %s: attribute %q declares builder %s but no function is bound to it", e.Class, e.Attribute, e.BuilderName)
}

// BuildHookError wraps a failure from a class's post-construction hook.
// Hook failure aborts construction; the partially-resolved instance is
// discarded.
type BuildHookError struct {
	// Class is the class whose hook failed.
	Class string

	// Cause is the hook's error.
	Cause error
}

// Error names the class and the hook failure.
func (e *BuildHookError) Error() string {
	return fmt.Sprintf("class %s: post-construction hook failed: %v", e.Class, e.Cause)
}

// Unwrap returns the hook's error for errors.Is and errors.As chains.
func (e *BuildHookError) Unwrap() error {
	return e.Cause
}
