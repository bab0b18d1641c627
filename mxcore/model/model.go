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

// Package model defines the contracts that every moosex-extreme metadata
// type MUST implement to guarantee consistent validation, serialization,
// logging, and identity behavior across the attribute engine.
//
// The types this library manipulates (attribute Kind, Access, ClonePolicy,
// Descriptor, Registry, and friends) are metadata: they describe classes,
// they are built once at class-definition time, and they are read for the
// rest of the process lifetime. The contracts in this package enforce the
// properties that make such metadata safe to share: validation ensures
// invalid descriptors are unconstructible, serialization provides lossless
// round-trips for schema documents, Loggable keeps attribute defaults
// (which may embed credentials or other sensitive seed data) out of logs,
// Identifiable supplies stable names for diagnostics, and ZeroCheckable
// supports optional-field detection during normalization.
//
// Unless explicitly documented otherwise, implementations are immutable
// value types after construction and therefore safe for concurrent reads.
// Callers MUST synchronize any concurrent writes to mutable instances.
//
// Types implementing Model can be used with the generic helper functions in
// this package (ValidateAll, MustValidate, FilterZero, SafeString, ToJSON,
// ToYAML, FromJSON, FromYAML, Clone), which rely on the Model contract and
// fail at compile time when applied to types that do not implement it.
package model

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Model is the root interface combining every fundamental contract required
// of moosex-extreme metadata types. Any type implementing Model gains
// automatic support for validation, JSON and YAML serialization, safe
// logging, type identification, and zero-value detection.
//
// Implementations MUST satisfy all embedded interfaces: Validatable ensures
// metadata integrity by checking invariants; Serializable provides
// round-trip JSON and YAML encoding for schema documents; Loggable offers
// both safe (redacted) and unsafe (full) string representations;
// Identifiable supplies a canonical type name; and ZeroCheckable detects
// empty or uninitialized instances.
//
// Model instances are treated as immutable value types. Methods defined on
// Model MUST NOT mutate the receiver unless explicitly documented.
// Concurrent reads are safe; concurrent writes require external
// synchronization.
//
// Example implementation:
//
//	type Flavor struct {
//	    Name string
//	}
//
//	func (f Flavor) Validate() error {
//	    if f.Name == "" {
//	        return errors.New("Flavor.Name MUST NOT be empty")
//	    }
//	    return nil
//	}
//
//	func (f Flavor) TypeName() string { return "Flavor" }
//	func (f Flavor) IsZero() bool { return f.Name == "" }
//	func (f Flavor) Redacted() string { return "Flavor{" + f.Name + "}" }
//	func (f Flavor) String() string { return "Flavor{Name:" + f.Name + "}" }
//	// ... MarshalJSON, UnmarshalJSON, MarshalYAML, UnmarshalYAML
//
//	var _ Model = (*Flavor)(nil)  // Compile-time check
type Model interface {
	Validatable
	Serializable
	Loggable
	Identifiable
	ZeroCheckable
}

// Validatable defines the contract for types that validate their own state.
// Every metadata type MUST implement Validate to verify that all invariants
// hold and that the instance is consistent enough to participate in class
// definition or instance construction.
//
// The Validate method MUST check required fields for non-zero values, MUST
// verify cross-field consistency (for example, that a descriptor does not
// carry both a default and a builder), MUST recursively validate nested
// metadata by calling its Validate methods, and MUST return nil if and only
// if the instance is fully valid. Failure messages MUST say what is wrong
// specifically; prefer "Descriptor.Name MUST be a legal identifier" over a
// generic "validation failed".
//
// Validate MUST be fast (no I/O), deterministic, idempotent, and free of
// side effects. It MUST NOT mutate the receiver.
//
// Callers SHOULD invoke Validate at every trust boundary: after
// unmarshaling a schema document, after normalizing a raw declaration, and
// before a registry accepts a descriptor. A zero-value instance SHOULD
// normally fail validation unless the zero value is documented as
// meaningful (Kind and Access treat their zero values as "unspecified").
type Validatable interface {
	// Validate checks that the instance satisfies all invariants and is
	// ready for use. It returns nil if the instance is valid, or a
	// descriptive error explaining what is wrong.
	//
	// This method MUST NOT mutate the receiver and MUST NOT have side
	// effects. It MUST be safe to call concurrently with other reads.
	Validate() error
}

// Serializable defines the contract for types that can be serialized to and
// deserialized from JSON and YAML. All metadata types MUST support both
// formats so that class schemas can live in configuration files (typically
// YAML) and travel through APIs or tooling (typically JSON).
//
// Implementations MUST call Validate before marshaling so that only valid
// metadata is ever written out, and MUST call Validate after unmarshaling
// so that malformed schema documents are rejected at the boundary rather
// than producing half-formed descriptors. A value serialized to either
// format and then deserialized MUST equal the original value.
//
// Implementations SHOULD use the type-alias pattern to avoid infinite
// recursion in custom marshal methods: define a local alias of the type,
// cast the receiver, and delegate to the encoder.
//
// Marshal methods are safe for concurrent use on immutable receivers.
// Unmarshal methods mutate the receiver and require exclusive access.
type Serializable interface {
	json.Marshaler
	json.Unmarshaler
	yaml.Marshaler
	yaml.Unmarshaler
}

// Loggable defines the contract for types that provide safe string
// representations. Attribute metadata can carry literal default values, and
// nothing stops a class author from defaulting a "token" or "password"
// attribute to real seed material; Loggable exists so that diagnostic
// output never leaks such values by accident.
//
// Redacted returns a representation suitable for production logging. It
// MUST hide literal default values and custom builder/clone function
// identities while preserving structural information (names, kinds,
// constraint names) that makes log lines useful. Redacted MUST be fast,
// MUST NOT perform I/O, MUST NOT mutate the receiver, and MUST be safe to
// call concurrently.
//
// String returns the complete human-readable form and MAY include default
// values verbatim. It is for development, debugging, and test assertions,
// and MUST NEVER be routed to production logs; use Redacted there instead.
//
// Types whose values contain nothing sensitive (enumerations such as Kind
// or Access) MAY return the same string from both methods.
type Loggable interface {
	// Redacted returns a safe string representation for production
	// logging, with literal default values and other potentially
	// sensitive payloads masked.
	//
	// This method MUST NOT mutate the receiver, MUST NOT have side
	// effects, and MUST be safe to call concurrently.
	Redacted() string

	// String returns a human-readable representation that MAY include
	// sensitive payloads such as literal default values. Use Redacted for
	// production logging.
	//
	// This method MUST NOT mutate the receiver, MUST NOT have side
	// effects, and MUST be safe to call concurrently.
	String() string
}

// Identifiable defines the contract for types that identify themselves by a
// canonical type name, used by error messages ("cannot marshal invalid
// Descriptor"), structured logging, and schema tooling.
//
// The name returned by TypeName MUST be constant for a given type, unique
// within moosex-extreme, in CamelCase, and without a package prefix. It
// identifies the type, never the instance. TypeName MUST be fast, MUST NOT
// allocate, and SHOULD return a string constant.
type Identifiable interface {
	// TypeName returns the canonical name of this metadata type. The name
	// MUST be constant for the type, unique within moosex-extreme, in
	// CamelCase, and without a package prefix.
	//
	// This method MUST NOT mutate the receiver and MUST be safe to call
	// concurrently.
	TypeName() string
}

// ZeroCheckable defines the contract for types that can report whether they
// are in a zero or empty state. The attribute engine uses this to detect
// unset optional declaration fields during normalization (an Access of zero
// means "the author did not say", which normalizes to read-only) and to
// filter empty entries out of schema documents.
//
// IsZero MUST return true if and only if the instance is semantically
// empty. For multi-field types it SHOULD be the logical AND of the fields'
// zero checks. IsZero MUST be fast, allocation-free, deterministic, and
// side-effect free.
type ZeroCheckable interface {
	// IsZero reports whether this instance is in a zero or empty state,
	// meaning it contains no meaningful data.
	//
	// This method MUST NOT mutate the receiver, MUST NOT have side
	// effects, and MUST be safe to call concurrently.
	IsZero() bool
}

// Comparable defines the optional contract for types that can be compared
// for equality. Registry composition uses equality to decide whether a
// `+name` override actually changes an inherited descriptor, and tests use
// it for assertions.
//
// Equal MUST be reflexive, symmetric, transitive, and consistent. It SHOULD
// compare all semantically significant fields and ignore caches or other
// derived state. Function-valued fields (builders, custom clone functions)
// compare by presence, not identity, since Go functions are not comparable.
//
// Equal MUST NOT mutate the receiver or the argument and MUST be safe to
// call concurrently.
type Comparable[T any] interface {
	// Equal reports whether this instance represents the same logical
	// value as another instance of the same type.
	//
	// This method MUST NOT mutate the receiver or the argument, MUST NOT
	// have side effects, and MUST be safe to call concurrently.
	Equal(other T) bool
}

// Cloneable defines the optional contract for types that can create deep
// copies of themselves. Registries implement it so that a subclass can
// extend a snapshot of its parent's entries without aliasing the parent's
// storage.
//
// Clone MUST produce an instance that shares no mutable references with the
// original: modifying the clone MUST NOT affect the original and vice
// versa. The clone MUST pass Validate when the original does, and cloning a
// clone MUST produce an equal value. For immutable value types Clone MAY
// return the receiver unchanged.
type Cloneable[T any] interface {
	// Clone creates a deep copy of this instance sharing no mutable
	// references with the original.
	//
	// This method MUST NOT mutate the receiver, MUST NOT have side
	// effects, and MUST be safe to call concurrently.
	Clone() T
}
