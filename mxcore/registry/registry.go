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

// Package registry implements the per-class ordered attribute registry:
// the mapping from attribute name to normalized descriptor that the
// constructor engine and accessor synthesizer consume.
//
// A registry is built incrementally while a class body is evaluated,
// resolves its parent's entries before local overrides, and is then
// finalized. Finalization is one-way: a finalized registry is immutable,
// shared by reference, and safe for concurrent reads without locking.
// Declaration order is preserved because it is semantically load-bearing:
// it governs the evaluation order of eager defaults and builders and the
// determinism of error messages.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tobyink/moosex-extreme/mxcore/attr"
	"github.com/tobyink/moosex-extreme/mxcore/model"
	"gopkg.in/yaml.v3"
)

// OverridePrefix marks a declaration that overrides an inherited attribute
// rather than introducing a new one. A declaration named "+title" replaces
// the parent's "title" descriptor in place, preserving its original
// position in the ordering.
const OverridePrefix = "+"

// Sentinel errors for registry assembly.
var (
	// ErrRegistryClosed indicates an attempt to mutate a finalized
	// registry.
	ErrRegistryClosed = errors.New("registry: registry is finalized and closed to mutation")

	// ErrDuplicateAttribute indicates a declaration whose name collides
	// with an attribute already registered in the same class body.
	ErrDuplicateAttribute = errors.New("registry: duplicate attribute name")

	// ErrUnknownOverride indicates a +name override with no inherited
	// attribute of that name to override.
	ErrUnknownOverride = errors.New("registry: override names no inherited attribute")

	// ErrInheritAfterLocal indicates ResolveInherited called after local
	// declarations were already registered; parent entries MUST come
	// first so overrides and ordering behave predictably.
	ErrInheritAfterLocal = errors.New("registry: inherited entries MUST be resolved before local declarations")
)

// Registry is the ordered attribute table of one class.
//
// The zero value is not usable; construct with New. Until Finalize is
// called the registry is in its single-writer assembly phase and MUST NOT
// be shared; after Finalize it is immutable and freely shareable.
type Registry struct {
	className string
	entries   []attr.Descriptor
	index     map[string]int
	inherited int
	finalized bool
}

// New creates an empty, open registry for the named class.
func New(className string) *Registry {
	return &Registry{
		className: className,
		index:     make(map[string]int),
	}
}

// ClassName returns the name of the class this registry describes.
func (r *Registry) ClassName() string {
	return r.className
}

// Finalized reports whether the registry has been closed to mutation.
func (r *Registry) Finalized() bool {
	return r.finalized
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	return len(r.entries)
}

// ResolveInherited copies the finalized parent registry's entries into
// this registry as its leading segment. It MUST be called before any local
// declaration is registered and before any +name override is processed,
// and MUST NOT be called twice.
//
// The parent MUST itself be finalized: inheriting from a still-open
// registry would capture an unfinished attribute table.
func (r *Registry) ResolveInherited(parent *Registry) error {
	if r.finalized {
		return fmt.Errorf("%w (class %s)", ErrRegistryClosed, r.className)
	}
	if len(r.entries) > 0 {
		return fmt.Errorf("%w (class %s)", ErrInheritAfterLocal, r.className)
	}
	if parent == nil {
		return nil
	}
	if !parent.finalized {
		return fmt.Errorf("registry: parent registry %s MUST be finalized before it is inherited", parent.className)
	}

	r.entries = append(r.entries, parent.entries...)
	for i, d := range r.entries {
		r.index[d.Name] = i
	}
	r.inherited = len(r.entries)
	return nil
}

// Register inserts a descriptor, or overrides an inherited one when the
// declared name carries the "+" override prefix.
//
// A plain registration appends to the declaration order and fails with
// ErrDuplicateAttribute if the name is already present (inherited names
// included; shadowing without the explicit override marker is an error,
// not a feature). An override registration replaces the inherited
// descriptor of the same name in place, preserving its original position;
// overriding a name that was not inherited fails with ErrUnknownOverride.
//
// The descriptor passed to an override MUST already be normalized under
// its bare name (without the prefix); Register is told about the override
// by the name parameter, which is the declared spelling.
func (r *Registry) Register(name string, d attr.Descriptor) error {
	if r.finalized {
		return fmt.Errorf("%w (class %s, attribute %q)", ErrRegistryClosed, r.className, name)
	}

	if strings.HasPrefix(name, OverridePrefix) {
		bare := strings.TrimPrefix(name, OverridePrefix)
		if bare != d.Name {
			return fmt.Errorf("registry: override %q does not match descriptor name %q", name, d.Name)
		}
		pos, ok := r.index[bare]
		if !ok || pos >= r.inherited {
			return fmt.Errorf("%w (class %s, attribute %q)", ErrUnknownOverride, r.className, bare)
		}
		if err := d.Validate(); err != nil {
			return fmt.Errorf("registry: class %s, attribute %q: %w", r.className, bare, err)
		}
		r.entries[pos] = d
		return nil
	}

	if name != d.Name {
		return fmt.Errorf("registry: declared name %q does not match descriptor name %q", name, d.Name)
	}
	if _, exists := r.index[name]; exists {
		return fmt.Errorf("%w (class %s, attribute %q)", ErrDuplicateAttribute, r.className, name)
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("registry: class %s, attribute %q: %w", r.className, name, err)
	}

	r.index[name] = len(r.entries)
	r.entries = append(r.entries, d)
	return nil
}

// Finalize freezes the registry. After Finalize, Register and
// ResolveInherited fail with ErrRegistryClosed, and the registry may be
// shared across goroutines without synchronization. Finalize is
// idempotent.
func (r *Registry) Finalize() {
	r.finalized = true
}

// Lookup returns the descriptor with the given attribute name. The second
// return reports whether the name is registered.
func (r *Registry) Lookup(name string) (attr.Descriptor, bool) {
	pos, ok := r.index[name]
	if !ok {
		return attr.Descriptor{}, false
	}
	return r.entries[pos], true
}

// Descriptors returns the registry's entries in declaration order. The
// returned slice is a fresh copy; mutating it does not affect the
// registry.
func (r *Registry) Descriptors() []attr.Descriptor {
	out := make([]attr.Descriptor, len(r.entries))
	copy(out, r.entries)
	return out
}

// InitArgs returns the set of constructor-argument names this registry
// accepts, mapped to the attribute each one populates. Forbidden
// attributes (fields without a test seam) contribute nothing; a field's
// underscore seam contributes its seam name.
func (r *Registry) InitArgs() map[string]string {
	out := make(map[string]string, len(r.entries))
	for _, d := range r.entries {
		if d.InitArg != "" {
			out[d.InitArg] = d.Name
		}
	}
	return out
}

// Compile-time assertions for the model contracts.
var (
	_ model.Model               = (*Registry)(nil)
	_ model.Cloneable[Registry] = (*Registry)(nil)
)

// Validate checks the registry's own invariants and every descriptor in
// it: a non-empty class name, unique attribute names, unique accessor and
// init-arg names across the class (two attributes both synthesizing
// "get_x" would collide in the dispatch table), and descriptor-level
// validity. Failures are specific about which attribute broke which rule.
func (r *Registry) Validate() error {
	if r.className == "" {
		return fmt.Errorf("Registry class name MUST NOT be empty")
	}

	seen := make(map[string]string, len(r.entries))
	claim := func(name, owner, role string) error {
		if prev, taken := seen[name]; taken {
			return fmt.Errorf("Registry for %s: %s %q of attribute %q collides with %s", r.className, role, name, owner, prev)
		}
		seen[name] = fmt.Sprintf("%s of attribute %q", role, owner)
		return nil
	}

	for i, d := range r.entries {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("Registry for %s: entry[%d]: %w", r.className, i, err)
		}
		if pos, ok := r.index[d.Name]; !ok || pos != i {
			return fmt.Errorf("Registry for %s: index out of step with entry %q", r.className, d.Name)
		}
		if err := claim(d.Name, d.Name, "attribute name"); err != nil {
			return err
		}
		for _, acc := range d.AccessorNames() {
			if err := claim(acc, d.Name, "accessor name"); err != nil {
				return err
			}
		}
		if d.BuilderName != "" {
			if err := claim(d.BuilderName, d.Name, "builder name"); err != nil {
				return err
			}
		}
		if d.InitArg != "" && d.InitArg != d.Name {
			if err := claim(d.InitArg, d.Name, "init_arg"); err != nil {
				return err
			}
		}
	}

	return nil
}

// IsZero reports whether the registry has no class name and no entries.
func (r *Registry) IsZero() bool {
	return r.className == "" && len(r.entries) == 0
}

// TypeName returns "Registry".
func (r *Registry) TypeName() string {
	return "Registry"
}

// String returns the full human-readable form, listing every descriptor.
// Use Redacted for production logging: descriptors can carry literal
// defaults.
func (r *Registry) String() string {
	return r.render(func(d attr.Descriptor) string { return d.String() })
}

// Redacted returns the log-safe form with each descriptor redacted.
func (r *Registry) Redacted() string {
	return r.render(attr.Descriptor.Redacted)
}

func (r *Registry) render(one func(attr.Descriptor) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Registry{%s", r.className)
	if r.finalized {
		b.WriteString(", finalized")
	}
	for _, d := range r.entries {
		b.WriteString(", ")
		b.WriteString(one(d))
	}
	b.WriteString("}")
	return b.String()
}

// Clone returns a deep copy of the registry, preserving its assembly
// state (an open registry clones open). Descriptors are
// immutable value types, so copying the entry slice and rebuilding the
// index is a full structural copy; function-valued descriptor fields are
// shared, which is safe because they are never mutated.
//
// Subclass assembly uses Clone indirectly through ResolveInherited; the
// method also serves callers that want a snapshot of a class's attribute
// table to inspect.
func (r *Registry) Clone() Registry {
	out := Registry{
		className: r.className,
		entries:   make([]attr.Descriptor, len(r.entries)),
		index:     make(map[string]int, len(r.index)),
		inherited: r.inherited,
		finalized: r.finalized,
	}
	copy(out.entries, r.entries)
	for name, pos := range r.index {
		out.index[name] = pos
	}
	return out
}

// registryDoc is the serialized projection shared by the JSON and YAML
// codecs.
type registryDoc struct {
	Class      string            `json:"class" yaml:"class"`
	Attributes []attr.Descriptor `json:"attributes" yaml:"attributes"`
}

// MarshalJSON serializes the registry as its class name plus descriptor
// list in declaration order, validating first.
func (r *Registry) MarshalJSON() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", r.TypeName(), err)
	}
	return json.Marshal(registryDoc{Class: r.className, Attributes: r.Descriptors()})
}

// UnmarshalJSON deserializes a registry from its class-plus-attributes
// projection. The result is open (not finalized); callers finalize after
// any further assembly. On failure the receiver is left unmodified.
func (r *Registry) UnmarshalJSON(data []byte) error {
	var doc registryDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("cannot unmarshal JSON into %s: %w", r.TypeName(), err)
	}
	return r.fromDoc(doc)
}

// MarshalYAML serializes the registry, validating first.
func (r *Registry) MarshalYAML() (interface{}, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", r.TypeName(), err)
	}
	return registryDoc{Class: r.className, Attributes: r.Descriptors()}, nil
}

// UnmarshalYAML deserializes a registry with the same contract as
// UnmarshalJSON.
func (r *Registry) UnmarshalYAML(node *yaml.Node) error {
	var doc registryDoc
	if err := node.Decode(&doc); err != nil {
		return fmt.Errorf("cannot unmarshal YAML into %s: %w", r.TypeName(), err)
	}
	return r.fromDoc(doc)
}

func (r *Registry) fromDoc(doc registryDoc) error {
	out := New(doc.Class)
	for _, d := range doc.Attributes {
		if err := out.Register(d.Name, d); err != nil {
			return err
		}
	}
	if err := out.Validate(); err != nil {
		return fmt.Errorf("unmarshaled %s is invalid: %w", out.TypeName(), err)
	}

	*r = *out
	return nil
}
