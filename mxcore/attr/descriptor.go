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

	"github.com/tobyink/moosex-extreme/mxcore/constraint"
	"github.com/tobyink/moosex-extreme/mxcore/model"
	"gopkg.in/yaml.v3"
)

// Descriptor is the normalized, fully-resolved metadata for one class
// attribute: its name, kind, storage mode, type constraint, constructor
// posture, value source, laziness, clone policy, and accessor names.
//
// Descriptors are produced by Param, Field, and their list forms, and MUST
// be treated as immutable once returned: they are owned by the registry of
// the declaring class and shared by reference for the life of the process.
// All invariants are established at normalization time and re-checked by
// Validate, so a descriptor that arrived through deserialization is held
// to the same rules as one declared in code.
//
// This type implements the model.Model interface. Function-valued fields
// (DefaultFn, Builder, CloneFn) do not serialize; their presence is
// recorded structurally (HasBuilder, the builder name, the custom clone
// policy) and the functions themselves are re-supplied when a schema
// document is loaded.
type Descriptor struct {
	// Name is the attribute's identifier. Non-empty, legal per the
	// naming validator; MAY begin with an underscore.
	Name string

	// Kind records whether this attribute is a param or a field.
	Kind Kind

	// Access is the storage mode, always resolved (never unspecified).
	Access Access

	// Isa is the type constraint applied on every slot assignment, or
	// nil for unconstrained.
	Isa constraint.Constraint

	// Required reports whether constructor callers MUST supply this
	// attribute. Never true when a default or builder exists.
	Required bool

	// InitArg is the constructor-argument name accepted for this
	// attribute, or "" when construction never accepts it (the forbidden
	// posture of fields without a test seam).
	InitArg string

	// HasDefault reports whether Default carries a declared literal,
	// distinguishing "default is nil" from "no default".
	HasDefault bool

	// Default is the declared literal default value.
	Default any

	// DefaultFn is the value-producing default thunk, or nil.
	DefaultFn BuilderFunc

	// HasBuilder reports whether a builder is declared, by function or
	// by name.
	HasBuilder bool

	// Builder is the builder function, or nil when the builder is named
	// but its function has not yet been bound (schema loading binds it).
	Builder BuilderFunc

	// BuilderName is the synthesized builder method name
	// (_build_<Name>), or "" when no builder is declared.
	BuilderName string

	// Lazy reports whether the value source is deferred to first read
	// and memoized.
	Lazy bool

	// Clone is the copy strategy applied when values enter this slot.
	Clone ClonePolicy

	// CloneFn is the custom clone function for CloneCustom, nil
	// otherwise.
	CloneFn CloneFunc

	// ReaderName, WriterName, PredicateName, and ClearerName are the
	// requested accessor names, "" when the accessor was not requested.
	ReaderName    string
	WriterName    string
	PredicateName string
	ClearerName   string
}

// Compile-time assertions for the model contracts.
var (
	_ model.Model                  = (*Descriptor)(nil)
	_ model.Comparable[Descriptor] = Descriptor{}
)

// HasSource reports whether the attribute has any internal value source: a
// literal default, a default thunk, or a builder.
func (d Descriptor) HasSource() bool {
	return d.HasDefault || d.DefaultFn != nil || d.HasBuilder
}

// Forbidden reports whether construction never accepts this attribute
// from the caller. A field with an underscore test-seam init-arg is not
// forbidden in this sense; its seam name is a legal constructor argument.
func (d Descriptor) Forbidden() bool {
	return d.InitArg == ""
}

// AccessorNames returns the requested accessor names in reader, writer,
// predicate, clearer order, skipping empty slots. The result is a fresh
// slice.
func (d Descriptor) AccessorNames() []string {
	names := make([]string, 0, 4)
	for _, n := range []string{d.ReaderName, d.WriterName, d.PredicateName, d.ClearerName} {
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}

// IsaName returns the textual form of the type constraint, or "" when the
// attribute is unconstrained.
func (d Descriptor) IsaName() string {
	if d.Isa == nil {
		return ""
	}
	return d.Isa.Name()
}

// String returns the full human-readable form, including the literal
// default when one is declared. Use Redacted for production logging.
func (d Descriptor) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Descriptor{%s %s, is:%s", d.Kind, d.Name, d.Access)
	if d.Isa != nil {
		fmt.Fprintf(&b, ", isa:%s", d.Isa.Name())
	}
	if d.Required {
		b.WriteString(", required")
	}
	if d.InitArg != "" && d.InitArg != d.Name {
		fmt.Fprintf(&b, ", init_arg:%s", d.InitArg)
	}
	if d.Forbidden() {
		b.WriteString(", init_arg:none")
	}
	if d.HasDefault {
		fmt.Fprintf(&b, ", default:%s", constraint.RenderValue(d.Default))
	}
	if d.DefaultFn != nil {
		b.WriteString(", default:<thunk>")
	}
	if d.HasBuilder {
		fmt.Fprintf(&b, ", builder:%s", d.BuilderName)
	}
	if d.Lazy {
		b.WriteString(", lazy")
	}
	if d.Clone != CloneNone {
		fmt.Fprintf(&b, ", clone:%s", d.Clone)
	}
	b.WriteString("}")
	return b.String()
}

// Redacted returns the log-safe form: structure is preserved but the
// literal default value, which may embed sensitive seed data, is masked.
func (d Descriptor) Redacted() string {
	if !d.HasDefault {
		return d.String()
	}

	masked := d
	masked.Default = "[REDACTED]"
	return masked.String()
}

// TypeName returns "Descriptor".
func (d Descriptor) TypeName() string {
	return "Descriptor"
}

// IsZero reports whether this Descriptor is empty, which for a normalized
// descriptor can only mean "never populated": the name is the one field
// that can never legally be empty.
func (d Descriptor) IsZero() bool {
	return d.Name == ""
}

// Equal reports whether two descriptors carry the same declaration.
// Function-valued fields compare by presence (Go functions are not
// comparable); constraints compare by name, since a constraint's name is
// its identity across the library.
func (d Descriptor) Equal(other Descriptor) bool {
	return d.Name == other.Name &&
		d.Kind == other.Kind &&
		d.Access == other.Access &&
		d.IsaName() == other.IsaName() &&
		d.Required == other.Required &&
		d.InitArg == other.InitArg &&
		d.HasDefault == other.HasDefault &&
		reflect.DeepEqual(d.Default, other.Default) &&
		(d.DefaultFn != nil) == (other.DefaultFn != nil) &&
		d.HasBuilder == other.HasBuilder &&
		d.BuilderName == other.BuilderName &&
		d.Lazy == other.Lazy &&
		d.Clone == other.Clone &&
		(d.CloneFn != nil) == (other.CloneFn != nil) &&
		d.ReaderName == other.ReaderName &&
		d.WriterName == other.WriterName &&
		d.PredicateName == other.PredicateName &&
		d.ClearerName == other.ClearerName
}

// Validate checks every descriptor invariant, implementing the
// model.Validatable contract. Normalization establishes these rules;
// Validate re-checks them so that descriptors arriving through
// deserialization or hand assembly are held to the same standard:
//
//   - the name and every populated accessor, builder, and init-arg name
//     is a legal identifier;
//   - the kind is param or field and the access mode is resolved;
//   - at most one value source (default, thunk, builder) is declared;
//   - required implies no value source and a non-empty init-arg;
//   - a field's init-arg, when present, begins with an underscore;
//   - lazy implies a value source; a field with a source is lazy;
//   - the custom clone policy and a clone function come together;
//   - writers only on rw attributes, clearers only on rw or lazy ones.
func (d Descriptor) Validate() error {
	if err := ValidateIdentifier("attribute name", d.Name); err != nil {
		return err
	}

	if err := d.Kind.Validate(); err != nil {
		return err
	}
	if d.Kind == KindUnspecified {
		return fmt.Errorf("Descriptor.Kind MUST be param or field")
	}

	if err := d.Access.Validate(); err != nil {
		return err
	}
	if d.Access == AccessUnspecified {
		return fmt.Errorf("Descriptor.Access MUST be resolved to ro or rw")
	}

	sources := 0
	if d.HasDefault {
		sources++
	}
	if d.DefaultFn != nil {
		sources++
	}
	if d.HasBuilder {
		sources++
	}
	if sources > 1 {
		return fmt.Errorf("Descriptor MUST NOT carry more than one of default, default thunk, and builder")
	}

	if d.HasBuilder {
		if d.BuilderName != BuilderPrefix+d.Name {
			return fmt.Errorf("Descriptor.BuilderName MUST be %s%s, got %q", BuilderPrefix, d.Name, d.BuilderName)
		}
	} else if d.BuilderName != "" {
		return fmt.Errorf("Descriptor.BuilderName set without a builder")
	}

	if d.Required && d.HasSource() {
		return fmt.Errorf("Descriptor MUST NOT be required while carrying a default or builder")
	}
	if d.Required && d.InitArg == "" {
		return fmt.Errorf("a required Descriptor MUST accept a constructor argument")
	}

	if d.InitArg != "" {
		if err := ValidateIdentifier("init_arg", d.InitArg); err != nil {
			return err
		}
		if d.Kind == KindField && !strings.HasPrefix(d.InitArg, "_") {
			return fmt.Errorf("a field's init_arg MUST begin with an underscore")
		}
	}

	if d.Lazy && !d.HasSource() {
		return fmt.Errorf("a lazy Descriptor MUST carry a default or builder")
	}
	if d.Kind == KindField && d.HasSource() && !d.Lazy {
		return fmt.Errorf("a field with a default or builder MUST be lazy")
	}

	if err := d.Clone.Validate(); err != nil {
		return err
	}
	if d.Clone == CloneCustom && d.CloneFn == nil {
		return fmt.Errorf("the custom clone policy requires a clone function")
	}
	if d.CloneFn != nil && d.Clone != CloneCustom {
		return fmt.Errorf("a clone function requires the custom clone policy")
	}

	for role, name := range map[string]string{
		"reader name":    d.ReaderName,
		"writer name":    d.WriterName,
		"predicate name": d.PredicateName,
		"clearer name":   d.ClearerName,
	} {
		if name == "" {
			continue
		}
		if err := ValidateIdentifier(role, name); err != nil {
			return err
		}
	}

	if d.WriterName != "" && d.Access != AccessReadWrite {
		return fmt.Errorf("a writer requires the rw storage mode")
	}
	if d.ClearerName != "" && d.Access != AccessReadWrite && !d.Lazy {
		return fmt.Errorf("a clearer is only legal on rw or lazy attributes")
	}

	return nil
}

// descriptorDoc is the serialized projection of a Descriptor shared by the
// JSON and YAML codecs. Function-valued fields are represented
// structurally: a named builder by its name, a default thunk by a flag,
// and a custom clone function by the policy name alone.
type descriptorDoc struct {
	Name       string      `json:"name" yaml:"name"`
	Kind       Kind        `json:"kind" yaml:"kind"`
	Access     Access      `json:"is" yaml:"is"`
	Isa        string      `json:"isa,omitempty" yaml:"isa,omitempty"`
	Required   bool        `json:"required,omitempty" yaml:"required,omitempty"`
	InitArg    string      `json:"init_arg,omitempty" yaml:"init_arg,omitempty"`
	HasDefault bool        `json:"has_default,omitempty" yaml:"has_default,omitempty"`
	Default    any         `json:"default,omitempty" yaml:"default,omitempty"`
	DefaultFn  bool        `json:"default_fn,omitempty" yaml:"default_fn,omitempty"`
	Builder    string      `json:"builder,omitempty" yaml:"builder,omitempty"`
	Lazy       bool        `json:"lazy,omitempty" yaml:"lazy,omitempty"`
	Clone      ClonePolicy `json:"clone,omitempty" yaml:"clone,omitempty"`
	Reader     string      `json:"reader,omitempty" yaml:"reader,omitempty"`
	Writer     string      `json:"writer,omitempty" yaml:"writer,omitempty"`
	Predicate  string      `json:"predicate,omitempty" yaml:"predicate,omitempty"`
	Clearer    string      `json:"clearer,omitempty" yaml:"clearer,omitempty"`
}

func (d Descriptor) toDoc() descriptorDoc {
	return descriptorDoc{
		Name:       d.Name,
		Kind:       d.Kind,
		Access:     d.Access,
		Isa:        d.IsaName(),
		Required:   d.Required,
		InitArg:    d.InitArg,
		HasDefault: d.HasDefault,
		Default:    d.Default,
		DefaultFn:  d.DefaultFn != nil,
		Builder:    d.BuilderName,
		Lazy:       d.Lazy,
		Clone:      d.Clone,
		Reader:     d.ReaderName,
		Writer:     d.WriterName,
		Predicate:  d.PredicateName,
		Clearer:    d.ClearerName,
	}
}

// fromDoc rebuilds a Descriptor from its serialized projection. The type
// constraint is re-resolved through the constraint parser; function
// payloads are not reconstructible here and stay nil until a loader binds
// them. A descriptor whose clone policy is custom cannot round-trip
// through a document alone, so it is rejected; custom clone functions are
// a code-level declaration.
func (d *Descriptor) fromDoc(doc descriptorDoc) error {
	out := Descriptor{
		Name:       doc.Name,
		Kind:       doc.Kind,
		Access:     doc.Access,
		Required:   doc.Required,
		InitArg:    doc.InitArg,
		HasDefault: doc.HasDefault || doc.Default != nil,
		Default:    doc.Default,
		Lazy:       doc.Lazy,
		Clone:      doc.Clone,
		ReaderName: doc.Reader,
		WriterName: doc.Writer,
	}
	out.PredicateName = doc.Predicate
	out.ClearerName = doc.Clearer

	if doc.Clone == CloneCustom {
		return fmt.Errorf("the custom clone policy cannot be expressed in a document; declare it in code")
	}
	if doc.DefaultFn {
		return fmt.Errorf("a default thunk cannot be expressed in a document; declare it in code or use a named builder")
	}

	if doc.Isa != "" {
		c, err := constraint.Parse(doc.Isa)
		if err != nil {
			return fmt.Errorf("Descriptor %q: %w", doc.Name, err)
		}
		out.Isa = c
	}

	if doc.Builder != "" {
		out.HasBuilder = true
		out.BuilderName = doc.Builder
	}

	if err := out.Validate(); err != nil {
		return fmt.Errorf("unmarshaled %s is invalid: %w", out.TypeName(), err)
	}

	*d = out
	return nil
}

// MarshalJSON serializes the Descriptor, validating first so only
// well-formed metadata is written.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", d.TypeName(), err)
	}
	return json.Marshal(d.toDoc())
}

// UnmarshalJSON deserializes a Descriptor, re-resolving its type
// constraint and validating the result. On failure the receiver is left
// unmodified.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var doc descriptorDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("cannot unmarshal JSON into %s: %w", d.TypeName(), err)
	}
	return d.fromDoc(doc)
}

// MarshalYAML serializes the Descriptor, validating first.
func (d Descriptor) MarshalYAML() (interface{}, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal invalid %s: %w", d.TypeName(), err)
	}
	return d.toDoc(), nil
}

// UnmarshalYAML deserializes a Descriptor with the same contract as
// UnmarshalJSON.
func (d *Descriptor) UnmarshalYAML(node *yaml.Node) error {
	var doc descriptorDoc
	if err := node.Decode(&doc); err != nil {
		return fmt.Errorf("cannot unmarshal YAML into %s: %w", d.TypeName(), err)
	}
	return d.fromDoc(doc)
}
