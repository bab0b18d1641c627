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

// Package attr implements attribute declarations: the raw option bag a
// class author writes (Spec), the normalization rules that turn it into
// fully-resolved immutable metadata (Descriptor), the naming validator,
// and the clone policies applied when values enter instance storage.
//
// The option surface is deliberately closed: every recognized option is a
// typed function in this package, so an unrecognized option is a compile
// error rather than a silently ignored key. Normalization happens once at
// class-definition time; a declaration that breaks any rule produces a
// *DefinitionError and never yields a descriptor, so malformed classes
// never become instantiable.
package attr

import (
	"strings"

	"github.com/tobyink/moosex-extreme/mxcore/constraint"
)

// Getter gives defaults and builders read access to the attributes of the
// instance under construction. It is the only view of an instance this
// package needs; the object package's Instance satisfies it.
//
// Reading an attribute that is still unset and declared later than the one
// being built is an ordering bug, and the engine fails loudly rather than
// returning a zero value.
type Getter interface {
	// Get returns the current value of the named attribute, resolving a
	// lazy default or builder if necessary.
	Get(name string) (any, error)
}

// BuilderFunc computes an attribute's value given the in-progress
// instance. It backs both anonymous builders and value-producing default
// thunks that were declared as receiving the instance.
type BuilderFunc func(self Getter) (any, error)

// Spec is the raw, un-normalized declaration of one attribute (or of
// several attributes sharing options, when fanned out). Class authors do
// not build Specs directly; they pass Options to Param, Field, or the
// class-definition surface, which assemble a Spec and normalize it.
//
// Tri-state option fields use pointers: nil means "the author did not
// say", which normalization resolves per the attribute's kind.
type Spec struct {
	// Kind is the declaration form: param or field.
	Kind Kind

	// Access is the declared storage mode, or AccessUnspecified when the
	// author did not state one (normalizes to read-only).
	Access Access

	// Isa is the declared type constraint, or nil for unconstrained.
	Isa constraint.Constraint

	// Required is the declared requiredness, or nil when unstated.
	Required *bool

	// Lazy is the declared laziness, or nil when unstated.
	Lazy *bool

	// InitArg is the declared constructor-argument name, or nil when
	// unstated. Params default it to the attribute name; fields default
	// it to none.
	InitArg *string

	// HasDefault is true when a literal default was declared, even a nil
	// one.
	HasDefault bool

	// Default is the declared literal default value.
	Default any

	// DefaultFn is a value-producing default thunk, or nil.
	DefaultFn BuilderFunc

	// Builder is an anonymous builder function, or nil.
	Builder BuilderFunc

	// BuilderRequested is true when the author asked for a builder by
	// flag (the named-builder-method form); the method name is
	// synthesized and the function MUST be supplied when the class is
	// assembled.
	BuilderRequested bool

	// Clone is the declared clone policy.
	Clone ClonePolicy

	// CloneFn is the custom clone function for CloneCustom.
	CloneFn CloneFunc

	// Reader, Writer, Predicate, Clearer request accessor generation.
	// nil means the accessor is not requested; a pointer to "" requests
	// the synthesized name (get_/set_/has_/clear_ + attribute name); a
	// pointer to a non-empty string requests that exact name.
	Reader    *string
	Writer    *string
	Predicate *string
	Clearer   *string
}

// Option mutates a Spec during declaration. The full set of Options in
// this package is the full set of recognized attribute options; there is
// no escape hatch for unknown keys.
type Option func(*Spec)

// Isa declares the attribute's type constraint.
func Isa(c constraint.Constraint) Option {
	return func(s *Spec) { s.Isa = c }
}

// Required declares whether the attribute must be supplied at
// construction. Declaring Required(true) together with a default or
// builder is tolerated but inert: omission is never an error when the
// value is satisfiable internally, so such attributes normalize to
// effectively-optional.
func Required(b bool) Option {
	return func(s *Spec) { s.Required = &b }
}

// Lazy declares whether the attribute's default or builder is deferred to
// first read. Fields with a default or builder are lazy regardless; a lazy
// attribute with neither is a definition error.
func Lazy(b bool) Option {
	return func(s *Spec) { s.Lazy = &b }
}

// InitArg declares the constructor-argument name for this attribute. For
// fields the name MUST begin with an underscore (the test-construction
// escape hatch); anything else is a definition error.
func InitArg(name string) Option {
	return func(s *Spec) { s.InitArg = &name }
}

// Default declares a literal default value. Mutually exclusive with
// DefaultFn and Builder.
func Default(value any) Option {
	return func(s *Spec) {
		s.HasDefault = true
		s.Default = value
	}
}

// DefaultFn declares a value-producing default thunk. The thunk receives
// the in-progress instance and may read earlier-declared attributes.
// Mutually exclusive with Default and Builder.
func DefaultFn(fn BuilderFunc) Option {
	return func(s *Spec) { s.DefaultFn = fn }
}

// Builder declares an anonymous builder function. The builder method name
// _build_<attribute> is synthesized for introspection and dispatch.
// Mutually exclusive with Default and DefaultFn.
func Builder(fn BuilderFunc) Option {
	return func(s *Spec) { s.Builder = fn }
}

// BuilderNamed declares that the attribute is built by a named builder
// method, to be supplied when the class is assembled (the schema loader's
// builder set, or the class definition's builder table). The synthesized
// name is still _build_<attribute>.
func BuilderNamed() Option {
	return func(s *Spec) { s.BuilderRequested = true }
}

// Is declares the storage mode ("ro" or "rw") directly.
func Is(a Access) Option {
	return func(s *Spec) { s.Access = a }
}

// RW declares the attribute read-write. Shorthand for Is(AccessReadWrite).
func RW() Option {
	return func(s *Spec) { s.Access = AccessReadWrite }
}

// Clone declares the copy strategy applied when values enter this
// attribute's slot.
func Clone(policy ClonePolicy) Option {
	return func(s *Spec) { s.Clone = policy }
}

// CloneWith declares a custom clone function and sets the policy to
// CloneCustom.
func CloneWith(fn CloneFunc) Option {
	return func(s *Spec) {
		s.Clone = CloneCustom
		s.CloneFn = fn
	}
}

// Reader requests a reader accessor with the synthesized name
// get_<attribute>.
func Reader() Option {
	return func(s *Spec) { empty := ""; s.Reader = &empty }
}

// ReaderNamed requests a reader accessor with an explicit name.
func ReaderNamed(name string) Option {
	return func(s *Spec) { s.Reader = &name }
}

// Writer requests a writer accessor with the synthesized name
// set_<attribute>. Writers require a read-write storage mode.
func Writer() Option {
	return func(s *Spec) { empty := ""; s.Writer = &empty }
}

// WriterNamed requests a writer accessor with an explicit name.
func WriterNamed(name string) Option {
	return func(s *Spec) { s.Writer = &name }
}

// Predicate requests a predicate accessor with the synthesized name
// has_<attribute>.
func Predicate() Option {
	return func(s *Spec) { empty := ""; s.Predicate = &empty }
}

// PredicateNamed requests a predicate accessor with an explicit name.
func PredicateNamed(name string) Option {
	return func(s *Spec) { s.Predicate = &name }
}

// Clearer requests a clearer accessor with the synthesized name
// clear_<attribute>. Clearers are only legal on read-write or lazy
// attributes.
func Clearer() Option {
	return func(s *Spec) { empty := ""; s.Clearer = &empty }
}

// ClearerNamed requests a clearer accessor with an explicit name.
func ClearerNamed(name string) Option {
	return func(s *Spec) { s.Clearer = &name }
}

// Param normalizes a single param declaration into a Descriptor. Params
// are ordinarily supplied by the constructor caller: their init-arg
// defaults to the attribute name and they are required unless a default,
// builder, or explicit Required(false) says otherwise.
func Param(name string, opts ...Option) (Descriptor, error) {
	return normalizeOne(KindParam, name, opts)
}

// Field normalizes a single field declaration into a Descriptor. Fields
// are computed internally: their init-arg is forced to none (unless an
// explicit underscore-prefixed test seam is declared) and they are lazy
// whenever they carry a default or builder.
func Field(name string, opts ...Option) (Descriptor, error) {
	return normalizeOne(KindField, name, opts)
}

// ParamList fans a shared option set out over several param names,
// producing one Descriptor per name in declaration order. The first
// failing name aborts with its definition error.
func ParamList(names []string, opts ...Option) ([]Descriptor, error) {
	return normalizeList(KindParam, names, opts)
}

// FieldList fans a shared option set out over several field names.
func FieldList(names []string, opts ...Option) ([]Descriptor, error) {
	return normalizeList(KindField, names, opts)
}

func normalizeList(kind Kind, names []string, opts []Option) ([]Descriptor, error) {
	if len(names) == 0 {
		return nil, NewDefinitionError("", "declaration MUST name at least one attribute")
	}

	out := make([]Descriptor, 0, len(names))
	for _, name := range names {
		d, err := normalizeOne(kind, name, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// normalizeOne applies the normalization rules to a single declaration.
// Every rule violation is reported as a *DefinitionError naming the
// attribute; the descriptor is only returned when all rules hold.
func normalizeOne(kind Kind, name string, opts []Option) (Descriptor, error) {
	var zero Descriptor

	if err := ValidateIdentifier("attribute name", name); err != nil {
		return zero, WrapDefinitionError(name, err)
	}

	s := Spec{Kind: kind}
	for _, opt := range opts {
		opt(&s)
	}

	d := Descriptor{
		Name: name,
		Kind: kind,
		Isa:  s.Isa,
	}

	// Storage mode: read-only unless explicitly overridden.
	d.Access = s.Access
	if d.Access.IsZero() {
		d.Access = AccessReadOnly
	}

	// Exactly one of {nothing, literal default, default thunk, builder}.
	sources := 0
	if s.HasDefault {
		sources++
	}
	if s.DefaultFn != nil {
		sources++
	}
	if s.Builder != nil || s.BuilderRequested {
		sources++
	}
	if sources > 1 {
		return zero, NewDefinitionError(name, "attribute MUST NOT declare more than one of default, default thunk, and builder")
	}

	d.HasDefault = s.HasDefault
	d.Default = s.Default
	d.DefaultFn = s.DefaultFn
	d.Builder = s.Builder
	if s.Builder != nil || s.BuilderRequested {
		d.HasBuilder = true
		d.BuilderName = BuilderPrefix + name
		if err := ValidateIdentifier("builder name", d.BuilderName); err != nil {
			return zero, WrapDefinitionError(name, err)
		}
	}
	hasSource := d.HasDefault || d.DefaultFn != nil || d.HasBuilder

	// Constructor posture: init-arg and requiredness per kind.
	switch kind {
	case KindParam:
		if s.InitArg != nil {
			if err := ValidateIdentifier("init_arg", *s.InitArg); err != nil {
				return zero, WrapDefinitionError(name, err)
			}
			d.InitArg = *s.InitArg
		} else {
			d.InitArg = name
		}

		// A param is required unless the author opted out or the value
		// is satisfiable internally. Required(true) alongside a default
		// or builder is inert: omission is never an error when a source
		// exists.
		switch {
		case hasSource:
			d.Required = false
		case s.Required != nil:
			d.Required = *s.Required
		default:
			d.Required = true
		}

	case KindField:
		if s.Required != nil && *s.Required {
			return zero, NewDefinitionError(name, "a field MUST NOT be declared required; fields never accept constructor input")
		}
		if s.InitArg != nil {
			if !strings.HasPrefix(*s.InitArg, "_") {
				return zero, NewDefinitionError(name, "a field's init_arg MUST begin with an underscore")
			}
			if err := ValidateIdentifier("init_arg", *s.InitArg); err != nil {
				return zero, WrapDefinitionError(name, err)
			}
			d.InitArg = *s.InitArg
		}
		d.Required = false

	default:
		return zero, NewDefinitionError(name, "attribute kind MUST be param or field")
	}

	// Laziness: fields with a value source are always lazy; params opt
	// in. Laziness with nothing to resolve is meaningless.
	switch {
	case kind == KindField && hasSource:
		d.Lazy = true
	case s.Lazy != nil:
		d.Lazy = *s.Lazy
	}
	if d.Lazy && !hasSource {
		return zero, NewDefinitionError(name, "a lazy attribute MUST declare a default or builder")
	}

	// Clone policy.
	if s.CloneFn != nil && s.Clone != CloneCustom {
		return zero, NewDefinitionError(name, "a clone function requires the custom clone policy")
	}
	if s.Clone == CloneCustom && s.CloneFn == nil {
		return zero, NewDefinitionError(name, "the custom clone policy requires a clone function")
	}
	d.Clone = s.Clone
	d.CloneFn = s.CloneFn

	// Accessor names: synthesized or explicit, all through the naming
	// validator, with structural rules checked here so illegal requests
	// die at definition time.
	var err error
	if d.ReaderName, err = accessorName("reader name", ReaderPrefix, name, s.Reader); err != nil {
		return zero, WrapDefinitionError(name, err)
	}
	if d.WriterName, err = accessorName("writer name", WriterPrefix, name, s.Writer); err != nil {
		return zero, WrapDefinitionError(name, err)
	}
	if d.PredicateName, err = accessorName("predicate name", PredicatePrefix, name, s.Predicate); err != nil {
		return zero, WrapDefinitionError(name, err)
	}
	if d.ClearerName, err = accessorName("clearer name", ClearerPrefix, name, s.Clearer); err != nil {
		return zero, WrapDefinitionError(name, err)
	}

	if d.WriterName != "" && d.Access != AccessReadWrite {
		return zero, NewDefinitionError(name, "a writer requires the rw storage mode")
	}
	if d.ClearerName != "" && d.Access != AccessReadWrite && !d.Lazy {
		return zero, NewDefinitionError(name, "a clearer is only legal on rw or lazy attributes")
	}

	if err := d.Validate(); err != nil {
		return zero, WrapDefinitionError(name, err)
	}
	return d, nil
}

const (
	// ReaderPrefix is prepended to the attribute name for synthesized
	// reader accessors.
	ReaderPrefix = "get_"

	// WriterPrefix is prepended for synthesized writer accessors.
	WriterPrefix = "set_"

	// PredicatePrefix is prepended for synthesized predicate accessors.
	PredicatePrefix = "has_"

	// ClearerPrefix is prepended for synthesized clearer accessors.
	ClearerPrefix = "clear_"

	// BuilderPrefix is prepended for synthesized builder method names.
	BuilderPrefix = "_build_"
)

// accessorName resolves an accessor request into a validated name: "" for
// not requested, the synthesized prefix+attribute form for a bare flag, or
// the author's explicit name.
func accessorName(role, prefix, attribute string, requested *string) (string, error) {
	if requested == nil {
		return "", nil
	}

	name := *requested
	if name == "" {
		name = prefix + attribute
	}
	if err := ValidateIdentifier(role, name); err != nil {
		return "", err
	}
	return name, nil
}
