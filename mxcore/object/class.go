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

// Package object assembles finalized attribute registries into classes and
// constructs instances from them.
//
// A Class is built once by DefineClass from an ordered list of param and
// field declarations, optionally extending a parent class. Definition is
// all-or-nothing: every declaration error across the whole class is
// collected and reported together, and no Class value exists until the
// full attribute table validates. After DefineClass returns, the class is
// immutable and safe to share across goroutines; all per-object mutability
// lives in Instance.
package object

import (
	"fmt"
	"sort"
	"strings"

	"dirpx.dev/rxmerr"

	"github.com/tobyink/moosex-extreme/mxcore/attr"
	"github.com/tobyink/moosex-extreme/mxcore/registry"
)

// BuildHook is a class's post-construction hook. It runs after every
// attribute has been admitted or resolved and receives the finished
// instance together with the raw constructor arguments, exactly as the
// caller passed them. A non-nil error aborts construction; the instance
// is discarded.
type BuildHook func(self *Instance, args map[string]any) error

// Class is an immutable class definition: a finalized attribute registry
// plus the derived dispatch state the constructor and accessor engines
// run on. Instances are created with New; the class itself never changes
// after DefineClass returns.
type Class struct {
	name   string
	parent *Class
	reg    *registry.Registry
	strict bool
	hook   BuildHook

	// descriptors and index mirror the finalized registry in declaration
	// order; slot storage in every instance is keyed by position here.
	descriptors []attr.Descriptor
	index       map[string]int

	// accessors is the class's dispatch table: every generated reader,
	// writer, predicate, and clearer, keyed by accessor name.
	accessors map[string]Accessor

	// builders holds the bound functions for named builder methods,
	// keyed by builder method name.
	builders map[string]attr.BuilderFunc
}

// classSpec accumulates DefineClass options before assembly.
type classSpec struct {
	parent    *Class
	strict    bool
	hook      BuildHook
	builders  map[string]attr.BuilderFunc
	decls     []declaration
	hookCount int
}

// declaration is one ordered param or field declaration, recorded as
// written: the name keeps its "+" override prefix when present, and the
// options are applied during assembly so fan-out lists share one set.
type declaration struct {
	kind  attr.Kind
	names []string
	opts  []attr.Option
}

// ClassOption configures a class under definition.
type ClassOption func(*classSpec)

// Extends declares the parent class. The parent's attributes become the
// leading segment of this class's declaration order, individually
// replaceable with the "+name" override spelling.
func Extends(parent *Class) ClassOption {
	return func(s *classSpec) { s.parent = parent }
}

// Param declares one caller-supplied attribute. The name may carry the
// "+" prefix to override an inherited attribute in place.
func Param(name string, opts ...attr.Option) ClassOption {
	return func(s *classSpec) {
		s.decls = append(s.decls, declaration{kind: attr.KindParam, names: []string{name}, opts: opts})
	}
}

// Params fans one option set out over several param names, preserving
// the given order.
func Params(names []string, opts ...attr.Option) ClassOption {
	return func(s *classSpec) {
		s.decls = append(s.decls, declaration{kind: attr.KindParam, names: names, opts: opts})
	}
}

// Field declares one internally-computed attribute. The name may carry
// the "+" prefix to override an inherited attribute in place.
func Field(name string, opts ...attr.Option) ClassOption {
	return func(s *classSpec) {
		s.decls = append(s.decls, declaration{kind: attr.KindField, names: []string{name}, opts: opts})
	}
}

// Fields fans one option set out over several field names.
func Fields(names []string, opts ...attr.Option) ClassOption {
	return func(s *classSpec) {
		s.decls = append(s.decls, declaration{kind: attr.KindField, names: names, opts: opts})
	}
}

// BUILD installs the class's post-construction hook. At most one hook
// per class; an inheriting class's hook runs after its parent's.
func BUILD(hook BuildHook) ClassOption {
	return func(s *classSpec) {
		s.hook = hook
		s.hookCount++
	}
}

// NonStrict disables unknown-argument rejection for this class's
// constructor. Strict checking is the default; disabling it makes the
// constructor silently ignore argument keys no attribute accepts.
func NonStrict() ClassOption {
	return func(s *classSpec) { s.strict = false }
}

// BuilderMethod binds a function to a named builder method, satisfying
// attributes declared with attr.BuilderNamed. The name MUST be the full
// synthesized builder name (for example "_build_title").
func BuilderMethod(name string, fn attr.BuilderFunc) ClassOption {
	return func(s *classSpec) {
		if s.builders == nil {
			s.builders = make(map[string]attr.BuilderFunc)
		}
		s.builders[name] = fn
	}
}

// DefineClass assembles, validates, and finalizes a class from ordered
// declarations.
//
// Assembly proceeds in declaration order: inherited attributes first,
// then each local declaration, with "+name" spellings replacing the
// inherited entry of that name in place. Every declaration is normalized
// and validated individually, and definition errors across the whole
// class are collected and returned together rather than stopping at the
// first; in that case no class is returned and nothing was registered
// anywhere. A class that DefineClass returns is finalized: its registry
// rejects further registration, its accessor table is complete, and
// every named builder has a bound function.
func DefineClass(name string, opts ...ClassOption) (*Class, error) {
	spec := classSpec{strict: true}
	for _, opt := range opts {
		opt(&spec)
	}

	c := rxmerr.NewCollector()

	if spec.hookCount > 1 {
		c.Append(fmt.Errorf("class %s: at most one BUILD hook may be installed, got %d", name, spec.hookCount))
	}
	if spec.parent != nil && !spec.parent.reg.Finalized() {
		c.Append(fmt.Errorf("class %s: parent class %s is not finalized", name, spec.parent.name))
	}

	reg := registry.New(name)
	if spec.parent != nil {
		if err := reg.ResolveInherited(spec.parent.reg); err != nil {
			c.Append(err)
		}
	}

	for _, decl := range spec.decls {
		if len(decl.names) == 0 {
			c.Append(attr.NewDefinitionError("", "declaration MUST name at least one attribute"))
			continue
		}
		for _, declared := range decl.names {
			bare := strings.TrimPrefix(declared, registry.OverridePrefix)

			var d attr.Descriptor
			var err error
			switch decl.kind {
			case attr.KindField:
				d, err = attr.Field(bare, decl.opts...)
			default:
				d, err = attr.Param(bare, decl.opts...)
			}
			if err != nil {
				c.Append(err)
				continue
			}
			if err := reg.Register(declared, d); err != nil {
				c.Append(err)
			}
		}
	}

	// Bind named builders before registry validation so an unbound
	// builder surfaces here, at definition time, not on first read.
	bound := make(map[string]attr.BuilderFunc)
	for _, d := range reg.Descriptors() {
		if !d.HasBuilder || d.Builder != nil {
			continue
		}
		fn, ok := spec.builders[d.BuilderName]
		if !ok && spec.parent != nil {
			fn, ok = spec.parent.builders[d.BuilderName]
		}
		if !ok {
			c.Append(&UnboundBuilderError{Class: name, Attribute: d.Name, BuilderName: d.BuilderName})
			continue
		}
		bound[d.BuilderName] = fn
	}
	for bname := range spec.builders {
		if _, ok := bound[bname]; !ok {
			c.Append(fmt.Errorf("class %s: builder method %s is bound but no attribute declares it", name, bname))
		}
	}

	if err := reg.Validate(); err != nil {
		c.Append(err)
	}
	if err := c.Err(); err != nil {
		return nil, err
	}

	reg.Finalize()

	cls := &Class{
		name:        name,
		parent:      spec.parent,
		reg:         reg,
		strict:      spec.strict,
		hook:        spec.hook,
		descriptors: reg.Descriptors(),
		builders:    bound,
	}
	cls.index = make(map[string]int, len(cls.descriptors))
	cls.accessors = make(map[string]Accessor)
	for i, d := range cls.descriptors {
		cls.index[d.Name] = i
		for _, acc := range synthesizeAccessors(d) {
			cls.accessors[acc.Name] = acc
		}
	}
	return cls, nil
}

// MustDefine is DefineClass for class tables assembled at program start,
// panicking on any definition error.
func MustDefine(name string, opts ...ClassOption) *Class {
	cls, err := DefineClass(name, opts...)
	if err != nil {
		panic(fmt.Sprintf("object: defining class %s: %v", name, err))
	}
	return cls
}

// Name returns the class name.
func (c *Class) Name() string {
	return c.name
}

// Parent returns the parent class, or nil for a root class.
func (c *Class) Parent() *Class {
	return c.parent
}

// Strict reports whether the constructor rejects unknown argument keys.
func (c *Class) Strict() bool {
	return c.strict
}

// Registry returns the class's finalized attribute registry.
func (c *Class) Registry() *registry.Registry {
	return c.reg
}

// Descriptors returns the class's attributes in declaration order, as a
// fresh copy.
func (c *Class) Descriptors() []attr.Descriptor {
	out := make([]attr.Descriptor, len(c.descriptors))
	copy(out, c.descriptors)
	return out
}

// Lookup returns the descriptor for the named attribute.
func (c *Class) Lookup(name string) (attr.Descriptor, bool) {
	idx, ok := c.index[name]
	if !ok {
		return attr.Descriptor{}, false
	}
	return c.descriptors[idx], true
}

// AccessorNames returns every generated accessor name, sorted.
func (c *Class) AccessorNames() []string {
	out := make([]string, 0, len(c.accessors))
	for name := range c.accessors {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (c *Class) indexOf(name string) (int, bool) {
	idx, ok := c.index[name]
	return idx, ok
}

// evaluateSource runs an attribute's value source against the instance:
// the builder function when one is declared (bound by name when needed),
// the default thunk, or the literal default. Callers guarantee the
// descriptor has a source.
func (c *Class) evaluateSource(i *Instance, d attr.Descriptor) (any, error) {
	switch {
	case d.HasBuilder:
		fn := d.Builder
		if fn == nil {
			fn = c.builders[d.BuilderName]
		}
		if fn == nil {
			return nil, &UnboundBuilderError{Class: c.name, Attribute: d.Name, BuilderName: d.BuilderName}
		}
		value, err := fn(view{inst: i})
		if err != nil {
			return nil, fmt.Errorf("class %s: attribute %q: builder %s: %w", c.name, d.Name, d.BuilderName, err)
		}
		return value, nil

	case d.DefaultFn != nil:
		value, err := d.DefaultFn(view{inst: i})
		if err != nil {
			return nil, fmt.Errorf("class %s: attribute %q: default: %w", c.name, d.Name, err)
		}
		return value, nil

	default:
		return d.Default, nil
	}
}
