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

// Package schema declares classes from YAML or JSON documents.
//
// A document is the declaration surface in data form: a class name, an
// optional parent, a strictness flag, and an ordered attribute list whose
// entries carry the same options the code surface accepts (isa, required,
// lazy, init_arg, default, builder, is, clone, and the four accessor
// requests). Loading a document runs the exact same normalization,
// validation, and finalization path as object.DefineClass; a document can
// not declare anything the code surface would reject.
//
// Function-valued options do not travel in documents. An attribute that
// needs a builder declares `builder: true` and the loader binds the
// function from the class's registered builder set; default thunks and
// custom clone functions are not representable and neither is a literal
// null default (declare a builder for those).
package schema

import (
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/tobyink/moosex-extreme/mxcore/attr"
	"github.com/tobyink/moosex-extreme/mxcore/constraint"
	"github.com/tobyink/moosex-extreme/mxcore/object"
)

// BuilderSet maps builder method names (for example "_build_title") to
// their functions, supplying the code half of document-declared builders.
type BuilderSet map[string]attr.BuilderFunc

// Loader resolves class documents against registered parent classes,
// builder sets, and hooks, and retains every class it defines so later
// documents in the same stream can extend earlier ones.
type Loader struct {
	classes  map[string]*object.Class
	builders map[string]BuilderSet
	hooks    map[string]object.BuildHook
}

// NewLoader returns an empty loader.
func NewLoader() *Loader {
	return &Loader{
		classes:  make(map[string]*object.Class),
		builders: make(map[string]BuilderSet),
		hooks:    make(map[string]object.BuildHook),
	}
}

// Provide registers an already-defined class so documents can extend it.
func (l *Loader) Provide(cls *object.Class) {
	l.classes[cls.Name()] = cls
}

// BindBuilders registers the builder set for a class named in a document
// to be loaded later. Binding after the class was loaded has no effect.
func (l *Loader) BindBuilders(class string, set BuilderSet) {
	l.builders[class] = set
}

// BindHook registers the post-construction hook for a class named in a
// document to be loaded later.
func (l *Loader) BindHook(class string, hook object.BuildHook) {
	l.hooks[class] = hook
}

// Class returns a class this loader has defined or been provided.
func (l *Loader) Class(name string) (*object.Class, bool) {
	cls, ok := l.classes[name]
	return cls, ok
}

// LoadYAML defines one class from a single YAML document.
func (l *Loader) LoadYAML(data []byte) (*object.Class, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: parsing class document: %w", err)
	}
	return l.load(doc)
}

// LoadJSON defines one class from a JSON document.
func (l *Loader) LoadJSON(data []byte) (*object.Class, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: parsing class document: %w", err)
	}
	return l.load(doc)
}

// LoadStreamYAML defines classes from a multi-document YAML stream, in
// stream order, so a later document can extend an earlier one. A document
// that parses but fails to define a class is recorded and the stream
// continues; a document that does not parse ends the stream, because the
// decoder cannot advance past malformed input. The errors of all failing
// documents are accumulated and returned together with the classes that
// did load.
func (l *Loader) LoadStreamYAML(r io.Reader) ([]*object.Class, error) {
	dec := yaml.NewDecoder(r)

	var classes []*object.Class
	var errs error
	for n := 0; ; n++ {
		var doc document
		if err := dec.Decode(&doc); err != nil {
			if err == io.EOF {
				break
			}
			errs = multierr.Append(errs, fmt.Errorf("schema: document %d: %w", n, err))
			break
		}
		cls, err := l.load(doc)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("schema: document %d: %w", n, err))
			continue
		}
		classes = append(classes, cls)
	}
	return classes, errs
}

// document is the wire shape of one class declaration.
type document struct {
	Class      string         `yaml:"class" json:"class"`
	Extends    string         `yaml:"extends,omitempty" json:"extends,omitempty"`
	Strict     *bool          `yaml:"strict,omitempty" json:"strict,omitempty"`
	Attributes []attributeDoc `yaml:"attributes" json:"attributes"`
}

// attributeDoc is the wire shape of one attribute declaration, matching
// the code surface's option set. Name keeps the "+" override spelling
// when present. The accessor fields take true for the synthesized name
// or a string for an explicit one.
type attributeDoc struct {
	Name      string  `yaml:"name" json:"name"`
	Kind      string  `yaml:"kind" json:"kind"`
	Isa       string  `yaml:"isa,omitempty" json:"isa,omitempty"`
	Required  *bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Lazy      *bool   `yaml:"lazy,omitempty" json:"lazy,omitempty"`
	InitArg   *string `yaml:"init_arg,omitempty" json:"init_arg,omitempty"`
	Default   *any    `yaml:"default,omitempty" json:"default,omitempty"`
	Builder   bool    `yaml:"builder,omitempty" json:"builder,omitempty"`
	Is        string  `yaml:"is,omitempty" json:"is,omitempty"`
	Clone     string  `yaml:"clone,omitempty" json:"clone,omitempty"`
	Reader    any     `yaml:"reader,omitempty" json:"reader,omitempty"`
	Writer    any     `yaml:"writer,omitempty" json:"writer,omitempty"`
	Predicate any     `yaml:"predicate,omitempty" json:"predicate,omitempty"`
	Clearer   any     `yaml:"clearer,omitempty" json:"clearer,omitempty"`
}

// load assembles ClassOptions from a document and runs DefineClass.
// Conversion problems across all attributes are accumulated so a broken
// document reports everything wrong with it at once.
func (l *Loader) load(doc document) (*object.Class, error) {
	if doc.Class == "" {
		return nil, fmt.Errorf("schema: class document MUST carry a class name")
	}
	if _, exists := l.classes[doc.Class]; exists {
		return nil, fmt.Errorf("schema: class %s is already defined", doc.Class)
	}

	var opts []object.ClassOption
	var errs error

	if doc.Extends != "" {
		parent, ok := l.classes[doc.Extends]
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("schema: class %s extends unknown class %s", doc.Class, doc.Extends))
		} else {
			opts = append(opts, object.Extends(parent))
		}
	}
	if doc.Strict != nil && !*doc.Strict {
		opts = append(opts, object.NonStrict())
	}

	for _, a := range doc.Attributes {
		attrOpts, kind, err := a.options()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("schema: class %s, attribute %q: %w", doc.Class, a.Name, err))
			continue
		}
		if kind == attr.KindField {
			opts = append(opts, object.Field(a.Name, attrOpts...))
		} else {
			opts = append(opts, object.Param(a.Name, attrOpts...))
		}
	}

	for bname, fn := range l.builders[doc.Class] {
		opts = append(opts, object.BuilderMethod(bname, fn))
	}
	if hook, ok := l.hooks[doc.Class]; ok {
		opts = append(opts, object.BUILD(hook))
	}

	if errs != nil {
		return nil, errs
	}

	cls, err := object.DefineClass(doc.Class, opts...)
	if err != nil {
		return nil, err
	}
	l.classes[doc.Class] = cls
	return cls, nil
}

// options converts one attribute entry into declaration options. Every
// field is translated exactly as the code surface would receive it; the
// declaration engine then applies its own normalization and validation.
func (a attributeDoc) options() ([]attr.Option, attr.Kind, error) {
	var errs error

	kind, err := attr.ParseKind(a.Kind)
	if err != nil {
		errs = multierr.Append(errs, err)
	}

	var opts []attr.Option
	if a.Isa != "" {
		c, err := constraint.Parse(a.Isa)
		if err != nil {
			errs = multierr.Append(errs, err)
		} else {
			opts = append(opts, attr.Isa(c))
		}
	}
	if a.Required != nil {
		opts = append(opts, attr.Required(*a.Required))
	}
	if a.Lazy != nil {
		opts = append(opts, attr.Lazy(*a.Lazy))
	}
	if a.InitArg != nil {
		opts = append(opts, attr.InitArg(*a.InitArg))
	}
	if a.Default != nil {
		opts = append(opts, attr.Default(*a.Default))
	}
	if a.Builder {
		opts = append(opts, attr.BuilderNamed())
	}
	if a.Is != "" {
		access, err := attr.ParseAccess(a.Is)
		if err != nil {
			errs = multierr.Append(errs, err)
		} else {
			opts = append(opts, attr.Is(access))
		}
	}
	if a.Clone != "" {
		policy, err := attr.ParseClonePolicy(a.Clone)
		if err != nil {
			errs = multierr.Append(errs, err)
		} else {
			opts = append(opts, attr.Clone(policy))
		}
	}

	accessor := func(role string, value any, plain attr.Option, named func(string) attr.Option) {
		switch v := value.(type) {
		case nil:
		case bool:
			if v {
				opts = append(opts, plain)
			}
		case string:
			opts = append(opts, named(v))
		default:
			errs = multierr.Append(errs, fmt.Errorf("%s MUST be true or an accessor name, got %T", role, value))
		}
	}
	accessor("reader", a.Reader, attr.Reader(), attr.ReaderNamed)
	accessor("writer", a.Writer, attr.Writer(), attr.WriterNamed)
	accessor("predicate", a.Predicate, attr.Predicate(), attr.PredicateNamed)
	accessor("clearer", a.Clearer, attr.Clearer(), attr.ClearerNamed)

	if errs != nil {
		return nil, kind, errs
	}
	return opts, kind, nil
}
