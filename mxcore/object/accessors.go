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

	"github.com/tobyink/moosex-extreme/mxcore/attr"
)

// AccessorKind classifies a generated accessor.
type AccessorKind uint8

const (
	// AccessorReader reads the slot, resolving a lazy source first.
	AccessorReader AccessorKind = iota

	// AccessorWriter validates and stores a new value.
	AccessorWriter

	// AccessorPredicate reports whether the slot is set.
	AccessorPredicate

	// AccessorClearer resets the slot to unset.
	AccessorClearer
)

// String returns the lowercase kind name.
func (k AccessorKind) String() string {
	switch k {
	case AccessorReader:
		return "reader"
	case AccessorWriter:
		return "writer"
	case AccessorPredicate:
		return "predicate"
	case AccessorClearer:
		return "clearer"
	default:
		return fmt.Sprintf("AccessorKind(%d)", uint8(k))
	}
}

// Accessor is one generated, bound operation on instances of a class: a
// typed function value stored in the class's dispatch table rather than a
// name resolved by reflection at call time. Accessors are synthesized
// once at class-definition time from each descriptor's populated accessor
// slots and are immutable thereafter.
type Accessor struct {
	// Name is the accessor's dispatch name (for example "set_title").
	Name string

	// Kind is the accessor's operation.
	Kind AccessorKind

	// Attribute is the attribute this accessor operates on.
	Attribute string

	invoke func(*Instance, ...any) (any, error)
}

// Invoke runs the accessor against an instance. Writers take exactly one
// argument, the new value; every other kind takes none. Arity mistakes
// fail without touching the instance.
func (a Accessor) Invoke(inst *Instance, args ...any) (any, error) {
	return a.invoke(inst, args...)
}

// synthesizeAccessors produces the bound accessors for one descriptor's
// populated accessor slots: no extras, no omissions. The closures capture
// only the attribute name; all state lives in the instance, so one
// accessor value serves every instance of the class.
func synthesizeAccessors(d attr.Descriptor) []Accessor {
	name := d.Name
	out := make([]Accessor, 0, 4)

	if d.ReaderName != "" {
		out = append(out, Accessor{
			Name:      d.ReaderName,
			Kind:      AccessorReader,
			Attribute: name,
			invoke: func(inst *Instance, args ...any) (any, error) {
				if len(args) != 0 {
					return nil, fmt.Errorf("reader %s takes no arguments, got %d", d.ReaderName, len(args))
				}
				return inst.Get(name)
			},
		})
	}

	if d.WriterName != "" {
		out = append(out, Accessor{
			Name:      d.WriterName,
			Kind:      AccessorWriter,
			Attribute: name,
			invoke: func(inst *Instance, args ...any) (any, error) {
				if len(args) != 1 {
					return nil, fmt.Errorf("writer %s takes exactly one argument, got %d", d.WriterName, len(args))
				}
				return nil, inst.Set(name, args[0])
			},
		})
	}

	if d.PredicateName != "" {
		out = append(out, Accessor{
			Name:      d.PredicateName,
			Kind:      AccessorPredicate,
			Attribute: name,
			invoke: func(inst *Instance, args ...any) (any, error) {
				if len(args) != 0 {
					return nil, fmt.Errorf("predicate %s takes no arguments, got %d", d.PredicateName, len(args))
				}
				return inst.Has(name), nil
			},
		})
	}

	if d.ClearerName != "" {
		out = append(out, Accessor{
			Name:      d.ClearerName,
			Kind:      AccessorClearer,
			Attribute: name,
			invoke: func(inst *Instance, args ...any) (any, error) {
				if len(args) != 0 {
					return nil, fmt.Errorf("clearer %s takes no arguments, got %d", d.ClearerName, len(args))
				}
				return nil, inst.Clear(name)
			},
		})
	}

	return out
}
