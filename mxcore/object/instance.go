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
	"sync"

	"github.com/tobyink/moosex-extreme/mxcore/attr"
	"github.com/tobyink/moosex-extreme/mxcore/constraint"
)

// slotState tags an instance slot as unset or set. The explicit tag is
// what lets the engine distinguish "never resolved" from "resolved to
// nil", which a bare map lookup could not.
type slotState uint8

const (
	slotUnset slotState = iota
	slotSet
)

// slot is one attribute's storage cell.
type slot struct {
	state slotState
	value any
}

// Instance is a constructed object: opaque storage keyed by declaration
// index, one tagged slot per attribute of its class, plus the machinery
// for lazy memoizing resolution.
//
// Instances are produced exclusively by Class.New; a zero Instance is not
// usable. Each instance owns its slot storage exclusively. Reads, writes,
// and lazy resolution are guarded by a per-instance mutex, so an instance
// may be shared across goroutines; lazy resolution is memoizing and runs
// under the mutex, preserving compute-at-most-once under concurrent first
// reads.
//
// Defaults and builders receive an attr.Getter view of the instance, not
// the instance itself. The view reads slots without re-acquiring the
// mutex, which is what makes nested attribute reads from inside a builder
// safe; a builder that captures the *Instance and calls its public Get
// would deadlock, and MUST use its Getter argument instead.
type Instance struct {
	class *Class

	mu    sync.Mutex
	slots []slot

	// stack holds the declaration indexes of attributes currently being
	// resolved, innermost last. It drives builder-cycle detection and,
	// during construction, forward-reference detection.
	stack []int

	// constructing is true while the constructor engine is resolving
	// attributes in declaration order. In that window, reading any
	// still-unset attribute declared later than the one being resolved
	// is an ordering bug and fails loudly.
	constructing bool
}

// view is the attr.Getter handed to defaults, builders, and post-
// construction hooks running inside the resolution lock. It reads through
// the internal lock-free path.
type view struct {
	inst *Instance
}

// Get implements attr.Getter for defaults and builders.
func (v view) Get(name string) (any, error) {
	return v.inst.getInternal(name)
}

var _ attr.Getter = view{}

// Class returns the class that constructed this instance.
func (i *Instance) Class() *Class {
	return i.class
}

// Get returns the current value of the named attribute.
//
// If the slot is set, the memoized or stored value is returned. If the
// slot is unset and the attribute is lazy, the default or builder runs
// now, its result is validated against the type constraint, passed
// through the clone policy, memoized into the slot, and returned; the
// whole resolution happens under the instance mutex, so it runs at most
// once no matter how many goroutines race the first read. If the slot is
// unset and there is nothing to resolve, Get fails with *UnsetError, the
// expected absence signal for optional attributes.
//
// Unknown attribute names fail with *UnknownAttributeError.
func (i *Instance) Get(name string) (any, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.getInternal(name)
}

// Has reports whether the named attribute's slot is currently set. It
// never triggers lazy resolution. Unknown names report false.
func (i *Instance) Has(name string) bool {
	idx, ok := i.class.indexOf(name)
	if !ok {
		return false
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	return i.slots[idx].state == slotSet
}

// Set replaces the named attribute's value.
//
// Only read-write attributes accept writes; anything else fails with
// *ImmutableError. The new value is coerced and validated against the
// attribute's type constraint (failing with *constraint.Violation) and
// passed through the clone policy before it is stored, so the caller's
// original reference never becomes instance state.
func (i *Instance) Set(name string, value any) error {
	idx, ok := i.class.indexOf(name)
	if !ok {
		return &UnknownAttributeError{Class: i.class.name, Name: name}
	}

	d := i.class.descriptors[idx]
	if d.Access != attr.AccessReadWrite {
		return &ImmutableError{Class: i.class.name, Attribute: name, Op: "write"}
	}

	stored, err := i.admit(d, value)
	if err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.slots[idx] = slot{state: slotSet, value: stored}
	return nil
}

// Clear resets the named attribute's slot to unset. Clearing is legal
// only for read-write or lazy attributes; anything else fails with
// *ImmutableError. After a clear, a further read re-triggers the default
// or builder if the attribute is lazy, and otherwise yields the absence
// signal.
func (i *Instance) Clear(name string) error {
	idx, ok := i.class.indexOf(name)
	if !ok {
		return &UnknownAttributeError{Class: i.class.name, Name: name}
	}

	d := i.class.descriptors[idx]
	if d.Access != attr.AccessReadWrite && !d.Lazy {
		return &ImmutableError{Class: i.class.name, Attribute: name, Op: "clear"}
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.slots[idx] = slot{}
	return nil
}

// Call invokes a generated accessor by name: a reader, writer, predicate,
// or clearer synthesized from the class's descriptors. Writers take the
// new value as their single argument; the other accessor forms take none.
// Unknown accessor names fail with *UnknownAttributeError.
func (i *Instance) Call(accessor string, args ...any) (any, error) {
	acc, ok := i.class.accessors[accessor]
	if !ok {
		return nil, &UnknownAttributeError{Class: i.class.name, Name: accessor}
	}
	return acc.Invoke(i, args...)
}

// getInternal is the shared read path. The caller either holds the
// instance mutex (public Get) or is the single constructing goroutine
// (the constructor engine and the views it hands to builders).
func (i *Instance) getInternal(name string) (any, error) {
	idx, ok := i.class.indexOf(name)
	if !ok {
		return nil, &UnknownAttributeError{Class: i.class.name, Name: name}
	}
	return i.getByIndex(idx)
}

func (i *Instance) getByIndex(idx int) (any, error) {
	if i.slots[idx].state == slotSet {
		return i.slots[idx].value, nil
	}

	d := i.class.descriptors[idx]

	// Cycle check before anything else: re-entering an attribute that is
	// already on the resolution stack means its value source depends on
	// itself.
	for _, active := range i.stack {
		if active == idx {
			return nil, &BuilderCycleError{Class: i.class.name, Attribute: d.Name}
		}
	}

	// During construction, declaration order governs evaluation order: a
	// value source may read earlier-declared, already-resolved slots but
	// never later ones, supplied or not. Outside construction every
	// supplied value is already in place, so lazy attributes resolve in
	// whatever order reads arrive.
	if i.constructing && len(i.stack) > 0 && idx > i.stack[len(i.stack)-1] {
		return nil, &ForwardReferenceError{
			Class:     i.class.name,
			Attribute: i.class.descriptors[i.stack[len(i.stack)-1]].Name,
			Wanted:    d.Name,
		}
	}

	if !d.HasSource() || !d.Lazy {
		// Nothing to resolve on read: either no value source at all, or
		// an eager source whose moment was construction (reachable here
		// only after an explicit clear).
		return nil, &UnsetError{Class: i.class.name, Attribute: d.Name}
	}

	return i.resolve(idx, d)
}

// resolve runs an unset attribute's default or builder, validates and
// clones the result, and memoizes it into the slot. The caller has
// already performed cycle and ordering checks.
func (i *Instance) resolve(idx int, d attr.Descriptor) (any, error) {
	i.stack = append(i.stack, idx)
	value, err := i.class.evaluateSource(i, d)
	i.stack = i.stack[:len(i.stack)-1]
	if err != nil {
		return nil, err
	}

	stored, err := i.admit(d, value)
	if err != nil {
		return nil, err
	}

	i.slots[idx] = slot{state: slotSet, value: stored}
	return stored, nil
}

// admit runs a value through the attribute's type constraint (coercion
// first when declared) and clone policy, returning the value to store.
func (i *Instance) admit(d attr.Descriptor, value any) (any, error) {
	out := value
	if d.Isa != nil {
		applied, err := constraint.Apply(d.Name, d.Isa, value)
		if err != nil {
			return nil, err
		}
		out = applied
	}

	cloned, err := attr.CloneValue(d.Clone, d.CloneFn, out)
	if err != nil {
		return nil, fmt.Errorf("class %s: attribute %q: %w", i.class.name, d.Name, err)
	}
	return cloned, nil
}
