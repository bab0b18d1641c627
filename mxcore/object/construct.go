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

import "sort"

// New constructs an instance of the class from a constructor-argument
// map. A nil map is an empty one.
//
// Construction is a fixed sequence. First the argument keys are checked:
// under strict checking (the default) every key MUST be an accepted
// init-arg, and ALL unknown keys are reported together in one
// *UnknownArgumentError, not just the first. Then attributes are
// processed in declaration order: a supplied value is coerced, checked
// against its type constraint, passed through its clone policy, and
// stored; a missing required attribute fails with
// *MissingRequiredError; an eager default or builder is evaluated now,
// free to read earlier-declared attributes through its Getter view and
// failing with *ForwardReferenceError on a later-declared unset one; a
// lazy source is left unset for first read. Finally the BUILD hooks run,
// ancestor-most first, each receiving the instance and the raw argument
// map.
//
// Construction is all-or-nothing: any failure at any stage discards all
// partial state and returns only the error.
func (c *Class) New(args map[string]any) (*Instance, error) {
	initArgs := c.reg.InitArgs()

	if c.strict {
		var unknown []string
		for key := range args {
			if _, ok := initArgs[key]; !ok {
				unknown = append(unknown, key)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return nil, &UnknownArgumentError{Class: c.name, Keys: unknown}
		}
	}

	supplied := make(map[string]any, len(args))
	for key, value := range args {
		if attrName, ok := initArgs[key]; ok {
			supplied[attrName] = value
		}
	}

	inst := &Instance{
		class:        c,
		slots:        make([]slot, len(c.descriptors)),
		constructing: true,
	}

	for idx, d := range c.descriptors {
		if value, ok := supplied[d.Name]; ok {
			stored, err := inst.admit(d, value)
			if err != nil {
				return nil, err
			}
			inst.slots[idx] = slot{state: slotSet, value: stored}
			continue
		}

		if d.Required {
			return nil, &MissingRequiredError{Class: c.name, Attribute: d.Name}
		}

		if d.HasSource() && !d.Lazy {
			if _, err := inst.resolve(idx, d); err != nil {
				return nil, err
			}
		}
	}

	inst.constructing = false

	for _, hook := range c.hookChain() {
		if err := hook(inst, args); err != nil {
			return nil, &BuildHookError{Class: c.name, Cause: err}
		}
	}

	return inst, nil
}

// MustNew is New for fixtures and program-start wiring, panicking on any
// construction error.
func (c *Class) MustNew(args map[string]any) *Instance {
	inst, err := c.New(args)
	if err != nil {
		panic(err)
	}
	return inst
}

// hookChain returns the class's BUILD hooks, ancestor-most first.
func (c *Class) hookChain() []BuildHook {
	var chain []BuildHook
	for cls := c; cls != nil; cls = cls.parent {
		if cls.hook != nil {
			chain = append(chain, cls.hook)
		}
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
