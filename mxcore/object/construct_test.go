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

package object_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/tobyink/moosex-extreme/mxcore/attr"
	"github.com/tobyink/moosex-extreme/mxcore/constraint"
	"github.com/tobyink/moosex-extreme/mxcore/object"
)

// articleClass is the canonical two-attribute shape: a required, typed
// param plus a lazily built field.
func articleClass(t *testing.T) *object.Class {
	t.Helper()
	cls, err := object.DefineClass("Article",
		object.Param("title", attr.Isa(constraint.NonEmptyStr)),
		object.Field("created", attr.Builder(func(attr.Getter) (any, error) {
			return "2026-08-31T00:00:00Z", nil
		})),
	)
	if err != nil {
		t.Fatalf("DefineClass() failed: %v", err)
	}
	return cls
}

func TestNew_SuppliedAndLazy(t *testing.T) {
	cls := articleClass(t)

	inst, err := cls.New(map[string]any{"title": "Hello"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	got, err := inst.Get("title")
	if err != nil {
		t.Fatalf("Get(title) failed: %v", err)
	}
	if got != "Hello" {
		t.Errorf("Get(title) = %v, want Hello", got)
	}

	// The lazy field stays unset until first read.
	if inst.Has("created") {
		t.Error("Has(created) = true before first read, want false")
	}
	created, err := inst.Get("created")
	if err != nil {
		t.Fatalf("Get(created) failed: %v", err)
	}
	if created != "2026-08-31T00:00:00Z" {
		t.Errorf("Get(created) = %v", created)
	}
	if !inst.Has("created") {
		t.Error("Has(created) = false after first read, want true")
	}
}

func TestNew_StrictUnknownArguments(t *testing.T) {
	cls := articleClass(t)

	_, err := cls.New(map[string]any{
		"title":  "Hello",
		"zebra":  1,
		"aardma": 2,
	})

	var unknown *object.UnknownArgumentError
	if !errors.As(err, &unknown) {
		t.Fatalf("New() error = %v, want *UnknownArgumentError", err)
	}
	if unknown.Class != "Article" {
		t.Errorf("Class = %q, want Article", unknown.Class)
	}
	// Every unknown key reported, sorted, in one failure.
	if !reflect.DeepEqual(unknown.Keys, []string{"aardma", "zebra"}) {
		t.Errorf("Keys = %v, want [aardma zebra]", unknown.Keys)
	}
}

func TestNew_NonStrictIgnoresUnknowns(t *testing.T) {
	cls, err := object.DefineClass("Loose",
		object.NonStrict(),
		object.Param("title", attr.Required(false)),
	)
	if err != nil {
		t.Fatalf("DefineClass() failed: %v", err)
	}

	inst, err := cls.New(map[string]any{"title": "x", "extra": true})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if inst.Has("extra") {
		t.Error("unknown key leaked into instance state")
	}
}

func TestNew_MissingRequired(t *testing.T) {
	cls := articleClass(t)

	_, err := cls.New(nil)
	var missing *object.MissingRequiredError
	if !errors.As(err, &missing) {
		t.Fatalf("New() error = %v, want *MissingRequiredError", err)
	}
	if missing.Attribute != "title" {
		t.Errorf("Attribute = %q, want title", missing.Attribute)
	}
}

func TestNew_ConstraintViolation(t *testing.T) {
	cls := articleClass(t)

	_, err := cls.New(map[string]any{"title": ""})
	var v *constraint.Violation
	if !errors.As(err, &v) {
		t.Fatalf("New() error = %v, want *constraint.Violation", err)
	}
	if v.Attribute != "title" || v.Constraint != "NonEmptyStr" {
		t.Errorf("Violation = %+v", v)
	}
}

func TestNew_CoercedFormStored(t *testing.T) {
	cls, err := object.DefineClass("Release",
		object.Param("version", attr.Isa(constraint.SemVer)),
	)
	if err != nil {
		t.Fatalf("DefineClass() failed: %v", err)
	}

	inst, err := cls.New(map[string]any{"version": " v1.2.3 "})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	got, err := inst.Get("version")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != "1.2.3" {
		t.Errorf("Get(version) = %v, want the canonical coerced form 1.2.3", got)
	}
}

func TestNew_InitArgRenaming(t *testing.T) {
	cls, err := object.DefineClass("Article",
		object.Param("title", attr.InitArg("name")),
		object.Field("cache", attr.InitArg("_cache"), attr.Default("warm")),
	)
	if err != nil {
		t.Fatalf("DefineClass() failed: %v", err)
	}

	t.Run("renamed_arg_accepted", func(t *testing.T) {
		inst, err := cls.New(map[string]any{"name": "Hello"})
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		if got, _ := inst.Get("title"); got != "Hello" {
			t.Errorf("Get(title) = %v, want Hello", got)
		}
	})

	t.Run("attribute_name_no_longer_accepted", func(t *testing.T) {
		_, err := cls.New(map[string]any{"title": "Hello"})
		var unknown *object.UnknownArgumentError
		if !errors.As(err, &unknown) {
			t.Fatalf("New() error = %v, want *UnknownArgumentError", err)
		}
	})

	t.Run("field_seam_accepted", func(t *testing.T) {
		inst, err := cls.New(map[string]any{"name": "x", "_cache": "cold"})
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		if got, _ := inst.Get("cache"); got != "cold" {
			t.Errorf("Get(cache) = %v, want the seam-supplied value", got)
		}
	})

	t.Run("field_without_seam_forbidden", func(t *testing.T) {
		forbidden, err := object.DefineClass("Sealed",
			object.Field("cache", attr.Default("warm")),
		)
		if err != nil {
			t.Fatalf("DefineClass() failed: %v", err)
		}
		_, err = forbidden.New(map[string]any{"cache": "cold"})
		var unknown *object.UnknownArgumentError
		if !errors.As(err, &unknown) {
			t.Fatalf("New() error = %v, want *UnknownArgumentError", err)
		}
	})
}

func TestNew_EagerDefaultsInDeclarationOrder(t *testing.T) {
	var order []string
	note := func(name string, value any) attr.Option {
		return attr.DefaultFn(func(attr.Getter) (any, error) {
			order = append(order, name)
			return value, nil
		})
	}

	cls, err := object.DefineClass("Chain",
		object.Param("a", note("a", 1)),
		object.Param("b", note("b", 2)),
		object.Param("c", note("c", 3)),
	)
	if err != nil {
		t.Fatalf("DefineClass() failed: %v", err)
	}

	if _, err := cls.New(nil); err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if !reflect.DeepEqual(order, []string{"a", "b", "c"}) {
		t.Errorf("evaluation order = %v, want [a b c]", order)
	}
}

func TestNew_DefaultReadsEarlierAttribute(t *testing.T) {
	cls, err := object.DefineClass("Article",
		object.Param("title", attr.Isa(constraint.NonEmptyStr)),
		object.Param("slug", attr.DefaultFn(func(self attr.Getter) (any, error) {
			title, err := self.Get("title")
			if err != nil {
				return nil, err
			}
			return "post-" + title.(string), nil
		})),
	)
	if err != nil {
		t.Fatalf("DefineClass() failed: %v", err)
	}

	inst, err := cls.New(map[string]any{"title": "go"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if got, _ := inst.Get("slug"); got != "post-go" {
		t.Errorf("Get(slug) = %v, want post-go", got)
	}
}

func TestNew_ForwardReferenceFailsLoudly(t *testing.T) {
	cls, err := object.DefineClass("Tangled",
		object.Param("early", attr.DefaultFn(func(self attr.Getter) (any, error) {
			return self.Get("late")
		})),
		object.Param("late", attr.Default("z")),
	)
	if err != nil {
		t.Fatalf("DefineClass() failed: %v", err)
	}

	// "late" is supplied and declared after "early"; the ordering rule
	// still forbids the read, supplied or not.
	_, err = cls.New(map[string]any{"late": "given"})
	var fwd *object.ForwardReferenceError
	if !errors.As(err, &fwd) {
		t.Fatalf("New() error = %v, want *ForwardReferenceError", err)
	}
	if fwd.Attribute != "early" || fwd.Wanted != "late" {
		t.Errorf("ForwardReferenceError = %+v", fwd)
	}
}

func TestNew_AllOrNothing(t *testing.T) {
	evaluated := false
	cls, err := object.DefineClass("Fragile",
		object.Param("a", attr.DefaultFn(func(attr.Getter) (any, error) {
			evaluated = true
			return 1, nil
		})),
		object.Param("b", attr.DefaultFn(func(attr.Getter) (any, error) {
			return nil, fmt.Errorf("no value available")
		})),
	)
	if err != nil {
		t.Fatalf("DefineClass() failed: %v", err)
	}

	inst, err := cls.New(nil)
	if err == nil {
		t.Fatal("New() succeeded, want failure from the second default")
	}
	if inst != nil {
		t.Error("New() returned a partial instance alongside the error")
	}
	if !evaluated {
		t.Error("first default never ran; failure should strike mid-sequence")
	}
}

func TestNew_ClonePolicyIsolatesCallerValue(t *testing.T) {
	cls, err := object.DefineClass("Article",
		object.Param("tags", attr.Isa(constraint.ArrayOf(constraint.Str, 0)), attr.Clone(attr.CloneShallow)),
		object.Param("extra", attr.Isa(constraint.HashRef), attr.Clone(attr.CloneDeep)),
	)
	if err != nil {
		t.Fatalf("DefineClass() failed: %v", err)
	}

	tags := []any{"go"}
	extra := map[string]any{"refs": []any{"a"}}
	inst, err := cls.New(map[string]any{"tags": tags, "extra": extra})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	tags[0] = "perl"
	extra["refs"].([]any)[0] = "b"

	gotTags, _ := inst.Get("tags")
	if gotTags.([]any)[0] != "go" {
		t.Error("mutating the caller's slice changed stored state despite the shallow clone")
	}
	gotExtra, _ := inst.Get("extra")
	if gotExtra.(map[string]any)["refs"].([]any)[0] != "a" {
		t.Error("mutating the caller's nested slice changed stored state despite the deep clone")
	}
}

func TestNew_CustomClone(t *testing.T) {
	cls, err := object.DefineClass("Article",
		object.Param("title", attr.CloneWith(func(v any) (any, error) {
			return "[copy] " + v.(string), nil
		})),
	)
	if err != nil {
		t.Fatalf("DefineClass() failed: %v", err)
	}

	inst, err := cls.New(map[string]any{"title": "x"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if got, _ := inst.Get("title"); got != "[copy] x" {
		t.Errorf("Get(title) = %v, want the custom clone applied before store", got)
	}
}

func TestNew_BuildHooks(t *testing.T) {
	t.Run("receives_instance_and_raw_args", func(t *testing.T) {
		var seen map[string]any
		cls, err := object.DefineClass("Article",
			object.Param("title"),
			object.BUILD(func(self *object.Instance, args map[string]any) error {
				seen = args
				got, err := self.Get("title")
				if err != nil {
					return err
				}
				if got != "Hello" {
					return fmt.Errorf("hook saw title %v", got)
				}
				return nil
			}),
		)
		if err != nil {
			t.Fatalf("DefineClass() failed: %v", err)
		}

		raw := map[string]any{"title": "Hello"}
		if _, err := cls.New(raw); err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		if !reflect.DeepEqual(seen, raw) {
			t.Errorf("hook args = %v, want the raw constructor map", seen)
		}
	})

	t.Run("ancestor_hooks_run_first", func(t *testing.T) {
		var order []string
		parent, err := object.DefineClass("Document",
			object.Param("title", attr.Required(false)),
			object.BUILD(func(*object.Instance, map[string]any) error {
				order = append(order, "Document")
				return nil
			}),
		)
		if err != nil {
			t.Fatalf("DefineClass(Document) failed: %v", err)
		}

		child, err := object.DefineClass("BlogPost",
			object.Extends(parent),
			object.BUILD(func(*object.Instance, map[string]any) error {
				order = append(order, "BlogPost")
				return nil
			}),
		)
		if err != nil {
			t.Fatalf("DefineClass(BlogPost) failed: %v", err)
		}

		if _, err := child.New(nil); err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		if !reflect.DeepEqual(order, []string{"Document", "BlogPost"}) {
			t.Errorf("hook order = %v, want parent first", order)
		}
	})

	t.Run("hook_failure_discards_instance", func(t *testing.T) {
		cls, err := object.DefineClass("Article",
			object.Param("title", attr.Required(false)),
			object.BUILD(func(*object.Instance, map[string]any) error {
				return fmt.Errorf("title and body disagree")
			}),
		)
		if err != nil {
			t.Fatalf("DefineClass() failed: %v", err)
		}

		inst, err := cls.New(nil)
		var hookErr *object.BuildHookError
		if !errors.As(err, &hookErr) {
			t.Fatalf("New() error = %v, want *BuildHookError", err)
		}
		if inst != nil {
			t.Error("New() returned an instance alongside the hook error")
		}
	})
}

func TestMustNew(t *testing.T) {
	cls := articleClass(t)

	t.Run("valid_returns", func(t *testing.T) {
		if inst := cls.MustNew(map[string]any{"title": "x"}); inst == nil {
			t.Fatal("MustNew() = nil")
		}
	})

	t.Run("invalid_panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("MustNew() did not panic on a missing required attribute")
			}
		}()
		cls.MustNew(nil)
	})
}
