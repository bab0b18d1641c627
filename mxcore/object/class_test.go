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
	"reflect"
	"strings"
	"testing"

	"github.com/tobyink/moosex-extreme/mxcore/attr"
	"github.com/tobyink/moosex-extreme/mxcore/constraint"
	"github.com/tobyink/moosex-extreme/mxcore/object"
)

func TestDefineClass_Minimal(t *testing.T) {
	cls, err := object.DefineClass("Article",
		object.Param("title", attr.Isa(constraint.NonEmptyStr)),
		object.Field("created", attr.Builder(func(attr.Getter) (any, error) {
			return "2026-08-31", nil
		})),
	)
	if err != nil {
		t.Fatalf("DefineClass() failed: %v", err)
	}

	if cls.Name() != "Article" {
		t.Errorf("Name() = %q, want Article", cls.Name())
	}
	if cls.Parent() != nil {
		t.Error("Parent() != nil for a root class")
	}
	if !cls.Strict() {
		t.Error("Strict() = false, want true by default")
	}
	if !cls.Registry().Finalized() {
		t.Error("Registry().Finalized() = false, want true")
	}

	ds := cls.Descriptors()
	if len(ds) != 2 || ds[0].Name != "title" || ds[1].Name != "created" {
		t.Errorf("Descriptors() = %v, want title then created", ds)
	}

	if d, ok := cls.Lookup("title"); !ok || !d.Required {
		t.Errorf("Lookup(title) = %v, %v; want a required param", d, ok)
	}
	if _, ok := cls.Lookup("updated"); ok {
		t.Error("Lookup(updated) found a descriptor, want miss")
	}
}

func TestDefineClass_CollectsAllDefinitionErrors(t *testing.T) {
	_, err := object.DefineClass("Broken",
		object.Param("1st"),
		object.Param("x", attr.Lazy(true)),
		object.Field("created", attr.InitArg("created"), attr.Default("now")),
	)
	if err == nil {
		t.Fatal("DefineClass() succeeded, want every declaration error collected")
	}

	text := err.Error()
	for _, needle := range []string{"1st", "x", "created"} {
		if !strings.Contains(text, needle) {
			t.Errorf("error %q does not mention attribute %q", text, needle)
		}
	}
}

func TestDefineClass_Extends(t *testing.T) {
	parent, err := object.DefineClass("Document",
		object.Param("title", attr.Isa(constraint.Str)),
		object.Param("body", attr.Isa(constraint.Str), attr.Required(false)),
	)
	if err != nil {
		t.Fatalf("DefineClass(Document) failed: %v", err)
	}

	child, err := object.DefineClass("BlogPost",
		object.Extends(parent),
		object.Param("+title", attr.Isa(constraint.Str), attr.Default("untitled")),
		object.Param("slug", attr.Isa(constraint.NonEmptyStr)),
	)
	if err != nil {
		t.Fatalf("DefineClass(BlogPost) failed: %v", err)
	}

	if child.Parent() != parent {
		t.Error("Parent() is not the extended class")
	}

	ds := child.Descriptors()
	want := []string{"title", "body", "slug"}
	if len(ds) != len(want) {
		t.Fatalf("Descriptors() has %d entries, want %d", len(ds), len(want))
	}
	for i, name := range want {
		if ds[i].Name != name {
			t.Errorf("ds[%d].Name = %q, want %q: overrides keep the inherited position", i, ds[i].Name, name)
		}
	}
	if !ds[0].HasDefault {
		t.Error("override descriptor not applied to the inherited slot")
	}
}

func TestDefineClass_OverrideWithoutParentFails(t *testing.T) {
	_, err := object.DefineClass("Orphan",
		object.Param("+title"),
	)
	if err == nil {
		t.Fatal("DefineClass() accepted an override with nothing inherited")
	}
}

func TestDefineClass_NamedBuilders(t *testing.T) {
	t.Run("bound_at_definition", func(t *testing.T) {
		cls, err := object.DefineClass("Article",
			object.Field("checksum", attr.BuilderNamed()),
			object.BuilderMethod("_build_checksum", func(attr.Getter) (any, error) {
				return "abc123", nil
			}),
		)
		if err != nil {
			t.Fatalf("DefineClass() failed: %v", err)
		}

		inst, err := cls.New(nil)
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		got, err := inst.Get("checksum")
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		if got != "abc123" {
			t.Errorf("Get(checksum) = %v, want abc123", got)
		}
	})

	t.Run("unbound_rejected", func(t *testing.T) {
		_, err := object.DefineClass("Article",
			object.Field("checksum", attr.BuilderNamed()),
		)
		if err == nil {
			t.Fatal("DefineClass() succeeded with an unbound named builder")
		}
		if !strings.Contains(err.Error(), "_build_checksum") {
			t.Errorf("error %q does not name the missing builder", err)
		}
	})

	t.Run("binding_without_declaration_rejected", func(t *testing.T) {
		_, err := object.DefineClass("Article",
			object.Param("title"),
			object.BuilderMethod("_build_checksum", func(attr.Getter) (any, error) {
				return nil, nil
			}),
		)
		if err == nil {
			t.Fatal("DefineClass() accepted a builder binding nothing declares")
		}
	})

	t.Run("inherited_binding_serves_child", func(t *testing.T) {
		parent, err := object.DefineClass("Document",
			object.Field("checksum", attr.BuilderNamed()),
			object.BuilderMethod("_build_checksum", func(attr.Getter) (any, error) {
				return "parent-sum", nil
			}),
		)
		if err != nil {
			t.Fatalf("DefineClass(Document) failed: %v", err)
		}

		child, err := object.DefineClass("BlogPost", object.Extends(parent))
		if err != nil {
			t.Fatalf("DefineClass(BlogPost) failed: %v", err)
		}

		inst, err := child.New(nil)
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		got, err := inst.Get("checksum")
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		if got != "parent-sum" {
			t.Errorf("Get(checksum) = %v, want the inherited builder's result", got)
		}
	})
}

func TestDefineClass_AccessorTable(t *testing.T) {
	cls, err := object.DefineClass("Article",
		object.Param("title", attr.RW(), attr.Reader(), attr.Writer(), attr.Predicate(), attr.Clearer()),
		object.Param("slug", attr.Required(false), attr.ReaderNamed("permalink")),
	)
	if err != nil {
		t.Fatalf("DefineClass() failed: %v", err)
	}

	got := cls.AccessorNames()
	want := []string{"clear_title", "get_title", "has_title", "permalink", "set_title"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AccessorNames() = %v, want %v", got, want)
	}
}

func TestDefineClass_AccessorCollision(t *testing.T) {
	_, err := object.DefineClass("Article",
		object.Param("a", attr.ReaderNamed("value")),
		object.Param("b", attr.ReaderNamed("value")),
	)
	if err == nil {
		t.Fatal("DefineClass() accepted two accessors sharing a name")
	}
}

func TestDefineClass_DuplicateAttribute(t *testing.T) {
	_, err := object.DefineClass("Article",
		object.Param("title"),
		object.Param("title"),
	)
	if err == nil {
		t.Fatal("DefineClass() accepted a duplicate attribute name")
	}
}

func TestDefineClass_TwoHooksRejected(t *testing.T) {
	noop := func(*object.Instance, map[string]any) error { return nil }
	_, err := object.DefineClass("Article",
		object.Param("title"),
		object.BUILD(noop),
		object.BUILD(noop),
	)
	if err == nil {
		t.Fatal("DefineClass() accepted two BUILD hooks")
	}
}

func TestDefineClass_Fans(t *testing.T) {
	cls, err := object.DefineClass("Point",
		object.Params([]string{"x", "y", "z"}, attr.Isa(constraint.Num)),
		object.Fields([]string{"etag", "digest"}, attr.Default("")),
	)
	if err != nil {
		t.Fatalf("DefineClass() failed: %v", err)
	}

	ds := cls.Descriptors()
	want := []string{"x", "y", "z", "etag", "digest"}
	if len(ds) != len(want) {
		t.Fatalf("Descriptors() has %d entries, want %d", len(ds), len(want))
	}
	for i, name := range want {
		if ds[i].Name != name {
			t.Errorf("ds[%d].Name = %q, want %q", i, ds[i].Name, name)
		}
	}
}

func TestMustDefine(t *testing.T) {
	t.Run("valid_returns", func(t *testing.T) {
		cls := object.MustDefine("Article", object.Param("title"))
		if cls == nil {
			t.Fatal("MustDefine() = nil")
		}
	})

	t.Run("invalid_panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("MustDefine() did not panic on a broken definition")
			}
		}()
		object.MustDefine("Broken", object.Param("1st"))
	})
}
