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

package attr_test

import (
	"errors"
	"testing"

	"github.com/tobyink/moosex-extreme/mxcore/attr"
	"github.com/tobyink/moosex-extreme/mxcore/constraint"
)

func TestParam_Posture(t *testing.T) {
	t.Run("bare_param_is_required_ro", func(t *testing.T) {
		d, err := attr.Param("title")
		if err != nil {
			t.Fatalf("Param() failed: %v", err)
		}
		if !d.Required {
			t.Error("Required = false, want true")
		}
		if d.InitArg != "title" {
			t.Errorf("InitArg = %q, want %q", d.InitArg, "title")
		}
		if d.Access != attr.AccessReadOnly {
			t.Errorf("Access = %v, want ro", d.Access)
		}
		if d.Lazy {
			t.Error("Lazy = true, want false")
		}
	})

	t.Run("default_makes_param_optional", func(t *testing.T) {
		d, err := attr.Param("title", attr.Default("untitled"))
		if err != nil {
			t.Fatalf("Param() failed: %v", err)
		}
		if d.Required {
			t.Error("Required = true, want false when a default exists")
		}
		if !d.HasDefault || d.Default != "untitled" {
			t.Errorf("Default = %v (has=%v), want %q", d.Default, d.HasDefault, "untitled")
		}
	})

	t.Run("required_true_with_default_is_inert", func(t *testing.T) {
		d, err := attr.Param("title", attr.Required(true), attr.Default("untitled"))
		if err != nil {
			t.Fatalf("Param() failed: %v", err)
		}
		if d.Required {
			t.Error("Required = true, want false: an internally-satisfiable attribute is never required")
		}
	})

	t.Run("explicit_required_false", func(t *testing.T) {
		d, err := attr.Param("note", attr.Required(false))
		if err != nil {
			t.Fatalf("Param() failed: %v", err)
		}
		if d.Required {
			t.Error("Required = true, want false")
		}
	})

	t.Run("custom_init_arg", func(t *testing.T) {
		d, err := attr.Param("title", attr.InitArg("name"))
		if err != nil {
			t.Fatalf("Param() failed: %v", err)
		}
		if d.InitArg != "name" {
			t.Errorf("InitArg = %q, want %q", d.InitArg, "name")
		}
	})

	t.Run("lazy_param_with_builder", func(t *testing.T) {
		d, err := attr.Param("rendered", attr.Lazy(true), attr.Builder(func(attr.Getter) (any, error) {
			return "x", nil
		}))
		if err != nil {
			t.Fatalf("Param() failed: %v", err)
		}
		if !d.Lazy {
			t.Error("Lazy = false, want true")
		}
		if !d.HasBuilder || d.Builder == nil {
			t.Error("builder not recorded")
		}
		if d.BuilderName != "_build_rendered" {
			t.Errorf("BuilderName = %q, want %q", d.BuilderName, "_build_rendered")
		}
	})
}

func TestField_Posture(t *testing.T) {
	t.Run("bare_field_is_forbidden_optional", func(t *testing.T) {
		d, err := attr.Field("cache")
		if err != nil {
			t.Fatalf("Field() failed: %v", err)
		}
		if d.Required {
			t.Error("Required = true, want false")
		}
		if !d.Forbidden() {
			t.Errorf("Forbidden() = false (InitArg %q), want true", d.InitArg)
		}
	})

	t.Run("field_with_default_is_lazy", func(t *testing.T) {
		d, err := attr.Field("created", attr.Default("now"))
		if err != nil {
			t.Fatalf("Field() failed: %v", err)
		}
		if !d.Lazy {
			t.Error("Lazy = false, want true: fields with a value source are always lazy")
		}
	})

	t.Run("underscore_init_arg_test_seam", func(t *testing.T) {
		d, err := attr.Field("created", attr.InitArg("_created"), attr.Default("now"))
		if err != nil {
			t.Fatalf("Field() failed: %v", err)
		}
		if d.InitArg != "_created" {
			t.Errorf("InitArg = %q, want %q", d.InitArg, "_created")
		}
		if d.Forbidden() {
			t.Error("Forbidden() = true, want false: the seam is a legal constructor argument")
		}
	})

	t.Run("required_field_rejected", func(t *testing.T) {
		_, err := attr.Field("cache", attr.Required(true))
		var defErr *attr.DefinitionError
		if !errors.As(err, &defErr) {
			t.Fatalf("Field() error = %v, want *DefinitionError", err)
		}
	})

	t.Run("bare_init_arg_rejected", func(t *testing.T) {
		_, err := attr.Field("created", attr.InitArg("created"), attr.Default("now"))
		var defErr *attr.DefinitionError
		if !errors.As(err, &defErr) {
			t.Fatalf("Field() error = %v, want *DefinitionError", err)
		}
		if defErr.Attribute != "created" {
			t.Errorf("Attribute = %q, want %q", defErr.Attribute, "created")
		}
	})
}

func TestNormalize_SourceExclusivity(t *testing.T) {
	builder := func(attr.Getter) (any, error) { return nil, nil }
	thunk := func(attr.Getter) (any, error) { return nil, nil }

	tests := []struct {
		name string
		opts []attr.Option
	}{
		{
			name: "default_and_thunk",
			opts: []attr.Option{attr.Default(1), attr.DefaultFn(thunk)},
		},
		{
			name: "default_and_builder",
			opts: []attr.Option{attr.Default(1), attr.Builder(builder)},
		},
		{
			name: "thunk_and_builder",
			opts: []attr.Option{attr.DefaultFn(thunk), attr.Builder(builder)},
		},
		{
			name: "default_and_named_builder",
			opts: []attr.Option{attr.Default(1), attr.BuilderNamed()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := attr.Param("x", tt.opts...)
			var defErr *attr.DefinitionError
			if !errors.As(err, &defErr) {
				t.Errorf("Param() error = %v, want *DefinitionError", err)
			}
		})
	}
}

func TestNormalize_Rejections(t *testing.T) {
	tests := []struct {
		name string
		kind attr.Kind
		attr string
		opts []attr.Option
	}{
		{
			name: "illegal_name",
			kind: attr.KindParam,
			attr: "1st",
		},
		{
			name: "reserved_name",
			kind: attr.KindParam,
			attr: "new",
		},
		{
			name: "lazy_without_source",
			kind: attr.KindParam,
			attr: "x",
			opts: []attr.Option{attr.Lazy(true)},
		},
		{
			name: "writer_without_rw",
			kind: attr.KindParam,
			attr: "x",
			opts: []attr.Option{attr.Writer()},
		},
		{
			name: "clearer_on_ro_eager",
			kind: attr.KindParam,
			attr: "x",
			opts: []attr.Option{attr.Clearer()},
		},
		{
			name: "custom_clone_without_function",
			kind: attr.KindParam,
			attr: "x",
			opts: []attr.Option{attr.Clone(attr.CloneCustom)},
		},
		{
			name: "illegal_explicit_reader_name",
			kind: attr.KindParam,
			attr: "x",
			opts: []attr.Option{attr.ReaderNamed("get x")},
		},
		{
			name: "reserved_explicit_reader_name",
			kind: attr.KindParam,
			attr: "x",
			opts: []attr.Option{attr.ReaderNamed("isa")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.kind == attr.KindField {
				_, err = attr.Field(tt.attr, tt.opts...)
			} else {
				_, err = attr.Param(tt.attr, tt.opts...)
			}
			var defErr *attr.DefinitionError
			if !errors.As(err, &defErr) {
				t.Errorf("normalization error = %v, want *DefinitionError", err)
			}
		})
	}
}

func TestNormalize_AccessorNames(t *testing.T) {
	t.Run("synthesized", func(t *testing.T) {
		d, err := attr.Param("title", attr.RW(),
			attr.Reader(), attr.Writer(), attr.Predicate(), attr.Clearer())
		if err != nil {
			t.Fatalf("Param() failed: %v", err)
		}
		if d.ReaderName != "get_title" {
			t.Errorf("ReaderName = %q, want %q", d.ReaderName, "get_title")
		}
		if d.WriterName != "set_title" {
			t.Errorf("WriterName = %q, want %q", d.WriterName, "set_title")
		}
		if d.PredicateName != "has_title" {
			t.Errorf("PredicateName = %q, want %q", d.PredicateName, "has_title")
		}
		if d.ClearerName != "clear_title" {
			t.Errorf("ClearerName = %q, want %q", d.ClearerName, "clear_title")
		}
	})

	t.Run("explicit", func(t *testing.T) {
		d, err := attr.Param("title", attr.RW(), attr.ReaderNamed("title_of"), attr.WriterNamed("rename"))
		if err != nil {
			t.Fatalf("Param() failed: %v", err)
		}
		if d.ReaderName != "title_of" {
			t.Errorf("ReaderName = %q, want %q", d.ReaderName, "title_of")
		}
		if d.WriterName != "rename" {
			t.Errorf("WriterName = %q, want %q", d.WriterName, "rename")
		}
	})

	t.Run("not_requested_means_absent", func(t *testing.T) {
		d, err := attr.Param("title")
		if err != nil {
			t.Fatalf("Param() failed: %v", err)
		}
		if names := d.AccessorNames(); len(names) != 0 {
			t.Errorf("AccessorNames() = %v, want none", names)
		}
	})

	t.Run("clearer_on_lazy_ro", func(t *testing.T) {
		d, err := attr.Param("cache", attr.Lazy(true), attr.Default("x"), attr.Clearer())
		if err != nil {
			t.Fatalf("Param() failed: %v", err)
		}
		if d.ClearerName != "clear_cache" {
			t.Errorf("ClearerName = %q, want %q", d.ClearerName, "clear_cache")
		}
	})
}

func TestParamList_FanOut(t *testing.T) {
	ds, err := attr.ParamList([]string{"x", "y", "z"}, attr.Isa(constraint.Int), attr.Required(false))
	if err != nil {
		t.Fatalf("ParamList() failed: %v", err)
	}
	if len(ds) != 3 {
		t.Fatalf("len = %d, want 3", len(ds))
	}
	for i, want := range []string{"x", "y", "z"} {
		if ds[i].Name != want {
			t.Errorf("ds[%d].Name = %q, want %q", i, ds[i].Name, want)
		}
		if ds[i].Required {
			t.Errorf("ds[%d].Required = true, want false", i)
		}
		if ds[i].IsaName() != "Int" {
			t.Errorf("ds[%d].IsaName() = %q, want Int", i, ds[i].IsaName())
		}
	}
}

func TestParamList_Empty(t *testing.T) {
	_, err := attr.ParamList(nil)
	var defErr *attr.DefinitionError
	if !errors.As(err, &defErr) {
		t.Errorf("ParamList(nil) error = %v, want *DefinitionError", err)
	}
}

func TestFieldList_FanOut(t *testing.T) {
	ds, err := attr.FieldList([]string{"etag", "digest"}, attr.Default(""))
	if err != nil {
		t.Fatalf("FieldList() failed: %v", err)
	}
	for i := range ds {
		if ds[i].Kind != attr.KindField {
			t.Errorf("ds[%d].Kind = %v, want field", i, ds[i].Kind)
		}
		if !ds[i].Lazy {
			t.Errorf("ds[%d].Lazy = false, want true", i)
		}
	}
}
