package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodSignature(t *testing.T) {
	tests := []struct {
		name   string
		method Method
		want   string
	}{
		{
			name:   "no params void",
			method: Method{Name: "reset", ReturnType: "void"},
			want:   "reset()",
		},
		{
			name: "params with return",
			method: Method{
				Name:       "login",
				Params:     []Parameter{{Name: "user", Type: "String"}, {Name: "attempts", Type: "Number"}},
				ReturnType: "Boolean",
			},
			want: "login(user: String, attempts: Number) -> Boolean",
		},
		{
			name:   "params void",
			method: Method{Name: "notify", Params: []Parameter{{Name: "msg", Type: "String"}}, ReturnType: "void"},
			want:   "notify(msg: String)",
		},
		{
			name:   "component return type",
			method: Method{Name: "session", ReturnType: "Session"},
			want:   "session() -> Session",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.method.Signature())
		})
	}
}

func TestAnnotationArg(t *testing.T) {
	ann := Annotation{
		Name: "deprecated",
		Args: []AnnotationArg{
			{Key: "since", Value: Value{Kind: ValueString, Str: "2.0", Raw: `"2.0"`}},
			{Key: "removal", Value: Value{Kind: ValueNumber, Num: 3, Raw: "3"}},
		},
	}

	v, ok := ann.Arg("since")
	require.True(t, ok)
	assert.Equal(t, `"2.0"`, v.Raw)

	_, ok = ann.Arg("reason")
	assert.False(t, ok)
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "line 3, col 14", Position{Line: 3, Column: 14}.String())
}

func TestPositionIsValid(t *testing.T) {
	assert.True(t, Position{Line: 1, Column: 1}.IsValid())
	assert.False(t, Position{}.IsValid())
	assert.False(t, Position{Line: 1}.IsValid())
}

func TestFileComponentsAndViews(t *testing.T) {
	f := &File{
		Path: "arch.doop",
		Decls: []Decl{
			&Component{Name: "Auth"},
			&View{Name: "Overview"},
			&Component{Name: "Billing"},
		},
	}

	comps := f.Components()
	require.Len(t, comps, 2)
	assert.Equal(t, "Auth", comps[0].Name)
	assert.Equal(t, "Billing", comps[1].Name)

	views := f.Views()
	require.Len(t, views, 1)
	assert.Equal(t, "Overview", views[0].Name)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "-2.5", Value{Kind: ValueNumber, Num: -2.5, Raw: "-2.5"}.String())
	assert.Equal(t, `"hi"`, Value{Kind: ValueString, Str: "hi", Raw: `"hi"`}.String())
}
