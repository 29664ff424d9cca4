package gen

import (
	"go/types"
	"text/template"
)

// stepView is what the step template sees: a package name (so the
// generated file can declare itself correctly) plus the struct cowgen is
// emitting helpers for.
type stepView struct {
	Package string
	Struct  *cowStruct
}

// funcMap contains the functions the step template can call. TypeString
// renders a go/types.Type relative to the struct's own package: names from
// that package come out unqualified, and names from any other package are
// written with their full import path. The generated file imports only the
// cow package.
var funcMap = template.FuncMap{
	"TypeString": func(s *cowStruct, t types.Type) string {
		return types.TypeString(t, types.RelativeTo(s.Named.Obj().Pkg()))
	},
}

// stepsTemplate emits one Step<Field> function per cow.Shared[X] field on
// the struct. The generated file carries a "!cowgenAnalysis" build tag so
// a later run of cowgen over the same package can exclude its own
// previous output from the type information it scans.
var stepsTemplate = template.Must(template.New("steps").Funcs(funcMap).Parse(`// Code generated by cowgen. DO NOT EDIT.

//go:build !cowgenAnalysis

package {{ .Package }}

import (
	"github.com/spinewalk/cow"
)
{{ $s := .Struct }}
{{ range $f := $s.Fields }}
// Step{{ $f.Name }} returns a pointer to the {{ $f.Name }} field of parent,
// suitable for cursor.Step or trail.Push.
func Step{{ $f.Name }}(parent *{{ $s }}) *cow.Shared[{{ TypeString $s $f.Elem }}] {
	return &parent.{{ $f.Name }}
}
{{ end }}
`))
