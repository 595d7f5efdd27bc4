package python_test

import (
	"testing"

	"github.com/CodMac/pydiagram-lens/core"
	"github.com/CodMac/pydiagram-lens/x/python"
	"github.com/stretchr/testify/assert"
)

func TestPythonResolver_SplitQualifiedName(t *testing.T) {
	r := python.NewPythonSymbolResolver()

	cases := []struct {
		in      string
		modules []string
		name    string
	}{
		{"Base", []string{}, "Base"},
		{"collections.OrderedDict", []string{"collections"}, "OrderedDict"},
		{"a.b.c.D", []string{"a", "b", "c"}, "D"},
		{"typing.Generic[a.T]", []string{"typing"}, "Generic[a.T]"},
		{"mixins.Make(version=1.5)", []string{"mixins"}, "Make(version=1.5)"},
		{"registry.get('x.y')", []string{"registry"}, "get('x.y')"},
		{"", []string{}, ""},
	}
	for _, tc := range cases {
		modules, name := r.SplitQualifiedName(tc.in)
		assert.Equal(t, tc.name, name, tc.in)
		assert.Equal(t, len(tc.modules), len(modules), tc.in)
		if len(tc.modules) > 0 {
			assert.Equal(t, tc.modules, modules, tc.in)
		}
	}
}

func TestPythonResolver_BuildAndResolve(t *testing.T) {
	r := python.NewPythonSymbolResolver()
	assert.Equal(t, "Base", r.BuildQualifiedName(nil, "Base"))
	assert.Equal(t, "pkg.mod.Base", r.BuildQualifiedName([]string{"pkg", "mod"}, "Base"))

	aliases := core.AliasTable{"c": "collections"}
	assert.Equal(t, "collections.OrderedDict", r.Resolve(aliases, "c.OrderedDict"))
	assert.Equal(t, "calc.Base", r.Resolve(aliases, "calc.Base"))
}
