package python_test

import (
	"os"
	"testing"

	"github.com/CodMac/pydiagram-lens/core"
	"github.com/CodMac/pydiagram-lens/x/python"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPythonCollector_ClassNodesPreOrder(t *testing.T) {
	fCtx := extractFile(t, "nesting.py", core.BindOptions{}, "pkg", "nesting")

	names := make([]string, 0)
	for _, rec := range fCtx.Records() {
		names = append(names, rec.Name)
		assert.Equal(t, []string{"pkg", "nesting"}, rec.ModulePath)
	}
	assert.Equal(t, []string{"Outer", "Inner", "Local", "Decorated"}, names)

	// Location 在 Release 之后仍然保留
	outer := findRecord(t, fCtx, "Outer")
	require.NotNil(t, outer.Location)
	assert.Equal(t, 1, outer.Location.StartLine)
	assert.Equal(t, 3, outer.Location.EndLine)
	assert.Nil(t, fCtx.RootNode)
}

func TestPythonCollector_Aliases(t *testing.T) {
	path := getTestFilePath("imports.py")
	source, err := os.ReadFile(path)
	require.NoError(t, err)
	root := parseSource(t, source)

	aliases := python.CollectAliases(root, source, []string{"app", "api", "views"})

	expected := map[string]string{
		"annotations": "__future__.annotations",
		"os":          "os",
		"osp":         "os.path",
		"OD":          "collections.OrderedDict",
		"defaultdict": "collections.defaultdict",
		"sibling":     "app.api.sibling",
		"User":        "app.api.models.User",
		"Base":        "app.core.base.Base",
		"json":        "json",
		"js":          "json",
		"Shadowed":    "second.Shadowed",
		"lm":          "late.module",
	}
	for local, full := range expected {
		assert.Equal(t, full, aliases[local], "alias %s", local)
	}
	assert.Len(t, aliases, len(expected))
	assert.NotContains(t, aliases, "*")
}

func TestPythonCollector_RelativeImportWithoutPackage(t *testing.T) {
	source := []byte("from . import sibling\nfrom .models import User\nfrom ..far import Away\n")
	root := parseSource(t, source)

	aliases := python.CollectAliases(root, source, []string{"views"})
	assert.Equal(t, "sibling", aliases["sibling"])
	assert.Equal(t, "models.User", aliases["User"])
	assert.Equal(t, "far.Away", aliases["Away"])
}

func TestPythonCollector_InvalidNode(t *testing.T) {
	source := []byte("x = 1\n")
	root := parseSource(t, source)

	_, err := python.InspectClass(root, source)
	assert.ErrorIs(t, err, core.ErrInvalidNode)

	_, err = python.InspectClass(nil, source)
	assert.ErrorIs(t, err, core.ErrInvalidNode)
}

func TestPythonCollector_EmptyFile(t *testing.T) {
	fCtx := extractSource(t, "empty.py", []byte(""), core.BindOptions{}, "empty")
	assert.Empty(t, fCtx.Records())
	assert.Empty(t, fCtx.Aliases)
}
