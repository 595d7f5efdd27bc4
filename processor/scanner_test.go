package processor

import (
	"path/filepath"
	"testing"

	"github.com/CodMac/pydiagram-lens/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func relPaths(t *testing.T, root string, files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestScanner_DefaultsAndOrder(t *testing.T) {
	root := writeProject(t, "proj", map[string]string{
		"zeta.py":                     "",
		"alpha/b.py":                  "",
		"alpha/a.py":                  "",
		"alpha/stubs.pyi":             "",
		"alpha/notes.txt":             "",
		"alpha/__pycache__/a.py":      "",
		".venv/lib/site.py":           "",
		"pkg/node_modules/x/index.py": "",
	})

	files, err := NewScanner(core.LangPython, nil, DefaultExcludes).Scan(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha/a.py", "alpha/b.py", "alpha/stubs.pyi", "zeta.py"}, relPaths(t, root, files))
}

func TestScanner_Gitignore(t *testing.T) {
	root := writeProject(t, "proj", map[string]string{
		".gitignore":         "# build output\nbuild/\n/generated\n*_pb2.py\n!keep.py\n",
		"app/main.py":        "",
		"app/api_pb2.py":     "",
		"build/lib/mod.py":   "",
		"generated/gen.py":   "",
		"app/generated/x.py": "",
		"keep.py":            "",
	})

	s := NewScanner(core.LangPython, nil, nil)
	require.NoError(t, s.AddGitignore(filepath.Join(root, ".gitignore")))
	require.NoError(t, s.AddGitignore(filepath.Join(root, "missing.gitignore")))

	files, err := s.Scan(root)
	require.NoError(t, err)
	// /generated 只锚定根目录
	assert.Equal(t, []string{"app/generated/x.py", "app/main.py", "keep.py"}, relPaths(t, root, files))
}

func TestScanner_CustomIncludes(t *testing.T) {
	root := writeProject(t, "proj", map[string]string{
		"src/a.py":   "",
		"tests/t.py": "",
	})

	files, err := NewScanner(core.LangPython, []string{"src/**/*.py"}, nil).Scan(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.py"}, relPaths(t, root, files))
}
