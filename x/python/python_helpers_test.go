package python_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CodMac/pydiagram-lens/core"
	"github.com/CodMac/pydiagram-lens/model"
	"github.com/CodMac/pydiagram-lens/parser"
	"github.com/CodMac/pydiagram-lens/x/python"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

func getTestFilePath(name string) string {
	currentDir, _ := filepath.Abs(filepath.Dir("."))
	return filepath.Join(currentDir, "testdata", name)
}

func getPythonParser(t *testing.T) *parser.TreeSitterParser {
	p, err := parser.NewParser(core.LangPython)
	require.NoError(t, err, "Failed to create Python parser")
	t.Cleanup(p.Close)
	return p
}

// parseSource 解析源码, 语法树在测试结束时关闭
func parseSource(t *testing.T, source []byte) *sitter.Node {
	tree, err := getPythonParser(t).Parse(source)
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree.RootNode()
}

// extractFile 对 testdata 下的单个文件跑完 Collector + Binder
func extractFile(t *testing.T, name string, opts core.BindOptions, modulePath ...string) *core.FileContext {
	path := getTestFilePath(name)
	source, err := os.ReadFile(path)
	require.NoError(t, err)
	return extractSource(t, path, source, opts, modulePath...)
}

func extractSource(t *testing.T, path string, source []byte, opts core.BindOptions, modulePath ...string) *core.FileContext {
	root := parseSource(t, source)

	fCtx, err := python.NewPythonCollector().CollectDefinitions(root, path, modulePath, &source)
	require.NoError(t, err, "CollectDefinitions failed")
	require.NoError(t, python.NewPythonBinder().BindRelationships(fCtx, opts), "BindRelationships failed")
	fCtx.Release()
	return fCtx
}

func findRecord(t *testing.T, fCtx *core.FileContext, name string) *model.ClassRecord {
	rec, ok := fCtx.FindByShortName(name, nil)
	require.True(t, ok, "class %s not collected", name)
	return rec
}

type edge struct {
	Kind    model.RelationKind
	Name    string
	Modules []string
}

func edgesOf(rec *model.ClassRecord) []edge {
	out := make([]edge, 0, len(rec.Relationships))
	for _, rel := range rec.Relationships {
		out = append(out, edge{rel.Kind, rel.TargetName, rel.TargetModulePath})
	}
	return out
}
