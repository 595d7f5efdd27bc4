package python

import (
	"strings"

	"github.com/CodMac/pydiagram-lens/core"
	"github.com/CodMac/pydiagram-lens/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Collector struct{}

func NewPythonCollector() *Collector {
	return &Collector{}
}

// ==========================================
// 1. 核心生命周期 (Core Workflow)
// ==========================================

func (c *Collector) CollectDefinitions(rootNode *sitter.Node, filePath string, modulePath []string, sourceBytes *[]byte) (*core.FileContext, error) {
	fCtx := core.NewFileContext(filePath, modulePath, rootNode, sourceBytes)

	// 第一步：导入别名表 (整个文件共享, 后写覆盖)
	fCtx.Aliases = CollectAliases(rootNode, *sourceBytes, modulePath)

	// 第二步：前序收集类定义, 逐个提取属性与方法
	for _, node := range CollectClassNodes(rootNode) {
		rec, err := InspectClass(node, *sourceBytes)
		if err != nil {
			if ae, ok := err.(*core.AnalysisError); ok {
				return nil, ae.WithFile(filePath)
			}
			return nil, err
		}
		rec.SetModulePath(modulePath)
		rec.Location = c.location(node, filePath)
		fCtx.AddClass(rec, node)
	}

	return fCtx, nil
}

func (c *Collector) location(node *sitter.Node, filePath string) *model.Location {
	return &model.Location{
		FilePath:    filePath,
		StartLine:   int(node.StartPosition().Row) + 1,
		EndLine:     int(node.EndPosition().Row) + 1,
		StartColumn: int(node.StartPosition().Column),
		EndColumn:   int(node.EndPosition().Column),
	}
}

// ==========================================
// 2. 类定义收集 (Class Nodes)
// ==========================================

// CollectClassNodes 深度优先前序遍历, 外层类先于其嵌套类; 不做任何过滤
func CollectClassNodes(root *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Kind() == nodeClassDefinition {
			out = append(out, n)
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(uint(i)))
		}
	}
	walk(root)
	return out
}

// ==========================================
// 3. 导入别名表 (Import Aliases)
// ==========================================

// CollectAliases 按文档顺序处理全部 import 语句 (包括函数体内的), 后写覆盖先写。
// modulePath 用于解析相对导入。
func CollectAliases(root *sitter.Node, src []byte, modulePath []string) core.AliasTable {
	table := core.AliasTable{}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case "import_statement":
			bindPlainImport(n, src, table)
			return
		case "import_from_statement":
			bindFromImport(n, src, modulePath, table)
			return
		case "future_import_statement":
			bindNames(n, nil, FutureModule, src, table)
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(uint(i)))
		}
	}
	walk(root)
	return table
}

// import a.b       -> a.b => a.b
// import a.b as c  -> c   => a.b
func bindPlainImport(n *sitter.Node, src []byte, table core.AliasTable) {
	for _, child := range namedChildren(n) {
		switch child.Kind() {
		case "dotted_name":
			name := child.Utf8Text(src)
			table[name] = name
		case "aliased_import":
			full := nodeText(child.ChildByFieldName("name"), src)
			table[nodeText(child.ChildByFieldName("alias"), src)] = full
		}
	}
}

// from m import x [as y] -> x|y => m.x
func bindFromImport(n *sitter.Node, src []byte, modulePath []string, table core.AliasTable) {
	moduleNode := n.ChildByFieldName("module_name")
	module := ""
	if moduleNode != nil {
		if moduleNode.Kind() == "relative_import" {
			module = resolveRelativeImport(moduleNode, src, modulePath)
		} else {
			module = moduleNode.Utf8Text(src)
		}
	}
	bindNames(n, moduleNode, module, src, table)
}

func bindNames(n, moduleNode *sitter.Node, module string, src []byte, table core.AliasTable) {
	for _, child := range namedChildrenExcept(n, moduleNode) {
		var name, local string
		switch child.Kind() {
		case "dotted_name":
			name = child.Utf8Text(src)
			local = name
		case "aliased_import":
			name = nodeText(child.ChildByFieldName("name"), src)
			local = nodeText(child.ChildByFieldName("alias"), src)
		default:
			// wildcard_import 不绑定任何名称
			continue
		}
		if module == "" {
			table[local] = name
		} else {
			table[local] = module + ModuleSeparator + name
		}
	}
}

// resolveRelativeImport 以当前模块所在的包为基准解析 "." / ".." 前缀。
// 基准无法确定时退化为点号后的模块名 (可能为空)。
func resolveRelativeImport(node *sitter.Node, src []byte, modulePath []string) string {
	dots := 0
	rest := ""
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "import_prefix":
			dots = strings.Count(child.Utf8Text(src), ".")
		case "dotted_name":
			rest = child.Utf8Text(src)
		}
	}

	pkg := modulePath
	if len(pkg) > 0 {
		pkg = pkg[:len(pkg)-1]
	}
	up := dots - 1
	if dots == 0 || up >= len(pkg) {
		return rest
	}

	parts := append([]string{}, pkg[:len(pkg)-up]...)
	if rest != "" {
		parts = append(parts, rest)
	}
	return strings.Join(parts, ModuleSeparator)
}
