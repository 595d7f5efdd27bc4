package python

import (
	"github.com/CodMac/pydiagram-lens/core"
	"github.com/CodMac/pydiagram-lens/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Binder struct {
	resolver core.SymbolResolver
}

func NewPythonBinder() *Binder {
	resolver, err := core.GetSymbolResolver(core.LangPython)
	if err != nil {
		panic(err)
	}
	return &Binder{resolver: resolver}
}

// BindRelationships 为文件内每个类推导继承与关联。
// 单个基类无法渲染时记为警告并跳过, 不影响同一个类的其余关系。
func (b *Binder) BindRelationships(fc *core.FileContext, opts core.BindOptions) error {
	if fc.SourceBytes == nil {
		return nil
	}
	src := *fc.SourceBytes
	renderer := newExprRenderer(src, fc.Aliases)

	for _, entry := range fc.Classes {
		if entry.Node == nil || entry.Node.Kind() != nodeClassDefinition {
			return core.NewInvalidNodeError(nodeClassDefinition, "released node", 0).WithFile(fc.FilePath)
		}
		b.bindInheritance(fc, entry, renderer)
		b.bindAssociations(fc, entry, opts, src)
	}
	return nil
}

// ==========================================
// 1. 继承 (Inheritance)
// ==========================================

func (b *Binder) bindInheritance(fc *core.FileContext, entry *core.ClassEntry, renderer *exprRenderer) {
	rec := entry.Record
	for _, base := range b.baseExpressions(entry.Node) {
		text, err := renderer.render(base)
		if err != nil {
			if ae, ok := err.(*core.AnalysisError); ok {
				err = ae.WithFile(fc.FilePath).WithClass(rec.Name)
			}
			fc.AddWarning(err)
			continue
		}
		// class Foo(Foo) 没有意义, 直接丢弃
		if text == rec.Name {
			continue
		}

		modules, name := b.resolver.SplitQualifiedName(text)
		if local, ok := fc.FindByShortName(name, rec); ok {
			modules = local.ModulePath
		}
		rec.AddRelationship(model.NewRelationship(model.Inheritance, name, modules))
	}
}

// baseExpressions 返回位置参数形式的基类; metaclass= 之类的关键字参数与 *args 不算基类
func (b *Binder) baseExpressions(classNode *sitter.Node) []*sitter.Node {
	args := classNode.ChildByFieldName("superclasses")
	var out []*sitter.Node
	for _, arg := range namedChildren(args) {
		switch arg.Kind() {
		case nodeKeywordArgument, "list_splat", "dictionary_splat":
			continue
		}
		out = append(out, arg)
	}
	return out
}

// ==========================================
// 2. 关联 (Association)
// ==========================================

func (b *Binder) bindAssociations(fc *core.FileContext, entry *core.ClassEntry, opts core.BindOptions, src []byte) {
	rec := entry.Record
	emit := func(chain string) {
		resolved, aliased := fc.Aliases.Lookup(chain)
		modules, name := b.resolver.SplitQualifiedName(resolved)

		if target, ok := fc.FindByShortName(name, rec); ok {
			addAssociation(rec, model.NewRelationship(model.Association, target.Name, target.ModulePath), opts)
			return
		}
		// 经由 import 引入的名称留给全局合并阶段
		if aliased && len(modules) > 0 {
			fc.AddPending(&core.PendingReference{Source: rec, Kind: model.Association, Name: name, Modules: modules})
		}
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Kind() {
		case nodeClassDefinition:
			// 嵌套类有自己的记录
			return
		case nodeDecoratedDef:
			if def := n.ChildByFieldName("definition"); def != nil && def.Kind() == nodeClassDefinition {
				return
			}
		case nodeAssignment, "typed_parameter", "typed_default_parameter":
			typ := n.ChildByFieldName("type")
			collectChains(typ, src, emit)
			for _, child := range namedChildrenExcept(n, typ) {
				walk(child)
			}
			return
		case "call":
			if chain, ok := dottedChain(n.ChildByFieldName("function"), src); ok {
				emit(chain)
			}
		}
		for _, child := range namedChildren(n) {
			walk(child)
		}
	}
	walk(entry.Node.ChildByFieldName("body"))
}

func addAssociation(rec *model.ClassRecord, rel model.RelationshipInfo, opts core.BindOptions) {
	if opts.DedupeAssociations {
		for _, existing := range rec.Relationships {
			if existing.Same(rel) {
				return
			}
		}
	}
	rec.AddRelationship(rel)
}
