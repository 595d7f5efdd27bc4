package python

import (
	"github.com/CodMac/pydiagram-lens/core"
	"github.com/CodMac/pydiagram-lens/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// InspectClass 提取单个类定义的方法与属性, 不产生关系。
// 传入的节点不是 class_definition 时返回 InvalidNodeError。
func InspectClass(node *sitter.Node, src []byte) (*model.ClassRecord, error) {
	if node == nil {
		return nil, core.NewInvalidNodeError(nodeClassDefinition, "nil", 0)
	}
	if node.Kind() != nodeClassDefinition {
		return nil, core.NewInvalidNodeError(nodeClassDefinition, node.Kind(), int(node.StartPosition().Row)+1)
	}

	ins := &inspector{
		src:    src,
		record: model.NewClassRecord(nil, nodeText(node.ChildByFieldName("name"), src)),
	}
	ins.visitClassBody(node.ChildByFieldName("body"))
	return ins.record, nil
}

type inspector struct {
	src    []byte
	record *model.ClassRecord
}

// =============================================================================
// 类体 (Class Body)
// =============================================================================

// visitClassBody 只看类体直接包含的语句; 顶层 if/try/with 等复合语句的分支仍属于类体
func (ins *inspector) visitClassBody(block *sitter.Node) {
	for _, stmt := range namedChildren(block) {
		switch kind := stmt.Kind(); {
		case kind == nodeFunctionDefinition:
			ins.addMethod(stmt, nil)
		case kind == nodeDecoratedDef:
			if def := stmt.ChildByFieldName("definition"); def != nil && def.Kind() == nodeFunctionDefinition {
				ins.addMethod(def, stmt)
			}
		case kind == nodeExpressionStmt:
			ins.collectAssignments(stmt, func(target *sitter.Node) {
				ins.visitTarget(target, "")
			})
		case kind == nodeBlock, compoundKinds[kind]:
			ins.visitCompound(stmt)
		}
	}
}

func (ins *inspector) visitCompound(node *sitter.Node) {
	if node.Kind() == nodeBlock {
		ins.visitClassBody(node)
		return
	}
	for _, child := range namedChildren(node) {
		if child.Kind() == nodeBlock || compoundKinds[child.Kind()] {
			ins.visitCompound(child)
		}
	}
}

// =============================================================================
// 方法 (Methods)
// =============================================================================

func (ins *inspector) addMethod(fn, decorated *sitter.Node) {
	name := nodeText(fn.ChildByFieldName("name"), ins.src)
	static := hasDecorator(decorated, StaticMethodDecorator, ins.src)
	args, receiver := parameterNames(fn.ChildByFieldName("parameters"), !static, ins.src)

	var returnValue *string
	if rt := fn.ChildByFieldName("return_type"); rt != nil {
		s := rt.Utf8Text(ins.src)
		returnValue = &s
	}
	ins.record.AddMethod(name, args, returnValue)

	if name == ConstructorName && receiver != "" {
		ins.collectAssignments(fn.ChildByFieldName("body"), func(target *sitter.Node) {
			ins.visitTarget(target, receiver)
		})
	}
}

// hasDecorator 判断 decorated_definition 上是否有名为 name 的装饰器 (@name 或 @x.name)
func hasDecorator(decorated *sitter.Node, name string, src []byte) bool {
	if decorated == nil {
		return false
	}
	for _, child := range namedChildren(decorated) {
		if child.Kind() != nodeDecorator {
			continue
		}
		expr := firstNamedChild(child)
		chain, ok := dottedChain(expr, src)
		if !ok {
			continue
		}
		if chain == name || len(chain) > len(name) && chain[len(chain)-len(name)-1:] == ModuleSeparator+name {
			return true
		}
	}
	return false
}

// parameterNames 按声明顺序返回具名参数 (不含 *args / **kwargs / 分隔符)。
// dropReceiver 为 true 时去掉第一个位置参数并作为接收者名返回。
func parameterNames(params *sitter.Node, dropReceiver bool, src []byte) ([]string, string) {
	args := []string{}
	receiver := ""
	for _, p := range namedChildren(params) {
		name, named := parameterName(p, src)
		if !named {
			// 以 * / ** 开头的参数列表没有隐式接收者
			dropReceiver = false
			continue
		}
		if dropReceiver {
			dropReceiver = false
			receiver = name
			continue
		}
		args = append(args, name)
	}
	return args, receiver
}

func parameterName(p *sitter.Node, src []byte) (string, bool) {
	switch p.Kind() {
	case nodeIdentifier:
		return p.Utf8Text(src), true
	case "typed_parameter":
		if first := firstNamedChild(p); first != nil && first.Kind() == nodeIdentifier {
			return first.Utf8Text(src), true
		}
	case "default_parameter", "typed_default_parameter":
		if name := p.ChildByFieldName("name"); name != nil && name.Kind() == nodeIdentifier {
			return name.Utf8Text(src), true
		}
	}
	return "", false
}

// =============================================================================
// 属性 (Attributes)
// =============================================================================

// collectAssignments 找出子树中的全部赋值 (含链式赋值), 不进入嵌套函数、类与 lambda
func (ins *inspector) collectAssignments(node *sitter.Node, visit func(target *sitter.Node)) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case nodeFunctionDefinition, nodeClassDefinition, nodeDecoratedDef, nodeLambda:
		return
	case nodeAssignment:
		visit(node.ChildByFieldName("left"))
	}
	for _, child := range namedChildren(node) {
		ins.collectAssignments(child, visit)
	}
}

// visitTarget 按赋值目标形态记录属性。
// receiver 为空表示类体作用域: 记录普通名称与 obj.attr;
// 否则为构造方法作用域: 只记录 receiver.attr。
func (ins *inspector) visitTarget(target *sitter.Node, receiver string) {
	if target == nil {
		return
	}
	switch target.Kind() {
	case nodeIdentifier:
		if receiver == "" {
			ins.record.AddAttribute(target.Utf8Text(ins.src))
		}
	case nodeAttribute:
		obj := target.ChildByFieldName("object")
		if obj == nil || obj.Kind() != nodeIdentifier {
			return
		}
		if receiver == "" || obj.Utf8Text(ins.src) == receiver {
			ins.record.AddAttribute(nodeText(target.ChildByFieldName("attribute"), ins.src))
		}
	case "pattern_list", "tuple_pattern", "list_pattern", "tuple", "list", "parenthesized_expression",
		"list_splat_pattern", "list_splat":
		for _, child := range namedChildren(target) {
			ins.visitTarget(child, receiver)
		}
	}
}
