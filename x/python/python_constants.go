package python

// 语法层面的约定名称
const (
	ConstructorName       = "__init__"     // 构造方法, 其中对接收者的赋值计为属性
	StaticMethodDecorator = "staticmethod" // 静态方法没有隐式接收者参数
	ModuleSeparator       = "."
	FutureModule          = "__future__"
)

// tree-sitter-python 节点类型
const (
	nodeModule             = "module"
	nodeClassDefinition    = "class_definition"
	nodeFunctionDefinition = "function_definition"
	nodeDecoratedDef       = "decorated_definition"
	nodeDecorator          = "decorator"
	nodeBlock              = "block"
	nodeExpressionStmt     = "expression_statement"
	nodeAssignment         = "assignment"
	nodeIdentifier         = "identifier"
	nodeAttribute          = "attribute"
	nodeLambda             = "lambda"
	nodeComment            = "comment"
	nodeKeywordArgument    = "keyword_argument"
)

// 类体中可以继续向下查找方法/属性的复合语句与子句
var compoundKinds = map[string]bool{
	"if_statement":        true,
	"for_statement":       true,
	"while_statement":     true,
	"try_statement":       true,
	"with_statement":      true,
	"match_statement":     true,
	"elif_clause":         true,
	"else_clause":         true,
	"except_clause":       true,
	"except_group_clause": true,
	"finally_clause":      true,
	"case_clause":         true,
}
