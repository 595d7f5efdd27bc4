package model

// --- 关系类型 (Relation Kinds) ---

// RelationKind 是表示类间关系的字符串常量
type RelationKind string

const (
	// Inheritance 继承: 来自类定义的基类列表
	// e.g., class Dog(Animal) -> [Source(Dog) -> Target(Animal)]
	Inheritance RelationKind = "Inheritance"

	// Association 关联: 来自类型注解、参数注解与调用
	// e.g., def feed(self, food: Food) -> [Source(Owner) -> Target(Food)]
	Association RelationKind = "Association"
)

// RelationshipInfo 描述一个类指向另一个类的关系。创建后不可修改。
type RelationshipInfo struct {
	// Kind: 关系类型 (Inheritance / Association)
	Kind RelationKind `json:"relation_kind" yaml:"relation_kind"`

	// TargetName: 目标类的短名称
	TargetName string `json:"target_name" yaml:"target_name"`

	// TargetModulePath: 目标所在模块路径, 尽力而为, 可能只是部分路径或为空
	TargetModulePath []string `json:"target_module_path" yaml:"target_module_path"`
}

// NewRelationship 创建关系, 模块路径被复制以保证不可变
func NewRelationship(kind RelationKind, targetName string, targetModulePath []string) RelationshipInfo {
	return RelationshipInfo{
		Kind:             kind,
		TargetName:       targetName,
		TargetModulePath: cloneStrings(targetModulePath),
	}
}

func (r RelationshipInfo) Clone() RelationshipInfo {
	return NewRelationship(r.Kind, r.TargetName, r.TargetModulePath)
}

// Same 判断两条关系是否指向同一目标 (用于可选的关联去重)
func (r RelationshipInfo) Same(other RelationshipInfo) bool {
	if r.Kind != other.Kind || r.TargetName != other.TargetName || len(r.TargetModulePath) != len(other.TargetModulePath) {
		return false
	}
	for i := range r.TargetModulePath {
		if r.TargetModulePath[i] != other.TargetModulePath[i] {
			return false
		}
	}
	return true
}
