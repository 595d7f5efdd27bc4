package model

import "strings"

// --- 可见性 (Encapsulation) ---

// Encapsulation 由命名约定推导出的可见性标签，并非语言层面的访问控制
type Encapsulation string

const (
	Public  Encapsulation = "Public"
	Private Encapsulation = "Private"
)

// EncapsulationOf 根据名称推导可见性:
// dunder (__x__) -> Public; 以 "_" 开头 -> Private; 其余 -> Public
func EncapsulationOf(name string) Encapsulation {
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
		return Public
	}
	if strings.HasPrefix(name, "_") {
		return Private
	}
	return Public
}

// Location 描述了类定义在源码中的位置
type Location struct {
	FilePath    string `json:"FilePath"`
	StartLine   int    `json:"StartLine"`
	EndLine     int    `json:"EndLine"`
	StartColumn int    `json:"StartColumn"`
	EndColumn   int    `json:"EndColumn"`
}

// AttributeInfo 类属性
type AttributeInfo struct {
	Name          string        `json:"name" yaml:"name"`
	Encapsulation Encapsulation `json:"encapsulation" yaml:"encapsulation"`
	DataType      *string       `json:"data_type" yaml:"data_type"` // 不做类型推导, 恒为 nil
}

// MethodInfo 类方法 (仅类体直接包含的 def / async def)
type MethodInfo struct {
	Name          string        `json:"name" yaml:"name"`
	Args          []string      `json:"args" yaml:"args"`                 // 参数名, 不含隐式接收者 (self/cls)
	ReturnValue   *string       `json:"return_value" yaml:"return_value"` // 返回值注解原文
	Encapsulation Encapsulation `json:"encapsulation" yaml:"encapsulation"`
}

// ClassRecord 描述一个类（真实定义或外部占位）
type ClassRecord struct {
	ModulePath    []string           `json:"module_path" yaml:"module_path"`
	Name          string             `json:"name" yaml:"name"`
	Relationships []RelationshipInfo `json:"relationships" yaml:"relationships"`
	Attributes    []AttributeInfo    `json:"attributes" yaml:"attributes"`
	Methods       []MethodInfo       `json:"methods" yaml:"methods"`

	IsExternal bool      `json:"-" yaml:"-"` // 合并阶段为未定义的继承目标合成的占位类
	Location   *Location `json:"-" yaml:"-"`
}

// NewClassRecord 创建一个空的类记录, 所有切片均非 nil 以保证序列化为 []
func NewClassRecord(modulePath []string, name string) *ClassRecord {
	return &ClassRecord{
		ModulePath:    cloneStrings(modulePath),
		Name:          name,
		Relationships: []RelationshipInfo{},
		Attributes:    []AttributeInfo{},
		Methods:       []MethodInfo{},
	}
}

// NewPlaceholder 为外部引用的类合成占位记录 (无属性/方法/关系)
func NewPlaceholder(name string, modulePath []string) *ClassRecord {
	rec := NewClassRecord(modulePath, name)
	rec.IsExternal = true
	return rec
}

func (c *ClassRecord) AddAttribute(name string) {
	c.Attributes = append(c.Attributes, AttributeInfo{Name: name, Encapsulation: EncapsulationOf(name)})
}

func (c *ClassRecord) AddMethod(name string, args []string, returnValue *string) {
	if args == nil {
		args = []string{}
	}
	c.Methods = append(c.Methods, MethodInfo{
		Name:          name,
		Args:          args,
		ReturnValue:   returnValue,
		Encapsulation: EncapsulationOf(name),
	})
}

func (c *ClassRecord) AddRelationship(rel RelationshipInfo) {
	c.Relationships = append(c.Relationships, rel)
}

// QualifiedName 返回 "a.b.Name" 形式的全限定名
func (c *ClassRecord) QualifiedName() string {
	return BuildQualifiedName(strings.Join(c.ModulePath, "."), c.Name)
}

// SetModulePath 由聚合器在文件级提取后打上模块路径
func (c *ClassRecord) SetModulePath(modulePath []string) {
	c.ModulePath = cloneStrings(modulePath)
}

// Clone 深拷贝, 供缓存复用
func (c *ClassRecord) Clone() *ClassRecord {
	out := NewClassRecord(c.ModulePath, c.Name)
	out.IsExternal = c.IsExternal
	if c.Location != nil {
		loc := *c.Location
		out.Location = &loc
	}
	for _, rel := range c.Relationships {
		out.Relationships = append(out.Relationships, rel.Clone())
	}
	out.Attributes = append(out.Attributes, c.Attributes...)
	for _, m := range c.Methods {
		m.Args = cloneStrings(m.Args)
		out.Methods = append(out.Methods, m)
	}
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
