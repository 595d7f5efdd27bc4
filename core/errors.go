package core

import (
	"errors"
	"fmt"
)

// ErrorKind 错误分类
type ErrorKind string

const (
	// KindLoad 文件缺失/不可读/无法解码; 对单个文件致命
	KindLoad ErrorKind = "load"
	// KindSyntax 源码无法解析; 对单个文件致命
	KindSyntax ErrorKind = "syntax"
	// KindInvalidNode 组件收到了错误类型的节点; 属于调用契约违例
	KindInvalidNode ErrorKind = "invalid_node"
	// KindUnsupportedExpression 基类/注解表达式形态无法渲染; 仅丢弃该条关系
	KindUnsupportedExpression ErrorKind = "unsupported_expression"
)

// 用于 errors.Is 的哨兵错误
var (
	ErrLoad                  = errors.New("load error")
	ErrSyntax                = errors.New("syntax error")
	ErrInvalidNode           = errors.New("invalid node")
	ErrUnsupportedExpression = errors.New("unsupported expression")
)

var sentinels = map[ErrorKind]error{
	KindLoad:                  ErrLoad,
	KindSyntax:                ErrSyntax,
	KindInvalidNode:           ErrInvalidNode,
	KindUnsupportedExpression: ErrUnsupportedExpression,
}

// AnalysisError 携带文件、类、行号上下文的分析错误
type AnalysisError struct {
	Kind      ErrorKind
	FilePath  string
	ClassName string
	Line      int // 1-based, 0 表示未知
	Detail    string
	Err       error
}

func NewLoadError(filePath string, err error) *AnalysisError {
	return &AnalysisError{Kind: KindLoad, FilePath: filePath, Err: err}
}

func NewSyntaxError(filePath string, line, column int) *AnalysisError {
	return &AnalysisError{Kind: KindSyntax, FilePath: filePath, Line: line, Detail: fmt.Sprintf("column %d", column)}
}

func NewInvalidNodeError(expected, got string, line int) *AnalysisError {
	return &AnalysisError{Kind: KindInvalidNode, Line: line, Detail: fmt.Sprintf("expected %s, got %s", expected, got)}
}

func NewUnsupportedExpressionError(nodeKind string, line int) *AnalysisError {
	return &AnalysisError{Kind: KindUnsupportedExpression, Line: line, Detail: "node kind " + nodeKind}
}

// WithFile 补充文件信息
func (e *AnalysisError) WithFile(path string) *AnalysisError {
	e.FilePath = path
	return e
}

// WithClass 补充类名信息
func (e *AnalysisError) WithClass(name string) *AnalysisError {
	e.ClassName = name
	return e
}

func (e *AnalysisError) Error() string {
	msg := string(e.Kind)
	if e.FilePath != "" {
		msg += " in " + e.FilePath
		if e.Line > 0 {
			msg += fmt.Sprintf(":%d", e.Line)
		}
	} else if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.ClassName != "" {
		msg += " (class " + e.ClassName + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Is 让 errors.Is(err, core.ErrSyntax) 之类的判断按 Kind 生效
func (e *AnalysisError) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// IsRecoverable 单条关系级别的错误可以降级为警告
func (e *AnalysisError) IsRecoverable() bool {
	return e.Kind == KindUnsupportedExpression
}
