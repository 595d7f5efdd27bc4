package core

import (
	"path/filepath"
	"strings"
)

// Language 是被分析的源码语言
type Language string

const (
	LangPython Language = "python"
)

var languageExtensions = map[Language][]string{
	LangPython: {".py", ".pyi"},
}

// Extensions 返回语言对应的源文件后缀
func (l Language) Extensions() []string {
	return languageExtensions[l]
}

// Matches 判断文件是否属于该语言
func (l Language) Matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range l.Extensions() {
		if e == ext {
			return true
		}
	}
	return false
}
