package processor

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/CodMac/pydiagram-lens/core"
	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes 虚拟环境、缓存与版本库目录默认不参与扫描
var DefaultExcludes = []string{
	"**/__pycache__/**",
	"**/.git/**",
	"**/.venv/**",
	"**/venv/**",
	"**/.tox/**",
	"**/node_modules/**",
}

// Scanner 按 doublestar 模式列出待分析文件, 结果为词法序, 保证多次运行顺序一致
type Scanner struct {
	includes []string
	excludes []string
}

// NewScanner includes 为空时按语言后缀匹配全部文件
func NewScanner(lang core.Language, includes, excludes []string) *Scanner {
	if len(includes) == 0 {
		for _, ext := range lang.Extensions() {
			includes = append(includes, "**/*"+ext)
		}
	}
	return &Scanner{
		includes: append([]string(nil), includes...),
		excludes: append([]string(nil), excludes...),
	}
}

// AddGitignore 把 .gitignore 中的模式并入排除列表; 文件不存在时忽略。
// 取反模式 (!pattern) 不支持, 直接跳过。
func (s *Scanner) AddGitignore(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		s.excludes = append(s.excludes, gitignorePatterns(strings.Fields(line)[0])...)
	}
	return sc.Err()
}

// gitignorePatterns 把一条 gitignore 规则翻译为 doublestar 模式:
// 以 "/" 开头的规则锚定在根目录, 其余规则可出现在任意层级; 同时匹配目录本身下的全部内容
func gitignorePatterns(rule string) []string {
	rule = strings.TrimSuffix(rule, "/")
	if rule == "" {
		return nil
	}
	if strings.HasPrefix(rule, "/") {
		rule = strings.TrimPrefix(rule, "/")
	} else if !strings.HasPrefix(rule, "**/") {
		rule = "**/" + rule
	}
	return []string{rule, rule + "/**"}
}

func (s *Scanner) Scan(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && (s.excluded(rel) || s.excluded(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.included(rel) && !s.excluded(rel) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func (s *Scanner) included(rel string) bool {
	return matchAny(s.includes, rel)
}

func (s *Scanner) excluded(rel string) bool {
	return matchAny(s.excludes, rel)
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}
