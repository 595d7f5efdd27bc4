package parser

import (
	"bytes"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/CodMac/pydiagram-lens/core"
	"golang.org/x/net/html/charset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// PEP 263: 编码声明只能出现在前两行
var codingCookie = regexp.MustCompile(`^[ \t\f]*#.*?coding[:=][ \t]*([-\w.]+)`)

// LoadSource 读取源文件并统一转成 UTF-8
//  1. UTF-8 BOM 直接剥离
//  2. 前两行的 coding 声明优先
//  3. 合法 UTF-8 原样返回
//  4. 否则交给 charset 探测
func LoadSource(filePath string) ([]byte, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, core.NewLoadError(filePath, err)
	}
	source, err := DecodeSource(raw)
	if err != nil {
		return nil, core.NewLoadError(filePath, err)
	}
	return source, nil
}

// DecodeSource 对内存中的源码做与 LoadSource 相同的解码
func DecodeSource(raw []byte) ([]byte, error) {
	if bytes.HasPrefix(raw, utf8BOM) {
		return raw[len(utf8BOM):], nil
	}

	if label := declaredEncoding(raw); label != "" {
		if enc, name := charset.Lookup(label); enc != nil && name != "utf-8" {
			return enc.NewDecoder().Bytes(raw)
		}
	}

	if utf8.Valid(raw) {
		return raw, nil
	}

	enc, _, _ := charset.DetermineEncoding(raw, "text/plain")
	return enc.NewDecoder().Bytes(raw)
}

func declaredEncoding(raw []byte) string {
	lines := bytes.SplitN(raw, []byte("\n"), 3)
	for i := 0; i < len(lines) && i < 2; i++ {
		if m := codingCookie.FindSubmatch(lines[i]); m != nil {
			return normalizeEncodingLabel(string(m[1]))
		}
	}
	return ""
}

// Python 的编码名与 WHATWG 标签不完全一致
func normalizeEncodingLabel(label string) string {
	label = strings.ToLower(strings.ReplaceAll(label, "_", "-"))
	switch label {
	case "latin-1", "iso-latin-1", "l1":
		return "latin1"
	case "utf8", "utf-8-sig":
		return "utf-8"
	}
	return label
}
