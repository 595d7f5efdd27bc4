package python

// --- Python 内置与标准库常见基类 ---
//
// 键为短名称, 值为全限定名; builtins 中的名称无需导入即可使用。

const builtinsModule = "builtins"

var BuiltinTable = map[string]string{
	// === builtins ===
	"object":       "builtins.object",
	"type":         "builtins.type",
	"int":          "builtins.int",
	"float":        "builtins.float",
	"complex":      "builtins.complex",
	"bool":         "builtins.bool",
	"str":          "builtins.str",
	"bytes":        "builtins.bytes",
	"bytearray":    "builtins.bytearray",
	"list":         "builtins.list",
	"tuple":        "builtins.tuple",
	"dict":         "builtins.dict",
	"set":          "builtins.set",
	"frozenset":    "builtins.frozenset",
	"property":     "builtins.property",
	"staticmethod": "builtins.staticmethod",
	"classmethod":  "builtins.classmethod",

	// === builtins 异常 ===
	"BaseException":       "builtins.BaseException",
	"Exception":           "builtins.Exception",
	"ValueError":          "builtins.ValueError",
	"TypeError":           "builtins.TypeError",
	"KeyError":            "builtins.KeyError",
	"IndexError":          "builtins.IndexError",
	"AttributeError":      "builtins.AttributeError",
	"LookupError":         "builtins.LookupError",
	"RuntimeError":        "builtins.RuntimeError",
	"NotImplementedError": "builtins.NotImplementedError",
	"OSError":             "builtins.OSError",
	"IOError":             "builtins.IOError",
	"ArithmeticError":     "builtins.ArithmeticError",
	"Warning":             "builtins.Warning",
	"UserWarning":         "builtins.UserWarning",

	// === typing / abc / enum ===
	"Generic":    "typing.Generic",
	"Protocol":   "typing.Protocol",
	"NamedTuple": "typing.NamedTuple",
	"TypedDict":  "typing.TypedDict",
	"ABC":        "abc.ABC",
	"ABCMeta":    "abc.ABCMeta",
	"Enum":       "enum.Enum",
	"IntEnum":    "enum.IntEnum",
	"StrEnum":    "enum.StrEnum",
	"Flag":       "enum.Flag",
	"IntFlag":    "enum.IntFlag",
}
