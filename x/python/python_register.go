package python

import "github.com/CodMac/pydiagram-lens/core"

func init() {
	// SymbolResolver 必须最先注册, Binder 构造时会查找它
	core.RegisterSymbolResolver(core.LangPython, NewPythonSymbolResolver())
	core.RegisterCollector(core.LangPython, NewPythonCollector())
	core.RegisterBinder(core.LangPython, NewPythonBinder())
	core.RegisterLinker(core.LangPython, NewPythonLinker())
	core.RegisterNoiseFilter(core.LangPython, func(level core.FilterLevel) core.NoiseFilter {
		return NewPythonNoiseFilter(level)
	})
}
