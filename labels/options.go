package labels

import "log"

// BuildOptions 配置布局阶段所需的依赖，例如文本测量与符号解析。
type BuildOptions struct {
	Measurer Measurer
	Symbols  SymbolResolver // 为空时所有标签都不带符号
	Logger   *log.Logger
}

// SymbolResolver 为标签项提供本地符号文件。
// 找不到符号属于正常情况，用 ok 表达而不是 error。
type SymbolResolver interface {
	Resolve(item Item) (path string, ok bool)
}
