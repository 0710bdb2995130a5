package scryfall

import (
	"context"
	"log"
	"strings"

	"github.com/mtgtools/labelpress/cache"
	"github.com/mtgtools/labelpress/labels"
)

// colorSymbols 颜色到法术力符号的映射，多色用鹏洛客符号。
var colorSymbols = map[string]string{
	"White":      "{W}",
	"Blue":       "{U}",
	"Black":      "{B}",
	"Red":        "{R}",
	"Green":      "{G}",
	"Multicolor": "{PW}",
	"Colorless":  "{C}",
}

// Resolver 为标签项解析本地符号文件：优先读磁盘缓存，
// 未命中时从上游下载并落盘。任何失败都按"无符号"处理，
// 标签照常出文本。
type Resolver struct {
	client *Client
	store  *cache.SymbolStore
	logger *log.Logger
}

var _ labels.SymbolResolver = (*Resolver)(nil)

// NewResolver 创建符号解析器。
func NewResolver(client *Client, store *cache.SymbolStore, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{client: client, store: store, logger: logger}
}

// Resolve 实现 labels.SymbolResolver。
func (r *Resolver) Resolve(item labels.Item) (string, bool) {
	switch it := item.(type) {
	case labels.SetItem:
		return r.setIcon(it)
	case labels.TypeItem:
		return r.manaSymbol(it.Color)
	default:
		return "", false
	}
}

// setIcon 按系列 ID 缓存系列图标。
func (r *Resolver) setIcon(item labels.SetItem) (string, bool) {
	if item.ID == "" {
		return "", false
	}
	if path, ok := r.store.Get(item.ID); ok {
		return path, true
	}
	if item.IconURI == "" {
		return "", false
	}
	data, err := r.client.Download(context.Background(), item.IconURI)
	if err != nil {
		r.logger.Printf("下载系列 %s 图标失败: %v", item.Code, err)
		return "", false
	}
	path, err := r.store.Save(item.ID, data)
	if err != nil {
		r.logger.Printf("缓存系列 %s 图标失败: %v", item.Code, err)
		return "", false
	}
	return path, true
}

// manaSymbol 按颜色解析法术力符号，经符号表查到 SVG 地址再下载。
// 缓存键带符号代码，符号映射调整时旧缓存自动失效。
func (r *Resolver) manaSymbol(color string) (string, bool) {
	code, ok := colorSymbols[color]
	if !ok {
		return "", false
	}
	id := "mana_" + strings.ToLower(color) + "_" + strings.Trim(code, "{}")
	if path, ok := r.store.Get(id); ok {
		return path, true
	}

	symbols, err := r.client.Symbology(context.Background())
	if err != nil {
		r.logger.Printf("拉取符号表失败: %v", err)
		return "", false
	}
	uri := symbols[code]
	if uri == "" {
		r.logger.Printf("符号 %s 没有可用的 SVG 地址", code)
		return "", false
	}
	data, err := r.client.Download(context.Background(), uri)
	if err != nil {
		r.logger.Printf("下载符号 %s 失败: %v", code, err)
		return "", false
	}
	path, err := r.store.Save(id, data)
	if err != nil {
		r.logger.Printf("缓存符号 %s 失败: %v", code, err)
		return "", false
	}
	return path, true
}
