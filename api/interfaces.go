package api

import (
	"context"

	"github.com/mtgtools/labelpress/cache"
	"github.com/mtgtools/labelpress/labels"
	"github.com/mtgtools/labelpress/scryfall"
)

// SetSource 系列目录数据源。
type SetSource interface {
	FetchSets(ctx context.Context) ([]scryfall.Set, error)
	FilterSets(sets []scryfall.Set) []scryfall.Set
	CardTypesByColor() map[string][]string
}

// Generator 标签 PDF 生成入口。
type Generator interface {
	Generate(items []labels.Item, templateName string, useBackground bool) (data []byte, filename string, err error)
}

// StatsSource 缓存统计数据源。
type StatsSource interface {
	Stats() cache.Stats
}
