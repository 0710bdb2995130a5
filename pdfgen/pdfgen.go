// Package pdfgen 串起标签生成全流程：查模板、排版、渲染、叠加底图。
package pdfgen

import (
	"fmt"
	"log"

	"github.com/mtgtools/labelpress/labels"
	"github.com/mtgtools/labelpress/overlay"
	"github.com/mtgtools/labelpress/renderer"
)

// 下载文件名提示。
const (
	PlainFilename   = "mtg_labels.pdf"
	OverlayFilename = "mtg_labels_with_template.pdf"
)

// Options 生成器依赖。Measurer 与 Renderer 通常是同一个对象，
// 排版用的量宽和绘制用的字体保持一致。
type Options struct {
	Registry *labels.Registry
	Renderer renderer.Renderer
	Measurer labels.Measurer
	Symbols  labels.SymbolResolver

	// OverlayEnabled 开启后才允许叠加模板底图。
	OverlayEnabled bool
	// TemplatePDFs 标签模板名到底图 PDF 路径的映射。
	TemplatePDFs map[string]string

	Logger *log.Logger
}

// Generator 把标签项变成可下载的 PDF。
type Generator struct {
	opts Options
}

// NewGenerator 创建生成器。Registry、Renderer、Measurer 缺一不可。
func NewGenerator(opts Options) (*Generator, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("缺少模板注册表")
	}
	if opts.Renderer == nil {
		return nil, fmt.Errorf("缺少渲染器")
	}
	if opts.Measurer == nil {
		return nil, fmt.Errorf("缺少文本量宽器")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Generator{opts: opts}, nil
}

// Generate 生成 PDF 并返回建议的下载文件名。
// templateName 未注册时回退到默认模板。useBackground 请求叠加底图，
// 功能未开启或该模板没有底图时降级为纯标签页并记日志。
func (g *Generator) Generate(items []labels.Item, templateName string, useBackground bool) ([]byte, string, error) {
	tpl := g.opts.Registry.Lookup(templateName)

	sheet, err := labels.Build(items, tpl, labels.BuildOptions{
		Measurer: g.opts.Measurer,
		Symbols:  g.opts.Symbols,
		Logger:   g.opts.Logger,
	})
	if err != nil {
		return nil, "", fmt.Errorf("排版失败: %w", err)
	}

	data, err := g.opts.Renderer.Render(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("渲染失败: %w", err)
	}
	g.opts.Logger.Printf("生成 %d 个标签，共 %d 页 (%s, %d 字节)", sheet.LabelCount(), len(sheet.Pages), tpl.Name, len(data))

	if !useBackground {
		return data, PlainFilename, nil
	}
	templatePath, ok := g.backgroundFor(tpl.Name)
	if !ok {
		return data, PlainFilename, nil
	}

	merged, err := overlay.Merge(data, templatePath, g.opts.Logger)
	if err != nil {
		return nil, "", fmt.Errorf("叠加模板底图失败: %w", err)
	}
	return merged, OverlayFilename, nil
}

// backgroundFor 查找模板底图路径，不可用时记日志并返回 false。
func (g *Generator) backgroundFor(templateName string) (string, bool) {
	if !g.opts.OverlayEnabled {
		g.opts.Logger.Printf("模板底图功能未开启，返回纯标签页")
		return "", false
	}
	path, ok := g.opts.TemplatePDFs[templateName]
	if !ok || path == "" {
		g.opts.Logger.Printf("模板 %s 没有配置底图，返回纯标签页", templateName)
		return "", false
	}
	return path, true
}
