package labels

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// 标签排版常量，单位 pt。
const (
	FontSizeRow1 = 11 // 第一行字号
	FontSizeRow2 = 10 // 第二行字号

	// SetSymbolMaxWidth 常规标签上符号的最大宽度。
	SetSymbolMaxWidth = 30

	// narrowLabelWidth 窄于该宽度的标签启用收缩符号区。
	narrowLabelWidth = 60
)

// textBlockHeight 两行文本加行距的总高度。
const textBlockHeight = FontSizeRow1 + FontSizeRow2 + 4

// symbolAreaWidth 文本区计算异常时用于兜底的符号区宽度。
const symbolAreaWidth = textBlockHeight + 10

// Build 把标签项排入页面。分页状态机：槽位写满一页立即翻页，
// 占位项照常占槽但不产生绘制内容。空输入也会得到一页空白页。
func Build(items []Item, tpl Template, opts BuildOptions) (*Sheet, error) {
	if opts.Measurer == nil {
		return nil, fmt.Errorf("measurer 不能为空")
	}
	if tpl.Capacity() <= 0 {
		return nil, fmt.Errorf("模板 %s 容量非法", tpl.Name)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	sheet := &Sheet{Template: tpl, Pages: []Page{{}}}
	capacity := tpl.Capacity()
	slot := 0
	for _, item := range items {
		// 先翻页再绘制，保证任何标签都不会画到已满的页上
		if slot == capacity {
			sheet.Pages = append(sheet.Pages, Page{})
			slot = 0
		}
		if _, blank := item.(Placeholder); !blank {
			page := &sheet.Pages[len(sheet.Pages)-1]
			page.Labels = append(page.Labels, buildLabel(item, slot, tpl, opts.Measurer, opts.Symbols, logger))
		}
		slot++
	}
	return sheet, nil
}

// buildLabel 计算单个标签的文本与符号位置。
func buildLabel(item Item, slot int, tpl Template, m Measurer, symbols SymbolResolver, logger *log.Logger) Label {
	row := slot / tpl.Columns
	col := slot % tpl.Columns

	labelX := tpl.LeftMargin + float64(col)*(tpl.LabelWidth+tpl.HorizontalGap)
	labelTop := tpl.PageHeight - tpl.TopMargin - float64(row)*(tpl.LabelHeight+tpl.VerticalGap)
	labelY := labelTop - tpl.LabelHeight

	textX := labelX + tpl.MarginX
	textY := labelTop - tpl.MarginY // 第一行基线

	// 窄标签收缩符号区，避免把文本挤没
	effWidth := float64(SetSymbolMaxWidth)
	padding := 5.0
	if tpl.LabelWidth < narrowLabelWidth {
		effWidth = min(SetSymbolMaxWidth, tpl.LabelWidth*0.4)
		padding = 3
	}

	symbolAreaStart := labelX + tpl.LabelWidth - tpl.MarginX - effWidth - padding
	maxTextWidth := symbolAreaStart - textX
	if maxTextWidth <= 0 {
		logger.Printf("模板 %s 文本区宽度计算异常 (%.1f)，使用兜底值", tpl.Name, maxTextWidth)
		maxTextWidth = max(10, tpl.LabelWidth-symbolAreaWidth-20)
	}

	label := Label{Slot: slot, Row: row, Col: col, X: labelX, Y: labelY}

	var line1, line2 string
	switch it := item.(type) {
	case SetItem:
		line1 = FitText(m, Abbreviate(it.Name), FontTitle, FontSizeRow1, maxTextWidth)
		line2 = FitText(m, formatRelease(it.Code, it.ReleasedAt), FontBody, FontSizeRow2, maxTextWidth)
	case TypeItem:
		line1 = FitText(m, it.TypeName, FontTitle, FontSizeRow1, maxTextWidth)
		if it.Color != "" {
			line2 = FitText(m, it.Color, FontBody, FontSizeRow2, maxTextWidth)
		}
	default:
		return label
	}

	label.Texts = append(label.Texts, TextMark{
		Content: line1, X: textX, Y: textY,
		Font: FontTitle, Size: FontSizeRow1,
	})
	if line2 != "" {
		label.Texts = append(label.Texts, TextMark{
			Content: line2, X: textX, Y: textY - FontSizeRow1 - 4,
			Font: FontBody, Size: FontSizeRow2,
		})
	}

	if symbols != nil {
		if path, ok := symbols.Resolve(item); ok {
			label.Symbol = &SymbolMark{
				Path:      path,
				RightX:    labelX + tpl.LabelWidth - tpl.MarginX,
				TopY:      textY + FontSizeRow1, // 与第一行文本顶部对齐
				MaxWidth:  effWidth,
				MaxHeight: textBlockHeight,
			}
		}
	}
	return label
}

// formatRelease 组合第二行文本：大写代码加 "Month Year" 日期。
// 日期解析失败时保留原始字符串。
func formatRelease(code, releasedAt string) string {
	formatted := ""
	if releasedAt != "" {
		if t, err := time.Parse("2006-01-02", releasedAt); err == nil {
			formatted = t.Format("January 2006")
		} else {
			formatted = releasedAt
		}
	}
	return fmt.Sprintf("%s - %s", strings.ToUpper(code), formatted)
}
