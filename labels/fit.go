package labels

// Measurer 负责按字体与字号测量文本宽度（pt）。
// 布局与渲染必须使用同一个实现，否则拟合结果与实际绘制不一致。
type Measurer interface {
	TextWidth(text string, font Font, size float64) float64
}

// FitText 把文本压缩到 maxWidth（pt）以内：从尾部逐字符去掉，
// 每次连同 "..." 一起测量，发生截断时末尾追加 "..."。
// maxWidth <= 0 时会收敛到只剩省略号。
func FitText(m Measurer, text string, font Font, size, maxWidth float64) string {
	current := []rune(text)
	width := m.TextWidth(text, font, size)
	for width > maxWidth && len(current) > 0 {
		current = current[:len(current)-1]
		width = m.TextWidth(string(current)+"...", font, size)
	}
	if len(current) < len([]rune(text)) {
		return string(current) + "..."
	}
	return text
}
