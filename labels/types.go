package labels

// 该文件定义布局结果类型，供布局计算与渲染共用。
// 坐标系：pt 为单位，原点在页面左下角，y 轴向上。

// Font 标识标签上使用的字体角色，渲染器映射到具体字体文件。
type Font int

const (
	FontTitle Font = iota // 第一行：系列全名（衬线粗体）
	FontBody              // 第二行：代码与日期（无衬线常规）
)

// Sheet 保存布局后的整套页面。
type Sheet struct {
	Template Template `json:"template"`
	Pages    []Page   `json:"pages"`
}

// LabelCount 返回全部页面上实际排入的标签数，占位项不计。
func (s Sheet) LabelCount() int {
	n := 0
	for _, page := range s.Pages {
		n += len(page.Labels)
	}
	return n
}

// Page 记录一页上已经定位好的标签。
type Page struct {
	Labels []Label `json:"labels"`
}

// Label 表示一个已排好坐标的标签格。
type Label struct {
	Slot int `json:"slot"` // 页内槽位，从 0 起按行优先
	Row  int `json:"row"`
	Col  int `json:"col"`
	// 标签框左下角
	X float64 `json:"x"`
	Y float64 `json:"y"`

	Texts  []TextMark  `json:"texts"`
	Symbol *SymbolMark `json:"symbol,omitempty"`
}

// TextMark 表示一段待绘制文本，Y 为基线位置。
type TextMark struct {
	Content string  `json:"content"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Font    Font    `json:"font"`
	Size    float64 `json:"size"`
}

// SymbolMark 描述符号图形的目标区域。渲染器读取图形固有尺寸后
// 等比缩放，贴齐右上角 (RightX, TopY)。
type SymbolMark struct {
	Path      string  `json:"path"` // 本地符号文件（SVG 或位图）
	RightX    float64 `json:"rightX"`
	TopY      float64 `json:"topY"`
	MaxWidth  float64 `json:"maxWidth"`
	MaxHeight float64 `json:"maxHeight"`
}
