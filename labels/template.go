package labels

import (
	"fmt"
	"log"
	"sort"
)

// Template 描述一种标签纸的几何参数，全部以 pt 为单位。
type Template struct {
	Name        string  `json:"name"`
	PageWidth   float64 `json:"pageWidth"`
	PageHeight  float64 `json:"pageHeight"`
	Columns     int     `json:"columns"`
	Rows        int     `json:"rows"`
	LabelWidth  float64 `json:"labelWidth"`
	LabelHeight float64 `json:"labelHeight"`
	// 标签内部留白
	MarginX float64 `json:"marginX"`
	MarginY float64 `json:"marginY"`
	// 页面边距与标签间距
	LeftMargin    float64 `json:"leftMargin"`
	TopMargin     float64 `json:"topMargin"`
	HorizontalGap float64 `json:"horizontalGap"`
	VerticalGap   float64 `json:"verticalGap"`
}

// Capacity 返回单页可容纳的标签数。
func (t Template) Capacity() int { return t.Columns * t.Rows }

// DefaultTemplate 是未指定或未知模板名时的回退选择。
const DefaultTemplate = "avery5160"

// builtinTemplates 内置的标签纸型号。
func builtinTemplates() []Template {
	return []Template{
		{
			Name:       "avery5160",
			PageWidth:  612, PageHeight: 792, // US Letter
			Columns: 3, Rows: 10,
			LabelWidth: 189, LabelHeight: 72,
			MarginX: Inch(0.1), MarginY: 1,
			LeftMargin: 13.5, TopMargin: 54,
			HorizontalGap: 9, VerticalGap: 0,
		},
		{
			Name:       "avery64x30-r",
			PageWidth:  595.2, PageHeight: 841.8, // A4
			Columns: 3, Rows: 9,
			LabelWidth: 181.417, LabelHeight: 85.039, // 64mm x 30mm
			MarginX: Inch(0.1), MarginY: Inch(0.1),
			LeftMargin: 20.551, TopMargin: 45.869,
			HorizontalGap: 7.087, VerticalGap: 0,
		},
		{
			Name:       "averyl7160",
			PageWidth:  595.2, PageHeight: 841.8,
			Columns: 3, Rows: 7,
			LabelWidth: 180, LabelHeight: 108.75, // 63.5mm x 38.1mm
			MarginX: Inch(0.1), MarginY: Inch(0.1),
			LeftMargin: 20.551, TopMargin: 52,
			HorizontalGap: 7.087, VerticalGap: 0,
		},
		{
			Name:       "averyl7157",
			PageWidth:  595.2, PageHeight: 841.8,
			Columns: 3, Rows: 11,
			LabelWidth: 181.417, LabelHeight: 69.75, // 64mm x 24.3mm
			MarginX: Inch(0.1), MarginY: Inch(0.1),
			LeftMargin: 20.551, TopMargin: 47.5,
			HorizontalGap: 7.087, VerticalGap: 0,
		},
		{
			Name:       "averyj8158",
			PageWidth:  595.2, PageHeight: 841.8,
			Columns: 3, Rows: 10,
			LabelWidth: 181.417, LabelHeight: 76.5, // 64mm x 26.7mm
			MarginX: Inch(0.1), MarginY: Inch(0.1),
			LeftMargin: 20.551, TopMargin: 47.5,
			HorizontalGap: 7.087, VerticalGap: 0,
		},
		{
			Name:       "avery94208",
			PageWidth:  612, PageHeight: 792,
			Columns: 4, Rows: 15,
			LabelWidth: 126, LabelHeight: 48,
			MarginX: Inch(0.08), MarginY: Inch(0.1), // 窄标签收紧左右留白
			LeftMargin: 21.6, TopMargin: 46,
			HorizontalGap: 21.6, VerticalGap: 0,
		},
	}
}

// Registry 保存模板集合，构造完成后只读。
// 查找未知模板名时回退到默认模板并记录警告，而不是报错。
type Registry struct {
	templates   map[string]Template
	defaultName string
	logger      *log.Logger
}

// NewRegistry 创建带内置模板的注册表。logger 为空时使用 log.Default()。
func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	r := &Registry{
		templates:   make(map[string]Template),
		defaultName: DefaultTemplate,
		logger:      logger,
	}
	for _, t := range builtinTemplates() {
		if err := r.register(t); err != nil {
			// 内置模板参数是静态常量，不应失败
			logger.Printf("注册内置模板 %s 失败: %v", t.Name, err)
		}
	}
	return r
}

// register 校验几何参数并登记模板。
func (r *Registry) register(t Template) error {
	if t.Name == "" {
		return fmt.Errorf("模板名不能为空")
	}
	if t.Columns <= 0 || t.Rows <= 0 {
		return fmt.Errorf("模板 %s 网格参数非法: %dx%d", t.Name, t.Columns, t.Rows)
	}
	if t.LabelWidth <= 0 || t.LabelHeight <= 0 || t.PageWidth <= 0 || t.PageHeight <= 0 {
		return fmt.Errorf("模板 %s 尺寸参数非法", t.Name)
	}
	gridW := t.LeftMargin + float64(t.Columns)*t.LabelWidth + float64(t.Columns-1)*t.HorizontalGap
	gridH := t.TopMargin + float64(t.Rows)*t.LabelHeight + float64(t.Rows-1)*t.VerticalGap
	if gridW > t.PageWidth+0.5 || gridH > t.PageHeight+0.5 {
		return fmt.Errorf("模板 %s 网格超出页面: %.1fx%.1f > %.1fx%.1f", t.Name, gridW, gridH, t.PageWidth, t.PageHeight)
	}
	r.templates[t.Name] = t
	return nil
}

// Lookup 按名称查找模板；未知名称回退默认模板并记录警告。
func (r *Registry) Lookup(name string) Template {
	if t, ok := r.templates[name]; ok {
		return t
	}
	if name != "" {
		r.logger.Printf("未知模板 %q，回退到 %s", name, r.defaultName)
	}
	return r.templates[r.defaultName]
}

// SetDefault 切换默认模板。空名保持现状，未知名称记录警告并
// 保持原默认，保证注册表始终有可用的回退模板。
func (r *Registry) SetDefault(name string) {
	if name == "" {
		return
	}
	if _, ok := r.templates[name]; !ok {
		r.logger.Printf("配置的默认模板 %q 不存在，沿用 %s", name, r.defaultName)
		return
	}
	r.defaultName = name
}

// Default 返回默认模板。
func (r *Registry) Default() Template { return r.templates[r.defaultName] }

// Names 返回全部模板名，按字典序。
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
