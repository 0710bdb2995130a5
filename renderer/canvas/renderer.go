package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/mtgtools/labelpress/fonts"
	"github.com/mtgtools/labelpress/labels"
	"github.com/mtgtools/labelpress/renderer"
)

// Renderer 基于 github.com/tdewolff/canvas 绘制标签页面。
// 同时实现 labels.Measurer，保证文本拟合与实际绘制用同一套字体度量。
type Renderer struct {
	logger *log.Logger

	fontMu   sync.Mutex
	families map[labels.Font]*fontEntry

	drawings *DrawingCache
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ labels.Measurer   = (*Renderer)(nil)
)

type fontEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options 配置字体文件与图形缓存。
type Options struct {
	TitleFontPath string // 第一行字体（衬线粗体）
	BodyFontPath  string // 第二行字体（无衬线常规）
	DrawingCache  *DrawingCache
	Logger        *log.Logger
}

// NewRenderer 加载字体并创建渲染器。字体是必需资源，加载失败直接报错。
func NewRenderer(opts Options) (*Renderer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	drawings := opts.DrawingCache
	if drawings == nil {
		drawings = NewDrawingCache(0)
	}
	r := &Renderer{
		logger:   logger,
		families: make(map[labels.Font]*fontEntry),
		drawings: drawings,
	}
	if err := r.loadFont(labels.FontTitle, "EB Garamond", opts.TitleFontPath, canvas.FontBold); err != nil {
		return nil, err
	}
	if err := r.loadFont(labels.FontBody, "Source Sans Pro", opts.BodyFontPath, canvas.FontRegular); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) loadFont(role labels.Font, familyName, path string, style canvas.FontStyle) error {
	data, err := fonts.Load(path)
	if err != nil {
		return err
	}
	family := canvas.NewFontFamily(familyName)
	if err := family.LoadFont(data, 0, style); err != nil {
		return fmt.Errorf("加载字体 %s 失败: %w", path, err)
	}
	r.families[role] = &fontEntry{family: family, style: style}
	return nil
}

// face 创建指定角色与字号（pt）的字体面。
func (r *Renderer) face(role labels.Font, sizePt float64) *canvas.FontFace {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	entry, ok := r.families[role]
	if !ok {
		entry = r.families[labels.FontBody]
	}
	return entry.family.Face(sizePt, canvas.Black, entry.style, canvas.FontNormal)
}

// TextWidth 实现 labels.Measurer，返回文本宽度（pt）。
// canvas 的宽度单位为 mm，这里在边界做一次换算。
func (r *Renderer) TextWidth(text string, font labels.Font, size float64) float64 {
	face := r.face(font, size)
	return face.TextWidth(text) * labels.MmToPt
}

// Render 把布局结果渲染为 PDF 字节。
// 单个符号绘制失败只记警告并跳过，不中断整批标签。
func (r *Renderer) Render(sheet *labels.Sheet) ([]byte, error) {
	if sheet == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(sheet.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	wMm := toMm(sheet.Template.PageWidth)
	hMm := toMm(sheet.Template.PageHeight)

	var buf bytes.Buffer
	writer := pdf.New(&buf, wMm, hMm, nil)
	writer.SetInfo("MTG Set Labels", "", "", "", "labelpress")
	for i, page := range sheet.Pages {
		if i > 0 {
			writer.NewPage(wMm, hMm)
		}
		c := canvas.New(wMm, hMm)
		ctx := canvas.NewContext(c)
		r.drawPage(ctx, c, page)
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, c *canvas.Canvas, page labels.Page) {
	for _, label := range page.Labels {
		for _, mark := range label.Texts {
			face := r.face(mark.Font, mark.Size)
			line := canvas.NewTextLine(face, mark.Content, canvas.Left)
			ctx.DrawText(toMm(mark.X), toMm(mark.Y), line)
		}
		if label.Symbol != nil {
			if err := r.drawSymbol(ctx, c, *label.Symbol); err != nil {
				r.logger.Printf("符号 %s 绘制失败，跳过: %v", label.Symbol.Path, err)
			}
		}
	}
}

// drawSymbol 按文件类型分派：SVG 走矢量绘制，其余按位图处理。
func (r *Renderer) drawSymbol(ctx *canvas.Context, c *canvas.Canvas, mark labels.SymbolMark) error {
	if strings.HasSuffix(strings.ToLower(mark.Path), ".svg") {
		return r.drawSVGSymbol(c, mark)
	}
	return r.drawRasterSymbol(ctx, mark)
}

// drawSVGSymbol 等比缩放 SVG 并贴齐目标框右上角。
func (r *Renderer) drawSVGSymbol(c *canvas.Canvas, mark labels.SymbolMark) error {
	drawing, err := r.loadDrawing(mark.Path)
	if err != nil {
		return err
	}
	dw, dh := drawing.Size() // mm
	if dw <= 0 || dh <= 0 {
		return fmt.Errorf("SVG 图形尺寸非法: %.2fx%.2f", dw, dh)
	}

	// 固有尺寸优先取 viewBox，取不到时退回解析后的图形边界
	iw, ih, ok := svgViewBox(mark.Path)
	if !ok {
		iw, ih = dw*labels.MmToPt, dh*labels.MmToPt
	}
	if iw <= 0 || ih <= 0 {
		return fmt.Errorf("SVG 固有尺寸非法: %.2fx%.2f", iw, ih)
	}

	scaledW, scaledH := fitSymbol(iw, ih, mark.MaxWidth, mark.MaxHeight)
	x := mark.RightX - scaledW
	y := mark.TopY - scaledH

	view := canvas.Identity.
		Translate(toMm(x), toMm(y)).
		Scale(toMm(scaledW)/dw, toMm(scaledH)/dh)
	drawing.RenderViewTo(c, view)
	return nil
}

// fitSymbol 等比缩放固有尺寸 (iw, ih) 到目标框 (maxW, maxH) 以内。
func fitSymbol(iw, ih, maxW, maxH float64) (w, h float64) {
	scale := min(maxH/ih, maxW/iw)
	return iw * scale, ih * scale
}

// drawRasterSymbol 位图符号等比缩放后贴齐目标框右上角。
func (r *Renderer) drawRasterSymbol(ctx *canvas.Context, mark labels.SymbolMark) error {
	file, err := os.Open(mark.Path)
	if err != nil {
		return fmt.Errorf("打开符号文件失败: %w", err)
	}
	img, _, err := image.Decode(file)
	file.Close()
	if err != nil {
		return fmt.Errorf("解码符号图片失败: %w", err)
	}

	x, y, dpmm, err := rasterPlacement(img.Bounds(), mark)
	if err != nil {
		return err
	}
	ctx.DrawImage(toMm(x), toMm(y), img, canvas.DPMM(dpmm))
	return nil
}

// rasterPlacement 计算位图的绘制原点和分辨率。DrawImage 两轴按同一
// 分辨率缩放，所以缩放系数必须由等比适配后的尺寸推出，否则窄高图
// 会溢出目标框。
func rasterPlacement(bounds image.Rectangle, mark labels.SymbolMark) (x, y, dpmm float64, err error) {
	if mark.MaxWidth <= 0 || mark.MaxHeight <= 0 {
		return 0, 0, 0, fmt.Errorf("符号目标尺寸非法: %.2fx%.2f", mark.MaxWidth, mark.MaxHeight)
	}
	iw, ih := float64(bounds.Dx()), float64(bounds.Dy())
	if iw <= 0 || ih <= 0 {
		return 0, 0, 0, fmt.Errorf("符号图片尺寸非法: %dx%d", bounds.Dx(), bounds.Dy())
	}

	scaledW, scaledH := fitSymbol(iw, ih, mark.MaxWidth, mark.MaxHeight)
	x = mark.RightX - scaledW
	y = mark.TopY - scaledH
	dpmm = iw / toMm(scaledW)
	return x, y, dpmm, nil
}

// loadDrawing 解析 SVG，命中缓存时直接复用。
func (r *Renderer) loadDrawing(path string) (*canvas.Canvas, error) {
	if drawing, ok := r.drawings.Get(path); ok {
		return drawing, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开 SVG 文件失败: %w", err)
	}
	drawing, err := canvas.ParseSVG(file)
	file.Close()
	if err != nil {
		return nil, fmt.Errorf("解析 SVG 失败: %w", err)
	}
	r.drawings.Put(path, drawing)
	return drawing, nil
}

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * labels.PtToMm }
