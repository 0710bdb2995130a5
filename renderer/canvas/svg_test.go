package canvasrenderer

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/mtgtools/labelpress/labels"
)

func writeTempSVG(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sym.svg")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入测试 SVG 失败: %v", err)
	}
	return path
}

// TestSVGViewBox 从根元素读取 viewBox 宽高。
func TestSVGViewBox(t *testing.T) {
	path := writeTempSVG(t, `<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><path d="M0 0"/></svg>`)
	w, h, ok := svgViewBox(path)
	if !ok || w != 100 || h != 50 {
		t.Fatalf("viewBox 解析不符: %v %v %v", w, h, ok)
	}
}

// TestSVGViewBoxMissing 缺 viewBox 或文件非法时返回 ok=false。
func TestSVGViewBoxMissing(t *testing.T) {
	path := writeTempSVG(t, `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"/>`)
	if _, _, ok := svgViewBox(path); ok {
		t.Fatalf("缺 viewBox 时应返回 ok=false")
	}
	if _, _, ok := svgViewBox(filepath.Join(t.TempDir(), "missing.svg")); ok {
		t.Fatalf("文件不存在时应返回 ok=false")
	}
}

// TestParseViewBox 四元组解析与非法输入。
func TestParseViewBox(t *testing.T) {
	cases := []struct {
		in    string
		w, h  float64
		valid bool
	}{
		{"0 0 24 24", 24, 24, true},
		{"0,0,32,16", 32, 16, true},
		{"0 0 10.5 20.25", 10.5, 20.25, true},
		{"0 0 24", 0, 0, false},
		{"0 0 -5 10", 0, 0, false},
		{"a b c d", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, c := range cases {
		w, h, ok := parseViewBox(c.in)
		if ok != c.valid {
			t.Fatalf("%q 有效性期望 %v，实际 %v", c.in, c.valid, ok)
		}
		if ok && (w != c.w || h != c.h) {
			t.Fatalf("%q 解析结果期望 %vx%v，实际 %vx%v", c.in, c.w, c.h, w, h)
		}
	}
}

// TestFitSymbol 等比缩放不超出目标框且保持纵横比。
func TestFitSymbol(t *testing.T) {
	// 宽图受宽度约束
	w, h := fitSymbol(100, 50, 30, 25)
	if w > 30+1e-9 || h > 25+1e-9 {
		t.Fatalf("缩放结果超出目标框: %vx%v", w, h)
	}
	if ratio := w / h; ratio < 1.999 || ratio > 2.001 {
		t.Fatalf("纵横比未保持: %v", ratio)
	}
	// 高图受高度约束
	w, h = fitSymbol(10, 40, 30, 25)
	if h > 25+1e-9 {
		t.Fatalf("高度超限: %v", h)
	}
	if w >= h {
		t.Fatalf("高图缩放后仍应窄于高: %vx%v", w, h)
	}
	// 正方形贴满较小的一边
	w, h = fitSymbol(16, 16, 30, 25)
	if h != 25 || w != 25 {
		t.Fatalf("正方形应贴满高度: %vx%v", w, h)
	}
}

// TestRasterPlacement 位图两轴共用一个分辨率，竖长图也不得溢出目标框。
func TestRasterPlacement(t *testing.T) {
	mark := labels.SymbolMark{RightX: 100, TopY: 50, MaxWidth: 20, MaxHeight: 20}

	// 竖长图（1:3）按高度约束缩放
	x, y, dpmm, err := rasterPlacement(image.Rect(0, 0, 100, 300), mark)
	if err != nil {
		t.Fatalf("计算位图布局失败: %v", err)
	}
	if dpmm <= 0 {
		t.Fatalf("分辨率非法: %v", dpmm)
	}
	drawnW := 100 / dpmm / labels.PtToMm
	drawnH := 300 / dpmm / labels.PtToMm
	if drawnW > mark.MaxWidth+1e-9 || drawnH > mark.MaxHeight+1e-9 {
		t.Fatalf("绘制尺寸超出目标框: %vx%v", drawnW, drawnH)
	}
	if got := mark.RightX - drawnW; x < got-1e-9 || x > got+1e-9 {
		t.Fatalf("横坐标未贴齐右缘: %v", x)
	}
	if got := mark.TopY - drawnH; y < got-1e-9 || y > got+1e-9 {
		t.Fatalf("纵坐标未贴齐上缘: %v", y)
	}

	// 横长图按宽度约束缩放
	_, _, dpmm, err = rasterPlacement(image.Rect(0, 0, 300, 100), mark)
	if err != nil {
		t.Fatalf("计算位图布局失败: %v", err)
	}
	if drawnH := 100 / dpmm / labels.PtToMm; drawnH > mark.MaxHeight+1e-9 {
		t.Fatalf("横长图高度超限: %v", drawnH)
	}

	// 非法输入
	if _, _, _, err := rasterPlacement(image.Rect(0, 0, 0, 0), mark); err == nil {
		t.Fatalf("零尺寸图片应报错")
	}
	bad := mark
	bad.MaxWidth = 0
	if _, _, _, err := rasterPlacement(image.Rect(0, 0, 10, 10), bad); err == nil {
		t.Fatalf("非法目标框应报错")
	}
}
