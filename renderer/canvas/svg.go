package canvasrenderer

import (
	"encoding/xml"
	"io"
	"os"
	"strconv"
	"strings"
)

// svgViewBox 读取 SVG 根元素的 viewBox，返回固有宽高。
// 取不到（文件坏、缺属性、数值非法）时 ok 为 false，由调用方回退。
func svgViewBox(path string) (w, h float64, ok bool) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, false
	}
	defer file.Close()

	dec := xml.NewDecoder(file)
	for {
		tok, err := dec.Token()
		if err == io.EOF || err != nil {
			return 0, 0, false
		}
		start, isStart := tok.(xml.StartElement)
		if !isStart {
			continue
		}
		if start.Name.Local != "svg" {
			return 0, 0, false
		}
		for _, attr := range start.Attr {
			if attr.Name.Local != "viewBox" {
				continue
			}
			return parseViewBox(attr.Value)
		}
		return 0, 0, false
	}
}

// parseViewBox 解析 "minX minY width height" 四元组，逗号分隔也接受。
func parseViewBox(value string) (w, h float64, ok bool) {
	parts := strings.Fields(strings.ReplaceAll(value, ",", " "))
	if len(parts) != 4 {
		return 0, 0, false
	}
	w, errW := strconv.ParseFloat(parts[2], 64)
	h, errH := strconv.ParseFloat(parts[3], 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}
