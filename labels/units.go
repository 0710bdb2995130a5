package labels

// 布局内部统一使用 pt（1 英寸 = 72pt），渲染层再换算为 mm。

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// Inch 把英寸换算为 pt。
func Inch(v float64) float64 { return v * 72 }
