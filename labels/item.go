package labels

// Item 是标签内容的和类型：系列、卡牌类别或占位空格。
// 布局引擎通过类型分派决定每个标签画什么。
type Item interface {
	labelItem()
}

// SetItem 对应一个 MTG 系列：名称、代码、发售日期与图标地址。
type SetItem struct {
	ID         string // Scryfall 系列 ID，用作图标缓存键
	Name       string
	Code       string
	ReleasedAt string // "2006-01-02" 形式，允许为空或非法
	IconURI    string // 系列图标 SVG 地址
}

// TypeItem 对应一个卡牌类别标签，按颜色配法术力符号。
type TypeItem struct {
	Color    string // White/Blue/Black/Red/Green/Multicolor/Colorless，可为空
	TypeName string
}

// Placeholder 占用一个标签槽位但不产生任何绘制内容。
type Placeholder struct{}

func (SetItem) labelItem()     {}
func (TypeItem) labelItem()    {}
func (Placeholder) labelItem() {}
