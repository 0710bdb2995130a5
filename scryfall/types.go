package scryfall

// Set 上游系列对象中本服务关心的字段。
type Set struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	SetType    string `json:"set_type"`
	ReleasedAt string `json:"released_at"`
	CardCount  int    `json:"card_count"`
	Digital    bool   `json:"digital"`
	IconSVGURI string `json:"icon_svg_uri"`
}

// setList /sets 响应体，分页时带 next_page。
type setList struct {
	Data     []Set  `json:"data"`
	HasMore  bool   `json:"has_more"`
	NextPage string `json:"next_page"`
}

// cardSymbol /symbology 响应中的单个符号，svg_uri 可能为 null。
type cardSymbol struct {
	Object string `json:"object"`
	Symbol string `json:"symbol"`
	SVGURI string `json:"svg_uri"`
}

type symbolList struct {
	Data []cardSymbol `json:"data"`
}
