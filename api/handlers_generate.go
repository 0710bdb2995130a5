package api

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mtgtools/labelpress/labels"
	"github.com/mtgtools/labelpress/scryfall"
)

// 视图模式：按系列或按卡牌类别出标签。
const (
	viewModeSets  = "sets"
	viewModeTypes = "types"
)

// generateRequest POST /api/generate-pdf 请求体。
// card_type_ids 形如 "White:Creature"。placeholders 为页首跳过的
// 标签格数，用于接着用印过一部分的标签纸。
type generateRequest struct {
	SetIDs       []string `json:"set_ids"`
	CardTypeIDs  []string `json:"card_type_ids"`
	Template     string   `json:"template"`
	Placeholders int      `json:"placeholders"`
	ViewMode     string   `json:"view_mode"`
	UseTemplate  bool     `json:"use_template"`
}

// HandleGeneratePDF 生成标签 PDF 并以附件返回。
func (h *Handlers) HandleGeneratePDF(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("请求体格式错误", err)
	}
	if req.ViewMode == "" {
		req.ViewMode = viewModeSets
	}

	var selected []labels.Item
	var err error
	switch req.ViewMode {
	case viewModeSets:
		selected, err = h.selectSets(c, req.SetIDs)
	case viewModeTypes:
		selected, err = h.selectCardTypes(req.CardTypeIDs)
	default:
		return NewValidationError("view_mode")
	}
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return NewBadRequestError("没有选中任何标签项", nil)
	}

	items := h.withPlaceholders(selected, req.Template, req.Placeholders)

	data, filename, err := h.generator.Generate(items, req.Template, req.UseTemplate)
	if err != nil {
		return NewInternalError("生成 PDF 失败", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "application/pdf", data)
}

// selectSets 按请求顺序挑出选中的系列，未知 ID 跳过并记日志。
func (h *Handlers) selectSets(c echo.Context, setIDs []string) ([]labels.Item, error) {
	if len(setIDs) == 0 {
		return nil, NewValidationError("set_ids")
	}
	sets, err := h.sets.FetchSets(c.Request().Context())
	if err != nil {
		return nil, NewUpstreamError("拉取系列目录失败", err)
	}

	items := make([]labels.Item, 0, len(setIDs))
	for _, id := range setIDs {
		idx := slices.IndexFunc(sets, func(s scryfall.Set) bool { return s.ID == id })
		if idx < 0 {
			h.logger.Printf("忽略未知系列 ID %s", id)
			continue
		}
		s := sets[idx]
		items = append(items, labels.SetItem{
			ID:         s.ID,
			Name:       s.Name,
			Code:       s.Code,
			ReleasedAt: s.ReleasedAt,
			IconURI:    s.IconSVGURI,
		})
	}
	return items, nil
}

// selectCardTypes 解析 "颜色:类别" 并对照目录校验。
func (h *Handlers) selectCardTypes(typeIDs []string) ([]labels.Item, error) {
	if len(typeIDs) == 0 {
		return nil, NewValidationError("card_type_ids")
	}
	catalog := h.sets.CardTypesByColor()

	items := make([]labels.Item, 0, len(typeIDs))
	for _, id := range typeIDs {
		color, typeName, ok := strings.Cut(id, ":")
		if !ok {
			return nil, NewBadRequestError(fmt.Sprintf("card_type_ids 条目格式错误: %s", id), nil)
		}
		if !slices.Contains(catalog[color], typeName) {
			return nil, NewBadRequestError(fmt.Sprintf("未知的卡牌类别: %s", id), nil)
		}
		items = append(items, labels.TypeItem{Color: color, TypeName: typeName})
	}
	return items, nil
}

// withPlaceholders 在标签项前面插入占位，数量收敛到 [0, 容量-1]。
func (h *Handlers) withPlaceholders(selected []labels.Item, templateName string, count int) []labels.Item {
	capacity := h.registry.Lookup(templateName).Capacity()
	count = max(0, min(count, capacity-1))

	items := make([]labels.Item, 0, count+len(selected))
	for i := 0; i < count; i++ {
		items = append(items, labels.Placeholder{})
	}
	return append(items, selected...)
}
