package api

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mtgtools/labelpress/labels"
	"github.com/mtgtools/labelpress/scryfall"
)

// Handlers 全部接口处理器。
type Handlers struct {
	sets      SetSource
	generator Generator
	registry  *labels.Registry
	stats     StatsSource
	version   string
	logger    *log.Logger
}

// Dependencies 处理器依赖。
type Dependencies struct {
	Sets      SetSource
	Generator Generator
	Registry  *labels.Registry
	Stats     StatsSource
	Version   string
	Logger    *log.Logger
}

// NewHandlers 创建处理器集合。
func NewHandlers(deps Dependencies) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Handlers{
		sets:      deps.Sets,
		generator: deps.Generator,
		registry:  deps.Registry,
		stats:     deps.Stats,
		version:   deps.Version,
		logger:    logger,
	}
}

// HandleHealth 健康检查。
func (h *Handlers) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"version": h.version,
	})
}

// setsResponse /api/sets 响应体，按系列类型分组。
type setsResponse struct {
	Groups map[string][]scryfall.Set `json:"groups"`
	Total  int                       `json:"total"`
}

// HandleSets 返回过滤后的系列目录，按类型分组。
func (h *Handlers) HandleSets(c echo.Context) error {
	sets, err := h.sets.FetchSets(c.Request().Context())
	if err != nil {
		return NewUpstreamError("拉取系列目录失败", err)
	}
	filtered := h.sets.FilterSets(sets)
	return c.JSON(http.StatusOK, setsResponse{
		Groups: scryfall.GroupSets(filtered),
		Total:  len(filtered),
	})
}

// HandleCardTypes 返回类别视图目录：颜色到卡牌类别。
func (h *Handlers) HandleCardTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"card_types": h.sets.CardTypesByColor(),
	})
}

// templateInfo /api/templates 中单个模板的描述。
type templateInfo struct {
	Name     string  `json:"name"`
	Columns  int     `json:"columns"`
	Rows     int     `json:"rows"`
	Capacity int     `json:"capacity"`
	PageW    float64 `json:"page_width"`
	PageH    float64 `json:"page_height"`
	Default  bool    `json:"default"`
}

// HandleTemplates 返回已注册的标签模板。
func (h *Handlers) HandleTemplates(c echo.Context) error {
	names := h.registry.Names()
	infos := make([]templateInfo, 0, len(names))
	for _, name := range names {
		tpl := h.registry.Lookup(name)
		infos = append(infos, templateInfo{
			Name:     tpl.Name,
			Columns:  tpl.Columns,
			Rows:     tpl.Rows,
			Capacity: tpl.Capacity(),
			PageW:    tpl.PageWidth,
			PageH:    tpl.PageHeight,
			Default:  tpl.Name == h.registry.Default().Name,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"templates": infos})
}

// HandleCacheStats 返回内存缓存统计。
func (h *Handlers) HandleCacheStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.stats.Stats())
}
