package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mtgtools/labelpress/cache"
)

// 上游推荐请求间隔 50-100ms（约 10 次/秒）。
const (
	DefaultBaseURL        = "https://api.scryfall.com/sets"
	DefaultSymbologyURL   = "https://api.scryfall.com/symbology"
	DefaultTimeout        = 30 * time.Second
	DefaultRetryAttempts  = 3
	DefaultRateLimitDelay = 75 * time.Millisecond
	DefaultMinSetSize     = 10

	userAgent = "MTG-Label-Generator/1.0"
)

const (
	setsCacheKey      = "scryfall_sets"
	symbologyCacheKey = "scryfall_symbology"
)

// setTypes 参与过滤的系列类型白名单。
var setTypes = map[string]bool{
	"core":             true,
	"expansion":        true,
	"masters":          true,
	"eternal":          true,
	"alchemy":          true,
	"masterpiece":      true,
	"from_the_vault":   true,
	"premium_deck":     true,
	"duel_deck":        true,
	"draft_innovation": true,
	"commander":        true,
	"planechase":       true,
	"funny":            true,
	"starter":          true,
	"box":              true,
	"minigame":         true,
}

// ignoredSets 不出标签的系列代码（测试卡、外文黑边等）。
var ignoredSets = map[string]bool{
	"cmb1": true, "amh1": true, "cmb2": true, "fbb": true,
	"sum": true, "4bb": true, "bchr": true, "rin": true,
	"ren": true, "rqs": true, "itp": true, "sir": true,
	"sis": true, "cst": true,
}

// cardTypesByColor 类别视图的静态目录：颜色到卡牌类别。
var cardTypesByColor = map[string][]string{
	"White":      {"Creature", "Instant", "Sorcery", "Enchantment", "Artifact", "Planeswalker"},
	"Blue":       {"Creature", "Instant", "Sorcery", "Enchantment", "Artifact", "Planeswalker"},
	"Black":      {"Creature", "Instant", "Sorcery", "Enchantment", "Artifact", "Planeswalker"},
	"Red":        {"Creature", "Instant", "Sorcery", "Enchantment", "Artifact", "Planeswalker"},
	"Green":      {"Creature", "Instant", "Sorcery", "Enchantment", "Artifact", "Planeswalker"},
	"Multicolor": {"Creature", "Instant", "Sorcery", "Enchantment", "Artifact", "Planeswalker"},
	"Colorless":  {"Creature", "Artifact", "Land"},
}

// Config 上游客户端配置，零值字段取默认值。
type Config struct {
	BaseURL        string
	SymbologyURL   string
	Timeout        time.Duration
	RetryAttempts  int
	RateLimitDelay time.Duration
	MinSetSize     int
}

func (c *Config) fillDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.SymbologyURL == "" {
		c.SymbologyURL = DefaultSymbologyURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = DefaultRetryAttempts
	}
	if c.RateLimitDelay <= 0 {
		c.RateLimitDelay = DefaultRateLimitDelay
	}
	if c.MinSetSize <= 0 {
		c.MinSetSize = DefaultMinSetSize
	}
}

// Client 带限速与重试的 Scryfall API 客户端。
type Client struct {
	httpClient *http.Client
	cfg        Config
	cache      *cache.Manager
	logger     *log.Logger

	mu          sync.Mutex
	lastRequest time.Time
}

// NewClient 创建客户端。cache 为空时每次都会访问上游。
func NewClient(cfg Config, cacheManager *cache.Manager, logger *log.Logger) *Client {
	cfg.fillDefaults()
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		cache:      cacheManager,
		logger:     logger,
	}
}

// FetchSets 拉取全部系列，分页跟随 next_page，结果进缓存。
func (c *Client) FetchSets(ctx context.Context) ([]Set, error) {
	fetch := func() (any, error) {
		var all []Set
		url := c.cfg.BaseURL
		for url != "" {
			body, err := c.get(ctx, url)
			if err != nil {
				return nil, err
			}
			var page setList
			if err := json.Unmarshal(body, &page); err != nil {
				return nil, fmt.Errorf("解析系列列表失败: %w", err)
			}
			all = append(all, page.Data...)
			if !page.HasMore {
				break
			}
			url = page.NextPage
		}
		c.logger.Printf("从上游拉取 %d 个系列", len(all))
		return all, nil
	}

	if c.cache == nil {
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		return v.([]Set), nil
	}
	v, err := c.cache.GetOrFetch(setsCacheKey, fetch)
	if err != nil {
		return nil, err
	}
	return v.([]Set), nil
}

// FilterSets 按类型白名单、最小卡数、忽略名单与线上系列过滤。
func (c *Client) FilterSets(sets []Set) []Set {
	filtered := make([]Set, 0, len(sets))
	for _, s := range sets {
		if !setTypes[strings.ToLower(s.SetType)] {
			continue
		}
		if s.CardCount < c.cfg.MinSetSize {
			continue
		}
		if ignoredSets[strings.ToLower(s.Code)] {
			continue
		}
		if s.Digital {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}

// GroupSets 按系列类型分组，组名首字母大写。
func GroupSets(sets []Set) map[string][]Set {
	groups := make(map[string][]Set)
	for _, s := range sets {
		group := s.SetType
		if group == "" {
			group = "Other"
		}
		group = capitalize(group)
		groups[group] = append(groups[group], s)
	}
	return groups
}

// CardTypesByColor 返回类别视图目录。
func (c *Client) CardTypesByColor() map[string][]string {
	res := make(map[string][]string, len(cardTypesByColor))
	for color, types := range cardTypesByColor {
		res[color] = append([]string(nil), types...)
	}
	return res
}

// Symbology 返回符号到 SVG 地址的映射（svg_uri 为 null 的符号值为空串）。
func (c *Client) Symbology(ctx context.Context) (map[string]string, error) {
	fetch := func() (any, error) {
		body, err := c.get(ctx, c.cfg.SymbologyURL)
		if err != nil {
			return nil, err
		}
		var list symbolList
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("解析符号表失败: %w", err)
		}
		symbols := make(map[string]string, len(list.Data))
		for _, s := range list.Data {
			if s.Object != "card_symbol" {
				continue
			}
			symbols[s.Symbol] = s.SVGURI
		}
		return symbols, nil
	}

	if c.cache == nil {
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		return v.(map[string]string), nil
	}
	v, err := c.cache.GetOrFetch(symbologyCacheKey, fetch)
	if err != nil {
		return nil, err
	}
	return v.(map[string]string), nil
}

// Download 限速下载任意资源（符号文件等）。
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url)
}

// get 发起一次限速请求，429 与 5xx 按指数退避重试。
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			backoff := 300 * time.Millisecond << (attempt - 1)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		c.applyRateLimit()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("构造请求失败: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "*/*")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("上游返回 %d", resp.StatusCode)
			continue
		default:
			return nil, fmt.Errorf("请求 %s 失败: %d", url, resp.StatusCode)
		}
	}
	return nil, fmt.Errorf("请求 %s 重试 %d 次后失败: %w", url, c.cfg.RetryAttempts, lastErr)
}

// applyRateLimit 距上次请求不足间隔时补足等待。
func (c *Client) applyRateLimit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.lastRequest.IsZero() {
		if elapsed := time.Since(c.lastRequest); elapsed < c.cfg.RateLimitDelay {
			time.Sleep(c.cfg.RateLimitDelay - elapsed)
		}
	}
	c.lastRequest = time.Now()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
