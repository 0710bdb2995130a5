package canvasrenderer

import (
	"container/list"
	"sync"

	"github.com/tdewolff/canvas"
)

// DrawingCache 缓存解析后的 SVG 图形，避免同一符号反复解析。
// 接近容量上限（80%）时批量淘汰最老的一半，而不是逐条淘汰，
// 减少整批标签渲染时的抖动。
type DrawingCache struct {
	mu      sync.Mutex
	maxSize int
	order   *list.List // 最老的在队首
	items   map[string]*list.Element
}

type cacheItem struct {
	key     string
	drawing *canvas.Canvas
}

// NewDrawingCache 创建容量为 maxSize 的图形缓存，maxSize <= 0 时用默认值 50。
func NewDrawingCache(maxSize int) *DrawingCache {
	if maxSize <= 0 {
		maxSize = 50
	}
	return &DrawingCache{
		maxSize: maxSize,
		order:   list.New(),
		items:   make(map[string]*list.Element),
	}
}

// Get 返回缓存的图形并刷新其新鲜度。
func (c *DrawingCache) Get(key string) (*canvas.Canvas, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToBack(el)
	return el.Value.(*cacheItem).drawing, true
}

// Put 写入图形，必要时先批量淘汰。
func (c *DrawingCache) Put(key string, drawing *canvas.Canvas) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*cacheItem).drawing = drawing
		c.order.MoveToBack(el)
		return
	}
	if c.order.Len() >= c.threshold() {
		c.evictOldest(c.maxSize / 2)
	}
	el := c.order.PushBack(&cacheItem{key: key, drawing: drawing})
	c.items[key] = el
}

// Len 返回当前缓存条目数。
func (c *DrawingCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear 清空缓存。
func (c *DrawingCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element)
}

func (c *DrawingCache) threshold() int {
	t := c.maxSize * 8 / 10
	if t < 1 {
		t = 1
	}
	return t
}

func (c *DrawingCache) evictOldest(n int) {
	for i := 0; i < n; i++ {
		el := c.order.Front()
		if el == nil {
			return
		}
		item := c.order.Remove(el).(*cacheItem)
		delete(c.items, item.key)
	}
}
