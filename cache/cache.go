// Package cache 提供带 TTL 的内存缓存与磁盘符号文件缓存。
// 上游（Scryfall）建议数据至少缓存 24 小时。
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Stats 缓存命中统计。
type Stats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	Errors  uint64  `json:"errors"`
	Size    int     `json:"size"`
	HitRate float64 `json:"hitRate"`
}

// Manager 互斥锁保护的 TTL 缓存，后台定期清理过期项。
// 由调用方构造注入，不做全局单例。
type Manager struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	maxSize int

	hits   uint64
	misses uint64
	errors uint64

	stop     chan struct{}
	stopOnce sync.Once
}

// NewManager 创建缓存并启动清理协程。maxSize <= 0 表示不限制条目数。
func NewManager(ttl time.Duration, maxSize int) *Manager {
	m := &Manager{
		entries: make(map[string]entry),
		ttl:     ttl,
		maxSize: maxSize,
		stop:    make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

// Close 停止后台清理。
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.removeExpired()
		case <-m.stop:
			return
		}
	}
}

func (m *Manager) removeExpired() {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, key)
		}
	}
}

// Get 返回未过期的缓存值。
func (m *Manager) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		if ok {
			delete(m.entries, key)
		}
		m.misses++
		return nil, false
	}
	m.hits++
	return e.value, true
}

// Set 写入缓存。容量已满时先清过期项，仍满则淘汰最早过期的一条。
func (m *Manager) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxSize > 0 && len(m.entries) >= m.maxSize {
		if _, exists := m.entries[key]; !exists {
			now := time.Now()
			for k, e := range m.entries {
				if now.After(e.expiresAt) {
					delete(m.entries, k)
				}
			}
			if len(m.entries) >= m.maxSize {
				var oldestKey string
				var oldest time.Time
				for k, e := range m.entries {
					if oldestKey == "" || e.expiresAt.Before(oldest) {
						oldestKey = k
						oldest = e.expiresAt
					}
				}
				delete(m.entries, oldestKey)
			}
		}
	}
	m.entries[key] = entry{value: value, expiresAt: time.Now().Add(m.ttl)}
}

// GetOrFetch 缓存未命中时调用 fetch 取数并回填；fetch 失败计入错误数。
func (m *Manager) GetOrFetch(key string, fetch func() (any, error)) (any, error) {
	if v, ok := m.Get(key); ok {
		return v, nil
	}
	v, err := fetch()
	if err != nil {
		m.mu.Lock()
		m.errors++
		m.mu.Unlock()
		return nil, err
	}
	m.Set(key, v)
	return v, nil
}

// Invalidate 删除指定键。
func (m *Manager) Invalidate(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Clear 清空全部缓存。
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry)
}

// Stats 返回当前统计快照。
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Stats{
		Hits:   m.hits,
		Misses: m.misses,
		Errors: m.errors,
		Size:   len(m.entries),
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}
