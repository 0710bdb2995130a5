package cache

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// SymbolStore 磁盘符号文件缓存，每个符号一个 {id}.svg 文件。
type SymbolStore struct {
	dir    string
	logger *log.Logger
}

// NewSymbolStore 创建符号缓存目录。
func NewSymbolStore(dir string, logger *log.Logger) (*SymbolStore, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建符号缓存目录 %s 失败: %w", dir, err)
	}
	return &SymbolStore{dir: dir, logger: logger}, nil
}

// Path 返回符号文件的存放路径。
func (s *SymbolStore) Path(id string) string {
	return filepath.Join(s.dir, id+".svg")
}

// Get 返回已缓存且校验通过的符号文件路径。
// 空文件或不是 SVG 内容的坏缓存会被当场删除。
func (s *SymbolStore) Get(id string) (string, bool) {
	path := s.Path(id)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	if !validSVG(data) {
		s.logger.Printf("符号缓存 %s 内容无效，删除重取", path)
		os.Remove(path)
		return "", false
	}
	return path, true
}

// Save 写入符号文件并返回路径。
func (s *SymbolStore) Save(id string, data []byte) (string, error) {
	if !validSVG(data) {
		return "", fmt.Errorf("符号 %s 内容不是有效的 SVG", id)
	}
	path := s.Path(id)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("写入符号缓存 %s 失败: %w", path, err)
	}
	return path, nil
}

// Invalidate 删除指定符号的缓存文件。
func (s *SymbolStore) Invalidate(id string) {
	os.Remove(s.Path(id))
}

// validSVG 检查前 100 字节是否带 SVG 或 XML 头。
func validSVG(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	head := data
	if len(head) > 100 {
		head = head[:100]
	}
	return bytes.Contains(head, []byte("<svg")) || bytes.Contains(head, []byte("<?xml"))
}
