package fonts

import (
	"fmt"
	"os"
	"path/filepath"
)

// 标签使用的两款字体文件名，字体文件随部署放在字体目录下。
const (
	TitleFile = "EBGaramond-Bold.ttf"
	BodyFile  = "SourceSansPro-Regular.ttf"
)

// Resolve 返回字体目录下指定字体文件的路径。
func Resolve(dir, file string) string {
	return filepath.Join(dir, file)
}

// Load 读取字体文件的字节数据。
func Load(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("字体路径不能为空")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("字体文件 %s 为空", path)
	}
	return data, nil
}
