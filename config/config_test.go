package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadMissingFile 文件不存在时按默认值运行。
func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "avery5160", cfg.Labels.DefaultTemplate)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL())
	assert.Equal(t, 75*time.Millisecond, cfg.Scryfall.RateLimitDelay())
}

// TestLoadMergesFile 文件内容覆盖默认值，未给出的字段保留默认。
func TestLoadMergesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labelpress.yaml")
	content := `
server:
  port: 9090
cache:
  symbol_dir: symbols
overlay:
  enabled: true
  templates:
    avery5160: templates/avery5160.pdf
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.BindAddress)
	assert.Equal(t, filepath.Join(dir, "symbols"), cfg.Cache.SymbolDir)
	assert.True(t, cfg.Overlay.Enabled)
	assert.Equal(t, filepath.Join(dir, "templates", "avery5160.pdf"), cfg.Overlay.Templates["avery5160"])
}

// TestLoadBadYAML 语法错误直接报错。
func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

// TestEnvOverrides 环境变量优先于配置文件。
func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("SYMBOL_CACHE_DIR", "/tmp/symcache")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/tmp/symcache", cfg.Cache.SymbolDir)
	assert.Equal(t, "0.0.0.0:7070", cfg.Addr())
}

// TestFontPaths 字体路径由目录与文件名拼出。
func TestFontPaths(t *testing.T) {
	cfg := Default()
	cfg.Fonts.Dir = "/opt/fonts"
	assert.Equal(t, "/opt/fonts/EBGaramond-Bold.ttf", cfg.TitleFontPath())
	assert.Equal(t, "/opt/fonts/SourceSansPro-Regular.ttf", cfg.BodyFontPath())
}
