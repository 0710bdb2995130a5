package scryfall

import (
	"fmt"
	"net/http"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtgtools/labelpress/cache"
	"github.com/mtgtools/labelpress/labels"
)

const sampleSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32 32"><circle cx="16" cy="16" r="15"/></svg>`

func newTestResolver(t *testing.T, handler http.Handler) (*Resolver, *atomic.Int64) {
	t.Helper()
	var downloads atomic.Int64
	counting := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downloads.Add(1)
		handler.ServeHTTP(w, r)
	})
	client, _ := newTestClient(t, counting, nil)
	store, err := cache.NewSymbolStore(t.TempDir(), quietLogger())
	require.NoError(t, err)
	return NewResolver(client, store, quietLogger()), &downloads
}

// TestResolveSetIcon 首次下载落盘，再次解析直接命中磁盘缓存。
func TestResolveSetIcon(t *testing.T) {
	mux := http.NewServeMux()
	var iconURL string
	mux.HandleFunc("/icon.svg", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleSVG)
	})
	resolver, downloads := newTestResolver(t, mux)
	iconURL = resolver.client.cfg.BaseURL[:len(resolver.client.cfg.BaseURL)-len("/sets")] + "/icon.svg"

	item := labels.SetItem{ID: "set-1", Code: "dom", Name: "Dominaria", IconURI: iconURL}

	path, ok := resolver.Resolve(item)
	require.True(t, ok)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleSVG, string(data))

	again, ok := resolver.Resolve(item)
	require.True(t, ok)
	assert.Equal(t, path, again)
	assert.Equal(t, int64(1), downloads.Load())
}

// TestResolveSetIconFailure 下载失败按无符号处理。
func TestResolveSetIconFailure(t *testing.T) {
	mux := http.NewServeMux()
	resolver, _ := newTestResolver(t, mux)

	_, ok := resolver.Resolve(labels.SetItem{ID: "set-2", Code: "bad", IconURI: "http://127.0.0.1:1/icon.svg"})
	assert.False(t, ok)

	_, ok = resolver.Resolve(labels.SetItem{ID: "set-3", Code: "noicon"})
	assert.False(t, ok)
}

// TestResolveManaSymbol 经符号表查地址，下载后落盘。
func TestResolveManaSymbol(t *testing.T) {
	var base string
	mux := http.NewServeMux()
	mux.HandleFunc("/symbology", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data":[{"object":"card_symbol","symbol":"{W}","svg_uri":"%s/W.svg"}]}`, base)
	})
	mux.HandleFunc("/W.svg", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleSVG)
	})
	resolver, _ := newTestResolver(t, mux)
	base = resolver.client.cfg.BaseURL[:len(resolver.client.cfg.BaseURL)-len("/sets")]

	path, ok := resolver.Resolve(labels.TypeItem{Color: "White", TypeName: "Creature"})
	require.True(t, ok)
	assert.FileExists(t, path)
}

// TestResolveUnknownInputs 未知颜色与占位项都不出符号。
func TestResolveUnknownInputs(t *testing.T) {
	resolver, downloads := newTestResolver(t, http.NewServeMux())

	_, ok := resolver.Resolve(labels.TypeItem{Color: "Octarine", TypeName: "Creature"})
	assert.False(t, ok)

	_, ok = resolver.Resolve(labels.Placeholder{})
	assert.False(t, ok)

	assert.Equal(t, int64(0), downloads.Load())
}
