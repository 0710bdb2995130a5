package scryfall

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtgtools/labelpress/cache"
)

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func quietLogger() *log.Logger { return log.New(discardWriter{}, "", 0) }

func newTestClient(t *testing.T, handler http.Handler, cacheManager *cache.Manager) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(Config{
		BaseURL:        srv.URL + "/sets",
		SymbologyURL:   srv.URL + "/symbology",
		Timeout:        5 * time.Second,
		RateLimitDelay: time.Millisecond,
	}, cacheManager, quietLogger())
	return client, srv
}

// TestFetchSetsPagination 跟随 next_page 拉全所有分页。
func TestFetchSetsPagination(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/sets", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data":[{"id":"1","code":"aaa","name":"Alpha"},{"id":"2","code":"bbb","name":"Beta"}],"has_more":true,"next_page":"%s/sets2"}`, srvURL)
	})
	mux.HandleFunc("/sets2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id":"3","code":"ccc","name":"Gamma"}],"has_more":false}`)
	})

	client, srv := newTestClient(t, mux, nil)
	srvURL = srv.URL

	sets, err := client.FetchSets(context.Background())
	require.NoError(t, err)
	require.Len(t, sets, 3)
	assert.Equal(t, "Gamma", sets[2].Name)
}

// TestFetchSetsCaching 命中缓存时不再访问上游。
func TestFetchSetsCaching(t *testing.T) {
	var requests atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/sets", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, `{"data":[{"id":"1","code":"aaa","name":"Alpha"}],"has_more":false}`)
	})

	m := cache.NewManager(time.Minute, 0)
	defer m.Close()
	client, _ := newTestClient(t, mux, m)

	for i := 0; i < 3; i++ {
		sets, err := client.FetchSets(context.Background())
		require.NoError(t, err)
		require.Len(t, sets, 1)
	}
	assert.Equal(t, int64(1), requests.Load())
}

// TestGetRetriesOnServerError 5xx 退避重试，最终成功。
func TestGetRetriesOnServerError(t *testing.T) {
	var requests atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/sets", func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"data":[{"id":"1","code":"aaa","name":"Alpha"}],"has_more":false}`)
	})

	client, _ := newTestClient(t, mux, nil)
	sets, err := client.FetchSets(context.Background())
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, int64(3), requests.Load())
}

// TestGetGivesUpOnClientError 4xx（非 429）不重试，直接失败。
func TestGetGivesUpOnClientError(t *testing.T) {
	var requests atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/sets", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	client, _ := newTestClient(t, mux, nil)
	_, err := client.FetchSets(context.Background())
	require.Error(t, err)
	assert.Equal(t, int64(1), requests.Load())
}

// TestFilterSets 过滤规则：类型白名单、最小卡数、忽略名单、线上系列。
func TestFilterSets(t *testing.T) {
	client := NewClient(Config{}, nil, quietLogger())
	sets := []Set{
		{Code: "dom", Name: "Dominaria", SetType: "expansion", CardCount: 280},
		{Code: "dig", Name: "Digital Only", SetType: "expansion", CardCount: 280, Digital: true},
		{Code: "tiny", Name: "Tiny", SetType: "expansion", CardCount: 3},
		{Code: "cmb1", Name: "Playtest", SetType: "funny", CardCount: 120},
		{Code: "prm", Name: "Promos", SetType: "promo", CardCount: 500},
	}
	filtered := client.FilterSets(sets)
	require.Len(t, filtered, 1)
	assert.Equal(t, "dom", filtered[0].Code)
}

// TestGroupSets 按类型分组且组名首字母大写。
func TestGroupSets(t *testing.T) {
	groups := GroupSets([]Set{
		{Code: "dom", SetType: "expansion"},
		{Code: "m21", SetType: "core"},
		{Code: "znr", SetType: "expansion"},
		{Code: "odd", SetType: ""},
	})
	require.Len(t, groups, 3)
	assert.Len(t, groups["Expansion"], 2)
	assert.Len(t, groups["Core"], 1)
	assert.Len(t, groups["Other"], 1)
}

// TestSymbology 解析符号表，忽略非符号对象。
func TestSymbology(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/symbology", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[
			{"object":"card_symbol","symbol":"{W}","svg_uri":"https://example.com/W.svg"},
			{"object":"card_symbol","symbol":"{X}","svg_uri":null},
			{"object":"other","symbol":"{Z}","svg_uri":"https://example.com/Z.svg"}
		]}`)
	})

	client, _ := newTestClient(t, mux, nil)
	symbols, err := client.Symbology(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/W.svg", symbols["{W}"])
	assert.Empty(t, symbols["{X}"])
	_, ok := symbols["{Z}"]
	assert.False(t, ok)
}

// TestCardTypesByColor 目录包含全部七种颜色且返回副本。
func TestCardTypesByColor(t *testing.T) {
	client := NewClient(Config{}, nil, quietLogger())
	types := client.CardTypesByColor()
	require.Len(t, types, 7)
	require.Contains(t, types, "Multicolor")

	types["White"][0] = "mutated"
	fresh := client.CardTypesByColor()
	assert.Equal(t, "Creature", fresh["White"][0])
}
