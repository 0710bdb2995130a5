package pdfgen

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtgtools/labelpress/labels"
)

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type fakeRenderer struct {
	lastSheet *labels.Sheet
	output    []byte
}

func (r *fakeRenderer) Render(sheet *labels.Sheet) ([]byte, error) {
	r.lastSheet = sheet
	return r.output, nil
}

type fakeMeasurer struct{}

func (fakeMeasurer) TextWidth(text string, _ labels.Font, size float64) float64 {
	return float64(len([]rune(text))) * size * 0.5
}

func newTestGenerator(t *testing.T, opts Options) (*Generator, *fakeRenderer) {
	t.Helper()
	logger := log.New(discardWriter{}, "", 0)
	renderer := &fakeRenderer{output: []byte("%PDF-fake")}
	opts.Registry = labels.NewRegistry(logger)
	opts.Renderer = renderer
	opts.Measurer = fakeMeasurer{}
	opts.Logger = logger
	g, err := NewGenerator(opts)
	require.NoError(t, err)
	return g, renderer
}

// TestGeneratePlain 正常流程返回标签 PDF 与普通文件名。
func TestGeneratePlain(t *testing.T) {
	g, renderer := newTestGenerator(t, Options{})
	items := []labels.Item{
		labels.SetItem{ID: "1", Name: "Dominaria", Code: "dom", ReleasedAt: "2018-04-27"},
		labels.SetItem{ID: "2", Name: "Ravnica Allegiance", Code: "rna", ReleasedAt: "2019-01-25"},
	}

	data, filename, err := g.Generate(items, "avery5160", false)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), data)
	assert.Equal(t, PlainFilename, filename)
	require.NotNil(t, renderer.lastSheet)
	assert.Equal(t, "avery5160", renderer.lastSheet.Template.Name)
	require.Len(t, renderer.lastSheet.Pages, 1)
	assert.Len(t, renderer.lastSheet.Pages[0].Labels, 2)
}

// TestGenerateUnknownTemplate 未注册模板回退到默认模板。
func TestGenerateUnknownTemplate(t *testing.T) {
	g, renderer := newTestGenerator(t, Options{})

	_, filename, err := g.Generate([]labels.Item{labels.SetItem{ID: "1", Name: "Alpha", Code: "lea"}}, "avery-nonexistent", false)
	require.NoError(t, err)
	assert.Equal(t, PlainFilename, filename)
	assert.Equal(t, labels.DefaultTemplate, renderer.lastSheet.Template.Name)
}

// TestGenerateOverlayUnavailable 请求底图但功能关闭或没配底图时降级。
func TestGenerateOverlayUnavailable(t *testing.T) {
	items := []labels.Item{labels.SetItem{ID: "1", Name: "Alpha", Code: "lea"}}

	g, _ := newTestGenerator(t, Options{OverlayEnabled: false})
	data, filename, err := g.Generate(items, "avery5160", true)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), data)
	assert.Equal(t, PlainFilename, filename)

	g, _ = newTestGenerator(t, Options{OverlayEnabled: true, TemplatePDFs: map[string]string{"averyl7160": "x.pdf"}})
	_, filename, err = g.Generate(items, "avery5160", true)
	require.NoError(t, err)
	assert.Equal(t, PlainFilename, filename)
}

// TestGenerateLogsLabelCount 日志记录排入的标签数，占位项不计。
func TestGenerateLogsLabelCount(t *testing.T) {
	var logBuf bytes.Buffer
	logger := log.New(&logBuf, "", 0)
	g, err := NewGenerator(Options{
		Registry: labels.NewRegistry(logger),
		Renderer: &fakeRenderer{output: []byte("%PDF-fake")},
		Measurer: fakeMeasurer{},
		Logger:   logger,
	})
	require.NoError(t, err)

	items := []labels.Item{
		labels.Placeholder{},
		labels.SetItem{ID: "1", Name: "Dominaria", Code: "dom"},
		labels.SetItem{ID: "2", Name: "Ravnica Allegiance", Code: "rna"},
	}
	_, _, err = g.Generate(items, "avery5160", false)
	require.NoError(t, err)
	assert.Contains(t, logBuf.String(), "生成 2 个标签，共 1 页")
}

// TestNewGeneratorValidation 缺少关键依赖时拒绝创建。
func TestNewGeneratorValidation(t *testing.T) {
	logger := log.New(discardWriter{}, "", 0)
	_, err := NewGenerator(Options{Renderer: &fakeRenderer{}, Measurer: fakeMeasurer{}})
	require.Error(t, err)
	_, err = NewGenerator(Options{Registry: labels.NewRegistry(logger), Measurer: fakeMeasurer{}})
	require.Error(t, err)
	_, err = NewGenerator(Options{Registry: labels.NewRegistry(logger), Renderer: &fakeRenderer{}})
	require.Error(t, err)
}
