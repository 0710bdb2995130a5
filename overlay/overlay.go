// Package overlay 把渲染好的标签文档叠加到标签纸底板 PDF 之上，
// 用于打印前对版检查。底板内容作为 Form XObject 垫在每页标签内容
// 之下，标签页数以标签文档为准。
package overlay

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
	"seehuhn.de/go/pdf/pdfcopy"
)

// bgXObjectName 底板 XObject 在页面资源表中的名字。
const bgXObjectName = "BgTpl"

// dimensionTolerance 页面尺寸比对容差（pt）。
const dimensionTolerance = 1.0

// Merge 把 labelPDF 的每一页垫上 templatePath 底板的对应页。
// 底板页数不足时，超出的标签页复用底板最后一页的独立副本。
// 底板缺失或为空时记录警告并原样返回标签文档，绝不因底板问题
// 丢掉已经生成的标签。
func Merge(labelPDF []byte, templatePath string, logger *log.Logger) ([]byte, error) {
	if logger == nil {
		logger = log.Default()
	}

	bg, err := pdf.Open(templatePath, nil)
	if err != nil {
		logger.Printf("底板模板 %s 打开失败，跳过叠加: %v", templatePath, err)
		return labelPDF, nil
	}
	defer bg.Close()

	bgCount, err := pagetree.NumPages(bg)
	if err != nil {
		logger.Printf("底板模板 %s 页树异常，跳过叠加: %v", templatePath, err)
		return labelPDF, nil
	}
	if bgCount == 0 {
		logger.Printf("底板模板 %s 没有页面，跳过叠加", templatePath)
		return labelPDF, nil
	}

	doc, err := pdf.NewReader(bytes.NewReader(labelPDF), nil)
	if err != nil {
		return nil, fmt.Errorf("解析标签文档失败: %w", err)
	}
	labelCount, err := pagetree.NumPages(doc)
	if err != nil {
		return nil, fmt.Errorf("读取标签文档页数失败: %w", err)
	}

	version := doc.GetMeta().Version
	if bgVersion := bg.GetMeta().Version; bgVersion > version {
		version = bgVersion
	}

	var buf bytes.Buffer
	w, err := pdf.NewWriter(&buf, version, nil)
	if err != nil {
		return nil, fmt.Errorf("创建合并文档失败: %w", err)
	}
	pages := pagetree.NewWriter(w)
	labelCopier := pdfcopy.NewCopier(w, doc)

	for i := 0; i < labelCount; i++ {
		bgNo := i
		if bgNo >= bgCount {
			bgNo = bgCount - 1 // 复用最后一页底板
		}
		if err := stampPage(w, pages, labelCopier, doc, bg, i, bgNo, logger); err != nil {
			return nil, fmt.Errorf("第 %d 页叠加失败: %w", i+1, err)
		}
	}

	pagesRef, err := pages.Close()
	if err != nil {
		return nil, fmt.Errorf("写出页树失败: %w", err)
	}
	meta := w.GetMeta()
	meta.Catalog.Pages = pagesRef
	if srcInfo := doc.GetMeta().Info; srcInfo != nil {
		info := *srcInfo
		meta.Info = &info
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("写出合并文档失败: %w", err)
	}
	return buf.Bytes(), nil
}

// stampPage 把底板第 bgNo 页作为背景垫到标签第 pageNo 页之下，
// 并把合成后的页面追加到输出页树。
func stampPage(w *pdf.Writer, pages *pagetree.Writer, labelCopier *pdfcopy.Copier, doc, bg pdf.Getter, pageNo, bgNo int, logger *log.Logger) error {
	oldRef, pageDict, err := pagetree.GetPage(doc, pageNo)
	if err != nil {
		return fmt.Errorf("读取标签页: %w", err)
	}
	_, bgDict, err := pagetree.GetPage(bg, bgNo)
	if err != nil {
		return fmt.Errorf("读取底板页: %w", err)
	}

	bgBox, err := pdf.GetRectangle(bg, bgDict["MediaBox"])
	if err != nil {
		return fmt.Errorf("读取底板页尺寸: %w", err)
	}
	pageBox, err := pdf.GetRectangle(doc, pageDict["MediaBox"])
	if err != nil {
		return fmt.Errorf("读取标签页尺寸: %w", err)
	}
	if bgBox != nil && pageBox != nil && !bgBox.NearlyEqual(pageBox, dimensionTolerance) {
		logger.Printf("第 %d 页尺寸不一致：标签 %v，底板 %v，按原坐标叠加", pageNo+1, pageBox, bgBox)
	}

	xRef, err := buildBackground(w, bg, bgDict, bgBox, pageBox)
	if err != nil {
		return err
	}

	// 重建页树，页面字典手工登记重定向后再复制
	newRef := w.Alloc()
	labelCopier.Redirect(oldRef, newRef)
	newDict, err := labelCopier.CopyDict(pageDict)
	if err != nil {
		return fmt.Errorf("复制标签页: %w", err)
	}

	// 登记到页面资源表。资源表在源端解析成直接字典再复制，
	// 复制结果可以安全改写。
	srcRes, err := pdf.GetDict(doc, pageDict["Resources"])
	if err != nil {
		return fmt.Errorf("读取标签页资源表: %w", err)
	}
	res, err := labelCopier.CopyDict(srcRes)
	if err != nil {
		return fmt.Errorf("复制标签页资源表: %w", err)
	}
	srcXObjs, err := pdf.GetDict(doc, srcRes["XObject"])
	if err != nil {
		return fmt.Errorf("读取页面 XObject 表: %w", err)
	}
	xobjs, err := labelCopier.CopyDict(srcXObjs)
	if err != nil {
		return fmt.Errorf("复制页面 XObject 表: %w", err)
	}
	xobjs[bgXObjectName] = xRef
	res["XObject"] = xobjs
	newDict["Resources"] = res

	// 前插绘制指令，底板先画，标签内容盖在上面
	cRef := w.Alloc()
	cw, err := w.OpenStream(cRef, nil, pdf.FilterFlate{})
	if err != nil {
		return fmt.Errorf("创建背景绘制流: %w", err)
	}
	fmt.Fprintf(cw, "q\n/%s Do\nQ\n", bgXObjectName)
	if err := cw.Close(); err != nil {
		return fmt.Errorf("关闭背景绘制流: %w", err)
	}

	newContents := pdf.Array{cRef}
	if contents := pageDict["Contents"]; contents != nil {
		resolved, err := pdf.Resolve(doc, contents)
		if err != nil {
			return fmt.Errorf("解析标签页内容流: %w", err)
		}
		switch obj := resolved.(type) {
		case pdf.Array:
			copied, err := labelCopier.CopyArray(obj)
			if err != nil {
				return fmt.Errorf("复制标签页内容流: %w", err)
			}
			newContents = append(newContents, copied...)
		case *pdf.Stream:
			if ref, ok := contents.(pdf.Reference); ok {
				copiedRef, err := labelCopier.CopyReference(ref)
				if err != nil {
					return fmt.Errorf("复制标签页内容流: %w", err)
				}
				newContents = append(newContents, copiedRef)
			}
		}
	}
	newDict["Contents"] = newContents

	return pages.AppendPageRef(newRef, newDict)
}

// buildBackground 把底板页内容封装成输出文档中的 Form XObject。
// 每页使用新的 copier，保证复用的底板页得到独立副本。
func buildBackground(w *pdf.Writer, bg pdf.Getter, bgDict pdf.Dict, bgBox, pageBox *pdf.Rectangle) (pdf.Reference, error) {
	content, err := pagetree.ContentStream(bg, bgDict)
	if err != nil {
		return 0, fmt.Errorf("读取底板内容流: %w", err)
	}

	box := bgBox
	if box == nil {
		box = pageBox
	}
	if box == nil {
		box = &pdf.Rectangle{URx: 612, URy: 792}
	}
	xDict := pdf.Dict{
		"Type":     pdf.Name("XObject"),
		"Subtype":  pdf.Name("Form"),
		"FormType": pdf.Integer(1),
		"BBox":     box,
	}

	bgCopier := pdfcopy.NewCopier(w, bg)
	if bgDict["Resources"] != nil {
		srcRes, err := pdf.GetDict(bg, bgDict["Resources"])
		if err != nil {
			return 0, fmt.Errorf("读取底板资源表: %w", err)
		}
		res, err := bgCopier.CopyDict(srcRes)
		if err != nil {
			return 0, fmt.Errorf("复制底板资源表: %w", err)
		}
		xDict["Resources"] = res
	}

	xRef := w.Alloc()
	stream, err := w.OpenStream(xRef, xDict, pdf.FilterFlate{})
	if err != nil {
		return 0, fmt.Errorf("创建底板 XObject: %w", err)
	}
	if _, err := io.Copy(stream, content); err != nil {
		stream.Close()
		return 0, fmt.Errorf("写入底板内容: %w", err)
	}
	if err := stream.Close(); err != nil {
		return 0, fmt.Errorf("关闭底板 XObject: %w", err)
	}
	return xRef, nil
}
