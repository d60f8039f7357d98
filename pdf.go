package main

import (
	"fmt"
	"strings"

	rpdf "rsc.io/pdf"
)

// PageSource exposes a paginated document: a page count and per-page
// plain-text extraction. Pages are 1-indexed.
type PageSource interface {
	PageCount() int
	PageText(page int) (string, error)
}

type pdfDocument struct {
	reader *rpdf.Reader
}

// OpenPDF opens a PDF file as a PageSource backed by its text layer.
func OpenPDF(path string) (PageSource, error) {
	reader, err := rpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &pdfDocument{reader: reader}, nil
}

func (d *pdfDocument) PageCount() int {
	return d.reader.NumPage()
}

func (d *pdfDocument) PageText(page int) (text string, err error) {
	// rsc.io/pdf panics on some malformed content streams; such pages
	// degrade to an empty text layer rather than failing the run.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = nil
		}
	}()

	p := d.reader.Page(page)
	if p.V.IsNull() {
		return "", nil
	}

	var b strings.Builder
	lastY := 0.0
	for _, t := range p.Content().Text {
		if b.Len() > 0 && t.Y != lastY {
			b.WriteByte('\n')
		}
		b.WriteString(t.S)
		lastY = t.Y
	}
	return b.String(), nil
}

// ExtractRange concatenates the text of pages start..end (1-indexed,
// inclusive) separated by newlines. Bounds are validated up front so a bad
// range never costs a model call. Pages with no text layer contribute an
// empty string.
func ExtractRange(src PageSource, start, end int) (string, error) {
	count := src.PageCount()
	if start < 1 || end > count || start > end {
		return "", fmt.Errorf("%w: pages %d-%d of a %d-page document", ErrInvalidRange, start, end, count)
	}

	var pages []string
	for page := start; page <= end; page++ {
		text, err := src.PageText(page)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", page, err)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}
