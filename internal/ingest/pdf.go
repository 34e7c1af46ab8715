// Package ingest extracts plain text from uploaded documents.
package ingest

import (
	"context"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/cloo-solutions/resumechat/internal/domain"
)

// PDFIngestor turns raw PDF bytes into page-ordered text blocks.
type PDFIngestor struct{}

func NewPDFIngestor() *PDFIngestor {
	return &PDFIngestor{}
}

// Extract writes the uploaded bytes to a temporary file, parses them as a
// PDF and returns one text block per page, in page order. The temporary
// file is removed on every path, including parse failures.
func (i *PDFIngestor) Extract(ctx context.Context, data []byte) ([]string, error) {
	tmp, err := os.CreateTemp("", "resumechat-upload-*.pdf")
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeIngest, "failed to stage upload", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeIngest, "failed to stage upload", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeIngest, "failed to stage upload", err)
	}

	pages, err := readPages(tmp.Name())
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeIngest, "uploaded file is not a parseable PDF", err)
	}

	if !hasText(pages) {
		return nil, domain.ErrEmptyDocument
	}

	return pages, nil
}

func readPages(path string) (pages []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	// The pdf package panics on some malformed inputs; treat that as a
	// parse failure rather than letting it take down the request.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = domain.ErrUnreadablePDF
		}
	}()

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	numPages := reader.NumPage()
	for n := 1; n <= numPages; n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, err
		}
		pages = append(pages, text)
	}

	return pages, nil
}

func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}
