// Package document loads study materials from disk for analysis.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/lennai/lennai/internal/llm"
)

// MaxSize is the largest document accepted.
const MaxSize = 20 << 20

var (
	// ErrEmpty is returned for a zero-byte file.
	ErrEmpty = errors.New("document is empty")

	// ErrTooLarge is returned for files over MaxSize.
	ErrTooLarge = fmt.Errorf("document exceeds %d MiB", MaxSize>>20)
)

// UnsupportedTypeError is returned for a MIME type the tutor cannot read.
type UnsupportedTypeError struct {
	MIMEType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported document type %s", e.MIMEType)
}

// Document is a loaded study material.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte

	// Text is the extracted plain text of a PDF or text file. It is empty
	// for images and for PDFs without a text layer.
	Text  string
	Pages int
}

// Attachment converts d for a provider request.
func (d *Document) Attachment() llm.Attachment {
	return llm.Attachment{Name: d.Name, MIMEType: d.MIMEType, Data: d.Data, Text: d.Text}
}

// Load reads the file at path and detects its type.
func Load(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat document: %w", err)
	}
	if info.Size() > MaxSize {
		return nil, ErrTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return FromBytes(filepath.Base(path), data)
}

// FromBytes builds a Document from in-memory content.
func FromBytes(name string, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data) > MaxSize {
		return nil, ErrTooLarge
	}
	doc := &Document{Name: name, MIMEType: DetectType(name, data), Data: data}

	switch {
	case doc.MIMEType == "application/pdf":
		text, pages, err := ExtractPDFText(data)
		if err != nil {
			slog.Debug("pdf text extraction failed", "name", name, "error", err)
		}
		doc.Text, doc.Pages = text, pages
	case strings.HasPrefix(doc.MIMEType, "text/"):
		doc.Text = string(data)
	case strings.HasPrefix(doc.MIMEType, "image/"):
	default:
		return nil, &UnsupportedTypeError{MIMEType: doc.MIMEType}
	}
	return doc, nil
}

// DetectType returns the MIME type of data, preferring the content
// signature and falling back to the file extension.
func DetectType(name string, data []byte) string {
	sniffed := http.DetectContentType(data)
	base, _, _ := mime.ParseMediaType(sniffed)
	if base != "" && base != "application/octet-stream" && base != "text/plain" {
		return base
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	}
	if byExt := mime.TypeByExtension(filepath.Ext(name)); byExt != "" {
		t, _, _ := mime.ParseMediaType(byExt)
		return t
	}
	if base == "" {
		return "application/octet-stream"
	}
	return base
}

// ExtractPDFText returns the plain text of every page that has one.
func ExtractPDFText(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	pages = r.NumPage()
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		t, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "\n--- Page %d ---\n", i)
		b.WriteString(t)
	}
	return strings.TrimSpace(b.String()), pages, nil
}
