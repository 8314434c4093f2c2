// Package extract turns pinned PDF, DOCX and plain-text documents into text.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// DefaultMaxBytes bounds how much pinned content is read for extraction.
	DefaultMaxBytes = 25 << 20
)

// ErrUnsupported is returned for content types without a text extractor.
var ErrUnsupported = errors.New("unsupported content type")

// Fetcher streams pinned content by CID.
type Fetcher interface {
	Fetch(ctx context.Context, cid string) (io.ReadCloser, error)
}

// FromPin downloads cid through f and extracts its text.
func FromPin(ctx context.Context, f Fetcher, cid, fileName string, maxBytes int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	body, err := f.Fetch(ctx, cid)
	if err != nil {
		return "", fmt.Errorf("extract text cid=%s: %w", cid, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(io.LimitReader(body, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("extract text cid=%s: read: %w", cid, err)
	}
	if int64(len(raw)) > maxBytes {
		return "", fmt.Errorf("extract text cid=%s: content exceeds %d bytes", cid, maxBytes)
	}

	text, err := Text(ctx, raw, fileName)
	if err != nil {
		return "", fmt.Errorf("extract text cid=%s: %w", cid, err)
	}
	return text, nil
}

// Text extracts text from an in-memory payload, sniffing the type from the
// bytes and falling back to the file extension.
func Text(ctx context.Context, data []byte, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch kind := detectType(data, fileName); {
	case kind == mimePDF:
		return extractPDF(data)
	case kind == mimeDOCX:
		return extractDOCX(data)
	case strings.HasPrefix(kind, "text/"):
		return strings.TrimSpace(strings.ToValidUTF8(string(data), "")), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, kind)
	}
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	return stripDocxXML(string(raw)), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if last := buf.Len(); last > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func detectType(data []byte, fileName string) string {
	sniffed := strings.ToLower(strings.TrimSpace(strings.Split(http.DetectContentType(data), ";")[0]))
	ext := strings.ToLower(filepath.Ext(fileName))

	switch sniffed {
	case mimePDF:
		return mimePDF
	case "application/zip":
		if mapped := mapOOXMLFromZip(data); mapped != "" {
			return mapped
		}
		if ext == ".docx" {
			return mimeDOCX
		}
		return sniffed
	case "text/plain", "text/html", "text/xml":
		return "text/plain"
	}

	switch ext {
	case ".txt", ".md", ".markdown", ".csv", ".json", ".log":
		if utf8.Valid(data) {
			return "text/plain"
		}
	}
	return sniffed
}

func mapOOXMLFromZip(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		switch name {
		case "word/document.xml":
			return mimeDOCX
		case "xl/workbook.xml":
			return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		case "ppt/presentation.xml":
			return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
		}
	}
	return ""
}
