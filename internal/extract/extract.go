// Package extract pulls plain text out of uploaded documents so the chat
// layer can feed them to the model. Parsing quality is whatever the
// underlying libraries give; this is plumbing, not analysis.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedType = fmt.Errorf("unsupported file type")

// SupportedExtensions lists the upload types the extractor accepts.
var SupportedExtensions = []string{".pdf", ".txt", ".csv", ".xlsx"}

// Supported reports whether the file name carries an extractable extension.
func Supported(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Text extracts the plain text of the named document.
func Text(fileName string, content []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt", ".csv":
		return string(content), nil
	case ".pdf":
		return pdfText(content)
	case ".xlsx":
		return xlsxText(content)
	default:
		return "", ErrUnsupportedType
	}
}

func pdfText(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func xlsxText(content []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("read xlsx: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		for _, row := range rows {
			sb.WriteString(strings.Join(row, "\t"))
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}
