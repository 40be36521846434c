// Package ingest turns food corpus files into food documents.
//
// Tabular sources (CSV, XLSX) need a header row naming at least an item
// column; Category, Serving Size and Calories columns are optional. Text
// sources (PDF, DOCX, ODT, RTF, plain text, markdown) yield one food per
// line, with lines such as "Breakfast" or "## Lunch" setting the category of
// the lines that follow.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/kondate/internal/models"
)

// ErrNoHeader is returned for tables without a recognizable item column.
var ErrNoHeader = errors.New("no food table header found")

// SupportedExtensions lists the file extensions Parse understands.
var SupportedExtensions = []string{".csv", ".xlsx", ".pdf", ".docx", ".odt", ".rtf", ".txt", ".md"}

// Parser parses corpus files into food inputs.
type Parser struct{}

// NewParser returns a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads the file at path and parses it according to its extension.
func (p *Parser) ParseFile(path string) ([]*models.FoodInput, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return p.Parse(content, strings.ToLower(filepath.Ext(path)))
}

// Parse parses content according to ext, which includes the leading dot.
// Unknown extensions are treated as plain text.
func (p *Parser) Parse(content []byte, ext string) ([]*models.FoodInput, error) {
	switch strings.ToLower(ext) {
	case ".csv":
		rows, err := readCSV(content)
		if err != nil {
			return nil, err
		}
		return parseTable(rows)
	case ".xlsx":
		return parseExcel(content)
	case ".pdf":
		text, err := extractPDF(content)
		if err != nil {
			return nil, err
		}
		return parseLines(text), nil
	case ".docx":
		text, err := extractDOCX(content)
		if err != nil {
			return nil, err
		}
		return parseLines(text), nil
	case ".odt", ".rtf":
		text, err := extractDocument(content)
		if err != nil {
			return nil, err
		}
		return parseLines(text), nil
	default:
		return parseLines(extractPlain(content)), nil
	}
}

// Supported reports whether ext is one of SupportedExtensions.
func Supported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
