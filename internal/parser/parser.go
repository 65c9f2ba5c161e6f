package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/datavista-cli/internal/analysis"
)

// Options tune how a file is turned into a table.
type Options struct {
	// Delimiter overrides the CSV field separator. Zero picks one from the
	// file extension.
	Delimiter rune
	// Sheet selects an XLSX sheet by name. SheetIndex is 1-based and used
	// when Sheet is empty; zero means the first sheet.
	Sheet      string
	SheetIndex int
}

// Parser turns raw file content into a table.
type Parser interface {
	CanParse(filename string) bool
	Parse(filename string, content []byte, opt Options) (*analysis.Table, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ErrUnsupported indicates a format is not supported.
var ErrUnsupported = errors.New("unsupported dataset format")

// ParseFile reads path and parses it with the first parser that accepts the
// filename.
func ParseFile(path string, opt Options) (*analysis.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ParseBytes(filepath.Base(path), data, opt)
}

// ParseBytes parses content named filename. The result is always validated.
func ParseBytes(filename string, content []byte, opt Options) (*analysis.Table, error) {
	for _, p := range registry {
		if !p.CanParse(filename) {
			continue
		}
		t, err := p.Parse(filename, content, opt)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(filename))
}

// Supported reports whether some registered parser accepts filename.
func Supported(filename string) bool {
	for _, p := range registry {
		if p.CanParse(filename) {
			return true
		}
	}
	return false
}

func init() {
	Register(csvParser{})
	Register(jsonParser{})
	Register(xlsxParser{})
}

// newTable builds a table whose first header is the label column. Rows are
// padded or cut to the header width.
func newTable(headers []string, rows [][]string) *analysis.Table {
	t := &analysis.Table{
		Headers: headers,
		Labels:  make([]string, 0, len(rows)),
		Columns: make(map[string][]analysis.Value, len(headers)),
	}
	for _, h := range headers[1:] {
		t.Columns[h] = make([]analysis.Value, 0, len(rows))
	}
	for _, row := range rows {
		t.Labels = append(t.Labels, cell(row, 0))
		for i, h := range headers[1:] {
			t.Columns[h] = append(t.Columns[h], analysis.ParseValue(cell(row, i+1)))
		}
	}
	return t
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
