package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/datavista-cli/internal/analysis"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

// Parse reads a header row followed by data rows. The first column becomes
// the row labels. Blank lines are skipped and short rows are padded.
func (csvParser) Parse(filename string, content []byte, opt Options) (*analysis.Table, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))
	r.Comma = delimiterFor(filename, opt.Delimiter)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var (
		headers []string
		rows    [][]string
	)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if blankRecord(rec) {
			continue
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if headers == nil {
			headers = rec
			continue
		}
		rows = append(rows, rec)
	}
	if len(headers) == 0 {
		return nil, &analysis.Error{Op: "parse", Err: analysis.ErrMalformedTable, Detail: "missing header row"}
	}
	return newTable(headers, rows), nil
}

func delimiterFor(filename string, override rune) rune {
	if override != 0 {
		return override
	}
	if strings.HasSuffix(strings.ToLower(filename), ".tsv") {
		return '\t'
	}
	return ','
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
