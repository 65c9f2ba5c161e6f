package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/datavista-cli/internal/analysis"
)

type xlsxParser struct{}

func (xlsxParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Parse reads one worksheet. Its first non-blank row is the header and its
// first column the row labels. Numbers in date-formatted cells come back as
// ISO dates so they infer as Date rather than Numeric.
func (xlsxParser) Parse(filename string, content []byte, opt Options) (*analysis.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), opt.Sheet, opt.SheetIndex)
	if err != nil {
		return nil, fmt.Errorf("%w in workbook '%s'", err, filename)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet '%s': %w", sheet, err)
	}
	cells := newCellReader(f, sheet)

	var (
		headers []string
		rows    [][]string
	)
	for ri, row := range raw {
		rec := make([]string, len(row))
		for ci, v := range row {
			rec[ci] = cells.text(ci, ri, strings.TrimSpace(v))
		}
		if blankRecord(rec) {
			continue
		}
		if headers == nil {
			headers = rec
			continue
		}
		rows = append(rows, rec)
	}
	if len(headers) == 0 {
		return nil, &analysis.Error{Op: "parse", Err: analysis.ErrMalformedTable, Detail: "worksheet has no header row"}
	}
	return newTable(headers, rows), nil
}

// pickSheet resolves a sheet by name (case-insensitive), else by 1-based
// position. Zero selects the first sheet.
func pickSheet(sheets []string, name string, index int) (string, error) {
	if name != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, name) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found (available: %s)", name, strings.Join(sheets, ", "))
	}
	if index <= 0 {
		index = 1
	}
	if index > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", index, len(sheets))
	}
	return sheets[index-1], nil
}

// cellReader restores what raw values lose: boolean text and dates.
type cellReader struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	// dateStyle caches isDateStyle per style ID.
	dateStyle map[int]bool
}

func newCellReader(f *excelize.File, sheet string) *cellReader {
	r := &cellReader{f: f, sheet: sheet, dateStyle: map[int]bool{}}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}
	return r
}

func (r *cellReader) text(col, row int, raw string) string {
	num, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return raw
	}
	if ct, err := r.f.GetCellType(r.sheet, ref); err == nil && ct == excelize.CellTypeBool {
		if num != 0 {
			return "TRUE"
		}
		return "FALSE"
	}
	styleID, err := r.f.GetCellStyle(r.sheet, ref)
	if err != nil || styleID == 0 || !r.isDate(styleID) {
		return raw
	}
	t, err := excelize.ExcelDateToTime(num, r.date1904)
	if err != nil {
		return raw
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

func (r *cellReader) isDate(styleID int) bool {
	if v, ok := r.dateStyle[styleID]; ok {
		return v
	}
	v := false
	if style, err := r.f.GetStyle(styleID); err == nil {
		v = isDateStyle(style.NumFmt, style.CustomNumFmt)
	}
	r.dateStyle[styleID] = v
	return v
}

// isDateStyle reports whether a number format renders a calendar date. Built-in
// IDs 14-22 and 45-47 are the date and time formats; custom codes count when
// they use a year or day token outside quoted text and bracketed sections.
func isDateStyle(numFmt int, custom *string) bool {
	if custom != nil && *custom != "" {
		return customDateFormat(*custom)
	}
	return (numFmt >= 14 && numFmt <= 22) || (numFmt >= 45 && numFmt <= 47)
}

func customDateFormat(code string) bool {
	var (
		quoted  bool
		bracket bool
	)
	for _, c := range strings.ToLower(code) {
		switch {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '[':
			bracket = true
		case c == ']':
			bracket = false
		case bracket:
		case c == 'y' || c == 'd':
			return true
		}
	}
	return false
}
