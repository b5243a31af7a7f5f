package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported report format")
	ErrNoSheet           = errors.New("sheet not found")
)

// maxXLSRows bounds how much of a legacy workbook is read
const maxXLSRows = 100000

// ReadFile returns the text of a report. Workbooks are flattened to CSV
// lines first so the parser only ever sees one format. sheet selects the
// worksheet by name; empty means the first sheet.
func ReadFile(path, sheet string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read report: %w", err)
	}
	return Decode(filepath.Base(path), data, sheet)
}

// Decode picks the reader from the file extension
func Decode(name string, data []byte, sheet string) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", "":
		return string(data), nil
	case ".xlsx", ".xlsm":
		rows, err := excelRows(data, sheet)
		if err != nil {
			return "", err
		}
		return rowsToText(rows)
	case ".xls":
		rows, err := xlsRows(data, sheet)
		if err != nil {
			return "", err
		}
		return rowsToText(rows)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// SheetNames lists the worksheets of a workbook. Text reports have none.
func SheetNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		defer func() { _ = f.Close() }()
		return f.GetSheetList(), nil
	case ".xls":
		wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		names := make([]string, 0, wb.NumSheets())
		for i := 0; i < wb.NumSheets(); i++ {
			if s := wb.GetSheet(i); s != nil {
				names = append(names, s.Name)
			}
		}
		return names, nil
	default:
		return nil, nil
	}
}

func excelRows(data []byte, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	name := sheet
	if name == "" {
		name = f.GetSheetName(0)
	}
	if name == "" {
		return nil, ErrNoSheet
	}
	if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSheet, name)
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}
	return rows, nil
}

func xlsRows(data []byte, sheet string) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, ErrNoSheet
	}
	if sheet == "" && wb.NumSheets() == 1 {
		return wb.ReadAllCells(maxXLSRows), nil
	}

	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil || (sheet != "" && ws.Name != sheet) {
			continue
		}
		var rows [][]string
		for r := 0; r <= int(ws.MaxRow) && r < maxXLSRows; r++ {
			row := ws.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		return rows, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoSheet, sheet)
}

// rowsToText writes sheet rows back out as CSV lines. Rows are padded to the
// widest row so trailing empty weekend columns survive.
func rowsToText(rows [][]string) (string, error) {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		record := make([]string, width)
		copy(record, row)
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to flatten sheet: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flatten sheet: %w", err)
	}
	return buf.String(), nil
}
