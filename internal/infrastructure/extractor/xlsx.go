package extractor

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

func readXlsx(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var out strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %s: %w", sheet, err)
		}

		maxCols := 0
		for _, row := range rows {
			maxCols = max(maxCols, len(row))
		}

		fmt.Fprintf(&out, "=== Sheet: %s ===\n", sheet)
		for r, row := range rows {
			cells := make([]string, maxCols)
			nonEmpty := false
			for c := 0; c < maxCols; c++ {
				var value string
				if c < len(row) {
					value = strings.TrimSpace(row[c])
				}
				if value != "" {
					nonEmpty = true
				}
				if color := fillColor(f, sheet, c+1, r+1); color != "" {
					value += "[#" + color + "]"
					nonEmpty = true
				}
				cells[c] = value
			}
			if !nonEmpty {
				continue
			}
			fmt.Fprintf(&out, "Row %d: %s\n", r+1, strings.Join(trimTrailing(cells), " | "))
		}
	}
	return strings.TrimRight(out.String(), "\n"), nil
}

// fillColor returns the RRGGBB background of a cell, or "" for the default fill.
func fillColor(f *excelize.File, sheet string, col, row int) string {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil || styleID == 0 {
		return ""
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil || len(style.Fill.Color) == 0 {
		return ""
	}
	color := strings.ToUpper(strings.TrimPrefix(style.Fill.Color[0], "#"))
	if len(color) == 8 {
		color = color[2:]
	}
	if color == "" || color == "FFFFFF" {
		return ""
	}
	return color
}

func trimTrailing(cells []string) []string {
	n := len(cells)
	for n > 0 && cells[n-1] == "" {
		n--
	}
	return cells[:n]
}
