package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"production-tracker/internal/storage"
)

const sheetName = "Üretim Kayıtları"

// BuildExcel lays the weekly table out on one sheet: header row, then a merged
// title row per week followed by its records.
func BuildExcel(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("report: rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("report: header style: %w", err)
	}

	weekStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "3730A3"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E0E7FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("report: week style: %w", err)
	}

	lastCol := len(t.Header)
	for i, h := range t.Header {
		f.SetCellValue(sheetName, cellName(i+1, 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cellName(lastCol, 1), headerStyle)

	row := 2
	for _, w := range t.Weeks {
		first, last := cellName(1, row), cellName(lastCol, row)
		f.SetCellValue(sheetName, first, w.Title)
		if err := f.MergeCell(sheetName, first, last); err != nil {
			return nil, fmt.Errorf("report: merge week row %d: %w", row, err)
		}
		f.SetCellStyle(sheetName, first, last, weekStyle)
		row++

		for _, values := range w.Rows {
			for c, v := range values {
				// quantity stays numeric so the sheet can sum it
				if c == 1 {
					f.SetCellValue(sheetName, cellName(c+1, row), int64(storage.ParseQuantity(v)))
					continue
				}
				f.SetCellValue(sheetName, cellName(c+1, row), v)
			}
			row++
		}
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	lastName, _ := excelize.ColumnNumberToName(lastCol)
	f.SetColWidth(sheetName, "A", lastName, 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("report: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
