package rigidcosts

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// BuildProjectionXLSX renders a projection summary as a workbook with a
// summary sheet and per-month / per-category breakdowns.
func BuildProjectionXLSX(summary *ProjectionSummary) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	monthsSheet := "by_month"
	categoriesSheet := "by_category"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(monthsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(categoriesSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Cost Projection")
	_ = f.SetCellValue(summarySheet, "A3", "From")
	_ = f.SetCellValue(summarySheet, "B3", summary.From.Format("2006-01-02"))
	_ = f.SetCellValue(summarySheet, "A4", "To")
	_ = f.SetCellValue(summarySheet, "B4", summary.To.Format("2006-01-02"))
	_ = f.SetCellValue(summarySheet, "A5", "Occurrences")
	_ = f.SetCellValue(summarySheet, "B5", summary.Count)
	_ = f.SetCellValue(summarySheet, "A6", "Total")
	_ = f.SetCellValue(summarySheet, "B6", summary.Total.InexactFloat64())

	_ = f.SetCellValue(monthsSheet, "A1", "Month")
	_ = f.SetCellValue(monthsSheet, "B1", "Occurrences")
	_ = f.SetCellValue(monthsSheet, "C1", "Total")
	for i, bucket := range summary.ByMonth {
		row := i + 2
		_ = f.SetCellValue(monthsSheet, fmt.Sprintf("A%d", row), bucket.Month)
		_ = f.SetCellValue(monthsSheet, fmt.Sprintf("B%d", row), bucket.Count)
		_ = f.SetCellValue(monthsSheet, fmt.Sprintf("C%d", row), bucket.Total.InexactFloat64())
	}

	_ = f.SetCellValue(categoriesSheet, "A1", "Category")
	_ = f.SetCellValue(categoriesSheet, "B1", "Occurrences")
	_ = f.SetCellValue(categoriesSheet, "C1", "Total")
	for i, cat := range summary.ByCategory {
		row := i + 2
		_ = f.SetCellValue(categoriesSheet, fmt.Sprintf("A%d", row), cat.Category)
		_ = f.SetCellValue(categoriesSheet, fmt.Sprintf("B%d", row), cat.Count)
		_ = f.SetCellValue(categoriesSheet, fmt.Sprintf("C%d", row), cat.Total.InexactFloat64())
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
