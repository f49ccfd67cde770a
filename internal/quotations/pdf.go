package quotations

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// BuildPDF renders a quotation as a printable PDF.
func BuildPDF(q *Quotation, clientName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	title := "Quotation"
	if q.Number != "" {
		title = fmt.Sprintf("Quotation %s", q.Number)
	}
	pdf.Cell(0, 8, title)
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Client: %s", clientName))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Title: %s", q.Title))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", q.Status))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", q.CreatedAt.Format("2006-01-02")))
	pdf.Ln(5)
	if q.ValidUntil != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Valid until: %s", q.ValidUntil.Format("2006-01-02")))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(80, 6, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 6, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Unit Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Disc %", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, item := range q.Items {
		lineTotal, err := LineTotal(item)
		if err != nil {
			return nil, err
		}
		pdf.CellFormat(80, 6, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, item.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, item.DiscountPct.StringFixed(1), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, lineTotal.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.Cell(0, 6, fmt.Sprintf("Subtotal: %s %s", q.Subtotal.StringFixed(2), q.Currency))
	pdf.Ln(5)
	if q.GlobalDiscountPct.IsPositive() {
		pdf.Cell(0, 6, fmt.Sprintf("After %s%% discount: %s %s",
			q.GlobalDiscountPct.StringFixed(1), q.DiscountedSubtotal.StringFixed(2), q.Currency))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Tax (%s%%): %s %s",
		q.TaxRatePct.StringFixed(1), q.TaxAmount.StringFixed(2), q.Currency))
	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Grand total: %s %s", q.GrandTotal.StringFixed(2), q.Currency))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
