// Package invoice renders hire invoices and exports records for
// spreadsheets.
package invoice

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"hirebook/internal/modules/hire"
)

const (
	pageMargin    = 10.0
	contentMargin = 15.0
	tableTop      = 110.0
	rowHeight     = 8.0
)

// Payee is printed in the payment section and the footer.
type Payee struct {
	Business    string
	AccountName string
	AccountNo   string
	Bank        string
	Branch      string
	Currency    string
}

// FileName is the download name of a hire's invoice.
func FileName(h hire.Hire) string {
	if h.InvoiceNumber == "" {
		return fmt.Sprintf("invoice-hire-%d.pdf", h.ID)
	}
	return "invoice-" + h.InvoiceNumber + ".pdf"
}

// RenderPDF writes a one-page A4 invoice for h.
func RenderPDF(w io.Writer, h hire.Hire, p Payee) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	left := pageMargin + contentMargin
	pdf.SetMargins(left, pageMargin, left)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetTitle("Invoice "+h.InvoiceNumber, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	width := pageW - pageMargin*2
	pdf.Rect(pageMargin, pageMargin, width, pageH-pageMargin*2, "D")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(pageMargin, 42)
	pdf.CellFormat(width, 10, tr("Invoice"), "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for i, line := range []string{
		"Hire No: " + h.HireNo,
		"Invoice No: " + h.InvoiceNumber,
		"Customer Name: " + h.Name,
		"From: " + h.Pickup,
		"To: " + h.Drop,
	} {
		pdf.Text(left, 60+float64(i)*10, tr(line))
	}
	right := pageMargin + width - 50
	for i, line := range []string{
		"Driver No: " + h.Driver.DriverID,
		"Date: " + h.Date,
		"Time: " + h.Time,
	} {
		pdf.Text(right, 60+float64(i)*10, tr(line))
	}

	tableW := pageW - left*2
	cols := []float64{tableW * 0.45, tableW * 0.25, tableW * 0.30}
	pdf.SetXY(left, tableTop)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 11)
	for i, head := range tableHeader(p) {
		pdf.CellFormat(cols[i], rowHeight, tr(head), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range lineItems(h) {
		for i, cell := range row {
			align := "L"
			if i == 2 {
				align = "R"
			}
			pdf.CellFormat(cols[i], rowHeight, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	finalY := pdf.GetY()

	for i, line := range []string{
		"Payment Details:",
		"Account Name: " + p.AccountName,
		"Account No: " + p.AccountNo,
		"Bank: " + p.Bank,
		"Branch: " + p.Branch,
	} {
		pdf.Text(left, finalY+20+float64(i)*10, tr(line))
	}

	pdf.SetXY(pageMargin, finalY+74)
	pdf.CellFormat(width, 8, tr(footer(p)), "", 0, "C", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("invoice: render %s: %w", h.InvoiceNumber, err)
	}
	return pdf.Output(w)
}

func tableHeader(p Payee) [3]string {
	currency := p.Currency
	if currency == "" {
		currency = "Rs"
	}
	return [3]string{"Description", "Details", "Amount (" + currency + ")"}
}

// lineItems are the table rows: description, details, amount.
func lineItems(h hire.Hire) [][3]string {
	total := h.TotalAmount
	if total == "" {
		total = h.Amount
	}
	return [][3]string{
		{"Initial Km for the trip", h.Km, h.Amount},
		{"Extra Km", h.AdditionalKm, h.ExtraKm},
		{"Additional Days", h.NoOfDays, h.AdditionalDayAmount},
		{"Fuel", "", h.FuelAmount},
		{"Total Fare Payable", "", total},
	}
}

func footer(p Payee) string {
	if p.Business == "" {
		return "Thank you for your business"
	}
	return "Thank you for joining with " + p.Business
}
