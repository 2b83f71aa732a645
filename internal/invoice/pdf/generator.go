// Package pdf renders invoice documents. It is presentation glue behind the
// workflow's DocumentGenerator port; the engine never sees drawing details.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"intakeflow/internal/invoice/models"
)

const (
	pageLeft  = 50.0
	pageRight = 562.0
)

// Generator writes one PDF per transaction into dir. Regenerating with the
// same transaction ID overwrites the same file, which keeps the adapter
// idempotent per transaction.
type Generator struct {
	dir string
}

func New(dir string) *Generator {
	return &Generator{dir: dir}
}

func (g *Generator) Generate(_ context.Context, st *models.State) (string, error) {
	if st.Invoice.TransactionID == "" {
		return "", fmt.Errorf("transaction ID is empty")
	}
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("create invoice dir: %w", err)
	}
	path := filepath.Join(g.dir, "INV_"+st.Invoice.TransactionID+".pdf")

	doc := fpdf.New("P", "pt", "Letter", "")
	doc.AddPage()

	// Company header
	doc.SetFont("Helvetica", "B", 16)
	doc.Text(pageLeft, 60, "COMPANY NAME")
	doc.SetFont("Helvetica", "", 10)
	doc.Text(pageLeft, 75, "123 Business Street")
	doc.Text(pageLeft, 90, "City, State 12345")

	// Invoice header, right aligned
	doc.SetFont("Helvetica", "B", 24)
	textRight(doc, 60, "INVOICE")
	doc.SetFont("Helvetica", "", 10)
	textRight(doc, 75, "Invoice No: INV-"+st.Invoice.TransactionID)
	textRight(doc, 90, "Transaction ID: TXN-"+st.Invoice.TransactionID)
	textRight(doc, 105, "Date: "+st.Invoice.TransactionDate.Format("2006-01-02"))
	textRight(doc, 120, "Due Date: "+st.Invoice.PaymentDueDate.Format("2006-01-02"))

	doc.Line(pageLeft, 140, pageRight, 140)

	// Bill to
	doc.SetFont("Helvetica", "B", 12)
	doc.Text(pageLeft, 160, "BILL TO")
	doc.SetFont("Helvetica", "", 10)
	doc.Text(pageLeft, 180, "Customer ID: "+st.Customer.UniqueID)
	doc.Text(pageLeft, 195, "Tax ID: "+st.Customer.TaxID)
	doc.Text(pageLeft, 210, "Name: "+strings.TrimSpace(st.Customer.FirstName+" "+st.Customer.LastName))
	doc.Text(pageLeft, 225, "Email: "+st.Customer.Email)

	// Payment details
	doc.SetFont("Helvetica", "B", 12)
	doc.Text(300, 160, "PAYMENT DETAILS")
	doc.SetFont("Helvetica", "", 10)
	doc.Text(300, 180, "Bank: Bank Name")
	doc.Text(300, 195, "Account No: Account No")
	doc.Text(300, 210, "SWIFT: INTLBANK123")

	// Line items
	doc.SetFont("Helvetica", "B", 10)
	doc.Text(pageLeft, 280, "Description")
	doc.Text(350, 280, "Currency")
	textRight(doc, 280, "Amount")
	doc.Line(pageLeft, 288, pageRight, 288)

	doc.SetFont("Helvetica", "", 10)
	doc.Text(pageLeft, 308, "Service Charge")
	doc.Text(350, 308, string(st.Invoice.Currency))
	textRight(doc, 308, st.Invoice.BilledAmount.StringFixed(2))

	doc.Line(pageLeft, 340, pageRight, 340)
	doc.SetFont("Helvetica", "B", 10)
	doc.Text(350, 360, "Total Amount Due")
	textRight(doc, 360, fmt.Sprintf("%s %s", st.Invoice.Currency, st.Invoice.BilledAmount.StringFixed(2)))

	// Payment status with the original color cue: orange while pending.
	doc.SetFont("Helvetica", "", 10)
	doc.Text(pageLeft, 360, "Payment Status:")
	if st.Invoice.PaymentStatus == models.PaymentPending {
		doc.SetTextColor(255, 165, 0)
	} else {
		doc.SetTextColor(0, 128, 0)
	}
	doc.Text(130, 360, strings.ToUpper(string(st.Invoice.PaymentStatus)))
	doc.SetTextColor(0, 0, 0)

	// Footer
	doc.SetFont("Helvetica", "", 9)
	textCentered(doc, 440, "Thank you for your business. This is a computer-generated document. No signature is required.")
	textCentered(doc, 455, "If you have any questions, please contact us at: support@yourcompany.com | (555) 123-4567")

	if err := doc.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write invoice pdf: %w", err)
	}
	return path, nil
}

func textRight(doc *fpdf.Fpdf, y float64, s string) {
	doc.Text(pageRight-doc.GetStringWidth(s), y, s)
}

func textCentered(doc *fpdf.Fpdf, y float64, s string) {
	w, _ := doc.GetPageSize()
	doc.Text((w-doc.GetStringWidth(s))/2, y, s)
}
