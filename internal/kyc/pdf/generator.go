// Package pdf renders the compliance record document for completed KYC
// applications.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"intakeflow/internal/kyc/models"
)

const (
	marginLeft = 50.0
	lineHeight = 16.0
	pageBottom = 740.0
)

// Generator writes one compliance PDF per customer into dir. Regenerating for
// the same customer overwrites the same file.
type Generator struct {
	dir string
}

func New(dir string) *Generator {
	return &Generator{dir: dir}
}

// Generate renders every schema section of the application in order and
// returns the file path. Eligibility (Completed status only) is the caller's
// rule; the renderer draws whatever it is handed.
func (g *Generator) Generate(_ context.Context, app models.Application) (string, error) {
	if app.CustomerID == "" {
		return "", fmt.Errorf("customer ID is empty")
	}
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("create document dir: %w", err)
	}
	path := filepath.Join(g.dir, "KYC_"+app.CustomerID+".pdf")

	doc := fpdf.New("P", "pt", "Letter", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.Text(marginLeft, 60, "KNOW YOUR CUSTOMER RECORD")
	doc.SetFont("Helvetica", "", 10)
	doc.Text(marginLeft, 80, "Customer ID: "+app.CustomerID)
	doc.Text(marginLeft, 95, "Submission Date: "+app.SubmissionDate)
	doc.Text(marginLeft, 110, "Status: "+string(app.Status))
	doc.Line(marginLeft, 122, 562, 122)

	values := app.Values()
	y := 150.0
	for _, section := range models.Sections {
		y = g.ensureRoom(doc, y, lineHeight*2)
		doc.SetFont("Helvetica", "B", 12)
		doc.Text(marginLeft, y, section.Title)
		y += lineHeight + 4

		doc.SetFont("Helvetica", "", 10)
		for _, field := range section.Fields {
			v := values[field.Name]
			if v == "" {
				v = "-"
			}
			y = g.ensureRoom(doc, y, lineHeight)
			doc.Text(marginLeft, y, field.Label+":")
			doc.Text(300, y, v)
			y += lineHeight
		}
		y += lineHeight
	}

	y = g.ensureRoom(doc, y, lineHeight*4)
	doc.SetFont("Helvetica", "B", 12)
	doc.Text(marginLeft, y, "Declaration")
	y += lineHeight
	doc.SetFont("Helvetica", "", 9)
	doc.SetXY(marginLeft, y)
	doc.MultiCell(460, 12, models.DeclarationText, "", "L", false)

	if err := doc.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write kyc pdf: %w", err)
	}
	return path, nil
}

func (g *Generator) ensureRoom(doc *fpdf.Fpdf, y, need float64) float64 {
	if y+need <= pageBottom {
		return y
	}
	doc.AddPage()
	return 60.0
}
