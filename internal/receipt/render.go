package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"

	"github.com/Skotchmaster/restaurant/internal/models"
)

const (
	restaurantName    = "Gourmet Delight"
	restaurantAddress = "123 Foodie Lane, Flavor Town, FT 56789"
)

type Data struct {
	ReceiptID uuid.UUID
	OrderID   uuid.UUID
	Status    string
	Total     float64
	Lines     []models.ReceiptLine
	IssuedAt  time.Time
}

// Renderer draws receipts as A4 PDFs. Compress is off in tests so the text stays greppable.
type Renderer struct {
	Compress bool
}

func FileName(receiptID uuid.UUID) string {
	return receiptID.String() + ".pdf"
}

func (r Renderer) Render(d Data) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.Compress)
	pdf.SetTitle("Order Receipt "+d.ReceiptID.String(), false)
	pdf.SetAuthor(restaurantName, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, restaurantName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, restaurantAddress, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Order Receipt", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Receipt ID: "+d.ReceiptID.String(), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Order ID: "+d.OrderID.String(), "", 1, "L", false, 0, "")
	if !d.IssuedAt.IsZero() {
		pdf.CellFormat(0, 6, "Date: "+d.IssuedAt.UTC().Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, "Status: "+d.Status, "", 1, "L", false, 0, "")

	pdf.Ln(2)
	y := pdf.GetY()
	pdf.Line(10, y, 200, y)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(110, 7, "Item", "", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Qty", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Unit", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Amount", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, ln := range d.Lines {
		pdf.CellFormat(110, 6, fmt.Sprintf("%s (Qty: %d)", ln.Name, ln.Quantity), "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", ln.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("$%.2f", ln.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("$%.2f", ln.UnitPrice*float64(ln.Quantity)), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	y = pdf.GetY()
	pdf.Line(10, y, 200, y)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(160, 8, "Total Price", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("$%.2f", d.Total), "", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 6, "Thank you for dining with us!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
