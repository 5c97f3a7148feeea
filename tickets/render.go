package tickets

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tessera/globals"
	"tessera/models"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

var hmacSecret = globals.JwtSecret

// QRPayload returns a signed payload string:
// orderID|eventID|orderNumber|timestamp|signature
func QRPayload(order models.Order) string {
	data := fmt.Sprintf("%s|%s|%s|%d", order.ID, order.EventID, order.OrderNumber, time.Now().Unix())

	h := hmac.New(sha256.New, hmacSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return fmt.Sprintf("%s|%s", data, sig)
}

// VerifyQRPayload reports whether payload carries a valid signature over
// its data segments.
func VerifyQRPayload(payload string) bool {
	idx := strings.LastIndex(payload, "|")
	if idx < 0 {
		return false
	}
	data, sig := payload[:idx], payload[idx+1:]

	parts := strings.Split(data, "|")
	if len(parts) != 4 {
		return false
	}
	if _, err := strconv.ParseInt(parts[3], 10, 64); err != nil {
		return false
	}

	h := hmac.New(sha256.New, hmacSecret)
	h.Write([]byte(data))
	expected := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sig))
}

// RenderPDF renders an order as an A4 ticket PDF with a signed QR code.
// Callers gate access; this is a pure function of its inputs.
func RenderPDF(order models.Order, event models.Event) ([]byte, error) {
	qrPNG, err := qrcode.Encode(QRPayload(order), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Event Ticket")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Event: %s", event.Title))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Venue: %s, %s", event.Venue, event.Location))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Name: %s", order.BuyerName))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Ticket: %s x%d", order.TicketType, order.TicketQuantity))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Order: %s", order.OrderNumber))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
