package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// ReceiptData carries everything the reservation receipt needs;
// lookups happen at the caller, the generator only renders.
type ReceiptData struct {
	HotelName     string
	ReservationID uint
	GuestName     string
	GuestEmail    string
	RoomNumber    string
	RoomCategory  string
	StartDate     string
	EndDate       string
	TotalCost     string
	Status        string
}

var houseRules = []string{
	"Check-in from 14:00, check-out until 12:00.",
	"Present a valid ID document on arrival.",
	"No smoking in rooms or indoor areas.",
	"Quiet hours between 22:00 and 08:00.",
	"Intentional damage to facilities may be charged.",
	"Unregistered visitors require front-desk authorization.",
	"Pets are not allowed.",
}

func newA4() *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	return pdf
}

func writeRules(pdf *gofpdf.Fpdf, rules []string) {
	pdf.SetFont("Helvetica", "", 10)
	for _, rule := range rules {
		pdf.CellFormat(5, 6, "-", "", 0, "L", false, 0, "")
		pdf.MultiCell(0, 6, rule, "", "L", false)
	}
}

func writeFooter(pdf *gofpdf.Fpdf) {
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5, fmt.Sprintf("Document generated: %s UTC", time.Now().UTC().Format("2006-01-02 15:04:05")), "", 1, "L", false, 0, "")
}

// GenerateReservationPDF renders the payment receipt: a summary table
// of the reservation plus the house rules.
func GenerateReservationPDF(data ReceiptData) ([]byte, error) {
	pdf := newA4()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s - Reservation Confirmation", data.HotelName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 6, "Thank you for your reservation! This document serves as an informational receipt.", "", "L", false)
	pdf.Ln(4)

	rows := [][2]string{
		{"Reservation #", fmt.Sprintf("%d", data.ReservationID)},
		{"Guest", data.GuestName},
		{"Email", data.GuestEmail},
		{"Room", fmt.Sprintf("%s (%s)", data.RoomNumber, data.RoomCategory)},
		{"Dates", fmt.Sprintf("%s to %s", data.StartDate, data.EndDate)},
		{"Total", "$" + data.TotalCost},
		{"Status", data.Status},
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(40, 8, row[0], "1", 0, "L", true, 0, "")
		pdf.CellFormat(130, 8, row[1], "1", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "House rules", "", 1, "L", false, 0, "")
	writeRules(pdf, houseRules[:3])
	writeFooter(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render reservation pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateWelcomePDF renders the static welcome document with the
// full set of house rules.
func GenerateWelcomePDF(hotelName string) ([]byte, error) {
	pdf := newA4()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Welcome to %s!", hotelName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 6, "Thank you for choosing us. Below are the general rules and recommendations for your stay.", "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Rules and recommendations", "", 1, "L", false, 0, "")
	writeRules(pdf, houseRules)
	writeFooter(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render welcome pdf: %w", err)
	}
	return buf.Bytes(), nil
}
