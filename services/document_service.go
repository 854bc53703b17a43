package services

import (
	"errors"
	"fmt"
	"strings"

	"ventura-backend/models"
	"ventura-backend/utils"

	"gorm.io/gorm"
)

// DocumentService builds reservation receipts and persists them in
// the file store, recording the relative path on the reservation.
type DocumentService struct {
	DB        *gorm.DB
	Files     *utils.FileStore
	HotelName string
}

func NewDocumentService(db *gorm.DB, files *utils.FileStore, hotelName string) *DocumentService {
	return &DocumentService{DB: db, Files: files, HotelName: hotelName}
}

// ReceiptForReservation renders the receipt PDF for a reservation,
// writes it to the store and saves the path on the record. Documents
// are regenerated idempotently: an existing file at the same path is
// simply overwritten.
func (s *DocumentService) ReceiptForReservation(res *models.Reservation) (string, error) {
	var user models.User
	if err := s.DB.First(&user, res.UserID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to load reservation owner: %w", err)
	}

	var room models.Room
	var roomType models.RoomType
	if err := s.DB.First(&room, res.RoomID).Error; err == nil {
		if err := s.DB.First(&roomType, room.RoomTypeID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("failed to load room type: %w", err)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to load room: %w", err)
	}

	data := ReceiptData{
		HotelName:     s.HotelName,
		ReservationID: res.ID,
		GuestName:     orNA(user.FullName()),
		GuestEmail:    orNA(user.Email),
		RoomNumber:    orNA(room.Number),
		RoomCategory:  orNA(roomType.Category),
		StartDate:     res.StartDate.Format("2006-01-02"),
		EndDate:       res.EndDate.Format("2006-01-02"),
		TotalCost:     res.TotalCost.StringFixed(2),
		Status:        res.Status,
	}

	pdfBytes, err := GenerateReservationPDF(data)
	if err != nil {
		return "", err
	}

	rel := fmt.Sprintf("receipts/%d/%02d/reservation_%d.pdf", res.CreatedAt.Year(), int(res.CreatedAt.Month()), res.ID)
	if _, err := s.Files.Put(rel, pdfBytes); err != nil {
		return "", err
	}

	if res.ReportPath == nil || *res.ReportPath != rel {
		if err := s.DB.Model(&models.Reservation{}).Where("id = ?", res.ID).
			Update("report_path", rel).Error; err != nil {
			return "", fmt.Errorf("failed to store report path: %w", err)
		}
		res.ReportPath = &rel
	}
	return rel, nil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return strings.TrimSpace(s)
}
