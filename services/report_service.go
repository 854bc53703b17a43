package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	"ventura-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportService builds revenue CSVs over paid reservations, windowed
// by creation time.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

// RangeForDaily returns the [day, day+1) window.
func RangeForDaily(day time.Time) (time.Time, time.Time) {
	start := DateOnly(day)
	return start, start.AddDate(0, 0, 1)
}

// RangeForWeek returns the [start, start+7d) window.
func RangeForWeek(start time.Time) (time.Time, time.Time) {
	s := DateOnly(start)
	return s, s.AddDate(0, 0, 7)
}

// RangeForMonth returns the [first-of-month, first-of-next-month)
// window; December rolls over into January of the next year.
func RangeForMonth(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

type reportRow struct {
	ID         uint
	UserID     uint
	RoomNumber string
	Category   string
	StartDate  time.Time
	EndDate    time.Time
	TotalCost  decimal.Decimal
}

// BuildCSV assembles the report for paid reservations created inside
// [start, end): window header, totals, per-category counts, then the
// detail rows.
func (s *ReportService) BuildCSV(start, end time.Time) ([]byte, error) {
	var rows []reportRow
	err := s.DB.Model(&models.Reservation{}).
		Select("reservations.id", "reservations.user_id",
			"rooms.number AS room_number", "room_types.category",
			"reservations.start_date", "reservations.end_date", "reservations.total_cost").
		Joins("JOIN rooms ON rooms.id = reservations.room_id").
		Joins("JOIN room_types ON room_types.id = rooms.room_type_id").
		Where("reservations.status = ?", models.ReservationPaid).
		Where("reservations.created_at >= ? AND reservations.created_at < ?", start, end).
		Order("reservations.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query report rows: %w", err)
	}

	totalRevenue := decimal.Zero
	byCategory := map[string]int{}
	for _, row := range rows {
		totalRevenue = totalRevenue.Add(row.TotalCost)
		byCategory[row.Category]++
	}
	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"report_from", start.Format("2006-01-02"), "report_to", end.Format("2006-01-02")})
	_ = w.Write([]string{"total_reservations", fmt.Sprintf("%d", len(rows))})
	_ = w.Write([]string{"total_revenue", totalRevenue.StringFixed(2)})
	_ = w.Write([]string{})
	_ = w.Write([]string{"reservations_by_category"})
	_ = w.Write([]string{"category", "count"})
	for _, category := range categories {
		_ = w.Write([]string{category, fmt.Sprintf("%d", byCategory[category])})
	}
	_ = w.Write([]string{})
	_ = w.Write([]string{"reservation_detail"})
	_ = w.Write([]string{"reservation_id", "user_id", "room_number", "category", "start_date", "end_date", "total_cost"})
	for _, row := range rows {
		_ = w.Write([]string{
			fmt.Sprintf("%d", row.ID),
			fmt.Sprintf("%d", row.UserID),
			row.RoomNumber,
			row.Category,
			row.StartDate.Format("2006-01-02"),
			row.EndDate.Format("2006-01-02"),
			row.TotalCost.StringFixed(2),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write report csv: %w", err)
	}
	return buf.Bytes(), nil
}
