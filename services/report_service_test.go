package services

import (
	"strings"
	"testing"
	"time"

	"ventura-backend/models"
)

func TestRangeForDaily(t *testing.T) {
	start, end := RangeForDaily(day(2026, time.March, 10))
	if !start.Equal(day(2026, time.March, 10)) || !end.Equal(day(2026, time.March, 11)) {
		t.Errorf("got [%v, %v)", start, end)
	}
}

func TestRangeForWeek(t *testing.T) {
	start, end := RangeForWeek(day(2026, time.December, 29))
	if !start.Equal(day(2026, time.December, 29)) || !end.Equal(day(2027, time.January, 5)) {
		t.Errorf("got [%v, %v)", start, end)
	}
}

func TestRangeForMonth(t *testing.T) {
	start, end := RangeForMonth(2026, 2)
	if !start.Equal(day(2026, time.February, 1)) || !end.Equal(day(2026, time.March, 1)) {
		t.Errorf("february: got [%v, %v)", start, end)
	}

	// December rolls over into the next year.
	start, end = RangeForMonth(2026, 12)
	if !start.Equal(day(2026, time.December, 1)) || !end.Equal(day(2027, time.January, 1)) {
		t.Errorf("december: got [%v, %v)", start, end)
	}
}

func TestBuildCSV(t *testing.T) {
	db := newTestDB(t)
	reservations := NewReservationService(db)
	reports := NewReportService(db)

	roomA := createRoom(t, db, "101", 55)
	roomB := createRoom(t, db, "102", 80)
	user := createUser(t, db, "guest@example.com", models.RoleCustomer)

	paid1, err := reservations.Create(user.ID, roomA.ID, mar10, mar15) // 275.00
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	mustStatus(t, db, paid1.ID, models.ReservationPaid)

	paid2, err := reservations.Create(user.ID, roomB.ID, mar10, mar12) // 160.00
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	mustStatus(t, db, paid2.ID, models.ReservationPaid)

	// Pending reservations never show up in revenue reports.
	if _, err := reservations.Create(user.ID, roomA.ID, mar15, mar20); err != nil {
		t.Fatalf("Create: %v", err)
	}

	now := time.Now().UTC()
	data, err := reports.BuildCSV(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("BuildCSV: %v", err)
	}
	csvText := string(data)

	if !strings.Contains(csvText, "total_reservations,2") {
		t.Errorf("missing paid count:\n%s", csvText)
	}
	if !strings.Contains(csvText, "total_revenue,435.00") {
		t.Errorf("missing revenue total:\n%s", csvText)
	}
	if !strings.Contains(csvText, "type-101,1") || !strings.Contains(csvText, "type-102,1") {
		t.Errorf("missing per-category counts:\n%s", csvText)
	}
	if !strings.Contains(csvText, "101,type-101,2030-03-10,2030-03-15,275.00") {
		t.Errorf("missing detail row:\n%s", csvText)
	}
	if strings.Contains(csvText, "2030-03-15,2030-03-20") {
		t.Errorf("pending reservation leaked into report:\n%s", csvText)
	}
}

func TestBuildCSVEmptyWindow(t *testing.T) {
	db := newTestDB(t)
	reports := NewReportService(db)

	data, err := reports.BuildCSV(day(2020, time.January, 1), day(2020, time.January, 2))
	if err != nil {
		t.Fatalf("BuildCSV: %v", err)
	}
	csvText := string(data)
	if !strings.Contains(csvText, "total_reservations,0") {
		t.Errorf("missing zero count:\n%s", csvText)
	}
	if !strings.Contains(csvText, "total_revenue,0.00") {
		t.Errorf("missing zero revenue:\n%s", csvText)
	}
}
