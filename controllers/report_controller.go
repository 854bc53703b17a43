package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"ventura-backend/services"
	"ventura-backend/utils"

	"github.com/gin-gonic/gin"
)

// ReportController serves admin revenue CSVs and the static welcome
// PDF. All routes are behind the admin guard.
type ReportController struct {
	Reports   *services.ReportService
	Files     *utils.FileStore
	HotelName string
}

func NewReportController(reports *services.ReportService, files *utils.FileStore, hotelName string) *ReportController {
	return &ReportController{Reports: reports, Files: files, HotelName: hotelName}
}

func (rc *ReportController) serveCSV(c *gin.Context, rel string, data []byte) {
	abs, err := rc.Files.Put(rel, data)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.FileAttachment(abs, filepath.Base(abs))
}

// Daily builds the report for a single calendar day (?date=YYYY-MM-DD).
func (rc *ReportController) Daily(c *gin.Context) {
	day, ok := parseDate(c.Query("date"))
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	start, end := services.RangeForDaily(day)
	data, err := rc.Reports.BuildCSV(start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	rc.serveCSV(c, fmt.Sprintf("reports/daily_%s.csv", start.Format(dateLayout)), data)
}

// Weekly builds the report for the week starting at ?start=YYYY-MM-DD.
func (rc *ReportController) Weekly(c *gin.Context) {
	startDay, ok := parseDate(c.Query("start"))
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "start must be YYYY-MM-DD")
		return
	}

	start, end := services.RangeForWeek(startDay)
	data, err := rc.Reports.BuildCSV(start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	rc.serveCSV(c, fmt.Sprintf("reports/weekly_%s_%s.csv", start.Format(dateLayout), end.Format(dateLayout)), data)
}

// Monthly builds the report for ?year=&month=.
func (rc *ReportController) Monthly(c *gin.Context) {
	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil || month < 1 || month > 12 {
		utils.JSONError(c, http.StatusBadRequest, "year and month (1-12) required")
		return
	}

	start, end := services.RangeForMonth(year, month)
	data, err := rc.Reports.BuildCSV(start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	rc.serveCSV(c, fmt.Sprintf("reports/monthly_%d_%02d.csv", year, month), data)
}

// Welcome serves the static welcome/house-rules PDF.
func (rc *ReportController) Welcome(c *gin.Context) {
	data, err := services.GenerateWelcomePDF(rc.HotelName)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	rel := "reports/welcome/welcome_hotel.pdf"
	abs, err := rc.Files.Put(rel, data)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.FileAttachment(abs, filepath.Base(abs))
}
