package controllers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"ventura-backend/middleware"
	"ventura-backend/models"
	"ventura-backend/services"
	"ventura-backend/utils"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type ReservationController struct {
	Reservations *services.ReservationService
	Documents    *services.DocumentService
	Files        *utils.FileStore
}

func NewReservationController(reservations *services.ReservationService, documents *services.DocumentService, files *utils.FileStore) *ReservationController {
	return &ReservationController{Reservations: reservations, Documents: documents, Files: files}
}

type createReservationPayload struct {
	RoomID    uint   `json:"room_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type updateReservationPayload struct {
	UserID    *uint   `json:"user_id"`
	RoomID    *uint   `json:"room_id"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Status    *string `json:"status" binding:"omitempty,oneof=pending paid cancelled"`
}

func parseDate(raw string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, raw)
	return t, err == nil
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err == nil
}

// Create books a pending reservation for the calling user.
func (rc *ReservationController) Create(c *gin.Context) {
	var payload createReservationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "room_id, start_date and end_date required")
		return
	}
	start, okStart := parseDate(payload.StartDate)
	end, okEnd := parseDate(payload.EndDate)
	if !okStart || !okEnd {
		utils.JSONError(c, http.StatusBadRequest, "dates must be YYYY-MM-DD")
		return
	}

	userID, _ := middleware.Caller(c)
	res, err := rc.Reservations.Create(userID, payload.RoomID, start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, res)
}

// ListMine returns the calling user's reservations.
func (rc *ReservationController) ListMine(c *gin.Context) {
	userID, _ := middleware.Caller(c)
	list, err := rc.Reservations.ListByUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// ListAll is admin-only (enforced at the route layer).
func (rc *ReservationController) ListAll(c *gin.Context) {
	list, err := rc.Reservations.ListAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// GetByID serves a reservation to its owner or an admin.
func (rc *ReservationController) GetByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid reservation id")
		return
	}

	res, err := rc.Reservations.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	userID, role := middleware.Caller(c)
	if res.UserID != userID && role != models.RoleAdmin {
		utils.JSONError(c, http.StatusForbidden, "not your reservation")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// Update applies an admin partial update.
func (rc *ReservationController) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid reservation id")
		return
	}

	var payload updateReservationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	patch := services.AdminUpdate{
		UserID: payload.UserID,
		RoomID: payload.RoomID,
		Status: payload.Status,
	}
	if payload.StartDate != nil {
		start, ok := parseDate(*payload.StartDate)
		if !ok {
			utils.JSONError(c, http.StatusBadRequest, "dates must be YYYY-MM-DD")
			return
		}
		patch.StartDate = &start
	}
	if payload.EndDate != nil {
		end, ok := parseDate(*payload.EndDate)
		if !ok {
			utils.JSONError(c, http.StatusBadRequest, "dates must be YYYY-MM-DD")
			return
		}
		patch.EndDate = &end
	}

	res, err := rc.Reservations.UpdateAdmin(id, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// Delete hard-deletes a reservation (admin-only route).
func (rc *ReservationController) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid reservation id")
		return
	}
	if err := rc.Reservations.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BlockedIntervals serves the privacy-preserving availability view
// for calendar rendering.
func (rc *ReservationController) BlockedIntervals(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Query("room_id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "room_id required")
		return
	}

	var from, to *time.Time
	if raw := c.Query("start_date"); raw != "" {
		t, ok := parseDate(raw)
		if !ok {
			utils.JSONError(c, http.StatusBadRequest, "dates must be YYYY-MM-DD")
			return
		}
		from = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, ok := parseDate(raw)
		if !ok {
			utils.JSONError(c, http.StatusBadRequest, "dates must be YYYY-MM-DD")
			return
		}
		to = &t
	}

	var statuses []string
	if raw := c.Query("status"); raw != "" {
		statuses = []string{raw}
	}

	intervals, err := rc.Reservations.BlockedIntervals(uint(roomID), from, to, statuses)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, intervals)
}

// Report generates (or regenerates) the reservation's receipt PDF and
// serves it. Owner or admin only.
func (rc *ReservationController) Report(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid reservation id")
		return
	}

	res, err := rc.Reservations.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	userID, role := middleware.Caller(c)
	if res.UserID != userID && role != models.RoleAdmin {
		utils.JSONError(c, http.StatusForbidden, "not your reservation")
		return
	}

	rel, err := rc.Documents.ReceiptForReservation(res)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	abs := rc.Files.Abs(rel)
	c.FileAttachment(abs, filepath.Base(abs))
}
