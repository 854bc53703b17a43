package controllers

import (
	"net/http"

	"ventura-backend/middleware"
	"ventura-backend/services"
	"ventura-backend/utils"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	Payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{Payments: payments}
}

type beginPaymentPayload struct {
	ReservationID uint `json:"reservation_id" binding:"required"`
}

type completePaymentPayload struct {
	ReservationID uint `json:"reservation_id" binding:"required"`
}

// CreateOrder begins the payment flow for a pending reservation owned
// by the caller.
func (pc *PaymentController) CreateOrder(c *gin.Context) {
	var payload beginPaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "reservation_id required")
		return
	}

	userID, role := middleware.Caller(c)
	res, approveURL, err := pc.Payments.BeginPayment(payload.ReservationID, userID, role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"reservation_id":   res.ID,
		"payment_order_id": res.PaymentOrderID,
		"approve_url":      approveURL,
	})
}

// CaptureOrder completes the payment flow; the service enforces the
// owner-or-admin rule and the pending gate.
func (pc *PaymentController) CaptureOrder(c *gin.Context) {
	var payload completePaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "reservation_id required")
		return
	}

	userID, role := middleware.Caller(c)
	res, err := pc.Payments.CompletePayment(payload.ReservationID, userID, role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reservation_id":     res.ID,
		"status":             res.Status,
		"payment_capture_id": res.PaymentCaptureID,
	})
}
