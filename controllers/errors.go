package controllers

import (
	"errors"
	"log"
	"net/http"

	"ventura-backend/services"
	"ventura-backend/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the service error taxonomy onto HTTP
// responses. Business-rule failures are expected outcomes and keep
// their distinguishable messages; anything else is an infrastructure
// fault and collapses to a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidDateRange):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrRoomUnavailable):
		utils.JSONError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidState):
		utils.JSONError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrPaymentNotCompleted):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrPaymentProvider):
		utils.JSONError(c, http.StatusBadGateway, err.Error())
	default:
		log.Printf("internal error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
	}
}
